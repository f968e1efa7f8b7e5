package httpserver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/suhangowda96/dairyfarm/internal/domain"
	"github.com/suhangowda96/dairyfarm/internal/upstream"
)

func formTrimmed(c echo.Context, name string) string {
	return strings.TrimSpace(c.FormValue(name))
}

func requireField(value, label string) error {
	if value == "" {
		return fmt.Errorf("%s is required", label)
	}
	return nil
}

func parseDate(value, label string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return "", fmt.Errorf("%s must be a date in YYYY-MM-DD form", label)
	}
	return value, nil
}

func parseFloat(value, label string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", label)
	}
	return f, nil
}

func parseCount(value, label string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number", label)
	}
	return n, nil
}

func dateField(name, label string) formField {
	return formField{Name: name, Label: label, Type: "date"}
}

func textField(name, label string) formField {
	return formField{Name: name, Label: label, Type: "text"}
}

func numberField(name, label string) formField {
	return formField{Name: name, Label: label, Type: "number"}
}

func selectField(name, label string, options ...string) formField {
	return formField{Name: name, Label: label, Type: "select", Options: options}
}

func healthRecordsScreen() screen[domain.HealthRecord] {
	return screen[domain.HealthRecord]{
		slug:     "health-records",
		title:    "Animal Health Records",
		resource: upstream.ResourceHealthRecords,
		columns:  []string{"Cattle Tag", "Symptoms", "Diagnosis", "Treatment", "Date"},
		fields: []formField{
			textField("cattle_tag", "Cattle Tag"),
			textField("symptoms", "Symptoms"),
			textField("diagnosis", "Diagnosis"),
			textField("treatment", "Treatment"),
			dateField("date", "Date"),
		},
		id: func(r domain.HealthRecord) int { return r.ID },
		row: func(r domain.HealthRecord) []string {
			return []string{r.CattleTag, r.Symptoms, r.Diagnosis, r.Treatment, r.Date}
		},
		fromForm: func(c echo.Context) (domain.HealthRecord, error) {
			rec := domain.HealthRecord{
				CattleTag: formTrimmed(c, "cattle_tag"),
				Symptoms:  formTrimmed(c, "symptoms"),
				Diagnosis: formTrimmed(c, "diagnosis"),
				Treatment: formTrimmed(c, "treatment"),
			}
			if err := requireField(rec.CattleTag, "cattle tag"); err != nil {
				return rec, err
			}
			if err := requireField(rec.Symptoms, "symptoms"); err != nil {
				return rec, err
			}
			date, err := parseDate(formTrimmed(c, "date"), "date")
			if err != nil {
				return rec, err
			}
			rec.Date = date
			return rec, nil
		},
	}
}

func medicinesScreen() screen[domain.MedicineRecord] {
	return screen[domain.MedicineRecord]{
		slug:     "medicines",
		title:    "Medicine Administration",
		resource: upstream.ResourceMedicines,
		columns:  []string{"Cattle Tag", "Medicine", "Dose", "Route", "Date"},
		fields: []formField{
			textField("cattle_tag", "Cattle Tag"),
			textField("medicine", "Medicine"),
			textField("dose", "Dose"),
			selectField("route", "Route", "oral", "IM", "IV", "topical"),
			dateField("date", "Date"),
		},
		id: func(r domain.MedicineRecord) int { return r.ID },
		row: func(r domain.MedicineRecord) []string {
			return []string{r.CattleTag, r.Medicine, r.Dose, r.Route, r.Date}
		},
		fromForm: func(c echo.Context) (domain.MedicineRecord, error) {
			rec := domain.MedicineRecord{
				CattleTag: formTrimmed(c, "cattle_tag"),
				Medicine:  formTrimmed(c, "medicine"),
				Dose:      formTrimmed(c, "dose"),
				Route:     formTrimmed(c, "route"),
			}
			if err := requireField(rec.CattleTag, "cattle tag"); err != nil {
				return rec, err
			}
			if err := requireField(rec.Medicine, "medicine"); err != nil {
				return rec, err
			}
			date, err := parseDate(formTrimmed(c, "date"), "date")
			if err != nil {
				return rec, err
			}
			rec.Date = date
			return rec, nil
		},
	}
}

func shedChecksScreen() screen[domain.ShedCheck] {
	return screen[domain.ShedCheck]{
		slug:     "shed-checks",
		title:    "Shed Environment Checks",
		resource: upstream.ResourceShedChecks,
		columns:  []string{"Shed", "Temperature (°C)", "Humidity (%)", "Cleanliness", "Date"},
		fields: []formField{
			textField("shed", "Shed"),
			numberField("temperature", "Temperature (°C)"),
			numberField("humidity", "Humidity (%)"),
			selectField("cleanliness", "Cleanliness", "good", "fair", "poor"),
			dateField("date", "Date"),
		},
		id: func(r domain.ShedCheck) int { return r.ID },
		row: func(r domain.ShedCheck) []string {
			return []string{
				r.Shed,
				strconv.FormatFloat(r.Temperature, 'f', 1, 64),
				strconv.FormatFloat(r.Humidity, 'f', 1, 64),
				r.Cleanliness,
				r.Date,
			}
		},
		fromForm: func(c echo.Context) (domain.ShedCheck, error) {
			rec := domain.ShedCheck{
				Shed:        formTrimmed(c, "shed"),
				Cleanliness: formTrimmed(c, "cleanliness"),
			}
			if err := requireField(rec.Shed, "shed"); err != nil {
				return rec, err
			}
			temp, err := parseFloat(formTrimmed(c, "temperature"), "temperature")
			if err != nil {
				return rec, err
			}
			humidity, err := parseFloat(formTrimmed(c, "humidity"), "humidity")
			if err != nil {
				return rec, err
			}
			if humidity < 0 || humidity > 100 {
				return rec, errors.New("humidity must be between 0 and 100")
			}
			date, err := parseDate(formTrimmed(c, "date"), "date")
			if err != nil {
				return rec, err
			}
			rec.Temperature = temp
			rec.Humidity = humidity
			rec.Date = date
			return rec, nil
		},
	}
}

func monthlySummariesScreen() screen[domain.MonthlySummary] {
	return screen[domain.MonthlySummary]{
		slug:     "monthly-summaries",
		title:    "Vaccination & Breeding Summaries",
		resource: upstream.ResourceMonthlySummaries,
		columns:  []string{"Month", "Vaccinations", "Breedings", "Births", "Notes"},
		fields: []formField{
			textField("month", "Month (YYYY-MM)"),
			numberField("vaccinations", "Vaccinations"),
			numberField("breedings", "Breedings"),
			numberField("births", "Births"),
			textField("notes", "Notes"),
		},
		id: func(r domain.MonthlySummary) int { return r.ID },
		row: func(r domain.MonthlySummary) []string {
			return []string{
				r.Month,
				strconv.Itoa(r.Vaccinations),
				strconv.Itoa(r.Breedings),
				strconv.Itoa(r.Births),
				r.Notes,
			}
		},
		fromForm: func(c echo.Context) (domain.MonthlySummary, error) {
			rec := domain.MonthlySummary{
				Month: formTrimmed(c, "month"),
				Notes: formTrimmed(c, "notes"),
			}
			if _, err := time.Parse("2006-01", rec.Month); err != nil {
				return rec, errors.New("month must be in YYYY-MM form")
			}
			var err error
			if rec.Vaccinations, err = parseCount(formTrimmed(c, "vaccinations"), "vaccinations"); err != nil {
				return rec, err
			}
			if rec.Breedings, err = parseCount(formTrimmed(c, "breedings"), "breedings"); err != nil {
				return rec, err
			}
			if rec.Births, err = parseCount(formTrimmed(c, "births"), "births"); err != nil {
				return rec, err
			}
			return rec, nil
		},
	}
}

func calfVaccinationsScreen() screen[domain.CalfVaccination] {
	return screen[domain.CalfVaccination]{
		slug:     "calf-vaccinations",
		title:    "Calf Vaccination Schedule",
		resource: upstream.ResourceCalfVaccinations,
		columns:  []string{"Calf Tag", "Vaccine", "Due Date", "Given On", "Status"},
		fields: []formField{
			textField("calf_tag", "Calf Tag"),
			textField("vaccine", "Vaccine"),
			dateField("due_date", "Due Date"),
			dateField("given_on", "Given On"),
			selectField("status", "Status", "scheduled", "given", "overdue"),
		},
		id: func(r domain.CalfVaccination) int { return r.ID },
		row: func(r domain.CalfVaccination) []string {
			return []string{r.CalfTag, r.Vaccine, r.DueDate, r.GivenOn, r.Status}
		},
		fromForm: func(c echo.Context) (domain.CalfVaccination, error) {
			rec := domain.CalfVaccination{
				CalfTag: formTrimmed(c, "calf_tag"),
				Vaccine: formTrimmed(c, "vaccine"),
				Status:  formTrimmed(c, "status"),
			}
			if err := requireField(rec.CalfTag, "calf tag"); err != nil {
				return rec, err
			}
			if err := requireField(rec.Vaccine, "vaccine"); err != nil {
				return rec, err
			}
			due, err := parseDate(formTrimmed(c, "due_date"), "due date")
			if err != nil {
				return rec, err
			}
			rec.DueDate = due
			// Given-on stays empty until the shot is recorded.
			if given := formTrimmed(c, "given_on"); given != "" {
				if rec.GivenOn, err = parseDate(given, "given on"); err != nil {
					return rec, err
				}
			}
			return rec, nil
		},
	}
}

func incomeScreen() screen[domain.IncomeRecord] {
	return screen[domain.IncomeRecord]{
		slug:      "income",
		title:     "Income Summary",
		resource:  upstream.ResourceIncome,
		adminOnly: true,
		columns:   []string{"Source", "Amount", "Date", "Notes"},
		fields: []formField{
			textField("source", "Source"),
			numberField("amount", "Amount"),
			dateField("date", "Date"),
			textField("notes", "Notes"),
		},
		id: func(r domain.IncomeRecord) int { return r.ID },
		row: func(r domain.IncomeRecord) []string {
			return []string{r.Source, strconv.FormatFloat(r.Amount, 'f', 2, 64), r.Date, r.Notes}
		},
		fromForm: func(c echo.Context) (domain.IncomeRecord, error) {
			rec := domain.IncomeRecord{
				Source: formTrimmed(c, "source"),
				Notes:  formTrimmed(c, "notes"),
			}
			if err := requireField(rec.Source, "source"); err != nil {
				return rec, err
			}
			amount, err := parseFloat(formTrimmed(c, "amount"), "amount")
			if err != nil {
				return rec, err
			}
			if amount < 0 {
				return rec, errors.New("amount cannot be negative")
			}
			date, err := parseDate(formTrimmed(c, "date"), "date")
			if err != nil {
				return rec, err
			}
			rec.Amount = amount
			rec.Date = date
			return rec, nil
		},
	}
}

func staffPerformanceScreen() screen[domain.StaffPerformance] {
	return screen[domain.StaffPerformance]{
		slug:      "staff-performance",
		title:     "Staff Performance",
		resource:  upstream.ResourceStaffPerformance,
		adminOnly: true,
		columns:   []string{"Staff", "Duty", "Rating", "Remarks", "Month"},
		fields: []formField{
			textField("staff", "Staff"),
			textField("duty", "Duty"),
			numberField("rating", "Rating (1-5)"),
			textField("remarks", "Remarks"),
			textField("month", "Month (YYYY-MM)"),
		},
		id: func(r domain.StaffPerformance) int { return r.ID },
		row: func(r domain.StaffPerformance) []string {
			return []string{r.Staff, r.Duty, strconv.Itoa(r.Rating), r.Remarks, r.Month}
		},
		fromForm: func(c echo.Context) (domain.StaffPerformance, error) {
			rec := domain.StaffPerformance{
				Staff:   formTrimmed(c, "staff"),
				Duty:    formTrimmed(c, "duty"),
				Remarks: formTrimmed(c, "remarks"),
				Month:   formTrimmed(c, "month"),
			}
			if err := requireField(rec.Staff, "staff"); err != nil {
				return rec, err
			}
			rating, err := parseCount(formTrimmed(c, "rating"), "rating")
			if err != nil {
				return rec, err
			}
			if rating < 1 || rating > 5 {
				return rec, errors.New("rating must be between 1 and 5")
			}
			if _, err := time.Parse("2006-01", rec.Month); err != nil {
				return rec, errors.New("month must be in YYYY-MM form")
			}
			rec.Rating = rating
			return rec, nil
		},
	}
}
