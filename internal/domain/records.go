package domain

// Record types mirror the JSON shapes of the farm API's list endpoints.
// Dates travel as "2006-01-02" strings, exactly as the API sends them.

type HealthRecord struct {
	ID        int    `json:"id,omitempty"`
	CattleTag string `json:"cattle_tag"`
	Symptoms  string `json:"symptoms"`
	Diagnosis string `json:"diagnosis"`
	Treatment string `json:"treatment"`
	Date      string `json:"date"`
}

type MedicineRecord struct {
	ID        int    `json:"id,omitempty"`
	CattleTag string `json:"cattle_tag"`
	Medicine  string `json:"medicine"`
	Dose      string `json:"dose"`
	Route     string `json:"route"`
	Date      string `json:"date"`
}

type ShedCheck struct {
	ID          int     `json:"id,omitempty"`
	Shed        string  `json:"shed"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Cleanliness string  `json:"cleanliness"`
	Date        string  `json:"date"`
}

type MonthlySummary struct {
	ID           int    `json:"id,omitempty"`
	Month        string `json:"month"`
	Vaccinations int    `json:"vaccinations"`
	Breedings    int    `json:"breedings"`
	Births       int    `json:"births"`
	Notes        string `json:"notes"`
}

type CalfVaccination struct {
	ID      int    `json:"id,omitempty"`
	CalfTag string `json:"calf_tag"`
	Vaccine string `json:"vaccine"`
	DueDate string `json:"due_date"`
	GivenOn string `json:"given_on,omitempty"`
	Status  string `json:"status"`
}

type IncomeRecord struct {
	ID     int     `json:"id,omitempty"`
	Source string  `json:"source"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Notes  string  `json:"notes"`
}

type StaffPerformance struct {
	ID      int    `json:"id,omitempty"`
	Staff   string `json:"staff"`
	Duty    string `json:"duty"`
	Rating  int    `json:"rating"`
	Remarks string `json:"remarks"`
	Month   string `json:"month"`
}
