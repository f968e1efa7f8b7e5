package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/suhangowda96/dairyfarm/internal/platform/retry"
)

// Record resources exposed by the farm API under /api/<resource>/.
const (
	ResourceHealthRecords    = "health-records"
	ResourceMedicines        = "medicines"
	ResourceShedChecks       = "shed-checks"
	ResourceMonthlySummaries = "monthly-summaries"
	ResourceCalfVaccinations = "calf-vaccinations"
	ResourceIncome           = "income"
	ResourceStaffPerformance = "staff-performance"
)

var listRetryPolicy = retry.Policy{
	MaxAttempts:    3,
	InitialBackoff: 200 * time.Millisecond,
}

// classifyListError retries transport failures and server-side errors.
// A 4xx is the API answering, and an open breaker will not close between
// attempts; both are permanent.
func classifyListError(err error) retry.Action {
	if errors.Is(err, gobreaker.ErrOpenState) {
		return retry.Stop
	}
	code := StatusCode(err)
	if code >= 400 && code < 500 {
		return retry.Stop
	}
	return retry.Retry
}

// List fetches every record of a resource. Reads are idempotent, so
// transient failures are retried with backoff.
func List[T any](ctx context.Context, c *Client, token, resource string) ([]T, error) {
	path := fmt.Sprintf("/api/%s/", resource)

	records, err := retry.Do(ctx, listRetryPolicy, classifyListError, func() ([]T, error) {
		var out []T
		if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", resource, err)
	}
	return records, nil
}

// Create posts a new record and returns the stored copy. Writes are not
// retried; a duplicate submit is worse than a failed one.
func Create[T any](ctx context.Context, c *Client, token, resource string, record T) (T, error) {
	var out T
	path := fmt.Sprintf("/api/%s/", resource)
	if err := c.doJSON(ctx, http.MethodPost, path, token, record, &out); err != nil {
		return out, fmt.Errorf("failed to create %s record: %w", resource, err)
	}
	return out, nil
}

// Update replaces an existing record by ID and returns the stored copy.
func Update[T any](ctx context.Context, c *Client, token, resource string, id int, record T) (T, error) {
	var out T
	path := fmt.Sprintf("/api/%s/%d/", resource, id)
	if err := c.doJSON(ctx, http.MethodPut, path, token, record, &out); err != nil {
		return out, fmt.Errorf("failed to update %s record %d: %w", resource, id, err)
	}
	return out, nil
}
