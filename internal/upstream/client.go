// Package upstream is the gateway client for the remote farm API. It owns
// request plumbing (auth header, request IDs, timeouts, circuit breaking)
// and translates API response shapes into uniform results for the handlers.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/suhangowda96/dairyfarm/internal/platform/requestid"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    "farm-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				"component", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
	}
}

// statusError reports a non-2xx API response. The body is not carried here;
// callers that need field-level detail decode it before wrapping.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("farm api returned status %d", e.code)
}

// StatusCode extracts the HTTP status from an API error, or 0 if the error
// was a transport failure.
func StatusCode(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.code
	}
	return 0
}

// do issues a JSON request against the farm API. Transport failures feed the
// circuit breaker; HTTP error statuses do not, those are the API answering.
// The caller owns the response body.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	id, ok := requestid.ID(ctx)
	if !ok {
		id = requestid.NewID()
	}
	req.Header.Set(requestid.Header, id)

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	return resp, nil
}

// doJSON issues a request and decodes a 2xx response into out (when out is
// non-nil). Non-2xx responses are drained and reported as a statusError.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	resp, err := c.do(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
