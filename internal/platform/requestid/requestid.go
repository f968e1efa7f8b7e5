// Package requestid carries a per-request ID through context and into logs.
// The same ID is forwarded to the farm API as X-Request-ID so a slow screen
// can be matched against the upstream's own logs.
package requestid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey struct{}

// Header is the name under which the ID travels on outgoing API calls.
const Header = "X-Request-ID"

// NewID generates a fresh request ID.
func NewID() string {
	return uuid.NewString()
}

// WithID returns a new context carrying the given request ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// ID extracts the request ID from ctx, returning ("", false) if not present.
func ID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Handler wraps an existing slog.Handler to automatically inject a
// "request_id" attribute when the context carries one.
type Handler struct {
	inner slog.Handler
}

// NewHandler creates a request-id-aware handler wrapping the given handler.
func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ID(ctx); ok {
		r.AddAttrs(slog.String("request_id", id))
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("requestid handler: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}
