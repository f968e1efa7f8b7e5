package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/suhangowda96/dairyfarm/internal/domain"
)

const (
	loginPath          = "/api/login/"
	signupPath         = "/api/signup/"
	changeUsernamePath = "/api/user/change-username/"
	changePasswordPath = "/api/user/change-password/"

	// loginFailureMessage is deliberately generic: login failures never echo
	// server detail, so a caller cannot learn which of username/password was
	// wrong.
	loginFailureMessage = "Invalid username or password"
)

// AuthResult is the uniform outcome of login, signup, and add-user calls.
// These operations never return an error: failures are ordinary values the
// form renders inline, keyed by field.
type AuthResult struct {
	OK          bool
	FieldErrors domain.FieldErrors
	Session     *domain.Session
}

func failure(fields domain.FieldErrors) AuthResult {
	return AuthResult{FieldErrors: fields}
}

// authResponse is the success body of the login and signup endpoints.
// user_id arrives as a bare number; it is carried forward as a string.
type authResponse struct {
	UserID   json.Number `json:"user_id"`
	Username string      `json:"username"`
	Access   string      `json:"access"`
	Role     string      `json:"role"`
}

func (r *authResponse) toSession() *domain.Session {
	return &domain.Session{
		SubjectID:   r.UserID.String(),
		DisplayName: r.Username,
		Token:       r.Access,
		Role:        domain.Role(r.Role),
	}
}

type credentials struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
	Role            string `json:"role"`
}

func validateCredentials(username, password string, role domain.Role) domain.FieldErrors {
	fields := domain.FieldErrors{}
	if username == "" {
		fields["username"] = "Username is required"
	}
	if password == "" {
		fields["password"] = "Password is required"
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		fields["role"] = "Select a valid role"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Login authenticates against the farm API. Any HTTP or transport failure
// collapses into a single generic message under the "general" key; a
// server-assigned role that disagrees with the requested one is rejected
// before a session is constructed.
func (c *Client) Login(ctx context.Context, username, password string, role domain.Role) AuthResult {
	if fields := validateCredentials(username, password, role); fields != nil {
		return failure(fields)
	}

	body := credentials{Username: username, Password: password, Role: string(role)}

	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, loginPath, "", body, &resp); err != nil {
		slog.InfoContext(ctx, "Login rejected", "username", username, "error", err)
		return failure(domain.FieldErrors{domain.FieldGeneral: loginFailureMessage})
	}

	if domain.Role(resp.Role) != role {
		return failure(domain.FieldErrors{
			"role": fmt.Sprintf("User is not registered as %s", role),
		})
	}

	sess := resp.toSession()
	if !sess.Valid() {
		slog.WarnContext(ctx, "Login response missing required fields")
		return failure(domain.FieldErrors{domain.FieldGeneral: loginFailureMessage})
	}

	return AuthResult{OK: true, Session: sess}
}

// Signup registers a new account. Unlike login, server-side field messages
// are surfaced verbatim: they concern account-creation constraints, not
// credential guessing.
func (c *Client) Signup(ctx context.Context, username, password, confirmPassword string, role domain.Role) AuthResult {
	if fields := validateCredentials(username, password, role); fields != nil {
		return failure(fields)
	}
	if confirmPassword == "" {
		return failure(domain.FieldErrors{"confirmPassword": "Confirm your password"})
	}

	return c.signup(ctx, "", username, password, confirmPassword, role)
}

// AddUser creates an account on behalf of an administrator. The admin check
// here is a UX guard; the server enforces it authoritatively. The created
// account is never installed as the caller's own session.
func (c *Client) AddUser(ctx context.Context, caller *domain.Session, username, password, confirmPassword string, role domain.Role) AuthResult {
	if !caller.IsAdmin() {
		return failure(domain.FieldErrors{domain.FieldGeneral: "Unauthorized"})
	}
	if fields := validateCredentials(username, password, role); fields != nil {
		return failure(fields)
	}
	if confirmPassword == "" {
		return failure(domain.FieldErrors{"confirmPassword": "Confirm your password"})
	}

	result := c.signup(ctx, caller.Token, username, password, confirmPassword, role)
	result.Session = nil
	return result
}

func (c *Client) signup(ctx context.Context, token, username, password, confirmPassword string, role domain.Role) AuthResult {
	body := credentials{
		Username:        username,
		Password:        password,
		ConfirmPassword: confirmPassword,
		Role:            string(role),
	}

	resp, err := c.do(ctx, http.MethodPost, signupPath, token, body)
	if err != nil {
		slog.WarnContext(ctx, "Signup request failed", "error", err)
		return failure(domain.FieldErrors{domain.FieldGeneral: "Something went wrong. Please try again."})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(decodeSignupErrors(resp.Body))
	}

	var ok authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil {
		slog.WarnContext(ctx, "Failed to decode signup response", "error", err)
		return failure(domain.FieldErrors{domain.FieldGeneral: "Something went wrong. Please try again."})
	}

	sess := ok.toSession()
	if !sess.Valid() {
		slog.WarnContext(ctx, "Signup response missing required fields")
		return failure(domain.FieldErrors{domain.FieldGeneral: "Something went wrong. Please try again."})
	}

	return AuthResult{OK: true, Session: sess}
}

// decodeSignupErrors maps a signup failure body onto known form fields.
// The API answers either per-field arrays, or a detail / non_field_errors
// entry for cross-field problems.
func decodeSignupErrors(body io.Reader) domain.FieldErrors {
	var raw map[string]any
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return domain.FieldErrors{domain.FieldGeneral: "Signup failed. Please try again."}
	}

	fields := domain.FieldErrors{}
	for _, key := range []string{"username", "password", "confirmPassword", "role"} {
		if msg := firstMessage(raw[key]); msg != "" {
			fields[key] = msg
		}
	}
	if msg := firstMessage(raw["detail"]); msg != "" {
		fields[domain.FieldGeneral] = msg
	} else if msg := firstMessage(raw["non_field_errors"]); msg != "" {
		fields[domain.FieldGeneral] = msg
	}

	if len(fields) == 0 {
		fields[domain.FieldGeneral] = "Signup failed. Please try again."
	}
	return fields
}

// firstMessage extracts a display string from a value that may be a string
// or an array of strings.
func firstMessage(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// UpdateUsername renames the authenticated account. Unlike the result-shaped
// operations above, this is a single pass/fail action: failures come back as
// an error carrying the server's message.
func (c *Client) UpdateUsername(ctx context.Context, token, newUsername string) error {
	if token == "" {
		return errors.New("update username called without a session")
	}
	if newUsername == "" {
		return errors.New("Username cannot be empty")
	}

	body := map[string]string{"new_username": newUsername}
	resp, err := c.do(ctx, http.MethodPost, changeUsernamePath, token, body)
	if err != nil {
		return fmt.Errorf("failed to change username: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err == nil {
		if msg := firstMessage(raw["error"]); msg != "" {
			return errors.New(msg)
		}
	}
	return errors.New("Failed to change username")
}

// ChangePassword rotates the account password. Failures carry the first
// server message among old_password and new_password, or a generic fallback.
func (c *Client) ChangePassword(ctx context.Context, token, oldPassword, newPassword, confirmPassword string) error {
	if token == "" {
		return errors.New("change password called without a session")
	}

	body := map[string]string{
		"old_password":     oldPassword,
		"new_password":     newPassword,
		"confirm_password": confirmPassword,
	}
	resp, err := c.do(ctx, http.MethodPost, changePasswordPath, token, body)
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err == nil {
		for _, key := range []string{"old_password", "new_password"} {
			if msg := firstMessage(raw[key]); msg != "" {
				return errors.New(msg)
			}
		}
	}
	return errors.New("Failed to change password")
}
