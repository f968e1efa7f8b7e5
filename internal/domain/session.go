package domain

import "fmt"

// Role is the server-assigned role claim of an authenticated user.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
)

// ParseRole validates a role string coming from a form or an API response.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleSupervisor:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Session is the record of the currently authenticated identity. It is
// either fully present (all four fields set) or absent; no partial session
// is ever installed.
type Session struct {
	SubjectID   string `json:"subjectId"`
	DisplayName string `json:"displayName"`
	Token       string `json:"credentialToken"`
	Role        Role   `json:"role"`
}

// Valid reports whether the session satisfies the all-or-nothing invariant.
func (s *Session) Valid() bool {
	if s == nil {
		return false
	}
	if s.SubjectID == "" || s.DisplayName == "" || s.Token == "" {
		return false
	}
	_, err := ParseRole(string(s.Role))
	return err == nil
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// FieldErrors maps a form field name to a displayable message. The synthetic
// key "general" carries errors not tied to a single field.
type FieldErrors map[string]string

const FieldGeneral = "general"

func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}
