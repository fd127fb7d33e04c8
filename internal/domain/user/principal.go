package user

import "strings"

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID string
	Login  string
	Roles  []string
}

// HasAnyRole reports whether the principal carries at least one of roles.
// Admins implicitly satisfy every role check.
func (p Principal) HasAnyRole(roles ...string) bool {
	for _, granted := range p.Roles {
		granted = strings.TrimSpace(granted)
		if strings.EqualFold(granted, RoleAdmin) {
			return true
		}
		for _, role := range roles {
			if strings.EqualFold(granted, role) {
				return true
			}
		}
	}

	return false
}
