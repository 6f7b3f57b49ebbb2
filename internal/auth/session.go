package auth

import (
	"github.com/nkwats-ai/checkpoint-service/internal/models"
)

// Session is the authenticated caller identity. Built once at sign-in (or by
// the middleware on each request) and passed explicitly to services; there is
// no process-global current user.
type Session struct {
	Wallet      string        `json:"wallet"`
	DisplayName *string       `json:"display_name,omitempty"`
	Roles       []models.Role `json:"roles"`
}

// HasRole reports whether the session holds the given role.
func (s *Session) HasRole(role models.Role) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the session holds at least one of the given roles.
func (s *Session) HasAnyRole(roles ...models.Role) bool {
	for _, role := range roles {
		if s.HasRole(role) {
			return true
		}
	}
	return false
}
