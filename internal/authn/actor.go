// Package authn resolves a request's bearer token to an actor and owns the
// role policy shared by every mutating catalog operation.
package authn

import (
	"errors"
	"fmt"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RolePremium Role = "premium"
	RoleUser    Role = "user"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RolePremium, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

var ErrForbidden = errors.New("forbidden")

// Actor is the authenticated identity making a request.
type Actor struct {
	Identity string
	Role     Role
}

// CanManage reports whether the actor may update or delete a record owned by
// owner: admins always, premium actors only for their own records.
func (a Actor) CanManage(owner string) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RolePremium:
		return a.Identity == owner
	default:
		return false
	}
}
