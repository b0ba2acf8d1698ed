package user

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role is the capability set asserted by the identity service.
// Guests act on their own reservations; staff act on any.
type Role string

const (
	RoleGuest Role = "guest"
	RoleStaff Role = "staff"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleStaff:
		return true
	default:
		return false
	}
}

func (r Role) IsStaff() bool {
	return r == RoleStaff
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
