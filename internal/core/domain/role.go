package domain

import "fmt"

// RoleName is the closed set of role names a user may hold.
type RoleName string

const (
	RoleCustomer RoleName = "CUSTOMER"
	RoleAdmin    RoleName = "ADMIN"
)

// Roles lists every recognised role, in seeding order.
var Roles = []RoleName{RoleCustomer, RoleAdmin}

// ParseRoleName validates a stored or embedded role name.
func ParseRoleName(s string) (RoleName, error) {
	switch RoleName(s) {
	case RoleCustomer, RoleAdmin:
		return RoleName(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Role is read-only reference data.
type Role struct {
	ID   string   `json:"id"`
	Name RoleName `json:"name"`
}
