package enums

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. A user's role never changes after
// registration.
type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleSeller   Role = "seller"
	RoleEmployee Role = "employee"
	RoleInvestor Role = "investor"
	RoleAdmin    Role = "admin"
)

var validRoles = []Role{
	RoleBuyer,
	RoleSeller,
	RoleEmployee,
	RoleInvestor,
	RoleAdmin,
}

// Roles returns every known role in declaration order.
func Roles() []Role {
	out := make([]Role, len(validRoles))
	copy(out, validRoles)
	return out
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role may act on listings on behalf of the company.
func (r Role) IsStaff() bool {
	switch r {
	case RoleEmployee, RoleAdmin:
		return true
	case RoleBuyer, RoleSeller, RoleInvestor:
		return false
	}
	return false
}

// ParseRole converts raw input into a Role. Matching ignores case.
func ParseRole(value string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validRoles {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
