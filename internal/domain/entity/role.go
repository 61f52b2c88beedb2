// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role an account can have in the marketplace.
// A role is assigned at registration time and never changes afterwards.
type Role string

const (
	// RoleCustomer indicates a regular buyer account.
	RoleCustomer Role = "CUSTOMER"
	// RoleSeller indicates an account allowed to list and manage products.
	RoleSeller Role = "SELLER"
	// RoleAdmin indicates a platform administrator.
	RoleAdmin Role = "ADMIN"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

// Authority returns the authority string carried by authenticated requests,
// e.g. "ROLE_ADMIN".
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}
