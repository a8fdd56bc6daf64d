// Package entity contains the core business objects of the project.
package entity

// Role represents the type of account a user registered as.
// The role is fixed at registration time; there is no upgrade path.
type Role string

const (
	// RoleCustomer indicates a customer account that places orders and writes reviews.
	RoleCustomer Role = "customer"
	// RoleBusiness indicates a business account that publishes offers.
	RoleBusiness Role = "business"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleBusiness:
		return true
	default:
		return false
	}
}
