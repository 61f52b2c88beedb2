// Package entity contains the core business objects of the project.
package entity

// Status represents the lifecycle state of an account.
// It gates whether the account may authenticate.
type Status string

const (
	// StatusActive indicates a fully usable account.
	StatusActive Status = "ACTIVE"
	// StatusInactive indicates a dormant account that may reactivate itself.
	StatusInactive Status = "INACTIVE"
	// StatusSuspended indicates an account frozen by an administrator.
	StatusSuspended Status = "SUSPENDED"
)

// String returns the string representation of the Status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the Status is a valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	default:
		return false
	}
}
