// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"regexp"
	"time"

	domainerrors "lookmarket/internal/domain/errors"

	"github.com/google/uuid"
)

// emailPattern is a deliberately simple syntactic check. Deliverability is not
// the domain's concern.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Account is the core identity entity of the marketplace. It owns the
// credential hash, the assigned role and the lifecycle status that gates
// authentication. Two accounts are the same entity iff their IDs are equal,
// regardless of any other field.
type Account struct {
	id           uuid.UUID // uuid.Nil until the store assigns one.
	email        string
	passwordHash string
	displayName  string
	phoneNumber  string
	role         Role
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

// NewAccount creates a fresh, never-persisted account. The role defaults to
// CUSTOMER when empty, the status is always ACTIVE and both timestamps are
// stamped to now. The ID stays uuid.Nil until the store persists the account.
func NewAccount(email, passwordHash, displayName, phoneNumber string, role Role) (*Account, error) {
	if role == "" {
		role = RoleCustomer
	}
	now := time.Now()

	return newAccount(uuid.Nil, email, passwordHash, displayName, phoneNumber, role, StatusActive, now, now)
}

// ReconstituteAccount rebuilds an account from a persisted snapshot. It runs
// the same field validation as NewAccount but takes every field verbatim.
func ReconstituteAccount(
	id uuid.UUID,
	email, passwordHash, displayName, phoneNumber string,
	role Role,
	status Status,
	createdAt, updatedAt time.Time,
) (*Account, error) {
	return newAccount(id, email, passwordHash, displayName, phoneNumber, role, status, createdAt, updatedAt)
}

// newAccount is the single validation funnel shared by both constructors.
func newAccount(
	id uuid.UUID,
	email, passwordHash, displayName, phoneNumber string,
	role Role,
	status Status,
	createdAt, updatedAt time.Time,
) (*Account, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePasswordHash(passwordHash); err != nil {
		return nil, err
	}
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}

	return &Account{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		displayName:  displayName,
		phoneNumber:  phoneNumber,
		role:         role,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

// ChangeEmail replaces the email after syntactic validation. Setting the email
// the account already has is a no-op and does not touch UpdatedAt.
func (a *Account) ChangeEmail(newEmail string) error {
	if err := validateEmail(newEmail); err != nil {
		return err
	}

	if a.email != newEmail {
		a.email = newEmail
		a.updatedAt = time.Now()
	}

	return nil
}

// ChangePassword replaces the password hash. Unlike ChangeEmail there is no
// same-value short-circuit: every call touches UpdatedAt.
func (a *Account) ChangePassword(newHash string) error {
	if err := validatePasswordHash(newHash); err != nil {
		return err
	}

	a.passwordHash = newHash
	a.updatedAt = time.Now()

	return nil
}

// ChangeDisplayName replaces the display name. Same-value calls are no-ops.
func (a *Account) ChangeDisplayName(newName string) error {
	if err := validateDisplayName(newName); err != nil {
		return err
	}

	if a.displayName != newName {
		a.displayName = newName
		a.updatedAt = time.Now()
	}

	return nil
}

// ChangePhoneNumber replaces the phone number. The domain imposes no format on
// phone numbers; the request boundary validates syntax.
func (a *Account) ChangePhoneNumber(newNumber string) {
	a.phoneNumber = newNumber
	a.updatedAt = time.Now()
}

// Activate moves the account to ACTIVE. Suspended accounts cannot self-activate
// and must be released by an administrator path that is not this transition.
// Activating an already active account still touches UpdatedAt.
func (a *Account) Activate() error {
	if a.status == StatusSuspended {
		return domainerrors.ErrInvalidTransition.WrapMessage("suspended accounts cannot self-activate")
	}

	a.status = StatusActive
	a.updatedAt = time.Now()

	return nil
}

// Deactivate moves the account to INACTIVE from any state.
func (a *Account) Deactivate() {
	a.status = StatusInactive
	a.updatedAt = time.Now()
}

// Suspend freezes the account from any state.
func (a *Account) Suspend() {
	a.status = StatusSuspended
	a.updatedAt = time.Now()
}

// IsActive reports whether the account may authenticate.
func (a *Account) IsActive() bool {
	return a.status == StatusActive
}

// IsAdmin reports whether the account holds administrator rights.
func (a *Account) IsAdmin() bool {
	return a.role == RoleAdmin
}

// IsSeller reports whether the account may manage listings. Admins implicitly
// hold seller rights.
func (a *Account) IsSeller() bool {
	return a.role == RoleSeller || a.role == RoleAdmin
}

// Equal reports entity identity, which is defined by ID alone.
func (a *Account) Equal(other *Account) bool {
	if other == nil {
		return false
	}

	return a.id == other.id
}

// SetID is called by the store exactly once, when the database assigns the
// primary key on first persistence.
func (a *Account) SetID(id uuid.UUID) {
	a.id = id
}

func (a *Account) ID() uuid.UUID        { return a.id }
func (a *Account) Email() string        { return a.email }
func (a *Account) PasswordHash() string { return a.passwordHash }
func (a *Account) DisplayName() string  { return a.displayName }
func (a *Account) PhoneNumber() string  { return a.phoneNumber }
func (a *Account) Role() Role           { return a.role }
func (a *Account) Status() Status       { return a.status }
func (a *Account) CreatedAt() time.Time { return a.createdAt }
func (a *Account) UpdatedAt() time.Time { return a.updatedAt }

func validateEmail(email string) error {
	if email == "" {
		return domainerrors.ErrInvalidEmail.WrapMessage("email is required")
	}
	if !emailPattern.MatchString(email) {
		return domainerrors.ErrInvalidEmail.WrapMessage("email format is invalid")
	}

	return nil
}

func validatePasswordHash(hash string) error {
	if hash == "" {
		return domainerrors.ErrInvalidPassword.WrapMessage("password hash is required")
	}

	return nil
}

func validateDisplayName(name string) error {
	if name == "" {
		return domainerrors.ErrInvalidDisplayName.WrapMessage("display name is required")
	}

	return nil
}
