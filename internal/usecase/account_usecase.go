package usecase

import (
	"context"

	"lookmarket/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	PhoneNumber string
	Role        entity.Role
}

// ChangeEmailInput defines the data required to change an account's email.
type ChangeEmailInput struct {
	AccountID uuid.UUID
	NewEmail  string
}

// ChangePasswordInput defines the data required to change an account's
// password. CurrentPassword and NewPassword are plaintext; hashing happens
// inside the usecase.
type ChangePasswordInput struct {
	AccountID       uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// AccountUsecase defines the account lifecycle operations. This is the
// contract the delivery layer depends on.
type AccountUsecase interface {
	// Register creates a new account. The email must be unused; uniqueness is
	// checked before any hashing work happens.
	Register(ctx context.Context, input *RegisterInput) (*entity.Account, error)

	// GetByID loads a single account.
	GetByID(ctx context.Context, accountID uuid.UUID) (*entity.Account, error)

	// ChangeEmail updates the account's email after a store-level uniqueness
	// check. Re-submitting the current email is a no-op.
	ChangeEmail(ctx context.Context, input *ChangeEmailInput) (*entity.Account, error)

	// ChangePassword verifies the current password before hashing and storing
	// the new one.
	ChangePassword(ctx context.Context, input *ChangePasswordInput) (*entity.Account, error)

	// Activate transitions the account to ACTIVE. Suspended accounts refuse
	// this transition.
	Activate(ctx context.Context, accountID uuid.UUID) (*entity.Account, error)

	// Suspend transitions the account to SUSPENDED unconditionally.
	Suspend(ctx context.Context, accountID uuid.UUID) (*entity.Account, error)

	// Deactivate transitions the account to INACTIVE unconditionally.
	Deactivate(ctx context.Context, accountID uuid.UUID) (*entity.Account, error)
}
