// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"lookmarket/internal/domain/entity"

	"github.com/google/uuid"
)

// AuthUsecase verifies credentials and gates token refresh on account status.
// It deliberately issues no tokens: the delivery layer composes it with the
// TokenService so the state-gating logic stays independently testable from
// signing.
type AuthUsecase interface {
	// Authenticate verifies the email/password pair and returns the account
	// when it is allowed to log in. A missing account and a wrong password
	// both fail with ErrInvalidCredentials so account existence never leaks;
	// INACTIVE and SUSPENDED accounts are rejected on status before the
	// password is even checked.
	Authenticate(ctx context.Context, email, rawPassword string) (*entity.Account, error)

	// ValidateForRefresh confirms the account behind a refresh token is still
	// allowed to obtain new tokens. Unlike Authenticate it treats every
	// non-ACTIVE status uniformly.
	ValidateForRefresh(ctx context.Context, accountID uuid.UUID) (*entity.Account, error)
}
