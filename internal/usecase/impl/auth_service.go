// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "lookmarket/internal/delivery/context"
	"lookmarket/internal/domain/entity"
	domainerrors "lookmarket/internal/domain/errors"
	"lookmarket/internal/domain/repository"
	"lookmarket/internal/domain/service"
	"lookmarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// authService implements the AuthUsecase interface.
type authService struct {
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	logger      *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(
	accountRepo repository.AccountRepository,
	hasher service.PasswordHasher,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		accountRepo: accountRepo,
		hasher:      hasher,
		logger:      logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to
// the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Authenticate verifies the login credentials and gates on account status.
// The status checks run before the password check: a deactivated or suspended
// account is rejected on status even when the password is correct.
func (srv *authService) Authenticate(ctx context.Context, email, rawPassword string) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// Same failure as a wrong password so account existence
			// never leaks.
			srv.log(ctx).Warn("Login attempt for unknown email", slog.String("email", email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("unknown email")
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	switch account.Status() {
	case entity.StatusInactive:
		srv.log(ctx).Warn("Login attempt on inactive account", slog.Any("accountID", account.ID()))

		return nil, domainerrors.ErrAccountInactive.WrapMessage("account is inactive")
	case entity.StatusSuspended:
		srv.log(ctx).Warn("Login attempt on suspended account", slog.Any("accountID", account.ID()))

		return nil, domainerrors.ErrAccountSuspended.WrapMessage("account is suspended")
	}

	if !srv.hasher.Check(rawPassword, account.PasswordHash()) {
		srv.log(ctx).Warn("Login attempt with wrong password", slog.Any("accountID", account.ID()))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch")
	}

	srv.log(ctx).Debug("Authentication succeeded", slog.Any("accountID", account.ID()))

	return account, nil
}

// ValidateForRefresh confirms the refresh-token subject still exists and is
// ACTIVE. Every non-ACTIVE status fails the same way; the caller already
// proved possession of a once-valid refresh token, so there is nothing to
// hide.
func (srv *authService) ValidateForRefresh(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Warn("Refresh attempt for unknown account", slog.Any("accountID", accountID))

			return nil, domainerrors.ErrAccountNotFound.WrapMessage("account not found for refresh")
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	if !account.IsActive() {
		srv.log(ctx).Warn("Refresh attempt on non-active account",
			slog.Any("accountID", accountID),
			slog.String("status", account.Status().String()),
		)

		return nil, domainerrors.ErrAccountNotActive.WrapMessage("account is not active")
	}

	return account, nil
}
