package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "lookmarket/internal/delivery/context"
	"lookmarket/internal/domain/entity"
	domainerrors "lookmarket/internal/domain/errors"
	"lookmarket/internal/domain/repository"
	"lookmarket/internal/domain/service"
	"lookmarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	publisher   service.EventPublisher
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Publisher   service.EventPublisher
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		publisher:   params.Publisher,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to
// the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account. Uniqueness is checked before hashing so a
// taken email costs no bcrypt work.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.Account, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email), slog.Any("role", input.Role))

	taken, err := srv.accountRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check email uniqueness")
	}
	if taken {
		srv.log(ctx).Warn("Registration with taken email", slog.String("email", input.Email))

		return nil, domainerrors.ErrEmailExists.WrapMessage("email already registered")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	account, err := entity.NewAccount(input.Email, hash, input.DisplayName, input.PhoneNumber, input.Role)
	if err != nil {
		return nil, err
	}

	saved, err := srv.accountRepo.Save(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist new account")
	}

	srv.publishEvent(ctx, service.EventAccountRegistered, saved)
	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", saved.ID()))

	return saved, nil
}

// GetByID loads a single account.
func (srv *accountService) GetByID(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	return srv.loadAccount(ctx, accountID)
}

// ChangeEmail updates the account's email. The store-level uniqueness probe is
// skipped entirely when the new email equals the account's current one: the
// probe would find the account's own row and spuriously reject the no-op.
func (srv *accountService) ChangeEmail(ctx context.Context, input *usecase.ChangeEmailInput) (*entity.Account, error) {
	account, err := srv.loadAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if input.NewEmail != account.Email() {
		taken, err := srv.accountRepo.ExistsByEmail(ctx, input.NewEmail)
		if err != nil {
			return nil, errors.Wrap(err, "failed to check email uniqueness")
		}
		if taken {
			return nil, domainerrors.ErrEmailExists.WrapMessage("email already registered")
		}
	}

	if err := account.ChangeEmail(input.NewEmail); err != nil {
		return nil, err
	}

	saved, err := srv.accountRepo.Save(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist email change")
	}

	srv.log(ctx).Info("Email changed", slog.Any("accountID", saved.ID()))

	return saved, nil
}

// ChangePassword verifies the current password before any hashing work, then
// hashes and stores the new one.
func (srv *accountService) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) (*entity.Account, error) {
	account, err := srv.loadAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if !srv.hasher.Check(input.CurrentPassword, account.PasswordHash()) {
		srv.log(ctx).Warn("Password change with wrong current password", slog.Any("accountID", input.AccountID))

		return nil, domainerrors.ErrPasswordMismatch.WrapMessage("current password mismatch")
	}

	newHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash new password")
	}

	if err := account.ChangePassword(newHash); err != nil {
		return nil, err
	}

	saved, err := srv.accountRepo.Save(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist password change")
	}

	srv.log(ctx).Info("Password changed", slog.Any("accountID", saved.ID()))

	return saved, nil
}

// Activate transitions the account to ACTIVE, propagating the entity's refusal
// for suspended accounts.
func (srv *accountService) Activate(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := srv.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := account.Activate(); err != nil {
		return nil, err
	}

	saved, err := srv.accountRepo.Save(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist activation")
	}

	srv.log(ctx).Info("Account activated", slog.Any("accountID", accountID))

	return saved, nil
}

// Suspend freezes the account unconditionally.
func (srv *accountService) Suspend(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := srv.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.Suspend()

	saved, err := srv.accountRepo.Save(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist suspension")
	}

	srv.publishEvent(ctx, service.EventAccountSuspended, saved)
	srv.log(ctx).Info("Account suspended", slog.Any("accountID", accountID))

	return saved, nil
}

// Deactivate parks the account unconditionally.
func (srv *accountService) Deactivate(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := srv.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.Deactivate()

	saved, err := srv.accountRepo.Save(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist deactivation")
	}

	srv.publishEvent(ctx, service.EventAccountDeactivated, saved)
	srv.log(ctx).Info("Account deactivated", slog.Any("accountID", accountID))

	return saved, nil
}

func (srv *accountService) loadAccount(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("account not found")
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return account, nil
}

// publishEvent sends an account lifecycle event. Publishing is best effort:
// failures are logged and never surfaced to the caller.
func (srv *accountService) publishEvent(ctx context.Context, eventType string, account *entity.Account) {
	if srv.publisher == nil {
		return
	}

	event := &service.AccountEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		AccountID:  account.ID().String(),
		Email:      account.Email(),
		Role:       account.Role().String(),
		OccurredAt: time.Now(),
	}

	if err := srv.publisher.PublishAccountEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish account event",
			slog.String("type", eventType),
			slog.Any("accountID", account.ID()),
			slog.Any("error", err),
		)
	}
}
