package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"lookmarket/internal/domain/entity"
	domainerrors "lookmarket/internal/domain/errors"
	"lookmarket/internal/domain/repository"
	mockRepo "lookmarket/internal/mocks/repository"
	mockSvc "lookmarket/internal/mocks/service"
	"lookmarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service     usecase.AuthUsecase
	accountRepo *mockRepo.MockAccountRepository
	hasher      *mockSvc.MockPasswordHasher
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return authServiceFixtures{
		service:     NewAuthService(accountRepo, hasher, logger),
		accountRepo: accountRepo,
		hasher:      hasher,
	}
}

func storedAccount(t *testing.T, status entity.Status) *entity.Account {
	t.Helper()

	account, err := entity.ReconstituteAccount(
		uuid.New(),
		"alice@x.com",
		"stored-hash",
		"Alice",
		"",
		entity.RoleCustomer,
		status,
		time.Now().Add(-time.Hour),
		time.Now().Add(-time.Hour),
	)
	require.NoError(t, err)

	return account
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusActive)

	fx.accountRepo.EXPECT().FindByEmail(ctx, "alice@x.com").Return(account, nil)
	fx.hasher.EXPECT().Check("pw12345678", "stored-hash").Return(true)

	got, err := fx.service.Authenticate(ctx, "alice@x.com", "pw12345678")

	require.NoError(t, err)
	assert.Equal(t, account.ID(), got.ID())
	assert.Equal(t, "alice@x.com", got.Email())
}

func TestAuthService_Authenticate_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.accountRepo.EXPECT().FindByEmail(ctx, "ghost@x.com").Return(nil, repository.ErrAccountNotFound)

	_, err := fx.service.Authenticate(ctx, "ghost@x.com", "whatever")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Authenticate_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusActive)

	fx.accountRepo.EXPECT().FindByEmail(ctx, "alice@x.com").Return(account, nil)
	fx.hasher.EXPECT().Check("wrong", "stored-hash").Return(false)

	_, err := fx.service.Authenticate(ctx, "alice@x.com", "wrong")

	require.Error(t, err)
	// Same failure kind as an unknown email: callers cannot tell them apart.
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Authenticate_InactiveAccount(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusInactive)

	// No hasher expectation: the status gate fires before the password check,
	// even when the password would have been correct.
	fx.accountRepo.EXPECT().FindByEmail(ctx, "alice@x.com").Return(account, nil)

	_, err := fx.service.Authenticate(ctx, "alice@x.com", "pw12345678")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountInactive))
}

func TestAuthService_Authenticate_SuspendedAccount(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusSuspended)

	fx.accountRepo.EXPECT().FindByEmail(ctx, "alice@x.com").Return(account, nil)

	_, err := fx.service.Authenticate(ctx, "alice@x.com", "pw12345678")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountSuspended))
}

func TestAuthService_ValidateForRefresh_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusActive)

	fx.accountRepo.EXPECT().FindByID(ctx, account.ID()).Return(account, nil)

	got, err := fx.service.ValidateForRefresh(ctx, account.ID())

	require.NoError(t, err)
	assert.True(t, account.Equal(got))
}

func TestAuthService_ValidateForRefresh_UnknownAccount(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.accountRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrAccountNotFound)

	_, err := fx.service.ValidateForRefresh(ctx, id)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAuthService_ValidateForRefresh_NonActiveStatusesCollapse(t *testing.T) {
	// Unlike Authenticate, refresh gating does not distinguish INACTIVE from
	// SUSPENDED.
	for _, status := range []entity.Status{entity.StatusInactive, entity.StatusSuspended} {
		t.Run(status.String(), func(t *testing.T) {
			fx := createTestAuthService(t)
			ctx := context.Background()
			account := storedAccount(t, status)

			fx.accountRepo.EXPECT().FindByID(ctx, account.ID()).Return(account, nil)

			_, err := fx.service.ValidateForRefresh(ctx, account.ID())

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrAccountNotActive))
		})
	}
}
