package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"lookmarket/internal/domain/entity"
	domainerrors "lookmarket/internal/domain/errors"
	"lookmarket/internal/domain/repository"
	"lookmarket/internal/domain/service"
	mockRepo "lookmarket/internal/mocks/repository"
	mockSvc "lookmarket/internal/mocks/service"
	"lookmarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service     usecase.AccountUsecase
	accountRepo *mockRepo.MockAccountRepository
	hasher      *mockSvc.MockPasswordHasher
	publisher   *mockSvc.MockEventPublisher
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	publisher := mockSvc.NewMockEventPublisher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewAccountService(AccountServiceParams{
		AccountRepo: accountRepo,
		Hasher:      hasher,
		Publisher:   publisher,
		Logger:      logger,
	})

	return accountServiceFixtures{
		service:     svc,
		accountRepo: accountRepo,
		hasher:      hasher,
		publisher:   publisher,
	}
}

// persistedCopy mirrors what the store hands back: the same snapshot with an
// assigned ID.
func persistedCopy(t *testing.T, account *entity.Account) *entity.Account {
	t.Helper()

	id := account.ID()
	if id == uuid.Nil {
		id = uuid.New()
	}

	saved, err := entity.ReconstituteAccount(
		id,
		account.Email(),
		account.PasswordHash(),
		account.DisplayName(),
		account.PhoneNumber(),
		account.Role(),
		account.Status(),
		account.CreatedAt(),
		account.UpdatedAt(),
	)
	require.NoError(t, err)

	return saved
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:       "alice@x.com",
		Password:    "pw12345678",
		DisplayName: "Alice",
		PhoneNumber: "010-1234-5678",
		Role:        entity.RoleCustomer,
	}

	fx.accountRepo.EXPECT().ExistsByEmail(ctx, input.Email).Return(false, nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed-pw", nil)
	fx.accountRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.Account")).
		RunAndReturn(func(_ context.Context, account *entity.Account) (*entity.Account, error) {
			assert.Equal(t, uuid.Nil, account.ID())
			assert.Equal(t, "hashed-pw", account.PasswordHash())

			return persistedCopy(t, account), nil
		})
	fx.publisher.EXPECT().
		PublishAccountEvent(ctx, mock.AnythingOfType("*service.AccountEvent")).
		RunAndReturn(func(_ context.Context, event *service.AccountEvent) error {
			assert.Equal(t, service.EventAccountRegistered, event.Type)
			assert.Equal(t, input.Email, event.Email)

			return nil
		})

	account, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, account.ID())
	assert.Equal(t, input.Email, account.Email())
	assert.Equal(t, entity.StatusActive, account.Status())
	assert.Equal(t, entity.RoleCustomer, account.Role())
}

func TestAccountService_Register_DefaultsRoleToCustomer(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:       "bob@x.com",
		Password:    "pw12345678",
		DisplayName: "Bob",
	}

	fx.accountRepo.EXPECT().ExistsByEmail(ctx, input.Email).Return(false, nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed-pw", nil)
	fx.accountRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.Account")).
		RunAndReturn(func(_ context.Context, account *entity.Account) (*entity.Account, error) {
			return persistedCopy(t, account), nil
		})
	fx.publisher.EXPECT().
		PublishAccountEvent(ctx, mock.AnythingOfType("*service.AccountEvent")).
		Return(nil)

	account, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, account.Role())
}

func TestAccountService_Register_EmailTaken_NoHashingNoSave(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:       "taken@x.com",
		Password:    "pw12345678",
		DisplayName: "Taken",
	}

	// Only the uniqueness probe may run; any Hash or Save call would fail the
	// mock expectations.
	fx.accountRepo.EXPECT().ExistsByEmail(ctx, input.Email).Return(true, nil)

	_, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailExists))
}

func TestAccountService_Register_PublishFailureIsSwallowed(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:       "carol@x.com",
		Password:    "pw12345678",
		DisplayName: "Carol",
	}

	fx.accountRepo.EXPECT().ExistsByEmail(ctx, input.Email).Return(false, nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed-pw", nil)
	fx.accountRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.Account")).
		RunAndReturn(func(_ context.Context, account *entity.Account) (*entity.Account, error) {
			return persistedCopy(t, account), nil
		})
	fx.publisher.EXPECT().
		PublishAccountEvent(ctx, mock.AnythingOfType("*service.AccountEvent")).
		Return(errors.New("broker down"))

	account, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.NotNil(t, account)
}

func TestAccountService_ChangeEmail_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusActive)

	fx.accountRepo.EXPECT().FindByID(ctx, account.ID()).Return(account, nil)
	fx.accountRepo.EXPECT().ExistsByEmail(ctx, "alice+new@x.com").Return(false, nil)
	fx.accountRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.Account")).
		RunAndReturn(func(_ context.Context, updated *entity.Account) (*entity.Account, error) {
			assert.Equal(t, "alice+new@x.com", updated.Email())

			return persistedCopy(t, updated), nil
		})

	got, err := fx.service.ChangeEmail(ctx, &usecase.ChangeEmailInput{
		AccountID: account.ID(),
		NewEmail:  "alice+new@x.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice+new@x.com", got.Email())
}

func TestAccountService_ChangeEmail_SameEmailSkipsUniquenessProbe(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusActive)
	before := account.UpdatedAt()

	// No ExistsByEmail expectation: probing would find the account's own row
	// and spuriously reject re-submitting the current email.
	fx.accountRepo.EXPECT().FindByID(ctx, account.ID()).Return(account, nil)
	fx.accountRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.Account")).
		RunAndReturn(func(_ context.Context, updated *entity.Account) (*entity.Account, error) {
			return persistedCopy(t, updated), nil
		})

	got, err := fx.service.ChangeEmail(ctx, &usecase.ChangeEmailInput{
		AccountID: account.ID(),
		NewEmail:  account.Email(),
	})

	require.NoError(t, err)
	assert.Equal(t, account.Email(), got.Email())
	assert.Equal(t, before, got.UpdatedAt())
}

func TestAccountService_ChangeEmail_Taken(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusActive)

	fx.accountRepo.EXPECT().FindByID(ctx, account.ID()).Return(account, nil)
	fx.accountRepo.EXPECT().ExistsByEmail(ctx, "other@x.com").Return(true, nil)

	_, err := fx.service.ChangeEmail(ctx, &usecase.ChangeEmailInput{
		AccountID: account.ID(),
		NewEmail:  "other@x.com",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailExists))
}

func TestAccountService_ChangeEmail_AccountNotFound(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.accountRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrAccountNotFound)

	_, err := fx.service.ChangeEmail(ctx, &usecase.ChangeEmailInput{AccountID: id, NewEmail: "x@x.com"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_ChangePassword_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusActive)

	fx.accountRepo.EXPECT().FindByID(ctx, account.ID()).Return(account, nil)
	fx.hasher.EXPECT().Check("old-pw", "stored-hash").Return(true)
	fx.hasher.EXPECT().Hash("new-pw-123").Return("new-hash", nil)
	fx.accountRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.Account")).
		RunAndReturn(func(_ context.Context, updated *entity.Account) (*entity.Account, error) {
			assert.Equal(t, "new-hash", updated.PasswordHash())

			return persistedCopy(t, updated), nil
		})

	got, err := fx.service.ChangePassword(ctx, &usecase.ChangePasswordInput{
		AccountID:       account.ID(),
		CurrentPassword: "old-pw",
		NewPassword:     "new-pw-123",
	})

	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash())
}

func TestAccountService_ChangePassword_Mismatch_FailsBeforeHashing(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusActive)

	// No Hash expectation: the current-password check fails first.
	fx.accountRepo.EXPECT().FindByID(ctx, account.ID()).Return(account, nil)
	fx.hasher.EXPECT().Check("wrong", "stored-hash").Return(false)

	_, err := fx.service.ChangePassword(ctx, &usecase.ChangePasswordInput{
		AccountID:       account.ID(),
		CurrentPassword: "wrong",
		NewPassword:     "new-pw-123",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))
}

func TestAccountService_Activate_SuspendedAccountFails(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusSuspended)

	// No Save expectation: the transition is refused before persistence.
	fx.accountRepo.EXPECT().FindByID(ctx, account.ID()).Return(account, nil)

	_, err := fx.service.Activate(ctx, account.ID())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))
}

func TestAccountService_Activate_InactiveAccountSucceeds(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusInactive)

	fx.accountRepo.EXPECT().FindByID(ctx, account.ID()).Return(account, nil)
	fx.accountRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.Account")).
		RunAndReturn(func(_ context.Context, updated *entity.Account) (*entity.Account, error) {
			return persistedCopy(t, updated), nil
		})

	got, err := fx.service.Activate(ctx, account.ID())

	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, got.Status())
}

func TestAccountService_Suspend_PublishesEvent(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusActive)

	fx.accountRepo.EXPECT().FindByID(ctx, account.ID()).Return(account, nil)
	fx.accountRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.Account")).
		RunAndReturn(func(_ context.Context, updated *entity.Account) (*entity.Account, error) {
			return persistedCopy(t, updated), nil
		})
	fx.publisher.EXPECT().
		PublishAccountEvent(ctx, mock.AnythingOfType("*service.AccountEvent")).
		RunAndReturn(func(_ context.Context, event *service.AccountEvent) error {
			assert.Equal(t, service.EventAccountSuspended, event.Type)

			return nil
		})

	got, err := fx.service.Suspend(ctx, account.ID())

	require.NoError(t, err)
	assert.Equal(t, entity.StatusSuspended, got.Status())
}

func TestAccountService_Deactivate_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusActive)

	fx.accountRepo.EXPECT().FindByID(ctx, account.ID()).Return(account, nil)
	fx.accountRepo.EXPECT().
		Save(ctx, mock.AnythingOfType("*entity.Account")).
		RunAndReturn(func(_ context.Context, updated *entity.Account) (*entity.Account, error) {
			return persistedCopy(t, updated), nil
		})
	fx.publisher.EXPECT().
		PublishAccountEvent(ctx, mock.AnythingOfType("*service.AccountEvent")).
		Return(nil)

	got, err := fx.service.Deactivate(ctx, account.ID())

	require.NoError(t, err)
	assert.Equal(t, entity.StatusInactive, got.Status())
}

func TestAccountService_GetByID(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	account := storedAccount(t, entity.StatusActive)

	fx.accountRepo.EXPECT().FindByID(ctx, account.ID()).Return(account, nil)

	got, err := fx.service.GetByID(ctx, account.ID())

	require.NoError(t, err)
	assert.True(t, account.Equal(got))

	missing := uuid.New()
	fx.accountRepo.EXPECT().FindByID(ctx, missing).Return(nil, repository.ErrAccountNotFound)

	_, err = fx.service.GetByID(ctx, missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}
