// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"lookmarket/internal/domain/entity"
	domainerrors "lookmarket/internal/domain/errors"
	"lookmarket/internal/domain/repository"
	"lookmarket/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the repository.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a repository.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Save persists the account and returns the stored snapshot. An account with
// a nil ID is inserted and picks up its database-generated ID; any other
// account overwrites the stored row, last write wins.
func (repo *accountRepository) Save(ctx context.Context, account *entity.Account) (*entity.Account, error) {
	accountM := fromAccountDomain(account)

	if account.ID() == uuid.Nil {
		if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
			if isUniqueConstraintViolation(err) {
				return nil, domainerrors.ErrEmailExists.WrapMessage("email already registered")
			}
			if isNotNullConstraintViolation(err) {
				return nil, domainerrors.ErrAccountCreationFailed.WrapMessage("missing required account information")
			}

			return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create account")
		}

		return toAccountDomain(accountM)
	}

	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", accountM.ID).
		Updates(map[string]any{
			"email":         accountM.Email,
			"password_hash": accountM.PasswordHash,
			"display_name":  accountM.DisplayName,
			"phone_number":  accountM.PhoneNumber,
			"role":          accountM.Role,
			"status":        accountM.Status,
			"updated_at":    accountM.UpdatedAt,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return nil, domainerrors.ErrEmailExists.WrapMessage("email already registered")
		}

		return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update account")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrAccountNotFound
	}

	return toAccountDomain(accountM)
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM)
}

// FindByEmail retrieves a single account by its email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM)
}

// ExistsByEmail reports whether any account already uses the email.
func (repo *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check email existence")
	}

	return count > 0, nil
}

// Delete removes the account's stored row.
func (repo *accountRepository) Delete(ctx context.Context, account *entity.Account) error {
	return repo.DeleteByID(ctx, account.ID())
}

// DeleteByID removes the account row with the given ID.
func (repo *accountRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AccountModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// fromAccountDomain maps a pure domain entity to a GORM persistence model.
func fromAccountDomain(account *entity.Account) *model.AccountModel {
	return &model.AccountModel{
		ID:           account.ID(),
		Email:        account.Email(),
		PasswordHash: account.PasswordHash(),
		DisplayName:  account.DisplayName(),
		PhoneNumber:  account.PhoneNumber(),
		Role:         account.Role().String(),
		Status:       account.Status().String(),
		CreatedAt:    account.CreatedAt(),
		UpdatedAt:    account.UpdatedAt(),
	}
}

// toAccountDomain maps a persistence model back to a pure domain entity.
func toAccountDomain(accountM *model.AccountModel) (*entity.Account, error) {
	account, err := entity.ReconstituteAccount(
		accountM.ID,
		accountM.Email,
		accountM.PasswordHash,
		accountM.DisplayName,
		accountM.PhoneNumber,
		entity.Role(accountM.Role),
		entity.Status(accountM.Status),
		accountM.CreatedAt,
		accountM.UpdatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "stored account fails domain validation")
	}

	return account, nil
}
