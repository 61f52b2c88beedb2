// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"lookmarket/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is a domain-specific error returned when an account is
// not found in the store.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, never on the concrete
// implementation.
type AccountRepository interface {
	// Save persists the account. A fresh account (ID == uuid.Nil) is created
	// and gets its store-assigned ID; an existing one is updated. The
	// persisted snapshot is returned.
	Save(ctx context.Context, account *entity.Account) (*entity.Account, error)

	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// ExistsByEmail reports whether any account uses the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Delete removes the account from the store.
	Delete(ctx context.Context, account *entity.Account) error

	// DeleteByID removes the account with the given ID from the store.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
