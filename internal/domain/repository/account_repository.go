// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"roster/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is the storage-level sentinel returned when no account
// matches the lookup. The usecase layer translates it into the domain
// not-found error.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// Any storage engine (relational, embedded, in-memory for tests) can
// implement it. Login uniqueness must be enforced atomically by the
// implementation, not merely through LoginExists pre-checks.
type AccountRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByLogin retrieves a single account by its login.
	FindByLogin(ctx context.Context, login string) (*entity.Account, error)

	// ListActive returns all non-revoked accounts ordered by creation time
	// ascending.
	ListActive(ctx context.Context) ([]*entity.Account, error)

	// ListByMinAge returns accounts whose birthday lies at least minAge years
	// in the past. Revoked accounts are included.
	ListByMinAge(ctx context.Context, minAge int) ([]*entity.Account, error)

	// LoginExists reports whether the login is taken by an account other than
	// excludeID. A nil excludeID checks against all accounts.
	LoginExists(ctx context.Context, login string, excludeID *uuid.UUID) (bool, error)

	// Create persists a new account.
	Create(ctx context.Context, account *entity.Account) error

	// Update persists the current state of an existing account.
	Update(ctx context.Context, account *entity.Account) error

	// DeleteByID permanently removes the account record (hard delete).
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
