// Package memory provides an in-memory implementation of the account store.
// It backs unit and scenario tests and gives local development a storage
// engine without PostgreSQL. Transactions are not isolated: each operation is
// atomic under the store lock, but Execute offers no rollback.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/domain/repository"

	"github.com/google/uuid"
)

// Store holds all accounts behind a single lock. It implements both
// repository.TransactionManager and repository.RepositoryFactory so it can be
// injected wherever the GORM pair is.
type Store struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*entity.Account
}

// NewStore creates an empty in-memory account store.
func NewStore() *Store {
	return &Store{accounts: make(map[uuid.UUID]*entity.Account)}
}

// Execute runs fn against the store itself. There is no rollback: a failed
// multi-step operation may leave earlier steps applied.
func (s *Store) Execute(_ context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return fn(s)
}

// AccountRepo returns the repository view of the store.
func (s *Store) AccountRepo() repository.AccountRepository {
	return &accountRepository{store: s}
}

type accountRepository struct {
	store *Store
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	account, ok := repo.store.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return cloneAccount(account), nil
}

// FindByLogin retrieves a single account by its login.
func (repo *accountRepository) FindByLogin(_ context.Context, login string) (*entity.Account, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	for _, account := range repo.store.accounts {
		if account.Login == login {
			return cloneAccount(account), nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

// ListActive returns all non-revoked accounts ordered by creation time ascending.
func (repo *accountRepository) ListActive(_ context.Context) ([]*entity.Account, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	var accounts []*entity.Account
	for _, account := range repo.store.accounts {
		if account.IsActive() {
			accounts = append(accounts, cloneAccount(account))
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})

	return accounts, nil
}

// ListByMinAge returns accounts whose birthday lies at least minAge years in
// the past, revoked accounts included.
func (repo *accountRepository) ListByMinAge(_ context.Context, minAge int) ([]*entity.Account, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	cutoff := time.Now().UTC().Truncate(24 * time.Hour).AddDate(-minAge, 0, 0)

	var accounts []*entity.Account
	for _, account := range repo.store.accounts {
		if account.Birthday != nil && !account.Birthday.After(cutoff) {
			accounts = append(accounts, cloneAccount(account))
		}
	}

	return accounts, nil
}

// LoginExists reports whether the login is taken by an account other than excludeID.
func (repo *accountRepository) LoginExists(_ context.Context, login string, excludeID *uuid.UUID) (bool, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	return repo.store.loginTakenLocked(login, excludeID), nil
}

// Create persists a new account, enforcing login uniqueness under the store lock.
func (repo *accountRepository) Create(_ context.Context, account *entity.Account) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if repo.store.loginTakenLocked(account.Login, nil) {
		return domainerrors.ErrLoginTaken.WrapMessage("login already exists")
	}
	repo.store.accounts[account.ID] = cloneAccount(account)

	return nil
}

// Update persists the current state of an existing account.
func (repo *accountRepository) Update(_ context.Context, account *entity.Account) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if _, ok := repo.store.accounts[account.ID]; !ok {
		return repository.ErrAccountNotFound
	}
	id := account.ID
	if repo.store.loginTakenLocked(account.Login, &id) {
		return domainerrors.ErrLoginTaken.WrapMessage("login already exists")
	}
	repo.store.accounts[account.ID] = cloneAccount(account)

	return nil
}

// DeleteByID permanently removes the account record.
func (repo *accountRepository) DeleteByID(_ context.Context, id uuid.UUID) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if _, ok := repo.store.accounts[id]; !ok {
		return repository.ErrAccountNotFound
	}
	delete(repo.store.accounts, id)

	return nil
}

func (s *Store) loginTakenLocked(login string, excludeID *uuid.UUID) bool {
	for id, account := range s.accounts {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if account.Login == login {
			return true
		}
	}

	return false
}

// cloneAccount deep-copies an account so callers never alias stored state.
func cloneAccount(src *entity.Account) *entity.Account {
	dst := *src
	if src.Birthday != nil {
		birthday := *src.Birthday
		dst.Birthday = &birthday
	}
	if src.RevokedAt != nil {
		revokedAt := *src.RevokedAt
		dst.RevokedAt = &revokedAt
	}
	if src.RevokedBy != nil {
		revokedBy := *src.RevokedBy
		dst.RevokedBy = &revokedBy
	}

	return &dst
}
