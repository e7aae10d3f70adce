// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/domain/repository"
	"roster/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the domain AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a repository.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&accountM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewStorageError(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// FindByLogin retrieves a single account by its login.
func (repo *accountRepository) FindByLogin(ctx context.Context, login string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("login = ?", login).
		First(&accountM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewStorageError(err, "failed to find account by login")
	}

	return toAccountDomain(&accountM), nil
}

// ListActive returns all non-revoked accounts ordered by creation time ascending.
func (repo *accountRepository) ListActive(ctx context.Context) ([]*entity.Account, error) {
	var accountMs []model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("revoked_at IS NULL").
		Order("created_at ASC").
		Find(&accountMs).Error

	if err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to list active accounts")
	}

	return toAccountDomainSlice(accountMs), nil
}

// ListByMinAge returns accounts whose birthday lies at least minAge years in
// the past. Revoked accounts are included.
func (repo *accountRepository) ListByMinAge(ctx context.Context, minAge int) ([]*entity.Account, error) {
	cutoff := time.Now().UTC().Truncate(24 * time.Hour).AddDate(-minAge, 0, 0)

	var accountMs []model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("birthday IS NOT NULL AND birthday <= ?", cutoff).
		Find(&accountMs).Error

	if err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to list accounts by minimum age")
	}

	return toAccountDomainSlice(accountMs), nil
}

// LoginExists reports whether the login is taken by an account other than excludeID.
func (repo *accountRepository) LoginExists(ctx context.Context, login string, excludeID *uuid.UUID) (bool, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("login = ?", login)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, domainerrors.NewStorageError(err, "failed to check login existence")
	}

	return count > 0, nil
}

// Create persists a new account. A unique-constraint violation on login maps
// to the domain conflict error, making uniqueness atomic at the store boundary.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrLoginTaken.WrapMessage("login already exists")
		}

		return domainerrors.NewStorageError(err, "failed to create account")
	}

	return nil
}

// Update persists the current state of an existing account.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	// Save writes every column, including NULLs for cleared revocation fields.
	if err := repo.db.WithContext(ctx).Save(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrLoginTaken.WrapMessage("login already exists")
		}

		return domainerrors.NewStorageError(err, "failed to update account")
	}

	return nil
}

// DeleteByID permanently removes the account record (hard delete).
func (repo *accountRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.AccountModel{})
	if result.Error != nil {
		return domainerrors.NewStorageError(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.
// Hydration from a stored row bypasses the entity's validation on purpose:
// business rules ran when the row was written.

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:               data.ID,
		Login:            data.Login,
		CredentialDigest: data.CredentialDigest,
		DisplayName:      data.DisplayName,
		Gender:           entity.Gender(data.Gender),
		Birthday:         data.Birthday,
		Admin:            data.Admin,
		CreatedAt:        data.CreatedAt,
		CreatedBy:        data.CreatedBy,
		ModifiedAt:       data.ModifiedAt,
		ModifiedBy:       data.ModifiedBy,
		RevokedAt:        data.RevokedAt,
		RevokedBy:        data.RevokedBy,
	}
}

func toAccountDomainSlice(data []model.AccountModel) []*entity.Account {
	accounts := make([]*entity.Account, 0, len(data))
	for i := range data {
		accounts = append(accounts, toAccountDomain(&data[i]))
	}

	return accounts
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel for persistence.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:               data.ID,
		Login:            data.Login,
		CredentialDigest: data.CredentialDigest,
		DisplayName:      data.DisplayName,
		Gender:           data.Gender.String(),
		Birthday:         data.Birthday,
		Admin:            data.Admin,
		CreatedAt:        data.CreatedAt,
		CreatedBy:        data.CreatedBy,
		ModifiedAt:       data.ModifiedAt,
		ModifiedBy:       data.ModifiedBy,
		RevokedAt:        data.RevokedAt,
		RevokedBy:        data.RevokedBy,
	}
}
