// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "roster/internal/delivery/context"
	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/domain/repository"
	"roster/internal/domain/service"
	"roster/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface. It holds no mutable
// state of its own; every operation is an independent unit of work against
// the account store.
type accountService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	hasher      service.CredentialHasher
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for the account service, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.CredentialHasher
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// authenticate resolves and verifies the caller's credentials. A missing
// account and a digest mismatch are indistinguishable to the caller; an
// inactive account is rejected even when the credentials are correct.
func (srv *accountService) authenticate(ctx context.Context, caller usecase.Credentials) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByLogin(ctx, caller.Login)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("caller authentication failed")
		}

		return nil, errors.Wrap(err, "failed to look up caller account")
	}

	if !srv.hasher.Verify(caller.Password, account.CredentialDigest) {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("caller authentication failed")
	}

	if !account.IsActive() {
		return nil, domainerrors.ErrAccountInactive.WrapMessage("caller account is deactivated")
	}

	return account, nil
}

// authenticateAdmin authenticates the caller and requires the admin flag.
func (srv *accountService) authenticateAdmin(ctx context.Context, caller usecase.Credentials) (*entity.Account, error) {
	account, err := srv.authenticate(ctx, caller)
	if err != nil {
		return nil, err
	}

	if !account.Admin {
		return nil, domainerrors.ErrAdminRequired.WrapMessage("caller is not an administrator")
	}

	return account, nil
}

// ensureSelfOrAdmin rejects a non-admin caller that targets another account.
// Checked before any payload validation so the caller learns nothing about
// which payloads an account it cannot touch would accept.
func ensureSelfOrAdmin(caller *entity.Account, accountID uuid.UUID) error {
	if caller.ID != accountID && !caller.Admin {
		return domainerrors.ErrForbidden.WrapMessage("caller may only modify its own account")
	}

	return nil
}

// authorizeTarget loads the target account and checks the self-or-admin rule.
// Non-admin callers may only touch their own, active account.
func (srv *accountService) authorizeTarget(ctx context.Context, repo repository.AccountRepository, caller *entity.Account, accountID uuid.UUID) (*entity.Account, error) {
	if err := ensureSelfOrAdmin(caller, accountID); err != nil {
		return nil, err
	}

	target, err := repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("target account not found")
		}

		return nil, errors.Wrap(err, "failed to load target account")
	}

	if !caller.Admin && !target.IsActive() {
		return nil, domainerrors.ErrAccountInactive.WrapMessage("target account is deactivated")
	}

	return target, nil
}

// CreateAccount creates a new account after authenticating the caller as admin.
func (srv *accountService) CreateAccount(ctx context.Context, caller usecase.Credentials, input *usecase.CreateAccountInput) (*usecase.AccountOutput, error) {
	srv.log(ctx).Info("Creating account", slog.String("login", input.Login))

	admin, err := srv.authenticateAdmin(ctx, caller)
	if err != nil {
		return nil, err
	}

	gender, ok := entity.ParseGender(input.Gender)
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown gender value")
	}

	if err := entity.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	digest, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	account, err := entity.NewAccount(input.Login, digest, input.DisplayName, gender, input.Birthday, input.Admin, admin.Login)
	if err != nil {
		return nil, err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		repo := repoFactory.AccountRepo()

		// Friendly pre-check; the store's unique index is the real guarantee.
		taken, err := repo.LoginExists(ctx, account.Login, nil)
		if err != nil {
			return errors.Wrap(err, "failed to check login uniqueness")
		}
		if taken {
			return domainerrors.ErrLoginTaken.WrapMessage("account creation failed")
		}

		return repo.Create(ctx, account)
	})
	if err != nil {
		srv.log(ctx).Warn("Account creation failed", slog.String("login", input.Login), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Account created", slog.Any("accountID", account.ID))

	return toAccountOutput(account), nil
}

// UpdatePersonalInfo replaces name, gender and birthday on the target account.
func (srv *accountService) UpdatePersonalInfo(ctx context.Context, caller usecase.Credentials, accountID uuid.UUID, input *usecase.UpdatePersonalInfoInput) (*usecase.AccountOutput, error) {
	callerAccount, err := srv.authenticate(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := ensureSelfOrAdmin(callerAccount, accountID); err != nil {
		return nil, err
	}

	gender, ok := entity.ParseGender(input.Gender)
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown gender value")
	}

	var updated *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		repo := repoFactory.AccountRepo()

		target, err := srv.authorizeTarget(ctx, repo, callerAccount, accountID)
		if err != nil {
			return err
		}

		if err := target.UpdatePersonalInfo(input.DisplayName, gender, input.Birthday, callerAccount.Login); err != nil {
			return err
		}
		if err := repo.Update(ctx, target); err != nil {
			return err
		}
		updated = target

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Personal info updated", slog.Any("accountID", accountID))

	return toAccountOutput(updated), nil
}

// UpdatePassword replaces the target account's credential digest.
func (srv *accountService) UpdatePassword(ctx context.Context, caller usecase.Credentials, accountID uuid.UUID, input *usecase.UpdatePasswordInput) (*usecase.AccountOutput, error) {
	callerAccount, err := srv.authenticate(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := ensureSelfOrAdmin(callerAccount, accountID); err != nil {
		return nil, err
	}

	if err := entity.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	digest, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	var updated *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		repo := repoFactory.AccountRepo()

		target, err := srv.authorizeTarget(ctx, repo, callerAccount, accountID)
		if err != nil {
			return err
		}

		if err := target.UpdateCredentialDigest(digest, callerAccount.Login); err != nil {
			return err
		}
		if err := repo.Update(ctx, target); err != nil {
			return err
		}
		updated = target

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Password updated", slog.Any("accountID", accountID))

	return toAccountOutput(updated), nil
}

// UpdateLogin replaces the target account's login after checking uniqueness.
func (srv *accountService) UpdateLogin(ctx context.Context, caller usecase.Credentials, accountID uuid.UUID, input *usecase.UpdateLoginInput) (*usecase.AccountOutput, error) {
	callerAccount, err := srv.authenticate(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := ensureSelfOrAdmin(callerAccount, accountID); err != nil {
		return nil, err
	}

	var updated *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		repo := repoFactory.AccountRepo()

		target, err := srv.authorizeTarget(ctx, repo, callerAccount, accountID)
		if err != nil {
			return err
		}

		taken, err := repo.LoginExists(ctx, input.Login, &target.ID)
		if err != nil {
			return errors.Wrap(err, "failed to check login uniqueness")
		}
		if taken {
			return domainerrors.ErrLoginTaken.WrapMessage("login update failed")
		}

		if err := target.UpdateLogin(input.Login, callerAccount.Login); err != nil {
			return err
		}
		if err := repo.Update(ctx, target); err != nil {
			return err
		}
		updated = target

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Login updated", slog.Any("accountID", accountID), slog.String("login", updated.Login))

	return toAccountOutput(updated), nil
}

// ListActiveAccounts returns all active accounts ordered by creation time.
func (srv *accountService) ListActiveAccounts(ctx context.Context, caller usecase.Credentials) ([]*usecase.AccountOutput, error) {
	if _, err := srv.authenticateAdmin(ctx, caller); err != nil {
		return nil, err
	}

	accounts, err := srv.accountRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active accounts")
	}

	return toAccountOutputSlice(accounts), nil
}

// GetAccountByLogin returns the reduced projection of one account.
func (srv *accountService) GetAccountByLogin(ctx context.Context, caller usecase.Credentials, login string) (*usecase.AccountSummaryOutput, error) {
	if _, err := srv.authenticateAdmin(ctx, caller); err != nil {
		return nil, err
	}

	account, err := srv.accountRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("lookup by login failed")
		}

		return nil, errors.Wrap(err, "failed to find account by login")
	}

	return &usecase.AccountSummaryOutput{
		DisplayName: account.DisplayName,
		Gender:      account.Gender,
		Birthday:    account.Birthday,
		Active:      account.IsActive(),
	}, nil
}

// Authenticate is the anonymous credential check. Any failure degrades to a
// nil result so the caller cannot distinguish a wrong password from a missing
// or deactivated account.
func (srv *accountService) Authenticate(ctx context.Context, input *usecase.AuthenticateInput) (*usecase.AuthenticatedAccountOutput, error) {
	account, err := srv.accountRepo.FindByLogin(ctx, input.Login)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to look up account")
	}

	if !srv.hasher.Verify(input.Password, account.CredentialDigest) || !account.IsActive() {
		return nil, nil
	}

	return &usecase.AuthenticatedAccountOutput{
		ID:          account.ID,
		Login:       account.Login,
		DisplayName: account.DisplayName,
		Gender:      account.Gender,
		Birthday:    account.Birthday,
		Admin:       account.Admin,
	}, nil
}

// ListAccountsByMinAge returns accounts at least minAge years old.
func (srv *accountService) ListAccountsByMinAge(ctx context.Context, caller usecase.Credentials, minAge int) ([]*usecase.AccountOutput, error) {
	if _, err := srv.authenticateAdmin(ctx, caller); err != nil {
		return nil, err
	}

	accounts, err := srv.accountRepo.ListByMinAge(ctx, minAge)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts by minimum age")
	}

	return toAccountOutputSlice(accounts), nil
}

// DeleteAccount deactivates or permanently removes the target account.
func (srv *accountService) DeleteAccount(ctx context.Context, caller usecase.Credentials, login string, soft bool) error {
	admin, err := srv.authenticateAdmin(ctx, caller)
	if err != nil {
		return err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		repo := repoFactory.AccountRepo()

		target, err := repo.FindByLogin(ctx, login)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound.WrapMessage("delete failed")
			}

			return errors.Wrap(err, "failed to load target account")
		}

		if soft {
			target.Deactivate(admin.Login)

			return repo.Update(ctx, target)
		}

		return repo.DeleteByID(ctx, target.ID)
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Account deleted", slog.String("login", login), slog.Bool("soft", soft))

	return nil
}

// RestoreAccount reactivates a soft-deleted account.
func (srv *accountService) RestoreAccount(ctx context.Context, caller usecase.Credentials, login string) (*usecase.AccountOutput, error) {
	admin, err := srv.authenticateAdmin(ctx, caller)
	if err != nil {
		return nil, err
	}

	var restored *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		repo := repoFactory.AccountRepo()

		target, err := repo.FindByLogin(ctx, login)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound.WrapMessage("restore failed")
			}

			return errors.Wrap(err, "failed to load target account")
		}

		target.Restore(admin.Login)
		if err := repo.Update(ctx, target); err != nil {
			return err
		}
		restored = target

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Account restored", slog.String("login", login))

	return toAccountOutput(restored), nil
}

// --- projection mappers ---

func toAccountOutput(account *entity.Account) *usecase.AccountOutput {
	if account == nil {
		return nil
	}

	return &usecase.AccountOutput{
		ID:          account.ID,
		Login:       account.Login,
		DisplayName: account.DisplayName,
		Gender:      account.Gender,
		Birthday:    account.Birthday,
		Admin:       account.Admin,
		Active:      account.IsActive(),
		CreatedAt:   account.CreatedAt,
		CreatedBy:   account.CreatedBy,
		ModifiedAt:  account.ModifiedAt,
		ModifiedBy:  account.ModifiedBy,
		RevokedAt:   account.RevokedAt,
		RevokedBy:   account.RevokedBy,
	}
}

func toAccountOutputSlice(accounts []*entity.Account) []*usecase.AccountOutput {
	outputs := make([]*usecase.AccountOutput, 0, len(accounts))
	for _, account := range accounts {
		outputs = append(outputs, toAccountOutput(account))
	}

	return outputs
}
