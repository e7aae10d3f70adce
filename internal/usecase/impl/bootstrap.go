package impl

import (
	"context"
	"log/slog"

	"roster/config"
	"roster/internal/domain/entity"
	"roster/internal/domain/repository"
	"roster/internal/domain/service"

	"github.com/pkg/errors"
)

// EnsureBootstrapAdmin seeds the configured administrator account if it does
// not exist yet. Every other account is created through CreateAccount, which
// requires an authenticated admin, so the very first one has to come from
// configuration.
func EnsureBootstrapAdmin(ctx context.Context, cfg *config.Config, txManager repository.TransactionManager, hasher service.CredentialHasher, logger *slog.Logger) error {
	if cfg.Bootstrap == nil || cfg.Bootstrap.AdminLogin == "" {
		logger.Debug("No bootstrap administrator configured, skipping seeding")

		return nil
	}

	if err := entity.ValidatePassword(cfg.Bootstrap.AdminPassword); err != nil {
		return errors.Wrap(err, "bootstrap admin password is invalid")
	}
	digest, err := hasher.Hash(cfg.Bootstrap.AdminPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash bootstrap admin password")
	}

	displayName := cfg.Bootstrap.AdminName
	if displayName == "" {
		displayName = "Administrator"
	}

	account, err := entity.NewAccount(cfg.Bootstrap.AdminLogin, digest, displayName, entity.GenderUnknown, nil, true, cfg.Bootstrap.AdminLogin)
	if err != nil {
		return errors.Wrap(err, "bootstrap admin account is invalid")
	}

	return txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		repo := repoFactory.AccountRepo()

		taken, err := repo.LoginExists(ctx, account.Login, nil)
		if err != nil {
			return errors.Wrap(err, "failed to check bootstrap admin login")
		}
		if taken {
			logger.Debug("Bootstrap administrator already present", slog.String("login", account.Login))

			return nil
		}

		if err := repo.Create(ctx, account); err != nil {
			return errors.Wrap(err, "failed to create bootstrap administrator")
		}

		logger.Info("Bootstrap administrator created", slog.String("login", account.Login))

		return nil
	})
}
