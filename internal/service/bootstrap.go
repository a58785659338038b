package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

// Bootstrap seeds documents an empty store needs: the admin credential and
// the starter category list. Existing documents are left alone.
func Bootstrap(ctx context.Context, uow repository.UnitOfWork, hasher PasswordHasher, admin domain.AdminCredential, categories []string, logger *zap.Logger) error {
	return uow.Do(ctx, func(repos *repository.Repositories) error {
		_, err := repos.Admin.Get(ctx)
		switch {
		case errors.Is(err, repository.ErrAdminCredentialNotFound):
			hashed, err := hasher.Hash(admin.Password)
			if err != nil {
				return err
			}
			if err := repos.Admin.Save(ctx, &domain.AdminCredential{Username: admin.Username, Password: hashed}); err != nil {
				return fmt.Errorf("failed to seed admin credential: %w", err)
			}
			logger.Info("Seeded admin credential", zap.String("username", admin.Username))
		case err != nil:
			return err
		}

		initialized, err := repos.Categories.Initialized(ctx)
		if err != nil {
			return err
		}
		if !initialized {
			if err := repos.Categories.SaveAll(ctx, categories); err != nil {
				return fmt.Errorf("failed to seed categories: %w", err)
			}
			logger.Info("Seeded categories", zap.Strings("categories", categories))
		}

		return nil
	})
}
