package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

// MinAdminPasswordLength applies to password changes
const MinAdminPasswordLength = 6

// Authenticator checks and replaces the back-office credential
type Authenticator interface {
	Verify(ctx context.Context, username, password string) (bool, error)
	Rotate(ctx context.Context, newSecret string) error
	Reset(ctx context.Context) error
}

type credentialAuthenticator struct {
	uow      repository.UnitOfWork
	hasher   PasswordHasher
	defaults domain.AdminCredential
}

// NewCredentialAuthenticator stores the credential through uow. defaults
// holds the plaintext pair restored by Reset and assumed while nothing is stored.
func NewCredentialAuthenticator(uow repository.UnitOfWork, hasher PasswordHasher, defaults domain.AdminCredential) Authenticator {
	return &credentialAuthenticator{uow: uow, hasher: hasher, defaults: defaults}
}

func (a *credentialAuthenticator) Verify(ctx context.Context, username, password string) (bool, error) {
	var stored *domain.AdminCredential
	err := a.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		stored, err = repos.Admin.Get(ctx)
		return err
	})
	if errors.Is(err, repository.ErrAdminCredentialNotFound) {
		return a.defaults.Username == username &&
			subtle.ConstantTimeCompare([]byte(a.defaults.Password), []byte(password)) == 1, nil
	}
	if err != nil {
		return false, err
	}

	return stored.Username == username && a.hasher.Compare(stored.Password, password), nil
}

// Rotate replaces the password and keeps the username
func (a *credentialAuthenticator) Rotate(ctx context.Context, newSecret string) error {
	hashed, err := a.hasher.Hash(newSecret)
	if err != nil {
		return err
	}

	return a.uow.Do(ctx, func(repos *repository.Repositories) error {
		credential, err := repos.Admin.Get(ctx)
		if errors.Is(err, repository.ErrAdminCredentialNotFound) {
			credential = &domain.AdminCredential{Username: a.defaults.Username}
		} else if err != nil {
			return err
		}

		credential.Password = hashed
		return repos.Admin.Save(ctx, credential)
	})
}

func (a *credentialAuthenticator) Reset(ctx context.Context) error {
	hashed, err := a.hasher.Hash(a.defaults.Password)
	if err != nil {
		return err
	}

	return a.uow.Do(ctx, func(repos *repository.Repositories) error {
		return repos.Admin.Save(ctx, &domain.AdminCredential{Username: a.defaults.Username, Password: hashed})
	})
}

// AdminService handles back-office sign in and credential maintenance
type AdminService interface {
	Login(ctx context.Context, username, password string) (string, error)
	ChangePassword(ctx context.Context, username, current, next, confirm string) error
	Recover(ctx context.Context, key string) error
}

type adminService struct {
	auth        Authenticator
	tokens      TokenService
	recoveryKey string
	logger      *zap.Logger
}

// NewAdminService creates a new instance of AdminService. recoveryKey resets
// the credential to its defaults; it is a shared secret, not a security control.
func NewAdminService(auth Authenticator, tokens TokenService, recoveryKey string, logger *zap.Logger) AdminService {
	return &adminService{
		auth:        auth,
		tokens:      tokens,
		recoveryKey: recoveryKey,
		logger:      logger.Named("admin"),
	}
}

func (s *adminService) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := s.auth.Verify(ctx, username, password)
	if err != nil {
		return "", fmt.Errorf("failed to verify credential: %w", err)
	}
	if !ok {
		s.logger.Warn("Admin login rejected", zap.String("username", username))
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(username, RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return token, nil
}

// ChangePassword re-authenticates with current before rotating. The new
// password may equal the old one.
func (s *adminService) ChangePassword(ctx context.Context, username, current, next, confirm string) error {
	ok, err := s.auth.Verify(ctx, username, current)
	if err != nil {
		return fmt.Errorf("failed to verify credential: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	if len(next) < MinAdminPasswordLength {
		return invalidField("new_password", fmt.Sprintf("Password must be at least %d characters", MinAdminPasswordLength))
	}
	if next != confirm {
		return invalidField("confirm_password", "Passwords do not match")
	}

	if err := s.auth.Rotate(ctx, next); err != nil {
		return fmt.Errorf("failed to rotate credential: %w", err)
	}

	s.logger.Info("Admin password changed", zap.String("username", username))
	return nil
}

func (s *adminService) Recover(ctx context.Context, key string) error {
	if s.recoveryKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.recoveryKey)) != 1 {
		s.logger.Warn("Admin recovery rejected")
		return ErrInvalidCredentials
	}

	if err := s.auth.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset credential: %w", err)
	}

	s.logger.Warn("Admin credential reset to defaults")
	return nil
}
