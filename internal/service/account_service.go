package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

// RegisterInput is a new shopper account
type RegisterInput struct {
	Phone    string `json:"phone" validate:"required,min=9"`
	Password string `json:"password" validate:"required,min=4"`
	Name     string `json:"name" validate:"required"`
	Address  string `json:"address"`
}

// AccountService registers and authenticates shopper accounts
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.CustomerAccount, error)
	Login(ctx context.Context, phone, password string) (token string, account *domain.CustomerAccount, err error)
}

type accountService struct {
	uow    repository.UnitOfWork
	hasher PasswordHasher
	tokens TokenService
	logger *zap.Logger
	now    func() time.Time
}

// NewAccountService creates a new instance of AccountService
func NewAccountService(uow repository.UnitOfWork, hasher PasswordHasher, tokens TokenService, logger *zap.Logger) AccountService {
	return &accountService{
		uow:    uow,
		hasher: hasher,
		tokens: tokens,
		logger: logger.Named("accounts"),
		now:    time.Now,
	}
}

// Register fails with repository.ErrAccountAlreadyExists when the phone is taken
func (s *accountService) Register(ctx context.Context, input RegisterInput) (*domain.CustomerAccount, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.CustomerAccount{
		Phone:     input.Phone,
		Password:  hashed,
		Name:      input.Name,
		Address:   input.Address,
		CreatedAt: s.now(),
	}

	err = s.uow.Do(ctx, func(repos *repository.Repositories) error {
		return repos.Accounts.Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account registered", zap.String("phone", account.Phone))
	return account, nil
}

// Login never reveals whether the phone or the password was wrong
func (s *accountService) Login(ctx context.Context, phone, password string) (string, *domain.CustomerAccount, error) {
	var account *domain.CustomerAccount
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		account, err = repos.Accounts.FindByPhone(ctx, phone)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find account: %w", err)
	}

	if !s.hasher.Compare(account.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.Phone, RoleCustomer)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return token, account, nil
}
