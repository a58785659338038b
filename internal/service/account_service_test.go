package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/repository"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAccountService(h *harness, hasher PasswordHasher) AccountService {
	return NewAccountService(h.uow, hasher, NewTokenService("test-secret", time.Hour), zap.NewNop())
}

// A second registration with a taken phone fails and leaves the directory as it was
func TestProperty_DuplicatePhoneRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("duplicate phone leaves accounts unchanged", prop.ForAll(
		func(phone, name, otherName string) bool {
			ctx := context.Background()
			h := newHarness()
			svc := newAccountService(h, PlaintextHasher{})

			if _, err := svc.Register(ctx, RegisterInput{Phone: phone, Password: "secret", Name: name}); err != nil {
				t.Logf("FAIL: first registration: %v", err)
				return false
			}
			before, err := h.repos.Accounts.List(ctx)
			if err != nil {
				return false
			}

			_, err = svc.Register(ctx, RegisterInput{Phone: phone, Password: "other", Name: otherName})
			if !errors.Is(err, repository.ErrAccountAlreadyExists) {
				return false
			}

			after, err := h.repos.Accounts.List(ctx)
			if err != nil || len(after) != len(before) {
				return false
			}
			return after[0].Name == before[0].Name && after[0].Password == before[0].Password
		},
		gen.RegexMatch(`0[0-9]{9}`),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAccountService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newAccountService(newHarness(), PlaintextHasher{})

	tests := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{"short phone", RegisterInput{Phone: "09012", Password: "1234", Name: "Lan"}, "phone"},
		{"short password", RegisterInput{Phone: "0901234567", Password: "123", Name: "Lan"}, "password"},
		{"missing name", RegisterInput{Phone: "0901234567", Password: "1234"}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Violations[0].Field)
		})
	}
}

func TestAccountService_Login(t *testing.T) {
	for _, hasher := range []PasswordHasher{PlaintextHasher{}, BcryptHasher{Cost: 4}} {
		ctx := context.Background()
		h := newHarness()
		svc := newAccountService(h, hasher)

		_, err := svc.Register(ctx, RegisterInput{Phone: "0901234567", Password: "hunter2", Name: "Lan", Address: "Hue"})
		require.NoError(t, err)

		token, account, err := svc.Login(ctx, "0901234567", "hunter2")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "Lan", account.Name)

		_, _, err = svc.Login(ctx, "0901234567", "wrong")
		assert.Equal(t, ErrInvalidCredentials, err)

		_, _, err = svc.Login(ctx, "0999999999", "hunter2")
		assert.Equal(t, ErrInvalidCredentials, err)
	}
}
