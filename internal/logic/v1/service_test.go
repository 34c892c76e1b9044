package v1

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kitebank/backend/internal/auth"
	"github.com/kitebank/backend/internal/core/domain"
	"github.com/kitebank/backend/internal/core/repository"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newAuthService(users domain.UserRepository) (*AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	// MinCost keeps the test suite fast; production cost comes from config.
	return NewAuthService(users, tokens, bcrypt.MinCost), tokens
}

func TestSignupThenLogin(t *testing.T) {
	t.Parallel()

	users := repository.NewMemoryUserRepository()
	svc, tokens := newAuthService(users)
	ctx := context.Background()

	userID, err := svc.Signup(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), userID)

	token, err := svc.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	ident, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, ident.UserID)
	assert.Equal(t, "a@b.com", ident.Email)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	users := repository.NewMemoryUserRepository()
	svc, _ := newAuthService(users)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "a@b.com", "other-password")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSignup_EmailIsNormalized(t *testing.T) {
	t.Parallel()

	users := repository.NewMemoryUserRepository()
	svc, _ := newAuthService(users)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "  User@Example.COM ", "secret1")
	require.NoError(t, err)

	// Different casing is the same identity.
	_, err = svc.Signup(ctx, "user@example.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = svc.Login(ctx, "USER@example.com", "secret1")
	assert.NoError(t, err)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	users := repository.NewMemoryUserRepository()
	svc, _ := newAuthService(users)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "a@b.com", "not-the-password")
	_, unknownEmail := svc.Login(ctx, "nobody@b.com", "secret1")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
}

func TestLogin_StoreErrorIsNotInvalidCredentials(t *testing.T) {
	t.Parallel()

	users := repository.NewMemoryUserRepository()
	users.Err = fmt.Errorf("connection refused")
	svc, _ := newAuthService(users)

	_, err := svc.Login(context.Background(), "a@b.com", "secret1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}

func TestBalance_MissingAccountIsZero(t *testing.T) {
	t.Parallel()

	accounts := repository.NewMemoryAccountRepository()
	svc := NewAccountService(accounts)

	balance, err := svc.Balance(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)
}

func TestBalance_ReturnsAccountBalance(t *testing.T) {
	t.Parallel()

	accounts := repository.NewMemoryAccountRepository()
	accounts.SeedAccount(7, 1234.56)
	svc := NewAccountService(accounts)

	balance, err := svc.Balance(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1234.56, balance)
}

func TestTransactions_OrderAndCap(t *testing.T) {
	t.Parallel()

	accounts := repository.NewMemoryAccountRepository()
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 25; i++ {
		accounts.SeedTransaction(7, domain.TransactionRow{
			ID:          int64(i),
			Date:        day.AddDate(0, 0, i%5),
			Description: fmt.Sprintf("entry %d", i),
			Amount:      -10,
		})
	}
	svc := NewAccountService(accounts)

	rows, err := svc.Transactions(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rows, 20)

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.Date.Equal(cur.Date) {
			// Equal dates: larger insertion id first.
			assert.Greater(t, prev.ID, cur.ID)
		} else {
			assert.True(t, prev.Date.After(cur.Date))
		}
	}
}

func TestTransactions_ScopedToUser(t *testing.T) {
	t.Parallel()

	accounts := repository.NewMemoryAccountRepository()
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	accounts.SeedTransaction(1, domain.TransactionRow{ID: 1, Date: day, Description: "mine", Amount: 5})
	accounts.SeedTransaction(2, domain.TransactionRow{ID: 2, Date: day, Description: "theirs", Amount: 5})
	svc := NewAccountService(accounts)

	rows, err := svc.Transactions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "mine", rows[0].Description)
}
