package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/kitebank/backend/internal/auth"
	"github.com/kitebank/backend/internal/core/domain"
	"github.com/kitebank/backend/middleware"
)

// transactionLimit caps the recent-transactions view. No pagination.
const transactionLimit = 20

// dummyHash is compared against when the email is unknown, so login spends
// roughly the same time whether or not the account exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements the signup and login business rules.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	users      domain.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// normalizeEmail fixes the email canonical form: trimmed and lowercased.
// Uniqueness is therefore case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new user and returns the generated user id.
// Returns ErrEmailExists when the email is already registered.
func (s *AuthService) Signup(ctx context.Context, email, password string) (int64, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.signup", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	email = normalizeEmail(email)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("hash password: %w", err)
	}

	// Duplicate detection is left to the store's unique constraint; a
	// prior existence check would race with concurrent signups.
	userID, err := s.users.Create(ctx, email, string(passwordHash))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			span.SetAttributes(attribute.Bool("signup.success", false))
			return 0, fmt.Errorf("register user: %w", ErrEmailExists)
		}
		span.RecordError(err)
		return 0, fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("user.id", userID),
		attribute.Bool("signup.success", true),
	)
	span.AddEvent("user.registered")

	return userID, nil
}

// Login verifies the credentials and returns a freshly issued session token.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	email = normalizeEmail(email)

	row, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("query user: %w", err)
	}
	if row == nil {
		// Burn a comparison anyway to keep timing close to the found case.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("authenticate: %w", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("authenticate: %w", ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(row.ID, row.Email)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("issue session token: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("user.id", row.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return token, nil
}

// AccountService implements the read-only account views. Both methods are
// scoped by the user id the auth middleware extracted from the session
// token; client-supplied identifiers are never accepted here.
type AccountService struct {
	accounts domain.AccountRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts domain.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts}
}

// Balance returns the user's balance. A missing account row is a
// legitimate zero-balance state, not an error.
func (s *AccountService) Balance(ctx context.Context, userID int64) (float64, error) {
	ctx, span := middleware.StartSpan(ctx, "account.balance", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	row, err := s.accounts.GetAccount(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("query balance: %w", err)
	}
	if row == nil {
		return 0, nil
	}
	return row.Balance, nil
}

// Transactions returns up to 20 of the user's most recent transactions,
// newest first with id descending breaking date ties.
func (s *AccountService) Transactions(ctx context.Context, userID int64) ([]domain.TransactionRow, error) {
	ctx, span := middleware.StartSpan(ctx, "account.transactions", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	rows, err := s.accounts.ListTransactions(ctx, userID, transactionLimit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	return rows, nil
}
