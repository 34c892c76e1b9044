package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kitebank/backend/internal/core/domain"
)

// uniqueViolation is the PostgreSQL error code for unique-constraint breaks.
const uniqueViolation = "23505"

// PgxUserRepository implements domain.UserRepository using pgxpool.
// Every call runs under an explicit timeout.
type PgxUserRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(pool *pgxpool.Pool, timeout time.Duration) *PgxUserRepository {
	return &PgxUserRepository{pool: pool, timeout: timeout}
}

// Create inserts a new user and returns the generated user ID.
// Returns domain.ErrDuplicateEmail when the email unique constraint fires.
func (r *PgxUserRepository) Create(ctx context.Context, email, passwordHash string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`

	var userID int64
	err := r.pool.QueryRow(ctx, query, email, passwordHash).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, domain.ErrDuplicateEmail
		}
		return 0, err
	}

	return userID, nil
}

// GetByEmail returns the user matching the given email.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT id, email, password_hash FROM users WHERE email = $1`

	var row domain.UserRow
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&row.ID, &row.Email, &row.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}
