package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kitebank/backend/internal/core/domain"
)

// PgxAccountRepository implements domain.AccountRepository using pgxpool.
type PgxAccountRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewAccountRepository creates a new PgxAccountRepository.
func NewAccountRepository(pool *pgxpool.Pool, timeout time.Duration) *PgxAccountRepository {
	return &PgxAccountRepository{pool: pool, timeout: timeout}
}

// GetAccount returns the account owned by the given user.
// Returns (nil, nil) when the user has no account row.
func (r *PgxAccountRepository) GetAccount(ctx context.Context, userID int64) (*domain.AccountRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT user_id, balance FROM accounts WHERE user_id = $1`

	var row domain.AccountRow
	err := r.pool.QueryRow(ctx, query, userID).Scan(&row.UserID, &row.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

// ListTransactions returns at most limit transactions for the given user,
// date descending with id descending as the tie-breaker.
func (r *PgxAccountRepository) ListTransactions(ctx context.Context, userID int64, limit int) ([]domain.TransactionRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, tx_date, description, amount
		FROM transactions
		WHERE user_id = $1
		ORDER BY tx_date DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TransactionRow
	for rows.Next() {
		var t domain.TransactionRow
		if err := rows.Scan(&t.ID, &t.Date, &t.Description, &t.Amount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
