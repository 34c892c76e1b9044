package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/kitebank/backend/internal/core/domain"
)

// MemoryUserRepository is an in-memory domain.UserRepository used in tests
// and local development without a database.
type MemoryUserRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.UserRow
	// Err, when set, is returned by every call to simulate store failure.
	Err error
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{nextID: 1, byID: make(map[int64]domain.UserRow)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, email, passwordHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return 0, r.Err
	}
	for _, u := range r.byID {
		if u.Email == email {
			return 0, domain.ErrDuplicateEmail
		}
	}

	id := r.nextID
	r.nextID++
	r.byID[id] = domain.UserRow{ID: id, Email: email, PasswordHash: passwordHash}
	return id, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.byID {
		if u.Email == email {
			row := u
			return &row, nil
		}
	}
	return nil, nil
}

// MemoryAccountRepository is an in-memory domain.AccountRepository.
type MemoryAccountRepository struct {
	mu           sync.Mutex
	accounts     map[int64]float64
	transactions map[int64][]domain.TransactionRow
	Err          error
}

// NewMemoryAccountRepository creates an empty MemoryAccountRepository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts:     make(map[int64]float64),
		transactions: make(map[int64][]domain.TransactionRow),
	}
}

// SeedAccount sets the balance for a user.
func (r *MemoryAccountRepository) SeedAccount(userID int64, balance float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[userID] = balance
}

// SeedTransaction appends a ledger entry for a user.
func (r *MemoryAccountRepository) SeedTransaction(userID int64, t domain.TransactionRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[userID] = append(r.transactions[userID], t)
}

func (r *MemoryAccountRepository) GetAccount(ctx context.Context, userID int64) (*domain.AccountRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	balance, ok := r.accounts[userID]
	if !ok {
		return nil, nil
	}
	return &domain.AccountRow{UserID: userID, Balance: balance}, nil
}

func (r *MemoryAccountRepository) ListTransactions(ctx context.Context, userID int64, limit int) ([]domain.TransactionRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	out := append([]domain.TransactionRow(nil), r.transactions[userID]...)
	// Same ordering contract as the SQL implementation.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
