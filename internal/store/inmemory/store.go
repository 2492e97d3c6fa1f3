// Package inmemory provides an in-memory StoragePort. Data is lost on
// process exit - use a database-backed store for persistence.
package inmemory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dvloznov/ledger-import/internal/commit"
	"github.com/dvloznov/ledger-import/internal/domain"
)

// Store keeps the ledger in memory, in insertion order. It is safe for
// concurrent use.
type Store struct {
	mu  sync.RWMutex
	txs []domain.Transaction
}

func NewStore() *Store {
	return &Store{}
}

// Create assigns an identity and appends the transaction to the ledger.
func (s *Store) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	tx.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, tx)

	return tx, nil
}

// List returns the ledger in insertion order. The result is a copy; callers
// cannot modify stored records through it.
func (s *Store) List(ctx context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

// Ensure Store implements StoragePort.
var _ commit.StoragePort = (*Store)(nil)
