// Package commit persists validated transactions through a storage
// collaborator, one record at a time, without aborting the batch on
// individual failures.
package commit

import (
	"context"
	"errors"

	"github.com/dvloznov/ledger-import/internal/domain"
	"github.com/dvloznov/ledger-import/internal/logger"
)

// ErrNothingToImport signals an empty input batch. It is returned instead
// of a zero-count summary silently reading as success.
var ErrNothingToImport = errors.New("nothing to import")

// StoragePort is the persistence collaborator consumed by the engine.
// Create assigns an identity to the stored transaction; List returns the
// current ledger.
type StoragePort interface {
	Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
}

// Error is one failed create attempt, attributed to the originating input
// record by index.
type Error struct {
	Index   int
	Message string
}

// Summary reports the outcome of a commit. Succeeded + Failed always
// equals Attempted; partial failure is never silent.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	Errors    []Error
	Created   []domain.Transaction // persisted records, with identity
}

// Commit persists each transaction through the store, strictly
// sequentially so error ordering matches input order. A failed create is
// recorded and the batch continues. Callers must not re-enter Commit
// concurrently against the same ledger identity if exactly-once semantics
// are required.
func Commit(ctx context.Context, txs []domain.Transaction, store StoragePort) (Summary, error) {
	if len(txs) == 0 {
		return Summary{}, ErrNothingToImport
	}

	log := logger.FromContext(ctx)
	summary := Summary{Attempted: len(txs)}

	for i, tx := range txs {
		created, err := store.Create(ctx, tx)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, Error{Index: i, Message: err.Error()})
			log.Warn().Err(err).Int("record", i).Msg("create failed, continuing batch")
			continue
		}
		summary.Succeeded++
		summary.Created = append(summary.Created, created)
	}

	return summary, nil
}
