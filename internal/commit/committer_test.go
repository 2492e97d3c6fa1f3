package commit_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/ledger-import/internal/commit"
	"github.com/dvloznov/ledger-import/internal/domain"
)

// MockStore is a mock implementation of StoragePort for testing.
type MockStore struct {
	CreateFunc func(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	ListFunc   func(ctx context.Context) ([]domain.Transaction, error)
}

func (m *MockStore) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx)
	}
	tx.ID = "mock-id"
	return tx, nil
}

func (m *MockStore) List(ctx context.Context) ([]domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func sampleTx(description string) domain.Transaction {
	return domain.Transaction{
		Date:        civil.Date{Year: 2024, Month: 2, Day: 1},
		Amount:      decimal.NewFromInt(100),
		Type:        domain.TypeIncome,
		Category:    "Salary",
		Description: description,
	}
}

func TestCommit_AllSucceed(t *testing.T) {
	store := &MockStore{}
	txs := []domain.Transaction{sampleTx("a"), sampleTx("b"), sampleTx("c")}

	summary, err := commit.Commit(context.Background(), txs, store)
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if summary.Attempted != 3 || summary.Succeeded != 3 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 3 attempted, 3 succeeded", summary)
	}
	if len(summary.Created) != 3 {
		t.Fatalf("Created = %d, want 3", len(summary.Created))
	}
	for _, tx := range summary.Created {
		if tx.ID == "" {
			t.Error("created transaction has no identity")
		}
	}
}

func TestCommit_FailureDoesNotAbortBatch(t *testing.T) {
	calls := 0
	store := &MockStore{
		CreateFunc: func(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
			calls++
			if tx.Description == "b" {
				return domain.Transaction{}, fmt.Errorf("duplicate row")
			}
			tx.ID = fmt.Sprintf("id-%d", calls)
			return tx, nil
		},
	}
	txs := []domain.Transaction{sampleTx("a"), sampleTx("b"), sampleTx("c")}

	summary, err := commit.Commit(context.Background(), txs, store)
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if calls != 3 {
		t.Errorf("store.Create called %d times, want 3 (no abort)", calls)
	}
	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 succeeded 1 failed", summary)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("Errors = %d, want 1", len(summary.Errors))
	}
	if summary.Errors[0].Index != 1 {
		t.Errorf("failure attributed to index %d, want 1", summary.Errors[0].Index)
	}
	if summary.Errors[0].Message != "duplicate row" {
		t.Errorf("Message = %q", summary.Errors[0].Message)
	}
}

func TestCommit_EmptyInput(t *testing.T) {
	summary, err := commit.Commit(context.Background(), nil, &MockStore{})

	if !errors.Is(err, commit.ErrNothingToImport) {
		t.Fatalf("error = %v, want ErrNothingToImport", err)
	}
	if summary.Attempted != 0 {
		t.Errorf("Attempted = %d, want 0", summary.Attempted)
	}
}
