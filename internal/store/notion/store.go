// Package notion provides a StoragePort backed by a Notion database, for
// ledgers kept in a Notion workspace.
package notion

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jomei/notionapi"

	"github.com/dvloznov/ledger-import/internal/commit"
	"github.com/dvloznov/ledger-import/internal/domain"
)

// pageSize is the Notion API maximum per query page.
const pageSize = 100

// Store persists transactions as pages of a Notion database.
type Store struct {
	client     *notionapi.Client
	databaseID notionapi.DatabaseID
}

func NewStore(token, databaseID string) *Store {
	return &Store{
		client:     notionapi.NewClient(notionapi.Token(token)),
		databaseID: notionapi.DatabaseID(databaseID),
	}
}

// Create adds one transaction page and returns the transaction with its
// assigned identity.
func (s *Store) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	id := uuid.NewString()

	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: s.databaseID,
		},
		Properties: transactionProperties(id, tx),
	}

	if _, err := s.client.Page.Create(ctx, req); err != nil {
		return domain.Transaction{}, fmt.Errorf("notion create: %w", err)
	}

	tx.ID = id
	return tx, nil
}

// List pages through the whole database and maps every page back to a
// transaction. Pages missing a date or amount are skipped.
func (s *Store) List(ctx context.Context) ([]domain.Transaction, error) {
	var txs []domain.Transaction

	req := &notionapi.DatabaseQueryRequest{PageSize: pageSize}
	for {
		resp, err := s.client.Database.Query(ctx, s.databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("notion list: %w", err)
		}

		for _, page := range resp.Results {
			if tx, ok := transactionFromPage(page); ok {
				txs = append(txs, tx)
			}
		}

		if !resp.HasMore {
			break
		}
		req.StartCursor = resp.NextCursor
	}

	return txs, nil
}

// Ensure Store implements StoragePort.
var _ commit.StoragePort = (*Store)(nil)
