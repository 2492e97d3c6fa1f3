// Package bigquery provides a StoragePort backed by a BigQuery
// transactions table.
package bigquery

import (
	"context"
	"fmt"
	"math/big"
	"time"

	bigquerylib "cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/ledger-import/internal/commit"
	"github.com/dvloznov/ledger-import/internal/domain"
)

// TransactionRow mirrors the ledger.transactions table schema.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	UserID string `bigquery:"user_id"` // NULLABLE

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED
	Amount          *big.Rat   `bigquery:"amount"`           // REQUIRED NUMERIC
	TxType          string     `bigquery:"tx_type"`          // REQUIRED

	Category    string                 `bigquery:"category"`     // REQUIRED
	SubCategory bigquerylib.NullString `bigquery:"subcategory"`  // NULLABLE
	Description bigquerylib.NullString `bigquery:"description"`  // NULLABLE
	PaymentMode bigquerylib.NullString `bigquery:"payment_mode"` // NULLABLE
	Provenance  bigquerylib.NullString `bigquery:"provenance"`   // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// Store persists transactions to a BigQuery table. The client is injected
// so callers control credentials and lifetime.
type Store struct {
	client    *bigquerylib.Client
	projectID string
	datasetID string
	tableID   string
	userID    string
}

func NewStore(client *bigquerylib.Client, projectID, datasetID, tableID, userID string) *Store {
	return &Store{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
		tableID:   tableID,
		userID:    userID,
	}
}

// Create inserts one transaction and returns it with its assigned identity.
func (s *Store) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	row := s.rowFromTransaction(tx)

	table := s.client.DatasetInProject(s.projectID, s.datasetID).Table(s.tableID)
	if err := table.Inserter().Put(ctx, row); err != nil {
		return domain.Transaction{}, fmt.Errorf("bigquery create: inserting row: %w", err)
	}

	tx.ID = row.TransactionID
	return tx, nil
}

// List returns the current ledger for the store's user, ordered by
// transaction date then insertion time.
func (s *Store) List(ctx context.Context) ([]domain.Transaction, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id,
			user_id,
			transaction_date,
			amount,
			tx_type,
			category,
			subcategory,
			description,
			payment_mode,
			provenance,
			created_ts
		FROM %s.%s
		WHERE user_id = @user_id
		ORDER BY transaction_date, created_ts
	`, s.datasetID, s.tableID))
	q.Parameters = []bigquerylib.QueryParameter{
		{Name: "user_id", Value: s.userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("bigquery list: query read: %w", err)
	}

	var txs []domain.Transaction
	for {
		var r TransactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("bigquery list: iter next: %w", err)
		}
		txs = append(txs, transactionFromRow(&r))
	}

	return txs, nil
}

func (s *Store) rowFromTransaction(tx domain.Transaction) *TransactionRow {
	return &TransactionRow{
		TransactionID:   uuid.NewString(),
		UserID:          s.userID,
		TransactionDate: tx.Date,
		Amount:          tx.Amount.Rat(),
		TxType:          string(tx.Type),
		Category:        tx.Category,
		SubCategory:     nullString(tx.SubCategory),
		Description:     nullString(tx.Description),
		PaymentMode:     nullString(tx.PaymentMode),
		Provenance:      nullString(tx.Provenance),
		CreatedTS:       time.Now(),
	}
}

func transactionFromRow(r *TransactionRow) domain.Transaction {
	amount := decimal.Zero
	if r.Amount != nil {
		amount = decimal.NewFromBigRat(r.Amount, 2)
	}
	return domain.Transaction{
		ID:          r.TransactionID,
		Date:        r.TransactionDate,
		Amount:      amount,
		Type:        domain.TxType(r.TxType),
		Category:    r.Category,
		SubCategory: r.SubCategory.StringVal,
		Description: r.Description.StringVal,
		PaymentMode: r.PaymentMode.StringVal,
		Provenance:  r.Provenance.StringVal,
	}
}

func nullString(s string) bigquerylib.NullString {
	return bigquerylib.NullString{StringVal: s, Valid: s != ""}
}

// Ensure Store implements StoragePort.
var _ commit.StoragePort = (*Store)(nil)
