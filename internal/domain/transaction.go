package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TxType is the ledger direction of a transaction. The amount itself is
// always a positive magnitude; direction lives here.
type TxType string

const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

// Transaction is the canonical, validated record shape used for comparison
// and persistence. ID is empty until a storage collaborator persists the
// transaction and assigns one.
type Transaction struct {
	ID          string
	Date        civil.Date      // calendar date, no time component
	Amount      decimal.Decimal // strictly positive
	Type        TxType
	Category    string
	SubCategory string // optional, empty when absent
	Description string // optional
	PaymentMode string // free-form label
	Provenance  string // audit tag: where/how this record was produced
}
