package normalize

import (
	"errors"
	"strings"

	"github.com/dvloznov/ledger-import/internal/domain"
)

// Rejection reasons. Records failing normalization are dropped with one of
// these; processing of the remaining records continues.
var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrMissingField  = errors.New("missing required field")
)

// Options configures normalization policy.
type Options struct {
	// DefaultCategory, when non-empty, is substituted for a missing
	// category instead of rejecting the record. Leave empty to reject
	// records without a category.
	DefaultCategory string
}

// Normalizer converts raw extracted records into canonical transactions.
type Normalizer struct {
	opts Options
}

func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// Normalize converts one raw record into a canonical Transaction or rejects
// it. Field-name variants are resolved through the canonical synonym table;
// unmapped keys are ignored.
func (n *Normalizer) Normalize(rec domain.RawRecord) (domain.Transaction, error) {
	fields := canonicalize(rec)

	date, err := ParseDate(fields[domain.FieldDate])
	if err != nil {
		return domain.Transaction{}, err
	}

	amount := ParseAmount(fields[domain.FieldAmount])
	if !amount.IsPositive() {
		return domain.Transaction{}, ErrInvalidAmount
	}

	category := strings.TrimSpace(fields[domain.FieldCategory])
	if category == "" {
		if n.opts.DefaultCategory == "" {
			return domain.Transaction{}, ErrMissingField
		}
		category = n.opts.DefaultCategory
	}

	return domain.Transaction{
		Date:        date,
		Amount:      amount,
		Type:        parseType(fields[domain.FieldType]),
		Category:    category,
		SubCategory: strings.TrimSpace(fields[domain.FieldSubCategory]),
		Description: strings.TrimSpace(fields[domain.FieldDescription]),
		PaymentMode: strings.TrimSpace(fields[domain.FieldPaymentMode]),
		Provenance:  strings.TrimSpace(fields[domain.FieldRemarks]),
	}, nil
}

// canonicalize re-keys a raw record onto canonical field names. When two
// source keys resolve to the same canonical field, the first non-empty value
// wins.
func canonicalize(rec domain.RawRecord) map[string]string {
	fields := make(map[string]string, len(rec))
	for k, v := range rec {
		canonical, ok := domain.CanonicalField(k)
		if !ok {
			continue
		}
		if existing, dup := fields[canonical]; dup && existing != "" {
			continue
		}
		fields[canonical] = v
	}
	return fields
}

func parseType(s string) domain.TxType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "debit", "out", "outgoing", "withdrawal":
		return domain.TypeExpense
	default:
		return domain.TypeIncome
	}
}
