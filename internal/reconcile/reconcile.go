// Package reconcile classifies imported transactions against the current
// ledger using bucketed fuzzy scoring.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/ledger-import/internal/domain"
)

// Scoring weights and classification thresholds. A candidate pair scores
// 0-7; >= exactThreshold is an exact match, >= partialThreshold a partial
// match, anything lower leaves the imported record as new.
const (
	descriptionWeight = 3
	paymentModeWeight = 2
	subCategoryWeight = 1
	amountWeight      = 1

	exactThreshold   = 5
	partialThreshold = 3
)

// amountTolerance is the maximum absolute difference for two amounts to
// count as matching.
var amountTolerance = decimal.New(1, -2) // 0.01

// Match is a ledger/imported pair classified as the same transaction.
type Match struct {
	Current  domain.Transaction
	Imported domain.Transaction
	Score    int
}

// Mismatch is a ledger/imported pair that plausibly refers to the same
// event but differs in some fields. Differences are human-readable, in a
// fixed field order.
type Mismatch struct {
	Current     domain.Transaction
	Imported    domain.Transaction
	Score       int
	Differences []string
}

// Summary holds the derived counts of a comparison.
type Summary struct {
	TotalImported  int
	TotalCurrent   int
	ExactMatches   int
	PartialMatches int
	NewRecords     int
	MissingRecords int
}

// Result partitions both inputs: every ledger record lands in exactly one
// of {Matched, Mismatched, Missing} and every imported record in exactly
// one of {Matched, Mismatched, New}.
type Result struct {
	Matched    []Match
	Mismatched []Mismatch
	New        []domain.Transaction
	Missing    []domain.Transaction
	Summary    Summary
}

// Compare classifies every imported transaction against the current ledger.
//
// It is a pure function: no I/O, deterministic given its inputs and the
// order of imported. Matching is greedy per imported record in input order
// with no backtracking; ties between candidates go to the ledger entry
// encountered first. Consumers needing a globally optimal assignment want a
// different algorithm.
func Compare(current, imported []domain.Transaction) Result {
	buckets := make(map[string][]int, len(current))
	for i, tx := range current {
		key := bucketKey(tx)
		buckets[key] = append(buckets[key], i)
	}
	consumed := make([]bool, len(current))

	var result Result
	for _, imp := range imported {
		bestIdx, bestScore := -1, -1
		for _, ci := range buckets[bucketKey(imp)] {
			if consumed[ci] {
				continue
			}
			if s := score(current[ci], imp); s > bestScore {
				bestIdx, bestScore = ci, s
			}
		}

		switch {
		case bestIdx < 0 || bestScore < partialThreshold:
			result.New = append(result.New, imp)
		case bestScore >= exactThreshold:
			consumed[bestIdx] = true
			result.Matched = append(result.Matched, Match{
				Current:  current[bestIdx],
				Imported: imp,
				Score:    bestScore,
			})
		default:
			consumed[bestIdx] = true
			result.Mismatched = append(result.Mismatched, Mismatch{
				Current:     current[bestIdx],
				Imported:    imp,
				Score:       bestScore,
				Differences: differences(current[bestIdx], imp),
			})
		}
	}

	for i, tx := range current {
		if !consumed[i] {
			result.Missing = append(result.Missing, tx)
		}
	}

	result.Summary = Summary{
		TotalImported:  len(imported),
		TotalCurrent:   len(current),
		ExactMatches:   len(result.Matched),
		PartialMatches: len(result.Mismatched),
		NewRecords:     len(result.New),
		MissingRecords: len(result.Missing),
	}
	return result
}

// bucketKey groups transactions that are plausibly the same event: same
// date, amount rounded to the nearest unit, and the first ten characters
// of the category, case-insensitive and trimmed.
func bucketKey(tx domain.Transaction) string {
	cat := strings.ToLower(strings.TrimSpace(tx.Category))
	if r := []rune(cat); len(r) > 10 {
		cat = string(r[:10])
	}
	return fmt.Sprintf("%s|%s|%s", tx.Date, tx.Amount.Round(0), cat)
}

func score(current, imported domain.Transaction) int {
	s := 0
	if fieldsEqual(current.Description, imported.Description) {
		s += descriptionWeight
	}
	if fieldsEqual(current.PaymentMode, imported.PaymentMode) {
		s += paymentModeWeight
	}
	if fieldsEqual(current.SubCategory, imported.SubCategory) {
		s += subCategoryWeight
	}
	if amountsClose(current.Amount, imported.Amount) {
		s += amountWeight
	}
	return s
}

func fieldsEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func amountsClose(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(amountTolerance)
}

// differences renders the field-level diffs of a partial match, in a fixed
// order, including only fields that actually differ.
func differences(current, imported domain.Transaction) []string {
	var diffs []string
	add := func(field, a, b string) {
		diffs = append(diffs, fmt.Sprintf("%s: %q vs %q", field, a, b))
	}

	if !fieldsEqual(current.Category, imported.Category) {
		add("Category", current.Category, imported.Category)
	}
	if !fieldsEqual(current.Description, imported.Description) {
		add("Description", current.Description, imported.Description)
	}
	if !fieldsEqual(current.PaymentMode, imported.PaymentMode) {
		add("Payment Mode", current.PaymentMode, imported.PaymentMode)
	}
	if !fieldsEqual(current.SubCategory, imported.SubCategory) {
		add("Sub-Category", current.SubCategory, imported.SubCategory)
	}
	if !amountsClose(current.Amount, imported.Amount) {
		add("Amount", current.Amount.String(), imported.Amount.String())
	}
	return diffs
}
