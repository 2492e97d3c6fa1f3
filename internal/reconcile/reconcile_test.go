package reconcile

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/ledger-import/internal/domain"
)

func tx(date string, amount int64, category, description, paymentMode string) domain.Transaction {
	d, err := civil.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{
		Date:        d,
		Amount:      decimal.NewFromInt(amount),
		Type:        domain.TypeIncome,
		Category:    category,
		Description: description,
		PaymentMode: paymentMode,
	}
}

func TestCompare_ExactMatch(t *testing.T) {
	ledger := []domain.Transaction{tx("2024-02-01", 1000, "Salary", "Jan Salary", "Bank Transfer")}
	imported := []domain.Transaction{tx("2024-02-01", 1000, "Salary", "Jan Salary", "Bank Transfer")}

	got := Compare(ledger, imported)

	if len(got.Matched) != 1 || len(got.Mismatched) != 0 || len(got.New) != 0 || len(got.Missing) != 0 {
		t.Fatalf("buckets = %d/%d/%d/%d, want 1/0/0/0",
			len(got.Matched), len(got.Mismatched), len(got.New), len(got.Missing))
	}
	if got.Matched[0].Score != 7 {
		t.Errorf("Score = %d, want 7", got.Matched[0].Score)
	}
}

func TestCompare_PartialMatchWithDifferences(t *testing.T) {
	ledger := []domain.Transaction{tx("2024-02-01", 1000, "Salary", "Jan Salary", "Bank Transfer")}
	imported := []domain.Transaction{tx("2024-02-01", 1000, "Salary", "February Salary", "Bank Transfer")}

	got := Compare(ledger, imported)

	if len(got.Mismatched) != 1 {
		t.Fatalf("Mismatched = %d, want 1", len(got.Mismatched))
	}
	// payment mode (+2) + empty sub-categories (+1) + amount (+1)
	if got.Mismatched[0].Score != 4 {
		t.Errorf("Score = %d, want 4", got.Mismatched[0].Score)
	}
	wantDiffs := []string{`Description: "Jan Salary" vs "February Salary"`}
	if diff := cmp.Diff(wantDiffs, got.Mismatched[0].Differences); diff != "" {
		t.Errorf("Differences mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_NewRecord(t *testing.T) {
	ledger := []domain.Transaction{tx("2024-02-01", 1000, "Salary", "Jan Salary", "Bank Transfer")}
	imported := []domain.Transaction{tx("2024-03-15", 50, "Food", "Lunch", "Cash")}

	got := Compare(ledger, imported)

	if len(got.New) != 1 || len(got.Missing) != 1 {
		t.Fatalf("New = %d, Missing = %d, want 1 and 1", len(got.New), len(got.Missing))
	}
}

func TestCompare_MissingRecord(t *testing.T) {
	ledger := []domain.Transaction{
		tx("2024-02-01", 1000, "Salary", "Jan Salary", "Bank Transfer"),
		tx("2024-02-10", 200, "Rent", "February rent", "UPI"),
	}
	imported := []domain.Transaction{tx("2024-02-01", 1000, "Salary", "Jan Salary", "Bank Transfer")}

	got := Compare(ledger, imported)

	if len(got.Missing) != 1 {
		t.Fatalf("Missing = %d, want 1", len(got.Missing))
	}
	if got.Missing[0].Category != "Rent" {
		t.Errorf("Missing[0].Category = %q, want Rent", got.Missing[0].Category)
	}
}

func TestCompare_SameBucketLowScoreIsNew(t *testing.T) {
	// Same bucket (date, rounded amount, category prefix) but nothing else
	// in common: score 1 (amount only) stays below the partial threshold.
	ledger := []domain.Transaction{tx("2024-02-01", 100, "Food", "Groceries", "Card")}
	imp := tx("2024-02-01", 100, "Food", "Restaurant", "Cash")
	imp.SubCategory = "Dining"

	got := Compare(ledger, []domain.Transaction{imp})

	if len(got.New) != 1 || len(got.Missing) != 1 {
		t.Fatalf("New = %d, Missing = %d, want 1 and 1", len(got.New), len(got.Missing))
	}
}

func TestCompare_GreedyFirstCandidateWinsTies(t *testing.T) {
	first := tx("2024-02-01", 100, "Food", "Groceries", "Card")
	second := tx("2024-02-01", 100, "Food", "Groceries", "Card")
	second.Description = "groceries" // equal under case-insensitive compare

	got := Compare([]domain.Transaction{first, second}, []domain.Transaction{
		tx("2024-02-01", 100, "Food", "Groceries", "Card"),
	})

	if len(got.Matched) != 1 || len(got.Missing) != 1 {
		t.Fatalf("Matched = %d, Missing = %d, want 1 and 1", len(got.Matched), len(got.Missing))
	}
	if got.Matched[0].Current.Description != "Groceries" {
		t.Errorf("tie should go to the first ledger entry, matched %q", got.Matched[0].Current.Description)
	}
}

func TestCompare_PartitionInvariant(t *testing.T) {
	ledger := []domain.Transaction{
		tx("2024-02-01", 1000, "Salary", "Jan Salary", "Bank Transfer"),
		tx("2024-02-05", 55, "Food", "Groceries", "Card"),
		tx("2024-02-10", 200, "Rent", "February rent", "UPI"),
		tx("2024-02-10", 200, "Rent", "Parking rent", "UPI"),
	}
	imported := []domain.Transaction{
		tx("2024-02-01", 1000, "Salary", "Jan Salary", "Bank Transfer"),
		tx("2024-02-05", 55, "Food", "Supermarket", "Card"),
		tx("2024-02-10", 200, "Rent", "February rent", "UPI"),
		tx("2024-02-28", 75, "Travel", "Train", "Card"),
	}

	got := Compare(ledger, imported)

	if n := len(got.Matched) + len(got.Mismatched) + len(got.New); n != len(imported) {
		t.Errorf("|matched|+|mismatched|+|new| = %d, want |imported| = %d", n, len(imported))
	}
	if n := len(got.Matched) + len(got.Mismatched) + len(got.Missing); n != len(ledger) {
		t.Errorf("|matched|+|mismatched|+|missing| = %d, want |ledger| = %d", n, len(ledger))
	}

	want := Summary{
		TotalImported:  4,
		TotalCurrent:   4,
		ExactMatches:   len(got.Matched),
		PartialMatches: len(got.Mismatched),
		NewRecords:     len(got.New),
		MissingRecords: len(got.Missing),
	}
	if diff := cmp.Diff(want, got.Summary); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_Idempotence(t *testing.T) {
	ledger := []domain.Transaction{
		tx("2024-02-01", 1000, "Salary", "Jan Salary", "Bank Transfer"),
		tx("2024-02-05", 55, "Food", "Groceries", "Card"),
	}

	got := Compare(ledger, ledger)

	if len(got.Matched) != len(ledger) || len(got.New) != 0 || len(got.Missing) != 0 {
		t.Errorf("self-comparison: matched=%d new=%d missing=%d, want %d/0/0",
			len(got.Matched), len(got.New), len(got.Missing), len(ledger))
	}
}

func TestCompare_AmountTolerance(t *testing.T) {
	ledger := []domain.Transaction{tx("2024-02-01", 100, "Food", "Groceries", "Card")}
	imp := ledger[0]
	imp.Amount = decimal.RequireFromString("100.01")

	got := Compare(ledger, []domain.Transaction{imp})

	if len(got.Matched) != 1 {
		t.Fatalf("Matched = %d, want 1 (0.01 within tolerance)", len(got.Matched))
	}
	if got.Matched[0].Score != 7 {
		t.Errorf("Score = %d, want 7", got.Matched[0].Score)
	}
}

func TestCompare_BucketKeyCategoryPrefix(t *testing.T) {
	// Categories sharing the first ten characters land in the same bucket.
	ledger := []domain.Transaction{tx("2024-02-01", 100, "Entertainment", "Cinema", "Card")}
	imported := []domain.Transaction{tx("2024-02-01", 100, "ENTERTAINMENT & LEISURE", "Cinema", "Card")}

	got := Compare(ledger, imported)

	if len(got.Matched) != 1 {
		t.Fatalf("Matched = %d, want 1 (shared category prefix)", len(got.Matched))
	}
}
