package notion

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jomei/notionapi"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/ledger-import/internal/domain"
)

func TestTransactionProperties(t *testing.T) {
	tx := domain.Transaction{
		Date:        civil.Date{Year: 2024, Month: 2, Day: 1},
		Amount:      decimal.RequireFromString("1000.50"),
		Type:        domain.TypeIncome,
		Category:    "Salary",
		SubCategory: "Base",
		Description: "Jan Salary",
		PaymentMode: "Bank Transfer",
		Provenance:  "statement.csv (csv)",
	}

	props := transactionProperties("tx-1", tx)

	title, ok := props[propTransactionID].(notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 || title.Title[0].Text.Content != "tx-1" {
		t.Errorf("title property = %+v", props[propTransactionID])
	}

	number, ok := props[propAmount].(notionapi.NumberProperty)
	if !ok || number.Number != 1000.50 {
		t.Errorf("amount property = %+v", props[propAmount])
	}

	sel, ok := props[propCategory].(notionapi.SelectProperty)
	if !ok || sel.Select.Name != "Salary" {
		t.Errorf("category property = %+v", props[propCategory])
	}

	date, ok := props[propDate].(notionapi.DateProperty)
	if !ok || date.Date == nil || date.Date.Start == nil {
		t.Fatalf("date property = %+v", props[propDate])
	}
	if got := time.Time(*date.Date.Start); got.Year() != 2024 || got.Month() != time.February || got.Day() != 1 {
		t.Errorf("date = %v", got)
	}
}

func TestTransactionProperties_OptionalFieldsOmitted(t *testing.T) {
	tx := domain.Transaction{
		Date:     civil.Date{Year: 2024, Month: 2, Day: 1},
		Amount:   decimal.NewFromInt(10),
		Type:     domain.TypeExpense,
		Category: "Food",
	}

	props := transactionProperties("tx-2", tx)

	for _, name := range []string{propSubCategory, propDescription, propPaymentMode, propRemarks} {
		if _, present := props[name]; present {
			t.Errorf("empty field %q should not be sent", name)
		}
	}
}

// Queried pages decode properties as pointer types; the mapper must read
// those back into a transaction.
func TestTransactionFromPage(t *testing.T) {
	start := notionapi.Date(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	page := notionapi.Page{
		Properties: notionapi.Properties{
			propTransactionID: &notionapi.TitleProperty{
				Title: []notionapi.RichText{{PlainText: "tx-1"}},
			},
			propDate: &notionapi.DateProperty{
				Date: &notionapi.DateObject{Start: &start},
			},
			propAmount: &notionapi.NumberProperty{Number: 1000.50},
			propType:   &notionapi.SelectProperty{Select: notionapi.Option{Name: "income"}},
			propCategory: &notionapi.SelectProperty{
				Select: notionapi.Option{Name: "Salary"},
			},
			propDescription: &notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{PlainText: "Jan Salary"}},
			},
			propPaymentMode: &notionapi.SelectProperty{
				Select: notionapi.Option{Name: "Bank Transfer"},
			},
		},
	}

	tx, ok := transactionFromPage(page)
	if !ok {
		t.Fatal("expected a usable transaction")
	}

	if tx.ID != "tx-1" {
		t.Errorf("ID = %q", tx.ID)
	}
	if tx.Date != (civil.Date{Year: 2024, Month: 2, Day: 1}) {
		t.Errorf("Date = %v", tx.Date)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("1000.5")) {
		t.Errorf("Amount = %s", tx.Amount)
	}
	if tx.Type != domain.TypeIncome || tx.Category != "Salary" {
		t.Errorf("Type/Category = %q/%q", tx.Type, tx.Category)
	}
	if tx.Description != "Jan Salary" || tx.PaymentMode != "Bank Transfer" {
		t.Errorf("Description/PaymentMode = %q/%q", tx.Description, tx.PaymentMode)
	}
}

func TestTransactionFromPage_MissingDateOrAmount(t *testing.T) {
	page := notionapi.Page{
		Properties: notionapi.Properties{
			propTransactionID: &notionapi.TitleProperty{
				Title: []notionapi.RichText{{PlainText: "tx-1"}},
			},
		},
	}

	if _, ok := transactionFromPage(page); ok {
		t.Error("page without date/amount should be skipped")
	}
}
