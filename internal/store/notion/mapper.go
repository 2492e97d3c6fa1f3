package notion

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/jomei/notionapi"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/ledger-import/internal/domain"
)

// Database property names. The target Notion database must define these
// columns with the matching property types.
const (
	propTransactionID = "Transaction ID" // title
	propDate          = "Date"           // date
	propAmount        = "Amount"         // number
	propType          = "Type"           // select
	propCategory      = "Category"       // select
	propSubCategory   = "Sub-Category"   // select
	propDescription   = "Description"    // rich text
	propPaymentMode   = "Payment Mode"   // select
	propRemarks       = "Remarks"        // rich text
)

// transactionProperties converts a transaction to Notion page properties.
func transactionProperties(id string, tx domain.Transaction) notionapi.Properties {
	amount, _ := tx.Amount.Round(2).Float64()

	props := notionapi.Properties{
		propTransactionID: notionapi.TitleProperty{
			Title: richText(id),
		},
		propDate: notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: notionDate(tx.Date),
			},
		},
		propAmount: notionapi.NumberProperty{
			Number: amount,
		},
		propType: notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(tx.Type)},
		},
		propCategory: notionapi.SelectProperty{
			Select: notionapi.Option{Name: tx.Category},
		},
	}

	if tx.SubCategory != "" {
		props[propSubCategory] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: tx.SubCategory},
		}
	}
	if tx.Description != "" {
		props[propDescription] = notionapi.RichTextProperty{
			RichText: richText(tx.Description),
		}
	}
	if tx.PaymentMode != "" {
		props[propPaymentMode] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: tx.PaymentMode},
		}
	}
	if tx.Provenance != "" {
		props[propRemarks] = notionapi.RichTextProperty{
			RichText: richText(tx.Provenance),
		}
	}

	return props
}

// transactionFromPage maps a queried page back to a transaction. The second
// return is false for pages without a usable date or amount.
func transactionFromPage(page notionapi.Page) (domain.Transaction, bool) {
	tx := domain.Transaction{
		ID:          titleText(page, propTransactionID),
		Type:        domain.TxType(selectName(page, propType)),
		Category:    selectName(page, propCategory),
		SubCategory: selectName(page, propSubCategory),
		Description: plainText(page, propDescription),
		PaymentMode: selectName(page, propPaymentMode),
		Provenance:  plainText(page, propRemarks),
	}

	dateProp, ok := page.Properties[propDate].(*notionapi.DateProperty)
	if !ok || dateProp.Date == nil || dateProp.Date.Start == nil {
		return domain.Transaction{}, false
	}
	tx.Date = civil.DateOf(time.Time(*dateProp.Date.Start))

	numberProp, ok := page.Properties[propAmount].(*notionapi.NumberProperty)
	if !ok {
		return domain.Transaction{}, false
	}
	tx.Amount = decimal.NewFromFloat(numberProp.Number).Round(2)
	if !tx.Amount.IsPositive() {
		return domain.Transaction{}, false
	}

	return tx, true
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{Content: content},
		},
	}
}

func notionDate(d civil.Date) *notionapi.Date {
	nd := notionapi.Date(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC))
	return &nd
}

func titleText(page notionapi.Page, name string) string {
	if prop, ok := page.Properties[name].(*notionapi.TitleProperty); ok && len(prop.Title) > 0 {
		return prop.Title[0].PlainText
	}
	return ""
}

func plainText(page notionapi.Page, name string) string {
	if prop, ok := page.Properties[name].(*notionapi.RichTextProperty); ok && len(prop.RichText) > 0 {
		return prop.RichText[0].PlainText
	}
	return ""
}

func selectName(page notionapi.Page, name string) string {
	if prop, ok := page.Properties[name].(*notionapi.SelectProperty); ok {
		return prop.Select.Name
	}
	return ""
}
