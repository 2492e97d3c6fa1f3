package domain

import "strings"

// RawRecord is an unvalidated, loosely-keyed record extracted from a file.
// Keys may be raw header names or already-canonical field names; values are
// the untouched source strings.
type RawRecord map[string]string

// Canonical field names. Extractors and the normalizer both resolve source
// header variants through CanonicalField so naming variance never propagates
// past this boundary.
const (
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldSubCategory = "subcategory"
	FieldDescription = "description"
	FieldPaymentMode = "paymentmode"
	FieldType        = "type"
	FieldRemarks     = "remarks"
)

// fieldSynonyms maps normalized header keys to canonical field names.
// Keys here are already lowercased with spaces, underscores and hyphens
// removed, so "Transaction Date", "transaction_date" and "transaction-date"
// all land on the same entry.
var fieldSynonyms = map[string]string{
	"date":                FieldDate,
	"transactiondate":     FieldDate,
	"txndate":             FieldDate,
	"postingdate":         FieldDate,
	"valuedate":           FieldDate,
	"amount":              FieldAmount,
	"amt":                 FieldAmount,
	"value":               FieldAmount,
	"total":               FieldAmount,
	"transactionamount":   FieldAmount,
	"category":            FieldCategory,
	"cat":                 FieldCategory,
	"transactioncategory": FieldCategory,
	"subcategory":         FieldSubCategory,
	"subcat":              FieldSubCategory,
	"description":         FieldDescription,
	"desc":                FieldDescription,
	"narration":           FieldDescription,
	"details":             FieldDescription,
	"memo":                FieldDescription,
	"particulars":         FieldDescription,
	"paymentmode":         FieldPaymentMode,
	"paymentmethod":       FieldPaymentMode,
	"modeofpayment":       FieldPaymentMode,
	"mode":                FieldPaymentMode,
	"method":              FieldPaymentMode,
	"type":                FieldType,
	"transactiontype":     FieldType,
	"direction":           FieldType,
	"remarks":             FieldRemarks,
	"remark":              FieldRemarks,
	"note":                FieldRemarks,
	"notes":               FieldRemarks,
}

// CanonicalField resolves a raw header name to its canonical field name.
// The second return is false for headers the engine does not recognize;
// callers ignore those columns.
func CanonicalField(name string) (string, bool) {
	key := normalizeKey(name)
	canonical, ok := fieldSynonyms[key]
	return canonical, ok
}

func normalizeKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	return key
}
