package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dvloznov/ledger-import/internal/domain"
)

// detectDelimiter picks comma or semicolon by comparing their frequency in
// the header line.
func detectDelimiter(header string) rune {
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}

// extractDelimited parses comma- or semicolon-separated text. The first row
// is the header, mapped through the canonical field synonym table. Rows
// missing a date or amount are skipped with a reason but do not abort
// parsing of subsequent rows.
func extractDelimited(data []byte) ([]domain.RawRecord, Info) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, Info{Success: false, Message: "empty input"}
	}

	headerLine, _, _ := strings.Cut(text, "\n")
	delim := detectDelimiter(headerLine)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	info := Info{Delimiter: delim}

	header, err := r.Read()
	if err != nil {
		return nil, Info{Delimiter: delim, Success: false, Message: fmt.Sprintf("unreadable header: %v", err)}
	}

	// column index -> canonical field name, unknown headers dropped
	columns := make(map[int]string, len(header))
	for i, name := range header {
		if canonical, ok := domain.CanonicalField(name); ok {
			columns[i] = canonical
		}
	}
	if len(columns) == 0 {
		return nil, Info{Delimiter: delim, Success: false, Message: "no recognizable columns in header"}
	}

	var records []domain.RawRecord
	for rowNo := 2; ; rowNo++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			info.Skipped = append(info.Skipped, fmt.Sprintf("row %d: %v", rowNo, err))
			continue
		}

		rec := make(domain.RawRecord, len(columns))
		for i, field := range row {
			if canonical, ok := columns[i]; ok {
				rec[canonical] = strings.TrimSpace(field)
			}
		}

		if rec[domain.FieldDate] == "" || rec[domain.FieldAmount] == "" {
			info.Skipped = append(info.Skipped, fmt.Sprintf("row %d: missing date or amount", rowNo))
			continue
		}
		records = append(records, rec)
	}

	info.Records = len(records)
	info.Success = len(records) > 0
	if !info.Success {
		info.Message = "no usable rows"
	}
	return records, info
}
