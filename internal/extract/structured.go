package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dvloznov/ledger-import/internal/domain"
)

// arrayProperties are the object keys searched for the record array when the
// top level of a structured document is an object rather than an array.
var arrayProperties = []string{"transactions", "incomes", "records"}

// extractStructured parses a JSON document: either a top-level array of
// objects, or an object with a transactions/incomes/records array property.
// Each element is mapped through the same field-synonym logic as delimited
// headers.
func extractStructured(data []byte) ([]domain.RawRecord, Info) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, Info{Success: false, Message: fmt.Sprintf("invalid JSON: %v", err)}
	}

	var elements []interface{}
	switch v := root.(type) {
	case []interface{}:
		elements = v
	case map[string]interface{}:
		for _, prop := range arrayProperties {
			if arr, ok := v[prop].([]interface{}); ok {
				elements = arr
				break
			}
		}
		if elements == nil {
			return nil, Info{Success: false, Message: "no transactions/incomes/records array found"}
		}
	default:
		return nil, Info{Success: false, Message: fmt.Sprintf("unexpected top-level JSON type %T", root)}
	}

	var info Info
	var records []domain.RawRecord
	for i, el := range elements {
		obj, ok := el.(map[string]interface{})
		if !ok {
			info.Skipped = append(info.Skipped, fmt.Sprintf("element %d: not an object", i))
			continue
		}
		rec := objectToRecord(obj)
		if len(rec) == 0 {
			info.Skipped = append(info.Skipped, fmt.Sprintf("element %d: no recognizable fields", i))
			continue
		}
		records = append(records, rec)
	}

	info.Records = len(records)
	info.Success = len(records) > 0
	if !info.Success {
		info.Message = "no usable elements"
	}
	return records, info
}

// objectToRecord maps one decoded JSON object onto a raw record, resolving
// key variants through the canonical synonym table and rendering values as
// source strings. json.Number keeps numerals exact.
func objectToRecord(obj map[string]interface{}) domain.RawRecord {
	rec := make(domain.RawRecord, len(obj))
	for k, v := range obj {
		canonical, ok := domain.CanonicalField(k)
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			rec[canonical] = val
		case json.Number:
			rec[canonical] = val.String()
		case bool:
			rec[canonical] = strconv.FormatBool(val)
		default:
			rec[canonical] = fmt.Sprintf("%v", val)
		}
	}
	return rec
}
