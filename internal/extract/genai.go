package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dvloznov/ledger-import/internal/domain"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.5-flash"

const extractionPrompt = "You are a financial document parser.\n\n" +
	"Task:\n" +
	"- Extract ALL transactions from the attached document.\n" +
	"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
	"- Output a JSON array of objects.\n\n" +
	"Each object must have these fields:\n" +
	"- \"date\": string, ISO format \"YYYY-MM-DD\"\n" +
	"- \"amount\": number (always positive)\n" +
	"- \"type\": \"income\" or \"expense\"\n" +
	"- \"category\": string\n" +
	"- \"subcategory\": string or null\n" +
	"- \"description\": string\n" +
	"- \"payment_mode\": string or null\n\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n" +
	"Output must begin with \"[\" and end with \"]\".\n"

// GeminiStrategy is a pluggable extraction Strategy for binary formats
// (PDF, spreadsheet exports, statement images) backed by a Gemini model.
// Callers register it per declared kind with the matching MIME type.
type GeminiStrategy struct {
	model    string
	mimeType string
}

// NewGeminiStrategy builds a strategy for content of the given MIME type.
// An empty model selects DefaultModelName.
func NewGeminiStrategy(model, mimeType string) *GeminiStrategy {
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiStrategy{model: model, mimeType: mimeType}
}

// Extract sends the document to the model and maps the strict-JSON response
// through the same field-synonym logic as structured text.
func (g *GeminiStrategy) Extract(ctx context.Context, data []byte) ([]domain.RawRecord, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini extract: create client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: extractionPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: g.mimeType,
						Data:     data,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini extract: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("gemini extract: empty response from model")
	}

	clean := cleanModelJSON(rawText)

	dec := json.NewDecoder(bytes.NewReader([]byte(clean)))
	dec.UseNumber()
	var elements []interface{}
	if err := dec.Decode(&elements); err != nil {
		return nil, fmt.Errorf("gemini extract: unmarshal JSON: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(elements))
	for i, el := range elements {
		obj, ok := el.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("gemini extract: element %d is %T, want object", i, el)
		}
		if rec := objectToRecord(obj); len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignores the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// keep only from the first '[' to the last ']'
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
