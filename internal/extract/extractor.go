package extract

import (
	"context"
	"fmt"

	"github.com/dvloznov/ledger-import/internal/domain"
	"github.com/dvloznov/ledger-import/internal/logger"
)

// Kind is the declared content kind of an uploaded file.
type Kind string

const (
	KindDelimited   Kind = "csv"
	KindStructured  Kind = "json"
	KindText        Kind = "text"
	KindPDF         Kind = "pdf"
	KindSpreadsheet Kind = "xlsx"
	KindImage       Kind = "image"
)

// Info describes the outcome of one extraction pass. Success false never
// means a raised error: extraction always returns whatever it could
// recover, and the caller decides whether zero records is fatal.
type Info struct {
	Kind      Kind
	Success   bool
	Message   string
	Delimiter rune     // set for delimited extraction
	Records   int
	Skipped   []string // per-row reasons for rows that were dropped
}

// Strategy extracts raw records from file content of one declared kind.
// Binary formats (PDF, spreadsheets, images) are handled exclusively
// through registered strategies; there are no built-ins for them.
type Strategy interface {
	Extract(ctx context.Context, data []byte) ([]domain.RawRecord, error)
}

// Extractor turns file bytes plus a declared kind into raw records.
type Extractor struct {
	strategies map[Kind]Strategy
}

func New() *Extractor {
	return &Extractor{strategies: make(map[Kind]Strategy)}
}

// Register installs a strategy for a declared kind, replacing any previous
// one. Registered strategies take precedence over the built-in extractors.
func (e *Extractor) Register(kind Kind, s Strategy) {
	e.strategies[kind] = s
}

// Extract produces raw records from file content. It never returns an
// error: malformed input degrades to a best-effort result with
// Info.Success false and a message.
func (e *Extractor) Extract(ctx context.Context, data []byte, kind Kind) ([]domain.RawRecord, Info) {
	log := logger.FromContext(ctx)

	if s, ok := e.strategies[kind]; ok {
		records, err := s.Extract(ctx, data)
		if err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Msg("extraction strategy failed")
			return nil, Info{Kind: kind, Success: false, Message: err.Error()}
		}
		return records, Info{Kind: kind, Success: len(records) > 0, Records: len(records)}
	}

	var (
		records []domain.RawRecord
		info    Info
	)
	switch kind {
	case KindDelimited:
		records, info = extractDelimited(data)
	case KindStructured:
		records, info = extractStructured(data)
	case KindText:
		records, info = extractFreeText(data)
	default:
		return nil, Info{
			Kind:    kind,
			Success: false,
			Message: fmt.Sprintf("unsupported format: %s", kind),
		}
	}

	info.Kind = kind
	for _, reason := range info.Skipped {
		log.Warn().Str("kind", string(kind)).Str("reason", reason).Msg("skipped row")
	}
	return records, info
}
