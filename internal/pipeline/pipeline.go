// Package pipeline wires the import engine together: file bytes flow
// through extraction and normalization into either the committer (import
// mode) or the reconciliation engine (compare mode).
package pipeline

import (
	"errors"
	"fmt"

	"github.com/dvloznov/ledger-import/internal/domain"
	"github.com/dvloznov/ledger-import/internal/extract"
	"github.com/dvloznov/ledger-import/internal/normalize"
)

// ErrNoUsableRecords is the only fatal extraction outcome: an entire file
// yielded zero usable records after normalization. Nothing is committed.
var ErrNoUsableRecords = errors.New("no data could be extracted")

// Config carries the caller's identity and policy explicitly. Nothing in
// the engine reads ambient global state.
type Config struct {
	UserID string

	// DefaultCategory, when set, is applied to records missing a
	// category instead of rejecting them.
	DefaultCategory string
}

// Rejection is one record dropped during normalization, retained for
// reporting.
type Rejection struct {
	Index  int
	Reason string
	Record domain.RawRecord
}

// Pipeline is the assembled engine. Safe for reuse across invocations;
// invocations share no mutable state.
type Pipeline struct {
	cfg        Config
	extractor  *extract.Extractor
	normalizer *normalize.Normalizer
}

func New(cfg Config) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		extractor:  extract.New(),
		normalizer: normalize.New(normalize.Options{DefaultCategory: cfg.DefaultCategory}),
	}
}

// RegisterStrategy installs an extraction strategy for a binary content
// kind, e.g. a Gemini-backed PDF parser.
func (p *Pipeline) RegisterStrategy(kind extract.Kind, s extract.Strategy) {
	p.extractor.Register(kind, s)
}

// provenanceTag describes the extraction source for audit purposes.
func provenanceTag(source string, kind extract.Kind) string {
	return fmt.Sprintf("%s (%s)", source, kind)
}
