package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/ledger-import/internal/commit"
	"github.com/dvloznov/ledger-import/internal/domain"
	"github.com/dvloznov/ledger-import/internal/extract"
	"github.com/dvloznov/ledger-import/internal/logger"
	"github.com/dvloznov/ledger-import/internal/reconcile"
)

// ImportResult aggregates everything the caller needs to report an import:
// extraction info, per-record rejections, and the commit summary.
type ImportResult struct {
	Extraction extract.Info
	Rejections []Rejection
	Commit     commit.Summary
}

// CompareResult carries the reconciliation outcome plus the extraction and
// normalization reports for the imported side.
type CompareResult struct {
	Extraction     extract.Info
	Rejections     []Rejection
	Reconciliation reconcile.Result
}

// ImportFile runs extract -> normalize -> commit. Per-record failures are
// recovered and reported; only a total failure to extract anything useful
// is escalated, as ErrNoUsableRecords.
func (p *Pipeline) ImportFile(ctx context.Context, data []byte, kind extract.Kind, source string, store commit.StoragePort) (*ImportResult, error) {
	txs, info, rejections, err := p.prepare(ctx, data, kind, source)
	if err != nil {
		return &ImportResult{Extraction: info, Rejections: rejections}, err
	}

	summary, err := commit.Commit(ctx, txs, store)
	if err != nil {
		return &ImportResult{Extraction: info, Rejections: rejections}, err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("source", source).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("import committed")

	return &ImportResult{Extraction: info, Rejections: rejections, Commit: summary}, nil
}

// CompareFile runs extract -> normalize, fetches the current ledger from
// the store, and reconciles the two sets. The ledger is read-only here;
// nothing is persisted.
func (p *Pipeline) CompareFile(ctx context.Context, data []byte, kind extract.Kind, source string, store commit.StoragePort) (*CompareResult, error) {
	txs, info, rejections, err := p.prepare(ctx, data, kind, source)
	if err != nil {
		return &CompareResult{Extraction: info, Rejections: rejections}, err
	}

	ledger, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("compare: listing current ledger: %w", err)
	}

	result := reconcile.Compare(ledger, txs)

	log := logger.FromContext(ctx)
	log.Info().
		Str("source", source).
		Int("exact", result.Summary.ExactMatches).
		Int("partial", result.Summary.PartialMatches).
		Int("new", result.Summary.NewRecords).
		Int("missing", result.Summary.MissingRecords).
		Msg("reconciliation complete")

	return &CompareResult{Extraction: info, Rejections: rejections, Reconciliation: result}, nil
}

// prepare runs the shared extract+normalize front half of both modes.
func (p *Pipeline) prepare(ctx context.Context, data []byte, kind extract.Kind, source string) ([]domain.Transaction, extract.Info, []Rejection, error) {
	log := logger.FromContext(ctx)

	records, info := p.extractor.Extract(ctx, data, kind)
	if !info.Success {
		log.Warn().Str("source", source).Str("message", info.Message).Msg("extraction degraded")
	}

	tag := provenanceTag(source, kind)

	var txs []domain.Transaction
	var rejections []Rejection
	for i, rec := range records {
		tx, err := p.normalizer.Normalize(rec)
		if err != nil {
			rejections = append(rejections, Rejection{Index: i, Reason: err.Error(), Record: rec})
			log.Warn().Int("record", i).Str("reason", err.Error()).Msg("record rejected")
			continue
		}
		if tx.Provenance == "" {
			tx.Provenance = tag
		}
		txs = append(txs, tx)
	}

	if len(txs) == 0 {
		return nil, info, rejections, fmt.Errorf("%w: %s", ErrNoUsableRecords, source)
	}
	return txs, info, rejections, nil
}
