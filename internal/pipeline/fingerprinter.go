// Package pipeline drives fingerprint passes over materialized data: it
// fuses every field's pipeline into one scan of the rows, observes metrics
// around the pass, and honors context cancellation between batches.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/prismdata/prism/pkg/config"
	"github.com/prismdata/prism/pkg/fingerprint"
	"github.com/prismdata/prism/pkg/logger"
	"github.com/prismdata/prism/pkg/metrics"
	"github.com/prismdata/prism/pkg/models"
	"github.com/prismdata/prism/pkg/prismerrors"
	"github.com/prismdata/prism/pkg/reducer"
)

// cancelCheckInterval is how many rows are folded between context checks.
const cancelCheckInterval = 1024

// TableFingerprinter fingerprints every field of a table in one shared pass.
type TableFingerprinter struct {
	cfg *config.Config
	log *zap.Logger
}

// NewTableFingerprinter creates a fingerprinter; a nil config uses the
// engine defaults.
func NewTableFingerprinter(cfg *config.Config) *TableFingerprinter {
	if cfg == nil {
		cfg = config.New()
	}
	return &TableFingerprinter{
		cfg: cfg,
		log: logger.Get().Named("pipeline"),
	}
}

// Fingerprint folds all rows once and returns one fingerprint per field,
// keyed by field name. Rows shorter than the field list contribute nil cells
// to the trailing fields.
func (t *TableFingerprinter) Fingerprint(ctx context.Context, fields []models.Field, rows []models.Row) (map[string]fingerprint.Fingerprint, error) {
	if len(fields) == 0 {
		return nil, prismerrors.New(prismerrors.ErrorTypeValidation, "no fields to fingerprint")
	}

	opts := fingerprint.Options{Config: t.cfg}
	parts := make(map[string]reducer.Erased[models.Row], len(fields))
	kinds := make(map[string]fingerprint.PipelineKind, len(fields))
	for i, f := range fields {
		sig := models.Signature{f.Type}
		kinds[f.Name] = fingerprint.Classify(sig)
		col := projectColumn(i)
		parts[f.Name] = reducer.Erase(reducer.PreStep(fingerprint.BuildPipeline(opts, sig), col))
	}
	fused := reducer.Fuse(parts)

	timer := metrics.NewTimer()
	state := fused.Init()
	for i, row := range rows {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, prismerrors.Wrap(err, prismerrors.ErrorTypeInternal, "fingerprint pass canceled")
			}
		}
		state = fused.Step(state, row)
	}
	raw := fused.Done(state)
	metrics.RowsFolded.Add(float64(len(rows)))

	out := make(map[string]fingerprint.Fingerprint, len(raw))
	for name, fp := range raw {
		out[name] = fp.(fingerprint.Fingerprint)
		metrics.FieldsFingerprinted.WithLabelValues(kinds[name].String()).Inc()
	}

	logger.WithContext(ctx).Info("fingerprinted table",
		zap.Int("fields", len(fields)),
		zap.Int("rows", len(rows)),
		zap.Duration("duration", timer.ObserveFingerprint()))
	return out, nil
}

// FingerprintPair folds all rows once through the composite pipeline for an
// ordered pair of fields.
func (t *TableFingerprinter) FingerprintPair(ctx context.Context, sig models.Signature, rows []models.Row) (fingerprint.Fingerprint, error) {
	if len(sig) != 2 {
		return nil, prismerrors.New(prismerrors.ErrorTypeValidation, "pair fingerprint requires exactly two tags").
			WithDetail("tags", len(sig))
	}

	opts := fingerprint.Options{Config: t.cfg}
	pipe := fingerprint.BuildPipeline(opts, sig)
	kind := fingerprint.Classify(sig)

	timer := metrics.NewTimer()
	state := pipe.Init()
	for i, row := range rows {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, prismerrors.Wrap(err, prismerrors.ErrorTypeInternal, "fingerprint pass canceled")
			}
		}
		state = pipe.Step(state, row)
	}
	fp := pipe.Done(state)
	metrics.RowsFolded.Add(float64(len(rows)))
	metrics.FieldsFingerprinted.WithLabelValues(kind.String()).Inc()

	t.log.Info("fingerprinted pair",
		zap.String("signature", sig.String()),
		zap.String("pipeline", kind.String()),
		zap.Int("rows", len(rows)),
		zap.Duration("duration", timer.ObserveFingerprint()))
	return fp, nil
}

// projectColumn narrows a table row to the single-cell row a per-field
// pipeline consumes.
func projectColumn(i int) func(models.Row) models.Row {
	return func(row models.Row) models.Row {
		if i >= len(row) {
			return models.Row{nil}
		}
		return models.Row{row[i]}
	}
}
