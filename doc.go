// Package prism is a single-pass streaming statistical fingerprinting engine
// for tabular data.
//
// Given a semantic type tag per column and one pass over the rows, Prism
// folds every column into a fingerprint: a flat summary map built from
// bounded-memory sketches (adaptive histogram, exact categorical histogram,
// HyperLogLog cardinality estimator) plus derived statistics such as
// entropy, percentiles, correlation, time-series decomposition and
// period-over-period growth. A comparison stage reduces two fingerprints of
// the same type to a bounded distance.
//
// # Architecture
//
// Everything is built on a small fold algebra (pkg/reducer): a Fold is an
// (Init, Step, Done) triple, and combinators fuse many folds into one scan,
// transform inputs and outputs, and roll up per-group state. The registry
// (pkg/fingerprint) dispatches a type signature to the pipeline for its
// category; internal/pipeline fuses per-field pipelines so a whole table is
// fingerprinted in exactly one pass over the rows.
//
// Cost policy (pkg/costs) gates the expensive extras: seasonal decomposition
// requires the unbounded computation ceiling, and the sample-only query
// ceiling becomes a row-limit hint for whatever produces the rows. Prism
// never fetches data itself.
//
// # Quick start
//
//	fields := []models.Field{
//		{Name: "total", Type: models.Tag(models.KindNumber, models.KindAny)},
//	}
//	f := pipeline.NewTableFingerprinter(config.New())
//	fps, err := f.Fingerprint(ctx, fields, rows)
//
// The prism CLI (cmd/prism) wraps the same path for CSV files, inferring
// column types with pkg/schema.
package prism
