// Package schema infers semantic type tags from sampled column values, so
// that untyped row sources (CSV files, generic JSON) can be fingerprinted
// without a caller-supplied signature.
package schema

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/prismdata/prism/pkg/logger"
	"github.com/prismdata/prism/pkg/models"
)

// Inferencer detects the semantic type of a column from a sample of its
// values.
type Inferencer struct {
	log *zap.Logger

	// SampleSize bounds how many values per column are inspected.
	SampleSize int
	// ConfidenceThreshold is the fraction of non-missing samples that must
	// agree before a specific kind wins over Text.
	ConfidenceThreshold float64
	// CategoryMaxCardinality refines a column to Category when its distinct
	// sampled values stay at or under this bound.
	CategoryMaxCardinality int
}

// NewInferencer creates an inferencer with the default sampling bounds.
func NewInferencer() *Inferencer {
	return &Inferencer{
		log:                    logger.Get().Named("schema"),
		SampleSize:             1000,
		ConfidenceThreshold:    0.95,
		CategoryMaxCardinality: 32,
	}
}

// InferSignature infers one tag per column, in column order.
func (e *Inferencer) InferSignature(names []string, columns [][]any) models.Signature {
	sig := make(models.Signature, len(columns))
	for i, values := range columns {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		sig[i] = e.InferColumn(name, values)
	}
	return sig
}

// InferColumn infers the tag for one column from its sampled values. Columns
// with no parseable consensus fall back to Text; all-nil columns are Any.
func (e *Inferencer) InferColumn(name string, values []any) models.TypeTag {
	if len(values) > e.SampleSize {
		values = values[:e.SampleSize]
	}

	var total, booleans, numbers, datetimes int
	distinct := make(map[string]struct{})
	for _, v := range values {
		if v == nil {
			continue
		}
		total++
		if len(distinct) <= e.CategoryMaxCardinality {
			distinct[models.CategoryKey(v)] = struct{}{}
		}
		if isBoolean(v) {
			booleans++
		}
		if isNumber(v) {
			numbers++
		}
		if isDateTime(v) {
			datetimes++
		}
	}

	if total == 0 {
		return models.TypeTag{Base: models.KindAny}
	}

	tag := models.TypeTag{Base: models.KindText}
	threshold := int(e.ConfidenceThreshold * float64(total))
	switch {
	case booleans >= threshold && booleans > 0:
		tag.Base = models.KindBoolean
	case datetimes >= threshold && datetimes > 0:
		tag.Base = models.KindDateTime
	case numbers >= threshold && numbers > 0:
		tag.Base = models.KindNumber
	}

	// Low-cardinality columns of any base kind refine to Category; the
	// registry's precedence decides which pipeline wins.
	if len(distinct) <= e.CategoryMaxCardinality && len(distinct) < total {
		tag.Refined = models.KindCategory
	}

	e.log.Debug("inferred column type",
		zap.String("column", name),
		zap.String("type", tag.String()),
		zap.Int("sampled", total))
	return tag
}

func isBoolean(v any) bool {
	switch s := v.(type) {
	case bool:
		return true
	case string:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "false":
			return true
		}
	}
	return false
}

func isNumber(v any) bool {
	if _, ok := models.Number(v); ok {
		return true
	}
	if s, ok := v.(string); ok {
		_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return err == nil
	}
	return false
}

// isDateTime reports whether v is a temporal value. Bare numerics are not
// treated as timestamps here even though they parse as epochs, otherwise
// every numeric column would look temporal.
func isDateTime(v any) bool {
	switch s := v.(type) {
	case time.Time:
		return true
	case string:
		if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return false
		}
		_, ok := models.Timestamp(s)
		return ok
	}
	return false
}
