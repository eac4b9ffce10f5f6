// Package fingerprint implements the type-dispatched statistical
// fingerprinting engine. Given a semantic type signature and a stream of
// rows, it builds a single-pass reducer pipeline whose finalization is a
// Fingerprint: a flat map from statistic name to value.
//
// # Dispatch
//
// BuildPipeline selects the pipeline from a closed set of type categories
// with an explicit precedence order; unknown signatures never fail, they
// fall through to a default pipeline that only counts values and nils.
//
// # Shape of a fingerprint
//
// Every fingerprint carries "count" and "type". Pipelines add their own
// statistics on top; derived ratios whose denominator is zero are simply
// absent, never NaN and never an error.
package fingerprint

import (
	"math"

	"github.com/prismdata/prism/pkg/config"
)

// Fingerprint is a finalized statistical summary for one column or one pair
// of columns. It is plain data: created by one fold, immutable afterwards.
type Fingerprint map[string]any

// Count returns the "count" field, zero when absent.
func (fp Fingerprint) Count() int64 {
	if n, ok := fp["count"].(int64); ok {
		return n
	}
	return 0
}

// Type returns the "type" field, empty when absent or nil.
func (fp Fingerprint) Type() string {
	if t, ok := fp["type"].(string); ok {
		return t
	}
	return ""
}

// Options carries the configuration threaded through pipeline construction.
// A zero Options uses config.New() defaults.
type Options struct {
	Config *config.Config
}

func (o Options) cfg() *config.Config {
	if o.Config != nil {
		return o.Config
	}
	return config.New()
}

// safeDiv divides a by b, reporting ok=false instead of dividing by zero.
func safeDiv(a, b float64) (float64, bool) {
	if b == 0 {
		return 0, false
	}
	return a / b, true
}

// putRatio stores a/b under key, leaving the field absent when b is zero or
// the quotient is not finite.
func putRatio(fp Fingerprint, key string, a, b float64) {
	if q, ok := safeDiv(a, b); ok && !math.IsNaN(q) && !math.IsInf(q, 0) {
		fp[key] = q
	}
}

// putNils stores the shared nil-tracking fields.
func putNils(fp Fingerprint, nilCount int64) {
	fp["nil-count"] = nilCount
	fp["has-nils?"] = nilCount > 0
}
