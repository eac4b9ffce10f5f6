// Package compare computes bounded differences between fingerprints: a
// polymorphic per-kind difference in [0,1] and a normalized Euclidean
// distance over feature vectors drawn from two fingerprints of the same
// type.
package compare

import (
	"math"

	"github.com/prismdata/prism/pkg/divergence"
	"github.com/prismdata/prism/pkg/fingerprint"
	"github.com/prismdata/prism/pkg/prismerrors"
	"github.com/prismdata/prism/pkg/sketch"
)

// gridCells is the resolution of the shared uniform grid two numeric
// histograms are rebinned onto before their mass functions are compared.
const gridCells = 64

// Difference returns the per-kind difference between two values of the same
// runtime kind.
//
// Numbers compare by relative distance over magnitudes, zero meaning equal.
// Booleans are 0 when equal, 1 otherwise. Histograms compare as the
// complement 1 - JensenShannonDistance of their aligned mass functions, so
// identical histograms yield 1; downstream consumers depend on this
// polarity, do not invert it.
func Difference(a, b any) (float64, error) {
	switch x := a.(type) {
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, kindMismatch(a, b)
		}
		if x == y {
			return 0, nil
		}
		return 1, nil
	case *sketch.Histogram:
		y, ok := b.(*sketch.Histogram)
		if !ok {
			return 0, kindMismatch(a, b)
		}
		p, q := alignedMasses(x, y)
		return 1 - divergence.JensenShannonDistance(p, q), nil
	case *sketch.CategoryHistogram:
		y, ok := b.(*sketch.CategoryHistogram)
		if !ok {
			return 0, kindMismatch(a, b)
		}
		p, q := alignedCategoryMasses(x, y)
		return 1 - divergence.JensenShannonDistance(p, q), nil
	}

	x, okX := asFloat(a)
	y, okY := asFloat(b)
	if !okX || !okY {
		return 0, kindMismatch(a, b)
	}
	return numericDifference(x, y), nil
}

// numericDifference is the relative distance between two magnitudes,
// normalized by the larger one. Both zero means identical.
func numericDifference(a, b float64) float64 {
	a, b = math.Abs(a), math.Abs(b)
	max, min := math.Max(a, b), math.Min(a, b)
	if max == 0 {
		return 0
	}
	return (max - min) / max
}

// PairwiseDifferences zips two equal-length comparison vectors elementwise
// through Difference. A field absent (nil) in both vectors contributes 0;
// absent in exactly one contributes 1.
func PairwiseDifferences(a, b []any) ([]float64, error) {
	if len(a) != len(b) {
		return nil, prismerrors.New(prismerrors.ErrorTypeValidation,
			"comparison vectors differ in length").
			WithDetail("left", len(a)).
			WithDetail("right", len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		switch {
		case a[i] == nil && b[i] == nil:
			out[i] = 0
		case a[i] == nil || b[i] == nil:
			out[i] = 1
		default:
			d, err := Difference(a[i], b[i])
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
	}
	return out, nil
}

// Distance returns the Euclidean norm of the pairwise differences divided
// by sqrt(length), a normalized distance in [0,1] when every elementwise
// difference is bounded by 1. Empty vectors have distance 0.
func Distance(a, b []any) (float64, error) {
	diffs, err := PairwiseDifferences(a, b)
	if err != nil {
		return 0, err
	}
	if len(diffs) == 0 {
		return 0, nil
	}
	var sum float64
	for _, d := range diffs {
		sum += d * d
	}
	return math.Sqrt(sum) / math.Sqrt(float64(len(diffs))), nil
}

// numericVectorFields is the ordered subset of a numeric fingerprint
// selected for comparison.
var numericVectorFields = []string{
	"histogram", "mean", "median", "min", "max", "sd", "count",
	"kurtosis", "skewness", "entropy", "nil-count", "cardinality-vs-count",
	"span",
}

// defaultVectorFields covers fingerprints without a dedicated selection.
var defaultVectorFields = []string{"count", "nil-count", "entropy", "histogram"}

// Vector extracts the ordered comparison vector from a fingerprint. Absent
// fields appear as nil so that PairwiseDifferences can apply its absence
// rule.
func Vector(fp fingerprint.Fingerprint) []any {
	fields := defaultVectorFields
	if fp.Type() == "Number" {
		fields = numericVectorFields
	}
	out := make([]any, len(fields))
	for i, name := range fields {
		v, ok := fp[name]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case int64:
			out[i] = float64(n)
		case int:
			out[i] = float64(n)
		default:
			out[i] = v
		}
	}
	return out
}

// alignedMasses rebins two numeric histograms onto one uniform grid over
// the union of their ranges, taking each cell's mass from CDF differences.
// The shared grid guarantees matching supports for the divergence math.
func alignedMasses(a, b *sketch.Histogram) (p, q []float64) {
	lo := math.Min(a.Min(), b.Min())
	hi := math.Max(a.Max(), b.Max())
	if a.Count() == 0 {
		lo, hi = b.Min(), b.Max()
	}
	if b.Count() == 0 {
		lo, hi = a.Min(), a.Max()
	}

	p = make([]float64, gridCells)
	q = make([]float64, gridCells)
	if hi <= lo {
		// Degenerate range: all mass in one cell.
		if a.Count() > 0 {
			p[0] = 1
		}
		if b.Count() > 0 {
			q[0] = 1
		}
		return p, q
	}

	step := (hi - lo) / gridCells
	for i := 0; i < gridCells; i++ {
		left := lo + float64(i)*step
		right := left + step
		if i == gridCells-1 {
			right = hi
		}
		p[i] = cellMass(a, left, right, i == 0)
		q[i] = cellMass(b, left, right, i == 0)
	}
	return p, q
}

func cellMass(h *sketch.Histogram, left, right float64, first bool) float64 {
	if h.Count() == 0 {
		return 0
	}
	upper := h.CDF(right)
	if first {
		return upper
	}
	return upper - h.CDF(left)
}

// alignedCategoryMasses lines up two categorical histograms over the union
// of their observed categories, in a deterministic shared order.
func alignedCategoryMasses(a, b *sketch.CategoryHistogram) (p, q []float64) {
	pmfA, pmfB := a.PMF(), b.PMF()
	seen := make(map[any]bool, len(pmfA)+len(pmfB))
	var keys []any
	for k := range pmfA {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range pmfB {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	p = make([]float64, len(keys))
	q = make([]float64, len(keys))
	for i, k := range keys {
		p[i] = pmfA[k]
		q[i] = pmfB[k]
	}
	return p, q
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func kindMismatch(a, b any) error {
	return prismerrors.New(prismerrors.ErrorTypeValidation,
		"cannot compare values of different kinds").
		WithDetail("left", typeName(a)).
		WithDetail("right", typeName(b))
}

func typeName(v any) string {
	switch v.(type) {
	case *sketch.Histogram:
		return "histogram"
	case *sketch.CategoryHistogram:
		return "category-histogram"
	case bool:
		return "boolean"
	case float64, float32, int64, int:
		return "number"
	default:
		return "unknown"
	}
}
