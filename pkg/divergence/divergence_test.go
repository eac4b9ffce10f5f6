package divergence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntropy(t *testing.T) {
	tests := []struct {
		name string
		p    []float64
		want float64
	}{
		{"empty", nil, 0},
		{"point mass", []float64{1}, 0},
		{"uniform over 2", []float64{0.5, 0.5}, math.Ln2},
		{"uniform over 4", []float64{0.25, 0.25, 0.25, 0.25}, math.Log(4)},
		{"zero mass terms ignored", []float64{0.5, 0, 0.5}, math.Ln2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Entropy(tt.p), 1e-12)
		})
	}
}

func TestKLDivergence(t *testing.T) {
	p := []float64{0.5, 0.5}
	q := []float64{0.9, 0.1}

	assert.InDelta(t, 0, KLDivergence(p, p), 1e-12)
	assert.Greater(t, KLDivergence(p, q), 0.0)

	// Mismatched support is a precondition violation and surfaces as NaN.
	assert.True(t, math.IsNaN(KLDivergence([]float64{0.5, 0.5}, []float64{1, 0})))
}

func TestJensenShannonDistance(t *testing.T) {
	p := []float64{0.5, 0.5}
	q := []float64{0.9, 0.1}

	assert.InDelta(t, 0, JensenShannonDistance(p, p), 1e-12)

	d := JensenShannonDistance(p, q)
	assert.Greater(t, d, 0.0)
	assert.LessOrEqual(t, d, 1.0)
	assert.InDelta(t, d, JensenShannonDistance(q, p), 1e-12, "symmetric")
}

func TestJensenShannonDistanceDisjointSupports(t *testing.T) {
	// Fully disjoint distributions are maximally distant: sqrt(ln 2).
	d := JensenShannonDistance([]float64{1, 0}, []float64{0, 1})
	assert.InDelta(t, math.Sqrt(math.Ln2), d, 1e-12)
}
