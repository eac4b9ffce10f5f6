package sketch

import (
	"math/rand"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertAll(h *Histogram, values []float64) {
	for _, v := range values {
		h.Insert(v)
	}
}

func TestHistogramCounts(t *testing.T) {
	h := NewHistogram(8)
	insertAll(h, []float64{1, 2, 3})
	h.InsertMissing()
	h.InsertMissing()

	assert.Equal(t, int64(3), h.Count())
	assert.Equal(t, int64(2), h.MissingCount())
	assert.Equal(t, int64(5), h.TotalCount())

	var binTotal float64
	for _, b := range h.Bins() {
		binTotal += b.Count
	}
	assert.Equal(t, float64(h.Count()), binTotal, "bin counts account for every non-missing value")
}

func TestHistogramBoundedBins(t *testing.T) {
	h := NewHistogram(8)
	for i := 0; i < 10000; i++ {
		h.Insert(rand.NormFloat64() * 100)
	}
	assert.LessOrEqual(t, len(h.Bins()), 8)
	assert.Equal(t, int64(10000), h.Count())
}

func TestHistogramExactMoments(t *testing.T) {
	values := make([]float64, 0, 500)
	for i := 0; i < 500; i++ {
		values = append(values, rand.Float64()*40-17)
	}
	h := NewHistogram(32)
	insertAll(h, values)

	mean, err := stats.Mean(values)
	require.NoError(t, err)
	variance, err := stats.SampleVariance(values)
	require.NoError(t, err)
	min, err := stats.Min(values)
	require.NoError(t, err)
	max, err := stats.Max(values)
	require.NoError(t, err)
	sum, err := stats.Sum(values)
	require.NoError(t, err)

	assert.InDelta(t, mean, h.Mean(), 1e-9)
	assert.InDelta(t, variance, h.Variance(), 1e-6)
	assert.Equal(t, min, h.Min())
	assert.Equal(t, max, h.Max())
	assert.InDelta(t, sum, h.Sum(), 1e-6)
}

func TestHistogramQuantiles(t *testing.T) {
	// Many more values than bins, so quantiles go through interpolation.
	values := make([]float64, 0, 2000)
	for i := 0; i < 2000; i++ {
		values = append(values, float64(i))
	}
	h := NewHistogram(32)
	insertAll(h, values)

	assert.Equal(t, 0.0, h.Quantile(0))
	assert.Equal(t, 1999.0, h.Quantile(1))
	assert.InDelta(t, 999.5, h.Median(), 100, "median within a few bin widths")
	assert.InDelta(t, 199.9, h.Quantile(0.1), 100)

	// Quantiles are monotone in q.
	prev := h.Quantile(0)
	for q := 0.05; q <= 1.0; q += 0.05 {
		cur := h.Quantile(q)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestHistogramPMFSumsToOne(t *testing.T) {
	h := NewHistogram(16)
	for i := 0; i < 1000; i++ {
		h.Insert(rand.ExpFloat64())
	}

	var total float64
	for _, mass := range h.PMF() {
		total += mass
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestHistogramCDF(t *testing.T) {
	h := NewHistogram(32)
	for i := 1; i <= 1000; i++ {
		h.Insert(float64(i))
	}
	assert.Equal(t, 0.0, h.CDF(0))
	assert.Equal(t, 1.0, h.CDF(1000))
	assert.InDelta(t, 0.5, h.CDF(500), 0.05)
}

func TestHistogramSkewness(t *testing.T) {
	h := NewHistogram(32)
	// Heavily right-skewed sample.
	for i := 0; i < 2000; i++ {
		h.Insert(rand.ExpFloat64())
	}
	assert.Greater(t, h.Skewness(), 1.0)

	flat := NewHistogram(32)
	insertAll(flat, []float64{5, 5, 5, 5})
	assert.Equal(t, 0.0, flat.Skewness(), "no variance means skewness is reported as zero")
}

func TestHistogramEmpty(t *testing.T) {
	h := NewHistogram(32)
	assert.Equal(t, int64(0), h.Count())
	assert.Equal(t, 0.0, h.Quantile(0.5))
	assert.Empty(t, h.PMF())
}
