// Package sketch implements the bounded-memory streaming data structures
// Prism folds column data into: an adaptive-binning numeric histogram, an
// exact categorical histogram, and a HyperLogLog cardinality estimator.
//
// Every sketch is insert-only during a fold and finalized once; none of them
// are safe for concurrent writers. Memory is O(bins) or O(registers),
// independent of input length.
package sketch

import (
	"math"
	"sort"

	"github.com/prismdata/prism/pkg/divergence"
)

// DefaultHistogramBins is the bin bound used when a histogram is built
// without explicit configuration.
const DefaultHistogramBins = 32

// Bin is one centroid of an adaptive histogram.
type Bin struct {
	Center float64
	Count  float64
}

// Histogram is a streaming adaptive-binning histogram after Ben-Haim and
// Tom-Tov: values are inserted as unit centroids and the two closest
// centroids are merged whenever the bin bound is exceeded. Counts, min, max
// and the first four central moments are tracked exactly; only the shape of
// the distribution (quantiles, CDF, mass function) is approximate.
type Histogram struct {
	maxBins int
	bins    []Bin

	count   int64
	missing int64

	min, max   float64
	sum, sumSq float64

	// Online central moments (Welford / Pebay update).
	mean, m2, m3, m4 float64
}

// NewHistogram creates a histogram bounded to maxBins centroids. A bound
// below 2 falls back to DefaultHistogramBins.
func NewHistogram(maxBins int) *Histogram {
	if maxBins < 2 {
		maxBins = DefaultHistogramBins
	}
	return &Histogram{
		maxBins: maxBins,
		bins:    make([]Bin, 0, maxBins+1),
		min:     math.Inf(1),
		max:     math.Inf(-1),
	}
}

// InsertMissing records one missing (nil) observation.
func (h *Histogram) InsertMissing() { h.missing++ }

// Insert adds one value to the histogram.
func (h *Histogram) Insert(v float64) {
	h.count++
	if v < h.min {
		h.min = v
	}
	if v > h.max {
		h.max = v
	}
	h.sum += v
	h.sumSq += v * v

	n := float64(h.count)
	delta := v - h.mean
	deltaN := delta / n
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * (n - 1)
	h.mean += deltaN
	h.m4 += term1*deltaN2*(n*n-3*n+3) + 6*deltaN2*h.m2 - 4*deltaN*h.m3
	h.m3 += term1*deltaN*(n-2) - 3*deltaN*h.m2
	h.m2 += term1

	h.insertBin(Bin{Center: v, Count: 1})
	if len(h.bins) > h.maxBins {
		h.mergeClosest()
	}
}

func (h *Histogram) insertBin(b Bin) {
	i := sort.Search(len(h.bins), func(i int) bool { return h.bins[i].Center >= b.Center })
	if i < len(h.bins) && h.bins[i].Center == b.Center {
		h.bins[i].Count += b.Count
		return
	}
	h.bins = append(h.bins, Bin{})
	copy(h.bins[i+1:], h.bins[i:])
	h.bins[i] = b
}

func (h *Histogram) mergeClosest() {
	best := 0
	bestGap := math.Inf(1)
	for i := 0; i < len(h.bins)-1; i++ {
		gap := h.bins[i+1].Center - h.bins[i].Center
		if gap < bestGap {
			bestGap = gap
			best = i
		}
	}
	a, b := h.bins[best], h.bins[best+1]
	total := a.Count + b.Count
	h.bins[best] = Bin{
		Center: (a.Center*a.Count + b.Center*b.Count) / total,
		Count:  total,
	}
	h.bins = append(h.bins[:best+1], h.bins[best+2:]...)
}

// Count returns the number of non-missing observations.
func (h *Histogram) Count() int64 { return h.count }

// MissingCount returns the number of missing observations.
func (h *Histogram) MissingCount() int64 { return h.missing }

// TotalCount returns missing plus non-missing observations.
func (h *Histogram) TotalCount() int64 { return h.count + h.missing }

// Bins returns the current centroids in ascending center order.
func (h *Histogram) Bins() []Bin { return h.bins }

// Min returns the exact minimum observed value.
func (h *Histogram) Min() float64 { return h.min }

// Max returns the exact maximum observed value.
func (h *Histogram) Max() float64 { return h.max }

// Sum returns the exact running sum.
func (h *Histogram) Sum() float64 { return h.sum }

// SumSquares returns the exact running sum of squares.
func (h *Histogram) SumSquares() float64 { return h.sumSq }

// Mean returns the exact arithmetic mean.
func (h *Histogram) Mean() float64 { return h.mean }

// Variance returns the exact sample variance, zero below two observations.
func (h *Histogram) Variance() float64 {
	if h.count < 2 {
		return 0
	}
	return h.m2 / float64(h.count-1)
}

// StdDev returns the sample standard deviation.
func (h *Histogram) StdDev() float64 { return math.Sqrt(h.Variance()) }

// Skewness returns the population skewness g1, zero when undefined.
func (h *Histogram) Skewness() float64 {
	if h.count < 2 || h.m2 == 0 {
		return 0
	}
	n := float64(h.count)
	return math.Sqrt(n) * h.m3 / math.Pow(h.m2, 1.5)
}

// Kurtosis returns the excess kurtosis, zero when undefined.
func (h *Histogram) Kurtosis() float64 {
	if h.count < 2 || h.m2 == 0 {
		return 0
	}
	n := float64(h.count)
	return n*h.m4/(h.m2*h.m2) - 3
}

// Quantile returns the approximate q-quantile (0 <= q <= 1) by piecewise
// linear interpolation over the centroid cumulative counts, clamped to the
// exact [min, max] range. Returns 0 when the histogram is empty.
func (h *Histogram) Quantile(q float64) float64 {
	if h.count == 0 {
		return 0
	}
	if q <= 0 {
		return h.min
	}
	if q >= 1 {
		return h.max
	}
	target := q * float64(h.count)

	// Cumulative mass at each centroid, half the bin's own count attributed
	// at its center.
	var cum float64
	prevX, prevC := h.min, 0.0
	for _, b := range h.bins {
		c := cum + b.Count/2
		if target <= c {
			return interpolate(prevC, prevX, c, b.Center, target)
		}
		cum += b.Count
		prevX, prevC = b.Center, c
	}
	return interpolate(prevC, prevX, float64(h.count), h.max, target)
}

// Median returns the approximate median.
func (h *Histogram) Median() float64 { return h.Quantile(0.5) }

// CDF returns the approximate fraction of mass at or below x.
func (h *Histogram) CDF(x float64) float64 {
	if h.count == 0 {
		return 0
	}
	if x < h.min {
		return 0
	}
	if x >= h.max {
		return 1
	}
	var cum float64
	prevX, prevC := h.min, 0.0
	for _, b := range h.bins {
		c := cum + b.Count/2
		if x <= b.Center {
			return interpolate(prevX, prevC, b.Center, c, x) / float64(h.count)
		}
		cum += b.Count
		prevX, prevC = b.Center, c
	}
	return interpolate(prevX, prevC, h.max, float64(h.count), x) / float64(h.count)
}

// PMF returns the centroid probability mass function, keyed by bin center.
// The values sum to 1 when at least one value was observed.
func (h *Histogram) PMF() map[float64]float64 {
	pmf := make(map[float64]float64, len(h.bins))
	if h.count == 0 {
		return pmf
	}
	for _, b := range h.bins {
		pmf[b.Center] = b.Count / float64(h.count)
	}
	return pmf
}

// Masses returns the bin mass vector in center order, for divergence math.
func (h *Histogram) Masses() []float64 {
	out := make([]float64, len(h.bins))
	if h.count == 0 {
		return out
	}
	for i, b := range h.bins {
		out[i] = b.Count / float64(h.count)
	}
	return out
}

// Entropy returns the Shannon entropy of the centroid mass function.
func (h *Histogram) Entropy() float64 {
	return divergence.Entropy(h.Masses())
}

func interpolate(x0, y0, x1, y1, x float64) float64 {
	if x1 == x0 {
		return y1
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
