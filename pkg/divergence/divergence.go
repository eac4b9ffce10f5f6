// Package divergence provides closed-form information-theoretic routines over
// discrete probability mass functions: Shannon entropy, Kullback-Leibler
// divergence and the Jensen-Shannon distance used for histogram comparison.
//
// All functions take plain []float64 mass vectors. Callers are responsible
// for aligning the two vectors onto the same support; see KLDivergence for
// the zero-probability precondition.
package divergence

import "math"

// Entropy returns the Shannon entropy -sum(p_i * ln(p_i)) of a discrete
// distribution, with the convention 0*ln(0) = 0. Negative or zero entries
// contribute nothing.
func Entropy(p []float64) float64 {
	var h float64
	for _, pi := range p {
		if pi > 0 {
			h -= pi * math.Log(pi)
		}
	}
	return h
}

// KLDivergence returns D(p || q) = sum(p_i * ln(p_i / q_i)).
//
// Precondition: wherever p_i > 0, q_i must be > 0. Violations yield NaN
// rather than an error: a zero-probability mismatch means the caller failed
// to derive both distributions from the same binning scheme, which is a
// programming error, not a runtime condition.
func KLDivergence(p, q []float64) float64 {
	n := len(p)
	if len(q) < n {
		n = len(q)
	}
	var d float64
	for i := 0; i < n; i++ {
		pi, qi := p[i], q[i]
		if pi == 0 {
			continue
		}
		if qi == 0 {
			return math.NaN()
		}
		d += pi * math.Log(pi/qi)
	}
	return d
}

// JensenShannonDistance returns the Jensen-Shannon distance between p and q:
// sqrt(0.5*D(p||m) + 0.5*D(q||m)) with the midpoint mixture m = (p+q)/2.
// It is symmetric, zero for identical distributions, and bounded above by
// sqrt(ln 2), which keeps the derived histogram difference inside [0,1].
func JensenShannonDistance(p, q []float64) float64 {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	m := make([]float64, n)
	for i := 0; i < n; i++ {
		var pi, qi float64
		if i < len(p) {
			pi = p[i]
		}
		if i < len(q) {
			qi = q[i]
		}
		m[i] = (pi + qi) / 2
	}
	d := 0.5*KLDivergence(p, m) + 0.5*KLDivergence(q, m)
	// Floating error can push an exact zero slightly negative.
	if d < 0 {
		d = 0
	}
	return math.Sqrt(d)
}
