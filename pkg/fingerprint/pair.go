package fingerprint

import (
	"math"

	"github.com/prismdata/prism/pkg/models"
	"github.com/prismdata/prism/pkg/reducer"
)

// bivariate accumulates the moments of a stream of (x, y) pairs, enough to
// finalize covariance, Pearson correlation and a simple linear regression
// in one pass.
type bivariate struct {
	n                              int64
	missing                        int64
	sumX, sumY, sumXY, sumXX, sumYY float64
}

func (b *bivariate) step(x, y float64) {
	b.n++
	b.sumX += x
	b.sumY += y
	b.sumXY += x * y
	b.sumXX += x * x
	b.sumYY += y * y
}

// slopeIntercept returns the least-squares line, ok=false when x carries no
// variance.
func (b *bivariate) slopeIntercept() (slope, intercept float64, ok bool) {
	n := float64(b.n)
	denom := n*b.sumXX - b.sumX*b.sumX
	if b.n < 2 || denom == 0 {
		return 0, 0, false
	}
	slope = (n*b.sumXY - b.sumX*b.sumY) / denom
	intercept = (b.sumY - slope*b.sumX) / n
	return slope, intercept, true
}

// covariance returns the sample covariance, ok=false below two pairs.
func (b *bivariate) covariance() (float64, bool) {
	if b.n < 2 {
		return 0, false
	}
	n := float64(b.n)
	return (b.sumXY - b.sumX*b.sumY/n) / (n - 1), true
}

// correlation returns the Pearson correlation, ok=false when either side
// carries no variance.
func (b *bivariate) correlation() (float64, bool) {
	if b.n < 2 {
		return 0, false
	}
	n := float64(b.n)
	varX := n*b.sumXX - b.sumX*b.sumX
	varY := n*b.sumYY - b.sumY*b.sumY
	if varX <= 0 || varY <= 0 {
		return 0, false
	}
	r := (n*b.sumXY - b.sumX*b.sumY) / math.Sqrt(varX*varY)
	return r, true
}

// numberPairFold folds rows of two numeric cells into bivariate moments.
// Rows where either cell fails to parse count as missing pairs.
func numberPairFold() reducer.Fold[models.Row, *bivariate, *bivariate] {
	return reducer.Fold[models.Row, *bivariate, *bivariate]{
		Init: func() *bivariate { return &bivariate{} },
		Step: func(b *bivariate, row models.Row) *bivariate {
			x, okX := models.Number(cell(0)(row))
			y, okY := models.Number(cell(1)(row))
			if okX && okY {
				b.step(x, y)
			} else {
				b.missing++
			}
			return b
		},
		Done: func(b *bivariate) *bivariate { return b },
	}
}

// numberPairPipeline fingerprints an ordered pair of numeric columns:
// Pearson correlation, covariance and simple linear regression from one
// fused pass over the paired values.
func numberPairPipeline() Pipeline {
	final := reducer.PostDone(numberPairFold(), func(b *bivariate) Fingerprint {
		fp := Fingerprint{
			"count": b.n + b.missing,
			"type":  "Number x Number",
		}
		putNils(fp, b.missing)
		if r, ok := b.correlation(); ok {
			fp["correlation"] = r
		}
		if cov, ok := b.covariance(); ok {
			fp["covariance"] = cov
		}
		if slope, intercept, ok := b.slopeIntercept(); ok {
			fp["linear-regression"] = map[string]float64{
				"slope":     slope,
				"intercept": intercept,
			}
		}
		return fp
	})
	return asPipeline(final)
}
