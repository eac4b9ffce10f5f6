package fingerprint

import (
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismdata/prism/pkg/models"
)

func numberPairSig() models.Signature {
	return models.Signature{
		models.Tag(models.KindNumber, models.KindAny),
		models.Tag(models.KindNumber, models.KindAny),
	}
}

func TestNumberPairPerfectLine(t *testing.T) {
	rows := pairs([2]any{1.0, 3.0}, [2]any{2.0, 5.0}, [2]any{3.0, 7.0}, [2]any{4.0, 9.0})
	fp := BuildPipeline(Options{}, numberPairSig()).Reduce(rows)

	assert.Equal(t, int64(4), fp.Count())
	assert.Equal(t, "Number x Number", fp.Type())
	assert.InDelta(t, 1.0, fp["correlation"].(float64), 1e-9)

	reg := fp["linear-regression"].(map[string]float64)
	assert.InDelta(t, 2.0, reg["slope"], 1e-9)
	assert.InDelta(t, 1.0, reg["intercept"], 1e-9)
}

func TestNumberPairCovarianceMatchesOracle(t *testing.T) {
	xs := []float64{2, 4, 6, 8, 11}
	ys := []float64{3, 7, 5, 10, 14}
	rows := make([]models.Row, len(xs))
	for i := range xs {
		rows[i] = models.Row{xs[i], ys[i]}
	}
	fp := BuildPipeline(Options{}, numberPairSig()).Reduce(rows)

	cov, err := stats.Covariance(xs, ys)
	require.NoError(t, err)
	corr, err := stats.Correlation(xs, ys)
	require.NoError(t, err)

	assert.InDelta(t, cov, fp["covariance"].(float64), 1e-9)
	assert.InDelta(t, corr, fp["correlation"].(float64), 1e-9)
}

func TestNumberPairConstantSide(t *testing.T) {
	rows := pairs([2]any{5.0, 1.0}, [2]any{5.0, 2.0}, [2]any{5.0, 3.0})
	fp := BuildPipeline(Options{}, numberPairSig()).Reduce(rows)

	// Zero variance on x leaves correlation and the regression undefined.
	_, hasCorr := fp["correlation"]
	assert.False(t, hasCorr)
	_, hasReg := fp["linear-regression"]
	assert.False(t, hasReg)
	_, hasCov := fp["covariance"]
	assert.True(t, hasCov)
}

func TestNumberPairMissingCells(t *testing.T) {
	rows := pairs([2]any{1.0, 2.0}, [2]any{nil, 5.0}, [2]any{3.0, nil}, [2]any{2.0, 4.0})
	fp := BuildPipeline(Options{}, numberPairSig()).Reduce(rows)

	assert.Equal(t, int64(4), fp.Count())
	assert.Equal(t, int64(2), fp["nil-count"], "a pair with either side unparseable is missing")
	assert.Equal(t, true, fp["has-nils?"])
}
