package fingerprint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismdata/prism/pkg/config"
	"github.com/prismdata/prism/pkg/costs"
	"github.com/prismdata/prism/pkg/models"
)

func timeSeriesSig() models.Signature {
	return models.Signature{
		models.Tag(models.KindDateTime, models.KindAny),
		models.Tag(models.KindNumber, models.KindAny),
	}
}

func scaledOptions(scale, computation string) Options {
	cfg := config.New()
	cfg.Scale = scale
	cfg.Cost.Computation = computation
	return Options{Config: cfg}
}

func TestFillSeriesGaps(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	step := (24 * time.Hour).Milliseconds()

	filled := fillSeries([]Point{{T: t0, V: 5}, {T: t0 + 3*step, V: 7}}, config.ScaleDay)

	require.Len(t, filled, 4)
	assert.Equal(t, Point{T: t0, V: 5}, filled[0])
	assert.Equal(t, Point{T: t0 + step, V: 0}, filled[1])
	assert.Equal(t, Point{T: t0 + 2*step, V: 0}, filled[2])
	assert.Equal(t, Point{T: t0 + 3*step, V: 7}, filled[3])
}

func TestFillSeriesCalendarMonths(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	mar := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	filled := fillSeries([]Point{{T: jan, V: 1}, {T: mar, V: 3}}, config.ScaleMonth)

	// Calendar stepping spans the leap February without drifting.
	require.Len(t, filled, 3)
	assert.Equal(t, Point{T: jan, V: 1}, filled[0])
	assert.Equal(t, 0.0, filled[1].V)
	assert.Equal(t, Point{T: mar, V: 3}, filled[2])
}

func TestGrowth(t *testing.T) {
	g, ok := Growth(110, 100)
	require.True(t, ok)
	assert.InDelta(t, 0.1, g, 1e-12)

	// Negative baseline flips the sign convention.
	g, ok = Growth(90, -100)
	require.True(t, ok)
	assert.InDelta(t, 1.9, g, 1e-12)

	_, ok = Growth(5, 0)
	assert.False(t, ok, "zero baseline leaves growth undefined")
}

func TestTimeSeriesRawScale(t *testing.T) {
	rows := pairs(
		[2]any{"2024-01-01T00:00:00Z", 5.0},
		[2]any{"2024-01-04T00:00:00Z", 7.0},
	)
	fp := BuildPipeline(scaledOptions(config.ScaleRaw, costs.ComputationLinear), timeSeriesSig()).Reduce(rows)

	assert.Equal(t, int64(2), fp.Count())
	assert.Equal(t, "DateTime x Number", fp.Type())

	series := fp["series"].([]Point)
	assert.Len(t, series, 2, "raw scale keeps observations as-is")

	_, hasGrowth := fp["DoD"]
	assert.False(t, hasGrowth, "growth applies to filled series only")
}

func TestTimeSeriesDayScale(t *testing.T) {
	rows := pairs(
		[2]any{"2024-01-01T00:00:00Z", 5.0},
		[2]any{"2024-01-04T00:00:00Z", 7.0},
	)
	fp := BuildPipeline(scaledOptions(config.ScaleDay, costs.ComputationLinear), timeSeriesSig()).Reduce(rows)

	series := fp["series"].([]Point)
	require.Len(t, series, 4)
	assert.Equal(t, 5.0, series[0].V)
	assert.Equal(t, 0.0, series[1].V)
	assert.Equal(t, 0.0, series[2].V)
	assert.Equal(t, 7.0, series[3].V)

	// DoD on the reversed filled series: most recent 7 against previous 0,
	// a zero baseline, so the statistic is absent.
	_, hasDoD := fp["DoD"]
	assert.False(t, hasDoD)
}

func TestTimeSeriesMonthlyGrowth(t *testing.T) {
	base := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	var rows []models.Row
	for i := 0; i < 26; i++ {
		rows = append(rows, models.Row{base.AddDate(0, i, 0), 100.0 + float64(i)*10})
	}
	fp := BuildPipeline(scaledOptions(config.ScaleMonth, costs.ComputationLinear), timeSeriesSig()).Reduce(rows)

	// Latest value 350, one month earlier 340, twelve months earlier 230.
	yoy := fp["YoY"].(float64)
	assert.InDelta(t, (350.0-230.0)/230.0, yoy, 1e-9)
	mom := fp["MoM"].(float64)
	assert.InDelta(t, (350.0-340.0)/340.0, mom, 1e-9)
	momPrev := fp["MoM-previous"].(float64)
	assert.InDelta(t, (340.0-330.0)/330.0, momPrev, 1e-9)

	reg := fp["linear-regression"].(map[string]float64)
	assert.Greater(t, reg["slope"], 0.0, "rising series has positive slope")
}

func TestTimeSeriesDecompositionGatedByCost(t *testing.T) {
	base := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	season := []float64{30, -10, -20, 0, 15, -15, 10, -10, 5, -5, 0, 0}
	var rows []models.Row
	for i := 0; i < 36; i++ {
		v := 100.0 + float64(i) + season[i%12]
		rows = append(rows, models.Row{base.AddDate(0, i, 0), v})
	}

	linear := BuildPipeline(scaledOptions(config.ScaleMonth, costs.ComputationLinear), timeSeriesSig()).Reduce(rows)
	_, hasTrend := linear["trend"]
	assert.False(t, hasTrend, "decomposition requires the unbounded cost ceiling")

	unbounded := BuildPipeline(scaledOptions(config.ScaleMonth, costs.ComputationUnbounded), timeSeriesSig()).Reduce(rows)
	trend := unbounded["trend"].([]Point)
	seasonal := unbounded["seasonal"].([]Point)
	residual := unbounded["residual"].([]Point)
	require.Len(t, trend, 36)
	require.Len(t, seasonal, 36)
	require.Len(t, residual, 36)

	// The seasonal component repeats with the cycle.
	assert.InDelta(t, seasonal[12].V, seasonal[24].V, 1e-9)
	// Components reassemble the observed series.
	series := unbounded["series"].([]Point)
	for i := range series {
		assert.InDelta(t, series[i].V, trend[i].V+seasonal[i].V+residual[i].V, 1e-9)
	}
}

func TestTimeSeriesDecompositionNeedsTwoCycles(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	var rows []models.Row
	for i := 0; i < 18; i++ {
		rows = append(rows, models.Row{base.AddDate(0, i, 0), float64(i)})
	}
	fp := BuildPipeline(scaledOptions(config.ScaleMonth, costs.ComputationUnbounded), timeSeriesSig()).Reduce(rows)
	_, hasTrend := fp["trend"]
	assert.False(t, hasTrend, "18 months is under two full cycles")
}

func TestDecompose(t *testing.T) {
	// Flat trend of 10 with an additive period-4 season.
	season := []float64{3, -1, -2, 0}
	vals := make([]float64, 40)
	for i := range vals {
		vals[i] = 10 + season[i%4]
	}

	trend, seasonal, residual := decompose(vals, 4)
	require.Len(t, trend, 40)

	for i := 4; i < 36; i++ {
		assert.InDelta(t, 10.0, trend[i], 0.01, "centered moving average recovers the flat trend")
		assert.InDelta(t, season[i%4], seasonal[i], 0.1)
		assert.InDelta(t, 0.0, residual[i], 0.2)
	}
}

func TestTimeSeriesEmpty(t *testing.T) {
	fp := BuildPipeline(scaledOptions(config.ScaleMonth, costs.ComputationUnbounded), timeSeriesSig()).Reduce(nil)
	assert.Equal(t, int64(0), fp.Count())
	_, hasSeries := fp["series"]
	assert.False(t, hasSeries)
}
