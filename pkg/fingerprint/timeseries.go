package fingerprint

import (
	"time"

	"github.com/prismdata/prism/pkg/config"
	"github.com/prismdata/prism/pkg/models"
	"github.com/prismdata/prism/pkg/reducer"
)

// Point is one (timestamp, value) observation of a time series, the
// timestamp in epoch milliseconds.
type Point struct {
	T int64   `json:"t"`
	V float64 `json:"v"`
}

// periodsPerCycle is the expected number of periods in one seasonal cycle
// for each gap-filled scale.
var periodsPerCycle = map[string]int{
	config.ScaleMonth: 12,
	config.ScaleWeek:  52,
	config.ScaleDay:   365,
}

// seriesState accumulates the observed series in input order.
type seriesState struct {
	points  []Point
	missing int64
}

// seriesFold collects parsed (timestamp, value) pairs in observation order.
// Rows where either cell fails to parse count as missing.
func seriesFold() reducer.Fold[models.Row, *seriesState, *seriesState] {
	return reducer.Fold[models.Row, *seriesState, *seriesState]{
		Init: func() *seriesState { return &seriesState{} },
		Step: func(s *seriesState, row models.Row) *seriesState {
			ts, okT := models.Timestamp(cell(0)(row))
			v, okV := models.Number(cell(1)(row))
			if okT && okV {
				s.points = append(s.points, Point{T: ts, V: v})
			} else {
				s.missing++
			}
			return s
		},
		Done: func(s *seriesState) *seriesState { return s },
	}
}

// timeSeriesPipeline fingerprints a DateTime x Number composite: one fused
// pass accumulates the series and a linear regression over (epoch-ms,
// value). Finalization gap-fills the series at the configured scale, runs
// seasonal decomposition when enough cycles are present and the cost policy
// permits unbounded computation, and derives period-over-period growth from
// the reversed filled series.
func timeSeriesPipeline(opts Options) Pipeline {
	regression := reducer.PreStep(numberPairFold(), func(row models.Row) models.Row {
		ts, ok := models.Timestamp(cell(0)(row))
		if !ok {
			return models.Row{nil, cell(1)(row)}
		}
		return models.Row{ts, cell(1)(row)}
	})

	fused := reducer.Fuse(map[string]reducer.Erased[models.Row]{
		"series":            reducer.Erase(seriesFold()),
		"linear-regression": reducer.Erase(regression),
	})

	final := reducer.PostDone(fused, func(parts map[string]any) Fingerprint {
		s := parts["series"].(*seriesState)
		b := parts["linear-regression"].(*bivariate)
		return finalizeTimeSeries(opts, s, b)
	})
	return asPipeline(final)
}

func finalizeTimeSeries(opts Options, s *seriesState, b *bivariate) Fingerprint {
	cfg := opts.cfg()

	fp := Fingerprint{
		"count": int64(len(s.points)) + s.missing,
		"type":  "DateTime x Number",
	}
	putNils(fp, s.missing)
	if len(s.points) == 0 {
		return fp
	}

	if slope, intercept, ok := b.slopeIntercept(); ok {
		fp["linear-regression"] = map[string]float64{
			"slope":     slope,
			"intercept": intercept,
		}
	}

	series := s.points
	if cfg.Scale != config.ScaleRaw {
		series = fillSeries(s.points, cfg.Scale)
	}
	fp["series"] = series

	ppc, seasonal := periodsPerCycle[cfg.Scale]
	if seasonal && len(series) >= 2*ppc && cfg.Cost.Unbounded() {
		trend, seasonalPart, residual := decompose(values(series), ppc)
		fp["trend"] = withTimestamps(series, trend)
		fp["seasonal"] = withTimestamps(series, seasonalPart)
		fp["residual"] = withTimestamps(series, residual)
	}

	if cfg.Scale != config.ScaleRaw {
		putGrowth(fp, series, cfg.Scale)
	}
	return fp
}

// fillSeries turns sparse observations into a regular periodic series: one
// entry per period from the first observed timestamp through the last, zero
// substituted for periods with no observation. Later duplicates of a period
// overwrite earlier ones.
func fillSeries(points []Point, scale string) []Point {
	if len(points) == 0 {
		return nil
	}

	first, last := points[0].T, points[0].T
	for _, p := range points {
		if p.T < first {
			first = p.T
		}
		if p.T > last {
			last = p.T
		}
	}

	observed := make(map[int64]float64, len(points))
	for _, p := range points {
		observed[truncate(p.T, first, scale)] = p.V
	}

	var filled []Point
	for t := first; t <= last; t = next(t, scale) {
		filled = append(filled, Point{T: t, V: observed[t]})
	}
	return filled
}

// truncate snaps a timestamp onto the periodic grid anchored at first.
func truncate(ts, first int64, scale string) int64 {
	prev := first
	for t := first; t <= ts; t = next(t, scale) {
		prev = t
	}
	return prev
}

// next advances one period. Day and week are fixed strides; month follows
// the calendar.
func next(ts int64, scale string) int64 {
	switch scale {
	case config.ScaleDay:
		return ts + 24*time.Hour.Milliseconds()
	case config.ScaleWeek:
		return ts + 7*24*time.Hour.Milliseconds()
	case config.ScaleMonth:
		return time.UnixMilli(ts).UTC().AddDate(0, 1, 0).UnixMilli()
	default:
		return ts + 24*time.Hour.Milliseconds()
	}
}

func values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.V
	}
	return out
}

func withTimestamps(points []Point, vals []float64) []Point {
	out := make([]Point, len(vals))
	for i, v := range vals {
		out[i] = Point{T: points[i].T, V: v}
	}
	return out
}

// Growth returns the period-over-period growth sign(baseline) *
// (current - baseline) / baseline, ok=false when the baseline is zero.
func Growth(current, baseline float64) (float64, bool) {
	if baseline == 0 {
		return 0, false
	}
	sign := 1.0
	if baseline < 0 {
		sign = -1.0
	}
	return sign * (current - baseline) / baseline, true
}

// putGrowth derives the growth statistics for the scale from the reversed
// filled series: index 0 is the most recent period.
func putGrowth(fp Fingerprint, series []Point, scale string) {
	r := make([]float64, len(series))
	for i, p := range series {
		r[len(series)-1-i] = p.V
	}

	at := func(i int) (float64, bool) {
		if i >= len(r) {
			return 0, false
		}
		return r[i], true
	}
	put := func(key string, cur, base int) {
		c, okC := at(cur)
		b, okB := at(base)
		if !okC || !okB {
			return
		}
		if g, ok := Growth(c, b); ok {
			fp[key] = g
		}
	}

	switch scale {
	case config.ScaleMonth:
		put("YoY", 0, 12)
		put("MoM", 0, 1)
		put("MoM-previous", 1, 2)
	case config.ScaleWeek:
		put("YoY", 0, 52)
		put("WoW", 0, 1)
	case config.ScaleDay:
		put("DoD", 0, 1)
	}
}

// decompose performs a classical additive seasonal decomposition: a
// centered moving-average trend, a phase-averaged seasonal component
// centered to zero mean, and the residual. All three slices have the input
// length; trend edges repeat the nearest computed value.
func decompose(vals []float64, period int) (trend, seasonal, residual []float64) {
	n := len(vals)
	trend = make([]float64, n)
	seasonal = make([]float64, n)
	residual = make([]float64, n)

	half := period / 2
	even := period%2 == 0

	// Centered moving average; for an even period the ends of the window
	// carry half weight (the standard 2xMA).
	for i := half; i < n-half; i++ {
		var sum float64
		if even {
			sum = 0.5*vals[i-half] + 0.5*vals[i+half]
			for j := i - half + 1; j <= i+half-1; j++ {
				sum += vals[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += vals[j]
			}
		}
		trend[i] = sum / float64(period)
	}
	for i := 0; i < half && half < n-half; i++ {
		trend[i] = trend[half]
	}
	for i := n - half; i >= 0 && i < n; i++ {
		trend[i] = trend[n-half-1]
	}

	// Average the detrended values by phase, then center the pattern.
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		pattern[i%period] += vals[i] - trend[i]
		counts[i%period]++
	}
	var mean float64
	for p := 0; p < period; p++ {
		if counts[p] > 0 {
			pattern[p] /= float64(counts[p])
		}
		mean += pattern[p]
	}
	mean /= float64(period)
	for p := 0; p < period; p++ {
		pattern[p] -= mean
	}

	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period]
		residual[i] = vals[i] - trend[i] - seasonal[i]
	}
	return trend, seasonal, residual
}
