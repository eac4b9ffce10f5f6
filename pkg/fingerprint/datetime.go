package fingerprint

import (
	"time"

	"github.com/prismdata/prism/pkg/models"
	"github.com/prismdata/prism/pkg/reducer"
	"github.com/prismdata/prism/pkg/sketch"
)

// bucketFold folds parsed timestamps (epoch-millisecond int64 cells, nil for
// missing) into a categorical histogram over the bucket fn extracts.
func bucketFold(fn func(time.Time) any) reducer.Fold[any, *sketch.CategoryHistogram, *sketch.CategoryHistogram] {
	base := categoryFoldRaw()
	return reducer.PreStep(base, func(v any) any {
		ms, ok := v.(int64)
		if !ok {
			return nil
		}
		return fn(time.UnixMilli(ms).UTC())
	})
}

// categoryFoldRaw is categoryFold without key canonicalization: buckets
// insert their own comparable keys.
func categoryFoldRaw() reducer.Fold[any, *sketch.CategoryHistogram, *sketch.CategoryHistogram] {
	return reducer.Fold[any, *sketch.CategoryHistogram, *sketch.CategoryHistogram]{
		Init: sketch.NewCategoryHistogram,
		Step: func(c *sketch.CategoryHistogram, v any) *sketch.CategoryHistogram {
			c.Insert(v)
			return c
		},
		Done: func(c *sketch.CategoryHistogram) *sketch.CategoryHistogram { return c },
	}
}

// dateTimePipeline fingerprints a datetime column: one fused pass over the
// parsed epoch-millisecond values feeds a numeric histogram plus categorical
// histograms over hour-of-day, day-of-week, month and quarter-of-year.
// Finalization converts the numeric summaries back to timestamps.
func dateTimePipeline(opts Options) Pipeline {
	cfg := opts.cfg()
	fused := reducer.Fuse(map[string]reducer.Erased[any]{
		"histogram": reducer.Erase(histogramFold(cfg.Sketch.HistogramBins)),
		"hour": reducer.Erase(bucketFold(func(t time.Time) any {
			return t.Hour()
		})),
		"day-of-week": reducer.Erase(bucketFold(func(t time.Time) any {
			return t.Weekday().String()
		})),
		"month": reducer.Erase(bucketFold(func(t time.Time) any {
			return t.Month().String()
		})),
		"quarter": reducer.Erase(bucketFold(func(t time.Time) any {
			return (int(t.Month()) + 2) / 3
		})),
	})

	// Parse each raw cell once; components downstream see int64 epoch
	// milliseconds or nil.
	parsed := reducer.PreStep(fused, func(v any) any {
		if v == nil {
			return nil
		}
		ms, ok := models.Timestamp(v)
		if !ok {
			return nil
		}
		return ms
	})

	final := reducer.PostDone(parsed, func(parts map[string]any) Fingerprint {
		h := parts["histogram"].(*sketch.Histogram)

		fp := Fingerprint{
			"count": h.TotalCount(),
			"type":  models.KindDateTime.String(),
		}
		putNils(fp, h.MissingCount())
		if h.Count() == 0 {
			return fp
		}

		fp["histogram"] = h
		fp["pmf"] = h.PMF()
		fp["entropy"] = h.Entropy()
		fp["earliest"] = msToTimestamp(h.Min())
		fp["latest"] = msToTimestamp(h.Max())
		fp["mean"] = msToTimestamp(h.Mean())
		fp["median"] = msToTimestamp(h.Median())

		percentiles := make(map[float64]string, len(opts.cfg().Percentiles))
		for _, q := range opts.cfg().Percentiles {
			percentiles[q] = msToTimestamp(h.Quantile(q))
		}
		fp["percentiles"] = percentiles

		for _, bucket := range []string{"hour", "day-of-week", "month", "quarter"} {
			c := parts[bucket].(*sketch.CategoryHistogram)
			fp[bucket] = c.PMF()
		}
		return fp
	})
	return asPipeline(reducer.PreStep(final, cell(0)))
}

func msToTimestamp(ms float64) string {
	return time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339)
}
