package fingerprint

import (
	"github.com/prismdata/prism/pkg/models"
	"github.com/prismdata/prism/pkg/reducer"
	"github.com/prismdata/prism/pkg/sketch"
)

// histogramFold folds raw cells into a numeric histogram. Values that are
// nil or not numeric count as missing.
func histogramFold(bins int) reducer.Fold[any, *sketch.Histogram, *sketch.Histogram] {
	return reducer.Fold[any, *sketch.Histogram, *sketch.Histogram]{
		Init: func() *sketch.Histogram { return sketch.NewHistogram(bins) },
		Step: func(h *sketch.Histogram, v any) *sketch.Histogram {
			if n, ok := models.Number(v); ok {
				h.Insert(n)
			} else {
				h.InsertMissing()
			}
			return h
		},
		Done: func(h *sketch.Histogram) *sketch.Histogram { return h },
	}
}

// cardinalityFold folds non-nil cells into a HyperLogLog sketch.
func cardinalityFold(precision uint8) reducer.Fold[any, *sketch.HyperLogLog, *sketch.HyperLogLog] {
	return reducer.Fold[any, *sketch.HyperLogLog, *sketch.HyperLogLog]{
		Init: func() *sketch.HyperLogLog { return sketch.NewHyperLogLog(precision) },
		Step: func(hll *sketch.HyperLogLog, v any) *sketch.HyperLogLog {
			if v != nil {
				hll.Insert(v)
			}
			return hll
		},
		Done: func(hll *sketch.HyperLogLog) *sketch.HyperLogLog { return hll },
	}
}

// numericPipeline fingerprints a numeric column: one fused pass feeds the
// adaptive histogram (which also carries the exact moments, sum and sum of
// squares) and the cardinality sketch; finalization derives the full
// numeric summary.
func numericPipeline(opts Options) Pipeline {
	cfg := opts.cfg()
	fused := reducer.Fuse(map[string]reducer.Erased[any]{
		"histogram":   reducer.Erase(histogramFold(cfg.Sketch.HistogramBins)),
		"cardinality": reducer.Erase(cardinalityFold(cfg.Sketch.HLLPrecision)),
	})
	final := reducer.PostDone(fused, func(parts map[string]any) Fingerprint {
		return finalizeNumeric(opts, parts["histogram"].(*sketch.Histogram), parts["cardinality"].(*sketch.HyperLogLog))
	})
	return asPipeline(reducer.PreStep(final, cell(0)))
}

func finalizeNumeric(opts Options, h *sketch.Histogram, hll *sketch.HyperLogLog) Fingerprint {
	if h.TotalCount() == 0 {
		return Fingerprint{"count": int64(0), "type": models.KindNumber.String()}
	}

	fp := Fingerprint{
		"count": h.TotalCount(),
		"type":  models.KindNumber.String(),
	}
	putNils(fp, h.MissingCount())
	if h.Count() == 0 {
		return fp
	}

	mean := h.Mean()
	median := h.Median()
	sd := h.StdDev()
	variance := h.Variance()
	span := h.Max() - h.Min()

	fp["min"] = h.Min()
	fp["max"] = h.Max()
	fp["mean"] = mean
	fp["median"] = median
	fp["var"] = variance
	fp["sd"] = sd
	fp["span"] = span
	fp["sum"] = h.Sum()
	fp["sum-of-squares"] = h.SumSquares()
	fp["skewness"] = h.Skewness()
	fp["kurtosis"] = h.Kurtosis()
	fp["histogram"] = h
	fp["pmf"] = h.PMF()
	fp["entropy"] = h.Entropy()

	percentiles := make(map[float64]float64, len(opts.cfg().Percentiles))
	for _, q := range opts.cfg().Percentiles {
		percentiles[q] = h.Quantile(q)
	}
	fp["percentiles"] = percentiles

	cardinality := int64(hll.Count())
	fp["cardinality"] = cardinality
	if ratio, ok := safeDiv(float64(cardinality), float64(h.Count())); ok {
		fp["cardinality-vs-count"] = ratio
		fp["all-distinct?"] = ratio >= 1-hll.StandardError()
	}

	fp["positive-definite?"] = h.Min() >= 0
	fp["0<=x<=1?"] = h.Min() >= 0 && h.Max() <= 1
	fp["-1<=x<=1?"] = h.Min() >= -1 && h.Max() <= 1
	fp["var>sd?"] = variance > sd

	putRatio(fp, "span-vs-sd", span, sd)
	putRatio(fp, "mean-median-spread", mean-median, span)
	putRatio(fp, "min-vs-max", h.Min(), h.Max())

	return fp
}
