package fingerprint

import (
	"github.com/prismdata/prism/pkg/models"
	"github.com/prismdata/prism/pkg/reducer"
	"github.com/prismdata/prism/pkg/sketch"
)

// categoryFold folds raw cells into an exact categorical histogram, keyed by
// the canonical string form of each value.
func categoryFold() reducer.Fold[any, *sketch.CategoryHistogram, *sketch.CategoryHistogram] {
	return reducer.Fold[any, *sketch.CategoryHistogram, *sketch.CategoryHistogram]{
		Init: sketch.NewCategoryHistogram,
		Step: func(c *sketch.CategoryHistogram, v any) *sketch.CategoryHistogram {
			if v == nil {
				c.Insert(nil)
			} else {
				c.Insert(models.CategoryKey(v))
			}
			return c
		},
		Done: func(c *sketch.CategoryHistogram) *sketch.CategoryHistogram { return c },
	}
}

// categoryPipeline fingerprints a categorical column: exact frequency table
// fused with a cardinality sketch; finalization reports the mass function,
// the cardinality-to-count ratio and entropy.
func categoryPipeline(opts Options) Pipeline {
	cfg := opts.cfg()
	fused := reducer.Fuse(map[string]reducer.Erased[any]{
		"histogram":   reducer.Erase(categoryFold()),
		"cardinality": reducer.Erase(cardinalityFold(cfg.Sketch.HLLPrecision)),
	})
	final := reducer.PostDone(fused, func(parts map[string]any) Fingerprint {
		c := parts["histogram"].(*sketch.CategoryHistogram)
		hll := parts["cardinality"].(*sketch.HyperLogLog)

		fp := Fingerprint{
			"count": c.TotalCount(),
			"type":  models.KindCategory.String(),
		}
		putNils(fp, c.MissingCount())
		if c.Count() == 0 {
			return fp
		}

		fp["histogram"] = c
		fp["pmf"] = c.PMF()
		fp["entropy"] = c.Entropy()

		cardinality := int64(hll.Count())
		fp["cardinality"] = cardinality
		if ratio, ok := safeDiv(float64(cardinality), float64(c.Count())); ok {
			fp["cardinality-vs-count"] = ratio
			fp["all-distinct?"] = ratio >= 1-hll.StandardError()
		}
		return fp
	})
	return asPipeline(reducer.PreStep(final, cell(0)))
}
