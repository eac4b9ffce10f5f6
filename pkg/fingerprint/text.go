package fingerprint

import (
	"fmt"
	"unicode/utf8"

	"github.com/prismdata/prism/pkg/models"
	"github.com/prismdata/prism/pkg/reducer"
	"github.com/prismdata/prism/pkg/sketch"
)

// textPipeline fingerprints a text column. The histogram runs over value
// lengths (in runes), not the values themselves, so free text with huge
// cardinality still fingerprints in bounded memory.
func textPipeline(opts Options) Pipeline {
	cfg := opts.cfg()
	lengths := reducer.PreStep(histogramFold(cfg.Sketch.HistogramBins), func(v any) any {
		switch s := v.(type) {
		case nil:
			return nil
		case string:
			return utf8.RuneCountInString(s)
		default:
			return utf8.RuneCountInString(fmt.Sprintf("%v", s))
		}
	})
	final := reducer.PostDone(lengths, func(h *sketch.Histogram) Fingerprint {
		fp := Fingerprint{
			"count": h.TotalCount(),
			"type":  models.KindText.String(),
		}
		putNils(fp, h.MissingCount())
		if h.Count() == 0 {
			return fp
		}
		fp["histogram"] = h
		fp["min-length"] = int64(h.Min())
		fp["max-length"] = int64(h.Max())
		fp["mean-length"] = h.Mean()
		return fp
	})
	return asPipeline(reducer.PreStep(final, cell(0)))
}
