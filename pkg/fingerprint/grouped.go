package fingerprint

import (
	"github.com/prismdata/prism/pkg/models"
	"github.com/prismdata/prism/pkg/reducer"
)

// groupedPipeline fingerprints a Category x Any composite: rows are
// partitioned by the first column's canonical value and each group runs the
// pipeline for the second column's type independently, all inside one shared
// pass. The result maps every observed category to its group fingerprint
// under "groups".
func groupedPipeline(opts Options, sig models.Signature) Pipeline {
	rest := sig[1:]

	factory := func() reducer.Erased[models.Row] {
		sub := BuildPipeline(opts, rest)
		// Each group's sub-pipeline sees only the remaining columns.
		projected := reducer.PreStep(sub, func(row models.Row) models.Row {
			if len(row) < 2 {
				return models.Row{nil}
			}
			return row[1:]
		})
		return reducer.Erase(projected)
	}

	rolled := reducer.Rollup(factory, func(row models.Row) string {
		return models.CategoryKey(cell(0)(row))
	})

	final := reducer.PostDone(rolled, func(groups map[string]any) Fingerprint {
		out := make(map[string]Fingerprint, len(groups))
		var count int64
		var nils int64
		for k, g := range groups {
			sub := g.(Fingerprint)
			out[k] = sub
			count += sub.Count()
			if k == "" {
				nils += sub.Count()
			}
		}
		fp := Fingerprint{
			"count":  count,
			"type":   sig.String(),
			"groups": out,
		}
		putNils(fp, nils)
		return fp
	})
	return asPipeline(final)
}
