package fingerprint

import (
	"github.com/prismdata/prism/pkg/models"
	"github.com/prismdata/prism/pkg/reducer"
)

// counts is the default pipeline's whole state.
type counts struct {
	total int64
	nils  int64
}

// defaultPipeline handles signatures outside the known categories. It only
// counts values and nils, and reports the unrecognized signature for
// diagnostics; dispatch never hard-fails.
func defaultPipeline(sig models.Signature) Pipeline {
	f := reducer.Fold[models.Row, *counts, Fingerprint]{
		Init: func() *counts { return &counts{} },
		Step: func(c *counts, row models.Row) *counts {
			c.total++
			if cell(0)(row) == nil {
				c.nils++
			}
			return c
		},
		Done: func(c *counts) Fingerprint {
			fp := Fingerprint{
				"count":       c.total,
				"type":        nil,
				"actual-type": sig.String(),
			}
			putNils(fp, c.nils)
			return fp
		},
	}
	return asPipeline(f)
}
