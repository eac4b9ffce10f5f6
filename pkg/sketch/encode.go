package sketch

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// MarshalJSON renders the histogram as its centroid list plus the exact
// counts and range. Min and max are omitted while the histogram is empty,
// when they hold infinities.
func (h *Histogram) MarshalJSON() ([]byte, error) {
	type bin struct {
		Center float64 `json:"center"`
		Count  float64 `json:"count"`
	}
	bins := make([]bin, len(h.bins))
	for i, b := range h.bins {
		bins[i] = bin{Center: b.Center, Count: b.Count}
	}

	out := map[string]any{
		"bins":    bins,
		"count":   h.count,
		"missing": h.missing,
	}
	if h.count > 0 {
		out["min"] = h.min
		out["max"] = h.max
	}
	return json.Marshal(out)
}

// MarshalJSON renders the frequency table with keys coerced to strings.
func (c *CategoryHistogram) MarshalJSON() ([]byte, error) {
	counts := make(map[string]int64, len(c.counts))
	for k, n := range c.counts {
		counts[fmt.Sprintf("%v", k)] = n
	}
	return json.Marshal(map[string]any{
		"counts":  counts,
		"count":   c.count,
		"missing": c.missing,
	})
}
