package sketch

import "github.com/prismdata/prism/pkg/divergence"

// CategoryHistogram is an exact frequency table for a bounded set of distinct
// categorical values, with a dedicated bucket for missing values. Keys must
// be comparable; callers canonicalize values before insertion. The bounded-
// cardinality assumption is documented, not enforced.
type CategoryHistogram struct {
	counts  map[any]int64
	count   int64
	missing int64
}

// NewCategoryHistogram creates an empty categorical histogram.
func NewCategoryHistogram() *CategoryHistogram {
	return &CategoryHistogram{counts: make(map[any]int64)}
}

// Insert counts one occurrence of v. A nil value lands in the missing bucket.
func (c *CategoryHistogram) Insert(v any) {
	if v == nil {
		c.missing++
		return
	}
	c.counts[v]++
	c.count++
}

// Count returns the number of non-missing observations.
func (c *CategoryHistogram) Count() int64 { return c.count }

// MissingCount returns the number of missing observations.
func (c *CategoryHistogram) MissingCount() int64 { return c.missing }

// TotalCount returns missing plus non-missing observations.
func (c *CategoryHistogram) TotalCount() int64 { return c.count + c.missing }

// Cardinality returns the exact number of distinct non-missing values.
func (c *CategoryHistogram) Cardinality() int { return len(c.counts) }

// Counts returns the frequency table. The map is the histogram's own state;
// callers must not mutate it.
func (c *CategoryHistogram) Counts() map[any]int64 { return c.counts }

// PMF returns the probability mass function over observed categories.
func (c *CategoryHistogram) PMF() map[any]float64 {
	pmf := make(map[any]float64, len(c.counts))
	if c.count == 0 {
		return pmf
	}
	for k, n := range c.counts {
		pmf[k] = float64(n) / float64(c.count)
	}
	return pmf
}

// Entropy returns the Shannon entropy of the category mass function.
func (c *CategoryHistogram) Entropy() float64 {
	masses := make([]float64, 0, len(c.counts))
	for _, n := range c.counts {
		masses = append(masses, float64(n)/float64(c.count))
	}
	return divergence.Entropy(masses)
}
