// Package costs implements the declarative cost policy gate. A Cost describes
// the ceiling a caller is willing to pay, split into a computation axis
// (linear, unbounded, yolo) and a query axis (cache, sample, full-scan,
// joins). The predicates here gate optional statistics and translate the
// query axis into a sampling hint; nothing in this package ever pre-empts a
// running computation.
package costs

// Recognized computation cost values.
const (
	ComputationLinear    = "linear"
	ComputationUnbounded = "unbounded"
	ComputationYolo      = "yolo"
)

// Recognized query cost values.
const (
	QueryCache    = "cache"
	QuerySample   = "sample"
	QueryFullScan = "full-scan"
	QueryJoins    = "joins"
)

// DefaultSampleCap is the row-limit hint used when sampling is requested and
// no explicit cap is configured.
const DefaultSampleCap = 10000

// Cost is a computation/query cost ceiling. The zero value (or a nil
// pointer) permits nothing beyond linear, cache-friendly work.
type Cost struct {
	Computation string `yaml:"computation" json:"computation"`
	Query       string `yaml:"query" json:"query"`
}

// Linear reports whether only linear-time computation is allowed.
func (c *Cost) Linear() bool {
	return c != nil && c.Computation == ComputationLinear
}

// Unbounded reports whether super-linear computation is allowed. Yolo
// implies unbounded.
func (c *Cost) Unbounded() bool {
	return c != nil && (c.Computation == ComputationUnbounded || c.Computation == ComputationYolo)
}

// Yolo reports whether all computational restraint is off.
func (c *Cost) Yolo() bool {
	return c != nil && c.Computation == ComputationYolo
}

// CacheOnly reports whether only cached data may be consulted.
func (c *Cost) CacheOnly() bool {
	return c != nil && c.Query == QueryCache
}

// SampleOnly reports whether queries must be capped to a sample.
func (c *Cost) SampleOnly() bool {
	return c != nil && c.Query == QuerySample
}

// FullScan reports whether full table scans are allowed. Joins imply
// full scans.
func (c *Cost) FullScan() bool {
	return c != nil && (c.Query == QueryFullScan || c.Query == QueryJoins)
}

// AllowJoins reports whether joins are allowed.
func (c *Cost) AllowJoins() bool {
	return c != nil && c.Query == QueryJoins
}

// SampleLimit translates the query axis into a row-limit hint for the data
// source: cap rows when sampling, zero (no limit) otherwise. A cap <= 0
// falls back to DefaultSampleCap.
func (c *Cost) SampleLimit(cap int) int {
	if !c.SampleOnly() {
		return 0
	}
	if cap <= 0 {
		return DefaultSampleCap
	}
	return cap
}
