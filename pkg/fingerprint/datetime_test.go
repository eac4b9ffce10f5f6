package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismdata/prism/pkg/models"
)

func dateTimeSig() models.Signature {
	return models.Signature{models.Tag(models.KindDateTime, models.KindAny)}
}

func TestDateTimeSummary(t *testing.T) {
	fp := BuildPipeline(Options{}, dateTimeSig()).Reduce(column(
		"2024-03-15T10:30:00Z",
		"2024-03-16T10:45:00Z",
		"2024-06-01T22:00:00Z",
	))

	assert.Equal(t, int64(3), fp.Count())
	assert.Equal(t, "DateTime", fp.Type())
	assert.Equal(t, "2024-03-15T10:30:00Z", fp["earliest"])
	assert.Equal(t, "2024-06-01T22:00:00Z", fp["latest"])

	hours := fp["hour"].(map[any]float64)
	assert.InDelta(t, 2.0/3.0, hours[10], 1e-12)
	assert.InDelta(t, 1.0/3.0, hours[22], 1e-12)

	days := fp["day-of-week"].(map[any]float64)
	assert.InDelta(t, 1.0/3.0, days["Friday"], 1e-12)
	assert.InDelta(t, 1.0/3.0, days["Saturday"], 1e-12)

	months := fp["month"].(map[any]float64)
	assert.InDelta(t, 2.0/3.0, months["March"], 1e-12)

	quarters := fp["quarter"].(map[any]float64)
	assert.InDelta(t, 2.0/3.0, quarters[1], 1e-12)
	assert.InDelta(t, 1.0/3.0, quarters[2], 1e-12)
}

func TestDateTimePercentilesAreTimestamps(t *testing.T) {
	fp := BuildPipeline(Options{}, dateTimeSig()).Reduce(column(
		"2024-01-01T00:00:00Z",
		"2024-01-02T00:00:00Z",
		"2024-01-03T00:00:00Z",
	))

	percentiles, ok := fp["percentiles"].(map[float64]string)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01T00:00:00Z", percentiles[0.0])
}

func TestDateTimeUnparseable(t *testing.T) {
	fp := BuildPipeline(Options{}, dateTimeSig()).Reduce(column("2024-01-01", "not a date", nil))

	assert.Equal(t, int64(3), fp.Count())
	assert.Equal(t, int64(2), fp["nil-count"], "unparseable values count as missing")
}
