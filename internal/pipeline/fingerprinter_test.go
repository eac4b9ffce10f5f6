package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismdata/prism/pkg/config"
	"github.com/prismdata/prism/pkg/costs"
	"github.com/prismdata/prism/pkg/models"
	"github.com/prismdata/prism/pkg/prismerrors"
)

func testFields() []models.Field {
	return []models.Field{
		{Name: "amount", Type: models.Tag(models.KindNumber, models.KindAny)},
		{Name: "color", Type: models.Tag(models.KindText, models.KindCategory)},
	}
}

func testRows() []models.Row {
	return []models.Row{
		{10.0, "red"},
		{20.0, "blue"},
		{30.0, "red"},
		{nil, nil},
	}
}

func TestFingerprintTable(t *testing.T) {
	f := NewTableFingerprinter(nil)
	fps, err := f.Fingerprint(context.Background(), testFields(), testRows())
	require.NoError(t, err)
	require.Len(t, fps, 2)

	amount := fps["amount"]
	assert.Equal(t, "Number", amount.Type())
	assert.Equal(t, int64(4), amount.Count())
	assert.Equal(t, 20.0, amount["mean"])
	assert.Equal(t, int64(1), amount["nil-count"])

	color := fps["color"]
	assert.Equal(t, "Category", color.Type())
	assert.Equal(t, int64(4), color.Count())
	assert.Equal(t, int64(2), color["cardinality"])
}

func TestFingerprintNoFields(t *testing.T) {
	f := NewTableFingerprinter(nil)
	_, err := f.Fingerprint(context.Background(), nil, testRows())
	require.Error(t, err)
	assert.True(t, prismerrors.IsType(err, prismerrors.ErrorTypeValidation))
}

func TestFingerprintCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewTableFingerprinter(nil)
	_, err := f.Fingerprint(ctx, testFields(), testRows())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFingerprintShortRows(t *testing.T) {
	f := NewTableFingerprinter(nil)
	fps, err := f.Fingerprint(context.Background(), testFields(), []models.Row{{1.0}, {2.0, "x"}})
	require.NoError(t, err)

	color := fps["color"]
	assert.Equal(t, int64(1), color["nil-count"], "missing trailing cells read as nil")
}

func TestFingerprintPair(t *testing.T) {
	sig := models.Signature{
		models.Tag(models.KindNumber, models.KindAny),
		models.Tag(models.KindNumber, models.KindAny),
	}
	rows := []models.Row{{1.0, 2.0}, {2.0, 4.0}, {3.0, 6.0}}

	f := NewTableFingerprinter(nil)
	fp, err := f.FingerprintPair(context.Background(), sig, rows)
	require.NoError(t, err)

	assert.Equal(t, "Number x Number", fp.Type())
	assert.InDelta(t, 1.0, fp["correlation"].(float64), 1e-9)
}

func TestFingerprintPairRejectsBadSignature(t *testing.T) {
	f := NewTableFingerprinter(nil)
	_, err := f.FingerprintPair(context.Background(), models.Signature{models.Tag(models.KindNumber, models.KindAny)}, nil)
	require.Error(t, err)
	assert.True(t, prismerrors.IsType(err, prismerrors.ErrorTypeValidation))
}

func TestPlanQueryTimeBucketed(t *testing.T) {
	cfg := config.New()
	cfg.Scale = config.ScaleMonth
	cfg.Cost.Query = costs.QuerySample

	created := models.Field{Name: "created_at", Type: models.Tag(models.KindDateTime, models.KindAny)}
	total := models.Field{Name: "total", Type: models.Tag(models.KindNumber, models.KindAny)}

	shape := PlanQuery(cfg, created, total)
	assert.Equal(t, models.ShapeTimeBucketed, shape.Kind)
	assert.Equal(t, "created_at", shape.DateTimeField)
	assert.Equal(t, "total", shape.MetricField)
	assert.Equal(t, config.ScaleMonth, shape.Period)
	assert.Equal(t, cfg.Query.SampleCap, shape.Limit)
}

func TestPlanQueryRawProjection(t *testing.T) {
	cfg := config.New()
	cfg.Cost.Query = costs.QueryFullScan

	a := models.Field{Name: "x", Type: models.Tag(models.KindNumber, models.KindAny)}
	b := models.Field{Name: "y", Type: models.Tag(models.KindNumber, models.KindAny)}

	shape := PlanQuery(cfg, a, b)
	assert.Equal(t, models.ShapeRawProjection, shape.Kind)
	assert.Len(t, shape.Fields, 2)
	assert.Equal(t, 0, shape.Limit, "full scans carry no sampling hint")
}
