package pipeline

import (
	"github.com/prismdata/prism/pkg/config"
	"github.com/prismdata/prism/pkg/fingerprint"
	"github.com/prismdata/prism/pkg/models"
)

// PlanQuery translates a pair of fields plus the cost and scale
// configuration into the abstract query shape the data-source collaborator
// should execute. DateTime x Number pairs ask for a time-bucketed metric at
// the configured scale; everything else is a raw projection. The limit is
// the sampling hint from the cost policy, zero meaning unbounded.
func PlanQuery(cfg *config.Config, first, second models.Field) models.QueryShape {
	if cfg == nil {
		cfg = config.New()
	}

	sig := models.Signature{first.Type, second.Type}
	shape := models.QueryShape{
		Kind:   models.ShapeRawProjection,
		Fields: []models.Field{first, second},
		Limit:  cfg.Cost.SampleLimit(cfg.Query.SampleCap),
	}

	if fingerprint.Classify(sig) == fingerprint.PipelineTimeSeries && cfg.Scale != config.ScaleRaw {
		shape.Kind = models.ShapeTimeBucketed
		shape.DateTimeField = first.Name
		shape.MetricField = second.Name
		shape.Period = cfg.Scale
	}
	return shape
}
