package fingerprint

import (
	"github.com/prismdata/prism/pkg/models"
	"github.com/prismdata/prism/pkg/reducer"
)

// Pipeline is an erased fingerprinting fold over projected rows. Single-
// column pipelines read the row's only cell; pair pipelines read two cells.
type Pipeline = reducer.Fold[models.Row, any, Fingerprint]

// PipelineKind enumerates the closed set of type categories the registry
// dispatches to.
type PipelineKind int

const (
	PipelineTimeSeries PipelineKind = iota // DateTime x Number
	PipelineNumberPair                     // Number x Number
	PipelineGrouped                        // Category x Any
	PipelineNumber
	PipelineDateTime
	PipelineCategory
	PipelineText
	PipelineDefault
)

// String returns the category name used in logs and metrics labels.
func (k PipelineKind) String() string {
	switch k {
	case PipelineTimeSeries:
		return "timeseries"
	case PipelineNumberPair:
		return "number-pair"
	case PipelineGrouped:
		return "grouped"
	case PipelineNumber:
		return "number"
	case PipelineDateTime:
		return "datetime"
	case PipelineCategory:
		return "category"
	case PipelineText:
		return "text"
	default:
		return "default"
	}
}

// Classify resolves a signature to its pipeline category. The order below
// is the explicit precedence table: first match wins, so Number beats
// Category and Category beats Text when a tag matches more than one
// category. The default category matches everything.
func Classify(sig models.Signature) PipelineKind {
	switch len(sig) {
	case 2:
		first, second := sig[0], sig[1]
		switch {
		case first.Is(models.KindDateTime) && second.Is(models.KindNumber):
			return PipelineTimeSeries
		case first.Is(models.KindNumber) && second.Is(models.KindNumber):
			return PipelineNumberPair
		case first.Is(models.KindCategory):
			return PipelineGrouped
		}
	case 1:
		tag := sig[0]
		switch {
		case tag.Is(models.KindNumber):
			return PipelineNumber
		case tag.Is(models.KindDateTime):
			return PipelineDateTime
		case tag.Is(models.KindCategory):
			return PipelineCategory
		case tag.Is(models.KindText):
			return PipelineText
		}
	}
	return PipelineDefault
}

// BuildPipeline selects and constructs the reducer pipeline for a semantic
// type signature. It never fails: signatures outside the known categories
// get the default counting pipeline.
func BuildPipeline(opts Options, sig models.Signature) Pipeline {
	switch Classify(sig) {
	case PipelineTimeSeries:
		return timeSeriesPipeline(opts)
	case PipelineNumberPair:
		return numberPairPipeline()
	case PipelineGrouped:
		return groupedPipeline(opts, sig)
	case PipelineNumber:
		return numericPipeline(opts)
	case PipelineDateTime:
		return dateTimePipeline(opts)
	case PipelineCategory:
		return categoryPipeline(opts)
	case PipelineText:
		return textPipeline(opts)
	default:
		return defaultPipeline(sig)
	}
}

// asPipeline erases a typed fingerprinting fold into a Pipeline.
func asPipeline[S any](f reducer.Fold[models.Row, S, Fingerprint]) Pipeline {
	return Pipeline{
		Init: func() any { return f.Init() },
		Step: func(s any, row models.Row) any { return f.Step(s.(S), row) },
		Done: func(s any) Fingerprint { return f.Done(s.(S)) },
	}
}

// cell projects the i-th cell of a row, nil when the row is too short.
func cell(i int) func(models.Row) any {
	return func(row models.Row) any {
		if i >= len(row) {
			return nil
		}
		return row[i]
	}
}
