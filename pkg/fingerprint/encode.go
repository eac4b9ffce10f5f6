package fingerprint

import (
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/prismdata/prism/pkg/models"
)

// MarshalJSON encodes the fingerprint with every map key coerced to a
// string: PMFs are keyed by bin center (float64) or by category value (any
// comparable), neither of which standard JSON objects can carry directly.
func (fp Fingerprint) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonValue(map[string]any(fp)))
}

func jsonValue(v any) any {
	switch val := v.(type) {
	case Fingerprint:
		return jsonValue(map[string]any(val))
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = jsonValue(item)
		}
		return out
	case map[string]Fingerprint:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[k] = jsonValue(map[string]any(sub))
		}
		return out
	case map[float64]float64:
		out := make(map[string]float64, len(val))
		for k, item := range val {
			out[floatKey(k)] = item
		}
		return out
	case map[float64]string:
		out := make(map[string]string, len(val))
		for k, item := range val {
			out[floatKey(k)] = item
		}
		return out
	case map[any]float64:
		out := make(map[string]float64, len(val))
		for k, item := range val {
			out[models.CategoryKey(k)] = item
		}
		return out
	default:
		return v
	}
}

func floatKey(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
