package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismdata/prism/pkg/models"
)

func groupedSig() models.Signature {
	return models.Signature{
		models.Tag(models.KindText, models.KindCategory),
		models.Tag(models.KindNumber, models.KindAny),
	}
}

func TestGroupedRollup(t *testing.T) {
	rows := pairs([2]any{"a", 1.0}, [2]any{"b", 2.0}, [2]any{"a", 3.0})
	fp := BuildPipeline(Options{}, groupedSig()).Reduce(rows)

	assert.Equal(t, int64(3), fp.Count())

	groups, ok := fp["groups"].(map[string]Fingerprint)
	require.True(t, ok)
	require.Len(t, groups, 2)

	a := groups["a"]
	assert.Equal(t, int64(2), a.Count())
	assert.Equal(t, "Number", a.Type())
	assert.Equal(t, 2.0, a["mean"], "group a folds [1, 3]")
	assert.Equal(t, 1.0, a["min"])
	assert.Equal(t, 3.0, a["max"])

	b := groups["b"]
	assert.Equal(t, int64(1), b.Count())
	assert.Equal(t, 2.0, b["mean"], "group b folds [2]")
}

func TestGroupedNilKeysFormTheirOwnGroup(t *testing.T) {
	rows := pairs([2]any{"a", 1.0}, [2]any{nil, 9.0})
	fp := BuildPipeline(Options{}, groupedSig()).Reduce(rows)

	groups := fp["groups"].(map[string]Fingerprint)
	require.Contains(t, groups, "")
	assert.Equal(t, int64(1), groups[""].Count())
	assert.Equal(t, int64(1), fp["nil-count"])
	assert.Equal(t, true, fp["has-nils?"])
}

func TestGroupedInnerPipelineFollowsSecondTag(t *testing.T) {
	sig := models.Signature{
		models.Tag(models.KindText, models.KindCategory),
		models.Tag(models.KindText, models.KindAny),
	}
	rows := pairs([2]any{"g", "hello"}, [2]any{"g", "hi"})
	fp := BuildPipeline(Options{}, sig).Reduce(rows)

	groups := fp["groups"].(map[string]Fingerprint)
	require.Contains(t, groups, "g")
	assert.Equal(t, "Text", groups["g"].Type())
	assert.Equal(t, int64(2), groups["g"]["min-length"])
	assert.Equal(t, int64(5), groups["g"]["max-length"])
}
