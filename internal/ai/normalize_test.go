package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLooseObjectStrict(t *testing.T) {
	obj, ok := decodeLooseObject(`{"improvedTitle":"Call dentist","timeEstimateMinutes":5}`)
	require.True(t, ok)
	assert.Equal(t, "Call dentist", obj["improvedTitle"])
	assert.Equal(t, float64(5), obj["timeEstimateMinutes"])
}

func TestDecodeLooseObjectEmbeddedInProse(t *testing.T) {
	obj, ok := decodeLooseObject(`Here is your answer: {"improvedTitle":"X"} Thanks!`)
	require.True(t, ok)
	assert.Equal(t, "X", obj["improvedTitle"])
}

func TestDecodeLooseObjectCodeFence(t *testing.T) {
	obj, ok := decodeLooseObject("```json\n{\"subtasks\":[{\"title\":\"a\",\"estimateMinutes\":15}]}\n```")
	require.True(t, ok)
	assert.Contains(t, obj, "subtasks")
}

func TestDecodeLooseObjectFailures(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"prose":        "Sorry, I can't help with that.",
		"no close":     "{ this never closes",
		"invalid body": "before { not json } after",
		"array only":   `[1, 2, 3]`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			obj, ok := decodeLooseObject(in)
			assert.False(t, ok)
			assert.Nil(t, obj)
		})
	}
}

func TestDecodeLooseObjectRoundTrip(t *testing.T) {
	orig := map[string]any{
		"improvedTitle":       "Call dentist",
		"suggestedPriority":   "High",
		"timeEstimateMinutes": float64(5),
		"reason":              "quick call",
	}
	b, err := json.Marshal(orig)
	require.NoError(t, err)

	obj, ok := decodeLooseObject(string(b))
	require.True(t, ok)
	assert.Equal(t, orig, obj)
}

func TestShapeChecks(t *testing.T) {
	assert.True(t, improveShape(map[string]any{"improvedTitle": "X"}))
	assert.False(t, improveShape(map[string]any{"improvedTitle": ""}))
	assert.False(t, improveShape(map[string]any{"other": "X"}))

	assert.True(t, breakdownShape(map[string]any{"subtasks": []any{}}))
	assert.False(t, breakdownShape(map[string]any{"subtasks": "not an array"}))

	assert.True(t, energyShape(map[string]any{"recommendedTasks": []any{}}))
	assert.True(t, reflectionShape(map[string]any{"dailySummary": "a day"}))
	assert.False(t, reflectionShape(map[string]any{}))
}
