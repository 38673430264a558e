package ai

import (
	"encoding/json"
	"strings"
)

// decodeLooseObject turns raw model text into a JSON object. It tries a
// strict full-string decode first, then the substring from the first '{'
// to the last '}'. That tolerates models wrapping JSON in prose or code
// fences. Returns ok=false when neither yields an object.
func decodeLooseObject(text string) (map[string]any, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err == nil && obj != nil {
		return obj, true
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	obj = nil
	if err := json.Unmarshal([]byte(s[start:end+1]), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// A shapeCheck decides whether a decoded object matches a capability's
// expected shape. Decoding without the required key counts as a
// normalization failure, so the raw text is preserved instead.
type shapeCheck func(map[string]any) bool

func hasString(key string) shapeCheck {
	return func(obj map[string]any) bool {
		s, ok := obj[key].(string)
		return ok && strings.TrimSpace(s) != ""
	}
}

func hasArray(key string) shapeCheck {
	return func(obj map[string]any) bool {
		_, ok := obj[key].([]any)
		return ok
	}
}

// One validator per structured capability.
var (
	improveShape    = hasString("improvedTitle")
	breakdownShape  = hasArray("subtasks")
	brainDumpShape  = hasArray("tasks")
	energyShape     = hasArray("recommendedTasks")
	doItForMeShape  = hasString("generatedContent")
	reflectionShape = hasString("dailySummary")
)
