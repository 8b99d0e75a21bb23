package advice

import (
	"encoding/json"
	"strings"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

// Parse turns a raw generative-text reply into a well-formed Advice. It is
// total: whatever the model returned, the caller gets a usable result and
// never an error. The stages, tried in order:
//
//  1. the text parses as JSON once Markdown code fences are stripped
//  2. the text parses as JSON as-is
//  3. a {...} object embedded in surrounding prose parses
//  4. the entire raw text becomes the summary, with empty tips and risks
//
// Missing fields are always defaulted via Normalize. This is the single
// parser; every consumer of model output must go through it rather than
// re-implement the fallback chain.
func Parse(raw string) core.Advice {
	if a, ok := tryUnmarshal(stripCodeFences(raw)); ok {
		return a
	}
	if a, ok := tryUnmarshal(raw); ok {
		return a
	}
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		if a, ok := tryUnmarshal(raw[start : end+1]); ok {
			return a
		}
	}
	return core.Advice{Summary: raw}.Normalize()
}

func tryUnmarshal(s string) (core.Advice, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] != '{' {
		return core.Advice{}, false
	}
	var a core.Advice
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return core.Advice{}, false
	}
	return a.Normalize(), true
}

// stripCodeFences removes ```json / ``` markers the model often wraps its
// reply in despite instructions.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
