package orchestrator

import (
	"strings"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

var deepKeywords = []string{"architecture", "design", "comprehensive", "thorough", "in depth", "detailed analysis", "refactor"}
var conciseKeywords = []string{"quick", "briefly", "short", "tl;dr", "summarize"}

// detectMode inspects word count and keyword set to select the run's
// Mode (spec §4.5 step 2). It never consults the LLM.
func detectMode(promptText string) coretypes.Mode {
	lower := strings.ToLower(promptText)
	words := len(strings.Fields(promptText))

	for _, kw := range deepKeywords {
		if strings.Contains(lower, kw) {
			return coretypes.ModeDeep
		}
	}
	for _, kw := range conciseKeywords {
		if strings.Contains(lower, kw) {
			return coretypes.ModeConcise
		}
	}
	if words > 60 {
		return coretypes.ModeDeep
	}
	if words <= 8 {
		return coretypes.ModeConcise
	}
	return coretypes.ModeDirect
}

var interrogativeStarts = []string{"what", "how", "why", "when", "where", "who"}
var interrogativePhrases = []string{"tell me", "explain", "describe", "show me"}

// isInformationQuery matches spec §4.5 step 3's interrogative pattern.
func isInformationQuery(promptText string) bool {
	trimmed := strings.TrimSpace(promptText)
	lower := strings.ToLower(trimmed)

	if strings.HasSuffix(trimmed, "?") {
		return true
	}
	for _, start := range interrogativeStarts {
		if strings.HasPrefix(lower, start+" ") {
			return true
		}
	}
	for _, phrase := range interrogativePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
