package planner

import (
	"strings"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

var anaphoricMarkers = []string{"it", "result", "output", "the file", "back", "that file"}

// inferDependencies walks tasks in order and adds the immediately
// preceding task as a dependency whenever a task's description contains an
// anaphoric reference (spec §4.3 step 6). It mutates tasks in place.
func inferDependencies(tasks []coretypes.Task) {
	for i := 1; i < len(tasks); i++ {
		desc := " " + strings.ToLower(tasks[i].Description) + " "
		for _, marker := range anaphoricMarkers {
			if strings.Contains(desc, " "+marker+" ") || strings.Contains(desc, " "+marker+".") {
				prev := tasks[i-1].ID
				if !containsStr(tasks[i].Dependencies, prev) {
					tasks[i].Dependencies = append(tasks[i].Dependencies, prev)
				}
				break
			}
		}
	}
}

func containsStr(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

var multiStepMarkers = []string{"then", "after", "next", "finally", "and then", "first", "second", "third", "lastly"}

// classifyComplexity derives the logging/budgeting hint from spec §4.3
// step 7. It is never consulted by Executor/Orchestrator behavior.
func classifyComplexity(promptText string, tasks []coretypes.Task) coretypes.Complexity {
	lower := strings.ToLower(promptText)
	words := len(strings.Fields(promptText))
	hasToolKeyword := false
	for _, t := range tasks {
		if len(t.Tools) > 0 {
			hasToolKeyword = true
			break
		}
	}

	for _, marker := range multiStepMarkers {
		if strings.Contains(lower, marker) {
			return coretypes.ComplexityComplex
		}
	}
	if hasToolKeyword && words > 20 {
		return coretypes.ComplexityComplex
	}

	if words <= 15 && !hasToolKeyword {
		return coretypes.ComplexitySimple
	}
	if hasToolKeyword || (words > 15 && words <= 20) {
		return coretypes.ComplexityModerate
	}
	return coretypes.ComplexitySimple
}

// deriveParallelizable is true iff no task declares a dependency (spec
// §4.3 step 8).
func deriveParallelizable(tasks []coretypes.Task) bool {
	for _, t := range tasks {
		if len(t.Dependencies) > 0 {
			return false
		}
	}
	return true
}
