package checklist

import (
	"fmt"
	"strings"
)

// resolvedFeedback is the confirmation message for a fully resolved checklist.
const resolvedFeedback = "Requirement is complete and unambiguous."

// Analyze classifies a checklist as resolved or builds corrective feedback
// describing exactly which fields are missing or ambiguous.
//
// A checklist is resolved iff its status is COMPLETE and its ambiguity level
// is NONE — the combination under which the generation prompt guarantees a
// unique policy interpretation. Otherwise the feedback collects, in order:
// missing required elements, ambiguous elements with their suggestions, and
// the model's own resolution guidance. The missing slice echoes
// resolutionGuidance.missingRequired for callers that want a count.
//
// Analyze is a pure function: deterministic, no side effects, and safe on a
// checklist with zero requirements.
func Analyze(c *RequirementChecklist) (resolved bool, feedback string, missing []string) {
	status := c.Metadata.Status
	level := c.Metadata.AmbiguityLevel

	if status == StatusComplete && level == AmbiguityNone {
		return true, resolvedFeedback, nil
	}

	var lines []string

	if status == StatusIncomplete {
		lines = append(lines, "The requirement is incomplete. Missing elements:")
		for i := range c.Requirements {
			for _, f := range c.Requirements[i].requiredFields() {
				if f.confidence != ConfidenceMissing {
					continue
				}
				source := f.nlSource
				if source == "" {
					source = "Not specified"
				}
				lines = append(lines, fmt.Sprintf("- %s: %s", f.name, source))
			}
		}
	}

	if level != AmbiguityNone {
		lines = append(lines, fmt.Sprintf("\nThe requirement has %s ambiguity:", strings.ToLower(string(level))))
		for i := range c.Requirements {
			for _, f := range c.Requirements[i].ambiguityFields() {
				if f.confidence != ConfidenceAmbiguous {
					continue
				}
				lines = append(lines, fmt.Sprintf("- %s: %s", f.name, f.ambiguityReason))
				if len(f.resolutionRequired) > 0 {
					lines = append(lines, fmt.Sprintf("  Suggestions: %s", strings.Join(f.resolutionRequired, ", ")))
				}
			}
		}
	}

	guidance := c.ResolutionGuidance
	if len(guidance.MissingRequired) > 0 || len(guidance.AmbiguousElements) > 0 {
		lines = append(lines, "\nResolution guidance:")
		if len(guidance.MissingRequired) > 0 {
			lines = append(lines, "Missing elements that need to be specified:")
			for _, item := range guidance.MissingRequired {
				lines = append(lines, "- "+item)
			}
		}
		if len(guidance.AmbiguousElements) > 0 {
			lines = append(lines, "Elements that need clarification:")
			for _, item := range guidance.AmbiguousElements {
				lines = append(lines, "- "+item)
			}
		}
	}

	return false, strings.Join(lines, "\n"), guidance.MissingRequired
}
