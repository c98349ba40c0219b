// Package generation is the outbound AI seam: a thin completion client and
// the parsing that folds free model text back into the typed domain.
package generation

import (
	"strings"

	"reqforge/pkg/domain"
)

// priorityByText maps the level names a model is likely to emit onto the
// enum. Lookup is case-insensitive; unrecognized input falls back to medium.
var priorityByText = map[string]domain.PriorityLevel{
	"critical":     domain.PriorityCritical,
	"high":         domain.PriorityHigh,
	"medium":       domain.PriorityMedium,
	"low":          domain.PriorityLow,
	"nice_to_have": domain.PriorityNiceToHave,
	"nice to have": domain.PriorityNiceToHave,
	"nice-to-have": domain.PriorityNiceToHave,
}

var complexityByText = map[string]domain.ComplexityScale{
	"trivial":      domain.ComplexityTrivial,
	"simple":       domain.ComplexitySimple,
	"moderate":     domain.ComplexityModerate,
	"complex":      domain.ComplexityComplex,
	"very_complex": domain.ComplexityVeryComplex,
	"very complex": domain.ComplexityVeryComplex,
	"very-complex": domain.ComplexityVeryComplex,
}

// PriorityFromText maps free model text to a priority level, defaulting to
// medium.
func PriorityFromText(s string) domain.PriorityLevel {
	if level, ok := priorityByText[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level
	}
	return domain.PriorityMedium
}

// ComplexityFromText maps free model text to a complexity scale, defaulting
// to moderate.
func ComplexityFromText(s string) domain.ComplexityScale {
	if scale, ok := complexityByText[strings.ToLower(strings.TrimSpace(s))]; ok {
		return scale
	}
	return domain.ComplexityModerate
}
