package domain

import (
	"strings"

	dErrors "reqforge/pkg/domain-errors"
)

// ComplexityScale enumerates the supported complexity bands.
type ComplexityScale string

const (
	ComplexityTrivial     ComplexityScale = "trivial"
	ComplexitySimple      ComplexityScale = "simple"
	ComplexityModerate    ComplexityScale = "moderate"
	ComplexityComplex     ComplexityScale = "complex"
	ComplexityVeryComplex ComplexityScale = "very_complex"
)

// complexityWeights orders the scales 1 (trivial) through 5 (very complex).
var complexityWeights = map[ComplexityScale]int{
	ComplexityTrivial:     1,
	ComplexitySimple:      2,
	ComplexityModerate:    3,
	ComplexityComplex:     4,
	ComplexityVeryComplex: 5,
}

// ParseComplexityScale constructs a ComplexityScale from external input.
// The comparison is case-insensitive.
//
// Errors: CodeInvalidInput when the value is empty or unsupported.
func ParseComplexityScale(s string) (ComplexityScale, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "complexity scale cannot be empty")
	}
	c := ComplexityScale(strings.ToLower(s))
	if !c.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown complexity scale: %s", s)
	}
	return c, nil
}

// IsValid checks if the scale is one of the supported enum values.
func (c ComplexityScale) IsValid() bool {
	_, ok := complexityWeights[c]
	return ok
}

// Weight returns the numeric weight of the scale, 1 through 5.
func (c ComplexityScale) Weight() int {
	return complexityWeights[c]
}

// String returns the string representation of the scale.
func (c ComplexityScale) String() string {
	return string(c)
}

// ComplexityLevel is the value object pairing a scale with an optional
// explanation of how it was assessed.
type ComplexityLevel struct {
	Scale       ComplexityScale `json:"scale"`
	Explanation string          `json:"explanation,omitempty"`
}

// NewComplexityLevel constructs a ComplexityLevel.
//
// Errors: CodeValidation when the scale is not one of the five supported
// values.
func NewComplexityLevel(scale ComplexityScale, explanation string) (ComplexityLevel, error) {
	if !scale.IsValid() {
		return ComplexityLevel{}, dErrors.Newf(dErrors.CodeValidation, "invalid complexity scale: %s", scale)
	}
	return ComplexityLevel{Scale: scale, Explanation: explanation}, nil
}
