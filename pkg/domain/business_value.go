package domain

import (
	dErrors "reqforge/pkg/domain-errors"
)

// BusinessValue scores the business impact of a requirement on a 0-100 scale.
//
// Invariant: 0 <= Score <= 100.
//
// Classification bands: high >= 70, medium [30, 70), low < 30.
type BusinessValue struct {
	Score int `json:"score"`
}

// Classification thresholds.
const (
	businessValueHighThreshold   = 70
	businessValueMediumThreshold = 30
)

// NewBusinessValue constructs a BusinessValue.
//
// Errors: CodeValidation when score is outside [0, 100].
func NewBusinessValue(score int) (BusinessValue, error) {
	if score < 0 || score > 100 {
		return BusinessValue{}, dErrors.Newf(dErrors.CodeValidation,
			"business value must be between 0 and 100, got %d", score)
	}
	return BusinessValue{Score: score}, nil
}

// IsHigh reports whether the score falls in the high band (>= 70).
func (v BusinessValue) IsHigh() bool {
	return v.Score >= businessValueHighThreshold
}

// IsMedium reports whether the score falls in the medium band ([30, 70)).
func (v BusinessValue) IsMedium() bool {
	return v.Score >= businessValueMediumThreshold && v.Score < businessValueHighThreshold
}

// IsLow reports whether the score falls in the low band (< 30).
func (v BusinessValue) IsLow() bool {
	return v.Score < businessValueMediumThreshold
}
