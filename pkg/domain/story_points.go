package domain

import (
	dErrors "reqforge/pkg/domain-errors"
)

// StoryPoints is a relative effort estimate for a requirement.
//
// Invariant: Points >= 0. Non-Fibonacci values are accepted; the Fibonacci
// convention is a soft team agreement, not a domain rule.
type StoryPoints struct {
	Points           float64 `json:"points"`
	EstimationMethod string  `json:"estimation_method,omitempty"`
}

// Classification thresholds.
const (
	storyPointsLargeThreshold = 13
	storyPointsEpicThreshold  = 21
)

// NewStoryPoints constructs a StoryPoints value.
//
// Errors: CodeValidation when points is negative.
func NewStoryPoints(points float64, estimationMethod string) (StoryPoints, error) {
	if points < 0 {
		return StoryPoints{}, dErrors.Newf(dErrors.CodeValidation,
			"story points cannot be negative, got %g", points)
	}
	return StoryPoints{Points: points, EstimationMethod: estimationMethod}, nil
}

// IsLarge reports whether the estimate suggests the requirement should be
// split (>= 13 points).
func (p StoryPoints) IsLarge() bool {
	return p.Points >= storyPointsLargeThreshold
}

// IsEpic reports whether the estimate is epic-sized (>= 21 points).
func (p StoryPoints) IsEpic() bool {
	return p.Points >= storyPointsEpicThreshold
}
