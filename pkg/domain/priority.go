// Package domain holds the value objects shared across reqforge modules.
//
// Every type here is an immutable, self-validating value: constructors reject
// invariant violations with a CodeValidation domain error, and "modification"
// always returns a new value. That makes each value safe to share across
// goroutines without locking.
package domain

import (
	"strings"

	dErrors "reqforge/pkg/domain-errors"
)

// PriorityLevel enumerates the supported requirement priority levels.
type PriorityLevel string

const (
	PriorityCritical   PriorityLevel = "critical"
	PriorityHigh       PriorityLevel = "high"
	PriorityMedium     PriorityLevel = "medium"
	PriorityLow        PriorityLevel = "low"
	PriorityNiceToHave PriorityLevel = "nice_to_have"
)

// priorityWeights is the single source of truth for priority ordering.
// Higher weights sort first.
var priorityWeights = map[PriorityLevel]int{
	PriorityCritical:   5,
	PriorityHigh:       4,
	PriorityMedium:     3,
	PriorityLow:        2,
	PriorityNiceToHave: 1,
}

// ParsePriorityLevel constructs a PriorityLevel from external input.
// The comparison is case-insensitive.
//
// Errors: CodeInvalidInput when the value is empty or not one of the five
// supported levels.
func ParsePriorityLevel(s string) (PriorityLevel, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "priority level cannot be empty")
	}
	l := PriorityLevel(strings.ToLower(s))
	if !l.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown priority level: %s", s)
	}
	return l, nil
}

// IsValid checks if the level is one of the supported enum values.
func (l PriorityLevel) IsValid() bool {
	_, ok := priorityWeights[l]
	return ok
}

// Weight returns the numeric weight used for ordering (critical=5 down to
// nice_to_have=1). Unknown levels weigh 0 and sort last.
func (l PriorityLevel) Weight() int {
	return priorityWeights[l]
}

// String returns the string representation of the level.
func (l PriorityLevel) String() string {
	return string(l)
}

// Priority is the value object pairing a level with an optional reason.
type Priority struct {
	Level  PriorityLevel `json:"level"`
	Reason string        `json:"reason,omitempty"`
}

// NewPriority constructs a Priority.
//
// Errors: CodeValidation when the level is not one of the five supported
// values.
func NewPriority(level PriorityLevel, reason string) (Priority, error) {
	if !level.IsValid() {
		return Priority{}, dErrors.Newf(dErrors.CodeValidation, "invalid priority level: %s", level)
	}
	return Priority{Level: level, Reason: reason}, nil
}

// Before reports whether p ranks above other (higher weight sorts first).
func (p Priority) Before(other Priority) bool {
	return p.Level.Weight() > other.Level.Weight()
}
