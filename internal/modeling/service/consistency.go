package service

import (
	"fmt"
	"sort"
	"strings"

	"reqforge/internal/modeling/models"
)

// AggregateConsistencyValidator audits an aggregate after the fact. The
// constructor already enforces bounded-context membership, but aggregates
// assembled through raw struct literals bypass it; this validator catches
// those, plus duplicate entity names the constructor does not police.
type AggregateConsistencyValidator struct{}

// NewAggregateConsistencyValidator constructs the validator.
func NewAggregateConsistencyValidator() *AggregateConsistencyValidator {
	return &AggregateConsistencyValidator{}
}

// ValidateConsistency returns human-readable violation messages for the
// aggregate; an empty list means it is consistent. Duplicate entity names
// (root vs children, or among children) are reported as a single message
// listing the duplicated names.
func (v *AggregateConsistencyValidator) ValidateConsistency(aggregate models.AggregateRoot) []string {
	var violations []string

	counts := make(map[string]int)
	for _, e := range aggregate.AllEntities() {
		if e.BoundedContext != aggregate.BoundedContext {
			violations = append(violations, fmt.Sprintf(
				"entity %q does not belong to bounded context %q", e.Name, aggregate.BoundedContext))
		}
		counts[e.Name]++
	}

	var duplicates []string
	for name, n := range counts {
		if n > 1 {
			duplicates = append(duplicates, name)
		}
	}
	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		violations = append(violations, fmt.Sprintf(
			"duplicate entity names within aggregate: %s", strings.Join(duplicates, ", ")))
	}
	return violations
}
