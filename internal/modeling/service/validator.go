// Package service provides the domain services operating on the modeling
// building blocks: entity validation, aggregate construction, and post-hoc
// aggregate consistency auditing.
package service

import (
	"strings"

	"github.com/google/uuid"

	"reqforge/internal/modeling/models"
)

// EntityValidator audits a domain entity and reports every violation found.
// Returning a list instead of failing on the first problem lets callers
// batch-report across many entities; an empty list means the entity is valid.
//
// Callers hold this interface, not a concrete validator, so alternate
// validation policies can be substituted in tests.
type EntityValidator interface {
	Validate(entity models.DomainEntity) []string
}

// DefaultEntityValidator applies the standard rule set: non-blank name,
// entity id, and bounded context, plus a UUID-formatted entity id.
type DefaultEntityValidator struct{}

// NewDefaultEntityValidator constructs the default validator.
func NewDefaultEntityValidator() *DefaultEntityValidator {
	return &DefaultEntityValidator{}
}

// Validate returns human-readable violation messages for the entity. The
// UUID rule is an audit finding, not a hard failure: entities constructed
// from legacy data may carry non-UUID ids and still be reported alongside
// their other violations.
func (v *DefaultEntityValidator) Validate(entity models.DomainEntity) []string {
	var violations []string
	if strings.TrimSpace(entity.Name) == "" {
		violations = append(violations, "Entity name cannot be blank")
	}
	if strings.TrimSpace(entity.EntityID) == "" {
		violations = append(violations, "Entity ID cannot be blank")
	} else if _, err := uuid.Parse(entity.EntityID); err != nil {
		violations = append(violations, "Entity ID must be a valid UUID")
	}
	if strings.TrimSpace(entity.BoundedContext) == "" {
		violations = append(violations, "Entity bounded context cannot be blank")
	}
	return violations
}
