// Package models holds the domain-driven-design building blocks reqforge
// derives from analyzed requirements: entities, bounded contexts, and
// aggregate roots.
//
// All three types are immutable values. Constructors validate invariants up
// front and fail with a CodeValidation domain error; the Add/With operations
// return a new, validated copy and leave the receiver untouched. No value
// ever transitions through an invalid intermediate state.
package models

import (
	"maps"
	"slices"
	"strings"

	dErrors "reqforge/pkg/domain-errors"
)

// DomainEntity is an identity-bearing business object scoped to one bounded
// context. Identity is the EntityID; attribute values may change between
// copies without changing which entity is meant.
//
// Invariants: Name, EntityID, and BoundedContext are non-blank.
type DomainEntity struct {
	Name           string         `json:"name"`
	EntityID       string         `json:"entity_id"`
	BoundedContext string         `json:"bounded_context"`
	Attributes     map[string]any `json:"attributes,omitempty"`
	BusinessRules  []string       `json:"business_rules,omitempty"`
	Invariants     []string       `json:"invariants,omitempty"`
}

// NewDomainEntity constructs a DomainEntity. The attribute map and rule
// slices are cloned so later caller mutation cannot reach the entity.
//
// Errors: CodeValidation when name, entityID, or boundedContext is blank.
func NewDomainEntity(name, entityID, boundedContext string, attributes map[string]any) (DomainEntity, error) {
	if strings.TrimSpace(name) == "" {
		return DomainEntity{}, dErrors.New(dErrors.CodeValidation, "entity name cannot be blank")
	}
	if strings.TrimSpace(entityID) == "" {
		return DomainEntity{}, dErrors.New(dErrors.CodeValidation, "entity id cannot be blank")
	}
	if strings.TrimSpace(boundedContext) == "" {
		return DomainEntity{}, dErrors.New(dErrors.CodeValidation, "entity bounded context cannot be blank")
	}
	return DomainEntity{
		Name:           name,
		EntityID:       entityID,
		BoundedContext: boundedContext,
		Attributes:     maps.Clone(attributes),
	}, nil
}

// HasAttribute reports whether the entity carries the named attribute.
func (e DomainEntity) HasAttribute(name string) bool {
	_, ok := e.Attributes[name]
	return ok
}

// Attribute returns the named attribute value. A missing key is not an
// error; the second return is false.
func (e DomainEntity) Attribute(name string) (any, bool) {
	v, ok := e.Attributes[name]
	return v, ok
}

// AddBusinessRule returns a copy of the entity with the rule appended.
func (e DomainEntity) AddBusinessRule(rule string) DomainEntity {
	out := e
	out.BusinessRules = append(slices.Clone(e.BusinessRules), rule)
	return out
}

// AddInvariant returns a copy of the entity with the invariant appended.
func (e DomainEntity) AddInvariant(invariant string) DomainEntity {
	out := e
	out.Invariants = append(slices.Clone(e.Invariants), invariant)
	return out
}

// WithAttributes returns a copy of the entity with the given attributes
// merged over the existing ones.
func (e DomainEntity) WithAttributes(attributes map[string]any) DomainEntity {
	merged := maps.Clone(e.Attributes)
	if merged == nil {
		merged = make(map[string]any, len(attributes))
	}
	maps.Copy(merged, attributes)
	out := e
	out.Attributes = merged
	return out
}

// SameIdentity reports whether both values refer to the same entity. Domain
// equality is identity-based: two copies with different attributes but one
// EntityID are the same entity.
func (e DomainEntity) SameIdentity(other DomainEntity) bool {
	return e.EntityID == other.EntityID
}
