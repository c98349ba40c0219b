package models

import (
	"slices"
	"strings"

	dErrors "reqforge/pkg/domain-errors"
)

// BoundedContext is a named modeling boundary owning a vocabulary and the
// registries of entity and aggregate names defined inside it. Within one
// context every term has a single unambiguous meaning.
//
// Invariant: Name is non-blank. The three registries behave as sets:
// insertion-ordered, duplicate-free.
type BoundedContext struct {
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	UbiquitousLanguage []string `json:"ubiquitous_language,omitempty"`
	DomainEntities     []string `json:"domain_entities,omitempty"`
	AggregateRoots     []string `json:"aggregate_roots,omitempty"`
}

// NewBoundedContext constructs a BoundedContext with empty registries.
//
// Errors: CodeValidation when the name is blank.
func NewBoundedContext(name, description string) (BoundedContext, error) {
	if strings.TrimSpace(name) == "" {
		return BoundedContext{}, dErrors.New(dErrors.CodeValidation, "bounded context name cannot be blank")
	}
	return BoundedContext{Name: name, Description: description}, nil
}

// AddDomainEntity returns a copy of the context with the entity name
// registered. Adding an already-registered name is a no-op copy.
func (c BoundedContext) AddDomainEntity(entityName string) BoundedContext {
	out := c
	out.DomainEntities = addToSet(c.DomainEntities, entityName)
	return out
}

// AddAggregateRoot returns a copy of the context with the aggregate name
// registered.
func (c BoundedContext) AddAggregateRoot(aggregateName string) BoundedContext {
	out := c
	out.AggregateRoots = addToSet(c.AggregateRoots, aggregateName)
	return out
}

// AddToUbiquitousLanguage returns a copy of the context with the term added
// to its vocabulary.
func (c BoundedContext) AddToUbiquitousLanguage(term string) BoundedContext {
	out := c
	out.UbiquitousLanguage = addToSet(c.UbiquitousLanguage, term)
	return out
}

// ContainsEntity reports whether the entity name is registered in this
// context.
func (c BoundedContext) ContainsEntity(entityName string) bool {
	return slices.Contains(c.DomainEntities, entityName)
}

// ContainsAggregate reports whether the aggregate name is registered in this
// context.
func (c BoundedContext) ContainsAggregate(aggregateName string) bool {
	return slices.Contains(c.AggregateRoots, aggregateName)
}

// addToSet appends value to a fresh copy of set unless already present.
func addToSet(set []string, value string) []string {
	if slices.Contains(set, value) {
		return slices.Clone(set)
	}
	return append(slices.Clone(set), value)
}
