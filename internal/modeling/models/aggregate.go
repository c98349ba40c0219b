package models

import (
	"slices"
	"strings"

	dErrors "reqforge/pkg/domain-errors"
)

// AggregateRoot groups a root entity with its child entities behind one
// consistency boundary. Nothing outside the aggregate may reference a child
// entity directly; callers go through the root.
//
// Invariants: Name, AggregateID, and BoundedContext are non-blank, and the
// root entity and every child entity belong to the aggregate's bounded
// context. The membership rule is enforced at construction and again on
// every AddChildEntity.
type AggregateRoot struct {
	Name             string         `json:"name"`
	AggregateID      string         `json:"aggregate_id"`
	BoundedContext   string         `json:"bounded_context"`
	RootEntity       DomainEntity   `json:"root_entity"`
	ChildEntities    []DomainEntity `json:"child_entities,omitempty"`
	DomainEvents     []string       `json:"domain_events,omitempty"`
	ConsistencyRules []string       `json:"consistency_rules,omitempty"`
}

// NewAggregateRoot constructs an AggregateRoot.
//
// Errors: CodeValidation when a required field is blank or when the root or
// any child entity belongs to a different bounded context; the message names
// the offending entity.
func NewAggregateRoot(name, aggregateID, boundedContext string, root DomainEntity, children ...DomainEntity) (AggregateRoot, error) {
	if strings.TrimSpace(name) == "" {
		return AggregateRoot{}, dErrors.New(dErrors.CodeValidation, "aggregate name cannot be blank")
	}
	if strings.TrimSpace(aggregateID) == "" {
		return AggregateRoot{}, dErrors.New(dErrors.CodeValidation, "aggregate id cannot be blank")
	}
	if strings.TrimSpace(boundedContext) == "" {
		return AggregateRoot{}, dErrors.New(dErrors.CodeValidation, "aggregate bounded context cannot be blank")
	}
	if err := requireSameContext(root, boundedContext); err != nil {
		return AggregateRoot{}, err
	}
	for _, child := range children {
		if err := requireSameContext(child, boundedContext); err != nil {
			return AggregateRoot{}, err
		}
	}
	return AggregateRoot{
		Name:           name,
		AggregateID:    aggregateID,
		BoundedContext: boundedContext,
		RootEntity:     root,
		ChildEntities:  slices.Clone(children),
	}, nil
}

// AddChildEntity returns a copy of the aggregate with the child appended.
// The bounded-context invariant is re-checked here even though construction
// already enforced it for existing members.
//
// Errors: CodeValidation when the child belongs to a different bounded
// context.
func (a AggregateRoot) AddChildEntity(child DomainEntity) (AggregateRoot, error) {
	if err := requireSameContext(child, a.BoundedContext); err != nil {
		return AggregateRoot{}, err
	}
	out := a
	out.ChildEntities = append(slices.Clone(a.ChildEntities), child)
	return out, nil
}

// AddDomainEvent returns a copy of the aggregate with the event name
// recorded.
func (a AggregateRoot) AddDomainEvent(event string) AggregateRoot {
	out := a
	out.DomainEvents = append(slices.Clone(a.DomainEvents), event)
	return out
}

// AddConsistencyRule returns a copy of the aggregate with the rule recorded.
func (a AggregateRoot) AddConsistencyRule(rule string) AggregateRoot {
	out := a
	out.ConsistencyRules = append(slices.Clone(a.ConsistencyRules), rule)
	return out
}

// AllEntities returns the root entity followed by the child entities in
// insertion order.
func (a AggregateRoot) AllEntities() []DomainEntity {
	out := make([]DomainEntity, 0, 1+len(a.ChildEntities))
	out = append(out, a.RootEntity)
	return append(out, a.ChildEntities...)
}

// HasEntity reports whether any entity in the aggregate (root included)
// carries the given name.
func (a AggregateRoot) HasEntity(name string) bool {
	_, ok := a.EntityByName(name)
	return ok
}

// EntityByName returns the first entity with the given name, searching the
// root first, then children in insertion order.
func (a AggregateRoot) EntityByName(name string) (DomainEntity, bool) {
	for _, e := range a.AllEntities() {
		if e.Name == name {
			return e, true
		}
	}
	return DomainEntity{}, false
}

func requireSameContext(e DomainEntity, boundedContext string) error {
	if e.BoundedContext != boundedContext {
		return dErrors.Newf(dErrors.CodeValidation,
			"entity %q does not belong to bounded context %q", e.Name, boundedContext)
	}
	return nil
}
