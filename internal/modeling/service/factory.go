package service

import (
	"github.com/google/uuid"

	"reqforge/internal/modeling/models"
)

// RootEntityData is the raw material for an aggregate's root entity, as
// supplied by callers that have not yet minted identifiers.
type RootEntityData struct {
	Name       string
	Attributes map[string]any
}

// AggregateFactory is the aggregate construction strategy. Callers hold the
// interface so alternate strategies (predetermined ids, test doubles) can be
// substituted.
type AggregateFactory interface {
	CreateAggregate(name, boundedContext string, root RootEntityData) (models.AggregateRoot, error)
}

// DefaultAggregateFactory mints fresh UUIDs for the aggregate and its root
// entity, then delegates to the AggregateRoot constructor. Any invariant
// violation propagates unchanged.
type DefaultAggregateFactory struct{}

// NewDefaultAggregateFactory constructs the default factory.
func NewDefaultAggregateFactory() *DefaultAggregateFactory {
	return &DefaultAggregateFactory{}
}

// CreateAggregate builds an aggregate whose root entity lives in the same
// bounded context by construction.
func (f *DefaultAggregateFactory) CreateAggregate(name, boundedContext string, root RootEntityData) (models.AggregateRoot, error) {
	entity, err := models.NewDomainEntity(root.Name, uuid.NewString(), boundedContext, root.Attributes)
	if err != nil {
		return models.AggregateRoot{}, err
	}
	return models.NewAggregateRoot(name, uuid.NewString(), boundedContext, entity)
}
