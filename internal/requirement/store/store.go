// Package store persists requirement aggregates. Memory and PostgreSQL
// implementations share the Store contract.
package store

import (
	"context"

	"reqforge/internal/requirement/models"
	"reqforge/pkg/domain"
)

// Store is the persistence contract for requirement aggregates.
type Store interface {
	// Save inserts or replaces a requirement.
	Save(ctx context.Context, req *models.Requirement) error
	// FindByID returns the requirement, or a not-found coded error.
	FindByID(ctx context.Context, projectID domain.ProjectID, id domain.RequirementID) (*models.Requirement, error)
	// ListByProject returns all requirements of a project ordered by
	// identifier prefix then number.
	ListByProject(ctx context.Context, projectID domain.ProjectID) ([]*models.Requirement, error)
	// MaxNumber returns the highest identifier number used for a prefix
	// within a project, or 0 when the prefix is unused.
	MaxNumber(ctx context.Context, projectID domain.ProjectID, prefix string) (int, error)
	// Delete removes a requirement. Deleting a missing requirement returns
	// a not-found coded error.
	Delete(ctx context.Context, projectID domain.ProjectID, id domain.RequirementID) error
}
