package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqforge/internal/requirement/models"
	"reqforge/pkg/domain"
	dErrors "reqforge/pkg/domain-errors"
)

func newStoredRequirement(t *testing.T, projectID domain.ProjectID, prefix string, number int) *models.Requirement {
	t.Helper()
	id, err := domain.NewRequirementID(prefix, number, "")
	require.NoError(t, err)
	req, err := models.NewRequirement(id, projectID, "Checkout flow", time.Now().UTC())
	require.NoError(t, err)
	return req
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	projectID := domain.ProjectID(uuid.New())

	t.Run("save then find returns a copy", func(t *testing.T) {
		s := NewMemoryStore()
		req := newStoredRequirement(t, projectID, "REQ", 1)
		require.NoError(t, s.Save(ctx, req))

		found, err := s.FindByID(ctx, projectID, req.ID)
		require.NoError(t, err)
		assert.Equal(t, req.Title, found.Title)

		found.Title = "mutated"
		again, err := s.FindByID(ctx, projectID, req.ID)
		require.NoError(t, err)
		assert.Equal(t, "Checkout flow", again.Title)
	})

	t.Run("find missing returns not found", func(t *testing.T) {
		s := NewMemoryStore()
		id, err := domain.NewRequirementID("REQ", 42, "")
		require.NoError(t, err)

		_, err = s.FindByID(ctx, projectID, id)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("list is ordered by prefix then number", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Save(ctx, newStoredRequirement(t, projectID, "REQ", 2)))
		require.NoError(t, s.Save(ctx, newStoredRequirement(t, projectID, "AUTH", 5)))
		require.NoError(t, s.Save(ctx, newStoredRequirement(t, projectID, "REQ", 1)))

		listed, err := s.ListByProject(ctx, projectID)
		require.NoError(t, err)
		require.Len(t, listed, 3)
		assert.Equal(t, "AUTH-0005", listed[0].ID.FullIdentifier())
		assert.Equal(t, "REQ-0001", listed[1].ID.FullIdentifier())
		assert.Equal(t, "REQ-0002", listed[2].ID.FullIdentifier())
	})

	t.Run("list is scoped to the project", func(t *testing.T) {
		s := NewMemoryStore()
		other := domain.ProjectID(uuid.New())
		require.NoError(t, s.Save(ctx, newStoredRequirement(t, projectID, "REQ", 1)))
		require.NoError(t, s.Save(ctx, newStoredRequirement(t, other, "REQ", 1)))

		listed, err := s.ListByProject(ctx, other)
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})

	t.Run("max number tracks the highest used per prefix", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Save(ctx, newStoredRequirement(t, projectID, "REQ", 3)))
		require.NoError(t, s.Save(ctx, newStoredRequirement(t, projectID, "REQ", 7)))
		require.NoError(t, s.Save(ctx, newStoredRequirement(t, projectID, "AUTH", 9)))

		max, err := s.MaxNumber(ctx, projectID, "REQ")
		require.NoError(t, err)
		assert.Equal(t, 7, max)

		max, err = s.MaxNumber(ctx, projectID, "PERF")
		require.NoError(t, err)
		assert.Equal(t, 0, max)
	})

	t.Run("delete removes and reports missing", func(t *testing.T) {
		s := NewMemoryStore()
		req := newStoredRequirement(t, projectID, "REQ", 1)
		require.NoError(t, s.Save(ctx, req))

		require.NoError(t, s.Delete(ctx, projectID, req.ID))
		err := s.Delete(ctx, projectID, req.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("save replaces by identifier", func(t *testing.T) {
		s := NewMemoryStore()
		req := newStoredRequirement(t, projectID, "REQ", 1)
		require.NoError(t, s.Save(ctx, req))

		req.Description = "updated description"
		require.NoError(t, s.Save(ctx, req))

		listed, err := s.ListByProject(ctx, projectID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "updated description", listed[0].Description)
	})
}
