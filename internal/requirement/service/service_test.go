package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqforge/internal/events"
	"reqforge/internal/requirement/models"
	"reqforge/internal/requirement/store"
	"reqforge/pkg/domain"
	dErrors "reqforge/pkg/domain-errors"
)

func newTestService(t *testing.T) (*Service, *events.MemoryStore) {
	t.Helper()
	outbox := events.NewMemoryStore()
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewService(store.NewMemoryStore(), outbox, slog.New(slog.DiscardHandler),
		WithClock(func() time.Time { return fixed }))
	return svc, outbox
}

type failingOutbox struct{}

func (failingOutbox) Append(context.Context, events.Event) error {
	return errors.New("outbox unavailable")
}

func (failingOutbox) FetchUnpublished(context.Context, int) ([]events.Event, error) {
	return nil, nil
}

func (failingOutbox) MarkPublished(context.Context, []string) error { return nil }

func outboxEvents(t *testing.T, outbox *events.MemoryStore) []events.Event {
	t.Helper()
	batch, err := outbox.FetchUnpublished(context.Background(), 100)
	require.NoError(t, err)
	return batch
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	projectID := domain.ProjectID(uuid.New())

	t.Run("mints sequential identifiers per prefix", func(t *testing.T) {
		svc, _ := newTestService(t)

		first, err := svc.Create(ctx, projectID, CreateInput{Title: "Sign in"})
		require.NoError(t, err)
		assert.Equal(t, "REQ-0001", first.ID.FullIdentifier())
		assert.Equal(t, models.StatusDraft, first.Status)

		second, err := svc.Create(ctx, projectID, CreateInput{Title: "Sign out"})
		require.NoError(t, err)
		assert.Equal(t, "REQ-0002", second.ID.FullIdentifier())

		auth, err := svc.Create(ctx, projectID, CreateInput{Title: "MFA", Prefix: "auth"})
		require.NoError(t, err)
		assert.Equal(t, "AUTH-0001", auth.ID.FullIdentifier())
	})

	t.Run("parses value objects case-insensitively", func(t *testing.T) {
		svc, _ := newTestService(t)

		req, err := svc.Create(ctx, projectID, CreateInput{
			Title:          "Checkout",
			Priority:       "HIGH",
			PriorityReason: "revenue path",
			Complexity:     "Complex",
			BusinessValue:  80,
			StoryPoints:    8,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, req.Priority.Level)
		assert.Equal(t, domain.ComplexityComplex, req.Complexity.Scale)
		assert.True(t, req.BusinessValue.IsHigh())
	})

	t.Run("rejects invalid enum values", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, projectID, CreateInput{Title: "Checkout", Priority: "urgent"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects business value out of range", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, projectID, CreateInput{Title: "Checkout", BusinessValue: 101})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects a prefix containing a separator", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, projectID, CreateInput{Title: "Checkout", Prefix: "a-b"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("surfaces an outbox append failure", func(t *testing.T) {
		fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		svc := NewService(store.NewMemoryStore(), failingOutbox{}, slog.New(slog.DiscardHandler),
			WithClock(func() time.Time { return fixed }))

		_, err := svc.Create(ctx, projectID, CreateInput{Title: "Checkout"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("appends a created event to the outbox", func(t *testing.T) {
		svc, outbox := newTestService(t)

		req, err := svc.Create(ctx, projectID, CreateInput{Title: "Checkout"})
		require.NoError(t, err)

		batch := outboxEvents(t, outbox)
		require.Len(t, batch, 1)
		assert.Equal(t, events.TypeRequirementCreated, batch[0].Type)
		assert.Equal(t, projectID.String(), batch[0].ProjectID)
		assert.Equal(t, req.ID.FullIdentifier(), batch[0].RequirementID)
	})
}

func TestService_Transition(t *testing.T) {
	ctx := context.Background()
	projectID := domain.ProjectID(uuid.New())

	t.Run("draft to approved persists and emits an event", func(t *testing.T) {
		svc, outbox := newTestService(t)
		req, err := svc.Create(ctx, projectID, CreateInput{Title: "Checkout"})
		require.NoError(t, err)

		moved, err := svc.Transition(ctx, projectID, req.ID, models.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, moved.Status)

		stored, err := svc.Get(ctx, projectID, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, stored.Status)

		batch := outboxEvents(t, outbox)
		require.Len(t, batch, 2)
		assert.Equal(t, events.TypeRequirementStatusChanged, batch[1].Type)
	})

	t.Run("illegal transition leaves state untouched", func(t *testing.T) {
		svc, outbox := newTestService(t)
		req, err := svc.Create(ctx, projectID, CreateInput{Title: "Checkout"})
		require.NoError(t, err)

		_, err = svc.Transition(ctx, projectID, req.ID, models.StatusImplemented)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		stored, err := svc.Get(ctx, projectID, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDraft, stored.Status)
		assert.Len(t, outboxEvents(t, outbox), 1)
	})

	t.Run("missing requirement returns not found", func(t *testing.T) {
		svc, _ := newTestService(t)
		id, err := domain.NewRequirementID("REQ", 9, "")
		require.NoError(t, err)

		_, err = svc.Transition(ctx, projectID, id, models.StatusApproved)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	projectID := domain.ProjectID(uuid.New())

	t.Run("replaces mutable attributes and stamps update time", func(t *testing.T) {
		svc, _ := newTestService(t)
		req, err := svc.Create(ctx, projectID, CreateInput{Title: "Checkout"})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, projectID, req.ID, CreateInput{
			Title:       "Checkout v2",
			Description: "with saved cards",
			Priority:    "critical",
		})
		require.NoError(t, err)
		assert.Equal(t, "Checkout v2", updated.Title)
		assert.Equal(t, "with saved cards", updated.Description)
		assert.Equal(t, domain.PriorityCritical, updated.Priority.Level)
		assert.Equal(t, req.ID, updated.ID)
		assert.Equal(t, req.CreatedAt, updated.CreatedAt)
	})

	t.Run("rejects blank title", func(t *testing.T) {
		svc, _ := newTestService(t)
		req, err := svc.Create(ctx, projectID, CreateInput{Title: "Checkout"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, projectID, req.ID, CreateInput{Title: "   "})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	projectID := domain.ProjectID(uuid.New())
	svc, _ := newTestService(t)

	req, err := svc.Create(ctx, projectID, CreateInput{Title: "Checkout"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, projectID, req.ID))

	_, err = svc.Get(ctx, projectID, req.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
