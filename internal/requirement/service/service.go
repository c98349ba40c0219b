// Package service orchestrates the requirement lifecycle: identifier
// minting, persistence, status transitions, and outbox events.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"reqforge/internal/events"
	"reqforge/internal/requirement/models"
	"reqforge/internal/requirement/store"
	"reqforge/pkg/domain"
	dErrors "reqforge/pkg/domain-errors"
	pstrings "reqforge/pkg/platform/strings"
	"reqforge/pkg/platform/tx"
)

// DefaultPrefix is used when a create request does not name one.
const DefaultPrefix = "REQ"

// Transactor runs a function in one transaction scope. With the postgres
// stores this is tx.Runner, so the requirement write and its outbox event
// commit or roll back together.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service coordinates requirement writes. Every state change is persisted
// together with an outbox event, in one transaction when the stores share a
// database.
type Service struct {
	store  store.Store
	outbox events.Store
	logger *slog.Logger
	tx     Transactor
	now    func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithTransactor wraps every state change and its outbox append in the
// given transaction scope.
func WithTransactor(t Transactor) Option {
	return func(s *Service) {
		s.tx = t
	}
}

// NewService constructs the requirement service.
func NewService(st store.Store, outbox events.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  st,
		outbox: outbox,
		logger: logger,
		tx:     tx.Passthrough{},
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput carries the attributes of a new requirement. All string enum
// fields are parsed case-insensitively.
type CreateInput struct {
	Prefix           string   `json:"prefix,omitempty"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Priority         string   `json:"priority,omitempty"`
	PriorityReason   string   `json:"priority_reason,omitempty"`
	Complexity       string   `json:"complexity,omitempty"`
	ComplexityNote   string   `json:"complexity_note,omitempty"`
	BusinessValue    int      `json:"business_value"`
	StoryPoints      float64  `json:"story_points"`
	EstimationMethod string   `json:"estimation_method,omitempty"`
	DomainEntity     string   `json:"domain_entity,omitempty"`
	DomainEntities   []string `json:"domain_entities,omitempty"`
	AggregateRoot    string   `json:"aggregate_root,omitempty"`
	BoundedContext   string   `json:"bounded_context,omitempty"`
	DependsOn        []string `json:"depends_on,omitempty"`
}

// Create mints the next identifier for the prefix, validates every value
// object, and stores the requirement as a draft. Minting, the write, and
// the outbox event run in one transaction scope.
func (s *Service) Create(ctx context.Context, projectID domain.ProjectID, input CreateInput) (*models.Requirement, error) {
	prefix := strings.ToUpper(strings.TrimSpace(input.Prefix))
	if prefix == "" {
		prefix = DefaultPrefix
	}

	now := s.now()
	var req *models.Requirement
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		maxNumber, err := s.store.MaxNumber(ctx, projectID, prefix)
		if err != nil {
			return err
		}
		id, err := domain.NewRequirementID(prefix, maxNumber+1, "")
		if err != nil {
			return err
		}

		req, err = models.NewRequirement(id, projectID, input.Title, now)
		if err != nil {
			return err
		}
		if err := applyAttributes(req, input); err != nil {
			return err
		}

		if err := s.store.Save(ctx, req); err != nil {
			return err
		}
		return s.appendEvent(ctx, events.TypeRequirementCreated, req, map[string]string{
			"title":  req.Title,
			"status": string(req.Status),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "requirement created",
		"project_id", projectID.String(),
		"requirement_id", req.ID.FullIdentifier(),
	)
	return req, nil
}

// Get returns one requirement.
func (s *Service) Get(ctx context.Context, projectID domain.ProjectID, id domain.RequirementID) (*models.Requirement, error) {
	return s.store.FindByID(ctx, projectID, id)
}

// List returns the project's requirements ordered by identifier.
func (s *Service) List(ctx context.Context, projectID domain.ProjectID) ([]*models.Requirement, error) {
	return s.store.ListByProject(ctx, projectID)
}

// Update replaces the mutable attributes of an existing requirement. The
// identifier, project, status, and creation time never change here.
func (s *Service) Update(ctx context.Context, projectID domain.ProjectID, id domain.RequirementID, input CreateInput) (*models.Requirement, error) {
	req, err := s.store.FindByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "requirement title cannot be empty")
	}
	if len(title) > 200 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "requirement title must be 200 characters or less")
	}
	req.Title = title
	if err := applyAttributes(req, input); err != nil {
		return nil, err
	}
	req.UpdatedAt = s.now()

	if err := s.store.Save(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Transition moves a requirement through its lifecycle and records the
// change as an outbox event.
func (s *Service) Transition(ctx context.Context, projectID domain.ProjectID, id domain.RequirementID, next models.Status) (*models.Requirement, error) {
	req, err := s.store.FindByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}

	from := req.Status
	if err := req.Transition(next, s.now()); err != nil {
		return nil, err
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Save(ctx, req); err != nil {
			return err
		}
		return s.appendEvent(ctx, events.TypeRequirementStatusChanged, req, map[string]string{
			"from": string(from),
			"to":   string(next),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "requirement status changed",
		"project_id", projectID.String(),
		"requirement_id", req.ID.FullIdentifier(),
		"from", string(from),
		"to", string(next),
	)
	return req, nil
}

// Delete removes a requirement.
func (s *Service) Delete(ctx context.Context, projectID domain.ProjectID, id domain.RequirementID) error {
	return s.store.Delete(ctx, projectID, id)
}

// applyAttributes parses and sets the optional value objects on req.
// Empty enum fields are left at their zero values.
func applyAttributes(req *models.Requirement, input CreateInput) error {
	if input.Priority != "" {
		level, err := domain.ParsePriorityLevel(input.Priority)
		if err != nil {
			return err
		}
		priority, err := domain.NewPriority(level, input.PriorityReason)
		if err != nil {
			return err
		}
		req.Priority = priority
	}
	if input.Complexity != "" {
		scale, err := domain.ParseComplexityScale(input.Complexity)
		if err != nil {
			return err
		}
		complexity, err := domain.NewComplexityLevel(scale, input.ComplexityNote)
		if err != nil {
			return err
		}
		req.Complexity = complexity
	}
	value, err := domain.NewBusinessValue(input.BusinessValue)
	if err != nil {
		return err
	}
	req.BusinessValue = value

	points, err := domain.NewStoryPoints(input.StoryPoints, input.EstimationMethod)
	if err != nil {
		return err
	}
	req.StoryPoints = points

	req.Description = input.Description
	req.DomainEntity = input.DomainEntity
	req.DomainEntities = pstrings.DedupeAndTrim(input.DomainEntities)
	req.AggregateRoot = input.AggregateRoot
	req.BoundedContext = input.BoundedContext
	req.DependsOn = pstrings.DedupeAndTrim(input.DependsOn)
	return nil
}

// appendEvent writes to the outbox inside the caller's transaction scope.
// An error rolls the whole state change back, so a committed change never
// loses its event.
func (s *Service) appendEvent(ctx context.Context, eventType string, req *models.Requirement, payload map[string]string) error {
	event, err := events.New(eventType, req.ProjectID.String(), req.ID.FullIdentifier(), payload, s.now())
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build outbox event")
	}
	if err := s.outbox.Append(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "append outbox event")
	}
	return nil
}
