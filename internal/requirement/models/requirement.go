// Package models holds the stored requirement aggregate and its lifecycle.
package models

import (
	"strings"
	"time"

	analysismodels "reqforge/internal/analysis/models"
	"reqforge/pkg/domain"
	dErrors "reqforge/pkg/domain-errors"
)

// Status enumerates the requirement lifecycle states.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusApproved    Status = "approved"
	StatusImplemented Status = "implemented"
	StatusRejected    Status = "rejected"
)

// validTransitions is the single source of truth for the lifecycle:
// draft -> approved | rejected, approved -> implemented | rejected.
// implemented and rejected are terminal.
var validTransitions = map[Status][]Status{
	StatusDraft:    {StatusApproved, StatusRejected},
	StatusApproved: {StatusImplemented, StatusRejected},
}

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusImplemented, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseStatus constructs a Status from external input.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty")
	}
	st := Status(strings.ToLower(s))
	if !st.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown status: %s", s)
	}
	return st, nil
}

// Requirement is the stored requirement aggregate.
//
// Invariants:
//   - Title is non-empty and at most 200 characters
//   - Status transitions follow validTransitions
//   - The value object fields carry their own construction invariants
type Requirement struct {
	ID             domain.RequirementID   `json:"id"`
	ProjectID      domain.ProjectID       `json:"project_id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	Priority       domain.Priority        `json:"priority"`
	Complexity     domain.ComplexityLevel `json:"complexity"`
	BusinessValue  domain.BusinessValue   `json:"business_value"`
	StoryPoints    domain.StoryPoints     `json:"story_points"`
	DomainEntity   string                 `json:"domain_entity,omitempty"`
	DomainEntities []string               `json:"domain_entities,omitempty"`
	AggregateRoot  string                 `json:"aggregate_root,omitempty"`
	BoundedContext string                 `json:"bounded_context,omitempty"`
	DependsOn      []string               `json:"depends_on,omitempty"`
	Status         Status                 `json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// NewRequirement constructs a draft requirement. The value object arguments
// are assumed already validated by their own constructors.
func NewRequirement(id domain.RequirementID, projectID domain.ProjectID, title string, now time.Time) (*Requirement, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "requirement title cannot be empty")
	}
	if len(title) > 200 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "requirement title must be 200 characters or less")
	}
	if projectID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "requirement project id is required")
	}
	return &Requirement{
		ID:        id,
		ProjectID: projectID,
		Title:     title,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanTransitionTo checks whether the requirement may move to next. Returns
// an error naming the states when the transition is not allowed.
func (r *Requirement) CanTransitionTo(next Status) error {
	if !r.Status.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"requirement cannot move from %s to %s", r.Status, next)
	}
	return nil
}

// ApplyTransition moves the requirement to next and stamps the update time.
// Call CanTransitionTo first.
func (r *Requirement) ApplyTransition(next Status, now time.Time) {
	r.Status = next
	r.UpdatedAt = now
}

// Transition validates and applies a lifecycle move in one call.
func (r *Requirement) Transition(next Status, now time.Time) error {
	if err := r.CanTransitionTo(next); err != nil {
		return err
	}
	r.ApplyTransition(next, now)
	return nil
}

// ToAnalysisRequirement maps the stored aggregate into the flat summary the
// analysis services consume. This is the seam between the typed persistence
// shape and the loose analysis schema.
func (r *Requirement) ToAnalysisRequirement() analysismodels.Requirement {
	return analysismodels.Requirement{
		ID:             r.ID.FullIdentifier(),
		Title:          r.Title,
		Description:    r.Description,
		Complexity:     r.Complexity.Scale.Weight(),
		StoryPoints:    r.StoryPoints.Points,
		BusinessValue:  r.BusinessValue.Score,
		Priority:       r.Priority.Level.String(),
		DomainEntities: r.DomainEntities,
		DomainEntity:   r.DomainEntity,
		AggregateRoot:  r.AggregateRoot,
		BoundedContext: r.BoundedContext,
		DependsOn:      r.DependsOn,
	}
}
