// Package events defines the domain events reqforge emits and the outbox
// machinery that delivers them to Kafka.
//
// Writes go to the outbox store in the same transaction as the state change,
// so a committed change never loses its event; a background worker drains
// the outbox and publishes to Kafka, so broker delivery never blocks a
// user-facing request.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeRequirementCreated       = "requirement.created"
	TypeRequirementStatusChanged = "requirement.status_changed"
	TypeProjectAnalyzed          = "project.analyzed"
)

// Event is one domain event awaiting (or having completed) publication.
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	ProjectID     string          `json:"project_id"`
	RequirementID string          `json:"requirement_id,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// New constructs an event with a fresh id and the given occurrence time.
func New(eventType, projectID, requirementID string, payload any, now time.Time) (Event, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
		raw = b
	}
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		ProjectID:     projectID,
		RequirementID: requirementID,
		Payload:       raw,
		OccurredAt:    now,
	}, nil
}
