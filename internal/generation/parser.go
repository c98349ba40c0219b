package generation

import (
	"encoding/json"
	"strings"

	"reqforge/pkg/domain"
	dErrors "reqforge/pkg/domain-errors"
)

// Draft is a model-proposed requirement with the enum fields already folded
// into typed value objects. Callers feed drafts into the requirement service.
type Draft struct {
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Priority       domain.PriorityLevel   `json:"priority"`
	Complexity     domain.ComplexityScale `json:"complexity"`
	BusinessValue  int                    `json:"business_value"`
	StoryPoints    float64                `json:"story_points"`
	DomainEntity   string                 `json:"domain_entity,omitempty"`
	DomainEntities []string               `json:"domain_entities,omitempty"`
	BoundedContext string                 `json:"bounded_context,omitempty"`
}

// draftPayload is the raw JSON shape expected from the model. Enum fields
// arrive as free text.
type draftPayload struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Priority       string   `json:"priority"`
	Complexity     string   `json:"complexity"`
	BusinessValue  *int     `json:"business_value"`
	StoryPoints    *float64 `json:"story_points"`
	DomainEntity   string   `json:"domain_entity"`
	DomainEntities []string `json:"domain_entities"`
	BoundedContext string   `json:"bounded_context"`
}

// ParseDraft folds a completion into a Draft. Markdown code fences around
// the JSON are tolerated. Unrecognized priority and complexity text falls
// back to medium and moderate; a missing title is an error.
func ParseDraft(completion string) (Draft, error) {
	text := stripFences(completion)

	var payload draftPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return Draft{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "completion is not a JSON requirement draft")
	}
	if strings.TrimSpace(payload.Title) == "" {
		return Draft{}, dErrors.New(dErrors.CodeInvalidInput, "requirement draft has no title")
	}

	draft := Draft{
		Title:          strings.TrimSpace(payload.Title),
		Description:    strings.TrimSpace(payload.Description),
		Priority:       PriorityFromText(payload.Priority),
		Complexity:     ComplexityFromText(payload.Complexity),
		DomainEntity:   payload.DomainEntity,
		DomainEntities: payload.DomainEntities,
		BoundedContext: payload.BoundedContext,
	}
	if payload.BusinessValue != nil {
		draft.BusinessValue = *payload.BusinessValue
	}
	if payload.StoryPoints != nil {
		draft.StoryPoints = *payload.StoryPoints
	}
	return draft, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 && !strings.HasPrefix(s, "{") {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
