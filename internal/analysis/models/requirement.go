// Package models defines the intermediate schema the analysis services
// operate on: a flat requirement summary with named optional fields, plus the
// structured results the services produce.
//
// Summaries are deliberately loose: any field other than ID may be absent
// (zero value), and each extraction skips requirements missing the fields it
// needs. Typed value objects are constructed by callers or synthesized by
// the services for display; they never flow through the analysis pipeline.
package models

// Requirement is the flat record the analysis services consume. Callers map
// API payloads or stored requirements into this shape.
type Requirement struct {
	ID             string   `json:"id"`
	Title          string   `json:"title,omitempty"`
	Description    string   `json:"description,omitempty"`
	Complexity     int      `json:"complexity,omitempty"` // 1-5 scale weight
	StoryPoints    float64  `json:"story_points,omitempty"`
	BusinessValue  int      `json:"business_value,omitempty"`  // 0-100
	Priority       string   `json:"priority,omitempty"`        // free-form level name
	DomainEntities []string `json:"domain_entities,omitempty"` // all entities the requirement touches
	DomainEntity   string   `json:"domain_entity,omitempty"`   // primary entity, if designated
	AggregateRoot  string   `json:"aggregate_root,omitempty"`
	BoundedContext string   `json:"bounded_context,omitempty"`
	DependsOn      []string `json:"depends_on,omitempty"` // requirement ids
}

// ScoredRequirement pairs a requirement with its computed priority score.
// Prioritization returns these instead of mutating its input.
type ScoredRequirement struct {
	Requirement
	PriorityScore float64 `json:"priority_score"`
}

// ContextSummary describes one bounded context mined from the requirements.
type ContextSummary struct {
	Name         string   `json:"name"`
	Requirements []string `json:"requirements"`
	Entities     []string `json:"entities,omitempty"`
	Aggregates   []string `json:"aggregates,omitempty"`
}

// EntitySummary describes one domain entity mined from the requirements,
// with the attribute-ish terms found in their descriptions.
type EntitySummary struct {
	Name         string   `json:"name"`
	Requirements []string `json:"requirements"`
	Attributes   []string `json:"attributes,omitempty"`
}

// AggregateSummary describes one aggregate mined from the requirements. The
// root entity is taken from the first requirement seen for the aggregate.
type AggregateSummary struct {
	Name         string   `json:"name"`
	RootEntity   string   `json:"root_entity,omitempty"`
	Requirements []string `json:"requirements"`
}

// DomainModel is the full mined model: contexts, entities, aggregates, the
// cross-context dependency map, and the shared vocabulary.
//
// BoundedContexts, DomainEntities, and AggregateRoots are ordered by the
// first occurrence of each name in the input; UbiquitousLanguage is sorted
// alphabetically.
type DomainModel struct {
	BoundedContexts    []ContextSummary    `json:"bounded_contexts"`
	DomainEntities     []EntitySummary     `json:"domain_entities"`
	AggregateRoots     []AggregateSummary  `json:"aggregate_roots"`
	ContextMap         map[string][]string `json:"context_map"`
	UbiquitousLanguage []string            `json:"ubiquitous_language"`
}
