// Package service implements the cross-requirement analysis services: the
// requirement analytics (complexity aggregation, dependency inference,
// priority scoring) and the project-level domain model mining.
//
// Both services are stateless and never mutate their inputs; they are safe
// to call concurrently.
package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	analysismetrics "reqforge/internal/analysis/metrics"
	"reqforge/internal/analysis/models"
	"reqforge/pkg/domain"
	dErrors "reqforge/pkg/domain-errors"
)

// RequirementAnalysisService computes project-level analytics over flat
// requirement summaries.
type RequirementAnalysisService struct {
	metrics *analysismetrics.Metrics
}

// RequirementOption configures the service.
type RequirementOption func(*RequirementAnalysisService)

// WithRequirementMetrics attaches a metrics collector.
func WithRequirementMetrics(m *analysismetrics.Metrics) RequirementOption {
	return func(s *RequirementAnalysisService) {
		s.metrics = m
	}
}

// NewRequirementAnalysisService constructs the service.
func NewRequirementAnalysisService(opts ...RequirementOption) *RequirementAnalysisService {
	s := &RequirementAnalysisService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Complexity band thresholds over the story-point-weighted mean, checked in
// descending order; each bound is inclusive.
const (
	veryComplexThreshold = 4.5
	complexThreshold     = 3.5
	moderateThreshold    = 2.5
	simpleThreshold      = 1.5
)

// CalculateProjectComplexity maps the story-point-weighted mean of the
// per-requirement complexity weights to a complexity band. An empty input or
// a zero story-point total yields trivial.
func (s *RequirementAnalysisService) CalculateProjectComplexity(requirements []models.Requirement) domain.ComplexityLevel {
	if len(requirements) == 0 {
		return domain.ComplexityLevel{Scale: domain.ComplexityTrivial, Explanation: "no requirements to assess"}
	}

	var weighted, totalPoints float64
	for _, r := range requirements {
		weighted += float64(r.Complexity) * r.StoryPoints
		totalPoints += r.StoryPoints
	}
	if totalPoints == 0 {
		return domain.ComplexityLevel{Scale: domain.ComplexityTrivial, Explanation: "no story points assigned"}
	}

	mean := weighted / totalPoints
	return domain.ComplexityLevel{
		Scale: scaleForMean(mean),
		Explanation: fmt.Sprintf("story-point-weighted mean complexity %.2f across %d requirements",
			mean, len(requirements)),
	}
}

func scaleForMean(mean float64) domain.ComplexityScale {
	switch {
	case mean >= veryComplexThreshold:
		return domain.ComplexityVeryComplex
	case mean >= complexThreshold:
		return domain.ComplexityComplex
	case mean >= moderateThreshold:
		return domain.ComplexityModerate
	case mean >= simpleThreshold:
		return domain.ComplexitySimple
	default:
		return domain.ComplexityTrivial
	}
}

// relatedContexts is the static relation table of bounded-context pairs that
// imply a dependency between requirements. Checked symmetrically.
var relatedContexts = [][2]string{
	{"User Management", "Authentication"},
	{"Order Processing", "Payment"},
	{"Inventory", "Product Catalog"},
	{"Reporting", "Analytics"},
}

// IdentifyDependencies infers a dependency edge between every ordered pair
// of distinct requirements whose domain entity sets intersect or whose
// bounded contexts are related per the static relation table. The result
// maps each requirement id to the ids it depends on; entity overlap is
// symmetric, so such edges appear in both directions.
//
// Precondition: requirement ids are unique. Errors: CodeValidation when a
// duplicate id is found, since self-comparison exclusion and edge bookkeeping
// are both keyed by id.
func (s *RequirementAnalysisService) IdentifyDependencies(requirements []models.Requirement) (map[string][]string, error) {
	if err := requireUniqueIDs(requirements); err != nil {
		return nil, err
	}

	deps := make(map[string][]string, len(requirements))
	for _, r := range requirements {
		deps[r.ID] = []string{}
		for _, other := range requirements {
			if other.ID == r.ID {
				continue
			}
			if sharesEntity(r.DomainEntities, other.DomainEntities) || contextsRelated(r.BoundedContext, other.BoundedContext) {
				deps[r.ID] = append(deps[r.ID], other.ID)
			}
		}
	}
	return deps, nil
}

func sharesEntity(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, e := range a {
		set[e] = struct{}{}
	}
	for _, e := range b {
		if _, ok := set[e]; ok {
			return true
		}
	}
	return false
}

func contextsRelated(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	for _, pair := range relatedContexts {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return true
		}
	}
	return false
}

// scoringWeights maps priority names to their score multiplier. Lookup is
// case-insensitive; unrecognized names weigh 1.0.
var scoringWeights = map[string]float64{
	"critical":     2.0,
	"high":         1.5,
	"medium":       1.0,
	"low":          0.7,
	"nice_to_have": 0.5,
}

// PrioritizeRequirements orders requirements by descending priority score,
// computed as business_value * weight(priority) / sqrt(story_points). The
// sort is stable: equal scores keep their input order. The input is never
// mutated; scores are carried on the returned copies.
//
// Story points below 1 (including the unset zero) are clamped to 1 before
// the square root, so an unestimated requirement is scored as a minimal
// effort rather than dividing by zero.
//
// Precondition: requirement ids are unique (CodeValidation otherwise).
func (s *RequirementAnalysisService) PrioritizeRequirements(requirements []models.Requirement) ([]models.ScoredRequirement, error) {
	if err := requireUniqueIDs(requirements); err != nil {
		return nil, err
	}

	scored := make([]models.ScoredRequirement, len(requirements))
	for i, r := range requirements {
		scored[i] = models.ScoredRequirement{
			Requirement:   r,
			PriorityScore: priorityScore(r),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PriorityScore > scored[j].PriorityScore
	})

	s.metrics.IncrementPrioritizations()
	return scored, nil
}

func priorityScore(r models.Requirement) float64 {
	weight, ok := scoringWeights[strings.ToLower(r.Priority)]
	if !ok {
		weight = 1.0
	}
	points := r.StoryPoints
	if points < 1 {
		points = 1
	}
	return float64(r.BusinessValue) * weight / math.Sqrt(points)
}

func requireUniqueIDs(requirements []models.Requirement) error {
	seen := make(map[string]struct{}, len(requirements))
	for _, r := range requirements {
		if _, dup := seen[r.ID]; dup {
			return dErrors.Newf(dErrors.CodeValidation, "duplicate requirement id: %s", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
