package service

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	analysismetrics "reqforge/internal/analysis/metrics"
	"reqforge/internal/analysis/models"
)

// ProjectAnalysisService mines a domain model — bounded contexts, entities,
// aggregates, a context map, and a shared vocabulary — from a project's flat
// requirement summaries.
type ProjectAnalysisService struct {
	metrics *analysismetrics.Metrics
	tracer  trace.Tracer
}

// ProjectOption configures the service.
type ProjectOption func(*ProjectAnalysisService)

// WithProjectMetrics attaches a metrics collector.
func WithProjectMetrics(m *analysismetrics.Metrics) ProjectOption {
	return func(s *ProjectAnalysisService) {
		s.metrics = m
	}
}

// NewProjectAnalysisService constructs the service.
func NewProjectAnalysisService(opts ...ProjectOption) *ProjectAnalysisService {
	s := &ProjectAnalysisService{
		tracer: otel.Tracer("reqforge/analysis"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// attributeVocabulary is the fixed set of attribute-ish words matched
// against requirement descriptions during entity extraction.
var attributeVocabulary = map[string]struct{}{
	"name": {}, "title": {}, "description": {}, "status": {}, "type": {},
	"date": {}, "time": {}, "amount": {}, "quantity": {}, "price": {},
	"value": {}, "id": {}, "identifier": {}, "code": {}, "reference": {},
	"number": {},
}

// businessVocabulary is the fixed set of business terms mined into the
// ubiquitous language.
var businessVocabulary = map[string]struct{}{
	"user": {}, "customer": {}, "order": {}, "product": {}, "account": {},
	"payment": {}, "invoice": {}, "subscription": {}, "profile": {},
	"preferences": {}, "settings": {}, "notification": {}, "report": {},
	"dashboard": {}, "analytics": {}, "metric": {},
}

// tokenPunctuation is stripped from both ends of each token before
// vocabulary matching.
const tokenPunctuation = ".,;:!?()[]{}\"'"

// AnalyzeDomainModel runs the four sub-extractions and assembles the mined
// model. The extractions are independent pure functions of the input, so
// they run in parallel. The input is never mutated.
func (s *ProjectAnalysisService) AnalyzeDomainModel(ctx context.Context, requirements []models.Requirement) (models.DomainModel, error) {
	ctx, span := s.tracer.Start(ctx, "AnalyzeDomainModel",
		trace.WithAttributes(attribute.Int("requirements.count", len(requirements))))
	defer span.End()

	start := time.Now()
	var model models.DomainModel

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		model.BoundedContexts = extractBoundedContexts(requirements)
		return nil
	})
	g.Go(func() error {
		model.DomainEntities = extractEntities(requirements)
		return nil
	})
	g.Go(func() error {
		model.AggregateRoots = extractAggregates(requirements)
		return nil
	})
	g.Go(func() error {
		model.ContextMap = buildContextMap(requirements)
		model.UbiquitousLanguage = extractUbiquitousLanguage(requirements)
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.DomainModel{}, err
	}

	s.metrics.ObserveAnalysis(start, len(requirements))
	return model, nil
}

// extractBoundedContexts groups requirements by bounded context, collecting
// requirement ids and referenced entity and aggregate names. Requirements
// without a bounded context are skipped. Output order follows the first
// occurrence of each context name.
func extractBoundedContexts(requirements []models.Requirement) []models.ContextSummary {
	index := make(map[string]int)
	var out []models.ContextSummary

	for _, r := range requirements {
		if r.BoundedContext == "" {
			continue
		}
		i, ok := index[r.BoundedContext]
		if !ok {
			i = len(out)
			index[r.BoundedContext] = i
			out = append(out, models.ContextSummary{Name: r.BoundedContext, Requirements: []string{}})
		}
		out[i].Requirements = append(out[i].Requirements, r.ID)
		if r.DomainEntity != "" && !slices.Contains(out[i].Entities, r.DomainEntity) {
			out[i].Entities = append(out[i].Entities, r.DomainEntity)
		}
		if r.AggregateRoot != "" && !slices.Contains(out[i].Aggregates, r.AggregateRoot) {
			out[i].Aggregates = append(out[i].Aggregates, r.AggregateRoot)
		}
	}
	return out
}

// extractEntities groups requirements by their primary domain entity and
// mines attribute-ish words from the description of each. Requirements
// without a primary entity are skipped.
func extractEntities(requirements []models.Requirement) []models.EntitySummary {
	index := make(map[string]int)
	var out []models.EntitySummary

	for _, r := range requirements {
		if r.DomainEntity == "" {
			continue
		}
		i, ok := index[r.DomainEntity]
		if !ok {
			i = len(out)
			index[r.DomainEntity] = i
			out = append(out, models.EntitySummary{Name: r.DomainEntity, Requirements: []string{}})
		}
		out[i].Requirements = append(out[i].Requirements, r.ID)
		for _, token := range strings.Fields(strings.ToLower(r.Description)) {
			token = strings.Trim(token, tokenPunctuation)
			if _, isAttr := attributeVocabulary[token]; !isAttr {
				continue
			}
			if !slices.Contains(out[i].Attributes, token) {
				out[i].Attributes = append(out[i].Attributes, token)
			}
		}
	}
	return out
}

// extractAggregates groups requirements by aggregate root. The aggregate's
// root entity is sampled from the first requirement seen for that aggregate;
// later requirements naming a different entity are collected but do not
// overwrite it. Preserved source behavior: the first sample is not
// re-validated against the rest of the group.
func extractAggregates(requirements []models.Requirement) []models.AggregateSummary {
	index := make(map[string]int)
	var out []models.AggregateSummary

	for _, r := range requirements {
		if r.AggregateRoot == "" {
			continue
		}
		i, ok := index[r.AggregateRoot]
		if !ok {
			i = len(out)
			index[r.AggregateRoot] = i
			out = append(out, models.AggregateSummary{
				Name:         r.AggregateRoot,
				RootEntity:   r.DomainEntity,
				Requirements: []string{},
			})
		}
		out[i].Requirements = append(out[i].Requirements, r.ID)
	}
	return out
}

// buildContextMap records a deduplicated edge from each bounded context to
// every other context its requirements depend on, by resolving each
// depends_on id to its owning requirement. Quadratic in the requirement
// count, which is fine at single-project scale.
func buildContextMap(requirements []models.Requirement) map[string][]string {
	owner := make(map[string]string, len(requirements))
	for _, r := range requirements {
		if r.BoundedContext != "" {
			owner[r.ID] = r.BoundedContext
		}
	}

	out := make(map[string][]string)
	for _, r := range requirements {
		if r.BoundedContext == "" {
			continue
		}
		if _, ok := out[r.BoundedContext]; !ok {
			out[r.BoundedContext] = []string{}
		}
		for _, depID := range r.DependsOn {
			depCtx, ok := owner[depID]
			if !ok || depCtx == r.BoundedContext {
				continue
			}
			if !slices.Contains(out[r.BoundedContext], depCtx) {
				out[r.BoundedContext] = append(out[r.BoundedContext], depCtx)
			}
		}
	}
	return out
}

// extractUbiquitousLanguage tokenizes each requirement's title and
// description, strips punctuation, and keeps tokens longer than two
// characters that match the business vocabulary. The union across all
// requirements is deduplicated and sorted.
func extractUbiquitousLanguage(requirements []models.Requirement) []string {
	found := make(map[string]struct{})
	for _, r := range requirements {
		text := strings.ToLower(r.Title + " " + r.Description)
		for _, token := range strings.Fields(text) {
			token = strings.Trim(token, tokenPunctuation)
			if len(token) <= 2 {
				continue
			}
			if _, ok := businessVocabulary[token]; ok {
				found[token] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(found))
	for term := range found {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}
