// Package handler exposes the analysis services over HTTP: stateless
// endpoints that analyze a posted requirement set, and a project endpoint
// that analyzes a project's stored requirements.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"reqforge/internal/analysis/cache"
	analysismodels "reqforge/internal/analysis/models"
	"reqforge/internal/events"
	"reqforge/internal/platform/middleware"
	requirementmodels "reqforge/internal/requirement/models"
	"reqforge/internal/transport/http/shared"
	"reqforge/pkg/domain"
	dErrors "reqforge/pkg/domain-errors"
)

// RequirementAnalyzer covers the per-requirement analytics.
type RequirementAnalyzer interface {
	CalculateProjectComplexity(requirements []analysismodels.Requirement) domain.ComplexityLevel
	IdentifyDependencies(requirements []analysismodels.Requirement) (map[string][]string, error)
	PrioritizeRequirements(requirements []analysismodels.Requirement) ([]analysismodels.ScoredRequirement, error)
}

// ProjectAnalyzer mines the domain model.
type ProjectAnalyzer interface {
	AnalyzeDomainModel(ctx context.Context, requirements []analysismodels.Requirement) (analysismodels.DomainModel, error)
}

// RequirementSource provides a project's stored requirements.
type RequirementSource interface {
	List(ctx context.Context, projectID domain.ProjectID) ([]*requirementmodels.Requirement, error)
}

// Handler handles the analysis endpoints.
type Handler struct {
	logger       *slog.Logger
	analytics    RequirementAnalyzer
	miner        ProjectAnalyzer
	source       RequirementSource
	cache        cache.ModelCache
	outbox       events.Store
	jwtValidator middleware.JWTValidator
}

// New creates an analysis Handler.
func New(
	analytics RequirementAnalyzer,
	miner ProjectAnalyzer,
	source RequirementSource,
	modelCache cache.ModelCache,
	outbox events.Store,
	logger *slog.Logger,
	jwtValidator middleware.JWTValidator,
) *Handler {
	return &Handler{
		logger:       logger,
		analytics:    analytics,
		miner:        miner,
		source:       source,
		cache:        modelCache,
		outbox:       outbox,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the analysis routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/analysis", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/complexity", h.handleComplexity)
		r.Post("/dependencies", h.handleDependencies)
		r.Post("/prioritize", h.handlePrioritize)
		r.Post("/domain-model", h.handleDomainModel)
	})
	r.Route("/projects/{projectID}/analysis", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/", h.handleProjectAnalysis)
	})
}

type analyzeRequest struct {
	Requirements []analysismodels.Requirement `json:"requirements"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) ([]analysismodels.Requirement, bool) {
	var body analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	return body.Requirements, true
}

func (h *Handler) handleComplexity(w http.ResponseWriter, r *http.Request) {
	reqs, ok := h.decode(w, r)
	if !ok {
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"complexity": h.analytics.CalculateProjectComplexity(reqs),
	})
}

func (h *Handler) handleDependencies(w http.ResponseWriter, r *http.Request) {
	reqs, ok := h.decode(w, r)
	if !ok {
		return
	}
	deps, err := h.analytics.IdentifyDependencies(reqs)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"dependencies": deps})
}

func (h *Handler) handlePrioritize(w http.ResponseWriter, r *http.Request) {
	reqs, ok := h.decode(w, r)
	if !ok {
		return
	}
	scored, err := h.analytics.PrioritizeRequirements(reqs)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"requirements": scored})
}

func (h *Handler) handleDomainModel(w http.ResponseWriter, r *http.Request) {
	reqs, ok := h.decode(w, r)
	if !ok {
		return
	}
	model, err := h.miner.AnalyzeDomainModel(r.Context(), reqs)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, model)
}

// projectAnalysisResponse is the full report for a stored project.
type projectAnalysisResponse struct {
	ProjectID    string                             `json:"project_id"`
	Complexity   domain.ComplexityLevel             `json:"complexity"`
	Dependencies map[string][]string                `json:"dependencies"`
	Prioritized  []analysismodels.ScoredRequirement `json:"prioritized"`
	DomainModel  analysismodels.DomainModel         `json:"domain_model"`
	AnalyzedAt   time.Time                          `json:"analyzed_at"`
}

func (h *Handler) handleProjectAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, err := domain.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	stored, err := h.source.List(ctx, projectID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	reqs := make([]analysismodels.Requirement, len(stored))
	for i, s := range stored {
		reqs[i] = s.ToAnalysisRequirement()
	}

	deps, err := h.analytics.IdentifyDependencies(reqs)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	scored, err := h.analytics.PrioritizeRequirements(reqs)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	model, err := h.minedModel(ctx, projectID, reqs)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	response := projectAnalysisResponse{
		ProjectID:    projectID.String(),
		Complexity:   h.analytics.CalculateProjectComplexity(reqs),
		Dependencies: deps,
		Prioritized:  scored,
		DomainModel:  model,
		AnalyzedAt:   time.Now().UTC(),
	}

	h.recordAnalyzed(ctx, projectID, len(reqs))
	shared.WriteJSON(w, http.StatusOK, response)
}

// minedModel serves the domain model from cache when the requirement set is
// unchanged, mining and filling the cache otherwise.
func (h *Handler) minedModel(ctx context.Context, projectID domain.ProjectID, reqs []analysismodels.Requirement) (analysismodels.DomainModel, error) {
	key := cache.Key(projectID.String(), reqs)
	if cached, err := h.cache.Get(ctx, key); err != nil {
		h.logger.WarnContext(ctx, "model cache read failed", "error", err.Error())
	} else if cached != nil {
		return *cached, nil
	}

	model, err := h.miner.AnalyzeDomainModel(ctx, reqs)
	if err != nil {
		return analysismodels.DomainModel{}, err
	}
	if err := h.cache.Set(ctx, key, &model); err != nil {
		h.logger.WarnContext(ctx, "model cache write failed", "error", err.Error())
	}
	return model, nil
}

func (h *Handler) recordAnalyzed(ctx context.Context, projectID domain.ProjectID, requirementCount int) {
	event, err := events.New(events.TypeProjectAnalyzed, projectID.String(), "",
		map[string]int{"requirement_count": requirementCount}, time.Now().UTC())
	if err != nil {
		h.logger.ErrorContext(ctx, "build analyzed event", "error", err.Error())
		return
	}
	if err := h.outbox.Append(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "append analyzed event", "error", err.Error())
	}
}
