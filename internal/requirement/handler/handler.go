// Package handler exposes requirement CRUD and lifecycle endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reqforge/internal/generation"
	"reqforge/internal/platform/middleware"
	"reqforge/internal/requirement/models"
	"reqforge/internal/requirement/service"
	"reqforge/internal/transport/http/shared"
	"reqforge/pkg/domain"
	dErrors "reqforge/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/requirement-mocks.go -package=mocks Service

// Service defines the requirement operations the handler depends on.
type Service interface {
	Create(ctx context.Context, projectID domain.ProjectID, input service.CreateInput) (*models.Requirement, error)
	Get(ctx context.Context, projectID domain.ProjectID, id domain.RequirementID) (*models.Requirement, error)
	List(ctx context.Context, projectID domain.ProjectID) ([]*models.Requirement, error)
	Update(ctx context.Context, projectID domain.ProjectID, id domain.RequirementID, input service.CreateInput) (*models.Requirement, error)
	Transition(ctx context.Context, projectID domain.ProjectID, id domain.RequirementID, next models.Status) (*models.Requirement, error)
	Delete(ctx context.Context, projectID domain.ProjectID, id domain.RequirementID) error
}

// Drafter turns a free-text description into a requirement draft.
type Drafter interface {
	DraftRequirement(ctx context.Context, description string) (generation.Draft, error)
}

// Handler handles requirement endpoints.
type Handler struct {
	logger       *slog.Logger
	requirements Service
	drafter      Drafter
	jwtValidator middleware.JWTValidator
}

// Option configures the handler.
type Option func(*Handler)

// WithDrafter enables the AI drafting endpoint.
func WithDrafter(d Drafter) Option {
	return func(h *Handler) {
		h.drafter = d
	}
}

// New creates a requirement Handler.
func New(requirements Service, logger *slog.Logger, jwtValidator middleware.JWTValidator, opts ...Option) *Handler {
	h := &Handler{
		logger:       logger,
		requirements: requirements,
		jwtValidator: jwtValidator,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the requirement routes. The router passed in already
// carries the platform middleware stack.
func (h *Handler) Register(r chi.Router) {
	r.Route("/projects/{projectID}/requirements", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		if h.drafter != nil {
			r.Post("/draft", h.handleDraft)
		}
		r.Get("/{requirementID}", h.handleGet)
		r.Put("/{requirementID}", h.handleUpdate)
		r.Post("/{requirementID}/status", h.handleTransition)
		r.Delete("/{requirementID}", h.handleDelete)
	})
}

// pathIDs parses the project and requirement identifiers from the URL.
// A nil error from the requirement part means the route had none.
func pathIDs(r *http.Request) (domain.ProjectID, domain.RequirementID, error) {
	projectID, err := domain.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		return domain.ProjectID{}, domain.RequirementID{}, err
	}
	raw := chi.URLParam(r, "requirementID")
	if raw == "" {
		return projectID, domain.RequirementID{}, nil
	}
	id, err := domain.ParseRequirementID(raw)
	if err != nil {
		return domain.ProjectID{}, domain.RequirementID{}, err
	}
	return projectID, id, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, _, err := pathIDs(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var input service.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	req, err := h.requirements.Create(ctx, projectID, input)
	if err != nil {
		h.logger.WarnContext(ctx, "create requirement failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	projectID, _, err := pathIDs(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	reqs, err := h.requirements.List(r.Context(), projectID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"requirements": reqs})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	projectID, id, err := pathIDs(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	req, err := h.requirements.Get(r.Context(), projectID, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, id, err := pathIDs(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var input service.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	req, err := h.requirements.Update(ctx, projectID, id, input)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, req)
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, id, err := pathIDs(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var body transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	next, err := models.ParseStatus(body.Status)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	req, err := h.requirements.Transition(ctx, projectID, id, next)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, req)
}

type draftRequest struct {
	Description string `json:"description"`
	Prefix      string `json:"prefix,omitempty"`
}

// handleDraft asks the generation layer for a draft and stores it as a new
// requirement.
func (h *Handler) handleDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID, _, err := pathIDs(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var body draftRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if body.Description == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "description is required"))
		return
	}

	draft, err := h.drafter.DraftRequirement(ctx, body.Description)
	if err != nil {
		h.logger.WarnContext(ctx, "requirement drafting failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	req, err := h.requirements.Create(ctx, projectID, service.CreateInput{
		Prefix:         body.Prefix,
		Title:          draft.Title,
		Description:    draft.Description,
		Priority:       string(draft.Priority),
		Complexity:     string(draft.Complexity),
		BusinessValue:  draft.BusinessValue,
		StoryPoints:    draft.StoryPoints,
		DomainEntity:   draft.DomainEntity,
		DomainEntities: draft.DomainEntities,
		BoundedContext: draft.BoundedContext,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	projectID, id, err := pathIDs(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.requirements.Delete(r.Context(), projectID, id); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
