package store

import (
	"context"
	"sort"
	"sync"

	"reqforge/internal/requirement/models"
	"reqforge/pkg/domain"
	dErrors "reqforge/pkg/domain-errors"
)

// MemoryStore is the in-memory requirement store used in development and
// tests.
type MemoryStore struct {
	mu           sync.RWMutex
	requirements map[string]map[string]models.Requirement
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{requirements: make(map[string]map[string]models.Requirement)}
}

func (s *MemoryStore) Save(_ context.Context, req *models.Requirement) error {
	if req == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "requirement is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	project := req.ProjectID.String()
	if s.requirements[project] == nil {
		s.requirements[project] = make(map[string]models.Requirement)
	}
	s.requirements[project][req.ID.FullIdentifier()] = *req
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, projectID domain.ProjectID, id domain.RequirementID) (*models.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requirements[projectID.String()][id.FullIdentifier()]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "requirement %s not found", id.FullIdentifier())
	}
	copied := req
	return &copied, nil
}

func (s *MemoryStore) ListByProject(_ context.Context, projectID domain.ProjectID) ([]*models.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Requirement, 0, len(s.requirements[projectID.String()]))
	for _, req := range s.requirements[projectID.String()] {
		copied := req
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.Less(out[j].ID)
	})
	return out, nil
}

func (s *MemoryStore) MaxNumber(_ context.Context, projectID domain.ProjectID, prefix string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := 0
	for _, req := range s.requirements[projectID.String()] {
		if req.ID.Prefix == prefix && req.ID.Number > max {
			max = req.ID.Number
		}
	}
	return max, nil
}

func (s *MemoryStore) Delete(_ context.Context, projectID domain.ProjectID, id domain.RequirementID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	project := s.requirements[projectID.String()]
	key := id.FullIdentifier()
	if _, ok := project[key]; !ok {
		return dErrors.Newf(dErrors.CodeNotFound, "requirement %s not found", key)
	}
	delete(project, key)
	return nil
}
