package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reqforge/internal/analysis/models"
)

func TestKey(t *testing.T) {
	reqs := []models.Requirement{{ID: "REQ-0001"}, {ID: "REQ-0002"}}
	reversed := []models.Requirement{{ID: "REQ-0002"}, {ID: "REQ-0001"}}

	t.Run("is stable across requirement order", func(t *testing.T) {
		assert.Equal(t, Key("p1", reqs), Key("p1", reversed))
	})

	t.Run("changes with the requirement set", func(t *testing.T) {
		grown := append([]models.Requirement{{ID: "REQ-0003"}}, reqs...)
		assert.NotEqual(t, Key("p1", reqs), Key("p1", grown))
	})

	t.Run("changes with the project", func(t *testing.T) {
		assert.NotEqual(t, Key("p1", reqs), Key("p2", reqs))
	})

	t.Run("changes when requirement content changes under the same ids", func(t *testing.T) {
		before := []models.Requirement{{ID: "REQ-0001", Description: "checkout flow"}}
		after := []models.Requirement{{ID: "REQ-0001", Description: "refund flow"}}
		assert.NotEqual(t, Key("p1", before), Key("p1", after))
	})

	t.Run("changes when entities change under the same ids", func(t *testing.T) {
		before := []models.Requirement{{ID: "REQ-0001", DomainEntities: []string{"Order"}}}
		after := []models.Requirement{{ID: "REQ-0001", DomainEntities: []string{"Invoice"}}}
		assert.NotEqual(t, Key("p1", before), Key("p1", after))
	})
}
