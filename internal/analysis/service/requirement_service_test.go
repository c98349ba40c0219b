package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqforge/internal/analysis/models"
	"reqforge/pkg/domain"
	dErrors "reqforge/pkg/domain-errors"
)

func TestCalculateProjectComplexity(t *testing.T) {
	svc := NewRequirementAnalysisService()

	t.Run("empty input is trivial", func(t *testing.T) {
		level := svc.CalculateProjectComplexity(nil)
		assert.Equal(t, domain.ComplexityTrivial, level.Scale)
	})

	t.Run("zero total story points is trivial", func(t *testing.T) {
		level := svc.CalculateProjectComplexity([]models.Requirement{
			{ID: "R1", Complexity: 5, StoryPoints: 0},
		})
		assert.Equal(t, domain.ComplexityTrivial, level.Scale)
	})

	t.Run("weighted mean maps to its band", func(t *testing.T) {
		// (5*10 + 1*10) / 20 = 3.0 -> moderate
		level := svc.CalculateProjectComplexity([]models.Requirement{
			{ID: "R1", Complexity: 5, StoryPoints: 10},
			{ID: "R2", Complexity: 1, StoryPoints: 10},
		})
		assert.Equal(t, domain.ComplexityModerate, level.Scale)
		assert.Contains(t, level.Explanation, "3.00")
	})

	t.Run("heavier requirements dominate the mean", func(t *testing.T) {
		// (5*30 + 1*2) / 32 = 4.75 -> very complex
		level := svc.CalculateProjectComplexity([]models.Requirement{
			{ID: "R1", Complexity: 5, StoryPoints: 30},
			{ID: "R2", Complexity: 1, StoryPoints: 2},
		})
		assert.Equal(t, domain.ComplexityVeryComplex, level.Scale)
	})

	t.Run("band bounds are inclusive", func(t *testing.T) {
		cases := []struct {
			mean  float64
			scale domain.ComplexityScale
		}{
			{4.5, domain.ComplexityVeryComplex},
			{4.49, domain.ComplexityComplex},
			{3.5, domain.ComplexityComplex},
			{2.5, domain.ComplexityModerate},
			{1.5, domain.ComplexitySimple},
			{1.49, domain.ComplexityTrivial},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.scale, scaleForMean(tc.mean), "mean %v", tc.mean)
		}
	})
}

func TestIdentifyDependencies(t *testing.T) {
	svc := NewRequirementAnalysisService()

	t.Run("entity overlap creates edges in both directions", func(t *testing.T) {
		deps, err := svc.IdentifyDependencies([]models.Requirement{
			{ID: "A", DomainEntities: []string{"User", "Account"}},
			{ID: "B", DomainEntities: []string{"Account"}},
			{ID: "C", DomainEntities: []string{"Invoice"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"B"}, deps["A"])
		assert.Equal(t, []string{"A"}, deps["B"])
		assert.Empty(t, deps["C"])
	})

	t.Run("related contexts create edges regardless of direction", func(t *testing.T) {
		deps, err := svc.IdentifyDependencies([]models.Requirement{
			{ID: "A", BoundedContext: "User Management"},
			{ID: "B", BoundedContext: "Authentication"},
		})
		require.NoError(t, err)
		assert.Contains(t, deps["A"], "B")
		assert.Contains(t, deps["B"], "A")
	})

	t.Run("unrelated contexts and disjoint entities make no edges", func(t *testing.T) {
		deps, err := svc.IdentifyDependencies([]models.Requirement{
			{ID: "A", BoundedContext: "Reporting", DomainEntities: []string{"Report"}},
			{ID: "B", BoundedContext: "Payment", DomainEntities: []string{"Invoice"}},
		})
		require.NoError(t, err)
		assert.Empty(t, deps["A"])
		assert.Empty(t, deps["B"])
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		_, err := svc.IdentifyDependencies([]models.Requirement{
			{ID: "A"}, {ID: "A"},
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestPrioritizeRequirements(t *testing.T) {
	svc := NewRequirementAnalysisService()

	t.Run("orders by descending score", func(t *testing.T) {
		scored, err := svc.PrioritizeRequirements([]models.Requirement{
			{ID: "low", BusinessValue: 20, Priority: "low", StoryPoints: 9},
			{ID: "crit", BusinessValue: 90, Priority: "critical", StoryPoints: 4},
			{ID: "mid", BusinessValue: 50, Priority: "medium", StoryPoints: 1},
		})
		require.NoError(t, err)
		require.Len(t, scored, 3)
		assert.Equal(t, "crit", scored[0].ID) // 90*2/2 = 90
		assert.Equal(t, "mid", scored[1].ID)  // 50*1/1 = 50
		assert.Equal(t, "low", scored[2].ID)  // 20*0.7/3 ≈ 4.67
	})

	t.Run("sort is stable for equal scores", func(t *testing.T) {
		scored, err := svc.PrioritizeRequirements([]models.Requirement{
			{ID: "first", BusinessValue: 40, Priority: "medium", StoryPoints: 4},
			{ID: "second", BusinessValue: 40, Priority: "medium", StoryPoints: 4},
		})
		require.NoError(t, err)
		assert.Equal(t, "first", scored[0].ID)
		assert.Equal(t, "second", scored[1].ID)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		input := []models.Requirement{
			{ID: "a", BusinessValue: 10, Priority: "low", StoryPoints: 1},
			{ID: "b", BusinessValue: 90, Priority: "critical", StoryPoints: 1},
		}
		_, err := svc.PrioritizeRequirements(input)
		require.NoError(t, err)
		assert.Equal(t, "a", input[0].ID, "caller's slice keeps its order")
	})

	t.Run("priority lookup is case-insensitive with default weight", func(t *testing.T) {
		scored, err := svc.PrioritizeRequirements([]models.Requirement{
			{ID: "a", BusinessValue: 50, Priority: "CRITICAL", StoryPoints: 1},
			{ID: "b", BusinessValue: 50, Priority: "unknown-level", StoryPoints: 1},
		})
		require.NoError(t, err)
		assert.InDelta(t, 100, scored[0].PriorityScore, 1e-9)
		assert.InDelta(t, 50, scored[1].PriorityScore, 1e-9)
	})

	t.Run("zero story points are clamped to one", func(t *testing.T) {
		scored, err := svc.PrioritizeRequirements([]models.Requirement{
			{ID: "a", BusinessValue: 80, Priority: "high", StoryPoints: 0},
		})
		require.NoError(t, err)
		assert.InDelta(t, 120, scored[0].PriorityScore, 1e-9)
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		_, err := svc.PrioritizeRequirements([]models.Requirement{{ID: "x"}, {ID: "x"}})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
