package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "reqforge/pkg/domain-errors"
)

func newTestEntity(t *testing.T, name, context string) DomainEntity {
	t.Helper()
	e, err := NewDomainEntity(name, uuid.NewString(), context, nil)
	require.NoError(t, err)
	return e
}

func TestNewDomainEntity_Invariants(t *testing.T) {
	cases := []struct {
		name                string
		entityName, id, ctx string
	}{
		{"blank name", "", "id-1", "Billing"},
		{"whitespace name", "   ", "id-1", "Billing"},
		{"blank id", "Invoice", "", "Billing"},
		{"blank context", "Invoice", "id-1", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDomainEntity(tc.entityName, tc.id, tc.ctx, nil)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestDomainEntity_Attributes(t *testing.T) {
	e, err := NewDomainEntity("Invoice", uuid.NewString(), "Billing", map[string]any{"status": "draft"})
	require.NoError(t, err)

	t.Run("lookup is pure", func(t *testing.T) {
		assert.True(t, e.HasAttribute("status"))
		v, ok := e.Attribute("status")
		assert.True(t, ok)
		assert.Equal(t, "draft", v)

		_, ok = e.Attribute("missing")
		assert.False(t, ok)
	})

	t.Run("constructor clones the caller's map", func(t *testing.T) {
		attrs := map[string]any{"amount": 10}
		e2, err := NewDomainEntity("Invoice", uuid.NewString(), "Billing", attrs)
		require.NoError(t, err)
		attrs["amount"] = 99
		v, _ := e2.Attribute("amount")
		assert.Equal(t, 10, v)
	})

	t.Run("WithAttributes merges into a copy", func(t *testing.T) {
		merged := e.WithAttributes(map[string]any{"status": "sent", "total": 42})
		v, _ := merged.Attribute("status")
		assert.Equal(t, "sent", v)
		assert.True(t, merged.HasAttribute("total"))

		// Original untouched.
		v, _ = e.Attribute("status")
		assert.Equal(t, "draft", v)
		assert.False(t, e.HasAttribute("total"))
	})
}

func TestDomainEntity_CopyOnWriteRules(t *testing.T) {
	e := newTestEntity(t, "Order", "Ordering")

	withRule := e.AddBusinessRule("orders require a customer")
	withBoth := withRule.AddInvariant("total is never negative")

	assert.Empty(t, e.BusinessRules)
	assert.Equal(t, []string{"orders require a customer"}, withRule.BusinessRules)
	assert.Empty(t, withRule.Invariants)
	assert.Equal(t, []string{"total is never negative"}, withBoth.Invariants)
}

func TestDomainEntity_SameIdentity(t *testing.T) {
	id := uuid.NewString()
	a, err := NewDomainEntity("Order", id, "Ordering", nil)
	require.NoError(t, err)
	b := a.WithAttributes(map[string]any{"status": "shipped"})
	other := newTestEntity(t, "Order", "Ordering")

	assert.True(t, a.SameIdentity(b), "attribute changes do not change identity")
	assert.False(t, a.SameIdentity(other))
}

func TestBoundedContext(t *testing.T) {
	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewBoundedContext("  ", "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("registries behave as sets", func(t *testing.T) {
		ctx, err := NewBoundedContext("Billing", "invoicing and payments")
		require.NoError(t, err)

		ctx2 := ctx.AddDomainEntity("Invoice").AddDomainEntity("Invoice").AddDomainEntity("Payment")
		assert.Equal(t, []string{"Invoice", "Payment"}, ctx2.DomainEntities)
		assert.True(t, ctx2.ContainsEntity("Invoice"))
		assert.False(t, ctx2.ContainsEntity("Order"))

		// Original untouched.
		assert.Empty(t, ctx.DomainEntities)
	})

	t.Run("aggregate and vocabulary registries", func(t *testing.T) {
		ctx, _ := NewBoundedContext("Billing", "")
		ctx = ctx.AddAggregateRoot("InvoiceAggregate").AddToUbiquitousLanguage("invoice")

		assert.True(t, ctx.ContainsAggregate("InvoiceAggregate"))
		assert.Equal(t, []string{"invoice"}, ctx.UbiquitousLanguage)
	})
}
