package store

import (
	"context"
	"errors"
	"testing"

	"github.com/vkoshelev/storerules/internal/condition"
)

func TestMemoryStore_RuleLifecycle(t *testing.T) {
	m := NewMemoryStore("USD")
	ctx := context.Background()

	id, err := m.UpsertRule(ctx, UpsertParams{
		Name:    "vip discount",
		Enabled: true,
		Conditions: []condition.Condition{
			{Identifier: "user_role", Operator: condition.OpEq, Values: []string{"2"}},
		},
	})
	if err != nil {
		t.Fatalf("UpsertRule() error: %v", err)
	}
	if id == "" {
		t.Fatal("UpsertRule() must generate an id")
	}

	rule, err := m.GetRuleByID(ctx, id)
	if err != nil {
		t.Fatalf("GetRuleByID() error: %v", err)
	}
	if rule.Name != "vip discount" || !rule.Enabled {
		t.Fatalf("rule = %+v", rule)
	}
	if rule.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt must be set on upsert")
	}

	// Update keeps the id stable.
	id2, err := m.UpsertRule(ctx, UpsertParams{ID: id, Name: "vip discount v2", Enabled: false})
	if err != nil {
		t.Fatalf("UpsertRule() update error: %v", err)
	}
	if id2 != id {
		t.Fatalf("update changed id: %s -> %s", id, id2)
	}

	all, err := m.GetAllRules(ctx)
	if err != nil {
		t.Fatalf("GetAllRules() error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("GetAllRules() = %d rules, want 1", len(all))
	}

	if err := m.DeleteRule(ctx, id); err != nil {
		t.Fatalf("DeleteRule() error: %v", err)
	}
	if _, err := m.GetRuleByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetRuleByID() after delete = %v, want ErrNotFound", err)
	}

	// Idempotent delete.
	if err := m.DeleteRule(ctx, id); err != nil {
		t.Fatalf("second DeleteRule() error: %v", err)
	}
}

func TestMemoryStore_ReferenceData(t *testing.T) {
	m := NewMemoryStore("USD")
	ctx := context.Background()

	m.SeedAddress(Address{ID: 5, CountryCode: "UA", ZoneCountryID: 7})
	m.SeedProduct(Product{ID: 1, CategoryID: 100, Enabled: true})
	m.SeedProduct(Product{ID: 2, CategoryID: 200, Enabled: false})
	m.SeedZone(Zone{ID: 7, Name: "Eastern Europe", Enabled: true})

	addr, err := m.GetAddress(ctx, 5)
	if err != nil {
		t.Fatalf("GetAddress() error: %v", err)
	}
	if addr.CountryCode != "UA" {
		t.Fatalf("CountryCode = %s, want UA", addr.CountryCode)
	}

	if _, err := m.GetAddress(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetAddress(99) = %v, want ErrNotFound", err)
	}

	active, err := m.GetProducts(ctx, []int64{1, 2, 3}, true)
	if err != nil {
		t.Fatalf("GetProducts() error: %v", err)
	}
	if len(active) != 1 || active[0].ID != 1 {
		t.Fatalf("active products = %+v, want only product 1", active)
	}

	all, err := m.GetProducts(ctx, []int64{1, 2, 3}, false)
	if err != nil {
		t.Fatalf("GetProducts() error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all products = %d, want 2", len(all))
	}

	zone, err := m.GetZone(ctx, 7)
	if err != nil {
		t.Fatalf("GetZone() error: %v", err)
	}
	if !zone.Enabled {
		t.Fatal("zone 7 must be enabled")
	}
}

func TestMemoryStore_Convert(t *testing.T) {
	m := NewMemoryStore("USD")
	ctx := context.Background()

	// 0.8 EUR per USD.
	m.SeedRate("EUR", 0.8)

	got, err := m.Convert(ctx, 1000, "EUR", "USD")
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if got != 1250 {
		t.Fatalf("Convert(1000 EUR->USD) = %v, want 1250", got)
	}

	if _, err := m.Convert(ctx, 1, "XXX", "USD"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Convert() with unknown code = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Convert_BaseNeedsNoRate(t *testing.T) {
	m := NewMemoryStore("usd") // base code is case-insensitive
	ctx := context.Background()

	m.SeedRate("EUR", 0.8)

	// The base currency converts at 1 without a seeded row.
	got, err := m.Convert(ctx, 100, "USD", "EUR")
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if got != 80 {
		t.Fatalf("Convert(100 USD->EUR) = %v, want 80", got)
	}

	same, err := m.Convert(ctx, 42, "USD", "USD")
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if same != 42 {
		t.Fatalf("Convert(42 USD->USD) = %v, want 42", same)
	}
}
