package snapshot

import (
	"testing"
	"time"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/store"
)

func TestBuildFromRules_Empty(t *testing.T) {
	snap := BuildFromRules(nil)

	if snap == nil {
		t.Fatal("BuildFromRules returned nil")
	}
	if len(snap.Rules) != 0 {
		t.Errorf("Expected 0 rules, got %d", len(snap.Rules))
	}
	if snap.ETag == "" {
		t.Error("Expected non-empty ETag")
	}
}

func TestBuildFromRules_MultipleRules(t *testing.T) {
	now := time.Now().UTC()
	rules := []store.Rule{
		{
			ID:      "r1",
			Name:    "vip",
			Enabled: true,
			Conditions: []condition.Condition{
				{Identifier: "user_role", Operator: condition.OpEq, Values: []string{"2"}},
			},
			UpdatedAt: now,
		},
		{
			ID:        "r2",
			Name:      "big cart",
			Enabled:   false,
			UpdatedAt: now,
		},
	}

	snap := BuildFromRules(rules)

	if len(snap.Rules) != 2 {
		t.Fatalf("Expected 2 rules, got %d", len(snap.Rules))
	}

	r1, ok := snap.Rules["r1"]
	if !ok {
		t.Fatal("r1 not found in snapshot")
	}
	if r1.Name != "vip" || !r1.Enabled || len(r1.Conditions) != 1 {
		t.Errorf("r1 data incorrect: %+v", r1)
	}

	r2, ok := snap.Rules["r2"]
	if !ok {
		t.Fatal("r2 not found in snapshot")
	}
	if r2.Enabled {
		t.Errorf("r2 should be disabled: %+v", r2)
	}
	if r2.Conditions == nil {
		t.Error("nil conditions must be normalized to an empty slice")
	}
}

func TestBuildFromRules_ETags_Deterministic(t *testing.T) {
	now := time.Now().UTC()
	rules := []store.Rule{
		{ID: "r1", Name: "test", Enabled: true, UpdatedAt: now},
	}

	snap1 := BuildFromRules(rules)
	snap2 := BuildFromRules(rules)

	if snap1.ETag != snap2.ETag {
		t.Errorf("Expected deterministic ETags, got %s and %s", snap1.ETag, snap2.ETag)
	}
}

func TestBuildFromRules_ETags_Different(t *testing.T) {
	now := time.Now().UTC()
	snap1 := BuildFromRules([]store.Rule{{ID: "r1", Name: "a", Enabled: true, UpdatedAt: now}})
	snap2 := BuildFromRules([]store.Rule{{ID: "r2", Name: "b", Enabled: false, UpdatedAt: now}})

	if snap1.ETag == snap2.ETag {
		t.Error("Expected different ETags for different rules")
	}
}

func TestETagFormat(t *testing.T) {
	snap := BuildFromRules([]store.Rule{{ID: "r1", Name: "test", UpdatedAt: time.Now().UTC()}})

	if len(snap.ETag) < 4 || snap.ETag[:3] != `W/"` {
		t.Errorf("Expected ETag to start with 'W/\"', got %s", snap.ETag)
	}
	if snap.ETag[len(snap.ETag)-1] != '"' {
		t.Errorf("Expected ETag to end with '\"', got %s", snap.ETag)
	}
}

func TestLoadAndUpdate(t *testing.T) {
	initial := Load()
	if initial == nil {
		t.Fatal("Load returned nil")
	}

	newSnap := BuildFromRules([]store.Rule{
		{ID: "fresh", Name: "fresh rule", Enabled: true, UpdatedAt: time.Now().UTC()},
	})
	Update(newSnap)

	loaded := Load()
	if len(loaded.Rules) != 1 {
		t.Errorf("Expected 1 rule after update, got %d", len(loaded.Rules))
	}
	if loaded.ETag != newSnap.ETag {
		t.Errorf("Expected ETag %s, got %s", newSnap.ETag, loaded.ETag)
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	updates, unsub := Subscribe()
	defer unsub()

	snap := BuildFromRules([]store.Rule{
		{ID: "sub", Name: "sub rule", Enabled: true, UpdatedAt: time.Now().UTC()},
	})

	go func() {
		time.Sleep(10 * time.Millisecond)
		Update(snap)
	}()

	select {
	case etag := <-updates:
		if etag != snap.ETag {
			t.Errorf("Expected ETag %s, got %s", snap.ETag, etag)
		}
	case <-time.After(1 * time.Second):
		t.Error("Timeout waiting for update")
	}
}
