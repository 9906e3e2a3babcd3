package snapshot

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/store"
)

// RuleView is the read-optimized shape of a rule served to clients.
type RuleView struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Enabled    bool                  `json:"enabled"`
	Conditions []condition.Condition `json:"conditions"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// Snapshot is an immutable view of all rules at a point in time. The ETag
// changes whenever any rule content changes, so clients can poll cheaply
// with If-None-Match.
type Snapshot struct {
	ETag      string              `json:"etag"`
	Rules     map[string]RuleView `json:"rules"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

var current atomic.Pointer[Snapshot]

// Load returns the current snapshot. Never nil: before the first Update an
// empty snapshot is returned.
func Load() *Snapshot {
	if s := current.Load(); s != nil {
		return s
	}
	return &Snapshot{ETag: "", Rules: map[string]RuleView{}, UpdatedAt: time.Now().UTC()}
}

// Update atomically replaces the current snapshot and notifies subscribers.
func Update(s *Snapshot) {
	current.Store(s)
	publishUpdate(s.ETag)
}

// BuildFromRules assembles a snapshot from store rows and computes its ETag.
func BuildFromRules(rules []store.Rule) *Snapshot {
	views := make(map[string]RuleView, len(rules))
	for _, r := range rules {
		conds := r.Conditions
		if conds == nil {
			conds = []condition.Condition{}
		}
		views[r.ID] = RuleView{
			ID:         r.ID,
			Name:       r.Name,
			Enabled:    r.Enabled,
			Conditions: conds,
			UpdatedAt:  r.UpdatedAt,
		}
	}
	blob, _ := json.Marshal(views)
	etag := fmt.Sprintf(`W/"%016x"`, xxhash.Sum64(blob))
	return &Snapshot{ETag: etag, Rules: views, UpdatedAt: time.Now().UTC()}
}
