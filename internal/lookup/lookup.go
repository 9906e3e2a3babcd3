// Package lookup defines the narrow read-only contracts the condition
// handlers use to resolve commerce data, plus a request-scoped cache so a
// single evaluation pass never resolves the same record twice.
package lookup

import (
	"context"
	"time"

	"github.com/vkoshelev/storerules/internal/store"
)

// ErrNotFound is returned when a referenced record does not exist.
// Handlers treat it as missing data, not as a failure. It aliases the
// store sentinel so store implementations and lookup consumers agree.
var ErrNotFound = store.ErrNotFound

// AddressLookup resolves address records by id.
type AddressLookup interface {
	GetAddress(ctx context.Context, id int64) (*store.Address, error)
}

// ProductLookup bulk-loads product records. Category conditions always pass
// activeOnly so deleted or disabled products drop out silently.
type ProductLookup interface {
	GetProducts(ctx context.Context, ids []int64, activeOnly bool) ([]store.Product, error)
}

// ZoneLookup resolves geo zones by id.
type ZoneLookup interface {
	GetZone(ctx context.Context, id int64) (*store.Zone, error)
}

// CurrencyConverter converts an amount between two currency codes.
type CurrencyConverter interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

// Clock supplies wall-clock time to date conditions.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
