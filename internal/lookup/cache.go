package lookup

import (
	"context"
	"errors"

	"github.com/vkoshelev/storerules/internal/store"
)

// Cache memoizes lookups for the lifetime of one evaluation pass. It is
// constructed per request, travels on the evaluation context, and is never
// shared between concurrent evaluations, so it needs no locking.
//
// Not-found results are memoized too: a dangling address id referenced by
// several conditions of one rule costs a single query.
type Cache struct {
	addresses AddressLookup
	products  ProductLookup
	zones     ZoneLookup

	addressByID map[int64]addressEntry
	zoneByID    map[int64]zoneEntry
}

type addressEntry struct {
	addr *store.Address
	err  error
}

type zoneEntry struct {
	zone *store.Zone
	err  error
}

// NewCache creates a request-scoped cache over the given lookups.
// Any of them may be nil; the corresponding reads then report ErrNotFound.
func NewCache(addresses AddressLookup, products ProductLookup, zones ZoneLookup) *Cache {
	return &Cache{
		addresses:   addresses,
		products:    products,
		zones:       zones,
		addressByID: make(map[int64]addressEntry),
		zoneByID:    make(map[int64]zoneEntry),
	}
}

// GetAddress resolves an address by id, memoizing the result.
func (c *Cache) GetAddress(ctx context.Context, id int64) (*store.Address, error) {
	if entry, ok := c.addressByID[id]; ok {
		return entry.addr, entry.err
	}

	var entry addressEntry
	if c.addresses == nil {
		entry.err = ErrNotFound
	} else {
		entry.addr, entry.err = c.addresses.GetAddress(ctx, id)
	}
	c.addressByID[id] = entry
	return entry.addr, entry.err
}

// GetProducts bulk-loads products. Product reads already arrive batched per
// condition, so only the underlying lookup is consulted.
func (c *Cache) GetProducts(ctx context.Context, ids []int64, activeOnly bool) ([]store.Product, error) {
	if c.products == nil {
		return nil, ErrNotFound
	}
	return c.products.GetProducts(ctx, ids, activeOnly)
}

// GetZone resolves a zone by id, memoizing the result.
func (c *Cache) GetZone(ctx context.Context, id int64) (*store.Zone, error) {
	if entry, ok := c.zoneByID[id]; ok {
		return entry.zone, entry.err
	}

	var entry zoneEntry
	if c.zones == nil {
		entry.err = ErrNotFound
	} else {
		entry.zone, entry.err = c.zones.GetZone(ctx, id)
	}
	c.zoneByID[id] = entry
	return entry.zone, entry.err
}

// IsNotFound reports whether err represents a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
