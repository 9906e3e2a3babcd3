package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It uses maps with an RWMutex for thread-safe concurrent access and is
// suitable for development, testing, or single-instance deployments.
type MemoryStore struct {
	mu        sync.RWMutex
	rules     map[string]Rule
	addresses map[int64]Address
	products  map[int64]Product
	zones     map[int64]Zone
	base      string
	rates     map[string]float64 // currency code -> units per one base unit
}

// NewMemoryStore creates a new in-memory store. baseCurrency is the code
// the exchange rates are expressed against; it converts at 1 without a
// seeded rate.
func NewMemoryStore(baseCurrency string) *MemoryStore {
	return &MemoryStore{
		rules:     make(map[string]Rule),
		addresses: make(map[int64]Address),
		products:  make(map[int64]Product),
		zones:     make(map[int64]Zone),
		base:      strings.ToUpper(baseCurrency),
		rates:     make(map[string]float64),
	}
}

// GetAllRules retrieves every rule.
func (m *MemoryStore) GetAllRules(ctx context.Context) ([]Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Rule, 0, len(m.rules))
	for _, rule := range m.rules {
		result = append(result, rule)
	}
	return result, nil
}

// GetRuleByID retrieves a single rule by id.
func (m *MemoryStore) GetRuleByID(ctx context.Context, id string) (*Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rule, exists := m.rules[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &rule, nil
}

// UpsertRule creates or updates a rule in memory.
func (m *MemoryStore) UpsertRule(ctx context.Context, params UpsertParams) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}

	m.rules[id] = Rule{
		ID:         id,
		Name:       params.Name,
		Enabled:    params.Enabled,
		Conditions: params.Conditions,
		UpdatedAt:  time.Now().UTC(),
	}
	return id, nil
}

// DeleteRule removes a rule from memory. Idempotent.
func (m *MemoryStore) DeleteRule(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rules, id)
	return nil
}

// GetAddress resolves one address by id.
func (m *MemoryStore) GetAddress(ctx context.Context, id int64) (*Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	addr, exists := m.addresses[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &addr, nil
}

// GetProducts bulk-loads products by id, optionally active only.
func (m *MemoryStore) GetProducts(ctx context.Context, ids []int64, activeOnly bool) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Product, 0, len(ids))
	for _, id := range ids {
		p, exists := m.products[id]
		if !exists {
			continue
		}
		if activeOnly && !p.Enabled {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// GetZone resolves one zone by id.
func (m *MemoryStore) GetZone(ctx context.Context, id int64) (*Zone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	zone, exists := m.zones[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &zone, nil
}

// Convert converts an amount between currency codes using the stored rates.
func (m *MemoryStore) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fromRate, err := m.rate(from)
	if err != nil {
		return 0, err
	}
	toRate, err := m.rate(to)
	if err != nil {
		return 0, err
	}
	return amount / fromRate * toRate, nil
}

// rate returns units of code per one base unit. The base itself is 1 by
// definition. Callers must hold the read lock.
func (m *MemoryStore) rate(code string) (float64, error) {
	code = strings.ToUpper(code)
	if code == m.base {
		return 1, nil
	}
	r, ok := m.rates[code]
	if !ok || r == 0 {
		return 0, ErrNotFound
	}
	return r, nil
}

// Close is a no-op for MemoryStore as there are no resources to release.
func (m *MemoryStore) Close() error {
	return nil
}

// --- seeding helpers for tests and development ---

// SeedAddress inserts or replaces an address record.
func (m *MemoryStore) SeedAddress(addr Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses[addr.ID] = addr
}

// SeedProduct inserts or replaces a product record.
func (m *MemoryStore) SeedProduct(p Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

// SeedZone inserts or replaces a zone record.
func (m *MemoryStore) SeedZone(z Zone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[z.ID] = z
}

// SeedRate sets the exchange rate for a currency code, expressed as units
// per one unit of the base currency.
func (m *MemoryStore) SeedRate(code string, rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[strings.ToUpper(code)] = rate
}
