package store

import (
	"context"
	"errors"
	"time"

	"github.com/vkoshelev/storerules/internal/condition"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for rule persistence and the read-only
// commerce reference data condition handlers resolve during evaluation.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// GetAllRules retrieves every rule, enabled or not.
	// Returns an empty slice if no rules exist.
	GetAllRules(ctx context.Context) ([]Rule, error)

	// GetRuleByID retrieves a single rule by its id.
	// Returns an error if the rule is not found.
	GetRuleByID(ctx context.Context, id string) (*Rule, error)

	// UpsertRule creates or updates a rule and returns its id.
	// A new id is generated when params.ID is empty.
	UpsertRule(ctx context.Context, params UpsertParams) (string, error)

	// DeleteRule removes a rule by id.
	// Returns no error if the rule doesn't exist (idempotent).
	DeleteRule(ctx context.Context, id string) error

	// GetAddress resolves one address by id.
	GetAddress(ctx context.Context, id int64) (*Address, error)

	// GetProducts bulk-loads products by id. When activeOnly is set,
	// disabled products are silently excluded from the result.
	GetProducts(ctx context.Context, ids []int64, activeOnly bool) ([]Product, error)

	// GetZone resolves one geo zone by id.
	GetZone(ctx context.Context, id int64) (*Zone, error)

	// Convert converts an amount between two currency codes. Rates are
	// expressed as units per one unit of the store's base currency; the
	// base itself converts at 1.
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)

	// Close releases any resources held by the store.
	// After Close is called, the store should not be used.
	Close() error
}

// Rule is an ordered list of conditions owned by a price rule or trigger.
// A rule matches a context iff all of its conditions match; a rule with no
// conditions matches unconditionally.
type Rule struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Enabled    bool                  `json:"enabled"`
	Conditions []condition.Condition `json:"conditions"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// UpsertParams contains the parameters for upserting a rule.
type UpsertParams struct {
	ID         string                `json:"id,omitempty"`
	Name       string                `json:"name"`
	Enabled    bool                  `json:"enabled"`
	Conditions []condition.Condition `json:"conditions"`
}

// LineItem is one cart line.
type LineItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Cart carries the subset of cart state condition handlers read.
type Cart struct {
	Total    float64    `json:"total"`
	Currency string     `json:"currency"`
	Items    []LineItem `json:"items"`
}

// Order carries the selected shipping and payment method codes.
type Order struct {
	ShippingMethod string `json:"shippingMethod"`
	PaymentMethod  string `json:"paymentMethod"`
}

// Session is the current request identity. A nil session is an anonymous
// visitor; handlers then use the zero sentinel for both ids.
type Session struct {
	UserID int64 `json:"userId"`
	RoleID int64 `json:"roleId"`
}

// Address is an address record with its resolved zone granularities.
// Zone ids are zero when the granularity is not assigned.
type Address struct {
	ID            int64  `json:"id"`
	CountryCode   string `json:"countryCode"`
	State         string `json:"state"`
	ZoneCountryID int64  `json:"zoneCountryId"`
	ZoneStateID   int64  `json:"zoneStateId"`
	ZoneCityID    int64  `json:"zoneCityId"`
}

// Product is the catalog subset category conditions read.
type Product struct {
	ID              int64 `json:"id"`
	CategoryID      int64 `json:"categoryId"`
	BrandCategoryID int64 `json:"brandCategoryId"`
	Enabled         bool  `json:"enabled"`
}

// Zone is a configured geo zone. Disabled zones are treated as absent by
// zone conditions so stale zone ids never match.
type Zone struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}
