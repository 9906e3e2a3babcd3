package engine

import (
	"github.com/vkoshelev/storerules/internal/lookup"
	"github.com/vkoshelev/storerules/internal/store"
)

// Context is the bundle of runtime data a condition may need. It is built
// fresh for each evaluation call and discarded afterwards; it is never
// shared between concurrent evaluations and nothing in it is mutated by
// the engine.
//
// Not every handler needs every field. A handler that finds its required
// field missing reports the condition as unavailable, which collapses to
// "does not match".
type Context struct {
	Cart    *store.Cart
	Order   *store.Order
	Session *store.Session

	// Address is an inline address supplied by the caller; country/state
	// conditions prefer it over resolving ShippingAddressID.
	Address *store.Address

	// ShippingAddressID references a stored shipping address, resolved
	// lazily through Data. Zero means no address is selected.
	ShippingAddressID int64

	// Route is the matched route pattern of the current request, Path its
	// raw request path.
	Route string
	Path  string

	// UsageCount is the pre-computed usage counter for the rule under
	// evaluation. Nil means the counter is unknown.
	UsageCount *int64

	// Data is the request-scoped lookup cache. Handlers resolve addresses,
	// products and zones through it so repeated references within one
	// evaluation pass hit the collaborator once.
	Data *lookup.Cache
}
