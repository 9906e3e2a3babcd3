package handlers

import (
	"sort"

	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/lookup"
)

// Built-in condition identifiers.
const (
	IdentRoute         = "route"
	IdentPath          = "path"
	IdentDate          = "date"
	IdentUsed          = "used"
	IdentCartTotal     = "cart_total"
	IdentProductID     = "product_id"
	IdentCategoryID    = "category_id"
	IdentBrandCategory = "brand_category_id"
	IdentUserID        = "user_id"
	IdentUserRole      = "user_role"
	IdentShipping      = "shipping"
	IdentPayment       = "payment"
	IdentCountry       = "country"
	IdentState         = "state"
	IdentShippingZone  = "shipping_zone_id"
)

// Deps carries the collaborators built-in handlers need beyond the
// request-scoped cache on the evaluation context.
type Deps struct {
	Currency lookup.CurrencyConverter
	Clock    lookup.Clock
}

// RegisterBuiltins binds every built-in condition handler. It is called
// once during process initialization; a duplicate registration error here
// means a misconfigured startup and should be treated as fatal.
func RegisterBuiltins(reg *engine.Registry, deps Deps) error {
	clock := deps.Clock
	if clock == nil {
		clock = lookup.SystemClock{}
	}

	builtins := map[string]engine.Handler{
		IdentRoute:         routeHandler{},
		IdentPath:          pathHandler{},
		IdentDate:          dateHandler{clock: clock},
		IdentUsed:          usedHandler{},
		IdentCartTotal:     cartTotalHandler{currency: deps.Currency},
		IdentProductID:     productIDHandler{},
		IdentCategoryID:    categoryHandler{},
		IdentBrandCategory: categoryHandler{brand: true},
		IdentUserID:        userIDHandler{},
		IdentUserRole:      userRoleHandler{},
		IdentShipping:      shippingMethodHandler(),
		IdentPayment:       paymentMethodHandler(),
		IdentCountry:       countryHandler(),
		IdentState:         stateHandler(),
		IdentShippingZone:  zoneHandler{},
	}

	// Deterministic registration order keeps startup errors reproducible.
	ids := make([]string, 0, len(builtins))
	for id := range builtins {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := reg.Register(id, builtins[id]); err != nil {
			return err
		}
	}
	return nil
}
