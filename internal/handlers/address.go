package handlers

import (
	"context"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/lookup"
	"github.com/vkoshelev/storerules/internal/store"
)

// addressFieldHandler compares one address field (country code or state)
// against the value set. Resolution is two-source: an inline address in the
// context wins; otherwise the referenced shipping address is loaded through
// the request cache. No address, or an empty field, fails closed.
type addressFieldHandler struct {
	field func(*store.Address) string
}

func (h addressFieldHandler) Evaluate(ctx context.Context, cond condition.Condition, ec *engine.Context) engine.Outcome {
	addr, outcome := resolveAddress(ctx, ec)
	if addr == nil {
		return outcome
	}

	subject := h.field(addr)
	if subject == "" {
		return engine.Unavailable()
	}

	cv := condition.CoerceString(cond.Values, cond.Operator)
	return engine.Match(cv.MatchString(subject, cond.Operator))
}

func countryHandler() addressFieldHandler {
	return addressFieldHandler{field: func(a *store.Address) string { return a.CountryCode }}
}

func stateHandler() addressFieldHandler {
	return addressFieldHandler{field: func(a *store.Address) string { return a.State }}
}

// resolveAddress returns the effective address for the evaluation, or a nil
// address plus the outcome to report.
func resolveAddress(ctx context.Context, ec *engine.Context) (*store.Address, engine.Outcome) {
	if ec.Address != nil {
		return ec.Address, engine.Outcome{}
	}
	if ec.ShippingAddressID == 0 || ec.Data == nil {
		return nil, engine.Unavailable()
	}

	addr, err := ec.Data.GetAddress(ctx, ec.ShippingAddressID)
	if err != nil {
		if lookup.IsNotFound(err) {
			return nil, engine.Unavailable()
		}
		return nil, engine.Failed(engine.DataResolutionError{Op: "address", Err: err})
	}
	return addr, engine.Outcome{}
}

// zoneHandler checks the shipping address's zone membership. The rule's
// candidate zone ids are first filtered to currently enabled zones; a
// disabled or soft-deleted zone is treated as absent from the set, so rules
// never silently match on stale zone ids. The address matches when any of
// its country, state or city zone fields satisfies the comparison.
type zoneHandler struct{}

func (zoneHandler) Evaluate(ctx context.Context, cond condition.Condition, ec *engine.Context) engine.Outcome {
	if ec.ShippingAddressID == 0 || ec.Data == nil {
		return engine.Unavailable()
	}

	addr, err := ec.Data.GetAddress(ctx, ec.ShippingAddressID)
	if err != nil {
		if lookup.IsNotFound(err) {
			return engine.Unavailable()
		}
		return engine.Failed(engine.DataResolutionError{Op: "address", Err: err})
	}

	cv, err := condition.CoerceNumeric(cond.Values, cond.Operator)
	if err != nil {
		return engine.Failed(err)
	}

	enabled := make([]float64, 0, len(cv.Nums))
	for _, id := range cv.Nums {
		zone, err := ec.Data.GetZone(ctx, int64(id))
		if err != nil {
			if lookup.IsNotFound(err) {
				continue
			}
			return engine.Failed(engine.DataResolutionError{Op: "zone", Err: err})
		}
		if zone.Enabled {
			enabled = append(enabled, id)
		}
	}
	if len(enabled) == 0 {
		return engine.Match(false)
	}

	for _, field := range []int64{addr.ZoneCountryID, addr.ZoneStateID, addr.ZoneCityID} {
		if field == 0 {
			continue
		}
		if condition.CompareNumeric(float64(field), enabled, cond.Operator) {
			return engine.Match(true)
		}
	}
	return engine.Match(false)
}
