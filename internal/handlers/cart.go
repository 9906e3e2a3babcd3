package handlers

import (
	"context"
	"strings"

	"github.com/spf13/cast"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/lookup"
)

// currencySeparator splits a threshold value from its currency code, as in
// "1000|EUR". A bare value is assumed to already be in the cart's currency.
const currencySeparator = "|"

// cartTotalHandler compares the cart total against one or more thresholds.
// Currency-tagged thresholds are converted into the cart's currency before
// the comparison so "1000|EUR" against a USD cart behaves exactly like
// converting 1000 EUR to USD first.
type cartTotalHandler struct {
	currency lookup.CurrencyConverter
}

func (h cartTotalHandler) Evaluate(ctx context.Context, cond condition.Condition, ec *engine.Context) engine.Outcome {
	if ec.Cart == nil || ec.Cart.Currency == "" {
		return engine.Unavailable()
	}

	raw := cond.Values
	if cond.Operator.Ordering() {
		raw = cond.Values[:1]
	}

	thresholds := make([]float64, 0, len(raw))
	for _, v := range raw {
		amount, code, err := splitAmount(v)
		if err != nil {
			return engine.Failed(err)
		}
		if code != "" && code != ec.Cart.Currency {
			if h.currency == nil {
				return engine.Unavailable()
			}
			amount, err = h.currency.Convert(ctx, amount, code, ec.Cart.Currency)
			if err != nil {
				return engine.Failed(engine.DataResolutionError{Op: "currency " + code, Err: err})
			}
		}
		thresholds = append(thresholds, amount)
	}

	return engine.Match(condition.CompareNumeric(ec.Cart.Total, thresholds, cond.Operator))
}

func splitAmount(v string) (float64, string, error) {
	raw, code, found := strings.Cut(v, currencySeparator)
	amount, err := cast.ToFloat64E(strings.TrimSpace(raw))
	if err != nil {
		return 0, "", err
	}
	if !found {
		return amount, "", nil
	}
	return amount, strings.ToUpper(strings.TrimSpace(code)), nil
}

// productIDHandler holds when any cart line item's product id satisfies the
// comparison (existential match over cart contents). An empty cart never
// matches.
type productIDHandler struct{}

func (productIDHandler) Evaluate(_ context.Context, cond condition.Condition, ec *engine.Context) engine.Outcome {
	if ec.Cart == nil {
		return engine.Unavailable()
	}
	if len(ec.Cart.Items) == 0 {
		return engine.Match(false)
	}

	cv, err := condition.CoerceNumeric(cond.Values, cond.Operator)
	if err != nil {
		return engine.Failed(err)
	}

	for _, item := range ec.Cart.Items {
		if cv.MatchNumeric(float64(item.ProductID), cond.Operator) {
			return engine.Match(true)
		}
	}
	return engine.Match(false)
}

// categoryHandler resolves the cart's products (active only) and holds when
// any resolved product's category field satisfies the comparison. Products
// that fail to resolve (deleted or disabled) are silently excluded.
// With brand set it reads the brand category field instead.
type categoryHandler struct {
	brand bool
}

func (h categoryHandler) Evaluate(ctx context.Context, cond condition.Condition, ec *engine.Context) engine.Outcome {
	if ec.Cart == nil || ec.Data == nil {
		return engine.Unavailable()
	}
	if len(ec.Cart.Items) == 0 {
		return engine.Match(false)
	}

	cv, err := condition.CoerceNumeric(cond.Values, cond.Operator)
	if err != nil {
		return engine.Failed(err)
	}

	ids := make([]int64, 0, len(ec.Cart.Items))
	for _, item := range ec.Cart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := ec.Data.GetProducts(ctx, ids, true)
	if err != nil {
		if lookup.IsNotFound(err) {
			return engine.Unavailable()
		}
		return engine.Failed(engine.DataResolutionError{Op: "products", Err: err})
	}

	for _, p := range products {
		field := p.CategoryID
		if h.brand {
			field = p.BrandCategoryID
		}
		if cv.MatchNumeric(float64(field), cond.Operator) {
			return engine.Match(true)
		}
	}
	return engine.Match(false)
}
