package handlers

import (
	"context"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/store"
)

// orderMethodHandler compares a selected order method code (shipping or
// payment, chosen by the selector) against the value set. A missing order
// or an empty selection fails closed.
type orderMethodHandler struct {
	method func(*store.Order) string
}

func (h orderMethodHandler) Evaluate(_ context.Context, cond condition.Condition, ec *engine.Context) engine.Outcome {
	if ec.Order == nil {
		return engine.Unavailable()
	}
	subject := h.method(ec.Order)
	if subject == "" {
		return engine.Unavailable()
	}

	cv := condition.CoerceString(cond.Values, cond.Operator)
	return engine.Match(cv.MatchString(subject, cond.Operator))
}

func shippingMethodHandler() orderMethodHandler {
	return orderMethodHandler{method: func(o *store.Order) string { return o.ShippingMethod }}
}

func paymentMethodHandler() orderMethodHandler {
	return orderMethodHandler{method: func(o *store.Order) string { return o.PaymentMethod }}
}
