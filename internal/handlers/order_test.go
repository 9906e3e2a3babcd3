package handlers

import (
	"context"
	"testing"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/store"
)

func TestOrderMethodHandlers(t *testing.T) {
	order := &store.Order{ShippingMethod: "flat.flat", PaymentMethod: "cod"}

	tests := []struct {
		name    string
		handler engine.Handler
		order   *store.Order
		op      condition.Operator
		vals    []string
		want    engine.Status
	}{
		{name: "shipping match", handler: shippingMethodHandler(), order: order, op: condition.OpEq, vals: []string{"flat.flat"}, want: engine.StatusMatched},
		{name: "shipping in set", handler: shippingMethodHandler(), order: order, op: condition.OpEq, vals: []string{"pickup.pickup", "flat.flat"}, want: engine.StatusMatched},
		{name: "shipping miss", handler: shippingMethodHandler(), order: order, op: condition.OpEq, vals: []string{"pickup.pickup"}, want: engine.StatusNotMatched},
		{name: "payment neq", handler: paymentMethodHandler(), order: order, op: condition.OpNeq, vals: []string{"card"}, want: engine.StatusMatched},
		{name: "no order", handler: paymentMethodHandler(), order: nil, op: condition.OpEq, vals: []string{"cod"}, want: engine.StatusUnavailable},
		{name: "no selection yet", handler: shippingMethodHandler(), order: &store.Order{}, op: condition.OpEq, vals: []string{"flat.flat"}, want: engine.StatusUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := &engine.Context{Order: tt.order}
			got := tt.handler.Evaluate(context.Background(), newCond(IdentShipping, tt.op, tt.vals...), ec)
			if got.Status != tt.want {
				t.Fatalf("Evaluate() = %s, want %s", got.Status, tt.want)
			}
		})
	}
}
