package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/lookup"
	"github.com/vkoshelev/storerules/internal/store"
)

// Shared fakes for handler tests.

type fakeAddresses map[int64]*store.Address

func (f fakeAddresses) GetAddress(_ context.Context, id int64) (*store.Address, error) {
	addr, ok := f[id]
	if !ok {
		return nil, lookup.ErrNotFound
	}
	return addr, nil
}

type fakeProducts map[int64]store.Product

func (f fakeProducts) GetProducts(_ context.Context, ids []int64, activeOnly bool) ([]store.Product, error) {
	var out []store.Product
	for _, id := range ids {
		p, ok := f[id]
		if !ok {
			continue
		}
		if activeOnly && !p.Enabled {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeZones map[int64]*store.Zone

func (f fakeZones) GetZone(_ context.Context, id int64) (*store.Zone, error) {
	zone, ok := f[id]
	if !ok {
		return nil, lookup.ErrNotFound
	}
	return zone, nil
}

// fakeConverter converts through fixed per-code rates relative to a base.
type fakeConverter map[string]float64

func (f fakeConverter) Convert(_ context.Context, amount float64, from, to string) (float64, error) {
	fromRate, ok := f[from]
	if !ok {
		return 0, errors.New("unknown currency " + from)
	}
	toRate, ok := f[to]
	if !ok {
		return 0, errors.New("unknown currency " + to)
	}
	return amount / fromRate * toRate, nil
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func newCond(id string, op condition.Operator, values ...string) condition.Condition {
	return condition.Condition{Identifier: id, Operator: op, Values: values}
}

func ctxWithData(addrs fakeAddresses, prods fakeProducts, zones fakeZones) *engine.Context {
	return &engine.Context{Data: lookup.NewCache(addrs, prods, zones)}
}
