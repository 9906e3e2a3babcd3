package store

import (
	"context"
	"fmt"

	mydb "github.com/vkoshelev/storerules/internal/db"
)

// NewStore creates a new store based on the given store type.
// Supported types: "memory", "postgres". baseCurrency is the code the
// store's exchange rates are expressed against.
func NewStore(ctx context.Context, storeType, dbDSN, baseCurrency string) (Store, error) {
	switch storeType {
	case "memory":
		return NewMemoryStore(baseCurrency), nil
	case "postgres":
		pool, err := mydb.NewPool(ctx, dbDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		return NewPostgresStore(pool, baseCurrency), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}
