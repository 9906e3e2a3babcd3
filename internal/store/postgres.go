package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vkoshelev/storerules/internal/condition"
)

// PostgresStore is a PostgreSQL implementation of the Store interface.
// Rule conditions are stored as a jsonb column; reference data (addresses,
// products, zones, currency rates) lives in the storefront's own tables and
// is only ever read.
type PostgresStore struct {
	pool *pgxpool.Pool
	base string
}

// NewPostgresStore creates a new PostgreSQL-backed store. baseCurrency is
// the code the currency_rates rows are expressed against; it converts at 1
// without a row of its own.
func NewPostgresStore(pool *pgxpool.Pool, baseCurrency string) *PostgresStore {
	return &PostgresStore{pool: pool, base: strings.ToUpper(baseCurrency)}
}

// GetAllRules retrieves every rule from the database.
func (p *PostgresStore) GetAllRules(ctx context.Context) ([]Rule, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, enabled, conditions, updated_at FROM rules ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// GetRuleByID retrieves a single rule by id.
func (p *PostgresStore) GetRuleByID(ctx context.Context, id string) (*Rule, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, name, enabled, conditions, updated_at FROM rules WHERE id = $1`, id)

	rule, err := scanRule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// UpsertRule creates or updates a rule and returns its id.
func (p *PostgresStore) UpsertRule(ctx context.Context, params UpsertParams) (string, error) {
	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}

	conditions, err := json.Marshal(params.Conditions)
	if err != nil {
		return "", err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO rules (id, name, enabled, conditions, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    enabled = EXCLUDED.enabled,
		    conditions = EXCLUDED.conditions,
		    updated_at = now()`,
		id, params.Name, params.Enabled, conditions)
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteRule removes a rule. Idempotent.
func (p *PostgresStore) DeleteRule(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM rules WHERE id = $1`, id)
	return err
}

// GetAddress resolves one address by id.
func (p *PostgresStore) GetAddress(ctx context.Context, id int64) (*Address, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, country_code, state, zone_country_id, zone_state_id, zone_city_id
		FROM addresses WHERE id = $1`, id)

	var addr Address
	var state pgtype.Text
	err := row.Scan(&addr.ID, &addr.CountryCode, &state,
		&addr.ZoneCountryID, &addr.ZoneStateID, &addr.ZoneCityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if state.Valid {
		addr.State = state.String
	}
	return &addr, nil
}

// GetProducts bulk-loads products by id, optionally active only.
func (p *PostgresStore) GetProducts(ctx context.Context, ids []int64, activeOnly bool) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, category_id, brand_category_id, enabled FROM products WHERE id = ANY($1)`
	if activeOnly {
		query += ` AND enabled`
	}

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var prod Product
		if err := rows.Scan(&prod.ID, &prod.CategoryID, &prod.BrandCategoryID, &prod.Enabled); err != nil {
			return nil, err
		}
		products = append(products, prod)
	}
	return products, rows.Err()
}

// GetZone resolves one zone by id.
func (p *PostgresStore) GetZone(ctx context.Context, id int64) (*Zone, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, name, enabled FROM zones WHERE id = $1`, id)

	var zone Zone
	if err := row.Scan(&zone.ID, &zone.Name, &zone.Enabled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &zone, nil
}

// Convert converts an amount between currency codes. The currency_rates
// table stores units per one unit of the base currency.
func (p *PostgresStore) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	fromRate, err := p.rate(ctx, from)
	if err != nil {
		return 0, err
	}
	toRate, err := p.rate(ctx, to)
	if err != nil {
		return 0, err
	}
	return amount / fromRate * toRate, nil
}

// rate returns units of code per one base unit; the base itself is 1 by
// definition.
func (p *PostgresStore) rate(ctx context.Context, code string) (float64, error) {
	code = strings.ToUpper(code)
	if code == p.base {
		return 1, nil
	}

	var r float64
	err := p.pool.QueryRow(ctx, `SELECT rate FROM currency_rates WHERE code = $1`, code).Scan(&r)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if r == 0 {
		return 0, ErrNotFound
	}
	return r, nil
}

// Close closes the database connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func scanRule(row pgx.Row) (Rule, error) {
	var rule Rule
	var conditions []byte
	var updatedAt pgtype.Timestamptz

	if err := row.Scan(&rule.ID, &rule.Name, &rule.Enabled, &conditions, &updatedAt); err != nil {
		return Rule{}, err
	}

	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &rule.Conditions); err != nil {
			return Rule{}, err
		}
	}
	if rule.Conditions == nil {
		rule.Conditions = []condition.Condition{}
	}
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}
