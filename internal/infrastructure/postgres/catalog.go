package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/commerce-platform/inventory-service/internal/domain"
)

const variantColumns = `
	v.id, v.product_id, v.name, v.sku, v.price, v.compare_at_price, v.active,
	p.name AS product_name`

// Catalog reads catalog-owned products and variants. The ledger never
// writes these tables.
type Catalog struct {
	db *sqlx.DB
}

// NewCatalog creates a new Catalog reader
func NewCatalog(db *sqlx.DB) *Catalog {
	return &Catalog{db: db}
}

// GetVariant loads one active variant by id
func (c *Catalog) GetVariant(ctx context.Context, id int64) (*domain.Variant, error) {
	var variant domain.Variant
	err := c.db.GetContext(ctx, &variant,
		`SELECT `+variantColumns+`
		   FROM variants v
		   JOIN products p ON p.id = v.product_id
		  WHERE v.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("variant %d: %w", id, domain.ErrVariantNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return &variant, nil
}

// GetVariantBySKU loads one variant by SKU
func (c *Catalog) GetVariantBySKU(ctx context.Context, sku string) (*domain.Variant, error) {
	var variant domain.Variant
	err := c.db.GetContext(ctx, &variant,
		`SELECT `+variantColumns+`
		   FROM variants v
		   JOIN products p ON p.id = v.product_id
		  WHERE LOWER(v.sku) = LOWER($1)`, sku)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("variant with sku %q: %w", sku, domain.ErrVariantNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get variant by sku: %w", err)
	}
	return &variant, nil
}

// SearchVariants returns active variants matching a free-text search.
// Each whitespace-separated term must match SKU, variant name or
// product name (AND of ORs). An empty search returns all active
// variants.
func (c *Catalog) SearchVariants(ctx context.Context, search string) ([]domain.Variant, error) {
	query := `SELECT ` + variantColumns + `
	   FROM variants v
	   JOIN products p ON p.id = v.product_id
	  WHERE v.active AND p.active`

	var args []interface{}
	for i, term := range strings.Fields(search) {
		n := i + 1
		query += fmt.Sprintf(
			" AND (v.sku ILIKE $%d OR v.name ILIKE $%d OR p.name ILIKE $%d)", n, n, n)
		args = append(args, "%"+term+"%")
	}
	query += " ORDER BY p.name, v.name"

	var variants []domain.Variant
	if err := c.db.SelectContext(ctx, &variants, query, args...); err != nil {
		return nil, fmt.Errorf("search variants: %w", err)
	}
	return variants, nil
}
