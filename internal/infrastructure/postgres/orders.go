package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/commerce-platform/inventory-service/internal/domain"
)

// Order statuses considered open, i.e. still holding reserved stock
var openOrderStatuses = []string{"pending", "processing", "partially_fulfilled"}

// Orders reads order-service-owned tables for the committed-stock view
type Orders struct {
	db *sqlx.DB
}

// NewOrders creates a new Orders reader
func NewOrders(db *sqlx.DB) *Orders {
	return &Orders{db: db}
}

// ListOpenOrdersForVariant returns the open order lines that hold
// reserved stock for a variant, newest first.
func (o *Orders) ListOpenOrdersForVariant(ctx context.Context, variantID int64) ([]domain.CommittedOrder, error) {
	query, args, err := sqlx.In(
		`SELECT o.id AS order_id, o.status, oi.quantity, o.created_at
		   FROM orders o
		   JOIN order_items oi ON oi.order_id = o.id
		  WHERE oi.variant_id = ? AND o.status IN (?)
		  ORDER BY o.created_at DESC`,
		variantID, openOrderStatuses)
	if err != nil {
		return nil, fmt.Errorf("build open orders query: %w", err)
	}

	var orders []domain.CommittedOrder
	if err := o.db.SelectContext(ctx, &orders, o.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}
	return orders, nil
}
