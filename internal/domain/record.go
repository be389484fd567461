package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Domain errors. Message text matters: the HTTP layer maps these onto
// the error taxonomy by inspecting the wrapped message.
var (
	ErrRecordNotFound   = errors.New("inventory record not found")
	ErrVariantNotFound  = errors.New("variant not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrConcurrentUpdate = errors.New("inventory record was concurrently modified")
)

// DefaultLowStockThreshold applies to new records and empty aggregates
const DefaultLowStockThreshold = 10

// Location is a stock-holding place, physical or virtual
type Location struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

// Product is catalog-owned; the ledger only reads it
type Product struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

// Variant is catalog-owned; the ledger references it by id
type Variant struct {
	ID             int64    `db:"id" json:"id"`
	ProductID      int64    `db:"product_id" json:"productId"`
	ProductName    string   `db:"product_name" json:"productName"`
	Name           string   `db:"name" json:"name"`
	SKU            string   `db:"sku" json:"sku"`
	Price          float64  `db:"price" json:"price"`
	CompareAtPrice *float64 `db:"compare_at_price" json:"compareAtPrice,omitempty"`
	Active         bool     `db:"active" json:"active"`
}

// InventoryRecord is the unique (variant, location) stock row.
// Version is bumped on every write; stale writers get ErrConcurrentUpdate.
type InventoryRecord struct {
	ID                 int64     `db:"id" json:"id"`
	VariantID          int64     `db:"variant_id" json:"variantId"`
	LocationID         int64     `db:"location_id" json:"locationId"`
	Quantity           int       `db:"quantity" json:"quantity"`
	ReservedQty        int       `db:"reserved_qty" json:"reservedQty"`
	LowStockAlert      int       `db:"low_stock_alert" json:"lowStockAlert"`
	Barcode            *string   `db:"barcode" json:"barcode,omitempty"`
	SellWhenOutOfStock bool      `db:"sell_when_out_of_stock" json:"sellWhenOutOfStock"`
	Version            int       `db:"version" json:"-"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// Available returns the sellable quantity for this single record
func (r *InventoryRecord) Available() int {
	available := r.Quantity - max(0, abs(r.ReservedQty))
	if available < 0 {
		return 0
	}
	return available
}

// PrimaryRecord selects the record whole-variant updates target: the one
// with the minimum id, i.e. the oldest by creation order. Returns nil for
// an empty set.
func PrimaryRecord(records []InventoryRecord) *InventoryRecord {
	if len(records) == 0 {
		return nil
	}
	primary := &records[0]
	for i := range records[1:] {
		if records[i+1].ID < primary.ID {
			primary = &records[i+1]
		}
	}
	return primary
}

// syntheticPrefix marks a virtual zero row on the wire
const syntheticPrefix = "synthetic-"

// RecordRef identifies either a real persisted record or a synthetic
// (virtual, never persisted) zero row for a variant with no inventory.
type RecordRef struct {
	RecordID  int64
	VariantID int64
	Synthetic bool
}

// RealRef builds a reference to a persisted record
func RealRef(recordID int64) RecordRef {
	return RecordRef{RecordID: recordID}
}

// SyntheticRef builds a reference to a virtual zero row for a variant
func SyntheticRef(variantID int64) RecordRef {
	return RecordRef{VariantID: variantID, Synthetic: true}
}

// ParseRecordRef parses a wire identifier, which is either a numeric
// record id or "synthetic-<variantId>".
func ParseRecordRef(raw string) (RecordRef, error) {
	if rest, ok := strings.CutPrefix(raw, syntheticPrefix); ok {
		variantID, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return RecordRef{}, fmt.Errorf("invalid synthetic record id %q", raw)
		}
		return SyntheticRef(variantID), nil
	}

	recordID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return RecordRef{}, fmt.Errorf("invalid record id %q", raw)
	}
	return RealRef(recordID), nil
}

// String renders the wire form of the reference
func (r RecordRef) String() string {
	if r.Synthetic {
		return syntheticPrefix + strconv.FormatInt(r.VariantID, 10)
	}
	return strconv.FormatInt(r.RecordID, 10)
}

// SyntheticLocationName labels virtual rows in flat listings
const SyntheticLocationName = "Unassigned"

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
