package application

import (
	"time"

	"github.com/commerce-platform/inventory-service/internal/domain"
	"github.com/commerce-platform/inventory-service/pkg/api"
)

// UpdateRecordInput is the body of the record-scoped update endpoint
type UpdateRecordInput struct {
	Quantity      *int    `json:"quantity" binding:"omitempty,min=0"`
	LowStockAlert *int    `json:"lowStockAlert" binding:"omitempty,min=0"`
	Reason        *string `json:"reason"`
}

// UpdateVariantInput is the body of the variant-scoped update endpoints
type UpdateVariantInput struct {
	OnHand             *int    `json:"onHand" binding:"omitempty,min=0"`
	Committed          *int    `json:"committed" binding:"omitempty,min=0"`
	LowStockAlert      *int    `json:"lowStockAlert" binding:"omitempty,min=0"`
	Reason             *string `json:"reason"`
	Barcode            *string `json:"barcode"`
	SellWhenOutOfStock *bool   `json:"sellWhenOutOfStock"`
}

// CreateMovementInput is the body of the single movement endpoint
type CreateMovementInput struct {
	VariantID  int64  `json:"variantId" binding:"required"`
	LocationID int64  `json:"locationId" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	Type       string `json:"type" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

// BulkAdjustItem adjusts one record by absolute quantity or signed delta
type BulkAdjustItem struct {
	RecordID int64 `json:"recordId" binding:"required"`
	Quantity *int  `json:"quantity"`
	Delta    *int  `json:"delta"`
}

// BulkAdjustInput is the body of the bulk adjust endpoint
type BulkAdjustInput struct {
	Items  []BulkAdjustItem `json:"items" binding:"required,min=1"`
	Reason string           `json:"reason"`
}

// BulkMovementItem targets one (variant, location) pair
type BulkMovementItem struct {
	VariantID  int64 `json:"variantId" binding:"required"`
	LocationID int64 `json:"locationId" binding:"required"`
	Quantity   int   `json:"quantity" binding:"required,gt=0"`
}

// BulkMovementInput is the body of the bulk movement endpoint
type BulkMovementInput struct {
	Items  []BulkMovementItem `json:"items" binding:"required,min=1"`
	Type   string             `json:"type" binding:"required"`
	Reason string             `json:"reason" binding:"required"`
}

// BulkTransferItem names a source record (real or synthetic) to move from
type BulkTransferItem struct {
	ID       string `json:"id" binding:"required"`
	Quantity *int   `json:"quantity"`
}

// BulkTransferInput is the body of the bulk transfer endpoint
type BulkTransferInput struct {
	Items            []BulkTransferItem `json:"items" binding:"required,min=1"`
	TargetLocationID int64              `json:"targetLocationId" binding:"required"`
	Reason           string             `json:"reason"`
}

// Transfer outcome labels
const (
	TransferOutcomeTransferred = "transferred"
	TransferOutcomeCreated     = "created"
	TransferOutcomeSkipped     = "skipped"
)

// TransferResult reports the outcome of one transfer line item
type TransferResult struct {
	Source   string                  `json:"source"`
	Outcome  string                  `json:"outcome"`
	Quantity int                     `json:"quantity"`
	Target   *domain.InventoryRecord `json:"target,omitempty"`
	Note     string                  `json:"note,omitempty"`
}

// MovementResult pairs an updated record with its appended movement.
// Movement is nil when clamping left nothing to apply.
type MovementResult struct {
	Record   domain.InventoryRecord    `json:"record"`
	Movement *domain.InventoryMovement `json:"movement,omitempty"`
}

// ManagementRow is one per-variant rollup in the management listing
type ManagementRow struct {
	VariantID         int64              `json:"variantId"`
	ProductID         int64              `json:"productId"`
	ProductName       string             `json:"productName"`
	VariantName       string             `json:"variantName"`
	SKU               string             `json:"sku"`
	Price             float64            `json:"price"`
	CompareAtPrice    *float64           `json:"compareAtPrice,omitempty"`
	OnHand            int                `json:"onHand"`
	Committed         int                `json:"committed"`
	Available         int                `json:"available"`
	LowStockThreshold int                `json:"lowStockThreshold"`
	Status            domain.StockStatus `json:"status"`
}

// BadgeCounts are computed over the unfiltered variant set so UI
// counters stay stable across filter and page changes.
type BadgeCounts struct {
	All        int `json:"all"`
	LowStock   int `json:"lowStock"`
	OutOfStock int `json:"outOfStock"`
}

// ManagementPage is the paginated management listing response
type ManagementPage struct {
	api.PageResponse[ManagementRow]
	Counts BadgeCounts `json:"counts"`
}

// FlatRow is one per-record (or synthetic) row in the flat listing
type FlatRow struct {
	ID           string             `json:"id"`
	Synthetic    bool               `json:"synthetic"`
	VariantID    int64              `json:"variantId"`
	VariantName  string             `json:"variantName"`
	ProductName  string             `json:"productName"`
	SKU          string             `json:"sku"`
	LocationID   int64              `json:"locationId,omitempty"`
	LocationName string             `json:"location"`
	Quantity     int                `json:"quantity"`
	Reserved     int                `json:"reserved"`
	Available    int                `json:"available"`
	Status       domain.StockStatus `json:"status"`
}

// LocationDetail is one location line in the variant detail view
type LocationDetail struct {
	RecordID     int64  `json:"recordId"`
	LocationID   int64  `json:"locationId"`
	LocationName string `json:"location"`
	Quantity     int    `json:"quantity"`
	Reserved     int    `json:"reserved"`
	Available    int    `json:"available"`
	IsPrimary    bool   `json:"isPrimary"`
}

// VariantDetail is the full per-variant breakdown
type VariantDetail struct {
	Variant            domain.Variant     `json:"variant"`
	Locations          []LocationDetail   `json:"locations"`
	Aggregate          domain.Aggregate   `json:"aggregate"`
	Status             domain.StockStatus `json:"status"`
	Barcode            *string            `json:"barcode,omitempty"`
	SellWhenOutOfStock bool               `json:"sellWhenOutOfStock"`
}

// LocationAvailability is one location line in the availability view
type LocationAvailability struct {
	LocationID   int64  `json:"locationId"`
	LocationName string `json:"location"`
	Available    int    `json:"available"`
}

// Availability is the public availability response for one variant
type Availability struct {
	VariantID int64                  `json:"variantId"`
	Locations []LocationAvailability `json:"locations"`
	Total     int                    `json:"total"`
	InStock   bool                   `json:"inStock"`
}

// ImportResult summarizes one warehouse feed import run
type ImportResult struct {
	Provider   string        `json:"provider"`
	Imported   int           `json:"imported"`
	Skipped    int           `json:"skipped"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"durationMs"`
}
