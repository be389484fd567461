package events

import (
	"time"
)

// EventType constants for inventory domain events
const (
	InventoryUpdated = "commerce.inventory.updated"
	LowStockAlert    = "commerce.inventory.low-stock-alert"
	TransferApplied  = "commerce.inventory.transfer-applied"
	SyncCompleted    = "commerce.inventory.sync-completed"
)

// Source constants for event sources
const (
	SourceInventory = "/commerce/inventory-service"
)

// CloudEvent represents a CloudEvents v1.0 compliant event
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	CorrelationID string `json:"correlationid,omitempty"`
}

// InventoryUpdatedData represents the data payload for InventoryUpdated events
type InventoryUpdatedData struct {
	InventoryID  int64  `json:"inventoryId"`
	VariantID    int64  `json:"variantId"`
	LocationID   int64  `json:"locationId"`
	PreviousQty  int    `json:"previousQuantity"`
	NewQty       int    `json:"newQuantity"`
	MovementType string `json:"movementType"`
	Reason       string `json:"reason,omitempty"`
}

// LowStockAlertData represents the data payload for LowStockAlert events
type LowStockAlertData struct {
	InventoryID int64  `json:"inventoryId"`
	VariantID   int64  `json:"variantId"`
	LocationID  int64  `json:"locationId"`
	SKU         string `json:"sku,omitempty"`
	Available   int    `json:"available"`
	Threshold   int    `json:"threshold"`
}

// TransferAppliedData represents the data payload for TransferApplied events
type TransferAppliedData struct {
	VariantID      int64 `json:"variantId"`
	FromLocationID int64 `json:"fromLocationId,omitempty"`
	ToLocationID   int64 `json:"toLocationId"`
	Quantity       int   `json:"quantity"`
}

// SyncCompletedData represents the data payload for SyncCompleted events
type SyncCompletedData struct {
	Provider     string `json:"provider"`
	RowsImported int    `json:"rowsImported"`
	RowsSkipped  int    `json:"rowsSkipped"`
	DurationMs   int64  `json:"durationMs"`
}
