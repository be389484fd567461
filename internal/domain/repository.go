package domain

import (
	"context"
	"time"
)

// LedgerTx is the transactional view of the ledger store. Every mutator
// runs its reads and writes through one LedgerTx; the store commits or
// rolls back the whole unit.
type LedgerTx interface {
	GetRecord(ctx context.Context, id int64) (*InventoryRecord, error)
	GetRecordByVariantLocation(ctx context.Context, variantID, locationID int64) (*InventoryRecord, error)
	FindRecordsByVariant(ctx context.Context, variantID int64) ([]InventoryRecord, error)
	CreateRecord(ctx context.Context, record *InventoryRecord) error
	// UpdateRecord performs an optimistic write: it matches on the
	// record's current version and returns ErrConcurrentUpdate when a
	// racing transaction got there first.
	UpdateRecord(ctx context.Context, record *InventoryRecord) error
	AppendMovement(ctx context.Context, movement *InventoryMovement) error
}

// LedgerStore is the persistence port for inventory records and movements
type LedgerStore interface {
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error

	GetRecord(ctx context.Context, id int64) (*InventoryRecord, error)
	FindRecordsByVariant(ctx context.Context, variantID int64) ([]InventoryRecord, error)
	ListRecords(ctx context.Context) ([]InventoryRecord, error)
	ListRecordsByLocation(ctx context.Context, locationID int64) ([]InventoryRecord, error)
	ListMovements(ctx context.Context, inventoryID int64, limit, offset int64) ([]InventoryMovement, int64, error)
}

// CatalogReader reads catalog-owned variants; the ledger never writes them
type CatalogReader interface {
	GetVariant(ctx context.Context, id int64) (*Variant, error)
	GetVariantBySKU(ctx context.Context, sku string) (*Variant, error)
	// SearchVariants returns active variants matching a free-text
	// search against SKU, variant name and product name; every
	// whitespace-separated term must match at least one field. An
	// empty search returns all active variants.
	SearchVariants(ctx context.Context, search string) ([]Variant, error)
}

// LocationReader reads stock locations; setup/import owns their lifecycle
type LocationReader interface {
	GetLocation(ctx context.Context, id int64) (*Location, error)
	GetLocationByName(ctx context.Context, name string) (*Location, error)
	ListActiveLocations(ctx context.Context) ([]Location, error)
}

// CommittedOrder is an open order line holding reserved stock
type CommittedOrder struct {
	OrderID   int64     `db:"order_id" json:"orderId"`
	Status    string    `db:"status" json:"status"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// OrderReader reads order-service-owned data for the committed view
type OrderReader interface {
	ListOpenOrdersForVariant(ctx context.Context, variantID int64) ([]CommittedOrder, error)
}

// InventoryChange describes a committed mutation for downstream sync
type InventoryChange struct {
	InventoryID  int64
	VariantID    int64
	LocationID   int64
	PreviousQty  int
	NewQty       int
	MovementType MovementType
	Reason       string
	Available    int
	Threshold    int
}

// LowStock reports whether the change left the record at or under its
// low-stock threshold.
func (c InventoryChange) LowStock() bool {
	return c.Available <= c.Threshold
}

// TransferNotice describes a committed stock relocation. FromLocationID
// is zero when the transfer created stock from a synthetic source.
type TransferNotice struct {
	VariantID      int64
	FromLocationID int64
	ToLocationID   int64
	Quantity       int
}

// SyncNotifier is the fire-and-forget downstream notification hook.
// Implementations must never block the mutation path or surface errors
// to it.
type SyncNotifier interface {
	Notify(ctx context.Context, change InventoryChange)
	NotifyTransferApplied(ctx context.Context, notice TransferNotice)
	NotifySyncCompleted(ctx context.Context, provider string, imported, skipped int, duration time.Duration)
}
