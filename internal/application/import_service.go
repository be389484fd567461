package application

import (
	"context"
	"errors"
	"time"

	"github.com/commerce-platform/inventory-service/internal/domain"
	"github.com/commerce-platform/inventory-service/pkg/logging"
	"github.com/commerce-platform/inventory-service/pkg/metrics"
)

// StockFeedRow is one line of an external warehouse inventory feed
type StockFeedRow struct {
	SKU       string
	Warehouse string
	OnHand    int
}

// WarehouseFeed is the external inventory feed port. An empty sku pulls
// the full feed.
type WarehouseFeed interface {
	Provider() string
	FetchStock(ctx context.Context, sku string) ([]StockFeedRow, error)
}

const importReason = "ShipStation sync"

// ImportService reconciles the ledger against an external warehouse
// feed. Each feed row becomes an absolute quantity adjustment through
// the same record-plus-movement transaction the mutators use.
type ImportService struct {
	ledger    domain.LedgerStore
	catalog   domain.CatalogReader
	locations domain.LocationReader
	feed      WarehouseFeed
	notifier  domain.SyncNotifier
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewImportService creates a new ImportService
func NewImportService(
	ledger domain.LedgerStore,
	catalog domain.CatalogReader,
	locations domain.LocationReader,
	feed WarehouseFeed,
	notifier domain.SyncNotifier,
	logger *logging.Logger,
	m *metrics.Metrics,
) *ImportService {
	return &ImportService{
		ledger:    ledger,
		catalog:   catalog,
		locations: locations,
		feed:      feed,
		notifier:  notifier,
		logger:    logger.WithComponent("import-service"),
		metrics:   m,
	}
}

// StartImport kicks off an import run in the background and returns
// immediately. The run detaches from the request context.
func (s *ImportService) StartImport(sku string) {
	go func() {
		ctx := context.Background()
		if _, err := s.Import(ctx, sku); err != nil {
			s.logger.WithError(err).Error("Warehouse feed import failed", "provider", s.feed.Provider(), "sku", sku)
		}
	}()
}

// Import pulls the feed and applies each row. Rows referencing unknown
// SKUs or warehouses are counted as skipped, never failed: the feed is
// wider than this catalog.
func (s *ImportService) Import(ctx context.Context, sku string) (*ImportResult, error) {
	start := time.Now()

	rows, err := s.feed.FetchStock(ctx, sku)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Provider: s.feed.Provider()}

	for _, row := range rows {
		applied, err := s.applyRow(ctx, row)
		if err != nil {
			return nil, err
		}
		if applied {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	result.Duration = time.Since(start)
	result.DurationMs = result.Duration.Milliseconds()

	s.logger.Info("Warehouse feed import completed",
		"provider", result.Provider,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"durationMs", result.DurationMs,
	)

	if s.notifier != nil {
		s.notifier.NotifySyncCompleted(ctx, result.Provider, result.Imported, result.Skipped, result.Duration)
	}

	return result, nil
}

func (s *ImportService) applyRow(ctx context.Context, row StockFeedRow) (bool, error) {
	if row.OnHand < 0 {
		return false, nil
	}

	variant, err := s.catalog.GetVariantBySKU(ctx, row.SKU)
	if err != nil {
		if errors.Is(err, domain.ErrVariantNotFound) {
			return false, nil
		}
		return false, err
	}

	location, err := s.locations.GetLocationByName(ctx, row.Warehouse)
	if err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			return false, nil
		}
		return false, err
	}

	var change *domain.InventoryChange

	err = s.ledger.WithinTx(ctx, func(tx domain.LedgerTx) error {
		record, err := findOrCreateRecord(ctx, tx, variant.ID, location.ID, domain.DefaultLowStockThreshold)
		if err != nil {
			return err
		}

		delta := row.OnHand - record.Quantity
		if delta == 0 {
			return nil
		}

		previousQty := record.Quantity
		record.Quantity = row.OnHand
		if err := tx.UpdateRecord(ctx, record); err != nil {
			return err
		}

		movementType := domain.LedgerTypeForDelta(delta)
		movement := &domain.InventoryMovement{
			InventoryID: record.ID,
			Quantity:    delta,
			Type:        movementType,
			Reason:      importReason,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.AppendMovement(ctx, movement); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.RecordMovement(string(movementType))
		}

		change = &domain.InventoryChange{
			InventoryID:  record.ID,
			VariantID:    record.VariantID,
			LocationID:   record.LocationID,
			PreviousQty:  previousQty,
			NewQty:       record.Quantity,
			MovementType: movementType,
			Reason:       importReason,
			Available:    record.Available(),
			Threshold:    record.LowStockAlert,
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if change != nil && s.notifier != nil {
		s.notifier.Notify(ctx, *change)
	}

	return true, nil
}
