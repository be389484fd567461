package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commerce-platform/inventory-service/internal/domain"
	apperrors "github.com/commerce-platform/inventory-service/pkg/errors"
	"github.com/commerce-platform/inventory-service/pkg/logging"
	"github.com/commerce-platform/inventory-service/pkg/metrics"
)

// InventoryService is the single-location mutator: it applies a bounded
// set of field changes to exactly one record, appends the matching
// movement in the same transaction, and notifies downstream after commit.
type InventoryService struct {
	ledger   domain.LedgerStore
	catalog  domain.CatalogReader
	notifier domain.SyncNotifier
	logger   *logging.Logger
	metrics  *metrics.Metrics
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	ledger domain.LedgerStore,
	catalog domain.CatalogReader,
	notifier domain.SyncNotifier,
	logger *logging.Logger,
	m *metrics.Metrics,
) *InventoryService {
	return &InventoryService{
		ledger:   ledger,
		catalog:  catalog,
		notifier: notifier,
		logger:   logger.WithComponent("inventory-service"),
		metrics:  m,
	}
}

// UpdateRecord updates quantity and/or low-stock threshold on one record
// by its own id, logging an INBOUND or OUTBOUND movement for any
// quantity change.
func (s *InventoryService) UpdateRecord(ctx context.Context, recordID int64, input UpdateRecordInput) (*domain.InventoryRecord, error) {
	if input.Quantity == nil && input.LowStockAlert == nil {
		return nil, apperrors.ErrValidation("at least one of quantity or lowStockAlert is required")
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, apperrors.ErrValidation("quantity must not be negative")
	}
	if input.LowStockAlert != nil && *input.LowStockAlert < 0 {
		return nil, apperrors.ErrValidation("lowStockAlert must not be negative")
	}

	var (
		updated *domain.InventoryRecord
		change  *domain.InventoryChange
	)

	err := s.ledger.WithinTx(ctx, func(tx domain.LedgerTx) error {
		record, err := tx.GetRecord(ctx, recordID)
		if err != nil {
			return err
		}

		previousQty := record.Quantity

		if input.LowStockAlert != nil {
			record.LowStockAlert = *input.LowStockAlert
		}

		var delta int
		if input.Quantity != nil {
			delta = *input.Quantity - record.Quantity
			record.Quantity = *input.Quantity
		}

		if err := tx.UpdateRecord(ctx, record); err != nil {
			return err
		}

		if delta != 0 {
			movementType := domain.LedgerTypeForDelta(delta)
			if err := s.appendMovement(ctx, tx, record.ID, delta, movementType, reasonOrDefault(input.Reason)); err != nil {
				return err
			}
			change = s.changeFor(record, previousQty, movementType, reasonOrDefault(input.Reason))
		}

		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyChange(ctx, change)
	return updated, nil
}

// UpdateVariantPrimary updates the variant's primary record, i.e. the
// lowest-id record across its locations.
func (s *InventoryService) UpdateVariantPrimary(ctx context.Context, variantID int64, input UpdateVariantInput) (*domain.InventoryRecord, error) {
	if err := validateVariantInput(input); err != nil {
		return nil, err
	}

	if _, err := s.catalog.GetVariant(ctx, variantID); err != nil {
		return nil, err
	}

	var (
		updated *domain.InventoryRecord
		change  *domain.InventoryChange
	)

	err := s.ledger.WithinTx(ctx, func(tx domain.LedgerTx) error {
		records, err := tx.FindRecordsByVariant(ctx, variantID)
		if err != nil {
			return err
		}

		record := domain.PrimaryRecord(records)
		if record == nil {
			return fmt.Errorf("variant %d: %w", variantID, domain.ErrRecordNotFound)
		}

		updated, change, err = s.applyVariantInput(ctx, tx, record, input, domain.LedgerTypeForDelta)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyChange(ctx, change)
	return updated, nil
}

// UpdateVariantLocation updates the record for one (variant, location)
// pair. Quantity changes are logged as ADJUSTMENT movements since the
// caller is reconciling a specific location rather than moving stock.
func (s *InventoryService) UpdateVariantLocation(ctx context.Context, variantID, locationID int64, input UpdateVariantInput) (*domain.InventoryRecord, error) {
	if err := validateVariantInput(input); err != nil {
		return nil, err
	}

	var (
		updated *domain.InventoryRecord
		change  *domain.InventoryChange
	)

	err := s.ledger.WithinTx(ctx, func(tx domain.LedgerTx) error {
		record, err := tx.GetRecordByVariantLocation(ctx, variantID, locationID)
		if err != nil {
			return err
		}

		updated, change, err = s.applyVariantInput(ctx, tx, record, input, func(int) domain.MovementType {
			return domain.MovementAdjustment
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyChange(ctx, change)
	return updated, nil
}

// CreateMovement applies one typed movement, creating the record for the
// (variant, location) pair when it does not exist yet.
func (s *InventoryService) CreateMovement(ctx context.Context, input CreateMovementInput) (*MovementResult, error) {
	movementType, err := domain.ParseMovementType(input.Type)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}
	if movementType.Direction() == 0 {
		return nil, apperrors.ErrValidation("movement type ADJUSTMENT carries no direction; use ADJUSTMENT_IN or ADJUSTMENT_OUT")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.ErrValidation("quantity must be positive")
	}

	if _, err := s.catalog.GetVariant(ctx, input.VariantID); err != nil {
		return nil, err
	}

	var (
		result *MovementResult
		change *domain.InventoryChange
	)

	err = s.ledger.WithinTx(ctx, func(tx domain.LedgerTx) error {
		record, err := findOrCreateRecord(ctx, tx, input.VariantID, input.LocationID, domain.DefaultLowStockThreshold)
		if err != nil {
			return err
		}

		previousQty := record.Quantity
		delta := input.Quantity * movementType.Direction()

		newQty := record.Quantity + delta
		if newQty < 0 {
			newQty = 0
		}
		applied := newQty - record.Quantity
		record.Quantity = newQty

		if err := tx.UpdateRecord(ctx, record); err != nil {
			return err
		}

		if applied == 0 {
			result = &MovementResult{Record: *record}
			return nil
		}

		ledgerType := domain.LedgerTypeForDelta(applied)
		movement := &domain.InventoryMovement{
			InventoryID: record.ID,
			Quantity:    applied,
			Type:        ledgerType,
			Reason:      input.Reason,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.AppendMovement(ctx, movement); err != nil {
			return err
		}
		s.recordMovementMetric(ledgerType)

		result = &MovementResult{Record: *record, Movement: movement}
		change = s.changeFor(record, previousQty, ledgerType, input.Reason)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyChange(ctx, change)
	return result, nil
}

// applyVariantInput writes the variant-scoped field changes to a record
// already loaded inside the transaction.
func (s *InventoryService) applyVariantInput(
	ctx context.Context,
	tx domain.LedgerTx,
	record *domain.InventoryRecord,
	input UpdateVariantInput,
	typeForDelta func(int) domain.MovementType,
) (*domain.InventoryRecord, *domain.InventoryChange, error) {
	previousQty := record.Quantity

	if input.Committed != nil {
		record.ReservedQty = *input.Committed
	}
	if input.LowStockAlert != nil {
		record.LowStockAlert = *input.LowStockAlert
	}
	if input.Barcode != nil {
		record.Barcode = input.Barcode
	}
	if input.SellWhenOutOfStock != nil {
		record.SellWhenOutOfStock = *input.SellWhenOutOfStock
	}

	var delta int
	if input.OnHand != nil {
		delta = *input.OnHand - record.Quantity
		record.Quantity = *input.OnHand
	}

	if err := tx.UpdateRecord(ctx, record); err != nil {
		return nil, nil, err
	}

	var change *domain.InventoryChange
	if delta != 0 {
		movementType := typeForDelta(delta)
		if err := s.appendMovement(ctx, tx, record.ID, delta, movementType, reasonOrDefault(input.Reason)); err != nil {
			return nil, nil, err
		}
		change = s.changeFor(record, previousQty, movementType, reasonOrDefault(input.Reason))
	}

	return record, change, nil
}

func (s *InventoryService) appendMovement(ctx context.Context, tx domain.LedgerTx, inventoryID int64, delta int, movementType domain.MovementType, reason string) error {
	movement := &domain.InventoryMovement{
		InventoryID: inventoryID,
		Quantity:    delta,
		Type:        movementType,
		Reason:      reason,
		CreatedAt:   time.Now().UTC(),
	}
	if err := tx.AppendMovement(ctx, movement); err != nil {
		return err
	}
	s.recordMovementMetric(movementType)
	return nil
}

func (s *InventoryService) recordMovementMetric(movementType domain.MovementType) {
	if s.metrics != nil {
		s.metrics.RecordMovement(string(movementType))
	}
}

func (s *InventoryService) changeFor(record *domain.InventoryRecord, previousQty int, movementType domain.MovementType, reason string) *domain.InventoryChange {
	return &domain.InventoryChange{
		InventoryID:  record.ID,
		VariantID:    record.VariantID,
		LocationID:   record.LocationID,
		PreviousQty:  previousQty,
		NewQty:       record.Quantity,
		MovementType: movementType,
		Reason:       reason,
		Available:    record.Available(),
		Threshold:    record.LowStockAlert,
	}
}

// notifyChange hands the committed change to the sync notifier. The
// notifier is fire and forget; nothing here can fail the mutation.
func (s *InventoryService) notifyChange(ctx context.Context, change *domain.InventoryChange) {
	if change == nil || s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, *change)
}

// findOrCreateRecord loads the record for a (variant, location) pair or
// creates a zero-quantity one with the given threshold.
func findOrCreateRecord(ctx context.Context, tx domain.LedgerTx, variantID, locationID int64, threshold int) (*domain.InventoryRecord, error) {
	record, err := tx.GetRecordByVariantLocation(ctx, variantID, locationID)
	if err == nil {
		return record, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	record = &domain.InventoryRecord{
		VariantID:     variantID,
		LocationID:    locationID,
		Quantity:      0,
		LowStockAlert: threshold,
		Version:       1,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := tx.CreateRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrRecordNotFound) ||
		errors.Is(err, domain.ErrVariantNotFound) ||
		errors.Is(err, domain.ErrLocationNotFound)
}

func validateVariantInput(input UpdateVariantInput) error {
	if input.OnHand != nil && *input.OnHand < 0 {
		return apperrors.ErrValidation("onHand must not be negative")
	}
	if input.Committed != nil && *input.Committed < 0 {
		return apperrors.ErrValidation("committed must not be negative")
	}
	if input.LowStockAlert != nil && *input.LowStockAlert < 0 {
		return apperrors.ErrValidation("lowStockAlert must not be negative")
	}
	return nil
}

func reasonOrDefault(reason *string) string {
	if reason != nil && *reason != "" {
		return *reason
	}
	return domain.DefaultMovementReason
}
