package application

import (
	"context"
	"fmt"
	"time"

	"github.com/commerce-platform/inventory-service/internal/domain"
	apperrors "github.com/commerce-platform/inventory-service/pkg/errors"
	"github.com/commerce-platform/inventory-service/pkg/logging"
	"github.com/commerce-platform/inventory-service/pkg/metrics"
)

// BulkService runs the three batch workflows. Each call is one
// transaction: the first failing line item rolls back the whole batch.
type BulkService struct {
	ledger   domain.LedgerStore
	catalog  domain.CatalogReader
	notifier domain.SyncNotifier
	logger   *logging.Logger
	metrics  *metrics.Metrics
}

// NewBulkService creates a new BulkService
func NewBulkService(
	ledger domain.LedgerStore,
	catalog domain.CatalogReader,
	notifier domain.SyncNotifier,
	logger *logging.Logger,
	m *metrics.Metrics,
) *BulkService {
	return &BulkService{
		ledger:   ledger,
		catalog:  catalog,
		notifier: notifier,
		logger:   logger.WithComponent("bulk-service"),
		metrics:  m,
	}
}

// BulkAdjust sets absolute quantities or applies signed deltas across a
// batch of records. Deltas clamp at zero; the appended movement records
// the quantity actually applied, not the requested delta.
func (s *BulkService) BulkAdjust(ctx context.Context, input BulkAdjustInput) ([]domain.InventoryRecord, error) {
	for i, item := range input.Items {
		if item.Quantity == nil && item.Delta == nil {
			return nil, apperrors.ErrValidation(fmt.Sprintf("item %d: one of quantity or delta is required", i))
		}
		if item.Quantity != nil && *item.Quantity < 0 {
			return nil, apperrors.ErrValidation(fmt.Sprintf("item %d: quantity must not be negative", i))
		}
	}

	var (
		updated []domain.InventoryRecord
		changes []domain.InventoryChange
	)

	err := s.ledger.WithinTx(ctx, func(tx domain.LedgerTx) error {
		for i, item := range input.Items {
			record, err := tx.GetRecord(ctx, item.RecordID)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}

			previousQty := record.Quantity

			var newQty int
			if item.Quantity != nil {
				newQty = *item.Quantity
			} else {
				newQty = record.Quantity + *item.Delta
				if newQty < 0 {
					newQty = 0
				}
			}

			applied := newQty - record.Quantity
			record.Quantity = newQty

			if err := tx.UpdateRecord(ctx, record); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}

			if applied != 0 {
				movementType := domain.LedgerTypeForDelta(applied)
				if err := s.appendMovement(ctx, tx, record.ID, applied, movementType, reasonFor(input.Reason)); err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
				changes = append(changes, changeFromRecord(record, previousQty, movementType, reasonFor(input.Reason)))
			}

			updated = append(updated, *record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAll(ctx, changes)
	return updated, nil
}

// BulkMovement applies one typed movement to each (variant, location)
// pair, creating missing records at quantity zero first.
func (s *BulkService) BulkMovement(ctx context.Context, input BulkMovementInput) ([]MovementResult, error) {
	movementType, err := domain.ParseMovementType(input.Type)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}
	direction := movementType.Direction()
	if direction == 0 {
		return nil, apperrors.ErrValidation("movement type ADJUSTMENT carries no direction; use ADJUSTMENT_IN or ADJUSTMENT_OUT")
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.ErrValidation(fmt.Sprintf("item %d: quantity must be positive", i))
		}
	}

	var (
		results []MovementResult
		changes []domain.InventoryChange
	)

	err = s.ledger.WithinTx(ctx, func(tx domain.LedgerTx) error {
		for i, item := range input.Items {
			if _, err := s.catalog.GetVariant(ctx, item.VariantID); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}

			record, err := findOrCreateRecord(ctx, tx, item.VariantID, item.LocationID, domain.DefaultLowStockThreshold)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}

			previousQty := record.Quantity
			newQty := record.Quantity + item.Quantity*direction
			if newQty < 0 {
				newQty = 0
			}
			applied := newQty - record.Quantity
			record.Quantity = newQty

			if err := tx.UpdateRecord(ctx, record); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}

			result := MovementResult{Record: *record}
			if applied != 0 {
				ledgerType := domain.LedgerTypeForDelta(applied)
				movement := &domain.InventoryMovement{
					InventoryID: record.ID,
					Quantity:    applied,
					Type:        ledgerType,
					Reason:      input.Reason,
					CreatedAt:   time.Now().UTC(),
				}
				if err := tx.AppendMovement(ctx, movement); err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
				s.recordMovementMetric(ledgerType)

				result.Movement = movement
				changes = append(changes, changeFromRecord(record, previousQty, ledgerType, input.Reason))
			}

			results = append(results, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAll(ctx, changes)
	return results, nil
}

// BulkTransfer relocates stock into one target location. Real sources
// are decremented with an OUTBOUND movement; synthetic sources create
// stock at the target with only an INBOUND movement.
func (s *BulkService) BulkTransfer(ctx context.Context, input BulkTransferInput) ([]TransferResult, error) {
	refs := make([]domain.RecordRef, len(input.Items))
	for i, item := range input.Items {
		ref, err := domain.ParseRecordRef(item.ID)
		if err != nil {
			return nil, apperrors.ErrValidation(fmt.Sprintf("item %d: %s", i, err.Error()))
		}
		if ref.Synthetic && (item.Quantity == nil || *item.Quantity <= 0) {
			return nil, apperrors.ErrValidation(fmt.Sprintf("item %d: a synthetic source requires an explicit positive quantity", i))
		}
		refs[i] = ref
	}

	reason := input.Reason
	if reason == "" {
		reason = "Stock transfer"
	}

	var (
		results []TransferResult
		changes []domain.InventoryChange
		notices []domain.TransferNotice
	)

	err := s.ledger.WithinTx(ctx, func(tx domain.LedgerTx) error {
		for i, item := range input.Items {
			ref := refs[i]

			if ref.Synthetic {
				result, change, err := s.transferFromSynthetic(ctx, tx, ref, *item.Quantity, input.TargetLocationID, reason)
				if err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
				results = append(results, result)
				changes = append(changes, change)
				notices = append(notices, domain.TransferNotice{
					VariantID:    change.VariantID,
					ToLocationID: change.LocationID,
					Quantity:     result.Quantity,
				})
				continue
			}

			result, itemChanges, err := s.transferFromRecord(ctx, tx, ref, item.Quantity, input.TargetLocationID, reason)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results = append(results, result)
			changes = append(changes, itemChanges...)
			if result.Outcome == TransferOutcomeTransferred {
				notices = append(notices, domain.TransferNotice{
					VariantID:      itemChanges[0].VariantID,
					FromLocationID: itemChanges[0].LocationID,
					ToLocationID:   itemChanges[1].LocationID,
					Quantity:       result.Quantity,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAll(ctx, changes)
	if s.notifier != nil {
		for _, notice := range notices {
			s.notifier.NotifyTransferApplied(ctx, notice)
		}
	}
	return results, nil
}

// transferFromSynthetic handles a source with no real record: a pure
// stock creation at the target, labeled as such.
func (s *BulkService) transferFromSynthetic(
	ctx context.Context,
	tx domain.LedgerTx,
	ref domain.RecordRef,
	quantity int,
	targetLocationID int64,
	reason string,
) (TransferResult, domain.InventoryChange, error) {
	if _, err := s.catalog.GetVariant(ctx, ref.VariantID); err != nil {
		return TransferResult{}, domain.InventoryChange{}, err
	}

	target, err := findOrCreateRecord(ctx, tx, ref.VariantID, targetLocationID, domain.DefaultLowStockThreshold)
	if err != nil {
		return TransferResult{}, domain.InventoryChange{}, err
	}

	previousQty := target.Quantity
	target.Quantity += quantity
	if err := tx.UpdateRecord(ctx, target); err != nil {
		return TransferResult{}, domain.InventoryChange{}, err
	}
	if err := s.appendMovement(ctx, tx, target.ID, quantity, domain.MovementInbound, reason); err != nil {
		return TransferResult{}, domain.InventoryChange{}, err
	}

	s.recordTransferMetric(TransferOutcomeCreated)

	result := TransferResult{
		Source:   ref.String(),
		Outcome:  TransferOutcomeCreated,
		Quantity: quantity,
		Target:   target,
	}
	return result, changeFromRecord(target, previousQty, domain.MovementInbound, reason), nil
}

// transferFromRecord handles a real source: decrement source, increment
// target, both sides in the same transaction.
func (s *BulkService) transferFromRecord(
	ctx context.Context,
	tx domain.LedgerTx,
	ref domain.RecordRef,
	requested *int,
	targetLocationID int64,
	reason string,
) (TransferResult, []domain.InventoryChange, error) {
	source, err := tx.GetRecord(ctx, ref.RecordID)
	if err != nil {
		return TransferResult{}, nil, err
	}

	if source.LocationID == targetLocationID {
		s.recordTransferMetric(TransferOutcomeSkipped)
		return TransferResult{
			Source:  ref.String(),
			Outcome: TransferOutcomeSkipped,
			Note:    "source already at target location",
		}, nil, nil
	}

	quantity := source.Quantity
	if requested != nil {
		quantity = *requested
	}
	if quantity > source.Quantity {
		quantity = source.Quantity
	}
	if quantity <= 0 {
		s.recordTransferMetric(TransferOutcomeSkipped)
		return TransferResult{
			Source:  ref.String(),
			Outcome: TransferOutcomeSkipped,
			Note:    "nothing to transfer",
		}, nil, nil
	}

	sourcePrevious := source.Quantity
	source.Quantity -= quantity
	if err := tx.UpdateRecord(ctx, source); err != nil {
		return TransferResult{}, nil, err
	}
	if err := s.appendMovement(ctx, tx, source.ID, -quantity, domain.MovementOutbound, reason); err != nil {
		return TransferResult{}, nil, err
	}

	target, err := findOrCreateRecord(ctx, tx, source.VariantID, targetLocationID, source.LowStockAlert)
	if err != nil {
		return TransferResult{}, nil, err
	}

	targetPrevious := target.Quantity
	target.Quantity += quantity
	if err := tx.UpdateRecord(ctx, target); err != nil {
		return TransferResult{}, nil, err
	}
	if err := s.appendMovement(ctx, tx, target.ID, quantity, domain.MovementInbound, reason); err != nil {
		return TransferResult{}, nil, err
	}

	s.recordTransferMetric(TransferOutcomeTransferred)

	result := TransferResult{
		Source:   ref.String(),
		Outcome:  TransferOutcomeTransferred,
		Quantity: quantity,
		Target:   target,
	}
	changes := []domain.InventoryChange{
		changeFromRecord(source, sourcePrevious, domain.MovementOutbound, reason),
		changeFromRecord(target, targetPrevious, domain.MovementInbound, reason),
	}
	return result, changes, nil
}

func (s *BulkService) appendMovement(ctx context.Context, tx domain.LedgerTx, inventoryID int64, delta int, movementType domain.MovementType, reason string) error {
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

func (s *BulkService) recordMovementMetric(movementType domain.MovementType) {
	if s.metrics != nil {
		s.metrics.RecordMovement(string(movementType))
	}
}

func (s *BulkService) recordTransferMetric(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordTransfer(outcome)
	}
}

func (s *BulkService) notifyAll(ctx context.Context, changes []domain.InventoryChange) {
	if s.notifier == nil {
		return
	}
	for _, change := range changes {
		s.notifier.Notify(ctx, change)
	}
}

func changeFromRecord(record *domain.InventoryRecord, previousQty int, movementType domain.MovementType, reason string) domain.InventoryChange {
	return domain.InventoryChange{
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

func reasonFor(reason string) string {
	if reason != "" {
		return reason
	}
	return domain.DefaultMovementReason
}
