package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerce-platform/inventory-service/internal/domain"
	apperrors "github.com/commerce-platform/inventory-service/pkg/errors"
)

func testVariant(id int64, sku, product, name string) domain.Variant {
	return domain.Variant{
		ID:          id,
		ProductID:   id,
		ProductName: product,
		Name:        name,
		SKU:         sku,
		Active:      true,
	}
}

func newInventoryFixture(records ...domain.InventoryRecord) (*InventoryService, *fakeLedger, *fakeNotifier) {
	ledger := newFakeLedger(records...)
	catalog := newFakeCatalog(
		testVariant(1, "TS-BLK-M", "T-Shirt", "Black / M"),
		testVariant(2, "TS-BLK-L", "T-Shirt", "Black / L"),
	)
	notifier := &fakeNotifier{}
	service := NewInventoryService(ledger, catalog, notifier, testLogger(), nil)
	return service, ledger, notifier
}

func TestUpdateRecordQuantityChange(t *testing.T) {
	service, ledger, notifier := newInventoryFixture(
		domain.InventoryRecord{ID: 10, VariantID: 1, LocationID: 1, Quantity: 30, LowStockAlert: 5},
	)

	updated, err := service.UpdateRecord(context.Background(), 10, UpdateRecordInput{
		Quantity: intPtr(50),
		Reason:   strPtr("Cycle count"),
	})
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Quantity)

	movements := ledger.movementsFor(10)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementInbound, movements[0].Type)
	assert.Equal(t, 20, movements[0].Quantity)
	assert.Equal(t, "Cycle count", movements[0].Reason)

	require.Len(t, notifier.changes, 1)
	assert.Equal(t, 30, notifier.changes[0].PreviousQty)
	assert.Equal(t, 50, notifier.changes[0].NewQty)
}

func TestUpdateRecordDecreaseLogsOutbound(t *testing.T) {
	service, ledger, _ := newInventoryFixture(
		domain.InventoryRecord{ID: 10, VariantID: 1, LocationID: 1, Quantity: 30, LowStockAlert: 5},
	)

	_, err := service.UpdateRecord(context.Background(), 10, UpdateRecordInput{Quantity: intPtr(12)})
	require.NoError(t, err)

	movements := ledger.movementsFor(10)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementOutbound, movements[0].Type)
	assert.Equal(t, -18, movements[0].Quantity)
	assert.Equal(t, domain.DefaultMovementReason, movements[0].Reason)
}

func TestUpdateRecordThresholdOnlySkipsMovement(t *testing.T) {
	service, ledger, notifier := newInventoryFixture(
		domain.InventoryRecord{ID: 10, VariantID: 1, LocationID: 1, Quantity: 30, LowStockAlert: 5},
	)

	updated, err := service.UpdateRecord(context.Background(), 10, UpdateRecordInput{LowStockAlert: intPtr(15)})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.LowStockAlert)
	assert.Empty(t, ledger.movementsFor(10))
	assert.Empty(t, notifier.changes)
}

func TestUpdateRecordSameQuantitySkipsMovement(t *testing.T) {
	service, ledger, notifier := newInventoryFixture(
		domain.InventoryRecord{ID: 10, VariantID: 1, LocationID: 1, Quantity: 30, LowStockAlert: 5},
	)

	_, err := service.UpdateRecord(context.Background(), 10, UpdateRecordInput{Quantity: intPtr(30)})
	require.NoError(t, err)
	assert.Empty(t, ledger.movementsFor(10))
	assert.Empty(t, notifier.changes)
}

func TestUpdateRecordValidation(t *testing.T) {
	service, _, _ := newInventoryFixture()

	tests := []struct {
		name  string
		input UpdateRecordInput
	}{
		{"no fields", UpdateRecordInput{}},
		{"negative quantity", UpdateRecordInput{Quantity: intPtr(-1)}},
		{"negative threshold", UpdateRecordInput{LowStockAlert: intPtr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UpdateRecord(context.Background(), 10, tt.input)
			require.Error(t, err)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.CodeValidationError, appErr.Code)
		})
	}
}

func TestUpdateRecordNotFound(t *testing.T) {
	service, _, _ := newInventoryFixture()

	_, err := service.UpdateRecord(context.Background(), 99, UpdateRecordInput{Quantity: intPtr(5)})
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestUpdateVariantPrimaryTargetsLowestID(t *testing.T) {
	service, ledger, _ := newInventoryFixture(
		domain.InventoryRecord{ID: 20, VariantID: 1, LocationID: 2, Quantity: 8, LowStockAlert: 5},
		domain.InventoryRecord{ID: 10, VariantID: 1, LocationID: 1, Quantity: 30, LowStockAlert: 5},
	)

	updated, err := service.UpdateVariantPrimary(context.Background(), 1, UpdateVariantInput{
		OnHand:  intPtr(40),
		Barcode: strPtr("0123456789012"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), updated.ID)
	assert.Equal(t, 40, updated.Quantity)

	// non-primary record untouched
	other, err := ledger.GetRecord(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, 8, other.Quantity)
	assert.Nil(t, other.Barcode)

	movements := ledger.movementsFor(10)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementInbound, movements[0].Type)
	assert.Equal(t, 10, movements[0].Quantity)
}

func TestUpdateVariantPrimaryUnknownVariant(t *testing.T) {
	service, _, _ := newInventoryFixture()

	_, err := service.UpdateVariantPrimary(context.Background(), 99, UpdateVariantInput{OnHand: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)
}

func TestUpdateVariantPrimaryNoRecords(t *testing.T) {
	service, _, _ := newInventoryFixture()

	_, err := service.UpdateVariantPrimary(context.Background(), 1, UpdateVariantInput{OnHand: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestUpdateVariantLocationLogsAdjustment(t *testing.T) {
	service, ledger, _ := newInventoryFixture(
		domain.InventoryRecord{ID: 10, VariantID: 1, LocationID: 1, Quantity: 30, LowStockAlert: 5},
		domain.InventoryRecord{ID: 20, VariantID: 1, LocationID: 2, Quantity: 8, LowStockAlert: 5},
	)

	updated, err := service.UpdateVariantLocation(context.Background(), 1, 2, UpdateVariantInput{
		OnHand:    intPtr(3),
		Committed: intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), updated.ID)
	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, 1, updated.ReservedQty)

	movements := ledger.movementsFor(20)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementAdjustment, movements[0].Type)
	assert.Equal(t, -5, movements[0].Quantity)
}

func TestCreateMovementAppliesDirection(t *testing.T) {
	service, ledger, _ := newInventoryFixture(
		domain.InventoryRecord{ID: 10, VariantID: 1, LocationID: 1, Quantity: 30, LowStockAlert: 5},
	)

	result, err := service.CreateMovement(context.Background(), CreateMovementInput{
		VariantID:  1,
		LocationID: 1,
		Quantity:   5,
		Type:       "SALE",
		Reason:     "Order #1042",
	})
	require.NoError(t, err)
	assert.Equal(t, 25, result.Record.Quantity)
	require.NotNil(t, result.Movement)
	assert.Equal(t, domain.MovementOutbound, result.Movement.Type)
	assert.Equal(t, -5, result.Movement.Quantity)

	movements := ledger.movementsFor(10)
	require.Len(t, movements, 1)
}

func TestCreateMovementClampsAtZero(t *testing.T) {
	service, ledger, _ := newInventoryFixture(
		domain.InventoryRecord{ID: 10, VariantID: 1, LocationID: 1, Quantity: 3, LowStockAlert: 5},
	)

	result, err := service.CreateMovement(context.Background(), CreateMovementInput{
		VariantID:  1,
		LocationID: 1,
		Quantity:   8,
		Type:       "ADJUSTMENT_OUT",
		Reason:     "Damaged stock",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Record.Quantity)
	// movement records what was actually applied
	require.NotNil(t, result.Movement)
	assert.Equal(t, -3, result.Movement.Quantity)

	movements := ledger.movementsFor(10)
	require.Len(t, movements, 1)
	assert.Equal(t, -3, movements[0].Quantity)
}

func TestCreateMovementFullyClampedOmitsMovement(t *testing.T) {
	service, ledger, notifier := newInventoryFixture(
		domain.InventoryRecord{ID: 10, VariantID: 1, LocationID: 1, Quantity: 0, LowStockAlert: 5},
	)

	result, err := service.CreateMovement(context.Background(), CreateMovementInput{
		VariantID:  1,
		LocationID: 1,
		Quantity:   5,
		Type:       "SALE",
		Reason:     "Order #1043",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Record.Quantity)
	assert.Nil(t, result.Movement)

	assert.Empty(t, ledger.movementsFor(10))
	assert.Empty(t, notifier.changes)
}

func TestCreateMovementProvisionsRecord(t *testing.T) {
	service, ledger, _ := newInventoryFixture()

	result, err := service.CreateMovement(context.Background(), CreateMovementInput{
		VariantID:  1,
		LocationID: 3,
		Quantity:   12,
		Type:       "PURCHASE",
		Reason:     "PO-2291",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, result.Record.Quantity)
	assert.Equal(t, domain.DefaultLowStockThreshold, result.Record.LowStockAlert)

	stored := ledger.recordAt(1, 3)
	require.NotNil(t, stored)
	assert.Equal(t, 12, stored.Quantity)
}

func TestCreateMovementRejectsUndirectedAdjustment(t *testing.T) {
	service, _, _ := newInventoryFixture()

	_, err := service.CreateMovement(context.Background(), CreateMovementInput{
		VariantID:  1,
		LocationID: 1,
		Quantity:   5,
		Type:       "ADJUSTMENT",
		Reason:     "count",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationError, appErr.Code)
}

func TestCreateMovementRejectsUnknownType(t *testing.T) {
	service, _, _ := newInventoryFixture()

	_, err := service.CreateMovement(context.Background(), CreateMovementInput{
		VariantID:  1,
		LocationID: 1,
		Quantity:   5,
		Type:       "RESTOCK",
		Reason:     "count",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationError, appErr.Code)
}

func TestCreateMovementUnknownVariant(t *testing.T) {
	service, _, _ := newInventoryFixture()

	_, err := service.CreateMovement(context.Background(), CreateMovementInput{
		VariantID:  99,
		LocationID: 1,
		Quantity:   5,
		Type:       "PURCHASE",
		Reason:     "PO-1",
	})
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)
}

func TestNotifierReceivesLowStockContext(t *testing.T) {
	service, _, notifier := newInventoryFixture(
		domain.InventoryRecord{ID: 10, VariantID: 1, LocationID: 1, Quantity: 30, LowStockAlert: 10},
	)

	_, err := service.UpdateRecord(context.Background(), 10, UpdateRecordInput{Quantity: intPtr(4)})
	require.NoError(t, err)

	require.Len(t, notifier.changes, 1)
	change := notifier.changes[0]
	assert.Equal(t, 4, change.Available)
	assert.Equal(t, 10, change.Threshold)
	assert.True(t, change.LowStock())
}

func TestNotifierSkippedWhenTransactionFails(t *testing.T) {
	service, _, notifier := newInventoryFixture()

	_, err := service.UpdateRecord(context.Background(), 99, UpdateRecordInput{Quantity: intPtr(5)})
	require.Error(t, err)
	assert.Empty(t, notifier.changes)
}

func TestOptimisticVersionBumpsOnWrite(t *testing.T) {
	service, ledger, _ := newInventoryFixture(
		domain.InventoryRecord{ID: 10, VariantID: 1, LocationID: 1, Quantity: 30, LowStockAlert: 5, Version: 3},
	)

	_, err := service.UpdateRecord(context.Background(), 10, UpdateRecordInput{Quantity: intPtr(31)})
	require.NoError(t, err)

	stored, err := ledger.GetRecord(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Version)
}
