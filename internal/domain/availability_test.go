package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateRecords_SingleRecordInStock(t *testing.T) {
	records := []InventoryRecord{
		{Quantity: 50, ReservedQty: 10, LowStockAlert: 10},
	}

	agg := AggregateRecords(records)

	assert.Equal(t, 50, agg.OnHand)
	assert.Equal(t, 10, agg.Reserved)
	assert.Equal(t, 40, agg.Available)
	assert.Equal(t, StatusInStock, Classify(agg))
}

func TestAggregateRecords_LowStock(t *testing.T) {
	records := []InventoryRecord{
		{Quantity: 5, ReservedQty: 0, LowStockAlert: 10},
	}

	agg := AggregateRecords(records)

	assert.Equal(t, 5, agg.Available)
	assert.Equal(t, StatusLowStock, Classify(agg))
}

func TestAggregateRecords_OutOfStock(t *testing.T) {
	records := []InventoryRecord{
		{Quantity: 0, ReservedQty: 0, LowStockAlert: 10},
	}

	agg := AggregateRecords(records)

	assert.Equal(t, 0, agg.Available)
	assert.Equal(t, StatusOutOfStock, Classify(agg))
}

func TestAggregateRecords_EmptySet(t *testing.T) {
	agg := AggregateRecords(nil)

	assert.Equal(t, 0, agg.OnHand)
	assert.Equal(t, 0, agg.Reserved)
	assert.Equal(t, 0, agg.Available)
	assert.Equal(t, DefaultLowStockThreshold, agg.LowStockThreshold)
	assert.Equal(t, StatusOutOfStock, Classify(agg))
}

func TestAggregateRecords_NeverNegative(t *testing.T) {
	records := []InventoryRecord{
		{Quantity: 3, ReservedQty: 8, LowStockAlert: 10},
		{Quantity: -5, ReservedQty: -2, LowStockAlert: 10},
	}

	agg := AggregateRecords(records)

	// negative on-hand floored, negative reserved counted by magnitude
	assert.Equal(t, 3, agg.OnHand)
	assert.Equal(t, 10, agg.Reserved)
	assert.Equal(t, 0, agg.Available)
}

func TestAggregateRecords_MultiLocation(t *testing.T) {
	records := []InventoryRecord{
		{Quantity: 20, ReservedQty: 5, LowStockAlert: 15},
		{Quantity: 30, ReservedQty: 10, LowStockAlert: 8},
	}

	agg := AggregateRecords(records)

	assert.Equal(t, 50, agg.OnHand)
	assert.Equal(t, 15, agg.Reserved)
	assert.Equal(t, 35, agg.Available)
	assert.Equal(t, 8, agg.LowStockThreshold, "threshold is the minimum across records")
}

func TestClassify_Idempotent(t *testing.T) {
	records := []InventoryRecord{
		{Quantity: 7, ReservedQty: 2, LowStockAlert: 10},
	}

	first := ClassifyRecords(records)
	second := ClassifyRecords(records)

	assert.Equal(t, first, second)
	assert.Equal(t, StatusLowStock, first)
}

func TestClassify_BoundaryAtThreshold(t *testing.T) {
	agg := Aggregate{Available: 10, LowStockThreshold: 10}
	assert.Equal(t, StatusLowStock, Classify(agg))

	agg.Available = 11
	assert.Equal(t, StatusInStock, Classify(agg))
}

func TestRecordAvailable(t *testing.T) {
	r := InventoryRecord{Quantity: 10, ReservedQty: 4}
	assert.Equal(t, 6, r.Available())

	r = InventoryRecord{Quantity: 2, ReservedQty: 9}
	assert.Equal(t, 0, r.Available())
}

func TestMovementTypeDirection(t *testing.T) {
	cases := []struct {
		movementType MovementType
		direction    int
	}{
		{MovementPurchase, 1},
		{MovementReturn, 1},
		{MovementAdjustmentIn, 1},
		{MovementTransferIn, 1},
		{MovementInbound, 1},
		{MovementSale, -1},
		{MovementAdjustmentOut, -1},
		{MovementTransferOut, -1},
		{MovementOutbound, -1},
		{MovementAdjustment, 0},
	}

	for _, tc := range cases {
		t.Run(string(tc.movementType), func(t *testing.T) {
			assert.Equal(t, tc.direction, tc.movementType.Direction())
		})
	}
}

func TestMovementTypeLedgerType(t *testing.T) {
	assert.Equal(t, MovementInbound, MovementPurchase.LedgerType())
	assert.Equal(t, MovementOutbound, MovementSale.LedgerType())
	assert.Equal(t, MovementAdjustment, MovementAdjustment.LedgerType())
}

func TestParseMovementType(t *testing.T) {
	parsed, err := ParseMovementType("PURCHASE")
	require.NoError(t, err)
	assert.Equal(t, MovementPurchase, parsed)

	_, err = ParseMovementType("TELEPORT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid movement type")
}

func TestPrimaryRecord(t *testing.T) {
	records := []InventoryRecord{
		{ID: 12, LocationID: 2},
		{ID: 3, LocationID: 1},
		{ID: 44, LocationID: 5},
	}

	primary := PrimaryRecord(records)
	require.NotNil(t, primary)
	assert.Equal(t, int64(3), primary.ID)

	assert.Nil(t, PrimaryRecord(nil))
}

func TestParseRecordRef(t *testing.T) {
	ref, err := ParseRecordRef("42")
	require.NoError(t, err)
	assert.False(t, ref.Synthetic)
	assert.Equal(t, int64(42), ref.RecordID)

	ref, err = ParseRecordRef("synthetic-7")
	require.NoError(t, err)
	assert.True(t, ref.Synthetic)
	assert.Equal(t, int64(7), ref.VariantID)
	assert.Equal(t, "synthetic-7", ref.String())

	_, err = ParseRecordRef("synthetic-abc")
	require.Error(t, err)

	_, err = ParseRecordRef("not-a-number")
	require.Error(t, err)
}
