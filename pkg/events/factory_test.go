package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInventoryUpdatedEvent(t *testing.T) {
	factory := NewEventFactory(SourceInventory)

	event := factory.CreateInventoryUpdatedEvent(context.Background(), 10, 1, 2, 30, 50, "INBOUND", "Cycle count")

	assert.Equal(t, "1.0", event.SpecVersion)
	assert.Equal(t, InventoryUpdated, event.Type)
	assert.Equal(t, SourceInventory, event.Source)
	assert.Equal(t, "inventory/10", event.Subject)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "application/json", event.DataContentType)

	data, ok := event.Data.(InventoryUpdatedData)
	require.True(t, ok)
	assert.Equal(t, int64(10), data.InventoryID)
	assert.Equal(t, 30, data.PreviousQty)
	assert.Equal(t, 50, data.NewQty)
	assert.Equal(t, "INBOUND", data.MovementType)
}

func TestCreateLowStockAlertEvent(t *testing.T) {
	factory := NewEventFactory(SourceInventory)

	event := factory.CreateLowStockAlertEvent(context.Background(), 10, 1, 2, "TS-BLK-M", 4, 10)

	assert.Equal(t, LowStockAlert, event.Type)
	data, ok := event.Data.(LowStockAlertData)
	require.True(t, ok)
	assert.Equal(t, 4, data.Available)
	assert.Equal(t, 10, data.Threshold)
}

func TestCreateSyncCompletedEvent(t *testing.T) {
	factory := NewEventFactory(SourceInventory)

	event := factory.CreateSyncCompletedEvent(context.Background(), "shipstation", 120, 3, 2500*time.Millisecond)

	assert.Equal(t, SyncCompleted, event.Type)
	assert.Equal(t, "sync/shipstation", event.Subject)
	data, ok := event.Data.(SyncCompletedData)
	require.True(t, ok)
	assert.Equal(t, 120, data.RowsImported)
	assert.Equal(t, int64(2500), data.DurationMs)
}

func TestEventIDsAreUnique(t *testing.T) {
	factory := NewEventFactory(SourceInventory)

	a := factory.CreateEvent(context.Background(), InventoryUpdated, "inventory/1", nil)
	b := factory.CreateEvent(context.Background(), InventoryUpdated, "inventory/1", nil)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateEventWithCorrelation(t *testing.T) {
	factory := NewEventFactory(SourceInventory)

	event := factory.CreateEventWithCorrelation(context.Background(), InventoryUpdated, "inventory/1", nil, "corr-123")
	assert.Equal(t, "corr-123", event.CorrelationID)
}
