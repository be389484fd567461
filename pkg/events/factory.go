package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventFactory creates CloudEvents for inventory domain events
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// CreateEvent creates a new CloudEvent with the given parameters
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *CloudEvent {
	return &CloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}
}

// CreateEventWithCorrelation creates an event with correlation tracking
func (f *EventFactory) CreateEventWithCorrelation(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
	correlationID string,
) *CloudEvent {
	event := f.CreateEvent(ctx, eventType, subject, data)
	event.CorrelationID = correlationID
	return event
}

// CreateInventoryUpdatedEvent creates an InventoryUpdated event
func (f *EventFactory) CreateInventoryUpdatedEvent(
	ctx context.Context,
	inventoryID int64,
	variantID int64,
	locationID int64,
	previousQty int,
	newQty int,
	movementType string,
	reason string,
) *CloudEvent {
	data := InventoryUpdatedData{
		InventoryID:  inventoryID,
		VariantID:    variantID,
		LocationID:   locationID,
		PreviousQty:  previousQty,
		NewQty:       newQty,
		MovementType: movementType,
		Reason:       reason,
	}
	return f.CreateEvent(ctx, InventoryUpdated, fmt.Sprintf("inventory/%d", inventoryID), data)
}

// CreateLowStockAlertEvent creates a LowStockAlert event
func (f *EventFactory) CreateLowStockAlertEvent(
	ctx context.Context,
	inventoryID int64,
	variantID int64,
	locationID int64,
	sku string,
	available int,
	threshold int,
) *CloudEvent {
	data := LowStockAlertData{
		InventoryID: inventoryID,
		VariantID:   variantID,
		LocationID:  locationID,
		SKU:         sku,
		Available:   available,
		Threshold:   threshold,
	}
	return f.CreateEvent(ctx, LowStockAlert, fmt.Sprintf("inventory/%d", inventoryID), data)
}

// CreateTransferAppliedEvent creates a TransferApplied event
func (f *EventFactory) CreateTransferAppliedEvent(
	ctx context.Context,
	variantID int64,
	fromLocationID int64,
	toLocationID int64,
	quantity int,
) *CloudEvent {
	data := TransferAppliedData{
		VariantID:      variantID,
		FromLocationID: fromLocationID,
		ToLocationID:   toLocationID,
		Quantity:       quantity,
	}
	return f.CreateEvent(ctx, TransferApplied, fmt.Sprintf("variant/%d", variantID), data)
}

// CreateSyncCompletedEvent creates a SyncCompleted event
func (f *EventFactory) CreateSyncCompletedEvent(
	ctx context.Context,
	provider string,
	rowsImported int,
	rowsSkipped int,
	duration time.Duration,
) *CloudEvent {
	data := SyncCompletedData{
		Provider:     provider,
		RowsImported: rowsImported,
		RowsSkipped:  rowsSkipped,
		DurationMs:   duration.Milliseconds(),
	}
	return f.CreateEvent(ctx, SyncCompleted, "sync/"+provider, data)
}
