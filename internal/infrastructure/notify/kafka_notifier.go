package notify

import (
	"context"
	"time"

	"github.com/commerce-platform/inventory-service/internal/domain"
	"github.com/commerce-platform/inventory-service/pkg/events"
	"github.com/commerce-platform/inventory-service/pkg/kafka"
	"github.com/commerce-platform/inventory-service/pkg/logging"
	"github.com/commerce-platform/inventory-service/pkg/metrics"
)

// EventPublisher is the producer surface the notifier needs
type EventPublisher interface {
	PublishEventAsync(ctx context.Context, topic string, event *events.CloudEvent, callback func(error))
}

// KafkaNotifier publishes inventory change events to Kafka. It is fire
// and forget end to end: publish errors are logged and counted, never
// returned to the mutation path.
type KafkaNotifier struct {
	publisher EventPublisher
	factory   *events.EventFactory
	topic     string
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewKafkaNotifier creates a new KafkaNotifier
func NewKafkaNotifier(publisher EventPublisher, logger *logging.Logger, m *metrics.Metrics) *KafkaNotifier {
	return &KafkaNotifier{
		publisher: publisher,
		factory:   events.NewEventFactory(events.SourceInventory),
		topic:     kafka.Topics.InventoryEvents,
		logger:    logger.WithComponent("sync-notifier"),
		metrics:   m,
	}
}

// Notify publishes an InventoryUpdated event for the change, plus a
// LowStockAlert when the mutation left availability at or under the
// record's threshold.
func (n *KafkaNotifier) Notify(ctx context.Context, change domain.InventoryChange) {
	event := n.factory.CreateInventoryUpdatedEvent(ctx,
		change.InventoryID, change.VariantID, change.LocationID,
		change.PreviousQty, change.NewQty,
		string(change.MovementType), change.Reason)
	n.publish(ctx, event)

	if change.LowStock() {
		alert := n.factory.CreateLowStockAlertEvent(ctx,
			change.InventoryID, change.VariantID, change.LocationID,
			"", change.Available, change.Threshold)
		n.publish(ctx, alert)
	}
}

// NotifyTransferApplied publishes a TransferApplied event for one
// committed relocation.
func (n *KafkaNotifier) NotifyTransferApplied(ctx context.Context, notice domain.TransferNotice) {
	event := n.factory.CreateTransferAppliedEvent(ctx,
		notice.VariantID, notice.FromLocationID, notice.ToLocationID, notice.Quantity)
	n.publish(ctx, event)
}

// NotifySyncCompleted publishes a SyncCompleted event after a feed import
func (n *KafkaNotifier) NotifySyncCompleted(ctx context.Context, provider string, imported, skipped int, duration time.Duration) {
	event := n.factory.CreateSyncCompletedEvent(ctx, provider, imported, skipped, duration)
	n.publish(ctx, event)
}

func (n *KafkaNotifier) publish(ctx context.Context, event *events.CloudEvent) {
	n.publisher.PublishEventAsync(ctx, n.topic, event, func(err error) {
		success := err == nil
		if n.metrics != nil {
			n.metrics.RecordSyncNotification(success)
		}
		if err != nil {
			n.logger.WithError(err).Warn("Sync notification failed",
				"topic", n.topic,
				"eventType", event.Type,
				"eventId", event.ID,
			)
		}
	})
}
