package kafka

import (
	"context"
	"time"

	"github.com/commerce-platform/inventory-service/pkg/events"
	"github.com/commerce-platform/inventory-service/pkg/logging"
	"github.com/commerce-platform/inventory-service/pkg/metrics"
)

// InstrumentedProducer wraps a Producer with metrics and logging
type InstrumentedProducer struct {
	producer *Producer
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// NewInstrumentedProducer creates a new instrumented producer
func NewInstrumentedProducer(producer *Producer, m *metrics.Metrics, logger *logging.Logger) *InstrumentedProducer {
	return &InstrumentedProducer{
		producer: producer,
		metrics:  m,
		logger:   logger,
	}
}

func (p *InstrumentedProducer) record(ctx context.Context, topic, eventType string, err error, start time.Time) {
	duration := time.Since(start)
	success := err == nil

	if p.metrics != nil {
		p.metrics.RecordKafkaPublish(topic, eventType, success, duration)
	}
	if p.logger != nil {
		p.logger.KafkaPublish(ctx, topic, eventType, success, duration)
	}
}

// PublishEvent publishes a CloudEvent with metrics and logging
func (p *InstrumentedProducer) PublishEvent(ctx context.Context, topic string, event *events.CloudEvent) error {
	start := time.Now()
	err := p.producer.PublishEvent(ctx, topic, event)
	p.record(ctx, topic, event.Type, err, start)
	return err
}

// PublishEventAsync publishes a CloudEvent asynchronously with metrics
func (p *InstrumentedProducer) PublishEventAsync(ctx context.Context, topic string, event *events.CloudEvent, callback func(error)) {
	start := time.Now()

	p.producer.PublishEventAsync(ctx, topic, event, func(err error) {
		p.record(ctx, topic, event.Type, err, start)
		if callback != nil {
			callback(err)
		}
	})
}

// PublishBatch publishes multiple events with metrics
func (p *InstrumentedProducer) PublishBatch(ctx context.Context, topic string, evs []*events.CloudEvent) error {
	start := time.Now()
	err := p.producer.PublishBatch(ctx, topic, evs)
	p.record(ctx, topic, "batch", err, start)
	return err
}

// Close closes the underlying producer
func (p *InstrumentedProducer) Close() error {
	return p.producer.Close()
}
