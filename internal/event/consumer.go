// Package event wires the dispatch pipeline to Kafka: one consumer per
// recognized commerce event topic in, notification outcome events out.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopforge/notification-service/internal/domain"
	pkgkafka "github.com/shopforge/notification-service/pkg/kafka"
)

// ConsumerGroupID is the consumer group for the notification service.
const ConsumerGroupID = "notification-service"

// DispatchService is the slice of the notification service the consumer needs.
type DispatchService interface {
	DispatchEvent(ctx context.Context, eventName string, payload map[string]any) (*domain.DispatchRecord, error)
}

// ConsumerHandler routes incoming Kafka events into the dispatch pipeline.
type ConsumerHandler struct {
	service DispatchService
	logger  *slog.Logger
}

// NewConsumerHandler creates a consumer handler.
func NewConsumerHandler(service DispatchService, logger *slog.Logger) *ConsumerHandler {
	return &ConsumerHandler{
		service: service,
		logger:  logger,
	}
}

// Handle processes one incoming event. Errors propagate so the consumer's
// retry and poison-pill handling applies; a dispatch that completes with a
// failed or skipped status is still a handled message.
func (h *ConsumerHandler) Handle(ctx context.Context, event *pkgkafka.Event) error {
	eventName := EventNameFromTopic(event.EventType)

	var payload map[string]any
	if len(event.Data) > 0 {
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			h.logger.ErrorContext(ctx, "malformed event payload, skipping",
				slog.String("event_type", event.EventType),
				slog.String("event_id", event.EventID),
				slog.String("error", err.Error()),
			)
			return nil
		}
	}

	record, err := h.service.DispatchEvent(ctx, eventName, payload)
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", eventName, err)
	}

	h.logger.InfoContext(ctx, "event dispatched",
		slog.String("event", eventName),
		slog.String("event_id", event.EventID),
		slog.String("dispatch_id", record.ID),
		slog.String("status", record.Status),
	)
	return nil
}

// EventTopic returns the fully-qualified topic for a commerce event name,
// e.g. "order.placed" becomes "commerce.order.placed".
func EventTopic(eventName string) string {
	return pkgkafka.TopicPrefix + "." + eventName
}

// EventNameFromTopic strips the standard prefix from a topic name. Event
// types published without the prefix pass through unchanged.
func EventNameFromTopic(topic string) string {
	return strings.TrimPrefix(topic, pkgkafka.TopicPrefix+".")
}

// NewConsumers creates one Kafka consumer per recognized commerce event topic.
// The handler is typically ConsumerHandler.Handle wrapped in idempotency
// middleware.
func NewConsumers(brokers []string, handler pkgkafka.Handler, logger *slog.Logger) []*pkgkafka.Consumer {
	eventNames := domain.KnownEventNames()

	consumers := make([]*pkgkafka.Consumer, 0, len(eventNames))
	for _, name := range eventNames {
		cfg := pkgkafka.ConsumerConfig{
			Brokers:   brokers,
			GroupID:   ConsumerGroupID,
			Topic:     EventTopic(name),
			MinBytes:  1,
			MaxBytes:  10e6,
			EnableDLQ: true,
		}
		consumers = append(consumers, pkgkafka.NewConsumer(cfg, handler, logger))
	}
	return consumers
}
