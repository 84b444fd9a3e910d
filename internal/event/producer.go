package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopforge/notification-service/internal/domain"
	pkgkafka "github.com/shopforge/notification-service/pkg/kafka"
)

// Outcome topics published by the notification service.
const (
	TopicNotificationSent   = "commerce.notification.sent"
	TopicNotificationFailed = "commerce.notification.failed"
)

// Aggregate type constant.
const AggregateTypeNotification = "notification"

// Source identifier for events originating from the notification service.
const SourceNotificationService = "notification-service"

// OutcomeData is the payload of notification.sent and notification.failed
// events. The render context stays out of the event; consumers fetch it from
// the dispatch API when they need it.
type OutcomeData struct {
	ID         string `json:"id"`
	EventName  string `json:"event_name"`
	TemplateID string `json:"template_id,omitempty"`
	To         string `json:"to,omitempty"`
	Status     string `json:"status"`
	ResendOf   string `json:"resend_of,omitempty"`
}

// Producer publishes notification outcome events to Kafka. A nil underlying
// producer disables publishing, which keeps local development broker-free.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an outcome event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOutcome publishes the terminal status of a dispatch. Sent dispatches
// go to the sent topic; every other status goes to the failed topic.
func (p *Producer) PublishOutcome(ctx context.Context, record *domain.DispatchRecord) error {
	if p.kafka == nil {
		return nil
	}

	topic := TopicNotificationFailed
	if record.Status == domain.StatusSent {
		topic = TopicNotificationSent
	}

	data := OutcomeData{
		ID:         record.ID,
		EventName:  record.EventName,
		TemplateID: record.TemplateID,
		To:         record.To,
		Status:     record.Status,
		ResendOf:   record.ResendOf,
	}

	event, err := pkgkafka.NewEvent(topic, record.ID, AggregateTypeNotification, SourceNotificationService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published notification outcome",
		slog.String("dispatch_id", record.ID),
		slog.String("topic", topic),
		slog.String("status", record.Status),
	)
	return nil
}
