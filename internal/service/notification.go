// Package service implements the business logic around the dispatch pipeline:
// running dispatches, persisting their audit records, publishing outcome
// events, and serving reads and resends.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopforge/notification-service/internal/attachments"
	"github.com/shopforge/notification-service/internal/domain"
	"github.com/shopforge/notification-service/internal/repository"
	apperrors "github.com/shopforge/notification-service/pkg/errors"
)

// Dispatcher runs the notification pipeline for one event or resend.
type Dispatcher interface {
	Dispatch(ctx context.Context, eventName string, payload map[string]any, gen attachments.Generator) (*domain.DispatchResult, error)
	Resend(ctx context.Context, record *domain.DispatchRecord, overrideTo string, gen attachments.Generator) (*domain.DispatchResult, error)
}

// TemplateResolver maps an event name to a template id, for audit metadata.
type TemplateResolver interface {
	Resolve(eventName string) (string, bool)
}

// OutcomePublisher publishes the terminal status of a dispatch.
type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, record *domain.DispatchRecord) error
}

// NotificationService orchestrates dispatches and their audit trail.
type NotificationService struct {
	repo       repository.DispatchRepository
	dispatcher Dispatcher
	templates  TemplateResolver
	producer   OutcomePublisher
	generator  attachments.Generator
	logger     *slog.Logger
}

// NewNotificationService creates a new notification service. generator may be
// nil when no attachment-generation capability is configured.
func NewNotificationService(
	repo repository.DispatchRepository,
	dispatcher Dispatcher,
	templates TemplateResolver,
	producer OutcomePublisher,
	generator attachments.Generator,
	logger *slog.Logger,
) *NotificationService {
	return &NotificationService{
		repo:       repo,
		dispatcher: dispatcher,
		templates:  templates,
		producer:   producer,
		generator:  generator,
		logger:     logger,
	}
}

// DispatchEvent runs the pipeline for one event and records the outcome.
// Pipeline errors (failed upstream lookups) propagate so the caller can retry
// the whole event; once an email may have left the building, persistence and
// publish failures are logged but never returned.
func (s *NotificationService) DispatchEvent(ctx context.Context, eventName string, payload map[string]any) (*domain.DispatchRecord, error) {
	if eventName == "" {
		return nil, apperrors.InvalidInput("event_name is required")
	}

	result, err := s.dispatcher.Dispatch(ctx, eventName, payload, s.generator)
	if err != nil {
		return nil, fmt.Errorf("dispatch %s: %w", eventName, err)
	}

	record := s.newRecord(eventName, result, "")
	s.persistAndPublish(ctx, record)

	return record, nil
}

// Resend re-delivers a previously recorded dispatch, optionally to a different
// recipient, and records the new attempt with a reference to the original.
func (s *NotificationService) Resend(ctx context.Context, id, overrideTo string) (*domain.DispatchRecord, error) {
	original, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dispatch for resend: %w", err)
	}

	result, err := s.dispatcher.Resend(ctx, original, overrideTo, s.generator)
	if err != nil {
		return nil, fmt.Errorf("resend dispatch %s: %w", id, err)
	}

	record := s.newRecord(original.EventName, result, original.ID)
	s.persistAndPublish(ctx, record)

	return record, nil
}

// GetDispatch retrieves a dispatch record by its ID.
func (s *NotificationService) GetDispatch(ctx context.Context, id string) (*domain.DispatchRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dispatch by id: %w", err)
	}
	return record, nil
}

// ListDispatches returns a paginated list of dispatch records, newest first.
func (s *NotificationService) ListDispatches(ctx context.Context, page, perPage int) ([]domain.DispatchRecord, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	offset := (page - 1) * perPage

	records, total, err := s.repo.List(ctx, offset, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list dispatches: %w", err)
	}

	return records, total, nil
}

// ListDispatchesByStatus returns dispatch records with the given status,
// oldest first, for inspection and bulk resend tooling.
func (s *NotificationService) ListDispatchesByStatus(ctx context.Context, status string, limit int) ([]domain.DispatchRecord, error) {
	if !domain.IsValidStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q", status))
	}
	if limit <= 0 {
		limit = 50
	}

	records, err := s.repo.ListByStatus(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("list dispatches by status: %w", err)
	}

	return records, nil
}

func (s *NotificationService) newRecord(eventName string, result *domain.DispatchResult, resendOf string) *domain.DispatchRecord {
	templateID := ""
	if result.Status != domain.StatusNoTemplateFound {
		templateID, _ = s.templates.Resolve(eventName)
	}

	return &domain.DispatchRecord{
		ID:         uuid.New().String(),
		EventName:  eventName,
		TemplateID: templateID,
		To:         result.To,
		Status:     result.Status,
		Data:       result.Data,
		ResendOf:   resendOf,
		CreatedAt:  time.Now().UTC(),
	}
}

func (s *NotificationService) persistAndPublish(ctx context.Context, record *domain.DispatchRecord) {
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist dispatch record",
			slog.String("dispatch_id", record.ID),
			slog.String("event", record.EventName),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOutcome(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish dispatch outcome",
			slog.String("dispatch_id", record.ID),
			slog.String("event", record.EventName),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "dispatch recorded",
		slog.String("dispatch_id", record.ID),
		slog.String("event", record.EventName),
		slog.String("status", record.Status),
	)
}
