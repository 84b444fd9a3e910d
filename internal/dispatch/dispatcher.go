// Package dispatch implements the notification state machine: resolve the
// template, assemble the data, resolve attachments, deliver, and report one of
// the four terminal statuses.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopforge/notification-service/internal/attachments"
	"github.com/shopforge/notification-service/internal/domain"
	"github.com/shopforge/notification-service/internal/mail"
	apperrors "github.com/shopforge/notification-service/pkg/errors"
)

// TemplateResolver maps an event name to a template id.
type TemplateResolver interface {
	Resolve(eventName string) (string, bool)
}

// DataAssembler builds the render context and attachment input for an event.
type DataAssembler interface {
	Assemble(ctx context.Context, kind domain.EventKind, payload map[string]any) (domain.RenderContext, *attachments.Input, error)
}

// AttachmentResolver builds the attachment list for a dispatch.
type AttachmentResolver interface {
	Resolve(ctx context.Context, kind domain.EventKind, in *attachments.Input, gen attachments.Generator) []domain.Attachment
}

// Dispatcher runs the dispatch pipeline. It is stateless and safe for
// concurrent use.
type Dispatcher struct {
	templates   TemplateResolver
	assembler   DataAssembler
	attachments AttachmentResolver
	sender      mail.Sender
	logger      *slog.Logger
}

// New creates a dispatcher.
func New(
	tmpl TemplateResolver,
	asm DataAssembler,
	att AttachmentResolver,
	sender mail.Sender,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		templates:   tmpl,
		assembler:   asm,
		attachments: att,
		sender:      sender,
		logger:      logger,
	}
}

// Dispatch handles one event end to end.
//
// Outcomes are asymmetric on purpose: data-assembly failures return an error
// because retrying may succeed once the upstream recovers, while delivery
// failures are absorbed into StatusFailed because the assembled data is
// already complete and a retry would re-send a possibly delivered email.
func (d *Dispatcher) Dispatch(ctx context.Context, eventName string, payload map[string]any, gen attachments.Generator) (*domain.DispatchResult, error) {
	templateID, ok := d.templates.Resolve(eventName)
	if !ok {
		observeDispatch(eventName, domain.StatusNoTemplateFound)
		return &domain.DispatchResult{
			Status: domain.StatusNoTemplateFound,
			Data:   domain.RenderContext{},
		}, nil
	}

	kind := domain.ParseEventKind(eventName)

	data, attIn, err := d.assembler.Assemble(ctx, kind, payload)
	if err != nil {
		return nil, err
	}

	to := data.Recipient()
	if to == "" {
		observeDispatch(eventName, domain.StatusNoDataFound)
		return &domain.DispatchResult{
			Status: domain.StatusNoDataFound,
			Data:   data,
		}, nil
	}

	atts := d.attachments.Resolve(ctx, kind, attIn, gen)

	status := domain.StatusSent
	if err := d.sender.Send(ctx, templateID, to, data, atts); err != nil {
		d.logger.ErrorContext(ctx, "mail delivery failed",
			slog.String("event", eventName),
			slog.String("template_id", templateID),
			slog.String("error", err.Error()),
		)
		status = domain.StatusFailed
	}

	observeDispatch(eventName, status)
	return &domain.DispatchResult{To: to, Status: status, Data: data}, nil
}

// Resend re-delivers a previously dispatched notification. The stored render
// context is reused verbatim; upstream services are never consulted again, so
// the email reflects the state at original dispatch time. overrideTo, when
// set, replaces the stored recipient.
func (d *Dispatcher) Resend(ctx context.Context, record *domain.DispatchRecord, overrideTo string, gen attachments.Generator) (*domain.DispatchResult, error) {
	templateID, ok := d.templates.Resolve(record.EventName)
	if !ok {
		observeDispatch(record.EventName, domain.StatusNoTemplateFound)
		return &domain.DispatchResult{
			Status: domain.StatusNoTemplateFound,
			Data:   domain.RenderContext{},
		}, nil
	}

	to := overrideTo
	if to == "" {
		to = record.To
	}
	if to == "" {
		to = record.Data.Recipient()
	}
	if to == "" {
		// A recipient-less record never left the building the first time, so
		// there is nothing to re-deliver. The no-data status is reserved for
		// original dispatches; here the caller made an invalid request.
		return nil, apperrors.InvalidInput(fmt.Sprintf("dispatch %s has no recipient to resend to", record.ID))
	}

	// Attachment inputs are not persisted; a resend carries no attachments
	// unless a generator can rebuild them from the stored context alone.
	kind := domain.ParseEventKind(record.EventName)
	atts := d.attachments.Resolve(ctx, kind, nil, gen)

	status := domain.StatusSent
	if err := d.sender.Send(ctx, templateID, to, record.Data, atts); err != nil {
		d.logger.ErrorContext(ctx, "mail delivery failed on resend",
			slog.String("event", record.EventName),
			slog.String("resend_of", record.ID),
			slog.String("error", err.Error()),
		)
		status = domain.StatusFailed
	}

	observeDispatch(record.EventName, status)
	return &domain.DispatchResult{To: to, Status: status, Data: record.Data}, nil
}
