// Package assembler builds the render context for each recognized commerce
// event by aggregating data from the upstream domain services and deriving
// the monetary and textual fields the email templates need.
package assembler

import (
	"context"
	"log/slog"

	"github.com/shopforge/notification-service/internal/attachments"
	"github.com/shopforge/notification-service/internal/domain"
	"github.com/shopforge/notification-service/internal/upstream"
)

// Assembler turns an event payload into a render context plus the typed
// attachment input. It holds no per-dispatch state; one instance serves
// concurrent dispatches.
type Assembler struct {
	services upstream.Services
	env      map[string]string
	logger   *slog.Logger
}

// New creates an assembler. env is a read-only snapshot of environment values
// exposed to templates (e.g. the storefront URL); it is copied once here and
// never read from the process environment afterwards.
func New(services upstream.Services, env map[string]string, logger *slog.Logger) *Assembler {
	snapshot := make(map[string]string, len(env))
	for k, v := range env {
		snapshot[k] = v
	}
	return &Assembler{
		services: services,
		env:      snapshot,
		logger:   logger,
	}
}

// Assemble dispatches over the closed event enumeration. Unknown events pass
// their payload through verbatim. Upstream lookup failures propagate to the
// caller: a malformed event aborts its dispatch rather than producing a
// half-assembled email.
func (a *Assembler) Assemble(ctx context.Context, kind domain.EventKind, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	switch kind {
	case domain.EventOrderPlaced:
		return a.orderPlaced(ctx, payload)
	case domain.EventOrderCanceled:
		return a.orderCanceled(ctx, payload)
	case domain.EventOrderShipmentCreated:
		return a.orderShipmentCreated(ctx, payload)
	case domain.EventReturnRequested:
		return a.returnRequested(ctx, payload)
	case domain.EventItemsReturned:
		return a.itemsReturned(ctx, payload)
	case domain.EventSwapCreated:
		return a.swapCreated(ctx, payload)
	case domain.EventSwapShipmentCreated:
		return a.swapShipmentCreated(ctx, payload)
	case domain.EventSwapReceived:
		return a.swapReceived(ctx, payload)
	case domain.EventClaimShipmentCreated:
		return a.claimShipmentCreated(ctx, payload)
	case domain.EventGiftCardCreated, domain.EventOrderGiftCardCreated:
		return a.giftCardCreated(ctx, payload)
	case domain.EventUserPasswordReset, domain.EventCustomerPasswordReset:
		return a.passwordReset(ctx, payload)
	case domain.EventInviteCreated:
		return a.inviteCreated(ctx, payload)
	case domain.EventRestockNotification:
		return a.restockNotification(ctx, payload)
	case domain.EventUnknown:
		return domain.RenderContext(payload), nil, nil
	}
	return domain.RenderContext(payload), nil, nil
}

// envView returns a fresh copy of the environment snapshot so a stored render
// context can never mutate the shared one.
func (a *Assembler) envView() map[string]string {
	view := make(map[string]string, len(a.env))
	for k, v := range a.env {
		view[k] = v
	}
	return view
}
