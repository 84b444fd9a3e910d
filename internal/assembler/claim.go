package assembler

import (
	"context"
	"fmt"

	"github.com/shopforge/notification-service/internal/attachments"
	"github.com/shopforge/notification-service/internal/domain"
)

func (a *Assembler) claimShipmentCreated(ctx context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	claimID := stringField(payload, "id")
	fulfillmentID := stringField(payload, "fulfillment_id")

	claim, err := a.services.Claims.Retrieve(ctx, claimID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve claim %s: %w", claimID, err)
	}
	order, err := a.services.Orders.Retrieve(ctx, claim.OrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve order %s: %w", claim.OrderID, err)
	}
	fulfillment, err := a.services.Fulfillments.Retrieve(ctx, fulfillmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve fulfillment %s: %w", fulfillmentID, err)
	}

	links, joined := trackingView(fulfillment)

	renderCtx := domain.RenderContext{
		"email":           order.Email,
		"display_id":      order.DisplayID,
		"date":            shipmentDate(fulfillment, order.CreatedAt),
		"claim":           map[string]any{"id": claim.ID, "type": claim.Type},
		"tracking_links":  links,
		"tracking_number": joined,
		"env":             a.envView(),
	}
	if locale := a.extractLocale(ctx, order.CartID); locale != "" {
		renderCtx["locale"] = locale
	}
	return renderCtx, nil, nil
}
