package assembler

import (
	"context"
	"fmt"

	"github.com/shopforge/notification-service/internal/attachments"
	"github.com/shopforge/notification-service/internal/domain"
	"github.com/shopforge/notification-service/internal/pricing"
)

// giftCardCreated serves both the standalone and the order-scoped gift card
// events. A card bought outside an order has no purchaser email; the empty
// recipient downstream turns the dispatch into a no-data outcome.
func (a *Assembler) giftCardCreated(ctx context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	giftCardID := stringField(payload, "id")

	card, err := a.services.GiftCards.Retrieve(ctx, giftCardID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve gift card %s: %w", giftCardID, err)
	}

	renderCtx := domain.RenderContext{
		"code": card.Code,
		"env":  a.envView(),
	}

	if card.OrderID != "" {
		order, err := a.services.Orders.Retrieve(ctx, card.OrderID)
		if err != nil {
			return nil, nil, fmt.Errorf("retrieve order %s: %w", card.OrderID, err)
		}
		renderCtx["email"] = order.Email
		renderCtx["display_id"] = order.DisplayID
		renderCtx["date"] = humanDate(order.CreatedAt)
		renderCtx["value"] = pricing.FormatWithCurrency(card.Value, order.CurrencyCode)
		renderCtx["balance"] = pricing.FormatWithCurrency(card.Balance, order.CurrencyCode)
		if locale := a.extractLocale(ctx, order.CartID); locale != "" {
			renderCtx["locale"] = locale
		}
	}

	return renderCtx, nil, nil
}
