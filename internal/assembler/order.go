package assembler

import (
	"context"
	"fmt"

	"github.com/shopforge/notification-service/internal/attachments"
	"github.com/shopforge/notification-service/internal/domain"
	"github.com/shopforge/notification-service/internal/upstream"
)

func (a *Assembler) orderPlaced(ctx context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	orderID := stringField(payload, "id")
	order, err := a.services.Orders.Retrieve(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve order %s: %w", orderID, err)
	}

	enriched, err := a.enrichItems(ctx, order, order.Items)
	if err != nil {
		return nil, nil, err
	}
	totals, err := a.documentTotals(ctx, order, enriched)
	if err != nil {
		return nil, nil, err
	}

	renderCtx := domain.RenderContext{
		"email":            order.Email,
		"display_id":       order.DisplayID,
		"date":             humanDate(order.CreatedAt),
		"items":            itemViews(enriched),
		"discounts":        discountViews(order.Discounts, order.CurrencyCode),
		"gift_cards":       giftCardViews(order.GiftCards, order.CurrencyCode),
		"shipping_address": addressView(order.ShippingAddress),
		"env":              a.envView(),
	}
	for k, v := range totals {
		renderCtx[k] = v
	}
	if locale := a.extractLocale(ctx, order.CartID); locale != "" {
		renderCtx["locale"] = locale
	}
	return renderCtx, nil, nil
}

func (a *Assembler) orderCanceled(ctx context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	orderID := stringField(payload, "id")
	order, err := a.services.Orders.Retrieve(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve order %s: %w", orderID, err)
	}

	enriched, err := a.enrichItems(ctx, order, order.Items)
	if err != nil {
		return nil, nil, err
	}
	totals, err := a.documentTotals(ctx, order, enriched)
	if err != nil {
		return nil, nil, err
	}

	renderCtx := domain.RenderContext{
		"email":      order.Email,
		"display_id": order.DisplayID,
		"date":       humanDate(order.CreatedAt),
		"items":      itemViews(enriched),
		"env":        a.envView(),
	}
	for k, v := range totals {
		renderCtx[k] = v
	}
	if locale := a.extractLocale(ctx, order.CartID); locale != "" {
		renderCtx["locale"] = locale
	}
	return renderCtx, nil, nil
}

func (a *Assembler) orderShipmentCreated(ctx context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	orderID := stringField(payload, "order_id")
	fulfillmentID := stringField(payload, "fulfillment_id")

	order, err := a.services.Orders.Retrieve(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve order %s: %w", orderID, err)
	}
	fulfillment, err := a.services.Fulfillments.Retrieve(ctx, fulfillmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve fulfillment %s: %w", fulfillmentID, err)
	}

	shipped := matchFulfilledItems(order, fulfillment)
	enriched, err := a.enrichItems(ctx, order, shipped)
	if err != nil {
		return nil, nil, err
	}

	links, joined := trackingView(fulfillment)

	renderCtx := domain.RenderContext{
		"email":            order.Email,
		"display_id":       order.DisplayID,
		"date":             shipmentDate(fulfillment, order.CreatedAt),
		"items":            itemViews(enriched),
		"fulfillment":      map[string]any{"id": fulfillment.ID, "provider_id": fulfillment.ProviderID},
		"tracking_links":   links,
		"tracking_number":  joined,
		"shipping_address": addressView(order.ShippingAddress),
		"env":              a.envView(),
	}
	if locale := a.extractLocale(ctx, order.CartID); locale != "" {
		renderCtx["locale"] = locale
	}
	return renderCtx, nil, nil
}

// matchFulfilledItems projects a fulfillment's item references onto the
// order's line items, carrying the fulfilled quantity.
func matchFulfilledItems(order *upstream.Order, f *upstream.Fulfillment) []upstream.LineItem {
	byID := make(map[string]upstream.LineItem, len(order.Items))
	for _, item := range order.Items {
		byID[item.ID] = item
	}

	items := make([]upstream.LineItem, 0, len(f.Items))
	for _, ref := range f.Items {
		item, ok := byID[ref.ItemID]
		if !ok {
			continue
		}
		item.Quantity = ref.Quantity
		items = append(items, item)
	}
	return items
}

func addressView(addr *upstream.Address) map[string]any {
	if addr == nil {
		return nil
	}
	return map[string]any{
		"first_name":   addr.FirstName,
		"last_name":    addr.LastName,
		"address_line": addr.AddressLine,
		"city":         addr.City,
		"postal_code":  addr.PostalCode,
		"country_code": addr.CountryCode,
	}
}
