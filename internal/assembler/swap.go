package assembler

import (
	"context"
	"fmt"

	"github.com/shopforge/notification-service/internal/attachments"
	"github.com/shopforge/notification-service/internal/domain"
	"github.com/shopforge/notification-service/internal/pricing"
	"github.com/shopforge/notification-service/internal/upstream"
)

func (a *Assembler) swapCreated(ctx context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	swapID := stringField(payload, "id")

	swap, err := a.services.Swaps.Retrieve(ctx, swapID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve swap %s: %w", swapID, err)
	}
	order, err := a.services.Orders.Retrieve(ctx, swap.OrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve order %s: %w", swap.OrderID, err)
	}
	cart, err := a.services.Carts.Retrieve(ctx, swap.CartID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve cart %s: %w", swap.CartID, err)
	}

	// The swap cart mixes return lines with replacement lines; partition on
	// the item flag so the two totals stay independent of the parent order.
	var returned, additional []upstream.LineItem
	for _, item := range cart.Items {
		if item.IsReturn {
			returned = append(returned, item)
		} else {
			additional = append(additional, item)
		}
	}

	enrichedReturned, err := a.enrichItems(ctx, order, returned)
	if err != nil {
		return nil, nil, err
	}
	enrichedAdditional, err := a.enrichItems(ctx, order, additional)
	if err != nil {
		return nil, nil, err
	}

	// Return lines carry negative totals in the cart; negate the sum so the
	// email shows what the customer gets back as a positive amount.
	var returnTotal, additionalTotal int64
	for _, e := range enrichedReturned {
		returnTotal += e.totals.Total
	}
	returnTotal = -returnTotal
	for _, e := range enrichedAdditional {
		additionalTotal += e.totals.Total
	}

	renderCtx := domain.RenderContext{
		"email":            cart.Email,
		"display_id":       order.DisplayID,
		"date":             humanDate(swap.CreatedAt),
		"return_items":     itemViews(enrichedReturned),
		"additional_items": itemViews(enrichedAdditional),
		"return_total":     pricing.FormatWithCurrency(returnTotal, order.CurrencyCode),
		"additional_total": pricing.FormatWithCurrency(additionalTotal, order.CurrencyCode),
		"env":              a.envView(),
	}
	if locale := cartLocale(cart); locale != "" {
		renderCtx["locale"] = locale
	}

	returnedLineItems := matchSwapReturnItems(order, returned)
	in := &attachments.Input{
		Order:          order,
		ReturnedItems:  returnedLineItems,
		ShippingMethod: swap.ReturnShippingMethod,
	}
	return renderCtx, in, nil
}

func (a *Assembler) swapShipmentCreated(ctx context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	swapID := stringField(payload, "id")
	fulfillmentID := stringField(payload, "fulfillment_id")

	swap, err := a.services.Swaps.Retrieve(ctx, swapID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve swap %s: %w", swapID, err)
	}
	order, err := a.services.Orders.Retrieve(ctx, swap.OrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve order %s: %w", swap.OrderID, err)
	}
	fulfillment, err := a.services.Fulfillments.Retrieve(ctx, fulfillmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve fulfillment %s: %w", fulfillmentID, err)
	}

	links, joined := trackingView(fulfillment)

	renderCtx := domain.RenderContext{
		"email":           order.Email,
		"display_id":      order.DisplayID,
		"date":            shipmentDate(fulfillment, swap.CreatedAt),
		"swap":            map[string]any{"id": swap.ID},
		"tracking_links":  links,
		"tracking_number": joined,
		"env":             a.envView(),
	}
	if locale := a.extractLocale(ctx, order.CartID); locale != "" {
		renderCtx["locale"] = locale
	}
	return renderCtx, nil, nil
}

func (a *Assembler) swapReceived(ctx context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	swapID := stringField(payload, "id")

	swap, err := a.services.Swaps.Retrieve(ctx, swapID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve swap %s: %w", swapID, err)
	}
	order, err := a.services.Orders.Retrieve(ctx, swap.OrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve order %s: %w", swap.OrderID, err)
	}

	renderCtx := domain.RenderContext{
		"email":      order.Email,
		"display_id": order.DisplayID,
		"date":       humanDate(swap.UpdatedAt),
		"swap":       map[string]any{"id": swap.ID},
		"env":        a.envView(),
	}
	if locale := a.extractLocale(ctx, order.CartID); locale != "" {
		renderCtx["locale"] = locale
	}
	return renderCtx, nil, nil
}

// matchSwapReturnItems maps the swap cart's return lines back to the parent
// order's line items for invoice generation. Cart lines with no counterpart
// on the order (replacements phrased as returns) fall back to the cart line.
func matchSwapReturnItems(order *upstream.Order, returned []upstream.LineItem) []upstream.LineItem {
	byVariant := make(map[string]upstream.LineItem, len(order.Items))
	for _, item := range order.Items {
		byVariant[item.VariantID] = item
	}

	items := make([]upstream.LineItem, 0, len(returned))
	for _, line := range returned {
		if item, ok := byVariant[line.VariantID]; ok {
			item.Quantity = line.Quantity
			items = append(items, item)
			continue
		}
		items = append(items, line)
	}
	return items
}
