package assembler

import (
	"context"
	"fmt"

	"github.com/shopforge/notification-service/internal/attachments"
	"github.com/shopforge/notification-service/internal/domain"
	"github.com/shopforge/notification-service/internal/pricing"
)

func (a *Assembler) returnRequested(ctx context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	returnID := stringField(payload, "return_id")
	orderID := stringField(payload, "id")

	ret, err := a.services.Returns.Retrieve(ctx, returnID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve return %s: %w", returnID, err)
	}
	order, err := a.services.Orders.Retrieve(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve order %s: %w", orderID, err)
	}

	returned := matchReturnedItems(order, ret.Items)
	enriched, err := a.enrichItems(ctx, order, returned)
	if err != nil {
		return nil, nil, err
	}

	refund, err := a.services.Totals.GetRefundTotal(ctx, order, ret)
	if err != nil {
		return nil, nil, fmt.Errorf("refund total for return %s: %w", returnID, err)
	}

	renderCtx := domain.RenderContext{
		"email":         order.Email,
		"display_id":    order.DisplayID,
		"date":          humanDate(ret.CreatedAt),
		"items":         itemViews(enriched),
		"refund_amount": pricing.FormatWithCurrency(refund, order.CurrencyCode),
		"env":           a.envView(),
	}
	if locale := a.extractLocale(ctx, order.CartID); locale != "" {
		renderCtx["locale"] = locale
	}

	in := &attachments.Input{
		Order:          order,
		ReturnedItems:  returned,
		ShippingMethod: ret.ShippingMethod,
	}
	return renderCtx, in, nil
}

func (a *Assembler) itemsReturned(ctx context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	returnID := stringField(payload, "return_id")
	orderID := stringField(payload, "id")

	ret, err := a.services.Returns.Retrieve(ctx, returnID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve return %s: %w", returnID, err)
	}
	order, err := a.services.Orders.Retrieve(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve order %s: %w", orderID, err)
	}

	returned := matchReturnedItems(order, ret.Items)
	enriched, err := a.enrichItems(ctx, order, returned)
	if err != nil {
		return nil, nil, err
	}

	refund, err := a.services.Totals.GetRefundTotal(ctx, order, ret)
	if err != nil {
		return nil, nil, fmt.Errorf("refund total for return %s: %w", returnID, err)
	}

	renderCtx := domain.RenderContext{
		"email":         order.Email,
		"display_id":    order.DisplayID,
		"date":          humanDate(ret.UpdatedAt),
		"items":         itemViews(enriched),
		"refund_amount": pricing.FormatWithCurrency(refund, order.CurrencyCode),
		"env":           a.envView(),
	}
	if locale := a.extractLocale(ctx, order.CartID); locale != "" {
		renderCtx["locale"] = locale
	}
	return renderCtx, nil, nil
}
