package assembler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shopforge/notification-service/internal/pricing"
	"github.com/shopforge/notification-service/internal/upstream"
)

// dateLayout renders timestamps as calendar dates, e.g. "Fri Apr 09 2021".
const dateLayout = "Mon Jan 02 2006"

// NormalizeThumbnail rewrites a protocol-relative URL to an explicit secure
// one and passes absolute URLs through. An empty value stays empty; callers
// turn that into an explicit no-thumbnail marker in the rendered view.
func NormalizeThumbnail(url string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "//") {
		return "https:" + url
	}
	return url
}

func humanDate(t time.Time) string {
	return t.Format(dateLayout)
}

// stringField reads an optional string field from an event payload.
func stringField(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

// stringSliceField reads a list of strings from an event payload, tolerating
// the []any shape JSON decoding produces.
func stringSliceField(payload map[string]any, key string) []string {
	raw, ok := payload[key].([]any)
	if !ok {
		if typed, ok := payload[key].([]string); ok {
			return typed
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// extractLocale reads the display locale from a cart's context. Lookup
// failures are logged and treated as "no locale"; they never fail assembly.
func (a *Assembler) extractLocale(ctx context.Context, cartID string) string {
	if cartID == "" {
		return ""
	}
	cart, err := a.services.Carts.Retrieve(ctx, cartID)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to resolve locale from cart",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()),
		)
		return ""
	}
	return cartLocale(cart)
}

func cartLocale(cart *upstream.Cart) string {
	if cart == nil || cart.Context == nil {
		return ""
	}
	if locale, ok := cart.Context["locale"].(string); ok {
		return locale
	}
	return ""
}

// enrichedItem pairs a line item with its computed totals and the rendered
// view that goes into the context. Raw totals stay out of the context; they
// only feed aggregation.
type enrichedItem struct {
	item   upstream.LineItem
	totals upstream.LineItemTotals
	view   map[string]any
}

// enrichItems computes totals for each line item concurrently and joins
// before returning. Item order is preserved; a single failure aborts the
// whole batch.
func (a *Assembler) enrichItems(ctx context.Context, order *upstream.Order, items []upstream.LineItem) ([]enrichedItem, error) {
	out := make([]enrichedItem, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() error {
			totals, err := a.services.Totals.GetLineItemTotals(gctx, item, order)
			if err != nil {
				return fmt.Errorf("line item totals for %s: %w", item.ID, err)
			}
			out[i] = enrichedItem{
				item:   item,
				totals: *totals,
				view:   itemView(item, *totals, order.CurrencyCode),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// perUnit divides a line total by quantity, rounded to the nearest minor
// unit. Plain integer division would silently drop up to qty-1 minor units.
func perUnit(total, qty int64) int64 {
	return (total + qty/2) / qty
}

// itemView builds the per-item rendering map. Prices are per-unit display
// strings: the original (pre-discount) price and the discounted one.
func itemView(item upstream.LineItem, totals upstream.LineItemTotals, currencyCode string) map[string]any {
	qty := int64(item.Quantity)
	if qty <= 0 {
		qty = 1
	}

	view := map[string]any{
		"title":            item.Title,
		"description":      item.Description,
		"quantity":         item.Quantity,
		"price":            pricing.FormatWithCurrency(perUnit(totals.OriginalTotal, qty), currencyCode),
		"discounted_price": pricing.FormatWithCurrency(perUnit(totals.Total, qty), currencyCode),
	}
	if thumb := NormalizeThumbnail(item.Thumbnail); thumb != "" {
		view["thumbnail"] = thumb
	} else {
		view["thumbnail"] = nil
	}
	return view
}

func itemViews(enriched []enrichedItem) []map[string]any {
	views := make([]map[string]any, 0, len(enriched))
	for _, e := range enriched {
		views = append(views, e.view)
	}
	return views
}

// discountViews renders discount descriptors: "{value}%" for percentage
// rules, "{amount} {CUR}" for fixed rules.
func discountViews(discounts []upstream.Discount, currencyCode string) []map[string]any {
	views := make([]map[string]any, 0, len(discounts))
	for _, d := range discounts {
		var descriptor string
		switch d.Rule.Type {
		case upstream.DiscountRulePercentage:
			descriptor = fmt.Sprintf("%d%%", d.Rule.Value)
		case upstream.DiscountRuleFixed:
			descriptor = pricing.FormatWithCurrency(d.Rule.Value, currencyCode)
		case upstream.DiscountRuleFreeShip:
			descriptor = "Free shipping"
		}
		views = append(views, map[string]any{
			"is_giftcard": false,
			"code":        d.Code,
			"descriptor":  descriptor,
		})
	}
	return views
}

// giftCardViews renders gift-card lines, always flagged is_giftcard.
func giftCardViews(cards []upstream.GiftCard, currencyCode string) []map[string]any {
	views := make([]map[string]any, 0, len(cards))
	for _, gc := range cards {
		views = append(views, map[string]any{
			"is_giftcard": true,
			"code":        gc.Code,
			"descriptor":  pricing.FormatWithCurrency(gc.Value, currencyCode),
		})
	}
	return views
}

// documentTotals builds the formatted document-level aggregates. Subtotal and
// tax total accumulate the already-rounded per-line values by plain addition;
// the remaining aggregates come from the totals service. Everything is
// formatted exactly once, here.
func (a *Assembler) documentTotals(ctx context.Context, order *upstream.Order, enriched []enrichedItem) (map[string]any, error) {
	var subtotal, taxTotal int64
	for _, e := range enriched {
		subtotal += e.totals.Subtotal
		taxTotal += e.totals.TaxTotal
	}

	agg, err := a.services.Totals.GetTotal(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("order totals for %s: %w", order.ID, err)
	}

	cur := order.CurrencyCode
	return map[string]any{
		"subtotal":        pricing.FormatWithCurrency(subtotal, cur),
		"tax_total":       pricing.FormatWithCurrency(taxTotal, cur),
		"discount_total":  pricing.FormatWithCurrency(agg.DiscountTotal, cur),
		"shipping_total":  pricing.FormatWithCurrency(agg.ShippingTotal, cur),
		"gift_card_total": pricing.FormatWithCurrency(agg.GiftCardTotal, cur),
		"total":           pricing.FormatWithCurrency(agg.Total, cur),
	}, nil
}

// trackingView flattens a fulfillment's tracking links for templates.
func trackingView(f *upstream.Fulfillment) ([]map[string]any, string) {
	links := make([]map[string]any, 0, len(f.TrackingLinks))
	numbers := make([]string, 0, len(f.TrackingLinks))
	for _, tl := range f.TrackingLinks {
		links = append(links, map[string]any{
			"tracking_number": tl.TrackingNumber,
			"url":             tl.URL,
		})
		numbers = append(numbers, tl.TrackingNumber)
	}
	return links, strings.Join(numbers, ", ")
}

// shipmentDate picks the most relevant timestamp for a shipment email.
func shipmentDate(f *upstream.Fulfillment, fallback time.Time) string {
	if f.ShippedAt != nil {
		return humanDate(*f.ShippedAt)
	}
	return humanDate(fallback)
}

// matchReturnedItems projects return-item references onto the order's line
// items, carrying the returned quantity.
func matchReturnedItems(order *upstream.Order, refs []upstream.ReturnItem) []upstream.LineItem {
	byID := make(map[string]upstream.LineItem, len(order.Items))
	for _, item := range order.Items {
		byID[item.ID] = item
	}

	items := make([]upstream.LineItem, 0, len(refs))
	for _, ref := range refs {
		item, ok := byID[ref.ItemID]
		if !ok {
			continue
		}
		item.Quantity = ref.Quantity
		items = append(items, item)
	}
	return items
}
