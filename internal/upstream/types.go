package upstream

import "time"

// Discount rule types.
const (
	DiscountRulePercentage = "percentage"
	DiscountRuleFixed      = "fixed"
	DiscountRuleFreeShip   = "free_shipping"
)

// Order is the order aggregate as returned by the order service.
type Order struct {
	ID              string     `json:"id"`
	DisplayID       int        `json:"display_id"`
	Email           string     `json:"email"`
	CurrencyCode    string     `json:"currency_code"`
	CartID          string     `json:"cart_id,omitempty"`
	TaxRate         float64    `json:"tax_rate"`
	Items           []LineItem `json:"items"`
	Discounts       []Discount `json:"discounts,omitempty"`
	GiftCards       []GiftCard `json:"gift_cards,omitempty"`
	ShippingAddress *Address   `json:"shipping_address,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// LineItem is a purchasable line on an order, cart, or swap.
type LineItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	VariantID   string `json:"variant_id,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	IsReturn    bool   `json:"is_return"`
}

// LineItemTotals holds the computed minor-unit totals for one line item.
// Tax amounts are rounded once per tax line by the totals service; callers
// aggregate them by plain addition and never re-round.
type LineItemTotals struct {
	Subtotal         int64 `json:"subtotal"`
	TaxTotal         int64 `json:"tax_total"`
	Total            int64 `json:"total"`
	OriginalTotal    int64 `json:"original_total"`
	OriginalTaxTotal int64 `json:"original_tax_total"`
}

// OrderTotals holds the document-level minor-unit aggregates for an order.
type OrderTotals struct {
	Subtotal      int64 `json:"subtotal"`
	TaxTotal      int64 `json:"tax_total"`
	DiscountTotal int64 `json:"discount_total"`
	ShippingTotal int64 `json:"shipping_total"`
	GiftCardTotal int64 `json:"gift_card_total"`
	Total         int64 `json:"total"`
}

// Discount is a promotion applied to an order.
type Discount struct {
	Code string       `json:"code"`
	Rule DiscountRule `json:"rule"`
}

// DiscountRule describes how a discount applies. Value is a percentage for
// percentage rules and a minor-unit amount for fixed rules.
type DiscountRule struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

// GiftCard is a stored-value card. Value and Balance are minor units.
type GiftCard struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Value   int64  `json:"value"`
	Balance int64  `json:"balance"`
	OrderID string `json:"order_id,omitempty"`
}

// Address is a shipping or billing address.
type Address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
}

// Return is a return request against an order.
type Return struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order_id"`
	Items          []ReturnItem    `json:"items"`
	ShippingMethod *ShippingMethod `json:"shipping_method,omitempty"`
	RefundAmount   int64           `json:"refund_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ReturnItem references an order line item included in a return.
type ReturnItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// ShippingMethod is a selected shipping option instance. Data carries the
// provider-specific payload needed to retrieve label documents.
type ShippingMethod struct {
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	ProviderID string         `json:"provider_id"`
	Price      int64          `json:"price"`
	Data       map[string]any `json:"data,omitempty"`
}

// Swap exchanges returned order items for additional ones. The swap cart's
// line items carry the is_return flag used to partition totals.
type Swap struct {
	ID                   string          `json:"id"`
	OrderID              string          `json:"order_id"`
	CartID               string          `json:"cart_id"`
	ReturnShippingMethod *ShippingMethod `json:"return_shipping_method,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Claim is a customer claim against an order.
type Claim struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Type      string    `json:"type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Fulfillment is a shipment of order, swap, or claim items.
type Fulfillment struct {
	ID            string            `json:"id"`
	ProviderID    string            `json:"provider_id"`
	Items         []FulfillmentItem `json:"items"`
	TrackingLinks []TrackingLink    `json:"tracking_links,omitempty"`
	Data          map[string]any    `json:"data,omitempty"`
	ShippedAt     *time.Time        `json:"shipped_at,omitempty"`
}

// FulfillmentItem references a line item included in a fulfillment.
type FulfillmentItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// TrackingLink is a carrier tracking reference on a fulfillment.
type TrackingLink struct {
	TrackingNumber string `json:"tracking_number"`
	URL            string `json:"url,omitempty"`
}

// Cart is a checkout cart. Context is free-form key-value state written at
// checkout time; the locale resolver reads it best-effort.
type Cart struct {
	ID      string         `json:"id"`
	Email   string         `json:"email,omitempty"`
	Context map[string]any `json:"context,omitempty"`
	Items   []LineItem     `json:"items,omitempty"`
}

// ProductVariant is a purchasable variant of a product.
type ProductVariant struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	SKU     string  `json:"sku,omitempty"`
	Product Product `json:"product"`
}

// Product is the parent product of a variant.
type Product struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Document is a binary document returned by a fulfillment provider, e.g. a
// shipping label. Content is base64-encoded; Type is a MIME type.
type Document struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}
