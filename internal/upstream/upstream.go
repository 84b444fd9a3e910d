// Package upstream defines the read-side contracts of the domain services the
// dispatch pipeline aggregates data from, plus HTTP implementations of them.
// The pipeline only ever calls these query operations; it never writes.
package upstream

import "context"

// OrderService retrieves order aggregates.
type OrderService interface {
	Retrieve(ctx context.Context, id string) (*Order, error)
}

// ReturnService retrieves return requests.
type ReturnService interface {
	Retrieve(ctx context.Context, id string) (*Return, error)
}

// SwapService retrieves swaps.
type SwapService interface {
	Retrieve(ctx context.Context, id string) (*Swap, error)
}

// ClaimService retrieves claims.
type ClaimService interface {
	Retrieve(ctx context.Context, id string) (*Claim, error)
}

// FulfillmentService retrieves fulfillments.
type FulfillmentService interface {
	Retrieve(ctx context.Context, id string) (*Fulfillment, error)
}

// CartService retrieves carts.
type CartService interface {
	Retrieve(ctx context.Context, id string) (*Cart, error)
}

// GiftCardService retrieves gift cards.
type GiftCardService interface {
	Retrieve(ctx context.Context, id string) (*GiftCard, error)
}

// VariantService retrieves product variants.
type VariantService interface {
	Retrieve(ctx context.Context, id string) (*ProductVariant, error)
}

// TotalsService computes monetary totals. All results are minor-unit integers;
// per-tax-line rounding happens inside the service, exactly once.
type TotalsService interface {
	GetLineItemTotals(ctx context.Context, item LineItem, order *Order) (*LineItemTotals, error)
	GetTotal(ctx context.Context, order *Order) (*OrderTotals, error)
	GetRefundTotal(ctx context.Context, order *Order, ret *Return) (int64, error)
}

// DocumentService retrieves binary documents (e.g. shipping labels) from a
// fulfillment provider, keyed by provider id and the shipping data blob.
type DocumentService interface {
	RetrieveDocuments(ctx context.Context, providerID string, shippingData map[string]any, kind string) ([]Document, error)
}

// Services bundles every upstream collaborator the assembler needs. All fields
// are required except where an assembler tolerates absence explicitly.
type Services struct {
	Orders       OrderService
	Returns      ReturnService
	Swaps        SwapService
	Claims       ClaimService
	Fulfillments FulfillmentService
	Carts        CartService
	GiftCards    GiftCardService
	Variants     VariantService
	Totals       TotalsService
	Documents    DocumentService
}
