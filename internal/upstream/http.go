package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopforge/notification-service/pkg/httpclient"
)

// BaseURLs holds the base URL of every upstream service.
type BaseURLs struct {
	Order       string
	Return      string
	Swap        string
	Claim       string
	Fulfillment string
	Cart        string
	GiftCard    string
	Variant     string
	Totals      string
	Provider    string
}

// HTTPDoer is the request-execution surface the upstream clients need. Both
// httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Get(ctx context.Context, url string) (*http.Response, error)
	Post(ctx context.Context, url string, contentType string, body io.Reader) (*http.Response, error)
}

// HTTP implements every upstream interface over the platform's standard JSON
// envelope, using the shared retrying HTTP client.
type HTTP struct {
	client HTTPDoer
	urls   BaseURLs
}

// NewHTTP creates upstream clients for the given base URLs.
func NewHTTP(client HTTPDoer, urls BaseURLs) *HTTP {
	return &HTTP{client: client, urls: urls}
}

// NewServices wires a Services bundle backed entirely by HTTP clients.
func NewServices(client HTTPDoer, urls BaseURLs) Services {
	h := NewHTTP(client, urls)
	return Services{
		Orders:       orderClient{h},
		Returns:      returnClient{h},
		Swaps:        swapClient{h},
		Claims:       claimClient{h},
		Fulfillments: fulfillmentClient{h},
		Carts:        cartClient{h},
		GiftCards:    giftCardClient{h},
		Variants:     variantClient{h},
		Totals:       totalsClient{h},
		Documents:    documentClient{h},
	}
}

// envelope mirrors the standard response wrapper returned by every service.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (h *HTTP) getJSON(ctx context.Context, service, url string, out any) error {
	resp, err := h.client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("%s: %w", service, err)
	}
	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, service)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: decode response: %w", service, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", service, err)
	}
	return nil
}

func (h *HTTP) postJSON(ctx context.Context, service, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", service, err)
	}

	resp, err := h.client.Post(ctx, url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", service, err)
	}
	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, service)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: decode response: %w", service, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", service, err)
	}
	return nil
}

type orderClient struct{ h *HTTP }

func (c orderClient) Retrieve(ctx context.Context, id string) (*Order, error) {
	var out Order
	url := fmt.Sprintf("%s/api/v1/orders/%s", c.h.urls.Order, id)
	if err := c.h.getJSON(ctx, "order-service", url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type returnClient struct{ h *HTTP }

func (c returnClient) Retrieve(ctx context.Context, id string) (*Return, error) {
	var out Return
	url := fmt.Sprintf("%s/api/v1/returns/%s", c.h.urls.Return, id)
	if err := c.h.getJSON(ctx, "return-service", url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type swapClient struct{ h *HTTP }

func (c swapClient) Retrieve(ctx context.Context, id string) (*Swap, error) {
	var out Swap
	url := fmt.Sprintf("%s/api/v1/swaps/%s", c.h.urls.Swap, id)
	if err := c.h.getJSON(ctx, "swap-service", url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type claimClient struct{ h *HTTP }

func (c claimClient) Retrieve(ctx context.Context, id string) (*Claim, error) {
	var out Claim
	url := fmt.Sprintf("%s/api/v1/claims/%s", c.h.urls.Claim, id)
	if err := c.h.getJSON(ctx, "claim-service", url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type fulfillmentClient struct{ h *HTTP }

func (c fulfillmentClient) Retrieve(ctx context.Context, id string) (*Fulfillment, error) {
	var out Fulfillment
	url := fmt.Sprintf("%s/api/v1/fulfillments/%s", c.h.urls.Fulfillment, id)
	if err := c.h.getJSON(ctx, "fulfillment-service", url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type cartClient struct{ h *HTTP }

func (c cartClient) Retrieve(ctx context.Context, id string) (*Cart, error) {
	var out Cart
	url := fmt.Sprintf("%s/api/v1/carts/%s", c.h.urls.Cart, id)
	if err := c.h.getJSON(ctx, "cart-service", url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type giftCardClient struct{ h *HTTP }

func (c giftCardClient) Retrieve(ctx context.Context, id string) (*GiftCard, error) {
	var out GiftCard
	url := fmt.Sprintf("%s/api/v1/gift-cards/%s", c.h.urls.GiftCard, id)
	if err := c.h.getJSON(ctx, "gift-card-service", url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type variantClient struct{ h *HTTP }

func (c variantClient) Retrieve(ctx context.Context, id string) (*ProductVariant, error) {
	var out ProductVariant
	url := fmt.Sprintf("%s/api/v1/variants/%s", c.h.urls.Variant, id)
	if err := c.h.getJSON(ctx, "variant-service", url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type totalsClient struct{ h *HTTP }

func (c totalsClient) GetLineItemTotals(ctx context.Context, item LineItem, order *Order) (*LineItemTotals, error) {
	req := struct {
		Item  LineItem `json:"item"`
		Order *Order   `json:"order"`
	}{Item: item, Order: order}

	var out LineItemTotals
	url := fmt.Sprintf("%s/api/v1/totals/line-item", c.h.urls.Totals)
	if err := c.h.postJSON(ctx, "totals-service", url, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c totalsClient) GetTotal(ctx context.Context, order *Order) (*OrderTotals, error) {
	req := struct {
		Order *Order `json:"order"`
	}{Order: order}

	var out OrderTotals
	url := fmt.Sprintf("%s/api/v1/totals/order", c.h.urls.Totals)
	if err := c.h.postJSON(ctx, "totals-service", url, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c totalsClient) GetRefundTotal(ctx context.Context, order *Order, ret *Return) (int64, error) {
	req := struct {
		Order  *Order  `json:"order"`
		Return *Return `json:"return"`
	}{Order: order, Return: ret}

	var out struct {
		RefundTotal int64 `json:"refund_total"`
	}
	url := fmt.Sprintf("%s/api/v1/totals/refund", c.h.urls.Totals)
	if err := c.h.postJSON(ctx, "totals-service", url, req, &out); err != nil {
		return 0, err
	}
	return out.RefundTotal, nil
}

type documentClient struct{ h *HTTP }

func (c documentClient) RetrieveDocuments(ctx context.Context, providerID string, shippingData map[string]any, kind string) ([]Document, error) {
	req := struct {
		ShippingData map[string]any `json:"shipping_data"`
		Kind         string         `json:"kind"`
	}{ShippingData: shippingData, Kind: kind}

	var out []Document
	url := fmt.Sprintf("%s/api/v1/providers/%s/documents", c.h.urls.Provider, providerID)
	if err := c.h.postJSON(ctx, "fulfillment-provider-service", url, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
