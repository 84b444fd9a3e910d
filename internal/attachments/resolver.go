// Package attachments resolves the binary documents attached to an outgoing
// notification: shipping labels fetched from the fulfillment provider and
// invoices produced by an optional generator capability.
package attachments

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/shopforge/notification-service/internal/domain"
	"github.com/shopforge/notification-service/internal/upstream"
)

// Attachment names and types.
const (
	NameReturnLabel = "return-label"
	NameInvoice     = "invoice"

	invoiceMimeType = "application/pdf"
)

// Generator is the optional attachment-generation capability supplied by the
// caller of a dispatch. A nil Generator simply produces no invoice.
type Generator interface {
	CreateReturnInvoice(ctx context.Context, order *upstream.Order, items []upstream.LineItem) ([]byte, error)
}

// Input is the typed slice of assembled data the resolver works from. An
// assembler produces it alongside the render context; events without
// attachment-relevant data leave it nil.
type Input struct {
	Order          *upstream.Order
	ReturnedItems  []upstream.LineItem
	ShippingMethod *upstream.ShippingMethod
}

// Resolver builds the attachment list for a dispatch. Fetch failures are
// logged and degrade to "no attachments"; they never abort the dispatch.
type Resolver struct {
	documents upstream.DocumentService
	logger    *slog.Logger
}

// NewResolver creates an attachment resolver.
func NewResolver(documents upstream.DocumentService, logger *slog.Logger) *Resolver {
	return &Resolver{documents: documents, logger: logger}
}

// Resolve returns the attachments for the given event kind and assembled data.
// Only return-requested and swap-created dispatches carry attachments; every
// other kind yields an empty list.
func (r *Resolver) Resolve(ctx context.Context, kind domain.EventKind, in *Input, gen Generator) []domain.Attachment {
	switch kind {
	case domain.EventReturnRequested, domain.EventSwapCreated:
	default:
		return nil
	}
	if in == nil {
		return nil
	}

	var attachments []domain.Attachment

	if in.ShippingMethod != nil {
		docs, err := r.documents.RetrieveDocuments(ctx, in.ShippingMethod.ProviderID, in.ShippingMethod.Data, "label")
		if err != nil {
			r.logger.WarnContext(ctx, "failed to retrieve label documents",
				slog.String("event", kind.String()),
				slog.String("provider_id", in.ShippingMethod.ProviderID),
				slog.String("error", err.Error()),
			)
		} else {
			for _, doc := range docs {
				attachments = append(attachments, domain.Attachment{
					Name:     NameReturnLabel,
					Content:  doc.Content,
					MimeType: doc.Type,
				})
			}
		}
	}

	if gen != nil && in.Order != nil {
		invoice, err := gen.CreateReturnInvoice(ctx, in.Order, in.ReturnedItems)
		if err != nil {
			r.logger.WarnContext(ctx, "failed to generate return invoice",
				slog.String("event", kind.String()),
				slog.String("order_id", in.Order.ID),
				slog.String("error", err.Error()),
			)
		} else {
			attachments = append(attachments, domain.Attachment{
				Name:     NameInvoice,
				Content:  base64.StdEncoding.EncodeToString(invoice),
				MimeType: invoiceMimeType,
			})
		}
	}

	return attachments
}
