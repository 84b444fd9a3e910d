package assembler

import (
	"context"
	"fmt"

	"github.com/shopforge/notification-service/internal/attachments"
	"github.com/shopforge/notification-service/internal/domain"
)

// passwordReset covers both the user and customer reset events; the payload
// already carries everything the template needs.
func (a *Assembler) passwordReset(_ context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	return domain.RenderContext{
		"email":      stringField(payload, "email"),
		"token":      stringField(payload, "token"),
		"first_name": stringField(payload, "first_name"),
		"last_name":  stringField(payload, "last_name"),
		"env":        a.envView(),
	}, nil, nil
}

// inviteCreated addresses the invited user; the display name falls back to
// the invite email when the inviter left it blank.
func (a *Assembler) inviteCreated(_ context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	email := stringField(payload, "user_email")
	displayName := stringField(payload, "display_name")
	if displayName == "" {
		displayName = email
	}
	return domain.RenderContext{
		"email":        email,
		"token":        stringField(payload, "token"),
		"display_name": displayName,
		"env":          a.envView(),
	}, nil, nil
}

// restockNotification goes to the first subscribed address; the full list
// stays available to the template.
func (a *Assembler) restockNotification(ctx context.Context, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	variantID := stringField(payload, "variant_id")
	emails := stringSliceField(payload, "emails")

	variant, err := a.services.Variants.Retrieve(ctx, variantID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve variant %s: %w", variantID, err)
	}

	renderCtx := domain.RenderContext{
		"emails":        emails,
		"product":       map[string]any{"title": variant.Product.Title},
		"variant_title": variant.Title,
		"sku":           variant.SKU,
		"env":           a.envView(),
	}
	if len(emails) > 0 {
		renderCtx["email"] = emails[0]
	}
	if thumb := NormalizeThumbnail(variant.Product.Thumbnail); thumb != "" {
		renderCtx["thumbnail"] = thumb
	}
	return renderCtx, nil, nil
}
