// Package templates maps event names to configured email template identifiers.
package templates

import (
	"github.com/shopforge/notification-service/internal/domain"
)

// Resolver is a read-only event-name to template-id lookup. It is built once
// at construction and safe for concurrent use; a missing entry is a normal
// outcome, never an error.
type Resolver struct {
	byEvent map[string]string
}

// NewResolver builds a resolver from the given mapping. The map is copied, so
// later mutation by the caller has no effect.
func NewResolver(templateMap map[string]string) *Resolver {
	m := make(map[string]string, len(templateMap))
	for event, id := range templateMap {
		if id == "" {
			continue
		}
		m[event] = id
	}
	return &Resolver{byEvent: m}
}

// Resolve returns the template id configured for the event name, and whether
// one exists.
func (r *Resolver) Resolve(eventName string) (string, bool) {
	id, ok := r.byEvent[eventName]
	return id, ok
}

// Defaults returns the out-of-the-box template map covering every recognized
// event. Caller-supplied configuration replaces this wholesale.
func Defaults() map[string]string {
	return map[string]string{
		domain.EventNameOrderPlaced:           "order-placed",
		domain.EventNameOrderCanceled:         "order-canceled",
		domain.EventNameOrderShipmentCreated:  "order-shipment-created",
		domain.EventNameReturnRequested:       "return-requested",
		domain.EventNameItemsReturned:         "items-returned",
		domain.EventNameOrderGiftCardCreated:  "gift-card-created",
		domain.EventNameSwapCreated:           "swap-created",
		domain.EventNameSwapShipmentCreated:   "swap-shipment-created",
		domain.EventNameSwapReceived:          "swap-received",
		domain.EventNameClaimShipmentCreated:  "claim-shipment-created",
		domain.EventNameGiftCardCreated:       "gift-card-created",
		domain.EventNameUserPasswordReset:     "password-reset",
		domain.EventNameCustomerPasswordReset: "password-reset",
		domain.EventNameInviteCreated:         "invite-created",
		domain.EventNameRestockNotification:   "restock-notification",
	}
}
