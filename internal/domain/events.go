package domain

// Event name constants. These are the wire names used on the event bus and as
// keys in the template map.
const (
	EventNameOrderPlaced           = "order.placed"
	EventNameOrderCanceled         = "order.canceled"
	EventNameOrderShipmentCreated  = "order.shipment_created"
	EventNameReturnRequested       = "order.return_requested"
	EventNameItemsReturned         = "order.items_returned"
	EventNameOrderGiftCardCreated  = "order.gift_card_created"
	EventNameSwapCreated           = "swap.created"
	EventNameSwapShipmentCreated   = "swap.shipment_created"
	EventNameSwapReceived          = "swap.received"
	EventNameClaimShipmentCreated  = "claim.shipment_created"
	EventNameGiftCardCreated       = "gift_card.created"
	EventNameUserPasswordReset     = "user.password_reset"
	EventNameCustomerPasswordReset = "customer.password_reset"
	EventNameInviteCreated         = "invite.created"
	EventNameRestockNotification   = "restock-notification.restocked"
)

// EventKind is the closed enumeration of commerce events the dispatcher
// understands. Assembly dispatches over this tagged value with a total switch,
// so adding a kind is a compile-visible change, not a new map entry.
type EventKind int

const (
	// EventUnknown marks an event name outside the closed set. Its payload is
	// passed through verbatim as the render context.
	EventUnknown EventKind = iota
	EventOrderPlaced
	EventOrderCanceled
	EventOrderShipmentCreated
	EventReturnRequested
	EventItemsReturned
	EventSwapCreated
	EventSwapShipmentCreated
	EventSwapReceived
	EventClaimShipmentCreated
	EventGiftCardCreated
	EventOrderGiftCardCreated
	EventUserPasswordReset
	EventCustomerPasswordReset
	EventInviteCreated
	EventRestockNotification
)

// ParseEventKind maps a wire event name to its kind. Unrecognized names map to
// EventUnknown; they are never an error.
func ParseEventKind(name string) EventKind {
	switch name {
	case EventNameOrderPlaced:
		return EventOrderPlaced
	case EventNameOrderCanceled:
		return EventOrderCanceled
	case EventNameOrderShipmentCreated:
		return EventOrderShipmentCreated
	case EventNameReturnRequested:
		return EventReturnRequested
	case EventNameItemsReturned:
		return EventItemsReturned
	case EventNameSwapCreated:
		return EventSwapCreated
	case EventNameSwapShipmentCreated:
		return EventSwapShipmentCreated
	case EventNameSwapReceived:
		return EventSwapReceived
	case EventNameClaimShipmentCreated:
		return EventClaimShipmentCreated
	case EventNameGiftCardCreated:
		return EventGiftCardCreated
	case EventNameOrderGiftCardCreated:
		return EventOrderGiftCardCreated
	case EventNameUserPasswordReset:
		return EventUserPasswordReset
	case EventNameCustomerPasswordReset:
		return EventCustomerPasswordReset
	case EventNameInviteCreated:
		return EventInviteCreated
	case EventNameRestockNotification:
		return EventRestockNotification
	default:
		return EventUnknown
	}
}

// String returns the wire name for the kind, or "unknown".
func (k EventKind) String() string {
	switch k {
	case EventOrderPlaced:
		return EventNameOrderPlaced
	case EventOrderCanceled:
		return EventNameOrderCanceled
	case EventOrderShipmentCreated:
		return EventNameOrderShipmentCreated
	case EventReturnRequested:
		return EventNameReturnRequested
	case EventItemsReturned:
		return EventNameItemsReturned
	case EventSwapCreated:
		return EventNameSwapCreated
	case EventSwapShipmentCreated:
		return EventNameSwapShipmentCreated
	case EventSwapReceived:
		return EventNameSwapReceived
	case EventClaimShipmentCreated:
		return EventNameClaimShipmentCreated
	case EventGiftCardCreated:
		return EventNameGiftCardCreated
	case EventOrderGiftCardCreated:
		return EventNameOrderGiftCardCreated
	case EventUserPasswordReset:
		return EventNameUserPasswordReset
	case EventCustomerPasswordReset:
		return EventNameCustomerPasswordReset
	case EventInviteCreated:
		return EventNameInviteCreated
	case EventRestockNotification:
		return EventNameRestockNotification
	default:
		return "unknown"
	}
}

// KnownEventNames returns every recognized event name. The consumer layer uses
// this to derive the topic subscription list.
func KnownEventNames() []string {
	return []string{
		EventNameOrderPlaced,
		EventNameOrderCanceled,
		EventNameOrderShipmentCreated,
		EventNameReturnRequested,
		EventNameItemsReturned,
		EventNameOrderGiftCardCreated,
		EventNameSwapCreated,
		EventNameSwapShipmentCreated,
		EventNameSwapReceived,
		EventNameClaimShipmentCreated,
		EventNameGiftCardCreated,
		EventNameUserPasswordReset,
		EventNameCustomerPasswordReset,
		EventNameInviteCreated,
		EventNameRestockNotification,
	}
}
