package model

// TicketType is a purchasable category of admission to an event with its own
// price and inventory.  AvailableQuantity never goes below zero and
// PurchaseLimit bounds the quantity of a single reservation.
//
// Fields:
//  ID                – primary key identifier.
//  EventID           – owning event; immutable after creation.
//  Type              – label such as "VIP" or "Standard".
//  Price             – informational price; no money changes hands.
//  AvailableQuantity – units still reservable.
//  PurchaseLimit     – maximum units per reservation (≥ 1).
//  IsActive          – inactive ticket types cannot be reserved.
type TicketType struct {
	ID                uint64  `json:"id"`
	EventID           uint64  `json:"event_id"`
	Type              string  `json:"type"`
	Price             float64 `json:"price"`
	AvailableQuantity int     `json:"available_quantity"`
	PurchaseLimit     int     `json:"purchase_limit"`
	IsActive          bool    `json:"is_active"`
}
