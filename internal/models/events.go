package models

import (
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypeUserAuthenticated    = "USER_AUTHENTICATED"
	EventTypeVendorOrderPlaced    = "VENDOR_ORDER_PLACED"
	EventTypeVendorOrderMatched   = "VENDOR_ORDER_MATCHED"
	EventTypeIncomingOrderDecided = "INCOMING_ORDER_DECIDED"
	EventTypeStockAdded           = "STOCK_ADDED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBaseEvent stamps a fresh event id and time
func NewBaseEvent(eventType, sessionID string) BaseEvent {
	return BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// UserAuthenticatedEvent published when the simulated sign-in completes
type UserAuthenticatedEvent struct {
	BaseEvent
	Role     Role   `json:"role"`
	Mode     string `json:"mode"`
	Redirect string `json:"redirect"`
}

// VendorOrderPlacedEvent published when a parsed order is confirmed
type VendorOrderPlacedEvent struct {
	BaseEvent
	Order VendorOrder `json:"order"`
}

// VendorOrderMatchedEvent published when the mock matcher binds a supplier
type VendorOrderMatchedEvent struct {
	BaseEvent
	OrderID      string `json:"order_id"`
	Supplier     string `json:"supplier"`
	MatchedPrice string `json:"matched_price"`
}

// IncomingOrderDecidedEvent published when a supplier accepts or rejects
type IncomingOrderDecidedEvent struct {
	BaseEvent
	OrderID    string `json:"order_id"`
	VendorName string `json:"vendor_name"`
	Status     string `json:"status"`
}

// StockAddedEvent published when a supplier adds inventory
type StockAddedEvent struct {
	BaseEvent
	Item InventoryItem `json:"item"`
}
