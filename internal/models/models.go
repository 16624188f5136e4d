package models

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Role is the marketplace side a user picked on the landing page
type Role string

const (
	RoleVendor   Role = "vendor"
	RoleSupplier Role = "supplier"
)

// Dashboard navigation targets
const (
	VendorDashboardPath   = "/vendor-dashboard"
	SupplierDashboardPath = "/supplier-dashboard"
)

var ErrInvalidRole = errors.New("role must be vendor or supplier")

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleVendor, RoleSupplier:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// DashboardPath returns where a signed-in user of this role lands
func (r Role) DashboardPath() string {
	if r == RoleVendor {
		return VendorDashboardPath
	}
	return SupplierDashboardPath
}

// InventoryItem is a batch of stock held by a supplier
type InventoryItem struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   float64         `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Unit       string          `json:"unit"`
	ExpiryDate time.Time       `json:"expiry_date"`
	Location   string          `json:"location"`
}

// IncomingOrder is a vendor request waiting on a supplier decision
type IncomingOrder struct {
	ID         string    `json:"id"`
	VendorName string    `json:"vendor_name"`
	Item       string    `json:"item"`
	Quantity   string    `json:"quantity"`
	MaxPrice   string    `json:"max_price"`
	Timestamp  time.Time `json:"timestamp"`
	Status     string    `json:"status"`
}

// VendorOrder is an order placed through the voice assistant
type VendorOrder struct {
	ID           string    `json:"id"`
	Item         string    `json:"item"`
	Quantity     string    `json:"quantity"`
	PriceLimit   string    `json:"price_limit"`
	Status       string    `json:"status"`
	Supplier     string    `json:"supplier,omitempty"`
	MatchedPrice string    `json:"matched_price,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// MockSupplier is a candidate shown next to a parsed order
type MockSupplier struct {
	Name   string  `json:"name"`
	Stock  string  `json:"stock"`
	Price  string  `json:"price"`
	Rating float64 `json:"rating"`
}

// Notification is the text a UI would show as a toast
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Activity is a line in the supplier "recent activity" feed
type Activity struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Incoming order statuses
const (
	IncomingStatusPending  = "pending"
	IncomingStatusAccepted = "accepted"
	IncomingStatusRejected = "rejected"
)

// Vendor order statuses. Confirmed and delivered only appear in seed data.
const (
	VendorStatusPending   = "pending"
	VendorStatusMatched   = "matched"
	VendorStatusConfirmed = "confirmed"
	VendorStatusDelivered = "delivered"
)

// MockSuppliers never changes; matching always binds the first entry.
var MockSuppliers = []MockSupplier{
	{Name: "Nashik Fresh Supplier", Stock: "6 kg", Price: "₹9.5/kg", Rating: 4.8},
	{Name: "Mumbai Wholesale", Stock: "10 kg", Price: "₹11/kg", Rating: 4.5},
	{Name: "Local Farm Direct", Stock: "4 kg", Price: "₹8.5/kg", Rating: 4.9},
}

// RiskLevel buckets stock by how soon it expires
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskWarning  RiskLevel = "warning"
	RiskSafe     RiskLevel = "safe"
)

const day = 24 * time.Hour

// ExpiryRisk returns the whole days left (rounded up) and the risk bucket.
func ExpiryRisk(expiry, now time.Time) (int, RiskLevel) {
	days := int(math.Ceil(float64(expiry.Sub(now)) / float64(day)))
	switch {
	case days <= 2:
		return days, RiskCritical
	case days <= 5:
		return days, RiskWarning
	default:
		return days, RiskSafe
	}
}
