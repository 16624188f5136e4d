package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"voicemarket/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order decisions a supplier can make
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// StockForm is the add-stock form exactly as typed
type StockForm struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity" binding:"required"`
	Price    string `json:"price" binding:"required"`
	Unit     string `json:"unit"`
	Expiry   string `json:"expiry" binding:"required"`
	Location string `json:"location" binding:"required"`
}

// InventoryView is an item with its expiry risk as of the snapshot
type InventoryView struct {
	models.InventoryItem
	DaysUntilExpiry int              `json:"days_until_expiry"`
	Risk            models.RiskLevel `json:"risk"`
}

// SupplierStats are the quick numbers in the sidebar
type SupplierStats struct {
	TotalItems     int `json:"total_items"`
	PendingOrders  int `json:"pending_orders"`
	AcceptedOrders int `json:"accepted_orders"`
}

// SupplierSnapshot is a copy of the supplier dashboard state
type SupplierSnapshot struct {
	Inventory     []InventoryView        `json:"inventory"`
	Orders        []models.IncomingOrder `json:"orders"`
	Stats         SupplierStats          `json:"stats"`
	Alerts        []InventoryView        `json:"alerts"`
	Activity      []models.Activity      `json:"activity"`
	Notifications []models.Notification  `json:"notifications"`
}

// Supplier is one supplier dashboard with its own stock and incoming orders
type Supplier struct {
	mu   sync.Mutex
	base base

	inventory []models.InventoryItem
	orders    []models.IncomingOrder
	activity  []models.Activity
}

const maxActivity = 20

// NewSupplier mounts a supplier dashboard with fresh seed data.
func NewSupplier(now func() time.Time) *Supplier {
	s := &Supplier{base: newBase(now)}
	at := s.base.now()
	s.inventory = seedInventory(at)
	s.orders = seedIncomingOrders(at)
	for i := len(s.orders) - 1; i >= 0; i-- {
		s.recordLocked("New order request received", s.orders[i].Timestamp)
	}
	return s
}

func seedInventory(now time.Time) []models.InventoryItem {
	return []models.InventoryItem{
		{ID: "1", Name: "Tomatoes", Quantity: 50, Price: decimal.RequireFromString("9.5"), Unit: "kg", ExpiryDate: now.Add(2 * 24 * time.Hour), Location: "Warehouse A"},
		{ID: "2", Name: "Onions", Quantity: 30, Price: decimal.NewFromInt(14), Unit: "kg", ExpiryDate: now.Add(5 * 24 * time.Hour), Location: "Warehouse B"},
		{ID: "3", Name: "Potatoes", Quantity: 75, Price: decimal.NewFromInt(7), Unit: "kg", ExpiryDate: now.Add(7 * 24 * time.Hour), Location: "Warehouse A"},
	}
}

func seedIncomingOrders(now time.Time) []models.IncomingOrder {
	return []models.IncomingOrder{
		{ID: "1", VendorName: "Ramesh Street Vendor", Item: "Tomatoes", Quantity: "5 kg", MaxPrice: "₹10/kg", Timestamp: now.Add(-5 * time.Minute), Status: models.IncomingStatusPending},
		{ID: "2", VendorName: "Sunita Fruit Seller", Item: "Onions", Quantity: "3 kg", MaxPrice: "₹15/kg", Timestamp: now.Add(-10 * time.Minute), Status: models.IncomingStatusPending},
	}
}

// AddStock appends an item built from the form. Numbers that do not parse become zero.
func (s *Supplier) AddStock(form StockForm) models.InventoryItem {
	item := models.InventoryItem{
		ID:         uuid.New().String(),
		Name:       form.Name,
		Quantity:   coerceQuantity(form.Quantity),
		Price:      coercePrice(form.Price),
		Unit:       form.Unit,
		ExpiryDate: parseExpiry(form.Expiry),
		Location:   form.Location,
	}
	if item.Unit == "" {
		item.Unit = "kg"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.inventory = append(s.inventory, item)
	s.base.notify("Stock Added Successfully!",
		fmt.Sprintf("%s %s of %s added to inventory", formatQuantity(item.Quantity), item.Unit, item.Name))
	s.recordLocked(fmt.Sprintf("Added %s%s %s to inventory", formatQuantity(item.Quantity), item.Unit, item.Name), s.base.now())
	return item
}

// ActOnOrder accepts or rejects a pending order. Unknown ids and settled orders are left alone.
func (s *Supplier) ActOnOrder(orderID, action string) (models.IncomingOrder, bool) {
	var status string
	switch action {
	case ActionAccept:
		status = models.IncomingStatusAccepted
	case ActionReject:
		status = models.IncomingStatusRejected
	default:
		return models.IncomingOrder{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		if s.orders[i].Status != models.IncomingStatusPending {
			return s.orders[i], false
		}
		s.orders[i].Status = status
		o := s.orders[i]

		if status == models.IncomingStatusAccepted {
			s.base.notify("Order Accepted!", fmt.Sprintf("Order from %s has been accepted", o.VendorName))
			s.recordLocked("Order accepted from "+firstName(o.VendorName), s.base.now())
		} else {
			s.base.notify("Order Rejected", fmt.Sprintf("Order from %s has been rejected", o.VendorName))
			s.recordLocked("Order rejected from "+firstName(o.VendorName), s.base.now())
		}
		return o, true
	}
	return models.IncomingOrder{}, false
}

// Snapshot copies the state and evaluates the derived views at now.
func (s *Supplier) Snapshot(now time.Time) SupplierSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := SupplierSnapshot{
		Inventory:     make([]InventoryView, 0, len(s.inventory)),
		Orders:        append([]models.IncomingOrder(nil), s.orders...),
		Activity:      append([]models.Activity(nil), s.activity...),
		Notifications: s.base.copyNotifications(),
		Alerts:        []InventoryView{},
	}
	for _, item := range s.inventory {
		view := inventoryView(item, now)
		snap.Inventory = append(snap.Inventory, view)
		if view.DaysUntilExpiry <= 5 {
			snap.Alerts = append(snap.Alerts, view)
		}
	}
	snap.Stats = supplierStats(s.inventory, s.orders)
	return snap
}

// ExpiryAlerts lists items expiring within five days
func (s *Supplier) ExpiryAlerts(now time.Time) []InventoryView {
	return s.Snapshot(now).Alerts
}

// Close unmounts the dashboard
func (s *Supplier) Close() {
	s.base.cancel()
}

// recordLocked prepends an activity line; callers hold s.mu or own s exclusively
func (s *Supplier) recordLocked(msg string, at time.Time) {
	s.activity = append([]models.Activity{{Message: msg, Timestamp: at}}, s.activity...)
	if len(s.activity) > maxActivity {
		s.activity = s.activity[:maxActivity]
	}
}

func inventoryView(item models.InventoryItem, now time.Time) InventoryView {
	days, risk := models.ExpiryRisk(item.ExpiryDate, now)
	return InventoryView{InventoryItem: item, DaysUntilExpiry: days, Risk: risk}
}

func supplierStats(inventory []models.InventoryItem, orders []models.IncomingOrder) SupplierStats {
	stats := SupplierStats{TotalItems: len(inventory)}
	for _, o := range orders {
		switch o.Status {
		case models.IncomingStatusPending:
			stats.PendingOrders++
		case models.IncomingStatusAccepted:
			stats.AcceptedOrders++
		}
	}
	return stats
}

func coerceQuantity(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func coercePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseExpiry(s string) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func formatQuantity(q float64) string {
	return decimal.NewFromFloat(q).String()
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}
