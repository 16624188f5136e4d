package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"voicemarket/internal/models"
	"voicemarket/internal/voice"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor assistant states
const (
	VendorStateIdle      = "idle"
	VendorStateListening = "listening"
	VendorStateParsed    = "parsed"
)

// ParsedPreview is the order read back to the vendor before confirmation
type ParsedPreview struct {
	voice.ParsedOrder
	Extraction voice.Extraction `json:"extraction"`
}

// VendorStats are the quick numbers shown beside the order history
type VendorStats struct {
	TotalOrders    int    `json:"total_orders"`
	AverageSavings string `json:"average_savings"`
}

// VendorSnapshot is a copy of the vendor dashboard state
type VendorSnapshot struct {
	State         string                `json:"state"`
	Transcript    string                `json:"transcript"`
	Parsed        *ParsedPreview        `json:"parsed,omitempty"`
	Suppliers     []models.MockSupplier `json:"suppliers,omitempty"`
	Orders        []models.VendorOrder  `json:"orders"`
	Stats         VendorStats           `json:"stats"`
	Notifications []models.Notification `json:"notifications"`
}

// VendorHooks are called outside the session lock
type VendorHooks struct {
	OnParsed  func(ParsedPreview)
	OnMatched func(models.VendorOrder)
}

// Vendor is one vendor dashboard with its voice ordering assistant
type Vendor struct {
	mu      sync.Mutex
	base    base
	timings Timings
	pick    voice.Picker
	hooks   VendorHooks

	state      string
	transcript string
	parsed     *ParsedPreview
	orders     []models.VendorOrder

	// listen identifies the running capture; callbacks from any other capture are stale
	listen  *listenToken
	capture *voice.Capture
}

type listenToken struct{}

// NewVendor mounts a vendor dashboard with its own seeded order history.
func NewVendor(timings Timings, pick voice.Picker, hooks VendorHooks, now func() time.Time) *Vendor {
	v := &Vendor{
		base:    newBase(now),
		timings: timings,
		pick:    pick,
		hooks:   hooks,
		state:   VendorStateIdle,
	}
	v.orders = seedVendorOrders(v.base.now())
	return v
}

func seedVendorOrders(now time.Time) []models.VendorOrder {
	return []models.VendorOrder{
		{
			ID:           "1",
			Item:         "Tomatoes",
			Quantity:     "5 kg",
			PriceLimit:   "₹10/kg",
			Status:       models.VendorStatusDelivered,
			Supplier:     "Nashik Fresh Supplier",
			MatchedPrice: "₹9.5/kg",
			Timestamp:    now.Add(-24 * time.Hour),
		},
		{
			ID:           "2",
			Item:         "Onions",
			Quantity:     "3 kg",
			PriceLimit:   "₹15/kg",
			Status:       models.VendorStatusConfirmed,
			Supplier:     "Mumbai Wholesale",
			MatchedPrice: "₹14/kg",
			Timestamp:    now.Add(-time.Hour),
		},
	}
}

// StartListening begins a new capture, abandoning any capture in progress.
// It returns the sentence being replayed.
func (v *Vendor) StartListening() (string, VendorSnapshot) {
	v.mu.Lock()
	if v.base.closed() {
		snap := v.snapshotLocked()
		v.mu.Unlock()
		return "", snap
	}

	prev := v.capture
	token := &listenToken{}
	sentence := voice.PickTranscript(v.pick)

	v.listen = token
	v.state = VendorStateListening
	v.transcript = ""
	v.parsed = nil
	v.capture = voice.StartCapture(v.base.ctx, sentence, v.timings.voice(), voice.Hooks{
		OnWord:     func(t string) { v.reveal(token, t) },
		OnComplete: func(t string) { v.complete(token, t) },
	})
	snap := v.snapshotLocked()
	v.mu.Unlock()

	// Stop waits for an in-flight hook, which needs v.mu
	if prev != nil {
		prev.Stop()
	}
	return sentence, snap
}

// StopListening is the manual stop. The partial transcript stays and no parse happens.
func (v *Vendor) StopListening() VendorSnapshot {
	v.mu.Lock()
	c := v.capture
	if v.state == VendorStateListening {
		v.state = VendorStateIdle
	}
	v.listen = nil
	v.capture = nil
	snap := v.snapshotLocked()
	v.mu.Unlock()

	if c != nil {
		c.Stop()
	}
	return snap
}

func (v *Vendor) reveal(token *listenToken, transcript string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.listen != token || v.base.closed() {
		return
	}
	v.transcript = transcript
}

func (v *Vendor) complete(token *listenToken, transcript string) {
	v.mu.Lock()
	if v.listen != token || v.base.closed() {
		v.mu.Unlock()
		return
	}

	ex := voice.Parse(transcript)
	preview := &ParsedPreview{ParsedOrder: ex.Order(), Extraction: ex}

	v.transcript = transcript
	v.parsed = preview
	v.state = VendorStateParsed
	v.listen = nil
	v.capture = nil
	v.base.notify("Order Parsed Successfully!", preview.Summary())
	cb := v.hooks.OnParsed
	v.mu.Unlock()

	if cb != nil {
		cb(*preview)
	}
}

// ConfirmOrder turns the parsed preview into a pending order at the front of
// the history. It returns false when there is nothing to confirm.
func (v *Vendor) ConfirmOrder() (models.VendorOrder, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.parsed == nil || v.base.closed() {
		return models.VendorOrder{}, false
	}

	order := models.VendorOrder{
		ID:         uuid.New().String(),
		Item:       v.parsed.Item,
		Quantity:   v.parsed.Quantity,
		PriceLimit: v.parsed.PriceLimit,
		Status:     models.VendorStatusPending,
		Timestamp:  v.base.now(),
	}

	v.orders = append([]models.VendorOrder{order}, v.orders...)
	v.parsed = nil
	v.transcript = ""
	v.state = VendorStateIdle

	id := order.ID
	v.base.after(v.timings.MatchDelay, func() { v.match(id) })
	return order, true
}

// match binds the order to the first mock supplier whatever the order says
func (v *Vendor) match(orderID string) {
	supplier := models.MockSuppliers[0]

	v.mu.Lock()
	if v.base.closed() {
		v.mu.Unlock()
		return
	}

	var matched *models.VendorOrder
	for i := range v.orders {
		if v.orders[i].ID == orderID {
			v.orders[i].Status = models.VendorStatusMatched
			v.orders[i].Supplier = supplier.Name
			v.orders[i].MatchedPrice = supplier.Price
			o := v.orders[i]
			matched = &o
			break
		}
	}
	if matched == nil {
		v.mu.Unlock()
		return
	}
	v.base.notify("Supplier Found!", fmt.Sprintf("%s can supply at %s", supplier.Name, supplier.Price))
	cb := v.hooks.OnMatched
	v.mu.Unlock()

	if cb != nil {
		cb(*matched)
	}
}

// Suppliers returns the static candidates
func (v *Vendor) Suppliers() []models.MockSupplier {
	return append([]models.MockSupplier(nil), models.MockSuppliers...)
}

func (v *Vendor) Snapshot() VendorSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *Vendor) snapshotLocked() VendorSnapshot {
	snap := VendorSnapshot{
		State:         v.state,
		Transcript:    v.transcript,
		Orders:        append([]models.VendorOrder(nil), v.orders...),
		Stats:         vendorStats(v.orders),
		Notifications: v.base.copyNotifications(),
	}
	if v.parsed != nil {
		p := *v.parsed
		snap.Parsed = &p
		snap.Suppliers = v.Suppliers()
	}
	return snap
}

// Close unmounts the dashboard. Pending captures and matches are dropped.
func (v *Vendor) Close() {
	v.mu.Lock()
	c := v.capture
	v.listen = nil
	v.capture = nil
	v.base.cancel()
	v.mu.Unlock()

	if c != nil {
		c.Stop()
	}
}

func vendorStats(orders []models.VendorOrder) VendorStats {
	stats := VendorStats{TotalOrders: len(orders), AverageSavings: "₹0/kg"}

	var total decimal.Decimal
	n := 0
	for _, o := range orders {
		if o.MatchedPrice == "" {
			continue
		}
		limit, ok1 := perKgPrice(o.PriceLimit)
		paid, ok2 := perKgPrice(o.MatchedPrice)
		if !ok1 || !ok2 {
			continue
		}
		total = total.Add(limit.Sub(paid))
		n++
	}
	if n > 0 {
		avg := total.Div(decimal.NewFromInt(int64(n))).Round(2)
		stats.AverageSavings = "₹" + avg.String() + "/kg"
	}
	return stats
}

// perKgPrice reads amounts written like "₹9.5/kg"
func perKgPrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "₹")
	s = strings.TrimSuffix(s, "/kg")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
