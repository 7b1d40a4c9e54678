package cart

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
)

type OrderStatus string

const (
	OrderOpen      OrderStatus = "Aberto"
	OrderPaid      OrderStatus = "Pago"
	OrderCancelled OrderStatus = "Cancelado"
)

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderOpen, OrderPaid, OrderCancelled:
		return true
	}
	return false
}

type PickupStatus string

const (
	PickupAwaiting  PickupStatus = "Aguardando"
	PickupSeparated PickupStatus = "Separado"
	PickupPickedUp  PickupStatus = "Retirado"
	PickupCancelled PickupStatus = "Cancelado"
)

func (s PickupStatus) String() string { return string(s) }

func (s PickupStatus) Valid() bool {
	switch s {
	case PickupAwaiting, PickupSeparated, PickupPickedUp, PickupCancelled:
		return true
	}
	return false
}

// State is the lifecycle of an editing session. Exactly one applies at a time.
type State int

const (
	StateUnselected State = iota
	StateLoading
	StatePopulated
	StateSaving
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnselected:
		return "unselected"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateSaving:
		return "saving"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// QuantityMap is the editable productID → quantity working state.
type QuantityMap map[int64]int

// QuantitiesFromItems folds a cart's items into a map. A repeated product
// keeps the last quantity seen.
func QuantitiesFromItems(items []gateway.CartItem) QuantityMap {
	q := make(QuantityMap, len(items))
	for _, it := range items {
		q.Set(it.ProductID, it.Quantity)
	}
	return q
}

// Set stores qty for productID, clamped at zero.
func (q QuantityMap) Set(productID int64, qty int) {
	if qty < 0 {
		qty = 0
	}
	q[productID] = qty
}

func (q QuantityMap) Add(productID int64, delta int) int {
	q.Set(productID, q[productID]+delta)
	return q[productID]
}

// Items lists the entries with a positive quantity, ordered by product id.
func (q QuantityMap) Items() []gateway.CartItem {
	items := make([]gateway.CartItem, 0, len(q))
	for id, qty := range q {
		if qty > 0 {
			items = append(items, gateway.CartItem{ProductID: id, Quantity: qty})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items
}

// draft is the working copy of the cart being edited. A zero cartID means
// the cart has not been created yet, so an "existing" draft always has an id.
type draft struct {
	unitID       int64
	cartID       int64
	timestamp    time.Time
	orderStatus  OrderStatus
	pickupStatus PickupStatus
	quantities   QuantityMap
}

func (d draft) existing() bool { return d.cartID != 0 }

// Line is one product row of the editor.
type Line struct {
	ProductID   int64           `json:"product_id"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

// View is a read-only copy of a session for presentation.
type View struct {
	State        State           `json:"-"`
	StateName    string          `json:"state"`
	UnitID       int64           `json:"unit_id,omitempty"`
	CartID       int64           `json:"cart_id,omitempty"`
	Existing     bool            `json:"existing"`
	Timestamp    *time.Time      `json:"timestamp,omitempty"`
	OrderStatus  OrderStatus     `json:"status,omitempty"`
	PickupStatus PickupStatus    `json:"pickup_status,omitempty"`
	Lines        []Line          `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	Error        string          `json:"error,omitempty"`
}

// Result describes a successful save.
type Result struct {
	CartID  int64           `json:"cart_id"`
	Created bool            `json:"created"`
	Total   decimal.Decimal `json:"total"`
}
