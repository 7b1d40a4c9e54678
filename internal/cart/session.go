// Package cart implements the cart editing session: resolve the unit's most
// recent cart, edit quantities against the catalog snapshot, and save it back
// as a create or an update.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-console/internal/catalog"
	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
)

type Gateway interface {
	CartsByUnit(ctx context.Context, unitID int64) ([]gateway.CartSummary, error)
	CartByID(ctx context.Context, id int64) (*gateway.Cart, error)
	CreateCart(ctx context.Context, payload gateway.CartPayload) (*gateway.Cart, error)
	UpdateCart(ctx context.Context, id int64, payload gateway.CartPayload) (*gateway.Cart, error)
}

// Refresher reloads the unit listing once a cart has been saved.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type Option func(*Session)

func WithRefresher(r Refresher) Option {
	return func(s *Session) { s.refresher = r }
}

// WithLocation sets the zone used for the backend date-time strings.
func WithLocation(loc *time.Location) Option {
	return func(s *Session) { s.loc = loc }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is one cart editing session. It is safe for concurrent use; gateway
// calls run without holding the lock, and a response that arrives after
// Close is discarded.
type Session struct {
	gw        Gateway
	products  catalog.Source
	refresher Refresher
	loc       *time.Location
	now       func() time.Time

	mu         sync.Mutex
	state      State
	generation uint64
	draft      draft
	snapshot   *catalog.Snapshot
	lastErr    string
}

func NewSession(gw Gateway, products catalog.Source, opts ...Option) *Session {
	s := &Session{
		gw:       gw,
		products: products,
		loc:      time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenCartFor selects unitID and loads its most recent cart, or starts a new
// one when the unit has none. The catalog snapshot is loaded in both cases.
// On failure the session goes back to unselected and can be opened again.
func (s *Session) OpenCartFor(ctx context.Context, unitID int64) error {
	s.mu.Lock()
	switch s.state {
	case StateUnselected:
	case StateClosed:
		s.mu.Unlock()
		return ErrFinished
	default:
		s.mu.Unlock()
		return ErrAlreadyOpen
	}
	s.state = StateLoading
	s.lastErr = ""
	gen := s.generation
	s.mu.Unlock()

	d, snap, err := s.load(ctx, unitID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		log.Warn().Int64("unit_id", unitID).Msg("cart: session closed while loading, discarding result")
		return ErrSessionClosed
	}
	if err != nil {
		s.state = StateUnselected
		var opErr *OperationError
		if errors.As(err, &opErr) {
			s.lastErr = opErr.Message
		}
		return err
	}

	s.draft = d
	s.snapshot = snap
	s.state = StatePopulated
	log.Info().
		Int64("unit_id", unitID).
		Int64("cart_id", d.cartID).
		Bool("existing", d.existing()).
		Int("items", len(d.quantities)).
		Msg("cart: session populated")
	return nil
}

func (s *Session) load(ctx context.Context, unitID int64) (draft, *catalog.Snapshot, error) {
	d, err := s.resolve(ctx, unitID)
	if err != nil {
		return draft{}, nil, err
	}

	snap, err := catalog.Load(ctx, s.products)
	if err != nil {
		return draft{}, nil, &OperationError{
			Op:      "load catalog",
			Message: gateway.UserMessage(err, "failed to load products"),
			Err:     err,
		}
	}
	return d, snap, nil
}

// resolve finds the cart to edit. A 404 anywhere on the way is the ordinary
// "no cart yet" case.
func (s *Session) resolve(ctx context.Context, unitID int64) (draft, error) {
	carts, err := s.gw.CartsByUnit(ctx, unitID)
	if errors.Is(err, gateway.ErrNotFound) {
		return s.fresh(unitID), nil
	}
	if err != nil {
		return draft{}, &OperationError{Op: "load cart", Message: gateway.UserMessage(err, "failed to load cart"), Err: err}
	}
	if len(carts) == 0 {
		return s.fresh(unitID), nil
	}

	latest := carts[0]
	detail, err := s.gw.CartByID(ctx, latest.ID)
	if errors.Is(err, gateway.ErrNotFound) {
		log.Warn().Int64("unit_id", unitID).Int64("cart_id", latest.ID).Msg("cart: listed cart not found, starting a new one")
		return s.fresh(unitID), nil
	}
	if err != nil {
		return draft{}, &OperationError{Op: "load cart", Message: gateway.UserMessage(err, "failed to load cart"), Err: err}
	}

	date := latest.Date
	if date == "" {
		date = detail.Date
	}
	ts, err := gateway.ParseDateTime(date, s.loc)
	if err != nil {
		return draft{}, &OperationError{Op: "load cart", Message: "cart has an invalid date", Err: err}
	}

	orderStatus := OrderStatus(latest.Status)
	if !orderStatus.Valid() {
		orderStatus = OrderOpen
	}
	pickupStatus := PickupStatus(latest.PickupStatus)
	if !pickupStatus.Valid() {
		pickupStatus = PickupAwaiting
	}

	return draft{
		unitID:       unitID,
		cartID:       latest.ID,
		timestamp:    ts,
		orderStatus:  orderStatus,
		pickupStatus: pickupStatus,
		quantities:   QuantitiesFromItems(detail.Items),
	}, nil
}

func (s *Session) fresh(unitID int64) draft {
	return draft{
		unitID:       unitID,
		timestamp:    s.now().Truncate(time.Second),
		orderStatus:  OrderOpen,
		pickupStatus: PickupAwaiting,
		quantities:   QuantityMap{},
	}
}

// SetQuantity replaces the quantity of productID. Negative values become zero.
func (s *Session) SetQuantity(productID int64, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(productID); err != nil {
		return err
	}
	s.draft.quantities.Set(productID, qty)
	return nil
}

func (s *Session) Increment(productID int64) (int, error) {
	return s.adjust(productID, 1)
}

// Decrement lowers the quantity by one, never below zero.
func (s *Session) Decrement(productID int64) (int, error) {
	return s.adjust(productID, -1)
}

func (s *Session) adjust(productID int64, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(productID); err != nil {
		return 0, err
	}
	return s.draft.quantities.Add(productID, delta), nil
}

func (s *Session) editable(productID int64) error {
	if s.state != StatePopulated {
		return ErrNotEditable
	}
	if _, ok := s.snapshot.Product(productID); !ok {
		return &ValidationError{Err: fmt.Errorf("product %d is not in the active catalog", productID)}
	}
	return nil
}

func (s *Session) SetTimestamp(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePopulated {
		return ErrNotEditable
	}
	s.draft.timestamp = t.Truncate(time.Second)
	return nil
}

func (s *Session) SetOrderStatus(status OrderStatus) error {
	if !status.Valid() {
		return &ValidationError{Err: fmt.Errorf("%w: order status %q", ErrUnknownStatus, status)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePopulated {
		return ErrNotEditable
	}
	s.draft.orderStatus = status
	return nil
}

func (s *Session) SetPickupStatus(status PickupStatus) error {
	if !status.Valid() {
		return &ValidationError{Err: fmt.Errorf("%w: pickup status %q", ErrUnknownStatus, status)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePopulated {
		return ErrNotEditable
	}
	s.draft.pickupStatus = status
	return nil
}

// Total recomputes the cart total from the live quantities.
func (s *Session) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total()
}

func (s *Session) total() decimal.Decimal {
	if s.snapshot == nil {
		return decimal.Zero
	}
	return s.snapshot.Total(s.draft.quantities)
}

// Save persists the draft: an update when the cart already exists, a create
// otherwise. An empty cart is rejected without calling the backend. On
// success the session is finished and the unit listing is refreshed; on
// failure the draft is kept so the operator can retry.
func (s *Session) Save(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if s.state != StatePopulated {
		s.mu.Unlock()
		return Result{}, ErrNotEditable
	}

	items := s.draft.quantities.Items()
	if len(items) == 0 {
		s.lastErr = ErrEmptyCart.Error()
		unitID := s.draft.unitID
		s.mu.Unlock()
		log.Warn().Int64("unit_id", unitID).Msg("cart: attempt to save a cart with no items")
		return Result{}, &ValidationError{Err: ErrEmptyCart}
	}

	total := s.total()
	payload := gateway.CartPayload{
		UnitID:       s.draft.unitID,
		Date:         gateway.FormatDateTime(s.draft.timestamp, s.loc),
		Total:        total,
		Status:       s.draft.orderStatus.String(),
		PickupStatus: s.draft.pickupStatus.String(),
		Items:        items,
	}
	cartID := s.draft.cartID
	existing := s.draft.existing()
	gen := s.generation
	s.state = StateSaving
	s.lastErr = ""
	s.mu.Unlock()

	var (
		saved *gateway.Cart
		err   error
	)
	if existing {
		saved, err = s.gw.UpdateCart(ctx, cartID, payload)
	} else {
		saved, err = s.gw.CreateCart(ctx, payload)
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		log.Warn().Int64("unit_id", payload.UnitID).Int64("cart_id", cartID).Err(err).Msg("cart: session closed while saving, discarding response")
		return Result{}, ErrSessionClosed
	}
	if err != nil {
		opErr := &OperationError{Op: "save cart", Message: gateway.UserMessage(err, "failed to save cart"), Err: err}
		s.state = StatePopulated
		s.lastErr = opErr.Message
		s.mu.Unlock()
		log.Error().Err(err).Int64("unit_id", payload.UnitID).Int64("cart_id", cartID).Msg("cart: failed to save cart")
		return Result{}, opErr
	}

	if !existing && saved != nil {
		cartID = saved.ID
	}
	s.state = StateClosed
	s.draft = draft{}
	s.snapshot = nil
	s.mu.Unlock()

	log.Info().
		Int64("unit_id", payload.UnitID).
		Int64("cart_id", cartID).
		Bool("created", !existing).
		Str("total", total.StringFixed(2)).
		Msg("cart: cart saved successfully")

	if s.refresher != nil {
		if err := s.refresher.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("cart: failed to refresh unit listing after save")
		}
	}

	return Result{CartID: cartID, Created: !existing, Total: total}, nil
}

// Close discards the working state without calling the backend. Any request
// still in flight for this session will have its response ignored.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state = StateUnselected
	s.draft = draft{}
	s.snapshot = nil
	s.lastErr = ""
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View copies the session for display. Lines follow the catalog order.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:     s.state,
		StateName: s.state.String(),
		Lines:     []Line{},
		Total:     decimal.Zero,
		Error:     s.lastErr,
	}
	if s.state != StatePopulated && s.state != StateSaving {
		return v
	}

	v.UnitID = s.draft.unitID
	v.CartID = s.draft.cartID
	v.Existing = s.draft.existing()
	ts := s.draft.timestamp
	v.Timestamp = &ts
	v.OrderStatus = s.draft.orderStatus
	v.PickupStatus = s.draft.pickupStatus
	for _, p := range s.snapshot.Products() {
		qty := s.draft.quantities[p.ID]
		v.Lines = append(v.Lines, Line{
			ProductID:   p.ID,
			Description: p.Description,
			UnitPrice:   p.Price,
			Quantity:    qty,
			Amount:      p.Price.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	v.Total = s.total()
	return v
}

// Quantities returns a copy of the working quantities.
func (s *Session) Quantities() QuantityMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(QuantityMap, len(s.draft.quantities))
	for id, qty := range s.draft.quantities {
		out[id] = qty
	}
	return out
}
