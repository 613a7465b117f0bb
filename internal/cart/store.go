// Package cart owns the cart session: line items, quantity aggregation,
// derived totals and persistence keyed by the owning identity.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Gvirgo2/touropia/internal/domain"
	"github.com/Gvirgo2/touropia/internal/kv"
)

// VATRatePercent is the authoritative tax rate applied to every cart total.
const VATRatePercent = 15

// GuestOwner is the namespace for unauthenticated sessions.
const GuestOwner = "guest"

const reconcileTimeout = 5 * time.Second

var (
	ErrMissingItemID   = errors.New("item id is required")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrNegativePrice   = errors.New("unit price must not be negative")
)

// BookingCounter reports how many bookings the backend holds for a user.
type BookingCounter interface {
	CountUserBookings(ctx context.Context, userID string) (int, error)
}

// Store is a single sequential owner of one cart session. The persistence
// layer is a passive mirror: written after every mutation, read only when
// the owning identity changes. Persistence and remote-count failures never
// reach the caller; the store logs and substitutes defaults.
type Store struct {
	mu     sync.Mutex
	kv     kv.Store
	counts BookingCounter

	owner         string
	authenticated bool
	items         []domain.CartLineItem
	details       domain.BookingDetails
	bookingCount  int

	// epoch tags every booking-count fetch with the identity generation it
	// was issued for; a late result from a previous identity is discarded.
	epoch uint64
}

func NewStore(ctx context.Context, store kv.Store, counts BookingCounter) *Store {
	s := &Store{kv: store, counts: counts, owner: GuestOwner}
	s.mu.Lock()
	s.loadLocked(ctx, GuestOwner)
	s.bookingCount = s.loadCountLocked(ctx, GuestOwner)
	s.mu.Unlock()
	return s
}

// AddItem appends a line item, or merges into an existing one with the same
// id: quantity accumulates, every other field takes the new value.
func (s *Store) AddItem(ctx context.Context, item domain.CartLineItem) error {
	if item.ID == "" {
		return ErrMissingItemID
	}
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if item.UnitPriceCents < 0 {
		return ErrNegativePrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			quantity := s.items[i].Quantity + item.Quantity
			s.items[i] = item
			s.items[i].Quantity = quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}

	s.persistCartLocked(ctx)
	return nil
}

// RemoveItem deletes the line item with the given id; a no-op if absent.
func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistCartLocked(ctx)
			return
		}
	}
}

// Clear empties the cart and resets the booking details scratch state,
// dropping both persisted records for the current owner.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.details = domain.BookingDetails{}

	if err := s.kv.Remove(ctx, cartKey(s.owner)); err != nil {
		log.Printf("cart: remove %s: %v", cartKey(s.owner), err)
	}
	if err := s.kv.Remove(ctx, detailsKey(s.owner)); err != nil {
		log.Printf("cart: remove %s: %v", detailsKey(s.owner), err)
	}
}

func (s *Store) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) SubtotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked()
}

func (s *Store) TaxCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return taxOn(s.subtotalLocked())
}

func (s *Store) TotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	subtotal := s.subtotalLocked()
	return subtotal + taxOn(subtotal)
}

func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookingCount
}

func (s *Store) Details() domain.BookingDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.details
}

func (s *Store) SetDetails(ctx context.Context, details domain.BookingDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details = details
	s.persistDetailsLocked(ctx)
}

func (s *Store) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// SwitchOwner hands the session over to a new identity. The previous owner's
// state leaves memory (its persisted mirror stays) and the new owner's
// persisted state is loaded. For authenticated owners the booking count is
// reconciled from the backend best-effort; until the fetch resolves the
// previous value is served.
func (s *Store) SwitchOwner(ctx context.Context, userID string, authenticated bool) {
	owner := GuestOwner
	if authenticated && userID != "" {
		owner = userID
	}

	s.mu.Lock()
	if owner == s.owner && authenticated == s.authenticated {
		s.mu.Unlock()
		return
	}

	s.epoch++
	epoch := s.epoch
	s.owner = owner
	s.authenticated = authenticated
	s.loadLocked(ctx, owner)
	if !authenticated {
		s.bookingCount = s.loadCountLocked(ctx, owner)
	}
	s.mu.Unlock()

	if authenticated {
		go s.reconcileBookings(owner, epoch)
	}
}

// RefreshBookings re-runs the remote booking-count reconciliation. A no-op
// for guest sessions, whose count only lives in the local mirror.
func (s *Store) RefreshBookings() {
	s.mu.Lock()
	owner, authenticated, epoch := s.owner, s.authenticated, s.epoch
	s.mu.Unlock()
	if !authenticated {
		return
	}
	go s.reconcileBookings(owner, epoch)
}

func (s *Store) reconcileBookings(userID string, epoch uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	count, err := s.counts.CountUserBookings(ctx, userID)
	if err != nil {
		log.Printf("cart: booking count for %s: %v", userID, err)
		count = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		// identity changed while the fetch was in flight
		return
	}
	s.bookingCount = count
	s.persistCountLocked(ctx)
}

func (s *Store) subtotalLocked() int64 {
	var subtotal int64
	for _, item := range s.items {
		subtotal += item.UnitPriceCents * int64(item.Quantity)
	}
	return subtotal
}

func taxOn(subtotalCents int64) int64 {
	return subtotalCents * VATRatePercent / 100
}

func (s *Store) loadLocked(ctx context.Context, owner string) {
	s.items = nil
	s.details = domain.BookingDetails{}

	if data, err := s.kv.Get(ctx, cartKey(owner)); err != nil {
		log.Printf("cart: load %s: %v", cartKey(owner), err)
	} else if data != nil {
		if err := json.Unmarshal(data, &s.items); err != nil {
			log.Printf("cart: corrupt record %s: %v", cartKey(owner), err)
			s.items = nil
		}
	}

	if data, err := s.kv.Get(ctx, detailsKey(owner)); err != nil {
		log.Printf("cart: load %s: %v", detailsKey(owner), err)
	} else if data != nil {
		if err := json.Unmarshal(data, &s.details); err != nil {
			log.Printf("cart: corrupt record %s: %v", detailsKey(owner), err)
			s.details = domain.BookingDetails{}
		}
	}
}

func (s *Store) loadCountLocked(ctx context.Context, owner string) int {
	data, err := s.kv.Get(ctx, countKey(owner))
	if err != nil {
		log.Printf("cart: load %s: %v", countKey(owner), err)
		return 0
	}
	if data == nil {
		return 0
	}
	var count int
	if err := json.Unmarshal(data, &count); err != nil {
		log.Printf("cart: corrupt record %s: %v", countKey(owner), err)
		return 0
	}
	return count
}

func (s *Store) persistCartLocked(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		log.Printf("cart: marshal items: %v", err)
		return
	}
	if err := s.kv.Set(ctx, cartKey(s.owner), data); err != nil {
		log.Printf("cart: persist %s: %v", cartKey(s.owner), err)
	}
}

func (s *Store) persistDetailsLocked(ctx context.Context) {
	data, err := json.Marshal(s.details)
	if err != nil {
		log.Printf("cart: marshal details: %v", err)
		return
	}
	if err := s.kv.Set(ctx, detailsKey(s.owner), data); err != nil {
		log.Printf("cart: persist %s: %v", detailsKey(s.owner), err)
	}
}

func (s *Store) persistCountLocked(ctx context.Context) {
	data, err := json.Marshal(s.bookingCount)
	if err != nil {
		log.Printf("cart: marshal booking count: %v", err)
		return
	}
	if err := s.kv.Set(ctx, countKey(s.owner), data); err != nil {
		log.Printf("cart: persist %s: %v", countKey(s.owner), err)
	}
}

func cartKey(owner string) string {
	return "cartItems_" + owner
}

func detailsKey(owner string) string {
	return "bookingInfo_" + owner
}

func countKey(owner string) string {
	return "bookingCount_" + owner
}
