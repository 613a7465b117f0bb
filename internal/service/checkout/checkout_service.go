package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Gvirgo2/touropia/internal/domain"
	"github.com/Gvirgo2/touropia/internal/payment"
	"github.com/Gvirgo2/touropia/internal/service/booking"
)

type CheckoutUseCase interface {
	Checkout(ctx context.Context, session CartSession, userID, email string) (*Result, error)
}

// CartSession is the slice of the cart store checkout needs.
type CartSession interface {
	Items() []domain.CartLineItem
	TotalCents() int64
	Clear(ctx context.Context)
}

type Bookings interface {
	CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, token string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, token string) (*domain.Booking, error)
}

type Charger interface {
	Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error)
}

type Result struct {
	BookingTokens []string
	AmountCents   int64
	PaymentRef    string
}

var ErrEmptyCart = errors.New("cart is empty")

type CheckoutService struct {
	bookings Bookings
	charger  Charger
}

func NewCheckoutService(bookings Bookings, charger Charger) *CheckoutService {
	return &CheckoutService{bookings: bookings, charger: charger}
}

// Checkout turns every cart line item into a pending booking, charges the
// cart total once, then confirms all bookings and clears the cart. A failed
// charge cancels the bookings it created.
func (s *CheckoutService) Checkout(ctx context.Context, session CartSession, userID, email string) (*Result, error) {
	items := session.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if email == "" {
		return nil, errors.New("email is required")
	}

	total := session.TotalCents()

	created := make([]*domain.Booking, 0, len(items))
	for _, item := range items {
		b, err := s.bookings.CreateBooking(ctx, booking.CreateBookingInput{
			UserID:      userID,
			ItemRef:     item.ID,
			Kind:        item.Kind,
			Quantity:    item.Quantity,
			StartDate:   item.StartDate,
			AmountCents: item.UnitPriceCents * int64(item.Quantity),
			Email:       email,
		})
		if err != nil {
			s.cancelAll(ctx, created)
			return nil, fmt.Errorf("create booking for item %s: %w", item.ID, err)
		}
		created = append(created, b)
	}

	charge, err := s.charger.Charge(ctx, payment.ChargeRequest{
		AmountCents: total,
		Email:       email,
		Reference:   created[0].Token,
	})
	if err != nil {
		s.cancelAll(ctx, created)
		return nil, fmt.Errorf("charge: %w", err)
	}

	tokens := make([]string, 0, len(created))
	for _, b := range created {
		if _, err := s.bookings.ConfirmBooking(ctx, b.Token); err != nil {
			log.Printf("checkout: confirm booking %s after charge %s: %v", b.Token, charge.ProviderID, err)
			continue
		}
		tokens = append(tokens, b.Token)
	}

	session.Clear(ctx)

	return &Result{
		BookingTokens: tokens,
		AmountCents:   total,
		PaymentRef:    charge.ProviderID,
	}, nil
}

func (s *CheckoutService) cancelAll(ctx context.Context, bookings []*domain.Booking) {
	for _, b := range bookings {
		if _, err := s.bookings.CancelBooking(ctx, b.Token); err != nil {
			log.Printf("checkout: cancel booking %s: %v", b.Token, err)
		}
	}
}

var _ CheckoutUseCase = (*CheckoutService)(nil)
