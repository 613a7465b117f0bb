package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Gvirgo2/touropia/internal/domain"
	"github.com/Gvirgo2/touropia/internal/kafka"
	"github.com/Gvirgo2/touropia/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, token string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, token string) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	CountUserBookings(ctx context.Context, userID string) (int, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

type Cache interface {
	AcquireHoldLock(ctx context.Context, itemRef, startDate string, ttl time.Duration) (bool, error)
	ReleaseHoldLock(ctx context.Context, itemRef, startDate string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

var ErrItemHeld = errors.New("item is already held for this date")

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	confirmationTTL    time.Duration
}

type CreateBookingInput struct {
	UserID      string          `json:"user_id"`
	ItemRef     string          `json:"item_ref"`
	Kind        domain.ItemKind `json:"kind"`
	Quantity    int             `json:"quantity"`
	StartDate   string          `json:"start_date"`
	AmountCents int64           `json:"amount_cents"`
	Email       string          `json:"email"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	holdTTL, confirmationTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:        bookings,
		cache:           cache,
		producer:        producer,
		bookingTopic:    bookingTopic,
		holdTTL:         holdTTL,
		confirmationTTL: confirmationTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.ItemRef == "" {
		return nil, errors.New("item ref is required")
	}
	if input.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	if input.Email == "" {
		return nil, errors.New("email is required")
	}

	locked := false
	if s.cache != nil && input.StartDate != "" {
		ok, err := s.cache.AcquireHoldLock(ctx, input.ItemRef, input.StartDate, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrItemHeld
		}
		locked = true
	}

	expiresIn := s.confirmationTTL
	if expiresIn == 0 {
		expiresIn = s.holdTTL
	}

	booking := &domain.Booking{
		UserID:      input.UserID,
		ItemRef:     input.ItemRef,
		Kind:        input.Kind,
		Quantity:    input.Quantity,
		StartDate:   input.StartDate,
		AmountCents: input.AmountCents,
		Token:       uuid.NewString(),
		ExpiresAt:   time.Now().Add(expiresIn),
		Email:       input.Email,
	}

	if err := s.bookings.CreatePending(ctx, booking); err != nil {
		if locked {
			_ = s.cache.ReleaseHoldLock(ctx, input.ItemRef, input.StartDate)
		}
		return nil, err
	}

	booking.Status = domain.BookingStatusPending
	if err := s.publish(ctx, "booking_created", booking); err != nil {
		log.Printf("WARNING: failed to publish booking_created event for booking %s: %v", booking.Token, err)
	}
	return booking, nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, token string) (*domain.Booking, error) {
	current, err := s.bookings.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.BookingStatusPending {
		return nil, errors.New("booking is not pending")
	}

	updated, err := s.bookings.UpdateStatus(ctx, token, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, "booking_confirmed", updated); err != nil {
		log.Printf("WARNING: failed to publish booking_confirmed event for booking %s: %v", updated.Token, err)
	}
	if s.cache != nil && updated.StartDate != "" {
		_ = s.cache.ReleaseHoldLock(ctx, updated.ItemRef, updated.StartDate)
	}
	return updated, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, token string) (*domain.Booking, error) {
	current, err := s.bookings.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled || current.Status == domain.BookingStatusExpired {
		return current, nil
	}

	updated, err := s.bookings.UpdateStatus(ctx, token, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, "booking_cancelled", updated); err != nil {
		log.Printf("WARNING: failed to publish booking_cancelled event for booking %s: %v", updated.Token, err)
	}
	if s.cache != nil && updated.StartDate != "" {
		_ = s.cache.ReleaseHoldLock(ctx, updated.ItemRef, updated.StartDate)
	}
	return updated, nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) CountUserBookings(ctx context.Context, userID string) (int, error) {
	return s.bookings.CountByUser(ctx, userID)
}

func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	deadline := time.Now()
	expired, err := s.bookings.ExpirePendingBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	for _, b := range expired {
		_ = s.publish(ctx, "booking_expired", &b)
		if s.cache != nil && b.StartDate != "" {
			_ = s.cache.ReleaseHoldLock(ctx, b.ItemRef, b.StartDate)
		}
	}
	return expired, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		Token:       booking.Token,
		ItemRef:     booking.ItemRef,
		Kind:        string(booking.Kind),
		Quantity:    booking.Quantity,
		AmountCents: booking.AmountCents,
		Email:       booking.Email,
		Status:      string(booking.Status),
		ExpiresAt:   booking.ExpiresAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Token, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.Token, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
