package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Gvirgo2/touropia/internal/auth"
	"github.com/Gvirgo2/touropia/internal/domain"
	"github.com/Gvirgo2/touropia/internal/service/booking"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ConfirmBooking(ctx context.Context, token string) (*domain.Booking, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, token string) (*domain.Booking, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CountUserBookings(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingUseCase) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

const bookingTestSecret = "booking-test-secret"

func newBookingRouter(t *testing.T, service booking.BookingUseCase) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(auth.Middleware(bookingTestSecret))
	NewBookingHandler(service).Register(group)
	return router
}

func TestBookingHandler_Create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(t, mockService)

	expiresAt := time.Now().Add(15 * time.Minute)
	mockService.On("CreateBooking", mock.Anything, mock.MatchedBy(func(in booking.CreateBookingInput) bool {
		return in.ItemRef == "42" && in.Kind == domain.KindTour && in.Quantity == 2 && in.Email == "guest@example.com"
	})).Return(&domain.Booking{
		Token:       "tok-1",
		Status:      domain.BookingStatusPending,
		ItemRef:     "42",
		Kind:        domain.KindTour,
		Quantity:    2,
		AmountCents: 20000,
		Email:       "guest@example.com",
		ExpiresAt:   expiresAt,
	}, nil).Once()

	body := `{"item_ref":"42","kind":"tour","quantity":2,"start_date":"2026-10-01","amount_cents":20000,"email":"guest@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, string(domain.BookingStatusPending), resp.Status)
	assert.Equal(t, int64(20000), resp.AmountCents)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_Create_EmailFromToken(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(t, mockService)

	mockService.On("CreateBooking", mock.Anything, mock.MatchedBy(func(in booking.CreateBookingInput) bool {
		return in.UserID == "user1" && in.Email == "u@example.com"
	})).Return(&domain.Booking{Token: "tok-2", Status: domain.BookingStatusPending}, nil).Once()

	token, err := auth.SignToken(bookingTestSecret, "user1", "user", "u@example.com", time.Hour)
	assert.NoError(t, err)

	body := `{"item_ref":"42","kind":"tour","quantity":1,"amount_cents":10000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_Create_ItemHeld(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(t, mockService)

	mockService.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, booking.ErrItemHeld).Once()

	body := `{"item_ref":"42","kind":"tour","quantity":1,"amount_cents":10000,"email":"g@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_ListMine_RequiresAuth(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(t, mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "ListUserBookings")
}

func TestBookingHandler_ListMine(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(t, mockService)

	mockService.On("ListUserBookings", mock.Anything, "user1").Return([]domain.Booking{
		{Token: "tok-1", Status: domain.BookingStatusConfirmed, ItemRef: "42"},
		{Token: "tok-2", Status: domain.BookingStatusPending, ItemRef: "7"},
	}, nil).Once()

	token, err := auth.SignToken(bookingTestSecret, "user1", "user", "u@example.com", time.Hour)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, "tok-1", resp[0].Token)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_Confirm(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(t, mockService)

	mockService.On("ConfirmBooking", mock.Anything, "tok-1").
		Return(&domain.Booking{Token: "tok-1", Status: domain.BookingStatusConfirmed}, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/tok-1/confirm", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.BookingStatusConfirmed), resp.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_Cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newBookingRouter(t, mockService)

	mockService.On("CancelBooking", mock.Anything, "tok-1").
		Return(&domain.Booking{Token: "tok-1", Status: domain.BookingStatusCancelled}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/tok-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
