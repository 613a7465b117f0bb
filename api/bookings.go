package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gvirgo2/touropia/internal/auth"
	"github.com/Gvirgo2/touropia/internal/domain"
	"github.com/Gvirgo2/touropia/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	ItemRef     string `json:"item_ref"`
	Kind        string `json:"kind"`
	Quantity    int    `json:"quantity"`
	StartDate   string `json:"start_date"`
	AmountCents int64  `json:"amount_cents"`
	Email       string `json:"email"`
}

type bookingResponse struct {
	Token       string `json:"token"`
	Status      string `json:"status"`
	ExpiresAt   string `json:"expires_at"`
	ItemRef     string `json:"item_ref"`
	Kind        string `json:"kind"`
	Quantity    int    `json:"quantity"`
	StartDate   string `json:"start_date,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Email       string `json:"email"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings", h.create)
	router.GET("/bookings/me", auth.RequireAuth(), h.listMine)
	router.PUT("/bookings/:token/confirm", h.confirm)
	router.DELETE("/bookings/:token", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ident := auth.CurrentIdentity(c)
	email := req.Email
	if email == "" {
		email = ident.Email
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:      ident.UserID,
		ItemRef:     req.ItemRef,
		Kind:        domain.ItemKind(req.Kind),
		Quantity:    req.Quantity,
		StartDate:   req.StartDate,
		AmountCents: req.AmountCents,
		Email:       email,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) listMine(c *gin.Context) {
	ident := auth.CurrentIdentity(c)
	bookings, err := h.service.ListUserBookings(c.Request.Context(), ident.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) confirm(c *gin.Context) {
	token := c.Param("token")
	confirmed, err := h.service.ConfirmBooking(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(confirmed))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	token := c.Param("token")
	cancelled, err := h.service.CancelBooking(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		Token:       b.Token,
		Status:      string(b.Status),
		ExpiresAt:   b.ExpiresAt.Format(time.RFC3339),
		ItemRef:     b.ItemRef,
		Kind:        string(b.Kind),
		Quantity:    b.Quantity,
		StartDate:   b.StartDate,
		AmountCents: b.AmountCents,
		Email:       b.Email,
	}
}
