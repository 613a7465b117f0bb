package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gvirgo2/touropia/internal/auth"
	"github.com/Gvirgo2/touropia/internal/cart"
	"github.com/Gvirgo2/touropia/internal/service/checkout"
)

type CheckoutHandler struct {
	manager *cart.Manager
	service checkout.CheckoutUseCase
}

type checkoutRequest struct {
	Email string `json:"email"`
}

type checkoutResponse struct {
	BookingTokens []string `json:"booking_tokens"`
	AmountCents   int64    `json:"amount_cents"`
	PaymentRef    string   `json:"payment_ref"`
}

func NewCheckoutHandler(manager *cart.Manager, service checkout.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{manager: manager, service: service}
}

func (h *CheckoutHandler) Register(router *gin.RouterGroup) {
	router.POST("/checkout", h.checkout)
}

func (h *CheckoutHandler) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ident := auth.CurrentIdentity(c)
	email := req.Email
	if email == "" {
		email = ident.Email
	}

	sid, err := c.Cookie(sessionCookie)
	if err != nil || sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no cart session"})
		return
	}
	store := h.manager.Session(c.Request.Context(), sid)
	store.SwitchOwner(c.Request.Context(), ident.UserID, ident.Authenticated)

	result, err := h.service.Checkout(c.Request.Context(), store, ident.UserID, email)
	if err != nil {
		status := http.StatusBadRequest
		if err == checkout.ErrEmptyCart {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, checkoutResponse{
		BookingTokens: result.BookingTokens,
		AmountCents:   result.AmountCents,
		PaymentRef:    result.PaymentRef,
	})
}
