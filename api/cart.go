package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gvirgo2/touropia/internal/auth"
	"github.com/Gvirgo2/touropia/internal/cart"
	"github.com/Gvirgo2/touropia/internal/domain"
)

const sessionCookie = "touropia_session"
const sessionCookieMaxAge = int(30 * 24 * time.Hour / time.Second)

type CartHandler struct {
	manager *cart.Manager
}

type addItemRequest struct {
	ID             string `json:"id"`
	Kind           string `json:"kind"`
	Title          string `json:"title"`
	Image          string `json:"image"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	StartDate      string `json:"start_date"`
	MaxGuests      int    `json:"max_guests"`
}

type cartResponse struct {
	Items         []domain.CartLineItem `json:"items"`
	Details       domain.BookingDetails `json:"details"`
	SubtotalCents int64                 `json:"subtotal_cents"`
	TaxCents      int64                 `json:"tax_cents"`
	TotalCents    int64                 `json:"total_cents"`
	CartCount     int                   `json:"cart_count"`
	BookingCount  int                   `json:"booking_count"`
}

func NewCartHandler(manager *cart.Manager) *CartHandler {
	return &CartHandler{manager: manager}
}

func (h *CartHandler) Register(router *gin.RouterGroup) {
	router.GET("/cart", h.get)
	router.POST("/cart/items", h.addItem)
	router.DELETE("/cart/items/:id", h.removeItem)
	router.DELETE("/cart", h.clear)
	router.PUT("/cart/details", h.setDetails)
	router.POST("/cart/refresh-bookings", h.refreshBookings)
}

// session resolves the caller's cart store and signals the current identity
// to it. The cookie pins one store per SPA instance across requests.
func (h *CartHandler) session(c *gin.Context) *cart.Store {
	sid, err := c.Cookie(sessionCookie)
	if err != nil || sid == "" {
		sid = cart.NewSessionID()
		c.SetCookie(sessionCookie, sid, sessionCookieMaxAge, "/", "", false, true)
	}

	store := h.manager.Session(c.Request.Context(), sid)
	ident := auth.CurrentIdentity(c)
	store.SwitchOwner(c.Request.Context(), ident.UserID, ident.Authenticated)
	return store
}

func (h *CartHandler) get(c *gin.Context) {
	store := h.session(c)
	c.JSON(http.StatusOK, toCartResponse(store))
}

func (h *CartHandler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := h.session(c)
	err := store.AddItem(c.Request.Context(), domain.CartLineItem{
		ID:             req.ID,
		Kind:           domain.ItemKind(req.Kind),
		Title:          req.Title,
		Image:          req.Image,
		UnitPriceCents: req.UnitPriceCents,
		Quantity:       req.Quantity,
		StartDate:      req.StartDate,
		MaxGuests:      req.MaxGuests,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toCartResponse(store))
}

func (h *CartHandler) removeItem(c *gin.Context) {
	store := h.session(c)
	store.RemoveItem(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, toCartResponse(store))
}

func (h *CartHandler) clear(c *gin.Context) {
	store := h.session(c)
	store.Clear(c.Request.Context())
	c.JSON(http.StatusOK, toCartResponse(store))
}

func (h *CartHandler) setDetails(c *gin.Context) {
	var details domain.BookingDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := h.session(c)
	store.SetDetails(c.Request.Context(), details)
	c.JSON(http.StatusOK, toCartResponse(store))
}

func (h *CartHandler) refreshBookings(c *gin.Context) {
	store := h.session(c)
	store.RefreshBookings()
	c.Status(http.StatusAccepted)
}

func toCartResponse(store *cart.Store) cartResponse {
	return cartResponse{
		Items:         store.Items(),
		Details:       store.Details(),
		SubtotalCents: store.SubtotalCents(),
		TaxCents:      store.TaxCents(),
		TotalCents:    store.TotalCents(),
		CartCount:     store.CartCount(),
		BookingCount:  store.BookingCount(),
	}
}
