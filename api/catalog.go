package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gvirgo2/touropia/internal/auth"
	"github.com/Gvirgo2/touropia/internal/domain"
	"github.com/Gvirgo2/touropia/internal/service/catalog"
)

type CatalogHandler struct {
	service catalog.CatalogUseCase
}

type catalogItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ImageURL    string `json:"image_url"`
	PriceCents  int64  `json:"price_cents"`
	MaxGuests   int    `json:"max_guests"`
}

func NewCatalogHandler(service catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{service: service}
}

var kindRoutes = map[string]domain.ItemKind{
	"tours":       domain.KindTour,
	"hotels":      domain.KindHotel,
	"restaurants": domain.KindRestaurant,
	"transports":  domain.KindTransport,
}

func (h *CatalogHandler) Register(router *gin.RouterGroup) {
	for path, kind := range kindRoutes {
		group := router.Group("/" + path)
		group.GET("", h.list(kind))
		group.GET("/:id", h.get)
		group.POST("", auth.RequireAdmin(), h.create(kind))
		group.PUT("/:id", auth.RequireAdmin(), h.update(kind))
		group.DELETE("/:id", auth.RequireAdmin(), h.delete)
	}
}

func (h *CatalogHandler) list(kind domain.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.service.ListByKind(c.Request.Context(), kind)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func (h *CatalogHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) create(kind domain.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalogItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item := domain.CatalogItem{
			Kind:        kind,
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			ImageURL:    req.ImageURL,
			PriceCents:  req.PriceCents,
			MaxGuests:   req.MaxGuests,
		}
		if err := h.service.Create(c.Request.Context(), &item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func (h *CatalogHandler) update(kind domain.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req catalogItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item := domain.CatalogItem{
			ID:          id,
			Kind:        kind,
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			ImageURL:    req.ImageURL,
			PriceCents:  req.PriceCents,
			MaxGuests:   req.MaxGuests,
		}
		if err := h.service.Update(c.Request.Context(), &item); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func (h *CatalogHandler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
