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
	"github.com/Gvirgo2/touropia/internal/service/catalog"
)

type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) ListByKind(ctx context.Context, kind domain.ItemKind) ([]domain.CatalogItem, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogUseCase) GetByID(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogUseCase) Create(ctx context.Context, item *domain.CatalogItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCatalogUseCase) Update(ctx context.Context, item *domain.CatalogItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCatalogUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

const catalogTestSecret = "catalog-test-secret"

func newCatalogRouter(t *testing.T, service catalog.CatalogUseCase) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(auth.Middleware(catalogTestSecret))
	NewCatalogHandler(service).Register(group)
	return router
}

func TestCatalogHandler_List(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	router := newCatalogRouter(t, mockService)

	mockService.On("ListByKind", mock.Anything, domain.KindTour).Return([]domain.CatalogItem{
		{ID: 1, Kind: domain.KindTour, Title: "Lalibela Rock Churches", PriceCents: 10000},
		{ID: 2, Kind: domain.KindTour, Title: "Simien Mountains Trek", PriceCents: 25000},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var items []domain.CatalogItem
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 2)
	assert.Equal(t, "Lalibela Rock Churches", items[0].Title)

	mockService.AssertExpectations(t)
}

func TestCatalogHandler_Get(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	router := newCatalogRouter(t, mockService)

	mockService.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.CatalogItem{ID: 7, Kind: domain.KindHotel, Title: "Sheraton Addis"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/hotels/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var item domain.CatalogItem
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, int64(7), item.ID)

	mockService.AssertExpectations(t)
}

func TestCatalogHandler_Get_InvalidID(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	router := newCatalogRouter(t, mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/hotels/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetByID")
}

func TestCatalogHandler_Create_RequiresAdmin(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	router := newCatalogRouter(t, mockService)

	body := `{"title":"New Tour","price_cents":10000}`

	// anonymous: forbidden
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tours", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// plain user: forbidden
	userToken, err := auth.SignToken(catalogTestSecret, "user1", "user", "u@example.com", time.Hour)
	assert.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/tours", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+userToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	mockService.AssertNotCalled(t, "Create")
}

func TestCatalogHandler_Create_Admin(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	router := newCatalogRouter(t, mockService)

	mockService.On("Create", mock.Anything, mock.MatchedBy(func(item *domain.CatalogItem) bool {
		return item.Kind == domain.KindRestaurant && item.Title == "Yod Abyssinia"
	})).Return(nil).Once()

	adminToken, err := auth.SignToken(catalogTestSecret, "admin1", "admin", "a@example.com", time.Hour)
	assert.NoError(t, err)

	body := `{"title":"Yod Abyssinia","location":"Addis Ababa","price_cents":3500}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestCatalogHandler_Delete_Admin(t *testing.T) {
	mockService := &MockCatalogUseCase{}
	router := newCatalogRouter(t, mockService)

	mockService.On("Delete", mock.Anything, int64(3)).Return(nil).Once()

	adminToken, err := auth.SignToken(catalogTestSecret, "admin1", "admin", "a@example.com", time.Hour)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/transports/3", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}
