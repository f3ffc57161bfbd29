package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	fulfillmentapp "github.com/erp/fulfillment/internal/application/fulfillment"
	"github.com/erp/fulfillment/internal/domain/document"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository implements document.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*document.Order, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]document.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status document.OrderStatus, filter shared.Filter) ([]document.Order, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *document.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *document.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// Ensure mock implements the interface
var _ document.OrderRepository = (*MockOrderRepository)(nil)

// MockFulfillmentRepository implements document.FulfillmentRepository for testing
type MockFulfillmentRepository struct {
	mock.Mock
}

func (m *MockFulfillmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Fulfillment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Fulfillment), args.Error(1)
}

func (m *MockFulfillmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.Fulfillment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Fulfillment), args.Error(1)
}

func (m *MockFulfillmentRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]document.Fulfillment, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Fulfillment), args.Error(1)
}

func (m *MockFulfillmentRepository) SaveWithOrder(ctx context.Context, f *document.Fulfillment, order *document.Order) error {
	args := m.Called(ctx, f, order)
	return args.Error(0)
}

func (m *MockFulfillmentRepository) GenerateFulfillmentNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// Ensure mock implements the interface
var _ document.FulfillmentRepository = (*MockFulfillmentRepository)(nil)

// Test helpers

var handlerTestTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func setupOrderTestRouter() (*gin.Engine, *MockOrderRepository, *OrderHandler) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockOrderRepository)
	service := fulfillmentapp.NewOrderService(mockRepo)
	h := NewOrderHandler(service)

	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))

	return router, mockRepo, h
}

func createHandlerTestOrder(tenantID uuid.UUID, orderNumber string) *document.Order {
	order, err := document.NewOrder(tenantID, orderNumber, document.OrderKindSales, uuid.New(), "Test Customer")
	if err != nil {
		panic(err)
	}
	order.ClearDomainEvents()
	return order
}

// Tests

func TestOrderHandler_Create(t *testing.T) {
	t.Run("should create order successfully", func(t *testing.T) {
		router, mockRepo, _ := setupOrderTestRouter()

		mockRepo.On("GenerateOrderNumber", mock.Anything, handlerTestTenantID).
			Return("SO-2026-00001", nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.Order")).
			Return(nil)

		reqBody := fulfillmentapp.CreateOrderRequest{
			Kind:      document.OrderKindSales,
			PartyID:   uuid.New(),
			PartyName: "Test Customer",
			Items: []fulfillmentapp.CreateOrderItemInput{
				{
					ProductID:   uuid.New(),
					ProductName: "Widget",
					ProductCode: "SKU-001",
					Quantity:    10,
					UnitPrice:   decimal.RequireFromString("19.99"),
				},
			},
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", handlerTestTenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response["success"].(bool))

		mockRepo.AssertExpectations(t)
	})

	t.Run("should return error for missing required fields", func(t *testing.T) {
		router, _, _ := setupOrderTestRouter()

		reqBody := map[string]interface{}{
			"kind": "SALES",
			// Missing party_id and party_name
		}
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_GetByID(t *testing.T) {
	t.Run("should get order by ID", func(t *testing.T) {
		router, mockRepo, _ := setupOrderTestRouter()

		testOrder := createHandlerTestOrder(handlerTestTenantID, "SO-2026-00001")

		mockRepo.On("FindByIDForTenant", mock.Anything, handlerTestTenantID, testOrder.ID).
			Return(testOrder, nil)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders/"+testOrder.ID.String(), nil)
		req.Header.Set("X-Tenant-ID", handlerTestTenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response["success"].(bool))

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "SO-2026-00001", data["order_number"])

		mockRepo.AssertExpectations(t)
	})

	t.Run("should return 404 for non-existent order", func(t *testing.T) {
		router, mockRepo, _ := setupOrderTestRouter()

		orderID := uuid.New()
		mockRepo.On("FindByIDForTenant", mock.Anything, handlerTestTenantID, orderID).
			Return(nil, shared.ErrNotFound)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil)
		req.Header.Set("X-Tenant-ID", handlerTestTenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		mockRepo.AssertExpectations(t)
	})

	t.Run("should return 400 for invalid order ID", func(t *testing.T) {
		router, _, _ := setupOrderTestRouter()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_List(t *testing.T) {
	t.Run("should list orders with pagination meta", func(t *testing.T) {
		router, mockRepo, _ := setupOrderTestRouter()

		orders := []document.Order{
			*createHandlerTestOrder(handlerTestTenantID, "SO-2026-00001"),
			*createHandlerTestOrder(handlerTestTenantID, "SO-2026-00002"),
		}

		mockRepo.On("FindAllForTenant", mock.Anything, handlerTestTenantID, mock.AnythingOfType("shared.Filter")).
			Return(orders, nil)
		mockRepo.On("CountForTenant", mock.Anything, handlerTestTenantID, mock.AnythingOfType("shared.Filter")).
			Return(int64(2), nil)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders?page=1&page_size=20", nil)
		req.Header.Set("X-Tenant-ID", handlerTestTenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response["success"].(bool))

		meta := response["meta"].(map[string]interface{})
		assert.Equal(t, float64(2), meta["total"])
		assert.Equal(t, float64(1), meta["page"])

		mockRepo.AssertExpectations(t)
	})

	t.Run("should reject invalid status filter", func(t *testing.T) {
		router, _, _ := setupOrderTestRouter()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders?status=BOGUS", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_Confirm(t *testing.T) {
	t.Run("should confirm order with items", func(t *testing.T) {
		router, mockRepo, _ := setupOrderTestRouter()

		testOrder := createHandlerTestOrder(handlerTestTenantID, "SO-2026-00001")
		_, err := testOrder.AddItem(uuid.New(), "Widget", "SKU-001", 5, decimal.RequireFromString("10.00"))
		assert.NoError(t, err)

		mockRepo.On("FindByIDForTenant", mock.Anything, handlerTestTenantID, testOrder.ID).
			Return(testOrder, nil)
		mockRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*document.Order")).
			Return(nil)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders/"+testOrder.ID.String()+"/confirm", nil)
		req.Header.Set("X-Tenant-ID", handlerTestTenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err = json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "CONFIRMED", data["status"])

		mockRepo.AssertExpectations(t)
	})

	t.Run("should return 422 when confirming an empty order", func(t *testing.T) {
		router, mockRepo, _ := setupOrderTestRouter()

		testOrder := createHandlerTestOrder(handlerTestTenantID, "SO-2026-00001")

		mockRepo.On("FindByIDForTenant", mock.Anything, handlerTestTenantID, testOrder.ID).
			Return(testOrder, nil)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders/"+testOrder.ID.String()+"/confirm", nil)
		req.Header.Set("X-Tenant-ID", handlerTestTenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		mockRepo.AssertExpectations(t)
	})
}

func TestOrderHandler_Cancel(t *testing.T) {
	t.Run("should cancel order with reason", func(t *testing.T) {
		router, mockRepo, _ := setupOrderTestRouter()

		testOrder := createHandlerTestOrder(handlerTestTenantID, "SO-2026-00001")

		mockRepo.On("FindByIDForTenant", mock.Anything, handlerTestTenantID, testOrder.ID).
			Return(testOrder, nil)
		mockRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*document.Order")).
			Return(nil)

		body, _ := json.Marshal(fulfillmentapp.CancelOrderRequest{Reason: "Customer withdrew"})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders/"+testOrder.ID.String()+"/cancel", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", handlerTestTenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		mockRepo.AssertExpectations(t)
	})

	t.Run("should reject cancel without a reason", func(t *testing.T) {
		router, _, _ := setupOrderTestRouter()

		body, _ := json.Marshal(map[string]interface{}{})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/orders/"+uuid.New().String()+"/cancel", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_Delete(t *testing.T) {
	t.Run("should delete draft order", func(t *testing.T) {
		router, mockRepo, _ := setupOrderTestRouter()

		testOrder := createHandlerTestOrder(handlerTestTenantID, "SO-2026-00001")

		mockRepo.On("FindByIDForTenant", mock.Anything, handlerTestTenantID, testOrder.ID).
			Return(testOrder, nil)
		mockRepo.On("DeleteForTenant", mock.Anything, handlerTestTenantID, testOrder.ID).
			Return(nil)

		req, _ := http.NewRequest(http.MethodDelete, "/api/v1/orders/"+testOrder.ID.String(), nil)
		req.Header.Set("X-Tenant-ID", handlerTestTenantID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)

		mockRepo.AssertExpectations(t)
	})
}
