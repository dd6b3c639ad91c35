package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"megano/internal/app/shop/entity"
	"megano/internal/app/shop/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderService мок для OrderServiceInterface в тестах handler
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, ownerID string, req *entity.CreateOrderRequest) (*entity.Order, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, ownerID string, orderID uint) (*entity.OrderView, error) {
	args := m.Called(ctx, ownerID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OrderView), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, ownerID string) ([]entity.OrderView, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.OrderView), args.Error(1)
}

func (m *MockOrderService) SubmitPayment(ctx context.Context, ownerID string, orderID uint, req *entity.PaymentRequest) (*entity.Order, error) {
	args := m.Called(ctx, ownerID, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func setupOrderRouter(orderService *MockOrderService, owner string) *gin.Engine {
	router := setupTestRouter()
	router.Use(func(c *gin.Context) {
		c.Set(ctxOwnerID, owner)
		c.Next()
	})

	h := NewOrderHandler(orderService)
	router.POST("/orders", h.CreateOrder)
	router.GET("/orders", h.GetOrders)
	router.GET("/order/:id", h.GetOrder)
	router.POST("/payment/:id", h.Payment)
	return router
}

func testPaymentBody() []byte {
	body, _ := json.Marshal(entity.PaymentRequest{
		Number: "12345678",
		Name:   "IVAN IVANOV",
		Month:  "05",
		Year:   "2027",
		Code:   "123",
	})
	return body
}

func TestCreateOrderHandler_ReturnsOrderID(t *testing.T) {
	orderService := new(MockOrderService)
	router := setupOrderRouter(orderService, "user:42")

	orderService.On("CreateOrder", mock.Anything, "user:42", mock.AnythingOfType("*entity.CreateOrderRequest")).
		Return(&entity.Order{ID: 10}, nil)

	body, _ := json.Marshal(entity.CreateOrderRequest{
		City:         "Москва",
		Address:      "ул. Ленина, 1",
		DeliveryType: "standard",
		PaymentType:  "online",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"orderId":10`)
}

func TestCreateOrderHandler_InvalidDeliveryType(t *testing.T) {
	orderService := new(MockOrderService)
	router := setupOrderRouter(orderService, "user:42")

	body := []byte(`{"city":"Москва","address":"ул. Ленина, 1","deliveryType":"teleport","paymentType":"online"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orderService.AssertNotCalled(t, "CreateOrder")
}

func TestCreateOrderHandler_EmptyBasket(t *testing.T) {
	orderService := new(MockOrderService)
	router := setupOrderRouter(orderService, "user:42")

	orderService.On("CreateOrder", mock.Anything, "user:42", mock.Anything).
		Return(nil, service.ErrBasketEmpty)

	body, _ := json.Marshal(entity.CreateOrderRequest{
		City:         "Москва",
		Address:      "ул. Ленина, 1",
		DeliveryType: "standard",
		PaymentType:  "online",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Basket is empty")
}

func TestGetOrderHandler_ForeignOrderForbidden(t *testing.T) {
	orderService := new(MockOrderService)
	router := setupOrderRouter(orderService, "user:2")

	orderService.On("GetOrder", mock.Anything, "user:2", uint(10)).Return(nil, service.ErrForbidden)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/order/10", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPaymentHandler_ReportsRejectedStatus(t *testing.T) {
	orderService := new(MockOrderService)
	router := setupOrderRouter(orderService, "user:42")

	orderService.On("SubmitPayment", mock.Anything, "user:42", uint(10), mock.AnythingOfType("*entity.PaymentRequest")).
		Return(&entity.Order{
			ID:           10,
			Status:       entity.OrderStatusPaymentFailed,
			PaymentError: "payment rejected by processor",
		}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/payment/10", bytes.NewReader(testPaymentBody()))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "payment-failed")
	assert.Contains(t, w.Body.String(), "payment rejected by processor")
}

func TestPaymentHandler_AlreadyPaidConflict(t *testing.T) {
	orderService := new(MockOrderService)
	router := setupOrderRouter(orderService, "user:42")

	orderService.On("SubmitPayment", mock.Anything, "user:42", uint(10), mock.Anything).
		Return(nil, service.ErrOrderAlreadyPaid)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/payment/10", bytes.NewReader(testPaymentBody()))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPaymentHandler_InvalidCardRejectedByValidation(t *testing.T) {
	orderService := new(MockOrderService)
	router := setupOrderRouter(orderService, "user:42")

	body := []byte(`{"number":"12ab","name":"IVAN","month":"5","year":"27","code":"12"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/payment/10", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orderService.AssertNotCalled(t, "SubmitPayment")
}
