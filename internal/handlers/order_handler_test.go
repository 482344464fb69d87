package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tailor_shop/internal/middleware"
	"tailor_shop/internal/models"
	"tailor_shop/internal/repository"
	"tailor_shop/internal/services"
)

type handlerEnv struct {
	db           *gorm.DB
	orderService services.OrderService
	manager      *models.User
	tailor       *models.User
}

func setupHandlerEnv(t *testing.T) *handlerEnv {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.Payment{}, &models.Attachment{}, &models.Notification{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	notificationService := services.NewNotificationService(repository.NewNotificationRepository(db), userRepo)
	orderService := services.NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewAttachmentRepository(db),
		notificationService,
		nil,
	)

	manager := &models.User{Username: "manager", DisplayName: "Manager", Role: string(models.RoleManager), IsActive: true, PasswordHash: "x"}
	require.NoError(t, db.Create(manager).Error)
	tailor := &models.User{Username: "tailor", DisplayName: "Tailor", Role: string(models.RoleTailor), IsActive: true, PasswordHash: "x"}
	require.NoError(t, db.Create(tailor).Error)

	return &handlerEnv{db: db, orderService: orderService, manager: manager, tailor: tailor}
}

// routerAs wires the order routes with the given user injected instead
// of a real session lookup.
func (env *handlerEnv) routerAs(user *models.User) *gin.Engine {
	whatsappService := services.NewWhatsAppService(nil)
	handler := NewOrderHandler(env.orderService, whatsappService)

	router := gin.New()
	api := router.Group("/api")
	api.Use(middleware.SetCurrentUser(user))
	{
		api.POST("/orders", handler.CreateOrder)
		api.GET("/orders", handler.ListOrders)
		api.GET("/orders/:id", handler.GetOrder)
		api.POST("/orders/:id/status", handler.TransitionStatus)
		api.POST("/orders/:id/payments", handler.RecordPayment)
		api.GET("/orders/:id/payments", handler.ListPayments)
		api.POST("/orders/:id/attachments", handler.AddAttachment)
		api.GET("/orders/:id/whatsapp-link", handler.WhatsAppLink)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func errorCode(t *testing.T, response map[string]interface{}) string {
	errObj, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "expected error envelope, got %v", response)
	return errObj["code"].(string)
}

func (env *handlerEnv) createOrder(t *testing.T, serial string) *models.Order {
	order, err := env.orderService.CreateOrder(services.CreateOrderInput{
		SerialNumber:  serial,
		CustomerName:  "Siti",
		CustomerPhone: "081234567890",
		TotalAmount:   decimal.RequireFromString("500"),
		DepositAmount: decimal.RequireFromString("100"),
	}, env.manager)
	require.NoError(t, err)
	return order
}

func TestCreateOrderEndpoint(t *testing.T) {
	env := setupHandlerEnv(t)

	body := map[string]interface{}{
		"serial_number":  "ORD-001",
		"customer_name":  "Siti",
		"customer_phone": "081234567890",
		"total_amount":   "500.00",
		"deposit_amount": "100.00",
	}

	t.Run("manager creates order", func(t *testing.T) {
		w, response := doJSON(t, env.routerAs(env.manager), http.MethodPost, "/api/orders", body)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, response["success"].(bool))

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "ORD-001", data["serial_number"])
		assert.Equal(t, "pending", data["status"])
	})

	t.Run("tailor is forbidden", func(t *testing.T) {
		body := map[string]interface{}{
			"serial_number":  "ORD-002",
			"customer_name":  "Siti",
			"customer_phone": "081234567890",
			"total_amount":   "500.00",
		}
		w, response := doJSON(t, env.routerAs(env.tailor), http.MethodPost, "/api/orders", body)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, response))
	})

	t.Run("validation errors carry the field list", func(t *testing.T) {
		body := map[string]interface{}{
			"serial_number":  "ORD-003",
			"customer_name":  "Siti",
			"customer_phone": "not-a-phone",
			"total_amount":   "0",
			"deposit_amount": "10",
		}
		w, response := doJSON(t, env.routerAs(env.manager), http.MethodPost, "/api/orders", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, response))

		errObj := response["error"].(map[string]interface{})
		fields := errObj["fields"].([]interface{})
		assert.NotEmpty(t, fields)
	})
}

func TestPaymentEndpoint(t *testing.T) {
	env := setupHandlerEnv(t)
	order := env.createOrder(t, "ORD-010")
	path := "/api/orders/" + strconv.Itoa(int(order.ID)) + "/payments"

	t.Run("manager records payment", func(t *testing.T) {
		w, response := doJSON(t, env.routerAs(env.manager), http.MethodPost, path, map[string]interface{}{"amount": "300.00"})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, response["success"].(bool))
	})

	t.Run("excess payment rejected", func(t *testing.T) {
		w, response := doJSON(t, env.routerAs(env.manager), http.MethodPost, path, map[string]interface{}{"amount": "150.00"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, response))
	})

	t.Run("tailor is forbidden", func(t *testing.T) {
		w, response := doJSON(t, env.routerAs(env.tailor), http.MethodPost, path, map[string]interface{}{"amount": "10.00"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, response))
	})
}

func TestTransitionEndpoint(t *testing.T) {
	env := setupHandlerEnv(t)
	order := env.createOrder(t, "ORD-020")
	path := "/api/orders/" + strconv.Itoa(int(order.ID)) + "/status"

	t.Run("skipping to delivered is rejected", func(t *testing.T) {
		w, response := doJSON(t, env.routerAs(env.manager), http.MethodPost, path, map[string]interface{}{"status": "delivered"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ILLEGAL_TRANSITION", errorCode(t, response))
	})

	t.Run("tailor marks stitched", func(t *testing.T) {
		w, response := doJSON(t, env.routerAs(env.tailor), http.MethodPost, path, map[string]interface{}{"status": "stitched"})
		assert.Equal(t, http.StatusOK, w.Code)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "stitched", data["status"])
		assert.NotNil(t, data["completed_at"])
	})

	t.Run("unconfirmed delivery with balance warns", func(t *testing.T) {
		w, response := doJSON(t, env.routerAs(env.manager), http.MethodPost, path, map[string]interface{}{"status": "delivered"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "OUTSTANDING_BALANCE", errorCode(t, response))
	})

	t.Run("confirmed delivery proceeds", func(t *testing.T) {
		w, response := doJSON(t, env.routerAs(env.manager), http.MethodPost, path, map[string]interface{}{
			"status":              "delivered",
			"confirm_outstanding": true,
		})
		assert.Equal(t, http.StatusOK, w.Code)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "delivered", data["status"])
		assert.NotNil(t, data["delivered_at"])
	})
}

func TestWhatsAppLinkEndpoint(t *testing.T) {
	env := setupHandlerEnv(t)
	order := env.createOrder(t, "ORD-030")
	path := "/api/orders/" + strconv.Itoa(int(order.ID)) + "/whatsapp-link"

	t.Run("no template for pending orders", func(t *testing.T) {
		w, response := doJSON(t, env.routerAs(env.manager), http.MethodGet, path, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "NO_TEMPLATE", errorCode(t, response))
	})

	t.Run("stitched order links the ready message", func(t *testing.T) {
		_, err := env.orderService.TransitionOrder(order.ID, models.OrderStitched, env.manager, false)
		require.NoError(t, err)

		w, response := doJSON(t, env.routerAs(env.manager), http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		data := response["data"].(map[string]interface{})
		assert.Contains(t, data["link"].(string), "https://wa.me/6281234567890")
		assert.Contains(t, data["message"].(string), "ORD-030")
	})
}
