package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tailor_shop/internal/lifecycle"
	"tailor_shop/internal/middleware"
	"tailor_shop/internal/models"
	"tailor_shop/internal/services"
)

type OrderHandler struct {
	orderService    services.OrderService
	whatsappService services.WhatsAppService
}

func NewOrderHandler(orderService services.OrderService, whatsappService services.WhatsAppService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		whatsappService: whatsappService,
	}
}

type CreateOrderRequest struct {
	SerialNumber  string          `json:"serial_number" binding:"required"`
	CustomerName  string          `json:"customer_name" binding:"required"`
	CustomerPhone string          `json:"customer_phone" binding:"required"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	Notes         string          `json:"notes"`
}

type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes"`
	PaymentDate *time.Time      `json:"payment_date"`
}

type AddAttachmentRequest struct {
	ImageRef string `json:"image_ref" binding:"required"`
}

type TransitionRequest struct {
	Status             string `json:"status" binding:"required"`
	ConfirmOutstanding bool   `json:"confirm_outstanding"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not resolve user")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	order, err := h.orderService.CreateOrder(services.CreateOrderInput{
		SerialNumber:  req.SerialNumber,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		TotalAmount:   req.TotalAmount,
		DepositAmount: req.DepositAmount,
		Notes:         req.Notes,
	}, user)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, order)
}

// ListOrders returns all orders; ?serial= narrows the lookup to the
// order with that serial number.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	if serial := c.Query("serial"); serial != "" {
		order, err := h.orderService.GetOrderBySerial(serial)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, []interface{}{order})
		return
	}

	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByID(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, order)
}

func (h *OrderHandler) RecordPayment(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not resolve user")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	var paymentDate time.Time
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	payment, err := h.orderService.RecordPayment(id, req.Amount, req.Notes, paymentDate, user)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, payment)
}

func (h *OrderHandler) ListPayments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	payments, err := h.orderService.GetOrderPayments(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, payments)
}

func (h *OrderHandler) AddAttachment(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not resolve user")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AddAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	attachment, err := h.orderService.AddAttachment(id, req.ImageRef, user)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, attachment)
}

func (h *OrderHandler) ListAttachments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	attachments, err := h.orderService.GetOrderAttachments(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, attachments)
}

func (h *OrderHandler) TransitionStatus(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not resolve user")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	order, err := h.orderService.TransitionOrder(id, models.OrderStatus(req.Status), user, req.ConfirmOutstanding)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// WhatsAppLink returns the wa.me deep link for the order's current
// lifecycle stage so the UI can hand off to the WhatsApp app.
func (h *OrderHandler) WhatsAppLink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByID(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	template := templateForStatus(models.OrderStatus(order.Status))
	if template == "" {
		respondError(c, http.StatusConflict, "NO_TEMPLATE", "No customer message applies to a pending order")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"link":    h.whatsappService.CustomerDeepLink(template, order),
		"message": h.whatsappService.ComposeCustomerMessage(template, order),
	})
}

func templateForStatus(status models.OrderStatus) lifecycle.CustomerTemplate {
	switch status {
	case models.OrderStitched:
		return lifecycle.TemplateOrderReady
	case models.OrderDelivered:
		return lifecycle.TemplateOrderDelivered
	}
	return ""
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return 0, false
	}
	return uint(id), true
}
