package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"tailor_shop/internal/ledger"
	"tailor_shop/internal/lifecycle"
	"tailor_shop/internal/models"
	"tailor_shop/internal/repository"
)

var (
	// ErrOutstandingBalance is returned when a delivery is attempted on
	// an order still owing money without the caller's explicit
	// confirmation. The transition itself stays legal.
	ErrOutstandingBalance = errors.New("order has outstanding balance; confirmation required")

	ErrOrderDelivered = errors.New("order already delivered")
)

type CreateOrderInput struct {
	SerialNumber  string
	CustomerName  string
	CustomerPhone string
	TotalAmount   decimal.Decimal
	DepositAmount decimal.Decimal
	Notes         string
}

type OrderService interface {
	CreateOrder(input CreateOrderInput, actor *models.User) (*models.Order, error)
	GetOrderByID(id uint) (*models.Order, error)
	GetOrderBySerial(serial string) (*models.Order, error)
	GetAllOrders() ([]models.Order, error)
	RecordPayment(orderID uint, amount decimal.Decimal, notes string, paymentDate time.Time, actor *models.User) (*models.Payment, error)
	TransitionOrder(orderID uint, target models.OrderStatus, actor *models.User, confirmOutstanding bool) (*models.Order, error)
	AddAttachment(orderID uint, imageRef string, actor *models.User) (*models.Attachment, error)
	GetOrderPayments(orderID uint) ([]models.Payment, error)
	GetOrderAttachments(orderID uint) ([]models.Attachment, error)
}

type orderService struct {
	orderRepo           repository.OrderRepository
	paymentRepo         repository.PaymentRepository
	attachmentRepo      repository.AttachmentRepository
	notificationService NotificationService
	whatsappService     WhatsAppService
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	attachmentRepo repository.AttachmentRepository,
	notificationService NotificationService,
	whatsappService WhatsAppService,
) OrderService {
	return &orderService{
		orderRepo:           orderRepo,
		paymentRepo:         paymentRepo,
		attachmentRepo:      attachmentRepo,
		notificationService: notificationService,
		whatsappService:     whatsappService,
	}
}

func (s *orderService) CreateOrder(input CreateOrderInput, actor *models.User) (*models.Order, error) {
	if !lifecycle.CanCreateOrder(models.UserRole(actor.Role)) {
		return nil, lifecycle.ErrForbidden
	}

	// Collect every field violation before returning, so the caller can
	// surface them all at once.
	verr := &ledger.ValidationError{}
	if input.SerialNumber == "" {
		verr.Add("serialNumber", "must not be empty")
	}
	if input.CustomerName == "" {
		verr.Add("customerName", "must not be empty")
	}
	if !models.ValidCustomerPhone(input.CustomerPhone) {
		verr.Add("customerPhone", "must be a valid mobile number (08xxxxxxxxxx)")
	}

	remaining, err := ledger.ValidateOrderCreation(input.TotalAmount, input.DepositAmount)
	var moneyErr *ledger.ValidationError
	if errors.As(err, &moneyErr) {
		verr.Fields = append(verr.Fields, moneyErr.Fields...)
	} else if err != nil {
		return nil, err
	}

	if verr.HasErrors() {
		return nil, verr
	}

	order := &models.Order{
		SerialNumber:    input.SerialNumber,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		TotalAmount:     input.TotalAmount,
		DepositAmount:   input.DepositAmount,
		RemainingAmount: remaining,
		Status:          string(models.OrderPending),
		Notes:           input.Notes,
		CreatedBy:       actor.ID,
	}

	if err := s.orderRepo.Create(order); err != nil {
		if errors.Is(err, repository.ErrDuplicateSerial) {
			verr.Add("serialNumber", "already in use")
			return nil, verr
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

func (s *orderService) GetOrderByID(id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

func (s *orderService) GetOrderBySerial(serial string) (*models.Order, error) {
	return s.orderRepo.GetBySerial(serial)
}

func (s *orderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// RecordPayment validates the amount against a fresh order snapshot and
// pairs the payment insert with a conditional decrement of the remaining
// balance. When the decrement loses a race to a concurrent payment, the
// whole attempt is retried exactly once from a re-read snapshot.
func (s *orderService) RecordPayment(orderID uint, amount decimal.Decimal, notes string, paymentDate time.Time, actor *models.User) (*models.Payment, error) {
	if !lifecycle.CanRecordPayment(models.UserRole(actor.Role)) {
		return nil, lifecycle.ErrForbidden
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	payment, err := s.tryRecordPayment(orderID, amount, notes, paymentDate, actor.ID)
	if errors.Is(err, repository.ErrConflict) {
		payment, err = s.tryRecordPayment(orderID, amount, notes, paymentDate, actor.ID)
	}
	return payment, err
}

func (s *orderService) tryRecordPayment(orderID uint, amount decimal.Decimal, notes string, paymentDate time.Time, actorID uint) (*models.Payment, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == string(models.OrderDelivered) {
		return nil, ErrOrderDelivered
	}
	if err := ledger.ValidatePayment(amount, order.RemainingAmount); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID:     orderID,
		Amount:      amount,
		PaymentDate: paymentDate,
		Notes:       notes,
		CreatedBy:   actorID,
	}
	if err := s.paymentRepo.CreateWithDecrement(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *orderService) TransitionOrder(orderID uint, target models.OrderStatus, actor *models.User, confirmOutstanding bool) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	result, err := lifecycle.Transition(*order, target, models.UserRole(actor.Role), time.Now())
	if err != nil {
		return nil, err
	}
	if result.OutstandingBalance && !confirmOutstanding {
		return nil, ErrOutstandingBalance
	}

	// Conditional on the status the transition was computed from, so a
	// concurrent transition from another device cannot be overwritten.
	var completedAt, deliveredAt *time.Time
	if target == models.OrderStitched {
		completedAt = result.Order.CompletedAt
	}
	if target == models.OrderDelivered {
		deliveredAt = result.Order.DeliveredAt
	}
	if err := s.orderRepo.UpdateStatus(orderID, order.Status, result.Order.Status, completedAt, deliveredAt); err != nil {
		return nil, err
	}

	s.dispatchNotice(result.Notice, &result.Order)

	updated := result.Order
	return &updated, nil
}

// dispatchNotice is best-effort: a failed notification never rolls back
// an already-persisted transition.
func (s *orderService) dispatchNotice(notice *lifecycle.Notice, order *models.Order) {
	if notice == nil {
		return
	}

	if s.notificationService != nil && notice.Audience == lifecycle.AudienceManagers {
		if err := s.notificationService.NotifyManagers(notice.Title, notice.Message); err != nil {
			log.Printf("Warning: failed to notify managers for order %s: %v", order.SerialNumber, err)
		}
	}

	if s.whatsappService != nil && notice.Customer != "" {
		if err := s.whatsappService.SendOrderUpdate(notice.Customer, order); err != nil {
			log.Printf("Warning: failed to send WhatsApp update for order %s: %v", order.SerialNumber, err)
		}
	}
}

func (s *orderService) AddAttachment(orderID uint, imageRef string, actor *models.User) (*models.Attachment, error) {
	if !lifecycle.CanAddAttachment(models.UserRole(actor.Role)) {
		return nil, lifecycle.ErrForbidden
	}
	if imageRef == "" {
		verr := &ledger.ValidationError{}
		verr.Add("imageRef", "must not be empty")
		return nil, verr
	}

	if _, err := s.orderRepo.GetByID(orderID); err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		OrderID:   orderID,
		ImageRef:  imageRef,
		CreatedBy: actor.ID,
	}
	if err := s.attachmentRepo.Create(attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *orderService) GetOrderPayments(orderID uint) ([]models.Payment, error) {
	return s.paymentRepo.GetByOrderID(orderID)
}

func (s *orderService) GetOrderAttachments(orderID uint) ([]models.Attachment, error) {
	return s.attachmentRepo.GetByOrderID(orderID)
}
