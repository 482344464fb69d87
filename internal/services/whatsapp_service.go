package services

import (
	"fmt"

	"tailor_shop/internal/lifecycle"
	"tailor_shop/internal/models"
	"tailor_shop/pkg/whatsapp"
)

// WhatsAppService composes and delivers outbound customer messages. The
// lifecycle core only decides which template applies; everything about
// wording and delivery lives here.
type WhatsAppService interface {
	SendMessage(phone, message string) error
	ComposeCustomerMessage(template lifecycle.CustomerTemplate, order *models.Order) string
	CustomerDeepLink(template lifecycle.CustomerTemplate, order *models.Order) string
	SendOrderUpdate(template lifecycle.CustomerTemplate, order *models.Order) error
}

type whatsappService struct {
	client *whatsapp.Client
}

func NewWhatsAppService(client *whatsapp.Client) WhatsAppService {
	return &whatsappService{client: client}
}

func (s *whatsappService) SendMessage(phone, message string) error {
	return s.client.SendTextMessage(phone, message)
}

func (s *whatsappService) ComposeCustomerMessage(template lifecycle.CustomerTemplate, order *models.Order) string {
	switch template {
	case lifecycle.TemplateOrderReady:
		if order.RemainingAmount.IsPositive() {
			return fmt.Sprintf("Hello %s, your order %s is stitched and ready for pickup. Remaining balance: %s.",
				order.CustomerName, order.SerialNumber, order.RemainingAmount.StringFixed(2))
		}
		return fmt.Sprintf("Hello %s, your order %s is stitched and ready for pickup. It is fully paid.",
			order.CustomerName, order.SerialNumber)
	case lifecycle.TemplateOrderDelivered:
		return fmt.Sprintf("Hello %s, your order %s has been delivered. Thank you for choosing us!",
			order.CustomerName, order.SerialNumber)
	}
	return ""
}

// CustomerDeepLink returns a wa.me link with the composed message
// prefilled, for UI clients that hand off to the WhatsApp app instead
// of sending through the gateway.
func (s *whatsappService) CustomerDeepLink(template lifecycle.CustomerTemplate, order *models.Order) string {
	return whatsapp.DeepLink(order.CustomerPhone, s.ComposeCustomerMessage(template, order))
}

func (s *whatsappService) SendOrderUpdate(template lifecycle.CustomerTemplate, order *models.Order) error {
	message := s.ComposeCustomerMessage(template, order)
	if message == "" {
		return nil
	}
	return s.SendMessage(order.CustomerPhone, message)
}
