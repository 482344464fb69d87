package models

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	SerialNumber    string          `json:"serial_number" gorm:"unique;not null"`
	CustomerName    string          `json:"customer_name" gorm:"not null"`
	CustomerPhone   string          `json:"customer_phone" gorm:"not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	DepositAmount   decimal.Decimal `json:"deposit_amount" gorm:"type:decimal(12,2);not null"`
	RemainingAmount decimal.Decimal `json:"remaining_amount" gorm:"type:decimal(12,2);not null"`
	Status          string          `json:"status" gorm:"default:'pending'"` // pending, stitched, delivered
	Notes           string          `json:"notes"`
	CompletedAt     *time.Time      `json:"completed_at"`
	DeliveredAt     *time.Time      `json:"delivered_at"`
	CreatedBy       uint            `json:"created_by" gorm:"not null"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderStitched  OrderStatus = "stitched"
	OrderDelivered OrderStatus = "delivered"
)

// Customer phones are stored in national mobile format (08xxxxxxxxxx)
// and converted to 628xxx only at the WhatsApp boundary.
var customerPhonePattern = regexp.MustCompile(`^08[0-9]{8,11}$`)

func ValidCustomerPhone(phone string) bool {
	return customerPhonePattern.MatchString(phone)
}
