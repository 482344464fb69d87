package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an immutable ledger entry: rows are only ever inserted,
// never updated or deleted. Its creation is paired with the conditional
// decrement of the owning order's remaining balance.
type Payment struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	PaymentDate time.Time       `json:"payment_date" gorm:"not null"`
	Notes       string          `json:"notes"`
	CreatedBy   uint            `json:"created_by" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at"`
}
