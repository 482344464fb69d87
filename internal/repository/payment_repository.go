package repository

import (
	"gorm.io/gorm"

	"tailor_shop/internal/models"
)

type PaymentRepository interface {
	// CreateWithDecrement inserts the payment and decrements the owning
	// order's remaining balance in one transaction. The decrement is
	// conditional on the balance still covering the amount and the order
	// not being delivered; ErrConflict when the condition fails.
	CreateWithDecrement(payment *models.Payment) error
	GetByOrderID(orderID uint) ([]models.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateWithDecrement(payment *models.Payment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status <> ? AND remaining_amount >= ?",
				payment.OrderID, string(models.OrderDelivered), payment.Amount).
			Update("remaining_amount", gorm.Expr("remaining_amount - ?", payment.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return tx.Create(payment).Error
	})
}

func (r *paymentRepository) GetByOrderID(orderID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("order_id = ?", orderID).Order("payment_date ASC").Find(&payments).Error
	return payments, err
}
