package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"tailor_shop/internal/models"
)

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetBySerial(serial string) (*models.Order, error)
	GetAll() ([]models.Order, error)
	GetByCreator(userID uint) ([]models.Order, error)
	// UpdateStatus persists a lifecycle transition conditionally on the
	// order still being in fromStatus; ErrConflict when it is not.
	UpdateStatus(id uint, fromStatus, toStatus string, completedAt, deliveredAt *time.Time) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	err := r.db.Create(order).Error
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateSerial
	}
	return err
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetBySerial(serial string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("serial_number = ?", serial).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetByCreator(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("created_by = ?", userID).Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatus(id uint, fromStatus, toStatus string, completedAt, deliveredAt *time.Time) error {
	updates := map[string]interface{}{"status": toStatus}
	if completedAt != nil {
		updates["completed_at"] = completedAt
	}
	if deliveredAt != nil {
		updates["delivered_at"] = deliveredAt
	}
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// Both postgres and the sqlite driver used in tests report unique
// violations only through the error text.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
