package repository

import (
	"errors"

	"gorm.io/gorm"

	"tailor_shop/internal/models"
)

type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByUserID(userID uint) ([]models.Notification, error)
	// MarkRead flips read from false to true; it never flips back.
	MarkRead(id uint, userID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepository) GetByUserID(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkRead(id uint, userID uint) error {
	var notification models.Notification
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if notification.Read {
		return nil
	}
	return r.db.Model(&notification).Update("read", true).Error
}
