package repository

import (
	"gorm.io/gorm"

	"tailor_shop/internal/models"
)

type AttachmentRepository interface {
	Create(attachment *models.Attachment) error
	GetByOrderID(orderID uint) ([]models.Attachment, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(attachment *models.Attachment) error {
	return r.db.Create(attachment).Error
}

func (r *attachmentRepository) GetByOrderID(orderID uint) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := r.db.Where("order_id = ?", orderID).Find(&attachments).Error
	return attachments, err
}
