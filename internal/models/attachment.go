package models

import "time"

// Attachment links a measurement-sheet photo to an order. The image
// itself lives in external storage; ImageRef is the storage key/URI.
type Attachment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	ImageRef  string    `json:"image_ref" gorm:"not null"`
	CreatedBy uint      `json:"created_by" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
