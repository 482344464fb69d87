package services

import (
	"log"

	"tailor_shop/internal/models"
	"tailor_shop/internal/repository"
)

type NotificationService interface {
	Notify(userID uint, title, message string) error
	NotifyManagers(title, message string) error
	GetForUser(userID uint) ([]models.Notification, error)
	MarkRead(id uint, userID uint) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

func (s *notificationService) Notify(userID uint, title, message string) error {
	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}
	return s.notificationRepo.Create(notification)
}

// NotifyManagers fans the notification out to every active manager.
// A failed insert for one manager does not stop delivery to the rest.
func (s *notificationService) NotifyManagers(title, message string) error {
	managers, err := s.userRepo.GetByRole(string(models.RoleManager))
	if err != nil {
		return err
	}

	for _, manager := range managers {
		if err := s.Notify(manager.ID, title, message); err != nil {
			log.Printf("Warning: failed to notify manager %d: %v", manager.ID, err)
		}
	}
	return nil
}

func (s *notificationService) GetForUser(userID uint) ([]models.Notification, error) {
	return s.notificationRepo.GetByUserID(userID)
}

func (s *notificationService) MarkRead(id uint, userID uint) error {
	return s.notificationRepo.MarkRead(id, userID)
}
