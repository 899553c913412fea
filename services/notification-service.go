package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Pranjal6955/TaskBoard-Pro/logging"
	"github.com/Pranjal6955/TaskBoard-Pro/models"
	"github.com/Pranjal6955/TaskBoard-Pro/repositories"
	"github.com/Pranjal6955/TaskBoard-Pro/utils"
)

type NotificationService struct {
	repo         *repositories.NotificationRepo
	emailBreaker *gobreaker.CircuitBreaker
}

func NewNotificationService(repo *repositories.NotificationRepo, emailBreaker *gobreaker.CircuitBreaker) *NotificationService {
	return &NotificationService{
		repo:         repo,
		emailBreaker: emailBreaker,
	}
}

// Notify implements engine.NotificationSink: the notification is stored for
// the in-app feed and the email copy is sent best-effort behind the breaker.
func (ns *NotificationService) Notify(ctx context.Context, recipientEmail, text string) error {
	if recipientEmail == "" || text == "" {
		return fmt.Errorf("recipient and text are required")
	}

	notification := models.Notification{
		Recipient: recipientEmail,
		Message:   text,
		CreatedAt: time.Now(),
		IsRead:    false,
	}
	if err := ns.repo.CreateNotification(&notification); err != nil {
		return err
	}

	_, err := ns.emailBreaker.Execute(func() (interface{}, error) {
		return nil, utils.SendEmail(recipientEmail, "TaskBoard Pro notification", text)
	})
	if err != nil {
		// The stored notification already reached the feed; email delivery
		// failure is not propagated.
		logging.Logger.Warnf("Event ID: NOTIFICATION_EMAIL_FAILED, Description: Email to %s not sent: %v", recipientEmail, err)
	}

	return nil
}

func (ns *NotificationService) GetNotificationsByRecipient(recipientEmail string) ([]models.Notification, error) {
	return ns.repo.GetNotificationsByRecipient(recipientEmail)
}

func (ns *NotificationService) MarkNotificationAsRead(recipientEmail, notificationID, createdAt string) error {
	if recipientEmail == "" || notificationID == "" || createdAt == "" {
		return fmt.Errorf("recipient, notificationID, and createdAt are required")
	}
	return ns.repo.MarkNotificationAsRead(recipientEmail, notificationID, createdAt)
}
