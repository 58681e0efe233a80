package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/domain"
)

// Notifier delivers payment notifications. Delivery is best-effort; a
// failed notification never rolls back a payment status update.
type Notifier interface {
	SendPaymentConfirmation(ctx context.Context, payment *domain.Payment) error
}

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationPaymentConfirmed NotificationType = "PAYMENT_CONFIRMED"
)

// Notification represents an email to be sent.
type Notification struct {
	Type      NotificationType
	Recipient string
	Subject   string
	Body      string
	CreatedAt time.Time
}

// NotificationService delivers notifications by email.
type NotificationService struct {
	// In a real system, this would hold an SMTP or transactional email
	// client (SendGrid, SES).
	logger *zap.SugaredLogger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(logger *zap.SugaredLogger) *NotificationService {
	return &NotificationService{logger: logger}
}

// SendPaymentConfirmation emails the payer that the booking payment went
// through.
func (s *NotificationService) SendPaymentConfirmation(ctx context.Context, payment *domain.Payment) error {
	notification := Notification{
		Type:      NotificationPaymentConfirmed,
		Recipient: payment.Email,
		Subject:   "Booking Confirmation",
		Body: fmt.Sprintf(
			"Your booking %s has been confirmed. Payment of %s %s received.",
			payment.BookingReference,
			domain.FormatAmount(payment.AmountCents),
			payment.Currency,
		),
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	s.logger.Infow("notification sent",
		"type", notification.Type,
		"recipient", notification.Recipient,
		"subject", notification.Subject,
	)
	return nil
}
