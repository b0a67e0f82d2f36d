package services

import (
	"context"
	"fmt"

	"github.com/Uday261104/lms-v2/model"
)

// ActionFinder looks up a notification action template by id.
type ActionFinder interface {
	FindAction(ctx context.Context, id int64) (*model.NotificationAction, error)
}

// NotificationService resolves action templates and dispatches their email
// payload. Fire-and-forget semantics: no retry, no delivery confirmation.
type NotificationService struct {
	actions ActionFinder
	mailer  Mailer
}

// NewNotificationService creates a new notification service
func NewNotificationService(actions ActionFinder, mailer Mailer) *NotificationService {
	return &NotificationService{
		actions: actions,
		mailer:  mailer,
	}
}

// Dispatch looks up the action by id, emails the recipient when the template
// carries both email fields, and returns the plain message text. A transport
// failure is surfaced, not masked.
func (s *NotificationService) Dispatch(ctx context.Context, actionID int64, recipient string) (string, error) {
	action, err := s.actions.FindAction(ctx, actionID)
	if err != nil {
		return "", err
	}

	if action.HasEmail() {
		if err := s.mailer.Send(recipient, action.EmailSubject, action.EmailBody); err != nil {
			return "", fmt.Errorf("send action email: %w", err)
		}
	}

	return action.Message, nil
}
