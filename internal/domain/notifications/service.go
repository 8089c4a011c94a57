package notifications

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Service fans a message out to every user holding one of the target roles:
// an in-app notification always, an email when a mailer is configured. It
// satisfies the approval workflow's Notifier contract; delivery problems are
// logged and swallowed there, persistence problems surface here.
type Service struct {
	store       StoreAPI
	Mailer      Mailer
	DefaultFrom string
}

func New(store StoreAPI, mailer Mailer, defaultFrom string) *Service {
	if defaultFrom == "" {
		defaultFrom = "no-reply@example.com"
	}
	return &Service{store: store, Mailer: mailer, DefaultFrom: defaultFrom}
}

func (s *Service) Notify(ctx context.Context, message string, roles []string, actionURL string) error {
	return s.Broadcast(ctx, TypeApprovalUpdate, message, roles, actionURL)
}

// Broadcast delivers a typed message to every active user holding one of the
// roles.
func (s *Service) Broadcast(ctx context.Context, ntype, message string, roles []string, actionURL string) error {
	recipients, err := s.store.RecipientsByRoles(ctx, roles)
	if err != nil {
		return err
	}
	for _, recipient := range recipients {
		if err := s.store.CreateNotification(ctx, recipient.UserID, ntype, message, actionURL); err != nil {
			return err
		}
		s.email(ctx, recipient, message)
	}
	return nil
}

// Create stores a single-user notification outside the role fan-out path.
func (s *Service) Create(ctx context.Context, userID, ntype, message, actionURL string) error {
	return s.store.CreateNotification(ctx, userID, ntype, message, actionURL)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, userID, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}

func (s *Service) email(ctx context.Context, recipient Recipient, message string) {
	if s.Mailer == nil || recipient.Email == "" {
		return
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, recipient.Email, "Performance evaluation update", message); err != nil {
		slog.Warn("notification email send failed", "user", recipient.UserID, "err", err)
	}
}
