package notifications

import "context"

type Recipient struct {
	UserID string
	Email  string
}

type StoreAPI interface {
	CreateNotification(ctx context.Context, userID, ntype, message, actionURL string) error
	RecipientsByRoles(ctx context.Context, roles []string) ([]Recipient, error)
	ListNotifications(ctx context.Context, userID string, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}
