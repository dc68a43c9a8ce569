// internal/notifications/models.go

package notifications

import "context"

// PushNotification is a user-facing push payload
type PushNotification struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	DeepLink string `json:"deep_link,omitempty"`
}

// PushSender delivers a push notification to a set of users. Token
// resolution is the implementation's problem; callers only know user
// ids.
type PushSender interface {
	Send(ctx context.Context, userIDs []string, notification *PushNotification) error
}

// DeviceToken is a registered push target for a user's device
type DeviceToken struct {
	ID        string `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	Token     string `json:"token" db:"token"`
	Platform  string `json:"platform" db:"platform"`
	CreatedAt string `json:"created_at" db:"created_at"`
}
