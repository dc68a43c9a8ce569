// internal/notifications/fcm.go
// Firebase Cloud Messaging push sender.

package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type fcmSender struct {
	client *messaging.Client
	tokens TokenRepository
}

// NewFCMSender builds a PushSender backed by FCM. Credentials come
// from a service-account file path or raw JSON.
func NewFCMSender(ctx context.Context, credentialsPath, credentialsJSON string, tokens TokenRepository) (PushSender, error) {
	var opt option.ClientOption
	switch {
	case credentialsPath != "":
		opt = option.WithCredentialsFile(credentialsPath)
	case credentialsJSON != "":
		opt = option.WithCredentialsJSON([]byte(credentialsJSON))
	default:
		return nil, errors.New("firebase credentials not configured")
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &fcmSender{client: client, tokens: tokens}, nil
}

func (s *fcmSender) Send(ctx context.Context, userIDs []string, notification *PushNotification) error {
	deviceTokens, err := s.tokens.GetTokensForUsers(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("failed to resolve device tokens: %w", err)
	}
	if len(deviceTokens) == 0 {
		return nil
	}

	data := map[string]string{}
	if notification.DeepLink != "" {
		data["deepLink"] = notification.DeepLink
	}

	message := &messaging.MulticastMessage{
		Tokens: deviceTokens,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: data,
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send push notifications: %w", err)
	}

	if response.FailureCount > 0 {
		log.Printf("Failed to deliver %d of %d push notifications",
			response.FailureCount, len(deviceTokens))
	}

	return nil
}
