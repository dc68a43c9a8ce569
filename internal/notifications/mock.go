// internal/notifications/mock.go

package notifications

import (
	"context"
	"log"
	"sync"
)

// MockSender logs pushes instead of delivering them; used in
// development and tests
type MockSender struct {
	mu   sync.Mutex
	sent []MockDelivery
}

type MockDelivery struct {
	UserIDs      []string
	Notification PushNotification
}

func NewMockSender() *MockSender {
	return &MockSender{}
}

func (s *MockSender) Send(_ context.Context, userIDs []string, notification *PushNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, MockDelivery{UserIDs: userIDs, Notification: *notification})
	log.Printf("📱 Mock push to %d users: %s — %s", len(userIDs), notification.Title, notification.Body)
	return nil
}

// Sent returns a copy of everything delivered so far
func (s *MockSender) Sent() []MockDelivery {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]MockDelivery, len(s.sent))
	copy(out, s.sent)
	return out
}
