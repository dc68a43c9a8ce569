// internal/chat/service.go

package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/wandermate/wandermate-backend/internal/notifications"
)

// Dispatcher fans realtime events out to subscribed clients. The hub
// implements it; dispatch failures are logged, never returned, so the
// durable write is the only thing that can fail a send.
type Dispatcher interface {
	Trigger(channel, event string, payload interface{}) error
	IsOnline(userID string) bool
}

type Service interface {
	// SendMessage persists a message and fans it out. tempID is the
	// client correlation id echoed on the realtime event.
	SendMessage(ctx context.Context, chatID, senderID, content, tempID, transport string) (*Message, error)

	// GetChat returns the chat with recent messages and marks them
	// read for the caller
	GetChat(ctx context.Context, chatID, userID string, limit, offset int) (*Chat, []*Message, error)

	// FindOrCreateDirectChat opens (or returns) the private chat
	// between two users
	FindOrCreateDirectChat(ctx context.Context, userID, otherID string) (*Chat, error)

	ListChats(ctx context.Context, userID string) ([]*Chat, error)

	// VerifyMembership reports ErrNotMember / ErrChatNotFound when the
	// user cannot access the chat
	VerifyMembership(ctx context.Context, chatID, userID string) error
}

type service struct {
	repo       Repository
	dispatcher Dispatcher
	push       notifications.PushSender
}

func NewService(repo Repository, dispatcher Dispatcher, push notifications.PushSender) Service {
	return &service{repo: repo, dispatcher: dispatcher, push: push}
}

func (s *service) SendMessage(ctx context.Context, chatID, senderID, content, tempID, transport string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	chat, err := s.repo.GetChatWithMembers(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsMember(senderID) {
		return nil, ErrNotMember
	}

	message, err := s.repo.CreateMessage(ctx, chatID, senderID, content)
	if err != nil {
		return nil, err
	}
	message.TempID = tempID

	RecordMessageSent(transport)

	// Realtime fan-out is best effort; the message is already durable
	if err := s.dispatcher.Trigger(ChatChannel(chatID), EventNewMessage, message); err != nil {
		log.Printf("Failed to dispatch message %s: %v", message.ID, err)
	}

	s.notifyOfflineMembers(ctx, chat, message)

	return message, nil
}

// notifyOfflineMembers pushes to members without a live socket
func (s *service) notifyOfflineMembers(ctx context.Context, chat *Chat, message *Message) {
	offline := []string{}
	for _, userID := range chat.OtherMemberIDs(message.SenderID) {
		if !s.dispatcher.IsOnline(userID) {
			offline = append(offline, userID)
		}
	}
	if len(offline) == 0 {
		return
	}

	notification := &notifications.PushNotification{
		Title:    message.SenderName,
		Body:     truncate(message.Content, 140),
		DeepLink: fmt.Sprintf("wandermate://chats/%s", chat.ID),
	}

	if err := s.push.Send(ctx, offline, notification); err != nil {
		log.Printf("Failed to push message %s: %v", message.ID, err)
	}
}

func (s *service) GetChat(ctx context.Context, chatID, userID string, limit, offset int) (*Chat, []*Message, error) {
	chat, err := s.repo.GetChatWithMembers(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	if !chat.IsMember(userID) {
		return nil, nil, ErrNotMember
	}

	messages, err := s.repo.ListMessages(ctx, chatID, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	// Opening a chat reads it
	if err := s.repo.MarkMessagesAsRead(ctx, chatID, userID); err != nil {
		log.Printf("Failed to mark chat %s read: %v", chatID, err)
	}

	return chat, messages, nil
}

func (s *service) FindOrCreateDirectChat(ctx context.Context, userID, otherID string) (*Chat, error) {
	if userID == otherID {
		return nil, ErrSelfChat
	}
	return s.repo.FindOrCreatePrivateChat(ctx, userID, otherID)
}

func (s *service) ListChats(ctx context.Context, userID string) ([]*Chat, error) {
	return s.repo.ListChatsForUser(ctx, userID)
}

func (s *service) VerifyMembership(ctx context.Context, chatID, userID string) error {
	chat, err := s.repo.GetChatWithMembers(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsMember(userID) {
		return ErrNotMember
	}
	return nil
}

// truncate shortens s to max runes, never splitting a multi-byte
// character
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
