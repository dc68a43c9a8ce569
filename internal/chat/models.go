// internal/chat/models.go

package chat

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	ErrNotMember    = errors.New("user is not a member of this chat")
	ErrEmptyMessage = errors.New("message content cannot be empty")
	ErrSelfChat     = errors.New("cannot open a chat with yourself")
)

// Chat is a private conversation between two users
type Chat struct {
	ID        string        `json:"id" db:"id"`
	Type      string        `json:"type" db:"type"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	Members   []*ChatMember `json:"members,omitempty"`
}

// ChatMember links a user to a chat and tracks their read position
type ChatMember struct {
	ChatID     string     `json:"chat_id" db:"chat_id"`
	UserID     string     `json:"user_id" db:"user_id"`
	LastReadAt *time.Time `json:"last_read_at,omitempty" db:"last_read_at"`
	JoinedAt   time.Time  `json:"joined_at" db:"joined_at"`
}

// Message is a durable chat message. TempID is the client-side
// correlation id; it travels on realtime events but is never stored.
// ReadBy only ever grows.
type Message struct {
	ID             string         `json:"id" db:"id"`
	TempID         string         `json:"tempId,omitempty" db:"-"`
	ChatID         string         `json:"chat_id" db:"chat_id"`
	SenderID       string         `json:"sender_id" db:"sender_id"`
	SenderName     string         `json:"sender_name,omitempty" db:"sender_name"`
	SenderUsername string         `json:"sender_username,omitempty" db:"sender_username"`
	Content        string         `json:"content" db:"content"`
	ReadBy         pq.StringArray `json:"read_by" db:"read_by"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// IsMember reports whether userID belongs to the chat
func (c *Chat) IsMember(userID string) bool {
	for _, m := range c.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// OtherMemberIDs returns every member id except the given one
func (c *Chat) OtherMemberIDs(userID string) []string {
	others := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		if m.UserID != userID {
			others = append(others, m.UserID)
		}
	}
	return others
}

// Event is the realtime frame pushed to subscribed clients
type Event struct {
	Channel   string      `json:"channel"`
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Realtime event names
const (
	EventNewMessage = "new-message"
	EventError      = "error"
	EventSubscribed = "subscribed"
)

// ChatChannel names the realtime channel for a chat
func ChatChannel(chatID string) string {
	return "chat-" + chatID
}

// inboundFrame is what clients send over the socket
type inboundFrame struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Inbound frame types
const (
	frameSubscribe   = "subscribe"
	frameUnsubscribe = "unsubscribe"
	frameSendMessage = "send-message"
)

// sendMessagePayload is the data of a send-message frame
type sendMessagePayload struct {
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
	TempID  string `json:"tempId,omitempty"`
}
