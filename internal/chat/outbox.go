// internal/chat/outbox.go
// Client-side optimistic delivery state, kept server-side for clients
// that resume sessions. A composed message enters the outbox under a
// temp id, moves to sending when handed to a transport, and leaves on
// confirmation. Failures keep the composed text so nothing typed is
// ever lost.

package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type OutboxState string

const (
	StateComposing OutboxState = "composing"
	StateSending   OutboxState = "sending"
	StateConfirmed OutboxState = "confirmed"
	StateFailed    OutboxState = "failed"
)

// OutboxEntry is one in-flight message
type OutboxEntry struct {
	ID        string      `json:"id"` // temp id
	ChatID    string      `json:"chat_id"`
	Content   string      `json:"content"`
	State     OutboxState `json:"state"`
	LastError string      `json:"last_error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Outbox tracks in-flight messages per user session
type Outbox struct {
	mu      sync.Mutex
	entries []*OutboxEntry
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

// Compose adds a new entry and returns it with a fresh temp id
func (o *Outbox) Compose(chatID, content string) *OutboxEntry {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry := &OutboxEntry{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		Content:   content,
		State:     StateComposing,
		CreatedAt: time.Now(),
	}
	o.entries = append(o.entries, entry)
	return entry
}

// MarkSending flags an entry as handed to a transport
func (o *Outbox) MarkSending(tempID string) bool {
	return o.transition(tempID, StateSending, "")
}

// Confirm removes a delivered entry
func (o *Outbox) Confirm(tempID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, entry := range o.entries {
		if entry.ID == tempID {
			o.entries = append(o.entries[:i], o.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Fail marks an entry failed; the composed content stays available
// for retry
func (o *Outbox) Fail(tempID, reason string) bool {
	return o.transition(tempID, StateFailed, reason)
}

func (o *Outbox) transition(tempID string, state OutboxState, lastError string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, entry := range o.entries {
		if entry.ID == tempID {
			entry.State = state
			entry.LastError = lastError
			return true
		}
	}
	return false
}

// Pending returns the in-flight entries for a chat, oldest first
func (o *Outbox) Pending(chatID string) []*OutboxEntry {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := []*OutboxEntry{}
	for _, entry := range o.entries {
		if entry.ChatID == chatID {
			copied := *entry
			out = append(out, &copied)
		}
	}
	return out
}

// Reconcile merges an incoming message into a rendered message list.
// The optimistic entry whose id matches the incoming temp id is
// dropped; if the incoming id is already present the list is returned
// as-is (minus the optimistic entry), so an HTTP fallback response and
// the realtime echo of the same message collapse to one entry.
func Reconcile(list []*Message, incoming *Message) []*Message {
	filtered := make([]*Message, 0, len(list)+1)
	for _, m := range list {
		if incoming.TempID != "" && m.ID == incoming.TempID {
			continue
		}
		filtered = append(filtered, m)
	}

	for _, m := range filtered {
		if m.ID == incoming.ID {
			return filtered
		}
	}

	return append(filtered, incoming)
}
