package chat

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandermate/wandermate-backend/internal/notifications"
)

// fakeRepository keeps chats and messages in memory
type fakeRepository struct {
	chats    map[string]*Chat
	messages []*Message
	readerBy map[string][]string // chatID -> users who marked read
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		chats:    make(map[string]*Chat),
		readerBy: make(map[string][]string),
	}
}

func (r *fakeRepository) addChat(chatID string, memberIDs ...string) {
	chat := &Chat{ID: chatID, Type: "private", CreatedAt: time.Now()}
	for _, id := range memberIDs {
		chat.Members = append(chat.Members, &ChatMember{ChatID: chatID, UserID: id})
	}
	r.chats[chatID] = chat
}

func (r *fakeRepository) GetChatWithMembers(_ context.Context, chatID string) (*Chat, error) {
	chat, ok := r.chats[chatID]
	if !ok {
		return nil, ErrChatNotFound
	}
	return chat, nil
}

func (r *fakeRepository) FindOrCreatePrivateChat(_ context.Context, userID, otherID string) (*Chat, error) {
	for _, chat := range r.chats {
		if chat.IsMember(userID) && chat.IsMember(otherID) {
			return chat, nil
		}
	}
	r.addChat("new-chat", userID, otherID)
	return r.chats["new-chat"], nil
}

func (r *fakeRepository) ListChatsForUser(_ context.Context, userID string) ([]*Chat, error) {
	out := []*Chat{}
	for _, chat := range r.chats {
		if chat.IsMember(userID) {
			out = append(out, chat)
		}
	}
	return out, nil
}

func (r *fakeRepository) CreateMessage(_ context.Context, chatID, senderID, content string) (*Message, error) {
	message := &Message{
		ID:         "m-" + senderID,
		ChatID:     chatID,
		SenderID:   senderID,
		SenderName: "Sender " + senderID,
		Content:    content,
		ReadBy:     []string{senderID},
		CreatedAt:  time.Now(),
	}
	r.messages = append(r.messages, message)
	return message, nil
}

func (r *fakeRepository) ListMessages(_ context.Context, chatID string, _, _ int) ([]*Message, error) {
	out := []*Message{}
	for _, m := range r.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeRepository) MarkMessagesAsRead(_ context.Context, chatID, userID string) error {
	r.readerBy[chatID] = append(r.readerBy[chatID], userID)
	return nil
}

// fakeDispatcher records triggered events and simulates presence
type fakeDispatcher struct {
	events []Event
	online map[string]bool
}

func newFakeDispatcher(online ...string) *fakeDispatcher {
	d := &fakeDispatcher{online: make(map[string]bool)}
	for _, id := range online {
		d.online[id] = true
	}
	return d
}

func (d *fakeDispatcher) Trigger(channel, event string, payload interface{}) error {
	d.events = append(d.events, Event{Channel: channel, Event: event, Payload: payload})
	return nil
}

func (d *fakeDispatcher) IsOnline(userID string) bool {
	return d.online[userID]
}

func TestSendMessageDispatchesWithTempID(t *testing.T) {
	repo := newFakeRepository()
	repo.addChat("c1", "alice", "bob")
	dispatcher := newFakeDispatcher("alice", "bob")
	push := notifications.NewMockSender()

	svc := NewService(repo, dispatcher, push)

	message, err := svc.SendMessage(context.Background(), "c1", "alice", "hey!", "temp-42", "websocket")
	require.NoError(t, err)

	assert.Equal(t, "temp-42", message.TempID)
	assert.Equal(t, []string{"alice"}, []string(message.ReadBy))

	require.Len(t, dispatcher.events, 1)
	event := dispatcher.events[0]
	assert.Equal(t, "chat-c1", event.Channel)
	assert.Equal(t, EventNewMessage, event.Event)
	assert.Equal(t, "temp-42", event.Payload.(*Message).TempID)

	// Everyone online: no push
	assert.Empty(t, push.Sent())
}

func TestSendMessagePushesToOfflineMembers(t *testing.T) {
	repo := newFakeRepository()
	repo.addChat("c1", "alice", "bob")
	dispatcher := newFakeDispatcher("alice") // bob is offline
	push := notifications.NewMockSender()

	svc := NewService(repo, dispatcher, push)

	_, err := svc.SendMessage(context.Background(), "c1", "alice", "hey!", "", "http")
	require.NoError(t, err)

	sent := push.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"bob"}, sent[0].UserIDs)
	assert.Equal(t, "Sender alice", sent[0].Notification.Title)
	assert.Equal(t, "wandermate://chats/c1", sent[0].Notification.DeepLink)
}

func TestSendMessageRejectsNonMembers(t *testing.T) {
	repo := newFakeRepository()
	repo.addChat("c1", "alice", "bob")

	svc := NewService(repo, newFakeDispatcher(), notifications.NewMockSender())

	_, err := svc.SendMessage(context.Background(), "c1", "mallory", "hi", "", "http")
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	repo := newFakeRepository()
	repo.addChat("c1", "alice", "bob")

	svc := NewService(repo, newFakeDispatcher(), notifications.NewMockSender())

	_, err := svc.SendMessage(context.Background(), "c1", "alice", "   ", "", "http")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestGetChatMarksRead(t *testing.T) {
	repo := newFakeRepository()
	repo.addChat("c1", "alice", "bob")
	repo.CreateMessage(context.Background(), "c1", "alice", "hello")

	svc := NewService(repo, newFakeDispatcher(), notifications.NewMockSender())

	chat, messages, err := svc.GetChat(context.Background(), "c1", "bob", 50, 0)
	require.NoError(t, err)

	assert.Equal(t, "c1", chat.ID)
	assert.Len(t, messages, 1)
	assert.Equal(t, []string{"bob"}, repo.readerBy["c1"])
}

func TestGetChatRejectsNonMembers(t *testing.T) {
	repo := newFakeRepository()
	repo.addChat("c1", "alice", "bob")

	svc := NewService(repo, newFakeDispatcher(), notifications.NewMockSender())

	_, _, err := svc.GetChat(context.Background(), "c1", "mallory", 50, 0)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestFindOrCreateDirectChatRejectsSelf(t *testing.T) {
	svc := NewService(newFakeRepository(), newFakeDispatcher(), notifications.NewMockSender())

	_, err := svc.FindOrCreateDirectChat(context.Background(), "alice", "alice")
	assert.ErrorIs(t, err, ErrSelfChat)
}

func TestVerifyMembership(t *testing.T) {
	repo := newFakeRepository()
	repo.addChat("c1", "alice", "bob")

	svc := NewService(repo, newFakeDispatcher(), notifications.NewMockSender())

	assert.NoError(t, svc.VerifyMembership(context.Background(), "c1", "alice"))
	assert.ErrorIs(t, svc.VerifyMembership(context.Background(), "c1", "mallory"), ErrNotMember)
	assert.ErrorIs(t, svc.VerifyMembership(context.Background(), "missing", "alice"), ErrChatNotFound)
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	short := "héllo"
	assert.Equal(t, short, truncate(short, 140))

	long := strings.Repeat("é", 150)
	got := truncate(long, 140)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 140, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("é", 139)+"…", got)
}
