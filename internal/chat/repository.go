// internal/chat/repository.go

package chat

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	GetChatWithMembers(ctx context.Context, chatID string) (*Chat, error)
	FindOrCreatePrivateChat(ctx context.Context, userID, otherID string) (*Chat, error)
	ListChatsForUser(ctx context.Context, userID string) ([]*Chat, error)

	// CreateMessage stores a message with read_by seeded to the sender
	CreateMessage(ctx context.Context, chatID, senderID, content string) (*Message, error)
	ListMessages(ctx context.Context, chatID string, limit, offset int) ([]*Message, error)

	// MarkMessagesAsRead appends userID to read_by on every message in
	// the chat it has not read yet, and stamps the member's
	// last_read_at. read_by never shrinks.
	MarkMessagesAsRead(ctx context.Context, chatID, userID string) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetChatWithMembers(ctx context.Context, chatID string) (*Chat, error) {
	var chat Chat
	err := r.db.GetContext(ctx, &chat, `
        SELECT id, type, created_at FROM chats WHERE id = $1
    `, chatID)
	if err == sql.ErrNoRows {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}

	members := []*ChatMember{}
	err = r.db.SelectContext(ctx, &members, `
        SELECT chat_id, user_id, last_read_at, joined_at
        FROM chat_members WHERE chat_id = $1
        ORDER BY joined_at
    `, chatID)
	if err != nil {
		return nil, err
	}

	chat.Members = members
	return &chat, nil
}

func (r *postgresRepository) FindOrCreatePrivateChat(ctx context.Context, userID, otherID string) (*Chat, error) {
	// An existing private chat that both users belong to
	var chatID string
	err := r.db.GetContext(ctx, &chatID, `
        SELECT c.id
        FROM chats c
        JOIN chat_members m1 ON m1.chat_id = c.id AND m1.user_id = $1
        JOIN chat_members m2 ON m2.chat_id = c.id AND m2.user_id = $2
        WHERE c.type = 'private'
        LIMIT 1
    `, userID, otherID)
	if err == nil {
		return r.GetChatWithMembers(ctx, chatID)
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	chatID = uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO chats (id, type, created_at) VALUES ($1, 'private', NOW())
    `, chatID); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO chat_members (chat_id, user_id, joined_at)
        VALUES ($1, $2, NOW()), ($1, $3, NOW())
    `, chatID, userID, otherID); err != nil {
		return nil, fmt.Errorf("failed to add chat members: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetChatWithMembers(ctx, chatID)
}

func (r *postgresRepository) ListChatsForUser(ctx context.Context, userID string) ([]*Chat, error) {
	chats := []*Chat{}
	err := r.db.SelectContext(ctx, &chats, `
        SELECT c.id, c.type, c.created_at
        FROM chats c
        JOIN chat_members m ON m.chat_id = c.id
        WHERE m.user_id = $1
        ORDER BY c.created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}

	for _, chat := range chats {
		members := []*ChatMember{}
		err = r.db.SelectContext(ctx, &members, `
            SELECT chat_id, user_id, last_read_at, joined_at
            FROM chat_members WHERE chat_id = $1
            ORDER BY joined_at
        `, chat.ID)
		if err != nil {
			return nil, err
		}
		chat.Members = members
	}

	return chats, nil
}

const messageSelect = `
    SELECT m.id, m.chat_id, m.sender_id, m.content, m.read_by, m.created_at,
           COALESCE(NULLIF(TRIM(CONCAT(p.first_name, ' ', p.last_name)), ''), u.username) AS sender_name,
           u.username AS sender_username
    FROM messages m
    JOIN users u ON u.id = m.sender_id
    LEFT JOIN profiles p ON p.user_id = m.sender_id
`

func (r *postgresRepository) CreateMessage(ctx context.Context, chatID, senderID, content string) (*Message, error) {
	messageID := uuid.New().String()

	// The sender has read their own message by definition. read_by is
	// bound as its own text[] parameter; reusing the sender_id
	// placeholder inside ARRAY[] would pin it to uuid[].
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO messages (id, chat_id, sender_id, content, read_by, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
    `, messageID, chatID, senderID, content, pq.Array([]string{senderID}))
	if err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	var message Message
	if err := r.db.GetContext(ctx, &message, messageSelect+" WHERE m.id = $1", messageID); err != nil {
		return nil, err
	}

	return &message, nil
}

func (r *postgresRepository) ListMessages(ctx context.Context, chatID string, limit, offset int) ([]*Message, error) {
	messages := []*Message{}
	err := r.db.SelectContext(ctx, &messages, messageSelect+`
        WHERE m.chat_id = $1
        ORDER BY m.created_at ASC
        LIMIT $2 OFFSET $3
    `, chatID, limit, offset)
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *postgresRepository) MarkMessagesAsRead(ctx context.Context, chatID, userID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
        UPDATE messages
        SET read_by = array_append(read_by, $2)
        WHERE chat_id = $1 AND NOT (read_by @> ARRAY[$2])
    `, chatID, userID); err != nil {
		return fmt.Errorf("failed to mark messages as read: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
        UPDATE chat_members
        SET last_read_at = NOW()
        WHERE chat_id = $1 AND user_id = $2
    `, chatID, userID); err != nil {
		return fmt.Errorf("failed to stamp last read: %w", err)
	}

	return tx.Commit()
}
