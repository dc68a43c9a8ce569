// internal/notifications/repository.go

package notifications

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type TokenRepository interface {
	// GetTokensForUsers returns every registered device token for the
	// given users
	GetTokensForUsers(ctx context.Context, userIDs []string) ([]string, error)

	// SaveToken registers a device token, replacing an existing row
	// for the same token
	SaveToken(ctx context.Context, userID, token, platform string) error

	// DeleteToken removes a device token
	DeleteToken(ctx context.Context, userID, token string) error
}

type postgresTokenRepository struct {
	db *sqlx.DB
}

func NewPostgresTokenRepository(db *sqlx.DB) TokenRepository {
	return &postgresTokenRepository{db: db}
}

func (r *postgresTokenRepository) GetTokensForUsers(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return []string{}, nil
	}

	tokens := []string{}
	err := r.db.SelectContext(ctx, &tokens, `
        SELECT token FROM device_tokens WHERE user_id = ANY($1)
    `, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}

	return tokens, nil
}

func (r *postgresTokenRepository) SaveToken(ctx context.Context, userID, token, platform string) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO device_tokens (id, user_id, token, platform, created_at)
        VALUES (gen_random_uuid(), $1, $2, $3, NOW())
        ON CONFLICT (token) DO UPDATE SET user_id = $1, platform = $3
    `, userID, token, platform)
	return err
}

func (r *postgresTokenRepository) DeleteToken(ctx context.Context, userID, token string) error {
	_, err := r.db.ExecContext(ctx, `
        DELETE FROM device_tokens WHERE user_id = $1 AND token = $2
    `, userID, token)
	return err
}
