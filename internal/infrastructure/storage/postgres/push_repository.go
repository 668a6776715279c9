package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/push"
)

type PushRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPushRepository(storage *Storage, log *slog.Logger) *PushRepository {
	return &PushRepository{
		pool: storage.Pool(),
		log:  log.With("component", "push_repository"),
	}
}

func (r *PushRepository) Save(ctx context.Context, sub *push.Subscription) error {
	const query = `
		INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (endpoint) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    p256dh = EXCLUDED.p256dh,
		    auth = EXCLUDED.auth
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		sub.UserID, sub.Endpoint, sub.P256dh, sub.Auth,
	).Scan(&sub.ID, &sub.CreatedAt)

	if err != nil {
		r.log.Error("failed to save subscription", "user_id", sub.UserID, "error", err)
		return fmt.Errorf("save subscription: %w", err)
	}

	return nil
}

func (r *PushRepository) List(ctx context.Context) ([]push.Subscription, error) {
	const query = `
		SELECT id, user_id, endpoint, p256dh, auth, created_at
		FROM push_subscriptions`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list subscriptions", "error", err)
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []push.Subscription
	for rows.Next() {
		var sub push.Subscription
		err := rows.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

func (r *PushRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	const query = `DELETE FROM push_subscriptions WHERE endpoint = $1`

	if _, err := r.pool.Exec(ctx, query, endpoint); err != nil {
		r.log.Error("failed to delete subscription", "error", err)
		return fmt.Errorf("delete subscription: %w", err)
	}

	return nil
}
