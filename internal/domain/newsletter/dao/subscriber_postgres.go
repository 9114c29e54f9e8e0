package dao

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/athena-eo/observatory/internal/domain/newsletter/entity"
)

// SubscriberPostgres implements the subscriber repository for PostgreSQL
type SubscriberPostgres struct {
	pool *pgxpool.Pool
}

// NewSubscriberPostgres creates a new PostgreSQL subscriber repository
func NewSubscriberPostgres(pool *pgxpool.Pool) *SubscriberPostgres {
	return &SubscriberPostgres{pool: pool}
}

// Subscribe inserts or reactivates an address. Active subscribers keep their original date.
func (r *SubscriberPostgres) Subscribe(ctx context.Context, email string) (*entity.Subscriber, error) {
	query := `
		INSERT INTO newsletter_subscribers (email, subscribed_at, active)
		VALUES ($1, NOW(), TRUE)
		ON CONFLICT (email) DO UPDATE SET
			subscribed_at = CASE WHEN newsletter_subscribers.active
				THEN newsletter_subscribers.subscribed_at ELSE NOW() END,
			active = TRUE
		RETURNING id::text, email, subscribed_at, active
	`

	var sub entity.Subscriber
	err := r.pool.QueryRow(ctx, query, email).Scan(&sub.ID, &sub.Email, &sub.SubscribedAt, &sub.Active)
	if err != nil {
		return nil, fmt.Errorf("upserting subscriber: %w", err)
	}
	return &sub, nil
}

// Unsubscribe deactivates an address
func (r *SubscriberPostgres) Unsubscribe(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, `UPDATE newsletter_subscribers SET active = FALSE WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("deactivating subscriber: %w", err)
	}
	return nil
}

// List retrieves subscribers, newest first
func (r *SubscriberPostgres) List(ctx context.Context, activeOnly bool) ([]entity.Subscriber, error) {
	query := `
		SELECT id::text, email, subscribed_at, active
		FROM newsletter_subscribers
		WHERE active OR NOT $1
		ORDER BY subscribed_at DESC
	`

	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing subscribers: %w", err)
	}
	defer rows.Close()

	var subs []entity.Subscriber
	for rows.Next() {
		var s entity.Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.SubscribedAt, &s.Active); err != nil {
			return nil, fmt.Errorf("scanning subscriber: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subscribers: %w", err)
	}
	return subs, nil
}
