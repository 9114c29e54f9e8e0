package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/athena-eo/observatory/internal/domain/analytics/entity"
)

// EventPostgres implements the event repository for PostgreSQL
type EventPostgres struct {
	pool *pgxpool.Pool
}

// NewEventPostgres creates a new PostgreSQL event repository
func NewEventPostgres(pool *pgxpool.Pool) *EventPostgres {
	return &EventPostgres{pool: pool}
}

// Track inserts a page view
func (r *EventPostgres) Track(ctx context.Context, e *entity.Event) error {
	query := `
		INSERT INTO visitor_events (visitor_id, page, device_type, browser, screen_size, referrer, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text
	`
	err := r.pool.QueryRow(ctx, query,
		e.VisitorID,
		e.Page,
		e.DeviceType,
		e.Browser,
		e.ScreenSize,
		e.Referrer,
		e.Timestamp,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Stats loads the events of the window and aggregates them
func (r *EventPostgres) Stats(ctx context.Context, days int, now time.Time) (*entity.Stats, error) {
	since := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, -(days - 1))

	query := `
		SELECT visitor_id, page, device_type, browser, occurred_at
		FROM visitor_events
		WHERE occurred_at >= $1
	`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []entity.Event
	for rows.Next() {
		var e entity.Event
		if err := rows.Scan(&e.VisitorID, &e.Page, &e.DeviceType, &e.Browser, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	stats := entity.Aggregate(events, days, now)
	return &stats, nil
}

// DeleteBefore removes events older than before
func (r *EventPostgres) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM visitor_events WHERE occurred_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("deleting events: %w", err)
	}
	return result.RowsAffected(), nil
}
