package dao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/athena-eo/observatory/internal/domain/election/entity"
)

// Per-state document kinds stored in state_documents
const (
	kindStats      = "stats"
	kindLGA        = "lga"
	kindHighlights = "highlights"
)

// ElectionPostgres implements the election repository for PostgreSQL
type ElectionPostgres struct {
	pool *pgxpool.Pool
}

// NewElectionPostgres creates a new PostgreSQL election repository
func NewElectionPostgres(pool *pgxpool.Pool) *ElectionPostgres {
	return &ElectionPostgres{pool: pool}
}

// ListStates retrieves all states in display order
func (r *ElectionPostgres) ListStates(ctx context.Context) ([]entity.State, error) {
	query := `
		SELECT id::text, name, slug, region, election_type, status, election_date, updated_at
		FROM election_states
		ORDER BY position, name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing states: %w", err)
	}
	defer rows.Close()

	var states []entity.State
	for rows.Next() {
		st, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating states: %w", err)
	}

	return states, nil
}

// GetState retrieves a state by slug
func (r *ElectionPostgres) GetState(ctx context.Context, slug string) (*entity.State, error) {
	query := `
		SELECT id::text, name, slug, region, election_type, status, election_date, updated_at
		FROM election_states
		WHERE slug = $1
	`

	st, err := scanState(r.pool.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// SaveStates replaces all states in a single transaction
func (r *ElectionPostgres) SaveStates(ctx context.Context, states []entity.State) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM election_states"); err != nil {
		return fmt.Errorf("clearing states: %w", err)
	}

	insert := `
		INSERT INTO election_states (id, name, slug, region, election_type, status, election_date, position, updated_at)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for i, st := range states {
		updatedAt := time.Now()
		if st.UpdatedAt != nil {
			updatedAt = *st.UpdatedAt
		}
		_, err := tx.Exec(ctx, insert,
			st.ID,
			st.Name,
			st.Slug,
			st.Region,
			st.ElectionType,
			st.Status,
			st.ElectionDate,
			i,
			updatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting state %s: %w", st.Slug, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing states: %w", err)
	}
	return nil
}

// GetStats retrieves candidate and polling stats
func (r *ElectionPostgres) GetStats(ctx context.Context, slug string) (*entity.StateStats, error) {
	var stats entity.StateStats
	found, err := r.getDocument(ctx, slug, kindStats, &stats)
	if err != nil || !found {
		return nil, err
	}
	return &stats, nil
}

// SaveStats stores candidate and polling stats
func (r *ElectionPostgres) SaveStats(ctx context.Context, slug string, stats *entity.StateStats) error {
	return r.saveDocument(ctx, slug, kindStats, stats)
}

// GetLGABreakdown retrieves the LGA breakdown
func (r *ElectionPostgres) GetLGABreakdown(ctx context.Context, slug string) (*entity.LGABreakdown, error) {
	var lga entity.LGABreakdown
	found, err := r.getDocument(ctx, slug, kindLGA, &lga)
	if err != nil || !found {
		return nil, err
	}
	return &lga, nil
}

// SaveLGABreakdown stores the LGA breakdown
func (r *ElectionPostgres) SaveLGABreakdown(ctx context.Context, slug string, lga *entity.LGABreakdown) error {
	return r.saveDocument(ctx, slug, kindLGA, lga)
}

// GetHighlights retrieves the highlight cards
func (r *ElectionPostgres) GetHighlights(ctx context.Context, slug string) (*entity.Highlights, error) {
	var h entity.Highlights
	found, err := r.getDocument(ctx, slug, kindHighlights, &h)
	if err != nil || !found {
		return nil, err
	}
	return &h, nil
}

// SaveHighlights stores the highlight cards
func (r *ElectionPostgres) SaveHighlights(ctx context.Context, slug string, h *entity.Highlights) error {
	return r.saveDocument(ctx, slug, kindHighlights, h)
}

func (r *ElectionPostgres) getDocument(ctx context.Context, slug, kind string, out interface{}) (bool, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		"SELECT payload FROM state_documents WHERE slug = $1 AND kind = $2",
		slug, kind,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("getting %s document: %w", kind, err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("decoding %s document: %w", kind, err)
	}
	return true, nil
}

func (r *ElectionPostgres) saveDocument(ctx context.Context, slug, kind string, doc interface{}) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s document: %w", kind, err)
	}

	query := `
		INSERT INTO state_documents (slug, kind, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug, kind) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.pool.Exec(ctx, query, slug, kind, payload, time.Now()); err != nil {
		return fmt.Errorf("storing %s document: %w", kind, err)
	}
	return nil
}

func scanState(row pgx.Row) (*entity.State, error) {
	var st entity.State
	var updatedAt time.Time
	err := row.Scan(
		&st.ID,
		&st.Name,
		&st.Slug,
		&st.Region,
		&st.ElectionType,
		&st.Status,
		&st.ElectionDate,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning state: %w", err)
	}
	st.UpdatedAt = &updatedAt
	return &st, nil
}
