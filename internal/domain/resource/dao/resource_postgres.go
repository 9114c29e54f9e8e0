package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/athena-eo/observatory/internal/domain/resource/entity"
)

const resourceColumns = `id::text, title, summary, url, file_name, file_size, content_type, storage_key, preview_text, created_at, updated_at`

// ResourcePostgres implements the resource repository for PostgreSQL
type ResourcePostgres struct {
	pool *pgxpool.Pool
}

// NewResourcePostgres creates a new PostgreSQL resource repository
func NewResourcePostgres(pool *pgxpool.Pool) *ResourcePostgres {
	return &ResourcePostgres{pool: pool}
}

// List retrieves all resources, newest first
func (r *ResourcePostgres) List(ctx context.Context) ([]entity.Resource, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+resourceColumns+` FROM pdf_resources ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	var list []entity.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning resource: %w", err)
		}
		list = append(list, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resources: %w", err)
	}
	return list, nil
}

// Get retrieves a resource by ID
func (r *ResourcePostgres) Get(ctx context.Context, id string) (*entity.Resource, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resourceColumns+` FROM pdf_resources WHERE id::text = $1`, id)
	res, err := scanResource(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting resource: %w", err)
	}
	return res, nil
}

// Create inserts a new resource
func (r *ResourcePostgres) Create(ctx context.Context, res *entity.Resource) error {
	query := `
		INSERT INTO pdf_resources (title, summary, url, file_name, file_size, content_type, storage_key, preview_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id::text, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		res.Title,
		res.Summary,
		res.URL,
		res.FileName,
		res.FileSize,
		res.ContentType,
		res.StorageKey,
		res.PreviewText,
		res.CreatedAt,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating resource: %w", err)
	}
	return nil
}

// Update updates resource metadata
func (r *ResourcePostgres) Update(ctx context.Context, res *entity.Resource) error {
	query := `
		UPDATE pdf_resources
		SET title = $2, summary = $3, url = $4, preview_text = $5, updated_at = $6
		WHERE id::text = $1
	`
	result, err := r.pool.Exec(ctx, query, res.ID, res.Title, res.Summary, res.URL, res.PreviewText, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating resource: %w", err)
	}
	if result.RowsAffected() == 0 {
		return entity.ErrResourceNotFound
	}
	return nil
}

// Delete removes a resource
func (r *ResourcePostgres) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM pdf_resources WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting resource: %w", err)
	}
	if result.RowsAffected() == 0 {
		return entity.ErrResourceNotFound
	}
	return nil
}

func scanResource(row pgx.Row) (*entity.Resource, error) {
	var res entity.Resource
	err := row.Scan(
		&res.ID,
		&res.Title,
		&res.Summary,
		&res.URL,
		&res.FileName,
		&res.FileSize,
		&res.ContentType,
		&res.StorageKey,
		&res.PreviewText,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
