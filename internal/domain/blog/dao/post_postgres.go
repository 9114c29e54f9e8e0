package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/athena-eo/observatory/internal/domain/blog/entity"
	"github.com/athena-eo/observatory/internal/domain/blog/service"
)

const uniqueViolation = "23505"

const postColumns = `id::text, title, slug, summary, executive_summary, content, image_url, category, author, created_at, updated_at`

// PostPostgres implements the post repository for PostgreSQL
type PostPostgres struct {
	pool *pgxpool.Pool
}

// NewPostPostgres creates a new PostgreSQL post repository
func NewPostPostgres(pool *pgxpool.Pool) *PostPostgres {
	return &PostPostgres{pool: pool}
}

// Create inserts a new post
func (r *PostPostgres) Create(ctx context.Context, post *entity.Post) error {
	query := `
		INSERT INTO blog_posts (title, slug, summary, executive_summary, content, image_url, category, author, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id::text, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		post.Title,
		post.Slug,
		post.Summary,
		post.ExecutiveSummary,
		post.Content,
		post.ImageURL,
		post.Category,
		post.Author,
		post.CreatedAt,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return translate("creating post", err)
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *PostPostgres) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id::text = $1`
	return r.getOne(ctx, query, id)
}

// GetBySlug retrieves a post by slug
func (r *PostPostgres) GetBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1`
	return r.getOne(ctx, query, slug)
}

func (r *PostPostgres) getOne(ctx context.Context, query, arg string) (*entity.Post, error) {
	post, err := scanPost(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return post, nil
}

// Update updates an existing post
func (r *PostPostgres) Update(ctx context.Context, post *entity.Post) error {
	query := `
		UPDATE blog_posts
		SET title = $2, slug = $3, summary = $4, executive_summary = $5, content = $6,
		    image_url = $7, category = $8, author = $9, updated_at = $10
		WHERE id::text = $1
	`

	result, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Summary,
		post.ExecutiveSummary,
		post.Content,
		post.ImageURL,
		post.Category,
		post.Author,
		post.UpdatedAt,
	)
	if err != nil {
		return translate("updating post", err)
	}
	if result.RowsAffected() == 0 {
		return entity.ErrPostNotFound
	}

	return nil
}

// Delete removes a post
func (r *PostPostgres) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM blog_posts WHERE id::text = $1", id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

// List retrieves posts newest first
func (r *PostPostgres) List(ctx context.Context, filter service.ListFilter) ([]entity.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM blog_posts
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at DESC
	`
	args := []interface{}{filter.Category}
	if filter.Limit > 0 {
		query += ` LIMIT $2`
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []entity.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}

	return posts, nil
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	var p entity.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Summary,
		&p.ExecutiveSummary,
		&p.Content,
		&p.ImageURL,
		&p.Category,
		&p.Author,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// translate maps a slug unique violation onto the domain error
func translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return entity.ErrSlugTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}
