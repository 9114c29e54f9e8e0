package dao

import (
	"context"
	"fmt"

	"github.com/athena-eo/observatory/internal/domain/resource/entity"
	"github.com/athena-eo/observatory/internal/httpx/upstream/backend"
)

// ResourceUpstream implements the resource repository on the hosted backend
type ResourceUpstream struct {
	client *backend.Client
}

// NewResourceUpstream creates a new backend-backed resource repository
func NewResourceUpstream(client *backend.Client) *ResourceUpstream {
	return &ResourceUpstream{client: client}
}

// List retrieves all resources
func (r *ResourceUpstream) List(ctx context.Context) ([]entity.Resource, error) {
	var list []entity.Resource
	if err := r.client.Get(ctx, backend.PathPDFs, nil, &list); err != nil {
		return nil, fmt.Errorf("fetching resources: %w", err)
	}
	return list, nil
}

// Get retrieves a resource by ID
func (r *ResourceUpstream) Get(ctx context.Context, id string) (*entity.Resource, error) {
	var res entity.Resource
	if err := r.client.Get(ctx, backend.PDFPath(id), nil, &res); err != nil {
		if backend.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching resource: %w", err)
	}
	return &res, nil
}

// Create stores a new resource; the backend assigns the ID
func (r *ResourceUpstream) Create(ctx context.Context, res *entity.Resource) error {
	if err := r.client.Post(ctx, backend.PathPDFs, res, res); err != nil {
		return fmt.Errorf("storing resource: %w", err)
	}
	return nil
}

// Update replaces a resource
func (r *ResourceUpstream) Update(ctx context.Context, res *entity.Resource) error {
	if err := r.client.Put(ctx, backend.PDFPath(res.ID), res, nil); err != nil {
		return fmt.Errorf("updating resource: %w", err)
	}
	return nil
}

// Delete removes a resource
func (r *ResourceUpstream) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, backend.PDFPath(id)); err != nil {
		return fmt.Errorf("deleting resource: %w", err)
	}
	return nil
}
