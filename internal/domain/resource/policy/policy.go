package policy

import (
	"context"
	"errors"
	"log/slog"

	"github.com/athena-eo/observatory/internal/domain/resource/entity"
	"github.com/athena-eo/observatory/internal/domain/resource/service"
	"github.com/athena-eo/observatory/internal/fallback"
)

// ResourceService defines the interface for the resource service
type ResourceService interface {
	List(ctx context.Context) ([]entity.Resource, error)
	Get(ctx context.Context, id string) (*entity.Resource, error)
	Create(ctx context.Context, in service.CreateInput) (*entity.Resource, error)
	Upload(ctx context.Context, in service.UploadInput) (*entity.Resource, error)
	Update(ctx context.Context, in service.UpdateInput) (*entity.Resource, error)
	Delete(ctx context.Context, id string) error
}

// Policy serves PDF resources. Public reads fall back to sample reports.
type Policy struct {
	svc      ResourceService
	fallback *fallback.Content
	logger   *slog.Logger
}

// New creates a new resource policy
func New(svc ResourceService, fb *fallback.Content, logger *slog.Logger) *Policy {
	return &Policy{svc: svc, fallback: fb, logger: logger}
}

// Resources lists reports for visitors
func (p *Policy) Resources(ctx context.Context) []entity.Resource {
	list, err := p.svc.List(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "backend unavailable, serving sample resources", "error", err)
		return p.fallback.ListResources()
	}
	return list
}

// Resource returns one report for visitors
func (p *Policy) Resource(ctx context.Context, id string) (*entity.Resource, error) {
	res, err := p.svc.Get(ctx, id)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, entity.ErrResourceNotFound) {
		p.logger.WarnContext(ctx, "backend unavailable, serving sample resource", "id", id, "error", err)
	}

	sample, ok := p.fallback.Resource(id)
	if !ok {
		return nil, entity.ErrResourceNotFound
	}
	return &sample, nil
}

// AdminResources lists resources without fallback
func (p *Policy) AdminResources(ctx context.Context) ([]entity.Resource, error) {
	return p.svc.List(ctx)
}

// Create registers a hosted PDF
func (p *Policy) Create(ctx context.Context, in service.CreateInput) (*entity.Resource, error) {
	res, err := p.svc.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	p.logger.InfoContext(ctx, "resource created", "id", res.ID, "title", res.Title)
	return res, nil
}

// Upload stores and registers an uploaded PDF
func (p *Policy) Upload(ctx context.Context, in service.UploadInput) (*entity.Resource, error) {
	res, err := p.svc.Upload(ctx, in)
	if err != nil {
		return nil, err
	}
	p.logger.InfoContext(ctx, "resource uploaded", "id", res.ID, "key", res.StorageKey, "size", res.FileSize)
	return res, nil
}

// Update edits resource metadata
func (p *Policy) Update(ctx context.Context, in service.UpdateInput) (*entity.Resource, error) {
	return p.svc.Update(ctx, in)
}

// Delete removes a resource and its file
func (p *Policy) Delete(ctx context.Context, id string) error {
	if err := p.svc.Delete(ctx, id); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "resource deleted", "id", id)
	return nil
}
