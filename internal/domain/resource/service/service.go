package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/athena-eo/observatory/internal/domain/resource/entity"
	"github.com/athena-eo/observatory/internal/storage"
)

// ResourceRepository defines the interface for resource storage.
// Get returns (nil, nil) when the resource does not exist.
type ResourceRepository interface {
	List(ctx context.Context) ([]entity.Resource, error)
	Get(ctx context.Context, id string) (*entity.Resource, error)
	Create(ctx context.Context, res *entity.Resource) error
	Update(ctx context.Context, res *entity.Resource) error
	Delete(ctx context.Context, id string) error
}

// ObjectStore keeps uploaded files
type ObjectStore interface {
	Put(ctx context.Context, r io.Reader, size int64, contentType, filename string) (*storage.Object, error)
	Remove(ctx context.Context, key string) error
}

// Service handles PDF resource business logic
type Service struct {
	repo  ResourceRepository
	files ObjectStore
	now   func() time.Time
}

// New creates a new resource service. files may be nil when uploads are disabled.
func New(repo ResourceRepository, files ObjectStore) *Service {
	return &Service{repo: repo, files: files, now: time.Now}
}

// List returns all resources
func (s *Service) List(ctx context.Context) ([]entity.Resource, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	if list == nil {
		list = []entity.Resource{}
	}
	return list, nil
}

// Get returns a resource by ID
func (s *Service) Get(ctx context.Context, id string) (*entity.Resource, error) {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting resource: %w", err)
	}
	if res == nil {
		return nil, entity.ErrResourceNotFound
	}
	return res, nil
}

// CreateInput represents input for registering an already hosted PDF
type CreateInput struct {
	Title       string
	Summary     string
	URL         string
	FileName    string
	PreviewText string
}

// Create registers a PDF hosted elsewhere
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Resource, error) {
	now := s.now().UTC()
	res := &entity.Resource{
		Title:       strings.TrimSpace(in.Title),
		Summary:     strings.TrimSpace(in.Summary),
		URL:         strings.TrimSpace(in.URL),
		FileName:    strings.TrimSpace(in.FileName),
		ContentType: entity.PDFContentType,
		PreviewText: strings.TrimSpace(in.PreviewText),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if res.FileName == "" {
		res.FileName = path.Base(res.URL)
	}

	if err := res.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	return res, nil
}

// UploadInput represents an uploaded PDF
type UploadInput struct {
	Title       string
	Summary     string
	PreviewText string
	FileName    string
	ContentType string
	Reader      io.Reader
}

// Upload stores a PDF in object storage and registers it
func (s *Service) Upload(ctx context.Context, in UploadInput) (*entity.Resource, error) {
	if s.files == nil {
		return nil, entity.ErrStorageDisabled
	}

	if mediaType, _, err := mime.ParseMediaType(in.ContentType); err != nil || mediaType != entity.PDFContentType {
		return nil, entity.ErrNotPDF
	}

	data, err := io.ReadAll(io.LimitReader(in.Reader, entity.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > entity.MaxUploadSize {
		return nil, entity.ErrFileTooLarge
	}
	if !entity.IsPDF(data) {
		return nil, entity.ErrNotPDF
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.TrimSuffix(path.Base(in.FileName), path.Ext(in.FileName))
	}
	if title == "" || title == "." {
		return nil, entity.ErrEmptyTitle
	}
	if len(title) > entity.MaxTitleLength {
		return nil, entity.ErrTitleTooLong
	}

	obj, err := s.files.Put(ctx, bytes.NewReader(data), int64(len(data)), entity.PDFContentType, in.FileName)
	if err != nil {
		return nil, fmt.Errorf("storing file: %w", err)
	}

	now := s.now().UTC()
	res := &entity.Resource{
		Title:       title,
		Summary:     strings.TrimSpace(in.Summary),
		URL:         obj.URL,
		FileName:    path.Base(in.FileName),
		FileSize:    obj.Size,
		ContentType: entity.PDFContentType,
		StorageKey:  obj.Key,
		PreviewText: strings.TrimSpace(in.PreviewText),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := res.Validate(); err != nil {
		_ = s.files.Remove(ctx, obj.Key)
		return nil, err
	}
	if err := s.repo.Create(ctx, res); err != nil {
		// the record is gone, so is the file
		_ = s.files.Remove(ctx, obj.Key)
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	return res, nil
}

// UpdateInput represents input for updating a resource. Nil fields are left unchanged.
type UpdateInput struct {
	ID          string
	Title       *string
	Summary     *string
	URL         *string
	PreviewText *string
}

// Update updates resource metadata
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Resource, error) {
	res, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		res.Title = strings.TrimSpace(*in.Title)
	}
	if in.Summary != nil {
		res.Summary = strings.TrimSpace(*in.Summary)
	}
	if in.URL != nil {
		res.URL = strings.TrimSpace(*in.URL)
	}
	if in.PreviewText != nil {
		res.PreviewText = strings.TrimSpace(*in.PreviewText)
	}
	res.UpdatedAt = s.now().UTC()

	if err := res.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, res); err != nil {
		return nil, fmt.Errorf("updating resource: %w", err)
	}
	return res, nil
}

// Delete removes a resource and its stored file. The file goes first so a
// failed removal leaves the record in place for another attempt.
func (s *Service) Delete(ctx context.Context, id string) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if res.StorageKey != "" {
		if s.files == nil {
			return entity.ErrStorageDisabled
		}
		if err := s.files.Remove(ctx, res.StorageKey); err != nil {
			return fmt.Errorf("removing file: %w", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting resource: %w", err)
	}
	return nil
}
