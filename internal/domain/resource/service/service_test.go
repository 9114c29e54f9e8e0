package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athena-eo/observatory/internal/domain/resource/entity"
	"github.com/athena-eo/observatory/internal/storage"
)

type memoryRepo struct {
	items     map[string]*entity.Resource
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]*entity.Resource{}}
}

func (m *memoryRepo) List(ctx context.Context) ([]entity.Resource, error) {
	var out []entity.Resource
	for _, r := range m.items {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memoryRepo) Get(ctx context.Context, id string) (*entity.Resource, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memoryRepo) Create(ctx context.Context, res *entity.Resource) error {
	if m.createErr != nil {
		return m.createErr
	}
	res.ID = fmt.Sprintf("res-%d", len(m.items)+1)
	cp := *res
	m.items[res.ID] = &cp
	return nil
}

func (m *memoryRepo) Update(ctx context.Context, res *entity.Resource) error {
	cp := *res
	m.items[res.ID] = &cp
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type memoryStore struct {
	objects   map[string][]byte
	removeErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (m *memoryStore) Put(ctx context.Context, r io.Reader, size int64, contentType, filename string) (*storage.Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	key := "reports/" + filename
	m.objects[key] = data
	return &storage.Object{Key: key, URL: "https://cdn.example.org/" + key, Size: size}, nil
}

func (m *memoryStore) Remove(ctx context.Context, key string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.objects, key)
	return nil
}

func newTestService(repo ResourceRepository, files ObjectStore) *Service {
	svc := New(repo, files)
	svc.now = func() time.Time { return time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC) }
	return svc
}

const samplePDF = "%PDF-1.7\n1 0 obj\n<<>>\nendobj\n"

func TestUploadStoresFileAndRecord(t *testing.T) {
	repo, files := newMemoryRepo(), newMemoryStore()
	svc := newTestService(repo, files)

	res, err := svc.Upload(context.Background(), UploadInput{
		FileName:    "Anambra Preliminary Report.pdf",
		ContentType: "application/pdf",
		Reader:      strings.NewReader(samplePDF),
	})
	require.NoError(t, err)

	assert.Equal(t, "Anambra Preliminary Report", res.Title)
	assert.Equal(t, int64(len(samplePDF)), res.FileSize)
	assert.Equal(t, "reports/Anambra Preliminary Report.pdf", res.StorageKey)
	assert.Equal(t, "https://cdn.example.org/"+res.StorageKey, res.URL)
	assert.Equal(t, []byte(samplePDF), files.objects[res.StorageKey])
	assert.Contains(t, repo.items, res.ID)
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name  string
		in    UploadInput
		files ObjectStore
		want  error
	}{
		{
			name:  "storage disabled",
			in:    UploadInput{Title: "t", ContentType: "application/pdf", Reader: strings.NewReader(samplePDF)},
			files: nil,
			want:  entity.ErrStorageDisabled,
		},
		{
			name:  "wrong content type",
			in:    UploadInput{Title: "t", ContentType: "image/png", Reader: strings.NewReader(samplePDF)},
			files: newMemoryStore(),
			want:  entity.ErrNotPDF,
		},
		{
			name:  "pdf type without signature",
			in:    UploadInput{Title: "t", ContentType: "application/pdf", Reader: strings.NewReader("<html>")},
			files: newMemoryStore(),
			want:  entity.ErrNotPDF,
		},
		{
			name:  "too large",
			in:    UploadInput{Title: "t", ContentType: "application/pdf", Reader: io.MultiReader(strings.NewReader("%PDF-"), bytes.NewReader(make([]byte, entity.MaxUploadSize)))},
			files: newMemoryStore(),
			want:  entity.ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(newMemoryRepo(), tt.files)
			_, err := svc.Upload(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUploadRemovesFileWhenRecordFails(t *testing.T) {
	repo, files := newMemoryRepo(), newMemoryStore()
	repo.createErr = errors.New("backend 500")
	svc := newTestService(repo, files)

	_, err := svc.Upload(context.Background(), UploadInput{
		Title:       "Edo report",
		FileName:    "edo.pdf",
		ContentType: "application/pdf; charset=binary",
		Reader:      strings.NewReader(samplePDF),
	})
	require.ErrorIs(t, err, repo.createErr)
	assert.Empty(t, files.objects)
}

func TestCreateFromURL(t *testing.T) {
	svc := newTestService(newMemoryRepo(), nil)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateInput{Title: "Ekiti report", URL: "https://files.example.org/ekiti.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "ekiti.pdf", res.FileName)

	_, err = svc.Create(ctx, CreateInput{Title: "Bad", URL: "/relative.pdf"})
	assert.ErrorIs(t, err, entity.ErrInvalidURL)
}

func TestDeleteRemovesStoredFile(t *testing.T) {
	repo, files := newMemoryRepo(), newMemoryStore()
	svc := newTestService(repo, files)
	ctx := context.Background()

	res, err := svc.Upload(ctx, UploadInput{Title: "Osun", FileName: "osun.pdf", ContentType: "application/pdf", Reader: strings.NewReader(samplePDF)})
	require.NoError(t, err)

	files.removeErr = errors.New("s3 unavailable")
	require.Error(t, svc.Delete(ctx, res.ID))
	assert.Contains(t, repo.items, res.ID, "record stays when the file cannot be removed")

	files.removeErr = nil
	require.NoError(t, svc.Delete(ctx, res.ID))
	assert.Empty(t, repo.items)
	assert.Empty(t, files.objects)

	assert.ErrorIs(t, svc.Delete(ctx, res.ID), entity.ErrResourceNotFound)
}

func TestUpdatePartial(t *testing.T) {
	svc := newTestService(newMemoryRepo(), nil)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateInput{Title: "Ondo", URL: "https://files.example.org/ondo.pdf", Summary: "first"})
	require.NoError(t, err)

	summary := "revised"
	updated, err := svc.Update(ctx, UpdateInput{ID: res.ID, Summary: &summary})
	require.NoError(t, err)
	assert.Equal(t, "Ondo", updated.Title)
	assert.Equal(t, "revised", updated.Summary)

	empty := ""
	_, err = svc.Update(ctx, UpdateInput{ID: res.ID, Title: &empty})
	assert.ErrorIs(t, err, entity.ErrEmptyTitle)
}
