package entity

import (
	"bytes"
	"errors"
	"net/url"
	"time"
)

// Resource represents a published PDF report
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	URL         string    `json:"url"`
	FileName    string    `json:"file_name,omitempty"`
	FileSize    int64     `json:"file_size,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	StorageKey  string    `json:"storage_key,omitempty"`
	PreviewText string    `json:"preview_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Domain errors for resources
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrEmptyTitle       = errors.New("resource title cannot be empty")
	ErrInvalidURL       = errors.New("resource URL must be an absolute http(s) URL")
	ErrTitleTooLong     = errors.New("resource title exceeds maximum length")
	ErrNotPDF           = errors.New("file is not a PDF document")
	ErrFileTooLarge     = errors.New("file exceeds maximum upload size")
	ErrStorageDisabled  = errors.New("file storage is not configured")
)

const (
	// MaxTitleLength is the maximum length of a resource title
	MaxTitleLength = 255
	// MaxUploadSize is the maximum PDF upload size (25MB)
	MaxUploadSize = 25 << 20
	// PDFContentType is the only accepted upload type
	PDFContentType = "application/pdf"
)

var pdfMagic = []byte("%PDF-")

// Validate validates resource fields
func (r *Resource) Validate() error {
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if len(r.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	u, err := url.Parse(r.URL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// IsPDF reports whether head starts with the PDF file signature
func IsPDF(head []byte) bool {
	return bytes.HasPrefix(head, pdfMagic)
}
