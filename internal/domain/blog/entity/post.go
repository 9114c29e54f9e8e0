package entity

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ContentFormat is the markup an admin submitted the post body in
type ContentFormat string

const (
	ContentFormatHTML     ContentFormat = "html"
	ContentFormatMarkdown ContentFormat = "markdown"
)

// Post represents a blog post
type Post struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Summary          string    `json:"summary,omitempty"`
	ExecutiveSummary string    `json:"executive_summary,omitempty"`
	Content          string    `json:"content"`
	ImageURL         string    `json:"image_url,omitempty"`
	Category         string    `json:"category,omitempty"`
	Author           string    `json:"author,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Domain errors for blog posts
var (
	ErrPostNotFound         = errors.New("blog post not found")
	ErrEmptyTitle           = errors.New("post title cannot be empty")
	ErrEmptyContent         = errors.New("post content cannot be empty")
	ErrTitleTooLong         = errors.New("post title exceeds maximum length")
	ErrSummaryTooLong       = errors.New("post summary exceeds maximum length")
	ErrInvalidContentFormat = errors.New("invalid content format")
	ErrSlugTaken            = errors.New("post slug is already in use")
	ErrInvalidSlug          = errors.New("post slug must contain at least one letter or digit")
)

// MaxTitleLength is the maximum length of a post title
const MaxTitleLength = 255

// MaxSummaryLength is the maximum length of a post summary
const MaxSummaryLength = 1000

// DefaultCategory is used for posts submitted without one
const DefaultCategory = "Analysis"

// Validate validates post fields
func (p *Post) Validate() error {
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(p.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if p.Slug == "" {
		return ErrInvalidSlug
	}
	if utf8.RuneCountInString(p.Summary) > MaxSummaryLength {
		return ErrSummaryTooLong
	}
	if p.Content == "" {
		return ErrEmptyContent
	}
	return nil
}

// ParseContentFormat parses a string into a ContentFormat; empty means HTML
func ParseContentFormat(s string) (ContentFormat, error) {
	switch s {
	case "", "html":
		return ContentFormatHTML, nil
	case "markdown", "md":
		return ContentFormatMarkdown, nil
	default:
		return "", ErrInvalidContentFormat
	}
}

// maxSlugLength keeps derived slugs readable in URLs
const maxSlugLength = 80

// SlugFromTitle derives a URL slug from a post title or an admin-typed slug.
// Diacritics are folded to their base letter; other non-ASCII runes separate words.
func SlugFromTitle(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range norm.NFD.String(strings.ToLower(strings.TrimSpace(title))) {
		switch {
		case unicode.Is(unicode.Mn, r):
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
		if i := strings.LastIndexByte(slug, '-'); i > maxSlugLength/2 {
			slug = slug[:i]
		}
	}
	return strings.Trim(slug, "-")
}
