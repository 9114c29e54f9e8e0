package entity

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// Subscriber is a newsletter recipient
type Subscriber struct {
	ID           string    `json:"id,omitempty"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
	Active       bool      `json:"active"`
}

// Campaign is one newsletter issue sent to every active subscriber
type Campaign struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Delivery reports the outcome of sending a campaign
type Delivery struct {
	Recipients int `json:"recipients"`
}

// Domain errors for the newsletter
var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrEmptySubject = errors.New("newsletter subject cannot be empty")
	ErrEmptyBody    = errors.New("newsletter body cannot be empty")
)

// MaxSubjectLength is the longest accepted subject line
const MaxSubjectLength = 200

// ErrSubjectTooLong is returned for subjects over MaxSubjectLength
var ErrSubjectTooLong = errors.New("newsletter subject exceeds maximum length")

// NormalizeEmail validates a bare address and lower-cases it.
// Display-name forms like "Ada <ada@example.org>" are rejected.
func NormalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	at := strings.LastIndexByte(raw, '@')
	if at < 1 || !strings.Contains(raw[at+1:], ".") {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(raw), nil
}

// Validate validates a campaign
func (c *Campaign) Validate() error {
	if strings.TrimSpace(c.Subject) == "" {
		return ErrEmptySubject
	}
	if len(c.Subject) > MaxSubjectLength {
		return ErrSubjectTooLong
	}
	if strings.TrimSpace(c.HTML) == "" {
		return ErrEmptyBody
	}
	return nil
}
