package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VisitorCookie carries the anonymous analytics visitor id
const VisitorCookie = "aeo_vid"

// ConsentCookie stores the visitor's cookie-consent answer:
// "accepted", or "declined:<unix seconds>"
const ConsentCookie = "aeo_consent"

const (
	consentAccepted = "accepted"
	consentDeclined = "declined:"
	// consentMaxAge keeps the answer for a year
	consentMaxAge = 365 * 24 * 60 * 60
)

// Consent is a parsed consent answer
type Consent struct {
	Answered   bool
	Accepted   bool
	DeclinedAt time.Time
}

// ParseConsent parses a cookie value. Malformed values count as unanswered.
func ParseConsent(value string) Consent {
	switch {
	case value == consentAccepted:
		return Consent{Answered: true, Accepted: true}
	case strings.HasPrefix(value, consentDeclined):
		sec, err := strconv.ParseInt(strings.TrimPrefix(value, consentDeclined), 10, 64)
		if err != nil || sec <= 0 {
			return Consent{}
		}
		return Consent{Answered: true, DeclinedAt: time.Unix(sec, 0).UTC()}
	default:
		return Consent{}
	}
}

// ShouldPrompt reports whether the banner must be shown. Acceptance is
// permanent; a decline silences the banner for window.
func (c Consent) ShouldPrompt(now time.Time, window time.Duration) bool {
	switch {
	case !c.Answered:
		return true
	case c.Accepted:
		return false
	default:
		return now.Sub(c.DeclinedAt) >= window
	}
}

// ConsentFromRequest reads the consent cookie
func ConsentFromRequest(r *http.Request) Consent {
	c, err := r.Cookie(ConsentCookie)
	if err != nil {
		return Consent{}
	}
	return ParseConsent(c.Value)
}

// ConsentCookieFor builds the cookie recording an answer given at now
func ConsentCookieFor(accepted bool, now time.Time, secure bool) *http.Cookie {
	value := consentAccepted
	if !accepted {
		value = consentDeclined + strconv.FormatInt(now.Unix(), 10)
	}
	return &http.Cookie{
		Name:     ConsentCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   consentMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// VisitorID returns the visitor id from the request, issuing a new
// cookie when the visitor has none or it is not a UUID.
func VisitorID(w http.ResponseWriter, r *http.Request, secure bool) string {
	if c, err := r.Cookie(VisitorCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	vid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    vid,
		Path:     "/",
		MaxAge:   consentMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return vid
}
