package web

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsentShouldPrompt(t *testing.T) {
	now := time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)
	window := 24 * time.Hour
	declined := func(d time.Duration) string {
		return "declined:" + strconv.FormatInt(now.Add(-d).Unix(), 10)
	}

	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"missing", "", true},
		{"accepted", "accepted", false},
		{"declined an hour ago", declined(time.Hour), false},
		{"declined just under a day ago", declined(window - time.Second), false},
		{"declined a day ago", declined(window), true},
		{"declined last week", declined(7 * window), true},
		{"malformed timestamp", "declined:yesterday", true},
		{"zero timestamp", "declined:0", true},
		{"unknown value", "maybe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseConsent(tt.value).ShouldPrompt(now, window))
		})
	}
}

func TestConsentCookieRoundTrip(t *testing.T) {
	now := time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)

	for _, accepted := range []bool{true, false} {
		c := ConsentCookieFor(accepted, now, false)
		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(c)

		got := ConsentFromRequest(r)
		assert.True(t, got.Answered)
		assert.Equal(t, accepted, got.Accepted)
		if !accepted {
			assert.Equal(t, now, got.DeclinedAt)
		}
	}

	assert.False(t, ConsentFromRequest(httptest.NewRequest("GET", "/", nil)).Answered)
}
