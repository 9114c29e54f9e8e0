package entity

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var routableSlug = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugFromTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"What Low Turnout in Anambra Tells Us", "what-low-turnout-in-anambra-tells-us"},
		{"Edo Results 2024!", "edo-results-2024"},
		{"  --already-a-slug--  ", "already-a-slug"},
		{"Ẹ̀dó Ọ̀yọ́", "edo-oyo"},
		{"Ọnịcha Ụmụahịa", "onicha-umuahia"},
		{"Kano: APC vs. NNPP", "kano-apc-vs-nnpp"},
		{"انتخابات", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := SlugFromTitle(tt.title)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.Regexp(t, routableSlug, got)
			}
		})
	}
}

func TestSlugFromTitleTruncatesAtWordBoundary(t *testing.T) {
	slug := SlugFromTitle(strings.Repeat("turnout ", 20))

	assert.LessOrEqual(t, len(slug), maxSlugLength)
	assert.Regexp(t, routableSlug, slug)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestValidateRequiresSlug(t *testing.T) {
	p := Post{Title: "انتخابات", Content: "<p>x</p>"}
	assert.ErrorIs(t, p.Validate(), ErrInvalidSlug)

	p.Slug = "results"
	assert.NoError(t, p.Validate())
}
