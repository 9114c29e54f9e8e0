package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedContent(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	require.NotEmpty(t, c.States)
	assert.Equal(t, "Anambra", c.State("anambra").Name)

	stats := c.StateStats("anambra")
	require.NotEmpty(t, stats.Candidates)
	assert.Equal(t, "APGA", stats.Candidates[0].Party)
	assert.Equal(t, int64(2466638), stats.Polling.RegisteredVoters)

	lga := c.LGABreakdown("anambra")
	require.NotEmpty(t, lga.LGAs)
	assert.Len(t, lga.LGAs[0].Leaders(), 3)

	require.NotEmpty(t, c.HighlightCards("anambra").Cards)

	posts := c.ListPosts("")
	require.Len(t, posts, 2)
	assert.True(t, posts[0].CreatedAt.After(posts[1].CreatedAt), "posts are newest first")
	assert.Len(t, c.ListPosts("Guides"), 1)

	p, ok := c.PostBySlug("what-low-turnout-in-anambra-tells-us")
	require.True(t, ok)
	assert.Contains(t, p.Content, "<h2>Overview</h2>")

	r, ok := c.Resource("sample-anambra-report")
	require.True(t, ok)
	assert.Equal(t, "application/pdf", r.ContentType)
}

func TestUnknownStateDegradesToEmpty(t *testing.T) {
	c := MustLoad()

	st := c.State("cross-river")
	assert.Equal(t, "Cross River", st.Name)

	stats := c.StateStats("cross-river")
	assert.Equal(t, "Cross River", stats.State)
	assert.NotNil(t, stats.Candidates)
	assert.Empty(t, stats.Candidates)

	assert.Empty(t, c.LGABreakdown("cross-river").LGAs)
	assert.Empty(t, c.HighlightCards("cross-river").Cards)

	_, ok := c.PostBySlug("missing")
	assert.False(t, ok)
}

func TestCopiesDoNotAliasSampleData(t *testing.T) {
	c := MustLoad()

	states := c.ListStates()
	states[0].Name = "changed"
	assert.NotEqual(t, "changed", c.States[0].Name)

	stats := c.StateStats("anambra")
	stats.Candidates[0].Name = "changed"
	assert.NotEqual(t, "changed", c.StateStats("anambra").Candidates[0].Name)
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("states: [unterminated"))
	assert.Error(t, err)
}
