// Package fallback holds the sample content shown to public visitors
// whenever the backend cannot be reached.
package fallback

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	blog "github.com/athena-eo/observatory/internal/domain/blog/entity"
	election "github.com/athena-eo/observatory/internal/domain/election/entity"
	resource "github.com/athena-eo/observatory/internal/domain/resource/entity"
)

//go:embed content.yaml
var contentYAML []byte

// Content is the full set of sample records
type Content struct {
	States     []election.State                 `json:"states"`
	Stats      map[string]election.StateStats   `json:"stats"`
	LGA        map[string]election.LGABreakdown `json:"lga"`
	Highlights map[string]election.Highlights   `json:"highlights"`
	Posts      []blog.Post                      `json:"posts"`
	Resources  []resource.Resource              `json:"resources"`
}

// Load parses the embedded sample content
func Load() (*Content, error) {
	return Parse(contentYAML)
}

// MustLoad parses the embedded sample content and panics on error
func MustLoad() *Content {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes sample content from YAML. The document uses the same
// field names as the JSON API, so it is decoded generically and then
// mapped onto the entity types through their JSON tags.
func Parse(data []byte) (*Content, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing fallback yaml: %w", err)
	}

	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding fallback content: %w", err)
	}

	var c Content
	if err := json.Unmarshal(buf, &c); err != nil {
		return nil, fmt.Errorf("decoding fallback content: %w", err)
	}

	// newest posts first, like the backend
	sort.SliceStable(c.Posts, func(i, j int) bool {
		return c.Posts[i].CreatedAt.After(c.Posts[j].CreatedAt)
	})

	return &c, nil
}

// ListStates returns a copy of the sample states
func (c *Content) ListStates() []election.State {
	out := make([]election.State, len(c.States))
	copy(out, c.States)
	return out
}

// State returns the sample state for slug, or a placeholder named after the slug
func (c *Content) State(slug string) election.State {
	for _, s := range c.States {
		if s.Slug == slug {
			return s
		}
	}
	return election.State{
		Name:   election.StateNameFromSlug(slug),
		Slug:   slug,
		Status: election.StateStatusUpcoming,
	}
}

// StateStats returns sample stats for slug, or an empty record for the state
func (c *Content) StateStats(slug string) election.StateStats {
	if s, ok := c.Stats[slug]; ok {
		s.Candidates = append([]election.Candidate(nil), s.Candidates...)
		s.ApplyDefaults()
		return s
	}
	return election.StateStats{
		State:      election.StateNameFromSlug(slug),
		Candidates: []election.Candidate{},
	}
}

// LGABreakdown returns the sample LGA rows for slug, or an empty breakdown
func (c *Content) LGABreakdown(slug string) election.LGABreakdown {
	if b, ok := c.LGA[slug]; ok {
		b.LGAs = append([]election.LGAResult(nil), b.LGAs...)
		b.ApplyDefaults()
		return b
	}
	return election.LGABreakdown{
		State: election.StateNameFromSlug(slug),
		LGAs:  []election.LGAResult{},
	}
}

// HighlightCards returns the sample highlight cards for slug, or none
func (c *Content) HighlightCards(slug string) election.Highlights {
	if h, ok := c.Highlights[slug]; ok {
		h.Cards = append([]election.Highlight(nil), h.Cards...)
		h.ApplyDefaults()
		return h
	}
	return election.Highlights{
		State: election.StateNameFromSlug(slug),
		Cards: []election.Highlight{},
	}
}

// ListPosts returns sample posts, optionally filtered by category
func (c *Content) ListPosts(category string) []blog.Post {
	out := make([]blog.Post, 0, len(c.Posts))
	for _, p := range c.Posts {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// PostBySlug returns the sample post with slug
func (c *Content) PostBySlug(slug string) (blog.Post, bool) {
	for _, p := range c.Posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return blog.Post{}, false
}

// ListResources returns a copy of the sample resources
func (c *Content) ListResources() []resource.Resource {
	out := make([]resource.Resource, len(c.Resources))
	copy(out, c.Resources)
	return out
}

// Resource returns the sample resource with id
func (c *Content) Resource(id string) (resource.Resource, bool) {
	for _, r := range c.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return resource.Resource{}, false
}
