package content

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SectionSize is how many top-level elements go into a card when the body has no headings
const SectionSize = 3

// Themes are applied to cards in order, wrapping around
var Themes = []string{"overview", "analysis", "findings", "insight"}

// Section is one themed card of a post body
type Section struct {
	Heading string `json:"heading,omitempty"`
	HTML    string `json:"html"`
	Theme   string `json:"theme"`
}

// Sections splits a post body into themed cards. Every h2/h3 heading
// opens a new card; runs of content without headings are cut every
// SectionSize top-level elements. Whitespace-only text is ignored.
func Sections(body string) []Section {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	nodes, err := parseFragment(body)
	if err != nil {
		return []Section{{HTML: body, Theme: Themes[0]}}
	}

	var (
		out     []Section
		heading string
		buf     strings.Builder
		count   int
	)

	flush := func() {
		if count == 0 && heading == "" {
			return
		}
		out = append(out, Section{
			Heading: heading,
			HTML:    strings.TrimSpace(buf.String()),
			Theme:   Themes[len(out)%len(Themes)],
		})
		heading = ""
		buf.Reset()
		count = 0
	}

	for _, n := range nodes {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		if n.Type == html.CommentNode {
			continue
		}

		if isSectionHeading(n) {
			flush()
			heading = strings.TrimSpace(PlainText(render(n)))
			continue
		}

		// headed sections keep everything up to the next heading
		if heading == "" && count == SectionSize {
			flush()
		}

		buf.WriteString(render(n))
		buf.WriteByte('\n')
		count++
	}
	flush()

	return out
}

func isSectionHeading(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.H2 || n.DataAtom == atom.H3)
}

func parseFragment(body string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(body), ctx)
}

func render(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}
