package web

import (
	"regexp"
	"strings"

	"github.com/athena-eo/observatory/internal/domain/election/entity"
)

// Tab is one mutually exclusive view of the site
type Tab string

const (
	TabDashboard   Tab = "dashboard"
	TabBlog        Tab = "blog"
	TabBlogPost    Tab = "blog-post"
	TabResources   Tab = "resources"
	TabAbout       Tab = "about"
	TabMethodology Tab = "methodology"
	TabContact     Tab = "contact"
	TabPrivacy     Tab = "privacy"
	TabTerms       Tab = "terms"
	TabCookies     Tab = "cookies"
	TabUnsubscribe Tab = "unsubscribe"
	TabAdmin       Tab = "admin"
)

// View is the result of resolving a location: the tab to render plus the
// selected state (display name) or blog slug. Slug holds the captured path
// segment for both the dashboard and blog-post tabs.
type View struct {
	Tab   Tab
	State string
	Slug  string
}

var literalRoutes = map[string]Tab{
	"/":                TabDashboard,
	"/aeo":             TabDashboard,
	"/aeo/dashboard":   TabDashboard,
	"/aeo/blog":        TabBlog,
	"/aeo/resources":   TabResources,
	"/aeo/about":       TabAbout,
	"/aeo/methodology": TabMethodology,
	"/aeo/contact":     TabContact,
	"/aeo/privacy":     TabPrivacy,
	"/aeo/terms":       TabTerms,
	"/aeo/cookies":     TabCookies,
	"/aeo/unsubscribe": TabUnsubscribe,
	"/aeo/admin":       TabAdmin,
}

var (
	dashboardState = regexp.MustCompile(`^/aeo/dashboard/([a-z0-9]+(?:-[a-z0-9]+)*)$`)
	blogPost       = regexp.MustCompile(`^/aeo/blog/([A-Za-z0-9][A-Za-z0-9_-]*)$`)
)

// Resolve maps a request path and URL fragment to a view.
// Unknown locations fall back to the dashboard with no state selected.
func Resolve(path, fragment string) View {
	if strings.TrimPrefix(fragment, "#") == "admin" {
		return View{Tab: TabAdmin}
	}

	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		path = "/"
	}

	if tab, ok := literalRoutes[path]; ok {
		return View{Tab: tab}
	}
	if m := dashboardState.FindStringSubmatch(path); m != nil {
		return View{Tab: TabDashboard, State: entity.StateNameFromSlug(m[1]), Slug: m[1]}
	}
	if m := blogPost.FindStringSubmatch(path); m != nil {
		return View{Tab: TabBlogPost, Slug: m[1]}
	}

	return View{Tab: TabDashboard}
}

// Path returns the canonical path of a view, the inverse of Resolve
func (v View) Path() string {
	switch v.Tab {
	case TabDashboard:
		if v.Slug != "" {
			return "/aeo/dashboard/" + v.Slug
		}
		return "/aeo/dashboard"
	case TabBlogPost:
		return "/aeo/blog/" + v.Slug
	default:
		return "/aeo/" + string(v.Tab)
	}
}
