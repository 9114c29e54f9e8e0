// Package web serves the public site: server-rendered pages behind the
// path router, the cookie-consent banner and page-view tracking.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/athena-eo/observatory/internal/config"
	"github.com/athena-eo/observatory/internal/content"
	analyticsservice "github.com/athena-eo/observatory/internal/domain/analytics/service"
	blog "github.com/athena-eo/observatory/internal/domain/blog/entity"
	election "github.com/athena-eo/observatory/internal/domain/election/entity"
	electionpolicy "github.com/athena-eo/observatory/internal/domain/election/policy"
	newsletter "github.com/athena-eo/observatory/internal/domain/newsletter/entity"
	resource "github.com/athena-eo/observatory/internal/domain/resource/entity"
)

//go:embed templates static
var assets embed.FS

const trackTimeout = 5 * time.Second

// ElectionReader serves election data for public pages
type ElectionReader interface {
	States(ctx context.Context) []election.State
	Dashboard(ctx context.Context, slug string) electionpolicy.Dashboard
}

// BlogReader serves blog posts for public pages
type BlogReader interface {
	Posts(ctx context.Context, category string) []blog.Post
	Post(ctx context.Context, slug string) (*blog.Post, error)
}

// ResourceReader serves PDF reports for public pages
type ResourceReader interface {
	Resources(ctx context.Context) []resource.Resource
}

// Unsubscriber removes newsletter subscriptions
type Unsubscriber interface {
	Unsubscribe(ctx context.Context, email string) error
}

// Tracker records page views
type Tracker interface {
	Track(ctx context.Context, in analyticsservice.TrackInput)
}

// Sanitizer cleans HTML before it is trusted by templates
type Sanitizer interface {
	Sanitize(body string) string
}

// Deps are the data sources of the site
type Deps struct {
	Election   ElectionReader
	Blog       BlogReader
	Resources  ResourceReader
	Newsletter Unsubscriber
	Tracker    Tracker
	Sanitizer  Sanitizer
}

// Site renders the public pages
type Site struct {
	cfg    config.Site
	deps   Deps
	pages  map[Tab]*template.Template
	logger *slog.Logger
	now    func() time.Time
	wg     sync.WaitGroup
}

// NewSite parses the embedded templates and creates the site handler
func NewSite(cfg config.Site, deps Deps, logger *slog.Logger) (*Site, error) {
	pages, err := parsePages(assets)
	if err != nil {
		return nil, err
	}
	return &Site{cfg: cfg, deps: deps, pages: pages, logger: logger, now: time.Now}, nil
}

// RegisterRoutes registers the site routes
func (s *Site) RegisterRoutes(r chi.Router) {
	static, _ := fs.Sub(assets, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.Page())
	r.Get("/aeo", s.Page())
	r.Get("/aeo/*", s.Page())
	r.Post("/aeo/consent", s.Consent())
	r.Post("/aeo/unsubscribe", s.Unsubscribe())
}

// Wait blocks until in-flight page-view tracking has finished
func (s *Site) Wait() {
	s.wg.Wait()
}

// pageData is what every template receives
type pageData struct {
	SiteName    string
	View        View
	Title       string
	ShowConsent bool
	Year        int
	Data        interface{}
}

type dashboardData struct {
	States   []election.State
	Selected *electionpolicy.Dashboard
}

type blogData struct {
	Posts    []blog.Post
	Category string
}

type blogPostData struct {
	Post     *blog.Post
	Sections []content.Section
}

type unsubscribeData struct {
	Email   string
	Done    bool
	Invalid bool
}

// Page handles GET requests for every site path
func (s *Site) Page() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := Resolve(r.URL.Path, "")
		ctx := r.Context()
		status := http.StatusOK

		var (
			title string
			data  interface{}
		)

		switch view.Tab {
		case TabDashboard:
			d := dashboardData{States: s.deps.Election.States(ctx)}
			title = "Election Dashboard"
			if view.Slug != "" {
				dash := s.deps.Election.Dashboard(ctx, view.Slug)
				d.Selected = &dash
				title = dash.State.Name + " Election Dashboard"
			}
			data = d

		case TabBlog:
			category := r.URL.Query().Get("category")
			data = blogData{Posts: s.deps.Blog.Posts(ctx, category), Category: category}
			title = "Analysis & Insights"

		case TabBlogPost:
			post, err := s.deps.Blog.Post(ctx, view.Slug)
			if err != nil {
				status = http.StatusNotFound
				title = "Post not found"
				data = blogPostData{}
				break
			}
			shown := *post
			shown.ExecutiveSummary = s.deps.Sanitizer.Sanitize(post.ExecutiveSummary)
			data = blogPostData{Post: &shown, Sections: content.Sections(s.deps.Sanitizer.Sanitize(post.Content))}
			title = post.Title

		case TabResources:
			data = s.deps.Resources.Resources(ctx)
			title = "Reports & Resources"

		case TabUnsubscribe:
			data = unsubscribeData{Email: r.URL.Query().Get("email")}
			title = "Unsubscribe"

		default:
			title = staticTitles[view.Tab]
		}

		consent := ConsentFromRequest(r)
		if consent.Accepted && view.Tab != TabAdmin {
			s.track(w, r)
		}

		s.render(w, r, status, view, title, consent, data)
	}
}

// Consent handles POST /aeo/consent with choice=accept|decline
func (s *Site) Consent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accepted := r.FormValue("choice") == "accept"
		http.SetCookie(w, ConsentCookieFor(accepted, s.now(), s.cfg.SecureCookies))

		back := r.FormValue("return")
		if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
			back = "/aeo"
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

// Unsubscribe handles POST /aeo/unsubscribe
func (s *Site) Unsubscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.FormValue("email")
		view := View{Tab: TabUnsubscribe}
		consent := ConsentFromRequest(r)

		err := s.deps.Newsletter.Unsubscribe(r.Context(), email)
		switch {
		case errors.Is(err, newsletter.ErrInvalidEmail):
			s.render(w, r, http.StatusBadRequest, view, "Unsubscribe", consent, unsubscribeData{Email: email, Invalid: true})
		case err != nil:
			s.render(w, r, http.StatusBadGateway, view, "Unsubscribe", consent, unsubscribeData{Email: email})
		default:
			s.render(w, r, http.StatusOK, view, "Unsubscribe", consent, unsubscribeData{Email: email, Done: true})
		}
	}
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, view View, title string, consent Consent, data interface{}) {
	tmpl, ok := s.pages[view.Tab]
	if !ok {
		tmpl = s.pages[TabDashboard]
	}

	pd := pageData{
		SiteName:    s.cfg.Name,
		View:        view,
		Title:       title,
		ShowConsent: consent.ShouldPrompt(s.now(), s.cfg.ConsentWindow),
		Year:        s.now().Year(),
		Data:        data,
	}

	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, "layout", pd); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering page", "tab", view.Tab, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

// track records a page view in the background
func (s *Site) track(w http.ResponseWriter, r *http.Request) {
	vid := VisitorID(w, r, s.cfg.SecureCookies)

	in := analyticsservice.TrackInput{
		VisitorID: vid,
		Page:      r.URL.Path,
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), trackTimeout)
		defer cancel()
		s.deps.Tracker.Track(ctx, in)
	}()
}

var staticTitles = map[Tab]string{
	TabAbout:       "About the Observatory",
	TabMethodology: "Methodology",
	TabContact:     "Contact",
	TabPrivacy:     "Privacy Policy",
	TabTerms:       "Terms of Use",
	TabCookies:     "Cookie Policy",
	TabAdmin:       "Admin",
}

var pageFiles = map[Tab]string{
	TabDashboard:   "dashboard.html",
	TabBlog:        "blog.html",
	TabBlogPost:    "blog_post.html",
	TabResources:   "resources.html",
	TabAbout:       "about.html",
	TabMethodology: "methodology.html",
	TabContact:     "contact.html",
	TabPrivacy:     "privacy.html",
	TabTerms:       "terms.html",
	TabCookies:     "cookies.html",
	TabUnsubscribe: "unsubscribe.html",
	TabAdmin:       "admin.html",
}

var funcs = template.FuncMap{
	"number":  formatAny,
	"percent": formatPercent,
	"date":    formatDate,
	"ago":     formatAgo,
	// trusted marks markup that was sanitized before reaching the template
	"trusted": func(s string) template.HTML { return template.HTML(s) },
	"lower":   strings.ToLower,
	"path":    func(v View) string { return v.Path() },
}

func parsePages(fsys fs.FS) (map[Tab]*template.Template, error) {
	pages := make(map[Tab]*template.Template, len(pageFiles))
	for tab, file := range pageFiles {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys,
			"templates/layout.html",
			"templates/"+file,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", file, err)
		}
		pages[tab] = t
	}
	return pages, nil
}
