package backend

import (
	"net/url"
)

// Backend endpoint paths, relative to the configured base URL
const (
	PathHealth = "/health"

	PathStates = "/states"

	PathBlog = "/blog"
	PathPDFs = "/pdfs"

	PathNewsletterSubscribe   = "/newsletter/subscribe"
	PathNewsletterUnsubscribe = "/newsletter/unsubscribe"
	PathNewsletterSubscribers = "/newsletter/subscribers"
	PathNewsletterSend        = "/newsletter/send"

	PathAnalyticsTrack   = "/analytics/track"
	PathAnalyticsStats   = "/analytics/stats"
	PathAnalyticsCleanup = "/analytics/cleanup"
)

// StatePath returns /states/{slug}
func StatePath(slug string) string {
	return PathStates + "/" + url.PathEscape(slug)
}

// StateStatsPath returns /states/{slug}/stats
func StateStatsPath(slug string) string {
	return StatePath(slug) + "/stats"
}

// StateLGAPath returns /states/{slug}/lga
func StateLGAPath(slug string) string {
	return StatePath(slug) + "/lga"
}

// StateHighlightsPath returns /states/{slug}/highlights
func StateHighlightsPath(slug string) string {
	return StatePath(slug) + "/highlights"
}

// BlogPostPath returns /blog/{id}
func BlogPostPath(id string) string {
	return PathBlog + "/" + url.PathEscape(id)
}

// BlogSlugPath returns /blog/slug/{slug}
func BlogSlugPath(slug string) string {
	return PathBlog + "/slug/" + url.PathEscape(slug)
}

// PDFPath returns /pdfs/{id}
func PDFPath(id string) string {
	return PathPDFs + "/" + url.PathEscape(id)
}
