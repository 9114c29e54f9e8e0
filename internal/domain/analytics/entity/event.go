package entity

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Event is one tracked page view
type Event struct {
	ID         string    `json:"id,omitempty"`
	VisitorID  string    `json:"visitor_id"`
	Page       string    `json:"page"`
	DeviceType string    `json:"device_type,omitempty"`
	Browser    string    `json:"browser,omitempty"`
	ScreenSize string    `json:"screen_size,omitempty"`
	Referrer   string    `json:"referrer,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Count is a labelled tally
type Count struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DailyCount is the traffic of one UTC day
type DailyCount struct {
	Date     string `json:"date"`
	Views    int64  `json:"views"`
	Visitors int64  `json:"visitors"`
}

// Stats summarises visitor traffic over a window of days
type Stats struct {
	Days           int          `json:"days"`
	TotalViews     int64        `json:"total_views"`
	UniqueVisitors int64        `json:"unique_visitors"`
	Devices        []Count      `json:"devices"`
	Browsers       []Count      `json:"browsers"`
	TopPages       []Count      `json:"top_pages"`
	Daily          []DailyCount `json:"daily"`
}

// CleanupResult reports a retention cleanup
type CleanupResult struct {
	Deleted int64     `json:"deleted"`
	Before  time.Time `json:"before"`
}

// Domain errors for analytics
var (
	ErrEmptyPage      = errors.New("page cannot be empty")
	ErrEmptyVisitorID = errors.New("visitor id cannot be empty")
)

const (
	// DefaultStatsDays is the stats window when none is requested
	DefaultStatsDays = 30
	// MaxStatsDays caps the stats window
	MaxStatsDays = 365
	// TopPagesLimit is how many pages the stats list
	TopPagesLimit = 10
	// maxFieldLength bounds free-form fields supplied by browsers
	maxFieldLength = 512
)

// Validate validates an event
func (e *Event) Validate() error {
	if e.Page == "" {
		return ErrEmptyPage
	}
	if e.VisitorID == "" {
		return ErrEmptyVisitorID
	}
	return nil
}

// Truncate bounds the free-form fields of an event
func (e *Event) Truncate() {
	e.Page = clip(e.Page)
	e.Referrer = clip(e.Referrer)
	e.ScreenSize = clip(e.ScreenSize)
	e.VisitorID = clip(e.VisitorID)
}

// clip drops invalid UTF-8 and cuts s to maxFieldLength bytes on a rune boundary
func clip(s string) string {
	s = strings.ToValidUTF8(s, "")
	if len(s) <= maxFieldLength {
		return s
	}
	cut := maxFieldLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// ApplyDefaults replaces nil slices so the stats always serialise as arrays
func (s *Stats) ApplyDefaults() {
	if s.Devices == nil {
		s.Devices = []Count{}
	}
	if s.Browsers == nil {
		s.Browsers = []Count{}
	}
	if s.TopPages == nil {
		s.TopPages = []Count{}
	}
	if s.Daily == nil {
		s.Daily = []DailyCount{}
	}
}

// Aggregate builds stats for the days-long window ending at now.
// Events outside the window are ignored; every day of the window is present in Daily.
func Aggregate(events []Event, days int, now time.Time) Stats {
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(days - 1))

	var (
		visitors   = map[string]struct{}{}
		devices    = map[string]int64{}
		browsers   = map[string]int64{}
		pages      = map[string]int64{}
		dayViews   = map[string]int64{}
		dayVisitor = map[string]map[string]struct{}{}
		stats      = Stats{Days: days}
	)

	for _, e := range events {
		ts := e.Timestamp.UTC()
		if ts.Before(start) || ts.After(now) {
			continue
		}
		day := ts.Format(time.DateOnly)

		stats.TotalViews++
		visitors[e.VisitorID] = struct{}{}
		devices[orUnknown(e.DeviceType)]++
		browsers[orUnknown(e.Browser)]++
		pages[e.Page]++
		dayViews[day]++
		if dayVisitor[day] == nil {
			dayVisitor[day] = map[string]struct{}{}
		}
		dayVisitor[day][e.VisitorID] = struct{}{}
	}

	stats.UniqueVisitors = int64(len(visitors))
	stats.Devices = ranked(devices, 0)
	stats.Browsers = ranked(browsers, 0)
	stats.TopPages = ranked(pages, TopPagesLimit)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format(time.DateOnly)
		stats.Daily = append(stats.Daily, DailyCount{
			Date:     day,
			Views:    dayViews[day],
			Visitors: int64(len(dayVisitor[day])),
		})
	}

	stats.ApplyDefaults()
	return stats
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// ranked sorts tallies by count descending, then name; limit 0 keeps all
func ranked(m map[string]int64, limit int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
