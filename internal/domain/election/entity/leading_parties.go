package entity

import (
	"regexp"
	"strconv"
	"strings"
)

// LeadingParty is one ranked entry parsed from an LGA leading-parties field
type LeadingParty struct {
	Name       string  `json:"name"`
	Party      string  `json:"party"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

var (
	// rank marker that opens a segment: "1." at the start or after whitespace.
	// A digit right after the dot makes it a decimal, see rankMarkers.
	segmentStart = regexp.MustCompile(`(?:^|\s)\d+\.`)
	// "Name (PARTY): 12,345 (67.89%)"
	segmentShape = regexp.MustCompile(`^\s*(.+?)\s*\(([^()]+)\)\s*:\s*([\d,]+)\s*\(\s*(\d+(?:\.\d+)?)\s*%\s*\)`)
)

// ParseLeadingParties extracts ranked entries from text of the form
// "1. Name (PARTY): 12,345 (67.89%)  2. ...". Segments that do not have
// that shape are dropped; the result is never nil.
func ParseLeadingParties(text string) []LeadingParty {
	out := []LeadingParty{}

	bounds := rankMarkers(text)
	for i, b := range bounds {
		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}

		m := segmentShape.FindStringSubmatch(text[b[1]:end])
		if m == nil {
			continue
		}

		votes, err := strconv.ParseInt(strings.ReplaceAll(m[3], ",", ""), 10, 64)
		if err != nil {
			continue
		}
		pct, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			continue
		}

		out = append(out, LeadingParty{
			Name:       strings.TrimSpace(m[1]),
			Party:      strings.TrimSpace(m[2]),
			Votes:      votes,
			Percentage: pct,
		})
	}

	return out
}

// rankMarkers returns the rank markers in text, skipping decimals such as
// the " 23." in "( 23.1%)".
func rankMarkers(text string) [][]int {
	var out [][]int
	for _, b := range segmentStart.FindAllStringIndex(text, -1) {
		if b[1] < len(text) && text[b[1]] >= '0' && text[b[1]] <= '9' {
			continue
		}
		out = append(out, b)
	}
	return out
}
