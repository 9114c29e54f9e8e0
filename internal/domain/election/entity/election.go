package entity

import (
	"time"
)

// StateStatus represents where a state is in its election cycle
type StateStatus string

const (
	StateStatusUpcoming  StateStatus = "upcoming"
	StateStatusOngoing   StateStatus = "ongoing"
	StateStatusCollation StateStatus = "collation"
	StateStatusCompleted StateStatus = "completed"
)

// State is an election state shown on the dashboard
type State struct {
	ID           string      `json:"id,omitempty"`
	Name         string      `json:"name"`
	Slug         string      `json:"slug"`
	Region       string      `json:"region,omitempty"`
	ElectionType string      `json:"election_type,omitempty"`
	Status       StateStatus `json:"status"`
	ElectionDate string      `json:"election_date,omitempty"`
	UpdatedAt    *time.Time  `json:"updated_at,omitempty"`
}

// Candidate is a single candidate line in a state's results table
type Candidate struct {
	Name       string  `json:"name"`
	Party      string  `json:"party"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color,omitempty"`
}

// PollingStats holds turnout and reporting counters for a state
type PollingStats struct {
	RegisteredVoters     int64 `json:"registered_voters"`
	AccreditedVoters     int64 `json:"accredited_voters"`
	ValidVotes           int64 `json:"valid_votes"`
	RejectedVotes        int64 `json:"rejected_votes"`
	TotalVotesCast       int64 `json:"total_votes_cast"`
	PollingUnits         int64 `json:"polling_units"`
	PollingUnitsReported int64 `json:"polling_units_reported"`
	LGAsTotal            int64 `json:"lgas_total"`
	LGAsReported         int64 `json:"lgas_reported"`
}

// Turnout returns accredited voters as a percentage of registered voters
func (p PollingStats) Turnout() float64 {
	if p.RegisteredVoters == 0 {
		return 0
	}
	return float64(p.AccreditedVoters) / float64(p.RegisteredVoters) * 100
}

// ReportingProgress returns the share of polling units reported, in percent
func (p PollingStats) ReportingProgress() float64 {
	if p.PollingUnits == 0 {
		return 0
	}
	return float64(p.PollingUnitsReported) / float64(p.PollingUnits) * 100
}

// StateStats holds candidate results and polling stats for one state
type StateStats struct {
	State      string       `json:"state"`
	Candidates []Candidate  `json:"candidates"`
	Polling    PollingStats `json:"polling"`
	UpdatedAt  *time.Time   `json:"updated_at,omitempty"`
}

// LGAResult is the per-LGA breakdown row
type LGAResult struct {
	Name             string `json:"name"`
	RegisteredVoters int64  `json:"registered_voters"`
	AccreditedVoters int64  `json:"accredited_voters"`
	BVASAccredited   int64  `json:"bvas_accredited"`
	BVASDevices      int64  `json:"bvas_devices"`
	LeadingParties   string `json:"leading_parties,omitempty"`
	TrackingNotes    string `json:"tracking_notes,omitempty"`
	Status           string `json:"status,omitempty"`
}

// Leaders parses the free-text leading parties field
func (l LGAResult) Leaders() []LeadingParty {
	return ParseLeadingParties(l.LeadingParties)
}

// LGABreakdown holds all LGA rows for a state
type LGABreakdown struct {
	State     string      `json:"state"`
	LGAs      []LGAResult `json:"lgas"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
}

// Highlight is a single highlight card
type Highlight struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Tone        string `json:"tone,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Highlights holds the highlight cards of a state
type Highlights struct {
	State     string      `json:"state"`
	Cards     []Highlight `json:"cards"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
}

// candidatePalette is used for candidates submitted without a color
var candidatePalette = []string{"#16a34a", "#2563eb", "#dc2626", "#f59e0b", "#7c3aed", "#0891b2"}

// ApplyDefaults fills optional fields
func (s *State) ApplyDefaults() {
	if s.Slug == "" {
		s.Slug = Slugify(s.Name)
	}
	if s.Status == "" {
		s.Status = StateStatusUpcoming
	}
}

// ApplyDefaults fills optional fields
func (s *StateStats) ApplyDefaults() {
	for i := range s.Candidates {
		if s.Candidates[i].Color == "" {
			s.Candidates[i].Color = candidatePalette[i%len(candidatePalette)]
		}
	}
	if s.Candidates == nil {
		s.Candidates = []Candidate{}
	}
}

// ApplyDefaults fills optional fields
func (b *LGABreakdown) ApplyDefaults() {
	if b.LGAs == nil {
		b.LGAs = []LGAResult{}
	}
}

// ApplyDefaults fills optional fields
func (h *Highlights) ApplyDefaults() {
	for i := range h.Cards {
		if h.Cards[i].Tone == "" {
			h.Cards[i].Tone = "neutral"
		}
	}
	if h.Cards == nil {
		h.Cards = []Highlight{}
	}
}

// IsValidStateStatus checks if a state status is valid
func IsValidStateStatus(s StateStatus) bool {
	switch s {
	case StateStatusUpcoming, StateStatusOngoing, StateStatusCollation, StateStatusCompleted:
		return true
	}
	return false
}

// Validate validates state fields
func (s *State) Validate() error {
	if s.Name == "" {
		return ErrEmptyStateName
	}
	if !IsValidStateStatus(s.Status) {
		return ErrInvalidStateStatus
	}
	return nil
}

// Validate validates candidate and polling fields
func (s *StateStats) Validate() error {
	for _, c := range s.Candidates {
		if c.Name == "" {
			return ErrEmptyCandidateName
		}
		if c.Votes < 0 {
			return ErrNegativeCount
		}
		if c.Percentage < 0 || c.Percentage > 100 {
			return ErrInvalidPercentage
		}
	}
	p := s.Polling
	for _, v := range []int64{
		p.RegisteredVoters, p.AccreditedVoters, p.ValidVotes, p.RejectedVotes, p.TotalVotesCast,
		p.PollingUnits, p.PollingUnitsReported, p.LGAsTotal, p.LGAsReported,
	} {
		if v < 0 {
			return ErrNegativeCount
		}
	}
	return nil
}

// Validate validates LGA rows
func (b *LGABreakdown) Validate() error {
	for _, l := range b.LGAs {
		if l.Name == "" {
			return ErrEmptyLGAName
		}
		if l.RegisteredVoters < 0 || l.AccreditedVoters < 0 || l.BVASAccredited < 0 || l.BVASDevices < 0 {
			return ErrNegativeCount
		}
	}
	return nil
}

// Validate validates highlight cards
func (h *Highlights) Validate() error {
	for _, c := range h.Cards {
		if c.Title == "" {
			return ErrEmptyHighlightTitle
		}
	}
	return nil
}
