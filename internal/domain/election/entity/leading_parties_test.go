package entity

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeadingParties(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []LeadingParty
	}{
		{
			name: "empty input",
			in:   "",
			want: []LeadingParty{},
		},
		{
			name: "free text without ranks",
			in:   "Results pending from collation centre",
			want: []LeadingParty{},
		},
		{
			name: "single well-formed segment",
			in:   "1. Charles Soludo (APGA): 112,229 (46.2%)",
			want: []LeadingParty{
				{Name: "Charles Soludo", Party: "APGA", Votes: 112229, Percentage: 46.2},
			},
		},
		{
			name: "multiple segments keep input order",
			in:   "1. Charles Soludo (APGA): 12,345 (67.89%)  2. Andy Uba (APC): 4,210 (23.1%) 3. Valentine Ozigbo (PDP): 900 (4.9%)",
			want: []LeadingParty{
				{Name: "Charles Soludo", Party: "APGA", Votes: 12345, Percentage: 67.89},
				{Name: "Andy Uba", Party: "APC", Votes: 4210, Percentage: 23.1},
				{Name: "Valentine Ozigbo", Party: "PDP", Votes: 900, Percentage: 4.9},
			},
		},
		{
			name: "space inside percentage parentheses",
			in:   "1. Charles Soludo (APGA): 12,345 ( 67.89 %)  2. Andy Uba (APC): 4,210 ( 23.1%)",
			want: []LeadingParty{
				{Name: "Charles Soludo", Party: "APGA", Votes: 12345, Percentage: 67.89},
				{Name: "Andy Uba", Party: "APC", Votes: 4210, Percentage: 23.1},
			},
		},
		{
			name: "malformed segment is dropped",
			in:   "1. Charles Soludo APGA 12345  2. Andy Uba (APC): 4,210 (23.1%)",
			want: []LeadingParty{
				{Name: "Andy Uba", Party: "APC", Votes: 4210, Percentage: 23.1},
			},
		},
		{
			name: "missing percentage drops segment",
			in:   "1. Andy Uba (APC): 4,210",
			want: []LeadingParty{},
		},
		{
			name: "integer percentage and loose spacing",
			in:   "1.Peter Obi ( LP ) : 31600 ( 50 % )",
			want: []LeadingParty{
				{Name: "Peter Obi", Party: "LP", Votes: 31600, Percentage: 50},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLeadingParties(tt.in)
			require.NotNil(t, got)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLeadingParties() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLGAResultLeaders(t *testing.T) {
	lga := LGAResult{Name: "Awka South", LeadingParties: "1. A (APGA): 10 (50%) 2. B (APC): 10 (50%)"}
	leaders := lga.Leaders()
	assert.Len(t, leaders, 2)
	assert.Equal(t, "APC", leaders[1].Party)
}

func TestSlugs(t *testing.T) {
	assert.Equal(t, "cross-river", Slugify("Cross River"))
	assert.Equal(t, "akwa-ibom", Slugify("  Akwa  Ibom "))
	assert.Equal(t, "fct", Slugify("FCT"))

	assert.Equal(t, "Anambra", StateNameFromSlug("anambra"))
	assert.Equal(t, "Cross River", StateNameFromSlug("cross-river"))
	assert.Equal(t, "FCT", StateNameFromSlug("fct"))
	assert.Equal(t, "", StateNameFromSlug(""))
}

func TestStatsValidateAndDefaults(t *testing.T) {
	stats := StateStats{
		State: "Anambra",
		Candidates: []Candidate{
			{Name: "Charles Soludo", Party: "APGA", Votes: 112229, Percentage: 46.2},
			{Name: "Andy Uba", Party: "APC", Votes: 43285, Percentage: 17.8, Color: "#000000"},
		},
	}
	require.NoError(t, stats.Validate())

	stats.ApplyDefaults()
	assert.Equal(t, candidatePalette[0], stats.Candidates[0].Color)
	assert.Equal(t, "#000000", stats.Candidates[1].Color)

	stats.Candidates[0].Percentage = 101
	assert.ErrorIs(t, stats.Validate(), ErrInvalidPercentage)

	stats.Candidates[0].Percentage = 46.2
	stats.Polling.LGAsReported = -1
	assert.ErrorIs(t, stats.Validate(), ErrNegativeCount)
}

func TestStateDefaults(t *testing.T) {
	s := State{Name: "Cross River"}
	s.ApplyDefaults()
	assert.Equal(t, "cross-river", s.Slug)
	assert.Equal(t, StateStatusUpcoming, s.Status)
	assert.NoError(t, s.Validate())

	s.Status = "cancelled"
	assert.ErrorIs(t, s.Validate(), ErrInvalidStateStatus)
}

func TestPollingStatsRatios(t *testing.T) {
	p := PollingStats{RegisteredVoters: 200, AccreditedVoters: 50, PollingUnits: 10, PollingUnitsReported: 4}
	assert.InDelta(t, 25.0, p.Turnout(), 0.001)
	assert.InDelta(t, 40.0, p.ReportingProgress(), 0.001)
	assert.Zero(t, PollingStats{}.Turnout())
}
