package domain

import (
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name              string
		input             string
		expectedRaw       string
		expectedFragments []string
	}{
		{
			name:              "single word",
			input:             "Seattle",
			expectedRaw:       "seattle",
			expectedFragments: []string{"seattle"},
		},
		{
			name:              "multiple words",
			input:             "  New York ",
			expectedRaw:       "new york",
			expectedFragments: []string{"new", "york"},
		},
		{
			name:              "hyphenated",
			input:             "san-francisco",
			expectedRaw:       "san-francisco",
			expectedFragments: []string{"san", "francisco"},
		},
		{
			name:              "empty query",
			input:             "",
			expectedRaw:       "",
			expectedFragments: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := ParseQuery(tt.input)

			if query.Raw != tt.expectedRaw {
				t.Errorf("Raw = %q, want %q", query.Raw, tt.expectedRaw)
			}

			if !slicesEqual(query.Fragments, tt.expectedFragments) {
				t.Errorf("Fragments = %v, want %v", query.Fragments, tt.expectedFragments)
			}
		})
	}
}

func TestLocationID(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Seattle", want: "seattle"},
		{name: "  New York ", want: "new-york"},
		{name: "St. Louis", want: "st-louis"},
		{name: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocationID(tt.name); got != tt.want {
				t.Errorf("LocationID(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScoreLocation(t *testing.T) {
	tests := []struct {
		name           string
		queryStr       string
		locationName   string
		expectPositive bool
	}{
		{
			name:           "exact match",
			queryStr:       "seattle",
			locationName:   "Seattle",
			expectPositive: true,
		},
		{
			name:           "prefix match",
			queryStr:       "sea",
			locationName:   "Seattle",
			expectPositive: true,
		},
		{
			name:           "second word",
			queryStr:       "york",
			locationName:   "New York",
			expectPositive: true,
		},
		{
			name:           "fuzzy match",
			queryStr:       "sttl",
			locationName:   "Seattle",
			expectPositive: true,
		},
		{
			name:           "no match",
			queryStr:       "xyz",
			locationName:   "Seattle",
			expectPositive: false,
		},
		{
			name:           "one fragment unmatched",
			queryStr:       "new xyz",
			locationName:   "New York",
			expectPositive: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := &Location{
				ID:   LocationID(tt.locationName),
				Name: tt.locationName,
			}

			score := ScoreLocation(ParseQuery(tt.queryStr), loc)

			if tt.expectPositive && score <= 0 {
				t.Errorf("Expected positive score, got %f", score)
			}

			if !tt.expectPositive && score > 0 {
				t.Errorf("Expected zero score, got %f", score)
			}
		})
	}
}

func TestRankLocations_DisabledFilter(t *testing.T) {
	locations := []*Location{
		{ID: "seattle", Name: "Seattle", Weather: Rainy},
		{ID: "seaside", Name: "Seaside", Weather: Sunny, Disabled: true},
		{ID: "sealand", Name: "Sealand", Weather: Snowy},
	}

	candidates := RankLocations(ParseQuery("sea"), locations)

	if len(candidates) != 2 {
		t.Errorf("Expected 2 candidates (disabled should be filtered), got %d", len(candidates))
	}

	for _, c := range candidates {
		if c.Location.Disabled {
			t.Error("Disabled location should not be in candidates")
		}
	}
}

func TestRankLocations_ExactBeatsPrefix(t *testing.T) {
	locations := []*Location{
		{ID: "newark", Name: "Newark"},
		{ID: "new-york", Name: "New York"},
		{ID: "new-orleans", Name: "New Orleans"},
	}

	best := FindBestLocation(ParseQuery("new york"), locations)
	if best == nil || best.ID != "new-york" {
		t.Fatalf("FindBestLocation() = %v, want new-york", best)
	}
}

func TestRankLocations_LookupsBreakTies(t *testing.T) {
	locations := []*Location{
		{ID: "seaside", Name: "Seaside", Lookups: 2},
		{ID: "seattle", Name: "Seattle", Lookups: 100},
	}

	candidates := RankLocations(ParseQuery("sea"), locations)
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}

	if candidates[0].Location.ID != "seattle" {
		t.Errorf("Expected seattle to rank first due to lookups, got %s", candidates[0].Location.ID)
	}
	if candidates[0].UsageScore <= candidates[1].UsageScore {
		t.Errorf("UsageScore %f should exceed %f", candidates[0].UsageScore, candidates[1].UsageScore)
	}
}

func TestRankLocations_StableOrderOnEqualScores(t *testing.T) {
	locations := []*Location{
		{ID: "seattle", Name: "Seattle"},
		{ID: "seaside", Name: "Seaside"},
	}

	for i := 0; i < 5; i++ {
		candidates := RankLocations(ParseQuery("sea"), locations)
		if candidates[0].Location.ID != "seaside" {
			t.Fatalf("equal scores should order by ID, got %s first", candidates[0].Location.ID)
		}
	}
}

func TestFindBestLocationNoMatch(t *testing.T) {
	locations := []*Location{{ID: "seattle", Name: "Seattle"}}
	if best := FindBestLocation(ParseQuery("zzz"), locations); best != nil {
		t.Errorf("FindBestLocation() = %v, want nil", best)
	}
}

// TestResolveScenarios runs typical user queries against a small location set
func TestResolveScenarios(t *testing.T) {
	newLocations := func() []*Location {
		return []*Location{
			{ID: "san-francisco", Name: "San Francisco", Weather: Sunny},
			{ID: "san-diego", Name: "San Diego", Weather: Sunny},
			{ID: "santiago", Name: "Santiago", Weather: Rainy},
			{ID: "new-york", Name: "New York", Weather: Snowy},
			{ID: "newark", Name: "Newark", Weather: Rainy},
		}
	}

	tests := []struct {
		name        string
		query       string
		lookups     map[string]int64
		expectedTop string
	}{
		{name: "partial second word", query: "san fran", expectedTop: "san-francisco"},
		{name: "second word only", query: "diego", expectedTop: "san-diego"},
		{name: "full two-word name", query: "New York", expectedTop: "new-york"},
		{name: "exact word beats prefix", query: "new", expectedTop: "new-york"},
		{name: "single-word exact", query: "newark", expectedTop: "newark"},
		{name: "tie broken by id", query: "san", expectedTop: "san-diego"},
		{name: "tie broken by lookups", query: "san", lookups: map[string]int64{"san-francisco": 99}, expectedTop: "san-francisco"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locations := newLocations()
			for _, loc := range locations {
				loc.Lookups = tt.lookups[loc.ID]
			}

			best := FindBestLocation(ParseQuery(tt.query), locations)
			if best == nil {
				t.Fatalf("FindBestLocation(%q) = nil, want %s", tt.query, tt.expectedTop)
			}
			if best.ID != tt.expectedTop {
				t.Errorf("FindBestLocation(%q) = %s, want %s", tt.query, best.ID, tt.expectedTop)
			}
		})
	}
}
