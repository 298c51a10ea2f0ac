package domain

import (
	"math"
	"sort"
	"strings"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// Whole-name match bonus
	ScoreExactNameBonus = 200.0

	// Lookup weight (usage counter contributes to final score)
	ScoreLookupWeight = 0.1

	// fuzzyThreshold is the minimum character overlap for a fuzzy match
	fuzzyThreshold = 0.5
)

// Candidate represents a location candidate with its match score
type Candidate struct {
	Location     *Location
	LexicalScore float64
	UsageScore   float64
	TotalScore   float64
}

// ScoreLocation calculates the match score for a location against a query
func ScoreLocation(query *Query, loc *Location) float64 {
	if query == nil || loc == nil || len(query.Fragments) == 0 {
		return 0.0
	}

	nameFragments := NameFragments(loc.Name)
	if len(nameFragments) == 0 {
		return 0.0
	}

	// Whole name typed (ignoring separators)
	if strings.Join(query.Fragments, "") == strings.Join(nameFragments, "") {
		return ScoreExactMatch + ScoreExactNameBonus
	}

	// Every query fragment must match some name fragment
	var total float64
	for _, qFrag := range query.Fragments {
		best := 0.0
		for i, nFrag := range nameFragments {
			if s := scoreFragment(qFrag, nFrag, i); s > best {
				best = s
			}
		}
		if best == 0.0 {
			return 0.0
		}
		total += best
	}

	return total
}

// scoreFragment scores a single query fragment against a name fragment
func scoreFragment(queryFrag, nameFrag string, position int) float64 {
	if queryFrag == "" || nameFrag == "" {
		return 0.0
	}

	if queryFrag == nameFrag {
		return ScoreExactMatch + calculatePositionBonus(position)
	}

	if strings.HasPrefix(nameFrag, queryFrag) {
		return ScorePrefixMatch + calculatePositionBonus(position)
	}

	if index := strings.Index(nameFrag, queryFrag); index >= 0 {
		// Earlier substring matches get higher score
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(nameFrag)))
		return ScoreSubstringMatch + substringBonus
	}

	similarity := calculateSimilarity(queryFrag, nameFrag)
	if similarity > fuzzyThreshold {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// calculatePositionBonus gives bonus for earlier positions
func calculatePositionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// calculateSimilarity is the ratio of query characters found in the target
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}

	matches := 0
	total := 0
	for _, c := range s1 {
		total++
		if strings.ContainsRune(s2, c) {
			matches++
		}
	}

	return float64(matches) / float64(total)
}

// RankLocations ranks locations by combining lexical and lookup scores
func RankLocations(query *Query, locations []*Location) []*Candidate {
	candidates := make([]*Candidate, 0, len(locations))

	for _, loc := range locations {
		if loc == nil || loc.Disabled {
			continue
		}

		lexicalScore := ScoreLocation(query, loc)
		if lexicalScore == 0.0 {
			continue
		}

		// Logarithmic to prevent dominance
		usageScore := 0.0
		if loc.Lookups > 0 {
			usageScore = math.Log10(float64(loc.Lookups)+1) * ScoreLookupWeight * 100
		}

		candidates = append(candidates, &Candidate{
			Location:     loc,
			LexicalScore: lexicalScore,
			UsageScore:   usageScore,
			TotalScore:   lexicalScore + usageScore,
		})
	}

	// Ties break on ID so results do not depend on map iteration order
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].TotalScore != candidates[j].TotalScore {
			return candidates[i].TotalScore > candidates[j].TotalScore
		}
		return candidates[i].Location.ID < candidates[j].Location.ID
	})

	return candidates
}

// FindBestLocation finds the best matching location for a query
func FindBestLocation(query *Query, locations []*Location) *Location {
	candidates := RankLocations(query, locations)
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0].Location
}
