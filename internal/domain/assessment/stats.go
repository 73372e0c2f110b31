package assessment

import "math"

// Stats is a histogram of a user's assessments by tier. Every tier is
// present, with zero when unused.
type Stats struct {
	Counts map[Recommendation]int `json:"counts"`
}

// NewStats zero-fills missing tiers and drops unknown ones.
func NewStats(counts map[Recommendation]int) Stats {
	s := Stats{Counts: make(map[Recommendation]int, len(Recommendations))}
	for _, r := range Recommendations {
		s.Counts[r] = counts[r]
	}
	return s
}

// Total is the number of assessments counted.
func (s Stats) Total() int {
	total := 0
	for _, c := range s.Counts {
		total += c
	}
	return total
}

// OverallHealthScore is the count-weighted mean of the tier weights
// (excellent 100, good 75, moderate 50, avoid 25), rounded. It is 0 when
// there are no assessments.
func OverallHealthScore(s Stats) int {
	total := s.Total()
	if total == 0 {
		return 0
	}
	weighted := 0
	for r, c := range s.Counts {
		weighted += r.Weight() * c
	}
	return int(math.Round(float64(weighted) / float64(total)))
}
