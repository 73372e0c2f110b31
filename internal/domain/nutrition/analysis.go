package nutrition

// Analysis is the ordered set of per-dimension results for one serving.
type Analysis struct {
	Results []Result
}

// Result looks up a dimension.
func (a Analysis) Result(d Dimension) (Result, bool) {
	for _, r := range a.Results {
		if r.Dimension == d {
			return r, true
		}
	}
	return Result{}, false
}

// HasData reports whether at least one dimension could be scored.
func (a Analysis) HasData() bool {
	for _, r := range a.Results {
		if r.Available {
			return true
		}
	}
	return false
}

// TotalPenalty sums all penalties.
func (a Analysis) TotalPenalty() int {
	total := 0
	for _, r := range a.Results {
		total += r.Penalty
	}
	return total
}

// TotalBonus sums all bonuses.
func (a Analysis) TotalBonus() int {
	total := 0
	for _, r := range a.Results {
		total += r.Bonus
	}
	return total
}

// BaseScore starts at 100, applies every penalty and bonus, then clamps.
func (a Analysis) BaseScore() int {
	return Clamp(100 - a.TotalPenalty() + a.TotalBonus())
}

// Flagged returns the results that raised a flag, in analysis order.
func (a Analysis) Flagged() []Result {
	var out []Result
	for _, r := range a.Results {
		if r.Flag.IsSet() {
			out = append(out, r)
		}
	}
	return out
}

// Clamp bounds a score to 0..100.
func Clamp(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
