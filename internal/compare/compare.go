package compare

import (
	"fmt"

	"github.com/danielpatrickdp/trace-mea/internal/cet"
)

// #region functions

// Function names a comparison policy over two converted traces.
type Function string

const (
	Equal                 Function = "equal"
	Include               Function = "include"
	IncludeWithError      Function = "include_with_error"
	IncludePartial        Function = "include_partial"
	IncludePartialOrdered Function = "include_partial_ordered"
	Skip                  Function = "skip"
)

// DefaultFunction is the comparison applied when none is requested.
const DefaultFunction = Equal

// DefaultSimilarityThreshold is the percentage of match required for two
// traces to be considered equivalent by default.
const DefaultSimilarityThreshold = 100.0

// FunctionInfo pairs a comparison function with its stable registry id.
type FunctionInfo struct {
	Name Function
	ID   int
}

// Functions lists the known comparison functions in registry order.
func Functions() []FunctionInfo {
	return []FunctionInfo{
		{Equal, 0},
		{Include, 1},
		{IncludeWithError, 2},
		{IncludePartial, 3},
		{IncludePartialOrdered, 4},
		{Skip, 5},
	}
}

// ParseFunction resolves a comparison function by name.
func ParseFunction(name string) (Function, error) {
	for _, fi := range Functions() {
		if string(fi.Name) == name {
			return fi.Name, nil
		}
	}
	return "", fmt.Errorf("unknown comparison function %q", name)
}

// #endregion functions

// #region config

// Config holds comparator tuning knobs.
type Config struct {
	// ErrorTolerance is the fraction of the reference sequence's elements
	// allowed to be unmatched under include_with_error before the score
	// degrades from 1.0 to the matched fraction.
	ErrorTolerance float64
}

// DefaultConfig returns the comparator defaults.
func DefaultConfig() Config {
	return Config{ErrorTolerance: 0.1}
}

// #endregion config

// #region compare

// Compare scores the similarity of two converted traces in [0, 1] under the
// selected comparison function. Scoring uses the comparable projection only:
// ids and line numbers never influence the result.
func Compare(a, b []cet.Element, fn Function, cfg Config) (float64, error) {
	pa := cet.Project(a)
	pb := cet.Project(b)

	switch fn {
	case Skip:
		return 1.0, nil
	case Equal:
		if projectionsEqual(pa, pb) {
			return 1.0, nil
		}
		return 0.0, nil
	}

	small, large := pa, pb
	if len(pb) < len(pa) {
		small, large = pb, pa
	}
	if len(small) == 0 {
		return 1.0, nil
	}

	switch fn {
	case Include:
		if multisetMatch(small, large) == len(small) {
			return 1.0, nil
		}
		return 0.0, nil
	case IncludeWithError:
		matched := multisetMatch(small, large)
		missing := float64(len(small)-matched) / float64(len(small))
		if missing <= cfg.ErrorTolerance {
			return 1.0, nil
		}
		return float64(matched) / float64(len(small)), nil
	case IncludePartial:
		return float64(multisetMatch(small, large)) / float64(len(small)), nil
	case IncludePartialOrdered:
		return float64(lcsLength(small, large)) / float64(len(small)), nil
	}
	return 0, fmt.Errorf("unknown comparison function %q", fn)
}

// Equivalent reports whether a similarity score meets the threshold.
// Thresholds are percentages: 100 requires a full match.
func Equivalent(score, threshold float64) bool {
	const eps = 1e-9
	return score*100+eps >= threshold
}

// #endregion compare

// #region scoring

func projectionsEqual(a, b []cet.Comparable) bool {
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

// multisetMatch counts how many elements of small appear in large,
// ignoring order, with multiplicity.
func multisetMatch(small, large []cet.Comparable) int {
	counts := map[cet.Comparable]int{}
	for _, c := range large {
		counts[c]++
	}
	matched := 0
	for _, c := range small {
		if counts[c] > 0 {
			counts[c]--
			matched++
		}
	}
	return matched
}

// lcsLength computes the longest common subsequence length over the two
// projections, preserving relative order on both sides.
func lcsLength(a, b []cet.Comparable) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// #endregion scoring
