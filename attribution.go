package transitory

import (
	"sort"

	"github.com/etnz/transitory/date"
	"github.com/shopspring/decimal"
)

// MaxResponsibleNotes bounds the number of notes an attribution may select.
// Searching subsets up to this size stays cheap (C(n,4) at worst) while real
// imbalances rarely involve more than a handful of missing counterparts.
const MaxResponsibleNotes = 4

// Method tells how an attribution was found.
type Method int

const (
	// Unattributed: no candidate note on that day.
	Unattributed Method = iota
	// Exact: the selected notes sum to the target within the tolerance.
	Exact
	// Approximate: the largest differences that come closest to the target.
	Approximate
)

func (m Method) String() string {
	switch m {
	case Exact:
		return "exact"
	case Approximate:
		return "approximate"
	default:
		return "unattributed"
	}
}

// Candidate is a note whose difference may explain an imbalance.
type Candidate struct {
	NoteID     string
	Difference decimal.Decimal
}

// Attribution is the set of notes held responsible for a day's imbalance.
type Attribution struct {
	Day     date.Date
	Target  decimal.Decimal // the day difference
	NoteIDs []string        // in candidate order
	Method  Method
	Gap     decimal.Decimal // |sum of selected differences - target|
}

// Contains reports whether note was selected.
func (a Attribution) Contains(note string) bool {
	for _, n := range a.NoteIDs {
		if n == note {
			return true
		}
	}
	return false
}

// Attribute selects the smallest set of candidates whose differences sum to
// target within eps. Sizes are tried in increasing order up to
// MaxResponsibleNotes, and within a size the first combination in enumeration
// order wins.
//
// When no exact set exists, candidates are ranked by absolute difference and
// the prefix (of length 1 to MaxResponsibleNotes) whose sum is closest to the
// target is returned as an approximation.
func Attribute(target decimal.Decimal, candidates []Candidate, eps decimal.Decimal) Attribution {
	if len(candidates) == 0 {
		return Attribution{Target: target, Method: Unattributed, Gap: target.Abs()}
	}
	maxK := min(MaxResponsibleNotes, len(candidates))

	for k := 1; k <= maxK; k++ {
		var found []int
		combinations(len(candidates), k, func(idx []int) bool {
			sum := decimal.Zero
			for _, i := range idx {
				sum = sum.Add(candidates[i].Difference)
			}
			if within(sum, target, eps) {
				found = append([]int(nil), idx...)
				return false
			}
			return true
		})
		if found != nil {
			sel := make([]Candidate, len(found))
			for j, i := range found {
				sel[j] = candidates[i]
			}
			return newAttribution(target, sel, Exact)
		}
	}

	ranked := append([]Candidate(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Difference.Abs().GreaterThan(ranked[j].Difference.Abs())
	})
	best, bestGap := 0, decimal.Zero
	sum := decimal.Zero
	for k := 1; k <= maxK; k++ {
		sum = sum.Add(ranked[k-1].Difference)
		gap := sum.Sub(target).Abs()
		if best == 0 || gap.LessThan(bestGap) {
			best, bestGap = k, gap
		}
	}
	return newAttribution(target, ranked[:best], Approximate)
}

func newAttribution(target decimal.Decimal, sel []Candidate, m Method) Attribution {
	a := Attribution{Target: target, Method: m}
	sum := decimal.Zero
	for _, c := range sel {
		a.NoteIDs = append(a.NoteIDs, c.NoteID)
		sum = sum.Add(c.Difference)
	}
	a.Gap = sum.Sub(target).Abs()
	return a
}

// combinations calls yield with every k-combination of [0,n) in
// lexicographic order, until yield returns false. idx must not be retained.
func combinations(n, k int, yield func(idx []int) bool) {
	if k <= 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		if !yield(idx) {
			return
		}
		// find the rightmost index that can still move.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// Candidates returns the notes of a day whose difference exceeds eps, by
// difference descending (then note).
func (a *Aggregates) Candidates(day date.Date, eps decimal.Decimal) []Candidate {
	var res []Candidate
	for _, nd := range a.NoteDays {
		if nd.Day != day || within(nd.Difference, decimal.Zero, eps) {
			continue
		}
		res = append(res, Candidate{NoteID: nd.NoteID, Difference: nd.Difference})
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Difference.GreaterThan(res[j].Difference) })
	return res
}

// AttributeDays attributes the imbalance of every unbalanced day, by day.
func AttributeDays(agg *Aggregates, eps decimal.Decimal) []Attribution {
	var res []Attribution
	for _, d := range agg.Unbalanced() {
		a := Attribute(d.Difference, agg.Candidates(d.Day, eps), eps)
		a.Day = d.Day
		res = append(res, a)
	}
	return res
}
