package transitory

import (
	"sort"

	"github.com/etnz/transitory/date"
	"github.com/shopspring/decimal"
)

// DefaultEpsilon is the tolerance under which a difference counts as zero.
var DefaultEpsilon = decimal.New(1, -2)

// Summary holds the totals of the whole ledger.
type Summary struct {
	Debit    decimal.Decimal
	Credit   decimal.Decimal
	Value    decimal.Decimal
	Balanced bool
}

// DayTotal holds the totals of a calendar day.
type DayTotal struct {
	Day        date.Date
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Difference decimal.Decimal
	Balanced   bool
}

// NoteTotal holds the totals of a note over the whole ledger.
type NoteTotal struct {
	NoteID     string
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Difference decimal.Decimal
}

// NoteDayTotal holds the totals of a note on a given day.
type NoteDayTotal struct {
	Day        date.Date
	NoteID     string
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Difference decimal.Decimal
	// number of entries with a positive debit, resp. credit.
	DebitEntries  int
	CreditEntries int
	// Responsible is set when the note was selected to explain the day's imbalance.
	Responsible bool
}

// NoCounterpart reports whether the note only has entries on one side that day.
func (n NoteDayTotal) NoCounterpart() bool { return n.DebitEntries == 0 || n.CreditEntries == 0 }

// noteDay is the key of a NoteDayTotal.
type noteDay struct {
	day  date.Date
	note string
}

// Aggregates are the totals computed over a set of transactions.
type Aggregates struct {
	Summary  Summary
	Days     []DayTotal     // by day
	Notes    []NoteTotal    // by difference descending, then note
	NoteDays []NoteDayTotal // by day, then note

	noteDayIndex map[noteDay]int
}

// NoteDay returns the totals of a note on a day.
func (a *Aggregates) NoteDay(day date.Date, note string) (NoteDayTotal, bool) {
	i, ok := a.noteDayIndex[noteDay{day, note}]
	if !ok {
		return NoteDayTotal{}, false
	}
	return a.NoteDays[i], true
}

// Unbalanced returns the days whose difference exceeds the tolerance.
func (a *Aggregates) Unbalanced() []DayTotal {
	var res []DayTotal
	for _, d := range a.Days {
		if !d.Balanced {
			res = append(res, d)
		}
	}
	return res
}

// Aggregate computes the monthly, daily, per note and per (day, note) totals
// of txs. Differences within eps of zero count as balanced.
func Aggregate(txs []Transaction, eps decimal.Decimal) *Aggregates {
	agg := &Aggregates{noteDayIndex: make(map[noteDay]int)}
	days := make(map[date.Date]*DayTotal)
	notes := make(map[string]*NoteTotal)
	noteDays := make(map[noteDay]*NoteDayTotal)

	for _, tx := range txs {
		debit, credit := tx.Debit.Decimal(), tx.Credit.Decimal()
		note := tx.NoteID
		if note == "" {
			note = NoNote
		}

		agg.Summary.Debit = agg.Summary.Debit.Add(debit)
		agg.Summary.Credit = agg.Summary.Credit.Add(credit)

		d, ok := days[tx.Day()]
		if !ok {
			d = &DayTotal{Day: tx.Day()}
			days[tx.Day()] = d
		}
		d.Debit = d.Debit.Add(debit)
		d.Credit = d.Credit.Add(credit)

		n, ok := notes[note]
		if !ok {
			n = &NoteTotal{NoteID: note}
			notes[note] = n
		}
		n.Debit = n.Debit.Add(debit)
		n.Credit = n.Credit.Add(credit)

		key := noteDay{tx.Day(), note}
		nd, ok := noteDays[key]
		if !ok {
			nd = &NoteDayTotal{Day: tx.Day(), NoteID: note}
			noteDays[key] = nd
		}
		nd.Debit = nd.Debit.Add(debit)
		nd.Credit = nd.Credit.Add(credit)
		if debit.IsPositive() {
			nd.DebitEntries++
		}
		if credit.IsPositive() {
			nd.CreditEntries++
		}
	}

	agg.Summary.Value = agg.Summary.Debit.Sub(agg.Summary.Credit)
	agg.Summary.Balanced = within(agg.Summary.Value, decimal.Zero, eps)

	for _, d := range days {
		d.Difference = d.Debit.Sub(d.Credit)
		d.Balanced = within(d.Difference, decimal.Zero, eps)
		agg.Days = append(agg.Days, *d)
	}
	sort.Slice(agg.Days, func(i, j int) bool { return agg.Days[i].Day.Before(agg.Days[j].Day) })

	for _, n := range notes {
		n.Difference = n.Debit.Sub(n.Credit)
		agg.Notes = append(agg.Notes, *n)
	}
	sort.Slice(agg.Notes, func(i, j int) bool {
		a, b := agg.Notes[i], agg.Notes[j]
		if c := a.Difference.Cmp(b.Difference); c != 0 {
			return c > 0
		}
		return a.NoteID < b.NoteID
	})

	for _, nd := range noteDays {
		nd.Difference = nd.Debit.Sub(nd.Credit)
		agg.NoteDays = append(agg.NoteDays, *nd)
	}
	sort.Slice(agg.NoteDays, func(i, j int) bool {
		a, b := agg.NoteDays[i], agg.NoteDays[j]
		if c := a.Day.Compare(b.Day); c != 0 {
			return c < 0
		}
		return a.NoteID < b.NoteID
	})
	for i, nd := range agg.NoteDays {
		agg.noteDayIndex[noteDay{nd.Day, nd.NoteID}] = i
	}
	return agg
}
