package renderer

import (
	"io"

	"github.com/etnz/transitory"
)

// ReportMarkdown renders the console summary of a reconciliation: the monthly
// totals, the unbalanced days and, for each of them, the notes held
// responsible with their transactions.
func ReportMarkdown(r *transitory.Report, currency string) string {
	md := newMarkdownRenderer(currency)

	title := r.Period.Identifier()
	if title == "" {
		title = "empty ledger"
	}
	md.Printf("# Reconciliation %s\n\n", title)

	md.Printf("## Monthly Summary\n\n")
	md.Printf("| Debit | Credit | Difference | Balanced |\n")
	md.Printf("|---:|---:|---:|:---:|\n")
	s := r.Summary
	md.Printf("| %s | %s | %s | %s |\n\n", md.money.Format(s.Debit), md.money.Format(s.Credit), md.money.Signed(s.Value), check(s.Balanced))

	if r.Balanced() {
		md.Printf("All %d days are balanced.\n", len(r.DailyTotals))
		return md.String()
	}

	md.Printf("## Unbalanced Days\n\n")
	md.Printf("| Day | Debit | Credit | Difference |\n")
	md.Printf("|:---|---:|---:|---:|\n")
	for _, d := range r.UnbalancedDays {
		md.Printf("| %s | %s | %s | %s |\n", d.Day, md.money.Format(d.Debit), md.money.Format(d.Credit), md.money.Signed(d.Difference))
	}
	md.Printf("\n")

	md.Printf("## Responsible Notes\n\n")
	for _, a := range r.Attributions {
		md.renderAttribution(r, a)
	}
	return md.String()
}

func (md *markdownRenderer) renderAttribution(r *transitory.Report, a transitory.Attribution) {
	md.Printf("### %s\n\n", a.Day)
	switch a.Method {
	case transitory.Unattributed:
		md.Printf("No note explains the difference of %s.\n\n", md.money.Signed(a.Target))
		return
	case transitory.Exact:
		md.Printf("%d note(s) explain the difference of %s.\n\n", len(a.NoteIDs), md.money.Signed(a.Target))
	case transitory.Approximate:
		md.Printf("%d note(s) approximate the difference of %s (gap %s).\n\n", len(a.NoteIDs), md.money.Signed(a.Target), md.money.Format(a.Gap))
	}

	md.Printf("| Note | Debit | Credit | Difference | No counterpart |\n")
	md.Printf("|:---|---:|---:|---:|:---:|\n")
	for _, nd := range r.NoteDayDifferences {
		if nd.Day != a.Day || !nd.Responsible {
			continue
		}
		md.Printf("| %s | %s | %s | %s | %s |\n", cell(nd.NoteID), md.money.Format(nd.Debit), md.money.Format(nd.Credit), md.money.Signed(nd.Difference), check(nd.NoCounterpart()))
	}
	md.Printf("\n")

	ConditionalBlock(md, func(w io.Writer) bool {
		n := 0
		io.WriteString(w, "Transactions:\n\n")
		for _, t := range r.ResponsibleTransactions {
			if t.Day() != a.Day {
				continue
			}
			n++
			io.WriteString(w, "- `"+t.NoteID+"` "+md.money.Signed(t.Value())+" "+cell(t.Narration)+"\n")
		}
		io.WriteString(w, "\n")
		return n > 0
	})
}
