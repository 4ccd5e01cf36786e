package transitory

import (
	"fmt"
	"strings"
)

// SchemaError reports a ledger whose header row or mandatory columns cannot
// be identified. It is fatal for a run.
type SchemaError struct {
	// Reason is set when no header row could be found.
	Reason string
	// Missing lists the mandatory fields that no column matched.
	Missing []Field
	// Available lists the column names of the resolved table.
	Available []string
	// Closest maps a missing field to the most similar available column name.
	Closest map[Field]string
}

func (e *SchemaError) Error() string {
	if e.Reason != "" {
		return "schema: " + e.Reason
	}
	var b strings.Builder
	b.WriteString("schema: cannot identify mandatory columns: ")
	for i, f := range e.Missing {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(f))
		if c, ok := e.Closest[f]; ok && c != "" {
			fmt.Fprintf(&b, " (closest column %q)", c)
		}
	}
	fmt.Fprintf(&b, "; available columns: %q; adjust the column aliases", e.Available)
	return b.String()
}

// EmptyLedgerError reports a ledger with no data row below its header.
type EmptyLedgerError struct {
	HeaderRow int
}

func (e *EmptyLedgerError) Error() string {
	return fmt.Sprintf("ledger is empty below the header row %d", e.HeaderRow)
}
