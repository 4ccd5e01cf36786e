package transitory

import (
	"github.com/etnz/transitory/date"
)

// day is a helper for tests to create a date from its ISO form.
func day(s string) date.Date { return date.MustParse(s) }

// tx is a helper for tests to create a transaction with a single note.
func tx(on string, note string, debit, credit float64) Transaction {
	t := Transaction{
		Date:      day(on),
		Narration: "NF " + note,
		Debit:     A(debit),
		Credit:    A(credit),
		NoteID:    note,
	}
	if note != NoNote {
		t.NoteIDs = []string{note}
	}
	return t
}

// ledgerGrid is a helper for tests to create a raw grid with a title block
// above the header, as the accounting exports have.
func ledgerGrid(rows ...[]string) Grid {
	g := TextGrid(
		[]string{"EMPRESA EXEMPLO LTDA"},
		[]string{"Razão da conta 1.1.2.05 - Conta transitória"},
		[]string{},
		[]string{"Data", "Lote", "Histórico", "Débito", "Crédito", "Saldo"},
	)
	return append(g, TextGrid(rows...)...)
}
