// Package transitory reconciles the monthly ledger of a transitory (clearing)
// account. Every entry posted on such an account should eventually be offset
// by another entry referencing the same commercial document (an invoice, a
// note). The package finds the calendar days that do not balance and, for
// each of them, the notes that most likely explain the imbalance.
//
// The engine is a forward-only pipeline:
//   - Schema resolution: locate the header row of a raw grid and map its
//     columns to the canonical fields (date, narration, debit, credit, batch).
//   - Consolidation: merge narration-only continuation rows into the dated
//     entry they belong to.
//   - Normalization: parse locale formatted amounts and day-first dates.
//   - Note extraction: pull a canonical document reference out of each
//     narration.
//   - Aggregation: monthly, daily, per note and per (day, note) totals.
//   - Attribution: a bounded subset-sum search selecting at most four notes
//     whose differences explain a day's imbalance.
//   - Report assembly: six tables handed to a TableWriter.
//
// Reading spreadsheets and writing the report are left to collaborators (see
// package sheet); the engine only consumes a Grid and returns a Report.
package transitory
