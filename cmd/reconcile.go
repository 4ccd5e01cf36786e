package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/transitory"
	"github.com/etnz/transitory/logger"
	"github.com/etnz/transitory/renderer"
	"github.com/etnz/transitory/sheet"
	"github.com/google/subcommands"
)

// reconcileCmd holds the flags for the 'reconcile' subcommand.
type reconcileCmd struct {
	output       string
	format       string
	transactions string
	allNotes     bool
	encoding     string
	sheet        string
	quiet        bool
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "reconcile a clearing account ledger" }
func (*reconcileCmd) Usage() string {
	return `transit reconcile [-o <output>] [-format xlsx|csv] [<ledger>]

  Reconcile a clearing account ledger extract, day by day and note by note,
  and write the report tables next to it.

  Without <ledger>, the most recent spreadsheet of the working directory is used.
  With "-", the ledger is read from the standard input and -o is required.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Report destination. Defaults to <ledger>_report.xlsx, or a <ledger>_report directory for csv.")
	f.StringVar(&c.format, "format", "xlsx", "Report format (xlsx, csv)")
	f.StringVar(&c.transactions, "transactions", "", "Also dump the normalized transactions into this JSONL file")
	f.BoolVar(&c.allNotes, "all-notes", false, "Keep every note id found in a narration, not only the best one")
	f.StringVar(&c.encoding, "encoding", sheet.UTF8, "Encoding of CSV ledgers and reports (utf-8, windows-1252)")
	f.StringVar(&c.sheet, "sheet", "", "Worksheet to read. Defaults to the first one.")
	f.BoolVar(&c.quiet, "q", false, "Do not print the report summary")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "xlsx" && c.format != "csv" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	input, err := inputFile(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if input == stdinLedger && c.output == "" {
		fmt.Fprintf(os.Stderr, "Error: -o is required when the ledger is read from the standard input\n")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.allNotes {
		cfg.FirstNoteOnly = false
	}

	log := logger.WithFields(logger.FromContext(ctx), map[string]interface{}{"ledger": filepath.Base(input)})
	engine, err := transitory.NewEngine(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	grid, err := readLedger(input, os.Stdin, sheet.Options{Sheet: c.sheet, Encoding: c.encoding})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", input, err)
		return subcommands.ExitFailure
	}
	log.Debug().Int("rows", len(grid)).Msg("ledger read")

	report, err := engine.Reconcile(grid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	output := c.output
	if output == "" {
		output = defaultOutput(input, c.format)
	}
	if err := c.writer(output).WriteTables(report.Tables()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Info().Str("output", output).Str("run", report.RunID).Msg("report written")

	if c.transactions != "" {
		if err := c.dumpTransactions(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing transactions: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	if !c.quiet {
		printMarkdown(renderer.ReportMarkdown(report, cfg.Currency))
	}
	return subcommands.ExitSuccess
}

// writer returns the TableWriter for the selected format.
func (c *reconcileCmd) writer(output string) transitory.TableWriter {
	if c.format == "csv" {
		return sheet.CSVWriter{
			Dir:      output,
			Prefix:   strings.TrimSuffix(filepath.Base(output), reportSuffix) + "_",
			Encoding: c.encoding,
		}
	}
	return sheet.XLSXWriter{Path: output}
}

func (c *reconcileCmd) dumpTransactions(report *transitory.Report) error {
	f, err := os.Create(c.transactions)
	if err != nil {
		return err
	}
	if err := transitory.EncodeTransactions(f, report.Transactions); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
