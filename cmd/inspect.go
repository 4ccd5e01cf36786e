package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/transitory"
	"github.com/etnz/transitory/logger"
	"github.com/etnz/transitory/renderer"
	"github.com/etnz/transitory/sheet"
	"github.com/google/subcommands"
)

type inspectCmd struct {
	preview  int
	encoding string
	sheet    string
}

func (*inspectCmd) Name() string     { return "inspect" }
func (*inspectCmd) Synopsis() string { return "show how a ledger is understood" }
func (*inspectCmd) Usage() string {
	return `transit inspect [-n <rows>] [<ledger>]

  Locate the header row of a ledger extract, map its columns and preview the
  normalized transactions, without reconciling anything. With "-", the ledger
  is read from the standard input.
`
}

func (c *inspectCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.preview, "n", 10, "Number of transactions to preview, 0 for all")
	f.StringVar(&c.encoding, "encoding", sheet.UTF8, "Encoding of CSV ledgers (utf-8, windows-1252)")
	f.StringVar(&c.sheet, "sheet", "", "Worksheet to read. Defaults to the first one.")
}

func (c *inspectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	input, err := inputFile(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}
	engine, err := transitory.NewEngine(cfg, logger.FromContext(ctx))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	grid, err := readLedger(input, os.Stdin, sheet.Options{Sheet: c.sheet, Encoding: c.encoding})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", input, err)
		return subcommands.ExitFailure
	}
	schema, txs, err := engine.Transactions(grid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SchemaMarkdown(schema, txs, c.preview))
	return subcommands.ExitSuccess
}
