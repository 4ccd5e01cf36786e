package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/transitory"
	"github.com/etnz/transitory/renderer"
	"github.com/google/subcommands"
)

type notesCmd struct {
	allNotes bool
}

func (*notesCmd) Name() string     { return "notes" }
func (*notesCmd) Synopsis() string { return "extract note ids from narrations" }
func (*notesCmd) Usage() string {
	return `transit notes [-all-notes] [<narration>...]

  Print the note ids found in each narration. Narrations are read from the
  standard input, one per line, when none is given.
`
}

func (c *notesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.allNotes, "all-notes", false, "Show every note id found, not only the best one")
}

func (c *notesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}
	narrations := f.Args()
	if len(narrations) == 0 {
		narrations, err = readLines(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading narrations: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	x := transitory.NewNoteExtractor(cfg.InvoiceMarkers, cfg.FirstNoteOnly && !c.allNotes)
	printMarkdown(renderer.NotesMarkdown(narrations, x))
	return subcommands.ExitSuccess
}

// readLines returns the non blank lines of f.
func readLines(f *os.File) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
