// Command transit reconciles clearing account ledgers.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/transitory/cmd"
	"github.com/etnz/transitory/logger"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion.
func completion() *complete.Command {
	// .xls, .xlsx, .xlsm and .csv
	ledgers := predict.Files("*.[xc]s*")
	encodings := predict.Set{"utf-8", "windows-1252"}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":  predict.Files("*.yaml"),
			"profile": predict.Something,
			"v":       predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"reconcile": {
				Flags: map[string]complete.Predictor{
					"o":            predict.Files("*"),
					"format":       predict.Set{"xlsx", "csv"},
					"transactions": predict.Files("*.jsonl"),
					"all-notes":    predict.Nothing,
					"encoding":     encodings,
					"sheet":        predict.Something,
					"q":            predict.Nothing,
				},
				Args: ledgers,
			},
			"inspect": {
				Flags: map[string]complete.Predictor{
					"n":        predict.Something,
					"encoding": encodings,
					"sheet":    predict.Something,
				},
				Args: ledgers,
			},
			"notes": {
				Flags: map[string]complete.Predictor{"all-notes": predict.Nothing},
			},
			"topic": {
				Flags: map[string]complete.Predictor{"l": predict.Nothing},
				Args:  predict.Set{"*", "readme", "reconcile", "config", "notes"},
			},
		},
	}
}

func main() {
	completion().Complete("transit")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	// Unknown subcommands are delegated to transit-<name> binaries.
	if flag.NArg() > 0 {
		known := false
		commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
			if c.Name() == flag.Arg(0) {
				known = true
			}
		})
		if !known {
			if found, code := cmd.RunExtension(flag.Arg(0), flag.Args()[1:]); found {
				os.Exit(code)
			}
		}
	}

	ctx := logger.WithContext(context.Background(), cmd.NewLogger())
	os.Exit(int(commander.Execute(ctx)))
}
