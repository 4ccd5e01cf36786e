// Package cmd implements the transit command line application.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/transitory"
	"github.com/etnz/transitory/logger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reconcileCmd{}, "ledger")
	c.Register(&inspectCmd{}, "ledger")
	c.Register(&notesCmd{}, "ledger")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a YAML configuration file (column aliases, tolerance, invoice markers)")
var profile = flag.String("profile", "", "Name of the configuration profile to apply on top of the configuration file")

// Verbose enables debug logs.
var Verbose = flag.Bool("v", false, "Print debug logs on stderr")

// NewLogger returns the application logger, as configured by the global flags.
func NewLogger() zerolog.Logger { return logger.New(*Verbose) }

// loadConfig reads the configuration selected by the global flags, or the
// default one.
func loadConfig() (transitory.Config, error) {
	if *configFile == "" {
		if *profile != "" {
			return transitory.Config{}, fmt.Errorf("profile %q requires a configuration file", *profile)
		}
		return transitory.DefaultConfig(), nil
	}
	f, err := os.Open(*configFile)
	if err != nil {
		return transitory.Config{}, err
	}
	defer f.Close()
	cfg, err := transitory.DecodeConfig(f, *profile)
	if err != nil {
		return transitory.Config{}, fmt.Errorf("%s: %w", *configFile, err)
	}
	return cfg, nil
}

// printMarkdown renders markdown on the terminal, or prints it as is when it
// cannot be rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
