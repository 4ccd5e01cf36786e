package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Environment variables carrying the global flags to extensions.
const (
	EnvConfigFile = "TRANSIT_CONFIG"
	EnvProfile    = "TRANSIT_PROFILE"
	EnvVerbose    = "TRANSIT_VERBOSE"
)

// ExtensionPrefix starts the name of the external binaries run as transit subcommands.
const ExtensionPrefix = "transit-"

// RunExtension attempts to find and execute an external transit-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := ExtensionPrefix + subcommand
	log := NewLogger()

	lp, err := exec.LookPath(name)
	if err != nil {
		log.Debug().Err(err).Str("extension", name).Msg("extension not found in PATH")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Global flags are passed down as environment variables.
	cmd.Env = append(os.Environ(),
		EnvConfigFile+"="+*configFile,
		EnvProfile+"="+*profile,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)
	log.Debug().Str("extension", lp).Strs("args", args).Msg("running extension")

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
