// Package cli provides the command-line interface for joblog.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/joblog/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(NewRootCommand(), os.Stderr)
}

func run(rootCmd *cobra.Command, stderr io.Writer) int {
	commands.ExitCode = 0
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors keeps cobra from printing this itself
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			_, _ = fmt.Fprintf(stderr, "Hint: %s\n", hint)
		}
		return 2 // Configuration or usage error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "joblog",
		Short: "Check job durations in a START/END job log",
		Long: `joblog reads a job log, pairs START and END events per job, and grades
each completed job against a warning and an error threshold.

Log lines look like:
  HH:MM:SS, <description>, START|END, <process id>

It reports:
  - Jobs that ran longer than the warning or error threshold
  - END events without a matching START
  - Jobs that started but never finished
  - Lines that cannot be parsed`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
