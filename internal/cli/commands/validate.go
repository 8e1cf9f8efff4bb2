package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/joblog/pkg/config"
	"github.com/ccollicutt/joblog/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a joblog configuration file without reading any logs.

Checks:
  - YAML syntax
  - Thresholds are positive and warning < error
  - Report format
  - Webhook URLs and triggers
  - Log source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return errors.Wrap(err, "validation failed")
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Warning threshold: %s\n", cfg.Thresholds.Warning)
	fmt.Fprintf(out, "  Error threshold:   %s\n", cfg.Thresholds.Error)
	fmt.Fprintf(out, "  Report:            %s\n", cfg.Output.Report)
	fmt.Fprintf(out, "  Webhooks:          %d\n", len(cfg.Webhooks))
	fmt.Fprintf(out, "  Log sources:       %d pattern(s)\n", len(cfg.LogSources))

	if len(cfg.LogSources) == 0 {
		return nil
	}

	files, err := parser.ExpandGlobs(cfg.LogSources)
	if err != nil {
		fmt.Fprintf(out, "\nWarning: Error expanding log source patterns: %v\n", err)
		return nil
	}

	fmt.Fprintf(out, "\nLog files:\n")
	for _, f := range files {
		status := "ok"
		if !fileExists(f) {
			status = "not found"
		}
		fmt.Fprintf(out, "  - %s (%s)\n", f, status)
	}

	return nil
}

func fileExists(path string) bool {
	if path == parser.StdinName {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
