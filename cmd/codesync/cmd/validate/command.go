// Package validate provides the validate command implementation.
package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/codesync/cmd/application"
	"github.com/agentstation/codesync/internal/cmd/output"
	"github.com/agentstation/codesync/pkg/errors"
	"github.com/agentstation/codesync/pkg/logging"
)

// ErrDrift is returned when at least one file differs from its definition.
var ErrDrift = errors.New("drift detected")

// Flags holds the validate command flags.
type Flags struct {
	Manifest string
}

// NewCommand creates the validate command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "validate [path...]",
		GroupID: "core",
		Short:   "Report drift between source files and the manifest",
		Long: `Validate checks every file listed in the manifest against its definition
and reports each missing or differing construct. Files are never modified.

The command exits non-zero when any file has drifted.`,
		Example: `  codesync validate            # Check every file in codesync.yaml
  codesync validate -o json    # Machine readable report
  codesync validate src/a.ts   # Check one entry`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd, app, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.Manifest, "manifest", "m", "", "manifest file (default from config, codesync.yaml)")

	return cmd
}

// Execute audits the manifest named by flags and prints the report.
func Execute(cmd *cobra.Command, app application.Application, flags *Flags, paths []string) error {
	ctx := cmd.Context()
	logger := app.Logger()

	m, err := app.Manifest(flags.Manifest)
	if err != nil {
		return err
	}
	if m, err = application.SelectFiles(m, paths); err != nil {
		return err
	}

	engine, err := app.Engine()
	if err != nil {
		return err
	}

	results, err := engine.AuditAll(logging.WithLogger(ctx, logger), m)
	if err != nil {
		return err
	}

	report := output.NewAuditReport(results)
	formatter := output.NewFormatter(output.DetectFormat(app.OutputFormat()))
	if err := formatter.Format(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if !report.Valid {
		return fmt.Errorf("%w: %d issues", ErrDrift, report.Issues())
	}
	return nil
}
