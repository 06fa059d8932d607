// Package sync provides the sync command implementation.
package sync

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/codesync"
	"github.com/agentstation/codesync/cmd/application"
	"github.com/agentstation/codesync/internal/cmd/output"
	"github.com/agentstation/codesync/pkg/logging"
)

// Flags holds the sync command flags.
type Flags struct {
	Manifest string
	DryRun   bool
}

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync [path...]",
		GroupID: "core",
		Short:   "Reconcile source files with the manifest",
		Long: `Sync reads the manifest and brings every listed file in line with its
definition. Missing files are created, missing constructs are inserted and
constructs that differ from their definition are updated. Code the manifest
does not mention is preserved.

Paths restrict the run to the matching manifest entries.`,
		Example: `  codesync sync                      # Reconcile every file in codesync.yaml
  codesync sync -m api/codesync.yaml # Use another manifest
  codesync sync --dry-run            # Report what would change
  codesync sync src/user.ts          # Reconcile one entry`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd, app, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.Manifest, "manifest", "m", "", "manifest file (default from config, codesync.yaml)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "report changes without writing files")

	return cmd
}

// Execute runs sync for the manifest named by flags and prints the report.
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

	var opts []codesync.Option
	if flags.DryRun {
		opts = append(opts, codesync.WithDryRun(true))
	}
	engine, err := app.Engine(opts...)
	if err != nil {
		return err
	}

	logger.Debug().
		Int("files", len(m.Files)).
		Bool("dry_run", flags.DryRun).
		Msg("Starting sync")

	results, err := engine.SyncAll(logging.WithLogger(ctx, logger), m)
	if err != nil {
		return err
	}

	report := output.NewSyncReport(results, flags.DryRun || dryRun(results))
	formatter := output.NewFormatter(output.DetectFormat(app.OutputFormat()))
	return formatter.Format(cmd.OutOrStdout(), report)
}

// dryRun reports whether the engine held back a change, which only happens
// when dry run came from configuration rather than the flag.
func dryRun(results []*codesync.FileResult) bool {
	for _, r := range results {
		if r.Changed && !r.Written {
			return true
		}
	}
	return false
}
