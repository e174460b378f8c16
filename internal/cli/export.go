package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gensweep/internal/ctxlog"
	"github.com/roach88/gensweep/internal/ir"
	"github.com/roach88/gensweep/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	DBPath string
	Limit  int
}

// ExportResult is the JSON payload of the export command.
type ExportResult struct {
	store.Run
	Written int64 `json:"written"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <schema-file>",
		Short: "Write a schema's configurations into a SQLite store",
		Long: `Enumerate a schema and store every configuration as a new run.

Each run records the schema file, a hash of its bytes and its structural
count; configurations are stored with their content ID in enumeration
order. The run and its configurations are written in one transaction.

Examples:
  gensweep export bows.cue --db sweeps.db
  gensweep export big.yaml --db sweeps.db --limit 1000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "stop after N configurations (0 = all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExport(opts *ExportOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := newFormatter(opts.RootOptions, cmd)
	if opts.Limit < 0 {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Errorf("--limit must be non-negative, got %d", opts.Limit), nil)
	}

	sf, err := loadSchema(ctx, f, path)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, err, nil)
	}
	defer st.Close()

	run := store.Run{
		ID:         store.NewRunID(),
		Source:     path,
		SchemaHash: ir.SchemaHash(sf.Source),
		Count:      sf.Schema.Count(),
	}
	written, err := st.WriteRunWithConfigs(ctx, run, limited(sf.Schema, opts.Limit))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, err, nil)
	}
	ctxlog.FromContext(ctx).Info("export finished", "run_id", run.ID, "written", written, "db", opts.DBPath)

	result := ExportResult{Run: run, Written: written}
	if f.JSON() {
		return f.Success(result)
	}
	fmt.Fprintf(f.Writer, "✓ Exported %d configuration(s) from %s\n", written, path)
	fmt.Fprintf(f.Writer, "  run: %s\n", run.ID)
	return nil
}
