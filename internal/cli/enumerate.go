package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gensweep/internal/genschema"
	"github.com/roach88/gensweep/internal/ir"
)

// EnumerateOptions holds flags for the enumerate command.
type EnumerateOptions struct {
	*RootOptions
	Limit int // 0 means no limit
}

// EnumerateResult is the JSON payload of the enumerate command.
type EnumerateResult struct {
	Configs []ir.Config `json:"configs"`

	// Truncated is set when --limit stopped the enumeration early.
	Truncated bool `json:"truncated"`
}

// NewEnumerateCommand creates the enumerate command.
func NewEnumerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EnumerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "enumerate <schema-file>",
		Short: "Print every configuration of a schema",
		Long: `Print the configurations of a schema in enumeration order.

Text output is one canonical JSON object per line, so it can be diffed
or piped. Enumeration is lazy: --limit stops after N configurations
without visiting the rest of the space.

Examples:
  gensweep enumerate bows.cue
  gensweep enumerate sweep.yaml --limit 10
  gensweep enumerate sweep.hcl --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnumerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "stop after N configurations (0 = all)")

	return cmd
}

func runEnumerate(opts *EnumerateOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	if opts.Limit < 0 {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Errorf("--limit must be non-negative, got %d", opts.Limit), nil)
	}

	sf, err := loadSchema(cmd.Context(), f, path)
	if err != nil {
		return err
	}

	next := limited(sf.Schema, opts.Limit)
	if f.JSON() {
		result := EnumerateResult{Configs: []ir.Config{}}
		for {
			cfg, ok := next()
			if !ok {
				break
			}
			result.Configs = append(result.Configs, cfg)
		}
		result.Truncated = opts.Limit > 0 && uint64(len(result.Configs)) < sf.Schema.Count()
		return f.Success(result)
	}

	for {
		cfg, ok := next()
		if !ok {
			return nil
		}
		line, err := ir.MarshalCanonical(cfg)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeGeneric, err, nil)
		}
		fmt.Fprintln(f.Writer, string(line))
	}
}

// limited returns a fresh pull function over s that stops after limit
// configurations; limit 0 means no limit.
func limited(s *genschema.Schema, limit int) func() (ir.Config, bool) {
	e := s.Enumerate()
	pulled := 0
	return func() (ir.Config, bool) {
		if limit > 0 && pulled >= limit {
			return nil, false
		}
		cfg, ok := e.Next()
		if ok {
			pulled++
		}
		return cfg, ok
	}
}
