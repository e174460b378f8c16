package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool     `json:"valid"`
	Variables []string `json:"variables"`
	Count     uint64   `json:"count"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema-file>",
		Short: "Check that a schema file compiles",
		Long: `Compile a schema file (.cue, .yaml, .yml, .json, .hcl) and check it for
duplicate values, unknown dependency values and names that could be bound
twice in one configuration.

Exit codes:
  0 - Schema valid
  1 - Schema invalid
  2 - Command error (missing file, unsupported extension)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	sf, err := loadSchema(cmd.Context(), f, path)
	if err != nil {
		return err
	}

	result := ValidationResult{
		Valid:     true,
		Variables: sf.Schema.Variables(),
		Count:     sf.Schema.Count(),
	}
	if f.JSON() {
		return f.Success(result)
	}

	fmt.Fprintf(f.Writer, "✓ %s valid: %d top-level variable(s), %s configuration(s)\n",
		path, len(result.Variables), formatCount(result.Count))
	return nil
}
