package cli

import (
	"math"
	"strconv"

	"github.com/spf13/cobra"
)

// CountResult is the structural count of a schema.
type CountResult struct {
	Count uint64 `json:"count"`

	// Saturated is set when the real count exceeds the uint64 range.
	Saturated bool `json:"saturated"`
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count <schema-file>",
		Short: "Print how many configurations a schema enumerates",
		Long: `Print the number of configurations a schema enumerates, computed from
its structure without enumerating. Counts beyond the uint64 range are
reported as saturated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(rootOpts, args[0], cmd)
		},
	}
}

func runCount(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	sf, err := loadSchema(cmd.Context(), f, path)
	if err != nil {
		return err
	}

	n := sf.Schema.Count()
	if f.JSON() {
		return f.Success(CountResult{Count: n, Saturated: n == math.MaxUint64})
	}
	return f.Success(formatCount(n))
}

// formatCount renders a structural count, marking saturation.
func formatCount(n uint64) string {
	if n == math.MaxUint64 {
		return "≥" + strconv.FormatUint(n, 10) + " (saturated)"
	}
	return strconv.FormatUint(n, 10)
}
