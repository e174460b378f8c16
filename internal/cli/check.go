package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gensweep/internal/harness"
)

// CheckResult is the JSON payload of a passing check.
type CheckResult struct {
	Match   bool   `json:"match"`
	Configs int    `json:"configs"`
	Fixture string `json:"fixture"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <schema-file> <fixture.json>",
		Short: "Compare a schema's enumeration with a fixture",
		Long: `Enumerate a schema and compare it, in order, with a JSON fixture: an array
of flat configuration objects. The first difference is reported.

Exit codes:
  0 - Enumeration matches the fixture
  1 - Mismatch, or invalid schema
  2 - Command error (missing file, unreadable fixture)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runCheck(opts *RootOptions, schemaPath, fixturePath string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	sf, err := loadSchema(cmd.Context(), f, schemaPath)
	if err != nil {
		return err
	}

	expected, err := harness.LoadFixture(fixturePath)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeFixture, err, nil)
	}

	if err := harness.Compare(expected, sf.Schema.Enumerate().Next); err != nil {
		var me *harness.MismatchError
		details := map[string]any{}
		if errors.As(err, &me) {
			details["kind"] = string(me.Kind)
			details["index"] = me.Index
		}
		return f.Fail(ExitFailure, ErrCodeMismatch, err, details)
	}

	result := CheckResult{Match: true, Configs: len(expected), Fixture: fixturePath}
	if f.JSON() {
		return f.Success(result)
	}
	fmt.Fprintf(f.Writer, "✓ %d configuration(s) match %s\n", result.Configs, fixturePath)
	return nil
}
