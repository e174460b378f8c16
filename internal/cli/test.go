package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gensweep/internal/harness"
)

// TestResult holds the overall suite result.
type TestResult struct {
	Suite  string               `json:"suite"`
	Cases  []harness.CaseResult `json:"cases"`
	Passed int                  `json:"passed"`
	Failed int                  `json:"failed"`
	Total  int                  `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test <suite.yaml>",
		Short: "Run a suite of schema checks",
		Long: `Run every case of a suite file. A case names a schema file and expects a
fixture, a structural count, or both. Paths are relative to the suite.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (suite missing or malformed)

Example suite:
  name: bows
  cases:
    - name: nested
      schema: schemas/nested.cue
      fixture: fixtures/nested.json
    - name: big
      schema: schemas/big.yaml
      count: 4096`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(rootOpts, args[0], cmd)
		},
	}
}

func runTests(opts *RootOptions, suitePath string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	suite, err := harness.LoadSuite(suitePath)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeSuite, err, nil)
	}

	cases := suite.Run(cmd.Context())
	result := TestResult{Suite: suite.Name, Cases: cases, Total: len(cases)}
	for _, c := range cases {
		if c.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if f.JSON() {
		if result.Failed > 0 {
			_ = f.Error(ErrCodeFailed, fmt.Sprintf("%d of %d case(s) failed", result.Failed, result.Total), result)
			return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d case(s) failed", result.Failed), Reported: true}
		}
		return f.Success(result)
	}

	w := f.Writer
	for _, c := range cases {
		if c.Pass {
			fmt.Fprintf(w, "✓ %s (%s)\n", c.Name, formatCount(c.Count))
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", c.Name)
		fmt.Fprintf(w, "  %s\n", c.Error)
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d case(s) failed", result.Failed), Reported: true}
	}
	return nil
}
