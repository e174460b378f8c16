package harness

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/gensweep/internal/ir"
)

// MismatchKind categorizes why an enumeration differs from a fixture.
type MismatchKind string

const (
	// MismatchTooFew: the enumeration ran out before the fixture did.
	MismatchTooFew MismatchKind = "too_few_configs"
	// MismatchTooMany: the enumeration kept going after the fixture ended.
	MismatchTooMany MismatchKind = "too_many_configs"
	// MismatchMissingKeys: a config lacks variables the fixture expects.
	MismatchMissingKeys MismatchKind = "missing_keys"
	// MismatchExtraKeys: a config binds variables the fixture lacks.
	MismatchExtraKeys MismatchKind = "extra_keys"
	// MismatchWrongValue: same variables, different value.
	MismatchWrongValue MismatchKind = "wrong_value"
)

// MismatchError describes the first divergence between an enumeration and
// its fixture.
type MismatchError struct {
	Kind MismatchKind

	// Index is the zero-based position of the offending config.
	Index int

	// Expected and Actual are nil when the respective side was exhausted.
	Expected ir.Config
	Actual   ir.Config

	// Keys lists the missing, extra or differing variables, sorted.
	Keys []string

	// Want is the fixture length; Got counts configs pulled so far.
	Want int
	Got  int
}

func (e *MismatchError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "enumeration mismatch: %s at config %d", e.Kind, e.Index)

	switch e.Kind {
	case MismatchTooFew:
		fmt.Fprintf(&buf, " (got %d configs, want %d)", e.Got, e.Want)
	case MismatchTooMany:
		fmt.Fprintf(&buf, " (want exactly %d configs)", e.Want)
	default:
		fmt.Fprintf(&buf, " (variables: %s)", strings.Join(e.Keys, ", "))
	}

	if e.Expected != nil || e.Actual != nil {
		fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", describe(e.Expected), describe(e.Actual))
	}
	if e.Expected != nil && e.Actual != nil {
		fmt.Fprintf(&buf, "\n  Diff (-expected +actual):\n%s", cmp.Diff(e.Expected, e.Actual))
	}
	return buf.String()
}

func describe(c ir.Config) string {
	if c == nil {
		return "<none>"
	}
	return c.String()
}

// IsMismatch reports whether err is a *MismatchError of the given kind.
// An empty kind matches any mismatch.
func IsMismatch(err error, kind MismatchKind) bool {
	var me *MismatchError
	if !errors.As(err, &me) {
		return false
	}
	return kind == "" || me.Kind == kind
}

// Compare pulls from next in lock-step with expected and returns the first
// mismatch, or nil when next yields exactly the expected configs in order.
// next is called at most len(expected)+1 times.
func Compare(expected []ir.Config, next func() (ir.Config, bool)) error {
	for i, want := range expected {
		got, ok := next()
		if !ok {
			return &MismatchError{Kind: MismatchTooFew, Index: i, Expected: want, Want: len(expected), Got: i}
		}
		if err := compareConfig(i, want, got); err != nil {
			return err
		}
	}

	if extra, ok := next(); ok {
		return &MismatchError{
			Kind:   MismatchTooMany,
			Index:  len(expected),
			Actual: extra,
			Want:   len(expected),
			Got:    len(expected) + 1,
		}
	}
	return nil
}

func compareConfig(i int, want, got ir.Config) error {
	mismatch := func(kind MismatchKind, keys []string) error {
		slices.Sort(keys)
		return &MismatchError{Kind: kind, Index: i, Expected: want, Actual: got, Keys: keys}
	}

	var missing, extra, wrong []string
	for k, v := range want {
		gv, ok := got[k]
		switch {
		case !ok:
			missing = append(missing, k)
		case gv != v:
			wrong = append(wrong, k)
		}
	}
	for k := range got {
		if _, ok := want[k]; !ok {
			extra = append(extra, k)
		}
	}

	switch {
	case len(missing) > 0:
		return mismatch(MismatchMissingKeys, missing)
	case len(extra) > 0:
		return mismatch(MismatchExtraKeys, extra)
	case len(wrong) > 0:
		return mismatch(MismatchWrongValue, wrong)
	}
	return nil
}
