package compiler

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/roach88/gensweep/internal/genschema"
	"github.com/roach88/gensweep/internal/ir"
)

// hclSchemaBody is one schema level: variable blocks in source order.
type hclSchemaBody struct {
	Variables []*hclVariable `hcl:"variable,block"`
}

type hclVariable struct {
	Name   string         `hcl:"name,label"`
	Values hcl.Expression `hcl:"values"`
	When   []*hclWhen     `hcl:"when,block"`
}

type hclWhen struct {
	Value     string         `hcl:"value,label"`
	Variables []*hclVariable `hcl:"variable,block"`
}

// CompileHCL compiles an HCL schema file:
//
//	variable "type" {
//	  values = ["long", "recurve"]
//	  when "long" {
//	    variable "length" { values = [66, 72] }
//	  }
//	}
//
// Block labels are strings, so a `when` label is matched against the
// display form (ir.Format) of the variable's declared values.
func CompileHCL(src []byte, filename string) (*genschema.Schema, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, formatHCLDiagnostics(diags)
	}

	var body hclSchemaBody
	if diags := gohcl.DecodeBody(file.Body, nil, &body); diags.HasErrors() {
		return nil, formatHCLDiagnostics(diags)
	}
	return compileHCLVariables(body.Variables, "schema")
}

func compileHCLVariables(vars []*hclVariable, path string) (*genschema.Schema, error) {
	s := genschema.New()
	for _, v := range vars {
		if err := compileHCLVariable(s, v, path+"."+v.Name); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func compileHCLVariable(s *genschema.Schema, v *hclVariable, path string) error {
	rng := v.Values.Range()

	val, diags := v.Values.Value(nil)
	if diags.HasErrors() {
		return formatHCLDiagnostics(diags)
	}
	if val.IsNull() || !val.CanIterateElements() || val.Type().IsMapType() || val.Type().IsObjectType() {
		return hclRangeError(path+".values", "must be a list of values", rng)
	}

	var values []ir.Value
	it := val.ElementIterator()
	for i := 0; it.Next(); i++ {
		_, el := it.Element()
		iv, err := ctyScalar(el)
		if err != nil {
			return hclRangeError(fmt.Sprintf("%s.values[%d]", path, i), err.Error(), rng)
		}
		values = append(values, iv)
	}
	if err := s.AddValues(v.Name, values...); err != nil {
		return wrapBuildError(path, err, rng.Filename, rng.Start.Line, rng.Start.Column)
	}

	for _, w := range v.When {
		whenPath := fmt.Sprintf("%s.when[%q]", path, w.Value)
		value, err := matchLabel(s.Values(v.Name), w.Value)
		if err != nil {
			return wrapBuildError(whenPath, err, rng.Filename, rng.Start.Line, rng.Start.Column)
		}
		if value == nil {
			err := genschema.NewUnknownValueError(v.Name, ir.String(w.Value))
			return wrapBuildError(whenPath, err, rng.Filename, rng.Start.Line, rng.Start.Column)
		}

		nested, err := compileHCLVariables(w.Variables, whenPath)
		if err != nil {
			return err
		}
		if err := s.AddDependencies(v.Name, value, nested); err != nil {
			return wrapBuildError(whenPath, err, rng.Filename, rng.Start.Line, rng.Start.Column)
		}
	}
	return nil
}

// matchLabel finds the declared value whose display form equals label.
// Returns nil when nothing matches and an error when the label is ambiguous
// (for example both 66 and "66" are declared).
func matchLabel(declared []ir.Value, label string) (ir.Value, error) {
	var found ir.Value
	for _, v := range declared {
		if ir.Format(v) != label {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("label %q matches more than one declared value", label)
		}
		found = v
	}
	return found, nil
}

// ctyScalar converts a known cty string, whole number or bool.
func ctyScalar(v cty.Value) (ir.Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("null or unknown values are forbidden")
	}
	switch ty := v.Type(); {
	case ty.Equals(cty.String):
		return ir.String(v.AsString()), nil
	case ty.Equals(cty.Bool):
		return ir.Bool(v.True()), nil
	case ty.Equals(cty.Number):
		bf := v.AsBigFloat()
		if !bf.IsInt() {
			return nil, fmt.Errorf("floats are forbidden: %s", bf.Text('g', -1))
		}
		n, acc := bf.Int64()
		if acc != big.Exact {
			return nil, fmt.Errorf("number out of int64 range: %s", bf.Text('g', -1))
		}
		return ir.Int(n), nil
	default:
		return nil, fmt.Errorf("unsupported value type %s: only string, number, bool allowed", ty.FriendlyName())
	}
}

func hclRangeError(field, message string, rng hcl.Range) error {
	return &CompileError{
		Field:    field,
		Message:  message,
		Filename: rng.Filename,
		Line:     rng.Start.Line,
		Column:   rng.Start.Column,
	}
}
