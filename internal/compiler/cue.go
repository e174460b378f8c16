package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/gensweep/internal/genschema"
	"github.com/roach88/gensweep/internal/ir"
)

// CompileCUE compiles the `schema` field of a CUE document.
// Uses the CUE SDK's Go API directly (not a CLI subprocess).
//
// Fields of a schema struct are variables in declaration order. A variable
// is either a list of values or a struct with `values` and an optional
// `when` list of {value, schema} entries:
//
//	schema: {
//		type: {
//			values: ["long", "recurve"]
//			when: [{value: "long", schema: {length: [66, 72]}}]
//		}
//		wood: ["oak", "ash"]
//	}
func CompileCUE(src []byte, filename string) (*genschema.Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root := v.LookupPath(cue.ParsePath("schema"))
	if !root.Exists() {
		return nil, cuePosError("schema", "schema field is required", v.Pos())
	}
	return compileCUESchema(root, "schema")
}

// compileCUESchema builds one schema level from a CUE struct.
func compileCUESchema(v cue.Value, path string) (*genschema.Schema, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	s := genschema.New()
	for iter.Next() {
		name := iter.Label()
		if err := compileCUEVariable(s, name, iter.Value(), path+"."+name); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func compileCUEVariable(s *genschema.Schema, name string, v cue.Value, path string) error {
	valuesVal := v
	var whenVal cue.Value
	if v.Kind() == cue.StructKind {
		valuesVal = v.LookupPath(cue.ParsePath("values"))
		if !valuesVal.Exists() {
			return cuePosError(path+".values", "values is required", v.Pos())
		}
		whenVal = v.LookupPath(cue.ParsePath("when"))
	}

	values, err := cueList(valuesVal, path+".values")
	if err != nil {
		return err
	}
	if err := s.AddValues(name, values...); err != nil {
		return wrapBuildError(path, err, valuesVal.Pos().Filename(), valuesVal.Pos().Line(), valuesVal.Pos().Column())
	}

	if !whenVal.Exists() {
		return nil
	}
	list, err := whenVal.List()
	if err != nil {
		return formatCUEError(err)
	}
	for i := 0; list.Next(); i++ {
		entry := list.Value()
		entryPath := fmt.Sprintf("%s.when[%d]", path, i)

		valueVal := entry.LookupPath(cue.ParsePath("value"))
		if !valueVal.Exists() {
			return cuePosError(entryPath+".value", "value is required", entry.Pos())
		}
		value, err := cueScalar(valueVal, entryPath+".value")
		if err != nil {
			return err
		}

		nestedVal := entry.LookupPath(cue.ParsePath("schema"))
		if !nestedVal.Exists() {
			return cuePosError(entryPath+".schema", "schema is required", entry.Pos())
		}
		nested, err := compileCUESchema(nestedVal, entryPath+".schema")
		if err != nil {
			return err
		}

		if err := s.AddDependencies(name, value, nested); err != nil {
			pos := entry.Pos()
			return wrapBuildError(entryPath, err, pos.Filename(), pos.Line(), pos.Column())
		}
	}
	return nil
}

func cueList(v cue.Value, path string) ([]ir.Value, error) {
	if v.Kind() != cue.ListKind {
		return nil, cuePosError(path, "must be a list of values", v.Pos())
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []ir.Value
	for i := 0; iter.Next(); i++ {
		val, err := cueScalar(iter.Value(), fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

// cueScalar converts a concrete CUE string, int or bool.
func cueScalar(v cue.Value, path string) (ir.Value, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.String(s), nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Int(n), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Bool(b), nil
	case cue.FloatKind:
		return nil, cuePosError(path, "floats are forbidden", v.Pos())
	default:
		return nil, cuePosError(path, fmt.Sprintf("unsupported value kind %s: only string, int, bool allowed", v.IncompleteKind()), v.Pos())
	}
}
