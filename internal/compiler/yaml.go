package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gensweep/internal/genschema"
	"github.com/roach88/gensweep/internal/ir"
)

// CompileYAML compiles a YAML (or JSON) schema document.
//
// The document root is a mapping of variable names in declaration order,
// with the same variable shape as CompileCUE:
//
//	type:
//	  values: [long, recurve]
//	  when:
//	    - value: long
//	      schema:
//	        length: [66, 72]
//	wood: [oak, ash]
//
// yaml.Node is used instead of a map so that key order survives decoding.
func CompileYAML(src []byte, filename string) (*genschema.Schema, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(src))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return genschema.New(), nil
		}
		return nil, &CompileError{Field: "yaml", Message: fmt.Sprintf("failed to parse YAML: %v", err), Filename: filename}
	}
	if len(doc.Content) == 0 {
		return genschema.New(), nil
	}
	c := yamlCompiler{filename: filename}
	return c.schema(doc.Content[0], "schema")
}

type yamlCompiler struct {
	filename string
}

func (c yamlCompiler) errorf(n *yaml.Node, field, format string, args ...any) error {
	return &CompileError{
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
		Filename: c.filename,
		Line:     n.Line,
		Column:   n.Column,
	}
}

func (c yamlCompiler) schema(n *yaml.Node, path string) (*genschema.Schema, error) {
	s := genschema.New()
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return s, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, c.errorf(n, path, "schema must be a mapping of variables")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if err := c.variable(s, key.Value, val, path+"."+key.Value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (c yamlCompiler) variable(s *genschema.Schema, name string, n *yaml.Node, path string) error {
	valuesNode := n
	var whenNode *yaml.Node
	if n.Kind == yaml.MappingNode {
		valuesNode = nil
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			switch key.Value {
			case "values":
				valuesNode = val
			case "when":
				whenNode = val
			default:
				return c.errorf(key, path, "unknown field %q", key.Value)
			}
		}
		if valuesNode == nil {
			return c.errorf(n, path+".values", "values is required")
		}
	}

	if valuesNode.Kind != yaml.SequenceNode {
		return c.errorf(valuesNode, path+".values", "must be a list of values")
	}
	values := make([]ir.Value, 0, len(valuesNode.Content))
	for i, item := range valuesNode.Content {
		v, err := c.scalar(item, fmt.Sprintf("%s.values[%d]", path, i))
		if err != nil {
			return err
		}
		values = append(values, v)
	}
	if err := s.AddValues(name, values...); err != nil {
		return wrapBuildError(path, err, c.filename, valuesNode.Line, valuesNode.Column)
	}

	if whenNode == nil {
		return nil
	}
	if whenNode.Kind != yaml.SequenceNode {
		return c.errorf(whenNode, path+".when", "must be a list of {value, schema} entries")
	}
	for i, entry := range whenNode.Content {
		if err := c.when(s, name, entry, fmt.Sprintf("%s.when[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (c yamlCompiler) when(s *genschema.Schema, name string, n *yaml.Node, path string) error {
	if n.Kind != yaml.MappingNode {
		return c.errorf(n, path, "must be a mapping with value and schema")
	}

	var valueNode, schemaNode *yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "value":
			valueNode = val
		case "schema":
			schemaNode = val
		default:
			return c.errorf(key, path, "unknown field %q", key.Value)
		}
	}
	if valueNode == nil {
		return c.errorf(n, path+".value", "value is required")
	}
	if schemaNode == nil {
		return c.errorf(n, path+".schema", "schema is required")
	}

	value, err := c.scalar(valueNode, path+".value")
	if err != nil {
		return err
	}
	nested, err := c.schema(schemaNode, path+".schema")
	if err != nil {
		return err
	}
	if err := s.AddDependencies(name, value, nested); err != nil {
		return wrapBuildError(path, err, c.filename, n.Line, n.Column)
	}
	return nil
}

// scalar decodes a YAML scalar with its resolved tag, so `66` is an int
// and `"66"` is a string.
func (c yamlCompiler) scalar(n *yaml.Node, path string) (ir.Value, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, c.errorf(n, path, "must be a scalar (string, int or bool)")
	}
	var raw any
	if err := n.Decode(&raw); err != nil {
		return nil, c.errorf(n, path, "%v", err)
	}
	v, err := ir.FromAny(raw)
	if err != nil {
		return nil, c.errorf(n, path, "%v", err)
	}
	return v, nil
}
