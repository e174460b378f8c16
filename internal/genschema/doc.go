// Package genschema declares conditional variable schemas and enumerates
// every flattened configuration they imply.
//
// A schema is an ordered list of variables, each with an ordered list of
// distinct values. A nested schema may be attached to a single
// (variable, value) pair; its variables only apply when the variable takes
// that value. Enumeration is a lazy, depth-first Cartesian product over
// this tree with a fixed order and an exact count.
//
// # Building
//
//	s := genschema.New()
//	s.AddValues("type", ir.String("long"), ir.String("recurve"))
//
//	long := genschema.New()
//	long.AddValues("length", ir.Int(66), ir.Int(72))
//	s.AddDependencies("type", ir.String("long"), long)
//
// Builder mistakes are reported immediately as *BuildError (duplicate value,
// unknown value, duplicate dependency, name collision, cycle), so a misbuilt
// schema never reaches enumeration.
//
// # Enumerating
//
// The schema implements a single-use pull contract directly:
//
//	for {
//	    cfg, ok := s.Next()
//	    if !ok {
//	        break
//	    }
//	    ...
//	}
//
// yields {type:long, length:66}, {type:long, length:72}, {type:recurve}.
// Once exhausted, Schema.Next stays exhausted. Enumerate and All hand out
// fresh, independent cursors for repeated passes. Count computes the total
// without enumerating.
package genschema
