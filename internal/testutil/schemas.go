package testutil

import (
	"github.com/roach88/gensweep/internal/genschema"
	"github.com/roach88/gensweep/internal/ir"
)

// Scenario pairs a schema builder with the fixture file that holds its
// expected enumeration.
type Scenario struct {
	Name    string
	Fixture string
	Build   func() *genschema.Schema
}

// Scenarios returns the reference schemas in fixture order. Each Build
// call returns a fresh schema.
func Scenarios() []Scenario {
	return []Scenario{
		{"single variable single value", "configs1.json", SingleValueSchema},
		{"single variable multiple values", "configs2.json", MultiValueSchema},
		{"independent variables", "configs3.json", IndependentSchema},
		{"nested on every value", "configs4.json", NestedSchema},
		{"multiple variables in nested schema", "configs6.json", NestedMultiVarSchema},
		{"nested on one value only", "configs7.json", PartialNestedSchema},
		{"nests under two variables", "configs8.json", TwoNestsSchema},
		{"three-level nesting", "configs9.json", DeepSchema},
	}
}

func vals(v ...any) []ir.Value { return ir.Vals(v...) }

// SingleValueSchema is one variable with one value (configs1).
func SingleValueSchema() *genschema.Schema {
	return genschema.New().MustAddValues("type", vals("long")...)
}

// MultiValueSchema is one variable with two values (configs2).
func MultiValueSchema() *genschema.Schema {
	return genschema.New().MustAddValues("type", vals("long", "recurve")...)
}

// IndependentSchema is two variables without dependencies (configs3).
func IndependentSchema() *genschema.Schema {
	return genschema.New().
		MustAddValues("type", vals("long", "recurve")...).
		MustAddValues("wood", vals("osage orange", "yew", "oak", "hickory")...)
}

// NestedSchema attaches a length variable to every type (configs4).
func NestedSchema() *genschema.Schema {
	return genschema.New().
		MustAddValues("type", vals("long", "recurve")...).
		MustAddDependencies("type", ir.String("long"),
			genschema.New().MustAddValues("length", vals(66, 72)...)).
		MustAddDependencies("type", ir.String("recurve"),
			genschema.New().MustAddValues("length", vals(42, 46)...))
}

// NestedMultiVarSchema nests two variables under each type (configs6).
func NestedMultiVarSchema() *genschema.Schema {
	long := genschema.New().
		MustAddValues("length", vals(42, 46)...).
		MustAddValues("wood", vals("osage orange", "yew")...)
	recurve := genschema.New().
		MustAddValues("length", vals(66, 72)...).
		MustAddValues("wood", vals("hickory")...)

	return genschema.New().
		MustAddValues("type", vals("long", "recurve")...).
		MustAddDependencies("type", ir.String("long"), long).
		MustAddDependencies("type", ir.String("recurve"), recurve)
}

// PartialNestedSchema nests a variable under one type only (configs7).
func PartialNestedSchema() *genschema.Schema {
	return genschema.New().
		MustAddValues("type", vals("long", "recurve")...).
		MustAddDependencies("type", ir.String("long"),
			genschema.New().MustAddValues("primitive", vals("yes", "no")...))
}

// TwoNestsSchema has nested schemas under two sibling variables (configs8).
func TwoNestsSchema() *genschema.Schema {
	sub := func(name string, v ...any) *genschema.Schema {
		return genschema.New().MustAddValues(name, vals(v...)...)
	}
	return genschema.New().
		MustAddValues("type", vals("long", "recurve")...).
		MustAddValues("pokemon_type", vals("water", "fire")...).
		MustAddDependencies("type", ir.String("long"), sub("length", 66, 70)).
		MustAddDependencies("type", ir.String("recurve"), sub("length", 44, 45)).
		MustAddDependencies("pokemon_type", ir.String("water"), sub("name", "Squirtle", "Lapras")).
		MustAddDependencies("pokemon_type", ir.String("fire"), sub("name", "Charmander", "Vulpix"))
}

// DeepSchema nests three levels below a single decoder (configs9).
func DeepSchema() *genschema.Schema {
	length := func(v ...any) *genschema.Schema {
		return genschema.New().MustAddValues("length", vals(v...)...)
	}
	c1 := genschema.New().
		MustAddValues("complexity", vals(2, 3)...).
		MustAddDependencies("complexity", ir.Int(2), length(80)).
		MustAddDependencies("complexity", ir.Int(3), length(110))
	c2 := genschema.New().
		MustAddValues("complexity", vals(2, 3)...).
		MustAddDependencies("complexity", ir.Int(2), length(116)).
		MustAddDependencies("complexity", ir.Int(3), length(140, 158))
	gates := genschema.New().
		MustAddValues("gates", vals(12, 15)...).
		MustAddDependencies("gates", ir.Int(12), c1).
		MustAddDependencies("gates", ir.Int(15), c2)

	return genschema.New().
		MustAddValues("decoder", vals("Hypercube")...).
		MustAddDependencies("decoder", ir.String("Hypercube"), gates)
}
