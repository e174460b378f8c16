package genschema

import (
	"fmt"

	"github.com/roach88/gensweep/internal/ir"
)

// Schema is an ordered set of variables plus the nested schemas attached
// to specific (variable, value) pairs.
//
// A Schema is mutable while it is being built and is read by enumeration.
// Mutating a schema while one of its enumerators is active is undefined.
// A schema with no variables is the identity: it yields one empty config.
type Schema struct {
	vars  []*variable
	index map[string]int
	deps  map[depKey]*Schema

	// iter backs the single-use Next contract; created on first pull.
	iter *Enumerator
}

type variable struct {
	name   string
	values []ir.Value
	seen   map[ir.Value]struct{}
}

type depKey struct {
	name  string
	value ir.Value
}

// empty stands in for a missing dependency.
var empty = &Schema{}

// New creates an empty schema.
func New() *Schema {
	return &Schema{
		index: make(map[string]int),
		deps:  make(map[depKey]*Schema),
	}
}

// AddValues declares variable name or extends its value list.
//
// Values keep insertion order and must be distinct; a value already present
// (or repeated within the call) fails with ErrCodeDuplicateValue. A new name
// is placed after every previously declared variable. On error nothing is
// applied.
func (s *Schema) AddValues(name string, values ...ir.Value) error {
	s.init()

	v, exists := s.lookup(name)
	if !exists {
		// A nested schema further down may already bind this name.
		if s.containsName(name) {
			return NewNameCollisionError(name, name)
		}
	}

	pending := make(map[ir.Value]struct{}, len(values))
	for _, val := range values {
		if val == nil {
			return &BuildError{Code: ErrCodeInvalid, Variable: name, Message: "nil value"}
		}
		if exists {
			if _, dup := v.seen[val]; dup {
				return NewDuplicateValueError(name, val)
			}
		}
		if _, dup := pending[val]; dup {
			return NewDuplicateValueError(name, val)
		}
		pending[val] = struct{}{}
	}

	if !exists {
		v = &variable{name: name, seen: make(map[ir.Value]struct{}, len(values))}
		s.index[name] = len(s.vars)
		s.vars = append(s.vars, v)
	}
	for _, val := range values {
		v.values = append(v.values, val)
		v.seen[val] = struct{}{}
	}
	return nil
}

// AddDependencies attaches nested as the continuation of name == value.
//
// The value must already be declared for name (ErrCodeUnknownValue) and
// carry no nested schema yet (ErrCodeDuplicateDependency). Attaching is
// rejected with ErrCodeNameCollision when nested binds a name that this
// variable or one of its siblings can bind on the same path, and with
// ErrCodeCycle when s would end up beneath itself.
func (s *Schema) AddDependencies(name string, value ir.Value, nested *Schema) error {
	s.init()

	if nested == nil {
		return &BuildError{Code: ErrCodeInvalid, Variable: name, Value: value, Message: "nil nested schema"}
	}
	v, ok := s.lookup(name)
	if !ok || value == nil {
		return NewUnknownValueError(name, value)
	}
	if _, ok := v.seen[value]; !ok {
		return NewUnknownValueError(name, value)
	}
	key := depKey{name: name, value: value}
	if _, ok := s.deps[key]; ok {
		return NewDuplicateDependencyError(name, value)
	}
	if nested == s || nested.contains(s) {
		return &BuildError{Code: ErrCodeCycle, Variable: name, Value: value, Message: "schema cannot be nested beneath itself"}
	}
	if err := nested.Validate(); err != nil {
		return fmt.Errorf("nested schema for %s=%s: %w", name, ir.Format(value), err)
	}

	nestedNames := nested.names()
	for _, n := range nestedNames {
		if n == name {
			return NewNameCollisionError(name, n)
		}
	}
	for i, other := range s.vars {
		if other.name == name {
			continue
		}
		reach := s.reach(i)
		for _, n := range nestedNames {
			if _, hit := reach[n]; hit {
				return NewNameCollisionError(name, n)
			}
		}
	}

	s.deps[key] = nested
	return nil
}

// MustAddValues is like AddValues but panics on error.
// Use only in tests or fixture construction.
func (s *Schema) MustAddValues(name string, values ...ir.Value) *Schema {
	if err := s.AddValues(name, values...); err != nil {
		panic(err)
	}
	return s
}

// MustAddDependencies is like AddDependencies but panics on error.
// Use only in tests or fixture construction.
func (s *Schema) MustAddDependencies(name string, value ir.Value, nested *Schema) *Schema {
	if err := s.AddDependencies(name, value, nested); err != nil {
		panic(err)
	}
	return s
}

// Variables returns the variable names in declaration order.
func (s *Schema) Variables() []string {
	names := make([]string, len(s.vars))
	for i, v := range s.vars {
		names[i] = v.name
	}
	return names
}

// Values returns the declared values of name in order, or nil if unknown.
func (s *Schema) Values(name string) []ir.Value {
	v, ok := s.lookup(name)
	if !ok {
		return nil
	}
	out := make([]ir.Value, len(v.values))
	copy(out, v.values)
	return out
}

// Dependency returns the nested schema attached to name == value, or nil.
func (s *Schema) Dependency(name string, value ir.Value) *Schema {
	return s.deps[depKey{name: name, value: value}]
}

// Validate re-checks the whole tree for names that could be bound twice in
// one configuration. AddDependencies runs the same check at attach time;
// Validate also catches nested schemas extended after being attached.
func (s *Schema) Validate() error {
	return s.validate(make(map[*Schema]struct{}))
}

func (s *Schema) validate(visited map[*Schema]struct{}) error {
	if _, ok := visited[s]; ok {
		return nil
	}
	visited[s] = struct{}{}

	owner := make(map[string]string)
	for i, v := range s.vars {
		for _, dep := range s.dependenciesOf(v) {
			for _, n := range dep.names() {
				if n == v.name {
					return NewNameCollisionError(v.name, n)
				}
			}
		}
		for n := range s.reach(i) {
			if o, taken := owner[n]; taken && o != v.name {
				return NewNameCollisionError(v.name, n)
			}
			owner[n] = v.name
		}
	}

	for _, v := range s.vars {
		for _, dep := range s.dependenciesOf(v) {
			if err := dep.validate(visited); err != nil {
				return err
			}
		}
	}
	return nil
}

// init lets a zero Schema be used like one from New.
func (s *Schema) init() {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if s.deps == nil {
		s.deps = make(map[depKey]*Schema)
	}
}

func (s *Schema) lookup(name string) (*variable, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.vars[i], true
}

// dependency returns the nested schema for name == value, or the identity.
func (s *Schema) dependency(name string, value ir.Value) *Schema {
	if dep, ok := s.deps[depKey{name: name, value: value}]; ok {
		return dep
	}
	return empty
}

// dependenciesOf lists the attached schemas of v in value order.
func (s *Schema) dependenciesOf(v *variable) []*Schema {
	var out []*Schema
	for _, val := range v.values {
		if dep, ok := s.deps[depKey{name: v.name, value: val}]; ok {
			out = append(out, dep)
		}
	}
	return out
}

// reach is every name variable i can bind: itself plus its nested trees.
func (s *Schema) reach(i int) map[string]struct{} {
	v := s.vars[i]
	out := map[string]struct{}{v.name: {}}
	for _, dep := range s.dependenciesOf(v) {
		for _, n := range dep.names() {
			out[n] = struct{}{}
		}
	}
	return out
}

// names lists every variable name in the tree, depth first, without repeats.
func (s *Schema) names() []string {
	var out []string
	seen := make(map[string]struct{})
	visited := make(map[*Schema]struct{})
	var walk func(*Schema)
	walk = func(t *Schema) {
		if _, ok := visited[t]; ok {
			return
		}
		visited[t] = struct{}{}
		for _, v := range t.vars {
			if _, ok := seen[v.name]; !ok {
				seen[v.name] = struct{}{}
				out = append(out, v.name)
			}
			for _, dep := range t.dependenciesOf(v) {
				walk(dep)
			}
		}
	}
	walk(s)
	return out
}

func (s *Schema) containsName(name string) bool {
	for _, n := range s.names() {
		if n == name {
			return true
		}
	}
	return false
}

// contains reports whether target appears anywhere beneath s.
func (s *Schema) contains(target *Schema) bool {
	visited := make(map[*Schema]struct{})
	var walk func(*Schema) bool
	walk = func(t *Schema) bool {
		if _, ok := visited[t]; ok {
			return false
		}
		visited[t] = struct{}{}
		for _, dep := range t.deps {
			if dep == target || walk(dep) {
				return true
			}
		}
		return false
	}
	return walk(s)
}
