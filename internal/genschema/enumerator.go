package genschema

import (
	"iter"
	"math"
	"math/bits"

	"github.com/roach88/gensweep/internal/ir"
)

// Enumerator lazily produces the flattened configurations of a schema.
//
// Order is depth first by variable: the first declared variable varies
// slowest. For each of its values, the configurations of the attached
// nested schema are exhausted before the remaining siblings advance, and
// siblings declared later vary faster.
//
// Once Next reports exhaustion it keeps doing so. An Enumerator is not
// safe for concurrent use.
type Enumerator struct {
	root *cursor
}

// Enumerate returns a fresh, independent enumerator over s.
// Each call starts from the first configuration, so a schema can be
// enumerated any number of times this way.
func (s *Schema) Enumerate() *Enumerator {
	return &Enumerator{root: newCursor(s, 0, pruner{})}
}

// Next returns the next configuration, or (nil, false) once exhausted.
// The returned config is owned by the caller.
func (e *Enumerator) Next() (ir.Config, bool) {
	if e.root == nil {
		return nil, false
	}
	cfg, ok := e.root.next()
	if !ok {
		e.root = nil
		return nil, false
	}
	return cfg, true
}

// Next pulls the next configuration from the schema's own enumerator,
// built on the first call. This is the single-use contract: after
// exhaustion every call returns (nil, false) and the schema never
// restarts. Use Enumerate or All for a fresh pass.
func (s *Schema) Next() (ir.Config, bool) {
	if s.iter == nil {
		s.iter = s.Enumerate()
	}
	return s.iter.Next()
}

// All returns an iterator over a fresh enumeration of s.
func (s *Schema) All() iter.Seq[ir.Config] {
	return func(yield func(ir.Config) bool) {
		e := s.Enumerate()
		for {
			cfg, ok := e.Next()
			if !ok || !yield(cfg) {
				return
			}
		}
	}
}

// frame names the suffix s.vars[pos:] of one schema.
type frame struct {
	s   *Schema
	pos int
}

// pruner remembers which frames enumerate nothing, so a cursor over one
// gives up at once instead of walking every head before it.
type pruner map[frame]bool

func (p pruner) empty(s *Schema, pos int) bool {
	f := frame{s: s, pos: pos}
	e, ok := p[f]
	if !ok {
		e = countFrom(s, pos) == 0
		p[f] = e
	}
	return e
}

// cursor walks the product of s.vars[pos:].
//
// For the variable at pos it holds the current value index, a cursor over
// that value's nested schema, the binding built from the nested config
// (head), and a cursor over the remaining siblings (rest). A cursor past
// the last variable yields the empty config exactly once.
type cursor struct {
	s   *Schema
	pos int
	p   pruner

	value  int
	nested *cursor
	head   ir.Config
	rest   *cursor

	emitted bool
	checked bool
}

func newCursor(s *Schema, pos int, p pruner) *cursor {
	return &cursor{s: s, pos: pos, p: p}
}

func (c *cursor) next() (ir.Config, bool) {
	if c.pos >= len(c.s.vars) {
		if c.emitted {
			return nil, false
		}
		c.emitted = true
		return ir.Config{}, true
	}

	if !c.checked {
		c.checked = true
		if c.p.empty(c.s, c.pos) {
			c.value = len(c.s.vars[c.pos].values)
		}
	}

	v := c.s.vars[c.pos]
	for {
		if c.nested == nil {
			if c.value >= len(v.values) {
				return nil, false
			}
			c.nested = newCursor(c.s.dependency(v.name, v.values[c.value]), 0, c.p)
		}

		if c.head == nil {
			sub, ok := c.nested.next()
			if !ok {
				c.nested = nil
				c.value++
				continue
			}
			c.head = ir.Config{v.name: v.values[c.value]}
			merge(c.head, sub)
			c.rest = newCursor(c.s, c.pos+1, c.p)
		}

		tail, ok := c.rest.next()
		if !ok {
			c.head = nil
			c.rest = nil
			continue
		}
		out := c.head.Clone()
		merge(out, tail)
		return out, true
	}
}

// merge copies src into dst. A key already bound in dst keeps its value,
// so the binding made first along the path wins.
func merge(dst, src ir.Config) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

// Count returns the number of configurations s enumerates, computed from
// the structure alone:
//
//	count(empty) = 1
//	count(s)     = sum over values x of the first variable of count(dep(x)),
//	               times count(remaining variables)
//
// The result saturates at math.MaxUint64.
func (s *Schema) Count() uint64 {
	return countFrom(s, 0)
}

func countFrom(s *Schema, pos int) uint64 {
	if pos >= len(s.vars) {
		return 1
	}
	v := s.vars[pos]
	var sum uint64
	for _, val := range v.values {
		sum = addSat(sum, countFrom(s.dependency(v.name, val), 0))
	}
	if sum == 0 {
		return 0
	}
	return mulSat(sum, countFrom(s, pos+1))
}

func addSat(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}
