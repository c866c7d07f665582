// Package pattern builds the patterns of a rule's left-hand side.
//
// A Builder describes one matched or derived value. It is extended with
// expansions (bindings, filters) and turned into an ir.Pattern by Build.
// Builders are copy-on-write: Expand returns a new Builder and never
// modifies the receiver, so a builder shared by two rule structures stays
// stable.
package pattern

import "github.com/roach88/streamrule/internal/ir"

// Expansion adds clauses to a pattern under construction.
type Expansion func(d *Def)

// Def is a pattern under construction. It is only reachable from inside an
// Expansion during Build.
type Def struct {
	v       ir.Declaration
	clauses []ir.Clause
}

// Variable returns the declaration the pattern is built over.
func (d *Def) Variable() ir.Declaration {
	return d.v
}

// Bind appends a clause projecting field of the pattern's value into target.
func (d *Def) Bind(target ir.Declaration, field string, extract func(any) any) *Def {
	d.clauses = append(d.clauses, ir.Binding{Target: target, Field: field, Extract: extract})
	return d
}

// Filter appends a predicate clause over the named variables and literals.
func (d *Def) Filter(predicate string, refs []string, args ...ir.IRValue) *Def {
	d.clauses = append(d.clauses, ir.Filter{
		Predicate: predicate,
		Refs:      append([]string(nil), refs...),
		Args:      append([]ir.IRValue(nil), args...),
	})
	return d
}

// Builder is an extendable description of a single pattern.
type Builder struct {
	v          ir.Declaration
	expansions []Expansion
}

// New creates a builder for a pattern over v with no clauses.
func New[T any](v ir.Variable[T]) *Builder {
	return &Builder{v: v.Declaration()}
}

// Variable returns the declaration the pattern is built over.
func (b *Builder) Variable() ir.Declaration {
	return b.v
}

// Len returns the number of expansions applied so far.
func (b *Builder) Len() int {
	return len(b.expansions)
}

// Expand returns a new builder with e appended to the expansions.
// The receiver is not modified. A nil expansion returns the receiver.
func (b *Builder) Expand(e Expansion) *Builder {
	if e == nil {
		return b
	}
	next := make([]Expansion, len(b.expansions), len(b.expansions)+1)
	copy(next, b.expansions)
	return &Builder{v: b.v, expansions: append(next, e)}
}

// Build applies every expansion in order to a fresh definition and returns
// the resulting pattern. Build may be called any number of times.
func (b *Builder) Build() *ir.Pattern {
	d := &Def{v: b.v}
	for _, e := range b.expansions {
		e(d)
	}
	return &ir.Pattern{Var: d.v, Clauses: d.clauses}
}

// Bind returns an expansion binding target to the field of the pattern's
// value read by fn. T is the pattern's value type.
func Bind[T, R any](target ir.Variable[R], field string, fn func(T) R) Expansion {
	decl := target.Declaration()
	extract := func(v any) any {
		return fn(v.(T))
	}
	return func(d *Def) {
		d.Bind(decl, field, extract)
	}
}

// Filter returns an expansion appending a predicate clause.
func Filter(predicate string, refs []string, args ...ir.IRValue) Expansion {
	refs = append([]string(nil), refs...)
	args = append([]ir.IRValue(nil), args...)
	return func(d *Def) {
		d.Filter(predicate, refs, args...)
	}
}
