package rule

import (
	"slices"

	"github.com/roach88/streamrule/internal/ir"
	"github.com/roach88/streamrule/internal/pattern"
	"github.com/roach88/streamrule/internal/tuple"
)

// Recollect continues s from the single value computed by an aggregation.
//
// The aggregation becomes the only open item, because the new primary
// pattern over newA reads its result. Closed items are inherited as they
// are; s's open items and primary pattern are expected to be folded into
// accumulate already.
func Recollect[NewA any](s Structure, newA ir.Variable[NewA], accumulate ir.RuleItem) *Uni[NewA] {
	return &Uni[NewA]{
		base: newBase(s.Allocator(), pattern.New(newA), []ir.RuleItem{accumulate}, s.ClosedItems()),
		a:    newA,
	}
}

// Regroup continues s from a grouping with one key per group.
//
// newSource is bound to the collection of keys, collect matches that
// collection and accumulate is the view that produced it. The key variable
// is declared from newSource and is itself the new primary variable.
func Regroup[NewA any](s Structure, newSource ir.Variable[[]NewA], collect, accumulate ir.RuleItem) *Uni[NewA] {
	newA := CreateAnyVariableFrom[NewA](s, "groupKey", ir.FromVariable(newSource))
	return &Uni[NewA]{
		base: regrouped(s, pattern.New(newA), collect, accumulate),
		a:    newA,
	}
}

// RegroupBi continues s from a grouping whose elements are tuple.Bi values
// and binds the tuple fields to two new variables.
func RegroupBi[A, B any](s Structure, newSource ir.Variable[[]tuple.Bi[A, B]],
	collect, accumulate ir.RuleItem) *Bi[A, B] {
	key := CreateVariableFrom[tuple.Bi[A, B]](s, ir.TypeOf[tuple.Bi[A, B]](), "groupKey", ir.FromVariable(newSource))
	a := CreateAnyVariable[A](s, "newA")
	b := CreateAnyVariable[B](s, "newB")
	primary := unpack(key,
		pattern.Bind(a, "a", tuple.Bi[A, B].A),
		pattern.Bind(b, "b", tuple.Bi[A, B].B),
	)
	return &Bi[A, B]{base: regrouped(s, primary, collect, accumulate), a: a, b: b}
}

// RegroupBiToTri continues s from a grouping whose elements are tuple.Tri
// values and binds the tuple fields to three new variables.
func RegroupBiToTri[A, B, C any](s Structure, newSource ir.Variable[[]tuple.Tri[A, B, C]],
	collect, accumulate ir.RuleItem) *Tri[A, B, C] {
	key := CreateVariableFrom[tuple.Tri[A, B, C]](s, ir.TypeOf[tuple.Tri[A, B, C]](), "groupKey", ir.FromVariable(newSource))
	a := CreateAnyVariable[A](s, "newA")
	b := CreateAnyVariable[B](s, "newB")
	c := CreateAnyVariable[C](s, "newC")
	primary := unpack(key,
		pattern.Bind(a, "a", tuple.Tri[A, B, C].A),
		pattern.Bind(b, "b", tuple.Tri[A, B, C].B),
		pattern.Bind(c, "c", tuple.Tri[A, B, C].C),
	)
	return &Tri[A, B, C]{base: regrouped(s, primary, collect, accumulate), a: a, b: b, c: c}
}

// RegroupBiToQuad continues s from a grouping whose elements are tuple.Quad
// values and binds the tuple fields to four new variables.
func RegroupBiToQuad[A, B, C, D any](s Structure, newSource ir.Variable[[]tuple.Quad[A, B, C, D]],
	collect, accumulate ir.RuleItem) *Quad[A, B, C, D] {
	key := CreateVariableFrom[tuple.Quad[A, B, C, D]](s, ir.TypeOf[tuple.Quad[A, B, C, D]](), "groupKey", ir.FromVariable(newSource))
	a := CreateAnyVariable[A](s, "newA")
	b := CreateAnyVariable[B](s, "newB")
	c := CreateAnyVariable[C](s, "newC")
	d := CreateAnyVariable[D](s, "newD")
	primary := unpack(key,
		pattern.Bind(a, "a", tuple.Quad[A, B, C, D].A),
		pattern.Bind(b, "b", tuple.Quad[A, B, C, D].B),
		pattern.Bind(c, "c", tuple.Quad[A, B, C, D].C),
		pattern.Bind(d, "d", tuple.Quad[A, B, C, D].D),
	)
	return &Quad[A, B, C, D]{base: regrouped(s, primary, collect, accumulate), a: a, b: b, c: c, d: d}
}

// unpack folds the field bindings over a pattern on the tuple variable.
// Binding order is the tuple's field order.
func unpack[T any](key ir.Variable[T], bindings ...pattern.Expansion) *pattern.Builder {
	primary := pattern.New(key)
	for _, bind := range bindings {
		primary = primary.Expand(bind)
	}
	return primary
}

// regrouped builds the state every regroup result shares: collect is the
// only open item and accumulate is appended to a copy of s's closed items.
func regrouped(s Structure, primary *pattern.Builder, collect, accumulate ir.RuleItem) base {
	closed := append(slices.Clone(s.ClosedItems()), accumulate)
	return newBase(s.Allocator(), primary, []ir.RuleItem{collect}, closed)
}
