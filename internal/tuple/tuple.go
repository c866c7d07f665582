// Package tuple provides fixed-arity, immutable value carriers.
//
// A grouping view can hold only one value per collection element. Tuples
// move two to four logical fields through such a collection; the rule
// structures unpack them again by position (a, b, c, d).
//
// Tuples have no identity beyond their contents: two tuples with equal
// fields compare equal with == whenever the field types are comparable.
package tuple

import "fmt"

// Bi carries two fields.
type Bi[A, B any] struct {
	a A
	b B
}

// NewBi creates a Bi tuple.
func NewBi[A, B any](a A, b B) Bi[A, B] {
	return Bi[A, B]{a: a, b: b}
}

// A returns the first field.
func (t Bi[A, B]) A() A { return t.a }

// B returns the second field.
func (t Bi[A, B]) B() B { return t.b }

// Arity returns 2.
func (Bi[A, B]) Arity() int { return 2 }

// Values returns the fields in positional order.
func (t Bi[A, B]) Values() []any { return []any{t.a, t.b} }

func (t Bi[A, B]) String() string {
	return fmt.Sprintf("BiTuple(%v, %v)", t.a, t.b)
}

// Tri carries three fields.
type Tri[A, B, C any] struct {
	a A
	b B
	c C
}

// NewTri creates a Tri tuple.
func NewTri[A, B, C any](a A, b B, c C) Tri[A, B, C] {
	return Tri[A, B, C]{a: a, b: b, c: c}
}

// A returns the first field.
func (t Tri[A, B, C]) A() A { return t.a }

// B returns the second field.
func (t Tri[A, B, C]) B() B { return t.b }

// C returns the third field.
func (t Tri[A, B, C]) C() C { return t.c }

// Arity returns 3.
func (Tri[A, B, C]) Arity() int { return 3 }

// Values returns the fields in positional order.
func (t Tri[A, B, C]) Values() []any { return []any{t.a, t.b, t.c} }

func (t Tri[A, B, C]) String() string {
	return fmt.Sprintf("TriTuple(%v, %v, %v)", t.a, t.b, t.c)
}

// Quad carries four fields.
type Quad[A, B, C, D any] struct {
	a A
	b B
	c C
	d D
}

// NewQuad creates a Quad tuple.
func NewQuad[A, B, C, D any](a A, b B, c C, d D) Quad[A, B, C, D] {
	return Quad[A, B, C, D]{a: a, b: b, c: c, d: d}
}

// A returns the first field.
func (t Quad[A, B, C, D]) A() A { return t.a }

// B returns the second field.
func (t Quad[A, B, C, D]) B() B { return t.b }

// C returns the third field.
func (t Quad[A, B, C, D]) C() C { return t.c }

// D returns the fourth field.
func (t Quad[A, B, C, D]) D() D { return t.d }

// Arity returns 4.
func (Quad[A, B, C, D]) Arity() int { return 4 }

// Values returns the fields in positional order.
func (t Quad[A, B, C, D]) Values() []any { return []any{t.a, t.b, t.c, t.d} }

func (t Quad[A, B, C, D]) String() string {
	return fmt.Sprintf("QuadTuple(%v, %v, %v, %v)", t.a, t.b, t.c, t.d)
}
