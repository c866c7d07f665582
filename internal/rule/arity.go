package rule

import (
	"github.com/roach88/streamrule/internal/ir"
	"github.com/roach88/streamrule/internal/pattern"
)

// Uni is a structure with one output variable.
type Uni[A any] struct {
	base
	a ir.Variable[A]
}

// NewUni creates a root structure matching facts of typ. The variable is
// named from hint with the first id of ids it draws.
func NewUni[A any](ids IDSupplier, typ ir.Type, hint string) *Uni[A] {
	a := ir.DeclarationOf[A](typ, decorateName(ids, hint), ir.Matched{})
	return &Uni[A]{
		base: newBase(ids, pattern.New(a), nil, nil),
		a:    a,
	}
}

// A returns the output variable.
func (u *Uni[A]) A() ir.Variable[A] { return u.a }

// Arity returns 1.
func (u *Uni[A]) Arity() int { return 1 }

// Variables returns the output variable.
func (u *Uni[A]) Variables() []ir.Declaration {
	return []ir.Declaration{u.a.Declaration()}
}

// Expand returns a Uni with e applied to the primary pattern.
func (u *Uni[A]) Expand(e pattern.Expansion) Structure {
	return &Uni[A]{base: u.withPrimary(u.primary.Expand(e)), a: u.a}
}

// Bi is a structure with two output variables.
type Bi[A, B any] struct {
	base
	a ir.Variable[A]
	b ir.Variable[B]
}

// A returns the first output variable.
func (s *Bi[A, B]) A() ir.Variable[A] { return s.a }

// B returns the second output variable.
func (s *Bi[A, B]) B() ir.Variable[B] { return s.b }

// Arity returns 2.
func (s *Bi[A, B]) Arity() int { return 2 }

// Variables returns the output variables in order.
func (s *Bi[A, B]) Variables() []ir.Declaration {
	return []ir.Declaration{s.a.Declaration(), s.b.Declaration()}
}

// Expand returns a Bi with e applied to the primary pattern.
func (s *Bi[A, B]) Expand(e pattern.Expansion) Structure {
	return &Bi[A, B]{base: s.withPrimary(s.primary.Expand(e)), a: s.a, b: s.b}
}

// Tri is a structure with three output variables.
type Tri[A, B, C any] struct {
	base
	a ir.Variable[A]
	b ir.Variable[B]
	c ir.Variable[C]
}

// A returns the first output variable.
func (s *Tri[A, B, C]) A() ir.Variable[A] { return s.a }

// B returns the second output variable.
func (s *Tri[A, B, C]) B() ir.Variable[B] { return s.b }

// C returns the third output variable.
func (s *Tri[A, B, C]) C() ir.Variable[C] { return s.c }

// Arity returns 3.
func (s *Tri[A, B, C]) Arity() int { return 3 }

// Variables returns the output variables in order.
func (s *Tri[A, B, C]) Variables() []ir.Declaration {
	return []ir.Declaration{s.a.Declaration(), s.b.Declaration(), s.c.Declaration()}
}

// Expand returns a Tri with e applied to the primary pattern.
func (s *Tri[A, B, C]) Expand(e pattern.Expansion) Structure {
	return &Tri[A, B, C]{base: s.withPrimary(s.primary.Expand(e)), a: s.a, b: s.b, c: s.c}
}

// Quad is a structure with four output variables.
type Quad[A, B, C, D any] struct {
	base
	a ir.Variable[A]
	b ir.Variable[B]
	c ir.Variable[C]
	d ir.Variable[D]
}

// A returns the first output variable.
func (s *Quad[A, B, C, D]) A() ir.Variable[A] { return s.a }

// B returns the second output variable.
func (s *Quad[A, B, C, D]) B() ir.Variable[B] { return s.b }

// C returns the third output variable.
func (s *Quad[A, B, C, D]) C() ir.Variable[C] { return s.c }

// D returns the fourth output variable.
func (s *Quad[A, B, C, D]) D() ir.Variable[D] { return s.d }

// Arity returns 4.
func (s *Quad[A, B, C, D]) Arity() int { return 4 }

// Variables returns the output variables in order.
func (s *Quad[A, B, C, D]) Variables() []ir.Declaration {
	return []ir.Declaration{s.a.Declaration(), s.b.Declaration(), s.c.Declaration(), s.d.Declaration()}
}

// Expand returns a Quad with e applied to the primary pattern.
func (s *Quad[A, B, C, D]) Expand(e pattern.Expansion) Structure {
	return &Quad[A, B, C, D]{base: s.withPrimary(s.primary.Expand(e)), a: s.a, b: s.b, c: s.c, d: s.d}
}
