package rule

import (
	"slices"
	"strconv"

	"github.com/roach88/streamrule/internal/ir"
	"github.com/roach88/streamrule/internal/pattern"
)

// Structure is the left-hand side of a rule under assembly.
//
// Implementations are Uni, Bi, Tri and Quad. Item slices returned by the
// accessors are shared with derived structures and must be treated as
// read-only.
type Structure interface {
	// Allocator returns the id supplier shared by the rule's structures.
	Allocator() IDSupplier

	// PrimaryPattern returns the pattern subsequent stages may expand.
	// For the left-hand side
	//
	//	$a1: A()
	//	$a2: A(this != $a1)
	//
	// the primary pattern is $a2 and $a1 is its only open item.
	PrimaryPattern() *pattern.Builder

	// OpenItems returns every item the primary pattern depends on, in
	// declaration order.
	OpenItems() []ir.RuleItem

	// ClosedItems returns the fully resolved items, in merge order.
	ClosedItems() []ir.RuleItem

	// Variables returns the output variables in a, b, c, d order.
	Variables() []ir.Declaration

	// Arity returns the number of output variables (1..4).
	Arity() int

	// Expand returns a structure of the same arity whose primary pattern
	// carries one more expansion.
	Expand(e pattern.Expansion) Structure

	// Finish returns the rule's definitive item list.
	Finish(consequence *ir.Consequence) []ir.RuleItem
}

// base holds the state shared by every arity.
type base struct {
	ids     IDSupplier
	primary *pattern.Builder
	open    []ir.RuleItem
	closed  []ir.RuleItem
}

// newBase clips both lists so an append by any holder reallocates instead
// of writing into a backing array another structure still reads.
func newBase(ids IDSupplier, primary *pattern.Builder, open, closed []ir.RuleItem) base {
	return base{
		ids:     ids,
		primary: primary,
		open:    slices.Clip(open),
		closed:  slices.Clip(closed),
	}
}

func (b base) Allocator() IDSupplier            { return b.ids }
func (b base) PrimaryPattern() *pattern.Builder { return b.primary }
func (b base) OpenItems() []ir.RuleItem         { return b.open }
func (b base) ClosedItems() []ir.RuleItem       { return b.closed }

// Finish returns closed ++ open ++ built(primary) ++ consequence.
func (b base) Finish(consequence *ir.Consequence) []ir.RuleItem {
	result := make([]ir.RuleItem, 0, len(b.closed)+len(b.open)+2)
	result = append(result, b.closed...)
	result = append(result, b.open...)
	result = append(result, b.primary.Build())
	result = append(result, consequence)
	return result
}

// withPrimary returns a copy sharing both item lists.
func (b base) withPrimary(primary *pattern.Builder) base {
	return base{ids: b.ids, primary: primary, open: b.open, closed: b.closed}
}

// decorateName allocates one id and builds "$var<id>_<hint>".
func decorateName(ids IDSupplier, hint string) string {
	return "$var" + strconv.FormatUint(ids.Next(), 10) + "_" + hint
}

// CreateVariable declares a new, unbound, freshly matched variable in s's
// rule. The hint is decorated with a fresh id, so equal hints never collide
// within the rule.
//
// typ should be as narrow as possible: ir.AnyType works in all cases, but
// the engine then has to consider every fact of every type.
func CreateVariable[X any](s Structure, typ ir.Type, hint string) ir.Variable[X] {
	return ir.DeclarationOf[X](typ, decorateName(s.Allocator(), hint), ir.Matched{})
}

// CreateVariableFrom is CreateVariable with an explicit declaration source.
func CreateVariableFrom[X any](s Structure, typ ir.Type, hint string, src ir.DeclarationSource) ir.Variable[X] {
	return ir.DeclarationOf[X](typ, decorateName(s.Allocator(), hint), src)
}

// CreateAnyVariable declares an ir.AnyType variable; see CreateVariable.
func CreateAnyVariable[X any](s Structure, hint string) ir.Variable[X] {
	return CreateVariable[X](s, ir.AnyType, hint)
}

// CreateAnyVariableFrom declares an ir.AnyType variable with a source; see
// CreateVariableFrom.
func CreateAnyVariableFrom[X any](s Structure, hint string, src ir.DeclarationSource) ir.Variable[X] {
	return CreateVariableFrom[X](s, ir.AnyType, hint, src)
}
