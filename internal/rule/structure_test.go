package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/streamrule/internal/ir"
	"github.com/roach88/streamrule/internal/pattern"
	"github.com/roach88/streamrule/internal/testutil"
)

func TestNewUni_RootVariable(t *testing.T) {
	ids := testutil.NewDeterministicAllocator()

	s := NewUni[any](ids, "Lesson", "lesson")

	assert.Equal(t, "$var1_lesson", s.A().Name())
	assert.Equal(t, ir.Type("Lesson"), s.A().Type())
	assert.Equal(t, ir.Matched{}, s.A().Source())
	assert.Equal(t, 1, s.Arity())
	assert.Empty(t, s.OpenItems())
	assert.Empty(t, s.ClosedItems())
	assert.Equal(t, s.A().Declaration(), s.PrimaryPattern().Variable())
	assert.Same(t, ids, s.Allocator())
}

func TestCreateVariable_DecoratesHint(t *testing.T) {
	ids := testutil.NewDeterministicAllocator()
	s := NewUni[any](ids, "Lesson", "lesson")

	x := CreateVariable[string](s, "Room", "x")
	y := CreateVariable[string](s, "Room", "x")

	assert.Equal(t, "$var2_x", x.Name())
	assert.Equal(t, "$var3_x", y.Name())
	assert.NotEqual(t, x.Name(), y.Name())
	assert.Equal(t, ir.Type("Room"), x.Type())
	assert.False(t, x.Declaration().IsDerived())
	assert.Equal(t, []uint64{1, 2, 3}, ids.Issued())
}

func TestCreateVariable_AnyAndFrom(t *testing.T) {
	ids := testutil.NewDeterministicAllocator()
	s := NewUni[any](ids, "Lesson", "lesson")

	anyVar := CreateAnyVariable[int](s, "count")
	derived := CreateAnyVariableFrom[int](s, "item", ir.FromVariable(anyVar))
	typed := CreateVariableFrom[int](s, "int", "n", ir.FromVariable(derived))

	assert.Equal(t, ir.AnyType, anyVar.Type())
	assert.Equal(t, ir.From{Var: "$var2_count"}, derived.Source())
	assert.True(t, derived.Declaration().IsDerived())
	assert.Equal(t, ir.Type("int"), typed.Type())
	assert.Equal(t, "$var4_n", typed.Name())
}

func TestCreateVariable_SharedAcrossDerivedStructures(t *testing.T) {
	ids := NewAllocator()
	s := NewUni[any](ids, "Lesson", "lesson")
	expanded := s.Expand(pattern.Filter("isMonday", []string{s.A().Name()}))

	a := CreateAnyVariable[any](s, "a")
	b := CreateAnyVariable[any](expanded, "b")

	assert.Equal(t, "$var2_a", a.Name())
	assert.Equal(t, "$var3_b", b.Name())
}

func TestFinish_Order(t *testing.T) {
	ids := testutil.NewDeterministicAllocator()
	root := NewUni[any](ids, "Lesson", "lesson")

	c1, c2, o1 := testutil.Item("c1"), testutil.Item("c2"), testutil.Item("o1")
	s := &Uni[any]{
		base: newBase(ids, root.PrimaryPattern(), []ir.RuleItem{o1}, []ir.RuleItem{c1, c2}),
		a:    root.A(),
	}
	k := testutil.Consequence("k", root.A().Name())

	items := s.Finish(k)

	require.Len(t, items, 5)
	assert.Same(t, c1, items[0])
	assert.Same(t, c2, items[1])
	assert.Same(t, o1, items[2])
	assert.Equal(t, root.PrimaryPattern().Build(), items[3])
	assert.Same(t, k, items[4])
}

func TestFinish_RootHasPatternAndConsequence(t *testing.T) {
	s := NewUni[any](NewAllocator(), "Lesson", "lesson")
	k := testutil.Consequence("k")

	items := s.Finish(k)

	assert.Equal(t, []string{"$var1_lesson", "consequence"}, testutil.ItemNames(items))
}

func TestFinish_DoesNotAliasStructureLists(t *testing.T) {
	ids := NewAllocator()
	root := NewUni[any](ids, "Lesson", "lesson")
	s := &Uni[any]{
		base: newBase(ids, root.PrimaryPattern(), nil, []ir.RuleItem{testutil.Item("c1")}),
		a:    root.A(),
	}

	first := s.Finish(testutil.Consequence("first"))
	second := s.Finish(testutil.Consequence("second"))

	assert.Equal(t, "first", first[2].(*ir.Consequence).Constraint)
	assert.Equal(t, "second", second[2].(*ir.Consequence).Constraint)
	assert.Len(t, s.ClosedItems(), 1)
}

func TestExpand_KeepsListsAndVariables(t *testing.T) {
	ids := testutil.NewDeterministicAllocator()
	root := NewUni[any](ids, "Lesson", "lesson")
	open := []ir.RuleItem{testutil.Item("o1")}
	closed := []ir.RuleItem{testutil.Item("c1")}
	s := &Uni[any]{base: newBase(ids, root.PrimaryPattern(), open, closed), a: root.A()}

	expanded := s.Expand(pattern.Filter("isMonday", []string{s.A().Name()}))

	assert.Equal(t, 1, expanded.Arity())
	assert.Equal(t, s.Variables(), expanded.Variables())
	assert.Equal(t, s.OpenItems(), expanded.OpenItems())
	assert.Equal(t, s.ClosedItems(), expanded.ClosedItems())
	assert.Equal(t, 0, s.PrimaryPattern().Len())
	assert.Equal(t, 1, expanded.PrimaryPattern().Len())

	built := expanded.PrimaryPattern().Build()
	require.Len(t, built.Clauses, 1)
	assert.Equal(t, "isMonday", built.Clauses[0].(ir.Filter).Predicate)
}

func TestExpand_PreservesArity(t *testing.T) {
	ids := NewAllocator()
	root := NewUni[any](ids, "Lesson", "lesson")
	filter := pattern.Filter("ok", nil)

	structures := []Structure{
		root,
		&Bi[any, any]{base: root.base, a: root.A(), b: root.A()},
		&Tri[any, any, any]{base: root.base},
		&Quad[any, any, any, any]{base: root.base},
	}
	for i, s := range structures {
		expanded := s.Expand(filter)
		assert.Equal(t, i+1, expanded.Arity())
		assert.Len(t, expanded.Variables(), i+1)
		assert.IsType(t, s, expanded)
	}
}

func TestNewBase_ClipsLists(t *testing.T) {
	backing := make([]ir.RuleItem, 1, 4)
	backing[0] = testutil.Item("c1")

	b := newBase(NewAllocator(), nil, nil, backing)
	grown := append(b.ClosedItems(), testutil.Item("c2"))
	_ = append(backing, testutil.Item("other"))

	assert.Equal(t, "c2", grown[1].(*ir.Pattern).Var.Name)
}
