package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/streamrule/internal/ir"
	"github.com/roach88/streamrule/internal/pattern"
	"github.com/roach88/streamrule/internal/testutil"
	"github.com/roach88/streamrule/internal/tuple"
)

// fixture returns a Uni with closed [c1], open [o1] and a primary pattern
// over $var1_lesson.
func fixture(ids IDSupplier) *Uni[any] {
	root := NewUni[any](ids, "Lesson", "lesson")
	return &Uni[any]{
		base: newBase(ids, root.PrimaryPattern(),
			[]ir.RuleItem{testutil.Item("o1")},
			[]ir.RuleItem{testutil.Item("c1")}),
		a: root.A(),
	}
}

// bindings returns the target name and field of every binding clause.
func bindings(t *testing.T, p *ir.Pattern) [][2]string {
	t.Helper()
	var out [][2]string
	for _, c := range p.Clauses {
		b, ok := c.(ir.Binding)
		require.True(t, ok, "clause %T is not a binding", c)
		out = append(out, [2]string{b.Target.Name, b.Field})
	}
	return out
}

func TestRecollect(t *testing.T) {
	ids := testutil.NewDeterministicAllocator()
	s := fixture(ids)
	x := testutil.Item("x")
	newA := CreateAnyVariable[int](s, "result")

	r := Recollect(s, newA, x)

	assert.Equal(t, 1, r.Arity())
	assert.Equal(t, newA, r.A())
	assert.Equal(t, []string{"x"}, testutil.ItemNames(r.OpenItems()))
	assert.Equal(t, []string{"c1"}, testutil.ItemNames(r.ClosedItems()))
	assert.Equal(t, newA.Declaration(), r.PrimaryPattern().Variable())
	assert.Equal(t, 0, r.PrimaryPattern().Len())
	assert.Same(t, ids, r.Allocator())
	assert.Equal(t, []uint64{1, 2}, ids.Issued(), "recollect draws no ids")

	items := r.Finish(testutil.Consequence("k"))
	assert.Equal(t, []string{"c1", "x", "$var2_result", "consequence"}, testutil.ItemNames(items))
}

func TestRegroup(t *testing.T) {
	ids := testutil.NewDeterministicAllocator()
	s := fixture(ids)
	src := CreateVariable[[]string](s, "[]any", "groups")
	x, q := testutil.Item("x"), testutil.Item("q")

	r := Regroup(s, src, q, x)

	assert.Equal(t, 1, r.Arity())
	assert.Equal(t, "$var3_groupKey", r.A().Name())
	assert.Equal(t, ir.AnyType, r.A().Type())
	assert.Equal(t, ir.From{Var: "$var2_groups"}, r.A().Source())
	assert.Equal(t, []string{"q"}, testutil.ItemNames(r.OpenItems()))
	assert.Equal(t, []string{"c1", "x"}, testutil.ItemNames(r.ClosedItems()))
	assert.Equal(t, r.A().Declaration(), r.PrimaryPattern().Variable())
	assert.Empty(t, r.PrimaryPattern().Build().Clauses)
	assert.Same(t, ids, r.Allocator())
}

func TestRegroupBi(t *testing.T) {
	ids := testutil.NewDeterministicAllocator()
	s := fixture(ids)
	src := CreateVariable[[]tuple.Bi[string, int]](s, ir.CollectionOf(ir.TypeOf[tuple.Bi[string, int]]()), "groups")
	x, q := testutil.Item("x"), testutil.Item("q")

	r := RegroupBi(s, src, q, x)

	assert.Equal(t, 2, r.Arity())
	assert.Equal(t, "$var4_newA", r.A().Name())
	assert.Equal(t, "$var5_newB", r.B().Name())
	assert.Equal(t, ir.AnyType, r.A().Type())
	assert.Equal(t, ir.Matched{}, r.B().Source())
	assert.Equal(t, []string{"q"}, testutil.ItemNames(r.OpenItems()))
	assert.Equal(t, []string{"c1", "x"}, testutil.ItemNames(r.ClosedItems()))

	key := r.PrimaryPattern().Variable()
	assert.Equal(t, "$var3_groupKey", key.Name)
	assert.Equal(t, ir.Type("tuple.Bi"), key.Type)
	assert.Equal(t, ir.From{Var: "$var2_groups"}, key.Source)

	built := r.PrimaryPattern().Build()
	assert.Equal(t, [][2]string{{"$var4_newA", "a"}, {"$var5_newB", "b"}}, bindings(t, built))

	value := tuple.NewBi("room-1", 3)
	assert.Equal(t, "room-1", built.Clauses[0].(ir.Binding).Extract(value))
	assert.Equal(t, 3, built.Clauses[1].(ir.Binding).Extract(value))

	items := r.Finish(testutil.Consequence("k", r.A().Name(), r.B().Name()))
	assert.Equal(t, []string{"c1", "x", "q", "$var3_groupKey", "consequence"}, testutil.ItemNames(items))
}

func TestRegroupBiToTri(t *testing.T) {
	ids := testutil.NewDeterministicAllocator()
	s := fixture(ids)
	src := CreateAnyVariable[[]tuple.Tri[string, int, bool]](s, "groups")

	r := RegroupBiToTri(s, src, testutil.Item("q"), testutil.Item("x"))

	assert.Equal(t, 3, r.Arity())
	assert.Equal(t, ir.Type("tuple.Tri"), r.PrimaryPattern().Variable().Type)
	assert.Equal(t, []ir.Declaration{
		r.A().Declaration(), r.B().Declaration(), r.C().Declaration(),
	}, r.Variables())

	built := r.PrimaryPattern().Build()
	assert.Equal(t, [][2]string{
		{"$var4_newA", "a"}, {"$var5_newB", "b"}, {"$var6_newC", "c"},
	}, bindings(t, built))

	value := tuple.NewTri("room-1", 3, true)
	assert.Equal(t, true, built.Clauses[2].(ir.Binding).Extract(value))
}

func TestRegroupBiToQuad(t *testing.T) {
	ids := testutil.NewDeterministicAllocator()
	s := fixture(ids)
	src := CreateAnyVariable[[]tuple.Quad[string, int, bool, string]](s, "groups")

	r := RegroupBiToQuad(s, src, testutil.Item("q"), testutil.Item("x"))

	assert.Equal(t, 4, r.Arity())
	assert.Len(t, r.Variables(), 4)
	assert.Equal(t, "$var7_newD", r.D().Name())
	assert.Equal(t, ir.Type("tuple.Quad"), r.PrimaryPattern().Variable().Type)

	built := r.PrimaryPattern().Build()
	assert.Equal(t, [][2]string{
		{"$var4_newA", "a"}, {"$var5_newB", "b"}, {"$var6_newC", "c"}, {"$var7_newD", "d"},
	}, bindings(t, built))

	value := tuple.NewQuad("room-1", 3, true, "monday")
	assert.Equal(t, "monday", built.Clauses[3].(ir.Binding).Extract(value))
	assert.Equal(t, []string{"c1", "x"}, testutil.ItemNames(r.ClosedItems()))
	assert.Equal(t, []string{"q"}, testutil.ItemNames(r.OpenItems()))
}

func TestRegroup_InputUnchanged(t *testing.T) {
	q, x := testutil.Item("q"), testutil.Item("x")

	tests := []struct {
		name   string
		run    func(s *Uni[any]) Structure
		closed []string
		open   []string
	}{
		{
			name: "Regroup",
			run: func(s *Uni[any]) Structure {
				return Regroup(s, CreateAnyVariable[[]string](s, "groups"), q, x)
			},
			closed: []string{"c1", "x"},
			open:   []string{"q"},
		},
		{
			name: "RegroupBi",
			run: func(s *Uni[any]) Structure {
				return RegroupBi(s, CreateAnyVariable[[]tuple.Bi[string, int]](s, "groups"), q, x)
			},
			closed: []string{"c1", "x"},
			open:   []string{"q"},
		},
		{
			name: "RegroupBiToTri",
			run: func(s *Uni[any]) Structure {
				return RegroupBiToTri(s, CreateAnyVariable[[]tuple.Tri[string, int, bool]](s, "groups"), q, x)
			},
			closed: []string{"c1", "x"},
			open:   []string{"q"},
		},
		{
			name: "RegroupBiToQuad",
			run: func(s *Uni[any]) Structure {
				return RegroupBiToQuad(s, CreateAnyVariable[[]tuple.Quad[string, int, bool, string]](s, "groups"), q, x)
			},
			closed: []string{"c1", "x"},
			open:   []string{"q"},
		},
		{
			name: "Recollect",
			run: func(s *Uni[any]) Structure {
				return Recollect(s, CreateAnyVariable[int](s, "result"), x)
			},
			closed: []string{"c1"},
			open:   []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fixture(NewAllocator())
			s = s.Expand(pattern.Filter("isMonday", []string{s.A().Name()})).(*Uni[any])

			closedBefore := append([]ir.RuleItem(nil), s.ClosedItems()...)
			openBefore := append([]ir.RuleItem(nil), s.OpenItems()...)
			primaryBefore := s.PrimaryPattern().Build()

			first := tt.run(s)
			second := tt.run(s)

			assert.Equal(t, closedBefore, s.ClosedItems())
			assert.Equal(t, openBefore, s.OpenItems())
			assert.Equal(t, primaryBefore, s.PrimaryPattern().Build())

			for _, r := range []Structure{first, second} {
				assert.Equal(t, tt.closed, testutil.ItemNames(r.ClosedItems()))
				assert.Equal(t, tt.open, testutil.ItemNames(r.OpenItems()))
			}
			assert.NotEqual(t, first.PrimaryPattern().Variable(), second.PrimaryPattern().Variable(),
				"each call declares fresh variables")
		})
	}
}

func TestRegroup_ChainedGroupings(t *testing.T) {
	ids := testutil.NewDeterministicAllocator()
	s := fixture(ids)

	src1 := CreateAnyVariable[[]tuple.Bi[string, int]](s, "groups")
	first := RegroupBi(s, src1, testutil.Item("q1"), testutil.Item("x1"))

	src2 := CreateAnyVariable[[]string](first, "groups")
	second := Regroup(first, src2, testutil.Item("q2"), testutil.Item("x2"))

	assert.Equal(t, []string{"c1", "x1", "x2"}, testutil.ItemNames(second.ClosedItems()))
	assert.Equal(t, []string{"q2"}, testutil.ItemNames(second.OpenItems()))
	assert.Equal(t, "$var7_groupKey", second.A().Name())
}
