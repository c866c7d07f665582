package tuple

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBi_Fields(t *testing.T) {
	tup := NewBi("room-1", 3)

	assert.Equal(t, "room-1", tup.A())
	assert.Equal(t, 3, tup.B())
	assert.Equal(t, 2, tup.Arity())
	assert.Equal(t, []any{"room-1", 3}, tup.Values())
	assert.Equal(t, "BiTuple(room-1, 3)", tup.String())
}

func TestTri_Fields(t *testing.T) {
	tup := NewTri("a", int64(2), true)

	assert.Equal(t, "a", tup.A())
	assert.Equal(t, int64(2), tup.B())
	assert.True(t, tup.C())
	assert.Equal(t, 3, tup.Arity())
	assert.Equal(t, []any{"a", int64(2), true}, tup.Values())
	assert.Equal(t, "TriTuple(a, 2, true)", tup.String())
}

func TestQuad_Fields(t *testing.T) {
	tup := NewQuad(1, "b", 'c', 4.5)

	assert.Equal(t, 1, tup.A())
	assert.Equal(t, "b", tup.B())
	assert.Equal(t, 'c', tup.C())
	assert.Equal(t, 4.5, tup.D())
	assert.Equal(t, 4, tup.Arity())
	assert.Len(t, tup.Values(), 4)
}

func TestTuples_EqualByContents(t *testing.T) {
	// No identity beyond contents: equal fields compare equal.
	assert.True(t, NewBi("x", 1) == NewBi("x", 1))
	assert.False(t, NewBi("x", 1) == NewBi("x", 2))
	assert.True(t, NewTri(1, 2, 3) == NewTri(1, 2, 3))
	assert.True(t, NewQuad(1, 2, 3, 4) == NewQuad(1, 2, 3, 4))

	seen := map[Bi[string, int]]bool{}
	seen[NewBi("k", 1)] = true
	assert.True(t, seen[NewBi("k", 1)])
}

func TestTuples_ZeroValues(t *testing.T) {
	var tup Quad[string, int, bool, *int]

	assert.Equal(t, "", tup.A())
	assert.Equal(t, 0, tup.B())
	assert.False(t, tup.C())
	assert.Nil(t, tup.D())
}
