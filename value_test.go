package peg

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragment(t *testing.T) {
	t.Run("concat walks its parts", func(t *testing.T) {
		f := Concat(Of("a", "b"), Empty, Of("c"))
		assert.Equal(t, 3, f.Len())
		assert.Equal(t, "a", f.At(0))
		assert.Equal(t, "b", f.At(1))
		assert.Equal(t, "c", f.At(2))
		assert.Panics(t, func() { f.At(3) })
	})

	t.Run("concat is a view over its parts", func(t *testing.T) {
		items := []any{"a", "b"}
		f := Concat(vector(items), Of("c"))
		items[0] = "z"
		assert.Equal(t, "z", f.At(0))
	})

	t.Run("nested concatenations flatten when materialized", func(t *testing.T) {
		f := Concat(Concat(Of(1), Empty, Of(2)), Of(3), Concat(Of(4), Of(5)))
		assert.Equal(t, 5, f.Len())
		assert.Equal(t, []any{1, 2, 3, 4, 5}, Materialize(f))
		assert.Equal(t, 4, f.At(3))
	})

	t.Run("single part and empty concatenations", func(t *testing.T) {
		f := Of("a")
		assert.Equal(t, f, Concat(f))
		assert.Equal(t, 0, Concat().Len())
	})

	t.Run("append leaves the original alone", func(t *testing.T) {
		f := Concat(Of("a"), Of("b"))
		g := Append(f, "c")
		assert.Equal(t, 2, f.Len())
		assert.Equal(t, 3, g.Len())
		assert.Equal(t, "c", g.At(2))

		h := Append(Of("x"), "y")
		assert.Equal(t, []any{"x", "y"}, Materialize(h))
	})

	t.Run("set and pop materialize a copy", func(t *testing.T) {
		f := Concat(Of("a", "b"), Of("c"))

		s := Set(f, 1, "x")
		assert.Equal(t, []any{"a", "x", "c"}, Materialize(s))
		assert.Equal(t, "b", f.At(1))
		assert.Panics(t, func() { Set(f, 3, "x") })

		p := Pop(f)
		assert.Equal(t, []any{"a", "b"}, Materialize(p))
		assert.Equal(t, 3, f.Len())
		assert.Panics(t, func() { Pop(Empty) })
	})

	t.Run("position metadata survives set and pop but not append", func(t *testing.T) {
		pos := NewPosition(1, 4)
		node := newConcat(&pos, []Fragment{Of(RuleName("r")), Of("a", "b")})

		got, ok := PositionOf(Set(node, 1, "x"))
		require.True(t, ok)
		assert.Equal(t, pos, got)

		got, ok = PositionOf(Pop(node))
		require.True(t, ok)
		assert.Equal(t, pos, got)

		_, ok = PositionOf(Append(node, "c"))
		assert.False(t, ok)

		_, ok = PositionOf(Of("a"))
		assert.False(t, ok)
	})

	t.Run("data converts nested fragments to slices", func(t *testing.T) {
		f := Of("a", Concat(Of(RuleName("r")), Of("b", Of("c"))))
		expected := []any{"a", []any{RuleName("r"), "b", []any{"c"}}}
		assert.Empty(t, cmp.Diff(expected, Data(f)))
	})

	t.Run("node name", func(t *testing.T) {
		name, ok := NodeName(Of(RuleName("select"), "a"))
		require.True(t, ok)
		assert.Equal(t, RuleName("select"), name)

		_, ok = NodeName(Of("select"))
		assert.False(t, ok)

		_, ok = NodeName(Empty)
		assert.False(t, ok)
	})

	t.Run("text joins terminals only", func(t *testing.T) {
		f := Of("a", Of(RuleName("r"), "b"), int64(3), "c")
		assert.Equal(t, "abc", Text(f))
	})

	t.Run("string", func(t *testing.T) {
		f := Concat(Of(RuleName("r"), "a"), Of(int64(1), Of("b")))
		assert.Equal(t, `[:r "a" 1 ["b"]]`, fmt.Sprint(f))
	})
}
