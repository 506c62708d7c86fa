package peg

import (
	"fmt"
	"strings"
)

// Fragment is an immutable ordered sequence of AST values.  Elements
// are terminal text (string), rule tags (RuleName), values produced by
// regexp transforms, or nested fragments (rule nodes).
//
// Fragments produced by sequencing and repetition are lazy views over
// their parts: nothing is copied until one of the mutation-like
// functions (Set, Pop, Materialize) asks for a flat sequence.
type Fragment interface {
	Len() int
	At(i int) any
}

// RuleName tags the first element of a rule node, so consumers can
// tell it apart from terminal text.
type RuleName string

func (n RuleName) String() string { return string(n) }

// Empty is the fragment returned by hidden parsers and by every
// parser that matches without producing values.
var Empty Fragment = vector(nil)

// Of builds a flat fragment out of values
func Of(values ...any) Fragment {
	if len(values) == 0 {
		return Empty
	}
	return vector(values)
}

type vector []any

func (v vector) Len() int       { return len(v) }
func (v vector) At(i int) any   { return v[i] }
func (v vector) String() string { return formatFragment(v) }

// concat is the lazy concatenation of its parts.  The total length is
// computed when the view is built, which only reads the (already
// known) length of each part.
type concat struct {
	parts []Fragment
	n     int
	pos   *Position
}

func newConcat(pos *Position, parts []Fragment) *concat {
	n := 0
	for _, p := range parts {
		n += p.Len()
	}
	return &concat{parts: parts, n: n, pos: pos}
}

func (c *concat) Len() int { return c.n }

func (c *concat) At(i int) any {
	if i < 0 || i >= c.n {
		panic(fmt.Sprintf("fragment index out of range [%d] with length %d", i, c.n))
	}
	for _, p := range c.parts {
		n := p.Len()
		if i < n {
			return p.At(i)
		}
		i -= n
	}
	panic("unreachable")
}

func (c *concat) String() string { return formatFragment(c) }

// Concat returns a view over parts, in order.  The parts are not
// copied.
func Concat(parts ...Fragment) Fragment {
	switch len(parts) {
	case 0:
		return Empty
	case 1:
		return parts[0]
	default:
		return newConcat(nil, parts)
	}
}

// PositionOf returns the position metadata attached to f, if any.
// Only rule nodes carry positions.
func PositionOf(f Fragment) (Position, bool) {
	if c, ok := f.(*concat); ok && c.pos != nil {
		return *c.pos, true
	}
	return Position{}, false
}

// Append returns a fragment with v added after the last element of f.
// Like Concat, it doesn't copy f.  Position metadata isn't carried
// over since the result no longer describes the same match.
func Append(f Fragment, v any) Fragment {
	if c, ok := f.(*concat); ok {
		parts := make([]Fragment, len(c.parts), len(c.parts)+1)
		copy(parts, c.parts)
		return newConcat(nil, append(parts, vector{v}))
	}
	return newConcat(nil, []Fragment{f, vector{v}})
}

// Set returns a flat copy of f with the element at i replaced by v.
// Position metadata is preserved.
func Set(f Fragment, i int, v any) Fragment {
	if i < 0 || i >= f.Len() {
		panic(fmt.Sprintf("fragment index out of range [%d] with length %d", i, f.Len()))
	}
	items := Materialize(f)
	items[i] = v
	return withMeta(f, items)
}

// Pop returns a flat copy of f without its last element.  Position
// metadata is preserved.
func Pop(f Fragment) Fragment {
	n := f.Len()
	if n == 0 {
		panic("can't pop empty fragment")
	}
	return withMeta(f, Materialize(f)[:n-1])
}

func withMeta(from Fragment, items []any) Fragment {
	if pos, ok := PositionOf(from); ok {
		return newConcat(&pos, []Fragment{vector(items)})
	}
	return vector(items)
}

// Materialize copies the top level elements of f into a new slice.
// Nested fragments are kept as they are.
func Materialize(f Fragment) []any {
	items := make([]any, f.Len())
	if c, ok := f.(*concat); ok {
		c.copyTo(items)
		return items
	}
	for i := range items {
		items[i] = f.At(i)
	}
	return items
}

func (c *concat) copyTo(dst []any) {
	off := 0
	for _, p := range c.parts {
		if pc, ok := p.(*concat); ok {
			pc.copyTo(dst[off:])
		} else {
			for i, n := 0, p.Len(); i < n; i++ {
				dst[off+i] = p.At(i)
			}
		}
		off += p.Len()
	}
}

// Data converts f into plain nested slices.  Position metadata is
// dropped, which makes the output suitable for structural comparison.
func Data(f Fragment) []any {
	items := Materialize(f)
	for i, item := range items {
		if nested, ok := item.(Fragment); ok {
			items[i] = Data(nested)
		}
	}
	return items
}

// NodeName returns the rule name of a rule node
func NodeName(f Fragment) (RuleName, bool) {
	if f.Len() == 0 {
		return "", false
	}
	name, ok := f.At(0).(RuleName)
	return name, ok
}

// Text concatenates the terminal text found within f, in order
func Text(f Fragment) string {
	var s strings.Builder
	writeText(&s, f)
	return s.String()
}

func writeText(s *strings.Builder, f Fragment) {
	for i, n := 0, f.Len(); i < n; i++ {
		switch v := f.At(i).(type) {
		case string:
			s.WriteString(v)
		case Fragment:
			writeText(s, v)
		}
	}
}

func formatFragment(f Fragment) string {
	var s strings.Builder
	s.WriteString("[")
	for i, n := 0, f.Len(); i < n; i++ {
		if i > 0 {
			s.WriteString(" ")
		}
		switch v := f.At(i).(type) {
		case string:
			fmt.Fprintf(&s, "%q", v)
		case RuleName:
			s.WriteString(":" + string(v))
		default:
			fmt.Fprintf(&s, "%v", v)
		}
	}
	s.WriteString("]")
	return s.String()
}
