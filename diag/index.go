package diag

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Location is a point within an input.  Line and Column are 1-based,
// and Column counts runes.  Cursor is the byte offset it was computed
// from.
type Location struct {
	Line   int
	Column int
	Cursor int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Span is the region between two locations
type Span struct {
	Start, End Location
}

func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		if s.Start.Column == s.End.Column {
			return s.Start.String()
		}
		return fmt.Sprintf("%d:%d..%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// Index converts byte offsets, which is what the parser reports, into
// line and column locations.  Rune columns are meant for humans and
// UTF-16 columns for editors speaking LSP.
type Index struct {
	input string

	// byte offset of the start of each line
	lineStart []int

	// built on first use
	runeUnits, u16Units *unitsIndex
}

func NewIndex(input string) *Index {
	lineStart := make([]int, 1, 64)
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &Index{input: input, lineStart: lineStart}
}

// Lines returns how many lines the input has.  An input ending with a
// line break has an empty last line.
func (ix *Index) Lines() int { return len(ix.lineStart) }

func (ix *Index) clamp(cursor int) int {
	return max(0, min(cursor, len(ix.input)))
}

func (ix *Index) line(cursor int) int {
	return sort.Search(len(ix.lineStart), func(i int) bool {
		return ix.lineStart[i] > cursor
	}) - 1
}

// LocationAt returns the location of the byte offset `cursor`.
// Offsets outside of the input are clamped to it.
func (ix *Index) LocationAt(cursor int) Location {
	cursor = ix.clamp(cursor)
	line := ix.line(cursor)
	if ix.runeUnits == nil {
		ix.runeUnits = newUnitsIndex(ix.input, unitsModeRune)
	}
	col := ix.runeUnits.UnitsAt(cursor) - ix.runeUnits.UnitsAt(ix.lineStart[line]) + 1
	return Location{Line: line + 1, Column: col, Cursor: cursor}
}

// Span returns the locations of both ends of [start, end)
func (ix *Index) Span(start, end int) Span {
	return Span{Start: ix.LocationAt(start), End: ix.LocationAt(end)}
}

// UTF16At returns the 0-based line and the 0-based UTF-16 column of
// the byte offset `cursor`, as LSP positions are expressed.
func (ix *Index) UTF16At(cursor int) (line, character int) {
	cursor = ix.clamp(cursor)
	line = ix.line(cursor)
	if ix.u16Units == nil {
		ix.u16Units = newUnitsIndex(ix.input, unitsModeUTF16)
	}
	return line, ix.u16Units.UnitsAt(cursor) - ix.u16Units.UnitsAt(ix.lineStart[line])
}

type unitsMode uint8

const (
	unitsModeRune unitsMode = iota
	unitsModeUTF16
)

// unitsIndex maps byte offsets to absolute offsets counted in runes or
// in UTF-16 code units.  It keeps a checkpoint every few bytes so
// lookups only decode the input between the closest checkpoint and
// the cursor.
type unitsIndex struct {
	input       string
	byteOffsets []int
	unitOffsets []int
	mode        unitsMode
}

func newUnitsIndex(input string, mode unitsMode) *unitsIndex {
	const strideBytes = 64

	var (
		units = 0
		since = 0
		ix    = &unitsIndex{
			input:       input,
			byteOffsets: []int{0},
			unitOffsets: []int{0},
			mode:        mode,
		}
	)
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		i += size
		units += ix.unitsForRune(r)
		since += size
		if since >= strideBytes {
			ix.byteOffsets = append(ix.byteOffsets, i)
			ix.unitOffsets = append(ix.unitOffsets, units)
			since = 0
		}
	}
	if last := ix.byteOffsets[len(ix.byteOffsets)-1]; last != len(input) {
		ix.byteOffsets = append(ix.byteOffsets, len(input))
		ix.unitOffsets = append(ix.unitOffsets, units)
	}
	return ix
}

// UnitsAt returns the units before `cursor`.  A cursor in the middle
// of a rune counts up to the start of that rune.
func (ix *unitsIndex) UnitsAt(cursor int) int {
	i := sort.Search(len(ix.byteOffsets), func(i int) bool {
		return ix.byteOffsets[i] > cursor
	}) - 1
	if i < 0 {
		i = 0
	}
	pos, units := ix.byteOffsets[i], ix.unitOffsets[i]
	for pos < cursor {
		r, size := utf8.DecodeRuneInString(ix.input[pos:])
		if pos+size > cursor {
			break
		}
		units += ix.unitsForRune(r)
		pos += size
	}
	return units
}

func (ix *unitsIndex) unitsForRune(r rune) int {
	if ix.mode == unitsModeUTF16 && r > 0xFFFF {
		return 2
	}
	return 1
}
