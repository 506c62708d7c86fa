package peg

import "fmt"

// PositionKey names one of the two fields of a Position.
type PositionKey string

const (
	StartIndex PositionKey = "start-idx"
	EndIndex   PositionKey = "end-idx"
)

// Position is the metadata attached to the fragment of a wrapped rule
// invocation.  Start is the offset where the rule was attempted and
// End the offset right after what it consumed (trailing whitespace
// included).  It only answers to StartIndex and EndIndex.
type Position struct{ Start, End int }

func NewPosition(start, end int) Position {
	return Position{Start: start, End: end}
}

// Get returns the value stored under key, and false for any key other
// than StartIndex and EndIndex
func (p Position) Get(key PositionKey) (int, bool) {
	switch key {
	case StartIndex:
		return p.Start, true
	case EndIndex:
		return p.End, true
	default:
		return 0, false
	}
}

func (p Position) Has(key PositionKey) bool {
	return key == StartIndex || key == EndIndex
}

// Map materializes the position as a regular map.  Only needed by
// consumers that want to treat it as a general key/value record.
func (p Position) Map() map[PositionKey]int {
	return map[PositionKey]int{StartIndex: p.Start, EndIndex: p.End}
}

func (p Position) Len() int { return p.End - p.Start }

func (p Position) Contains(other Position) bool {
	return other.Start >= p.Start && other.End <= p.End
}

func (p Position) String() string {
	if p.Start == p.End {
		return fmt.Sprintf("%d", p.Start)
	}
	return fmt.Sprintf("%d..%d", p.Start, p.End)
}
