package peg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosition(t *testing.T) {
	t.Run("answers to the two position keys", func(t *testing.T) {
		p := NewPosition(3, 9)

		start, ok := p.Get(StartIndex)
		assert.True(t, ok)
		assert.Equal(t, 3, start)

		end, ok := p.Get(EndIndex)
		assert.True(t, ok)
		assert.Equal(t, 9, end)

		_, ok = p.Get(PositionKey("line"))
		assert.False(t, ok)

		assert.True(t, p.Has(StartIndex))
		assert.False(t, p.Has(PositionKey("line")))
		assert.Equal(t, map[PositionKey]int{StartIndex: 3, EndIndex: 9}, p.Map())
		assert.Equal(t, 6, p.Len())
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "3..9", NewPosition(3, 9).String())
		assert.Equal(t, "4", NewPosition(4, 4).String())
	})
}

func TestPosition_Contains(t *testing.T) {
	tests := []struct {
		name     string
		parent   Position
		other    Position
		expected bool
	}{
		{
			name:     "fully contained",
			parent:   NewPosition(0, 10),
			other:    NewPosition(2, 8),
			expected: true,
		},
		{
			name:     "identical",
			parent:   NewPosition(5, 15),
			other:    NewPosition(5, 15),
			expected: true,
		},
		{
			name:     "other starts before parent",
			parent:   NewPosition(5, 15),
			other:    NewPosition(3, 10),
			expected: false,
		},
		{
			name:     "other ends after parent",
			parent:   NewPosition(5, 15),
			other:    NewPosition(10, 20),
			expected: false,
		},
		{
			name:     "empty position at the boundary",
			parent:   NewPosition(5, 15),
			other:    NewPosition(15, 15),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.parent.Contains(tt.other))
		})
	}
}
