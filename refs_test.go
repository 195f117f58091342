package sheetcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefTable_Interning(t *testing.T) {
	table := NewRefTable()
	a := table.GetOrInsert(ParsePosition("B2"))
	b := table.GetOrInsert(ParsePosition("B2"))
	c := table.GetOrInsert(ParsePosition("B3"))

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestRefTable_InsertRows(t *testing.T) {
	table := NewRefTable()
	above := table.GetOrInsert(ParsePosition("A1"))
	below := table.GetOrInsert(ParsePosition("A3"))

	moved := table.InsertRows(1, 2)
	assert.Equal(t, 1, moved)

	pos, ok := above.Pos()
	require.True(t, ok)
	assert.Equal(t, "A1", pos.String())

	pos, ok = below.Pos()
	require.True(t, ok)
	assert.Equal(t, "A5", pos.String())
}

func TestRefTable_InsertRows_AdjacentKeys(t *testing.T) {
	// Shifting by one through a dense run must not collapse entries.
	table := NewRefTable()
	handles := []*RefHandle{
		table.GetOrInsert(ParsePosition("A1")),
		table.GetOrInsert(ParsePosition("A2")),
		table.GetOrInsert(ParsePosition("A3")),
	}

	moved := table.InsertRows(0, 1)
	assert.Equal(t, 3, moved)

	for i, h := range handles {
		pos, ok := h.Pos()
		require.True(t, ok)
		assert.Equal(t, i+1, pos.Row)
	}
	assert.Len(t, table.ReferencedCells(), 3)
}

func TestRefTable_InsertCols(t *testing.T) {
	table := NewRefTable()
	left := table.GetOrInsert(ParsePosition("A1"))
	right := table.GetOrInsert(ParsePosition("C1"))

	moved := table.InsertCols(1, 1)
	assert.Equal(t, 1, moved)

	pos, _ := left.Pos()
	assert.Equal(t, "A1", pos.String())
	pos, _ = right.Pos()
	assert.Equal(t, "D1", pos.String())
}

func TestRefTable_DeleteRows(t *testing.T) {
	table := NewRefTable()
	above := table.GetOrInsert(ParsePosition("A1"))
	inside := table.GetOrInsert(ParsePosition("A2"))
	below := table.GetOrInsert(ParsePosition("A4"))

	lost, moved := table.DeleteRows(1, 2)
	assert.Equal(t, 1, lost)
	assert.Equal(t, 1, moved)

	pos, ok := above.Pos()
	require.True(t, ok)
	assert.Equal(t, "A1", pos.String())

	assert.True(t, inside.Lost())

	pos, ok = below.Pos()
	require.True(t, ok)
	assert.Equal(t, "A2", pos.String())
}

func TestRefTable_DeleteCols(t *testing.T) {
	table := NewRefTable()
	inside := table.GetOrInsert(ParsePosition("B1"))
	past := table.GetOrInsert(ParsePosition("D1"))

	lost, moved := table.DeleteCols(1, 1)
	assert.Equal(t, 1, lost)
	assert.Equal(t, 1, moved)

	assert.True(t, inside.Lost())
	pos, ok := past.Pos()
	require.True(t, ok)
	assert.Equal(t, "C1", pos.String())
}

func TestRefTable_LostHandleStaysLost(t *testing.T) {
	table := NewRefTable()
	h := table.GetOrInsert(ParsePosition("A2"))

	lost, _ := table.DeleteRows(1, 1)
	require.Equal(t, 1, lost)
	require.True(t, h.Lost())

	// Later shifts must not resurrect or recount the dead handle.
	assert.Equal(t, 0, table.InsertRows(0, 3))
	lost, moved := table.DeleteRows(0, 1)
	assert.Equal(t, 0, lost)
	assert.Equal(t, 0, moved)
	assert.True(t, h.Lost())
}

func TestRefTable_ReferencedCells(t *testing.T) {
	table := NewRefTable()
	table.GetOrInsert(ParsePosition("C1"))
	table.GetOrInsert(ParsePosition("A2"))
	table.GetOrInsert(ParsePosition("B1"))

	cells := table.ReferencedCells()
	require.Len(t, cells, 3)
	assert.Equal(t, "B1", cells[0].String())
	assert.Equal(t, "C1", cells[1].String())
	assert.Equal(t, "A2", cells[2].String())
}
