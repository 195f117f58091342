package sheetcalc

import "sort"

// RefHandle is a shared mutable slot holding the position one cell name in
// a formula resolves to. Every expression leaf that named the same cell at
// parse time holds the same handle, so one structural update is observed by
// all of them. A lost handle (nil slot) means the referenced cell was
// deleted; the loss is permanent and renders as #REF!.
type RefHandle struct {
	pos *Position
}

// Pos returns the current target position and whether the reference is
// still live.
func (h *RefHandle) Pos() (Position, bool) {
	if h.pos == nil {
		return Position{}, false
	}
	return *h.pos, true
}

// Lost reports whether the referenced cell was deleted.
func (h *RefHandle) Lost() bool {
	return h.pos == nil
}

func (h *RefHandle) invalidate() {
	h.pos = nil
}

func (h *RefHandle) move(p Position) {
	h.pos = &p
}

// RefTable owns the reference handles of one formula, keyed by row then
// column of the handle's current target. For every live handle the table
// holds its target coordinate as a key; a handle that is lost is removed
// from the table and stays reachable only through the leaves holding it.
type RefTable struct {
	rows map[int]map[int]*RefHandle
}

// NewRefTable creates an empty reference table.
func NewRefTable() *RefTable {
	return &RefTable{rows: make(map[int]map[int]*RefHandle)}
}

// GetOrInsert returns the handle for the given position, creating one if
// the formula has not referenced that cell before.
func (t *RefTable) GetOrInsert(pos Position) *RefHandle {
	row := t.rows[pos.Row]
	if row == nil {
		row = make(map[int]*RefHandle)
		t.rows[pos.Row] = row
	}
	if h, ok := row[pos.Col]; ok {
		return h
	}
	p := pos
	h := &RefHandle{pos: &p}
	row[pos.Col] = h
	return h
}

// InsertRows shifts every handle whose target row is at or below the
// insertion point down by count. Returns the number of live handles moved.
// Keys are rekeyed highest-first so a shifted entry never lands on one
// still waiting to move.
func (t *RefTable) InsertRows(before, count int) int {
	moved := 0
	for _, key := range reversed(t.rowKeysFrom(before)) {
		row := t.rows[key]
		delete(t.rows, key)
		t.rows[key+count] = row

		for col, h := range row {
			if h.pos != nil {
				h.move(NewPosition(key+count, col))
				moved++
			}
		}
	}
	return moved
}

// InsertCols shifts every handle whose target column is at or past the
// insertion point right by count. Returns the number of live handles moved.
func (t *RefTable) InsertCols(before, count int) int {
	moved := 0
	for rowKey, row := range t.rows {
		for _, key := range reversed(colKeysFrom(row, before)) {
			h := row[key]
			delete(row, key)
			row[key+count] = h

			if h.pos != nil {
				h.move(NewPosition(rowKey, key+count))
				moved++
			}
		}
	}
	return moved
}

// DeleteRows invalidates every handle whose target row falls inside
// [start, start+count) and shifts handles below the band up by count.
// Returns the number of handles lost and the number moved.
func (t *RefTable) DeleteRows(start, count int) (lost, moved int) {
	for _, key := range t.rowKeysFrom(start) {
		row := t.rows[key]

		if key < start+count {
			delete(t.rows, key)
			for _, h := range row {
				if h.pos != nil {
					h.invalidate()
					lost++
				}
			}
			continue
		}

		delete(t.rows, key)
		t.rows[key-count] = row
		for col, h := range row {
			if h.pos != nil {
				h.move(NewPosition(key-count, col))
				moved++
			}
		}
	}
	return lost, moved
}

// DeleteCols invalidates every handle whose target column falls inside
// [start, start+count) and shifts handles past the band left by count.
// Returns the number of handles lost and the number moved.
func (t *RefTable) DeleteCols(start, count int) (lost, moved int) {
	for rowKey, row := range t.rows {
		for _, key := range colKeysFrom(row, start) {
			h := row[key]

			if key < start+count {
				delete(row, key)
				if h.pos != nil {
					h.invalidate()
					lost++
				}
				continue
			}

			delete(row, key)
			row[key-count] = h
			if h.pos != nil {
				h.move(NewPosition(rowKey, key-count))
				moved++
			}
		}
	}
	return lost, moved
}

// ReferencedCells returns the targets of all live handles in (row, col)
// order.
func (t *RefTable) ReferencedCells() []Position {
	var cells []Position
	for _, row := range t.rows {
		for _, h := range row {
			if p, ok := h.Pos(); ok {
				cells = append(cells, p)
			}
		}
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	return cells
}

// rowKeysFrom returns the row keys >= from in ascending order. Keys are
// snapshotted before rekeying so a shift never visits an entry twice.
func (t *RefTable) rowKeysFrom(from int) []int {
	var keys []int
	for key := range t.rows {
		if key >= from {
			keys = append(keys, key)
		}
	}
	sort.Ints(keys)
	return keys
}

func colKeysFrom(row map[int]*RefHandle, from int) []int {
	var keys []int
	for key := range row {
		if key >= from {
			keys = append(keys, key)
		}
	}
	sort.Ints(keys)
	return keys
}

func reversed(keys []int) []int {
	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}
	return keys
}
