package sheetcalc

import "fmt"

// Sheet is a sparse grid of cells kept coherent under edits: it maintains
// the dependency graph between formula cells, rejects formulas that would
// close a cycle, invalidates memoized values transitively and forwards
// structural row and column edits to every formula whose referents moved.
//
// A sheet is owned by one logical writer at a time. Callers needing
// concurrent access must serialize every operation externally; reads
// mutate the lazy value caches and are not safe to share either.
type Sheet struct {
	// cells is jagged: the outer slice is indexed by row, each row by
	// column, and either level may be shorter than the logical sheet.
	// Absent cells are nil.
	cells [][]*Cell

	maxRows int
	maxCols int
}

// NewSheet creates an empty sheet. Options adjust the structural bounds.
func NewSheet(opts ...Option) *Sheet {
	s := &Sheet{maxRows: MaxRows, maxCols: MaxCols}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cell returns the cell at pos, or nil if the position is invalid or no
// cell exists there. A position referenced by a formula holds an empty
// cell even before it is set.
func (s *Sheet) Cell(pos Position) *Cell {
	if pos.Row < 0 || pos.Row >= len(s.cells) {
		return nil
	}
	row := s.cells[pos.Row]
	if pos.Col < 0 || pos.Col >= len(row) {
		return nil
	}
	return row[pos.Col]
}

// SetCell installs text into the cell at pos, creating the cell if needed.
// Text starting with "=" (and longer than the bare sign) is parsed as a
// formula; a malformed formula is rejected with a *ParseError and a
// formula that would reference its own cell, directly or transitively, is
// rejected with ErrCircularDependency. On any error the sheet is left
// exactly as it was.
func (s *Sheet) SetCell(pos Position, text string) error {
	if !pos.IsValid() {
		return fmt.Errorf("set cell (%d, %d): %w", pos.Row, pos.Col, ErrInvalidPosition)
	}

	if cell := s.Cell(pos); cell != nil && cell.text == text {
		// Same text again. The dependency graph cannot have changed, so a
		// cache drop is all a re-read needs.
		cell.dropCache()
		return nil
	}

	if len(text) > 1 && text[0] == FormulaChar {
		return s.setFormulaCell(pos, text)
	}

	cell := s.materialize(pos)
	s.invalidateFrom(cell)
	s.unwire(cell)
	cell.setPlainText(text)
	return nil
}

func (s *Sheet) setFormulaCell(pos Position, text string) error {
	f, err := ParseFormula(text[1:])
	if err != nil {
		return err
	}

	refs := f.ReferencedCells()
	if s.wouldCycle(pos, refs) {
		return fmt.Errorf("set cell %s: %w", pos, ErrCircularDependency)
	}

	cell := s.materialize(pos)

	// Referenced cells are materialized even when empty so that the graph
	// records this dependency before they are ever set.
	outs := make([]*Cell, len(refs))
	for i, p := range refs {
		outs[i] = s.materialize(p)
	}

	s.invalidateFrom(cell)
	s.unwire(cell)
	cell.setFormula(f)
	s.wire(cell, outs)
	return nil
}

// wouldCycle reports whether installing a formula with the given
// references at pos would close a dependency cycle. The check runs before
// any mutation: it walks existing out-edges from the referenced cells and
// looks for pos. Referenced positions with no cell yet cannot reach
// anything.
func (s *Sheet) wouldCycle(pos Position, refs []Position) bool {
	target := s.Cell(pos)

	var stack []*Cell
	for _, p := range refs {
		if p == pos {
			return true
		}
		if c := s.Cell(p); c != nil {
			stack = append(stack, c)
		}
	}
	if target == nil {
		return false
	}

	visited := make(map[*Cell]struct{})
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c == target {
			return true
		}
		if _, seen := visited[c]; seen {
			continue
		}
		visited[c] = struct{}{}
		for out := range c.outEdges {
			stack = append(stack, out)
		}
	}
	return false
}

// invalidateFrom drops the cell's cache and then walks in-edges, dropping
// caches until it reaches cells that hold none. Stopping there is sound: a
// cache is only ever created after every cell below it is cached, so an
// uncached cell cannot have cached dependents.
func (s *Sheet) invalidateFrom(cell *Cell) {
	cell.dropCache()

	stack := make([]*Cell, 0, len(cell.inEdges))
	for in := range cell.inEdges {
		stack = append(stack, in)
	}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !c.hasCache() {
			continue
		}
		c.dropCache()
		for in := range c.inEdges {
			stack = append(stack, in)
		}
	}
}

func (s *Sheet) unwire(cell *Cell) {
	for out := range cell.outEdges {
		delete(out.inEdges, cell)
	}
	cell.outEdges = make(map[*Cell]struct{})
}

func (s *Sheet) wire(cell *Cell, outs []*Cell) {
	for _, out := range outs {
		cell.outEdges[out] = struct{}{}
		out.inEdges[cell] = struct{}{}
	}
}

// unhook removes the cell from both neighbor sets of every neighbor,
// invalidating its dependents first. Called before a cell is destroyed.
func (s *Sheet) unhook(cell *Cell) {
	s.invalidateFrom(cell)
	for out := range cell.outEdges {
		delete(out.inEdges, cell)
	}
	for in := range cell.inEdges {
		delete(in.outEdges, cell)
	}
	cell.outEdges = make(map[*Cell]struct{})
	cell.inEdges = make(map[*Cell]struct{})
}

// ClearCell empties the cell at pos. When other formulas still reference
// the position the cell object stays in place, empty, so the graph keeps
// recording the dependency; the evaluator reads such a cell as zero.
func (s *Sheet) ClearCell(pos Position) error {
	if !pos.IsValid() {
		return fmt.Errorf("clear cell (%d, %d): %w", pos.Row, pos.Col, ErrInvalidPosition)
	}
	cell := s.Cell(pos)
	if cell == nil {
		return nil
	}

	s.invalidateFrom(cell)
	s.unwire(cell)
	cell.setPlainText("")

	if len(cell.inEdges) == 0 {
		s.cells[pos.Row][pos.Col] = nil
	}
	return nil
}

// InsertRows inserts count empty rows before the given row index. Every
// formula on the sheet is rewritten so that references at or below the
// insertion point follow their cells down.
func (s *Sheet) InsertRows(before, count int) error {
	if before < 0 || count < 0 {
		return fmt.Errorf("insert rows at %d: %w", before, ErrInvalidPosition)
	}
	if len(s.cells)+count > s.maxRows {
		return fmt.Errorf("insert %d rows: %w", count, ErrTableTooBig)
	}

	s.forEachCell(func(c *Cell) {
		c.handleInsertedRows(before, count)
	})

	if before <= len(s.cells) {
		s.cells = append(s.cells, make([][]*Cell, count)...)
		copy(s.cells[before+count:], s.cells[before:])
		for r := before; r < before+count; r++ {
			s.cells[r] = nil
		}
	}
	return nil
}

// InsertCols inserts count empty columns before the given column index.
func (s *Sheet) InsertCols(before, count int) error {
	if before < 0 || count < 0 {
		return fmt.Errorf("insert cols at %d: %w", before, ErrInvalidPosition)
	}
	width := 0
	for _, row := range s.cells {
		if len(row) > width {
			width = len(row)
		}
	}
	if width+count > s.maxCols {
		return fmt.Errorf("insert %d cols: %w", count, ErrTableTooBig)
	}

	s.forEachCell(func(c *Cell) {
		c.handleInsertedCols(before, count)
	})

	for r, row := range s.cells {
		if before > len(row) {
			continue
		}
		row = append(row, make([]*Cell, count)...)
		copy(row[before+count:], row[before:])
		for i := before; i < before+count; i++ {
			row[i] = nil
		}
		s.cells[r] = row
	}
	return nil
}

// DeleteRows deletes count rows starting at first. Cells in the band are
// destroyed; formulas referencing them render the reference as #REF! from
// now on, and formulas referencing cells below the band follow them up.
func (s *Sheet) DeleteRows(first, count int) error {
	if first < 0 || count < 0 {
		return fmt.Errorf("delete rows at %d: %w", first, ErrInvalidPosition)
	}

	end := first + count
	if end > len(s.cells) {
		end = len(s.cells)
	}
	for r := first; r < end; r++ {
		for _, cell := range s.cells[r] {
			if cell != nil {
				s.unhook(cell)
			}
		}
	}
	if first < len(s.cells) {
		s.cells = append(s.cells[:first], s.cells[end:]...)
	}

	s.forEachCell(func(c *Cell) {
		if c.handleDeletedRows(first, count) {
			s.invalidateFrom(c)
		}
	})
	return nil
}

// DeleteCols deletes count columns starting at first.
func (s *Sheet) DeleteCols(first, count int) error {
	if first < 0 || count < 0 {
		return fmt.Errorf("delete cols at %d: %w", first, ErrInvalidPosition)
	}

	for r, row := range s.cells {
		if first >= len(row) {
			continue
		}
		end := first + count
		if end > len(row) {
			end = len(row)
		}
		for c := first; c < end; c++ {
			if row[c] != nil {
				s.unhook(row[c])
			}
		}
		s.cells[r] = append(row[:first], row[end:]...)
	}

	s.forEachCell(func(c *Cell) {
		if c.handleDeletedCols(first, count) {
			s.invalidateFrom(c)
		}
	})
	return nil
}

func (s *Sheet) forEachCell(fn func(*Cell)) {
	for _, row := range s.cells {
		for _, cell := range row {
			if cell != nil {
				fn(cell)
			}
		}
	}
}

// materialize grows the jagged storage to cover pos and creates the cell
// there if absent.
func (s *Sheet) materialize(pos Position) *Cell {
	for len(s.cells) <= pos.Row {
		s.cells = append(s.cells, nil)
	}
	row := s.cells[pos.Row]
	for len(row) <= pos.Col {
		row = append(row, nil)
	}
	if row[pos.Col] == nil {
		row[pos.Col] = newCell(s)
	}
	s.cells[pos.Row] = row
	return row[pos.Col]
}
