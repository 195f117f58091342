package sheetcalc

const (
	// FormulaChar marks cell text that is parsed as a formula.
	FormulaChar = '='

	// EscapeChar marks cell text whose remainder displays verbatim, even
	// when it starts with FormulaChar.
	EscapeChar = '\''
)

// Cell is one grid slot: raw text, the compiled formula when the text is
// one, a memoized value and the two neighbor sets of the dependency graph.
// Cells are created and mutated only through their sheet so that edges and
// caches stay coherent.
type Cell struct {
	sheet   *Sheet
	text    string
	formula *Formula
	cache   *Value

	// inEdges holds the cells whose formulas reference this cell;
	// outEdges holds the cells this cell's formula references. The sheet
	// keeps the two sets symmetric across all cells.
	inEdges  map[*Cell]struct{}
	outEdges map[*Cell]struct{}
}

func newCell(s *Sheet) *Cell {
	return &Cell{
		sheet:    s,
		inEdges:  make(map[*Cell]struct{}),
		outEdges: make(map[*Cell]struct{}),
	}
}

// Text returns the cell's raw text. For formula cells this is the canonical
// expression with the leading "=", kept current across structural edits.
func (c *Cell) Text() string {
	return c.text
}

// Value returns the cell's rendered value, computing and memoizing it on
// first read. The cache stays valid until the sheet invalidates it.
func (c *Cell) Value() Value {
	if c.cache == nil {
		v := c.compute()
		c.cache = &v
	}
	return *c.cache
}

func (c *Cell) compute() Value {
	if c.formula != nil {
		return c.formula.Evaluate(c.sheet)
	}
	if len(c.text) > 0 && c.text[0] == EscapeChar {
		return TextValue(c.text[1:])
	}
	return TextValue(c.text)
}

// ReferencedCells returns the positions the cell's formula still
// references, in (row, col) order. Plain-text cells reference nothing.
func (c *Cell) ReferencedCells() []Position {
	if c.formula == nil {
		return nil
	}
	return c.formula.ReferencedCells()
}

func (c *Cell) setFormula(f *Formula) {
	c.formula = f
	c.text = string(FormulaChar) + f.Expression()
	c.dropCache()
}

func (c *Cell) setPlainText(text string) {
	c.formula = nil
	c.text = text
	c.dropCache()
}

func (c *Cell) hasCache() bool {
	return c.cache != nil
}

func (c *Cell) dropCache() {
	c.cache = nil
}

// refreshText re-renders a formula cell's text after its references moved.
func (c *Cell) refreshText() {
	c.text = string(FormulaChar) + c.formula.Expression()
}

// handleInsertedRows forwards a row insertion to the formula and reports
// whether the cell's dependents must recompute. Insertions only rename
// references, so values stay valid.
func (c *Cell) handleInsertedRows(before, count int) bool {
	if c.formula == nil {
		return false
	}
	res := c.formula.HandleInsertedRows(before, count)
	if res != NothingChanged {
		c.refreshText()
	}
	return res == ReferencesChanged
}

func (c *Cell) handleInsertedCols(before, count int) bool {
	if c.formula == nil {
		return false
	}
	res := c.formula.HandleInsertedCols(before, count)
	if res != NothingChanged {
		c.refreshText()
	}
	return res == ReferencesChanged
}

// handleDeletedRows forwards a row deletion to the formula and reports
// whether caches must be invalidated: true exactly when a reference was
// lost and now renders as #REF!.
func (c *Cell) handleDeletedRows(start, count int) bool {
	if c.formula == nil {
		return false
	}
	res := c.formula.HandleDeletedRows(start, count)
	if res != NothingChanged {
		c.refreshText()
	}
	return res == ReferencesChanged
}

func (c *Cell) handleDeletedCols(start, count int) bool {
	if c.formula == nil {
		return false
	}
	res := c.formula.HandleDeletedCols(start, count)
	if res != NothingChanged {
		c.refreshText()
	}
	return res == ReferencesChanged
}
