package sheetcalc

// Option configures a Sheet at construction time.
type Option func(*Sheet)

// WithBounds caps the sheet's structural size. Inserts that would grow the
// sheet past either bound fail with ErrTableTooBig. Bounds above the
// package limits are clamped, since cell names beyond MaxRows and MaxCols
// do not parse.
func WithBounds(rows, cols int) Option {
	return func(s *Sheet) {
		if rows > 0 && rows <= MaxRows {
			s.maxRows = rows
		}
		if cols > 0 && cols <= MaxCols {
			s.maxCols = cols
		}
	}
}
