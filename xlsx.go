package sheetcalc

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const workbookSheetName = "Sheet1"

// SaveXLSX writes the sheet's printable rectangle to w as an xlsx
// workbook. Formula cells are written as workbook formulas, other cells as
// their rendered values.
func SaveXLSX(s *Sheet, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	size := s.PrintableSize()
	for r := 0; r < size.Rows; r++ {
		for c := 0; c < size.Cols; c++ {
			cell := s.Cell(NewPosition(r, c))
			if cell == nil || cell.Text() == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name for (%d, %d): %w", r, c, err)
			}
			if err := writeWorkbookCell(f, axis, cell); err != nil {
				return fmt.Errorf("write cell %s: %w", axis, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeWorkbookCell(f *excelize.File, axis string, cell *Cell) error {
	if text := cell.Text(); len(text) > 1 && text[0] == FormulaChar {
		return f.SetCellFormula(workbookSheetName, axis, text[1:])
	}
	switch v := cell.Value(); v.Kind {
	case KindNumber:
		return f.SetCellValue(workbookSheetName, axis, v.Number)
	default:
		return f.SetCellStr(workbookSheetName, axis, v.String())
	}
}

// LoadXLSX builds a sheet from the first worksheet of an xlsx workbook.
// Workbook formulas are re-parsed; a formula outside the supported grammar
// falls back to installing the workbook's stored result as plain text.
func LoadXLSX(r io.Reader, opts ...Option) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", name, err)
	}

	s := NewSheet(opts...)
	for r, row := range rows {
		for c, val := range row {
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("cell name for (%d, %d): %w", r, c, err)
			}
			formula, err := f.GetCellFormula(name, axis)
			if err != nil {
				return nil, fmt.Errorf("read formula of %s: %w", axis, err)
			}
			pos := NewPosition(r, c)
			if formula != "" {
				if err := s.SetCell(pos, string(FormulaChar)+formula); err == nil {
					continue
				}
			}
			if val == "" {
				continue
			}
			if val[0] == FormulaChar || val[0] == EscapeChar {
				val = string(EscapeChar) + val
			}
			if err := s.SetCell(pos, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", axis, err)
			}
		}
	}
	return s, nil
}
