package sheetcalc

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Script is a declarative sequence of sheet operations, loaded from a YAML
// document. Each step names one operation and its arguments:
//
//	ops:
//	  - op: set
//	    cell: A1
//	    text: "=B1*2"
//	  - op: insert_rows
//	    at: 0
//	    count: 2
//	  - op: clear
//	    cell: A1
type Script struct {
	Ops []ScriptOp `yaml:"ops"`
}

// ScriptOp is one step of a script. Which fields apply depends on Op: set
// takes cell and text, clear takes cell, the four structural ops take at
// and count (count defaults to 1).
type ScriptOp struct {
	Op    string `yaml:"op"`
	Cell  string `yaml:"cell,omitempty"`
	Text  string `yaml:"text,omitempty"`
	At    int    `yaml:"at,omitempty"`
	Count int    `yaml:"count,omitempty"`
}

// LoadScript decodes a YAML script from r.
func LoadScript(r io.Reader) (*Script, error) {
	var sc Script
	if err := yaml.NewDecoder(r).Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return &sc, nil
}

// Apply runs the script's operations against the sheet in order, stopping
// at the first failing step.
func (sc *Script) Apply(s *Sheet) error {
	for i, op := range sc.Ops {
		if err := op.apply(s); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, op.Op, err)
		}
	}
	return nil
}

func (op ScriptOp) apply(s *Sheet) error {
	count := op.Count
	if count == 0 {
		count = 1
	}
	switch op.Op {
	case "set":
		return s.SetCell(ParsePosition(op.Cell), op.Text)
	case "clear":
		return s.ClearCell(ParsePosition(op.Cell))
	case "insert_rows":
		return s.InsertRows(op.At, count)
	case "insert_cols":
		return s.InsertCols(op.At, count)
	case "delete_rows":
		return s.DeleteRows(op.At, count)
	case "delete_cols":
		return s.DeleteCols(op.At, count)
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
}
