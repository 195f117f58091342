package sheetcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, expression string) *Formula {
	t.Helper()
	f, err := ParseFormula(expression)
	require.NoError(t, err)
	return f
}

func TestParseFormula_Canonicalization(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2", "2"},
		{"((1))", "1"},
		{"(A1)", "A1"},
		{"1+2*3", "1+2*3"},
		{"1+(2*3)", "1+2*3"},
		{"(1+2)*3", "(1+2)*3"},
		{"(1+2)+3", "1+2+3"},
		{"1+(2-3)", "1+2-3"},
		{"(1-2)-3", "1-2-3"},
		{"1-(2+3)", "1-(2+3)"},
		{"1-(2-3)", "1-(2-3)"},
		{"(1/2)/3", "1/2/3"},
		{"1/(2/3)", "1/(2/3)"},
		{"1/(2*3)", "1/(2*3)"},
		{"(2*3)/4", "2*3/4"},
		{"1*(2/3)", "1*2/3"},
		{"3*(1-2)", "3*(1-2)"},
		{"-(1+2)", "-(1+2)"},
		{"-(1*2)", "-1*2"},
		{"-(1)", "-1"},
		{"+(A1-B2)", "+(A1-B2)"},
		{"-A1", "-A1"},
		{"1.5+2.25", "1.5+2.25"},
		{"1e3", "1000"},
		{"A1 + B2", "A1+B2"},
	}
	for _, tc := range cases {
		f := mustParse(t, tc.in)
		assert.Equal(t, tc.want, f.Expression(), "input %q", tc.in)
	}
}

func TestParseFormula_RoundTrip(t *testing.T) {
	// The first print must re-parse, and the second print must be byte
	// identical to the first.
	for _, in := range []string{
		"1+2*3",
		"(1+2)*3",
		"1-(2+3)",
		"1/(2/3)",
		"-(A1+B2)*C3",
		"+(1-2)/(3-4)",
		"A1*B1+C1/D1",
	} {
		first := mustParse(t, in).Expression()
		second := mustParse(t, first).Expression()
		assert.Equal(t, first, second, "input %q", in)
	}
}

func TestParseFormula_Errors(t *testing.T) {
	for _, in := range []string{
		"",
		"1+",
		"(1",
		"1)",
		"*3",
		"A0",      // row zero is not a cell name
		"a1",      // lower case is not a cell name
		"ZZZ1",    // beyond the column bound
		"1%2",     // unsupported operator
		"sum(1)",  // function calls are not part of the grammar
		"1 == 2",  // comparison is not part of the grammar
	} {
		_, err := ParseFormula(in)
		require.Error(t, err, "input %q", in)

		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr, "input %q", in)
	}
}

func TestParseFormula_ReferencedCells(t *testing.T) {
	f := mustParse(t, "B2+A1*B2-C3")
	// Duplicates collapse and the order is (row, col).
	assert.Equal(t, []Position{
		ParsePosition("A1"),
		ParsePosition("B2"),
		ParsePosition("C3"),
	}, f.ReferencedCells())

	assert.Empty(t, mustParse(t, "1+2").ReferencedCells())
}
