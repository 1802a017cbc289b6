package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanOperatorsLongestMatch(t *testing.T) {
	toks, err := Scan("a >> b && c .. d ..= e :: f != g")
	require.NoError(t, err)
	assert.Equal(t, []Kind{
		TokIdent, TokShr, TokIdent, TokAndAnd, TokIdent, TokDotDot, TokIdent, TokDotDotEq, TokIdent, TokPathSep, TokIdent, TokNeq, TokIdent, TokEOF,
	}, kinds(toks))
}

func TestKeywordsScanAndParse(t *testing.T) {
	src := "let x = 1; x = 2; for i in 0..2 { if true { break; } else { continue; } }"
	toks, err := Scan(src)
	require.NoError(t, err)

	var got []Kind
	for _, tok := range toks {
		switch tok.Kind {
		case TokLet, TokAssign, TokFor, TokIn, TokIf, TokTrue, TokElse, TokBreak, TokContinue:
			got = append(got, tok.Kind)
		}
	}
	assert.Equal(t, []Kind{
		TokLet, TokAssign, TokAssign, TokFor, TokIn, TokIf, TokTrue, TokBreak, TokElse, TokContinue,
	}, got)

	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 3)
	assert.IsType(t, &Let{}, prog.Stmts[0])
	assert.IsType(t, &Assign{}, prog.Stmts[1])
	loop, ok := prog.Stmts[2].(*For)
	require.True(t, ok)
	cond, ok := loop.Body.Stmts[0].(*If)
	require.True(t, ok)
	assert.IsType(t, &Break{}, cond.Then.Stmts[0])
	assert.IsType(t, &Continue{}, cond.Else.(*Block).Stmts[0])
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		src   string
		value float64
		isInt bool
	}{
		{"42", 42, true},
		{"1.5", 1.5, false},
		{"2e3", 2000, false},
		{"1_000", 1000, true},
		{"3E-1", 0.3, false},
	}

	for _, tt := range tests {
		toks, err := Scan(tt.src)
		require.NoError(t, err, tt.src)
		require.Len(t, toks, 2, tt.src)
		assert.Equal(t, TokNumber, toks[0].Kind, tt.src)
		assert.InDelta(t, tt.value, toks[0].Num, 1e-12, tt.src)
		assert.Equal(t, tt.isInt, toks[0].Int, tt.src)
	}
}

func TestScanRangeIsNotAFraction(t *testing.T) {
	toks, err := Scan("0..3")
	require.NoError(t, err)
	assert.Equal(t, []Kind{TokNumber, TokDotDot, TokNumber, TokEOF}, kinds(toks))
	assert.True(t, toks[0].Int)
}

func TestScanStringsAndComments(t *testing.T) {
	toks, err := Scan("// ignored\nlet s = \"a\\n\\\"b\\\"\"; // trailing")
	require.NoError(t, err)
	assert.Equal(t, []Kind{TokLet, TokIdent, TokAssign, TokString, TokSemicolon, TokEOF}, kinds(toks))
	assert.Equal(t, "a\n\"b\"", toks[3].Str)
	assert.Equal(t, Pos{Line: 2, Col: 1}, toks[0].Pos)
}

func TestScanErrors(t *testing.T) {
	_, err := Scan(`"open`)
	require.ErrorIs(t, err, ErrIncomplete)

	_, err = Scan("a @ b")
	require.ErrorIs(t, err, ErrSyntax)
	assert.NotErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "1:3")
}
