package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExprPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"a - b - c", "(- (- a b) c)"},
		{"a >> b + c", "(>> a (+ b c))"},
		{"a | b >> c", "(| a (>> b c))"},
		{"a & b ^ c", "(^ (& a b) c)"},
		{"a < b && c || d", "(|| (&& (< a b) c) d)"},
		{"-a * b", "(* (- a) b)"},
		{"!g >> h", "(>> (! g) h)"},
		{"-x.len()", "(- (.len x))"},
		{"sine_hz(440.0) >> lowpass_hz(800, 0.7)", "(>> (sine_hz 440) (lowpass_hz 800 0.7))"},
		{"Fade::Smooth", "Fade::Smooth"},
		{"a[1].sum()", "(.sum (index a 1))"},
		{"[1, 2, 3,]", "[1, 2, 3]"},
		{"seq.push(0, 1, Fade::Power, 0.1, 0.1, g)", "(.push seq 0 1 Fade::Power 0.1 0.1 g)"},
		{`"a" + str(1)`, `(+ "a" (str 1))`},
		{"x == true", "(== x true)"},
	}

	for _, tt := range tests {
		e, err := ParseExpr(tt.src)
		require.NoError(t, err, tt.src)
		assert.Equal(t, tt.want, Sprint(e), tt.src)
	}
}

func TestParseStatements(t *testing.T) {
	prog, err := Parse(`
		let x = [1.0, 2.0, 3.0];
		x[1] = 5.0;
		x = x;
		for i in 0..3 { if i == 1 { continue; } else if i > 1 { break } else { g.push(i); } }
		for v in x { }
		for k in 1..=2 { }
		{ let y = 1 }
		g.commit()
	`)
	require.NoError(t, err)

	want := []string{
		"(let x [1, 2, 3])",
		"(= (index x 1) 5)",
		"(= x x)",
		"(for i (.. 0 3) {(if (== i 1) {continue} (if (> i 1) {break} {(.push g i)}))})",
		"(for v x {})",
		"(for k (..= 1 2) {})",
		"{(let y 1)}",
		"(.commit g)",
	}
	require.Len(t, prog.Stmts, len(want))
	for i, s := range prog.Stmts {
		assert.Equal(t, want[i], Sprint(s))
	}

	assert.IsType(t, &IndexAssign{}, prog.Stmts[1])
	assert.IsType(t, &Assign{}, prog.Stmts[2])
	assert.Equal(t, Pos{Line: 2, Col: 3}, prog.Stmts[0].Pos())
}

func TestParseIncomplete(t *testing.T) {
	for _, src := range []string{
		"let x =",
		"for i in 0..3 {",
		"if x { a; } else",
		"f(1, 2",
		"a >>",
		"[1, 2",
		`let s = "abc`,
	} {
		_, err := Parse(src)
		require.Error(t, err, src)
		assert.ErrorIs(t, err, ErrIncomplete, src)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	for _, src := range []string{
		"let = 3;",
		"1 + 2 = 3;",
		"let x = 1 let y = 2;",
		"f(1 2)",
		"a.b;",
		")",
	} {
		_, err := Parse(src)
		require.Error(t, err, src)
		assert.ErrorIs(t, err, ErrSyntax, src)
		assert.NotErrorIs(t, err, ErrIncomplete, src)
	}
}

func TestParseEmptyAndSemicolons(t *testing.T) {
	prog, err := Parse(" ;; // only a comment\n")
	require.NoError(t, err)
	assert.Empty(t, prog.Stmts)
}

func TestUnparen(t *testing.T) {
	e, err := ParseExpr("((x))")
	require.NoError(t, err)
	assert.IsType(t, &Ident{}, Unparen(e))
}
