package lang

import (
	"strconv"
	"strings"
)

type lexer struct {
	src  string
	cur  int
	line int
	col  int
	toks []Token
}

// Scan splits src into tokens. The last token is always EOF.
func Scan(src string) ([]Token, error) {
	l := &lexer{src: src, line: 1, col: 1}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.toks = append(l.toks, tok)
		if tok.Kind == TokEOF {
			return l.toks, nil
		}
	}
}

func (l *lexer) atEnd() bool { return l.cur >= len(l.src) }

func (l *lexer) peek(n int) byte {
	if l.cur+n >= len(l.src) {
		return 0
	}
	return l.src[l.cur+n]
}

func (l *lexer) advance() byte {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *lexer) pos() Pos { return Pos{Line: l.line, Col: l.col} }

func (l *lexer) skipSpace() {
	for !l.atEnd() {
		switch ch := l.peek(0); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peek(1) == '/':
			for !l.atEnd() && l.peek(0) != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (Token, error) {
	l.skipSpace()

	at, start := l.pos(), l.cur
	if l.atEnd() {
		return Token{Kind: TokEOF, Pos: at}, nil
	}

	ch := l.peek(0)
	switch {
	case isDigit(ch):
		return l.number(at, start)
	case isAlpha(ch):
		for !l.atEnd() && isAlphaNum(l.peek(0)) {
			l.advance()
		}
		text := l.src[start:l.cur]
		kind, ok := keywords[text]
		if !ok {
			kind = TokIdent
		}
		return Token{Kind: kind, Text: text, Pos: at}, nil
	case ch == '"':
		return l.string(at, start)
	}

	kind, n := operator(l.src[l.cur:])
	if n == 0 {
		return Token{}, &Error{Pos: at, Msg: "unexpected character " + strconv.QuoteRune(rune(ch))}
	}
	for range n {
		l.advance()
	}
	return Token{Kind: kind, Text: l.src[start:l.cur], Pos: at}, nil
}

// operators is ordered so that longer tokens match first.
var operators = []struct {
	text string
	kind Kind
}{
	{"..=", TokDotDotEq},
	{"::", TokPathSep}, {">>", TokShr}, {"&&", TokAndAnd}, {"||", TokOrOr},
	{"==", TokEq}, {"!=", TokNeq}, {"<=", TokLe}, {">=", TokGe}, {"..", TokDotDot},
	{"(", TokLParen}, {")", TokRParen}, {"[", TokLBracket}, {"]", TokRBracket},
	{"{", TokLBrace}, {"}", TokRBrace}, {",", TokComma}, {";", TokSemicolon},
	{".", TokDot}, {"=", TokAssign}, {"+", TokPlus}, {"-", TokMinus}, {"*", TokStar},
	{"/", TokSlash}, {"%", TokPercent}, {"!", TokNot}, {"&", TokAnd}, {"|", TokOr},
	{"^", TokCaret}, {"<", TokLt}, {">", TokGt},
}

func operator(s string) (Kind, int) {
	for _, op := range operators {
		if strings.HasPrefix(s, op.text) {
			return op.kind, len(op.text)
		}
	}

	return TokEOF, 0
}

// number scans 12, 1.5, 2e-3 and 1_000. A dot is part of the number only
// when a digit follows, so 0..4 is a range and 2.sin() a method call.
func (l *lexer) number(at Pos, start int) (Token, error) {
	isInt := true
	digits := func() {
		for !l.atEnd() && (isDigit(l.peek(0)) || l.peek(0) == '_') {
			l.advance()
		}
	}

	digits()
	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		isInt = false
		l.advance()
		digits()
	}
	if e := l.peek(0); e == 'e' || e == 'E' {
		n := 1
		if s := l.peek(1); s == '+' || s == '-' {
			n = 2
		}
		if isDigit(l.peek(n)) {
			isInt = false
			for range n {
				l.advance()
			}
			digits()
		}
	}

	text := l.src[start:l.cur]
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		return Token{}, &Error{Pos: at, Msg: "malformed number " + strconv.Quote(text)}
	}

	return Token{Kind: TokNumber, Text: text, Num: v, Int: isInt, Pos: at}, nil
}

func (l *lexer) string(at Pos, start int) (Token, error) {
	l.advance()

	var b strings.Builder
	for {
		if l.atEnd() {
			return Token{}, &Error{Pos: at, Msg: "unterminated string", Incomplete: true}
		}

		ch := l.advance()
		switch ch {
		case '"':
			return Token{Kind: TokString, Text: l.src[start:l.cur], Str: b.String(), Pos: at}, nil
		case '\\':
			if l.atEnd() {
				return Token{}, &Error{Pos: at, Msg: "unterminated string", Incomplete: true}
			}
			switch esc := l.advance(); esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			case '"', '\\':
				b.WriteByte(esc)
			default:
				return Token{}, &Error{Pos: l.pos(), Msg: "unknown escape \\" + string(esc)}
			}
		default:
			b.WriteByte(ch)
		}
	}
}

func isDigit(b byte) bool    { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool    { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool { return isAlpha(b) || isDigit(b) }
