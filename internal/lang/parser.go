package lang

import (
	"fmt"
	"strings"
)

// Parse parses a complete script.
func Parse(src string) (*Program, error) {
	toks, err := Scan(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	prog := &Program{}
	for !p.at(TokEOF) {
		if p.match(TokSemicolon) {
			continue
		}
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, s)
	}
	return prog, nil
}

// ParseExpr parses a single expression.
func ParseExpr(src string) (Expr, error) {
	toks, err := Scan(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	e, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if !p.at(TokEOF) {
		return nil, p.unexpected("end of expression")
	}
	return e, nil
}

type parser struct {
	toks []Token
	i    int
}

func (p *parser) peek() Token         { return p.toks[p.i] }
func (p *parser) at(k Kind) bool      { return p.toks[p.i].Kind == k }
func (p *parser) atOrEnd(k Kind) bool { return p.at(k) || p.at(TokEOF) }

func (p *parser) advance() Token {
	t := p.toks[p.i]
	if t.Kind != TokEOF {
		p.i++
	}
	return t
}

func (p *parser) match(k Kind) bool {
	if p.at(k) {
		p.i++
		return true
	}
	return false
}

func (p *parser) need(k Kind, context string) (Token, error) {
	if p.at(k) {
		return p.advance(), nil
	}
	return Token{}, p.unexpected(fmt.Sprintf("%q %s", k.String(), context))
}

func (p *parser) unexpected(want string) error {
	t := p.peek()
	if t.Kind == TokEOF {
		return &Error{Pos: t.Pos, Msg: "expected " + want + " before end of input", Incomplete: true}
	}
	return &Error{Pos: t.Pos, Msg: fmt.Sprintf("expected %s, found %q", want, t.Text)}
}

func (p *parser) stmt() (Stmt, error) {
	t := p.peek()
	switch t.Kind {
	case TokLet:
		return p.let()
	case TokFor:
		return p.forStmt()
	case TokIf:
		return p.ifStmt()
	case TokLBrace:
		return p.block()
	case TokBreak, TokContinue:
		p.advance()
		if err := p.terminator(); err != nil {
			return nil, err
		}
		if t.Kind == TokBreak {
			return &Break{At: t.Pos}, nil
		}
		return &Continue{At: t.Pos}, nil
	}

	x, err := p.expr(0)
	if err != nil {
		return nil, err
	}

	if !p.match(TokAssign) {
		if err := p.terminator(); err != nil {
			return nil, err
		}
		return &ExprStmt{At: t.Pos, X: x}, nil
	}

	value, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}

	switch lhs := x.(type) {
	case *Ident:
		return &Assign{At: t.Pos, Name: lhs.Name, Value: value}, nil
	case *Index:
		if id, ok := lhs.X.(*Ident); ok {
			return &IndexAssign{At: t.Pos, Name: id.Name, Index: lhs.Index, Value: value}, nil
		}
	}
	return nil, &Error{Pos: t.Pos, Msg: "invalid assignment target"}
}

// terminator accepts ";" and lets the last statement of a block or of the
// input omit it.
func (p *parser) terminator() error {
	if p.match(TokSemicolon) || p.atOrEnd(TokRBrace) {
		return nil
	}
	return p.unexpected(`";"`)
}

func (p *parser) let() (Stmt, error) {
	at := p.advance().Pos
	name, err := p.need(TokIdent, "after let")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(TokAssign, "after "+name.Text); err != nil {
		return nil, err
	}
	value, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	return &Let{At: at, Name: name.Text, Value: value}, nil
}

func (p *parser) forStmt() (Stmt, error) {
	at := p.advance().Pos
	name, err := p.need(TokIdent, "after for")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(TokIn, "after "+name.Text); err != nil {
		return nil, err
	}

	iter, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if p.at(TokDotDot) || p.at(TokDotDotEq) {
		op := p.advance()
		hi, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		iter = &Range{At: iter.Pos(), Lo: iter, Hi: hi, Inclusive: op.Kind == TokDotDotEq}
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &For{At: at, Var: name.Text, Iter: iter, Body: body}, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	at := p.advance().Pos
	cond, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}

	s := &If{At: at, Cond: cond, Then: then}
	if !p.match(TokElse) {
		return s, nil
	}
	if p.at(TokIf) {
		s.Else, err = p.ifStmt()
	} else {
		s.Else, err = p.block()
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (p *parser) block() (*Block, error) {
	open, err := p.need(TokLBrace, "to open a block")
	if err != nil {
		return nil, err
	}

	b := &Block{At: open.Pos}
	for !p.match(TokRBrace) {
		if p.at(TokEOF) {
			return nil, &Error{Pos: open.Pos, Msg: "unclosed block", Incomplete: true}
		}
		if p.match(TokSemicolon) {
			continue
		}
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	return b, nil
}

const unaryBP = 100

// infixBP returns the binding power of a binary operator. Levels follow
// Rust: || < && < comparisons < | < ^ < & < >> < + - < * / %.
func infixBP(k Kind) (int, bool) {
	switch k {
	case TokOrOr:
		return 10, true
	case TokAndAnd:
		return 20, true
	case TokEq, TokNeq, TokLt, TokLe, TokGt, TokGe:
		return 30, true
	case TokOr:
		return 40, true
	case TokCaret:
		return 50, true
	case TokAnd:
		return 60, true
	case TokShr:
		return 70, true
	case TokPlus, TokMinus:
		return 80, true
	case TokStar, TokSlash, TokPercent:
		return 90, true
	}
	return 0, false
}

func (p *parser) expr(minBP int) (Expr, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		bp, ok := infixBP(op.Kind)
		if !ok || bp < minBP {
			return left, nil
		}
		p.advance()

		right, err := p.expr(bp + 1)
		if err != nil {
			return nil, err
		}
		left = &Binary{At: op.Pos, Op: op.Kind, X: left, Y: right}
	}
}

func (p *parser) prefix() (Expr, error) {
	t := p.peek()

	var x Expr
	switch t.Kind {
	case TokNumber:
		p.advance()
		x = &NumberLit{At: t.Pos, Value: t.Num, Int: t.Int, Text: t.Text}
	case TokString:
		p.advance()
		x = &StringLit{At: t.Pos, Value: t.Str}
	case TokTrue, TokFalse:
		p.advance()
		x = &BoolLit{At: t.Pos, Value: t.Kind == TokTrue}
	case TokIdent:
		var err error
		if x, err = p.name(); err != nil {
			return nil, err
		}
	case TokLParen:
		p.advance()
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(TokRParen, "to close the group"); err != nil {
			return nil, err
		}
		x = &Paren{At: t.Pos, X: inner}
	case TokLBracket:
		p.advance()
		elems, err := p.list(TokRBracket)
		if err != nil {
			return nil, err
		}
		x = &ArrayLit{At: t.Pos, Elems: elems}
	case TokMinus, TokNot:
		p.advance()
		operand, err := p.expr(unaryBP)
		if err != nil {
			return nil, err
		}
		return &Unary{At: t.Pos, Op: t.Kind, X: operand}, nil
	default:
		return nil, p.unexpected("an expression")
	}

	return p.postfix(x)
}

// name parses an identifier, a path, or a call of either.
func (p *parser) name() (Expr, error) {
	first := p.advance()
	parts := []string{first.Text}
	for p.match(TokPathSep) {
		t, err := p.need(TokIdent, "after ::")
		if err != nil {
			return nil, err
		}
		parts = append(parts, t.Text)
	}

	if p.match(TokLParen) {
		args, err := p.list(TokRParen)
		if err != nil {
			return nil, err
		}
		return &Call{At: first.Pos, Name: strings.Join(parts, "::"), Args: args}, nil
	}
	if len(parts) > 1 {
		return &Path{At: first.Pos, Parts: parts}, nil
	}
	return &Ident{At: first.Pos, Name: first.Text}, nil
}

func (p *parser) postfix(x Expr) (Expr, error) {
	for {
		t := p.peek()
		switch t.Kind {
		case TokDot:
			p.advance()
			name, err := p.need(TokIdent, "after .")
			if err != nil {
				return nil, err
			}
			if _, err := p.need(TokLParen, "after method "+name.Text); err != nil {
				return nil, err
			}
			args, err := p.list(TokRParen)
			if err != nil {
				return nil, err
			}
			x = &MethodCall{At: name.Pos, Recv: x, Name: name.Text, Args: args}
		case TokLBracket:
			p.advance()
			idx, err := p.expr(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.need(TokRBracket, "to close the index"); err != nil {
				return nil, err
			}
			x = &Index{At: t.Pos, X: x, Index: idx}
		default:
			return x, nil
		}
	}
}

// list parses comma-separated expressions up to and including end. A
// trailing comma is allowed.
func (p *parser) list(end Kind) ([]Expr, error) {
	var out []Expr
	for !p.match(end) {
		e, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		out = append(out, e)

		if p.match(TokComma) {
			continue
		}
		if _, err := p.need(end, "or \",\""); err != nil {
			return nil, err
		}
		break
	}
	return out, nil
}
