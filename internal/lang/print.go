package lang

import (
	"strconv"
	"strings"
)

// Sprint renders a node as a compact prefix form, for diagnostics and
// tests: (>> (sine_hz 440) (lowpass_hz 800)).
func Sprint(n Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *NumberLit:
		b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *StringLit:
		b.WriteString(strconv.Quote(n.Value))
	case *BoolLit:
		b.WriteString(strconv.FormatBool(n.Value))
	case *Ident:
		b.WriteString(n.Name)
	case *Path:
		b.WriteString(strings.Join(n.Parts, "::"))
	case *ArrayLit:
		b.WriteByte('[')
		exprs(b, n.Elems)
		b.WriteByte(']')
	case *Unary:
		form(b, n.Op.String(), n.X)
	case *Binary:
		form(b, n.Op.String(), n.X, n.Y)
	case *Call:
		b.WriteByte('(')
		b.WriteString(n.Name)
		for _, a := range n.Args {
			b.WriteByte(' ')
			write(b, a)
		}
		b.WriteByte(')')
	case *MethodCall:
		form(b, "."+n.Name, append([]Expr{n.Recv}, n.Args...)...)
	case *Index:
		form(b, "index", n.X, n.Index)
	case *Paren:
		write(b, n.X)
	case *Range:
		op := ".."
		if n.Inclusive {
			op = "..="
		}
		form(b, op, n.Lo, n.Hi)
	case *Let:
		b.WriteString("(let " + n.Name + " ")
		write(b, n.Value)
		b.WriteByte(')')
	case *Assign:
		b.WriteString("(= " + n.Name + " ")
		write(b, n.Value)
		b.WriteByte(')')
	case *IndexAssign:
		b.WriteString("(= (index " + n.Name + " ")
		write(b, n.Index)
		b.WriteString(") ")
		write(b, n.Value)
		b.WriteByte(')')
	case *For:
		b.WriteString("(for " + n.Var + " ")
		write(b, n.Iter)
		b.WriteByte(' ')
		write(b, n.Body)
		b.WriteByte(')')
	case *If:
		b.WriteString("(if ")
		write(b, n.Cond)
		b.WriteByte(' ')
		write(b, n.Then)
		if n.Else != nil {
			b.WriteByte(' ')
			write(b, n.Else)
		}
		b.WriteByte(')')
	case *Block:
		b.WriteByte('{')
		for i, s := range n.Stmts {
			if i > 0 {
				b.WriteByte(' ')
			}
			write(b, s)
		}
		b.WriteByte('}')
	case *Break:
		b.WriteString("break")
	case *Continue:
		b.WriteString("continue")
	case *ExprStmt:
		write(b, n.X)
	}
}

func form(b *strings.Builder, head string, args ...Expr) {
	b.WriteString("(" + head)
	for _, a := range args {
		b.WriteByte(' ')
		write(b, a)
	}
	b.WriteByte(')')
}

func exprs(b *strings.Builder, es []Expr) {
	for i, e := range es {
		if i > 0 {
			b.WriteString(", ")
		}
		write(b, e)
	}
}

// String renders the program one statement per line.
func (p *Program) String() string {
	lines := make([]string, len(p.Stmts))
	for i, s := range p.Stmts {
		lines[i] = Sprint(s)
	}
	return strings.Join(lines, "\n")
}
