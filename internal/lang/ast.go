package lang

// Node is any element of the tree.
type Node interface {
	Pos() Pos
}

// Expr is an expression. Expressions are untyped: the evaluator decides
// which domain they resolve in.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement.
type Stmt interface {
	Node
	stmtNode()
}

// Program is a parsed script.
type Program struct {
	Stmts []Stmt
}

type (
	// NumberLit is a numeric literal. Int is set for literals without a
	// fraction or exponent.
	NumberLit struct {
		At    Pos
		Value float64
		Int   bool
		Text  string
	}

	// StringLit is a double-quoted string.
	StringLit struct {
		At    Pos
		Value string
	}

	// BoolLit is true or false.
	BoolLit struct {
		At    Pos
		Value bool
	}

	// Ident names a binding or a constant.
	Ident struct {
		At   Pos
		Name string
	}

	// Path is a qualified name such as Fade::Smooth.
	Path struct {
		At    Pos
		Parts []string
	}

	// ArrayLit is [a, b, ...].
	ArrayLit struct {
		At    Pos
		Elems []Expr
	}

	// Unary is -x or !x.
	Unary struct {
		At Pos
		Op Kind
		X  Expr
	}

	// Binary is x op y.
	Binary struct {
		At Pos
		Op Kind
		X  Expr
		Y  Expr
	}

	// Call is a free function call; Name joins path parts with "::".
	Call struct {
		At   Pos
		Name string
		Args []Expr
	}

	// MethodCall is recv.name(args).
	MethodCall struct {
		At   Pos
		Recv Expr
		Name string
		Args []Expr
	}

	// Index is x[i].
	Index struct {
		At    Pos
		X     Expr
		Index Expr
	}

	// Paren is a parenthesized expression.
	Paren struct {
		At Pos
		X  Expr
	}

	// Range is lo..hi or lo..=hi. It only appears as a for-loop iterable.
	Range struct {
		At        Pos
		Lo        Expr
		Hi        Expr
		Inclusive bool
	}
)

type (
	// Let is a declaration: let name = value;
	Let struct {
		At    Pos
		Name  string
		Value Expr
	}

	// Assign is name = value; on an existing binding.
	Assign struct {
		At    Pos
		Name  string
		Value Expr
	}

	// IndexAssign is name[index] = value;
	IndexAssign struct {
		At    Pos
		Name  string
		Index Expr
		Value Expr
	}

	// For iterates Var over a Range or an array expression.
	For struct {
		At   Pos
		Var  string
		Iter Expr
		Body *Block
	}

	// If runs Then when Cond holds, otherwise Else (nil, *Block or *If).
	If struct {
		At   Pos
		Cond Expr
		Then *Block
		Else Stmt
	}

	// Block is { stmts }.
	Block struct {
		At    Pos
		Stmts []Stmt
	}

	// Break leaves the innermost loop.
	Break struct{ At Pos }

	// Continue skips to the next iteration of the innermost loop.
	Continue struct{ At Pos }

	// ExprStmt is an expression evaluated for its effect or its value.
	ExprStmt struct {
		At Pos
		X  Expr
	}
)

func (n *NumberLit) Pos() Pos  { return n.At }
func (n *StringLit) Pos() Pos  { return n.At }
func (n *BoolLit) Pos() Pos    { return n.At }
func (n *Ident) Pos() Pos      { return n.At }
func (n *Path) Pos() Pos       { return n.At }
func (n *ArrayLit) Pos() Pos   { return n.At }
func (n *Unary) Pos() Pos      { return n.At }
func (n *Binary) Pos() Pos     { return n.At }
func (n *Call) Pos() Pos       { return n.At }
func (n *MethodCall) Pos() Pos { return n.At }
func (n *Index) Pos() Pos      { return n.At }
func (n *Paren) Pos() Pos      { return n.At }
func (n *Range) Pos() Pos      { return n.At }

func (*NumberLit) exprNode()  {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*Ident) exprNode()      {}
func (*Path) exprNode()       {}
func (*ArrayLit) exprNode()   {}
func (*Unary) exprNode()      {}
func (*Binary) exprNode()     {}
func (*Call) exprNode()       {}
func (*MethodCall) exprNode() {}
func (*Index) exprNode()      {}
func (*Paren) exprNode()      {}
func (*Range) exprNode()      {}

func (n *Let) Pos() Pos         { return n.At }
func (n *Assign) Pos() Pos      { return n.At }
func (n *IndexAssign) Pos() Pos { return n.At }
func (n *For) Pos() Pos         { return n.At }
func (n *If) Pos() Pos          { return n.At }
func (n *Block) Pos() Pos       { return n.At }
func (n *Break) Pos() Pos       { return n.At }
func (n *Continue) Pos() Pos    { return n.At }
func (n *ExprStmt) Pos() Pos    { return n.At }

func (*Let) stmtNode()         {}
func (*Assign) stmtNode()      {}
func (*IndexAssign) stmtNode() {}
func (*For) stmtNode()         {}
func (*If) stmtNode()          {}
func (*Block) stmtNode()       {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*ExprStmt) stmtNode()    {}

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*Paren)
		if !ok {
			return e
		}
		e = p.X
	}
}
