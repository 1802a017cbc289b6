package lang

import "fmt"

// Kind is the type of a token.
type Kind int

const (
	TokEOF Kind = iota
	TokIdent
	TokNumber
	TokString

	TokLParen    // (
	TokRParen    // )
	TokLBracket  // [
	TokRBracket  // ]
	TokLBrace    // {
	TokRBrace    // }
	TokComma     // ,
	TokSemicolon // ;
	TokDot       // .
	TokPathSep   // ::
	TokAssign    // =

	TokPlus     // +
	TokMinus    // -
	TokStar     // *
	TokSlash    // /
	TokPercent  // %
	TokNot      // !
	TokAnd      // &
	TokOr       // |
	TokCaret    // ^
	TokShr      // >>
	TokAndAnd   // &&
	TokOrOr     // ||
	TokEq       // ==
	TokNeq      // !=
	TokLt       // <
	TokLe       // <=
	TokGt       // >
	TokGe       // >=
	TokDotDot   // ..
	TokDotDotEq // ..=

	TokLet
	TokFor
	TokIn
	TokIf
	TokElse
	TokBreak
	TokContinue
	TokTrue
	TokFalse
)

var kindText = map[Kind]string{
	TokEOF:       "end of input",
	TokIdent:     "identifier",
	TokNumber:    "number",
	TokString:    "string",
	TokLParen:    "(",
	TokRParen:    ")",
	TokLBracket:  "[",
	TokRBracket:  "]",
	TokLBrace:    "{",
	TokRBrace:    "}",
	TokComma:     ",",
	TokSemicolon: ";",
	TokDot:       ".",
	TokPathSep:   "::",
	TokAssign:    "=",
	TokPlus:      "+",
	TokMinus:     "-",
	TokStar:      "*",
	TokSlash:     "/",
	TokPercent:   "%",
	TokNot:       "!",
	TokAnd:       "&",
	TokOr:        "|",
	TokCaret:     "^",
	TokShr:       ">>",
	TokAndAnd:    "&&",
	TokOrOr:      "||",
	TokEq:        "==",
	TokNeq:       "!=",
	TokLt:        "<",
	TokLe:        "<=",
	TokGt:        ">",
	TokGe:        ">=",
	TokDotDot:    "..",
	TokDotDotEq:  "..=",
	TokLet:       "let",
	TokFor:       "for",
	TokIn:        "in",
	TokIf:        "if",
	TokElse:      "else",
	TokBreak:     "break",
	TokContinue:  "continue",
	TokTrue:      "true",
	TokFalse:     "false",
}

var keywords = map[string]Kind{
	"let":      TokLet,
	"for":      TokFor,
	"in":       TokIn,
	"if":       TokIf,
	"else":     TokElse,
	"break":    TokBreak,
	"continue": TokContinue,
	"true":     TokTrue,
	"false":    TokFalse,
}

func (k Kind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Pos is a 1-based line and column.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Token is a lexical token.
type Token struct {
	Kind Kind
	Text string // raw source text
	Num  float64
	Int  bool // Number without fraction or exponent
	Str  string
	Pos  Pos
}
