package lang

import "math/big"

// Node is an expression in the parsed program. Line and Col report the
// 1-based source position of the node's first token.
type Node interface {
	Pos() (line, col int)
}

type position struct {
	Line int
	Col  int
}

func (p position) Pos() (int, int) { return p.Line, p.Col }

type NullLit struct{ position }

type BoolLit struct {
	position
	Val bool
}

type NumLit struct {
	position
	Val *big.Rat
}

type StrLit struct {
	position
	Val string
}

// EnumLit is a bare enum tag. Applying it to an argument produces an
// enum variant at evaluation time.
type EnumLit struct {
	position
	Tag string
}

type Ident struct {
	position
	Name string
}

type ArrayLit struct {
	position
	Elems []Node
}

type RecField struct {
	Name  string
	Value Node
}

type RecordLit struct {
	position
	Fields []RecField
}

type Let struct {
	position
	Name  string
	Bound Node
	Body  Node
}

// Fun is a curried function literal: fun x y => body desugars to
// nested single-parameter closures at evaluation time.
type Fun struct {
	position
	Params []string
	Body   Node
}

type App struct {
	position
	Fn  Node
	Arg Node
}

type Unary struct {
	position
	Op      TokenType
	Operand Node
}

type Binary struct {
	position
	Op    TokenType
	Left  Node
	Right Node
}

type FieldAccess struct {
	position
	Target Node
	Name   string
}

type If struct {
	position
	Cond Node
	Then Node
	Else Node
}
