package lang

import "fmt"

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenIdent   // x, std
	TokenNumber  // 42, 3.14, 1e10
	TokenString  // "hello"
	TokenEnumTag // 'Foo

	TokenNull
	TokenTrue
	TokenFalse
	TokenLet
	TokenIn
	TokenFun
	TokenIf
	TokenThen
	TokenElse

	TokenPlus     // +
	TokenMinus    // -
	TokenStar     // *
	TokenSlash    // /
	TokenPercent  // %
	TokenConcat   // ++
	TokenMerge    // &
	TokenPipe     // |>
	TokenEq       // ==
	TokenNotEq    // !=
	TokenLess     // <
	TokenLessEq   // <=
	TokenGreater  // >
	TokenGreatEq  // >=
	TokenAnd      // &&
	TokenOr       // ||
	TokenBang     // !
	TokenAssign   // =
	TokenArrow    // =>
	TokenDot      // .
	TokenComma    // ,
	TokenLParen   // (
	TokenRParen   // )
	TokenLBracket // [
	TokenRBracket // ]
	TokenLBrace   // {
	TokenRBrace   // }
)

var tokenNames = map[TokenType]string{
	TokenEOF:      "end of input",
	TokenIllegal:  "illegal token",
	TokenIdent:    "identifier",
	TokenNumber:   "number",
	TokenString:   "string",
	TokenEnumTag:  "enum tag",
	TokenNull:     "'null'",
	TokenTrue:     "'true'",
	TokenFalse:    "'false'",
	TokenLet:      "'let'",
	TokenIn:       "'in'",
	TokenFun:      "'fun'",
	TokenIf:       "'if'",
	TokenThen:     "'then'",
	TokenElse:     "'else'",
	TokenPlus:     "'+'",
	TokenMinus:    "'-'",
	TokenStar:     "'*'",
	TokenSlash:    "'/'",
	TokenPercent:  "'%'",
	TokenConcat:   "'++'",
	TokenMerge:    "'&'",
	TokenPipe:     "'|>'",
	TokenEq:       "'=='",
	TokenNotEq:    "'!='",
	TokenLess:     "'<'",
	TokenLessEq:   "'<='",
	TokenGreater:  "'>'",
	TokenGreatEq:  "'>='",
	TokenAnd:      "'&&'",
	TokenOr:       "'||'",
	TokenBang:     "'!'",
	TokenAssign:   "'='",
	TokenArrow:    "'=>'",
	TokenDot:      "'.'",
	TokenComma:    "','",
	TokenLParen:   "'('",
	TokenRParen:   "')'",
	TokenLBracket: "'['",
	TokenRBracket: "']'",
	TokenLBrace:   "'{'",
	TokenRBrace:   "'}'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a single lexeme with its source position (1-based).
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Col     int
}

var keywords = map[string]TokenType{
	"null":  TokenNull,
	"true":  TokenTrue,
	"false": TokenFalse,
	"let":   TokenLet,
	"in":    TokenIn,
	"fun":   TokenFun,
	"if":    TokenIf,
	"then":  TokenThen,
	"else":  TokenElse,
}
