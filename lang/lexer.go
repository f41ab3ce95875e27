package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/LouLouLibs/NickelEval/errors"
)

// Lexer tokenizes source text. Positions are tracked per rune so
// diagnostics point at the offending line and column.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      rune // current character
	line    int
	col     int
}

// NewLexer creates a lexer over the given source text.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, col: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
		l.pos = l.readPos
		l.col++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) skipSpaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '#' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		return
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (l *Lexer) Next() (Token, *errors.Error) {
	l.skipSpaceAndComments()

	tok := Token{Line: l.line, Col: l.col}

	switch {
	case l.ch == 0:
		tok.Type = TokenEOF
		return tok, nil

	case l.ch == '\'':
		l.readChar()
		if !isIdentStart(l.ch) {
			return tok, errors.New(errors.PhaseParse, errors.KindUnexpectedToken).
				Pos(tok.Line, tok.Col).
				Detail("expected enum tag name after '").
				Build()
		}
		tok.Type = TokenEnumTag
		tok.Literal = l.readIdent()
		return tok, nil

	case l.ch == '"':
		lit, err := l.readString(tok.Line, tok.Col)
		if err != nil {
			return tok, err
		}
		tok.Type = TokenString
		tok.Literal = lit
		return tok, nil

	case unicode.IsDigit(l.ch):
		tok.Type = TokenNumber
		tok.Literal = l.readNumber()
		return tok, nil

	case isIdentStart(l.ch):
		ident := l.readIdent()
		if kw, ok := keywords[ident]; ok {
			tok.Type = kw
		} else {
			tok.Type = TokenIdent
		}
		tok.Literal = ident
		return tok, nil
	}

	// Operators and punctuation.
	two := func(t TokenType, lit string) (Token, *errors.Error) {
		l.readChar()
		l.readChar()
		tok.Type = t
		tok.Literal = lit
		return tok, nil
	}
	one := func(t TokenType) (Token, *errors.Error) {
		tok.Type = t
		tok.Literal = string(l.ch)
		l.readChar()
		return tok, nil
	}

	switch l.ch {
	case '+':
		if l.peekChar() == '+' {
			return two(TokenConcat, "++")
		}
		return one(TokenPlus)
	case '-':
		return one(TokenMinus)
	case '*':
		return one(TokenStar)
	case '/':
		return one(TokenSlash)
	case '%':
		return one(TokenPercent)
	case '&':
		if l.peekChar() == '&' {
			return two(TokenAnd, "&&")
		}
		return one(TokenMerge)
	case '|':
		if l.peekChar() == '|' {
			return two(TokenOr, "||")
		}
		if l.peekChar() == '>' {
			return two(TokenPipe, "|>")
		}
	case '=':
		if l.peekChar() == '=' {
			return two(TokenEq, "==")
		}
		if l.peekChar() == '>' {
			return two(TokenArrow, "=>")
		}
		return one(TokenAssign)
	case '!':
		if l.peekChar() == '=' {
			return two(TokenNotEq, "!=")
		}
		return one(TokenBang)
	case '<':
		if l.peekChar() == '=' {
			return two(TokenLessEq, "<=")
		}
		return one(TokenLess)
	case '>':
		if l.peekChar() == '=' {
			return two(TokenGreatEq, ">=")
		}
		return one(TokenGreater)
	case '.':
		return one(TokenDot)
	case ',':
		return one(TokenComma)
	case '(':
		return one(TokenLParen)
	case ')':
		return one(TokenRParen)
	case '[':
		return one(TokenLBracket)
	case ']':
		return one(TokenRBracket)
	case '{':
		return one(TokenLBrace)
	case '}':
		return one(TokenRBrace)
	}

	return tok, errors.New(errors.PhaseParse, errors.KindUnexpectedToken).
		Pos(tok.Line, tok.Col).
		Detail("unexpected character %q", l.ch).
		Build()
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return ch == '_' || ch == '-' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if unicode.IsDigit(next) || next == '+' || next == '-' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for unicode.IsDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readString(line, col int) (string, *errors.Error) {
	var b strings.Builder
	l.readChar() // consume opening quote
	for {
		switch l.ch {
		case 0, '\n':
			return "", errors.New(errors.PhaseParse, errors.KindUnterminated).
				Pos(line, col).
				Detail("unterminated string literal").
				Build()
		case '"':
			l.readChar()
			return b.String(), nil
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				return "", errors.New(errors.PhaseParse, errors.KindUnexpectedToken).
					Pos(l.line, l.col).
					Detail("unknown escape sequence \\%c", l.ch).
					Build()
			}
			l.readChar()
		default:
			b.WriteRune(l.ch)
			l.readChar()
		}
	}
}
