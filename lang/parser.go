package lang

import (
	"math/big"

	"github.com/LouLouLibs/NickelEval/errors"
)

// Parser builds an AST from source text with one token of lookahead.
// It fails on the first syntax error; the message is the diagnostic the
// boundary hands to callers verbatim.
type Parser struct {
	lex  *Lexer
	cur  Token
	peek Token
	err  *errors.Error
}

// Parse parses a complete program: a single expression followed by end
// of input.
func Parse(src string) (Node, *errors.Error) {
	p := &Parser{lex: NewLexer(src)}
	p.advance()
	p.advance()
	if p.err != nil {
		return nil, p.err
	}

	expr := p.parseExpr()
	if p.err != nil {
		return nil, p.err
	}
	if p.cur.Type != TokenEOF {
		return nil, errors.ParseFailed(p.cur.Line, p.cur.Col,
			"unexpected "+p.cur.Type.String()+" after expression")
	}
	return expr, nil
}

func (p *Parser) advance() {
	p.cur = p.peek
	if p.err != nil {
		return
	}
	tok, err := p.lex.Next()
	if err != nil {
		p.err = err
		p.peek = Token{Type: TokenEOF, Line: err.Line, Col: err.Column}
		return
	}
	p.peek = tok
}

func (p *Parser) fail(tok Token, detail string) Node {
	if p.err == nil {
		p.err = errors.ParseFailed(tok.Line, tok.Col, detail)
	}
	return nil
}

func (p *Parser) expect(t TokenType, context string) bool {
	if p.err != nil {
		return false
	}
	if p.cur.Type != t {
		p.fail(p.cur, "expected "+t.String()+" "+context+", found "+p.cur.Type.String())
		return false
	}
	p.advance()
	return true
}

func (p *Parser) pos() position {
	return position{Line: p.cur.Line, Col: p.cur.Col}
}

// parseExpr handles the binding forms, which extend as far right as
// possible, then falls through to the operator ladder.
func (p *Parser) parseExpr() Node {
	if p.err != nil {
		return nil
	}
	switch p.cur.Type {
	case TokenLet:
		return p.parseLet()
	case TokenFun:
		return p.parseFun()
	case TokenIf:
		return p.parseIf()
	}
	return p.parsePipe()
}

func (p *Parser) parseLet() Node {
	pos := p.pos()
	p.advance() // let
	if p.cur.Type != TokenIdent {
		return p.fail(p.cur, "expected identifier after 'let'")
	}
	name := p.cur.Literal
	p.advance()
	if !p.expect(TokenAssign, "in let binding") {
		return nil
	}
	bound := p.parseExpr()
	if !p.expect(TokenIn, "after let binding") {
		return nil
	}
	body := p.parseExpr()
	if p.err != nil {
		return nil
	}
	return &Let{position: pos, Name: name, Bound: bound, Body: body}
}

func (p *Parser) parseFun() Node {
	pos := p.pos()
	p.advance() // fun
	var params []string
	for p.cur.Type == TokenIdent {
		params = append(params, p.cur.Literal)
		p.advance()
	}
	if len(params) == 0 {
		return p.fail(p.cur, "expected parameter name after 'fun'")
	}
	if !p.expect(TokenArrow, "after function parameters") {
		return nil
	}
	body := p.parseExpr()
	if p.err != nil {
		return nil
	}
	return &Fun{position: pos, Params: params, Body: body}
}

func (p *Parser) parseIf() Node {
	pos := p.pos()
	p.advance() // if
	cond := p.parseExpr()
	if !p.expect(TokenThen, "after condition") {
		return nil
	}
	then := p.parseExpr()
	if !p.expect(TokenElse, "after then-branch") {
		return nil
	}
	els := p.parseExpr()
	if p.err != nil {
		return nil
	}
	return &If{position: pos, Cond: cond, Then: then, Else: els}
}

// Operator ladder, loosest binding first.

func (p *Parser) parsePipe() Node {
	left := p.parseOr()
	for p.err == nil && p.cur.Type == TokenPipe {
		pos := p.pos()
		p.advance()
		// x |> f applies f to x; the right side may itself be a
		// binding form, e.g. x |> fun y => y + 1.
		var right Node
		switch p.cur.Type {
		case TokenLet, TokenFun, TokenIf:
			right = p.parseExpr()
		default:
			right = p.parseOr()
		}
		if p.err != nil {
			return nil
		}
		left = &App{position: pos, Fn: right, Arg: left}
	}
	return left
}

func (p *Parser) parseOr() Node {
	left := p.parseAnd()
	for p.err == nil && p.cur.Type == TokenOr {
		pos := p.pos()
		p.advance()
		right := p.parseAnd()
		left = &Binary{position: pos, Op: TokenOr, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() Node {
	left := p.parseEquality()
	for p.err == nil && p.cur.Type == TokenAnd {
		pos := p.pos()
		p.advance()
		right := p.parseEquality()
		left = &Binary{position: pos, Op: TokenAnd, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() Node {
	left := p.parseComparison()
	for p.err == nil && (p.cur.Type == TokenEq || p.cur.Type == TokenNotEq) {
		op := p.cur.Type
		pos := p.pos()
		p.advance()
		right := p.parseComparison()
		left = &Binary{position: pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseComparison() Node {
	left := p.parseMerge()
	for p.err == nil && (p.cur.Type == TokenLess || p.cur.Type == TokenLessEq ||
		p.cur.Type == TokenGreater || p.cur.Type == TokenGreatEq) {
		op := p.cur.Type
		pos := p.pos()
		p.advance()
		right := p.parseMerge()
		left = &Binary{position: pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMerge() Node {
	left := p.parseConcat()
	for p.err == nil && p.cur.Type == TokenMerge {
		pos := p.pos()
		p.advance()
		right := p.parseConcat()
		left = &Binary{position: pos, Op: TokenMerge, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseConcat() Node {
	left := p.parseAdditive()
	for p.err == nil && p.cur.Type == TokenConcat {
		pos := p.pos()
		p.advance()
		right := p.parseAdditive()
		left = &Binary{position: pos, Op: TokenConcat, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() Node {
	left := p.parseMultiplicative()
	for p.err == nil && (p.cur.Type == TokenPlus || p.cur.Type == TokenMinus) {
		op := p.cur.Type
		pos := p.pos()
		p.advance()
		right := p.parseMultiplicative()
		left = &Binary{position: pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() Node {
	left := p.parseUnary()
	for p.err == nil && (p.cur.Type == TokenStar || p.cur.Type == TokenSlash || p.cur.Type == TokenPercent) {
		op := p.cur.Type
		pos := p.pos()
		p.advance()
		right := p.parseUnary()
		left = &Binary{position: pos, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() Node {
	if p.err != nil {
		return nil
	}
	if p.cur.Type == TokenBang || p.cur.Type == TokenMinus {
		op := p.cur.Type
		pos := p.pos()
		p.advance()
		operand := p.parseUnary()
		if p.err != nil {
			return nil
		}
		return &Unary{position: pos, Op: op, Operand: operand}
	}
	return p.parseApp()
}

// parseApp folds juxtaposed atoms into left-associated applications:
// f x y parses as ((f x) y), and 'Some 42 as ('Some applied to 42).
func (p *Parser) parseApp() Node {
	left := p.parsePostfix()
	for p.err == nil && p.startsAtom() {
		pos := position{}
		pos.Line, pos.Col = left.Pos()
		arg := p.parsePostfix()
		if p.err != nil {
			return nil
		}
		left = &App{position: pos, Fn: left, Arg: arg}
	}
	return left
}

func (p *Parser) startsAtom() bool {
	switch p.cur.Type {
	case TokenIdent, TokenNumber, TokenString, TokenEnumTag,
		TokenNull, TokenTrue, TokenFalse,
		TokenLParen, TokenLBracket, TokenLBrace:
		return true
	}
	return false
}

func (p *Parser) parsePostfix() Node {
	expr := p.parsePrimary()
	for p.err == nil && p.cur.Type == TokenDot {
		pos := p.pos()
		p.advance()
		if p.cur.Type != TokenIdent {
			return p.fail(p.cur, "expected field name after '.'")
		}
		expr = &FieldAccess{position: pos, Target: expr, Name: p.cur.Literal}
		p.advance()
	}
	return expr
}

func (p *Parser) parsePrimary() Node {
	if p.err != nil {
		return nil
	}
	pos := p.pos()

	switch p.cur.Type {
	case TokenNull:
		p.advance()
		return &NullLit{position: pos}

	case TokenTrue, TokenFalse:
		val := p.cur.Type == TokenTrue
		p.advance()
		return &BoolLit{position: pos, Val: val}

	case TokenNumber:
		lit := p.cur.Literal
		r, ok := new(big.Rat).SetString(lit)
		if !ok {
			return p.fail(p.cur, "malformed number literal "+lit)
		}
		p.advance()
		return &NumLit{position: pos, Val: r}

	case TokenString:
		val := p.cur.Literal
		p.advance()
		return &StrLit{position: pos, Val: val}

	case TokenEnumTag:
		tag := p.cur.Literal
		p.advance()
		return &EnumLit{position: pos, Tag: tag}

	case TokenIdent:
		name := p.cur.Literal
		p.advance()
		return &Ident{position: pos, Name: name}

	case TokenLParen:
		p.advance()
		expr := p.parseExpr()
		if !p.expect(TokenRParen, "to close '('") {
			return nil
		}
		return expr

	case TokenLBracket:
		return p.parseArray()

	case TokenLBrace:
		return p.parseRecord()
	}

	return p.fail(p.cur, "expected expression, found "+p.cur.Type.String())
}

func (p *Parser) parseArray() Node {
	pos := p.pos()
	p.advance() // [
	var elems []Node
	for p.cur.Type != TokenRBracket {
		elem := p.parseExpr()
		if p.err != nil {
			return nil
		}
		elems = append(elems, elem)
		if p.cur.Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	if !p.expect(TokenRBracket, "to close array") {
		return nil
	}
	return &ArrayLit{position: pos, Elems: elems}
}

func (p *Parser) parseRecord() Node {
	pos := p.pos()
	p.advance() // {
	var fields []RecField
	for p.cur.Type != TokenRBrace {
		var name string
		switch p.cur.Type {
		case TokenIdent:
			name = p.cur.Literal
		case TokenString:
			name = p.cur.Literal
		default:
			return p.fail(p.cur, "expected field name, found "+p.cur.Type.String())
		}
		p.advance()
		if !p.expect(TokenAssign, "after field name") {
			return nil
		}
		val := p.parseExpr()
		if p.err != nil {
			return nil
		}
		fields = append(fields, RecField{Name: name, Value: val})
		if p.cur.Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	if !p.expect(TokenRBrace, "to close record") {
		return nil
	}
	return &RecordLit{position: pos, Fields: fields}
}
