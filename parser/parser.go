package parser

import (
	"errors"

	"badger/ast"
	"badger/diag"
	"badger/lexer"
)

type Parser struct {
	toks    []lexer.Token
	lines   []int
	current int
	errs    []error
}

func New(toks []lexer.Token, lines []int) *Parser {
	return NewAt(toks, lines, 0)
}

// NewAt starts parsing at token index start. The token slice must end with EOF.
func NewAt(toks []lexer.Token, lines []int, start int) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Type != lexer.EOF {
		end := 0
		if len(toks) > 0 {
			end = toks[len(toks)-1].Offset
		}
		toks = append(toks[:len(toks):len(toks)], lexer.Token{Type: lexer.EOF, Offset: end})
	}
	if start < 0 || start >= len(toks) {
		start = len(toks) - 1
	}
	return &Parser{toks: toks, lines: lines, current: start}
}

// Parse tokenizes and parses src in one step.
func Parse(src string) ([]ast.Stmt, []int, error) {
	toks, lines := lexer.Tokenize(src)
	stmts, err := New(toks, lines).ParseProgram()
	return stmts, lines, err
}

// ParseProgram parses declarations until EOF. Statements that fail to parse
// are recorded as nil entries; the returned error joins every syntax error.
func (p *Parser) ParseProgram() ([]ast.Stmt, error) {
	stmts := []ast.Stmt{}
	for !p.atEnd() {
		stmts = append(stmts, p.declaration())
	}
	return stmts, errors.Join(p.errs...)
}

// Errors returns the syntax errors recorded so far, in source order.
func (p *Parser) Errors() []error { return p.errs }

// ParseExpression parses a single expression starting at the cursor.
func (p *Parser) ParseExpression() (ast.Expr, error) { return p.parseExpr() }

// declaration = varDecl | fxnDecl | statement
func (p *Parser) declaration() ast.Stmt {
	var (
		stmt ast.Stmt
		err  error
	)
	switch {
	case p.cur().Type.IsTypeKeyword():
		stmt, err = p.parseVarDecl()
	case p.cur().Type == lexer.FXN:
		stmt, err = p.parseFxnDecl()
	default:
		stmt, err = p.parseStmt()
	}
	if err != nil {
		p.errs = append(p.errs, err)
		p.synchronize()
		return nil
	}
	return stmt
}

// varDecl = ("num"|"str"|"bool"|"var") IDENT ( "=" expr )? ";"
func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	typeTok := p.next()
	if p.cur().Type != lexer.IDENT {
		return nil, p.errAt(p.cur(), "Expected variable name")
	}
	nameTok := p.next()

	var init ast.Expr
	if p.match(lexer.ASSIGN) {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		init = expr
	} else {
		init = zeroValue(typeTok.Lexeme, nameTok.Offset)
	}

	if _, err := p.consume(lexer.SEMI, "Expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Pos: nameTok.Offset, Name: nameTok.Lexeme, Type: typeTok.Lexeme, Init: init}, nil
}

func zeroValue(typ string, pos int) ast.Expr {
	switch typ {
	case ast.TypeBool:
		return &ast.BoolLiteral{Pos: pos, Value: false}
	case ast.TypeStr:
		return &ast.StringLiteral{Pos: pos, Value: ""}
	default:
		return &ast.NumberLiteral{Pos: pos, Value: 0}
	}
}

// fxnDecl = "fxn" IDENT "(" [ IDENT ("," IDENT)* ] ")" block
func (p *Parser) parseFxnDecl() (ast.Stmt, error) {
	p.next()
	if p.cur().Type != lexer.IDENT {
		return nil, p.errAt(p.cur(), "Expected function name after 'fxn'")
	}
	nameTok := p.next()

	if _, err := p.consume(lexer.LPAREN, "Expected '(' after function name"); err != nil {
		return nil, err
	}
	params := []string{}
	if p.cur().Type != lexer.RPAREN {
		for {
			if p.cur().Type != lexer.IDENT {
				return nil, p.errAt(p.cur(), "Expected parameter name")
			}
			params = append(params, p.next().Lexeme)
			if p.match(lexer.COMMA) {
				continue
			}
			break
		}
	}
	if _, err := p.consume(lexer.RPAREN, "Expected ')' after parameters"); err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.LBRACE {
		return nil, p.errAt(p.cur(), "Expected '{' before function body")
	}
	p.next()
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FxnDecl{Pos: nameTok.Offset, Name: nameTok.Lexeme, Params: params, Body: body}, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.cur().Type {
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.LBRACE:
		lb := p.next()
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Pos: lb.Offset, Body: body}, nil
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	retTok := p.next()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.SEMI, "Expected ';' after value"); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Pos: retTok.Offset, Value: expr}, nil
}

// parseBlock parses declarations up to the closing brace; the opening brace
// has already been consumed. Declarations that fail are dropped.
func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	block := []ast.Stmt{}
	for p.cur().Type != lexer.RBRACE && !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			block = append(block, stmt)
		}
	}
	if _, err := p.consume(lexer.RBRACE, "Expected '}' after block"); err != nil {
		return nil, err
	}
	return block, nil
}

// ifStmt = "if" "(" expr ")" statement ( "else" statement )?
func (p *Parser) parseIf() (ast.Stmt, error) {
	ifTok := p.next()
	if _, err := p.consume(lexer.LPAREN, "Expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RPAREN, "Expected ')' after condition"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if p.match(lexer.ELSE) {
		elseStmt, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Pos: ifTok.Offset, Condition: cond, Then: then, Else: elseStmt}, nil
}

// whileStmt = "while" "(" expr ")" statement
func (p *Parser) parseWhile() (ast.Stmt, error) {
	wTok := p.next()
	if _, err := p.consume(lexer.LPAREN, "Expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RPAREN, "Expected ')' after condition"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Pos: wTok.Offset, Condition: cond, Body: body}, nil
}

func (p *Parser) parseExprStmt() (ast.Stmt, error) {
	startTok := p.cur()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.SEMI, "Expected ';' after value"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Pos: startTok.Offset, Expr: expr}, nil
}

// expr = assignment
func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseAssignment() }

// assignment = IDENT "=" assignment | logic
func (p *Parser) parseAssignment() (ast.Expr, error) {
	expr, err := p.parseLogic()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == lexer.ASSIGN {
		equals := p.next()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if target, ok := expr.(*ast.Identifier); ok {
			return &ast.AssignExpr{Pos: target.Pos, Name: target.Name, Value: value}, nil
		}
		return nil, p.errAt(equals, "Invalid assignment target")
	}
	return expr, nil
}

// logic = equality ( ("and"|"or") equality )*
func (p *Parser) parseLogic() (ast.Expr, error) {
	return p.binaryLeft(p.parseEquality, lexer.AND, lexer.OR)
}

// equality = comparison ( ("=="|"!=") comparison )*
func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.binaryLeft(p.parseComparison, lexer.EQ, lexer.NEQ)
}

// comparison = term ( (">"|">="|"<"|"<=") term )*
func (p *Parser) parseComparison() (ast.Expr, error) {
	return p.binaryLeft(p.parseTerm, lexer.GT, lexer.GTE, lexer.LT, lexer.LTE)
}

// term = factor ( ("+"|"-") factor )*
func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.binaryLeft(p.parseFactor, lexer.PLUS, lexer.MINUS)
}

// factor = unary ( ("*"|"/"|"%") unary )*
func (p *Parser) parseFactor() (ast.Expr, error) {
	return p.binaryLeft(p.parseUnary, lexer.STAR, lexer.SLASH, lexer.PERCENT)
}

func (p *Parser) binaryLeft(operand func() (ast.Expr, error), ops ...lexer.TokenType) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.isOneOf(p.cur().Type, ops...) {
		opTok := p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: operator(opTok), Right: right}
	}
	return left, nil
}

// unary = ("!"|"-") unary | call
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.cur().Type == lexer.BANG || p.cur().Type == lexer.MINUS {
		opTok := p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: operator(opTok), Right: right}, nil
	}
	return p.parseCall()
}

// call = primary ( "(" [ expr ("," expr)* ] ")" )*
func (p *Parser) parseCall() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lexer.LPAREN {
		paren := p.next()
		args := []ast.Expr{}
		if p.cur().Type != lexer.RPAREN {
			for {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(lexer.COMMA) {
					break
				}
			}
		}
		if _, err := p.consume(lexer.RPAREN, "Expected ')' after arguments"); err != nil {
			return nil, err
		}
		expr = &ast.CallExpr{Paren: paren.Offset, Callee: expr, Args: args}
	}
	return expr, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.FALSE:
		p.next()
		return &ast.BoolLiteral{Pos: tok.Offset, Value: false}, nil

	case lexer.TRUE:
		p.next()
		return &ast.BoolLiteral{Pos: tok.Offset, Value: true}, nil

	case lexer.NUMBER:
		p.next()
		return &ast.NumberLiteral{Pos: tok.Offset, Value: tok.Number}, nil

	case lexer.STRING:
		p.next()
		return &ast.StringLiteral{Pos: tok.Offset, Value: tok.Lexeme}, nil

	case lexer.IDENT:
		p.next()
		return &ast.Identifier{Pos: tok.Offset, Name: tok.Lexeme}, nil

	case lexer.AT:
		p.next()
		if p.cur().Type != lexer.IDENT {
			return nil, p.errAt(p.cur(), "Expected symbol name after '@'")
		}
		name := p.next()
		return &ast.SpecialSymbol{Pos: tok.Offset, Name: name.Lexeme}, nil

	case lexer.LPAREN:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.RPAREN, "Expected ')' after expression"); err != nil {
			return nil, err
		}
		return &ast.GroupExpr{Pos: tok.Offset, Inner: inner}, nil

	default:
		return nil, p.errAt(tok, "Expected expression")
	}
}

// operator spells logical operators as words whatever their source form
// ("&", "&&", "and").
func operator(tok lexer.Token) ast.Operator {
	lex := tok.Lexeme
	switch tok.Type {
	case lexer.AND:
		lex = "and"
	case lexer.OR:
		lex = "or"
	}
	return ast.Operator{Pos: tok.Offset, Lexeme: lex}
}

// synchronize discards tokens until a statement boundary: just after a ';',
// or before a token that starts a new statement.
func (p *Parser) synchronize() {
	p.next()
	for !p.atEnd() {
		if p.previous().Type == lexer.SEMI {
			return
		}
		switch p.cur().Type {
		case lexer.FXN, lexer.IF, lexer.WHILE, lexer.RETURN,
			lexer.NUM, lexer.STR, lexer.BOOL, lexer.VAR:
			return
		}
		p.next()
	}
}

// ---------- token cursor ----------

func (p *Parser) cur() lexer.Token { return p.toks[p.current] }

func (p *Parser) previous() lexer.Token {
	if p.current == 0 {
		return p.toks[0]
	}
	return p.toks[p.current-1]
}

func (p *Parser) atEnd() bool { return p.cur().Type == lexer.EOF }

// next consumes the current token and returns it. EOF is never consumed.
func (p *Parser) next() lexer.Token {
	tok := p.cur()
	if !p.atEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) match(t lexer.TokenType) bool {
	if p.cur().Type == t && !p.atEnd() {
		p.next()
		return true
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, msg string) (lexer.Token, error) {
	if p.cur().Type == t && !p.atEnd() {
		return p.next(), nil
	}
	return lexer.Token{}, p.errAt(p.cur(), msg)
}

func (p *Parser) isOneOf(t lexer.TokenType, list ...lexer.TokenType) bool {
	for _, x := range list {
		if t == x {
			return true
		}
	}
	return false
}

func (p *Parser) errAt(tok lexer.Token, msg string) error {
	return diag.New(msg, tok.Offset, p.lines)
}
