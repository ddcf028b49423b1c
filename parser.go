package idzeykl

import "fmt"

// Parser is a straightforward recursive-descent, precedence-climbing
// parser over the token slice produced by the Lexer. It holds no
// lookahead buffer beyond the current index — unlike the Lexer, there
// is no contextual rewriting needed once `loop(` has already been
// normalized into LOOP LPAREN by the lexer.
type Parser struct {
	toks []Token
	pos  int
	src  string
}

func NewParser(toks []Token, src string) *Parser {
	return &Parser{toks: toks, src: src}
}

func ParseProgram(src string) ([]Stmt, error) {
	lex := NewLexer(src)
	toks, err := lex.Tokenize()
	if err != nil {
		return nil, err
	}
	p := NewParser(toks, src)
	return p.Parse()
}

func (p *Parser) Parse() ([]Stmt, error) {
	var stmts []Stmt
	for !p.isAtEnd() {
		s, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

// --- token helpers ---

func (p *Parser) peek() Token      { return p.toks[p.pos] }
func (p *Parser) previous() Token  { return p.toks[p.pos-1] }
func (p *Parser) isAtEnd() bool    { return p.peek().Kind == EOF }

func (p *Parser) advance() Token {
	tok := p.toks[p.pos]
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind TokenKind, context string) (Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return Token{}, p.errorAt(context, p.peek())
}

func (p *Parser) errorAt(context string, got Token) *ParseError {
	msg := fmt.Sprintf("%s. Found: %s at line %d, column %d", context, got.Kind, got.Line, got.Col)
	return &ParseError{Msg: msg, Line: got.Line, Col: got.Col}
}

// --- statements ---

func (p *Parser) declaration() (Stmt, error) {
	switch {
	case p.check(VAR):
		return p.varDeclaration()
	case p.check(FUNC):
		return p.funcDeclaration()
	default:
		return p.statement()
	}
}

// varDeclaration parses `var NAME ('[' ']')? ('=' init)? ';'`. The
// optional `[]` marks an array declaration; when present with no
// initializer, Init defaults to an empty array literal rather than
// nil, matching the original's array-declaration default.
func (p *Parser) varDeclaration() (Stmt, error) {
	line := p.peek().Line
	p.advance() // VAR
	name, err := p.consume(IDENT, "Expected variable name")
	if err != nil {
		return nil, err
	}
	isArray := false
	if p.check(LBRACKET) {
		p.advance()
		if _, err := p.consume(RBRACKET, "Expected ']' after '['"); err != nil {
			return nil, err
		}
		isArray = true
	}
	var init Expr
	if p.match(ASSIGN) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	} else if isArray {
		init = &ArrayLiteralExpr{Line: line}
	}
	if _, err := p.consume(SEMICOLON, "Expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &VarDeclStmt{Name: name.Lexeme, Init: init, Line: line}, nil
}

func (p *Parser) funcDeclaration() (Stmt, error) {
	line := p.peek().Line
	p.advance() // FUNC
	name, err := p.consume(IDENT, "Expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(LPAREN, "Expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []string
	if !p.check(RPAREN) {
		for {
			pname, err := p.consume(IDENT, "Expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, pname.Lexeme)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(RPAREN, "Expected ')' after parameters"); err != nil {
		return nil, err
	}
	body, err := p.blockStatement()
	if err != nil {
		return nil, err
	}
	return &FuncDeclStmt{Name: name.Lexeme, Params: params, Body: body, Line: line}, nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.check(LBRACE):
		return p.blockStatement()
	case p.check(LOOP):
		return p.loopStatement()
	case p.check(IF):
		return p.ifStatement()
	case p.check(PRINT), p.check(PRINTLN):
		return p.printStatement()
	case p.check(RETURN):
		return p.returnStatement()
	case p.check(BREAK):
		return p.breakStatement()
	default:
		return p.exprStatement()
	}
}

func (p *Parser) blockStatement() (*BlockStmt, error) {
	if _, err := p.consume(LBRACE, "Expected '{'"); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for !p.check(RBRACE) && !p.isAtEnd() {
		s, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if _, err := p.consume(RBRACE, "Expected '}'"); err != nil {
		return nil, err
	}
	return &BlockStmt{Stmts: stmts}, nil
}

// loopStatement parses every `loop` shape the grammar allows: the
// parenless infinite loop (`loop { ... }`), the parenthesized
// infinite loop (`loop() { ... }`), a single-expression condition-only
// loop (`loop(cond) { ... }`), and a three-clause C-style loop whose
// Init/Cond/Post clauses are each independently optional
// (`loop(var i=0; i<n;)`, `loop(; i<n; i=i+1)`, `loop(;;)` are all
// valid). Init, when present, is either a var declaration or a bare
// expression statement — whichever the original's own disambiguation
// allows.
func (p *Parser) loopStatement() (Stmt, error) {
	line := p.peek().Line
	p.advance() // LOOP

	stmt := &LoopStmt{Line: line}

	if !p.check(LPAREN) {
		body, err := p.blockStatement()
		if err != nil {
			return nil, err
		}
		stmt.Body = body
		return stmt, nil
	}
	p.advance() // LPAREN

	if p.check(RPAREN) {
		p.advance()
		body, err := p.blockStatement()
		if err != nil {
			return nil, err
		}
		stmt.Body = body
		return stmt, nil
	}

	switch {
	case p.check(SEMICOLON):
		p.advance() // empty init clause
	case p.check(VAR):
		initDecl, err := p.varDeclaration()
		if err != nil {
			return nil, err
		}
		stmt.Init = initDecl
	default:
		// Ambiguous between a cond-only loop (no semicolons at all)
		// and a three-clause loop whose init clause is a bare
		// expression: parse one expression and see what follows it.
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if !p.check(SEMICOLON) {
			stmt.Cond = expr
			if _, err := p.consume(RPAREN, "Expected ')' after loop condition"); err != nil {
				return nil, err
			}
			body, err := p.blockStatement()
			if err != nil {
				return nil, err
			}
			stmt.Body = body
			return stmt, nil
		}
		p.advance() // SEMICOLON
		stmt.Init = &ExprStmt{Expr: expr}
	}

	if !p.check(SEMICOLON) {
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Cond = cond
	}
	if _, err := p.consume(SEMICOLON, "Expected ';' after loop condition"); err != nil {
		return nil, err
	}
	if !p.check(RPAREN) {
		post, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Post = post
	}
	if _, err := p.consume(RPAREN, "Expected ')' after loop clauses"); err != nil {
		return nil, err
	}
	body, err := p.blockStatement()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

// ifStatement encodes `else if` as a single-statement Else block
// wrapping a nested IfStmt, so the evaluator never needs a separate
// "else-if chain" case — it only ever executes one Stmt for Else.
func (p *Parser) ifStatement() (Stmt, error) {
	line := p.peek().Line
	p.advance() // IF
	if _, err := p.consume(LPAREN, "Expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RPAREN, "Expected ')' after condition"); err != nil {
		return nil, err
	}
	then, err := p.blockStatement()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Cond: cond, Then: then, Line: line}
	if p.match(ELSE) {
		if p.check(IF) {
			elseIf, err := p.ifStatement()
			if err != nil {
				return nil, err
			}
			stmt.Else = &BlockStmt{Stmts: []Stmt{elseIf}}
		} else {
			elseBlock, err := p.blockStatement()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlock
		}
	}
	return stmt, nil
}

// printStatement supports the two surface forms the original allows:
// a parenthesized argument list (`print(a, b)`), and a bare
// string-literal-plus-concatenation form (`print "x" + y;`) that is
// only legal for `print`, never `println`.
func (p *Parser) printStatement() (Stmt, error) {
	line := p.peek().Line
	isPrintln := p.check(PRINTLN)
	p.advance() // PRINT or PRINTLN

	if p.check(LPAREN) {
		p.advance()
		var args []Expr
		if !p.check(RPAREN) {
			for {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.consume(RPAREN, "Expected ')' after print arguments"); err != nil {
			return nil, err
		}
		if _, err := p.consume(SEMICOLON, "Expected ';' after print statement"); err != nil {
			return nil, err
		}
		return &PrintStmt{Args: args, Println: isPrintln, Line: line}, nil
	}

	if isPrintln {
		return nil, p.errorAt("Expected '(' after 'println'", p.peek())
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(SEMICOLON, "Expected ';' after print statement"); err != nil {
		return nil, err
	}
	return &PrintStmt{Args: []Expr{expr}, Println: false, Line: line}, nil
}

func (p *Parser) returnStatement() (Stmt, error) {
	line := p.peek().Line
	p.advance() // RETURN
	var val Expr
	if !p.check(SEMICOLON) {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		val = v
	}
	if _, err := p.consume(SEMICOLON, "Expected ';' after return statement"); err != nil {
		return nil, err
	}
	return &ReturnStmt{Value: val, Line: line}, nil
}

func (p *Parser) breakStatement() (Stmt, error) {
	line := p.peek().Line
	p.advance() // BREAK
	if _, err := p.consume(SEMICOLON, "Expected ';' after 'break'"); err != nil {
		return nil, err
	}
	return &BreakStmt{Line: line}, nil
}

func (p *Parser) exprStatement() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(SEMICOLON, "Expected ';' after expression"); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

// --- expressions, lowest to highest precedence ---

func (p *Parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (Expr, error) {
	expr, err := p.logicOr()
	if err != nil {
		return nil, err
	}
	if p.check(ASSIGN) {
		line := p.peek().Line
		p.advance()
		switch expr.(type) {
		case *IdentifierExpr, *IndexExpr:
			value, err := p.assignment()
			if err != nil {
				return nil, err
			}
			return &AssignExpr{Target: expr, Value: value, Line: line}, nil
		default:
			return nil, p.errorAt("Invalid assignment target", p.previous())
		}
	}
	return expr, nil
}

func (p *Parser) logicOr() (Expr, error) {
	expr, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.check(OR) {
		line := p.peek().Line
		p.advance()
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: OR, Left: expr, Right: right, Line: line}
	}
	return expr, nil
}

func (p *Parser) logicAnd() (Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.check(AND) {
		line := p.peek().Line
		p.advance()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: AND, Left: expr, Right: right, Line: line}
	}
	return expr, nil
}

func (p *Parser) equality() (Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.check(EQ) || p.check(NEQ) {
		op := p.advance()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op.Kind, Left: expr, Right: right, Line: op.Line}
	}
	return expr, nil
}

func (p *Parser) comparison() (Expr, error) {
	expr, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.check(LT) || p.check(GT) || p.check(LTE) || p.check(GTE) {
		op := p.advance()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op.Kind, Left: expr, Right: right, Line: op.Line}
	}
	return expr, nil
}

func (p *Parser) additive() (Expr, error) {
	expr, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(PLUS) || p.check(MINUS) {
		op := p.advance()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op.Kind, Left: expr, Right: right, Line: op.Line}
	}
	return expr, nil
}

func (p *Parser) multiplicative() (Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.check(STAR) || p.check(SLASH) || p.check(PERCENT) {
		op := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op.Kind, Left: expr, Right: right, Line: op.Line}
	}
	return expr, nil
}

func (p *Parser) unary() (Expr, error) {
	if p.check(BANG) || p.check(MINUS) {
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op.Kind, Operand: operand, Line: op.Line}, nil
	}
	return p.postfix()
}

// postfix chains call, index, and property-access suffixes onto a
// primary expression: `f(x)[0].length` parses as three nested postfix
// wrappers around the Identifier `f`.
func (p *Parser) postfix() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(LPAREN):
			line := p.peek().Line
			p.advance()
			var args []Expr
			if !p.check(RPAREN) {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(COMMA) {
						break
					}
				}
			}
			if _, err := p.consume(RPAREN, "Expected ')' after arguments"); err != nil {
				return nil, err
			}
			expr = &CallExpr{Callee: expr, Args: args, Line: line}
		case p.check(LBRACKET):
			line := p.peek().Line
			p.advance()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(RBRACKET, "Expected ']' after index"); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Array: expr, Index: idx, Line: line}
		case p.check(DOT):
			line := p.peek().Line
			p.advance()
			name, err := p.consume(IDENT, "Expected property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = &PropertyExpr{Object: expr, Name: name.Lexeme, Line: line}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case NUMBER:
		p.advance()
		return &LiteralExpr{Value: tok.Literal, Line: tok.Line}, nil
	case STRING:
		p.advance()
		return &LiteralExpr{Value: tok.Literal, Line: tok.Line}, nil
	case TRUE, FALSE:
		p.advance()
		return &LiteralExpr{Value: tok.Literal, Line: tok.Line}, nil
	case NULL:
		p.advance()
		return &LiteralExpr{Value: nil, Line: tok.Line}, nil
	case IDENT:
		p.advance()
		return &IdentifierExpr{Name: tok.Lexeme, Line: tok.Line}, nil
	case LBRACKET:
		return p.arrayLiteral()
	case LPAREN:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(RPAREN, "Expected ')' after expression"); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, p.errorAt("Expected expression", tok)
}

func (p *Parser) arrayLiteral() (Expr, error) {
	line := p.peek().Line
	p.advance() // LBRACKET
	var elems []Expr
	if !p.check(RBRACKET) {
		for {
			e, err := p.expression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(RBRACKET, "Expected ']' after array elements"); err != nil {
		return nil, err
	}
	return &ArrayLiteralExpr{Elements: elems, Line: line}, nil
}
