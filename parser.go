// parser.go: backtracking recursive-descent parser for Sentience.
//
// GRAMMAR (low to high precedence)
// --------------------------------
//
//	statements : NEWLINE* statement (NEWLINE+ statement)* NEWLINE*
//	statement  : RETURN expr? | CONTINUE | BREAK | expr
//	expr       : VAR IDENTIFIER EQ expr
//	           : comp-expr ((AND|OR) comp-expr)* (PIPE atom)*
//	comp-expr  : NOT comp-expr
//	           : arith-expr ((EE|NE|LT|GT|LTE|GTE) arith-expr)*
//	arith-expr : term ((PLUS|MINUS) term)*
//	term       : factor ((MUL|DIV) factor)*
//	factor     : (PLUS|MINUS) factor | power
//	power      : call (POW factor)*            -- right-assoc via factor
//	call       : atom (LPAREN (expr (COMMA expr)*)? RPAREN)?
//	atom       : INT | FLOAT | STRING | IDENTIFIER
//	           : LPAREN expr RPAREN | list-expr
//	           : if-expr | for-expr | while-expr | func-def
//	           : embed-expr | ai-expr
//
// BACKTRACKING
// ------------
// The token cursor is a plain index. Productions never rewind on failure;
// a caller that wants to try an alternative saves the cursor with mark() and
// restores it with resetTo(). Because the cursor stays where a failure
// happened, a caller can tell a zero-consumption failure ("this production
// simply doesn't start here") from a partial match ("this production started
// and then went wrong"). Only zero-consumption failures may be replaced by a
// caller's more generic message; once an alternative has consumed tokens,
// its error is authoritative. This yields deepest-partial-match-wins error
// reporting.
package sentience

// Parse builds the AST for a full token sequence (as produced by Tokenize).
// The root is a ListNode with one element per top-level statement.
func Parse(tokens []Token) (Node, error) {
	p := &Parser{toks: tokens}
	node, err := p.statements()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != EOF {
		return nil, p.fail("Token cannot appear after previous tokens")
	}
	return node, nil
}

// Parser walks a token slice with an explicit cursor.
type Parser struct {
	toks []Token
	pos  int
}

func (p *Parser) cur() Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return p.toks[len(p.toks)-1] // EOF
}

func (p *Parser) advance() { p.pos++ }

func (p *Parser) mark() int { return p.pos }

func (p *Parser) resetTo(m int) { p.pos = m }

func (p *Parser) consumed(m int) bool { return p.pos > m }

// fail builds a syntax error at the current token.
func (p *Parser) fail(msg string) *InvalidSyntaxError {
	t := p.cur()
	return &InvalidSyntaxError{PosStart: t.PosStart, PosEnd: t.PosEnd, Msg: msg}
}

// orGeneric applies the error-precedence rule: err survives unless the
// failing sub-parse consumed nothing since m, in which case the caller's
// broader expectation message wins.
func (p *Parser) orGeneric(err *InvalidSyntaxError, m int, msg string) *InvalidSyntaxError {
	if p.consumed(m) {
		return err
	}
	return p.fail(msg)
}

func (p *Parser) expect(tt TokenType) *InvalidSyntaxError {
	if p.cur().Type != tt {
		return p.fail("Expected " + tt.String())
	}
	p.advance()
	return nil
}

func (p *Parser) expectKeyword(kw string) *InvalidSyntaxError {
	if !p.cur().Matches(KEYWORD, kw) {
		return p.fail("Expected '" + kw + "'")
	}
	p.advance()
	return nil
}

// -----------------------------------------------------------------------------
// statements
// -----------------------------------------------------------------------------

func (p *Parser) statements() (Node, *InvalidSyntaxError) {
	posStart := p.cur().PosStart
	var stmts []Node

	for p.cur().Type == NEWLINE {
		p.advance()
	}

	first, err := p.statement()
	if err != nil {
		return nil, err
	}
	stmts = append(stmts, first)

	for {
		sawNewline := false
		for p.cur().Type == NEWLINE {
			p.advance()
			sawNewline = true
		}
		if !sawNewline {
			break
		}

		m := p.mark()
		stmt, err := p.statement()
		if err != nil {
			// Not another statement; rewind and let the caller decide
			// whether what follows (END, EOF, ...) is legal.
			p.resetTo(m)
			break
		}
		stmts = append(stmts, stmt)
	}

	return &ListNode{Elements: stmts, PosStart: posStart, PosEnd: p.cur().PosEnd}, nil
}

const statementExpectation = "Expected 'RETURN', 'CONTINUE', 'BREAK', 'VAR', 'IF', 'FOR', 'WHILE', 'FUN', int, float, identifier, '+', '-', '(', '[' or 'NOT'"

func (p *Parser) statement() (Node, *InvalidSyntaxError) {
	posStart := p.cur().PosStart

	if p.cur().Matches(KEYWORD, "RETURN") {
		p.advance()
		m := p.mark()
		expr, err := p.expr()
		if err != nil {
			p.resetTo(m)
			expr = nil
		}
		return &ReturnNode{Expr: expr, PosStart: posStart, PosEnd: p.cur().PosStart}, nil
	}
	if p.cur().Matches(KEYWORD, "CONTINUE") {
		p.advance()
		return &ContinueNode{PosStart: posStart, PosEnd: p.cur().PosStart}, nil
	}
	if p.cur().Matches(KEYWORD, "BREAK") {
		p.advance()
		return &BreakNode{PosStart: posStart, PosEnd: p.cur().PosStart}, nil
	}

	m := p.mark()
	expr, err := p.expr()
	if err != nil {
		return nil, p.orGeneric(err, m, statementExpectation)
	}
	return expr, nil
}

// -----------------------------------------------------------------------------
// expressions
// -----------------------------------------------------------------------------

func (p *Parser) expr() (Node, *InvalidSyntaxError) {
	if p.cur().Matches(KEYWORD, "VAR") {
		p.advance()
		if p.cur().Type != IDENTIFIER {
			return nil, p.fail("Expected identifier")
		}
		nameTok := p.cur()
		p.advance()
		if err := p.expect(EQ); err != nil {
			return nil, err
		}
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &VarAssignNode{NameTok: nameTok, Value: value}, nil
	}

	node, err := p.binOp(p.compExpr, func(t Token) bool {
		return t.Matches(KEYWORD, "AND") || t.Matches(KEYWORD, "OR")
	}, p.compExpr)
	if err != nil {
		return nil, err
	}

	// Pipeline stages bind loosest: each PIPE consumes a single atom on the
	// right, left-associative.
	for p.cur().Matches(KEYWORD, "PIPE") {
		p.advance()
		right, err := p.atom()
		if err != nil {
			return nil, err
		}
		node = &PipeNode{Left: node, Right: right}
	}

	return node, nil
}

const exprExpectation = "Expected int, float, identifier, '+', '-', '(', '[', 'IF', 'FOR', 'WHILE', 'FUN' or 'NOT'"

func (p *Parser) compExpr() (Node, *InvalidSyntaxError) {
	if p.cur().Matches(KEYWORD, "NOT") {
		opTok := p.cur()
		p.advance()
		node, err := p.compExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryOpNode{Op: opTok, Operand: node}, nil
	}

	m := p.mark()
	node, err := p.binOp(p.arithExpr, func(t Token) bool {
		switch t.Type {
		case EE, NE, LT, GT, LTE, GTE:
			return true
		}
		return false
	}, p.arithExpr)
	if err != nil {
		return nil, p.orGeneric(err, m, exprExpectation)
	}
	return node, nil
}

func (p *Parser) arithExpr() (Node, *InvalidSyntaxError) {
	return p.binOp(p.term, func(t Token) bool {
		return t.Type == PLUS || t.Type == MINUS
	}, p.term)
}

func (p *Parser) term() (Node, *InvalidSyntaxError) {
	return p.binOp(p.factor, func(t Token) bool {
		return t.Type == MUL || t.Type == DIV
	}, p.factor)
}

func (p *Parser) factor() (Node, *InvalidSyntaxError) {
	tok := p.cur()
	if tok.Type == PLUS || tok.Type == MINUS {
		p.advance()
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &UnaryOpNode{Op: tok, Operand: operand}, nil
	}
	return p.power()
}

// power parses '^' right-associatively: the right operand re-enters factor,
// which recurses back into power.
func (p *Parser) power() (Node, *InvalidSyntaxError) {
	return p.binOp(p.call, func(t Token) bool {
		return t.Type == POW
	}, p.factor)
}

func (p *Parser) call() (Node, *InvalidSyntaxError) {
	atom, err := p.atom()
	if err != nil {
		return nil, err
	}

	if p.cur().Type != LPAREN {
		return atom, nil
	}
	p.advance()

	var args []Node
	if p.cur().Type == RPAREN {
		end := p.cur().PosEnd
		p.advance()
		return &CallNode{Callee: atom, PosEnd: end}, nil
	}

	m := p.mark()
	first, err := p.expr()
	if err != nil {
		return nil, p.orGeneric(err, m, "Expected ')', 'VAR', 'IF', 'FOR', 'WHILE', 'FUN', int, float, identifier, '+', '-', '(', '[' or 'NOT'")
	}
	args = append(args, first)

	for p.cur().Type == COMMA {
		p.advance()
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if p.cur().Type != RPAREN {
		return nil, p.fail("Expected ',' or ')'")
	}
	end := p.cur().PosEnd
	p.advance()
	return &CallNode{Callee: atom, Args: args, PosEnd: end}, nil
}

func (p *Parser) atom() (Node, *InvalidSyntaxError) {
	tok := p.cur()

	switch {
	case tok.Type == INT || tok.Type == FLOAT:
		p.advance()
		return &NumberNode{Tok: tok}, nil

	case tok.Type == STRING:
		p.advance()
		return &StringNode{Tok: tok}, nil

	case tok.Type == IDENTIFIER:
		p.advance()
		return &VarAccessNode{NameTok: tok}, nil

	case tok.Type == LPAREN:
		p.advance()
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case tok.Type == LSQUARE:
		return p.listExpr()

	case tok.Matches(KEYWORD, "IF"):
		return p.ifExpr()

	case tok.Matches(KEYWORD, "FOR"):
		return p.forExpr()

	case tok.Matches(KEYWORD, "WHILE"):
		return p.whileExpr()

	case tok.Matches(KEYWORD, "FUN"):
		return p.funcDef()

	case tok.Matches(KEYWORD, "EMBED"):
		return p.embedExpr()

	case tok.Matches(KEYWORD, "AI"):
		return p.aiExpr()
	}

	return nil, p.fail("Expected int, float, identifier, '+', '-', '(', '[', 'IF', 'FOR', 'WHILE', 'FUN', 'EMBED' or 'AI'")
}

// binOp parses left-associative chains: operand (op right)*.
func (p *Parser) binOp(operand func() (Node, *InvalidSyntaxError), match func(Token) bool, right func() (Node, *InvalidSyntaxError)) (Node, *InvalidSyntaxError) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for match(p.cur()) {
		opTok := p.cur()
		p.advance()
		r, err := right()
		if err != nil {
			return nil, err
		}
		left = &BinOpNode{Left: left, Op: opTok, Right: r}
	}
	return left, nil
}

// -----------------------------------------------------------------------------
// atoms
// -----------------------------------------------------------------------------

func (p *Parser) listExpr() (Node, *InvalidSyntaxError) {
	posStart := p.cur().PosStart
	if err := p.expect(LSQUARE); err != nil {
		return nil, err
	}

	var elems []Node
	if p.cur().Type == RSQUARE {
		end := p.cur().PosEnd
		p.advance()
		return &ListNode{PosStart: posStart, PosEnd: end}, nil
	}

	m := p.mark()
	first, err := p.expr()
	if err != nil {
		return nil, p.orGeneric(err, m, "Expected ']', 'VAR', 'IF', 'FOR', 'WHILE', 'FUN', int, float, identifier, '+', '-', '(', '[' or 'NOT'")
	}
	elems = append(elems, first)

	for p.cur().Type == COMMA {
		p.advance()
		el, err := p.expr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}

	if p.cur().Type != RSQUARE {
		return nil, p.fail("Expected ',' or ']'")
	}
	end := p.cur().PosEnd
	p.advance()
	return &ListNode{Elements: elems, PosStart: posStart, PosEnd: end}, nil
}

func (p *Parser) ifExpr() (Node, *InvalidSyntaxError) {
	cases, elseCase, err := p.ifCases("IF")
	if err != nil {
		return nil, err
	}
	return &IfNode{Cases: cases, Else: elseCase}, nil
}

// ifCases parses one IF or ELIF arm and, by mutual recursion, the rest of the
// chain.
func (p *Parser) ifCases(keyword string) ([]IfCase, *ElseCase, *InvalidSyntaxError) {
	if err := p.expectKeyword(keyword); err != nil {
		return nil, nil, err
	}

	cond, err := p.expr()
	if err != nil {
		return nil, nil, err
	}
	if err := p.expectKeyword("THEN"); err != nil {
		return nil, nil, err
	}

	if p.cur().Type == NEWLINE {
		p.advance()
		body, err := p.statements()
		if err != nil {
			return nil, nil, err
		}
		cases := []IfCase{{Cond: cond, Body: body, ReturnNull: true}}

		if p.cur().Matches(KEYWORD, "END") {
			p.advance()
			return cases, nil, nil
		}
		more, elseCase, err := p.elifOrElse()
		if err != nil {
			return nil, nil, err
		}
		return append(cases, more...), elseCase, nil
	}

	body, err := p.statement()
	if err != nil {
		return nil, nil, err
	}
	cases := []IfCase{{Cond: cond, Body: body, ReturnNull: false}}

	more, elseCase, err := p.elifOrElse()
	if err != nil {
		return nil, nil, err
	}
	return append(cases, more...), elseCase, nil
}

func (p *Parser) elifOrElse() ([]IfCase, *ElseCase, *InvalidSyntaxError) {
	if p.cur().Matches(KEYWORD, "ELIF") {
		return p.ifCases("ELIF")
	}
	elseCase, err := p.elseCase()
	if err != nil {
		return nil, nil, err
	}
	return nil, elseCase, nil
}

func (p *Parser) elseCase() (*ElseCase, *InvalidSyntaxError) {
	if !p.cur().Matches(KEYWORD, "ELSE") {
		return nil, nil
	}
	p.advance()

	if p.cur().Type == NEWLINE {
		p.advance()
		body, err := p.statements()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("END"); err != nil {
			return nil, err
		}
		return &ElseCase{Body: body, ReturnNull: true}, nil
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ElseCase{Body: body, ReturnNull: false}, nil
}

func (p *Parser) forExpr() (Node, *InvalidSyntaxError) {
	if err := p.expectKeyword("FOR"); err != nil {
		return nil, err
	}
	if p.cur().Type != IDENTIFIER {
		return nil, p.fail("Expected identifier")
	}
	varTok := p.cur()
	p.advance()

	if err := p.expect(EQ); err != nil {
		return nil, err
	}
	start, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TO"); err != nil {
		return nil, err
	}
	end, err := p.expr()
	if err != nil {
		return nil, err
	}

	var step Node
	if p.cur().Matches(KEYWORD, "STEP") {
		p.advance()
		step, err = p.expr()
		if err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("THEN"); err != nil {
		return nil, err
	}

	if p.cur().Type == NEWLINE {
		p.advance()
		body, err := p.statements()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("END"); err != nil {
			return nil, err
		}
		return &ForNode{VarTok: varTok, Start: start, End: end, Step: step, Body: body, ReturnNull: true}, nil
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	p.optionalEnd()
	return &ForNode{VarTok: varTok, Start: start, End: end, Step: step, Body: body, ReturnNull: false}, nil
}

func (p *Parser) whileExpr() (Node, *InvalidSyntaxError) {
	if err := p.expectKeyword("WHILE"); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("THEN"); err != nil {
		return nil, err
	}

	if p.cur().Type == NEWLINE {
		p.advance()
		body, err := p.statements()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("END"); err != nil {
			return nil, err
		}
		return &WhileNode{Cond: cond, Body: body, ReturnNull: true}, nil
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	p.optionalEnd()
	return &WhileNode{Cond: cond, Body: body, ReturnNull: false}, nil
}

// optionalEnd consumes a trailing END after an inline loop body, with or
// without intervening newlines, so one-statement loops may still be closed
// explicitly. If no END follows, the cursor is left untouched.
func (p *Parser) optionalEnd() {
	m := p.mark()
	for p.cur().Type == NEWLINE {
		p.advance()
	}
	if p.cur().Matches(KEYWORD, "END") {
		p.advance()
		return
	}
	p.resetTo(m)
}

func (p *Parser) funcDef() (Node, *InvalidSyntaxError) {
	posStart := p.cur().PosStart
	if err := p.expectKeyword("FUN"); err != nil {
		return nil, err
	}

	var nameTok *Token
	if p.cur().Type == IDENTIFIER {
		t := p.cur()
		nameTok = &t
		p.advance()
		if p.cur().Type != LPAREN {
			return nil, p.fail("Expected '('")
		}
	} else if p.cur().Type != LPAREN {
		return nil, p.fail("Expected identifier or '('")
	}
	p.advance()

	var argToks []Token
	if p.cur().Type == IDENTIFIER {
		argToks = append(argToks, p.cur())
		p.advance()
		for p.cur().Type == COMMA {
			p.advance()
			if p.cur().Type != IDENTIFIER {
				return nil, p.fail("Expected identifier")
			}
			argToks = append(argToks, p.cur())
			p.advance()
		}
		if p.cur().Type != RPAREN {
			return nil, p.fail("Expected ',' or ')'")
		}
	} else if p.cur().Type != RPAREN {
		return nil, p.fail("Expected identifier or ')'")
	}
	p.advance()

	if p.cur().Type == ARROW {
		p.advance()
		body, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &FuncDefNode{NameTok: nameTok, ArgToks: argToks, Body: body, AutoReturn: true, PosStart: posStart}, nil
	}

	if p.cur().Type != NEWLINE {
		return nil, p.fail("Expected '->' or newline")
	}
	p.advance()

	body, err := p.statements()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("END"); err != nil {
		return nil, err
	}
	return &FuncDefNode{NameTok: nameTok, ArgToks: argToks, Body: body, AutoReturn: false, PosStart: posStart}, nil
}

func (p *Parser) embedExpr() (Node, *InvalidSyntaxError) {
	posStart := p.cur().PosStart
	if err := p.expectKeyword("EMBED"); err != nil {
		return nil, err
	}

	text, err := p.expr()
	if err != nil {
		return nil, err
	}

	var model Node
	if p.cur().Matches(KEYWORD, "WITH") {
		p.advance()
		if p.cur().Type != IDENTIFIER {
			return nil, p.fail("Expected model identifier")
		}
		model = &VarAccessNode{NameTok: p.cur()}
		p.advance()
	}

	node := &EmbedNode{Text: text, Model: model, PosStart: posStart}
	if model != nil {
		_, node.PosEnd = model.Span()
	} else {
		_, node.PosEnd = text.Span()
	}
	return node, nil
}

func (p *Parser) aiExpr() (Node, *InvalidSyntaxError) {
	posStart := p.cur().PosStart
	if err := p.expectKeyword("AI"); err != nil {
		return nil, err
	}
	if p.cur().Type != IDENTIFIER {
		return nil, p.fail("Expected model identifier")
	}
	modelTok := p.cur()
	p.advance()

	if p.cur().Type != LPAREN {
		return nil, p.fail("Expected '('")
	}
	p.advance()

	var args []Node
	if p.cur().Type == RPAREN {
		end := p.cur().PosEnd
		p.advance()
		return &AICallNode{ModelTok: modelTok, PosStart: posStart, PosEnd: end}, nil
	}

	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	args = append(args, first)

	for p.cur().Type == COMMA {
		p.advance()
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if p.cur().Type != RPAREN {
		return nil, p.fail("Expected ',' or ')'")
	}
	end := p.cur().PosEnd
	p.advance()
	return &AICallNode{ModelTok: modelTok, Args: args, PosStart: posStart, PosEnd: end}, nil
}
