// ast.go: the closed set of syntax-tree node kinds.
//
// Nodes are immutable once the parser builds them. Every node spans a source
// range via Span; the evaluator dispatches on the concrete type with an
// exhaustive type switch (see interpreter.go), so adding a kind here without
// an evaluation rule is an internal error at runtime, not a silent no-op.
package sentience

// Node is the interface all AST nodes satisfy.
type Node interface {
	Span() (start, end Position)
}

// NumberNode is an INT or FLOAT literal.
type NumberNode struct {
	Tok Token
}

func (n *NumberNode) Span() (Position, Position) { return n.Tok.PosStart, n.Tok.PosEnd }

// StringNode is a STRING literal.
type StringNode struct {
	Tok Token
}

func (n *StringNode) Span() (Position, Position) { return n.Tok.PosStart, n.Tok.PosEnd }

// ListNode is a '[...]' literal. The parser also uses it as the program root
// and as statement blocks, one element per statement.
type ListNode struct {
	Elements []Node
	PosStart Position
	PosEnd   Position
}

func (n *ListNode) Span() (Position, Position) { return n.PosStart, n.PosEnd }

// VarAccessNode reads a variable.
type VarAccessNode struct {
	NameTok Token
}

func (n *VarAccessNode) Span() (Position, Position) { return n.NameTok.PosStart, n.NameTok.PosEnd }

// VarAssignNode is 'VAR name = expr'. Assignment always writes the innermost
// scope.
type VarAssignNode struct {
	NameTok Token
	Value   Node
}

func (n *VarAssignNode) Span() (Position, Position) {
	_, end := n.Value.Span()
	return n.NameTok.PosStart, end
}

// BinOpNode applies an infix operator (arithmetic, comparison, AND/OR).
type BinOpNode struct {
	Left  Node
	Op    Token
	Right Node
}

func (n *BinOpNode) Span() (Position, Position) {
	start, _ := n.Left.Span()
	_, end := n.Right.Span()
	return start, end
}

// UnaryOpNode applies prefix '+', '-' or NOT.
type UnaryOpNode struct {
	Op      Token
	Operand Node
}

func (n *UnaryOpNode) Span() (Position, Position) {
	_, end := n.Operand.Span()
	return n.Op.PosStart, end
}

// IfCase is one (condition, body) arm of an if-chain. ReturnNull marks block
// form: the arm's value as an expression is null, only side effects matter.
type IfCase struct {
	Cond       Node
	Body       Node
	ReturnNull bool
}

// ElseCase is the optional trailing else arm.
type ElseCase struct {
	Body       Node
	ReturnNull bool
}

// IfNode is an IF/ELIF/ELSE chain, cases in source order.
type IfNode struct {
	Cases []IfCase
	Else  *ElseCase
}

func (n *IfNode) Span() (Position, Position) {
	start, _ := n.Cases[0].Cond.Span()
	if n.Else != nil {
		_, end := n.Else.Body.Span()
		return start, end
	}
	last := n.Cases[len(n.Cases)-1]
	_, end := last.Body.Span()
	return start, end
}

// ForNode is 'FOR i = start TO end (STEP step)? THEN body'. Step is nil when
// absent (defaults to 1 at evaluation). ReturnNull marks block form.
type ForNode struct {
	VarTok     Token
	Start      Node
	End        Node
	Step       Node
	Body       Node
	ReturnNull bool
}

func (n *ForNode) Span() (Position, Position) {
	_, end := n.Body.Span()
	return n.VarTok.PosStart, end
}

// WhileNode is 'WHILE cond THEN body'. ReturnNull marks block form.
type WhileNode struct {
	Cond       Node
	Body       Node
	ReturnNull bool
}

func (n *WhileNode) Span() (Position, Position) {
	start, _ := n.Cond.Span()
	_, end := n.Body.Span()
	return start, end
}

// FuncDefNode is 'FUN name?(args) -> expr' or the END-delimited block form.
// AutoReturn marks the arrow form whose single expression is the result.
type FuncDefNode struct {
	NameTok    *Token
	ArgToks    []Token
	Body       Node
	AutoReturn bool
	PosStart   Position
}

func (n *FuncDefNode) Span() (Position, Position) {
	_, end := n.Body.Span()
	return n.PosStart, end
}

// CallNode invokes a callee expression with positional arguments.
type CallNode struct {
	Callee Node
	Args   []Node
	PosEnd Position
}

func (n *CallNode) Span() (Position, Position) {
	start, _ := n.Callee.Span()
	return start, n.PosEnd
}

// ReturnNode is 'RETURN expr?'.
type ReturnNode struct {
	Expr     Node // nil for a bare RETURN
	PosStart Position
	PosEnd   Position
}

func (n *ReturnNode) Span() (Position, Position) { return n.PosStart, n.PosEnd }

// ContinueNode is 'CONTINUE'.
type ContinueNode struct {
	PosStart Position
	PosEnd   Position
}

func (n *ContinueNode) Span() (Position, Position) { return n.PosStart, n.PosEnd }

// BreakNode is 'BREAK'.
type BreakNode struct {
	PosStart Position
	PosEnd   Position
}

func (n *BreakNode) Span() (Position, Position) { return n.PosStart, n.PosEnd }

// EmbedNode is 'EMBED textExpr (WITH model)?'. Model is nil when absent; the
// capability then receives the fixed "default" model name.
type EmbedNode struct {
	Text     Node
	Model    Node
	PosStart Position
	PosEnd   Position
}

func (n *EmbedNode) Span() (Position, Position) { return n.PosStart, n.PosEnd }

// AICallNode is 'AI model(args...)'.
type AICallNode struct {
	ModelTok Token
	Args     []Node
	PosStart Position
	PosEnd   Position
}

func (n *AICallNode) Span() (Position, Position) { return n.PosStart, n.PosEnd }

// PipeNode is 'left PIPE right': right is resolved to a callable and invoked
// with left's value as its single argument.
type PipeNode struct {
	Left  Node
	Right Node
}

func (n *PipeNode) Span() (Position, Position) {
	start, _ := n.Left.Span()
	_, end := n.Right.Span()
	return start, end
}
