// printer.go: rendering values for display and nodes back to source text.
//
// FormatValue is the repr form the REPL and error paths use (strings keep
// their quotes); DisplayValue is the str form print uses (strings bare).
// FormatNode regenerates parseable source from an AST. The regenerated text
// is normalized, fully parenthesized where precedence could bite, so
// formatting is a fixpoint: format(parse(format(parse(src)))) equals
// format(parse(src)).
package sentience

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatValue renders v in its quoted, list-bracketed repr form.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNumber:
		return formatNumber(v.Num())
	case VTString:
		return strconv.Quote(v.Str())
	case VTList:
		items := v.ListItems()
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = FormatValue(it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VTFunc:
		return "<function " + v.Data.(*Function).Name + ">"
	case VTBuiltin:
		return "<built-in function " + v.Data.(*Builtin).Name + ">"
	}
	return "<value>"
}

// DisplayValue renders v for print output: strings appear bare, everything
// else as in FormatValue.
func DisplayValue(v Value) string {
	if v.Tag == VTString {
		return v.Str()
	}
	if v.Tag == VTList {
		items := v.ListItems()
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = FormatValue(it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return FormatValue(v)
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatProgram renders a parse result back to source. The program root's
// statement list joins with newlines instead of rendering as a list literal.
func FormatProgram(node Node) string {
	if root, ok := node.(*ListNode); ok {
		parts := make([]string, len(root.Elements))
		for i, el := range root.Elements {
			parts[i] = FormatNode(el)
		}
		return strings.Join(parts, "\n")
	}
	return FormatNode(node)
}

// FormatNode renders a single node as an expression or statement.
func FormatNode(node Node) string {
	switch n := node.(type) {
	case *NumberNode:
		return formatNumber(n.Tok.Value.(float64))
	case *StringNode:
		return strconv.Quote(n.Tok.Value.(string))
	case *ListNode:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = FormatNode(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *VarAccessNode:
		return n.NameTok.Value.(string)
	case *VarAssignNode:
		return "VAR " + n.NameTok.Value.(string) + " = " + FormatNode(n.Value)
	case *BinOpNode:
		return "(" + FormatNode(n.Left) + " " + opText(n.Op) + " " + FormatNode(n.Right) + ")"
	case *UnaryOpNode:
		return "(" + opText(n.Op) + " " + FormatNode(n.Operand) + ")"
	case *IfNode:
		return formatIf(n)
	case *ForNode:
		return formatFor(n)
	case *WhileNode:
		return formatWhile(n)
	case *FuncDefNode:
		return formatFuncDef(n)
	case *CallNode:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = FormatNode(a)
		}
		return FormatNode(n.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *ReturnNode:
		if n.Expr == nil {
			return "RETURN"
		}
		return "RETURN " + FormatNode(n.Expr)
	case *ContinueNode:
		return "CONTINUE"
	case *BreakNode:
		return "BREAK"
	case *EmbedNode:
		s := "EMBED " + FormatNode(n.Text)
		if n.Model != nil {
			s += " WITH " + FormatNode(n.Model)
		}
		return s
	case *AICallNode:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = FormatNode(a)
		}
		return "AI " + n.ModelTok.Value.(string) + "(" + strings.Join(args, ", ") + ")"
	case *PipeNode:
		return "(" + FormatNode(n.Left) + " PIPE " + FormatNode(n.Right) + ")"
	}
	return fmt.Sprintf("<%T>", node)
}

// formatIf renders each arm in its own form: the parser accepts mixed chains
// (a block arm followed by an inline ELSE and vice versa), and collapsing the
// chain to one shape would flip ReturnNull flags on a round trip. The closing
// END appears only when the final arm is a block.
func formatIf(n *IfNode) string {
	var b strings.Builder
	sep := ""
	blockTail := false

	for i, c := range n.Cases {
		kw := "IF"
		if i > 0 {
			kw = "ELIF"
		}
		b.WriteString(sep + kw + " " + FormatNode(c.Cond) + " THEN")
		if c.ReturnNull {
			b.WriteString("\n" + formatBlockBody(c.Body))
			sep, blockTail = "\n", true
		} else {
			b.WriteString(" " + FormatNode(c.Body))
			sep, blockTail = " ", false
		}
	}
	if n.Else != nil {
		b.WriteString(sep + "ELSE")
		if n.Else.ReturnNull {
			b.WriteString("\n" + formatBlockBody(n.Else.Body))
			blockTail = true
		} else {
			b.WriteString(" " + FormatNode(n.Else.Body))
			blockTail = false
		}
	}
	if blockTail {
		b.WriteString("\nEND")
	}
	return b.String()
}

func formatFor(n *ForNode) string {
	s := "FOR " + n.VarTok.Value.(string) + " = " + FormatNode(n.Start) + " TO " + FormatNode(n.End)
	if n.Step != nil {
		s += " STEP " + FormatNode(n.Step)
	}
	s += " THEN"
	if n.ReturnNull {
		return s + "\n" + formatBlockBody(n.Body) + "\nEND"
	}
	return s + " " + FormatNode(n.Body)
}

func formatWhile(n *WhileNode) string {
	s := "WHILE " + FormatNode(n.Cond) + " THEN"
	if n.ReturnNull {
		return s + "\n" + formatBlockBody(n.Body) + "\nEND"
	}
	return s + " " + FormatNode(n.Body)
}

func formatFuncDef(n *FuncDefNode) string {
	name := ""
	if n.NameTok != nil {
		name = n.NameTok.Value.(string)
	}
	args := make([]string, len(n.ArgToks))
	for i, t := range n.ArgToks {
		args[i] = t.Value.(string)
	}
	head := "FUN " + name + "(" + strings.Join(args, ", ") + ")"
	if n.AutoReturn {
		return head + " -> " + FormatNode(n.Body)
	}
	return head + "\n" + formatBlockBody(n.Body) + "\nEND"
}

// formatBlockBody renders a statement block one statement per line.
func formatBlockBody(body Node) string {
	if block, ok := body.(*ListNode); ok {
		parts := make([]string, len(block.Elements))
		for i, el := range block.Elements {
			parts[i] = FormatNode(el)
		}
		return strings.Join(parts, "\n")
	}
	return FormatNode(body)
}

func opText(op Token) string {
	if op.Type == KEYWORD {
		return op.Value.(string)
	}
	switch op.Type {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case MUL:
		return "*"
	case DIV:
		return "/"
	case POW:
		return "^"
	case EE:
		return "=="
	case NE:
		return "!="
	case LT:
		return "<"
	case GT:
		return ">"
	case LTE:
		return "<="
	case GTE:
		return ">="
	}
	return "?"
}
