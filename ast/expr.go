package ast

import (
	"fmt"
	"strconv"
	"strings"
)

type Expr interface {
	Node
	exprNode()
	String() string
}

type NumberLiteral struct {
	Pos   int
	Value float64
}

func (n *NumberLiteral) NodeKind() string { return "NumberLiteral" }
func (n *NumberLiteral) exprNode()        {}
func (n *NumberLiteral) Offset() int      { return n.Pos }
func (n *NumberLiteral) String() string {
	return fmt.Sprintf("Number(%s)", strconv.FormatFloat(n.Value, 'f', -1, 64))
}

type StringLiteral struct {
	Pos   int
	Value string
}

func (s *StringLiteral) NodeKind() string { return "StringLiteral" }
func (s *StringLiteral) exprNode()        {}
func (s *StringLiteral) Offset() int      { return s.Pos }
func (s *StringLiteral) String() string   { return fmt.Sprintf("String(%q)", s.Value) }

type BoolLiteral struct {
	Pos   int
	Value bool
}

func (b *BoolLiteral) NodeKind() string { return "BoolLiteral" }
func (b *BoolLiteral) exprNode()        {}
func (b *BoolLiteral) Offset() int      { return b.Pos }
func (b *BoolLiteral) String() string {
	if b.Value {
		return "Bool(true)"
	}
	return "Bool(false)"
}

// Identifier is a variable reference.
type Identifier struct {
	Pos  int
	Name string
}

func (i *Identifier) NodeKind() string { return "Identifier" }
func (i *Identifier) exprNode()        {}
func (i *Identifier) Offset() int      { return i.Pos }
func (i *Identifier) String() string   { return fmt.Sprintf("Ident(%s)", i.Name) }

// SpecialSymbol is written @name. It resolves exactly like an Identifier.
type SpecialSymbol struct {
	Pos  int
	Name string
}

func (s *SpecialSymbol) NodeKind() string { return "SpecialSymbol" }
func (s *SpecialSymbol) exprNode()        {}
func (s *SpecialSymbol) Offset() int      { return s.Pos }
func (s *SpecialSymbol) String() string   { return fmt.Sprintf("Symbol(@%s)", s.Name) }

// Operator records an operator token: its lexeme and where it appeared.
type Operator struct {
	Pos    int
	Lexeme string
}

type UnaryExpr struct {
	Op    Operator
	Right Expr
}

func (u *UnaryExpr) NodeKind() string { return "UnaryExpr" }
func (u *UnaryExpr) exprNode()        {}
func (u *UnaryExpr) Offset() int      { return u.Op.Pos }
func (u *UnaryExpr) String() string {
	return fmt.Sprintf("Unary(%s %s)", u.Op.Lexeme, u.Right.String())
}

type BinaryExpr struct {
	Left  Expr
	Op    Operator
	Right Expr
}

func (b *BinaryExpr) NodeKind() string { return "BinaryExpr" }
func (b *BinaryExpr) exprNode()        {}
func (b *BinaryExpr) Offset() int      { return b.Op.Pos }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("Binary(%s %s %s)", b.Left.String(), b.Op.Lexeme, b.Right.String())
}

type GroupExpr struct {
	Pos   int
	Inner Expr
}

func (g *GroupExpr) NodeKind() string { return "GroupExpr" }
func (g *GroupExpr) exprNode()        {}
func (g *GroupExpr) Offset() int      { return g.Pos }
func (g *GroupExpr) String() string   { return fmt.Sprintf("Group(%s)", g.Inner.String()) }

type AssignExpr struct {
	Pos   int
	Name  string
	Value Expr
}

func (a *AssignExpr) NodeKind() string { return "AssignExpr" }
func (a *AssignExpr) exprNode()        {}
func (a *AssignExpr) Offset() int      { return a.Pos }
func (a *AssignExpr) String() string {
	return fmt.Sprintf("Assign(%s = %s)", a.Name, a.Value.String())
}

// CallExpr keeps the offset of its opening parenthesis for diagnostics.
type CallExpr struct {
	Paren  int
	Callee Expr
	Args   []Expr
}

func (c *CallExpr) NodeKind() string { return "CallExpr" }
func (c *CallExpr) exprNode()        {}
func (c *CallExpr) Offset() int      { return c.Paren }
func (c *CallExpr) String() string {
	if len(c.Args) == 0 {
		return fmt.Sprintf("Call(%s, [])", c.Callee.String())
	}
	parts := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("Call(%s, [%s])", c.Callee.String(), strings.Join(parts, ", "))
}
