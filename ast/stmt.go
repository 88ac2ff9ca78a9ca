package ast

import (
	"fmt"
	"strings"
)

type Stmt interface {
	Node
	stmtNode()
	String() string
}

// --- Expression statements ---
// e.g. println(a);
type ExprStmt struct {
	Pos  int
	Expr Expr
}

func (e *ExprStmt) NodeKind() string { return "ExprStmt" }
func (e *ExprStmt) stmtNode()        {}
func (e *ExprStmt) Offset() int      { return e.Pos }
func (e *ExprStmt) String() string   { return fmt.Sprintf("ExprStmt(%s)", e.Expr.String()) }

type ReturnStmt struct {
	Pos   int
	Value Expr
}

func (r *ReturnStmt) NodeKind() string { return "ReturnStmt" }
func (r *ReturnStmt) stmtNode()        {}
func (r *ReturnStmt) Offset() int      { return r.Pos }
func (r *ReturnStmt) String() string   { return fmt.Sprintf("Return(%s)", r.Value.String()) }

type BlockStmt struct {
	Pos  int
	Body []Stmt
}

func (b *BlockStmt) NodeKind() string { return "BlockStmt" }
func (b *BlockStmt) stmtNode()        {}
func (b *BlockStmt) Offset() int      { return b.Pos }
func (b *BlockStmt) String() string   { return fmt.Sprintf("Block(%s)", joinStmts(b.Body)) }

// Declared variable types, as written in source.
const (
	TypeNum  = "num"
	TypeStr  = "str"
	TypeBool = "bool"
	TypeVar  = "var"
)

// VarDecl always carries an initializer; the parser synthesizes the zero
// value of Type when the source omits one.
type VarDecl struct {
	Pos  int
	Name string
	Type string
	Init Expr
}

func (v *VarDecl) NodeKind() string { return "VarDecl" }
func (v *VarDecl) stmtNode()        {}
func (v *VarDecl) Offset() int      { return v.Pos }
func (v *VarDecl) String() string {
	return fmt.Sprintf("VarDecl(%s %s = %s)", v.Type, v.Name, v.Init.String())
}

type IfStmt struct {
	Pos       int
	Condition Expr
	Then      Stmt
	Else      Stmt // optional
}

func (i *IfStmt) NodeKind() string { return "IfStmt" }
func (i *IfStmt) stmtNode()        {}
func (i *IfStmt) Offset() int      { return i.Pos }
func (i *IfStmt) String() string {
	if i.Else == nil {
		return fmt.Sprintf("If(%s, %s)", i.Condition.String(), i.Then.String())
	}
	return fmt.Sprintf("If(%s, %s, else %s)", i.Condition.String(), i.Then.String(), i.Else.String())
}

type WhileStmt struct {
	Pos       int
	Condition Expr
	Body      Stmt
}

func (w *WhileStmt) NodeKind() string { return "WhileStmt" }
func (w *WhileStmt) stmtNode()        {}
func (w *WhileStmt) Offset() int      { return w.Pos }
func (w *WhileStmt) String() string {
	return fmt.Sprintf("While(%s, %s)", w.Condition.String(), w.Body.String())
}

type FxnDecl struct {
	Pos    int
	Name   string
	Params []string
	Body   []Stmt
}

func (f *FxnDecl) NodeKind() string { return "FxnDecl" }
func (f *FxnDecl) stmtNode()        {}
func (f *FxnDecl) Offset() int      { return f.Pos }
func (f *FxnDecl) String() string {
	return fmt.Sprintf("Fxn(%s(%s), %s)", f.Name, strings.Join(f.Params, ", "), joinStmts(f.Body))
}

func joinStmts(stmts []Stmt) string {
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		if s == nil {
			parts = append(parts, "<error>")
			continue
		}
		parts = append(parts, s.String())
	}
	return "[" + strings.Join(parts, "; ") + "]"
}
