// Package ast defines the abstract syntax tree produced by the parser.
//
// Nodes are modeled as a tagged union of concrete Go structs rather than
// a class hierarchy: every Stmt and Expr variant implements a small
// marker interface, and later passes (the semantic checker, the code
// generator) dispatch with a type switch instead of a visitor. Every
// node carries the source Token that anchors its error reporting.
package ast

import "github.com/GU-Student-Projects/CPSC326/lexer"

// Node is satisfied by every AST node.
type Node interface {
	Tok() lexer.Token
}

// Stmt is satisfied by every statement node. CallExpr also implements
// Stmt so that a bare call can appear as a statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is satisfied by every expression/rvalue node.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of the AST: the struct and function definitions
// of one compilation unit.
type Program struct {
	StructDefs []*StructDef
	FunDefs    []*FunDef
}

// DataType names a value's type: a base type, a struct name, or void,
// optionally marked as an array of that type.
type DataType struct {
	Token    lexer.Token // the type-name token
	IsArray  bool
	TypeName string
}

func (d DataType) String() string {
	if d.IsArray {
		return "array " + d.TypeName
	}
	return d.TypeName
}

// VarDef is a declared variable or field: its type and name.
type VarDef struct {
	DataType DataType
	VarName  lexer.Token
}

// StructDef declares a struct type and its fields, in declaration order.
type StructDef struct {
	Name   lexer.Token
	Fields []VarDef
}

func (s *StructDef) Tok() lexer.Token { return s.Name }

// FunDef declares a function: its return type, name, parameters, and
// body.
type FunDef struct {
	ReturnType DataType
	Name       lexer.Token
	Params     []VarDef
	Stmts      []Stmt
}

func (f *FunDef) Tok() lexer.Token { return f.Name }

// VarRef is one link of a path: a variable or field name, optionally
// indexed.
type VarRef struct {
	VarName   lexer.Token
	ArrayExpr Expr // nil if not indexed
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// VarDecl declares a new variable, with an optional initializer.
type VarDecl struct {
	VarDef VarDef
	Expr   Expr // nil if uninitialized
}

func (*VarDecl) stmtNode()            {}
func (v *VarDecl) Tok() lexer.Token   { return v.VarDef.VarName }

// AssignStmt assigns to an lvalue path.
type AssignStmt struct {
	LValue []VarRef // non-empty path
	Expr   Expr
}

func (*AssignStmt) stmtNode()          {}
func (a *AssignStmt) Tok() lexer.Token { return a.LValue[0].VarName }

// WhileStmt is a condition-guarded loop.
type WhileStmt struct {
	Condition Expr
	Stmts     []Stmt
	Token     lexer.Token
}

func (*WhileStmt) stmtNode()          {}
func (w *WhileStmt) Tok() lexer.Token { return w.Token }

// ForStmt is a C-style counted loop: a declaration, a condition, a
// per-iteration assignment, and a body.
type ForStmt struct {
	VarDecl    *VarDecl
	Condition  Expr
	StepAssign *AssignStmt
	Stmts      []Stmt
	Token      lexer.Token
}

func (*ForStmt) stmtNode()          {}
func (f *ForStmt) Tok() lexer.Token { return f.Token }

// BasicIf is one `if (cond) { stmts }` arm, used for the leading if and
// each elseif.
type BasicIf struct {
	Condition Expr
	Stmts     []Stmt
}

// IfStmt is a full if/elseif*/else chain.
type IfStmt struct {
	IfPart    BasicIf
	ElseIfs   []BasicIf
	ElseStmts []Stmt
	Token     lexer.Token
}

func (*IfStmt) stmtNode()          {}
func (i *IfStmt) Tok() lexer.Token { return i.Token }

// ReturnStmt returns a value from the enclosing function.
type ReturnStmt struct {
	Expr  Expr
	Token lexer.Token
}

func (*ReturnStmt) stmtNode()          {}
func (r *ReturnStmt) Tok() lexer.Token { return r.Token }

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Term is either a SimpleTerm (an rvalue) or a ComplexTerm (a
// parenthesized sub-expression).
type Term interface {
	Expr
	termNode()
}

// SimpleTerm wraps a bare rvalue.
type SimpleTerm struct {
	RValue Expr
}

func (*SimpleTerm) exprNode()          {}
func (*SimpleTerm) termNode()          {}
func (s *SimpleTerm) Tok() lexer.Token { return s.RValue.Tok() }

// ComplexTerm wraps a parenthesized expression used as a term.
type ComplexTerm struct {
	ExprNode *Expr_
}

func (*ComplexTerm) exprNode()          {}
func (*ComplexTerm) termNode()          {}
func (c *ComplexTerm) Tok() lexer.Token { return c.ExprNode.Tok() }

// Expr_ is the expression node itself (named Expr_ to avoid colliding
// with the Expr marker interface): an optional leading `not`, a first
// term, and an optional (operator, rest) continuation. The grammar is
// flat and right-associative: Expr never encodes precedence, and no
// later pass may assume any.
type Expr_ struct {
	NotOp bool
	First Term
	Op    *lexer.Token // nil if this is just `first`
	Rest  *Expr_       // nil if this is just `first`
}

func (*Expr_) exprNode() {}
func (e *Expr_) Tok() lexer.Token {
	if e.First != nil {
		return e.First.Tok()
	}
	return lexer.Token{}
}

// SimpleRValue is a literal token used directly as a value (an int,
// double, string, bool, or null literal).
type SimpleRValue struct {
	Literal lexer.Token
}

func (*SimpleRValue) exprNode()          {}
func (s *SimpleRValue) Tok() lexer.Token { return s.Literal }

// NewRValue is `new T[n]` (array allocation) or `new S(args...)`
// (struct construction).
type NewRValue struct {
	TypeName     lexer.Token
	ArrayExpr    Expr   // set for `new T[n]`
	StructParams []Expr // set for `new S(...)`
	Token        lexer.Token
}

func (*NewRValue) exprNode()          {}
func (n *NewRValue) Tok() lexer.Token { return n.Token }

// VarRValue reads a variable path (`a`, `a.b[i].c`, ...).
type VarRValue struct {
	Path []VarRef
}

func (*VarRValue) exprNode()          {}
func (v *VarRValue) Tok() lexer.Token { return v.Path[0].VarName }

// CallExpr invokes a function, user-defined or built-in. It is both an
// expression (its value is the return value) and a statement (a bare
// call).  ArgTypes is the parser's best-effort per-argument type guess
// (literal tag, looked-up variable type, struct type name, or "expr"),
// kept for parity with the source toolchain's bookkeeping; it is NOT
// used for overload resolution — see ResolvedMangledName.
type CallExpr struct {
	FunName  lexer.Token
	Args     []Expr
	ArgTypes []string

	// ResolvedMangledName is filled in by the semantic checker, which
	// has exact argument types from the symbol table. The code
	// generator emits CALL <ResolvedMangledName> rather than
	// reconstructing a name from ArgTypes.
	ResolvedMangledName string
}

func (*CallExpr) exprNode()          {}
func (*CallExpr) stmtNode()          {}
func (c *CallExpr) Tok() lexer.Token { return c.FunName }
