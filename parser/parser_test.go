package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GU-Student-Projects/CPSC326/ast"
	"github.com/GU-Student-Projects/CPSC326/lexer"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p, err := New(lexer.New(lexer.NewStringSource(src)))
	require.NoError(t, err)
	prog, err := p.Parse()
	require.NoError(t, err)
	return prog
}

func TestParser_EmptyMain(t *testing.T) {
	prog := parseProgram(t, "void main() { }")
	require.Len(t, prog.FunDefs, 1)
	assert.Equal(t, "main", prog.FunDefs[0].Name.Lexeme)
	assert.Equal(t, "void", prog.FunDefs[0].ReturnType.TypeName)
	assert.Empty(t, prog.FunDefs[0].Stmts)
}

func TestParser_StructAndFunDefsAnyOrder(t *testing.T) {
	prog := parseProgram(t, `
		void main() { }
		struct Point { int x; int y; }
	`)
	require.Len(t, prog.StructDefs, 1)
	require.Len(t, prog.FunDefs, 1)
	assert.Equal(t, "Point", prog.StructDefs[0].Name.Lexeme)
	require.Len(t, prog.StructDefs[0].Fields, 2)
	assert.Equal(t, "x", prog.StructDefs[0].Fields[0].VarName.Lexeme)
	assert.Equal(t, "int", prog.StructDefs[0].Fields[0].DataType.TypeName)
}

func TestParser_VarDeclWithInit(t *testing.T) {
	prog := parseProgram(t, `void main() { int x = 1 + 2; }`)
	decl := prog.FunDefs[0].Stmts[0].(*ast.VarDecl)
	assert.Equal(t, "x", decl.VarDef.VarName.Lexeme)
	expr := decl.Expr.(*ast.Expr_)
	assert.NotNil(t, expr.Op)
	assert.Equal(t, lexer.PLUS, expr.Op.Type)
}

func TestParser_FlatExprIsRightAssociative(t *testing.T) {
	// 1 + 2 + 3 parses as 1 + (2 + 3): Rest is itself a continuation,
	// never folded into a left-leaning tree.
	prog := parseProgram(t, `void main() { int x = 1 + 2 + 3; }`)
	decl := prog.FunDefs[0].Stmts[0].(*ast.VarDecl)
	expr := decl.Expr.(*ast.Expr_)
	require.NotNil(t, expr.Rest)
	require.NotNil(t, expr.Rest.Rest)
	assert.Nil(t, expr.Rest.Rest.Rest)
}

func TestParser_ParenUnwrapsBareTerm(t *testing.T) {
	prog := parseProgram(t, `void main() { int x = (1); }`)
	decl := prog.FunDefs[0].Stmts[0].(*ast.VarDecl)
	expr := decl.Expr.(*ast.Expr_)
	_, isSimple := expr.First.(*ast.SimpleTerm)
	assert.True(t, isSimple)
}

func TestParser_ParenWrapsComplexExpr(t *testing.T) {
	prog := parseProgram(t, `void main() { int x = (1 + 2) * 3; }`)
	decl := prog.FunDefs[0].Stmts[0].(*ast.VarDecl)
	expr := decl.Expr.(*ast.Expr_)
	_, isComplex := expr.First.(*ast.ComplexTerm)
	assert.True(t, isComplex)
	assert.Equal(t, lexer.TIMES, expr.Op.Type)
}

func TestParser_NotFlattensOntoOuterExpr(t *testing.T) {
	prog := parseProgram(t, `void main() { bool x = not true == false; }`)
	decl := prog.FunDefs[0].Stmts[0].(*ast.VarDecl)
	expr := decl.Expr.(*ast.Expr_)
	assert.True(t, expr.NotOp)
	require.NotNil(t, expr.Op)
	assert.Equal(t, lexer.EQUAL, expr.Op.Type)
}

func TestParser_IndexedAssignStmt(t *testing.T) {
	prog := parseProgram(t, `void main() { array int a = new int[3]; a[0] = 9; }`)
	assign := prog.FunDefs[0].Stmts[1].(*ast.AssignStmt)
	require.Len(t, assign.LValue, 1)
	assert.Equal(t, "a", assign.LValue[0].VarName.Lexeme)
	assert.NotNil(t, assign.LValue[0].ArrayExpr)
}

func TestParser_PathAssignStmt(t *testing.T) {
	prog := parseProgram(t, `
		struct Point { int x; int y; }
		void main() { Point p = new Point(1, 2); p.x = 5; }
	`)
	assign := prog.FunDefs[0].Stmts[1].(*ast.AssignStmt)
	require.Len(t, assign.LValue, 2)
	assert.Equal(t, "p", assign.LValue[0].VarName.Lexeme)
	assert.Equal(t, "x", assign.LValue[1].VarName.Lexeme)
}

func TestParser_CallStmtAndExpr(t *testing.T) {
	prog := parseProgram(t, `
		int f(int a) { return a; }
		void main() { print(itos(f(3))); }
	`)
	call := prog.FunDefs[1].Stmts[0].(*ast.CallExpr)
	assert.Equal(t, "print", call.FunName.Lexeme)
	require.Len(t, call.Args, 1)
}

func TestParser_WhileLoop(t *testing.T) {
	prog := parseProgram(t, `void main() { while (true) { } }`)
	_, ok := prog.FunDefs[0].Stmts[0].(*ast.WhileStmt)
	assert.True(t, ok)
}

func TestParser_ForLoop(t *testing.T) {
	prog := parseProgram(t, `void main() { for (int i = 0; i < 3; i = i + 1) { } }`)
	forStmt := prog.FunDefs[0].Stmts[0].(*ast.ForStmt)
	assert.Equal(t, "i", forStmt.VarDecl.VarDef.VarName.Lexeme)
	assert.Equal(t, "i", forStmt.StepAssign.LValue[0].VarName.Lexeme)
}

func TestParser_IfElseIfElse(t *testing.T) {
	prog := parseProgram(t, `
		void main() {
			if (true) { }
			elseif (false) { }
			else { }
		}
	`)
	ifStmt := prog.FunDefs[0].Stmts[0].(*ast.IfStmt)
	assert.Len(t, ifStmt.ElseIfs, 1)
	assert.NotNil(t, ifStmt.ElseStmts)
}

func TestParser_EmptyElseBodyIsPresentButEmpty(t *testing.T) {
	prog := parseProgram(t, `void main() { if (true) { } else { } }`)
	ifStmt := prog.FunDefs[0].Stmts[0].(*ast.IfStmt)
	assert.NotNil(t, ifStmt.ElseStmts)
	assert.Empty(t, ifStmt.ElseStmts)
}

func TestParser_NewArray(t *testing.T) {
	prog := parseProgram(t, `void main() { array int a = new int[10]; }`)
	decl := prog.FunDefs[0].Stmts[0].(*ast.VarDecl)
	expr := decl.Expr.(*ast.Expr_)
	nr := expr.First.(*ast.SimpleTerm).RValue.(*ast.NewRValue)
	assert.Equal(t, "int", nr.TypeName.Lexeme)
	assert.NotNil(t, nr.ArrayExpr)
}

func TestParser_NewStruct(t *testing.T) {
	prog := parseProgram(t, `
		struct Point { int x; int y; }
		void main() { Point p = new Point(1, 2); }
	`)
	decl := prog.FunDefs[1].Stmts[0].(*ast.VarDecl)
	expr := decl.Expr.(*ast.Expr_)
	nr := expr.First.(*ast.SimpleTerm).RValue.(*ast.NewRValue)
	assert.Equal(t, "Point", nr.TypeName.Lexeme)
	assert.Len(t, nr.StructParams, 2)
}

func TestParser_MissingSemicolonIsError(t *testing.T) {
	p, err := New(lexer.New(lexer.NewStringSource(`void main() { int x = 1 }`)))
	require.NoError(t, err)
	_, err = p.Parse()
	assert.Error(t, err)
}

func TestParser_EmptyParenIsError(t *testing.T) {
	p, err := New(lexer.New(lexer.NewStringSource(`void main() { int x = (); }`)))
	require.NoError(t, err)
	_, err = p.Parse()
	assert.Error(t, err)
}
