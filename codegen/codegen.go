// Package codegen lowers a checked AST into vm.FrameTemplates: one
// visitor pass per function definition, emitting the stack-IR
// instructions the vm package executes directly. It assumes its input
// has already passed github.com/GU-Student-Projects/CPSC326/check —
// an ill-typed program is not a codegen concern.
package codegen

import (
	"strconv"

	"github.com/GU-Student-Projects/CPSC326/ast"
	"github.com/GU-Student-Projects/CPSC326/check"
	"github.com/GU-Student-Projects/CPSC326/lexer"
	"github.com/GU-Student-Projects/CPSC326/vm"
)

// Generator walks a Program and registers one FrameTemplate per
// function into a target VM.
type Generator struct {
	target     *vm.VM
	structDefs map[string]*ast.StructDef

	curr *vm.FrameTemplate
	vars *varTable
}

// New returns a Generator that will register templates into target.
func New(target *vm.VM) *Generator {
	return &Generator{
		target:     target,
		structDefs: map[string]*ast.StructDef{},
	}
}

// Generate lowers every function in prog and registers its
// FrameTemplate into the target VM.
func (g *Generator) Generate(prog *ast.Program) error {
	for _, sd := range prog.StructDefs {
		g.structDefs[sd.Name.Lexeme] = sd
	}
	for _, fd := range prog.FunDefs {
		if err := g.genFunDef(fd); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) emit(instr vm.Instr) {
	g.curr.Instructions = append(g.curr.Instructions, instr)
}

func (g *Generator) here() int { return len(g.curr.Instructions) }

func (g *Generator) genFunDef(fd *ast.FunDef) error {
	g.curr = &vm.FrameTemplate{Name: check.FunMangledName(fd), ArgCount: len(fd.Params)}
	g.vars = newVarTable()
	g.vars.pushEnvironment()

	for _, p := range fd.Params {
		idx := g.vars.add(p.VarName.Lexeme)
		g.emit(vm.Store(idx))
	}

	var last ast.Stmt
	for _, stmt := range fd.Stmts {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
		last = stmt
	}
	if _, ok := last.(*ast.ReturnStmt); !ok {
		g.emit(vm.Push(vm.Null))
		g.emit(vm.Simple(vm.RET))
	}

	g.vars.popEnvironment()
	g.target.AddFrameTemplate(g.curr)
	return nil
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (g *Generator) genStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return g.genVarDecl(s)
	case *ast.AssignStmt:
		return g.genAssignStmt(s)
	case *ast.WhileStmt:
		return g.genWhileStmt(s)
	case *ast.ForStmt:
		return g.genForStmt(s)
	case *ast.IfStmt:
		return g.genIfStmt(s)
	case *ast.ReturnStmt:
		return g.genReturnStmt(s)
	case *ast.CallExpr:
		return g.genCallExpr(s)
	default:
		return errorf("unsupported statement kind %T", stmt)
	}
}

func (g *Generator) genVarDecl(v *ast.VarDecl) error {
	idx := g.vars.add(v.VarDef.VarName.Lexeme)
	if v.Expr != nil {
		if err := g.genExpr(v.Expr); err != nil {
			return err
		}
	} else {
		g.emit(vm.Push(vm.Null))
	}
	g.emit(vm.Store(idx))
	return nil
}

// genAssignStmt lowers a (possibly multi-link) lvalue path assignment.
// A root-only path (`x = e` or `x[i] = e`) stores or SETIs directly.
// A longer path (`a.b.c = e`) loads the root, GETFs through every
// intermediate link, then SETFs or SETIs the final link. An indexed
// root in a multi-link path (`a[i].b = e`) is not threaded through:
// the source toolchain's own assignment lowering never consulted the
// root's index once the path had more than one link, so neither does
// this one — see DESIGN.md.
func (g *Generator) genAssignStmt(a *ast.AssignStmt) error {
	root := a.LValue[0]
	if len(a.LValue) == 1 {
		if root.ArrayExpr != nil {
			g.emit(vm.Load(g.vars.get(root.VarName.Lexeme)))
			if err := g.genExpr(root.ArrayExpr); err != nil {
				return err
			}
			if err := g.genExpr(a.Expr); err != nil {
				return err
			}
			g.emit(vm.Simple(vm.SETI))
			return nil
		}
		if err := g.genExpr(a.Expr); err != nil {
			return err
		}
		g.emit(vm.Store(g.vars.get(root.VarName.Lexeme)))
		return nil
	}

	g.emit(vm.Load(g.vars.get(root.VarName.Lexeme)))
	mid := a.LValue[1 : len(a.LValue)-1]
	for _, link := range mid {
		g.emit(vm.Getf(link.VarName.Lexeme))
		if link.ArrayExpr != nil {
			if err := g.genExpr(link.ArrayExpr); err != nil {
				return err
			}
			g.emit(vm.Simple(vm.GETI))
		}
	}
	last := a.LValue[len(a.LValue)-1]
	if last.ArrayExpr != nil {
		g.emit(vm.Getf(last.VarName.Lexeme))
		if err := g.genExpr(last.ArrayExpr); err != nil {
			return err
		}
		if err := g.genExpr(a.Expr); err != nil {
			return err
		}
		g.emit(vm.Simple(vm.SETI))
	} else {
		if err := g.genExpr(a.Expr); err != nil {
			return err
		}
		g.emit(vm.Setf(last.VarName.Lexeme))
	}
	return nil
}

// genWhileStmt emits the condition, a forward-patched JMPF over the
// body, and a backward JMP to the condition. The JMPF target is
// patched to the index of a trailing NOP so a false condition lands
// past the body's final instruction.
func (g *Generator) genWhileStmt(w *ast.WhileStmt) error {
	condIndex := g.here()
	if err := g.genExpr(w.Condition); err != nil {
		return err
	}
	jmpfIndex := g.here()
	g.emit(vm.Jmpf(-1))

	g.vars.pushEnvironment()
	for _, s := range w.Stmts {
		if err := g.genStmt(s); err != nil {
			return err
		}
	}
	g.vars.popEnvironment()

	g.emit(vm.Jmp(condIndex))
	g.emit(vm.Simple(vm.NOP))
	g.curr.Instructions[jmpfIndex] = vm.Jmpf(g.here() - 1)
	return nil
}

func (g *Generator) genForStmt(f *ast.ForStmt) error {
	g.vars.pushEnvironment()
	if err := g.genVarDecl(f.VarDecl); err != nil {
		return err
	}

	condIndex := g.here()
	if err := g.genExpr(f.Condition); err != nil {
		return err
	}
	jmpfIndex := g.here()
	g.emit(vm.Jmpf(-1))

	g.vars.pushEnvironment()
	for _, s := range f.Stmts {
		if err := g.genStmt(s); err != nil {
			return err
		}
	}
	g.vars.popEnvironment()

	if err := g.genAssignStmt(f.StepAssign); err != nil {
		return err
	}
	g.vars.popEnvironment()

	g.emit(vm.Jmp(condIndex))
	g.emit(vm.Simple(vm.NOP))
	g.curr.Instructions[jmpfIndex] = vm.Jmpf(g.here() - 1)
	return nil
}

// genIfStmt emits the leading if, every elseif, and the optional
// trailing else, patching each arm's JMPF to the start of the next
// arm (or the chain's end) and collecting a JMP at the end of every
// taken arm to patch to the chain's very end once it is known.
func (g *Generator) genIfStmt(i *ast.IfStmt) error {
	if err := g.genExpr(i.IfPart.Condition); err != nil {
		return err
	}
	jmpfIndex := g.here()
	g.emit(vm.Jmpf(-1))

	g.vars.pushEnvironment()
	for _, s := range i.IfPart.Stmts {
		if err := g.genStmt(s); err != nil {
			return err
		}
	}
	g.vars.popEnvironment()

	var endJumps []int
	endJumps = append(endJumps, g.here())
	g.emit(vm.Jmp(-1))

	for _, arm := range i.ElseIfs {
		g.emit(vm.Simple(vm.NOP))
		g.curr.Instructions[jmpfIndex] = vm.Jmpf(g.here() - 1)

		if err := g.genExpr(arm.Condition); err != nil {
			return err
		}
		jmpfIndex = g.here()
		g.emit(vm.Jmpf(-1))

		g.vars.pushEnvironment()
		for _, s := range arm.Stmts {
			if err := g.genStmt(s); err != nil {
				return err
			}
		}
		g.vars.popEnvironment()

		endJumps = append(endJumps, g.here())
		g.emit(vm.Jmp(-1))
	}

	if i.ElseStmts != nil {
		g.emit(vm.Simple(vm.NOP))
		g.curr.Instructions[jmpfIndex] = vm.Jmpf(g.here() - 1)

		g.vars.pushEnvironment()
		for _, s := range i.ElseStmts {
			if err := g.genStmt(s); err != nil {
				return err
			}
		}
		g.vars.popEnvironment()

		g.emit(vm.Simple(vm.NOP))
	} else {
		g.emit(vm.Simple(vm.NOP))
		g.curr.Instructions[jmpfIndex] = vm.Jmpf(g.here() - 1)
	}
	for _, idx := range endJumps {
		g.curr.Instructions[idx] = vm.Jmp(g.here() - 1)
	}
	return nil
}

func (g *Generator) genReturnStmt(r *ast.ReturnStmt) error {
	if err := g.genExpr(r.Expr); err != nil {
		return err
	}
	g.emit(vm.Simple(vm.RET))
	return nil
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// genExpr emits e's value. For a `>` or `>=` comparison it swaps the
// operand emission order and lowers to CMPLT/CMPLE with the operands
// reversed, since the VM only has "less than" comparisons.
func (g *Generator) genExpr(e ast.Expr) error {
	expr, ok := e.(*ast.Expr_)
	if !ok {
		return errorf("unsupported expression kind %T", e)
	}

	swapped := expr.Op != nil && (expr.Op.Type == lexer.GREATER || expr.Op.Type == lexer.GREATER_EQ)
	if swapped {
		if err := g.genExpr(expr.Rest); err != nil {
			return err
		}
		if err := g.genTerm(expr.First); err != nil {
			return err
		}
	} else {
		if err := g.genTerm(expr.First); err != nil {
			return err
		}
		if expr.Rest != nil {
			if err := g.genExpr(expr.Rest); err != nil {
				return err
			}
		}
	}

	if expr.Op != nil {
		switch expr.Op.Type {
		case lexer.PLUS:
			g.emit(vm.Simple(vm.ADD))
		case lexer.MINUS:
			g.emit(vm.Simple(vm.SUB))
		case lexer.TIMES:
			g.emit(vm.Simple(vm.MUL))
		case lexer.DIVIDE:
			g.emit(vm.Simple(vm.DIV))
		case lexer.AND:
			g.emit(vm.Simple(vm.AND))
		case lexer.OR:
			g.emit(vm.Simple(vm.OR))
		case lexer.EQUAL:
			g.emit(vm.Simple(vm.CMPEQ))
		case lexer.NOT_EQUAL:
			g.emit(vm.Simple(vm.CMPNE))
		case lexer.LESS, lexer.GREATER:
			g.emit(vm.Simple(vm.CMPLT))
		case lexer.LESS_EQ, lexer.GREATER_EQ:
			g.emit(vm.Simple(vm.CMPLE))
		default:
			return errorf("unsupported binary operator %s", expr.Op.Type)
		}
	}
	if expr.NotOp {
		g.emit(vm.Simple(vm.NOT))
	}
	return nil
}

func (g *Generator) genTerm(term ast.Term) error {
	switch t := term.(type) {
	case *ast.SimpleTerm:
		return g.genRValue(t.RValue)
	case *ast.ComplexTerm:
		return g.genExpr(t.ExprNode)
	default:
		return errorf("unsupported term kind %T", term)
	}
}

func (g *Generator) genRValue(e ast.Expr) error {
	switch rv := e.(type) {
	case *ast.SimpleRValue:
		return g.genSimpleRValue(rv)
	case *ast.NewRValue:
		return g.genNewRValue(rv)
	case *ast.VarRValue:
		return g.genVarRValue(rv)
	case *ast.CallExpr:
		return g.genCallExpr(rv)
	default:
		return errorf("unsupported rvalue kind %T", e)
	}
}

func (g *Generator) genSimpleRValue(rv *ast.SimpleRValue) error {
	tok := rv.Literal
	switch tok.Type {
	case lexer.INT_VAL:
		n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return errorf("malformed int literal %q", tok.Lexeme)
		}
		g.emit(vm.Push(vm.IntVal(n)))
	case lexer.DOUBLE_VAL:
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return errorf("malformed double literal %q", tok.Lexeme)
		}
		g.emit(vm.Push(vm.DoubleVal(f)))
	case lexer.STRING_VAL:
		g.emit(vm.Push(vm.StringVal(tok.Lexeme)))
	case lexer.BOOL_VAL:
		g.emit(vm.Push(vm.BoolVal(tok.Lexeme == "true")))
	case lexer.NULL_VAL:
		g.emit(vm.Push(vm.Null))
	default:
		return errorf("unsupported literal kind %s", tok.Type)
	}
	return nil
}

// genNewRValue emits either array allocation (`new T[n]`) or struct
// construction (`new S(args...)`), populating each declared field in
// order with ALLOCS/DUP/SETF.
func (g *Generator) genNewRValue(nr *ast.NewRValue) error {
	if nr.ArrayExpr != nil {
		if err := g.genExpr(nr.ArrayExpr); err != nil {
			return err
		}
		g.emit(vm.Simple(vm.ALLOCA))
		return nil
	}

	g.emit(vm.Simple(vm.ALLOCS))
	sd, ok := g.structDefs[nr.TypeName.Lexeme]
	if !ok {
		return errorf("unknown struct type %q", nr.TypeName.Lexeme)
	}
	for i, field := range sd.Fields {
		g.emit(vm.Simple(vm.DUP))
		if err := g.genExpr(nr.StructParams[i]); err != nil {
			return err
		}
		g.emit(vm.Setf(field.VarName.Lexeme))
	}
	return nil
}

// genVarRValue loads the path's root and walks every subsequent link
// with GETF/GETI, leaving exactly one value on the stack.
func (g *Generator) genVarRValue(v *ast.VarRValue) error {
	root := v.Path[0]
	g.emit(vm.Load(g.vars.get(root.VarName.Lexeme)))
	if root.ArrayExpr != nil {
		if err := g.genExpr(root.ArrayExpr); err != nil {
			return err
		}
		g.emit(vm.Simple(vm.GETI))
	}
	for _, link := range v.Path[1:] {
		g.emit(vm.Getf(link.VarName.Lexeme))
		if link.ArrayExpr != nil {
			if err := g.genExpr(link.ArrayExpr); err != nil {
				return err
			}
			g.emit(vm.Simple(vm.GETI))
		}
	}
	return nil
}

// genCallExpr emits a call's arguments followed by either a built-in's
// dedicated opcode or a CALL to the checker-resolved mangled name.
func (g *Generator) genCallExpr(call *ast.CallExpr) error {
	for _, arg := range call.Args {
		if err := g.genExpr(arg); err != nil {
			return err
		}
	}
	switch call.FunName.Lexeme {
	case "print":
		g.emit(vm.Simple(vm.WRITE))
	case "input":
		g.emit(vm.Simple(vm.READ))
	case "itos", "dtos":
		g.emit(vm.Simple(vm.TOSTR))
	case "itod", "stod":
		g.emit(vm.Simple(vm.TODBL))
	case "dtoi", "stoi":
		g.emit(vm.Simple(vm.TOINT))
	case "length":
		g.emit(vm.Simple(vm.LEN))
	case "get":
		g.emit(vm.Simple(vm.GETC))
	default:
		g.emit(vm.Call(call.ResolvedMangledName))
	}
	return nil
}
