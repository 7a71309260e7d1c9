package check

import (
	"strings"

	"github.com/GU-Student-Projects/CPSC326/ast"
	"github.com/GU-Student-Projects/CPSC326/lexer"
)

// Checker validates a Program against a scoped symbol table, annotating
// every CallExpr with the exact mangled name of the overload it
// resolves to.
type Checker struct {
	structs   map[string]*ast.StructDef
	functions map[string]*ast.FunDef // keyed by mangled name
	symtab    *SymbolTable
}

// New creates a Checker ready to validate one Program.
func New() *Checker {
	return &Checker{
		structs:   map[string]*ast.StructDef{},
		functions: map[string]*ast.FunDef{},
		symtab:    NewSymbolTable(),
	}
}

// FunMangledName computes a FunDef's IR-level identity: unmangled for
// main, else its unqualified name with "_<param-type-name>" appended
// per declared parameter (array-ness does not participate in the
// suffix, matching the source toolchain's own mangling). Exported so
// codegen can register a FrameTemplate under exactly the key the
// checker resolves call sites to.
func FunMangledName(fd *ast.FunDef) string {
	if fd.Name.Lexeme == "main" {
		return "main"
	}
	var b strings.Builder
	b.WriteString(fd.Name.Lexeme)
	for _, p := range fd.Params {
		b.WriteString("_")
		b.WriteString(p.DataType.TypeName)
	}
	return b.String()
}

// mangledCallName computes the mangled name a call site resolves to,
// given the exact argument types computed by the checker.
func mangledCallName(funName string, argTypes []ast.DataType) string {
	var b strings.Builder
	b.WriteString(funName)
	for _, at := range argTypes {
		b.WriteString("_")
		b.WriteString(at.TypeName)
	}
	return b.String()
}

// Check validates the program, returning the first StaticError found.
func (c *Checker) Check(prog *ast.Program) error {
	for _, sd := range prog.StructDefs {
		if _, dup := c.structs[sd.Name.Lexeme]; dup {
			return errAt(sd.Name, "duplicate struct definition %q", sd.Name.Lexeme)
		}
		c.structs[sd.Name.Lexeme] = sd
	}

	hasMain := false
	for _, fd := range prog.FunDefs {
		if builtinNames[fd.Name.Lexeme] {
			return errAt(fd.Name, "function %q redefines a built-in", fd.Name.Lexeme)
		}
		if fd.Name.Lexeme == "main" {
			hasMain = true
			if fd.ReturnType.TypeName != "void" {
				return errAt(fd.ReturnType.Token, "main must return void")
			}
			if len(fd.Params) != 0 {
				return errAt(fd.Name, "main must take no parameters")
			}
		}
		key := FunMangledName(fd)
		if _, dup := c.functions[key]; dup {
			return errAt(fd.Name, "duplicate function definition %q", key)
		}
		c.functions[key] = fd
	}
	if !hasMain {
		return &Error{Message: "missing main function"}
	}

	for _, sd := range prog.StructDefs {
		if err := c.checkStructDef(sd); err != nil {
			return err
		}
	}
	for _, fd := range prog.FunDefs {
		if err := c.checkFunDef(fd); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkTypeExists(dt ast.DataType) error {
	if isBaseType(dt.TypeName) || dt.TypeName == "void" {
		return nil
	}
	if _, ok := c.structs[dt.TypeName]; ok {
		return nil
	}
	return errAt(dt.Token, "undefined type %q", dt.TypeName)
}

func (c *Checker) checkStructDef(sd *ast.StructDef) error {
	c.symtab.PushEnvironment()
	defer c.symtab.PopEnvironment()
	for _, f := range sd.Fields {
		if c.symtab.ExistsInCurrentEnv(f.VarName.Lexeme) {
			return errAt(f.VarName, "duplicate field %q", f.VarName.Lexeme)
		}
		if err := c.checkTypeExists(f.DataType); err != nil {
			return err
		}
		c.symtab.Add(f.VarName.Lexeme, f.DataType)
	}
	return nil
}

func (c *Checker) checkFunDef(fd *ast.FunDef) error {
	c.symtab.PushEnvironment()
	defer c.symtab.PopEnvironment()
	for _, p := range fd.Params {
		if c.symtab.ExistsInCurrentEnv(p.VarName.Lexeme) {
			return errAt(p.VarName, "duplicate parameter %q", p.VarName.Lexeme)
		}
		if err := c.checkTypeExists(p.DataType); err != nil {
			return err
		}
		c.symtab.Add(p.VarName.Lexeme, p.DataType)
	}
	if err := c.checkTypeExists(fd.ReturnType); err != nil {
		return err
	}
	c.symtab.Add("return", fd.ReturnType)

	for _, stmt := range fd.Stmts {
		if err := c.checkStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// assignable reports whether a value of type `value` may be stored
// where `target` is expected: equal types always match; the null
// literal's type (the sentinel "null") matches any non-base target
// type regardless of array-ness.
func assignable(target, value ast.DataType) bool {
	if value.TypeName == "null" {
		return !isBaseType(target.TypeName)
	}
	return target.IsArray == value.IsArray && target.TypeName == value.TypeName
}

func (c *Checker) checkStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return c.checkVarDecl(s)
	case *ast.AssignStmt:
		return c.checkAssignStmt(s)
	case *ast.WhileStmt:
		return c.checkWhileStmt(s)
	case *ast.ForStmt:
		return c.checkForStmt(s)
	case *ast.IfStmt:
		return c.checkIfStmt(s)
	case *ast.ReturnStmt:
		return c.checkReturnStmt(s)
	case *ast.CallExpr:
		_, err := c.checkCall(s)
		return err
	default:
		return errAt(stmt.Tok(), "unknown statement kind %T", stmt)
	}
}

func (c *Checker) checkVarDecl(v *ast.VarDecl) error {
	if c.symtab.ExistsInCurrentEnv(v.VarDef.VarName.Lexeme) {
		return errAt(v.VarDef.VarName, "variable %q already declared in this scope", v.VarDef.VarName.Lexeme)
	}
	if err := c.checkTypeExists(v.VarDef.DataType); err != nil {
		return err
	}
	if v.Expr != nil {
		rhs, err := c.checkExpr(v.Expr.(*ast.Expr_))
		if err != nil {
			return err
		}
		if !assignable(v.VarDef.DataType, rhs) {
			return errAt(v.VarDef.VarName, "cannot assign %s to %s", rhs, v.VarDef.DataType)
		}
	}
	c.symtab.Add(v.VarDef.VarName.Lexeme, v.VarDef.DataType)
	return nil
}

// resolvePath resolves an lvalue/rvalue path rooted at an in-scope
// variable, walking struct fields left to right, and returns the final
// link's type.
func (c *Checker) resolvePath(path []ast.VarRef) (ast.DataType, error) {
	head := path[0]
	headType, ok := c.symtab.Get(head.VarName.Lexeme)
	if !ok {
		return ast.DataType{}, errAt(head.VarName, "undefined variable %q", head.VarName.Lexeme)
	}
	cur, err := c.resolveLink(headType, head)
	if err != nil {
		return ast.DataType{}, err
	}
	for _, link := range path[1:] {
		if cur.IsArray || isBaseType(cur.TypeName) {
			return ast.DataType{}, errAt(link.VarName, "%q is not a struct", cur.TypeName)
		}
		sd, ok := c.structs[cur.TypeName]
		if !ok {
			return ast.DataType{}, errAt(link.VarName, "%q is not a struct", cur.TypeName)
		}
		fieldType, ok := fieldType(sd, link.VarName.Lexeme)
		if !ok {
			return ast.DataType{}, errAt(link.VarName, "struct %q has no field %q", sd.Name.Lexeme, link.VarName.Lexeme)
		}
		cur, err = c.resolveLink(fieldType, link)
		if err != nil {
			return ast.DataType{}, err
		}
	}
	return cur, nil
}

// resolveLink accounts for an optional array index on one path link: if
// indexed, the link's effective type is the array's element type.
func (c *Checker) resolveLink(declared ast.DataType, link ast.VarRef) (ast.DataType, error) {
	if link.ArrayExpr == nil {
		return declared, nil
	}
	if !declared.IsArray {
		return ast.DataType{}, errAt(link.VarName, "%q is not an array", link.VarName.Lexeme)
	}
	idxType, err := c.checkExpr(link.ArrayExpr.(*ast.Expr_))
	if err != nil {
		return ast.DataType{}, err
	}
	if idxType.TypeName != "int" || idxType.IsArray {
		return ast.DataType{}, errAt(link.VarName, "array index must be int")
	}
	return ast.DataType{TypeName: declared.TypeName}, nil
}

func fieldType(sd *ast.StructDef, name string) (ast.DataType, bool) {
	for _, f := range sd.Fields {
		if f.VarName.Lexeme == name {
			return f.DataType, true
		}
	}
	return ast.DataType{}, false
}

func (c *Checker) checkAssignStmt(a *ast.AssignStmt) error {
	lhsType, err := c.resolvePath(a.LValue)
	if err != nil {
		return err
	}
	rhsType, err := c.checkExpr(a.Expr.(*ast.Expr_))
	if err != nil {
		return err
	}
	if !assignable(lhsType, rhsType) {
		return errAt(a.Tok(), "cannot assign %s to %s", rhsType, lhsType)
	}
	return nil
}

func (c *Checker) checkCondition(e ast.Expr) error {
	typ, err := c.checkExpr(e.(*ast.Expr_))
	if err != nil {
		return err
	}
	if typ.IsArray || typ.TypeName != "bool" {
		return errAt(e.Tok(), "condition must be a non-array bool")
	}
	return nil
}

func (c *Checker) checkWhileStmt(w *ast.WhileStmt) error {
	if err := c.checkCondition(w.Condition); err != nil {
		return err
	}
	c.symtab.PushEnvironment()
	defer c.symtab.PopEnvironment()
	for _, s := range w.Stmts {
		if err := c.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkForStmt(f *ast.ForStmt) error {
	c.symtab.PushEnvironment()
	defer c.symtab.PopEnvironment()
	if err := c.checkVarDecl(f.VarDecl); err != nil {
		return err
	}
	if err := c.checkCondition(f.Condition); err != nil {
		return err
	}
	c.symtab.PushEnvironment()
	for _, s := range f.Stmts {
		if err := c.checkStmt(s); err != nil {
			c.symtab.PopEnvironment()
			return err
		}
	}
	c.symtab.PopEnvironment()
	return c.checkAssignStmt(f.StepAssign)
}

func (c *Checker) checkBasicIf(b ast.BasicIf) error {
	if err := c.checkCondition(b.Condition); err != nil {
		return err
	}
	c.symtab.PushEnvironment()
	defer c.symtab.PopEnvironment()
	for _, s := range b.Stmts {
		if err := c.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkIfStmt(i *ast.IfStmt) error {
	if err := c.checkBasicIf(i.IfPart); err != nil {
		return err
	}
	for _, ei := range i.ElseIfs {
		if err := c.checkBasicIf(ei); err != nil {
			return err
		}
	}
	if i.ElseStmts != nil {
		c.symtab.PushEnvironment()
		defer c.symtab.PopEnvironment()
		for _, s := range i.ElseStmts {
			if err := c.checkStmt(s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Checker) checkReturnStmt(r *ast.ReturnStmt) error {
	retType, _ := c.symtab.Get("return")
	exprType, err := c.checkExpr(r.Expr.(*ast.Expr_))
	if err != nil {
		return err
	}
	if !assignable(retType, exprType) {
		return errAt(r.Token, "cannot return %s from function declared to return %s", exprType, retType)
	}
	return nil
}

// checkExpr types an Expr_ node: first the leading term, then (if
// present) the operator and right-hand continuation, then applies the
// not_op negation. No precedence is discovered or assumed here — the
// parser already fixed associativity by construction.
func (c *Checker) checkExpr(e *ast.Expr_) (ast.DataType, error) {
	firstType, err := c.checkTerm(e.First)
	if err != nil {
		return ast.DataType{}, err
	}
	if e.Op == nil {
		if e.NotOp {
			if firstType.IsArray || firstType.TypeName != "bool" {
				return ast.DataType{}, errAt(e.Tok(), "not requires a bool operand")
			}
		}
		return firstType, nil
	}

	restType, err := c.checkExpr(e.Rest)
	if err != nil {
		return ast.DataType{}, err
	}

	resultType, err := c.checkBinOp(*e.Op, firstType, restType)
	if err != nil {
		return ast.DataType{}, err
	}
	if e.NotOp {
		if resultType.TypeName != "bool" {
			return ast.DataType{}, errAt(e.Tok(), "not requires a bool operand")
		}
	}
	return resultType, nil
}

func (c *Checker) checkBinOp(op lexer.Token, left, right ast.DataType) (ast.DataType, error) {
	switch op.Type {
	case lexer.EQUAL, lexer.NOT_EQUAL:
		if left.TypeName != "null" && right.TypeName != "null" && !(left.IsArray == right.IsArray && left.TypeName == right.TypeName) {
			return ast.DataType{}, errAt(op, "cannot compare %s and %s", left, right)
		}
		return t("bool"), nil
	case lexer.LESS, lexer.LESS_EQ, lexer.GREATER, lexer.GREATER_EQ:
		if left.IsArray || right.IsArray || left.TypeName == "bool" || right.TypeName == "bool" {
			return ast.DataType{}, errAt(op, "ordering operators do not accept array or bool operands")
		}
		if left.TypeName != right.TypeName {
			return ast.DataType{}, errAt(op, "cannot compare %s and %s", left, right)
		}
		return t("bool"), nil
	case lexer.AND, lexer.OR:
		if left.TypeName != "bool" || right.TypeName != "bool" {
			return ast.DataType{}, errAt(op, "and/or require bool operands")
		}
		return t("bool"), nil
	case lexer.PLUS, lexer.MINUS, lexer.TIMES, lexer.DIVIDE:
		if left.TypeName != right.TypeName || left.IsArray || right.IsArray {
			return ast.DataType{}, errAt(op, "arithmetic operands must share a numeric type, got %s and %s", left, right)
		}
		if left.TypeName != "int" && left.TypeName != "double" {
			return ast.DataType{}, errAt(op, "arithmetic requires int or double operands, got %s", left)
		}
		return left, nil
	default:
		return ast.DataType{}, errAt(op, "unsupported operator %s", op.Lexeme)
	}
}

func (c *Checker) checkTerm(term ast.Term) (ast.DataType, error) {
	switch tm := term.(type) {
	case *ast.SimpleTerm:
		return c.checkRValue(tm.RValue)
	case *ast.ComplexTerm:
		return c.checkExpr(tm.ExprNode)
	default:
		return ast.DataType{}, errAt(term.Tok(), "unknown term kind %T", term)
	}
}

func (c *Checker) checkRValue(e ast.Expr) (ast.DataType, error) {
	switch rv := e.(type) {
	case *ast.SimpleRValue:
		return c.checkSimpleRValue(rv)
	case *ast.NewRValue:
		return c.checkNewRValue(rv)
	case *ast.VarRValue:
		return c.resolvePath(rv.Path)
	case *ast.CallExpr:
		return c.checkCall(rv)
	default:
		return ast.DataType{}, errAt(e.Tok(), "unknown rvalue kind %T", e)
	}
}

func (c *Checker) checkSimpleRValue(rv *ast.SimpleRValue) (ast.DataType, error) {
	switch rv.Literal.Type {
	case lexer.INT_VAL:
		return t("int"), nil
	case lexer.DOUBLE_VAL:
		return t("double"), nil
	case lexer.STRING_VAL:
		return t("string"), nil
	case lexer.BOOL_VAL:
		return t("bool"), nil
	case lexer.NULL_VAL:
		return t("null"), nil
	default:
		return ast.DataType{}, errAt(rv.Literal, "unknown literal kind %s", rv.Literal.Type)
	}
}

func (c *Checker) checkNewRValue(nr *ast.NewRValue) (ast.DataType, error) {
	if nr.ArrayExpr != nil {
		n, err := c.checkExpr(nr.ArrayExpr.(*ast.Expr_))
		if err != nil {
			return ast.DataType{}, err
		}
		if n.IsArray || n.TypeName != "int" {
			return ast.DataType{}, errAt(nr.Token, "array length must be int")
		}
		return ast.DataType{IsArray: true, TypeName: nr.TypeName.Lexeme}, nil
	}
	sd, ok := c.structs[nr.TypeName.Lexeme]
	if !ok {
		return ast.DataType{}, errAt(nr.TypeName, "undefined struct %q", nr.TypeName.Lexeme)
	}
	if len(nr.StructParams) != len(sd.Fields) {
		return ast.DataType{}, errAt(nr.Token, "struct %q expects %d fields, got %d", sd.Name.Lexeme, len(sd.Fields), len(nr.StructParams))
	}
	for i, p := range nr.StructParams {
		pt, err := c.checkExpr(p.(*ast.Expr_))
		if err != nil {
			return ast.DataType{}, err
		}
		if !assignable(sd.Fields[i].DataType, pt) {
			return ast.DataType{}, errAt(nr.Token, "field %q expects %s, got %s", sd.Fields[i].VarName.Lexeme, sd.Fields[i].DataType, pt)
		}
	}
	return ast.DataType{TypeName: sd.Name.Lexeme}, nil
}

// checkCall validates a call expression and sets call.ResolvedMangledName
// for the generator. Built-ins are resolved by a fixed signature table
// (print/length take a small family of types); user functions resolve
// by exact mangled name built from the call's own argument types.
func (c *Checker) checkCall(call *ast.CallExpr) (ast.DataType, error) {
	name := call.FunName.Lexeme

	argTypes := make([]ast.DataType, len(call.Args))
	for i, a := range call.Args {
		at, err := c.checkExpr(a.(*ast.Expr_))
		if err != nil {
			return ast.DataType{}, err
		}
		argTypes[i] = at
	}

	if builtinNames[name] {
		return c.checkBuiltinCall(call, name, argTypes)
	}

	call.ResolvedMangledName = mangledCallName(name, argTypes)
	fd, ok := c.functions[call.ResolvedMangledName]
	if !ok {
		fd, ok = c.resolveOverloadWithNull(name, argTypes)
		if ok {
			call.ResolvedMangledName = FunMangledName(fd)
		}
	}
	if !ok {
		return ast.DataType{}, errAt(call.FunName, "no function %q matches argument types", name)
	}
	for i, p := range fd.Params {
		if !assignable(p.DataType, argTypes[i]) {
			return ast.DataType{}, errAt(call.FunName, "argument %d: cannot pass %s as %s", i+1, argTypes[i], p.DataType)
		}
	}
	return fd.ReturnType, nil
}

// resolveOverloadWithNull falls back to arity-and-assignability matching
// when mangledCallName's exact type-tag name misses: a `null` argument
// mangles as "_null", which never matches a struct-typed parameter's
// mangle (e.g. "f_Node"), even though null is assignable to any
// non-base parameter type. Only consulted once the exact-name lookup
// has already failed, and only when some argument's static type is
// actually "null".
func (c *Checker) resolveOverloadWithNull(name string, argTypes []ast.DataType) (*ast.FunDef, bool) {
	hasNull := false
	for _, at := range argTypes {
		if at.TypeName == "null" {
			hasNull = true
			break
		}
	}
	if !hasNull {
		return nil, false
	}
	for _, fd := range c.functions {
		if fd.Name.Lexeme != name || len(fd.Params) != len(argTypes) {
			continue
		}
		match := true
		for i, p := range fd.Params {
			if !assignable(p.DataType, argTypes[i]) {
				match = false
				break
			}
		}
		if match {
			return fd, true
		}
	}
	return nil, false
}

func (c *Checker) checkBuiltinCall(call *ast.CallExpr, name string, argTypes []ast.DataType) (ast.DataType, error) {
	switch name {
	case "print":
		if len(argTypes) != 1 || argTypes[0].IsArray || !isBaseType(argTypes[0].TypeName) {
			return ast.DataType{}, errAt(call.FunName, "print expects one non-array base-type argument")
		}
		return t("void"), nil
	case "length":
		if len(argTypes) != 1 {
			return ast.DataType{}, errAt(call.FunName, "length expects one argument")
		}
		a := argTypes[0]
		if !(a.IsArray || a.TypeName == "string") {
			return ast.DataType{}, errAt(call.FunName, "length expects a string or array argument")
		}
		return t("int"), nil
	default:
		sig, ok := builtinSignatures[name]
		if !ok {
			return ast.DataType{}, errAt(call.FunName, "unknown built-in %q", name)
		}
		if len(argTypes) != len(sig.params) {
			return ast.DataType{}, errAt(call.FunName, "%s expects %d argument(s)", name, len(sig.params))
		}
		for i, want := range sig.params {
			if argTypes[i].IsArray || argTypes[i].TypeName != want {
				return ast.DataType{}, errAt(call.FunName, "%s argument %d must be %s", name, i+1, want)
			}
		}
		return sig.ret, nil
	}
}
