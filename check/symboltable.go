// Package check implements the semantic checker: a scoped-symbol-table
// pass that validates name and type use over the AST and annotates
// call expressions with their resolved overload.
package check

import "github.com/GU-Student-Projects/CPSC326/ast"

// env is one scope frame: a flat map of name to declared type.
type env map[string]ast.DataType

// SymbolTable is a stack of scopes, pushed on entry to a function body,
// struct body, or control-flow block and popped on exit — the same
// chain-of-maps shape the teacher's scope.Scope uses, specialized here
// to non-executing type lookups instead of runtime values.
type SymbolTable struct {
	scopes []env
}

// NewSymbolTable returns an empty symbol table with no scopes pushed.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// PushEnvironment opens a new, empty scope.
func (s *SymbolTable) PushEnvironment() {
	s.scopes = append(s.scopes, env{})
}

// PopEnvironment closes the innermost scope, discarding its bindings.
func (s *SymbolTable) PopEnvironment() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// Add binds name to typ in the innermost scope.
func (s *SymbolTable) Add(name string, typ ast.DataType) {
	s.scopes[len(s.scopes)-1][name] = typ
}

// Get walks the scope stack from innermost to outermost, returning the
// first binding found.
func (s *SymbolTable) Get(name string) (ast.DataType, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if typ, ok := s.scopes[i][name]; ok {
			return typ, true
		}
	}
	return ast.DataType{}, false
}

// ExistsInCurrentEnv reports whether name is bound in the innermost
// scope only, used to detect illegal redeclaration within one scope.
func (s *SymbolTable) ExistsInCurrentEnv(name string) bool {
	_, ok := s.scopes[len(s.scopes)-1][name]
	return ok
}
