package check

import (
	"fmt"

	"github.com/GU-Student-Projects/CPSC326/lexer"
)

// Error reports a type, name, or arity violation discovered while
// checking the AST.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s near line %d, column %d", e.Message, e.Line, e.Column)
}

func errAt(tok lexer.Token, format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Line: tok.Line, Column: tok.Column}
}
