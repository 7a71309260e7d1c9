package codegen

import "fmt"

// Error reports an internal code-generation invariant violation — an
// AST shape the semantic checker should already have rejected. A
// well-formed, checked program never triggers one.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func errorf(format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
