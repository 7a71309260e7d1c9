package parser

import "fmt"

// Error reports an unexpected token encountered during parsing.
type Error struct {
	Msg    string
	Line   int
	Column int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Msg, e.Line, e.Column)
}
