package vm

import "fmt"

// Error reports a runtime fault: a bad conversion, a null operand where
// a value was required, an out-of-bounds access, division by zero, or
// an unknown opcode. It is tagged with the function, program counter,
// and offending instruction active when the fault occurred.
type Error struct {
	Message     string
	Function    string
	PC          int
	Instruction string
}

func (e *Error) Error() string {
	if e.Function == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (in %s at %d: %s)", e.Message, e.Function, e.PC, e.Instruction)
}

func (vm *VM) errorf(frame *Frame, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if frame == nil {
		return &Error{Message: msg}
	}
	pc := frame.PC - 1
	var instr Instr
	if pc >= 0 && pc < len(frame.Template.Instructions) {
		instr = frame.Template.Instructions[pc]
	}
	return &Error{Message: msg, Function: frame.Template.Name, PC: pc, Instruction: instr.String()}
}
