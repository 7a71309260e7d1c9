package vm

import "fmt"

// Kind tags the runtime type carried by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindDouble
	KindBool
	KindString
	KindOID
)

// Value is the single runtime value representation used uniformly on
// the operand stack, in a Frame's variables slice, and in both heaps.
// Per spec §9's explicit steer, this replaces the source VM's wart of
// storing some boolean results as native booleans and others as the
// strings "true"/"false": every opcode here produces or consumes a
// Value, and a Bool becomes text only when WRITE prints it or TOSTR
// converts it.
type Value struct {
	Kind Kind
	I    int64
	D    float64
	B    bool
	S    string
	OID  int64
}

// Null is the VM's nil value, assignable to any non-base-typed
// variable and accepted by CMPEQ/CMPNE without erroring.
var Null = Value{Kind: KindNull}

func IntVal(i int64) Value      { return Value{Kind: KindInt, I: i} }
func DoubleVal(d float64) Value { return Value{Kind: KindDouble, D: d} }
func BoolVal(b bool) Value      { return Value{Kind: KindBool, B: b} }
func StringVal(s string) Value  { return Value{Kind: KindString, S: s} }
func OIDVal(id int64) Value     { return Value{Kind: KindOID, OID: id} }

// IsNull reports whether v is the VM's nil value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders v for debug dumps, for TOSTR, and as the backing for
// the WRITE opcode's non-null branch.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return fmt.Sprintf("%d", v.I)
	case KindDouble:
		return fmt.Sprintf("%g", v.D)
	case KindBool:
		return fmt.Sprintf("%t", v.B)
	case KindString:
		return v.S
	case KindOID:
		return fmt.Sprintf("oid(%d)", v.OID)
	default:
		return "?"
	}
}
