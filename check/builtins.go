package check

import "github.com/GU-Student-Projects/CPSC326/ast"

// baseTypes are the language's unboxed scalar types.
var baseTypes = map[string]bool{
	"int":    true,
	"double": true,
	"bool":   true,
	"string": true,
}

// builtinNames may not be shadowed by a user-defined function.
var builtinNames = map[string]bool{
	"print": true, "input": true, "itos": true, "itod": true,
	"dtos": true, "dtoi": true, "stoi": true, "stod": true,
	"length": true, "get": true,
}

func isBaseType(name string) bool { return baseTypes[name] }

func t(name string) ast.DataType { return ast.DataType{TypeName: name} }

// builtinSignature describes a built-in's fixed parameter types (by
// non-array base-type name) and return type. length and print accept a
// family of types, handled specially in checkBuiltinCall rather than via
// this table.
type builtinSignature struct {
	params []string
	ret    ast.DataType
}

var builtinSignatures = map[string]builtinSignature{
	"itos":  {params: []string{"int"}, ret: t("string")},
	"itod":  {params: []string{"int"}, ret: t("double")},
	"dtos":  {params: []string{"double"}, ret: t("string")},
	"dtoi":  {params: []string{"double"}, ret: t("int")},
	"stoi":  {params: []string{"string"}, ret: t("int")},
	"stod":  {params: []string{"string"}, ret: t("double")},
	"get":   {params: []string{"int", "string"}, ret: t("string")},
	"input": {params: nil, ret: t("string")},
}
