package frontend

import "strings"

// builtinTypes are the target language's predefined/special types (spec.md
// §4.2 "Type decomposition": "Primitive/built-in types ... are skipped").
var builtinTypes = map[string]struct{}{
	"bool": {}, "byte": {}, "sbyte": {}, "char": {}, "decimal": {},
	"double": {}, "float": {}, "int": {}, "uint": {}, "long": {}, "ulong": {},
	"short": {}, "ushort": {}, "object": {}, "string": {}, "void": {},
	"dynamic": {}, "var": {},
	"Boolean": {}, "Byte": {}, "SByte": {}, "Char": {}, "Decimal": {},
	"Double": {}, "Single": {}, "Int32": {}, "UInt32": {}, "Int64": {},
	"UInt64": {}, "Int16": {}, "UInt16": {}, "Object": {}, "String": {},
	"Void": {},
}

// IsPrimitiveTypeName reports whether name (after stripping a "System."
// prefix) names a built-in type, satisfying the adapter contract's
// "classify a type symbol as primitive vs user-defined" requirement
// (spec.md §6).
func IsPrimitiveTypeName(name string) bool {
	name = strings.TrimPrefix(name, "System.")
	_, ok := builtinTypes[name]
	return ok
}
