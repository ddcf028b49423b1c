package idzeykl

import (
	"strconv"
	"strings"
)

// Stringify is the canonical Value-to-text conversion used by print,
// println, and string concatenation. It is kept as a free
// function rather than a fmt.Stringer method so that Value — a small,
// frequently-copied struct — never pulls in fmt's reflection-based
// formatting machinery just to satisfy an interface it rarely needs.
func Stringify(v Value) string {
	switch v.Tag {
	case VNull:
		return "null"
	case VInt:
		return strconv.FormatInt(v.I, 10)
	case VDouble:
		return strconv.FormatFloat(v.D, 'f', -1, 64)
	case VString:
		return v.S
	case VBool:
		if v.B {
			return "true"
		}
		return "false"
	case VArray:
		parts := make([]string, len(v.Arr))
		for i, e := range v.Arr {
			parts[i] = Stringify(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VUserFn:
		return "<function " + v.Fn.Name + ">"
	case VNativeFn:
		return "<native function>"
	default:
		return "<unknown>"
	}
}
