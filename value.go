package idzeykl

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ValueTag discriminates the Value union. Only one of the payload
// fields on Value is meaningful for a given tag; the rest are zero.
type ValueTag int

const (
	VNull ValueTag = iota
	VInt
	VDouble
	VString
	VBool
	VArray
	VUserFn
	VNativeFn
)

// MaxArrayLen bounds array growth by index assignment (SetElement) and
// by the push builtin. Array literals and `+` concatenation are not
// checked against it. The original enforces the same cap to keep a runaway index assignment
// from exhausting memory.
const MaxArrayLen = 1001

// UserFn is a closure: the parameter list and body came from a
// FuncDeclStmt, and Env is the environment captured at definition time.
// With DynamicScoping enabled, Interpreter.callUserFn ignores Env and
// parents the call scope on the caller's environment instead.
type UserFn struct {
	Name   string
	Params []string
	Body   *BlockStmt
	Env    *Environment
}

type NativeFn struct {
	Name string
	Fn   func(ip *Interpreter, args []Value) (Value, error)
}

// Value is a tagged union mirroring the original's Value class. It is
// deliberately a plain struct rather than an interface: every op in
// this language only ever sees these eight shapes, so there is no
// extensibility dimension worth paying an interface dispatch for.
type Value struct {
	Tag    ValueTag
	I      int64
	D      float64
	S      string
	B      bool
	Arr    []Value
	Fn     *UserFn
	Native *NativeFn
}

func NullValue() Value           { return Value{Tag: VNull} }
func IntValue(i int64) Value     { return Value{Tag: VInt, I: i} }
func DoubleValue(d float64) Value { return Value{Tag: VDouble, D: d} }
func StringValue(s string) Value { return Value{Tag: VString, S: s} }
func BoolValue(b bool) Value     { return Value{Tag: VBool, B: b} }
func ArrayValue(elems []Value) Value {
	return Value{Tag: VArray, Arr: elems}
}
func UserFnValue(f *UserFn) Value     { return Value{Tag: VUserFn, Fn: f} }
func NativeFnValue(f *NativeFn) Value { return Value{Tag: VNativeFn, Native: f} }

// Clone deep-copies array values so that reading an Identifier whose
// value is an array yields an independent copy, matching the
// original's pass-by-value Value semantics. Scalars and functions are
// already copy-safe as Go values.
func (v Value) Clone() Value {
	if v.Tag != VArray {
		return v
	}
	cp := make([]Value, len(v.Arr))
	for i, e := range v.Arr {
		cp[i] = e.Clone()
	}
	return ArrayValue(cp)
}

// AsBool implements the truthiness rule: Null and false are falsy,
// numeric zero is falsy, empty string is falsy, empty array is falsy;
// everything else is truthy.
func (v Value) AsBool() bool {
	switch v.Tag {
	case VNull:
		return false
	case VBool:
		return v.B
	case VInt:
		return v.I != 0
	case VDouble:
		return v.D != 0
	case VString:
		return v.S != ""
	case VArray:
		return len(v.Arr) != 0
	default:
		return true
	}
}

var numPrefixRe = regexp.MustCompile(`^\s*-?\d+(\.\d+)?`)

// AsNumber coerces a Value to float64. String coercion mirrors the
// original's stoi-then-stod fallback: it reads the longest valid
// numeric prefix of the string and ignores trailing garbage, rather
// than failing outright on e.g. "12abc".
func (v Value) AsNumber() float64 {
	switch v.Tag {
	case VInt:
		return float64(v.I)
	case VDouble:
		return v.D
	case VBool:
		if v.B {
			return 1
		}
		return 0
	case VArray:
		return float64(len(v.Arr))
	case VString:
		m := numPrefixRe.FindString(v.S)
		if m == "" {
			return 0
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// AsInt truncates AsNumber toward zero, matching the original's
// static_cast<int> coercion.
func (v Value) AsInt() int64 {
	if v.Tag == VInt {
		return v.I
	}
	return int64(v.AsNumber())
}

// isIntegral reports whether f is a finite whole number, i.e. whether
// it would lose no information if truncated to an integer. It is used by arithmetic to decide whether a
// Double result should demote to Int.
func isIntegral(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}

func (v Value) AsString() string {
	return Stringify(v)
}

func (v Value) TypeName() string {
	switch v.Tag {
	case VNull:
		return "null"
	case VInt, VDouble:
		return "number"
	case VString:
		return "string"
	case VBool:
		return "boolean"
	case VArray:
		return "array"
	case VUserFn, VNativeFn:
		return "function"
	default:
		return "unknown"
	}
}

func isNumeric(v Value) bool {
	return v.Tag == VInt || v.Tag == VDouble
}

// Add implements `+`. Array+array concatenates element-wise before
// anything else is considered; string concatenation wins whenever
// either operand is a string — numbers are stringified, not the other
// way around — otherwise both sides are coerced numerically with
// integer-demotion: Int+Int stays Int, and a Double result that came
// out whole (e.g. 10.0 - 4 below) demotes back to Int, matching the
// original's `if (result == (int)result) return Value(int)`.
func Add(a, b Value) Value {
	if a.Tag == VArray && b.Tag == VArray {
		return ArrayValue(append(append([]Value{}, a.Arr...), b.Arr...))
	}
	if a.Tag == VString || b.Tag == VString {
		return StringValue(a.AsString() + b.AsString())
	}
	if a.Tag == VInt && b.Tag == VInt {
		return IntValue(a.I + b.I)
	}
	return demotedDouble(a.AsNumber() + b.AsNumber())
}

// demotedDouble mirrors the original's post-hoc narrowing: any Double
// that lost no information by rounding is reported as an Int instead.
func demotedDouble(f float64) Value {
	if isIntegral(f) {
		return IntValue(int64(f))
	}
	return DoubleValue(f)
}

func arithmetic(a, b Value, intOp func(int64, int64) int64, fOp func(float64, float64) float64) Value {
	if a.Tag == VInt && b.Tag == VInt {
		return IntValue(intOp(a.I, b.I))
	}
	return demotedDouble(fOp(a.AsNumber(), b.AsNumber()))
}

func Sub(a, b Value) Value {
	return arithmetic(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
}

func Mul(a, b Value) Value {
	return arithmetic(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
}

// Div returns 0 on division by zero rather than raising a runtime
// error — the original treats divide-by-zero as a silent zero result,
// not an exceptional condition.
func Div(a, b Value) Value {
	if a.Tag == VInt && b.Tag == VInt {
		if b.I == 0 {
			return IntValue(0)
		}
		return IntValue(a.I / b.I)
	}
	bf := b.AsNumber()
	if bf == 0 {
		return DoubleValue(0)
	}
	return demotedDouble(a.AsNumber() / bf)
}

func Mod(a, b Value) Value {
	if a.Tag == VInt && b.Tag == VInt {
		if b.I == 0 {
			return IntValue(0)
		}
		return IntValue(a.I % b.I)
	}
	bf := b.AsNumber()
	if bf == 0 {
		return DoubleValue(0)
	}
	return demotedDouble(math.Mod(a.AsNumber(), bf))
}

// Equals implements `==`. Numbers compare by numeric value regardless
// of Int/Double tag; a number and a string compare equal when the
// string's numeric coercion matches, matching the original's
// mixed-type numeric-coercion branch; booleans compare by value;
// arrays compare elementwise; Null equals only Null; anything else
// unrelated is never equal.
func Equals(a, b Value) bool {
	if isNumeric(a) && isNumeric(b) {
		return a.AsNumber() == b.AsNumber()
	}
	if (isNumeric(a) && b.Tag == VString) || (a.Tag == VString && isNumeric(b)) {
		return a.AsNumber() == b.AsNumber()
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VNull:
		return true
	case VString:
		return a.S == b.S
	case VBool:
		return a.B == b.B
	case VArray:
		if len(a.Arr) != len(b.Arr) {
			return false
		}
		for i := range a.Arr {
			if !Equals(a.Arr[i], b.Arr[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare implements the ordering used by `<`/`>`/`<=`/`>=`: numeric
// comparison when both sides are numbers, lexicographic comparison
// when both are strings, element-count comparison when both are
// arrays, and otherwise a lexicographic comparison of each side's
// stringified form — the same typed ladder as the original's
// operator< overloads.
func Compare(a, b Value) int {
	if isNumeric(a) && isNumeric(b) {
		af, bf := a.AsNumber(), b.AsNumber()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	if a.Tag == VString && b.Tag == VString {
		return strings.Compare(a.S, b.S)
	}
	if a.Tag == VArray && b.Tag == VArray {
		switch {
		case len(a.Arr) < len(b.Arr):
			return -1
		case len(a.Arr) > len(b.Arr):
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(Stringify(a), Stringify(b))
}

// GetElement returns the element at idx. Arrays index normally,
// returning Null out of bounds. A string at index 0 yields the whole
// string; a positive in-range index yields the single character at
// that position. Any other scalar at index 0 yields itself, treating
// a lone value as if it were a one-element array. Every other case —
// negative index, out-of-range index, or a non-zero index into a
// non-array scalar — yields Null. Indexing is total: it never panics.
func (v Value) GetElement(idx int64) Value {
	switch v.Tag {
	case VArray:
		if idx < 0 || idx >= int64(len(v.Arr)) {
			return NullValue()
		}
		return v.Arr[idx]
	case VString:
		runes := []rune(v.S)
		if idx == 0 {
			return StringValue(v.S)
		}
		if idx > 0 && idx < int64(len(runes)) {
			return StringValue(string(runes[idx]))
		}
		return NullValue()
	default:
		if idx == 0 {
			return v
		}
		return NullValue()
	}
}

// GetProperty implements the single supported property, `.length`.
// Arrays report their element count, strings their rune count, and
// every other scalar reports 1 — the original falls back to treating
// a non-array, non-string value as a one-element collection. Any other
// property name yields Null rather than an error, matching the
// original's getProperty default of an empty Value.
func (v Value) GetProperty(name string) Value {
	if name != "length" {
		return NullValue()
	}
	switch v.Tag {
	case VArray:
		return IntValue(int64(len(v.Arr)))
	case VString:
		return IntValue(int64(len([]rune(v.S))))
	default:
		return IntValue(1)
	}
}

// SetElement writes val at idx into an array, growing it (with Null
// padding) up to MaxArrayLen when idx is beyond the current length. If
// target is not already an array, it is promoted to one. Per the
// original's setArrayElement, the promoted array's slot 0 preserves
// the prior scalar only when that scalar was a String; every other
// scalar is discarded and the new array starts empty before the write.
//
// A negative index or one past MaxArrayLen is a no-op, returning
// target unchanged rather than raising a RuntimeError: the cap exists
// to bound growth silently, the same way divide-by-zero silently
// yields 0 instead of raising.
func SetElement(target Value, idx int64, val Value) (Value, error) {
	if idx < 0 || idx >= MaxArrayLen {
		return target, nil
	}
	var arr []Value
	switch target.Tag {
	case VArray:
		arr = target.Arr
	case VString:
		arr = []Value{StringValue(target.S)}
	default:
		arr = nil
	}
	if int64(len(arr)) <= idx {
		grown := make([]Value, idx+1)
		copy(grown, arr)
		for i := len(arr); i < len(grown); i++ {
			grown[i] = NullValue()
		}
		arr = grown
	}
	arr[idx] = val
	return ArrayValue(arr), nil
}
