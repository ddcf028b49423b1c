package idzeykl

// RegisterBuiltins installs the small set of native functions every
// runtime gets for free: string and number coercion, runtime type
// introspection, and array append. They are plain callables rather
// than language syntax (only `.length` earns a dedicated grammar slot).
func RegisterBuiltins(ip *Interpreter) {
	define := func(name string, fn func(ip *Interpreter, args []Value) (Value, error)) {
		ip.Global.Define(name, NativeFnValue(&NativeFn{Name: name, Fn: fn}))
	}

	define("str", func(ip *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, NewRuntimeError("str() takes exactly one argument")
		}
		return StringValue(Stringify(args[0])), nil
	})

	define("num", func(ip *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, NewRuntimeError("num() takes exactly one argument")
		}
		f := args[0].AsNumber()
		if isIntegral(f) {
			return IntValue(int64(f)), nil
		}
		return DoubleValue(f), nil
	})

	define("type", func(ip *Interpreter, args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, NewRuntimeError("type() takes exactly one argument")
		}
		return StringValue(args[0].TypeName()), nil
	})

	define("push", func(ip *Interpreter, args []Value) (Value, error) {
		if len(args) != 2 {
			return Value{}, NewRuntimeError("push() takes exactly two arguments")
		}
		target := args[0]
		var arr []Value
		if target.Tag == VArray {
			arr = target.Arr
		} else if target.Tag != VNull {
			arr = []Value{target}
		}
		if len(arr) >= MaxArrayLen {
			return Value{}, NewRuntimeError("Array index out of bounds: %d", len(arr))
		}
		next := make([]Value, len(arr)+1)
		copy(next, arr)
		next[len(arr)] = args[1]
		return ArrayValue(next), nil
	})
}
