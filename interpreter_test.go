package idzeykl

import (
	"bytes"
	"strings"
	"testing"
)

func runSrc(t *testing.T, src string) string {
	t.Helper()
	stmts, err := ParseProgram(src)
	if err != nil {
		t.Fatalf("ParseProgram(%q) error: %v", src, err)
	}
	var buf bytes.Buffer
	ip := NewInterpreter(&buf)
	if err := ip.Run(stmts); err != nil {
		t.Fatalf("Run(%q) error: %v", src, err)
	}
	return buf.String()
}

func TestScenarioArithmeticAndPrint(t *testing.T) {
	got := runSrc(t, `
		var a = 3;
		var b = 4;
		println(a + b);
	`)
	if got != "7\n" {
		t.Fatalf("got %q", got)
	}
}

func TestScenarioLoopAccumulation(t *testing.T) {
	got := runSrc(t, `
		var sum = 0;
		loop (var i = 0; i < 5; i = i + 1) {
			sum = sum + i;
		}
		println(sum);
	`)
	if got != "10\n" {
		t.Fatalf("got %q", got)
	}
}

func TestScenarioBreakExitsNearestLoop(t *testing.T) {
	got := runSrc(t, `
		var i = 0;
		loop () {
			if (i >= 3) { break; }
			println(i);
			i = i + 1;
		}
	`)
	if got != "0\n1\n2\n" {
		t.Fatalf("got %q", got)
	}
}

func TestScenarioFunctionReturn(t *testing.T) {
	got := runSrc(t, `
		func add(a, b) { return a + b; }
		println(add(2, 3));
	`)
	if got != "5\n" {
		t.Fatalf("got %q", got)
	}
}

func TestScenarioLexicalClosureCapturesDefinitionEnv(t *testing.T) {
	got := runSrc(t, `
		var x = 1;
		func makeGetter() {
			var x = 2;
			func getter() { return x; }
			return getter;
		}
		var get = makeGetter();
		println(get());
	`)
	if got != "2\n" {
		t.Fatalf("expected lexical closure to see its own x=2, got %q", got)
	}
}

func TestDynamicScopingReturnsCallSiteVariable(t *testing.T) {
	stmts, err := ParseProgram(`
		var x = 1;
		func makeGetter() {
			var x = 2;
			func getter() { return x; }
			return getter;
		}
		var get = makeGetter();
		var x = 99;
		println(get());
	`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var buf bytes.Buffer
	ip := NewInterpreter(&buf)
	ip.DynamicScoping = true
	if err := ip.Run(stmts); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "99" {
		t.Fatalf("expected dynamic scoping to see call-site x=99, got %q", buf.String())
	}
}

func TestArrayIndexReadWrite(t *testing.T) {
	got := runSrc(t, `
		var a = [1, 2, 3];
		a[1] = 20;
		println(a[1]);
		println(a.length);
	`)
	if got != "20\n3\n" {
		t.Fatalf("got %q", got)
	}
}

func TestArrayConcatenation(t *testing.T) {
	got := runSrc(t, `
		var a = [1, 2];
		var b = [3, 4];
		println(a + b);
	`)
	if got != "[1, 2, 3, 4]\n" {
		t.Fatalf("got %q", got)
	}
}

func TestUnknownPropertyIsNull(t *testing.T) {
	got := runSrc(t, `
		var a = [1, 2, 3];
		println(a.foo);
	`)
	if got != "null\n" {
		t.Fatalf("expected unknown property to print null, got %q", got)
	}
}

func TestArrayDeclarationFormDefaultsToEmptyArray(t *testing.T) {
	got := runSrc(t, `
		var a[];
		println(a.length);
		var b[] = [1, 2, 3];
		println(b.length);
	`)
	if got != "0\n3\n" {
		t.Fatalf("got %q", got)
	}
}

func TestArrayPassByValueOnRead(t *testing.T) {
	got := runSrc(t, `
		var a = [1, 2, 3];
		var b = a;
		b[0] = 99;
		println(a[0]);
		println(b[0]);
	`)
	if got != "1\n99\n" {
		t.Fatalf("expected reading an array identifier to copy, got %q", got)
	}
}

func TestBreakOutsideLoopIsRuntimeError(t *testing.T) {
	stmts, err := ParseProgram("break;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var buf bytes.Buffer
	ip := NewInterpreter(&buf)
	err = ip.Run(stmts)
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
}

func TestReturnOutsideFunctionIsRuntimeError(t *testing.T) {
	stmts, err := ParseProgram("return 1;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var buf bytes.Buffer
	ip := NewInterpreter(&buf)
	if err := ip.Run(stmts); err == nil {
		t.Fatalf("expected a runtime error")
	}
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	stmts, err := ParseProgram("println(doesNotExist);")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var buf bytes.Buffer
	ip := NewInterpreter(&buf)
	err = ip.Run(stmts)
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
	if !strings.Contains(err.Error(), "Undefined variable") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestPrintConcatenationFormMatchesParenForm(t *testing.T) {
	got := runSrc(t, `
		var name = "world";
		print "hello " + name;
	`)
	if got != "hello world" {
		t.Fatalf("got %q", got)
	}
	paren := runSrc(t, `
		var name = "world";
		print("hello " + name);
	`)
	if paren != got {
		t.Fatalf("paren form printed %q, concatenation form printed %q", paren, got)
	}
}

func TestElseIfChain(t *testing.T) {
	src := `
		func classify(n) {
			if (n < 0) { return "negative"; }
			else if (n == 0) { return "zero"; }
			else { return "positive"; }
		}
		println(classify(-1));
		println(classify(0));
		println(classify(5));
	`
	got := runSrc(t, src)
	if got != "negative\nzero\npositive\n" {
		t.Fatalf("got %q", got)
	}
}

func TestBuiltinPushAndType(t *testing.T) {
	got := runSrc(t, `
		var a = [1];
		a = push(a, 2);
		println(a.length);
		println(type(a));
		println(type("x"));
	`)
	if got != "2\narray\nstring\n" {
		t.Fatalf("got %q", got)
	}
}
