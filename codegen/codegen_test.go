package codegen_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GU-Student-Projects/CPSC326/check"
	"github.com/GU-Student-Projects/CPSC326/codegen"
	"github.com/GU-Student-Projects/CPSC326/lexer"
	"github.com/GU-Student-Projects/CPSC326/parser"
	"github.com/GU-Student-Projects/CPSC326/vm"
)

// compileAndCapture lexes, parses, checks, and generates src, then runs
// the resulting VM with stdout captured to a buffer — the same pipeline
// cmd/mplc drives, minus the CLI plumbing.
func compileAndCapture(t *testing.T, src string) string {
	t.Helper()
	p, err := parser.New(lexer.New(lexer.NewStringSource(src)))
	require.NoError(t, err)
	prog, err := p.Parse()
	require.NoError(t, err)
	require.NoError(t, check.New().Check(prog))

	target := vm.New(vm.DefaultConfig())
	var out bytes.Buffer
	target.SetWriter(&out)

	gen := codegen.New(target)
	require.NoError(t, gen.Generate(prog))
	require.NoError(t, target.Run())
	return out.String()
}

func TestCodegen_HelloWorld(t *testing.T) {
	out := compileAndCapture(t, `void main() { print("hello"); }`)
	assert.Equal(t, "hello", out)
}

func TestCodegen_ArithmeticWithParens(t *testing.T) {
	out := compileAndCapture(t, `
		void main() {
			int x = (2 + 3) * 4;
			print(itos(x));
		}
	`)
	assert.Equal(t, "20", out)
}

func TestCodegen_OverloadResolutionDispatchesByMangledName(t *testing.T) {
	out := compileAndCapture(t, `
		void f(int a) { print("int:"); print(itos(a)); }
		void f() { print("void"); }
		void main() { f(1); print(" "); f(); }
	`)
	assert.Equal(t, "int:1 void", out)
}

func TestCodegen_ForLoopCounts(t *testing.T) {
	out := compileAndCapture(t, `
		void main() {
			for (int i = 0; i < 3; i = i + 1) {
				print(itos(i));
			}
		}
	`)
	assert.Equal(t, "012", out)
}

func TestCodegen_StructFieldArithmetic(t *testing.T) {
	out := compileAndCapture(t, `
		struct P { int x; int y; }
		void main() {
			P p = new P(3, 4);
			print(itos(p.x + p.y));
		}
	`)
	assert.Equal(t, "7", out)
}

func TestCodegen_ArrayIndexAssignAndRead(t *testing.T) {
	out := compileAndCapture(t, `
		void main() {
			array int a = new int[3];
			a[0] = 10;
			a[1] = 20;
			a[2] = 30;
			print(itos(a[1]));
		}
	`)
	assert.Equal(t, "20", out)
}

func TestCodegen_WhileLoop(t *testing.T) {
	out := compileAndCapture(t, `
		void main() {
			int i = 0;
			while (i < 3) {
				print(itos(i));
				i = i + 1;
			}
		}
	`)
	assert.Equal(t, "012", out)
}

func TestCodegen_IfElseIfElseChain(t *testing.T) {
	src := func(n string) string {
		return `
			void main() {
				int x = ` + n + `;
				if (x == 1) { print("one"); }
				elseif (x == 2) { print("two"); }
				else { print("other"); }
			}
		`
	}
	assert.Equal(t, "one", compileAndCapture(t, src("1")))
	assert.Equal(t, "two", compileAndCapture(t, src("2")))
	assert.Equal(t, "other", compileAndCapture(t, src("3")))
}

func TestCodegen_GreaterThanSwapsOperandsToCmplt(t *testing.T) {
	out := compileAndCapture(t, `
		void main() {
			bool b = 5 > 3;
			if (b) { print("yes"); } else { print("no"); }
			bool c = 3 >= 3;
			if (c) { print("-yes"); } else { print("-no"); }
		}
	`)
	assert.Equal(t, "yes-yes", out)
}

func TestCodegen_MultiLinkFieldAssignment(t *testing.T) {
	out := compileAndCapture(t, `
		struct Inner { int v; }
		struct Outer { Inner i; }
		void main() {
			Outer o = new Outer(new Inner(1));
			o.i.v = 42;
			print(itos(o.i.v));
		}
	`)
	assert.Equal(t, "42", out)
}

func TestCodegen_RecursiveFunctionCall(t *testing.T) {
	out := compileAndCapture(t, `
		int fact(int n) {
			if (n <= 1) { return 1; }
			return n * fact(n - 1);
		}
		void main() {
			print(itos(fact(5)));
		}
	`)
	assert.Equal(t, "120", out)
}

func TestCodegen_FloorDivision(t *testing.T) {
	out := compileAndCapture(t, `
		void main() {
			int x = 7 / 2;
			print(itos(x));
		}
	`)
	assert.Equal(t, "3", out)
}

func TestCodegen_GetcBuiltin(t *testing.T) {
	out := compileAndCapture(t, `
		void main() {
			string s = "hello";
			print(get(1, s));
		}
	`)
	assert.Equal(t, "e", out)
}

func TestCodegen_LengthBuiltinOnStringAndArray(t *testing.T) {
	out := compileAndCapture(t, `
		void main() {
			array int a = new int[5];
			print(itos(length(a)));
			print(itos(length("abc")));
		}
	`)
	assert.Equal(t, "53", out)
}

// The else body of an if/elseif/else chain must actually execute when
// every preceding guard is false, not be jumped past as dead code.
func TestCodegen_ElseBodyRunsWhenAllGuardsFalse(t *testing.T) {
	out := compileAndCapture(t, `
		void main() {
			int x = 3;
			if (x == 1) { print("one"); }
			elseif (x == 2) { print("two"); }
			else { print("other"); }
		}
	`)
	assert.Equal(t, "other", out)
}

func TestCodegen_ElseBodyRunsWithNoElseIf(t *testing.T) {
	out := compileAndCapture(t, `
		void main() {
			bool b = false;
			if (b) { print("yes"); } else { print("no"); }
		}
	`)
	assert.Equal(t, "no", out)
}

// A local declared in one if/elseif arm must not bump the slot index
// seen by a sibling arm that actually runs: only one arm executes per
// pass, so siblings may safely reuse the same base slot.
func TestCodegen_SiblingBranchLocalsReuseSlots(t *testing.T) {
	out := compileAndCapture(t, `
		void main() {
			if (false) {
				int a = 1;
				print(itos(a));
			}
			elseif (true) {
				int b = 2;
				print(itos(b));
			}
		}
	`)
	assert.Equal(t, "2", out)
}

func TestCodegen_ConsecutiveBlocksReuseSlots(t *testing.T) {
	out := compileAndCapture(t, `
		void main() {
			while (false) {
				int a = 1;
				print(itos(a));
			}
			int i = 0;
			while (i < 2) {
				int b = 9;
				print(itos(b));
				i = i + 1;
			}
		}
	`)
	assert.Equal(t, "99", out)
}
