package compiler

import (
	"bytes"
	goerrors "errors"
	"strings"
	"testing"

	llvm "github.com/llir/llvm/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsk-dev/power/grammar"
	"github.com/minsk-dev/power/internal/ast"
	"github.com/minsk-dev/power/internal/errors"
	"github.com/minsk-dev/power/internal/ir"
)

func compileSource(t *testing.T, source string, mode grammar.Mode) (*ir.Module, error) {
	t.Helper()
	program, err := grammar.ParseSource("test.js", source, mode)
	require.NoError(t, err)
	return CompileProgram(ir.NewContext(), program, WithModuleName("test.js"))
}

func mustCompile(t *testing.T, source string) *ir.Module {
	t.Helper()
	mod, err := compileSource(t, source, grammar.ModeScript)
	require.NoError(t, err)
	require.NoError(t, ir.Verify(mod.Func(EntryPoint)))
	return mod
}

func exitCode(t *testing.T, source string) int32 {
	t.Helper()
	code, err := ir.Run(mustCompile(t, source), EntryPoint, nil)
	require.NoError(t, err)
	return code
}

func compileError(t *testing.T, source string, mode grammar.Mode) *errors.CompilerError {
	t.Helper()
	_, err := compileSource(t, source, mode)
	require.Error(t, err)

	var compileErr *errors.CompilerError
	require.True(t, goerrors.As(err, &compileErr), "expected *CompilerError, got %T: %v", err, err)
	return compileErr
}

// ============================================================================
// Entry point
// ============================================================================

func TestCompileBeforeEntryPoint(t *testing.T) {
	c := New(ir.NewContext())
	err := c.Compile(&ast.Script{})
	assert.True(t, goerrors.Is(err, errors.ErrMissingEntryPoint))
}

func TestEntryPointRedefined(t *testing.T) {
	c := New(ir.NewContext())
	require.NoError(t, c.CompileMainFunction())
	assert.True(t, goerrors.Is(c.CompileMainFunction(), errors.ErrEntryPointRedefined))
}

func TestCompileTwiceOnOneCompiler(t *testing.T) {
	c := New(ir.NewContext())
	require.NoError(t, c.CompileMainFunction())
	require.NoError(t, c.Compile(&ast.Script{}))
	assert.True(t, goerrors.Is(c.Compile(&ast.Script{}), errors.ErrMissingEntryPoint))
}

func TestSynthesizedMain(t *testing.T) {
	ctx := ir.NewContext()
	c := New(ctx, WithModuleName("empty.js"))
	require.NoError(t, c.CompileMainFunction())
	require.NoError(t, c.Compile(&ast.Script{}))

	mod := c.Module()
	assert.Equal(t, "empty.js", mod.Name())
	fn := mod.Func(EntryPoint)
	require.NotNil(t, fn)
	assert.Empty(t, fn.Params)
	assert.True(t, fn.Sig.RetType.Equal(ctx.I32))
	require.Len(t, fn.Blocks, 1)
	assert.Equal(t, "entry", fn.Blocks[0].Name())

	code, err := ir.Run(mod, EntryPoint, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(0), code, "an empty program returns 0")
}

// ============================================================================
// Exit codes
// ============================================================================

func TestReturnLiteral(t *testing.T) {
	for _, v := range []int32{0, 1, 7, 42, 255, -1, 2147483647} {
		program := &ast.Script{Body: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.NumberLit{Value: int64(v)}},
		}}
		mod, err := CompileProgram(ir.NewContext(), program)
		require.NoError(t, err)

		code, err := ir.Run(mod, EntryPoint, nil)
		require.NoError(t, err)
		assert.Equal(t, v, code)
	}
}

func TestAssignmentIsObservable(t *testing.T) {
	assert.Equal(t, int32(2), exitCode(t, `let x = 1; x = 2; return x;`))
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected int32
	}{
		{"arithmetic", `return 1 + 2 * 3 - 4;`, 3},
		{"signed division", `return -7 / 2;`, -3},
		{"signed remainder", `return -7 % 3;`, -1},
		{"bitwise", `return (6 & 3) | (8 ^ 1);`, 11},
		{"bitwise not", `return ~0;`, -1},
		{"shift", `return 1 << 4 >> 2;`, 4},
		{"shift count masked", `let s = 33; return 1 << s;`, 2},
		{"constant shift count masked", `return 1 << 32;`, 1},
		{"comparison", `return (1 < 2) + (2 <= 2) + (3 > 4) + (5 >= 5) + (1 == 1) + (1 != 1);`, 4},
		{"strict equality", `return (3 === 3) + (3 !== 4);`, 2},
		{"logical not", `return !0 + !5;`, 1},
		{"unary plus and minus", `let a = 5; return +a - -a;`, 10},
		{"booleans", `return true + true + false;`, 2},
		{"wrapping", `return 2147483647 + 1 == -2147483648;`, 1},
		{"hex literal wraps", `return 0xFFFFFFFF;`, -1},
		{"assignment is an expression", `let a = 0; let b = (a = 3) + 1; return a * 10 + b;`, 34},
		{"chained assignment", `let a = 0; let b = 0; a = b = 5; return a + b;`, 10},
		{"compound assignment", `let x = 10; x += 5; x -= 3; x *= 2; x /= 4; x %= 4; return x;`, 2},
		{"compound bitwise", `let x = 1; x <<= 3; x |= 1; x &= 7; x ^= 2; x >>= 1; return x;`, 1},
		{"prefix increment", `let x = 1; let y = ++x; return x * 10 + y;`, 22},
		{"postfix increment", `let x = 1; let y = x++; return x * 10 + y;`, 21},
		{"decrement", `let x = 5; x--; --x; return x;`, 3},
		{"zero initialized", `let x; return x;`, 0},
		{"multiple declarators", `let a = 1, b = a + 1, c; return a + b + c;`, 3},
		{"initializer sees outer binding", `let x = 4; { let x = x + 1; return x; }`, 5},
		{"var is function scoped", `{ var v = 9; } return v;`, 9},
		{"var redeclaration keeps value", `var v = 3; var v; return v;`, 3},
		{"var redeclaration assigns", `var v = 3; var v = 4; return v;`, 4},
		{"implicit return", `let x = 1;`, 0},
		{"empty return", `return;`, 0},
		{"empty statements", `;;; return 1;;`, 1},
		{"abs", `return abs(-5) + abs(3);`, 8},
		{"min and max", `return min(3, -2) * 10 + max(3, -2);`, -17},
		{"nested intrinsics", `return max(min(10, 4), abs(-2));`, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCode(t, tt.source))
		})
	}
}

func TestControlFlowPrograms(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected int32
	}{
		{"if taken", `if (1) { return 1; } else { return 2; }`, 1},
		{"else taken", `if (0) { return 1; } else { return 2; }`, 2},
		{"if without else falls through", `let x = 1; if (x > 5) { x = 9; } return x;`, 1},
		{"if without braces", `let x = 0; if (1) x = 3; else x = 4; return x;`, 3},
		{"one arm returns", `let x = 0; if (x) { return 7; } else { x = 5; } return x;`, 5},
		{"else if chain", `let x = 2; if (x == 1) return 10; else if (x == 2) return 20; else return 30;`, 20},
		{"while sum", `let i = 0; let s = 0; while (i < 5) { s += i; i++; } return s;`, 10},
		{"while never entered", `let i = 10; while (i < 5) { i++; } return i;`, 10},
		{"return from loop", `let i = 0; while (1) { if (i == 3) return i; i = i + 1; }`, 3},
		{"nested loops", `
let i = 0; let total = 0;
while (i < 3) {
  let j = 0;
  while (j < 4) { total = total + 1; j++; }
  i++;
}
return total;`, 12},
		{"factorial", `
let n = 5; let acc = 1;
while (n > 1) { acc *= n; n--; }
return acc;`, 120},
		{"fibonacci", `
let a = 0, b = 1, i = 0;
while (i < 10) { let t = a + b; a = b; b = t; i++; }
return a;`, 55},
		{"loop body declaration is fresh", `
let i = 0; let s = 0;
while (i < 3) { let k; k += i; s += k; i++; }
return s;`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCode(t, tt.source))
		})
	}
}

func TestShortCircuit(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected int32
	}{
		{"and true", `return 2 && 3;`, 1},
		{"and false", `return 0 && 3;`, 0},
		{"or true", `return 0 || 7;`, 1},
		{"or false", `return 0 || 0;`, 0},
		{"and skips right", `let x = 0; 0 && (x = 5); return x;`, 0},
		{"and evaluates right", `let x = 0; 1 && (x = 5); return x;`, 5},
		{"or skips right", `let x = 0; 1 || (x = 5); return x;`, 0},
		{"or evaluates right", `let x = 0; 0 || (x = 5); return x;`, 5},
		{"nested", `let a = 1, b = 0, c = 1; return (a && b) || (a && c);`, 1},
		{"as condition", `let n = 0; if (n == 0 || 1 / n) { return 1; } return 2;`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCode(t, tt.source))
		})
	}
}

func TestEvaluationOrder(t *testing.T) {
	// left operand is evaluated before the right one
	assert.Equal(t, int32(12), exitCode(t, `let x = 1; return (x = 10) + (x = x + 1) - 9;`))

	// a compound assignment reads its target before the right-hand side runs
	assert.Equal(t, int32(6), exitCode(t, `let x = 1; x += (x = 5); return x;`))
}

func TestPutchar(t *testing.T) {
	mod := mustCompile(t, `putchar(72); putchar(105); return putchar(10);`)

	var out bytes.Buffer
	code, err := ir.Run(mod, EntryPoint, &out)
	require.NoError(t, err)
	assert.Equal(t, "Hi\n", out.String())
	assert.Equal(t, int32(10), code)

	assert.True(t, mod.IsExternal(mod.Func("putchar")))
	assert.Contains(t, mod.String(), "declare i32 @putchar(i32")
}

// ============================================================================
// Errors
// ============================================================================

func TestDuplicateBinding(t *testing.T) {
	err := compileError(t, "let x = 1;\nlet x = 2;\nreturn x;", grammar.ModeScript)
	assert.True(t, goerrors.Is(err, errors.ErrDuplicateBinding))
	assert.Equal(t, "x", err.Name)
	assert.Equal(t, 2, err.Position.Line)

	err = compileError(t, `{ const a = 1; let a = 2; }`, grammar.ModeScript)
	assert.True(t, goerrors.Is(err, errors.ErrDuplicateBinding))

	err = compileError(t, `let a = 1; { var a = 2; }`, grammar.ModeScript)
	assert.True(t, goerrors.Is(err, errors.ErrDuplicateBinding))
}

func TestShadowingInNestedBlock(t *testing.T) {
	assert.Equal(t, int32(12), exitCode(t, `
let x = 1;
let inner = 0;
{
  let x = 10;
  inner = x;
}
return inner + x + 1;`))
}

func TestShadowingInBranchArms(t *testing.T) {
	assert.Equal(t, int32(3), exitCode(t, `let x = 3; if (1) let x = 5; return x;`))
}

func TestUndefinedVariable(t *testing.T) {
	mod, err := compileSource(t, `let x = 1; return y + x;`, grammar.ModeScript)
	assert.Nil(t, mod)
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, errors.ErrUndefinedVariable))

	var compileErr *errors.CompilerError
	require.True(t, goerrors.As(err, &compileErr))
	assert.Equal(t, "y", compileErr.Name)
	assert.Equal(t, 1, compileErr.Position.Line)
	assert.Equal(t, 19, compileErr.Position.Column)
}

func TestUndefinedVariableEmitsNothing(t *testing.T) {
	ctx := ir.NewContext()
	c := New(ctx)
	require.NoError(t, c.CompileMainFunction())

	program := &ast.Script{Body: []ast.Stmt{
		&ast.ReturnStmt{Value: &ast.Ident{Name: "missing"}},
	}}
	err := c.Compile(program)
	require.True(t, goerrors.Is(err, errors.ErrUndefinedVariable))

	entry := c.Module().Func(EntryPoint).Blocks[0]
	assert.Empty(t, entry.Insts, "no load is emitted for an unresolved name")
	assert.Nil(t, entry.Term)
}

func TestOutOfScopeVariable(t *testing.T) {
	err := compileError(t, `{ let inner = 1; } return inner;`, grammar.ModeScript)
	assert.True(t, goerrors.Is(err, errors.ErrUndefinedVariable))
}

func TestAssignToConst(t *testing.T) {
	for _, source := range []string{
		`const c = 1; c = 2;`,
		`const c = 1; c += 2;`,
		`const c = 1; c++;`,
		`const c = 1; --c;`,
	} {
		err := compileError(t, source, grammar.ModeScript)
		assert.True(t, goerrors.Is(err, errors.ErrAssignToConst), source)
		assert.Equal(t, "c", err.Name)
	}
}

func TestAssignUndefined(t *testing.T) {
	err := compileError(t, `z = 1;`, grammar.ModeScript)
	assert.True(t, goerrors.Is(err, errors.ErrUndefinedVariable))
}

func TestUnreachableCode(t *testing.T) {
	tests := []string{
		`return 1; let x = 2;`,
		`return 1; return 2;`,
		`{ return 1; } return 2;`,
		`if (1) { return 1; } else { return 2; } return 3;`,
		`while (1) { return 1; let y = 2; }`,
	}

	for _, source := range tests {
		err := compileError(t, source, grammar.ModeScript)
		assert.True(t, goerrors.Is(err, errors.ErrUnreachableCode), source)
	}
}

func TestUnknownFunction(t *testing.T) {
	err := compileError(t, `return mx(1, 2);`, grammar.ModeScript)
	assert.True(t, goerrors.Is(err, errors.ErrUnknownFunction))
	assert.Equal(t, "mx", err.Name)
	require.NotEmpty(t, err.Suggestions)
	assert.Contains(t, err.Suggestions[0].Message, "max")
}

func TestIntrinsicArity(t *testing.T) {
	err := compileError(t, `return abs(1, 2);`, grammar.ModeScript)
	assert.True(t, goerrors.Is(err, errors.ErrUnsupportedConstruct))
}

func TestConstWithoutInitializer(t *testing.T) {
	err := compileError(t, `const c;`, grammar.ModeScript)
	assert.True(t, goerrors.Is(err, errors.ErrUnsupportedConstruct))
}

func TestModuleDeclarationsRejected(t *testing.T) {
	tests := []string{
		`import x from "x"; return 1;`,
		`return 1; import x from "x";`,
		`let a = 1; export default a;`,
		`export const b = 2;`,
		`let a = 1; let a = 2; export { a };`,
		`return undefinedName; export * from "all";`,
	}

	for _, source := range tests {
		err := compileError(t, source, grammar.ModeModule)
		assert.True(t, goerrors.Is(err, errors.ErrUnsupportedConstruct), source)
		assert.Equal(t, ast.MODULE_DECL, err.NodeType, source)
	}
}

func TestModuleWithoutDeclarations(t *testing.T) {
	mod, err := compileSource(t, `let a = 20; return a + 1;`, grammar.ModeModule)
	require.NoError(t, err)
	code, err := ir.Run(mod, EntryPoint, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(21), code)
}

// ============================================================================
// IR shape
// ============================================================================

func TestIfElseBothReturnShape(t *testing.T) {
	mod := mustCompile(t, `if (1) { return 1; } else { return 2; }`)
	fn := mod.Func(EntryPoint)

	require.Len(t, fn.Blocks, 3, "entry plus two arms, no merge block")

	entry := fn.Blocks[0]
	assert.IsType(t, &llvm.TermCondBr{}, entry.Term)
	assert.Len(t, entry.Term.Succs(), 2)

	for _, arm := range fn.Blocks[1:] {
		assert.IsType(t, &llvm.TermRet{}, arm.Term)
		assert.False(t, strings.HasPrefix(arm.Name(), "if.end"))
	}
	assert.Equal(t, "if.then.0", fn.Blocks[1].Name())
	assert.Equal(t, "if.else.0", fn.Blocks[2].Name())

	for _, block := range fn.Blocks {
		require.NotNil(t, block.Term, "every block has exactly one terminator")
		if _, isRet := block.Term.(*llvm.TermRet); !isRet {
			assert.NotEmpty(t, block.Term.Succs())
		}
	}
}

func TestIfFallThroughCreatesMerge(t *testing.T) {
	mod := mustCompile(t, `let x = 0; if (x) { x = 1; } else { x = 2; } return x;`)
	fn := mod.Func(EntryPoint)

	require.Len(t, fn.Blocks, 4)
	merge := fn.Blocks[3]
	assert.Equal(t, "if.end.0", merge.Name())
	assert.Equal(t, []*llvm.Block{merge}, fn.Blocks[1].Term.Succs())
	assert.Equal(t, []*llvm.Block{merge}, fn.Blocks[2].Term.Succs())
}

func TestWhileShape(t *testing.T) {
	mod := mustCompile(t, `let i = 0; while (i < 3) { i++; } return i;`)
	fn := mod.Func(EntryPoint)

	require.Len(t, fn.Blocks, 4)
	entry, cond, body, after := fn.Blocks[0], fn.Blocks[1], fn.Blocks[2], fn.Blocks[3]

	assert.Equal(t, "while.cond.0", cond.Name())
	assert.Equal(t, "while.body.0", body.Name())
	assert.Equal(t, "while.end.0", after.Name())

	assert.Equal(t, []*llvm.Block{cond}, entry.Term.Succs())
	assert.Equal(t, []*llvm.Block{body, after}, cond.Term.Succs())
	assert.Equal(t, []*llvm.Block{cond}, body.Term.Succs())
	assert.IsType(t, &llvm.TermRet{}, after.Term)
}

func TestComparisonConditionIsNotRetested(t *testing.T) {
	mod := mustCompile(t, `let i = 0; if (i < 3) { i = 1; } return i;`)
	shape := ir.Shape(mod)
	assert.Equal(t, 1, strings.Count(shape, "icmp"), "the comparison result feeds the branch directly")
}

func TestSlotsLiveInEntryBlock(t *testing.T) {
	mod := mustCompile(t, `let i = 0; while (i < 2) { let t = i; i = t + 1; } return i;`)
	fn := mod.Func(EntryPoint)

	allocas := 0
	for _, block := range fn.Blocks {
		for _, inst := range block.Insts {
			if _, ok := inst.(*llvm.InstAlloca); ok {
				assert.Same(t, fn.Blocks[0], block)
				allocas++
			}
		}
	}
	assert.Equal(t, 2, allocas)
}

func TestIdempotence(t *testing.T) {
	source := `
let a = 1, b = 2;
while (a < 100) {
  if (a % 2 == 0 && b) { a = a * 3; } else { a = a + b + 1; }
  b = max(b - 1, 0);
}
putchar(65);
return a || b;
`
	first := mustCompile(t, source)
	second := mustCompile(t, source)

	assert.Equal(t, ir.Shape(first), ir.Shape(second))
	assert.Equal(t, first.String(), second.String())

	c1, err := ir.Run(first, EntryPoint, nil)
	require.NoError(t, err)
	c2, err := ir.Run(second, EntryPoint, nil)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestProgramIsNotMutated(t *testing.T) {
	program, err := grammar.ParseSource("test.js", `let x = 1; if (x) { x = 2; } return x;`, grammar.ModeScript)
	require.NoError(t, err)
	before := program.String()

	_, err = CompileProgram(ir.NewContext(), program)
	require.NoError(t, err)
	assert.Equal(t, before, program.String())
}

func TestIntrinsicNames(t *testing.T) {
	assert.Equal(t, []string{"abs", "max", "min", "putchar"}, IntrinsicNames())
}
