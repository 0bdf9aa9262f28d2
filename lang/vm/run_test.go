package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheese-S/Dojo/lang/compiler"
	"github.com/Cheese-S/Dojo/lang/heap"
	"github.com/Cheese-S/Dojo/lang/parser"
	"github.com/Cheese-S/Dojo/lang/vm"
)

// interpret compiles and runs src against a fresh heap and VM, returning
// everything written to stdout and the error Interpret returned, if any.
func interpret(t *testing.T, src string) (string, error) {
	t.Helper()
	prog, err := parser.Parse("<test>", src)
	require.NoError(t, err)

	h := heap.New()
	fn, err := compiler.Compile(h, "<test>", prog)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	machine := vm.New(h)
	machine.Stdout = &out
	machine.Stderr = &errOut

	runErr := machine.Interpret(fn)
	return out.String(), runErr
}

// S1. Closures over loop variable — actually a closure over a function
// local mutated by the returned inner function across independent calls.
func TestClosuresOverEnclosingLocal(t *testing.T) {
	src := `
fn makeCounter() {
	var i = 0
	fn inc() {
		i = i + 1
		return i
	}
	return inc
}
var c = makeCounter()
print(c())
print(c())
print(c())
`
	out, err := interpret(t, src)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

// S2. Fibonacci (recursion + arithmetic).
func TestFibonacciRecursion(t *testing.T) {
	src := `
fn fib(n) {
	if (n < 2) return n
	return fib(n-1) + fib(n-2)
}
print(fib(10))
`
	out, err := interpret(t, src)
	require.NoError(t, err)
	assert.Equal(t, "55\n", out)
}

// S3. Break from nested loop.
func TestBreakFromForLoop(t *testing.T) {
	src := `
var s = 0
for (var i = 0; i < 10; i = i+1) {
	if (i == 5) break
	s = s + i
}
print(s)
`
	out, err := interpret(t, src)
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

// S4. Class with inheritance and super.
func TestClassInheritanceAndSuper(t *testing.T) {
	src := `
class A {
	greet() { return "A" }
}
class B extends A {
	greet() { return super.greet() + "B" }
}
print(B().greet())
`
	out, err := interpret(t, src)
	require.NoError(t, err)
	assert.Equal(t, "AB\n", out)
}

// S5. Template string with nested expression.
func TestTemplateStringInterpolation(t *testing.T) {
	src := "var name = \"world\"\nprint(`hello ${name}, sum=${1+2}`)\n"
	out, err := interpret(t, src)
	require.NoError(t, err)
	assert.Equal(t, "hello world, sum=3\n", out)
}

// S6. Runtime error on undefined variable.
func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := interpret(t, "print(x)")
	require.Error(t, err)
	rerr, ok := err.(*vm.RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rerr.Error(), "Undefined Variable 'x'")
	assert.Contains(t, rerr.Trace, "in script")
}

// Property 9: infinite recursion terminates with a stack-overflow runtime
// error rather than a crash.
func TestStackOverflowTerminates(t *testing.T) {
	src := `
fn loop() { return loop() }
loop()
`
	_, err := interpret(t, src)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "overflow"))
}

// Property 10: shortest round-trip number formatting and infinity handling.
func TestNumberFormatting(t *testing.T) {
	out, err := interpret(t, "print(42.5)")
	require.NoError(t, err)
	assert.Equal(t, "42.5\n", out)

	out, err = interpret(t, "print(1/0)")
	require.NoError(t, err)
	assert.Equal(t, "inf\n", out)
}

// Closure independence (Property 4): two closures made by separate
// activations of the same enclosing function keep independent state.
func TestClosureIndependenceAcrossActivations(t *testing.T) {
	src := `
fn makeCounter() {
	var i = 0
	fn inc() { i = i + 1; return i }
	return inc
}
var a = makeCounter()
var b = makeCounter()
print(a())
print(a())
print(b())
`
	out, err := interpret(t, src)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n1\n", out)
}

// Fields on an instance shadow a method of the same name for GET_PROPERTY
// lookups (spec.md §4.G.3's invoke-fusion note).
func TestInstanceFieldShadowsMethod(t *testing.T) {
	src := `
class Box {
	value() { return "method" }
}
var b = Box()
b.value = "field"
print(b.value)
`
	out, err := interpret(t, src)
	require.NoError(t, err)
	assert.Equal(t, "field\n", out)
}

func TestArithmeticRejectsNonNumericOperands(t *testing.T) {
	_, err := interpret(t, `print("a" + 1)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numbers")
}
