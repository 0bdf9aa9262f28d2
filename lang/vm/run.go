package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Cheese-S/Dojo/lang/chunk"
	"github.com/Cheese-S/Dojo/lang/object"
	"github.com/Cheese-S/Dojo/lang/value"
)

// run is the dispatch loop (spec.md §4.G.2): a single-threaded switch over
// the current frame's next opcode. Because frame is a fixed array element
// addressed by pointer, ip mutations performed by readByte/readShort land
// directly in vm.frames[vm.frameCount-1] — there is no separate
// register-local ip to write back and reload around CALL/RETURN the way a
// C port needs; re-fetching currentFrame() after any frame-count change is
// enough to pick up the callee's (or caller's) own ip.
func (vm *VM) run() error {
	f := vm.currentFrame()
	for {
		op := chunk.Opcode(vm.readByte(f))
		switch op {
		case chunk.CONSTANT:
			vm.push(vm.readConstant(f))

		case chunk.NIL:
			vm.push(value.Nil)
		case chunk.TRUE:
			vm.push(value.True)
		case chunk.FALSE:
			vm.push(value.False)

		case chunk.POP:
			vm.pop()
		case chunk.POPN:
			n := int(vm.readByte(f))
			vm.sp -= n

		case chunk.GET_LOCAL:
			slot := int(vm.readByte(f))
			vm.push(vm.stack[f.slots+slot])
		case chunk.SET_LOCAL:
			slot := int(vm.readByte(f))
			vm.stack[f.slots+slot] = vm.peek(0)

		case chunk.GET_GLOBAL:
			name := vm.readString(f)
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.undefinedVariable(name)
			}
			vm.push(v)
		case chunk.SET_GLOBAL:
			name := vm.readString(f)
			if vm.globals.Put(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.undefinedVariable(name)
			}
		case chunk.DEFINE_GLOBAL:
			name := vm.readString(f)
			vm.globals.Put(name, vm.peek(0))
			vm.pop()

		case chunk.GET_UPVALUE:
			idx := int(vm.readByte(f))
			vm.push(*f.closure.Upvalues[idx].Location)
		case chunk.SET_UPVALUE:
			idx := int(vm.readByte(f))
			*f.closure.Upvalues[idx].Location = vm.peek(0)
		case chunk.CLOSE_UPVALUE:
			vm.closeUpvalues(vm.sp - 1)
			vm.pop()

		case chunk.GET_PROPERTY:
			name := vm.readString(f)
			if err := vm.getProperty(name); err != nil {
				return err
			}
		case chunk.SET_PROPERTY:
			name := vm.readString(f)
			if err := vm.setProperty(name); err != nil {
				return err
			}
		case chunk.GET_SUPER:
			name := vm.readString(f)
			super := vm.pop().AsObj().(*object.ObjClass)
			if err := vm.bindMethod(super, name); err != nil {
				return err
			}

		case chunk.EQUAL:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case chunk.NOT_EQUAL:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(!value.Equal(a, b)))
		case chunk.LESS, chunk.LESS_EQUAL, chunk.GREATER, chunk.GREATER_EQUAL:
			if err := vm.numericCompare(op); err != nil {
				return err
			}
		case chunk.ADD, chunk.SUBTRACT, chunk.MULTIPLY, chunk.DIVIDE:
			if err := vm.arithmetic(op); err != nil {
				return err
			}

		case chunk.NOT:
			vm.push(value.Bool(vm.pop().IsFalsey()))
		case chunk.NEGATE:
			v := vm.peek(0)
			if !v.IsNumber() {
				return vm.runtimeErrorf("operand must be a number")
			}
			vm.sp--
			vm.push(value.Number(-v.AsNumber()))

		case chunk.TEMPLATE:
			n := int(vm.readByte(f))
			vm.template(n)

		case chunk.JUMP:
			off := vm.readShort(f)
			f.ip += off
		case chunk.JUMP_IF_TRUE:
			off := vm.readShort(f)
			if !vm.peek(0).IsFalsey() {
				f.ip += off
			}
		case chunk.JUMP_IF_FALSE:
			off := vm.readShort(f)
			if vm.peek(0).IsFalsey() {
				f.ip += off
			}
		case chunk.LOOP:
			off := vm.readShort(f)
			f.ip -= off

		case chunk.CALL:
			argc := int(vm.readByte(f))
			if err := vm.callValue(vm.peek(argc), argc); err != nil {
				return err
			}
			f = vm.currentFrame()
		case chunk.INVOKE:
			name := vm.readString(f)
			argc := int(vm.readByte(f))
			if err := vm.invoke(name, argc); err != nil {
				return err
			}
			f = vm.currentFrame()
		case chunk.SUPER_INVOKE:
			name := vm.readString(f)
			argc := int(vm.readByte(f))
			super := vm.pop().AsObj().(*object.ObjClass)
			if err := vm.invokeFromClass(super, name, argc); err != nil {
				return err
			}
			f = vm.currentFrame()

		case chunk.CLOSURE:
			fn := vm.readConstant(f).AsObj().(*object.ObjFn)
			closure := vm.h.NewClosure(fn, make([]*object.ObjUpvalue, fn.UpvalueCount))
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte(f)
				idx := int(vm.readByte(f))
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(f.slots + idx)
				} else {
					closure.Upvalues[i] = f.closure.Upvalues[idx]
				}
			}
			vm.push(value.FromObj(closure))

		case chunk.RETURN:
			result := vm.pop()
			vm.closeUpvalues(f.slots)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop()
				return nil
			}
			vm.sp = f.slots
			vm.push(result)
			f = vm.currentFrame()

		case chunk.CLASS:
			name := vm.readString(f)
			vm.push(value.FromObj(vm.h.NewClass(name)))
		case chunk.INHERIT:
			super, ok := vm.peek(1).AsObj().(*object.ObjClass)
			if !ok {
				return vm.runtimeErrorf("superclass must be a class")
			}
			sub := vm.peek(0).AsObj().(*object.ObjClass)
			object.PutAll(super.Methods, sub.Methods)
			vm.pop() // drop the subclass operand; the superclass stays as the "super" local
		case chunk.METHOD:
			name := vm.readString(f)
			vm.defineMethod(name)

		default:
			return vm.runtimeErrorf("unknown opcode %d", byte(op))
		}
	}
}

func (vm *VM) undefinedVariable(name *object.ObjString) error {
	return vm.runtimeErrorf("Undefined Variable '%s'", name.Chars)
}

// arithmetic implements ADD/SUBTRACT/MULTIPLY/DIVIDE on two numbers. The
// one non-numeric case is ADD of two strings, which pushes their interned
// concatenation; any other operand mix is a runtime error.
func (vm *VM) arithmetic(op chunk.Opcode) error {
	if op == chunk.ADD {
		a, aok := vm.peek(1).AsObj().(*object.ObjString)
		b, bok := vm.peek(0).AsObj().(*object.ObjString)
		if aok && bok {
			// Both operands stay on the stack, and so stay rooted, until
			// the concatenation is interned.
			s := vm.h.InternString(a.Chars+b.Chars, true)
			vm.sp -= 2
			vm.push(value.FromObj(s))
			return nil
		}
	}
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorf("operands must be numbers")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	var r float64
	switch op {
	case chunk.ADD:
		r = a + b
	case chunk.SUBTRACT:
		r = a - b
	case chunk.MULTIPLY:
		r = a * b
	case chunk.DIVIDE:
		r = a / b
	}
	vm.push(value.Number(r))
	return nil
}

func (vm *VM) numericCompare(op chunk.Opcode) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorf("operands must be numbers")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	var r bool
	switch op {
	case chunk.LESS:
		r = a < b
	case chunk.LESS_EQUAL:
		r = a <= b
	case chunk.GREATER:
		r = a > b
	case chunk.GREATER_EQUAL:
		r = a >= b
	}
	vm.push(value.Bool(r))
	return nil
}

// getProperty implements GET_PROPERTY: instance fields take precedence,
// falling back to a bound method lookup on the instance's class (spec.md
// §4.G.1's "GET falls back to bound method").
func (vm *VM) getProperty(name *object.ObjString) error {
	instance, ok := vm.peek(0).AsObj().(*object.ObjInstance)
	if !vm.peek(0).IsObj() || !ok {
		return vm.runtimeErrorf("only instances have properties")
	}
	if v, ok := instance.Fields.Get(name); ok {
		vm.pop()
		vm.push(v)
		return nil
	}
	return vm.bindMethod(instance.Class, name)
}

func (vm *VM) setProperty(name *object.ObjString) error {
	instance, ok := vm.peek(1).AsObj().(*object.ObjInstance)
	if !vm.peek(1).IsObj() || !ok {
		return vm.runtimeErrorf("only instances have fields")
	}
	instance.Fields.Put(name, vm.peek(0))
	v := vm.pop()
	vm.pop()
	vm.push(v)
	return nil
}

func (vm *VM) defineMethod(name *object.ObjString) {
	method := vm.peek(0).AsObj().(*object.ObjClosure)
	class := vm.peek(1).AsObj().(*object.ObjClass)
	class.Methods.Put(name, value.FromObj(method))
	vm.pop()
}

// template implements TEMPLATE n (spec.md §4.G.5): pop 2n+1 values
// most-recent-first, stringify each, and intern the concatenation as a
// single owning ObjString.
func (vm *VM) template(n int) {
	count := 2*n + 1
	parts := make([]string, count)
	for i := count - 1; i >= 0; i-- {
		parts[i] = vm.stringify(vm.pop())
	}
	s := strings.Join(parts, "")
	vm.push(value.FromObj(vm.h.InternString(s, true)))
}

func (vm *VM) printValue(v value.Value) {
	fmt.Fprintln(vm.Stdout, vm.stringify(v))
}

// stringify is the value-to-text routine spec.md §4.G.5 describes:
// numbers via shortest round-trip formatting, booleans/nil by keyword,
// strings verbatim, other objects via a descriptor like "<fn name>".
func (vm *VM) stringify(v value.Value) string {
	switch {
	case v.IsNil():
		return "nil"
	case v.IsBool():
		if v.AsBool() {
			return "true"
		}
		return "false"
	case v.IsNumber():
		return formatNumber(v.AsNumber())
	case v.IsObj():
		return stringifyObj(v.AsObj())
	default:
		return ""
	}
}

// stringifyObj defers to each variant's own String() (spec.md §4.G.5's
// "other objects by a descriptor like <fn name> or <Foo instance>") —
// every Obj variant already implements one for debugging/REPL echo.
func stringifyObj(o value.Obj) string {
	if s, ok := o.(fmt.Stringer); ok {
		return s.String()
	}
	return "<obj>"
}

// formatNumber renders n with shortest-round-trip precision, normalizing
// Go's "+Inf"/"-Inf" spellings to the lowercase "inf"/"-inf" the original
// VM prints (SPEC_FULL.md §C.5).
func formatNumber(n float64) string {
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
