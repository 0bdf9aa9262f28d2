package vm

import (
	"github.com/Cheese-S/Dojo/lang/object"
	"github.com/Cheese-S/Dojo/lang/value"
)

// callValue dispatches a CALL by the callee's runtime variant (spec.md
// §4.G.3). callee sits at stack[vm.sp-argc-1]; its arguments fill the
// argc slots above it.
func (vm *VM) callValue(callee value.Value, argc int) error {
	if !callee.IsObj() {
		return vm.runtimeErrorf("can only call functions and classes")
	}
	switch o := callee.AsObj().(type) {
	case *object.ObjClosure:
		return vm.call(o, argc)
	case *object.ObjClass:
		return vm.callClass(o, argc)
	case *object.ObjBoundMethod:
		vm.stack[vm.sp-argc-1] = o.Receiver
		return vm.call(o.Method, argc)
	case *object.ObjNativeFn:
		return vm.callNative(o, argc)
	default:
		return vm.runtimeErrorf("can only call functions and classes")
	}
}

// call pushes a new frame for closure, after checking arity and the
// frame-count bound (spec.md §4.G.3, §5).
func (vm *VM) call(closure *object.ObjClosure, argc int) error {
	if argc != closure.Fn.Arity {
		return vm.runtimeErrorf("expected %d arguments but got %d", closure.Fn.Arity, argc)
	}
	if vm.frameCount == maxFrames {
		return vm.runtimeErrorf("stack overflow")
	}
	vm.frames[vm.frameCount] = frame{closure: closure, ip: 0, slots: vm.sp - argc - 1}
	vm.frameCount++
	return nil
}

// callClass replaces the callee slot with a freshly constructed instance
// and, if the class declares `init`, runs it as the constructor (spec.md
// §4.G.3).
func (vm *VM) callClass(class *object.ObjClass, argc int) error {
	instance := vm.h.NewInstance(class)
	vm.stack[vm.sp-argc-1] = value.FromObj(instance)
	if initVal, ok := class.Methods.Get(vm.h.InitString()); ok {
		return vm.call(initVal.AsObj().(*object.ObjClosure), argc)
	}
	if argc != 0 {
		return vm.runtimeErrorf("expected 0 arguments but got %d", argc)
	}
	return nil
}

// callNative invokes a native function directly, without pushing a
// frame, since it runs to completion synchronously (spec.md §4.G.3).
func (vm *VM) callNative(nat *object.ObjNativeFn, argc int) error {
	if argc != nat.Arity {
		return vm.runtimeErrorf("expected %d arguments but got %d", nat.Arity, argc)
	}
	args := vm.stack[vm.sp-argc : vm.sp]
	result, err := nat.Fn(args)
	if err != nil {
		return vm.runtimeErrorf("%s", err.Error())
	}
	vm.sp -= argc + 1
	vm.push(result)
	return nil
}

// invoke fuses a GET_PROPERTY lookup with a call: an instance field that
// happens to hold a callable value takes precedence over a method of the
// same name, matching plain GET_PROPERTY-then-CALL semantics exactly
// (spec.md §4.G.3).
func (vm *VM) invoke(name *object.ObjString, argc int) error {
	receiver := vm.peek(argc)
	instance, ok := receiver.AsObj().(*object.ObjInstance)
	if !receiver.IsObj() || !ok {
		return vm.runtimeErrorf("only instances have methods")
	}
	if fv, ok := instance.Fields.Get(name); ok {
		vm.stack[vm.sp-argc-1] = fv
		return vm.callValue(fv, argc)
	}
	return vm.invokeFromClass(instance.Class, name, argc)
}

func (vm *VM) invokeFromClass(class *object.ObjClass, name *object.ObjString, argc int) error {
	methodVal, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeErrorf("Undefined property '%s'", name.Chars)
	}
	return vm.call(methodVal.AsObj().(*object.ObjClosure), argc)
}

// bindMethod looks up name on class, binds it to receiver as an
// ObjBoundMethod, and pushes the result — GET_PROPERTY's fallback when
// the name names a method rather than a field (spec.md §3, §4.G.1).
func (vm *VM) bindMethod(class *object.ObjClass, name *object.ObjString) error {
	methodVal, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeErrorf("Undefined property '%s'", name.Chars)
	}
	receiver := vm.peek(0)
	bound := vm.h.NewBoundMethod(receiver, methodVal.AsObj().(*object.ObjClosure))
	vm.pop()
	vm.push(value.FromObj(bound))
	return nil
}
