package object

import "github.com/Cheese-S/Dojo/lang/value"

// ObjClass is name + method map (name -> ObjClosure, stored as Value)
// (spec.md §3).
type ObjClass struct {
	value.Header
	Name    *ObjString
	Methods *Table
}

func NewClass(name *ObjString) *ObjClass {
	return &ObjClass{Name: name, Methods: NewTable()}
}

func (c *ObjClass) ObjKind() value.ObjKind { return value.ObjKindClass }
func (c *ObjClass) String() string         { return c.Name.Chars }

// ObjInstance is a class pointer + field map (name -> Value) (spec.md §3).
type ObjInstance struct {
	value.Header
	Class  *ObjClass
	Fields *Table
}

func NewInstance(class *ObjClass) *ObjInstance {
	return &ObjInstance{Class: class, Fields: NewTable()}
}

func (i *ObjInstance) ObjKind() value.ObjKind { return value.ObjKindInstance }
func (i *ObjInstance) String() string         { return i.Class.Name.Chars + " instance" }

// ObjBoundMethod is a captured receiver Value + the closure of the method
// bound to it (spec.md §3), produced by GET_PROPERTY/GET_SUPER when the
// looked-up name resolves to a method rather than a field.
type ObjBoundMethod struct {
	value.Header
	Receiver value.Value
	Method   *ObjClosure
}

func (b *ObjBoundMethod) ObjKind() value.ObjKind { return value.ObjKindBoundMethod }
func (b *ObjBoundMethod) String() string         { return b.Method.String() }

var (
	_ value.Obj = (*ObjClass)(nil)
	_ value.Obj = (*ObjInstance)(nil)
	_ value.Obj = (*ObjBoundMethod)(nil)
)
