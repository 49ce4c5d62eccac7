package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bramblelang/bramble/pkg/bramble/ast"
)

// Value is any runtime value bramble can produce: nil, bool, float64,
// string, or one of the Callable/Instance types below.
type Value any

// Callable is implemented by anything invocable with the call syntax:
// native functions, user functions/closures, and classes.
type Callable interface {
	Value
	Arity() int
	Call(i *Interpreter, arguments []Value) (Value, error)
	String() string
}

// NativeFunction wraps host-implemented functionality, e.g. clock().
type NativeFunction struct {
	name  string
	arity int
	fn    func(i *Interpreter, arguments []Value) (Value, error)
}

func NewNativeFunction(name string, arity int, fn func(i *Interpreter, arguments []Value) (Value, error)) *NativeFunction {
	return &NativeFunction{name: name, arity: arity, fn: fn}
}

func (n *NativeFunction) Arity() int { return n.arity }

func (n *NativeFunction) Call(i *Interpreter, arguments []Value) (Value, error) {
	return n.fn(i, arguments)
}

func (n *NativeFunction) String() string { return "<native fn " + n.name + ">" }

// Function is a user-defined function or closure: an immutable pairing
// of the declaration AST node and the environment captured at the
// definition site.
type Function struct {
	declaration   *ast.Function
	closure       *Environment
	isInitializer bool
}

func NewFunction(declaration *ast.Function, closure *Environment, isInitializer bool) *Function {
	return &Function{declaration: declaration, closure: closure, isInitializer: isInitializer}
}

func (f *Function) Arity() int { return len(f.declaration.Params) }

func (f *Function) String() string { return "<fn " + f.declaration.Name.Lexeme + ">" }

// Bind returns a copy of f whose closure wraps a fresh frame defining
// "this" as instance — a bound method.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnclosedEnvironment(f.closure)
	env.Define("this", instance)
	return NewFunction(f.declaration, env, f.isInitializer)
}

func (f *Function) Call(i *Interpreter, arguments []Value) (Value, error) {
	env := NewEnclosedEnvironment(f.closure)
	for idx, param := range f.declaration.Params {
		env.Define(param.Lexeme, arguments[idx])
	}

	value, isReturn, err := i.executeBlock(f.declaration.Body, env)
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		this, _ := f.closure.GetAt(0, "this")
		return this, nil
	}
	if isReturn {
		return value, nil
	}
	return nil, nil
}

// Class is an immutable record of a class's name, optional superclass,
// and method table.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

func (c *Class) String() string { return c.Name }

// FindMethod looks up name in c's method table, walking the superclass
// chain if necessary.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(i *Interpreter, arguments []Value) (Value, error) {
	instance := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(i, arguments); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a mutable open record: a class reference plus a field map
// populated lazily on first assignment.
type Instance struct {
	class  *Class
	fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: map[string]Value{}}
}

func (inst *Instance) String() string { return inst.class.Name + " instance" }

func (inst *Instance) Get(name string) (Value, bool) {
	if v, ok := inst.fields[name]; ok {
		return v, true
	}
	if m := inst.class.FindMethod(name); m != nil {
		return m.Bind(inst), true
	}
	return nil, false
}

func (inst *Instance) Set(name string, value Value) {
	inst.fields[name] = value
}

// IsTruthy implements bramble's truthiness rule: only nil and false are
// falsy; everything else, including 0 and the empty string, is truthy.
func IsTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// IsEqual implements bramble's equality rule.
func IsEqual(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

// Stringify implements the value stringification rule used by print and
// error messages.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
