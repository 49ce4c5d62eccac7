// Package interpreter walks the resolved AST and executes it. It holds
// the global environment, the current environment, and the resolver's
// hop-count side table, and reports runtime faults through the shared
// Reporter.
package interpreter

import (
	"fmt"
	"io"
	"time"

	"github.com/bramblelang/bramble/pkg/bramble/ast"
	"github.com/bramblelang/bramble/pkg/bramble/errors"
	"github.com/bramblelang/bramble/pkg/bramble/lexer"
	"github.com/bramblelang/bramble/pkg/bramble/resolver"
)

// Interpreter executes a resolved statement list. return unwinding is
// implemented as an explicit result variant rather than exceptions:
// every statement-execution method returns (value, isReturn, err).
type Interpreter struct {
	globals  *Environment
	env      *Environment
	locals   resolver.Locals
	reporter *errors.Reporter
	out      io.Writer
}

// New returns an Interpreter whose print statements write to out and
// whose diagnostics are reported through reporter. The global
// environment is pre-populated with the native clock() function.
func New(reporter *errors.Reporter, out io.Writer) *Interpreter {
	globals := NewEnvironment()
	i := &Interpreter{globals: globals, env: globals, reporter: reporter, out: out}
	i.defineNatives()
	return i
}

func (i *Interpreter) defineNatives() {
	natives := map[string]*NativeFunction{
		"clock": NewNativeFunction("clock", 0, func(_ *Interpreter, _ []Value) (Value, error) {
			return float64(time.Now().UnixNano()) / 1e9, nil
		}),
	}
	for name, fn := range natives {
		i.globals.Define(name, fn)
	}
}

// Interpret executes statements using locals as the resolver's hop-count
// table. Call only once the reporter has no compile errors recorded.
// A runtime fault is reported through the Reporter and returned so the
// caller (file driver or REPL) can react, but the interpreter itself
// does not exit the process.
func (i *Interpreter) Interpret(statements []ast.Stmt, locals resolver.Locals) error {
	i.locals = locals
	for _, stmt := range statements {
		_, _, err := i.execute(stmt)
		if err != nil {
			if rte, ok := err.(*errors.RuntimeError); ok {
				i.reporter.Runtime(rte.Line, rte.Message)
			} else {
				i.reporter.Runtime(0, err.Error())
			}
			return err
		}
	}
	return nil
}

func runtimeErr(tok lexer.Token, format string, args ...any) *errors.RuntimeError {
	return &errors.RuntimeError{Line: tok.Line, Message: fmt.Sprintf(format, args...)}
}

// execute runs one statement, returning (pending-return-value, isReturn,
// error). isReturn is true exactly when a Return statement anywhere
// inside stmt's evaluation has not yet been consumed by its enclosing
// function call.
func (i *Interpreter) execute(stmt ast.Stmt) (Value, bool, error) {
	switch s := stmt.(type) {
	case *ast.Block:
		return i.executeBlock(s.Statements, NewEnclosedEnvironment(i.env))
	case *ast.Class:
		return nil, false, i.executeClass(s)
	case *ast.Expression:
		_, err := i.evaluate(s.Expression)
		return nil, false, err
	case *ast.Function:
		fn := NewFunction(s, i.env, false)
		i.env.Define(s.Name.Lexeme, fn)
		return nil, false, nil
	case *ast.If:
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return nil, false, err
		}
		if IsTruthy(cond) {
			return i.execute(s.ThenBranch)
		} else if s.ElseBranch != nil {
			return i.execute(s.ElseBranch)
		}
		return nil, false, nil
	case *ast.Print:
		value, err := i.evaluate(s.Expression)
		if err != nil {
			return nil, false, err
		}
		fmt.Fprintln(i.out, Stringify(value))
		return nil, false, nil
	case *ast.Return:
		var value Value
		if s.Value != nil {
			v, err := i.evaluate(s.Value)
			if err != nil {
				return nil, false, err
			}
			value = v
		}
		return value, true, nil
	case *ast.Var:
		var value Value
		if s.Initializer != nil {
			v, err := i.evaluate(s.Initializer)
			if err != nil {
				return nil, false, err
			}
			value = v
		}
		i.env.Define(s.Name.Lexeme, value)
		return nil, false, nil
	case *ast.While:
		for {
			cond, err := i.evaluate(s.Condition)
			if err != nil {
				return nil, false, err
			}
			if !IsTruthy(cond) {
				return nil, false, nil
			}
			value, isReturn, err := i.execute(s.Body)
			if err != nil || isReturn {
				return value, isReturn, err
			}
		}
	}
	return nil, false, nil
}

// executeBlock runs statements under env, restoring the prior current
// environment on every exit path including an unwinding return or error.
func (i *Interpreter) executeBlock(statements []ast.Stmt, env *Environment) (Value, bool, error) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range statements {
		value, isReturn, err := i.execute(stmt)
		if err != nil || isReturn {
			return value, isReturn, err
		}
	}
	return nil, false, nil
}

func (i *Interpreter) executeClass(s *ast.Class) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := i.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return runtimeErr(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	i.env.Define(s.Name.Lexeme, nil)

	env := i.env
	if superclass != nil {
		env = NewEnclosedEnvironment(i.env)
		env.Define("super", superclass)
	}

	methods := map[string]*Function{}
	for _, method := range s.Methods {
		methods[method.Name.Lexeme] = NewFunction(method, env, method.Name.Lexeme == "init")
	}

	class := NewClass(s.Name.Lexeme, superclass, methods)
	return i.env.Assign(s.Name.Lexeme, class)
}

func (i *Interpreter) evaluate(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Assign:
		value, err := i.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := i.locals[e]; ok {
			i.env.AssignAt(distance, e.Name.Lexeme, value)
		} else if err := i.globals.Assign(e.Name.Lexeme, value); err != nil {
			return nil, runtimeErr(e.Name, "%s", err.Error())
		}
		return value, nil
	case *ast.Binary:
		return i.evalBinary(e)
	case *ast.Call:
		return i.evalCall(e)
	case *ast.Get:
		object, err := i.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*Instance)
		if !ok {
			return nil, runtimeErr(e.Name, "Only instances have properties.")
		}
		value, found := instance.Get(e.Name.Lexeme)
		if !found {
			return nil, runtimeErr(e.Name, "Undefined property '%s'.", e.Name.Lexeme)
		}
		return value, nil
	case *ast.Set:
		object, err := i.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*Instance)
		if !ok {
			return nil, runtimeErr(e.Name, "Only instances have fields.")
		}
		value, err := i.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(e.Name.Lexeme, value)
		return value, nil
	case *ast.Grouping:
		return i.evaluate(e.Expression)
	case *ast.Literal:
		return e.Value, nil
	case *ast.Logical:
		left, err := i.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Operator.Type == lexer.OR {
			if IsTruthy(left) {
				return left, nil
			}
		} else if !IsTruthy(left) {
			return left, nil
		}
		return i.evaluate(e.Right)
	case *ast.Super:
		distance := i.locals[e]
		superVal, _ := i.env.GetAt(distance, "super")
		super := superVal.(*Class)
		thisVal, _ := i.env.GetAt(distance-1, "this")
		this := thisVal.(*Instance)

		method := super.FindMethod(e.Method.Lexeme)
		if method == nil {
			return nil, runtimeErr(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
		}
		return method.Bind(this), nil
	case *ast.This:
		return i.lookUpVariable(e.Keyword, e)
	case *ast.Unary:
		return i.evalUnary(e)
	case *ast.Variable:
		return i.lookUpVariable(e.Name, e)
	}
	return nil, nil
}

func (i *Interpreter) lookUpVariable(name lexer.Token, expr ast.Expr) (Value, error) {
	if distance, ok := i.locals[expr]; ok {
		return i.env.GetAt(distance, name.Lexeme)
	}
	v, err := i.globals.Get(name.Lexeme)
	if err != nil {
		return nil, runtimeErr(name, "%s", err.Error())
	}
	return v, nil
}

func (i *Interpreter) evalUnary(e *ast.Unary) (Value, error) {
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case lexer.BANG:
		return !IsTruthy(right), nil
	case lexer.MINUS:
		n, ok := right.(float64)
		if !ok {
			return nil, runtimeErr(e.Operator, "Operand must be a number.")
		}
		return -n, nil
	}
	return nil, nil
}

func (i *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case lexer.PLUS:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, runtimeErr(e.Operator, "Operands must be two numbers or two strings.")
	case lexer.MINUS, lexer.SLASH, lexer.STAR, lexer.GREATER, lexer.GREATER_EQUAL, lexer.LESS, lexer.LESS_EQUAL:
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, runtimeErr(e.Operator, "Operands must be numbers.")
		}
		switch e.Operator.Type {
		case lexer.MINUS:
			return ln - rn, nil
		case lexer.SLASH:
			return ln / rn, nil // division by zero yields Inf/NaN, not an error
		case lexer.STAR:
			return ln * rn, nil
		case lexer.GREATER:
			return ln > rn, nil
		case lexer.GREATER_EQUAL:
			return ln >= rn, nil
		case lexer.LESS:
			return ln < rn, nil
		case lexer.LESS_EQUAL:
			return ln <= rn, nil
		}
	case lexer.BANG_EQUAL:
		return !IsEqual(left, right), nil
	case lexer.EQUAL_EQUAL:
		return IsEqual(left, right), nil
	}
	return nil, nil
}

func (i *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	arguments := make([]Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		v, err := i.evaluate(arg)
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, v)
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, runtimeErr(e.Paren, "Can only call functions and classes.")
	}
	if len(arguments) != callable.Arity() {
		return nil, runtimeErr(e.Paren, "Expected %d arguments but got %d.", callable.Arity(), len(arguments))
	}
	return callable.Call(i, arguments)
}
