// Package resolver performs the static pass between parsing and
// evaluation: it computes, for every local variable reference, the
// number of enclosing scopes between the reference and its defining
// scope, and enforces the language's scope-related compile errors.
package resolver

import (
	"github.com/bramblelang/bramble/pkg/bramble/ast"
	"github.com/bramblelang/bramble/pkg/bramble/errors"
	"github.com/bramblelang/bramble/pkg/bramble/lexer"
)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnInitializer
	fnMethod
)

type classType int

const (
	clsNone classType = iota
	clsClass
	clsSubclass
)

// Locals maps a resolved expression node to its hop-count distance.
// Keyed by node identity: two distinct *ast.Variable allocations are
// never equal even with identical fields, so a plain pointer-keyed map
// reproduces the identity-keyed table without a synthetic id field.
type Locals map[ast.Expr]int

// Resolver walks the parsed statement list, annotating Locals and
// reporting scope violations through the shared Reporter. It performs
// no execution.
type Resolver struct {
	reporter *errors.Reporter
	locals   Locals
	scopes   []map[string]bool

	currentFunction functionType
	currentClass    classType
}

// New returns a Resolver that reports through reporter.
func New(reporter *errors.Reporter) *Resolver {
	return &Resolver{reporter: reporter, locals: Locals{}}
}

// Resolve walks the full program and returns the completed hop-count
// table. Call only after confirming the reporter has no compile errors.
func (r *Resolver) Resolve(statements []ast.Stmt) Locals {
	r.resolveStmts(statements)
	return r.locals
}

func (r *Resolver) resolveStmts(statements []ast.Stmt) {
	for _, s := range statements {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *ast.Class:
		r.resolveClass(s)
	case *ast.Expression:
		r.resolveExpr(s.Expression)
	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)
	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}
	case *ast.Print:
		r.resolveExpr(s.Expression)
	case *ast.Return:
		if r.currentFunction == fnNone {
			r.reportAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == fnInitializer {
				r.reportAt(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.While:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	}
}

func (r *Resolver) resolveClass(s *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = clsClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.reportAt(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = clsSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		declType := fnMethod
		if method.Name.Lexeme == "init" {
			declType = fnInitializer
		}
		r.resolveFunction(method, declType)
	}

	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.Function, t functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = t

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.Grouping:
		r.resolveExpr(e.Expression)
	case *ast.Literal:
		// no-op
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Super:
		if r.currentClass == clsNone {
			r.reportAt(e.Keyword, "Can't use 'super' outside of a class.")
		} else if r.currentClass != clsSubclass {
			r.reportAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.This:
		if r.currentClass == clsNone {
			r.reportAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.reportAt(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	}
}

func (r *Resolver) resolveLocal(expr ast.Expr, name lexer.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any scope: assumed global, no entry recorded.
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name lexer.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.reportAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name lexer.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) reportAt(tok lexer.Token, message string) {
	where := " at '" + tok.Lexeme + "'"
	if tok.Type == lexer.EOF {
		where = " at end"
	}
	r.reporter.Compile(errors.ClassResolve, "scope-error", tok.Line, where, message)
}
