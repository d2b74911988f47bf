// Package scope implements the static scope graph: a tree of Scope nodes
// built by the parser to mirror program structure (blocks, functions,
// loops, class bodies) and re-entered by the evaluator at run time. No
// scope is created at run time; a class instance keeps its fields as child
// objects in internal/value's Object.Fields instead.
package scope

import (
	"fmt"

	"github.com/mlang-dev/mlang/internal/types"
)

// Kind is a bitset of the roles a Scope plays.
type Kind uint8

const (
	// Plain indicates an ordinary block scope that carries no additional
	// kind bit: if/else bodies, nested blocks, and a for-loop's `{...}` body.
	Plain Kind = 0
	// Function marks a function or method body's top scope.
	Function Kind = 1 << iota
	// Loop marks a for-loop's init scope and a while-loop's body scope.
	Loop
	// Class marks a class body scope, or a method's body scope (methods
	// carry both Function and Class).
	Class
)

func (k Kind) Has(bit Kind) bool { return k&bit != 0 }

// Object is a named, typed storage slot: a declared variable, parameter,
// or (inside a class scope) field. It holds no runtime buffer itself —
// see internal/value.Object for that; this is the static declaration
// record the parser interns and the evaluator looks up by name.
type Object struct {
	Name    string
	Type    *types.TypeInfo
	IsConst bool
}

// Scope is one node of the static scope tree.
type Scope struct {
	Kind     Kind
	Parent   *Scope
	Children []*Scope

	Objects map[string]*Object
	Types   map[string]*types.TypeInfo
	Funcs   map[string]*types.ScriptFunc

	// ParentFunc is the ScriptFunc this scope is the body of, set only on
	// Function-kind scopes; InConstMethod reads it to tell whether the body
	// belongs to a const method. Return statements are not checked against
	// its declared return type.
	ParentFunc *types.ScriptFunc

	// Receiver is the implicit receiver type for a method scope (Function
	// and Class both set); nil otherwise.
	Receiver *types.TypeInfo
}

// New creates a root scope (no parent), typically the Engine's global
// scope for one Module.
func New(kind Kind) *Scope {
	return &Scope{
		Kind:    kind,
		Objects: make(map[string]*Object),
		Types:   make(map[string]*types.TypeInfo),
		Funcs:   make(map[string]*types.ScriptFunc),
	}
}

// NewChild creates a scope enclosed by parent, linking both directions.
func NewChild(parent *Scope, kind Kind) *Scope {
	s := New(kind)
	s.Parent = parent
	parent.Children = append(parent.Children, s)
	return s
}

// DeclareObject registers a new Object in s's own table. It returns an
// error if the name is already declared directly in s (shadowing an outer
// scope's name is allowed; redeclaring in the same scope is not).
func (s *Scope) DeclareObject(name string, typ *types.TypeInfo, isConst bool) (*Object, error) {
	if _, exists := s.Objects[name]; exists {
		return nil, fmt.Errorf("%q is already declared in this scope", name)
	}
	obj := &Object{Name: name, Type: typ, IsConst: isConst}
	s.Objects[name] = obj
	return obj, nil
}

// DeclareType registers typ under name in s's own table.
func (s *Scope) DeclareType(name string, typ *types.TypeInfo) {
	s.Types[name] = typ
}

// DeclareFunc registers fn under name in s's own table. It returns false if
// name is already registered directly in s.
func (s *Scope) DeclareFunc(name string, fn *types.ScriptFunc) bool {
	if _, exists := s.Funcs[name]; exists {
		return false
	}
	s.Funcs[name] = fn
	return true
}

// ResolveObject walks from s to the root looking for an Object named name.
func (s *Scope) ResolveObject(name string) (*Object, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if obj, ok := cur.Objects[name]; ok {
			return obj, cur, true
		}
	}
	return nil, nil, false
}

// ResolveType walks from s to the root looking for a TypeInfo named name.
func (s *Scope) ResolveType(name string) (*types.TypeInfo, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if t, ok := cur.Types[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// ResolveFunc walks from s to the root looking for a ScriptFunc named name.
func (s *Scope) ResolveFunc(name string) (*types.ScriptFunc, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if fn, ok := cur.Funcs[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// EnclosingFunction returns the nearest ancestor scope (including s) with
// the Function bit set, or nil if none exists.
func (s *Scope) EnclosingFunction() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind.Has(Function) {
			return cur
		}
	}
	return nil
}

// EnclosingLoop returns the nearest ancestor scope (including s) with the
// Loop bit set, or nil if none exists — used to validate `break`.
func (s *Scope) EnclosingLoop() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind.Has(Loop) {
			return cur
		}
	}
	return nil
}

// EnclosingReceiver returns the receiver type of the nearest ancestor
// Class-kind scope (including s), or nil if s is not inside a method body.
func (s *Scope) EnclosingReceiver() *types.TypeInfo {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind.Has(Class) && cur.Receiver != nil {
			return cur.Receiver
		}
	}
	return nil
}

// InConstMethod reports whether s is lexically inside a const method body.
func (s *Scope) InConstMethod() bool {
	fnScope := s.EnclosingFunction()
	return fnScope != nil && fnScope.ParentFunc != nil && fnScope.ParentFunc.IsConstMethod
}
