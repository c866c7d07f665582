package ir

import (
	"path"
	"reflect"
	"strings"
)

// Type names the declared type of a variable.
// The matching engine narrows its candidate set by this name.
type Type string

// AnyType is the unconstrained type. It matches every fact, which is legal
// but forces the engine to consider all instances of all types.
const AnyType Type = "any"

// TypeOf returns the Type name for T.
// Named types render as "<package>.<Name>" with type arguments dropped, so
// tuple.Bi[string, int] is "tuple.Bi"; slices render as "[]<elem>".
func TypeOf[T any]() Type {
	return Type(typeName(reflect.TypeOf((*T)(nil)).Elem()))
}

// CollectionOf returns the Type of a collection of elem.
func CollectionOf(elem Type) Type {
	return "[]" + elem
}

func typeName(t reflect.Type) string {
	if t.Name() == "" {
		switch t.Kind() {
		case reflect.Interface:
			if t.NumMethod() == 0 {
				return string(AnyType)
			}
		case reflect.Slice:
			return "[]" + typeName(t.Elem())
		}
		return t.String()
	}

	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if pkg := t.PkgPath(); pkg != "" {
		name = path.Base(pkg) + "." + name
	}
	return name
}

// DeclarationSource records where a variable's values come from.
//
// This is a sealed interface: Matched and From are the only sources. The
// engine owns the semantics; the compiler only requests the tag.
type DeclarationSource interface {
	declarationSource()
}

// Matched marks a variable whose values are matched freshly from working
// memory.
type Matched struct{}

func (Matched) declarationSource() {}

// From marks a variable whose values are drawn from the collection bound to
// another variable.
type From struct {
	Var string `json:"var"` // name of the source variable
}

func (From) declarationSource() {}

// FromVariable returns a From source for v.
func FromVariable[T any](v Variable[T]) From {
	return From{Var: v.Name()}
}

// Declaration is the untyped record of a variable: the form stored inside
// rule items and rendered by the emitter.
type Declaration struct {
	Name   string
	Type   Type
	Source DeclarationSource
}

// IsDerived reports whether the declaration is drawn from another variable.
func (d Declaration) IsDerived() bool {
	_, ok := d.Source.(From)
	return ok
}

// Variable is a typed handle on a Declaration.
// T only exists at compile time; it keeps binding expressions and tuple
// projections type-checked.
type Variable[T any] struct {
	decl Declaration
}

// DeclarationOf declares a new variable of Go type T.
// A nil src declares a freshly matched variable.
func DeclarationOf[T any](typ Type, name string, src DeclarationSource) Variable[T] {
	if src == nil {
		src = Matched{}
	}
	return Variable[T]{decl: Declaration{Name: name, Type: typ, Source: src}}
}

// Name returns the variable name.
func (v Variable[T]) Name() string { return v.decl.Name }

// Type returns the declared type.
func (v Variable[T]) Type() Type { return v.decl.Type }

// Source returns the declaration source.
func (v Variable[T]) Source() DeclarationSource { return v.decl.Source }

// Declaration returns the untyped declaration.
func (v Variable[T]) Declaration() Declaration { return v.decl }
