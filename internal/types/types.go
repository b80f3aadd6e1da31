// Package types defines the resolved type language (Ty) the semantic
// analyzer and IR translator operate on, distinct from the unresolved type
// syntax (ast.TypeAST) that names it.
package types

import (
	"fmt"

	"github.com/google/uuid"
)

// Ty is any resolved type. Record and array types additionally carry an
// Identity, generated once per declaration (see NewIdentity) and never
// regenerated; two record or array types are the same nominal type iff
// their identities compare equal.
type Ty interface {
	fmt.Stringer
	isTy()
}

// Identity is the opaque per-declaration token that makes two structurally
// identical record or array declarations distinct types. It's a
// github.com/google/uuid.UUID rather than a hand-rolled counter: a UUID is
// directly comparable with ==, costs nothing to generate, and can never
// collide across a run the way a reused counter could after a bug in scope
// bookkeeping.
type Identity = uuid.UUID

// NewIdentity mints a fresh identity for a record or array declaration.
func NewIdentity() Identity { return uuid.New() }

// TNil, TInt, TStr and TUnit are the primitive types.
type (
	TNil  struct{}
	TInt  struct{}
	TStr  struct{}
	TUnit struct{}
)

func (TNil) isTy()  {}
func (TInt) isTy()  {}
func (TStr) isTy()  {}
func (TUnit) isTy() {}

func (TNil) String() string  { return "nil" }
func (TInt) String() string  { return "int" }
func (TStr) String() string  { return "string" }
func (TUnit) String() string { return "unit" }

// TArr is an array type over Elem, identified by ID.
type TArr struct {
	Elem Ty
	ID   Identity
}

func (TArr) isTy() {}
func (t TArr) String() string { return fmt.Sprintf("array of %s", t.Elem) }

// RecField is one field of a record type, in declaration order.
type RecField struct {
	Name string
	Type Ty
}

// TRec is a record type, identified by ID. Field order is significant for
// both record-literal matching and offset computation in the translator.
type TRec struct {
	Fields []RecField
	ID     Identity
}

func (TRec) isTy() {}
func (t TRec) String() string {
	s := "{"
	for i, f := range t.Fields {
		if i > 0 {
			s += ", "
		}
		s += f.Name + ": " + f.Type.String()
	}
	return s + "}"
}

// FieldIndex returns the ordinal of the named field, or -1 if absent.
func (t TRec) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// TName is a deferred alias: Body is nil exactly while the name is declared
// but not yet resolved (legal only transiently while resolving a mutually
// recursive type group). TName is always used through a pointer so that
// every reference captured during a group's first pass — a record field, an
// array element, another alias — observes the Body filled in by the second
// pass. A TName copied by value would freeze the nil sentinel forever.
type TName struct {
	Sym  string
	Body Ty // nil means unresolved
}

func (*TName) isTy() {}
func (t *TName) String() string {
	if t.Body == nil {
		return t.Sym + " (unresolved)"
	}
	return t.Sym
}

// Subtypes reports whether sub is a subtype of sup: reflexive on every
// variant, plus Nil <: Rec(_). Aliases on either side are unwrapped first,
// so a record field typed through a recursive TName compares like the
// record type it resolves to.
func Subtypes(sub, sup Ty) bool {
	sub = Unwrap(sub)
	sup = Unwrap(sup)

	if _, ok := sub.(TNil); ok {
		if _, ok := sup.(TRec); ok {
			return true
		}
	}

	switch a := sub.(type) {
	case TNil:
		_, ok := sup.(TNil)
		return ok
	case TInt:
		_, ok := sup.(TInt)
		return ok
	case TStr:
		_, ok := sup.(TStr)
		return ok
	case TUnit:
		_, ok := sup.(TUnit)
		return ok
	case TArr:
		b, ok := sup.(TArr)
		return ok && a.ID == b.ID
	case TRec:
		b, ok := sup.(TRec)
		return ok && a.ID == b.ID
	}
	return false
}

// EitherSubtypes reports whether a <: b or b <: a, the rule equality uses.
func EitherSubtypes(a, b Ty) bool {
	return Subtypes(a, b) || Subtypes(b, a)
}

// Unwrap follows a TName alias chain down to the first non-alias type. It
// stops (returning the alias itself) on an unresolved Body or a revisited
// name, so it never loops on an ill-formed cycle — rejecting those is
// TypeContext.LookupFull's job, not Unwrap's.
func Unwrap(t Ty) Ty {
	seen := map[string]bool{}
	for {
		n, ok := t.(*TName)
		if !ok || n.Body == nil {
			return t
		}
		if seen[n.Sym] {
			return t
		}
		seen[n.Sym] = true
		t = n.Body
	}
}
