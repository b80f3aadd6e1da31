package ast

// Node is the base interface implemented by every AST node.
type Node interface {
	GetSpan() Span
}

// Decl is a top-level or let-bound declaration.
type Decl interface {
	Node
	declNode()
}

// Expr is any expression form.
type Expr interface {
	Node
	exprNode()
}

// LValue is an assignable/addressable location: a bare variable, a record
// field projection, or an array index.
type LValue interface {
	Node
	lvalueNode()
}

// TypeAST is the syntax of a type reference appearing in a `type` declaration
// body or a field/param annotation.
type TypeAST interface {
	Node
	typeNode()
}

// ---- Declarations ----------------------------------------------------

// FunDecGroup is a maximal run of consecutive `function` declarations,
// treated as one mutually-recursive group.
type FunDecGroup struct {
	Sp   Span
	Funs []*FunDec
}

func (d *FunDecGroup) GetSpan() Span { return d.Sp }
func (d *FunDecGroup) declNode()     {}

// FunDec is a single function header + body within a FunDecGroup.
type FunDec struct {
	Sp     Span
	Name   string
	Params []*Field
	Result string // "" means no annotation (Unit)
	Body   Expr
}

func (d *FunDec) GetSpan() Span { return d.Sp }

// Field is a formal parameter or record field declaration: `name : type`.
type Field struct {
	Sp     Span
	Name   string
	Type   string
	Escape bool
}

func (f *Field) GetSpan() Span { return f.Sp }

// VarDec is `var name [: type] := init`.
type VarDec struct {
	Sp      Span
	Name    string
	Type    string // "" means no annotation
	HasType bool
	Init    Expr
	Escape  bool
}

func (d *VarDec) GetSpan() Span { return d.Sp }
func (d *VarDec) declNode()     {}

// TypeDecGroup is a maximal run of consecutive `type` declarations.
type TypeDecGroup struct {
	Sp    Span
	Types []*TypeDec
}

func (d *TypeDecGroup) GetSpan() Span { return d.Sp }
func (d *TypeDecGroup) declNode()     {}

// TypeDec is a single `type name = body` within a TypeDecGroup.
type TypeDec struct {
	Sp   Span
	Name string
	Body TypeAST
}

func (d *TypeDec) GetSpan() Span { return d.Sp }

// ---- Type syntax -------------------------------------------------------

// NameType is a bare type reference: `type a = b`.
type NameType struct {
	Sp   Span
	Name string
}

func (t *NameType) GetSpan() Span { return t.Sp }
func (t *NameType) typeNode()     {}

// RecordType is `type a = { f1: t1, f2: t2, ... }`.
type RecordType struct {
	Sp     Span
	Fields []*Field
}

func (t *RecordType) GetSpan() Span { return t.Sp }
func (t *RecordType) typeNode()     {}

// ArrayType is `type a = array of elem`.
type ArrayType struct {
	Sp   Span
	Elem string
}

func (t *ArrayType) GetSpan() Span { return t.Sp }
func (t *ArrayType) typeNode()     {}

// ---- L-values ------------------------------------------------------------

// SimpleVar is a bare variable reference.
type SimpleVar struct {
	Sp   Span
	Name string
}

func (v *SimpleVar) GetSpan() Span { return v.Sp }
func (v *SimpleVar) lvalueNode()   {}

// FieldVar is `lvalue.field`.
type FieldVar struct {
	Sp    Span
	Rec   LValue
	Field string
}

func (v *FieldVar) GetSpan() Span { return v.Sp }
func (v *FieldVar) lvalueNode()   {}

// IndexVar is `lvalue[index]`.
type IndexVar struct {
	Sp    Span
	Arr   LValue
	Index Expr
}

func (v *IndexVar) GetSpan() Span { return v.Sp }
func (v *IndexVar) lvalueNode()   {}

// ---- Program root ----------------------------------------------------

// Program wraps the single top-level expression every compilation unit is.
type Program struct {
	Body Expr
}
