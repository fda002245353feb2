// Package ast defines the syntax tree the external parser produces and the
// checker and compiler consume. The node set is closed; consumers switch
// exhaustively over it.
package ast

import (
	"github.com/abra-lang/abra/internal/typesystem"
)

// Item is a top-level declaration: a class or a function.
type Item interface {
	isItem()
}

// Class declares a user-defined type with fields and methods.
type Class struct {
	Name    string
	Fields  []FieldDecl
	Methods []*Function
}

func (*Class) isItem() {}

// FieldDecl is one class field with its declared type and default literal.
type FieldDecl struct {
	Name    string
	Type    typesystem.Type
	Default StaticValue
}

// Function declares a free function or a class method.
type Function struct {
	Name   string
	Params []Parameter
	Return typesystem.Type
	Body   []Statement
}

func (*Function) isItem() {}

// Parameter is one typed function parameter.
type Parameter struct {
	Name string
	Type typesystem.Type
}

// Statement is any executable statement.
type Statement interface {
	isStatement()
}

// Declare introduces a new typed binding initialized from Value.
type Declare struct {
	Name  string
	Type  typesystem.Type
	Value Expression
}

// Set assigns to an already-declared variable.
type Set struct {
	Name  string
	Value Expression
}

// SetMember assigns to a named field through a reference expression.
type SetMember struct {
	Target Expression
	Member string
	Value  Expression
}

// SetIndex assigns through an array index or map key.
type SetIndex struct {
	Target Expression
	Key    Expression
	Value  Expression
}

// ExpressionStmt evaluates an expression for its effects.
type ExpressionStmt struct {
	Expr Expression
}

// Print evaluates an expression and displays the result.
type Print struct {
	Expr Expression
}

// Return leaves the enclosing function; Value may be nil.
type Return struct {
	Value Expression
}

// If is a conditional with an optional else branch (nil when absent).
type If struct {
	Cond Expression
	Then []Statement
	Else []Statement
}

// For is a C-style loop: init statement, condition, post statement, body.
type For struct {
	Init Statement
	Cond Expression
	Post Statement
	Body []Statement
}

// NullStmt is an empty statement.
type NullStmt struct{}

func (*Declare) isStatement()        {}
func (*Set) isStatement()            {}
func (*SetMember) isStatement()      {}
func (*SetIndex) isStatement()       {}
func (*ExpressionStmt) isStatement() {}
func (*Print) isStatement()          {}
func (*Return) isStatement()         {}
func (*If) isStatement()             {}
func (*For) isStatement()            {}
func (*NullStmt) isStatement()       {}

// Expression is any value-producing expression.
type Expression interface {
	isExpression()
}

// Identifier resolves a variable by name.
type Identifier struct {
	Name string
}

// Literal is a static value baked into the source.
type Literal struct {
	Value StaticValue
}

// Unary applies NEG or NOT to a single operand.
type Unary struct {
	Op      UnaryOp
	Operand Expression
}

// Binary applies a binary operator; Left and Right keep source order.
type Binary struct {
	Op    BinOp
	Left  Expression
	Right Expression
}

// Grouping is a parenthesized expression.
type Grouping struct {
	Expr Expression
}

// Call invokes a function from the global call namespace.
type Call struct {
	Name string
	Args []Expression
}

// Get accesses a named member of the base expression.
type Get struct {
	Member string
	Base   Expression
}

// Index accesses an array element or map entry of the base expression.
type Index struct {
	Base Expression
	Key  Expression
}

// Instance constructs a new value of Type from the given arguments.
type Instance struct {
	Type typesystem.Type
	Args []Expression
}

func (*Identifier) isExpression() {}
func (*Literal) isExpression()    {}
func (*Unary) isExpression()      {}
func (*Binary) isExpression()     {}
func (*Grouping) isExpression()   {}
func (*Call) isExpression()       {}
func (*Get) isExpression()        {}
func (*Index) isExpression()      {}
func (*Instance) isExpression()   {}
