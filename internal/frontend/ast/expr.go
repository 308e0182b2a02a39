package ast

import (
	"csr/internal/meta"
	"csr/internal/tokens"
	"csr/internal/types"
)

// expression carries the fields shared by every expression node: the anchor
// token and the return type slot filled in during evaluation.
type expression struct {
	Tok tokens.Token
	typ types.Type
}

func (e *expression) INode()               {}
func (e *expression) Expr()                {}
func (e *expression) Token() *tokens.Token { return &e.Tok }

func (e *expression) ReturnType() types.Type     { return e.typ }
func (e *expression) SetReturnType(t types.Type) { e.typ = t }

// Constant is a literal. The lexeme is kept verbatim until evaluation parses
// it; afterwards exactly one of the value fields matches the return type.
type Constant struct {
	expression
	Kind      types.PrimitiveKind
	BoolVal   bool
	IntVal    int32
	DoubleVal float64
	StrVal    string
}

// NewBoolConstant builds an already-evaluated bool constant.
func NewBoolConstant(tok tokens.Token, v bool) *Constant {
	c := &Constant{Kind: types.Bool, BoolVal: v}
	c.Tok = tok
	c.SetReturnType(types.TypeBool)
	return c
}

// NewIntConstant builds an already-evaluated int constant.
func NewIntConstant(tok tokens.Token, v int32) *Constant {
	c := &Constant{Kind: types.Int, IntVal: v}
	c.Tok = tok
	c.SetReturnType(types.TypeInt)
	return c
}

// NewDoubleConstant builds an already-evaluated double constant.
func NewDoubleConstant(tok tokens.Token, v float64) *Constant {
	c := &Constant{Kind: types.Double, DoubleVal: v}
	c.Tok = tok
	c.SetReturnType(types.TypeDouble)
	return c
}

// NewStringConstant builds an already-evaluated string constant. The value
// holds the unescaped text.
func NewStringConstant(tok tokens.Token, v string) *Constant {
	c := &Constant{Kind: types.String, StrVal: v}
	c.Tok = tok
	c.SetReturnType(types.TypeString)
	return c
}

// VariableRef names a variable or an external static field. Parts holds the
// dotted name split on dots; a plain identifier has a single part. Exactly
// one of Decl and Field is set by evaluation.
type VariableRef struct {
	expression
	Parts []string
	Decl  *VarDecl
	Field *meta.FieldDescriptor
}

// Name returns the dotted name as written.
func (v *VariableRef) Name() string {
	if len(v.Parts) == 1 {
		return v.Parts[0]
	}
	name := v.Parts[0]
	for _, p := range v.Parts[1:] {
		name += "." + p
	}
	return name
}

// Indexer is an array element access with one expression per dimension.
type Indexer struct {
	expression
	Target  *VariableRef
	Indices []Expression
}

// Call is a function or external method invocation. Evaluation resolves it
// to either a user function or a library method.
type Call struct {
	expression
	Callee *VariableRef
	Args   []Expression
	Func   *FuncDecl
	Method *meta.MethodDescriptor
}

// Unary applies - or ! to a single operand.
type Unary struct {
	expression
	Op      UnaryOp
	Operand Expression
}

// Cast converts its operand to a primitive type. The parser builds casts for
// the explicit cast form; evaluation inserts implicit int to double casts.
type Cast struct {
	expression
	Target  types.PrimitiveKind
	Operand Expression
}

// NewImplicitCast wraps an expression in an int to double widening inserted
// during evaluation.
func NewImplicitCast(operand Expression) *Cast {
	c := &Cast{Target: types.Double, Operand: operand}
	c.Tok = *operand.Token()
	c.SetReturnType(types.TypeDouble)
	return c
}

// Binary applies a binary operator to two operands.
type Binary struct {
	expression
	Op    BinaryOp
	Left  Expression
	Right Expression
}
