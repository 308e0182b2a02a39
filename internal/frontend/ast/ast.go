package ast

import (
	"csr/internal/tokens"
	"csr/internal/types"
)

// Node is the common interface of every syntax tree node.
type Node interface {
	INode()
	// Token returns the token the node is anchored on, for diagnostics.
	Token() *tokens.Token
}

// Expression is a node that produces a value. The return type slot is
// assigned during semantic evaluation; it is never nil afterwards, though it
// may be the unsupported sentinel.
type Expression interface {
	Node
	Expr()
	ReturnType() types.Type
	SetReturnType(t types.Type)
}

// Statement is a node executed for effect. Returns reports whether every
// execution path through the statement reaches a return; it is meaningful
// only after semantic evaluation.
type Statement interface {
	Node
	Stmt()
	Returns() bool
}

// FuncScope is implemented by the local scope attached to a function
// declaration during parsing. Declared here so the tree does not
// depend on the scope package.
type FuncScope interface {
	FuncScope()
}
