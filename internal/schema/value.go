package schema

import "errors"

// Kind classifies a payload node.
type Kind int

const (
	// KindScalar is a terminal leaf value with no sub-fields.
	KindScalar Kind = iota
	// KindStruct is a branch exposing an ordered set of named fields.
	KindStruct
)

// Field is one named member of a struct node, in declaration order.
type Field struct {
	Name  string
	Value Value
}

// Value is one node of a structured payload. Implementations must be cheap to
// construct; traversal never mutates the underlying payload.
type Value interface {
	// Kind reports whether this node is a leaf or a branch.
	Kind() Kind
	// Fields returns the declared fields in declaration order. Empty for
	// scalars and for empty structs.
	Fields() []Field
	// Field looks up a declared field by name.
	Field(name string) (Value, bool)
	// Scalar returns the textual form of a leaf value.
	Scalar() string
}

// ErrNotStructured reports a payload that exposes no introspectable field set
// at all. Distinct from an empty structured record, which flattens to zero
// fields without error.
var ErrNotStructured = errors.New("schema: payload is not a structured record")
