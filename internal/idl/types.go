package idl

import json "github.com/goccy/go-json"

// Type is a type expression. The set of implementations is closed.
type Type interface {
	isType()
}

// Scalar is a primitive type named by its IDL spelling.
type Scalar string

const (
	ScalarBool   Scalar = "bool"
	ScalarU8     Scalar = "u8"
	ScalarI8     Scalar = "i8"
	ScalarU16    Scalar = "u16"
	ScalarI16    Scalar = "i16"
	ScalarU32    Scalar = "u32"
	ScalarI32    Scalar = "i32"
	ScalarF32    Scalar = "f32"
	ScalarU64    Scalar = "u64"
	ScalarI64    Scalar = "i64"
	ScalarF64    Scalar = "f64"
	ScalarU128   Scalar = "u128"
	ScalarI128   Scalar = "i128"
	ScalarU256   Scalar = "u256"
	ScalarI256   Scalar = "i256"
	ScalarBytes  Scalar = "bytes"
	ScalarString Scalar = "string"
	ScalarPubkey Scalar = "pubkey"
)

var knownScalars = map[Scalar]struct{}{
	ScalarBool: {}, ScalarU8: {}, ScalarI8: {}, ScalarU16: {}, ScalarI16: {}, ScalarU32: {}, ScalarI32: {}, ScalarF32: {},
	ScalarU64: {}, ScalarI64: {}, ScalarF64: {}, ScalarU128: {}, ScalarI128: {}, ScalarU256: {}, ScalarI256: {},
	ScalarBytes: {}, ScalarString: {}, ScalarPubkey: {},
}

// IsScalar reports whether name is a known scalar spelling.
func IsScalar(name string) bool {
	_, ok := knownScalars[Scalar(name)]
	return ok
}

// Option is Option<T>.
type Option struct{ Inner Type }

// COption is the fixed-size C-compatible option used by SPL programs.
type COption struct{ Inner Type }

// Vec is a dynamically sized sequence.
type Vec struct{ Inner Type }

// Array is a fixed-size array. Its length is either a literal or the name of a
// const generic parameter.
type Array struct {
	Elem Type
	Len  ArrayLen
}

// ArrayLen is Value when Generic is empty.
type ArrayLen struct {
	Value   int
	Generic string
}

// IsGeneric reports whether the length refers to a generic parameter.
func (l ArrayLen) IsGeneric() bool { return l.Generic != "" }

// Defined references a user-declared type, optionally parameterised.
type Defined struct {
	Name     string
	Generics []GenericArg
}

// GenericArg is either a type (Type != nil) or a const value.
type GenericArg struct {
	Type  Type
	Value string
}

// IsConst reports whether the argument is a const value.
func (g GenericArg) IsConst() bool { return g.Type == nil }

// Generic is an unbound type parameter.
type Generic struct{ Name string }

// Unknown holds a type form this package does not model.
type Unknown struct{ Raw json.RawMessage }

func (Scalar) isType() {}
func (Option) isType() {}
func (COption) isType() {}
func (Vec) isType() {}
func (Array) isType() {}
func (Defined) isType() {}
func (Generic) isType() {}
func (Unknown) isType() {}
