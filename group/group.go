// Package group provides a prime-order group abstraction over the curve
// implementations of github.com/cloudflare/circl. Scalars surface as
// *big.Int and are converted at the circl boundary; elements carry their
// group handle so cross-group mixups fail fast.
package group

import (
	"io"
	"math/big"
)

// Element represents an element of a prime-order group.
type Element interface {
	// Add sets the receiver to X + Y, and returns it.
	Add(X, Y Element) Element
	// Subtract sets the receiver to X - Y, and returns it.
	Subtract(X, Y Element) Element
	// Negate sets the receiver to -X, and returns it.
	Negate(X Element) Element
	// Scale sets the receiver to s*X, and returns it. The scalar is
	// reduced modulo the group order; negative values are accepted.
	Scale(X Element, s *big.Int) Element
	// BaseScale sets the receiver to s*G for the group generator G,
	// and returns it.
	BaseScale(s *big.Int) Element
	// Set sets the receiver to X, and returns it.
	Set(X Element) Element
	// Copy returns an independent copy of the receiver.
	Copy() Element
	// Equal returns true if the receiver is equal to X.
	Equal(X Element) bool
	// IsIdentity returns true if the receiver is the identity element.
	IsIdentity() bool
	// Encode returns the canonical byte encoding of the element.
	Encode() []byte
	// Decode sets the receiver to the element encoded in b. It fails if
	// b is not the canonical encoding of a group element; a nil error
	// therefore doubles as a prime-order subgroup membership check.
	Decode(b []byte) error
	// String returns a hex representation of the element.
	String() string
}

// Group represents a prime-order group.
type Group interface {
	// Name returns the name of the group.
	Name() string

	// Element creates a new element set to the identity.
	Element() Element
	// Generator creates an element set to the group's generator.
	Generator() Element
	// Identity creates an element set to the identity element.
	Identity() Element

	// Random returns r*G for a scalar r sampled uniformly from rnd.
	Random(rnd io.Reader) Element

	// Order returns the prime order of the group.
	Order() *big.Int
	// FieldOrder returns the order of the field over which the group
	// is defined.
	FieldOrder() *big.Int

	// PointLen returns the length in bytes of the canonical encoding of
	// a non-identity element.
	PointLen() int

	// MapToGroup hashes msg to a group element with uniform distribution
	// and unknown discrete logarithm, domain-separated by dst.
	MapToGroup(msg, dst []byte) Element
}
