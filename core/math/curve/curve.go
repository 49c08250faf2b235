// Package curve abstracts the elliptic curve group used by the protocol,
// following the teacher's `curve.Curve`/`curve.Scalar`/`curve.Point`
// indirection so the round state machines never import a concrete curve
// library directly.
package curve

import (
	"github.com/cronokirby/saferith"
)

// Curve is an elliptic curve group with a distinguished generator.
type Curve interface {
	Name() string
	NewScalar() Scalar
	NewPoint() Point
	Order() *saferith.Modulus
}

// Scalar is an element of a curve's scalar field.
type Scalar interface {
	Curve() Curve
	Add(other Scalar) Scalar
	Sub(other Scalar) Scalar
	Mul(other Scalar) Scalar
	Negate() Scalar
	Invert() Scalar
	IsZero() bool
	Equal(other Scalar) bool
	Set(other Scalar) Scalar
	SetNat(n *saferith.Nat) Scalar
	SetNat64(n uint64) Scalar
	ActOnBase() Point
	Act(p Point) Point
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
}

// Point is an element of a curve's point group.
type Point interface {
	Curve() Curve
	Add(other Point) Point
	Negate() Point
	Equal(other Point) bool
	IsIdentity() bool
	XScalar() Scalar
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
}

// MakeInt converts a Scalar to a saferith.Int, matching the teacher's
// `curve.MakeInt(share)` helper used when Paillier-encrypting VSS shares.
func MakeInt(s Scalar) *saferith.Int {
	b, err := s.MarshalBinary()
	if err != nil {
		return new(saferith.Int)
	}
	nat := new(saferith.Nat).SetBytes(b)
	return new(saferith.Int).SetNat(nat)
}
