// Package types holds small wire-level value types shared across the
// protocol packages, mirroring the teacher's `lib/types` import path used
// from protocols/cmp/keygen.
package types

import "github.com/pkg/errors"

// RIDSize is the width of a round identifier / chain-key value in bytes.
const RIDSize = 32

// RID is a random identifier: each party contributes one during keygen,
// and the joint RID is their XOR (round3.go: "RID = ⊕ⱼ RIDⱼ").
type RID [RIDSize]byte

// EmptyRID returns the all-zero RID, the identity element of XOR.
func EmptyRID() RID {
	return RID{}
}

// Validate reports whether r looks well-formed. RID is a fixed-size array
// so this only guards against an accidentally empty value post-generation.
func (r RID) Validate() error {
	if r == EmptyRID() {
		return errors.New("types: RID is all zero")
	}
	return nil
}

// XOR combines other into r in place, accumulating the joint RID/chain
// key across all parties' contributions.
func (r *RID) XOR(other RID) {
	for i := range r {
		r[i] ^= other[i]
	}
}

// Raw exposes the underlying bytes, e.g. for hashing into the transcript.
func (r RID) Raw() []byte {
	out := make([]byte, RIDSize)
	copy(out, r[:])
	return out
}

// NewRID constructs a RID from a byte slice; data must be exactly
// RIDSize long.
func NewRID(data []byte) (RID, error) {
	var r RID
	if len(data) != RIDSize {
		return r, errors.New("types: RID must be 32 bytes")
	}
	copy(r[:], data)
	return r, nil
}

// MarshalBinary implements encoding.BinaryMarshaler so RID values can be
// fed directly into hash.Hash.WriteAny.
func (r RID) MarshalBinary() ([]byte, error) {
	return r.Raw(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *RID) UnmarshalBinary(data []byte) error {
	v, err := NewRID(data)
	if err != nil {
		return err
	}
	*r = v
	return nil
}
