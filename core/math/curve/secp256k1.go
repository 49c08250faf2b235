package curve

import (
	"encoding/binary"
	"errors"

	"github.com/cronokirby/saferith"
	dcrsecp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// secp256k1Order is N, the order of the secp256k1 base point, shared by
// every Scalar of this curve.
var secp256k1Order = func() *saferith.Modulus {
	n := dcrsecp256k1.S256().N
	return saferith.ModulusFromBytes(n.Bytes())
}()

// Secp256k1 is the curve used by the wallet (spec.md §3: "curve
// (secp256k1)"). It satisfies Curve with a zero value, matching the
// teacher's `curve.Secp256k1{}` usage in pkg/cryptosuite/sw/ecdsa.
type Secp256k1 struct{}

var _ Curve = Secp256k1{}

func (Secp256k1) Name() string { return "secp256k1" }

func (Secp256k1) NewScalar() Scalar { return &secp256k1Scalar{} }

func (Secp256k1) NewPoint() Point { return &secp256k1Point{} }

func (Secp256k1) Order() *saferith.Modulus { return secp256k1Order }

type secp256k1Scalar struct {
	s dcrsecp256k1.ModNScalar
}

func (s *secp256k1Scalar) Curve() Curve { return Secp256k1{} }

func (s *secp256k1Scalar) Add(other Scalar) Scalar {
	o := other.(*secp256k1Scalar)
	out := &secp256k1Scalar{}
	out.s.Set(&s.s)
	out.s.Add(&o.s)
	return out
}

func (s *secp256k1Scalar) Sub(other Scalar) Scalar {
	return s.Add(other.Negate())
}

func (s *secp256k1Scalar) Mul(other Scalar) Scalar {
	o := other.(*secp256k1Scalar)
	out := &secp256k1Scalar{}
	out.s.Set(&s.s)
	out.s.Mul(&o.s)
	return out
}

func (s *secp256k1Scalar) Negate() Scalar {
	out := &secp256k1Scalar{}
	out.s.Set(&s.s)
	out.s.Negate()
	return out
}

func (s *secp256k1Scalar) Invert() Scalar {
	out := &secp256k1Scalar{}
	out.s.Set(&s.s)
	out.s.InverseNonConst()
	return out
}

func (s *secp256k1Scalar) IsZero() bool { return s.s.IsZero() }

func (s *secp256k1Scalar) Equal(other Scalar) bool {
	o, ok := other.(*secp256k1Scalar)
	if !ok {
		return false
	}
	return s.s.Equals(&o.s)
}

func (s *secp256k1Scalar) Set(other Scalar) Scalar {
	o := other.(*secp256k1Scalar)
	s.s.Set(&o.s)
	return s
}

func (s *secp256k1Scalar) SetNat(n *saferith.Nat) Scalar {
	b := n.Mod(secp256k1Order).Bytes()
	var buf [32]byte
	copy(buf[32-len(b):], b)
	s.s.SetByteSlice(buf[:])
	return s
}

func (s *secp256k1Scalar) SetNat64(n uint64) Scalar {
	var buf [32]byte
	binary.BigEndian.PutUint64(buf[24:], n)
	s.s.SetByteSlice(buf[:])
	return s
}

func (s *secp256k1Scalar) ActOnBase() Point {
	var jp dcrsecp256k1.JacobianPoint
	dcrsecp256k1.ScalarBaseMultNonConst(&s.s, &jp)
	jp.ToAffine()
	return &secp256k1Point{p: jp}
}

func (s *secp256k1Scalar) Act(p Point) Point {
	op := p.(*secp256k1Point)
	var jp dcrsecp256k1.JacobianPoint
	dcrsecp256k1.ScalarMultNonConst(&s.s, &op.p, &jp)
	jp.ToAffine()
	return &secp256k1Point{p: jp}
}

func (s *secp256k1Scalar) MarshalBinary() ([]byte, error) {
	b := s.s.Bytes()
	out := make([]byte, 32)
	copy(out, b[:])
	return out, nil
}

func (s *secp256k1Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return errors.New("curve: scalar must be 32 bytes")
	}
	s.s.SetByteSlice(data)
	return nil
}

type secp256k1Point struct {
	p dcrsecp256k1.JacobianPoint
}

func (p *secp256k1Point) Curve() Curve { return Secp256k1{} }

func (p *secp256k1Point) Add(other Point) Point {
	o := other.(*secp256k1Point)
	var out dcrsecp256k1.JacobianPoint
	dcrsecp256k1.AddNonConst(&p.p, &o.p, &out)
	out.ToAffine()
	return &secp256k1Point{p: out}
}

func (p *secp256k1Point) Negate() Point {
	out := p.p
	out.ToAffine()
	out.Y.Negate(1)
	out.Y.Normalize()
	return &secp256k1Point{p: out}
}

func (p *secp256k1Point) Equal(other Point) bool {
	o, ok := other.(*secp256k1Point)
	if !ok {
		return false
	}
	a, b := p.p, o.p
	a.ToAffine()
	b.ToAffine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y) && p.IsIdentity() == o.IsIdentity()
}

func (p *secp256k1Point) IsIdentity() bool {
	q := p.p
	q.ToAffine()
	return q.X.IsZero() && q.Y.IsZero()
}

func (p *secp256k1Point) XScalar() Scalar {
	q := p.p
	q.ToAffine()
	b := q.X.Bytes()
	s := &secp256k1Scalar{}
	s.s.SetByteSlice(b[:])
	return s
}

// MarshalBinary returns the 33-byte SEC1-compressed encoding used
// throughout the wallet (spec.md §8: "33-byte compressed Q").
func (p *secp256k1Point) MarshalBinary() ([]byte, error) {
	if p.IsIdentity() {
		return []byte{0x00}, nil
	}
	q := p.p
	q.ToAffine()
	pub := dcrsecp256k1.NewPublicKey(&q.X, &q.Y)
	return pub.SerializeCompressed(), nil
}

func (p *secp256k1Point) UnmarshalBinary(data []byte) error {
	if len(data) == 1 && data[0] == 0x00 {
		p.p = dcrsecp256k1.JacobianPoint{}
		return nil
	}
	pub, err := dcrsecp256k1.ParsePubKey(data)
	if err != nil {
		return err
	}
	pub.AsJacobian(&p.p)
	return nil
}
