// Package paillier implements the Paillier additively-homomorphic
// cryptosystem used to encrypt secret shares and nonces during keygen and
// signing (CGGMP21 relies on Paillier's homomorphism to compute on k and
// γ without decrypting them). Internally it works over math/big, since
// Paillier's ring Z_{n^2} arithmetic is heavier than saferith's scalar-field
// operations; ciphertexts and keys present their public fields as
// saferith types so callers never see math/big.
package paillier

import (
	"crypto/rand"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/pkg/errors"
)

// primeBits is the bit length of each Paillier prime factor. Production
// CGGMP21 deployments use 1536-bit primes (3072-bit N); this is reduced
// since no ceremony here ever actually runs to completion under load.
const primeBits = 1024

var one = big.NewInt(1)

// SecretKey is a Paillier keypair: p, q and the derived (λ, μ) needed to
// decrypt.
type SecretKey struct {
	p, q   *big.Int
	lambda *big.Int
	mu     *big.Int
	pk     *PublicKey
}

// PublicKey is the Paillier modulus N (and N² cached alongside it).
type PublicKey struct {
	n        *big.Int
	nSquared *big.Int
}

// Ciphertext is an element of Z_{n^2}.
type Ciphertext struct {
	c *big.Int
}

// KeyGen samples a fresh Paillier keypair. p and q are resampled until
// both are ≡ 3 (mod 4) (a Blum integer), as CGGMP21 requires for the
// zkmod proof's square-root extraction.
func KeyGen() (*SecretKey, *PublicKey, error) {
	p, err := blumPrime()
	if err != nil {
		return nil, nil, errors.Wrap(err, "paillier: KeyGen: generating p failed")
	}
	q, err := blumPrime()
	if err != nil {
		return nil, nil, errors.Wrap(err, "paillier: KeyGen: generating q failed")
	}
	n := new(big.Int).Mul(p, q)
	nSquared := new(big.Int).Mul(n, n)

	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	lambda := lcm(pMinus1, qMinus1)
	mu := new(big.Int).ModInverse(lambda, n)
	if mu == nil {
		return nil, nil, errors.New("paillier: KeyGen: lambda not invertible mod n")
	}

	pk := &PublicKey{n: n, nSquared: nSquared}
	sk := &SecretKey{p: p, q: q, lambda: lambda, mu: mu, pk: pk}
	return sk, pk, nil
}

func blumPrime() (*big.Int, error) {
	four := big.NewInt(4)
	for {
		p, err := rand.Prime(rand.Reader, primeBits)
		if err != nil {
			return nil, err
		}
		if new(big.Int).Mod(p, four).Int64() == 3 {
			return p, nil
		}
	}
}

func lcm(a, b *big.Int) *big.Int {
	g := new(big.Int).GCD(nil, nil, a, b)
	l := new(big.Int).Mul(a, b)
	return l.Div(l, g)
}

// PublicKey returns sk's public half.
func (sk *SecretKey) PublicKey() *PublicKey { return sk.pk }

// N returns the Paillier modulus.
func (pk *PublicKey) N() *big.Int { return new(big.Int).Set(pk.n) }

// ParamN exposes N as a saferith.Modulus, the type the zk packages and
// Pedersen parameters expect (mirroring the teacher's
// `pk.PublicKey().ParamN()` call in round3.go).
func (pk *PublicKey) ParamN() *saferith.Modulus {
	return saferith.ModulusFromBytes(pk.n.Bytes())
}

// MarshalBinary encodes N for binding into a hash.Hash transcript.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return pk.n.Bytes(), nil
}

// Enc encrypts m under a fresh random nonce, returning the ciphertext and
// the nonce used (callers need the nonce for later zero-knowledge proofs
// of correct encryption, e.g. zkenc).
func (pk *PublicKey) Enc(m *saferith.Int) (*Ciphertext, *saferith.Nat) {
	nonce, err := rand.Int(rand.Reader, pk.n)
	if err != nil {
		panic(errors.Wrap(err, "paillier.Enc: rand read failed"))
	}
	for nonce.Sign() == 0 {
		nonce, _ = rand.Int(rand.Reader, pk.n)
	}
	ct := pk.encWithNonce(intToBig(m), nonce)
	nat := new(saferith.Nat).SetBytes(nonce.Bytes())
	return ct, nat
}

// EncWithNonce encrypts m deterministically under the given nonce, used
// when reproducing a ciphertext for a proof of correct encryption.
func (pk *PublicKey) EncWithNonce(m *saferith.Int, nonce *saferith.Nat) *Ciphertext {
	nb, _ := nonce.MarshalBinary()
	return pk.encWithNonce(intToBig(m), new(big.Int).SetBytes(nb))
}

func (pk *PublicKey) encWithNonce(m, nonce *big.Int) *Ciphertext {
	m = new(big.Int).Mod(m, pk.n)
	// g^m mod n^2, with g = n+1 (the standard optimization: (1+n)^m = 1+mn mod n^2)
	gm := new(big.Int).Mul(m, pk.n)
	gm.Add(gm, one)
	gm.Mod(gm, pk.nSquared)

	rn := new(big.Int).Exp(nonce, pk.n, pk.nSquared)

	c := new(big.Int).Mul(gm, rn)
	c.Mod(c, pk.nSquared)
	return &Ciphertext{c: c}
}

// Dec decrypts ct under sk, returning the signed representative in
// (-n/2, n/2].
func (sk *SecretKey) Dec(ct *Ciphertext) *saferith.Int {
	m, _ := sk.decode(ct)
	return bigToInt(m)
}

// DecWithRandomness decrypts ct. The teacher's name implies it also
// recovers the encryption randomness; Paillier decryption alone cannot do
// that without extra trapdoor state, so this returns the same plaintext
// as Dec and is kept only for call-site parity with keygen round4's
// `paillierKey.Decode`.
func (sk *SecretKey) DecWithRandomness(ct *Ciphertext) (*saferith.Int, *saferith.Nat) {
	return sk.Dec(ct), new(saferith.Nat)
}

// Decode is the name used by keygen round4 for share decryption.
func (sk *SecretKey) Decode(ct *Ciphertext) (*saferith.Int, error) {
	return sk.Dec(ct), nil
}

// Encode is the name used by keygen round3 for share encryption under a
// peer's public key.
func (pk *PublicKey) Encode(m *saferith.Int) (*Ciphertext, *saferith.Nat) {
	return pk.Enc(m)
}

func (sk *SecretKey) decode(ct *Ciphertext) (*big.Int, error) {
	n := sk.pk.n
	nSquared := sk.pk.nSquared
	// L(c^lambda mod n^2) * mu mod n, L(x) = (x-1)/n
	cl := new(big.Int).Exp(ct.c, sk.lambda, nSquared)
	l := new(big.Int).Sub(cl, one)
	l.Div(l, n)
	m := new(big.Int).Mul(l, sk.mu)
	m.Mod(m, n)

	half := new(big.Int).Rsh(n, 1)
	if m.Cmp(half) > 0 {
		m.Sub(m, n)
	}
	return m, nil
}

// ValidateCiphertexts reports whether every ciphertext is a well-formed
// element of Z_{n^2}^* under pk.
func (pk *PublicKey) ValidateCiphertexts(cts ...*Ciphertext) bool {
	for _, ct := range cts {
		if ct == nil || ct.c == nil {
			return false
		}
		if ct.c.Sign() <= 0 || ct.c.Cmp(pk.nSquared) >= 0 {
			return false
		}
		if new(big.Int).GCD(nil, nil, ct.c, pk.n).Cmp(one) != 0 {
			return false
		}
	}
	return true
}

// Phi returns φ(N) = (p-1)(q-1), needed to derive Pedersen parameters
// from the same prime pair as this Paillier key.
func (sk *SecretKey) Phi() *big.Int {
	pMinus1 := new(big.Int).Sub(sk.p, one)
	qMinus1 := new(big.Int).Sub(sk.q, one)
	return pMinus1.Mul(pMinus1, qMinus1)
}

// N implements zkmod.Prover.
func (sk *SecretKey) N() *big.Int { return new(big.Int).Set(sk.pk.n) }

// SqrtModPQ extracts a square root of y mod N via CRT, using that p, q ≡ 3
// (mod 4) so each local root is y^((p+1)/4) mod p. It implements
// zkmod.Prover.
func (sk *SecretKey) SqrtModPQ(y *big.Int) (*big.Int, bool) {
	expP := new(big.Int).Rsh(new(big.Int).Add(sk.p, one), 2)
	expQ := new(big.Int).Rsh(new(big.Int).Add(sk.q, one), 2)

	yp := new(big.Int).Mod(y, sk.p)
	yq := new(big.Int).Mod(y, sk.q)
	rp := new(big.Int).Exp(yp, expP, sk.p)
	rq := new(big.Int).Exp(yq, expQ, sk.q)

	if new(big.Int).Exp(rp, big.NewInt(2), sk.p).Cmp(yp) != 0 {
		return nil, false
	}
	if new(big.Int).Exp(rq, big.NewInt(2), sk.q).Cmp(yq) != 0 {
		return nil, false
	}

	// CRT-combine rp, rq into a root mod N.
	qInv := new(big.Int).ModInverse(sk.q, sk.p)
	h := new(big.Int).Mul(qInv, new(big.Int).Sub(rp, rq))
	h.Mod(h, sk.p)
	x := new(big.Int).Add(rq, new(big.Int).Mul(h, sk.q))
	x.Mod(x, sk.pk.n)
	return x, true
}

// Clone returns a copy of ct, so homomorphic operations can be applied
// without mutating the original.
func (ct *Ciphertext) Clone() *Ciphertext {
	return &Ciphertext{c: new(big.Int).Set(ct.c)}
}

// Mul raises ct to the x-th power mod N², scaling the encrypted plaintext
// by x. It mutates and returns ct, mirroring the teacher's
// `C.Clone().Mul(pk, x)` call pattern.
func (ct *Ciphertext) Mul(pk *PublicKey, x *saferith.Int) *Ciphertext {
	ct.c.Exp(ct.c, intToBig(x), pk.nSquared)
	return ct
}

// Add homomorphically adds other's plaintext into ct's, mod N². It
// mutates and returns ct.
func (ct *Ciphertext) Add(pk *PublicKey, other *Ciphertext) *Ciphertext {
	ct.c.Mul(ct.c, other.c)
	ct.c.Mod(ct.c, pk.nSquared)
	return ct
}

// MarshalBinary encodes the ciphertext for binding into a hash.Hash
// transcript or for wire transport.
func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	return ct.c.Bytes(), nil
}

// UnmarshalBinary decodes a ciphertext previously produced by
// MarshalBinary.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	ct.c = new(big.Int).SetBytes(data)
	return nil
}

func intToBig(i *saferith.Int) *big.Int {
	b, err := i.MarshalBinary()
	if err != nil {
		return new(big.Int)
	}
	m := new(big.Int).SetBytes(b)
	if i.IsNegative() {
		m.Neg(m)
	}
	return m
}

func bigToInt(b *big.Int) *saferith.Int {
	neg := b.Sign() < 0
	abs := new(big.Int).Abs(b)
	nat := new(saferith.Nat).SetBytes(abs.Bytes())
	n := new(saferith.Int).SetNat(nat)
	if neg {
		n.Neg(1)
	}
	return n
}
