// Package ecdsa assembles and verifies the final threshold ECDSA
// signature, once the sign ceremony's rounds have combined every party's
// σ share (sign round5's `signature.Verify(r.PublicKey, r.Message)`).
package ecdsa

import (
	dcrsecp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/j04n-f/mpc-waas/pkg/math/curve"
)

// Signature is a standard (r,s) ECDSA signature, usable anywhere a
// secp256k1 signature is expected (e.g. Ethereum/Bitcoin tooling).
type Signature struct {
	R curve.Point
	S curve.Scalar
}

// Verify checks the signature against publicKey for the given message
// digest by reassembling a decred/dcrd secp256k1 signature from R.XScalar()
// and S, and delegating to its standard ECDSA verification.
func (sig *Signature) Verify(publicKey curve.Point, messageHash []byte) bool {
	rBytes, err := sig.R.XScalar().MarshalBinary()
	if err != nil {
		return false
	}
	sBytes, err := sig.S.MarshalBinary()
	if err != nil {
		return false
	}
	pubBytes, err := publicKey.MarshalBinary()
	if err != nil {
		return false
	}

	pub, err := dcrsecp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return false
	}

	var r, s dcrsecp256k1.ModNScalar
	r.SetByteSlice(rBytes)
	s.SetByteSlice(sBytes)

	derSig := dcrecdsa.NewSignature(&r, &s)
	return derSig.Verify(messageHash, pub)
}
