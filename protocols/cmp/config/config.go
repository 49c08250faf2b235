// Package config holds the output of a completed keygen (or refresh)
// ceremony: this party's ECDSA secret share plus every party's public
// material, enough to sign and to verify future refreshes.
package config

import (
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/paillier"
	"github.com/j04n-f/mpc-waas/core/party"
	"github.com/j04n-f/mpc-waas/core/pedersen"
	"github.com/j04n-f/mpc-waas/lib/types"
)

// Public is the public half of a single party's key material.
type Public struct {
	ECDSA    curve.Point
	ElGamal  curve.Point
	Paillier *paillier.PublicKey
	Pedersen *pedersen.Parameters
}

// Config is the result of a keygen ceremony, from a single party's point
// of view: its own secret share plus the public shares and auxiliary
// parameters of every party in the quorum.
type Config struct {
	Group     curve.Curve
	ID        party.ID
	Threshold int

	// ECDSA is this party's additive share of the joint private key.
	ECDSA curve.Scalar

	// SecretPaillier is this party's Paillier secret key, needed to
	// decrypt MtA shares during every future signing ceremony.
	SecretPaillier *paillier.SecretKey

	RID      types.RID
	ChainKey types.RID

	// PublicPoint is the joint ECDSA public key, the constant term of the
	// summed VSS polynomial commitment (distinct from any single party's
	// Public.ECDSA, which is that polynomial evaluated at the party's
	// index, not at 0).
	PublicPoint curve.Point

	Public map[party.ID]*Public
}

// PublicKey returns the joint ECDSA public key.
func (c *Config) PublicKey() curve.Point {
	return c.PublicPoint
}
