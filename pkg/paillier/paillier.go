// Package paillier re-exports core/paillier for the sign protocol package
// (see pkg/math/curve for why the alias exists).
package paillier

import core "github.com/j04n-f/mpc-waas/core/paillier"

type (
	SecretKey  = core.SecretKey
	PublicKey  = core.PublicKey
	Ciphertext = core.Ciphertext
)

var (
	KeyGen        = core.KeyGen
	VerifyZKMod   = core.VerifyZKMod
)
