// Package pedersen re-exports core/pedersen for the sign protocol package
// (see pkg/math/curve for why the alias exists).
package pedersen

import core "github.com/j04n-f/mpc-waas/core/pedersen"

type (
	Parameters = core.Parameters
	SecretKey  = core.SecretKey
	Proof      = core.Proof
)

var (
	KeyGen             = core.KeyGen
	ValidateParameters = core.ValidateParameters
)
