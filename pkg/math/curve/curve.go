// Package curve re-exports core/math/curve for the sign protocol package,
// which historically imported a separate `pkg/math/curve` path in the
// teacher's tree. Kept as a thin alias so both protocol families share one
// curve implementation.
package curve

import core "github.com/j04n-f/mpc-waas/core/math/curve"

type (
	Curve  = core.Curve
	Scalar = core.Scalar
	Point  = core.Point
)

// Secp256k1 is the curve used throughout this wallet.
type Secp256k1 = core.Secp256k1

// MakeInt converts a Scalar to a saferith.Int.
var MakeInt = core.MakeInt
