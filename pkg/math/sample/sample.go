// Package sample re-exports core/math/sample for the sign protocol
// package (see pkg/math/curve for why the alias exists), and adds
// ScalarPointPair, used by sign round1 to sample γ and its public lift Γ
// in one call.
package sample

import (
	"io"

	core "github.com/j04n-f/mpc-waas/core/math/sample"
	"github.com/j04n-f/mpc-waas/pkg/math/curve"
)

var (
	Scalar         = core.Scalar
	IntervalL      = core.IntervalL
	IntervalLEps   = core.IntervalLEps
	IntervalLPrime = core.IntervalLPrime
	UnitModN       = core.UnitModN
)

// ScalarPointPair samples a random scalar x and returns (x, [x]G).
func ScalarPointPair(rid io.Reader, group curve.Curve) (curve.Scalar, curve.Point) {
	x := core.Scalar(rid, group)
	return x, x.ActOnBase()
}
