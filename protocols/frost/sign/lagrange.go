package sign

import (
	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
)

// lagrangeCoefficient returns λ_self, the Lagrange coefficient of self
// within signers evaluated at x = 0, so that Σ λ_i·f(x_i) = f(0) for any
// degree-(|signers|-1) polynomial f over the given signer set.
func lagrangeCoefficient(group curve.Curve, signers []party.ID, self party.ID) curve.Scalar {
	selfX := self.Scalar(group)

	num := group.NewScalar().SetNat64(1)
	den := group.NewScalar().SetNat64(1)
	for _, j := range signers {
		if j == self {
			continue
		}
		jX := j.Scalar(group)
		num = num.Mul(jX)
		den = den.Mul(jX.Sub(selfX))
	}
	return num.Mul(den.Invert())
}
