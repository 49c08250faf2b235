// Package polynomial implements the Shamir secret-sharing polynomials used
// by DKG: a degree-t polynomial over the scalar field, its per-party
// evaluations, and its "exponent" commitment (the coefficients lifted to
// curve points, published so shares can be verified against the public
// key without revealing them).
package polynomial

import (
	"github.com/pkg/errors"

	"github.com/j04n-f/mpc-waas/core/math/curve"
	"github.com/j04n-f/mpc-waas/core/party"
)

// Polynomial is f(X) = secret + c1*X + c2*X^2 + ... + c_t*X^t.
type Polynomial struct {
	group        curve.Curve
	coefficients []curve.Scalar
}

// NewPolynomial builds a random polynomial of the given degree whose
// constant term is the given secret.
func NewPolynomial(group curve.Curve, degree int, constant curve.Scalar, sampleScalar func() curve.Scalar) *Polynomial {
	coeffs := make([]curve.Scalar, degree+1)
	coeffs[0] = constant
	for i := 1; i <= degree; i++ {
		coeffs[i] = sampleScalar()
	}
	return &Polynomial{group: group, coefficients: coeffs}
}

// Constant returns f(0), the shared secret.
func (p *Polynomial) Constant() curve.Scalar { return p.coefficients[0] }

// Degree returns the polynomial's degree (t in DKG).
func (p *Polynomial) Degree() int { return len(p.coefficients) - 1 }

// Evaluate computes f(x) via Horner's method.
func (p *Polynomial) Evaluate(x curve.Scalar) curve.Scalar {
	result := p.group.NewScalar()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

// EvaluateForParty evaluates f at the scalar mapping of id (the share
// handed to that participant).
func (p *Polynomial) EvaluateForParty(id party.ID) curve.Scalar {
	return p.Evaluate(id.Scalar(p.group))
}

// Exponent is the public commitment to a Polynomial: its coefficients
// lifted to the curve by scalar multiplication of the base point.
type Exponent struct {
	group        curve.Curve
	coefficients []curve.Point
}

// NewPolynomialExponent lifts p's coefficients to curve points.
func NewPolynomialExponent(p *Polynomial) *Exponent {
	coeffs := make([]curve.Point, len(p.coefficients))
	for i, c := range p.coefficients {
		coeffs[i] = c.ActOnBase()
	}
	return &Exponent{group: p.group, coefficients: coeffs}
}

// Degree returns the committed polynomial's degree (t in DKG).
func (e *Exponent) Degree() int { return len(e.coefficients) - 1 }

// Constant returns the commitment to f(0), i.e. the joint public key
// contribution of this party's polynomial.
func (e *Exponent) Constant() curve.Point { return e.coefficients[0] }

// Evaluate computes [f(x)]G via repeated point doubling/addition, mirroring
// Polynomial.Evaluate in the exponent.
func (e *Exponent) Evaluate(x curve.Scalar) curve.Point {
	result := e.group.NewPoint()
	for i := len(e.coefficients) - 1; i >= 0; i-- {
		result = x.Act(result).Add(e.coefficients[i])
	}
	return result
}

// EvaluateForParty computes [f(id)]G, letting a party verify its received
// share against the public commitments without anyone learning the share.
func (e *Exponent) EvaluateForParty(id party.ID) curve.Point {
	return e.Evaluate(id.Scalar(e.group))
}

// MarshalBinary encodes the exponent as its coefficient points,
// length-prefixed, so it can be bound into a hash.Hash transcript (its
// fields are otherwise unexported and invisible to reflection-based
// encoders).
func (e *Exponent) MarshalBinary() ([]byte, error) {
	var out []byte
	for _, c := range e.coefficients {
		b, err := c.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, byte(len(b)))
		out = append(out, b...)
	}
	return out, nil
}

// Sum aggregates a set of per-party Exponents into the joint polynomial
// commitment F(X) = Σⱼ Fⱼ(X), by summing corresponding coefficients. All
// Exponents must share the same degree.
func Sum(exponents []*Exponent) (*Exponent, error) {
	if len(exponents) == 0 {
		return nil, errors.New("polynomial: Sum requires at least one exponent")
	}
	group := exponents[0].group
	degree := exponents[0].Degree()
	coeffs := make([]curve.Point, degree+1)
	for i := 0; i <= degree; i++ {
		acc := group.NewPoint()
		for _, e := range exponents {
			if e.Degree() != degree {
				return nil, errors.New("polynomial: Sum requires exponents of equal degree")
			}
			acc = acc.Add(e.coefficients[i])
		}
		coeffs[i] = acc
	}
	return &Exponent{group: group, coefficients: coeffs}, nil
}
