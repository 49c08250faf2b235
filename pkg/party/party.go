// Package party re-exports core/party for the sign protocol package (see
// pkg/math/curve for why the alias exists).
package party

import core "github.com/j04n-f/mpc-waas/core/party"

type ID = core.ID

var (
	Sorted   = core.Sorted
	Contains = core.Contains
	Remove   = core.Remove
)
