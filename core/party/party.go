// Package party identifies ceremony participants.
package party

import (
	"sort"

	"github.com/j04n-f/mpc-waas/core/math/curve"
)

// ID is a participant identifier. In this wallet, it is the decimal string
// form of the participant's index in [1..n] (e.g. "1", "2", "3").
type ID string

// Scalar maps an ID onto the scalar field of group, for Shamir evaluation
// points. IDs that do not parse as a positive integer map to zero, which
// callers must never hit in practice (index assignment is validated at
// issue_unique_idx time).
func (id ID) Scalar(group curve.Curve) curve.Scalar {
	n := 0
	for _, c := range id {
		if c < '0' || c > '9' {
			return group.NewScalar()
		}
		n = n*10 + int(c-'0')
	}
	s := group.NewScalar()
	s.SetNat64(uint64(n))
	return s
}

// IDSlice is a sortable set of IDs.
type IDSlice []ID

func (p IDSlice) Len() int           { return len(p) }
func (p IDSlice) Less(i, j int) bool { return p[i] < p[j] }
func (p IDSlice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// Sorted returns a sorted copy of ids.
func Sorted(ids []ID) []ID {
	out := make([]ID, len(ids))
	copy(out, ids)
	sort.Sort(IDSlice(out))
	return out
}

// Contains reports whether ids contains target.
func Contains(ids []ID, target ID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

// Remove returns ids without target (every occurrence is dropped).
func Remove(ids []ID, target ID) []ID {
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
