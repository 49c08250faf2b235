// Package hash implements the running transcript hash that binds every
// round's protocol messages together, and the commit/decommit scheme used
// by keygen (commitment sent in round1, opened and checked in round3) to
// hide each party's VSS polynomial and Schnorr commitment until every
// party has committed.
package hash

import (
	"crypto/rand"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// CommitmentSize is the digest size of the underlying hash (32 bytes,
// blake3's default), matching the teacher's fixed-size RID/commitment
// values.
const CommitmentSize = 32

// Commitment is the output of Hash.Commit: a binding digest over the
// committed items plus a random nonce.
type Commitment []byte

// Decommitment is the random nonce needed to open a Commitment.
type Decommitment []byte

// Validate reports whether d has the expected size.
func (d Decommitment) Validate() error {
	if len(d) != CommitmentSize {
		return errors.New("hash: decommitment has wrong length")
	}
	return nil
}

// Hash is a running, appendable transcript hash.
type Hash struct {
	h *blake3.Hasher
}

// New creates an empty transcript hash, optionally seeded with an
// arbitrary session identifier (the wallet's SessionID, mirroring the
// teacher's `round.NewSession`).
func New(sid []byte) *Hash {
	h := blake3.New()
	if len(sid) > 0 {
		_, _ = h.Write(sid)
	}
	return &Hash{h: h}
}

// Clone returns an independent copy of the current hash state, used to
// derive a per-round challenge hash without mutating the shared one
// (the teacher's `r.Hash().Clone()`).
func (h *Hash) Clone() *Hash {
	return &Hash{h: h.h.Clone()}
}

type binaryMarshaler interface {
	MarshalBinary() ([]byte, error)
}

// WriteAny appends the CBOR or binary encoding of each item to the
// transcript. Items implementing encoding.BinaryMarshaler use that;
// everything else is CBOR-encoded, mirroring the teacher's generic
// WriteAny(rid, partyID, ...) call sites.
func (h *Hash) WriteAny(items ...interface{}) error {
	for _, item := range items {
		var data []byte
		var err error
		if bm, ok := item.(binaryMarshaler); ok {
			data, err = bm.MarshalBinary()
		} else {
			data, err = cbor.Marshal(item)
		}
		if err != nil {
			return errors.Wrap(err, "hash.WriteAny")
		}
		var lenBuf [8]byte
		putUint64(lenBuf[:], uint64(len(data)))
		if _, err := h.h.Write(lenBuf[:]); err != nil {
			return err
		}
		if _, err := h.h.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (56 - 8*i))
	}
}

// Sum returns the current digest without consuming the hash.
func (h *Hash) Sum() []byte {
	return h.h.Clone().Sum(nil)
}

// Commit binds items under a fresh random nonce, returning the public
// Commitment to broadcast now and the Decommitment to reveal in a later
// round (keygen round1 -> round2 -> round3's commit/decommit dance).
func (h *Hash) Commit(items ...interface{}) (Commitment, Decommitment, error) {
	nonce := make([]byte, CommitmentSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, errors.Wrap(err, "hash.Commit: rand read failed")
	}
	c := h.Clone()
	if err := c.WriteAny(items...); err != nil {
		return nil, nil, err
	}
	if err := c.WriteAny(nonce); err != nil {
		return nil, nil, err
	}
	return Commitment(c.Sum()), Decommitment(nonce), nil
}

// Decommit verifies that commitment was produced by Commit(items...) using
// decommitment as the nonce.
func (h *Hash) Decommit(commitment Commitment, decommitment Decommitment, items ...interface{}) bool {
	if decommitment.Validate() != nil {
		return false
	}
	c := h.Clone()
	if err := c.WriteAny(items...); err != nil {
		return false
	}
	if err := c.WriteAny([]byte(decommitment)); err != nil {
		return false
	}
	got := c.Sum()
	if len(got) != len(commitment) {
		return false
	}
	var diff byte
	for i := range got {
		diff |= got[i] ^ commitment[i]
	}
	return diff == 0
}
