// Package wire implements the length-delimited, authenticated envelope
// format spec.md §6 defines for protocol messages travelling through the
// relay: a fixed big-endian header, an opaque payload, and a detached
// signature over both. The relay only ever inspects the header; payload
// bytes are the protocol engine's concern.
package wire

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/j04n-f/mpc-waas/core/hash"
)

// Version is the only envelope format this build understands.
const Version byte = 1

// headerSize is version(1) + room(16) + sender(2) + recipient(2) +
// round(2) + seq(8) + payload_len(4), matching spec.md §6 byte-for-byte.
const headerSize = 1 + 16 + 2 + 2 + 2 + 8 + 4

// domainTag separates envelope-signing digests from every other use of
// blake3 in this module (core/hash's transcript hash, Paillier/zk
// transcripts), the same domain-separation idiom the teacher's round
// hashes use via a session ID prefix.
const domainTag = "mpc-waas:envelope:v1"

// Recipient value meaning "every room member" (spec.md §6: "recipient:u16
// (0 = broadcast)").
const Broadcast uint16 = 0

// Envelope is one protocol message in transit.
type Envelope struct {
	Version      byte
	RoomID       uuid.UUID
	SenderIdx    uint16
	RecipientIdx uint16
	Round        uint16
	Seq          uint64
	Payload      []byte
	Signature    []byte // detached, ed25519.SignatureSize bytes once signed
}

// New builds an unsigned envelope with the current wire Version. Seq is
// assigned by the relay on broadcast and is zero until then.
func New(room uuid.UUID, sender, recipient, round uint16, payload []byte) *Envelope {
	return &Envelope{
		Version:      Version,
		RoomID:       room,
		SenderIdx:    sender,
		RecipientIdx: recipient,
		Round:        round,
		Payload:      payload,
	}
}

// IsBroadcast reports whether this envelope targets every room member.
func (e *Envelope) IsBroadcast() bool { return e.RecipientIdx == Broadcast }

func (e *Envelope) header() []byte {
	buf := make([]byte, headerSize)
	buf[0] = e.Version
	copy(buf[1:17], e.RoomID[:])
	binary.BigEndian.PutUint16(buf[17:19], e.SenderIdx)
	binary.BigEndian.PutUint16(buf[19:21], e.RecipientIdx)
	binary.BigEndian.PutUint16(buf[21:23], e.Round)
	binary.BigEndian.PutUint64(buf[23:31], e.Seq)
	binary.BigEndian.PutUint32(buf[31:35], uint32(len(e.Payload)))
	return buf
}

// SigningDigest is the value a participant's identity key signs and the
// relay verifies: a domain-separated hash of the header plus payload, so
// a signature over one envelope can never be replayed as a signature over
// a different one (header or payload altered ⇒ different digest).
func (e *Envelope) SigningDigest() []byte {
	h := hash.New([]byte(domainTag))
	_ = h.WriteAny(e.header(), e.Payload)
	return h.Sum()
}

// Signer is the capability an Envelope needs to authenticate itself; the
// identity package's process-wide key implements it.
type Signer interface {
	Sign(digest []byte) []byte
}

// Sign computes and attaches the envelope's signature.
func (e *Envelope) Sign(signer Signer) {
	e.Signature = signer.Sign(e.SigningDigest())
}

// Verify checks the attached signature against pub, the claimed sender's
// registered identity key (spec.md §6: "Authentication: the relay
// verifies the envelope signature against the participant's identity key
// registered at room creation").
func (e *Envelope) Verify(pub ed25519.PublicKey) bool {
	if len(e.Signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, e.SigningDigest(), e.Signature)
}

// MarshalBinary implements encoding.BinaryMarshaler: header || payload ||
// signature, in that order.
func (e *Envelope) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(e.header())
	buf.Write(e.Payload)
	buf.Write(e.Signature)
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, the inverse of
// MarshalBinary for a signed envelope: data must hold the header,
// payload_len payload bytes and a full ed25519 signature, so the output of
// MarshalBinary for an unsigned envelope is rejected.
func (e *Envelope) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return errors.New("wire: envelope shorter than header")
	}
	e.Version = data[0]
	if e.Version != Version {
		return errors.Errorf("wire: unsupported envelope version %d", e.Version)
	}
	copy(e.RoomID[:], data[1:17])
	e.SenderIdx = binary.BigEndian.Uint16(data[17:19])
	e.RecipientIdx = binary.BigEndian.Uint16(data[19:21])
	e.Round = binary.BigEndian.Uint16(data[21:23])
	e.Seq = binary.BigEndian.Uint64(data[23:31])
	payloadLen := binary.BigEndian.Uint32(data[31:35])

	rest := data[headerSize:]
	if uint32(len(rest)) < payloadLen+ed25519.SignatureSize {
		return errors.New("wire: envelope shorter than declared payload+signature")
	}
	e.Payload = append([]byte(nil), rest[:payloadLen]...)
	e.Signature = append([]byte(nil), rest[payloadLen:payloadLen+ed25519.SignatureSize]...)
	return nil
}
