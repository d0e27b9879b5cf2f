package vrf

import (
	"fmt"
	"math/big"

	"github.com/davxy/ark-vrf/group"
)

// ByteOrder selects the byte order of the suite's fixed-width scalar
// encoding. Point encodings are always the group's canonical form.
type ByteOrder int

const (
	// BigEndian encodes scalars most significant byte first.
	BigEndian ByteOrder = iota
	// LittleEndian encodes scalars least significant byte first.
	LittleEndian
)

// EncodePoint returns the suite's fixed-width encoding of p. The identity
// element encodes as all zero bytes.
func (s *Suite) EncodePoint(p group.Element) []byte {
	if p.IsIdentity() {
		return make([]byte, s.pointLen)
	}
	return p.Encode()
}

// DecodePoint decodes a point from its fixed-width encoding, enforcing
// prime-order subgroup membership.
func (s *Suite) DecodePoint(b []byte) (group.Element, error) {
	if len(b) != s.pointLen {
		return nil, fmt.Errorf("%w: point is %d bytes, want %d", ErrInvalidEncoding, len(b), s.pointLen)
	}
	if allZero(b) {
		return s.g.Identity(), nil
	}
	p := s.g.Element()
	if err := p.Decode(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return p, nil
}

// EncodeScalar returns the suite's fixed-width encoding of k, reduced
// modulo the group order.
func (s *Suite) EncodeScalar(k *big.Int) []byte {
	buf := make([]byte, s.scalarLen)
	new(big.Int).Mod(k, s.order).FillBytes(buf)
	if s.byteOrder == LittleEndian {
		reverse(buf)
	}
	return buf
}

// DecodeScalar decodes a scalar from its fixed-width encoding. Values not
// in [0, order) are rejected.
func (s *Suite) DecodeScalar(b []byte) (*big.Int, error) {
	if len(b) != s.scalarLen {
		return nil, fmt.Errorf("%w: scalar is %d bytes, want %d", ErrInvalidEncoding, len(b), s.scalarLen)
	}
	k := s.bytesToInt(b)
	if k.Cmp(s.order) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidEncoding)
	}
	return k, nil
}

// EncodeChallenge returns the challenge-width encoding of c. Challenge
// scalars are derived from a ChallengeLen prefix of a digest, so they
// always fit.
func (s *Suite) EncodeChallenge(c *big.Int) []byte {
	buf := make([]byte, s.challengeLen)
	c.FillBytes(buf)
	if s.byteOrder == LittleEndian {
		reverse(buf)
	}
	return buf
}

// DecodeChallenge decodes a challenge scalar from its challenge-width
// encoding.
func (s *Suite) DecodeChallenge(b []byte) (*big.Int, error) {
	if len(b) != s.challengeLen {
		return nil, fmt.Errorf("%w: challenge is %d bytes, want %d", ErrInvalidEncoding, len(b), s.challengeLen)
	}
	c := s.bytesToInt(b)
	if c.Cmp(s.order) >= 0 {
		return nil, fmt.Errorf("%w: challenge out of range", ErrInvalidEncoding)
	}
	return c, nil
}

// bytesToInt interprets b as an unsigned integer in the suite's scalar
// byte order.
func (s *Suite) bytesToInt(b []byte) *big.Int {
	if s.byteOrder == LittleEndian {
		return leBytesToInt(b)
	}
	return new(big.Int).SetBytes(b)
}

func leBytesToInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func allZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}
