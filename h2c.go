package vrf

import (
	"github.com/davxy/ark-vrf/group"
)

// HashToCurve maps arbitrary data to a group element using the suite's
// configured strategy. The map is deterministic; the returned point is
// never the identity and has no known discrete logarithm relation to any
// other point.
func (s *Suite) HashToCurve(data []byte) (group.Element, error) {
	if s.h2cMethod == Elligator {
		return s.g.MapToGroup(data, s.h2cDST), nil
	}
	return s.tryAndIncrement(data)
}

// tryAndIncrement implements ECVRF_encode_to_curve_try_and_increment
// from RFC 9381 section 5.4.1.1. Each counter value hashes a
// domain-separated transcript and reinterprets the digest as a
// compressed point with an even-parity type byte. The expected number of
// attempts is two; the counter byte caps them at 256.
func (s *Suite) tryAndIncrement(data []byte) (group.Element, error) {
	buf := make([]byte, 0, len(s.id)+len(data)+4)
	buf = append(buf, s.id...)
	buf = append(buf, domHashToCurve)
	buf = append(buf, data...)
	buf = append(buf, 0x00, 0x00)
	ctr := len(buf) - 2

	cand := make([]byte, s.pointLen)
	cand[0] = 0x02
	p := s.g.Element()
	for i := 0; i < 256; i++ {
		buf[ctr] = byte(i)
		d := s.Hash(buf)
		copy(cand[1:], d)
		if err := p.Decode(cand); err != nil {
			continue
		}
		if s.cofactor != nil {
			p.Scale(p, s.cofactor)
		}
		if p.IsIdentity() {
			continue
		}
		return p, nil
	}
	return nil, ErrHashToCurve
}
