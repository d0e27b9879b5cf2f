package vrf

import (
	"math/big"

	"github.com/davxy/ark-vrf/group"
)

// Delinearize derives the two 128-bit weights that merge the key
// relation (G, pk) and the VRF relation (in, out) into a single one.
func (s *Suite) Delinearize(pk, in, out group.Element) (z0, z1 *big.Int) {
	d := s.Hash(
		s.id,
		[]byte{domDelinearize},
		s.EncodePoint(s.g.Generator()),
		s.EncodePoint(pk),
		s.EncodePoint(in),
		s.EncodePoint(out),
		[]byte{0x00},
	)
	z0 = leBytesToInt(d[:16])
	z1 = leBytesToInt(d[16:32])
	return z0, z1
}

// MergeRelation applies delinearization weights: given the weights and
// the two relations' points, it returns
//
//	im = z0*in + z1*G
//	om = z0*out + z1*pk
//
// For an honest pair (pk = x*G, out = x*in) the merged points satisfy
// om = x*im, and a prover holding different secrets for the two
// relations can satisfy that only with negligible probability.
func (s *Suite) MergeRelation(z0, z1 *big.Int, pk, in, out group.Element) (im, om group.Element) {
	im = s.g.Element().Scale(in, z0)
	im.Add(im, s.g.Element().BaseScale(z1))
	om = s.g.Element().Scale(out, z0)
	om.Add(om, s.g.Element().Scale(pk, z1))
	return im, om
}
