// Package thin implements a delinearized VRF. The key relation (G, pk)
// and the VRF relation (input, output) are merged through two 128-bit
// hash-derived weights into a single relation, so one Schnorr-style
// proof attests both key knowledge and output correctness, and the
// verification equations of many proofs fold into one multi-scalar
// multiplication.
package thin

import (
	"fmt"
	"math/big"

	vrf "github.com/davxy/ark-vrf"
	"github.com/davxy/ark-vrf/group"
)

// Proof is a thin VRF proof: the nonce commitment over the merged input
// and the response scalar.
type Proof struct {
	suite *vrf.Suite
	r     group.Element
	s     *big.Int
}

// R returns the nonce commitment point.
func (p *Proof) R() group.Element { return p.r }

// S returns the response scalar.
func (p *Proof) S() *big.Int { return p.s }

// Bytes returns the fixed-width wire encoding, the commitment point
// followed by the response scalar.
func (p *Proof) Bytes() []byte {
	return append(p.suite.EncodePoint(p.r), p.suite.EncodeScalar(p.s)...)
}

// ProofFromBytes decodes a proof from its wire encoding.
func ProofFromBytes(s *vrf.Suite, b []byte) (*Proof, error) {
	if len(b) != s.PointLen()+s.ScalarLen() {
		return nil, fmt.Errorf("%w: proof is %d bytes, want %d", vrf.ErrInvalidEncoding, len(b), s.PointLen()+s.ScalarLen())
	}
	r, err := s.DecodePoint(b[:s.PointLen()])
	if err != nil {
		return nil, err
	}
	sc, err := s.DecodeScalar(b[s.PointLen():])
	if err != nil {
		return nil, err
	}
	return &Proof{suite: s, r: r, s: sc}, nil
}

// Prove creates a proof that out is the holder's VRF output for in,
// bound to the additional data ad.
func Prove(sk *vrf.SecretKey, in vrf.Input, out vrf.Output, ad []byte) *Proof {
	s := sk.Suite()
	g := s.Group()
	pk := sk.Public().Point()

	z0, z1 := s.Delinearize(pk, in.Point(), out.Point())
	im := g.Element().Scale(in.Point(), z0)
	im.Add(im, g.Element().BaseScale(z1))

	k := sk.Nonce(im, ad)
	r := s.SecretScale(im, k)
	c := s.Challenge(vrf.DomainChallengeThin, []group.Element{pk, in.Point(), out.Point(), r}, ad)

	return &Proof{suite: s, r: r, s: sk.Response(k, c)}
}

// Verify checks a proof against a public key, input, output and
// additional data. A bad proof yields ErrVerificationFailed; it is the
// expected outcome for forgeries, not a fault.
func Verify(pk *vrf.PublicKey, in vrf.Input, out vrf.Output, ad []byte, proof *Proof) error {
	s := pk.Suite()
	g := s.Group()

	z0, z1 := s.Delinearize(pk.Point(), in.Point(), out.Point())
	im, om := s.MergeRelation(z0, z1, pk.Point(), in.Point(), out.Point())
	c := s.Challenge(vrf.DomainChallengeThin, []group.Element{pk.Point(), in.Point(), out.Point(), proof.r}, ad)

	// R + c*Om - s*Im must vanish.
	acc := g.Element().Scale(om, c)
	acc.Add(acc, proof.r)
	acc.Add(acc, g.Element().Scale(im, new(big.Int).Neg(proof.s)))
	if !acc.IsIdentity() {
		return vrf.ErrVerificationFailed
	}
	return nil
}
