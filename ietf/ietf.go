// Package ietf implements the ECVRF construction of RFC 9381, extended
// with additional data bound into the challenge, plus the
// batch-compatible variant that ships the nonce commitments in the
// proof instead of the challenge.
package ietf

import (
	"fmt"
	"math/big"

	vrf "github.com/davxy/ark-vrf"
	"github.com/davxy/ark-vrf/group"
)

// Proof is the compact ECVRF proof: the truncated challenge and the
// response scalar. Verification reconstructs the nonce commitments from
// them, so this form cannot be batch verified; see BatchableProof.
type Proof struct {
	suite *vrf.Suite
	c     *big.Int
	s     *big.Int
}

// C returns the challenge scalar.
func (p *Proof) C() *big.Int { return p.c }

// S returns the response scalar.
func (p *Proof) S() *big.Int { return p.s }

// Bytes returns the wire encoding, the challenge-width challenge
// followed by the response scalar.
func (p *Proof) Bytes() []byte {
	return append(p.suite.EncodeChallenge(p.c), p.suite.EncodeScalar(p.s)...)
}

// ProofFromBytes decodes a proof from its wire encoding.
func ProofFromBytes(s *vrf.Suite, b []byte) (*Proof, error) {
	if len(b) != s.ChallengeLen()+s.ScalarLen() {
		return nil, fmt.Errorf("%w: proof is %d bytes, want %d", vrf.ErrInvalidEncoding, len(b), s.ChallengeLen()+s.ScalarLen())
	}
	c, err := s.DecodeChallenge(b[:s.ChallengeLen()])
	if err != nil {
		return nil, err
	}
	sc, err := s.DecodeScalar(b[s.ChallengeLen():])
	if err != nil {
		return nil, err
	}
	return &Proof{suite: s, c: c, s: sc}, nil
}

// Prove creates an ECVRF proof for the given input, output and
// additional data, following RFC 9381 section 5.1.
func Prove(sk *vrf.SecretKey, in vrf.Input, out vrf.Output, ad []byte) *Proof {
	s := sk.Suite()
	k := sk.Nonce(in.Point(), ad)
	u := s.SecretBaseScale(k)
	v := s.SecretScale(in.Point(), k)
	c := s.Challenge(vrf.DomainChallengeIETF,
		[]group.Element{sk.Public().Point(), in.Point(), out.Point(), u, v}, ad)
	return &Proof{suite: s, c: c, s: sk.Response(k, c)}
}

// Verify checks a proof following RFC 9381 section 5.3: the nonce
// commitments are reconstructed as U = s*G - c*P and V = s*I - c*O and
// the challenge recomputed over them must equal the proof's.
func Verify(pk *vrf.PublicKey, in vrf.Input, out vrf.Output, ad []byte, proof *Proof) error {
	s := pk.Suite()
	g := s.Group()

	negC := new(big.Int).Neg(proof.c)
	u := g.Element().BaseScale(proof.s)
	u.Add(u, g.Element().Scale(pk.Point(), negC))
	v := g.Element().Scale(in.Point(), proof.s)
	v.Add(v, g.Element().Scale(out.Point(), negC))

	c := s.Challenge(vrf.DomainChallengeIETF,
		[]group.Element{pk.Point(), in.Point(), out.Point(), u, v}, ad)
	if c.Cmp(proof.c) != 0 {
		return vrf.ErrVerificationFailed
	}
	return nil
}
