// Package pedersen implements a key-hiding VRF. The proof shows that a
// Pedersen commitment sk*G + b*B opens to the key that produced the VRF
// output, without revealing the key itself; verification needs no public
// key. The scheme shares the delinearization and challenge machinery of
// the thin VRF, with one extra response scalar for the blinding leg, so
// its proofs batch the same way.
package pedersen

import (
	"fmt"
	"math/big"

	vrf "github.com/davxy/ark-vrf"
	"github.com/davxy/ark-vrf/group"
)

// Proof is a pedersen VRF proof: the nonce commitment, the response
// scalar, the blinded key commitment and the blinding response scalar.
type Proof struct {
	suite *vrf.Suite
	r     group.Element
	s     *big.Int
	com   group.Element
	sb    *big.Int
}

// R returns the nonce commitment point.
func (p *Proof) R() group.Element { return p.r }

// S returns the response scalar.
func (p *Proof) S() *big.Int { return p.s }

// KeyCommitment returns the blinded public key sk*G + b*B.
func (p *Proof) KeyCommitment() group.Element { return p.com }

// SB returns the blinding response scalar.
func (p *Proof) SB() *big.Int { return p.sb }

// Unblind opens the key commitment with the blinding scalar, returning
// the public key point it commits to.
func (p *Proof) Unblind(b *big.Int) group.Element {
	g := p.suite.Group()
	neg := g.Element().Scale(p.suite.BlindingBase(), new(big.Int).Neg(b))
	return neg.Add(neg, p.com)
}

// Bytes returns the fixed-width wire encoding, the thin proof pair
// (R, s) followed by the key commitment and the blinding response.
func (p *Proof) Bytes() []byte {
	b := append(p.suite.EncodePoint(p.r), p.suite.EncodeScalar(p.s)...)
	b = append(b, p.suite.EncodePoint(p.com)...)
	return append(b, p.suite.EncodeScalar(p.sb)...)
}

// ProofFromBytes decodes a proof from its wire encoding.
func ProofFromBytes(s *vrf.Suite, b []byte) (*Proof, error) {
	pl, sl := s.PointLen(), s.ScalarLen()
	if len(b) != 2*pl+2*sl {
		return nil, fmt.Errorf("%w: proof is %d bytes, want %d", vrf.ErrInvalidEncoding, len(b), 2*pl+2*sl)
	}
	r, err := s.DecodePoint(b[:pl])
	if err != nil {
		return nil, err
	}
	sc, err := s.DecodeScalar(b[pl : pl+sl])
	if err != nil {
		return nil, err
	}
	com, err := s.DecodePoint(b[pl+sl : 2*pl+sl])
	if err != nil {
		return nil, err
	}
	sb, err := s.DecodeScalar(b[2*pl+sl:])
	if err != nil {
		return nil, err
	}
	return &Proof{suite: s, r: r, s: sc, com: com, sb: sb}, nil
}

// Prove creates a proof with a blinding derived deterministically from
// the secret key, input and additional data. The blinding scalar is
// returned alongside the proof; callers that never open or forward the
// commitment may discard it.
func Prove(sk *vrf.SecretKey, in vrf.Input, out vrf.Output, ad []byte) (*Proof, *big.Int) {
	b := sk.Blinding(in, ad)
	return ProveWithBlinding(sk, in, out, ad, b), b
}

// ProveWithBlinding creates a proof with a caller-chosen blinding
// scalar. Proofs over the same key and input stay unlinkable exactly
// when the blindings are independent, so the scalar must be fresh and
// uniformly random per proof.
func ProveWithBlinding(sk *vrf.SecretKey, in vrf.Input, out vrf.Output, ad []byte, blinding *big.Int) *Proof {
	s := sk.Suite()
	g := s.Group()
	base := s.BlindingBase()

	com := s.SecretBaseScale(sk.Scalar())
	com.Add(com, s.SecretScale(base, blinding))

	z0, z1 := s.Delinearize(com, in.Point(), out.Point())
	im := g.Element().Scale(in.Point(), z0)
	im.Add(im, g.Element().BaseScale(z1))

	k := sk.Nonce(im, ad)
	kb := s.Nonce(blinding, im, ad)

	r := s.SecretScale(im, k)
	r.Add(r, s.SecretScale(base, kb))

	c := s.Challenge(vrf.DomainChallengeThin, []group.Element{com, in.Point(), out.Point(), r}, ad)

	// The blinding leg responds for the effective blinding z1*b carried
	// into the merged relation by the commitment.
	zb := new(big.Int).Mul(z1, blinding)
	sb := new(big.Int).Mul(c, zb)
	sb.Add(sb, kb).Mod(sb, s.Order())

	return &Proof{suite: s, r: r, s: sk.Response(k, c), com: com, sb: sb}
}

// Verify checks a proof against an input, output and additional data.
// No public key is involved; the proof vouches for whatever key the
// commitment hides.
func Verify(s *vrf.Suite, in vrf.Input, out vrf.Output, ad []byte, proof *Proof) error {
	g := s.Group()

	z0, z1 := s.Delinearize(proof.com, in.Point(), out.Point())
	im, om := s.MergeRelation(z0, z1, proof.com, in.Point(), out.Point())
	c := s.Challenge(vrf.DomainChallengeThin, []group.Element{proof.com, in.Point(), out.Point(), proof.r}, ad)

	// R + c*Om - s*Im - sb*B must vanish.
	acc := g.Element().Scale(om, c)
	acc.Add(acc, proof.r)
	acc.Add(acc, g.Element().Scale(im, new(big.Int).Neg(proof.s)))
	acc.Add(acc, g.Element().Scale(s.BlindingBase(), new(big.Int).Neg(proof.sb)))
	if !acc.IsIdentity() {
		return vrf.ErrVerificationFailed
	}
	return nil
}
