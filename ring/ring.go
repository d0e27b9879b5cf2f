package ring

import (
	"fmt"

	vrf "github.com/davxy/ark-vrf"
	"github.com/davxy/ark-vrf/pedersen"
)

// Proof is a ring VRF proof: the pedersen proof for the VRF relation and
// the engine's membership proof for the hidden key, carried as a sibling
// payload.
type Proof struct {
	pedersen   *pedersen.Proof
	membership []byte
}

// Pedersen returns the embedded pedersen proof.
func (p *Proof) Pedersen() *pedersen.Proof { return p.pedersen }

// Membership returns the opaque membership proof payload.
func (p *Proof) Membership() []byte { return p.membership }

// Bytes returns the wire encoding: the fixed-width pedersen proof
// followed by the engine payload.
func (p *Proof) Bytes() []byte {
	return append(p.pedersen.Bytes(), p.membership...)
}

// ProofFromBytes decodes a proof. Everything beyond the fixed-width
// pedersen prefix belongs to the engine.
func ProofFromBytes(s *vrf.Suite, b []byte) (*Proof, error) {
	fixed := 2*s.PointLen() + 2*s.ScalarLen()
	if len(b) < fixed {
		return nil, fmt.Errorf("%w: proof is %d bytes, want at least %d", vrf.ErrInvalidEncoding, len(b), fixed)
	}
	pp, err := pedersen.ProofFromBytes(s, b[:fixed])
	if err != nil {
		return nil, err
	}
	return &Proof{
		pedersen:   pp,
		membership: append([]byte(nil), b[fixed:]...),
	}, nil
}

// Prove creates a ring VRF proof. The pedersen blinding scalar doubles
// as the witness linking the key commitment to the prover's ring
// member.
func Prove(sk *vrf.SecretKey, in vrf.Input, out vrf.Output, ad []byte, prover Prover) (*Proof, error) {
	pp, blinding := pedersen.Prove(sk, in, out, ad)
	membership, err := prover.RingProve(blinding)
	if err != nil {
		return nil, fmt.Errorf("ring: membership prove: %w", err)
	}
	return &Proof{pedersen: pp, membership: membership}, nil
}

// Verify checks both legs: the pedersen proof for the VRF relation and
// the membership proof for the committed key. Engine failures surface
// as ErrRingMembership without further detail.
func Verify(s *vrf.Suite, in vrf.Input, out vrf.Output, ad []byte, proof *Proof, verifier Verifier) error {
	if err := pedersen.Verify(s, in, out, ad, proof.pedersen); err != nil {
		return err
	}
	if err := verifier.RingVerify(proof.membership, proof.pedersen.KeyCommitment()); err != nil {
		return fmt.Errorf("%w: %v", ErrRingMembership, err)
	}
	return nil
}
