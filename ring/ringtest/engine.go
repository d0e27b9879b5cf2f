// Package ringtest provides a transparent membership engine for
// exercising ring VRF plumbing in tests. Proofs disclose the ring index
// and the blinding commitment, so the engine offers no anonymity
// whatsoever. It still enforces soundness: a proof only verifies when
// the key commitment opens to the claimed ring member.
package ringtest

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/davxy/ark-vrf/group"
	"github.com/davxy/ark-vrf/ring"
)

// Engine is a ring.IncrementalEngine whose membership proofs simply
// reveal the witness: the ring index and the blinding point b*B.
type Engine struct {
	params *ring.Params
}

// New creates an engine over the given parameters.
func New(params *ring.Params) *Engine {
	return &Engine{params: params}
}

// MaxRingSize reports how many keys a ring can hold.
func (e *Engine) MaxRingSize() int {
	return e.params.MaxRingSize()
}

// Commit serializes the padded ring. The commitment is the ring
// itself.
func (e *Engine) Commit(keys []group.Element) (ring.Commitment, error) {
	padded, err := e.params.PadRing(keys)
	if err != nil {
		return nil, err
	}
	s := e.params.Suite()
	com := make([]byte, 0, len(padded)*s.PointLen())
	for _, p := range padded {
		com = append(com, s.EncodePoint(p)...)
	}
	return com, nil
}

// NewProver prepares a prover for the key at the given ring index.
func (e *Engine) NewProver(keys []group.Element, index int) (ring.Prover, error) {
	if len(keys) > e.params.MaxRingSize() {
		return nil, fmt.Errorf("%w: %d keys, capacity %d", ring.ErrRingFull, len(keys), e.params.MaxRingSize())
	}
	if index < 0 || index >= len(keys) {
		return nil, fmt.Errorf("ringtest: index %d outside ring of %d keys", index, len(keys))
	}
	return &prover{params: e.params, index: index}, nil
}

// NewVerifier parses a commitment back into the ring it serializes.
func (e *Engine) NewVerifier(com ring.Commitment) (ring.Verifier, error) {
	s := e.params.Suite()
	pl := s.PointLen()
	if len(com) != e.params.MaxRingSize()*pl {
		return nil, fmt.Errorf("ringtest: commitment is %d bytes, want %d", len(com), e.params.MaxRingSize()*pl)
	}
	keys := make([]group.Element, e.params.MaxRingSize())
	for i := range keys {
		p, err := s.DecodePoint(com[i*pl : (i+1)*pl])
		if err != nil {
			return nil, fmt.Errorf("ringtest: ring slot %d: %w", i, err)
		}
		keys[i] = p
	}
	return &verifier{params: e.params, keys: keys}, nil
}

// NewCommitter starts an empty incremental commitment.
func (e *Engine) NewCommitter() ring.IncrementalCommitter {
	return &committer{params: e.params}
}

type prover struct {
	params *ring.Params
	index  int
}

// RingProve encodes the witness as LE32(index) || enc(b*B).
func (p *prover) RingProve(blinding *big.Int) ([]byte, error) {
	s := p.params.Suite()
	u := s.Group().Element().Scale(s.BlindingBase(), blinding)
	proof := make([]byte, 4, 4+s.PointLen())
	binary.LittleEndian.PutUint32(proof, uint32(p.index))
	return append(proof, s.EncodePoint(u)...), nil
}

type verifier struct {
	params *ring.Params
	keys   []group.Element
}

// RingVerify opens the key commitment with the disclosed blinding point
// and compares it against the disclosed ring slot.
func (v *verifier) RingVerify(proof []byte, keyCommitment group.Element) error {
	s := v.params.Suite()
	if len(proof) != 4+s.PointLen() {
		return fmt.Errorf("ringtest: proof is %d bytes, want %d", len(proof), 4+s.PointLen())
	}
	index := int(binary.LittleEndian.Uint32(proof[:4]))
	if index >= len(v.keys) {
		return fmt.Errorf("ringtest: index %d outside ring of %d keys", index, len(v.keys))
	}
	u, err := s.DecodePoint(proof[4:])
	if err != nil {
		return fmt.Errorf("ringtest: blinding point: %w", err)
	}

	g := s.Group()
	pk := g.Element().Subtract(keyCommitment, u)
	if !pk.Equal(v.keys[index]) {
		return fmt.Errorf("ringtest: commitment does not open to ring slot %d", index)
	}
	return nil
}

type committer struct {
	params *ring.Params
	ring   []group.Element
	sealed bool
}

func (c *committer) FreeSlots() int {
	return c.params.MaxRingSize() - len(c.ring)
}

func (c *committer) Append(keys []group.Element) error {
	if c.sealed {
		return fmt.Errorf("ringtest: committer already finalized")
	}
	if len(keys) > c.FreeSlots() {
		return fmt.Errorf("%w: %d keys for %d free slots", ring.ErrRingFull, len(keys), c.FreeSlots())
	}
	c.ring = append(c.ring, keys...)
	return nil
}

func (c *committer) Finalize() (ring.Commitment, error) {
	if c.sealed {
		return nil, fmt.Errorf("ringtest: committer already finalized")
	}
	c.sealed = true
	return New(c.params).Commit(c.ring)
}

var _ ring.IncrementalEngine = (*Engine)(nil)
