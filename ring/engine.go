// Package ring implements an anonymous VRF: a pedersen proof showing
// the output belongs to some committed key, paired with an external
// membership proof showing that key sits in a public ring. The
// membership proof system is consumed through the Engine interface and
// never inspected.
package ring

import (
	"errors"
	"math/big"

	"github.com/davxy/ark-vrf/group"
)

var (
	// ErrRingMembership reports a membership proof the engine rejected.
	ErrRingMembership = errors.New("ring: membership proof invalid")

	// ErrRingFull reports an attempt to place more keys in a ring than
	// its domain can hold.
	ErrRingFull = errors.New("ring: ring capacity exceeded")
)

// Commitment is an engine-defined condensed representation of a ring.
// Verifiers can be rebuilt from it without the member list.
type Commitment []byte

// Engine is the external membership proof system. Implementations prove
// and verify that a blinded key commitment opens to a ring member,
// without revealing which.
type Engine interface {
	// MaxRingSize reports how many keys a ring can hold.
	MaxRingSize() int

	// Commit condenses an ordered ring of public key points.
	Commit(ring []group.Element) (Commitment, error)

	// NewProver prepares a prover for the key at the given ring index.
	NewProver(ring []group.Element, index int) (Prover, error)

	// NewVerifier rebuilds a verifier from a ring commitment.
	NewVerifier(com Commitment) (Verifier, error)
}

// Prover produces membership proofs for one ring position.
type Prover interface {
	// RingProve proves that the key commitment formed with the given
	// blinding scalar opens to the prover's ring member.
	RingProve(blinding *big.Int) ([]byte, error)
}

// Verifier checks membership proofs against one ring commitment.
type Verifier interface {
	// RingVerify checks a membership proof for a blinded key
	// commitment.
	RingVerify(proof []byte, keyCommitment group.Element) error
}

// IncrementalCommitter builds a ring commitment piecewise, so large
// rings can be assembled as their members become known.
type IncrementalCommitter interface {
	// FreeSlots reports how many keys still fit.
	FreeSlots() int
	// Append adds keys to the ring under construction.
	Append(keys []group.Element) error
	// Finalize seals the ring and returns its commitment.
	Finalize() (Commitment, error)
}

// IncrementalEngine is implemented by engines that support building
// commitments piecewise.
type IncrementalEngine interface {
	Engine
	NewCommitter() IncrementalCommitter
}
