package ring

import (
	"fmt"
	"sync"

	vrf "github.com/davxy/ark-vrf"
	"github.com/davxy/ark-vrf/group"
	"github.com/davxy/ark-vrf/pedersen"
)

// BatchVerifier folds the pedersen legs of several ring proofs into one
// multi-scalar multiplication. Membership legs carry no shared algebraic
// structure the fold could exploit, so they are checked one by one,
// sharded across Workers. Entries may target different rings. Not safe
// for concurrent use; Workers only shards Verify internally.
type BatchVerifier struct {
	// Workers bounds the goroutines used by Verify.
	Workers int

	inner   *pedersen.BatchVerifier
	entries []ringCheck
	checked bool
}

type ringCheck struct {
	membership    []byte
	keyCommitment group.Element
	verifier      Verifier
}

// NewBatchVerifier creates an empty batch for the given suite.
func NewBatchVerifier(s *vrf.Suite) *BatchVerifier {
	return &BatchVerifier{inner: pedersen.NewBatchVerifier(s)}
}

// Len returns the number of accumulated entries.
func (b *BatchVerifier) Len() int {
	return len(b.entries)
}

// Add accumulates one proof together with the verifier for its ring.
func (b *BatchVerifier) Add(in vrf.Input, out vrf.Output, ad []byte, proof *Proof, verifier Verifier) error {
	if b.checked {
		return vrf.ErrBatchConsumed
	}
	if err := b.inner.Add(in, out, ad, proof.pedersen); err != nil {
		return err
	}
	b.entries = append(b.entries, ringCheck{
		membership:    proof.membership,
		keyCommitment: proof.pedersen.KeyCommitment(),
		verifier:      verifier,
	})
	return nil
}

// Verify settles the batch: the pedersen fold first, then every
// membership proof. The first failing membership entry is reported by
// index. An empty batch accepts. The batch is consumed either way.
func (b *BatchVerifier) Verify() error {
	if b.checked {
		return vrf.ErrBatchConsumed
	}
	b.checked = true

	b.inner.Workers = b.Workers
	if err := b.inner.Verify(); err != nil {
		return err
	}

	n := len(b.entries)
	errs := make([]error, n)
	b.forEach(n, func(i int) {
		e := &b.entries[i]
		errs[i] = e.verifier.RingVerify(e.membership, e.keyCommitment)
	})
	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrRingMembership, i, err)
		}
	}
	return nil
}

func (b *BatchVerifier) forEach(n int, fn func(i int)) {
	workers := b.Workers
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}
