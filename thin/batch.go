package thin

import (
	"math/big"
	"sync"

	vrf "github.com/davxy/ark-vrf"
	"github.com/davxy/ark-vrf/group"
)

// BatchVerifier folds any number of thin proofs into a single check.
// Entries are accumulated with Add and settled by one Verify call, which
// consumes the batch. A batch either accepts as a whole or rejects as a
// whole; identifying an individual bad proof means falling back to
// per-proof Verify.
//
// A BatchVerifier is not safe for concurrent use. Set Workers to shard
// the per-entry preparation and the final multi-scalar multiplication
// across goroutines.
type BatchVerifier struct {
	// Workers bounds the goroutines used by Verify. Values below two
	// keep everything on the calling goroutine.
	Workers int

	suite   *vrf.Suite
	entries []batchEntry
	checked bool
}

type batchEntry struct {
	pk, in, out group.Element
	ad          []byte
	r           group.Element
	s           *big.Int
}

// preparedEntry caches the recomputed per-entry transcript values: the
// merged points and the challenge.
type preparedEntry struct {
	im, om group.Element
	c      *big.Int
}

// NewBatchVerifier creates an empty batch for the given suite.
func NewBatchVerifier(s *vrf.Suite) *BatchVerifier {
	return &BatchVerifier{suite: s}
}

// Len returns the number of accumulated entries.
func (b *BatchVerifier) Len() int {
	return len(b.entries)
}

// Add accumulates one proof. Proofs from different public keys and
// inputs batch together; only the suite must match.
func (b *BatchVerifier) Add(pk *vrf.PublicKey, in vrf.Input, out vrf.Output, ad []byte, proof *Proof) error {
	if b.checked {
		return vrf.ErrBatchConsumed
	}
	b.entries = append(b.entries, batchEntry{
		pk:  pk.Point(),
		in:  in.Point(),
		out: out.Point(),
		ad:  append([]byte(nil), ad...),
		r:   proof.r,
		s:   proof.s,
	})
	return nil
}

// Verify settles the batch: it draws one 128-bit weight per entry from a
// transcript-seeded stream and checks the weighted sum
//
//	sum_i  w_i*R_i + (w_i*c_i)*Om_i - (w_i*s_i)*Im_i  ==  identity
//
// as a single multi-scalar multiplication. If any entry's equation fails
// the weighted sum survives with probability at most 2^-128 over the
// weight draw. An empty batch accepts. The batch is consumed either way.
func (b *BatchVerifier) Verify() error {
	if b.checked {
		return vrf.ErrBatchConsumed
	}
	b.checked = true

	n := len(b.entries)
	if n == 0 {
		return nil
	}

	prepared := make([]preparedEntry, n)
	b.forEach(n, func(i int) {
		e := &b.entries[i]
		z0, z1 := b.suite.Delinearize(e.pk, e.in, e.out)
		im, om := b.suite.MergeRelation(z0, z1, e.pk, e.in, e.out)
		c := b.suite.Challenge(vrf.DomainChallengeThin, []group.Element{e.pk, e.in, e.out, e.r}, e.ad)
		prepared[i] = preparedEntry{im: im, om: om, c: c}
	})

	// The weight stream is seeded by the ordered (c, s) pairs, fixed
	// before any weight is drawn.
	transcript := make([]byte, 0, n*(b.suite.ChallengeLen()+b.suite.ScalarLen()))
	for i := range b.entries {
		transcript = append(transcript, b.suite.EncodeChallenge(prepared[i].c)...)
		transcript = append(transcript, b.suite.EncodeScalar(b.entries[i].s)...)
	}
	ws := vrf.NewWeightSource(b.suite, transcript)

	bases := make([]group.Element, 0, 3*n)
	scalars := make([]*big.Int, 0, 3*n)
	for i := range b.entries {
		w := ws.Next()
		bases = append(bases, b.entries[i].r, prepared[i].om, prepared[i].im)
		scalars = append(scalars,
			w,
			new(big.Int).Mul(w, prepared[i].c),
			new(big.Int).Neg(new(big.Int).Mul(w, b.entries[i].s)),
		)
	}

	sum := group.ParallelMSM(b.suite.Group(), bases, scalars, b.Workers)
	if !sum.IsIdentity() {
		return vrf.ErrVerificationFailed
	}
	return nil
}

// forEach runs fn over [0, n) sharded across the configured workers.
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
