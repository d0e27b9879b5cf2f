package pedersen

import (
	"math/big"
	"sync"

	vrf "github.com/davxy/ark-vrf"
	"github.com/davxy/ark-vrf/group"
)

// BatchVerifier folds pedersen proofs into a single check. The per-entry
// equation has the thin VRF shape plus a blinding term on the shared
// base B, so the fold costs one multi-scalar multiplication over 3n+1
// terms. Not safe for concurrent use; Workers only shards Verify
// internally.
type BatchVerifier struct {
	// Workers bounds the goroutines used by Verify.
	Workers int

	suite   *vrf.Suite
	entries []batchEntry
	checked bool
}

type batchEntry struct {
	in, out group.Element
	ad      []byte
	r, com  group.Element
	s, sb   *big.Int
}

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

// Add accumulates one proof.
func (b *BatchVerifier) Add(in vrf.Input, out vrf.Output, ad []byte, proof *Proof) error {
	if b.checked {
		return vrf.ErrBatchConsumed
	}
	b.entries = append(b.entries, batchEntry{
		in:  in.Point(),
		out: out.Point(),
		ad:  append([]byte(nil), ad...),
		r:   proof.r,
		com: proof.com,
		s:   proof.s,
		sb:  proof.sb,
	})
	return nil
}

// Verify settles the batch: one 128-bit weight per entry folds the
// per-entry equations into
//
//	sum_i [ w_i*R_i + (w_i*c_i)*Om_i - (w_i*s_i)*Im_i ]
//	    - (sum_i w_i*sb_i)*B  ==  identity
//
// checked as a single multi-scalar multiplication. The weight seed
// covers every response scalar, both s and sb. An empty batch accepts.
// The batch is consumed either way.
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
		z0, z1 := b.suite.Delinearize(e.com, e.in, e.out)
		im, om := b.suite.MergeRelation(z0, z1, e.com, e.in, e.out)
		c := b.suite.Challenge(vrf.DomainChallengeThin, []group.Element{e.com, e.in, e.out, e.r}, e.ad)
		prepared[i] = preparedEntry{im: im, om: om, c: c}
	})

	transcript := make([]byte, 0, n*(b.suite.ChallengeLen()+2*b.suite.ScalarLen()))
	for i := range b.entries {
		transcript = append(transcript, b.suite.EncodeChallenge(prepared[i].c)...)
		transcript = append(transcript, b.suite.EncodeScalar(b.entries[i].s)...)
		transcript = append(transcript, b.suite.EncodeScalar(b.entries[i].sb)...)
	}
	ws := vrf.NewWeightSource(b.suite, transcript)

	bases := make([]group.Element, 0, 3*n+1)
	scalars := make([]*big.Int, 0, 3*n+1)
	bCoeff := new(big.Int)
	for i := range b.entries {
		w := ws.Next()
		bases = append(bases, b.entries[i].r, prepared[i].om, prepared[i].im)
		scalars = append(scalars,
			w,
			new(big.Int).Mul(w, prepared[i].c),
			new(big.Int).Neg(new(big.Int).Mul(w, b.entries[i].s)),
		)
		bCoeff.Add(bCoeff, new(big.Int).Mul(w, b.entries[i].sb))
	}
	bases = append(bases, b.suite.BlindingBase())
	scalars = append(scalars, bCoeff.Neg(bCoeff))

	sum := group.ParallelMSM(b.suite.Group(), bases, scalars, b.Workers)
	if !sum.IsIdentity() {
		return vrf.ErrVerificationFailed
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
