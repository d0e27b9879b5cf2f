package ietf

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"

	vrf "github.com/davxy/ark-vrf"
	"github.com/davxy/ark-vrf/group"
)

// domBatchWeights tags the per-entry weight digests of the batch
// verifier.
const domBatchWeights byte = 0x04

// BatchableProof is the batch-compatible ECVRF proof shape: it carries
// the nonce commitments U = k*G and V = k*I instead of the challenge, so
// a verifier can fold many proofs into one multi-scalar multiplication
// instead of recomputing commitments per proof.
type BatchableProof struct {
	suite *vrf.Suite
	u, v  group.Element
	s     *big.Int
}

// U returns the generator-side nonce commitment.
func (p *BatchableProof) U() group.Element { return p.u }

// V returns the input-side nonce commitment.
func (p *BatchableProof) V() group.Element { return p.v }

// S returns the response scalar.
func (p *BatchableProof) S() *big.Int { return p.s }

// Bytes returns the wire encoding U || V || s.
func (p *BatchableProof) Bytes() []byte {
	b := append(p.suite.EncodePoint(p.u), p.suite.EncodePoint(p.v)...)
	return append(b, p.suite.EncodeScalar(p.s)...)
}

// BatchableProofFromBytes decodes a batchable proof from its wire
// encoding.
func BatchableProofFromBytes(s *vrf.Suite, b []byte) (*BatchableProof, error) {
	want := 2*s.PointLen() + s.ScalarLen()
	if len(b) != want {
		return nil, fmt.Errorf("%w: proof is %d bytes, want %d", vrf.ErrInvalidEncoding, len(b), want)
	}
	u, err := s.DecodePoint(b[:s.PointLen()])
	if err != nil {
		return nil, err
	}
	v, err := s.DecodePoint(b[s.PointLen() : 2*s.PointLen()])
	if err != nil {
		return nil, err
	}
	sc, err := s.DecodeScalar(b[2*s.PointLen():])
	if err != nil {
		return nil, err
	}
	return &BatchableProof{suite: s, u: u, v: v, s: sc}, nil
}

// Compact converts the proof to the RFC 9381 challenge-response form by
// recomputing the challenge over its commitments.
func (p *BatchableProof) Compact(pk *vrf.PublicKey, in vrf.Input, out vrf.Output, ad []byte) *Proof {
	c := p.suite.Challenge(vrf.DomainChallengeIETF,
		[]group.Element{pk.Point(), in.Point(), out.Point(), p.u, p.v}, ad)
	return &Proof{suite: p.suite, c: c, s: p.s}
}

// ProveBatchable creates a batch-compatible proof. The transcript is
// identical to Prove; only the shipped proof material differs.
func ProveBatchable(sk *vrf.SecretKey, in vrf.Input, out vrf.Output, ad []byte) *BatchableProof {
	s := sk.Suite()
	k := sk.Nonce(in.Point(), ad)
	u := s.SecretBaseScale(k)
	v := s.SecretScale(in.Point(), k)
	c := s.Challenge(vrf.DomainChallengeIETF,
		[]group.Element{sk.Public().Point(), in.Point(), out.Point(), u, v}, ad)
	return &BatchableProof{suite: s, u: u, v: v, s: sk.Response(k, c)}
}

// VerifyBatchable checks a single batch-compatible proof through its two
// point equations U + c*P == s*G and V + c*O == s*I.
func VerifyBatchable(pk *vrf.PublicKey, in vrf.Input, out vrf.Output, ad []byte, proof *BatchableProof) error {
	s := pk.Suite()
	g := s.Group()
	c := s.Challenge(vrf.DomainChallengeIETF,
		[]group.Element{pk.Point(), in.Point(), out.Point(), proof.u, proof.v}, ad)

	left := g.Element().Scale(pk.Point(), c)
	left.Add(left, proof.u)
	if !left.Equal(g.Element().BaseScale(proof.s)) {
		return vrf.ErrVerificationFailed
	}
	left = g.Element().Scale(out.Point(), c)
	left.Add(left, proof.v)
	if !left.Equal(g.Element().Scale(in.Point(), proof.s)) {
		return vrf.ErrVerificationFailed
	}
	return nil
}

// BatchVerifier folds batch-compatible ECVRF proofs into one check.
// Entries are accumulated with Add and settled by one Verify call, which
// consumes the batch. Not safe for concurrent use; Workers only shards
// Verify internally.
type BatchVerifier struct {
	// Workers bounds the goroutines used by Verify.
	Workers int

	suite   *vrf.Suite
	entries []batchEntry
	checked bool
}

type batchEntry struct {
	pk, in, out group.Element
	ad          []byte
	u, v        group.Element
	s           *big.Int
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
func (b *BatchVerifier) Add(pk *vrf.PublicKey, in vrf.Input, out vrf.Output, ad []byte, proof *BatchableProof) error {
	if b.checked {
		return vrf.ErrBatchConsumed
	}
	b.entries = append(b.entries, batchEntry{
		pk:  pk.Point(),
		in:  in.Point(),
		out: out.Point(),
		ad:  append([]byte(nil), ad...),
		u:   proof.u,
		v:   proof.v,
		s:   proof.s,
	})
	return nil
}

// Verify settles the batch. Each entry contributes its two verification
// equations, weighted by a pair of challenge-width scalars derived by
// hashing the batch transcript with the entry index, and everything is
// checked in a single multi-scalar multiplication
//
//	sum_i [ (l_i*s_i)*I_i - (l_i*c_i)*O_i - l_i*V_i
//	       - (r_i*c_i)*P_i - r_i*U_i ] + (sum_i r_i*s_i)*G == identity
//
// An empty batch accepts. The batch is consumed either way.
func (b *BatchVerifier) Verify() error {
	if b.checked {
		return vrf.ErrBatchConsumed
	}
	b.checked = true

	n := len(b.entries)
	if n == 0 {
		return nil
	}

	// The weight transcript commits to every entry's input and proof.
	transcript := make([]byte, 0, n*(2*b.suite.PointLen()+b.suite.ScalarLen()))
	for i := range b.entries {
		e := &b.entries[i]
		transcript = append(transcript, b.suite.EncodePoint(e.in)...)
		transcript = append(transcript, b.suite.EncodePoint(e.u)...)
		transcript = append(transcript, b.suite.EncodePoint(e.v)...)
		transcript = append(transcript, b.suite.EncodeScalar(e.s)...)
	}

	clen := b.suite.ChallengeLen()
	order := b.suite.Order()

	bases := make([]group.Element, 5*n+1)
	scalars := make([]*big.Int, 5*n+1)
	gCoeff := new(big.Int)
	var mu sync.Mutex

	b.forEach(n, func(i int) {
		e := &b.entries[i]
		c := b.suite.Challenge(vrf.DomainChallengeIETF,
			[]group.Element{e.pk, e.in, e.out, e.u, e.v}, e.ad)

		var idx [4]byte
		binary.LittleEndian.PutUint32(idx[:], uint32(i))
		d := b.suite.Hash(b.suite.ID(), []byte{domBatchWeights}, transcript, idx[:], []byte{0x00})
		l := leBytesToInt(d[:clen])
		r := leBytesToInt(d[clen : 2*clen])

		bases[5*i] = e.in
		scalars[5*i] = new(big.Int).Mul(l, e.s)
		bases[5*i+1] = e.out
		scalars[5*i+1] = new(big.Int).Neg(new(big.Int).Mul(l, c))
		bases[5*i+2] = e.v
		scalars[5*i+2] = new(big.Int).Neg(l)
		bases[5*i+3] = e.pk
		scalars[5*i+3] = new(big.Int).Neg(new(big.Int).Mul(r, c))
		bases[5*i+4] = e.u
		scalars[5*i+4] = new(big.Int).Neg(r)

		rs := new(big.Int).Mul(r, e.s)
		mu.Lock()
		gCoeff.Add(gCoeff, rs).Mod(gCoeff, order)
		mu.Unlock()
	})

	bases[5*n] = b.suite.Group().Generator()
	scalars[5*n] = gCoeff

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

// leBytesToInt interprets b as a little-endian unsigned integer.
func leBytesToInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}
