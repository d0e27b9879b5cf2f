package ring_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	vrf "github.com/davxy/ark-vrf"
	"github.com/davxy/ark-vrf/group"
	"github.com/davxy/ark-vrf/ring"
	"github.com/davxy/ark-vrf/ring/ringtest"
)

var testSuites = []struct {
	name string
	new  func() *vrf.Suite
}{
	{"P256", vrf.P256Suite},
	{"P384", vrf.P384Suite},
	{"Ristretto255", vrf.Ristretto255Suite},
}

func forEachSuite(t *testing.T, f func(t *testing.T, s *vrf.Suite)) {
	for _, tc := range testSuites {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			f(t, tc.new())
		})
	}
}

// setupRing builds an n-key ring with its transparent engine.
func setupRing(t *testing.T, s *vrf.Suite, n int) (*ring.Params, *ringtest.Engine, []*vrf.SecretKey, []group.Element) {
	t.Helper()
	params, err := ring.NewParamsForRing(s, n)
	require.NoError(t, err)
	sks := make([]*vrf.SecretKey, n)
	keys := make([]group.Element, n)
	for i := range sks {
		sk, err := s.GenerateKey(rand.Reader)
		require.NoError(t, err)
		sks[i] = sk
		keys[i] = sk.Public().Point()
	}
	return params, ringtest.New(params), sks, keys
}

func verifierFor(t *testing.T, eng *ringtest.Engine, keys []group.Element) ring.Verifier {
	t.Helper()
	com, err := eng.Commit(keys)
	require.NoError(t, err)
	v, err := eng.NewVerifier(com)
	require.NoError(t, err)
	return v
}

func input(t *testing.T, s *vrf.Suite, data []byte) vrf.Input {
	t.Helper()
	in, err := s.NewInput(data)
	require.NoError(t, err)
	return in
}

func TestProveVerify(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *vrf.Suite) {
		_, eng, sks, keys := setupRing(t, s, 4)
		verifier := verifierFor(t, eng, keys)
		in := input(t, s, []byte("data"))

		for i, sk := range sks {
			out := sk.Output(in)
			prover, err := eng.NewProver(keys, i)
			require.NoError(t, err)

			proof, err := ring.Prove(sk, in, out, []byte("ad"), prover)
			require.NoError(t, err)
			require.NoError(t, ring.Verify(s, in, out, []byte("ad"), proof, verifier))
			require.Len(t, proof.Bytes(), 2*s.PointLen()+2*s.ScalarLen()+4+s.PointLen())
		}
	})
}

func TestVerifyRejects(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *vrf.Suite) {
		_, eng, sks, keys := setupRing(t, s, 4)
		verifier := verifierFor(t, eng, keys)
		in := input(t, s, []byte("data"))
		out := sks[0].Output(in)

		prover, err := eng.NewProver(keys, 0)
		require.NoError(t, err)
		proof, err := ring.Prove(sks[0], in, out, []byte("ad"), prover)
		require.NoError(t, err)

		// The VRF leg breaks before the membership leg is consulted.
		err = ring.Verify(s, in, out, []byte("ad'"), proof, verifier)
		require.ErrorIs(t, err, vrf.ErrVerificationFailed)

		// Claiming a slot held by someone else.
		wrong, err := eng.NewProver(keys, 1)
		require.NoError(t, err)
		proof, err = ring.Prove(sks[0], in, out, []byte("ad"), wrong)
		require.NoError(t, err)
		err = ring.Verify(s, in, out, []byte("ad"), proof, verifier)
		require.ErrorIs(t, err, ring.ErrRingMembership)

		// A key outside the ring entirely.
		outsider, err := s.GenerateKey(rand.Reader)
		require.NoError(t, err)
		prover, err = eng.NewProver(keys, 2)
		require.NoError(t, err)
		proof, err = ring.Prove(outsider, in, outsider.Output(in), []byte("ad"), prover)
		require.NoError(t, err)
		err = ring.Verify(s, in, outsider.Output(in), []byte("ad"), proof, verifier)
		require.ErrorIs(t, err, ring.ErrRingMembership)
	})
}

func TestProofCodec(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *vrf.Suite) {
		_, eng, sks, keys := setupRing(t, s, 4)
		verifier := verifierFor(t, eng, keys)
		in := input(t, s, []byte("data"))
		out := sks[3].Output(in)

		prover, err := eng.NewProver(keys, 3)
		require.NoError(t, err)
		proof, err := ring.Prove(sks[3], in, out, []byte("ad"), prover)
		require.NoError(t, err)

		back, err := ring.ProofFromBytes(s, proof.Bytes())
		require.NoError(t, err)
		require.Equal(t, proof.Bytes(), back.Bytes())
		require.NoError(t, ring.Verify(s, in, out, []byte("ad"), back, verifier))

		_, err = ring.ProofFromBytes(s, proof.Bytes()[:s.PointLen()])
		require.ErrorIs(t, err, vrf.ErrInvalidEncoding)

		// A pedersen prefix alone leaves an empty membership payload,
		// which the engine must reject.
		bare, err := ring.ProofFromBytes(s, proof.Bytes()[:2*s.PointLen()+2*s.ScalarLen()])
		require.NoError(t, err)
		err = ring.Verify(s, in, out, []byte("ad"), bare, verifier)
		require.ErrorIs(t, err, ring.ErrRingMembership)
	})
}

func TestParamsSizing(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *vrf.Suite) {
		params, err := ring.NewParamsForRing(s, 8)
		require.NoError(t, err)

		d := params.DomainSize()
		require.Zero(t, d&(d-1))
		require.GreaterOrEqual(t, params.MaxRingSize(), 8)
		require.Equal(t, 4+s.Order().BitLen(), d-params.MaxRingSize())
		require.Equal(t, d, ring.DomainSizeFromSRS(ring.SRSSize(d)))
		require.Equal(t, params.MaxRingSize(), ring.MaxRingSize(s, d))

		require.False(t, params.AccumulatorBase().IsIdentity())
		require.False(t, params.Padding().IsIdentity())
		require.False(t, params.AccumulatorBase().Equal(params.Padding()))

		_, err = ring.NewParams(s, 100)
		require.Error(t, err)
		_, err = ring.NewParams(s, 2)
		require.Error(t, err)
	})
}

func TestPadRing(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *vrf.Suite) {
		params, _, _, keys := setupRing(t, s, 3)

		padded, err := params.PadRing(keys)
		require.NoError(t, err)
		require.Len(t, padded, params.MaxRingSize())
		require.True(t, padded[0].Equal(keys[0]))
		for i := len(keys); i < len(padded); i++ {
			require.True(t, padded[i].Equal(params.Padding()))
		}

		over := make([]group.Element, params.MaxRingSize()+1)
		_, err = params.PadRing(over)
		require.ErrorIs(t, err, ring.ErrRingFull)
	})
}

func TestIncrementalCommitter(t *testing.T) {
	s := vrf.P256Suite()
	params, eng, _, keys := setupRing(t, s, 6)

	c := eng.NewCommitter()
	require.Equal(t, params.MaxRingSize(), c.FreeSlots())
	require.NoError(t, c.Append(keys[:2]))
	require.NoError(t, c.Append(keys[2:]))
	require.Equal(t, params.MaxRingSize()-6, c.FreeSlots())

	over := make([]group.Element, c.FreeSlots()+1)
	require.ErrorIs(t, c.Append(over), ring.ErrRingFull)

	got, err := c.Finalize()
	require.NoError(t, err)
	want, err := eng.Commit(keys)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = c.Finalize()
	require.Error(t, err)
	require.Error(t, c.Append(keys[:1]))
}

func TestBatchVerify(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *vrf.Suite) {
		require.NoError(t, ring.NewBatchVerifier(s).Verify())

		_, eng, sks, keys := setupRing(t, s, 4)
		verifier := verifierFor(t, eng, keys)

		for _, n := range []int{1, 2, 8} {
			bv := ring.NewBatchVerifier(s)
			fill(t, s, bv, eng, sks, keys, verifier, n)
			require.Equal(t, n, bv.Len())
			require.NoError(t, bv.Verify())
		}
	})
}

func TestBatchRejects(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *vrf.Suite) {
		_, eng, sks, keys := setupRing(t, s, 4)
		verifier := verifierFor(t, eng, keys)

		// A VRF leg bound to other additional data sinks the fold.
		bv := ring.NewBatchVerifier(s)
		fill(t, s, bv, eng, sks, keys, verifier, 3)
		in := input(t, s, []byte("poison"))
		out := sks[0].Output(in)
		prover, err := eng.NewProver(keys, 0)
		require.NoError(t, err)
		proof, err := ring.Prove(sks[0], in, out, []byte("ad"), prover)
		require.NoError(t, err)
		require.NoError(t, bv.Add(in, out, []byte("ad'"), proof, verifier))
		require.ErrorIs(t, bv.Verify(), vrf.ErrVerificationFailed)

		// A stolen slot passes the fold but fails its membership check.
		bv = ring.NewBatchVerifier(s)
		fill(t, s, bv, eng, sks, keys, verifier, 3)
		wrong, err := eng.NewProver(keys, 1)
		require.NoError(t, err)
		proof, err = ring.Prove(sks[0], in, out, []byte("ad"), wrong)
		require.NoError(t, err)
		require.NoError(t, bv.Add(in, out, []byte("ad"), proof, verifier))
		require.ErrorIs(t, bv.Verify(), ring.ErrRingMembership)
	})
}

func TestBatchConsumed(t *testing.T) {
	s := vrf.P256Suite()
	_, eng, sks, keys := setupRing(t, s, 4)
	verifier := verifierFor(t, eng, keys)

	bv := ring.NewBatchVerifier(s)
	fill(t, s, bv, eng, sks, keys, verifier, 1)
	require.NoError(t, bv.Verify())
	require.ErrorIs(t, bv.Verify(), vrf.ErrBatchConsumed)

	in := input(t, s, []byte("late"))
	out := sks[0].Output(in)
	prover, err := eng.NewProver(keys, 0)
	require.NoError(t, err)
	proof, err := ring.Prove(sks[0], in, out, nil, prover)
	require.NoError(t, err)
	require.ErrorIs(t, bv.Add(in, out, nil, proof, verifier), vrf.ErrBatchConsumed)
}

func TestBatchParallel(t *testing.T) {
	s := vrf.P384Suite()
	_, eng, sks, keys := setupRing(t, s, 4)
	verifier := verifierFor(t, eng, keys)

	for _, workers := range []int{2, 4, 32} {
		bv := ring.NewBatchVerifier(s)
		bv.Workers = workers
		fill(t, s, bv, eng, sks, keys, verifier, 6)
		require.NoError(t, bv.Verify())
	}
}

func fill(t *testing.T, s *vrf.Suite, bv *ring.BatchVerifier, eng *ringtest.Engine, sks []*vrf.SecretKey, keys []group.Element, verifier ring.Verifier, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		idx := i % len(sks)
		in := input(t, s, []byte{byte(i), 'd'})
		out := sks[idx].Output(in)
		prover, err := eng.NewProver(keys, idx)
		require.NoError(t, err)
		proof, err := ring.Prove(sks[idx], in, out, []byte{byte(i), 'a'}, prover)
		require.NoError(t, err)
		require.NoError(t, bv.Add(in, out, []byte{byte(i), 'a'}, proof, verifier))
	}
}
