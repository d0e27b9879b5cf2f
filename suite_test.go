package vrf

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davxy/ark-vrf/group"
)

var testSuites = []struct {
	name string
	new  func() *Suite
}{
	{"P256", P256Suite},
	{"P384", P384Suite},
	{"Ristretto255", Ristretto255Suite},
}

func forEachSuite(t *testing.T, f func(t *testing.T, s *Suite)) {
	for _, tc := range testSuites {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			f(t, tc.new())
		})
	}
}

func TestSuiteDimensions(t *testing.T) {
	for _, tc := range []struct {
		name                        string
		new                         func() *Suite
		pointLen, scalarLen, chaLen int
	}{
		{"P256", P256Suite, 33, 32, 16},
		{"P384", P384Suite, 49, 48, 24},
		{"Ristretto255", Ristretto255Suite, 32, 32, 32},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.new()
			require.Equal(t, tc.pointLen, s.PointLen())
			require.Equal(t, tc.scalarLen, s.ScalarLen())
			require.Equal(t, tc.chaLen, s.ChallengeLen())
			require.NotEmpty(t, s.ID())
		})
	}
}

func TestNewSuiteValidation(t *testing.T) {
	base := Config{
		ID:           []byte("test"),
		Group:        group.P256(),
		NewHash:      sha256.New,
		ChallengeLen: 16,
		HashToCurve:  TryAndIncrement,
		Nonce:        NonceRFC6979,
	}

	_, err := NewSuite(base)
	require.NoError(t, err)

	cfg := base
	cfg.Group = nil
	_, err = NewSuite(cfg)
	require.Error(t, err)

	cfg = base
	cfg.ID = nil
	_, err = NewSuite(cfg)
	require.Error(t, err)

	cfg = base
	cfg.ChallengeLen = 0
	_, err = NewSuite(cfg)
	require.Error(t, err)

	cfg = base
	cfg.ChallengeLen = 64
	_, err = NewSuite(cfg)
	require.Error(t, err)

	// A 32 byte digest cannot yield a pair of 20 byte weights.
	cfg = base
	cfg.ChallengeLen = 20
	_, err = NewSuite(cfg)
	require.ErrorIs(t, err, ErrInsufficientHashOutput)

	// RFC 8032 nonces need a 64 byte digest.
	cfg = base
	cfg.Nonce = NonceRFC8032
	_, err = NewSuite(cfg)
	require.ErrorIs(t, err, ErrInsufficientHashOutput)

	cfg = base
	cfg.Nonce = NonceRFC8032
	cfg.NewHash = sha512.New
	_, err = NewSuite(cfg)
	require.NoError(t, err)

	cfg = base
	cfg.HashToCurve = Elligator
	cfg.H2CSuiteID = ""
	_, err = NewSuite(cfg)
	require.Error(t, err)

	// P-384 coordinates do not fit in a SHA-256 digest.
	cfg = base
	cfg.Group = group.P384()
	_, err = NewSuite(cfg)
	require.ErrorIs(t, err, ErrInsufficientHashOutput)
}

func TestDomainBytes(t *testing.T) {
	domains := []byte{
		domHashToCurve,
		DomainChallengeIETF,
		domPointToHash,
		domDelinearize,
		DomainChallengeThin,
		domBlinding,
	}
	seen := make(map[byte]bool, len(domains))
	for _, d := range domains {
		require.False(t, seen[d], "domain byte 0x%02x reused", d)
		seen[d] = true
	}
}

func TestChallenge(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *Suite) {
		pts := []group.Element{
			s.Group().Random(rand.Reader),
			s.Group().Random(rand.Reader),
			s.Group().Random(rand.Reader),
		}
		ad := []byte("additional data")

		c1 := s.Challenge(DomainChallengeThin, pts, ad)
		c2 := s.Challenge(DomainChallengeThin, pts, ad)
		require.Zero(t, c1.Cmp(c2))
		require.Negative(t, c1.Cmp(s.Order()))

		// Any change to the transcript must move the challenge.
		require.NotZero(t, c1.Cmp(s.Challenge(DomainChallengeIETF, pts, ad)))
		require.NotZero(t, c1.Cmp(s.Challenge(DomainChallengeThin, pts, []byte("other data"))))
		require.NotZero(t, c1.Cmp(s.Challenge(DomainChallengeThin, pts[:2], ad)))

		mut := []group.Element{pts[0], pts[1], s.Group().Random(rand.Reader)}
		require.NotZero(t, c1.Cmp(s.Challenge(DomainChallengeThin, mut, ad)))
	})
}

func TestHashToCurve(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *Suite) {
		p1, err := s.HashToCurve([]byte("alpha"))
		require.NoError(t, err)
		p2, err := s.HashToCurve([]byte("alpha"))
		require.NoError(t, err)
		p3, err := s.HashToCurve([]byte("beta"))
		require.NoError(t, err)

		require.True(t, p1.Equal(p2))
		require.False(t, p1.Equal(p3))
		require.False(t, p1.IsIdentity())

		// The map output must survive the wire codec.
		rt, err := s.DecodePoint(s.EncodePoint(p1))
		require.NoError(t, err)
		require.True(t, p1.Equal(rt))
	})
}

func TestDelinearize(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *Suite) {
		sk, err := s.GenerateKey(rand.Reader)
		require.NoError(t, err)
		in, err := s.NewInput([]byte("input data"))
		require.NoError(t, err)
		out := sk.Output(in)

		z0, z1 := s.Delinearize(sk.Public().Point(), in.Point(), out.Point())
		require.LessOrEqual(t, z0.BitLen(), 128)
		require.LessOrEqual(t, z1.BitLen(), 128)

		zz0, zz1 := s.Delinearize(sk.Public().Point(), in.Point(), out.Point())
		require.Zero(t, z0.Cmp(zz0))
		require.Zero(t, z1.Cmp(zz1))

		// Honest keys satisfy the merged relation om = sk*im.
		im, om := s.MergeRelation(z0, z1, sk.Public().Point(), in.Point(), out.Point())
		want := s.Group().Element().Scale(im, sk.Scalar())
		require.True(t, om.Equal(want))
	})
}

func TestBlindingBase(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *Suite) {
		b := s.BlindingBase()
		require.False(t, b.IsIdentity())
		require.False(t, b.Equal(s.Group().Generator()))
	})

	// The derivation is fixed per suite.
	require.True(t, P256Suite().BlindingBase().Equal(P256Suite().BlindingBase()))
}

func TestWeightSource(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *Suite) {
		ws1 := NewWeightSource(s, []byte("batch transcript"))
		ws2 := NewWeightSource(s, []byte("batch transcript"))
		ws3 := NewWeightSource(s, []byte("another transcript"))

		for i := 0; i < 8; i++ {
			w1 := ws1.Next()
			require.Zero(t, w1.Cmp(ws2.Next()))
			require.LessOrEqual(t, w1.BitLen(), 128)
			require.NotZero(t, w1.Cmp(ws3.Next()))
		}
	})
}

func TestSecretScale(t *testing.T) {
	cfg := Config{
		ID:              []byte("split"),
		Group:           group.P256(),
		NewHash:         sha256.New,
		ChallengeLen:    16,
		HashToCurve:     TryAndIncrement,
		Nonce:           NonceRFC6979,
		SecretSplitting: true,
	}
	s, err := NewSuite(cfg)
	require.NoError(t, err)

	p := s.Group().Random(rand.Reader)
	k, err := rand.Int(rand.Reader, s.Order())
	require.NoError(t, err)

	want := s.Group().Element().Scale(p, k)
	for i := 0; i < 16; i++ {
		require.True(t, want.Equal(s.SecretScale(p, k)))
	}
	require.True(t, s.Group().Element().BaseScale(k).Equal(s.SecretBaseScale(k)))
}
