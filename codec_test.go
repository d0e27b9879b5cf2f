package vrf

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davxy/ark-vrf/group"
)

func TestScalarCodec(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *Suite) {
		for i := 0; i < 32; i++ {
			k, err := rand.Int(rand.Reader, s.Order())
			require.NoError(t, err)

			b := s.EncodeScalar(k)
			require.Len(t, b, s.ScalarLen())

			back, err := s.DecodeScalar(b)
			require.NoError(t, err)
			require.Zero(t, k.Cmp(back))
		}

		// The group order itself is the smallest out of range value.
		raw := make([]byte, s.ScalarLen())
		s.Order().FillBytes(raw)
		if s.byteOrder == LittleEndian {
			reverse(raw)
		}
		_, err := s.DecodeScalar(raw)
		require.ErrorIs(t, err, ErrInvalidEncoding)

		_, err = s.DecodeScalar(make([]byte, s.ScalarLen()-1))
		require.ErrorIs(t, err, ErrInvalidEncoding)
	})
}

func TestPointCodec(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *Suite) {
		for i := 0; i < 16; i++ {
			p := s.Group().Random(rand.Reader)

			b := s.EncodePoint(p)
			require.Len(t, b, s.PointLen())

			back, err := s.DecodePoint(b)
			require.NoError(t, err)
			require.True(t, p.Equal(back))
		}

		// Identity uses the all zero fixed-width encoding.
		id := s.EncodePoint(s.Group().Identity())
		require.Equal(t, make([]byte, s.PointLen()), id)
		back, err := s.DecodePoint(id)
		require.NoError(t, err)
		require.True(t, back.IsIdentity())

		junk := bytes.Repeat([]byte{0xff}, s.PointLen())
		_, err = s.DecodePoint(junk)
		require.ErrorIs(t, err, ErrInvalidEncoding)

		_, err = s.DecodePoint(junk[:s.PointLen()-1])
		require.ErrorIs(t, err, ErrInvalidEncoding)
	})
}

func TestChallengeCodec(t *testing.T) {
	forEachSuite(t, func(t *testing.T, s *Suite) {
		pts := []group.Element{s.Group().Random(rand.Reader)}
		c := s.Challenge(DomainChallengeIETF, pts, nil)

		b := s.EncodeChallenge(c)
		require.Len(t, b, s.ChallengeLen())

		back, err := s.DecodeChallenge(b)
		require.NoError(t, err)
		require.Zero(t, c.Cmp(back))

		_, err = s.DecodeChallenge(b[:len(b)-1])
		require.ErrorIs(t, err, ErrInvalidEncoding)
	})
}
