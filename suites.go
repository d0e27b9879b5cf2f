package vrf

import (
	"crypto/sha256"
	"crypto/sha512"

	"github.com/davxy/ark-vrf/group"
)

// blindingBaseSeed is hashed to the curve to fix the alternate generator
// of the pedersen key commitment. The text is arbitrary; only its bytes
// matter, and no party may know a discrete logarithm relation between
// the derived point and the generator.
var blindingBaseSeed = []byte("basis caecans lucis occultae quae mentem fugit et tenebras iis qui vident creat")

// P256Suite returns the ECVRF-P256-SHA256-TAI configuration of RFC 9381
// section 5.5.
func P256Suite() *Suite {
	s, err := NewSuite(Config{
		ID:           []byte{0x01},
		Group:        group.P256(),
		NewHash:      sha256.New,
		ChallengeLen: 16,
		ScalarOrder:  BigEndian,
		HashToCurve:  TryAndIncrement,
		Nonce:        NonceRFC6979,
	})
	if err != nil {
		panic(err)
	}
	return s
}

// P384Suite returns a P-384 suite with SHA-384 and try-and-increment
// hashing, sized for a 192-bit security level.
func P384Suite() *Suite {
	s, err := NewSuite(Config{
		ID:           []byte("P384_SHA-384_TAI"),
		Group:        group.P384(),
		NewHash:      sha512.New384,
		ChallengeLen: 24,
		ScalarOrder:  BigEndian,
		HashToCurve:  TryAndIncrement,
		Nonce:        NonceRFC6979,
	})
	if err != nil {
		panic(err)
	}
	return s
}

// Ristretto255Suite returns a ristretto255 suite with SHA-512,
// Elligator 2 hashing and RFC 8032 style nonces. Scalars use the
// little-endian encoding conventional for Curve25519.
func Ristretto255Suite() *Suite {
	s, err := NewSuite(Config{
		ID:           []byte("Ristretto255_SHA-512_ELL2"),
		Group:        group.Ristretto255(),
		NewHash:      sha512.New,
		ChallengeLen: 32,
		ScalarOrder:  LittleEndian,
		HashToCurve:  Elligator,
		H2CSuiteID:   "ristretto255_XMD:SHA-512_R255MAP_RO_",
		Nonce:        NonceRFC8032,
	})
	if err != nil {
		panic(err)
	}
	return s
}
