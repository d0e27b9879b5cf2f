package vrf

import (
	"fmt"
	"io"
	"math/big"

	"github.com/davxy/ark-vrf/group"
)

// SecretKey holds a VRF secret scalar together with its cached public
// key. The scalar never leaves the struct except through Scalar and
// Bytes; call Zeroize when the key goes out of use.
type SecretKey struct {
	suite  *Suite
	scalar *big.Int
	public *PublicKey
}

// PublicKey is the public half of a VRF key pair.
type PublicKey struct {
	suite *Suite
	point group.Element
}

// GenerateKey creates a key from 32 bytes of rnd, which should be a
// cryptographically secure randomness source.
func (s *Suite) GenerateKey(rnd io.Reader) (*SecretKey, error) {
	seed := make([]byte, 32)
	if _, err := io.ReadFull(rnd, seed); err != nil {
		return nil, fmt.Errorf("vrf: reading key seed: %w", err)
	}
	sk := s.SecretKeyFromSeed(seed)
	for i := range seed {
		seed[i] = 0
	}
	return sk, nil
}

// SecretKeyFromSeed derives a key deterministically from an arbitrary
// seed: the hashed seed is reduced little-endian into the scalar field,
// with the (practically unreachable) zero result mapped to one.
func (s *Suite) SecretKeyFromSeed(seed []byte) *SecretKey {
	k := leBytesToInt(s.Hash(seed))
	k.Mod(k, s.order)
	if k.Sign() == 0 {
		k.SetInt64(1)
	}
	sk, _ := s.SecretKeyFromScalar(k)
	return sk
}

// SecretKeyFromScalar wraps an existing scalar, reducing it modulo the
// group order. The zero scalar is rejected.
func (s *Suite) SecretKeyFromScalar(k *big.Int) (*SecretKey, error) {
	v := new(big.Int).Mod(k, s.order)
	if v.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero secret scalar", ErrInvalidEncoding)
	}
	pub := s.SecretBaseScale(v)
	return &SecretKey{
		suite:  s,
		scalar: v,
		public: &PublicKey{suite: s, point: pub},
	}, nil
}

// SecretKeyFromBytes decodes a key from the suite's scalar encoding.
func (s *Suite) SecretKeyFromBytes(b []byte) (*SecretKey, error) {
	k, err := s.DecodeScalar(b)
	if err != nil {
		return nil, err
	}
	return s.SecretKeyFromScalar(k)
}

// Suite returns the suite the key belongs to.
func (sk *SecretKey) Suite() *Suite {
	return sk.suite
}

// Public returns the cached public key.
func (sk *SecretKey) Public() *PublicKey {
	return sk.public
}

// Scalar returns a copy of the secret scalar.
func (sk *SecretKey) Scalar() *big.Int {
	return new(big.Int).Set(sk.scalar)
}

// Bytes returns the suite's scalar encoding of the secret.
func (sk *SecretKey) Bytes() []byte {
	return sk.suite.EncodeScalar(sk.scalar)
}

// Zeroize overwrites the secret scalar's backing storage. The key is
// unusable afterwards.
func (sk *SecretKey) Zeroize() {
	limbs := sk.scalar.Bits()
	for i := range limbs {
		limbs[i] = 0
	}
	sk.scalar.SetInt64(0)
}

// Output evaluates the VRF at in, returning the output point sk*in.
func (sk *SecretKey) Output(in Input) Output {
	return Output{
		suite: sk.suite,
		point: sk.suite.SecretScale(in.point, sk.scalar),
	}
}

// Nonce derives the deterministic proof nonce for the given (merged)
// input point and additional data.
func (sk *SecretKey) Nonce(p group.Element, ad []byte) *big.Int {
	return sk.suite.Nonce(sk.scalar, p, ad)
}

// Response computes the Schnorr response s = k + c*sk for a nonce k and
// challenge c.
func (sk *SecretKey) Response(k, c *big.Int) *big.Int {
	r := new(big.Int).Mul(c, sk.scalar)
	r.Add(r, k)
	return r.Mod(r, sk.suite.order)
}

// Blinding derives the deterministic key blinding scalar used by the
// pedersen scheme, binding the secret, the input point and the
// additional data under the blinding domain byte.
func (sk *SecretKey) Blinding(in Input, ad []byte) *big.Int {
	d := sk.suite.Hash(
		sk.suite.id,
		[]byte{domBlinding},
		sk.suite.EncodeScalar(sk.scalar),
		sk.suite.EncodePoint(in.point),
		ad,
		[]byte{0x00},
	)
	b := new(big.Int).SetBytes(d)
	return b.Mod(b, sk.suite.order)
}

// PublicKeyFromBytes decodes a public key, rejecting the identity.
func (s *Suite) PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	p, err := s.DecodePoint(b)
	if err != nil {
		return nil, err
	}
	if p.IsIdentity() {
		return nil, fmt.Errorf("%w: identity public key", ErrInvalidEncoding)
	}
	return &PublicKey{suite: s, point: p}, nil
}

// Suite returns the suite the key belongs to.
func (pk *PublicKey) Suite() *Suite {
	return pk.suite
}

// Point returns the public key point. Callers must not mutate it.
func (pk *PublicKey) Point() group.Element {
	return pk.point
}

// Bytes returns the suite's point encoding of the key.
func (pk *PublicKey) Bytes() []byte {
	return pk.suite.EncodePoint(pk.point)
}

// Equal reports whether two public keys are the same point.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.point.Equal(other.point)
}
