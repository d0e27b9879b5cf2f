package vrf

import (
	"bytes"
	"crypto/hmac"
	"math/big"

	"github.com/davxy/ark-vrf/group"
)

// Nonce derives the deterministic proof nonce from the secret scalar,
// the (merged) input point and the additional data. The additional data
// is bound into the derivation: a nonce depending only on (sk, p) leaks
// the secret through the linear response equation as soon as the same
// input is proven under two different additional data strings.
func (s *Suite) Nonce(sk *big.Int, p group.Element, ad []byte) *big.Int {
	if s.nonceMethod == NonceRFC6979 {
		return s.nonceRFC6979(sk, p, ad)
	}
	return s.nonceRFC8032(sk, p, ad)
}

// nonceRFC8032 follows RFC 8032 section 5.1.6: the upper half of the
// hashed secret seeds a digest over the encoded point and the additional
// data, reduced little-endian into the scalar field.
func (s *Suite) nonceRFC8032(sk *big.Int, p group.Element, ad []byte) *big.Int {
	seed := s.Hash(s.EncodeScalar(sk))[32:]
	d := s.Hash(seed, s.EncodePoint(p), ad)
	k := leBytesToInt(d)
	return k.Mod(k, s.order)
}

// nonceRFC6979 follows RFC 6979 section 3.2 with the suite hash driving
// the HMAC chain. The message digest h1 covers the encoded point and the
// additional data.
func (s *Suite) nonceRFC6979(sk *big.Int, p group.Element, ad []byte) *big.Int {
	h1 := s.Hash(s.EncodePoint(p), ad)
	x := s.EncodeScalar(sk)

	v := bytes.Repeat([]byte{0x01}, s.hashLen)
	key := make([]byte, s.hashLen)

	key = s.hmac(key, v, []byte{0x00}, x, h1)
	v = s.hmac(key, v)
	key = s.hmac(key, v, []byte{0x01}, x, h1)
	v = s.hmac(key, v)
	v = s.hmac(key, v)

	k := new(big.Int).SetBytes(v)
	return k.Mod(k, s.order)
}

func (s *Suite) hmac(key []byte, chunks ...[]byte) []byte {
	m := hmac.New(s.newHash, key)
	for _, c := range chunks {
		m.Write(c)
	}
	return m.Sum(nil)
}
