package vrf

import (
	"crypto/rand"
	"errors"
	"fmt"
	"hash"
	"math/big"

	"github.com/davxy/ark-vrf/group"
)

// Domain separation bytes. Every transcript hashed by a suite starts with
// the suite identifier followed by one of these and ends with the 0x00
// terminator, so transcripts from different derivations can never collide.
// The challenge domains are exported for the scheme subpackages.
const (
	// DomainChallengeIETF tags ECVRF challenge transcripts.
	DomainChallengeIETF byte = 0x02
	// DomainChallengeThin tags delinearized challenge transcripts,
	// shared by the thin and pedersen schemes.
	DomainChallengeThin byte = 0x12

	domHashToCurve byte = 0x01
	domPointToHash byte = 0x03
	domDelinearize byte = 0x11
	domBlinding    byte = 0xCC
)

// HashToCurveMethod selects the suite's hash-to-curve strategy.
type HashToCurveMethod int

const (
	// TryAndIncrement hashes a counter-appended transcript until the
	// digest decodes to a curve point, as in RFC 9381 section 5.4.1.1.
	TryAndIncrement HashToCurveMethod = iota
	// Elligator applies the group's RFC 9380 encoding map with a
	// ciphersuite-derived domain separation tag.
	Elligator
)

// NonceMethod selects the suite's deterministic nonce derivation.
type NonceMethod int

const (
	// NonceRFC8032 derives nonces by hashing a secret seed with the
	// input point, as in RFC 8032 section 5.1.6.
	NonceRFC8032 NonceMethod = iota
	// NonceRFC6979 derives nonces through an HMAC chain, as in
	// RFC 6979 section 3.2.
	NonceRFC6979
)

// Config assembles a Suite. All fields except H2CSuiteID, Cofactor and
// SecretSplitting are mandatory.
type Config struct {
	// ID is the suite identification string prefixed to every
	// transcript.
	ID []byte
	// Group is the underlying prime-order group.
	Group group.Group
	// NewHash returns the suite hash function.
	NewHash func() hash.Hash
	// ChallengeLen is the number of digest bytes folded into a
	// challenge scalar.
	ChallengeLen int
	// ScalarOrder is the byte order of scalar encodings.
	ScalarOrder ByteOrder
	// HashToCurve selects the hash-to-curve strategy.
	HashToCurve HashToCurveMethod
	// H2CSuiteID is the RFC 9380 ciphersuite identifier used to build
	// the Elligator domain separation tag. Required for Elligator.
	H2CSuiteID string
	// Nonce selects the nonce derivation strategy.
	Nonce NonceMethod
	// Cofactor, when above one, is multiplied into points produced by
	// try-and-increment to clear small torsion components.
	Cofactor int64
	// SecretSplitting executes secret scalar multiplications as two
	// multiplications by random shares summing to the scalar.
	SecretSplitting bool
}

// Suite binds a group, a hash function and domain separation constants,
// and provides the codec, hash-to-curve, nonce and challenge machinery
// shared by all proof schemes. A Suite is immutable after construction.
type Suite struct {
	id           []byte
	g            group.Group
	newHash      func() hash.Hash
	hashLen      int
	challengeLen int
	scalarLen    int
	pointLen     int
	byteOrder    ByteOrder
	h2cMethod    HashToCurveMethod
	h2cDST       []byte
	nonceMethod  NonceMethod
	cofactor     *big.Int
	secretSplit  bool
	order        *big.Int
	blindingBase group.Element
}

// NewSuite validates cfg and derives the suite's blinding base point.
func NewSuite(cfg Config) (*Suite, error) {
	if cfg.Group == nil || cfg.NewHash == nil {
		return nil, errors.New("vrf: suite needs a group and a hash")
	}
	if len(cfg.ID) == 0 {
		return nil, errors.New("vrf: suite needs an identifier")
	}

	order := cfg.Group.Order()
	s := &Suite{
		id:           append([]byte(nil), cfg.ID...),
		g:            cfg.Group,
		newHash:      cfg.NewHash,
		hashLen:      cfg.NewHash().Size(),
		challengeLen: cfg.ChallengeLen,
		scalarLen:    (order.BitLen() + 7) / 8,
		pointLen:     cfg.Group.PointLen(),
		byteOrder:    cfg.ScalarOrder,
		h2cMethod:    cfg.HashToCurve,
		nonceMethod:  cfg.Nonce,
		secretSplit:  cfg.SecretSplitting,
		order:        order,
	}

	if s.challengeLen <= 0 || s.challengeLen > s.scalarLen {
		return nil, fmt.Errorf("vrf: challenge length %d outside (0, %d]", s.challengeLen, s.scalarLen)
	}
	// Batch verification draws a pair of challenge-width weights from a
	// single digest.
	if s.hashLen < 2*s.challengeLen {
		return nil, fmt.Errorf("%w: %d byte digest, challenge weight pairs need %d", ErrInsufficientHashOutput, s.hashLen, 2*s.challengeLen)
	}
	// Delinearization splits the first 32 digest bytes into two weights.
	if s.hashLen < 32 {
		return nil, fmt.Errorf("%w: %d byte digest, delinearization needs 32", ErrInsufficientHashOutput, s.hashLen)
	}
	if s.nonceMethod == NonceRFC8032 && s.hashLen < 64 {
		return nil, fmt.Errorf("%w: %d byte digest, RFC 8032 nonces need 64", ErrInsufficientHashOutput, s.hashLen)
	}

	switch s.h2cMethod {
	case TryAndIncrement:
		if s.hashLen < s.pointLen-1 {
			return nil, fmt.Errorf("%w: %d byte digest, point coordinates need %d", ErrInsufficientHashOutput, s.hashLen, s.pointLen-1)
		}
		if cfg.Cofactor > 1 {
			s.cofactor = big.NewInt(cfg.Cofactor)
		}
	case Elligator:
		if cfg.H2CSuiteID == "" {
			return nil, errors.New("vrf: Elligator needs an RFC 9380 ciphersuite identifier")
		}
		dst := append([]byte("ECVRF_"), cfg.H2CSuiteID...)
		s.h2cDST = append(dst, s.id...)
	default:
		return nil, fmt.Errorf("vrf: unknown hash-to-curve method %d", s.h2cMethod)
	}

	base, err := s.HashToCurve(blindingBaseSeed)
	if err != nil {
		return nil, fmt.Errorf("vrf: deriving blinding base: %w", err)
	}
	s.blindingBase = base
	return s, nil
}

// ID returns the suite identification string.
func (s *Suite) ID() []byte {
	return append([]byte(nil), s.id...)
}

// Group returns the suite's group.
func (s *Suite) Group() group.Group {
	return s.g
}

// Order returns the prime order of the suite's group.
func (s *Suite) Order() *big.Int {
	return s.order
}

// PointLen returns the byte length of an encoded point.
func (s *Suite) PointLen() int {
	return s.pointLen
}

// ScalarLen returns the byte length of an encoded scalar.
func (s *Suite) ScalarLen() int {
	return s.scalarLen
}

// ChallengeLen returns the byte length of an encoded challenge scalar.
func (s *Suite) ChallengeLen() int {
	return s.challengeLen
}

// BlindingBase returns the alternate generator used by the pedersen and
// ring schemes. Callers must not mutate it.
func (s *Suite) BlindingBase() group.Element {
	return s.blindingBase
}

// Hash digests the concatenation of the given chunks with the suite hash.
func (s *Suite) Hash(chunks ...[]byte) []byte {
	h := s.newHash()
	for _, c := range chunks {
		h.Write(c)
	}
	return h.Sum(nil)
}

// Challenge derives the challenge scalar for a scheme transcript: the
// domain-separated hash of the given points and additional data, with a
// ChallengeLen prefix of the digest reduced big-endian into the scalar
// field.
func (s *Suite) Challenge(domain byte, points []group.Element, ad []byte) *big.Int {
	h := s.newHash()
	h.Write(s.id)
	h.Write([]byte{domain})
	for _, p := range points {
		h.Write(s.EncodePoint(p))
	}
	h.Write(ad)
	h.Write([]byte{0x00})
	c := new(big.Int).SetBytes(h.Sum(nil)[:s.challengeLen])
	return c.Mod(c, s.order)
}

// PointToHash maps a point to its output hash as in RFC 9381 section
// 5.2, without cofactor clearing.
func (s *Suite) PointToHash(p group.Element) []byte {
	return s.Hash(s.id, []byte{domPointToHash}, s.EncodePoint(p), []byte{0x00})
}

// SecretScale returns k*P for a secret scalar k. With SecretSplitting
// enabled, k is split into two uniformly random shares so a single
// multiplication trace never exposes the scalar.
func (s *Suite) SecretScale(p group.Element, k *big.Int) group.Element {
	if !s.secretSplit {
		return s.g.Element().Scale(p, k)
	}
	x1, err := rand.Int(rand.Reader, s.order)
	if err != nil {
		// The system randomness source failing is not recoverable at
		// this level. Fall back to the direct multiplication.
		return s.g.Element().Scale(p, k)
	}
	x2 := new(big.Int).Sub(k, x1)
	x2.Mod(x2, s.order)
	r := s.g.Element().Scale(p, x1)
	return r.Add(r, s.g.Element().Scale(p, x2))
}

// SecretBaseScale returns k*G for a secret scalar k, with the same
// side-channel treatment as SecretScale.
func (s *Suite) SecretBaseScale(k *big.Int) group.Element {
	if !s.secretSplit {
		return s.g.Element().BaseScale(k)
	}
	return s.SecretScale(s.g.Generator(), k)
}
