package ring

import (
	"fmt"
	"math/bits"

	vrf "github.com/davxy/ark-vrf"
	"github.com/davxy/ark-vrf/group"
)

// Seeds hashed to the curve for the fixed engine points. The texts are
// arbitrary; only their bytes matter, and nobody may know a discrete
// logarithm relation between the derived points and any other point.
var (
	accumulatorBaseSeed = []byte("substratum accumulatoris quod in silentio temporis arcanum absconditum custodit")
	paddingSeed         = []byte("umbra quae vacuum implet ab animabus perditis relictum inter tenebras resonans")
)

// Params sizes a ring proof domain and carries the fixed points engines
// derive from a suite: the accumulator base seeding the membership
// accumulation and the padding point filling unused ring slots.
type Params struct {
	suite           *vrf.Suite
	domainSize      int
	maxRingSize     int
	accumulatorBase group.Element
	padding         group.Element
}

// NewParams derives the engine points and sizes the ring for a
// polynomial domain of the given power-of-two size.
func NewParams(s *vrf.Suite, domainSize int) (*Params, error) {
	if domainSize <= 0 || domainSize&(domainSize-1) != 0 {
		return nil, fmt.Errorf("ring: domain size %d is not a power of two", domainSize)
	}
	maxRing := MaxRingSize(s, domainSize)
	if maxRing <= 0 {
		return nil, fmt.Errorf("ring: domain size %d cannot hold any keys", domainSize)
	}

	acc, err := s.HashToCurve(accumulatorBaseSeed)
	if err != nil {
		return nil, fmt.Errorf("ring: deriving accumulator base: %w", err)
	}
	pad, err := s.HashToCurve(paddingSeed)
	if err != nil {
		return nil, fmt.Errorf("ring: deriving padding point: %w", err)
	}

	return &Params{
		suite:           s,
		domainSize:      domainSize,
		maxRingSize:     maxRing,
		accumulatorBase: acc,
		padding:         pad,
	}, nil
}

// NewParamsForRing sizes the smallest domain accommodating ringSize
// keys.
func NewParamsForRing(s *vrf.Suite, ringSize int) (*Params, error) {
	return NewParams(s, DomainSize(s, ringSize))
}

// Suite returns the suite the parameters were derived for.
func (p *Params) Suite() *vrf.Suite { return p.suite }

// DomainSize returns the polynomial domain size.
func (p *Params) DomainSize() int { return p.domainSize }

// MaxRingSize returns how many keys the domain can hold.
func (p *Params) MaxRingSize() int { return p.maxRingSize }

// AccumulatorBase returns the accumulation seed point. Callers must not
// mutate it.
func (p *Params) AccumulatorBase() group.Element { return p.accumulatorBase }

// Padding returns the slot filler point. Callers must not mutate it.
func (p *Params) Padding() group.Element { return p.padding }

// PadRing extends a ring to the full domain capacity with copies of the
// padding point, so commitments do not depend on how full the ring is.
func (p *Params) PadRing(ring []group.Element) ([]group.Element, error) {
	if len(ring) > p.maxRingSize {
		return nil, fmt.Errorf("%w: %d keys, capacity %d", ErrRingFull, len(ring), p.maxRingSize)
	}
	padded := make([]group.Element, p.maxRingSize)
	copy(padded, ring)
	for i := len(ring); i < p.maxRingSize; i++ {
		padded[i] = p.padding
	}
	return padded, nil
}

// domainOverhead is the part of the polynomial domain unavailable to
// ring keys: three zero-knowledge blinding slots, one internal slot and
// one bit-decomposition slot per scalar field bit.
func domainOverhead(s *vrf.Suite) int {
	return 4 + s.Order().BitLen()
}

// DomainSize returns the smallest power-of-two polynomial domain
// accommodating ringSize keys plus the proof overhead.
func DomainSize(s *vrf.Suite, ringSize int) int {
	n := ringSize + domainOverhead(s)
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// MaxRingSize returns the largest ring a polynomial domain of the given
// size can hold.
func MaxRingSize(s *vrf.Suite, domainSize int) int {
	return domainSize - domainOverhead(s)
}

// SRSSize returns the number of commitment-scheme elements a prover
// setup needs for the given polynomial domain: 3 evaluations per domain
// point plus one.
func SRSSize(domainSize int) int {
	return 3*domainSize + 1
}

// DomainSizeFromSRS recovers the polynomial domain size from a setup
// size, rounding down to a power of two.
func DomainSizeFromSRS(srsSize int) int {
	n := (srsSize - 1) / 3
	if n <= 0 {
		return 0
	}
	return 1 << (bits.Len(uint(n)) - 1)
}
