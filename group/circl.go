package group

import (
	"encoding/hex"
	"io"
	"math/big"

	circl "github.com/cloudflare/circl/group"
)

type circlGroup struct {
	inner      circl.Group
	name       string
	curveOrder *big.Int
	fieldOrder *big.Int
	pointLen   int
}

type circlPoint struct {
	group *circlGroup
	val   circl.Element
}

func (g *circlGroup) Name() string {
	return g.name
}

func (g *circlGroup) Element() Element {
	return &circlPoint{group: g, val: g.inner.NewElement()}
}

func (g *circlGroup) Generator() Element {
	return &circlPoint{group: g, val: g.inner.Generator()}
}

func (g *circlGroup) Identity() Element {
	return &circlPoint{group: g, val: g.inner.Identity()}
}

func (g *circlGroup) Random(rnd io.Reader) Element {
	return &circlPoint{group: g, val: g.inner.RandomElement(rnd)}
}

func (g *circlGroup) Order() *big.Int {
	return g.curveOrder
}

func (g *circlGroup) FieldOrder() *big.Int {
	return g.fieldOrder
}

func (g *circlGroup) PointLen() int {
	return g.pointLen
}

func (g *circlGroup) MapToGroup(msg, dst []byte) Element {
	return &circlPoint{group: g, val: g.inner.HashToElement(msg, dst)}
}

// scalar converts s into a circl scalar, reducing modulo the group order.
func (g *circlGroup) scalar(s *big.Int) circl.Scalar {
	r := new(big.Int).Mod(s, g.curveOrder)
	return g.inner.NewScalar().SetBigInt(r)
}

func (e *circlPoint) check(a Element) *circlPoint {
	ca, ok := a.(*circlPoint)
	if !ok || ca.group != e.group {
		panic("group: incompatible element type")
	}
	return ca
}

func (e *circlPoint) Add(a, b Element) Element {
	ca := e.check(a)
	cb := e.check(b)
	e.val = e.group.inner.NewElement().Add(ca.val, cb.val)
	return e
}

func (e *circlPoint) Subtract(a, b Element) Element {
	ca := e.check(a)
	cb := e.check(b)
	neg := e.group.inner.NewElement().Neg(cb.val)
	e.val = e.group.inner.NewElement().Add(ca.val, neg)
	return e
}

func (e *circlPoint) Negate(a Element) Element {
	ca := e.check(a)
	e.val = e.group.inner.NewElement().Neg(ca.val)
	return e
}

func (e *circlPoint) Scale(a Element, s *big.Int) Element {
	ca := e.check(a)
	e.val = e.group.inner.NewElement().Mul(ca.val, e.group.scalar(s))
	return e
}

func (e *circlPoint) BaseScale(s *big.Int) Element {
	e.val = e.group.inner.NewElement().MulGen(e.group.scalar(s))
	return e
}

func (e *circlPoint) Set(a Element) Element {
	ca := e.check(a)
	e.val = e.group.inner.NewElement().Set(ca.val)
	return e
}

func (e *circlPoint) Copy() Element {
	return &circlPoint{group: e.group, val: e.group.inner.NewElement().Set(e.val)}
}

func (e *circlPoint) Equal(a Element) bool {
	ca := e.check(a)
	return e.val.IsEqual(ca.val)
}

func (e *circlPoint) IsIdentity() bool {
	return e.val.IsIdentity()
}

func (e *circlPoint) Encode() []byte {
	b, err := e.val.MarshalBinaryCompress()
	if err != nil {
		panic("group: element encoding failed: " + err.Error())
	}
	return b
}

func (e *circlPoint) Decode(b []byte) error {
	val := e.group.inner.NewElement()
	if err := val.UnmarshalBinary(b); err != nil {
		return err
	}
	e.val = val
	return nil
}

func (e *circlPoint) String() string {
	return e.group.name + ":" + hex.EncodeToString(e.Encode())
}

// The groups are singletons so that elements obtained through separate
// constructor calls interoperate.
var (
	p256Group = newCirclGroup(circl.P256, "P-256", 33,
		"ffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
		"ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551")
	p384Group = newCirclGroup(circl.P384, "P-384", 49,
		"fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffff0000000000000000ffffffff",
		"ffffffffffffffffffffffffffffffffffffffffffffffffc7634d81f4372ddf581a0db248b0a77aecec196accc52973")
	ristretto255Group = newCirclGroup(circl.Ristretto255, "ristretto255", 32,
		"7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed",
		"1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed")
)

func newCirclGroup(inner circl.Group, name string, pointLen int, fieldHex, orderHex string) *circlGroup {
	p, _ := new(big.Int).SetString(fieldHex, 16)
	n, _ := new(big.Int).SetString(orderHex, 16)
	return &circlGroup{
		inner:      inner,
		name:       name,
		curveOrder: n,
		fieldOrder: p,
		pointLen:   pointLen,
	}
}

// P256 returns the NIST P-256 group (cofactor 1).
func P256() Group { return p256Group }

// P384 returns the NIST P-384 group (cofactor 1).
func P384() Group { return p384Group }

// Ristretto255 returns the ristretto255 group built on Curve25519.
func Ristretto255() Group { return ristretto255Group }
