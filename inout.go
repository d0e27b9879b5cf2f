package vrf

import (
	"github.com/davxy/ark-vrf/group"
)

// Input is a VRF input point, obtained by hashing application data onto
// the curve.
type Input struct {
	suite *Suite
	point group.Element
}

// Output is a VRF output point. The pseudorandom bytes a VRF evaluation
// yields are its Hash.
type Output struct {
	suite *Suite
	point group.Element
}

// NewInput hashes data to a VRF input point. No salt is applied; callers
// wanting the RFC 9381 binding to a public key prepend the encoded key
// to data themselves.
func (s *Suite) NewInput(data []byte) (Input, error) {
	p, err := s.HashToCurve(data)
	if err != nil {
		return Input{}, err
	}
	return Input{suite: s, point: p}, nil
}

// InputFromBytes decodes an input point from its canonical encoding.
func (s *Suite) InputFromBytes(b []byte) (Input, error) {
	p, err := s.DecodePoint(b)
	if err != nil {
		return Input{}, err
	}
	return Input{suite: s, point: p}, nil
}

// Point returns the input point. Callers must not mutate it.
func (in Input) Point() group.Element {
	return in.point
}

// Bytes returns the canonical encoding of the input point.
func (in Input) Bytes() []byte {
	return in.suite.EncodePoint(in.point)
}

// OutputFromBytes decodes an output point from its canonical encoding.
func (s *Suite) OutputFromBytes(b []byte) (Output, error) {
	p, err := s.DecodePoint(b)
	if err != nil {
		return Output{}, err
	}
	return Output{suite: s, point: p}, nil
}

// Point returns the output point. Callers must not mutate it.
func (o Output) Point() group.Element {
	return o.point
}

// Bytes returns the canonical encoding of the output point.
func (o Output) Bytes() []byte {
	return o.suite.EncodePoint(o.point)
}

// Hash returns the VRF output bytes for this output point.
func (o Output) Hash() []byte {
	return o.suite.PointToHash(o.point)
}
