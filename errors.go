package vrf

import "errors"

var (
	// ErrInvalidEncoding reports bytes that do not decode to a valid
	// group element or an in-range scalar.
	ErrInvalidEncoding = errors.New("vrf: invalid encoding")

	// ErrVerificationFailed reports a proof whose verification equation
	// does not hold. It is the expected outcome for forged or corrupted
	// proofs, not a program error.
	ErrVerificationFailed = errors.New("vrf: proof verification failed")

	// ErrInsufficientHashOutput reports a suite whose hash function is
	// too short for one of the derivations the configuration selects.
	ErrInsufficientHashOutput = errors.New("vrf: suite hash output too short")

	// ErrHashToCurve reports that try-and-increment exhausted its
	// counter without finding a curve point.
	ErrHashToCurve = errors.New("vrf: hash to curve failed")

	// ErrBatchConsumed reports reuse of a batch verifier after its
	// final check has run.
	ErrBatchConsumed = errors.New("vrf: batch already checked")
)
