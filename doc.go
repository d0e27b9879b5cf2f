// Package vrf implements elliptic curve verifiable random functions over
// prime-order groups.
//
// A suite binds a group, a hash function and a set of domain separation
// constants, and provides the shared machinery every proof scheme builds
// on: canonical point and scalar codecs, hash-to-curve, deterministic
// nonce generation and challenge derivation. Proof schemes live in
// subpackages:
//
//   - ietf: the ECVRF construction of RFC 9381, plus a batch friendly
//     variant that keeps the nonce commitments in the proof.
//   - thin: a delinearized VRF whose single Schnorr-style proof attests
//     both key knowledge and the VRF relation, and whose verification
//     equations fold into one multi-scalar multiplication across a batch.
//   - pedersen: a key-hiding VRF that substitutes a Pedersen commitment
//     to the public key for the key itself.
//   - ring: an anonymous VRF that wraps the pedersen scheme together with
//     an external ring membership proof.
//
// Three suites are provided: P256Suite and P384Suite over the NIST curves
// with try-and-increment hashing, and Ristretto255Suite with Elligator 2
// hashing. New suites are assembled from a Config; no scheme code is
// specific to a curve.
package vrf
