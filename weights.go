package vrf

import (
	"math/big"

	"golang.org/x/crypto/chacha20"
)

// WeightSource deterministically expands a transcript into the stream of
// 128-bit weights a batch verifier folds its entries with. Both sides of
// a dispute can replay the draw: the seed is the suite hash of the
// transcript and the expansion is the ChaCha20 keystream.
type WeightSource struct {
	stream *chacha20.Cipher
}

// NewWeightSource seeds a weight stream from the given transcript.
func NewWeightSource(s *Suite, transcript []byte) *WeightSource {
	var seed [chacha20.KeySize]byte
	copy(seed[:], s.Hash(transcript))
	stream, err := chacha20.NewUnauthenticatedCipher(seed[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		panic("vrf: chacha20 init: " + err.Error())
	}
	return &WeightSource{stream: stream}
}

// Next draws the next 128-bit weight, interpreted little-endian.
func (w *WeightSource) Next() *big.Int {
	var buf [16]byte
	w.stream.XORKeyStream(buf[:], buf[:])
	return leBytesToInt(buf[:])
}
