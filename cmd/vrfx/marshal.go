package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	vrf "github.com/davxy/ark-vrf"
)

// hexBytes marshals as a lowercase hex JSON string.
type hexBytes []byte

func (h hexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

func (h *hexBytes) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// keyEnvelope is the on-disk key format. The suite name makes key files
// self-describing.
type keyEnvelope struct {
	Suite  string   `json:"suite"`
	Secret hexBytes `json:"secret"`
	Public hexBytes `json:"public"`
}

// proofEnvelope carries everything a verifier needs besides the input
// bytes. Public is absent for schemes that hide the key.
type proofEnvelope struct {
	Suite  string   `json:"suite"`
	Scheme string   `json:"scheme"`
	Public hexBytes `json:"public,omitempty"`
	Output hexBytes `json:"output"`
	Hash   hexBytes `json:"hash"`
	Proof  hexBytes `json:"proof"`
}

func marshalKey(suiteName string, sk *vrf.SecretKey) ([]byte, error) {
	env := keyEnvelope{
		Suite:  suiteName,
		Secret: sk.Bytes(),
		Public: sk.Public().Bytes(),
	}
	return json.MarshalIndent(env, "", "  ")
}

// unmarshalKey restores a secret key from an envelope; the suite comes
// from the envelope itself.
func unmarshalKey(b []byte) (string, *vrf.Suite, *vrf.SecretKey, error) {
	var env keyEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return "", nil, nil, err
	}
	name := strings.ToLower(env.Suite)
	s, err := suiteByName(name)
	if err != nil {
		return "", nil, nil, err
	}
	sk, err := s.SecretKeyFromBytes(env.Secret)
	if err != nil {
		return "", nil, nil, err
	}
	if len(env.Public) > 0 && !bytes.Equal(sk.Public().Bytes(), env.Public) {
		sk.Zeroize()
		return "", nil, nil, fmt.Errorf("key file public key does not match its secret")
	}
	return name, s, sk, nil
}

func marshalProof(env proofEnvelope) ([]byte, error) {
	return json.MarshalIndent(env, "", "  ")
}

func unmarshalProof(b []byte) (proofEnvelope, error) {
	var env proofEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return proofEnvelope{}, err
	}
	if len(env.Output) == 0 || len(env.Proof) == 0 {
		return proofEnvelope{}, fmt.Errorf("proof envelope misses output or proof")
	}
	return env, nil
}
