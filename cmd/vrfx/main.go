// Command vrfx drives the VRF suites from the shell: key generation,
// proving, verifying and a self test across every suite and scheme.
// Keys and proofs travel as JSON envelopes with hex fields, so the
// output of prove pipes straight into verify. Logs go to stderr.
package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	vrf "github.com/davxy/ark-vrf"
	"github.com/davxy/ark-vrf/group"
	"github.com/davxy/ark-vrf/ietf"
	"github.com/davxy/ark-vrf/pedersen"
	"github.com/davxy/ark-vrf/ring"
	"github.com/davxy/ark-vrf/ring/ringtest"
	"github.com/davxy/ark-vrf/thin"
)

type config struct {
	Suite    string
	Scheme   string
	LogLevel string
}

var (
	conf   config
	logger *zap.Logger
)

func main() {
	app := &cli.App{
		Name:  "vrfx",
		Usage: "verifiable random function toolbox",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML config path",
			},
			&cli.StringFlag{
				Name:  "suite",
				Usage: "p256, p384 or ristretto255",
			},
			&cli.StringFlag{
				Name:  "scheme",
				Usage: "ietf, thin or pedersen",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Before: setup,
		After: func(c *cli.Context) error {
			if logger != nil {
				_ = logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "keygen",
				Usage: "generate a key pair",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "key file (stdout if empty)",
					},
					&cli.StringFlag{
						Name:  "seed",
						Usage: "hex seed for deterministic derivation (random if empty)",
					},
				},
				Action: keygen,
			},
			{
				Name:  "prove",
				Usage: "evaluate the VRF and prove the output",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Usage: "key file"},
					&cli.StringFlag{Name: "data", Usage: "input bytes"},
					&cli.StringFlag{Name: "ad", Usage: "additional data bytes"},
				},
				Action: prove,
			},
			{
				Name:  "verify",
				Usage: "verify a proof envelope",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "proof", Usage: "proof envelope file, - for stdin"},
					&cli.StringFlag{Name: "data", Usage: "input bytes"},
					&cli.StringFlag{Name: "ad", Usage: "additional data bytes"},
				},
				Action: verify,
			},
			{
				Name:   "selftest",
				Usage:  "prove and verify across every suite and scheme",
				Action: selftest,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "vrfx:", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) error {
	conf = config{Suite: "ristretto255", Scheme: "ietf", LogLevel: "info"}
	if path := c.String("config"); path != "" {
		if _, err := toml.DecodeFile(path, &conf); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	if c.IsSet("suite") {
		conf.Suite = c.String("suite")
	}
	if c.IsSet("scheme") {
		conf.Scheme = c.String("scheme")
	}
	if c.IsSet("log-level") {
		conf.LogLevel = c.String("log-level")
	}
	conf.Suite = strings.ToLower(conf.Suite)
	conf.Scheme = strings.ToLower(conf.Scheme)

	lvl, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		return fmt.Errorf("log level %q: %w", conf.LogLevel, err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	logger, err = zc.Build()
	return err
}

func suiteByName(name string) (*vrf.Suite, error) {
	switch strings.ToLower(name) {
	case "p256":
		return vrf.P256Suite(), nil
	case "p384":
		return vrf.P384Suite(), nil
	case "ristretto255":
		return vrf.Ristretto255Suite(), nil
	}
	return nil, fmt.Errorf("unknown suite %q", name)
}

func keygen(c *cli.Context) error {
	s, err := suiteByName(conf.Suite)
	if err != nil {
		return err
	}
	var sk *vrf.SecretKey
	if seedHex := c.String("seed"); seedHex != "" {
		seed, err := hex.DecodeString(strings.TrimPrefix(seedHex, "0x"))
		if err != nil {
			return fmt.Errorf("--seed: %w", err)
		}
		sk = s.SecretKeyFromSeed(seed)
	} else {
		sk, err = s.GenerateKey(rand.Reader)
		if err != nil {
			return err
		}
	}
	defer sk.Zeroize()

	logger.Info("generated key",
		zap.String("suite", conf.Suite),
		zap.String("public", hex.EncodeToString(sk.Public().Bytes())))

	env, err := marshalKey(conf.Suite, sk)
	if err != nil {
		return err
	}
	env = append(env, '\n')
	if out := c.String("out"); out != "" {
		return os.WriteFile(out, env, 0o600)
	}
	_, err = os.Stdout.Write(env)
	return err
}

func prove(c *cli.Context) error {
	path := c.String("key")
	if path == "" {
		return fmt.Errorf("missing --key")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	suiteName, s, sk, err := unmarshalKey(raw)
	if err != nil {
		return fmt.Errorf("key file %s: %w", path, err)
	}
	defer sk.Zeroize()

	in, err := s.NewInput([]byte(c.String("data")))
	if err != nil {
		return err
	}
	out := sk.Output(in)
	ad := []byte(c.String("ad"))

	env := proofEnvelope{
		Suite:  suiteName,
		Scheme: conf.Scheme,
		Output: out.Bytes(),
		Hash:   out.Hash(),
	}
	start := time.Now()
	switch conf.Scheme {
	case "ietf":
		env.Public = sk.Public().Bytes()
		env.Proof = ietf.Prove(sk, in, out, ad).Bytes()
	case "thin":
		env.Public = sk.Public().Bytes()
		env.Proof = thin.Prove(sk, in, out, ad).Bytes()
	case "pedersen":
		proof, _ := pedersen.Prove(sk, in, out, ad)
		env.Proof = proof.Bytes()
	default:
		return fmt.Errorf("unknown scheme %q", conf.Scheme)
	}
	logger.Debug("proved",
		zap.String("scheme", conf.Scheme),
		zap.Int("bytes", len(env.Proof)),
		zap.Duration("took", time.Since(start)))

	b, err := marshalProof(env)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(b, '\n'))
	return err
}

func verify(c *cli.Context) error {
	raw, err := readProofArg(c.String("proof"))
	if err != nil {
		return err
	}
	env, err := unmarshalProof(raw)
	if err != nil {
		return err
	}
	s, err := suiteByName(env.Suite)
	if err != nil {
		return err
	}
	in, err := s.NewInput([]byte(c.String("data")))
	if err != nil {
		return err
	}
	out, err := s.OutputFromBytes(env.Output)
	if err != nil {
		return err
	}
	ad := []byte(c.String("ad"))

	pub := func() (*vrf.PublicKey, error) {
		if len(env.Public) == 0 {
			return nil, fmt.Errorf("proof envelope carries no public key")
		}
		return s.PublicKeyFromBytes(env.Public)
	}

	start := time.Now()
	switch env.Scheme {
	case "ietf":
		pk, err := pub()
		if err != nil {
			return err
		}
		proof, err := ietf.ProofFromBytes(s, env.Proof)
		if err != nil {
			return err
		}
		if err := ietf.Verify(pk, in, out, ad, proof); err != nil {
			return err
		}
	case "thin":
		pk, err := pub()
		if err != nil {
			return err
		}
		proof, err := thin.ProofFromBytes(s, env.Proof)
		if err != nil {
			return err
		}
		if err := thin.Verify(pk, in, out, ad, proof); err != nil {
			return err
		}
	case "pedersen":
		proof, err := pedersen.ProofFromBytes(s, env.Proof)
		if err != nil {
			return err
		}
		if err := pedersen.Verify(s, in, out, ad, proof); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown scheme %q", env.Scheme)
	}
	if len(env.Hash) > 0 && !bytes.Equal(env.Hash, out.Hash()) {
		return fmt.Errorf("proof envelope hash does not match the output")
	}
	logger.Info("proof verified",
		zap.String("suite", env.Suite),
		zap.String("scheme", env.Scheme),
		zap.Duration("took", time.Since(start)))

	fmt.Printf("%x\n", out.Hash())
	return nil
}

func readProofArg(path string) ([]byte, error) {
	switch path {
	case "":
		return nil, fmt.Errorf("missing --proof")
	case "-":
		return io.ReadAll(os.Stdin)
	default:
		return os.ReadFile(path)
	}
}

func selftest(c *cli.Context) error {
	failed := 0
	check := func(suite, name string, start time.Time, err error) {
		if err != nil {
			failed++
			logger.Error("selftest case failed",
				zap.String("suite", suite), zap.String("case", name), zap.Error(err))
			return
		}
		logger.Debug("selftest case passed",
			zap.String("suite", suite), zap.String("case", name),
			zap.Duration("took", time.Since(start)))
	}

	for _, name := range []string{"p256", "p384", "ristretto255"} {
		s, err := suiteByName(name)
		if err != nil {
			return err
		}
		sk, err := s.GenerateKey(rand.Reader)
		if err != nil {
			return err
		}
		in, err := s.NewInput([]byte("vrfx selftest input"))
		if err != nil {
			return err
		}
		out := sk.Output(in)
		ad := []byte("vrfx selftest")
		pk := sk.Public()

		start := time.Now()
		check(name, "ietf", start, ietf.Verify(pk, in, out, ad, ietf.Prove(sk, in, out, ad)))

		start = time.Now()
		bp := ietf.ProveBatchable(sk, in, out, ad)
		check(name, "ietf/batchable", start, ietf.VerifyBatchable(pk, in, out, ad, bp))

		start = time.Now()
		ibv := ietf.NewBatchVerifier(s)
		for i := 0; i < 8; i++ {
			if err := ibv.Add(pk, in, out, ad, bp); err != nil {
				return err
			}
		}
		check(name, "ietf/batch", start, ibv.Verify())

		start = time.Now()
		tp := thin.Prove(sk, in, out, ad)
		check(name, "thin", start, thin.Verify(pk, in, out, ad, tp))

		start = time.Now()
		tbv := thin.NewBatchVerifier(s)
		for i := 0; i < 8; i++ {
			if err := tbv.Add(pk, in, out, ad, tp); err != nil {
				return err
			}
		}
		check(name, "thin/batch", start, tbv.Verify())

		start = time.Now()
		pp, _ := pedersen.Prove(sk, in, out, ad)
		check(name, "pedersen", start, pedersen.Verify(s, in, out, ad, pp))

		start = time.Now()
		pbv := pedersen.NewBatchVerifier(s)
		for i := 0; i < 8; i++ {
			if err := pbv.Add(in, out, ad, pp); err != nil {
				return err
			}
		}
		check(name, "pedersen/batch", start, pbv.Verify())

		start = time.Now()
		check(name, "ring", start, ringRound(s, sk, in, out, ad))
	}

	if failed > 0 {
		return fmt.Errorf("selftest: %d case(s) failed", failed)
	}
	logger.Info("selftest passed")
	return nil
}

// ringRound runs the ring scheme over the transparent test engine. It
// exercises the plumbing only; the engine reveals the ring index.
func ringRound(s *vrf.Suite, sk *vrf.SecretKey, in vrf.Input, out vrf.Output, ad []byte) error {
	params, err := ring.NewParamsForRing(s, 4)
	if err != nil {
		return err
	}
	eng := ringtest.New(params)

	keys := make([]group.Element, 4)
	for i := range keys {
		member, err := s.GenerateKey(rand.Reader)
		if err != nil {
			return err
		}
		keys[i] = member.Public().Point()
	}
	keys[2] = sk.Public().Point()

	com, err := eng.Commit(keys)
	if err != nil {
		return err
	}
	verifier, err := eng.NewVerifier(com)
	if err != nil {
		return err
	}
	prover, err := eng.NewProver(keys, 2)
	if err != nil {
		return err
	}
	proof, err := ring.Prove(sk, in, out, ad, prover)
	if err != nil {
		return err
	}
	return ring.Verify(s, in, out, ad, proof, verifier)
}
