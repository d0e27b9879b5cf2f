package group

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"
)

var allGroups = []Group{
	P256(),
	P384(),
	Ristretto255(),
}

func TestGroup(t *testing.T) {
	const testTimes = 1 << 6
	for _, g := range allGroups {
		n := g.Name()
		t.Run(n+"/Neg", func(tt *testing.T) { testNeg(tt, testTimes, g) })
		t.Run(n+"/Order", func(tt *testing.T) { testOrder(tt, testTimes, g) })
		t.Run(n+"/Set", func(tt *testing.T) { testSet(tt, g) })
		t.Run(n+"/EncodeDecode", func(tt *testing.T) { testEncodeDecode(tt, testTimes, g) })
		t.Run(n+"/MapToGroup", func(tt *testing.T) { testMapToGroup(tt, g) })
	}
}

func testNeg(t *testing.T, testTimes int, g Group) {
	Q := g.Element()
	for i := 0; i < testTimes; i++ {
		P := g.Random(rand.Reader)
		Q.Set(P)
		Q.Subtract(Q, P)
		got := Q.IsIdentity()
		want := true
		if got != want {
			t.Error("testNeg | Got:", got, "Wanted:", want)
		}
	}
}

func testOrder(t *testing.T, testTimes int, g Group) {
	I := g.Identity()
	Q := g.Element()
	minusOne := big.NewInt(-1)
	for i := 0; i < testTimes; i++ {
		P := g.Random(rand.Reader)
		Q.Scale(P, minusOne)
		Q.Add(Q, P)
		if !Q.Equal(I) {
			t.Error("testOrder | Got:", Q, "Wanted:", I)
		}
	}
	// n*G == identity
	Q.BaseScale(g.Order())
	if !Q.IsIdentity() {
		t.Error("testOrder | Got:", Q, "Wanted: identity")
	}
}

func testSet(t *testing.T, g Group) {
	P := g.Random(rand.Reader)
	Q := g.Element()
	Q.Set(P)
	if !Q.Equal(P) {
		t.Error("testSet | Got:", Q, "Wanted:", P)
	}
	R := P.Copy()
	R.Add(R, P)
	if !Q.Equal(P) {
		t.Error("testSet | copy aliases the source")
	}
}

func testEncodeDecode(t *testing.T, testTimes int, g Group) {
	for i := 0; i < testTimes; i++ {
		P := g.Random(rand.Reader)
		enc := P.Encode()
		if len(enc) != g.PointLen() {
			t.Error("testEncodeDecode | Got:", len(enc), "Wanted:", g.PointLen())
		}
		Q := g.Element()
		if err := Q.Decode(enc); err != nil {
			t.Fatal("testEncodeDecode |", err)
		}
		if !Q.Equal(P) {
			t.Error("testEncodeDecode | Got:", Q, "Wanted:", P)
		}
		if !bytes.Equal(Q.Encode(), enc) {
			t.Error("testEncodeDecode | re-encoding mismatch")
		}
	}
}

func testMapToGroup(t *testing.T, g Group) {
	dst := []byte("group-map-test")
	P := g.MapToGroup([]byte("alpha"), dst)
	Q := g.MapToGroup([]byte("alpha"), dst)
	if !P.Equal(Q) {
		t.Error("testMapToGroup | non-deterministic map")
	}
	R := g.MapToGroup([]byte("beta"), dst)
	if P.Equal(R) {
		t.Error("testMapToGroup | distinct inputs collide")
	}
	if P.IsIdentity() {
		t.Error("testMapToGroup | mapped to identity")
	}
}

func TestMSM(t *testing.T) {
	for _, g := range allGroups {
		t.Run(g.Name(), func(t *testing.T) {
			n := 17
			bases := make([]Element, n)
			scalars := make([]*big.Int, n)
			want := g.Identity()
			tmp := g.Element()
			for i := 0; i < n; i++ {
				bases[i] = g.Random(rand.Reader)
				k, err := rand.Int(rand.Reader, g.Order())
				if err != nil {
					t.Fatal(err)
				}
				if i%3 == 2 {
					k.Neg(k)
				}
				scalars[i] = k
				tmp.Scale(bases[i], k)
				want.Add(want, tmp)
			}

			got := MSM(g, bases, scalars)
			if !got.Equal(want) {
				t.Error("TestMSM | serial Got:", got, "Wanted:", want)
			}

			for _, workers := range []int{2, 4, 32} {
				got := ParallelMSM(g, bases, scalars, workers)
				if !got.Equal(want) {
					t.Error("TestMSM | parallel Got:", got, "Wanted:", want, "workers:", workers)
				}
			}

			if !MSM(g, nil, nil).IsIdentity() {
				t.Error("TestMSM | empty MSM is not identity")
			}
		})
	}
}
