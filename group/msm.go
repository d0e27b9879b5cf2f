package group

import (
	"math/big"
	"sync"
)

// MSM computes the multi-scalar multiplication sum(scalars[i]*bases[i]).
// The slices must have equal length; an empty input yields the identity.
func MSM(g Group, bases []Element, scalars []*big.Int) Element {
	if len(bases) != len(scalars) {
		panic("group: MSM length mismatch")
	}
	acc := g.Identity()
	tmp := g.Element()
	for i := range bases {
		tmp.Scale(bases[i], scalars[i])
		acc.Add(acc, tmp)
	}
	return acc
}

// ParallelMSM computes the same sum as MSM, sharding the terms across
// workers goroutines operating on disjoint index ranges. Partial sums are
// merged by addition. workers <= 1 falls back to the serial fold.
func ParallelMSM(g Group, bases []Element, scalars []*big.Int, workers int) Element {
	if len(bases) != len(scalars) {
		panic("group: MSM length mismatch")
	}
	n := len(bases)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return MSM(g, bases, scalars)
	}

	partials := make([]Element, workers)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= n {
			break
		}
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			partials[w] = MSM(g, bases[lo:hi], scalars[lo:hi])
		}(w, lo, hi)
	}
	wg.Wait()

	acc := g.Identity()
	for _, p := range partials {
		if p != nil {
			acc.Add(acc, p)
		}
	}
	return acc
}
