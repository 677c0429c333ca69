// Package raacode implements the Repeat-Accumulate-Accumulate (RAA) linear
// code used as the Dual-LPN generator matrix: T = F_r . M_p . A . M_q . A,
// where A is the suffix-sum operator and M_sigma a permutation. T maps a
// sparse vector of dimension 4n to a dense vector of dimension n; its
// transpose maps a dense vector of n group elements to 4n group elements.
package raacode

import (
	"io"
	"runtime"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/RajeshRk18/stealthsnark/internal/curvegroup"
	"github.com/RajeshRk18/stealthsnark/internal/sparsevec"
)

// ParallelThreshold is the vector length at or above which
// suffix-sum/permute/fold switch to a chunked, goroutine-parallel
// implementation.
const ParallelThreshold = 1 << 16

// TOperator holds the two random permutations that define one instance of
// the RAA code, plus their inverses (needed by the transpose).
type TOperator struct {
	PermP, PermQ       []int
	InvPermP, InvPermQ []int
	N, BigN            int
}

// New samples a fresh TOperator for witness dimension n (expanded dimension
// BigN = 4n), drawing both permutations from rng via Fisher-Yates.
func New(n int, rng io.Reader) (*TOperator, error) {
	bigN := 4 * n
	permP, err := randomPermutation(bigN, rng)
	if err != nil {
		return nil, err
	}
	permQ, err := randomPermutation(bigN, rng)
	if err != nil {
		return nil, err
	}
	return &TOperator{
		PermP:    permP,
		PermQ:    permQ,
		InvPermP: inversePermutation(permP),
		InvPermQ: inversePermutation(permQ),
		N:        n,
		BigN:     bigN,
	}, nil
}

func randomPermutation(n int, rng io.Reader) ([]int, error) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j, err := sparsevec.RandIntn(rng, i+1)
		if err != nil {
			return nil, err
		}
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}

// inversePermutation returns sigma^-1 given sigma, i.e. inv[perm[i]] == i.
func inversePermutation(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}

// MultiplySparse applies T to a sparse vector, given as its nonzero entries
// over the BigN-dimensional domain, returning the dense n-dimensional image.
func (t *TOperator) MultiplySparse(entries []sparsevec.Entry) []fr.Element {
	v := make([]fr.Element, t.BigN)
	for _, e := range entries {
		v[e.Index].Add(&v[e.Index], &e.Value)
	}
	accumulateSuffix(v)
	v = permute(v, t.PermQ)
	accumulateSuffix(v)
	v = permute(v, t.PermP)
	return fold(v)
}

// MultiplyTransposeGroup applies T^T to a length-n vector of group elements,
// returning the length-BigN image. It is generic over the curve group.
func MultiplyTransposeGroup[J any, A any](t *TOperator, g []A, ops curvegroup.GroupOps[J, A]) []J {
	if len(g) != t.N {
		panic("raacode: transpose input must have length n")
	}
	v := make([]J, t.BigN)
	for i, gi := range g {
		p := ops.FromAffine(gi)
		for k := 0; k < 4; k++ {
			v[4*i+k] = p
		}
	}
	v = permuteGroup(v, t.InvPermP)
	prefixSumGroup(v, ops)
	v = permuteGroup(v, t.InvPermQ)
	prefixSumGroup(v, ops)
	return v
}

// accumulateSuffix computes the in-place suffix sum: v[i] <- sum(v[i:]).
func accumulateSuffix(v []fr.Element) {
	if len(v) <= 1 {
		return
	}
	if len(v) >= ParallelThreshold {
		accumulateSuffixParallel(v)
		return
	}
	var sum fr.Element
	for i := len(v) - 1; i >= 0; i-- {
		sum.Add(&sum, &v[i])
		v[i] = sum
	}
}

// accumulateSuffixParallel computes chunk-local suffix sums concurrently,
// computes the cross-chunk correction terms sequentially, then adds each
// correction to its chunk concurrently.
func accumulateSuffixParallel(v []fr.Element) {
	numChunks := runtime.GOMAXPROCS(0)
	if numChunks > len(v) {
		numChunks = len(v)
	}
	if numChunks < 1 {
		numChunks = 1
	}
	chunkSize := (len(v) + numChunks - 1) / numChunks

	chunkSums := make([]fr.Element, numChunks)
	var wg sync.WaitGroup
	for c := 0; c < numChunks; c++ {
		start, end := chunkBounds(c, chunkSize, len(v))
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			var sum fr.Element
			for i := end - 1; i >= start; i-- {
				sum.Add(&sum, &v[i])
				v[i] = sum
			}
			chunkSums[(start)/chunkSize] = sum
		}(start, end)
	}
	wg.Wait()

	corrections := make([]fr.Element, numChunks)
	var suffix fr.Element
	for c := numChunks - 1; c >= 0; c-- {
		corrections[c] = suffix
		suffix.Add(&suffix, &chunkSums[c])
	}

	var wg2 sync.WaitGroup
	for c := 0; c < numChunks; c++ {
		start, end := chunkBounds(c, chunkSize, len(v))
		if start >= end || corrections[c].IsZero() {
			continue
		}
		wg2.Add(1)
		go func(correction fr.Element, start, end int) {
			defer wg2.Done()
			for i := start; i < end; i++ {
				v[i].Add(&v[i], &correction)
			}
		}(corrections[c], start, end)
	}
	wg2.Wait()
}

func chunkBounds(chunkIdx, chunkSize, total int) (int, int) {
	start := chunkIdx * chunkSize
	end := start + chunkSize
	if end > total {
		end = total
	}
	return start, end
}

func permute(v []fr.Element, perm []int) []fr.Element {
	out := make([]fr.Element, len(v))
	if len(v) < ParallelThreshold {
		for i, p := range perm {
			out[i] = v[p]
		}
		return out
	}
	numWorkers := runtime.GOMAXPROCS(0)
	chunk := (len(v) + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start, end := chunkBounds(w, chunk, len(v))
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = v[perm[i]]
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// permuteGroup permutes group elements sequentially: the transpose's group
// operations are dominated by MSM cost upstream, so there is no benefit to
// parallelizing this bookkeeping step.
func permuteGroup[J any](v []J, perm []int) []J {
	out := make([]J, len(v))
	for i, p := range perm {
		out[i] = v[p]
	}
	return out
}

func prefixSumGroup[J any, A any](v []J, ops curvegroup.GroupOps[J, A]) {
	for i := 1; i < len(v); i++ {
		v[i] = ops.Add(v[i-1], v[i])
	}
}

// fold applies the 4:1 fold F_r: groups of four consecutive coordinates are
// summed into one.
func fold(v []fr.Element) []fr.Element {
	n := len(v) / 4
	out := make([]fr.Element, n)
	apply := func(i int) {
		var sum fr.Element
		sum.Add(&v[4*i], &v[4*i+1])
		sum.Add(&sum, &v[4*i+2])
		sum.Add(&sum, &v[4*i+3])
		out[i] = sum
	}
	if n < ParallelThreshold/4 {
		for i := 0; i < n; i++ {
			apply(i)
		}
		return out
	}
	numWorkers := runtime.GOMAXPROCS(0)
	chunk := (n + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start, end := chunkBounds(w, chunk, n)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				apply(i)
			}
		}(start, end)
	}
	wg.Wait()
	return out
}
