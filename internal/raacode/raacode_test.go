package raacode

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/RajeshRk18/stealthsnark/internal/curvegroup"
	"github.com/RajeshRk18/stealthsnark/internal/sparsevec"
)

// scalarGroupOps treats (Fr, +) as a toy instantiation of curvegroup.GroupOps
// so MultiplyTransposeGroup's index wiring can be tested via a field-element
// inner-product identity instead of real curve arithmetic.
func scalarGroupOps() curvegroup.GroupOps[fr.Element, fr.Element] {
	return curvegroup.GroupOps[fr.Element, fr.Element]{
		Add: func(a, b fr.Element) fr.Element {
			var r fr.Element
			r.Add(&a, &b)
			return r
		},
		Neg: func(a fr.Element) fr.Element {
			var r fr.Element
			r.Neg(&a)
			return r
		},
		ToAffine:   func(a fr.Element) fr.Element { return a },
		FromAffine: func(a fr.Element) fr.Element { return a },
		ScalarMul: func(base fr.Element, s fr.Element) fr.Element {
			var r fr.Element
			r.Mul(&base, &s)
			return r
		},
		AffineEqual: func(a, b fr.Element) bool { return a.Equal(&b) },
	}
}

func elems(vals ...int64) []fr.Element {
	out := make([]fr.Element, len(vals))
	for i, v := range vals {
		out[i].SetInt64(v)
	}
	return out
}

func requireElemsEqual(t *testing.T, want, got []fr.Element) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Truef(t, want[i].Equal(&got[i]), "index %d: want %s got %s", i, want[i].String(), got[i].String())
	}
}

func TestSuffixSum(t *testing.T) {
	v := elems(1, 2, 3, 4)
	accumulateSuffix(v)
	requireElemsEqual(t, elems(10, 9, 7, 4), v)
}

func TestFold(t *testing.T) {
	v := elems(1, 2, 3, 4, 5, 6, 7, 8)
	out := fold(v)
	requireElemsEqual(t, elems(10, 26), out)
}

func TestPermutationInverse(t *testing.T) {
	perm := []int{2, 0, 3, 1}
	inv := inversePermutation(perm)
	require.Equal(t, []int{1, 3, 0, 2}, inv)
}

func TestTOperatorMultiplySparse(t *testing.T) {
	var seed [32]byte
	seed[0] = 11
	rng := rand.NewChaCha8(seed)

	top, err := New(4, rng)
	require.NoError(t, err)
	require.Equal(t, 16, top.BigN)

	entries := []sparsevec.Entry{
		{Index: 0, Value: fr.NewElement(5)},
		{Index: 15, Value: fr.NewElement(7)},
	}
	out := top.MultiplySparse(entries)
	require.Len(t, out, 4)

	// linearity: T(a+b) == T(a) + T(b)
	entriesB := []sparsevec.Entry{
		{Index: 3, Value: fr.NewElement(2)},
	}
	outB := top.MultiplySparse(entriesB)

	combined := append(append([]sparsevec.Entry{}, entries...), entriesB...)
	outCombined := top.MultiplySparse(combined)

	var sum []fr.Element = make([]fr.Element, len(out))
	for i := range sum {
		sum[i].Add(&out[i], &outB[i])
	}
	requireElemsEqual(t, sum, outCombined)
}

func TestTransposeMatchesForwardInnerProduct(t *testing.T) {
	// <T(e), g> == <e, T^T(g)> for the additive group (Z_r, +) standing in
	// for a generic abelian group: this checks MultiplyTransposeGroup's
	// index wiring against MultiplySparse's without needing curve points.
	var seed [32]byte
	seed[0] = 12
	rng := rand.NewChaCha8(seed)

	top, err := New(3, rng)
	require.NoError(t, err)

	entries := []sparsevec.Entry{
		{Index: 2, Value: fr.NewElement(3)},
		{Index: 9, Value: fr.NewElement(4)},
	}
	e := (&sparsevec.SparseVector{Size: top.BigN, Entries: entries}).Dense()
	te := top.MultiplySparse(entries)
	require.Len(t, te, top.N)

	g := elems(6, 10, 15)

	ops := scalarGroupOps()
	tg := MultiplyTransposeGroup(top, g, ops)
	require.Len(t, tg, top.BigN)

	var lhs fr.Element
	for i := range te {
		var term fr.Element
		term.Mul(&te[i], &g[i])
		lhs.Add(&lhs, &term)
	}

	var rhs fr.Element
	for i := range e {
		var term fr.Element
		term.Mul(&e[i], &tg[i])
		rhs.Add(&rhs, &term)
	}

	require.True(t, lhs.Equal(&rhs))
}
