package pedersen

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/RajeshRk18/stealthsnark/internal/curvegroup"
	"github.com/RajeshRk18/stealthsnark/internal/sparsevec"
)

func randomGenerators(t *testing.T, n int) []bn254.G1Affine {
	t.Helper()
	_, _, g1gen, _ := bn254.Generators()
	ops := curvegroup.G1()

	var seed [32]byte
	seed[0] = 9
	rng := rand.NewChaCha8(seed)

	out := make([]bn254.G1Affine, n)
	for i := range out {
		s, err := sparsevec.RandomNonzero(rng)
		require.NoError(t, err)
		out[i] = ops.ToAffine(ops.ScalarMul(g1gen, s))
	}
	return out
}

func TestCommitZero(t *testing.T) {
	gens := randomGenerators(t, 4)
	p := New(gens, curvegroup.G1())
	scalars := make([]fr.Element, 4)
	commit, err := p.Commit(scalars)
	require.NoError(t, err)

	var identity bn254.G1Jac
	require.True(t, curvegroup.G1().Equal(commit, identity))
}

func TestCommitSparseMatchesDense(t *testing.T) {
	gens := randomGenerators(t, 6)
	p := New(gens, curvegroup.G1())

	sv := &sparsevec.SparseVector{
		Size: 6,
		Entries: []sparsevec.Entry{
			{Index: 1, Value: fr.NewElement(3)},
			{Index: 4, Value: fr.NewElement(5)},
		},
	}
	dense := sv.Dense()

	sparseCommit, err := p.CommitSparse(sv)
	require.NoError(t, err)
	denseCommit, err := p.Commit(dense)
	require.NoError(t, err)

	require.True(t, curvegroup.G1().Equal(sparseCommit, denseCommit))
}

func TestCommitLengthMismatchReturnsError(t *testing.T) {
	gens := randomGenerators(t, 3)
	p := New(gens, curvegroup.G1())
	_, err := p.Commit(make([]fr.Element, 2))
	require.ErrorIs(t, err, ErrLengthMismatch)
}
