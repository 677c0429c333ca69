package sparsevec

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func seededRNG(seed uint64) *rand.ChaCha8 {
	var seedBytes [32]byte
	seedBytes[0] = byte(seed)
	seedBytes[1] = byte(seed >> 8)
	return rand.NewChaCha8(seedBytes)
}

func TestSparseToDense(t *testing.T) {
	sv := &SparseVector{
		Size: 5,
		Entries: []Entry{
			{Index: 1, Value: fr.NewElement(7)},
			{Index: 1, Value: fr.NewElement(3)},
			{Index: 4, Value: fr.NewElement(2)},
		},
	}
	dense := sv.Dense()
	require.Len(t, dense, 5)
	require.True(t, dense[0].IsZero())
	require.Equal(t, fr.NewElement(10).String(), dense[1].String())
	require.True(t, dense[2].IsZero())
	require.True(t, dense[3].IsZero())
	require.Equal(t, fr.NewElement(2).String(), dense[4].String())
}

func TestErrorVecStructure(t *testing.T) {
	rng := seededRNG(1)
	size, tParam := 64, 8
	sv, err := ErrorVec(size, tParam, rng)
	require.NoError(t, err)
	require.Equal(t, size, sv.Size)
	require.Len(t, sv.Entries, tParam)

	chunk := size / tParam
	for k, e := range sv.Entries {
		require.GreaterOrEqual(t, e.Index, k*chunk)
		require.Less(t, e.Index, (k+1)*chunk)
		require.False(t, e.Value.IsZero())
	}
}

func TestErrorVecDegenerate(t *testing.T) {
	rng := seededRNG(2)
	sv, err := ErrorVec(0, 0, rng)
	require.NoError(t, err)
	require.Empty(t, sv.Entries)

	sv, err = ErrorVec(10, 0, rng)
	require.NoError(t, err)
	require.Empty(t, sv.Entries)
}

func TestErrorVecRejectsUndersizedDomain(t *testing.T) {
	rng := seededRNG(3)
	_, err := ErrorVec(4, 8, rng)
	require.Error(t, err)
}
