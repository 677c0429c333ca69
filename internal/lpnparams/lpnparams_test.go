package lpnparams

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParamsBasic(t *testing.T) {
	p := Get(1024)
	require.Equal(t, 1024, p.N)
	require.Equal(t, 4096, p.BigN)
	require.Equal(t, 29, p.T)
}

func TestParamsMonotonic(t *testing.T) {
	sizes := []int{16, 256, 1024, 2048, 8192, 65536, 1 << 20, 1 << 23}
	prev := 0
	for _, n := range sizes {
		p := Get(n)
		require.GreaterOrEqual(t, p.T, prev)
		prev = p.T
	}
}

func TestParamsRate(t *testing.T) {
	p := Get(0)
	require.Equal(t, 0, p.BigN)
	require.Equal(t, 1, p.T)

	p = Get(1)
	require.Equal(t, 4, p.BigN)
	require.LessOrEqual(t, p.T, p.BigN)
}
