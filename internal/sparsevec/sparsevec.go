// Package sparsevec implements sparse scalar vectors over the BN254 scalar
// field: a fixed dimension plus a short list of (index, value) entries.
package sparsevec

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Entry is one nonzero coordinate of a SparseVector.
type Entry struct {
	Index int
	Value fr.Element
}

// SparseVector is a vector of the given Size with only Entries nonzero.
// Repeated indices are additive, matching the RAA code's densification rule.
type SparseVector struct {
	Size    int
	Entries []Entry
}

// Dense expands the vector into a full-length slice of field elements.
func (sv *SparseVector) Dense() []fr.Element {
	dense := make([]fr.Element, sv.Size)
	for _, e := range sv.Entries {
		dense[e.Index].Add(&dense[e.Index], &e.Value)
	}
	return dense
}

// ErrorVec samples a t-sparse vector of the given size by partitioning it
// into t contiguous chunks and placing one uniformly random nonzero value at
// a uniformly random offset within each chunk. This is the fixed-weight-
// per-chunk sampler the Dual-LPN noise term relies on.
func ErrorVec(size, t int, rng io.Reader) (*SparseVector, error) {
	if t == 0 || size == 0 {
		return &SparseVector{Size: size}, nil
	}
	if size < t {
		return nil, fmt.Errorf("sparsevec: size %d smaller than sparsity %d", size, t)
	}

	chunk := size / t
	entries := make([]Entry, t)
	for k := 0; k < t; k++ {
		base := k * chunk
		offset, err := randIntn(rng, chunk)
		if err != nil {
			return nil, fmt.Errorf("sparsevec: sampling offset: %w", err)
		}
		val, err := RandomNonzero(rng)
		if err != nil {
			return nil, fmt.Errorf("sparsevec: sampling value: %w", err)
		}
		entries[k] = Entry{Index: base + offset, Value: val}
	}
	return &SparseVector{Size: size, Entries: entries}, nil
}

func randIntn(rng io.Reader, n int) (int, error) {
	if n <= 1 {
		return 0, nil
	}
	v, err := rand.Int(rng, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// RandomElement samples a uniform field element from rng, reducing a
// uniformly random 32-byte string modulo the field characteristic.
func RandomElement(rng io.Reader) (fr.Element, error) {
	var e fr.Element
	var buf [fr.Bytes]byte
	if _, err := io.ReadFull(rng, buf[:]); err != nil {
		return e, err
	}
	e.SetBytes(buf[:])
	return e, nil
}

// RandomNonzero samples a uniform nonzero field element from rng.
func RandomNonzero(rng io.Reader) (fr.Element, error) {
	for {
		e, err := RandomElement(rng)
		if err != nil {
			return e, err
		}
		if !e.IsZero() {
			return e, nil
		}
	}
}

// RandIntn samples a uniform integer in [0, n) from rng. Exported for use by
// the RAA code's permutation sampler.
func RandIntn(rng io.Reader, n int) (int, error) {
	return randIntn(rng, n)
}
