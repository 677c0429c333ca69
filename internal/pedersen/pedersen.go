// Package pedersen implements a generic Pedersen-style vector commitment:
// commit(scalars) = MultiExp(generators, scalars). It is generic over the
// curve group via curvegroup.GroupOps so the same code serves both the G1
// and G2 EMSM slots.
package pedersen

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/RajeshRk18/stealthsnark/internal/curvegroup"
	"github.com/RajeshRk18/stealthsnark/internal/sparsevec"
)

// ErrLengthMismatch is returned when the scalar count doesn't match the
// generator count.
var ErrLengthMismatch = errors.New("pedersen: scalar/generator length mismatch")

// Pedersen holds a fixed generator basis and the group operations needed to
// combine them.
type Pedersen[J any, A any] struct {
	Generators []A
	ops        curvegroup.GroupOps[J, A]
}

// New builds a Pedersen commitment scheme over the given generators.
func New[J any, A any](generators []A, ops curvegroup.GroupOps[J, A]) *Pedersen[J, A] {
	return &Pedersen[J, A]{Generators: generators, ops: ops}
}

// Commit computes MultiExp(Generators, scalars). len(scalars) must equal
// len(Generators).
func (p *Pedersen[J, A]) Commit(scalars []fr.Element) (J, error) {
	if len(scalars) != len(p.Generators) {
		var zero J
		return zero, fmt.Errorf("%w: %d scalars vs %d generators", ErrLengthMismatch, len(scalars), len(p.Generators))
	}
	return p.ops.MultiExp(p.Generators, scalars)
}

// CommitSparse commits to a sparse vector by gathering only the generators
// at the vector's nonzero indices. An empty sparse vector commits to the
// group identity.
func (p *Pedersen[J, A]) CommitSparse(sv *sparsevec.SparseVector) (J, error) {
	if sv.Size > len(p.Generators) {
		var zero J
		return zero, fmt.Errorf("%w: sparse vector dimension %d exceeds %d generators", ErrLengthMismatch, sv.Size, len(p.Generators))
	}
	if len(sv.Entries) == 0 {
		var zero J
		return zero, nil
	}
	bases := make([]A, len(sv.Entries))
	scalars := make([]fr.Element, len(sv.Entries))
	for i, e := range sv.Entries {
		bases[i] = p.Generators[e.Index]
		scalars[i] = e.Value
	}
	return p.ops.MultiExp(bases, scalars)
}
