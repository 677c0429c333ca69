// Package duallpn samples Dual-LPN instances (a sparse noise vector plus its
// RAA-code image) and uses them to additively mask a witness.
package duallpn

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/RajeshRk18/stealthsnark/internal/raacode"
	"github.com/RajeshRk18/stealthsnark/internal/sparsevec"
)

// Instance is one sample from the Dual-LPN distribution: a t-sparse noise
// vector e (dimension BigN) and its dense image T(e) (dimension N).
type Instance struct {
	Noise     *sparsevec.SparseVector
	LPNVector []fr.Element
}

// Sample draws a fresh noise vector of weight t and computes its RAA-code
// image under the given TOperator.
func Sample(top *raacode.TOperator, t int, rng io.Reader) (*Instance, error) {
	noise, err := sparsevec.ErrorVec(top.BigN, t, rng)
	if err != nil {
		return nil, fmt.Errorf("duallpn: sampling noise: %w", err)
	}
	lpnVector := top.MultiplySparse(noise.Entries)
	return &Instance{Noise: noise, LPNVector: lpnVector}, nil
}

// MaskWitness returns z + r, elementwise, where r is this instance's LPN
// vector. len(z) must equal len(r).
func (inst *Instance) MaskWitness(z []fr.Element) []fr.Element {
	if len(z) != len(inst.LPNVector) {
		panic("duallpn: witness length does not match LPN vector length")
	}
	out := make([]fr.Element, len(z))
	for i := range z {
		out[i].Add(&z[i], &inst.LPNVector[i])
	}
	return out
}
