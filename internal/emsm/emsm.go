// Package emsm implements Encrypted MSM: a client masks a witness with a
// Dual-LPN sample before handing it to an untrusted server, which computes a
// Pedersen-style MSM over the masked vector; the client then subtracts the
// noise term's own commitment (taken against a basis precomputed once via the
// RAA code's transpose) to recover the true MSM.
package emsm

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/RajeshRk18/stealthsnark/internal/curvegroup"
	"github.com/RajeshRk18/stealthsnark/internal/duallpn"
	"github.com/RajeshRk18/stealthsnark/internal/lpnparams"
	"github.com/RajeshRk18/stealthsnark/internal/pedersen"
	"github.com/RajeshRk18/stealthsnark/internal/raacode"
)

// PublicParams bundles the RAA code instance, the MSM generator basis, and
// the chosen noise weight t, for one EMSM "slot" (H, L, A, B_G1, or B_G2).
type PublicParams[J any, A any] struct {
	TOperator  *raacode.TOperator
	Generators []A
	T          int
	ops        curvegroup.GroupOps[J, A]
}

// NewPublicParams derives LPN parameters from len(generators) and samples a
// fresh RAA code instance.
func NewPublicParams[J any, A any](generators []A, ops curvegroup.GroupOps[J, A], rng io.Reader) (*PublicParams[J, A], error) {
	n := len(generators)
	params := lpnparams.Get(n)
	top, err := raacode.New(n, rng)
	if err != nil {
		return nil, fmt.Errorf("emsm: sampling RAA code: %w", err)
	}
	return &PublicParams[J, A]{TOperator: top, Generators: generators, T: params.T, ops: ops}, nil
}

// Preprocessed holds the server-independent, witness-independent material a
// client needs to decrypt: the RAA transpose image of the generators and a
// Pedersen scheme over it, used to commit to the masking noise alone.
type Preprocessed[J any, A any] struct {
	H        []J
	Pedersen *pedersen.Pedersen[J, A]
}

// Preprocess computes T^T(generators) once per PublicParams instance; the
// result is reused across every proof.
func (p *PublicParams[J, A]) Preprocess() *Preprocessed[J, A] {
	h := raacode.MultiplyTransposeGroup(p.TOperator, p.Generators, p.ops)
	hAffine := make([]A, len(h))
	for i, hi := range h {
		hAffine[i] = p.ops.ToAffine(hi)
	}
	return &Preprocessed[J, A]{H: h, Pedersen: pedersen.New(hAffine, p.ops)}
}

// ServerComputation is the untrusted side of the protocol: a plain Pedersen
// MSM over the masked scalars and the slot's public generators.
func (p *PublicParams[J, A]) ServerComputation(maskedScalars []fr.Element) (J, error) {
	ped := pedersen.New(p.Generators, p.ops)
	return ped.Commit(maskedScalars)
}

// Encrypt draws a fresh Dual-LPN sample and masks witness with it, returning
// the masked vector to send to the server and the sample to keep for
// decryption.
func Encrypt[J any, A any](p *PublicParams[J, A], witness []fr.Element, rng io.Reader) ([]fr.Element, *duallpn.Instance, error) {
	lpn, err := duallpn.Sample(p.TOperator, p.T, rng)
	if err != nil {
		return nil, nil, err
	}
	masked := lpn.MaskWitness(witness)
	return masked, lpn, nil
}

// Decrypt subtracts the noise term's own commitment from the server's
// result, recovering MSM(generators, witness).
func Decrypt[J any, A any](serverResult J, lpn *duallpn.Instance, pre *Preprocessed[J, A], ops curvegroup.GroupOps[J, A]) (J, error) {
	noiseContribution, err := pre.Pedersen.CommitSparse(lpn.Noise)
	if err != nil {
		var zero J
		return zero, fmt.Errorf("emsm: committing noise term: %w", err)
	}
	return ops.Sub(serverResult, noiseContribution), nil
}
