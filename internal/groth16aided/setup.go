// Package groth16aided orchestrates server-aided Groth16 proving: it wraps a
// real gnark proving key with five EMSM slots (H, L, A, B_G1, B_G2), one per
// MSM Groth16's prover performs, so those MSMs can be delegated to an
// untrusted server while the witness stays hidden.
package groth16aided

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/constraint"
	csbn254 "github.com/consensys/gnark/constraint/bn254"

	"github.com/RajeshRk18/stealthsnark/internal/curvegroup"
	"github.com/RajeshRk18/stealthsnark/internal/emsm"
	"github.com/RajeshRk18/stealthsnark/internal/qapadapter"
)

// ServerAidedProvingKey holds a real gnark Groth16 proving/verifying key
// alongside the five EMSM public-parameter sets and their preprocessed
// decryption material.
type ServerAidedProvingKey struct {
	CCS *csbn254.R1CS
	VK  groth16.VerifyingKey
	pk  *groth16bn254.ProvingKey

	aQueryFull   []bn254.G1Affine
	bG1QueryFull []bn254.G1Affine
	bG2QueryFull []bn254.G2Affine

	EmsmH   *emsm.PublicParams[bn254.G1Jac, bn254.G1Affine]
	EmsmL   *emsm.PublicParams[bn254.G1Jac, bn254.G1Affine]
	EmsmA   *emsm.PublicParams[bn254.G1Jac, bn254.G1Affine]
	EmsmBG1 *emsm.PublicParams[bn254.G1Jac, bn254.G1Affine]
	EmsmBG2 *emsm.PublicParams[bn254.G2Jac, bn254.G2Affine]

	PreH   *emsm.Preprocessed[bn254.G1Jac, bn254.G1Affine]
	PreL   *emsm.Preprocessed[bn254.G1Jac, bn254.G1Affine]
	PreA   *emsm.Preprocessed[bn254.G1Jac, bn254.G1Affine]
	PreBG1 *emsm.Preprocessed[bn254.G1Jac, bn254.G1Affine]
	PreBG2 *emsm.Preprocessed[bn254.G2Jac, bn254.G2Affine]
}

// Setup compiles the Groth16 proving/verifying key for ccs via gnark, then
// wraps each of the five MSM bases (H, L, A, B_G1, B_G2) in its own EMSM
// public-parameter set.
func Setup(ccs constraint.ConstraintSystem, rng io.Reader) (*ServerAidedProvingKey, error) {
	r1cs, ok := ccs.(*csbn254.R1CS)
	if !ok {
		return nil, fmt.Errorf("groth16aided: expected a bn254 R1CS, got %T", ccs)
	}

	pkIface, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: groth16 setup: %w", err)
	}
	pk, ok := pkIface.(*groth16bn254.ProvingKey)
	if !ok {
		return nil, fmt.Errorf("groth16aided: expected a bn254 proving key, got %T", pkIface)
	}

	aFull := qapadapter.ReconstructG1Query(pk.G1.A, pk.InfinityA)
	bG1Full := qapadapter.ReconstructG1Query(pk.G1.B, pk.InfinityB)
	bG2Full := qapadapter.ReconstructG2Query(pk.G2.B, pk.InfinityB)

	numPub := r1cs.GetNbPublicVariables()
	if numPub > len(aFull) {
		return nil, fmt.Errorf("groth16aided: num_pub %d exceeds query length %d", numPub, len(aFull))
	}

	g1ops := curvegroup.G1()
	g2ops := curvegroup.G2()

	emsmH, err := emsm.NewPublicParams(pk.G1.Z, g1ops, rng)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: setting up H slot: %w", err)
	}
	emsmL, err := emsm.NewPublicParams(pk.G1.K, g1ops, rng)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: setting up L slot: %w", err)
	}
	emsmA, err := emsm.NewPublicParams(aFull[numPub:], g1ops, rng)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: setting up A slot: %w", err)
	}
	emsmBG1, err := emsm.NewPublicParams(bG1Full[numPub:], g1ops, rng)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: setting up B_G1 slot: %w", err)
	}
	emsmBG2, err := emsm.NewPublicParams(bG2Full[numPub:], g2ops, rng)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: setting up B_G2 slot: %w", err)
	}

	return &ServerAidedProvingKey{
		CCS: r1cs,
		VK:  vk,
		pk:  pk,

		aQueryFull:   aFull,
		bG1QueryFull: bG1Full,
		bG2QueryFull: bG2Full,

		EmsmH:   emsmH,
		EmsmL:   emsmL,
		EmsmA:   emsmA,
		EmsmBG1: emsmBG1,
		EmsmBG2: emsmBG2,

		PreH:   emsmH.Preprocess(),
		PreL:   emsmL.Preprocess(),
		PreA:   emsmA.Preprocess(),
		PreBG1: emsmBG1.Preprocess(),
		PreBG2: emsmBG2.Preprocess(),
	}, nil
}
