package groth16aided

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/frontend"

	"github.com/RajeshRk18/stealthsnark/internal/curvegroup"
	"github.com/RajeshRk18/stealthsnark/internal/emsm"
	"github.com/RajeshRk18/stealthsnark/internal/qapadapter"
	"github.com/RajeshRk18/stealthsnark/internal/sparsevec"
)

// Encrypt solves the circuit, computes its QAP quotient, and EMSM-encrypts
// all five MSM inputs for delegation to the server.
func (sapk *ServerAidedProvingKey) Encrypt(circuit frontend.Circuit, rng io.Reader) (*EncryptedRequest, *ClientDecryptionState, error) {
	sol, err := qapadapter.Solve(sapk.CCS, &sapk.pk.Domain, circuit)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: solving circuit: %w", err)
	}

	r, err := sparsevec.RandomElement(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: sampling r: %w", err)
	}
	s, err := sparsevec.RandomElement(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: sampling s: %w", err)
	}

	witnessAssignment := sol.FullAssignment[sol.NumInstanceVariables:]

	hScalars := padOrTrim(sol.HPoly, len(sapk.EmsmH.Generators))
	vH, lpnH, err := emsm.Encrypt(sapk.EmsmH, hScalars, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: encrypting H slot: %w", err)
	}

	lScalars := padOrTrim(witnessAssignment, len(sapk.EmsmL.Generators))
	vL, lpnL, err := emsm.Encrypt(sapk.EmsmL, lScalars, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: encrypting L slot: %w", err)
	}

	aScalars := padOrTrim(witnessAssignment, len(sapk.EmsmA.Generators))
	vA, lpnA, err := emsm.Encrypt(sapk.EmsmA, aScalars, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: encrypting A slot: %w", err)
	}

	bG1Scalars := padOrTrim(witnessAssignment, len(sapk.EmsmBG1.Generators))
	vBG1, lpnBG1, err := emsm.Encrypt(sapk.EmsmBG1, bG1Scalars, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: encrypting B_G1 slot: %w", err)
	}

	bG2Scalars := padOrTrim(witnessAssignment, len(sapk.EmsmBG2.Generators))
	vBG2, lpnBG2, err := emsm.Encrypt(sapk.EmsmBG2, bG2Scalars, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: encrypting B_G2 slot: %w", err)
	}

	req := &EncryptedRequest{VH: vH, VL: vL, VA: vA, VBG1: vBG1, VBG2: vBG2}
	state := &ClientDecryptionState{
		R: r, S: s,
		LPNH: lpnH, LPNL: lpnL, LPNA: lpnA, LPNBG1: lpnBG1, LPNBG2: lpnBG2,
		NumInstanceVariables: sol.NumInstanceVariables,
		FullAssignment:       sol.FullAssignment,
	}
	return req, state, nil
}

// Decrypt recovers the five MSM results from the server's response and
// assembles them into a gnark-compatible Groth16 proof (pi_A, pi_B, pi_C).
func (sapk *ServerAidedProvingKey) Decrypt(resp *ServerResponse, state *ClientDecryptionState) (*groth16bn254.Proof, error) {
	g1ops := curvegroup.G1()
	g2ops := curvegroup.G2()

	hMsm, err := emsm.Decrypt(resp.EmH, state.LPNH, sapk.PreH, g1ops)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: decrypting H slot: %w", err)
	}
	lMsm, err := emsm.Decrypt(resp.EmL, state.LPNL, sapk.PreL, g1ops)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: decrypting L slot: %w", err)
	}
	aWitMsm, err := emsm.Decrypt(resp.EmA, state.LPNA, sapk.PreA, g1ops)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: decrypting A slot: %w", err)
	}
	bG1WitMsm, err := emsm.Decrypt(resp.EmBG1, state.LPNBG1, sapk.PreBG1, g1ops)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: decrypting B_G1 slot: %w", err)
	}
	bG2WitMsm, err := emsm.Decrypt(resp.EmBG2, state.LPNBG2, sapk.PreBG2, g2ops)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: decrypting B_G2 slot: %w", err)
	}

	return sapk.assembleProof(hMsm, lMsm, aWitMsm, bG1WitMsm, bG2WitMsm, state)
}

// publicContribution computes query[0] + sum_i publicInputs[i]*query[i+1],
// the fixed (witness-independent modulo the instance) part of a Groth16 MSM
// contributed by the public inputs. It is generic over the curve group so
// the same code serves both the G1 and G2 B-query contributions.
func publicContribution[J any, A any](query []A, publicInputs []fr.Element, ops curvegroup.GroupOps[J, A]) J {
	acc := ops.FromAffine(query[0])
	for i, input := range publicInputs {
		if input.IsZero() {
			continue
		}
		term := ops.ScalarMul(query[i+1], input)
		acc = ops.Add(acc, term)
	}
	return acc
}

func (sapk *ServerAidedProvingKey) assembleProof(hMsm, lMsm, aWitMsm, bG1WitMsm bn254.G1Jac, bG2WitMsm bn254.G2Jac, state *ClientDecryptionState) (*groth16bn254.Proof, error) {
	g1ops := curvegroup.G1()
	g2ops := curvegroup.G2()

	publicInputs := state.FullAssignment[1:state.NumInstanceVariables]

	aPub := publicContribution(sapk.aQueryFull, publicInputs, g1ops)
	bG1Pub := publicContribution(sapk.bG1QueryFull, publicInputs, g1ops)
	bG2Pub := publicContribution(sapk.bG2QueryFull, publicInputs, g2ops)

	alpha := g1ops.FromAffine(sapk.pk.G1.Alpha)
	deltaG1Aff := sapk.pk.G1.Delta
	betaG1 := g1ops.FromAffine(sapk.pk.G1.Beta)
	betaG2 := g2ops.FromAffine(sapk.pk.G2.Beta)
	deltaG2Aff := sapk.pk.G2.Delta

	gA := g1ops.Add(g1ops.Add(alpha, aPub), aWitMsm)
	gA = g1ops.Add(gA, g1ops.ScalarMul(deltaG1Aff, state.R))

	gB := g2ops.Add(g2ops.Add(betaG2, bG2Pub), bG2WitMsm)
	gB = g2ops.Add(gB, g2ops.ScalarMul(deltaG2Aff, state.S))

	gBG1 := g1ops.Add(g1ops.Add(betaG1, bG1Pub), bG1WitMsm)
	gBG1 = g1ops.Add(gBG1, g1ops.ScalarMul(deltaG1Aff, state.S))

	var rs fr.Element
	rs.Mul(&state.R, &state.S)

	gAAffine := g1ops.ToAffine(gA)
	gBG1Affine := g1ops.ToAffine(gBG1)

	gC := g1ops.Add(hMsm, lMsm)
	gC = g1ops.Add(gC, g1ops.ScalarMul(gAAffine, state.S))
	gC = g1ops.Add(gC, g1ops.ScalarMul(gBG1Affine, state.R))
	gC = g1ops.Sub(gC, g1ops.ScalarMul(deltaG1Aff, rs))

	return &groth16bn254.Proof{
		Ar:  gAAffine,
		Bs:  g2ops.ToAffine(gB),
		Krs: g1ops.ToAffine(gC),
	}, nil
}
