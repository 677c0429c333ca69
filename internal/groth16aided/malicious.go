package groth16aided

import (
	"context"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/frontend"
	"golang.org/x/sync/errgroup"

	"github.com/RajeshRk18/stealthsnark/internal/curvegroup"
	"github.com/RajeshRk18/stealthsnark/internal/malicious"
	"github.com/RajeshRk18/stealthsnark/internal/qapadapter"
	"github.com/RajeshRk18/stealthsnark/internal/sparsevec"
)

// MaliciousEncryptedRequest is the ten masked vectors (five slots, each with
// a main query and a challenge-scaled check query) sent across two
// malicious-mode prove round trips.
type MaliciousEncryptedRequest struct {
	H, L, A, BG1, BG2 *malicious.Encrypted
}

// MainVectors extracts the five "main query" vectors as a plain
// EncryptedRequest, reusing the honest-mode wire shape for the first of the
// two malicious-mode round trips.
func (r *MaliciousEncryptedRequest) MainVectors() *EncryptedRequest {
	return &EncryptedRequest{VH: r.H.Masked, VL: r.L.Masked, VA: r.A.Masked, VBG1: r.BG1.Masked, VBG2: r.BG2.Masked}
}

// CheckVectors extracts the five "challenge query" vectors, for the second
// round trip.
func (r *MaliciousEncryptedRequest) CheckVectors() *EncryptedRequest {
	return &EncryptedRequest{VH: r.H.MaskedCheck, VL: r.L.MaskedCheck, VA: r.A.MaskedCheck, VBG1: r.BG1.MaskedCheck, VBG2: r.BG2.MaskedCheck}
}

// MaliciousDecryptState mirrors ClientDecryptionState but carries a
// malicious.DecryptState (challenge + two LPN samples) per slot.
type MaliciousDecryptState struct {
	R, S fr.Element

	H, L, A, BG1, BG2 *malicious.DecryptState

	NumInstanceVariables int
	FullAssignment       []fr.Element
}

// MaliciousEncrypt is MaliciousEncryptedRequest's constructor: it solves the
// circuit once, then runs the double-query malicious encryption for each of
// the five slots.
func (sapk *ServerAidedProvingKey) MaliciousEncrypt(circuit frontend.Circuit, rng io.Reader) (*MaliciousEncryptedRequest, *MaliciousDecryptState, error) {
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
	encH, stateH, err := malicious.Encrypt(sapk.EmsmH, hScalars, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: malicious-encrypting H slot: %w", err)
	}

	lScalars := padOrTrim(witnessAssignment, len(sapk.EmsmL.Generators))
	encL, stateL, err := malicious.Encrypt(sapk.EmsmL, lScalars, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: malicious-encrypting L slot: %w", err)
	}

	aScalars := padOrTrim(witnessAssignment, len(sapk.EmsmA.Generators))
	encA, stateA, err := malicious.Encrypt(sapk.EmsmA, aScalars, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: malicious-encrypting A slot: %w", err)
	}

	bG1Scalars := padOrTrim(witnessAssignment, len(sapk.EmsmBG1.Generators))
	encBG1, stateBG1, err := malicious.Encrypt(sapk.EmsmBG1, bG1Scalars, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: malicious-encrypting B_G1 slot: %w", err)
	}

	bG2Scalars := padOrTrim(witnessAssignment, len(sapk.EmsmBG2.Generators))
	encBG2, stateBG2, err := malicious.Encrypt(sapk.EmsmBG2, bG2Scalars, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16aided: malicious-encrypting B_G2 slot: %w", err)
	}

	req := &MaliciousEncryptedRequest{H: encH, L: encL, A: encA, BG1: encBG1, BG2: encBG2}
	state := &MaliciousDecryptState{
		R: r, S: s,
		H: stateH, L: stateL, A: stateA, BG1: stateBG1, BG2: stateBG2,
		NumInstanceVariables: sol.NumInstanceVariables,
		FullAssignment:       sol.FullAssignment,
	}
	return req, state, nil
}

// MaliciousServerEvaluate runs the ten Pedersen MSMs (five slots x two
// queries): the five slots run concurrently in an errgroup, and each slot
// evaluates its main and check queries one after the other.
func (sapk *ServerAidedProvingKey) MaliciousServerEvaluate(ctx context.Context, req *MaliciousEncryptedRequest) (*ServerResponse, *ServerResponse, error) {
	g, _ := errgroup.WithContext(ctx)
	main := &ServerResponse{}
	check := &ServerResponse{}

	g.Go(func() (err error) {
		main.EmH, check.EmH, err = malicious.ServerEvaluate(sapk.EmsmH, req.H)
		return err
	})
	g.Go(func() (err error) {
		main.EmL, check.EmL, err = malicious.ServerEvaluate(sapk.EmsmL, req.L)
		return err
	})
	g.Go(func() (err error) {
		main.EmA, check.EmA, err = malicious.ServerEvaluate(sapk.EmsmA, req.A)
		return err
	})
	g.Go(func() (err error) {
		main.EmBG1, check.EmBG1, err = malicious.ServerEvaluate(sapk.EmsmBG1, req.BG1)
		return err
	})
	g.Go(func() (err error) {
		main.EmBG2, check.EmBG2, err = malicious.ServerEvaluate(sapk.EmsmBG2, req.BG2)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return main, check, nil
}

// MaliciousDecrypt verifies the double-query consistency check on each of
// the five slots and, if all pass, assembles the proof exactly as Decrypt
// does.
func (sapk *ServerAidedProvingKey) MaliciousDecrypt(main, check *ServerResponse, state *MaliciousDecryptState) (*groth16bn254.Proof, error) {
	g1ops := curvegroup.G1()
	g2ops := curvegroup.G2()

	hMsm, err := malicious.Decrypt(main.EmH, check.EmH, state.H, sapk.PreH, g1ops)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: H slot: %w", err)
	}
	lMsm, err := malicious.Decrypt(main.EmL, check.EmL, state.L, sapk.PreL, g1ops)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: L slot: %w", err)
	}
	aWitMsm, err := malicious.Decrypt(main.EmA, check.EmA, state.A, sapk.PreA, g1ops)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: A slot: %w", err)
	}
	bG1WitMsm, err := malicious.Decrypt(main.EmBG1, check.EmBG1, state.BG1, sapk.PreBG1, g1ops)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: B_G1 slot: %w", err)
	}
	bG2WitMsm, err := malicious.Decrypt(main.EmBG2, check.EmBG2, state.BG2, sapk.PreBG2, g2ops)
	if err != nil {
		return nil, fmt.Errorf("groth16aided: B_G2 slot: %w", err)
	}

	plainState := &ClientDecryptionState{
		R: state.R, S: state.S,
		NumInstanceVariables: state.NumInstanceVariables,
		FullAssignment:       state.FullAssignment,
	}
	return sapk.assembleProof(hMsm, lMsm, aWitMsm, bG1WitMsm, bG2WitMsm, plainState)
}
