// Package client wires internal/groth16aided's cryptographic protocol onto
// internal/transport's HTTP transport, presenting a single Prove call that
// runs the full delegate-encrypt-send-decrypt cycle against a remote server.
package client

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/frontend"

	"github.com/RajeshRk18/stealthsnark/internal/curvegroup"
	"github.com/RajeshRk18/stealthsnark/internal/groth16aided"
	"github.com/RajeshRk18/stealthsnark/internal/qapadapter"
	"github.com/RajeshRk18/stealthsnark/internal/transport"
	"github.com/RajeshRk18/stealthsnark/internal/wire"
)

// Orchestrator drives one session of the server-aided Groth16 protocol
// against a remote server over HTTP.
type Orchestrator struct {
	Key       *groth16aided.ServerAidedProvingKey
	Transport *transport.Client
	SessionID string
	Malicious bool
}

// New builds an Orchestrator for an already-set-up proving key.
func New(key *groth16aided.ServerAidedProvingKey, baseURL, sessionID string, malicious bool) *Orchestrator {
	return &Orchestrator{
		Key:       key,
		Transport: transport.NewClient(baseURL),
		SessionID: sessionID,
		Malicious: malicious,
	}
}

// SendSetup registers this session's five generator bases with the server.
func (o *Orchestrator) SendSetup(ctx context.Context) error {
	req := &wire.SetupRequest{
		HGenerators:   wire.EncodeG1Vector(o.Key.EmsmH.Generators),
		LGenerators:   wire.EncodeG1Vector(o.Key.EmsmL.Generators),
		AGenerators:   wire.EncodeG1Vector(o.Key.EmsmA.Generators),
		BG1Generators: wire.EncodeG1Vector(o.Key.EmsmBG1.Generators),
		BG2Generators: wire.EncodeG2Vector(o.Key.EmsmBG2.Generators),
	}
	return o.Transport.SendSetup(ctx, o.SessionID, req)
}

// Prove runs the full protocol for one circuit instance: encrypt locally,
// delegate the MSMs to the server, decrypt and assemble the proof, and
// verify it against the embedded verifying key.
func (o *Orchestrator) Prove(ctx context.Context, circuit frontend.Circuit) (*groth16bn254.Proof, error) {
	if o.Malicious {
		return o.proveMalicious(ctx, circuit)
	}
	return o.proveHonest(ctx, circuit)
}

func (o *Orchestrator) proveHonest(ctx context.Context, circuit frontend.Circuit) (*groth16bn254.Proof, error) {
	enc, state, err := o.Key.Encrypt(circuit, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("client: encrypting: %w", err)
	}

	resp, err := o.Transport.SendProve(ctx, o.SessionID, toWireProveRequest(enc))
	if err != nil {
		return nil, fmt.Errorf("client: sending prove request: %w", err)
	}

	serverResp, err := fromWireProveResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("client: decoding server response: %w", err)
	}

	proof, err := o.Key.Decrypt(serverResp, state)
	if err != nil {
		return nil, fmt.Errorf("client: decrypting: %w", err)
	}

	if err := o.verify(proof, circuit); err != nil {
		return nil, err
	}
	return proof, nil
}

func (o *Orchestrator) proveMalicious(ctx context.Context, circuit frontend.Circuit) (*groth16bn254.Proof, error) {
	enc, state, err := o.Key.MaliciousEncrypt(circuit, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("client: malicious-encrypting: %w", err)
	}

	mainResp, err := o.Transport.SendProve(ctx, o.SessionID, toWireProveRequest(enc.MainVectors()))
	if err != nil {
		return nil, fmt.Errorf("client: sending main prove request: %w", err)
	}
	checkResp, err := o.Transport.SendProve(ctx, o.SessionID, toWireProveRequest(enc.CheckVectors()))
	if err != nil {
		return nil, fmt.Errorf("client: sending check prove request: %w", err)
	}

	mainServerResp, err := fromWireProveResponse(mainResp)
	if err != nil {
		return nil, fmt.Errorf("client: decoding main server response: %w", err)
	}
	checkServerResp, err := fromWireProveResponse(checkResp)
	if err != nil {
		return nil, fmt.Errorf("client: decoding check server response: %w", err)
	}

	proof, err := o.Key.MaliciousDecrypt(mainServerResp, checkServerResp, state)
	if err != nil {
		return nil, fmt.Errorf("client: malicious-decrypting: %w", err)
	}

	if err := o.verify(proof, circuit); err != nil {
		return nil, err
	}
	return proof, nil
}

func (o *Orchestrator) verify(proof *groth16bn254.Proof, circuit frontend.Circuit) error {
	publicWitness, err := qapadapter.WitnessPublic(circuit)
	if err != nil {
		return fmt.Errorf("client: building public witness: %w", err)
	}
	if err := groth16.Verify(proof, o.Key.VK, publicWitness); err != nil {
		return fmt.Errorf("client: verifying assembled proof: %w", err)
	}
	return nil
}

func toWireProveRequest(req *groth16aided.EncryptedRequest) *wire.ProveRequest {
	return &wire.ProveRequest{
		VH:   wire.EncodeScalarVector(req.VH),
		VL:   wire.EncodeScalarVector(req.VL),
		VA:   wire.EncodeScalarVector(req.VA),
		VBG1: wire.EncodeScalarVector(req.VBG1),
		VBG2: wire.EncodeScalarVector(req.VBG2),
	}
}

func fromWireProveResponse(resp *wire.ProveResponse) (*groth16aided.ServerResponse, error) {
	g1ops := bn254G1Ops()
	g2ops := bn254G2Ops()

	emH, err := wire.DecodeG1Point(resp.EmH)
	if err != nil {
		return nil, err
	}
	emL, err := wire.DecodeG1Point(resp.EmL)
	if err != nil {
		return nil, err
	}
	emA, err := wire.DecodeG1Point(resp.EmA)
	if err != nil {
		return nil, err
	}
	emBG1, err := wire.DecodeG1Point(resp.EmBG1)
	if err != nil {
		return nil, err
	}
	emBG2, err := wire.DecodeG2Point(resp.EmBG2)
	if err != nil {
		return nil, err
	}

	return &groth16aided.ServerResponse{
		EmH:   g1ops.FromAffine(emH),
		EmL:   g1ops.FromAffine(emL),
		EmA:   g1ops.FromAffine(emA),
		EmBG1: g1ops.FromAffine(emBG1),
		EmBG2: g2ops.FromAffine(emBG2),
	}, nil
}

func bn254G1Ops() curvegroup.GroupOps[bn254.G1Jac, bn254.G1Affine] { return curvegroup.G1() }
func bn254G2Ops() curvegroup.GroupOps[bn254.G2Jac, bn254.G2Affine] { return curvegroup.G2() }
