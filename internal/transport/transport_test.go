package transport

import (
	"bytes"
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/RajeshRk18/stealthsnark/internal/curvegroup"
	"github.com/RajeshRk18/stealthsnark/internal/wire"
)

func seededRNG(seed uint64) *rand.ChaCha8 {
	var seedBytes [32]byte
	seedBytes[0] = byte(seed)
	return rand.NewChaCha8(seedBytes)
}

func TestSetupAndProveRoundtrip(t *testing.T) {
	srv := NewServer()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := NewClient(ts.URL)
	ctx := context.Background()

	_, _, g1gen, _ := bn254.Generators()
	bases := []bn254.G1Affine{g1gen, g1gen, g1gen}
	emptyVec := wire.EncodeG1Vector(nil)

	setupReq := &wire.SetupRequest{
		HGenerators:   wire.EncodeG1Vector(bases),
		LGenerators:   emptyVec,
		AGenerators:   emptyVec,
		BG1Generators: emptyVec,
		BG2Generators: wire.EncodeG2Vector(nil),
	}
	require.NoError(t, client.SendSetup(ctx, "sess-1", setupReq))

	var a, b, c fr.Element
	a.SetUint64(2)
	b.SetUint64(3)
	c.SetUint64(5)
	scalars := []fr.Element{a, b, c}
	emptyScalars := wire.EncodeScalarVector(nil)

	proveReq := &wire.ProveRequest{
		VH:   wire.EncodeScalarVector(scalars),
		VL:   emptyScalars,
		VA:   emptyScalars,
		VBG1: emptyScalars,
		VBG2: emptyScalars,
	}
	resp, err := client.SendProve(ctx, "sess-1", proveReq)
	require.NoError(t, err)

	got, err := wire.DecodeG1Point(resp.EmH)
	require.NoError(t, err)

	g1ops := curvegroup.G1()
	expected, err := g1ops.MultiExp(bases, scalars)
	require.NoError(t, err)
	require.True(t, g1ops.ToAffine(expected).Equal(&got))
}

func TestProveWithoutSetupReturnsUnknownSession(t *testing.T) {
	srv := NewServer()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := NewClient(ts.URL)
	ctx := context.Background()

	emptyScalars := wire.EncodeScalarVector(nil)
	proveReq := &wire.ProveRequest{VH: emptyScalars, VL: emptyScalars, VA: emptyScalars, VBG1: emptyScalars, VBG2: emptyScalars}
	_, err := client.SendProve(ctx, "no-such-session", proveReq)
	require.Error(t, err)
}

func postEnvelope(t *testing.T, url, sessionID string, requestPayload []byte) *http.Response {
	t.Helper()
	envelope, err := wire.EncodeEnvelope(&wire.Envelope{SessionID: sessionID, Request: requestPayload})
	require.NoError(t, err)
	resp, err := http.Post(url, "application/octet-stream", bytes.NewReader(envelope))
	require.NoError(t, err)
	return resp
}

func TestProveWithoutSetupReturns412(t *testing.T) {
	srv := NewServer()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	emptyScalars := wire.EncodeScalarVector(nil)
	proveReq := &wire.ProveRequest{VH: emptyScalars, VL: emptyScalars, VA: emptyScalars, VBG1: emptyScalars, VBG2: emptyScalars}
	payload, err := wire.EncodeProveRequest(proveReq)
	require.NoError(t, err)

	resp := postEnvelope(t, ts.URL+"/prove", "no-such-session", payload)
	defer resp.Body.Close()
	require.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
}

func TestProveLengthMismatchReturns400(t *testing.T) {
	srv := NewServer()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	_, _, g1gen, _ := bn254.Generators()
	bases := []bn254.G1Affine{g1gen, g1gen, g1gen}
	emptyVec := wire.EncodeG1Vector(nil)

	setupReq := &wire.SetupRequest{
		HGenerators:   wire.EncodeG1Vector(bases),
		LGenerators:   emptyVec,
		AGenerators:   emptyVec,
		BG1Generators: emptyVec,
		BG2Generators: wire.EncodeG2Vector(nil),
	}
	setupPayload, err := wire.EncodeSetupRequest(setupReq)
	require.NoError(t, err)
	setupResp := postEnvelope(t, ts.URL+"/setup", "sess-mismatch", setupPayload)
	setupResp.Body.Close()
	require.Equal(t, http.StatusOK, setupResp.StatusCode)

	// H's registered basis has 3 generators; send only 2 scalars.
	var a, b fr.Element
	a.SetUint64(1)
	b.SetUint64(2)
	emptyScalars := wire.EncodeScalarVector(nil)
	proveReq := &wire.ProveRequest{
		VH:   wire.EncodeScalarVector([]fr.Element{a, b}),
		VL:   emptyScalars,
		VA:   emptyScalars,
		VBG1: emptyScalars,
		VBG2: emptyScalars,
	}
	provePayload, err := wire.EncodeProveRequest(proveReq)
	require.NoError(t, err)

	resp := postEnvelope(t, ts.URL+"/prove", "sess-mismatch", provePayload)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProveMalformedEnvelopeReturns400(t *testing.T) {
	srv := NewServer()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/prove", "application/octet-stream", bytes.NewReader([]byte{0xFF, 0x00, 0x01}))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
