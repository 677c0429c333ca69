package wire

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func seededRNG(seed uint64) *rand.ChaCha8 {
	var seedBytes [32]byte
	seedBytes[0] = byte(seed)
	seedBytes[1] = byte(seed >> 8)
	return rand.NewChaCha8(seedBytes)
}

func TestScalarVectorRoundtrip(t *testing.T) {
	rng := seededRNG(1)
	v := make([]fr.Element, 7)
	for i := range v {
		v[i].SetUint64(uint64(i) * 13)
	}
	_ = rng

	enc := EncodeScalarVector(v)
	dec, err := DecodeScalarVector(enc)
	require.NoError(t, err)
	require.Equal(t, len(v), len(dec))
	for i := range v {
		require.True(t, v[i].Equal(&dec[i]))
	}
}

func TestPointRoundtrip(t *testing.T) {
	_, _, g1gen, g2gen := bn254.Generators()

	g1enc := EncodeG1Point(g1gen)
	g1dec, err := DecodeG1Point(g1enc)
	require.NoError(t, err)
	require.True(t, g1gen.Equal(&g1dec))

	g2enc := EncodeG2Point(g2gen)
	g2dec, err := DecodeG2Point(g2enc)
	require.NoError(t, err)
	require.True(t, g2gen.Equal(&g2dec))
}

func TestG1VectorRoundtrip(t *testing.T) {
	_, _, g1gen, _ := bn254.Generators()
	v := []bn254.G1Affine{g1gen, g1gen, g1gen}
	enc := EncodeG1Vector(v)
	dec, err := DecodeG1Vector(enc)
	require.NoError(t, err)
	require.Len(t, dec, 3)
	for i := range v {
		require.True(t, v[i].Equal(&dec[i]))
	}
}

func TestMalformedBytesReturnError(t *testing.T) {
	_, err := DecodeScalarVector([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrTruncated)

	var v fr.Element
	v.SetUint64(5)
	enc := EncodeScalarVector([]fr.Element{v})
	_, err = DecodeScalarVector(enc[:len(enc)-1])
	require.ErrorIs(t, err, ErrTruncated)
}

func TestOversizedLengthRejected(t *testing.T) {
	buf := make([]byte, 8)
	for i := range buf {
		buf[i] = 0xFF
	}
	_, err := DecodeScalarVector(buf)
	require.ErrorIs(t, err, ErrOversizeVector)
}

func TestEnvelopeRoundtrip(t *testing.T) {
	req := &SetupRequest{HGenerators: []byte{1, 2, 3}, LGenerators: []byte{4}}
	payload, err := EncodeSetupRequest(req)
	require.NoError(t, err)

	env := &Envelope{SessionID: "abc-123", Request: payload}
	encEnv, err := EncodeEnvelope(env)
	require.NoError(t, err)

	var decEnv Envelope
	require.NoError(t, DecodeEnvelope(encEnv, &decEnv))
	require.Equal(t, env.SessionID, decEnv.SessionID)

	var decReq SetupRequest
	require.NoError(t, DecodeSetupRequest(decEnv.Request, &decReq))
	require.Equal(t, req.HGenerators, decReq.HGenerators)
	require.Equal(t, req.LGenerators, decReq.LGenerators)
}

func TestProveMessagesRoundtrip(t *testing.T) {
	preq := &ProveRequest{VH: []byte{9, 9}, VBG2: []byte{1}}
	enc, err := EncodeProveRequest(preq)
	require.NoError(t, err)
	var dec ProveRequest
	require.NoError(t, DecodeProveRequest(enc, &dec))
	require.Equal(t, preq.VH, dec.VH)

	presp := &ProveResponse{EmH: []byte{1, 2}, EmBG2: []byte{3, 4}}
	encR, err := EncodeProveResponse(presp)
	require.NoError(t, err)
	var decR ProveResponse
	require.NoError(t, DecodeProveResponse(encR, &decR))
	require.Equal(t, presp.EmBG2, decR.EmBG2)
}
