// Package wire implements the on-the-wire encodings this protocol uses: a
// hand-rolled length-prefixed codec for scalar/point vectors (a fixed spec
// invariant, not negotiable framing), and CBOR-encoded envelope/message
// structs for the surrounding session/request framing.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"
)

// MaxVecLen bounds the number of elements a single encoded vector may claim,
// guarding the decoder against a hostile or corrupted length prefix
// allocating an unbounded buffer.
const MaxVecLen = 1 << 24

// ErrOversizeVector is returned when a decoded length prefix exceeds MaxVecLen.
var ErrOversizeVector = errors.New("wire: vector length exceeds maximum")

// ErrTruncated is returned when a buffer is shorter than its own header claims.
var ErrTruncated = errors.New("wire: truncated or malformed vector")

// EncodeScalarVector writes a u64-LE length prefix followed by each
// element's canonical compressed encoding.
func EncodeScalarVector(v []fr.Element) []byte {
	buf := make([]byte, 8, 8+len(v)*fr.Bytes)
	binary.LittleEndian.PutUint64(buf, uint64(len(v)))
	for i := range v {
		b := v[i].Bytes()
		buf = append(buf, b[:]...)
	}
	return buf
}

// DecodeScalarVector is EncodeScalarVector's inverse.
func DecodeScalarVector(data []byte) ([]fr.Element, error) {
	n, rest, err := readLenPrefix(data)
	if err != nil {
		return nil, err
	}
	if uint64(len(rest)) != n*uint64(fr.Bytes) {
		return nil, ErrTruncated
	}
	out := make([]fr.Element, n)
	for i := range out {
		var b [fr.Bytes]byte
		copy(b[:], rest[uint64(i)*uint64(fr.Bytes):])
		out[i].SetBytes(b[:])
	}
	return out, nil
}

// EncodeG1Vector writes a u64-LE length prefix followed by each point's
// canonical compressed encoding.
func EncodeG1Vector(v []bn254.G1Affine) []byte {
	size := g1PointSize()
	buf := make([]byte, 8, 8+len(v)*size)
	binary.LittleEndian.PutUint64(buf, uint64(len(v)))
	for i := range v {
		b := v[i].Bytes()
		buf = append(buf, b[:]...)
	}
	return buf
}

// DecodeG1Vector is EncodeG1Vector's inverse.
func DecodeG1Vector(data []byte) ([]bn254.G1Affine, error) {
	n, rest, err := readLenPrefix(data)
	if err != nil {
		return nil, err
	}
	size := uint64(g1PointSize())
	if uint64(len(rest)) != n*size {
		return nil, ErrTruncated
	}
	out := make([]bn254.G1Affine, n)
	for i := range out {
		if _, err := out[i].SetBytes(rest[uint64(i)*size:]); err != nil {
			return nil, fmt.Errorf("wire: decoding G1 point %d: %w", i, err)
		}
	}
	return out, nil
}

// EncodeG2Vector writes a u64-LE length prefix followed by each point's
// canonical compressed encoding.
func EncodeG2Vector(v []bn254.G2Affine) []byte {
	size := g2PointSize()
	buf := make([]byte, 8, 8+len(v)*size)
	binary.LittleEndian.PutUint64(buf, uint64(len(v)))
	for i := range v {
		b := v[i].Bytes()
		buf = append(buf, b[:]...)
	}
	return buf
}

// DecodeG2Vector is EncodeG2Vector's inverse.
func DecodeG2Vector(data []byte) ([]bn254.G2Affine, error) {
	n, rest, err := readLenPrefix(data)
	if err != nil {
		return nil, err
	}
	size := uint64(g2PointSize())
	if uint64(len(rest)) != n*size {
		return nil, ErrTruncated
	}
	out := make([]bn254.G2Affine, n)
	for i := range out {
		if _, err := out[i].SetBytes(rest[uint64(i)*size:]); err != nil {
			return nil, fmt.Errorf("wire: decoding G2 point %d: %w", i, err)
		}
	}
	return out, nil
}

// EncodeG1Point encodes a single G1 point, with no length prefix.
func EncodeG1Point(p bn254.G1Affine) []byte {
	b := p.Bytes()
	return b[:]
}

// DecodeG1Point decodes a single G1 point.
func DecodeG1Point(data []byte) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	if _, err := p.SetBytes(data); err != nil {
		return p, fmt.Errorf("wire: decoding G1 point: %w", err)
	}
	return p, nil
}

// EncodeG2Point encodes a single G2 point, with no length prefix.
func EncodeG2Point(p bn254.G2Affine) []byte {
	b := p.Bytes()
	return b[:]
}

// DecodeG2Point decodes a single G2 point.
func DecodeG2Point(data []byte) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	if _, err := p.SetBytes(data); err != nil {
		return p, fmt.Errorf("wire: decoding G2 point: %w", err)
	}
	return p, nil
}

func readLenPrefix(data []byte) (uint64, []byte, error) {
	if len(data) < 8 {
		return 0, nil, ErrTruncated
	}
	n := binary.LittleEndian.Uint64(data[:8])
	if n > MaxVecLen {
		return 0, nil, fmt.Errorf("%w: %d", ErrOversizeVector, n)
	}
	return n, data[8:], nil
}

func g1PointSize() int {
	var p bn254.G1Affine
	b := p.Bytes()
	return len(b)
}

func g2PointSize() int {
	var p bn254.G2Affine
	b := p.Bytes()
	return len(b)
}

// Envelope is the outer frame around every request: a session identifier
// plus an opaque, already-encoded inner message.
type Envelope struct {
	SessionID string `cbor:"session_id"`
	Request   []byte `cbor:"request"`
}

// SetupRequest carries the five generator vectors a session is keyed by.
type SetupRequest struct {
	HGenerators   []byte `cbor:"h_generators"`
	LGenerators   []byte `cbor:"l_generators"`
	AGenerators   []byte `cbor:"a_generators"`
	BG1Generators []byte `cbor:"b_g1_generators"`
	BG2Generators []byte `cbor:"b_g2_generators"`
}

// ProveRequest carries the five masked scalar vectors for one prove call.
type ProveRequest struct {
	VH   []byte `cbor:"v_h"`
	VL   []byte `cbor:"v_l"`
	VA   []byte `cbor:"v_a"`
	VBG1 []byte `cbor:"v_b_g1"`
	VBG2 []byte `cbor:"v_b_g2"`
}

// ProveResponse carries the five single-element MSM results.
type ProveResponse struct {
	EmH   []byte `cbor:"em_h"`
	EmL   []byte `cbor:"em_l"`
	EmA   []byte `cbor:"em_a"`
	EmBG1 []byte `cbor:"em_b_g1"`
	EmBG2 []byte `cbor:"em_b_g2"`
}

// EncodeEnvelope / DecodeEnvelope, and their counterparts below, are thin
// CBOR marshal/unmarshal wrappers kept in one place so the framing format
// can be swapped without touching call sites.

func EncodeEnvelope(e *Envelope) ([]byte, error) { return cbor.Marshal(e) }
func DecodeEnvelope(data []byte, e *Envelope) error {
	return cbor.Unmarshal(data, e)
}

func EncodeSetupRequest(r *SetupRequest) ([]byte, error) { return cbor.Marshal(r) }
func DecodeSetupRequest(data []byte, r *SetupRequest) error {
	return cbor.Unmarshal(data, r)
}

func EncodeProveRequest(r *ProveRequest) ([]byte, error) { return cbor.Marshal(r) }
func DecodeProveRequest(data []byte, r *ProveRequest) error {
	return cbor.Unmarshal(data, r)
}

func EncodeProveResponse(r *ProveResponse) ([]byte, error) { return cbor.Marshal(r) }
func DecodeProveResponse(data []byte, r *ProveResponse) error {
	return cbor.Unmarshal(data, r)
}
