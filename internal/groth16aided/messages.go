package groth16aided

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog/log"

	"github.com/RajeshRk18/stealthsnark/internal/duallpn"
)

// EncryptedRequest is the five masked vectors sent to the server in a single
// honest-mode (or one side of a malicious-mode) prove request.
type EncryptedRequest struct {
	VH, VL, VA, VBG1, VBG2 []fr.Element
}

// ServerResponse is the five MSM results the server returns.
type ServerResponse struct {
	EmH, EmL, EmA, EmBG1 bn254.G1Jac
	EmBG2                bn254.G2Jac
}

// ClientDecryptionState holds everything the client needs to decrypt a
// ServerResponse into a Groth16 proof.
type ClientDecryptionState struct {
	R, S fr.Element

	LPNH, LPNL, LPNA, LPNBG1, LPNBG2 *duallpn.Instance

	NumInstanceVariables int
	FullAssignment       []fr.Element
}

// padOrTrim adjusts v to exactly targetLen, truncating or zero-extending as
// needed. A mismatch between the scalar vector and the slot's generator count
// (both taken from the client's own key and solution) is logged as a warning
// rather than rejected.
func padOrTrim(v []fr.Element, targetLen int) []fr.Element {
	if len(v) == targetLen {
		return v
	}
	log.Warn().Int("have", len(v)).Int("want", targetLen).Msg("groth16aided: pad_or_trim adjusting vector length")
	if len(v) > targetLen {
		return v[:targetLen]
	}
	out := make([]fr.Element, targetLen)
	copy(out, v)
	return out
}
