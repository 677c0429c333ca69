// Package malicious implements the double-query consistency check: the
// witness and a random scalar multiple of it are encrypted and evaluated
// independently; on decrypt, the two results must be consistent with the
// challenge or the server is judged to have cheated.
package malicious

import (
	"errors"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/RajeshRk18/stealthsnark/internal/curvegroup"
	"github.com/RajeshRk18/stealthsnark/internal/duallpn"
	"github.com/RajeshRk18/stealthsnark/internal/emsm"
	"github.com/RajeshRk18/stealthsnark/internal/sparsevec"
)

// ErrConsistencyCheckFailed is returned by Decrypt when the server's two
// responses are inconsistent with the sampled challenge, meaning the server
// deviated from honest Pedersen evaluation on at least one query.
var ErrConsistencyCheckFailed = errors.New("malicious: consistency check failed")

// Encrypted is the pair of masked vectors sent to the server: the witness
// and challenge*witness, each under an independent Dual-LPN mask.
type Encrypted struct {
	Masked      []fr.Element
	MaskedCheck []fr.Element
}

// DecryptState holds everything the client needs to decrypt and verify a
// malicious-mode response.
type DecryptState struct {
	Challenge fr.Element
	LPN       *duallpn.Instance
	LPNCheck  *duallpn.Instance
}

// Encrypt samples a random challenge c, then independently EMSM-encrypts
// witness and c*witness.
func Encrypt[J any, A any](params *emsm.PublicParams[J, A], witness []fr.Element, rng io.Reader) (*Encrypted, *DecryptState, error) {
	challenge, err := sparsevec.RandomNonzero(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("malicious: sampling challenge: %w", err)
	}

	masked, lpn, err := emsm.Encrypt(params, witness, rng)
	if err != nil {
		return nil, nil, err
	}

	cWitness := make([]fr.Element, len(witness))
	for i := range witness {
		cWitness[i].Mul(&challenge, &witness[i])
	}
	maskedCheck, lpnCheck, err := emsm.Encrypt(params, cWitness, rng)
	if err != nil {
		return nil, nil, err
	}

	return &Encrypted{Masked: masked, MaskedCheck: maskedCheck}, &DecryptState{Challenge: challenge, LPN: lpn, LPNCheck: lpnCheck}, nil
}

// ServerEvaluate is the untrusted side: two independent Pedersen MSMs, one
// per query.
func ServerEvaluate[J any, A any](params *emsm.PublicParams[J, A], enc *Encrypted) (J, J, error) {
	em, err := params.ServerComputation(enc.Masked)
	if err != nil {
		var zero J
		return zero, zero, err
	}
	emCheck, err := params.ServerComputation(enc.MaskedCheck)
	if err != nil {
		var zero J
		return zero, zero, err
	}
	return em, emCheck, nil
}

// Decrypt recovers the true MSM result and verifies it against the checked
// query: dm_check must equal challenge * dm, or the server cheated on at
// least one of the two queries.
func Decrypt[J any, A any](serverResult, serverResultCheck J, state *DecryptState, pre *emsm.Preprocessed[J, A], ops curvegroup.GroupOps[J, A]) (J, error) {
	dm, err := emsm.Decrypt(serverResult, state.LPN, pre, ops)
	if err != nil {
		var zero J
		return zero, err
	}
	dmCheck, err := emsm.Decrypt(serverResultCheck, state.LPNCheck, pre, ops)
	if err != nil {
		var zero J
		return zero, err
	}

	expectedCheck := ops.ScalarMul(ops.ToAffine(dm), state.Challenge)
	if !ops.Equal(expectedCheck, dmCheck) {
		var zero J
		return zero, ErrConsistencyCheckFailed
	}
	return dm, nil
}
