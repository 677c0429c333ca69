// Package qapadapter bridges gnark's R1CS solver to the EMSM layer. gnark
// does not export the QAP quotient ("H polynomial") computation its own
// Groth16 prover performs internally, so this package reconstructs it from
// the solver's exported intermediate values (solution A/B/C wire
// evaluations) using the same FFT domain the proving key was built with.
// It also reconstructs full-length, index-aligned proving-key query arrays:
// gnark's concrete bn254 proving key elides points at infinity from its A/B
// query arrays for MSM efficiency, which breaks the simple num_pub-offset
// slicing the EMSM layer expects.
package qapadapter

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	"github.com/consensys/gnark/backend/witness"
	csbn254 "github.com/consensys/gnark/constraint/bn254"
	"github.com/consensys/gnark/frontend"
)

// Solution is a solved R1CS: the complete variable assignment (instance
// variables first, including the implicit constant-one variable at index 0,
// followed by witness/secret variables) plus the QAP quotient polynomial
// coefficients.
type Solution struct {
	FullAssignment       []fr.Element
	NumInstanceVariables int
	HPoly                []fr.Element
}

// Solve runs the R1CS solver against a fully-assigned circuit and derives
// the QAP quotient relative to domain (normally the proving key's own
// fft.Domain, so the quotient is taken relative to the same evaluation
// points used at setup).
func Solve(ccs *csbn254.R1CS, domain *fft.Domain, assignment frontend.Circuit) (*Solution, error) {
	fullWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("qapadapter: building witness: %w", err)
	}

	raw, err := ccs.Solve(fullWitness)
	if err != nil {
		return nil, fmt.Errorf("qapadapter: solving constraint system: %w", err)
	}

	sol, ok := raw.(*csbn254.R1CSSolution)
	if !ok {
		return nil, fmt.Errorf("qapadapter: unexpected solution type %T", raw)
	}

	full := append([]fr.Element(nil), []fr.Element(sol.W)...)
	a := append([]fr.Element(nil), []fr.Element(sol.A)...)
	b := append([]fr.Element(nil), []fr.Element(sol.B)...)
	c := append([]fr.Element(nil), []fr.Element(sol.C)...)

	h := computeH(a, b, c, domain)

	return &Solution{
		FullAssignment:       full,
		NumInstanceVariables: ccs.GetNbPublicVariables(),
		HPoly:                h,
	}, nil
}

// computeH evaluates the QAP quotient H = (A*B - C) / Z on domain's coset,
// mirroring the construction gnark's own backend/groth16/bn254 Prove
// performs internally (observed via a GPU-offload fork that accesses the
// same exported fft.Domain API).
func computeH(a, b, c []fr.Element, domain *fft.Domain) []fr.Element {
	n := int(domain.Cardinality)
	a = padTo(a, n)
	b = padTo(b, n)
	c = padTo(c, n)

	domain.FFTInverse(a, fft.DIF)
	domain.FFTInverse(b, fft.DIF)
	domain.FFTInverse(c, fft.DIF)

	domain.FFT(a, fft.DIT, fft.OnCoset())
	domain.FFT(b, fft.DIT, fft.OnCoset())
	domain.FFT(c, fft.DIT, fft.OnCoset())

	var den, one fr.Element
	one.SetOne()
	den.Exp(domain.FrMultiplicativeGen, big.NewInt(int64(n)))
	den.Sub(&den, &one)
	den.Inverse(&den)

	h := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		h[i].Mul(&a[i], &b[i])
		h[i].Sub(&h[i], &c[i])
		h[i].Mul(&h[i], &den)
	}

	domain.FFTInverse(h, fft.DIF, fft.OnCoset())
	fft.BitReverse(h)

	return h
}

func padTo(v []fr.Element, n int) []fr.Element {
	if len(v) >= n {
		return v[:n]
	}
	out := make([]fr.Element, n)
	copy(out, v)
	return out
}

// ReconstructG1Query reinserts the G1 identity at positions flagged in
// infinity, turning a compact (infinity-elided) query array back into a
// full-length array indexed by variable index.
func ReconstructG1Query(compact []bn254.G1Affine, infinity []bool) []bn254.G1Affine {
	full := make([]bn254.G1Affine, len(infinity))
	j := 0
	for i, inf := range infinity {
		if inf {
			continue
		}
		full[i] = compact[j]
		j++
	}
	return full
}

// ReconstructG2Query is ReconstructG1Query's G2 counterpart.
func ReconstructG2Query(compact []bn254.G2Affine, infinity []bool) []bn254.G2Affine {
	full := make([]bn254.G2Affine, len(infinity))
	j := 0
	for i, inf := range infinity {
		if inf {
			continue
		}
		full[i] = compact[j]
		j++
	}
	return full
}

// WitnessPublic extracts the public-input slice (excluding the implicit
// constant-one variable) a verifier would see, for assembling a
// frontend.Witness to pass to groth16.Verify.
func WitnessPublic(assignment frontend.Circuit) (witness.Witness, error) {
	full, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return nil, fmt.Errorf("qapadapter: building public witness: %w", err)
	}
	return full, nil
}
