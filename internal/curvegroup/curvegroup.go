// Package curvegroup adapts a concrete elliptic curve group (BN254 G1 or G2)
// to the EMSM/Pedersen/RAA-transpose code, which is written once and
// instantiated twice. gnark-crypto deliberately does not share a method set
// between G1 and G2 (each curve package duplicates its own types), so rather
// than duplicate EMSM/Pedersen/RAA-transpose for each group, this package
// injects a small vtable of closures — the "capability interface" shape —
// over generic Jacobian (J) and Affine (A) type parameters.
package curvegroup

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// GroupOps bundles the operations EMSM needs from a curve group, independent
// of whether the concrete group is G1 or G2.
type GroupOps[J any, A any] struct {
	Add         func(a, b J) J
	Neg         func(a J) J
	ToAffine    func(a J) A
	FromAffine  func(a A) J
	ScalarMul   func(base A, s fr.Element) J
	MultiExp    func(bases []A, scalars []fr.Element) (J, error)
	AffineEqual func(a, b A) bool
}

// Sub returns a - b.
func (o GroupOps[J, A]) Sub(a, b J) J {
	return o.Add(a, o.Neg(b))
}

// Equal compares two Jacobian points for equality by normalizing to affine.
func (o GroupOps[J, A]) Equal(a, b J) bool {
	return o.AffineEqual(o.ToAffine(a), o.ToAffine(b))
}

// G1 returns the GroupOps instance for BN254's G1.
func G1() GroupOps[bn254.G1Jac, bn254.G1Affine] {
	return GroupOps[bn254.G1Jac, bn254.G1Affine]{
		Add: func(a, b bn254.G1Jac) bn254.G1Jac {
			var r bn254.G1Jac
			r.Set(&a)
			r.AddAssign(&b)
			return r
		},
		Neg: func(a bn254.G1Jac) bn254.G1Jac {
			var r bn254.G1Jac
			r.Neg(&a)
			return r
		},
		ToAffine: func(a bn254.G1Jac) bn254.G1Affine {
			var r bn254.G1Affine
			r.FromJacobian(&a)
			return r
		},
		FromAffine: func(a bn254.G1Affine) bn254.G1Jac {
			var r bn254.G1Jac
			r.FromAffine(&a)
			return r
		},
		ScalarMul: func(base bn254.G1Affine, s fr.Element) bn254.G1Jac {
			var r bn254.G1Jac
			var sBig big.Int
			s.BigInt(&sBig)
			r.ScalarMultiplication(&base, &sBig)
			return r
		},
		MultiExp: func(bases []bn254.G1Affine, scalars []fr.Element) (bn254.G1Jac, error) {
			var r bn254.G1Jac
			if _, err := r.MultiExp(bases, scalars, ecc.MultiExpConfig{}); err != nil {
				var zero bn254.G1Jac
				return zero, err
			}
			return r, nil
		},
		AffineEqual: func(a, b bn254.G1Affine) bool {
			return a.Equal(&b)
		},
	}
}

// G2 returns the GroupOps instance for BN254's G2.
func G2() GroupOps[bn254.G2Jac, bn254.G2Affine] {
	return GroupOps[bn254.G2Jac, bn254.G2Affine]{
		Add: func(a, b bn254.G2Jac) bn254.G2Jac {
			var r bn254.G2Jac
			r.Set(&a)
			r.AddAssign(&b)
			return r
		},
		Neg: func(a bn254.G2Jac) bn254.G2Jac {
			var r bn254.G2Jac
			r.Neg(&a)
			return r
		},
		ToAffine: func(a bn254.G2Jac) bn254.G2Affine {
			var r bn254.G2Affine
			r.FromJacobian(&a)
			return r
		},
		FromAffine: func(a bn254.G2Affine) bn254.G2Jac {
			var r bn254.G2Jac
			r.FromAffine(&a)
			return r
		},
		ScalarMul: func(base bn254.G2Affine, s fr.Element) bn254.G2Jac {
			var r bn254.G2Jac
			var sBig big.Int
			s.BigInt(&sBig)
			r.ScalarMultiplication(&base, &sBig)
			return r
		},
		MultiExp: func(bases []bn254.G2Affine, scalars []fr.Element) (bn254.G2Jac, error) {
			var r bn254.G2Jac
			if _, err := r.MultiExp(bases, scalars, ecc.MultiExpConfig{}); err != nil {
				var zero bn254.G2Jac
				return zero, err
			}
			return r, nil
		},
		AffineEqual: func(a, b bn254.G2Affine) bool {
			return a.Equal(&b)
		},
	}
}
