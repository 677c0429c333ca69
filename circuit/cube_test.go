package circuit_test

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	"github.com/RajeshRk18/stealthsnark/circuit"
)

func TestCubeCircuitCompiles(t *testing.T) {
	_, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit.CubeCircuit{})
	require.NoError(t, err)
}

func TestCubeCircuitValidAssignment(t *testing.T) {
	assert := test.NewAssert(t)
	assert.ProverSucceeded(&circuit.CubeCircuit{}, &circuit.CubeCircuit{X: 3, Y: 35},
		test.WithCurves(ecc.BN254))
}

func TestCubeCircuitInvalidAssignment(t *testing.T) {
	assert := test.NewAssert(t)
	assert.ProverFailed(&circuit.CubeCircuit{}, &circuit.CubeCircuit{X: 3, Y: 36},
		test.WithCurves(ecc.BN254))
}
