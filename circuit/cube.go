package circuit

import (
	"github.com/consensys/gnark/frontend"
)

// CubeCircuit proves knowledge of x such that x^3 + x + 5 = Y, for public Y.
type CubeCircuit struct {
	X frontend.Variable `gnark:",secret"`
	Y frontend.Variable `gnark:",public"`
}

func (c *CubeCircuit) Define(api frontend.API) error {
	x2 := api.Mul(c.X, c.X)
	x3 := api.Mul(x2, c.X)
	api.AssertIsEqual(c.Y, api.Add(x3, c.X, 5))
	return nil
}
