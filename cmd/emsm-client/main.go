package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/RajeshRk18/stealthsnark/circuit"
	"github.com/RajeshRk18/stealthsnark/internal/client"
	"github.com/RajeshRk18/stealthsnark/internal/groth16aided"
)

func check(e error) {
	if e != nil {
		panic(e)
	}
}

// newSessionID generates a random 16-hex-digit session id.
func newSessionID() string {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	check(err)
	return fmt.Sprintf("%016x", binary.BigEndian.Uint64(buf[:]))
}

func main() {
	serverURL := flag.String("server", "http://localhost:3000", "emsm-server base URL")
	sessionID := flag.String("session", "", "session id to register with the server (default: random 16-hex-digit id)")
	malicious := flag.Bool("malicious", false, "use the double-query malicious-secure protocol variant")
	x := flag.Int64("x", 3, "secret witness x for x^3 + x + 5 = y")
	flag.Parse()

	if *sessionID == "" {
		*sessionID = newSessionID()
	}

	xv := *x
	y := xv*xv*xv + xv + 5
	assignment := &circuit.CubeCircuit{X: xv, Y: y}

	fmt.Printf("compiling circuit and running trusted setup (malicious=%v)\n", *malicious)
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit.CubeCircuit{})
	check(err)

	key, err := groth16aided.Setup(ccs, rand.Reader)
	check(err)

	fmt.Printf("session id: %s\n", *sessionID)
	orch := client.New(key, *serverURL, *sessionID, *malicious)

	ctx := context.Background()
	fmt.Println("registering session bases with server")
	check(orch.SendSetup(ctx))

	fmt.Println("delegating MSMs and proving")
	start := time.Now()
	proof, err := orch.Prove(ctx, assignment)
	check(err)
	fmt.Printf("proof assembled and verified in %s\n", time.Since(start))
	fmt.Printf("proof: Ar=%s\n", proof.Ar.String())
}
