package groth16aided

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ServerEvaluate is the untrusted side of the protocol: five independent
// Pedersen MSMs, one per EMSM slot, run concurrently in an errgroup. The
// first error is returned once all five have finished; a failure does not
// stop the other MSMs.
func (sapk *ServerAidedProvingKey) ServerEvaluate(ctx context.Context, req *EncryptedRequest) (*ServerResponse, error) {
	g, _ := errgroup.WithContext(ctx)
	resp := &ServerResponse{}

	g.Go(func() error {
		var err error
		resp.EmH, err = sapk.EmsmH.ServerComputation(req.VH)
		return err
	})
	g.Go(func() error {
		var err error
		resp.EmL, err = sapk.EmsmL.ServerComputation(req.VL)
		return err
	})
	g.Go(func() error {
		var err error
		resp.EmA, err = sapk.EmsmA.ServerComputation(req.VA)
		return err
	})
	g.Go(func() error {
		var err error
		resp.EmBG1, err = sapk.EmsmBG1.ServerComputation(req.VBG1)
		return err
	})
	g.Go(func() error {
		var err error
		resp.EmBG2, err = sapk.EmsmBG2.ServerComputation(req.VBG2)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}
