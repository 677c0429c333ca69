// Package transport wires the EMSM-aided Groth16 protocol onto HTTP: a
// setup call that registers a session's generator bases, and a prove call
// that runs the server's Pedersen MSMs against a previously registered
// session.
package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/RajeshRk18/stealthsnark/internal/curvegroup"
	"github.com/RajeshRk18/stealthsnark/internal/pedersen"
	"github.com/RajeshRk18/stealthsnark/internal/session"
	"github.com/RajeshRk18/stealthsnark/internal/wire"
)

// Server is the untrusted-server side of the protocol: it holds no secret
// state, only the generator bases each session was set up with.
type Server struct {
	sessions *session.Store
}

// NewServer returns an empty Server.
func NewServer() *Server {
	return &Server{sessions: session.NewStore()}
}

// Handler returns the server's http.Handler, routed with Go 1.22+
// method-pattern ServeMux patterns.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("POST /setup", s.handleSetup)
	mux.HandleFunc("POST /prove", s.handleProve)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	body, err := readAll(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body", err)
		return
	}

	var env wire.Envelope
	if err := wire.DecodeEnvelope(body, &env); err != nil {
		writeError(w, http.StatusBadRequest, "decoding envelope", err)
		return
	}

	var req wire.SetupRequest
	if err := wire.DecodeSetupRequest(env.Request, &req); err != nil {
		writeError(w, http.StatusBadRequest, "decoding setup request", err)
		return
	}

	bases, err := decodeBases(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "decoding generator bases", err)
		return
	}

	s.sessions.Put(env.SessionID, bases)
	log.Info().Str("session_id", env.SessionID).Msg("transport: session registered")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleProve(w http.ResponseWriter, r *http.Request) {
	body, err := readAll(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body", err)
		return
	}

	var env wire.Envelope
	if err := wire.DecodeEnvelope(body, &env); err != nil {
		writeError(w, http.StatusBadRequest, "decoding envelope", err)
		return
	}

	bases, err := s.sessions.Get(env.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrUnknownSession) {
			writeError(w, http.StatusPreconditionFailed, "unknown session", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "looking up session", err)
		return
	}

	var req wire.ProveRequest
	if err := wire.DecodeProveRequest(env.Request, &req); err != nil {
		writeError(w, http.StatusBadRequest, "decoding prove request", err)
		return
	}

	resp, err := computeResponse(bases, &req)
	if err != nil {
		// Everything computeResponse can fail on — malformed scalar vectors,
		// a length mismatch against the registered generator bases, or a
		// MultiExp-internal failure — is a client-caused 400, never a 500.
		writeError(w, http.StatusBadRequest, "computing MSMs", err)
		return
	}

	payload, err := wire.EncodeProveResponse(resp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding response", err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func decodeBases(req *wire.SetupRequest) (*session.Bases, error) {
	h, err := wire.DecodeG1Vector(req.HGenerators)
	if err != nil {
		return nil, fmt.Errorf("H generators: %w", err)
	}
	l, err := wire.DecodeG1Vector(req.LGenerators)
	if err != nil {
		return nil, fmt.Errorf("L generators: %w", err)
	}
	a, err := wire.DecodeG1Vector(req.AGenerators)
	if err != nil {
		return nil, fmt.Errorf("A generators: %w", err)
	}
	bg1, err := wire.DecodeG1Vector(req.BG1Generators)
	if err != nil {
		return nil, fmt.Errorf("B_G1 generators: %w", err)
	}
	bg2, err := wire.DecodeG2Vector(req.BG2Generators)
	if err != nil {
		return nil, fmt.Errorf("B_G2 generators: %w", err)
	}
	return &session.Bases{H: h, L: l, A: a, BG1: bg1, BG2: bg2}, nil
}

func computeResponse(bases *session.Bases, req *wire.ProveRequest) (*wire.ProveResponse, error) {
	g1ops := curvegroup.G1()
	g2ops := curvegroup.G2()

	vH, err := wire.DecodeScalarVector(req.VH)
	if err != nil {
		return nil, fmt.Errorf("v_h: %w", err)
	}
	vL, err := wire.DecodeScalarVector(req.VL)
	if err != nil {
		return nil, fmt.Errorf("v_l: %w", err)
	}
	vA, err := wire.DecodeScalarVector(req.VA)
	if err != nil {
		return nil, fmt.Errorf("v_a: %w", err)
	}
	vBG1, err := wire.DecodeScalarVector(req.VBG1)
	if err != nil {
		return nil, fmt.Errorf("v_b_g1: %w", err)
	}
	vBG2, err := wire.DecodeScalarVector(req.VBG2)
	if err != nil {
		return nil, fmt.Errorf("v_b_g2: %w", err)
	}

	emH, err := pedersen.New(bases.H, g1ops).Commit(vH)
	if err != nil {
		return nil, fmt.Errorf("H msm: %w", err)
	}
	emL, err := pedersen.New(bases.L, g1ops).Commit(vL)
	if err != nil {
		return nil, fmt.Errorf("L msm: %w", err)
	}
	emA, err := pedersen.New(bases.A, g1ops).Commit(vA)
	if err != nil {
		return nil, fmt.Errorf("A msm: %w", err)
	}
	emBG1, err := pedersen.New(bases.BG1, g1ops).Commit(vBG1)
	if err != nil {
		return nil, fmt.Errorf("B_G1 msm: %w", err)
	}
	emBG2, err := pedersen.New(bases.BG2, g2ops).Commit(vBG2)
	if err != nil {
		return nil, fmt.Errorf("B_G2 msm: %w", err)
	}

	return &wire.ProveResponse{
		EmH:   wire.EncodeG1Point(g1ops.ToAffine(emH)),
		EmL:   wire.EncodeG1Point(g1ops.ToAffine(emL)),
		EmA:   wire.EncodeG1Point(g1ops.ToAffine(emA)),
		EmBG1: wire.EncodeG1Point(g1ops.ToAffine(emBG1)),
		EmBG2: wire.EncodeG2Point(g2ops.ToAffine(emBG2)),
	}, nil
}

func writeError(w http.ResponseWriter, status int, context string, err error) {
	log.Error().Err(err).Str("context", context).Msg("transport: request failed")
	http.Error(w, fmt.Sprintf("%s: %v", context, err), status)
}

func readAll(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}
