// Package session tracks the per-client generator bases a setup call binds,
// so a later prove call can look them up by session id without the client
// re-sending them.
package session

import (
	"errors"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// ErrUnknownSession is returned when a prove request names a session id the
// store has no bases for.
var ErrUnknownSession = errors.New("session: unknown session id")

// Bases holds the five generator vectors a session's Pedersen MSMs run
// against, keyed by EMSM slot.
type Bases struct {
	H   []bn254.G1Affine
	L   []bn254.G1Affine
	A   []bn254.G1Affine
	BG1 []bn254.G1Affine
	BG2 []bn254.G2Affine
}

// Store is a concurrency-safe map from session id to Bases.
type Store struct {
	mu   sync.RWMutex
	data map[string]*Bases
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{data: make(map[string]*Bases)}
}

// Put registers bases under a session id, replacing any existing entry.
func (s *Store) Put(sessionID string, bases *Bases) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = bases
}

// Get looks up a session's bases, or ErrUnknownSession if none exist.
func (s *Store) Get(sessionID string) (*Bases, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[sessionID]
	if !ok {
		return nil, ErrUnknownSession
	}
	return b, nil
}

// Delete removes a session, if present.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
}
