package memory

import (
	"context"
	"fmt"
	"sync"
)

// Settlement is a fake settlement layer. It hands out deterministic tx
// hashes and can be primed to fail, so tests can observe that rejected
// pre-checks never reach it.
type Settlement struct {
	mu       sync.Mutex
	calls    int
	nextErr  error
	sequence uint64
}

func NewSettlement() *Settlement {
	return &Settlement{}
}

// FailNext makes the next Claim call return err.
func (s *Settlement) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextErr = err
}

func (s *Settlement) Claim(_ context.Context, dropID, walletAddress string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.nextErr != nil {
		err := s.nextErr
		s.nextErr = nil
		return "", err
	}
	s.sequence++
	return fmt.Sprintf("0x%064x", s.sequence), nil
}

// Calls reports how many times settlement was invoked.
func (s *Settlement) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
