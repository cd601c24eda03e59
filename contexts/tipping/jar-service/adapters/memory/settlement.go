package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Settlement is a fake jar contract: deposits accumulate per wallet and
// JarBalance reads the accumulated total.
type Settlement struct {
	mu       sync.Mutex
	jars     map[string]decimal.Decimal
	nextErr  error
	sequence uint64
}

func NewSettlement() *Settlement {
	return &Settlement{jars: make(map[string]decimal.Decimal)}
}

// FailNext makes the next Deposit or JarBalance call return err.
func (s *Settlement) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextErr = err
}

func (s *Settlement) Deposit(_ context.Context, walletAddress string, amount decimal.Decimal) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextErr != nil {
		err := s.nextErr
		s.nextErr = nil
		return "", err
	}
	s.jars[walletAddress] = s.jars[walletAddress].Add(amount)
	s.sequence++
	return fmt.Sprintf("0x%064x", s.sequence), nil
}

func (s *Settlement) JarBalance(_ context.Context, walletAddress string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextErr != nil {
		err := s.nextErr
		s.nextErr = nil
		return decimal.Zero, err
	}
	return s.jars[walletAddress], nil
}

// SetBalance primes a wallet's on-chain balance, for tests.
func (s *Settlement) SetBalance(walletAddress string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jars[walletAddress] = amount
}
