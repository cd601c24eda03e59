package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"tipdrop/contexts/distribution/drop-service/domain/entities"
	"tipdrop/contexts/distribution/drop-service/ports"
)

// MintCall holds the arguments of one settlement invocation.
type MintCall struct {
	Token      entities.TokenKind
	Amount     decimal.Decimal
	AmountAVAX decimal.Decimal
	AmountUSDC decimal.Decimal
	Recipients int
}

// Settlement is a deterministic settlement fake for tests and local runtime.
// Drop ids look like the bytes32 identifiers the contract assigns.
type Settlement struct {
	mu       sync.Mutex
	sequence int
	lastMint MintCall

	// FailNext, when set, is returned by the next mint call and cleared.
	FailNext error
	// Mints counts settlement invocations.
	Mints int
}

func NewSettlement() *Settlement {
	return &Settlement{}
}

func (s *Settlement) CreateDrop(_ context.Context, token entities.TokenKind, amount decimal.Decimal, recipients int) (string, error) {
	return s.mint(MintCall{Token: token, Amount: amount, Recipients: recipients})
}

func (s *Settlement) CreateDualDrop(_ context.Context, avaxAmount, usdcAmount decimal.Decimal, recipients int) (string, error) {
	return s.mint(MintCall{Token: entities.TokenDual, AmountAVAX: avaxAmount, AmountUSDC: usdcAmount, Recipients: recipients})
}

// LastMint reports the arguments of the most recent mint.
func (s *Settlement) LastMint() MintCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMint
}

func (s *Settlement) mint(call MintCall) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Mints++
	s.lastMint = call
	if s.FailNext != nil {
		err := s.FailNext
		s.FailNext = nil
		return "", err
	}
	s.sequence++
	return fmt.Sprintf("0x%064x", s.sequence), nil
}

var _ ports.Settlement = (*Settlement)(nil)
