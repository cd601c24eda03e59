package entities

import (
	"strings"
	"time"
)

// Claim is one completed, settled claim. Rows are written exactly once and
// never mutated; the settlement reference is the external transaction hash.
type Claim struct {
	DropID        string
	WalletAddress string
	TxHash        string
	ClaimedAt     time.Time
}

func NewClaim(dropID, walletAddress, txHash string, claimedAt time.Time) Claim {
	return Claim{
		DropID:        strings.TrimSpace(dropID),
		WalletAddress: strings.ToLower(strings.TrimSpace(walletAddress)),
		TxHash:        strings.TrimSpace(txHash),
		ClaimedAt:     claimedAt.UTC(),
	}
}
