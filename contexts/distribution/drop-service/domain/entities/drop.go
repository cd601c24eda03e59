package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TokenKind string

const (
	TokenAVAX TokenKind = "AVAX"
	TokenUSDC TokenKind = "USDC"
	TokenDual TokenKind = "DUAL"
)

// Drop is one distribution event. The drop id is assigned by the settlement
// layer at mint time and is never generated locally; everything else is
// registry bookkeeping around that authoritative identifier.
type Drop struct {
	DropID        string
	ShortCode     string
	Token         TokenKind
	Amount        decimal.Decimal
	AmountAVAX    decimal.Decimal
	AmountUSDC    decimal.Decimal
	Capacity      int
	Whitelist     []string
	CreatorWallet string
	TwitterHandle string
	ClaimURL      string
	ClaimsCount   int
	CreatedAt     time.Time
}

func (d Drop) HasWhitelist() bool {
	return len(d.Whitelist) > 0
}

// IsWhitelisted is a case-insensitive membership test.
func (d Drop) IsWhitelisted(wallet string) bool {
	wallet = strings.ToLower(strings.TrimSpace(wallet))
	for _, member := range d.Whitelist {
		if strings.ToLower(member) == wallet {
			return true
		}
	}
	return false
}
