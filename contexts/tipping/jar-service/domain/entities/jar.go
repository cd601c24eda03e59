package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// JarBalance is the cached on-chain jar balance for one wallet. The chain
// is the source of truth; RefreshedAt marks when the cache last caught up.
type JarBalance struct {
	WalletAddress string
	Balance       decimal.Decimal
	RefreshedAt   time.Time
}
