package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type TokenKind string

const (
	TokenAVAX TokenKind = "AVAX"
	TokenUSDC TokenKind = "USDC"
)

// Tip is one recorded tip directed at a handle. Claimed flips once the
// amount has been paid out to the handle's wallet.
type Tip struct {
	TipID        string
	AuthorHandle string
	TweetID      string
	SenderWallet string
	Amount       decimal.Decimal
	Token        TokenKind
	Claimed      bool
	CreatedAt    time.Time
}

// TipFeedItem is a feed row: the tip plus the sender's profile, when one
// is registered.
type TipFeedItem struct {
	Tip             Tip
	SenderHandle    string
	SenderAvatarURL string
}

// UnclaimedTotals is the per-handle sum of unclaimed tips, split by token.
type UnclaimedTotals struct {
	AuthorHandle string
	AVAX         decimal.Decimal
	USDC         decimal.Decimal
}
