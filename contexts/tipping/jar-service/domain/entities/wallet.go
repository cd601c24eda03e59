package entities

import "time"

// WalletProfile links a wallet address to a display handle and avatar.
type WalletProfile struct {
	WalletAddress string
	TwitterHandle string
	AvatarURL     string
	UpdatedAt     time.Time
}
