package services

import "strings"

// IsWalletAddress accepts 0x-prefixed 40-hex-digit addresses.
func IsWalletAddress(wallet string) bool {
	wallet = strings.TrimSpace(wallet)
	if len(wallet) != 42 || !strings.HasPrefix(wallet, "0x") {
		return false
	}
	for _, r := range wallet[2:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// NormalizeHandle strips a leading @ and lowercases the handle.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}
