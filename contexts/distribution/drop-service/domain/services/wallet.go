package services

import "strings"

// IsWalletAddress accepts 0x-prefixed 40-hex-digit EVM addresses.
func IsWalletAddress(address string) bool {
	address = strings.TrimSpace(address)
	if len(address) != 42 || !strings.HasPrefix(address, "0x") {
		return false
	}
	for _, ch := range address[2:] {
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'f':
		case ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}

// NormalizeWhitelist lowercases, trims, dedupes, and drops malformed
// entries, preserving first-seen order.
func NormalizeWhitelist(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	normalized := make([]string, 0, len(raw))
	for _, entry := range raw {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if !IsWalletAddress(entry) {
			continue
		}
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		normalized = append(normalized, entry)
	}
	return normalized
}
