package services

import (
	"crypto/rand"
	"fmt"
)

const (
	// Alphabet and base length match the shareable codes the product ships.
	ShortCodeAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	ShortCodeBaseLength = 5
	ShortCodeMaxLength  = 8
)

// RandomShortCode draws length characters from the short-code alphabet.
// Uniqueness against the registry is the coordinator's job, not ours.
func RandomShortCode(length int) (string, error) {
	if length <= 0 {
		length = ShortCodeBaseLength
	}
	// Bytes at or above the largest multiple of the alphabet size are
	// rejected so every character is drawn uniformly.
	limit := 256 - 256%len(ShortCodeAlphabet)
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, ShortCodeAlphabet[int(b)%len(ShortCodeAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
