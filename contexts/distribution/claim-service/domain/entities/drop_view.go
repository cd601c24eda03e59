package entities

import "strings"

// DropView is the read-only slice of drop state the gate needs. The drop
// registry owns the full record; this module never writes drops.
type DropView struct {
	DropID    string
	Capacity  int
	Whitelist []string
}

func (d DropView) HasWhitelist() bool {
	return len(d.Whitelist) > 0
}

func (d DropView) IsWhitelisted(wallet string) bool {
	wallet = strings.ToLower(strings.TrimSpace(wallet))
	for _, member := range d.Whitelist {
		if strings.ToLower(member) == wallet {
			return true
		}
	}
	return false
}
