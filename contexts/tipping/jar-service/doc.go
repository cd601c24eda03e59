// Package jarservice covers the tipping side of tipdrop: jar deposits, a
// cached on-chain jar balance, the public tip feed, and per-handle
// unclaimed totals.
package jarservice
