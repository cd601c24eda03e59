// Package claimservice gates claim attempts against drops. The local record
// store is a non-authoritative mirror: the pre-check is advisory, the
// settlement contract decides capacity, and the (drop_id, wallet_address)
// primary key is the only local exclusion enforced.
package claimservice
