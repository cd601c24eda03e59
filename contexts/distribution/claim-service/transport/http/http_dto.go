package httptransport

type AttemptClaimRequest struct {
	WalletAddress string `json:"wallet_address"`
}

type ClaimDTO struct {
	DropID        string `json:"drop_id"`
	WalletAddress string `json:"wallet_address"`
	TxHash        string `json:"tx_hash"`
	ClaimedAt     string `json:"claimed_at"`
}

type AttemptClaimResponse struct {
	Status     string    `json:"status"`
	Claim      *ClaimDTO `json:"claim,omitempty"`
	Capacity   int       `json:"capacity"`
	ClaimCount int       `json:"claim_count"`
	// Reason is set for settlement_failed so the caller can decide whether
	// to retry.
	Reason string `json:"reason,omitempty"`
}

type EligibilityResponse struct {
	Status     string    `json:"status"`
	Capacity   int       `json:"capacity"`
	ClaimCount int       `json:"claim_count"`
	Claim      *ClaimDTO `json:"claim,omitempty"`
}

type ListClaimsResponse struct {
	Items []ClaimDTO `json:"items"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
