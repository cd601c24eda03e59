package httptransport

type CreateDropRequest struct {
	Token         string   `json:"token"`
	Amount        string   `json:"amount,omitempty"`
	AmountAVAX    string   `json:"amount_avax,omitempty"`
	AmountUSDC    string   `json:"amount_usdc,omitempty"`
	Recipients    int      `json:"recipients,omitempty"`
	Whitelist     []string `json:"whitelist,omitempty"`
	CreatorWallet string   `json:"creator_wallet"`
	TwitterHandle string   `json:"twitter_handle,omitempty"`
}

type RecoverDropRequest struct {
	DropID string `json:"drop_id"`
	CreateDropRequest
}

type DropDTO struct {
	DropID        string   `json:"drop_id"`
	ShortCode     string   `json:"short_code"`
	Token         string   `json:"token"`
	Amount        string   `json:"amount,omitempty"`
	AmountAVAX    string   `json:"amount_avax,omitempty"`
	AmountUSDC    string   `json:"amount_usdc,omitempty"`
	Capacity      int      `json:"capacity"`
	Whitelist     []string `json:"whitelist,omitempty"`
	CreatorWallet string   `json:"creator_wallet"`
	TwitterHandle string   `json:"twitter_handle,omitempty"`
	ClaimURL      string   `json:"claim_url"`
	ClaimsCount   int      `json:"claims_count"`
	CreatedAt     string   `json:"created_at"`
}

type CreateDropResponse struct {
	Drop DropDTO `json:"drop"`
}

type GetDropResponse struct {
	Drop DropDTO `json:"drop"`
}

type ResolveShortCodeResponse struct {
	DropID   string `json:"drop_id"`
	ClaimURL string `json:"claim_url"`
}

type ListDropsResponse struct {
	Items []DropDTO `json:"items"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// MintedDropID is set on registry-write failures so callers can recover
	// against the already-minted drop id.
	MintedDropID string `json:"minted_drop_id,omitempty"`
}
