package httptransport

type DepositRequest struct {
	WalletAddress string `json:"wallet_address"`
	Amount        string `json:"amount"`
}

type DepositResponse struct {
	TxHash  string        `json:"tx_hash"`
	Balance JarBalanceDTO `json:"balance"`
}

type JarBalanceDTO struct {
	WalletAddress string `json:"wallet_address"`
	Balance       string `json:"balance"`
	RefreshedAt   string `json:"refreshed_at"`
}

type GetBalanceResponse struct {
	Balance JarBalanceDTO `json:"balance"`
}

type RecordTipRequest struct {
	AuthorHandle string `json:"author_handle"`
	TweetID      string `json:"tweet_id,omitempty"`
	SenderWallet string `json:"sender_wallet"`
	Amount       string `json:"amount"`
	Token        string `json:"token"`
}

type TipDTO struct {
	TipID           string `json:"tip_id"`
	AuthorHandle    string `json:"author_handle"`
	TweetID         string `json:"tweet_id,omitempty"`
	SenderWallet    string `json:"sender_wallet"`
	SenderHandle    string `json:"sender_handle,omitempty"`
	SenderAvatarURL string `json:"sender_avatar_url,omitempty"`
	Amount          string `json:"amount"`
	Token           string `json:"token"`
	Claimed         bool   `json:"claimed"`
	CreatedAt       string `json:"created_at"`
}

type RecordTipResponse struct {
	Tip TipDTO `json:"tip"`
}

type TipFeedResponse struct {
	Items []TipDTO `json:"items"`
}

type UnclaimedTotalsResponse struct {
	AuthorHandle  string `json:"author_handle"`
	UnclaimedAVAX string `json:"unclaimed_avax"`
	UnclaimedUSDC string `json:"unclaimed_usdc"`
}

type UpsertWalletRequest struct {
	WalletAddress string `json:"wallet_address"`
	TwitterHandle string `json:"twitter_handle,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
}

type UpsertWalletResponse struct {
	WalletAddress string `json:"wallet_address"`
	TwitterHandle string `json:"twitter_handle,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	UpdatedAt     string `json:"updated_at"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
