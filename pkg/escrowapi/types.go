package escrowapi

// MakeOfferPayload is signed by the maker.
type MakeOfferPayload struct {
	ID                  uint64 `json:"id"`
	TokenMintA          string `json:"token_mint_a"`
	TokenMintB          string `json:"token_mint_b"`
	TokenAOfferedAmount uint64 `json:"token_a_offered_amount"`
	TokenBWantedAmount  uint64 `json:"token_b_wanted_amount"`
}

// TakeOfferPayload is signed by the taker. Empty token accounts and vault are
// derived by the daemon.
type TakeOfferPayload struct {
	OfferID            uint64 `json:"offer_id"`
	Maker              string `json:"maker"`
	TokenMintA         string `json:"token_mint_a"`
	TokenMintB         string `json:"token_mint_b"`
	TakerTokenAccountA string `json:"taker_token_account_a,omitempty"`
	TakerTokenAccountB string `json:"taker_token_account_b,omitempty"`
	MakerTokenAccountB string `json:"maker_token_account_b,omitempty"`
	Vault              string `json:"vault,omitempty"`
}

// RefundOfferPayload is signed by the maker.
type RefundOfferPayload struct {
	OfferID            uint64 `json:"offer_id"`
	TokenMintA         string `json:"token_mint_a"`
	MakerTokenAccountA string `json:"maker_token_account_a,omitempty"`
	Vault              string `json:"vault,omitempty"`
}

type Offer struct {
	ID                   uint64 `json:"id"`
	Address              string `json:"address"`
	Maker                string `json:"maker"`
	TokenMintA           string `json:"token_mint_a"`
	TokenMintB           string `json:"token_mint_b"`
	TokenBWantedAmount   uint64 `json:"token_b_wanted_amount"`
	TokenBWantedAmountUI string `json:"token_b_wanted_amount_ui"`
	Vault                string `json:"vault"`
	VaultAmount          uint64 `json:"vault_amount"`
	VaultAmountUI        string `json:"vault_amount_ui"`
	Bump                 uint8  `json:"bump"`
	CreatedAt            int64  `json:"created_at"`
}

type ListOffersResponse struct {
	Offers []Offer `json:"offers"`
}

type TakeReceipt struct {
	OfferID            uint64 `json:"offer_id"`
	Taker              string `json:"taker"`
	Maker              string `json:"maker"`
	TokenMintA         string `json:"token_mint_a"`
	TokenMintB         string `json:"token_mint_b"`
	TokenAReceived     uint64 `json:"token_a_received"`
	TokenBPaid         uint64 `json:"token_b_paid"`
	LamportsToMaker    uint64 `json:"lamports_to_maker"`
	TakerTokenAccountA string `json:"taker_token_account_a"`
	MakerTokenAccountB string `json:"maker_token_account_b"`
}

type RefundReceipt struct {
	OfferID            uint64 `json:"offer_id"`
	Maker              string `json:"maker"`
	TokenMintA         string `json:"token_mint_a"`
	TokenARefunded     uint64 `json:"token_a_refunded"`
	LamportsToMaker    uint64 `json:"lamports_to_maker"`
	MakerTokenAccountA string `json:"maker_token_account_a"`
}

type TokenAccount struct {
	Address  string `json:"address"`
	Mint     string `json:"mint"`
	Owner    string `json:"owner"`
	Amount   uint64 `json:"amount"`
	AmountUI string `json:"amount_ui"`
	Reserve  uint64 `json:"reserve"`
}

type Balances struct {
	Owner         string         `json:"owner"`
	Lamports      uint64         `json:"lamports"`
	TokenAccounts []TokenAccount `json:"token_accounts"`
}

type Mint struct {
	Address   string `json:"address"`
	Authority string `json:"authority"`
	Decimals  uint8  `json:"decimals"`
	Supply    uint64 `json:"supply"`
	SupplyUI  string `json:"supply_ui"`
}

type ListMintsResponse struct {
	Mints []Mint `json:"mints"`
}

type CreateMintRequest struct {
	Decimals uint8 `json:"decimals"`
}

type MintToRequest struct {
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

type AirdropRequest struct {
	Owner    string `json:"owner"`
	Lamports uint64 `json:"lamports"`
}

type SystemAccount struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
}

type AddWebhookRequest struct {
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret,omitempty"`
}

type AddWebhookResponse struct {
	ID string `json:"id"`
}

type Webhook struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}

type ListWebhooksResponse struct {
	Webhooks []Webhook `json:"webhooks"`
}

// ErrorResponse is returned with any non 2xx status code.
type ErrorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}
