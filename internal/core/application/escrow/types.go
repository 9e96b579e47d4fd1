package escrow

import (
	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type MakeOfferRequest struct {
	ID                  uint64
	Maker               solana.PublicKey
	TokenMintA          solana.PublicKey
	TokenMintB          solana.PublicKey
	TokenAOfferedAmount uint64
	TokenBWantedAmount  uint64
}

// TakeOfferRequest is the request of the taker to fulfill an offer.
// Zero token accounts are derived as the associated ones of their owners,
// non-zero ones must match them.
type TakeOfferRequest struct {
	OfferID            uint64
	Taker              solana.PublicKey
	Maker              solana.PublicKey
	TokenMintA         solana.PublicKey
	TokenMintB         solana.PublicKey
	TakerTokenAccountA solana.PublicKey
	TakerTokenAccountB solana.PublicKey
	MakerTokenAccountB solana.PublicKey
	Vault              solana.PublicKey
}

// RefundOfferRequest is the request of the maker to cancel an offer.
type RefundOfferRequest struct {
	OfferID            uint64
	Maker              solana.PublicKey
	TokenMintA         solana.PublicKey
	MakerTokenAccountA solana.PublicKey
	Vault              solana.PublicKey
}

type OfferFilter struct {
	Maker      solana.PublicKey
	TokenMintA solana.PublicKey
	TokenMintB solana.PublicKey
}

func (f OfferFilter) match(o domain.Offer) bool {
	if !f.TokenMintA.IsZero() && !f.TokenMintA.Equals(o.TokenMintA) {
		return false
	}
	if !f.TokenMintB.IsZero() && !f.TokenMintB.Equals(o.TokenMintB) {
		return false
	}
	return true
}

// OfferInfo is a live offer along with its derived addresses and the
// amount of token A locked in its vault.
type OfferInfo struct {
	domain.Offer
	Address        solana.PublicKey
	Vault          solana.PublicKey
	VaultAmount    uint64
	TokenADecimals uint8
	TokenBDecimals uint8
}

type TakeReceipt struct {
	OfferID            uint64
	Taker              solana.PublicKey
	Maker              solana.PublicKey
	TokenMintA         solana.PublicKey
	TokenMintB         solana.PublicKey
	TokenAReceived     uint64
	TokenBPaid         uint64
	LamportsToMaker    uint64
	TakerTokenAccountA solana.PublicKey
	MakerTokenAccountB solana.PublicKey
}

type RefundReceipt struct {
	OfferID            uint64
	Maker              solana.PublicKey
	TokenMintA         solana.PublicKey
	TokenARefunded     uint64
	LamportsToMaker    uint64
	MakerTokenAccountA solana.PublicKey
}

// Balances lists the lamports and token accounts of an owner, along with the
// decimals of each account's mint.
type Balances struct {
	Owner         solana.PublicKey
	Lamports      uint64
	TokenAccounts []domain.TokenAccount
	Decimals      map[solana.PublicKey]uint8
}
