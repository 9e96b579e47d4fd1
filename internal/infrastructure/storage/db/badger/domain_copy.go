package dbbadger

import (
	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// Offer is the stored copy of domain.Offer. Keys are stored in base58 format
// so that they can be queried.
type Offer struct {
	ID                 uint64
	Maker              string `badgerhold:"index"`
	TokenMintA         string
	TokenMintB         string
	TokenBWantedAmount uint64
	Bump               uint8
	Reserve            uint64
	CreatedAt          int64
}

// RetiredOffer marks the id of a destroyed offer.
type RetiredOffer struct {
	ID uint64
}

type Mint struct {
	Address   string
	Authority string
	Decimals  uint8
	Supply    uint64
}

type TokenAccount struct {
	Address string
	Mint    string
	Owner   string `badgerhold:"index"`
	Amount  uint64
	Reserve uint64
}

type SystemAccount struct {
	Address  string
	Lamports uint64
}

func toOfferDTO(o domain.Offer) Offer {
	return Offer{
		ID:                 o.ID,
		Maker:              o.Maker.String(),
		TokenMintA:         o.TokenMintA.String(),
		TokenMintB:         o.TokenMintB.String(),
		TokenBWantedAmount: o.TokenBWantedAmount,
		Bump:               o.Bump,
		Reserve:            o.Reserve,
		CreatedAt:          o.CreatedAt,
	}
}

func (o Offer) toDomain() (*domain.Offer, error) {
	maker, err := solana.PublicKeyFromBase58(o.Maker)
	if err != nil {
		return nil, err
	}
	mintA, err := solana.PublicKeyFromBase58(o.TokenMintA)
	if err != nil {
		return nil, err
	}
	mintB, err := solana.PublicKeyFromBase58(o.TokenMintB)
	if err != nil {
		return nil, err
	}
	return &domain.Offer{
		ID:                 o.ID,
		Maker:              maker,
		TokenMintA:         mintA,
		TokenMintB:         mintB,
		TokenBWantedAmount: o.TokenBWantedAmount,
		Bump:               o.Bump,
		Reserve:            o.Reserve,
		CreatedAt:          o.CreatedAt,
	}, nil
}

func toMintDTO(m domain.Mint) Mint {
	return Mint{
		Address:   m.Address.String(),
		Authority: m.Authority.String(),
		Decimals:  m.Decimals,
		Supply:    m.Supply,
	}
}

func (m Mint) toDomain() (*domain.Mint, error) {
	addr, err := solana.PublicKeyFromBase58(m.Address)
	if err != nil {
		return nil, err
	}
	authority, err := solana.PublicKeyFromBase58(m.Authority)
	if err != nil {
		return nil, err
	}
	return &domain.Mint{
		Address:   addr,
		Authority: authority,
		Decimals:  m.Decimals,
		Supply:    m.Supply,
	}, nil
}

func toTokenAccountDTO(a domain.TokenAccount) TokenAccount {
	return TokenAccount{
		Address: a.Address.String(),
		Mint:    a.Mint.String(),
		Owner:   a.Owner.String(),
		Amount:  a.Amount,
		Reserve: a.Reserve,
	}
}

func (a TokenAccount) toDomain() (*domain.TokenAccount, error) {
	addr, err := solana.PublicKeyFromBase58(a.Address)
	if err != nil {
		return nil, err
	}
	mint, err := solana.PublicKeyFromBase58(a.Mint)
	if err != nil {
		return nil, err
	}
	owner, err := solana.PublicKeyFromBase58(a.Owner)
	if err != nil {
		return nil, err
	}
	return &domain.TokenAccount{
		Address: addr,
		Mint:    mint,
		Owner:   owner,
		Amount:  a.Amount,
		Reserve: a.Reserve,
	}, nil
}
