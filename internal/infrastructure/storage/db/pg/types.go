package postgresdb

import (
	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/pg/sqlc/queries"
)

// Amounts are unsigned 64 bit integers while postgres only supports signed
// ones, therefore they are stored as their bit-equivalent BIGINT.

func toOfferParams(o domain.Offer) queries.InsertOfferParams {
	return queries.InsertOfferParams{
		ID:                 int64(o.ID),
		Maker:              o.Maker.String(),
		TokenMintA:         o.TokenMintA.String(),
		TokenMintB:         o.TokenMintB.String(),
		TokenBWantedAmount: int64(o.TokenBWantedAmount),
		Bump:               int16(o.Bump),
		Reserve:            int64(o.Reserve),
		CreatedAt:          o.CreatedAt,
	}
}

func toOffer(row queries.Offer) (*domain.Offer, error) {
	maker, err := solana.PublicKeyFromBase58(row.Maker)
	if err != nil {
		return nil, err
	}
	mintA, err := solana.PublicKeyFromBase58(row.TokenMintA)
	if err != nil {
		return nil, err
	}
	mintB, err := solana.PublicKeyFromBase58(row.TokenMintB)
	if err != nil {
		return nil, err
	}
	return &domain.Offer{
		ID:                 uint64(row.ID),
		Maker:              maker,
		TokenMintA:         mintA,
		TokenMintB:         mintB,
		TokenBWantedAmount: uint64(row.TokenBWantedAmount),
		Bump:               uint8(row.Bump),
		Reserve:            uint64(row.Reserve),
		CreatedAt:          row.CreatedAt,
	}, nil
}

func toOffers(rows []queries.Offer) ([]domain.Offer, error) {
	offers := make([]domain.Offer, 0, len(rows))
	for _, row := range rows {
		offer, err := toOffer(row)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}
	return offers, nil
}

func toMint(row queries.Mint) (*domain.Mint, error) {
	addr, err := solana.PublicKeyFromBase58(row.Address)
	if err != nil {
		return nil, err
	}
	authority, err := solana.PublicKeyFromBase58(row.Authority)
	if err != nil {
		return nil, err
	}
	return &domain.Mint{
		Address:   addr,
		Authority: authority,
		Decimals:  uint8(row.Decimals),
		Supply:    uint64(row.Supply),
	}, nil
}

func toTokenAccount(row queries.TokenAccount) (*domain.TokenAccount, error) {
	addr, err := solana.PublicKeyFromBase58(row.Address)
	if err != nil {
		return nil, err
	}
	mint, err := solana.PublicKeyFromBase58(row.Mint)
	if err != nil {
		return nil, err
	}
	owner, err := solana.PublicKeyFromBase58(row.Owner)
	if err != nil {
		return nil, err
	}
	return &domain.TokenAccount{
		Address: addr,
		Mint:    mint,
		Owner:   owner,
		Amount:  uint64(row.Amount),
		Reserve: uint64(row.Reserve),
	}, nil
}
