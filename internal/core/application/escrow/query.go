package escrow

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

func (s *Service) GetOffer(ctx context.Context, id uint64) (*OfferInfo, error) {
	res, err := s.runTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			offer, err := s.repoManager.OfferRepository().GetOffer(ctx, id)
			if err != nil {
				return nil, err
			}
			return s.offerInfo(ctx, *offer)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*OfferInfo), nil
}

// ListOffers returns the live offers matching the filter, sorted by id.
func (s *Service) ListOffers(
	ctx context.Context, filter OfferFilter,
) ([]OfferInfo, error) {
	res, err := s.runTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			repo := s.repoManager.OfferRepository()

			var offers []domain.Offer
			var err error
			if filter.Maker.IsZero() {
				offers, err = repo.GetAllOffers(ctx)
			} else {
				offers, err = repo.GetOffersByMaker(ctx, filter.Maker)
			}
			if err != nil {
				return nil, err
			}

			list := make([]OfferInfo, 0, len(offers))
			for _, offer := range offers {
				if !filter.match(offer) {
					continue
				}
				info, err := s.offerInfo(ctx, offer)
				if err != nil {
					return nil, err
				}
				list = append(list, *info)
			}
			return list, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return res.([]OfferInfo), nil
}

// GetBalances returns the lamports and the token accounts of owner.
func (s *Service) GetBalances(
	ctx context.Context, owner solana.PublicKey,
) (*Balances, error) {
	res, err := s.runTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			repo := s.repoManager.AccountRepository()
			account, err := repo.GetSystemAccount(ctx, owner)
			if err != nil {
				return nil, err
			}
			tokenAccounts, err := repo.GetTokenAccountsByOwner(ctx, owner)
			if err != nil {
				return nil, err
			}
			decimals := make(map[solana.PublicKey]uint8)
			for _, a := range tokenAccounts {
				if _, ok := decimals[a.Mint]; ok {
					continue
				}
				mint, err := repo.GetMint(ctx, a.Mint)
				if err != nil {
					return nil, err
				}
				decimals[a.Mint] = mint.Decimals
			}
			return &Balances{
				Owner:         owner,
				Lamports:      account.Lamports,
				TokenAccounts: tokenAccounts,
				Decimals:      decimals,
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*Balances), nil
}
