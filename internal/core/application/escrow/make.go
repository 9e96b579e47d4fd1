package escrow

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// MakeOffer creates a new offer and funds its vault with the offered amount
// of token A taken from the maker's associated token account. The maker pays
// the reserves of both the offer record and the vault.
func (s *Service) MakeOffer(
	ctx context.Context, req MakeOfferRequest,
) (*OfferInfo, error) {
	if req.Maker.IsZero() {
		return nil, wrap(ErrUnauthorizedCaller, domain.ErrInvalidMaker)
	}
	if req.TokenAOfferedAmount == 0 || req.TokenBWantedAmount == 0 {
		return nil, ErrInvalidAmount
	}
	if req.TokenMintA.IsZero() || req.TokenMintB.IsZero() ||
		req.TokenMintA.Equals(req.TokenMintB) {
		return nil, ErrInvalidMint
	}

	res, err := s.runTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return s.makeOffer(ctx, req)
		},
	)
	if err != nil {
		log.WithError(err).WithField("offer", req.ID).Debug("make offer failed")
		return nil, err
	}

	info := res.(*OfferInfo)
	log.WithFields(log.Fields{
		"offer": info.ID,
		"maker": info.Maker.String(),
		"vault": info.Vault.String(),
	}).Info("offer made")

	s.publish(pubsub.EventOfferMade, func() error {
		return s.pubsub.PublishOfferMadeEvent(
			info.Offer, info.Vault, info.VaultAmount,
		)
	})
	return info, nil
}

func (s *Service) makeOffer(
	ctx context.Context, req MakeOfferRequest,
) (*OfferInfo, error) {
	accountRepo := s.repoManager.AccountRepository()
	mintA, err := accountRepo.GetMint(ctx, req.TokenMintA)
	if err != nil {
		return nil, wrap(ErrInvalidMint, err)
	}
	mintB, err := accountRepo.GetMint(ctx, req.TokenMintB)
	if err != nil {
		return nil, wrap(ErrInvalidMint, err)
	}

	offer, err := domain.NewOffer(
		s.programID(), req.ID, req.Maker, req.TokenMintA, req.TokenMintB,
		req.TokenBWantedAmount, s.tokenProgram.RentExemptReserve(),
	)
	if err != nil {
		return nil, err
	}
	if err := s.repoManager.OfferRepository().AddOffer(ctx, offer); err != nil {
		return nil, err
	}
	if _, err := s.tokenProgram.PayReserve(ctx, req.Maker); err != nil {
		return nil, wrap(ErrInsufficientReserve, err)
	}

	addr, err := offer.Address(s.programID())
	if err != nil {
		return nil, err
	}
	vault, err := s.tokenProgram.InitAssociatedAccount(
		ctx, addr, req.TokenMintA, req.Maker,
	)
	if err != nil {
		if errors.Is(err, domain.ErrTokenAccountAlreadyExists) {
			return nil, wrap(ErrOfferAlreadyExists, err)
		}
		return nil, wrap(ErrInsufficientReserve, err)
	}

	makerAccountA, err := domain.AssociatedTokenAddress(req.Maker, req.TokenMintA)
	if err != nil {
		return nil, err
	}
	if err := s.tokenProgram.Transfer(
		ctx, makerAccountA, vault.Address, req.TokenAOfferedAmount,
		req.TokenMintA, domain.NewSignerAuthority(req.Maker),
	); err != nil {
		return nil, wrap(ErrInsufficientMakerBalance, err)
	}

	return &OfferInfo{
		Offer:       *offer,
		Address:     addr,
		Vault:       vault.Address,
		VaultAmount: req.TokenAOfferedAmount,

		TokenADecimals: mintA.Decimals,
		TokenBDecimals: mintB.Decimals,
	}, nil
}
