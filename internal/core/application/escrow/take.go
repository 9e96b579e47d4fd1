package escrow

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// TakeOffer fulfills an offer: the whole vault balance of token A goes to the
// taker, the vault is closed and the taker pays the wanted amount of token B
// to the maker. The offer record is then destroyed and its id retired.
// The taker must be an already verified signer.
func (s *Service) TakeOffer(
	ctx context.Context, req TakeOfferRequest,
) (*TakeReceipt, error) {
	if req.Taker.IsZero() {
		return nil, ErrUnauthorizedCaller
	}

	var offer domain.Offer
	res, err := s.runTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			o, err := s.repoManager.OfferRepository().GetOffer(ctx, req.OfferID)
			if err != nil {
				return nil, err
			}
			offer = *o
			return s.takeOffer(ctx, offer, req)
		},
	)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"offer": req.OfferID,
			"taker": req.Taker.String(),
		}).Debug("take offer failed")
		return nil, err
	}

	receipt := res.(*TakeReceipt)
	log.WithFields(log.Fields{
		"offer": receipt.OfferID,
		"maker": receipt.Maker.String(),
		"taker": receipt.Taker.String(),
	}).Info("offer taken")

	s.publish(pubsub.EventOfferTaken, func() error {
		return s.pubsub.PublishOfferTakenEvent(
			offer, receipt.Taker, receipt.TokenAReceived,
		)
	})
	return receipt, nil
}

func (s *Service) takeOffer(
	ctx context.Context, offer domain.Offer, req TakeOfferRequest,
) (*TakeReceipt, error) {
	if !req.Maker.Equals(offer.Maker) {
		return nil, wrap(ErrOfferMismatch, errors.New("maker mismatch"))
	}
	if !req.TokenMintA.Equals(offer.TokenMintA) {
		return nil, wrap(ErrOfferMismatch, errors.New("token mint a mismatch"))
	}
	if !req.TokenMintB.Equals(offer.TokenMintB) {
		return nil, wrap(ErrOfferMismatch, errors.New("token mint b mismatch"))
	}

	vault, err := offer.Vault(s.programID())
	if err != nil {
		return nil, wrap(ErrVaultWithdrawalFailed, err)
	}
	if !req.Vault.IsZero() && !req.Vault.Equals(vault) {
		return nil, wrap(ErrOfferMismatch, errors.New("vault mismatch"))
	}
	takerAccountA, err := checkAccount(
		req.TakerTokenAccountA, req.Taker, offer.TokenMintA,
	)
	if err != nil {
		return nil, err
	}
	takerAccountB, err := checkAccount(
		req.TakerTokenAccountB, req.Taker, offer.TokenMintB,
	)
	if err != nil {
		return nil, err
	}
	makerAccountB, err := checkAccount(
		req.MakerTokenAccountB, offer.Maker, offer.TokenMintB,
	)
	if err != nil {
		return nil, err
	}

	// The taker pays for the accounts that do not exist yet.
	if _, err := s.tokenProgram.InitAssociatedAccountIfNeeded(
		ctx, req.Taker, offer.TokenMintA, req.Taker,
	); err != nil {
		return nil, wrap(ErrInsufficientReserve, err)
	}
	if _, err := s.tokenProgram.InitAssociatedAccountIfNeeded(
		ctx, offer.Maker, offer.TokenMintB, req.Taker,
	); err != nil {
		return nil, wrap(ErrInsufficientReserve, err)
	}

	authority, err := offer.Authority(s.programID())
	if err != nil {
		return nil, wrap(ErrVaultWithdrawalFailed, err)
	}
	vaultAccount, err := s.repoManager.AccountRepository().GetTokenAccount(
		ctx, vault,
	)
	if err != nil {
		return nil, wrap(ErrVaultWithdrawalFailed, err)
	}
	amountA := vaultAccount.Amount

	if err := s.tokenProgram.Transfer(
		ctx, vault, takerAccountA, amountA, offer.TokenMintA, authority,
	); err != nil {
		return nil, wrap(ErrVaultWithdrawalFailed, err)
	}
	if err := s.tokenProgram.CloseAccount(
		ctx, vault, offer.Maker, authority,
	); err != nil {
		return nil, wrap(ErrVaultClosureFailed, err)
	}
	if err := s.tokenProgram.Transfer(
		ctx, takerAccountB, makerAccountB, offer.TokenBWantedAmount,
		offer.TokenMintB, domain.NewSignerAuthority(req.Taker),
	); err != nil {
		return nil, wrap(ErrInsufficientTakerBalance, err)
	}

	if err := s.closeOffer(ctx, offer); err != nil {
		return nil, err
	}

	return &TakeReceipt{
		OfferID:            offer.ID,
		Taker:              req.Taker,
		Maker:              offer.Maker,
		TokenMintA:         offer.TokenMintA,
		TokenMintB:         offer.TokenMintB,
		TokenAReceived:     amountA,
		TokenBPaid:         offer.TokenBWantedAmount,
		LamportsToMaker:    vaultAccount.Reserve + offer.Reserve,
		TakerTokenAccountA: takerAccountA,
		MakerTokenAccountB: makerAccountB,
	}, nil
}

// closeOffer destroys the offer record and returns its reserve to the maker.
func (s *Service) closeOffer(ctx context.Context, offer domain.Offer) error {
	if err := s.repoManager.OfferRepository().DeleteOffer(
		ctx, offer.ID,
	); err != nil {
		return err
	}
	return s.tokenProgram.ReleaseReserve(ctx, offer.Maker, offer.Reserve)
}
