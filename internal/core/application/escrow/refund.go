package escrow

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// RefundOffer cancels an offer: the whole vault balance of token A goes back
// to the maker, the vault is closed and the offer record destroyed.
// Only the maker, as an already verified signer, is allowed to refund.
func (s *Service) RefundOffer(
	ctx context.Context, req RefundOfferRequest,
) (*RefundReceipt, error) {
	if req.Maker.IsZero() {
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
			return s.refundOffer(ctx, offer, req)
		},
	)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"offer":  req.OfferID,
			"caller": req.Maker.String(),
		}).Debug("refund offer failed")
		return nil, err
	}

	receipt := res.(*RefundReceipt)
	log.WithFields(log.Fields{
		"offer": receipt.OfferID,
		"maker": receipt.Maker.String(),
	}).Info("offer refunded")

	s.publish(pubsub.EventOfferRefunded, func() error {
		return s.pubsub.PublishOfferRefundedEvent(offer, receipt.TokenARefunded)
	})
	return receipt, nil
}

func (s *Service) refundOffer(
	ctx context.Context, offer domain.Offer, req RefundOfferRequest,
) (*RefundReceipt, error) {
	if !req.Maker.Equals(offer.Maker) {
		return nil, ErrUnauthorizedCaller
	}
	if !req.TokenMintA.Equals(offer.TokenMintA) {
		return nil, wrap(ErrOfferMismatch, errors.New("token mint a mismatch"))
	}

	vault, err := offer.Vault(s.programID())
	if err != nil {
		return nil, wrap(ErrRefundTransferFailed, err)
	}
	if !req.Vault.IsZero() && !req.Vault.Equals(vault) {
		return nil, wrap(ErrOfferMismatch, errors.New("vault mismatch"))
	}
	makerAccountA, err := checkAccount(
		req.MakerTokenAccountA, offer.Maker, offer.TokenMintA,
	)
	if err != nil {
		return nil, err
	}

	if _, err := s.tokenProgram.InitAssociatedAccountIfNeeded(
		ctx, offer.Maker, offer.TokenMintA, offer.Maker,
	); err != nil {
		return nil, wrap(ErrInsufficientReserve, err)
	}

	authority, err := offer.Authority(s.programID())
	if err != nil {
		return nil, wrap(ErrRefundTransferFailed, err)
	}
	vaultAccount, err := s.repoManager.AccountRepository().GetTokenAccount(
		ctx, vault,
	)
	if err != nil {
		return nil, wrap(ErrRefundTransferFailed, err)
	}
	amountA := vaultAccount.Amount

	if err := s.tokenProgram.Transfer(
		ctx, vault, makerAccountA, amountA, offer.TokenMintA, authority,
	); err != nil {
		return nil, wrap(ErrRefundTransferFailed, err)
	}
	if err := s.tokenProgram.CloseAccount(
		ctx, vault, offer.Maker, authority,
	); err != nil {
		return nil, wrap(ErrRefundClosureFailed, err)
	}

	if err := s.closeOffer(ctx, offer); err != nil {
		return nil, err
	}

	return &RefundReceipt{
		OfferID:            offer.ID,
		Maker:              offer.Maker,
		TokenMintA:         offer.TokenMintA,
		TokenARefunded:     amountA,
		LamportsToMaker:    vaultAccount.Reserve + offer.Reserve,
		MakerTokenAccountA: makerAccountA,
	}, nil
}
