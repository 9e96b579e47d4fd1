package escrow

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

// Service runs the lifecycle of escrow offers. Every transition is executed
// in a single storage transaction: either all its effects are committed or
// none.
type Service struct {
	repoManager  ports.RepoManager
	tokenProgram ports.TokenProgram
	pubsub       *pubsub.Service
}

func NewService(
	repoManager ports.RepoManager, tokenProgram ports.TokenProgram,
	pubsubSvc *pubsub.Service,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if tokenProgram == nil {
		return nil, fmt.Errorf("missing token program")
	}
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	return &Service{repoManager, tokenProgram, pubsubSvc}, nil
}

func (s *Service) programID() solana.PublicKey {
	return s.tokenProgram.ProgramID()
}

func (s *Service) offerInfo(
	ctx context.Context, offer domain.Offer,
) (*OfferInfo, error) {
	addr, err := offer.Address(s.programID())
	if err != nil {
		return nil, err
	}
	vault, err := offer.Vault(s.programID())
	if err != nil {
		return nil, err
	}

	repo := s.repoManager.AccountRepository()
	account, err := repo.GetTokenAccount(ctx, vault)
	if err != nil {
		return nil, err
	}
	mintA, err := repo.GetMint(ctx, offer.TokenMintA)
	if err != nil {
		return nil, err
	}
	mintB, err := repo.GetMint(ctx, offer.TokenMintB)
	if err != nil {
		return nil, err
	}

	return &OfferInfo{
		Offer:          offer,
		Address:        addr,
		Vault:          vault,
		VaultAmount:    account.Amount,
		TokenADecimals: mintA.Decimals,
		TokenBDecimals: mintB.Decimals,
	}, nil
}

// runTransaction runs the handler in a storage transaction and makes sure
// the returned error is one of the service's kinds.
func (s *Service) runTransaction(
	ctx context.Context, readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	res, err := s.repoManager.RunTransaction(ctx, readOnly, handler)
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

func (s *Service) publish(event string, publishFn func() error) {
	go func() {
		if err := publishFn(); err != nil {
			log.WithError(err).Warnf("failed to publish %s event", event)
		}
	}()
}

// checkAccount returns the associated token account of owner for mint and
// makes sure that it matches the supplied one, if any.
func checkAccount(
	supplied, owner, mint solana.PublicKey,
) (solana.PublicKey, error) {
	addr, err := domain.AssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, wrap(ErrOfferMismatch, err)
	}
	if !supplied.IsZero() && !supplied.Equals(addr) {
		return solana.PublicKey{}, fmt.Errorf(
			"%w: account %s is not the token account of %s for mint %s",
			ErrOfferMismatch, supplied, owner, mint,
		)
	}
	return addr, nil
}
