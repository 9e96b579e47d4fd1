package operator

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

// FaucetSeed is the seed of the derived address that is the authority of all
// mints created by the operator.
const FaucetSeed = "faucet"

type Service struct {
	repoManager  ports.RepoManager
	tokenProgram ports.TokenProgram
	pubsub       *pubsub.Service

	faucet domain.Authority
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

	programID := tokenProgram.ProgramID()
	seeds := [][]byte{[]byte(FaucetSeed)}
	_, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive faucet address: %w", err)
	}
	faucet, err := domain.DeriveAuthority(
		programID, append(seeds, []byte{bump})...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive faucet authority: %w", err)
	}

	return &Service{repoManager, tokenProgram, pubsubSvc, faucet}, nil
}

// Faucet returns the address of the authority of the operator's mints.
func (s *Service) Faucet() solana.PublicKey {
	return s.faucet.Address()
}

func (s *Service) CreateMint(
	ctx context.Context, decimals uint8,
) (*domain.Mint, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return s.tokenProgram.CreateMint(ctx, s.faucet.Address(), decimals)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}

	mint := res.(*domain.Mint)
	log.Infof("created mint %s", mint.Address)
	return mint, nil
}

func (s *Service) ListMints(ctx context.Context) ([]domain.Mint, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.AccountRepository().GetAllMints(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	return res.([]domain.Mint), nil
}

func (s *Service) GetMint(
	ctx context.Context, address solana.PublicKey,
) (*domain.Mint, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.AccountRepository().GetMint(ctx, address)
		},
	)
	if err != nil {
		if errors.Is(err, domain.ErrMintNotFound) {
			return nil, ErrMintNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	return res.(*domain.Mint), nil
}

// MintTo mints amount of tokens to the associated account of owner, created
// at the faucet's expense if missing.
func (s *Service) MintTo(
	ctx context.Context, mint, owner solana.PublicKey, amount uint64,
) (*domain.TokenAccount, error) {
	if owner.IsZero() {
		return nil, ErrInvalidOwner
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if _, err := s.repoManager.AccountRepository().GetMint(
				ctx, mint,
			); err != nil {
				return nil, err
			}

			addr, err := domain.AssociatedTokenAddress(owner, mint)
			if err != nil {
				return nil, err
			}
			_, err = s.repoManager.AccountRepository().GetTokenAccount(ctx, addr)
			if err != nil {
				if !errors.Is(err, domain.ErrTokenAccountNotFound) {
					return nil, err
				}
				if err := s.tokenProgram.Airdrop(
					ctx, s.faucet.Address(), s.tokenProgram.RentExemptReserve(),
				); err != nil {
					return nil, err
				}
				if _, err := s.tokenProgram.InitAssociatedAccount(
					ctx, owner, mint, s.faucet.Address(),
				); err != nil {
					return nil, err
				}
			}

			if err := s.tokenProgram.MintTo(
				ctx, mint, addr, amount, s.faucet,
			); err != nil {
				return nil, err
			}
			return s.repoManager.AccountRepository().GetTokenAccount(ctx, addr)
		},
	)
	if err != nil {
		if errors.Is(err, domain.ErrMintNotFound) {
			return nil, ErrMintNotFound
		}
		if errors.Is(err, domain.ErrOwnerMismatch) ||
			errors.Is(err, domain.ErrAmountOverflow) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}

	account := res.(*domain.TokenAccount)
	log.WithFields(log.Fields{
		"mint":   mint.String(),
		"owner":  owner.String(),
		"amount": amount,
	}).Info("minted tokens")
	return account, nil
}

func (s *Service) Airdrop(
	ctx context.Context, owner solana.PublicKey, lamports uint64,
) (*domain.SystemAccount, error) {
	if owner.IsZero() {
		return nil, ErrInvalidOwner
	}
	if lamports == 0 {
		return nil, ErrInvalidAmount
	}

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.tokenProgram.Airdrop(ctx, owner, lamports); err != nil {
				return nil, err
			}
			return s.repoManager.AccountRepository().GetSystemAccount(ctx, owner)
		},
	)
	if err != nil {
		if errors.Is(err, domain.ErrAmountOverflow) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}

	log.Debugf("airdropped %d lamports to %s", lamports, owner)
	return res.(*domain.SystemAccount), nil
}
