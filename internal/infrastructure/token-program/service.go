package tokenprogram

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

// DefaultRentExemptReserve is the amount of lamports set aside for a token
// account, as on the reference ledger.
const DefaultRentExemptReserve = 2039280

type service struct {
	programID solana.PublicKey
	rent      uint64
	repo      domain.AccountRepository
}

// NewService returns a ports.TokenProgram keeping balances in the given
// account repository. All operations join the storage transaction of their
// context, if any.
func NewService(
	programID solana.PublicKey, rentExemptReserve uint64,
	repo domain.AccountRepository,
) (ports.TokenProgram, error) {
	if programID.IsZero() {
		return nil, fmt.Errorf("missing program id")
	}
	if rentExemptReserve == 0 {
		return nil, fmt.Errorf("rent exempt reserve must be greater than zero")
	}
	if repo == nil {
		return nil, fmt.Errorf("missing account repository")
	}
	return &service{programID, rentExemptReserve, repo}, nil
}

func (s *service) ProgramID() solana.PublicKey {
	return s.programID
}

func (s *service) RentExemptReserve() uint64 {
	return s.rent
}

func (s *service) Transfer(
	ctx context.Context, source, destination solana.PublicKey,
	amount uint64, mint solana.PublicKey, authority domain.Authority,
) error {
	if err := authority.Verify(s.programID); err != nil {
		return err
	}

	src, err := s.repo.GetTokenAccount(ctx, source)
	if err != nil {
		return err
	}
	dst, err := s.repo.GetTokenAccount(ctx, destination)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(mint) || !dst.Mint.Equals(mint) {
		return domain.ErrMintMismatch
	}
	if !src.Owner.Equals(authority.Address()) {
		return domain.ErrOwnerMismatch
	}
	if src.Amount < amount {
		return domain.ErrInsufficientFunds
	}
	if source.Equals(destination) {
		return nil
	}
	if dst.Amount > math.MaxUint64-amount {
		return domain.ErrAmountOverflow
	}

	if err := s.repo.UpdateTokenAccount(
		ctx, source,
		func(a *domain.TokenAccount) (*domain.TokenAccount, error) {
			if err := a.Debit(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	); err != nil {
		return err
	}
	if err := s.repo.UpdateTokenAccount(
		ctx, destination,
		func(a *domain.TokenAccount) (*domain.TokenAccount, error) {
			if err := a.Credit(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"source":      source.String(),
		"destination": destination.String(),
		"mint":        mint.String(),
		"amount":      amount,
	}).Debug("transferred tokens")
	return nil
}

func (s *service) CloseAccount(
	ctx context.Context, account, recipient solana.PublicKey,
	authority domain.Authority,
) error {
	if err := authority.Verify(s.programID); err != nil {
		return err
	}

	a, err := s.repo.GetTokenAccount(ctx, account)
	if err != nil {
		return err
	}
	if !a.Owner.Equals(authority.Address()) {
		return domain.ErrOwnerMismatch
	}
	if !a.IsEmpty() {
		return domain.ErrAccountNotEmpty
	}

	if err := s.repo.DeleteTokenAccount(ctx, account); err != nil {
		return err
	}
	if err := s.ReleaseReserve(ctx, recipient, a.Reserve); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"account":   account.String(),
		"recipient": recipient.String(),
		"reserve":   a.Reserve,
	}).Debug("closed token account")
	return nil
}

func (s *service) PayReserve(
	ctx context.Context, payer solana.PublicKey,
) (uint64, error) {
	if err := s.repo.UpdateSystemAccount(
		ctx, payer,
		func(a *domain.SystemAccount) (*domain.SystemAccount, error) {
			if err := a.Debit(s.rent); err != nil {
				return nil, err
			}
			return a, nil
		},
	); err != nil {
		return 0, err
	}
	return s.rent, nil
}

func (s *service) ReleaseReserve(
	ctx context.Context, recipient solana.PublicKey, lamports uint64,
) error {
	if lamports == 0 {
		return nil
	}
	return s.repo.UpdateSystemAccount(
		ctx, recipient,
		func(a *domain.SystemAccount) (*domain.SystemAccount, error) {
			if err := a.Credit(lamports); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}

func (s *service) InitAssociatedAccount(
	ctx context.Context, owner, mint, payer solana.PublicKey,
) (*domain.TokenAccount, error) {
	if _, err := s.repo.GetMint(ctx, mint); err != nil {
		return nil, err
	}

	address, err := domain.AssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.GetTokenAccount(ctx, address)
	if err == nil {
		return nil, domain.ErrTokenAccountAlreadyExists
	}
	if !errors.Is(err, domain.ErrTokenAccountNotFound) {
		return nil, err
	}

	reserve, err := s.PayReserve(ctx, payer)
	if err != nil {
		return nil, err
	}

	account := &domain.TokenAccount{
		Address: address,
		Mint:    mint,
		Owner:   owner,
		Reserve: reserve,
	}
	if err := s.repo.AddTokenAccount(ctx, account); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"account": address.String(),
		"owner":   owner.String(),
		"mint":    mint.String(),
	}).Debug("created token account")
	return account, nil
}

func (s *service) InitAssociatedAccountIfNeeded(
	ctx context.Context, owner, mint, payer solana.PublicKey,
) (*domain.TokenAccount, error) {
	address, err := domain.AssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.GetTokenAccount(ctx, address)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, domain.ErrTokenAccountNotFound) {
		return nil, err
	}
	return s.InitAssociatedAccount(ctx, owner, mint, payer)
}

func (s *service) CreateMint(
	ctx context.Context, authority solana.PublicKey, decimals uint8,
) (*domain.Mint, error) {
	if authority.IsZero() {
		return nil, domain.ErrInvalidAuthority
	}

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	mint := &domain.Mint{
		Address:   key.PublicKey(),
		Authority: authority,
		Decimals:  decimals,
	}
	if err := s.repo.AddMint(ctx, mint); err != nil {
		return nil, err
	}
	return mint, nil
}

func (s *service) MintTo(
	ctx context.Context, mint, destination solana.PublicKey, amount uint64,
	authority domain.Authority,
) error {
	if err := authority.Verify(s.programID); err != nil {
		return err
	}

	m, err := s.repo.GetMint(ctx, mint)
	if err != nil {
		return err
	}
	if !m.Authority.Equals(authority.Address()) {
		return domain.ErrOwnerMismatch
	}
	dst, err := s.repo.GetTokenAccount(ctx, destination)
	if err != nil {
		return err
	}
	if !dst.Mint.Equals(mint) {
		return domain.ErrMintMismatch
	}

	if err := s.repo.UpdateMint(
		ctx, mint, func(m *domain.Mint) (*domain.Mint, error) {
			if err := m.IncreaseSupply(amount); err != nil {
				return nil, err
			}
			return m, nil
		},
	); err != nil {
		return err
	}
	return s.repo.UpdateTokenAccount(
		ctx, destination,
		func(a *domain.TokenAccount) (*domain.TokenAccount, error) {
			if err := a.Credit(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}

func (s *service) Airdrop(
	ctx context.Context, recipient solana.PublicKey, lamports uint64,
) error {
	if recipient.IsZero() {
		return fmt.Errorf("missing recipient")
	}
	if lamports == 0 {
		return domain.ErrInvalidAmount
	}
	return s.ReleaseReserve(ctx, recipient, lamports)
}
