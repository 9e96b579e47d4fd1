package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// AccountRepository is the abstraction for any kind of database intended to
// persist the ledger state: mints, token accounts and system accounts.
type AccountRepository interface {
	// AddMint adds a new mint to the repository.
	AddMint(ctx context.Context, mint *Mint) error
	// GetMint returns the mint with the given address.
	GetMint(ctx context.Context, address solana.PublicKey) (*Mint, error)
	// GetAllMints returns all mints.
	GetAllMints(ctx context.Context) ([]Mint, error)
	// UpdateMint updates the state of a mint. The closure function let's to
	// commit multiple changes to a certain mint in a transactional way.
	UpdateMint(
		ctx context.Context, address solana.PublicKey,
		updateFn func(m *Mint) (*Mint, error),
	) error

	// GetSystemAccount returns the system account of the given address, with
	// zero lamports if never funded.
	GetSystemAccount(
		ctx context.Context, address solana.PublicKey,
	) (*SystemAccount, error)
	// UpdateSystemAccount updates, or creates if missing, a system account.
	UpdateSystemAccount(
		ctx context.Context, address solana.PublicKey,
		updateFn func(a *SystemAccount) (*SystemAccount, error),
	) error

	// AddTokenAccount adds a new token account to the repository.
	AddTokenAccount(ctx context.Context, account *TokenAccount) error
	// GetTokenAccount returns the token account with the given address.
	GetTokenAccount(
		ctx context.Context, address solana.PublicKey,
	) (*TokenAccount, error)
	// GetTokenAccountsByOwner returns all token accounts of the given owner.
	GetTokenAccountsByOwner(
		ctx context.Context, owner solana.PublicKey,
	) ([]TokenAccount, error)
	// UpdateTokenAccount updates the state of a token account.
	UpdateTokenAccount(
		ctx context.Context, address solana.PublicKey,
		updateFn func(a *TokenAccount) (*TokenAccount, error),
	) error
	// DeleteTokenAccount removes a token account from the repository.
	DeleteTokenAccount(ctx context.Context, address solana.PublicKey) error
}
