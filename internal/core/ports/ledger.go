package ports

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// AssetLedger defines the primitives to move tokens and to destroy token
// accounts. Both take effect in the storage transaction carried by ctx, if
// any.
type AssetLedger interface {
	// Transfer moves amount of mint tokens from source to destination. The
	// authority must own source.
	Transfer(
		ctx context.Context, source, destination solana.PublicKey,
		amount uint64, mint solana.PublicKey, authority domain.Authority,
	) error
	// CloseAccount destroys the empty token account and credits its reserve
	// to the system account of recipient. The authority must own account.
	CloseAccount(
		ctx context.Context, account, recipient solana.PublicKey,
		authority domain.Authority,
	) error
}

// TokenProgram extends the AssetLedger with the operations required to
// create and fund accounts.
type TokenProgram interface {
	AssetLedger

	// ProgramID returns the namespace of the derived addresses.
	ProgramID() solana.PublicKey
	// RentExemptReserve returns the lamports set aside for every new account.
	RentExemptReserve() uint64
	// PayReserve debits the rent exempt reserve from payer's system account
	// and returns the amount paid.
	PayReserve(ctx context.Context, payer solana.PublicKey) (uint64, error)
	// ReleaseReserve credits lamports to recipient's system account.
	ReleaseReserve(
		ctx context.Context, recipient solana.PublicKey, lamports uint64,
	) error
	// InitAssociatedAccount creates the associated token account of owner for
	// mint, paid by payer.
	InitAssociatedAccount(
		ctx context.Context, owner, mint, payer solana.PublicKey,
	) (*domain.TokenAccount, error)
	// InitAssociatedAccountIfNeeded is like InitAssociatedAccount but returns
	// the existing account, if any.
	InitAssociatedAccountIfNeeded(
		ctx context.Context, owner, mint, payer solana.PublicKey,
	) (*domain.TokenAccount, error)
	// CreateMint creates a new mint with a random address.
	CreateMint(
		ctx context.Context, authority solana.PublicKey, decimals uint8,
	) (*domain.Mint, error)
	// MintTo increases the supply of mint by amount and credits them to
	// destination. The authority must be the mint's one.
	MintTo(
		ctx context.Context, mint, destination solana.PublicKey, amount uint64,
		authority domain.Authority,
	) error
	// Airdrop credits lamports to recipient out of thin air.
	Airdrop(
		ctx context.Context, recipient solana.PublicKey, lamports uint64,
	) error
}
