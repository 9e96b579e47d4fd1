package domain

import (
	"math"

	"github.com/gagliardetto/solana-go"
)

// Mint defines a fungible token type.
type Mint struct {
	Address   solana.PublicKey
	Authority solana.PublicKey
	Decimals  uint8
	Supply    uint64
}

// IncreaseSupply accounts for newly minted tokens.
func (m *Mint) IncreaseSupply(amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if m.Supply > math.MaxUint64-amount {
		return ErrAmountOverflow
	}
	m.Supply += amount
	return nil
}

// TokenAccount holds an amount of a single mint on behalf of its owner.
// Reserve is the amount of lamports set aside for the account storage,
// returned to a recipient when the account is closed.
type TokenAccount struct {
	Address solana.PublicKey
	Mint    solana.PublicKey
	Owner   solana.PublicKey
	Amount  uint64
	Reserve uint64
}

func (a *TokenAccount) Debit(amount uint64) error {
	if a.Amount < amount {
		return ErrInsufficientFunds
	}
	a.Amount -= amount
	return nil
}

func (a *TokenAccount) Credit(amount uint64) error {
	if a.Amount > math.MaxUint64-amount {
		return ErrAmountOverflow
	}
	a.Amount += amount
	return nil
}

func (a TokenAccount) IsEmpty() bool {
	return a.Amount == 0
}

// SystemAccount holds the lamports of an address. Unknown addresses have
// a zero balance.
type SystemAccount struct {
	Address  solana.PublicKey
	Lamports uint64
}

func (a *SystemAccount) Debit(lamports uint64) error {
	if a.Lamports < lamports {
		return ErrInsufficientLamports
	}
	a.Lamports -= lamports
	return nil
}

func (a *SystemAccount) Credit(lamports uint64) error {
	if a.Lamports > math.MaxUint64-lamports {
		return ErrAmountOverflow
	}
	a.Lamports += lamports
	return nil
}
