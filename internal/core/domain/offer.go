package domain

import (
	"encoding/binary"
	"time"

	"github.com/gagliardetto/solana-go"
)

// OfferSeedPrefix is the fixed tag of the seeds an offer address is derived
// from.
const OfferSeedPrefix = "offer"

// Offer defines the escrow record of a swap of a fixed amount of token B for
// the whole amount of token A held by the offer's vault.
type Offer struct {
	// Unique identifier, also seed of the offer address.
	ID uint64
	// Creator of the offer, entitled to refund or to be paid on take.
	Maker solana.PublicKey
	// Mint of the tokens locked in the vault.
	TokenMintA solana.PublicKey
	// Mint of the tokens the maker wants in return.
	TokenMintB solana.PublicKey
	// Exact amount of token B required to take the offer.
	TokenBWantedAmount uint64
	// Canonical bump of the offer address.
	Bump uint8
	// Lamports paid by the maker to store the offer record.
	Reserve uint64
	// Unix timestamp of creation.
	CreatedAt int64
}

// NewOffer returns a new offer whose bump is the canonical one of the address
// derived from the given id under programID.
func NewOffer(
	programID solana.PublicKey, id uint64,
	maker, tokenMintA, tokenMintB solana.PublicKey,
	tokenBWantedAmount, reserve uint64,
) (*Offer, error) {
	if maker.IsZero() {
		return nil, ErrInvalidMaker
	}
	if tokenMintA.IsZero() || tokenMintB.IsZero() ||
		tokenMintA.Equals(tokenMintB) {
		return nil, ErrInvalidMint
	}
	if tokenBWantedAmount == 0 {
		return nil, ErrInvalidAmount
	}

	_, bump, err := FindOfferAddress(programID, id)
	if err != nil {
		return nil, err
	}

	return &Offer{
		ID:                 id,
		Maker:              maker,
		TokenMintA:         tokenMintA,
		TokenMintB:         tokenMintB,
		TokenBWantedAmount: tokenBWantedAmount,
		Bump:               bump,
		Reserve:            reserve,
		CreatedAt:          time.Now().Unix(),
	}, nil
}

// OfferSeeds returns the seeds, without bump, of the offer with given id.
func OfferSeeds(id uint64) [][]byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, id)
	return [][]byte{[]byte(OfferSeedPrefix), buf}
}

// FindOfferAddress returns the address and canonical bump of the offer with
// the given id.
func FindOfferAddress(
	programID solana.PublicKey, id uint64,
) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(OfferSeeds(id), programID)
}

// SignerSeeds returns the seeds, bump included, that derive the offer address.
func (o Offer) SignerSeeds() [][]byte {
	return append(OfferSeeds(o.ID), []byte{o.Bump})
}

// Address re-derives the offer address from its cached bump.
func (o Offer) Address(programID solana.PublicKey) (solana.PublicKey, error) {
	addr, err := solana.CreateProgramAddress(o.SignerSeeds(), programID)
	if err != nil {
		return solana.PublicKey{}, ErrInvalidAuthority
	}
	return addr, nil
}

// Authority returns the derived authority that owns the offer's vault.
func (o Offer) Authority(programID solana.PublicKey) (Authority, error) {
	return DeriveAuthority(programID, o.SignerSeeds()...)
}

// Vault returns the address of the token A account owned by the offer.
func (o Offer) Vault(programID solana.PublicKey) (solana.PublicKey, error) {
	addr, err := o.Address(programID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return AssociatedTokenAddress(addr, o.TokenMintA)
}

// AssociatedTokenAddress returns the address of the canonical token account of
// owner for the given mint.
func AssociatedTokenAddress(
	owner, mint solana.PublicKey,
) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	return addr, err
}
