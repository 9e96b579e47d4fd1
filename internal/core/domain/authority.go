package domain

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
)

// Authority is the identity that authorizes a movement of tokens out of an
// account, or its closure.
// A signer authority is a party whose signature was already verified by the
// caller. A derived authority is a keyless program address: it carries the
// seeds it was derived from so that the ledger can re-derive and check the
// address without any private key.
type Authority struct {
	address solana.PublicKey
	seeds   [][]byte
}

// NewSignerAuthority returns the authority of a verified signer.
func NewSignerAuthority(signer solana.PublicKey) Authority {
	return Authority{address: signer}
}

// DeriveAuthority returns the authority of the program address derived from
// the given seeds, bump included, under programID.
func DeriveAuthority(
	programID solana.PublicKey, seeds ...[]byte,
) (Authority, error) {
	if len(seeds) <= 0 {
		return Authority{}, ErrInvalidAuthority
	}
	addr, err := solana.CreateProgramAddress(seeds, programID)
	if err != nil {
		return Authority{}, ErrInvalidAuthority
	}
	return Authority{address: addr, seeds: copySeeds(seeds)}, nil
}

func (a Authority) Address() solana.PublicKey {
	return a.address
}

func (a Authority) Seeds() [][]byte {
	return copySeeds(a.seeds)
}

func (a Authority) IsDerived() bool {
	return len(a.seeds) > 0
}

func (a Authority) IsZero() bool {
	return a.address.IsZero()
}

// Verify makes sure the authority is usable for the given program: signer
// authorities must be non-empty, derived ones must re-derive to their
// address.
func (a Authority) Verify(programID solana.PublicKey) error {
	if a.IsZero() {
		return ErrInvalidAuthority
	}
	if !a.IsDerived() {
		return nil
	}
	addr, err := solana.CreateProgramAddress(a.seeds, programID)
	if err != nil || !bytes.Equal(addr[:], a.address[:]) {
		return ErrInvalidAuthority
	}
	return nil
}

func copySeeds(seeds [][]byte) [][]byte {
	if seeds == nil {
		return nil
	}
	out := make([][]byte, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, append([]byte{}, s...))
	}
	return out
}
