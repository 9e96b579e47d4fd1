package domain_test

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

var (
	programID      = solana.MustPublicKeyFromBase58("CuGineD2a5MkzyhvYa7KFCJHzNZ4BkLiata3V6CMtGu7")
	otherProgramID = solana.MustPublicKeyFromBase58("6MQ9dDq6siEgRShJa2xbkz6QoECHiqv6MP18FA6hov3Z")
)

func newKey(t *testing.T) solana.PublicKey {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey()
}

func TestNewOffer(t *testing.T) {
	t.Parallel()

	maker, mintA, mintB := newKey(t), newKey(t), newKey(t)

	offer, err := domain.NewOffer(programID, 7, maker, mintA, mintB, 500, 10)
	require.NoError(t, err)
	require.NotNil(t, offer)
	require.Equal(t, uint64(7), offer.ID)
	require.Equal(t, maker, offer.Maker)
	require.Equal(t, mintA, offer.TokenMintA)
	require.Equal(t, mintB, offer.TokenMintB)
	require.Equal(t, uint64(500), offer.TokenBWantedAmount)
	require.Equal(t, uint64(10), offer.Reserve)
	require.NotZero(t, offer.CreatedAt)

	expectedAddr, expectedBump, err := solana.FindProgramAddress(
		[][]byte{[]byte("offer"), {7, 0, 0, 0, 0, 0, 0, 0}}, programID,
	)
	require.NoError(t, err)
	require.Equal(t, expectedBump, offer.Bump)

	addr, err := offer.Address(programID)
	require.NoError(t, err)
	require.Equal(t, expectedAddr, addr)

	vault, err := offer.Vault(programID)
	require.NoError(t, err)
	expectedVault, _, err := solana.FindAssociatedTokenAddress(addr, mintA)
	require.NoError(t, err)
	require.Equal(t, expectedVault, vault)

	authority, err := offer.Authority(programID)
	require.NoError(t, err)
	require.True(t, authority.IsDerived())
	require.Equal(t, addr, authority.Address())
	require.NoError(t, authority.Verify(programID))
}

func TestFailingNewOffer(t *testing.T) {
	t.Parallel()

	maker, mintA, mintB := newKey(t), newKey(t), newKey(t)

	tests := []struct {
		name          string
		maker         solana.PublicKey
		mintA         solana.PublicKey
		mintB         solana.PublicKey
		wantedAmount  uint64
		expectedError error
	}{
		{
			name:          "missing_maker",
			mintA:         mintA,
			mintB:         mintB,
			wantedAmount:  1,
			expectedError: domain.ErrInvalidMaker,
		},
		{
			name:          "missing_mint_a",
			maker:         maker,
			mintB:         mintB,
			wantedAmount:  1,
			expectedError: domain.ErrInvalidMint,
		},
		{
			name:          "same_mints",
			maker:         maker,
			mintA:         mintA,
			mintB:         mintA,
			wantedAmount:  1,
			expectedError: domain.ErrInvalidMint,
		},
		{
			name:          "zero_wanted_amount",
			maker:         maker,
			mintA:         mintA,
			mintB:         mintB,
			expectedError: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			offer, err := domain.NewOffer(
				programID, 1, tt.maker, tt.mintA, tt.mintB, tt.wantedAmount, 0,
			)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, offer)
		})
	}
}

func TestOfferSeeds(t *testing.T) {
	t.Parallel()

	ids := []uint64{0, 7, 1 << 40, ^uint64(0)}
	for _, id := range ids {
		seeds := domain.OfferSeeds(id)
		require.Len(t, seeds, 2)
		require.Equal(t, "offer", string(seeds[0]))
		require.Equal(t, id, binary.LittleEndian.Uint64(seeds[1]))

		offer := domain.Offer{ID: id, Bump: 254}
		signerSeeds := offer.SignerSeeds()
		require.Len(t, signerSeeds, 3)
		require.Equal(t, []byte{254}, signerSeeds[2])
	}
}

func TestOfferAddressesAreDistinct(t *testing.T) {
	t.Parallel()

	seen := make(map[solana.PublicKey]uint64)
	for id := uint64(0); id < 32; id++ {
		addr, _, err := domain.FindOfferAddress(programID, id)
		require.NoError(t, err)
		prev, ok := seen[addr]
		require.Falsef(t, ok, "offers %d and %d share address %s", prev, id, addr)
		seen[addr] = id

		otherAddr, _, err := domain.FindOfferAddress(otherProgramID, id)
		require.NoError(t, err)
		require.NotEqual(t, addr, otherAddr)
	}
}
