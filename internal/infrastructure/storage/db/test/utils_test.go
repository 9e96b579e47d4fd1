package db_test

import (
	"context"
	"os"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
)

var (
	readOnly  = true
	ctx       = context.Background()
	programID = solana.MustPublicKeyFromBase58(
		"CuGineD2a5MkzyhvYa7KFCJHzNZ4BkLiata3V6CMtGu7",
	)
)

type repoManager struct {
	Name string
	ports.RepoManager
}

// createRepoManagers returns a fresh instance of every storage driver.
// Postgres is included only if the ESCROW_TEST_PG_ADDR env var is set.
func createRepoManagers(t *testing.T) []repoManager {
	badgerManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)

	diskDir := t.TempDir()
	badgerDiskManager, err := dbbadger.NewRepoManager(diskDir, nil)
	require.NoError(t, err)

	managers := []repoManager{
		{"inmemory", inmemory.NewRepoManager()},
		{"badger", badgerManager},
		{"badger_disk", badgerDiskManager},
	}

	if addr := os.Getenv(pgAddrEnv); len(addr) > 0 {
		pgManager, err := setupPgDb(addr)
		require.NoError(t, err)
		managers = append(managers, repoManager{"postgres", pgManager})
	}

	t.Cleanup(func() {
		for _, m := range managers {
			m.Close()
		}
	})
	return managers
}

func randomKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func makeRandomOffer(t *testing.T, id uint64) *domain.Offer {
	offer, err := domain.NewOffer(
		programID, id, randomKey(), randomKey(), randomKey(), 500, 1000,
	)
	require.NoError(t, err)
	return offer
}

func makeRandomMint() *domain.Mint {
	return &domain.Mint{
		Address:   randomKey(),
		Authority: randomKey(),
		Decimals:  6,
	}
}

func makeRandomTokenAccount(
	t *testing.T, mint, owner solana.PublicKey, amount uint64,
) *domain.TokenAccount {
	addr, err := domain.AssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	return &domain.TokenAccount{
		Address: addr,
		Mint:    mint,
		Owner:   owner,
		Amount:  amount,
		Reserve: 2039280,
	}
}
