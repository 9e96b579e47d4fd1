package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

func TestRunTransaction(t *testing.T) {
	managers := createRepoManagers(t)

	for i := range managers {
		m := managers[i]

		t.Run(m.Name, func(t *testing.T) {
			t.Run("commit", func(t *testing.T) {
				testTransactionCommit(t, m)
			})
			t.Run("rollback", func(t *testing.T) {
				testTransactionRollback(t, m)
			})
			t.Run("read_only", func(t *testing.T) {
				testReadOnlyTransaction(t, m)
			})
		})
	}
}

func testTransactionCommit(t *testing.T, m repoManager) {
	offer := makeRandomOffer(t, 1000)
	payer := offer.Maker

	result, err := m.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			if err := m.OfferRepository().AddOffer(ctx, offer); err != nil {
				return nil, err
			}
			if err := m.AccountRepository().UpdateSystemAccount(
				ctx, payer, creditFn(offer.Reserve),
			); err != nil {
				return nil, err
			}
			return offer.ID, nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, offer.ID, result)

	_, err = m.OfferRepository().GetOffer(ctx, offer.ID)
	require.NoError(t, err)
	account, err := m.AccountRepository().GetSystemAccount(ctx, payer)
	require.NoError(t, err)
	require.Equal(t, offer.Reserve, account.Lamports)
}

func testTransactionRollback(t *testing.T, m repoManager) {
	offer := makeRandomOffer(t, 2000)
	payer := offer.Maker
	errAbort := errors.New("abort")

	_, err := m.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			if err := m.AccountRepository().UpdateSystemAccount(
				ctx, payer, creditFn(offer.Reserve),
			); err != nil {
				return nil, err
			}
			if err := m.OfferRepository().AddOffer(ctx, offer); err != nil {
				return nil, err
			}

			// Changes are visible within the transaction.
			got, err := m.OfferRepository().GetOffer(ctx, offer.ID)
			if err != nil {
				return nil, err
			}
			require.Equal(t, offer.ID, got.ID)

			return nil, errAbort
		},
	)
	require.ErrorIs(t, err, errAbort)

	_, err = m.OfferRepository().GetOffer(ctx, offer.ID)
	require.ErrorIs(t, err, domain.ErrOfferNotFound)
	account, err := m.AccountRepository().GetSystemAccount(ctx, payer)
	require.NoError(t, err)
	require.Zero(t, account.Lamports)

	// The id of a rolled back offer is still available.
	err = m.OfferRepository().AddOffer(ctx, offer)
	require.NoError(t, err)
}

func testReadOnlyTransaction(t *testing.T, m repoManager) {
	offer := makeRandomOffer(t, 3000)

	_, err := m.RunTransaction(
		ctx, readOnly, func(ctx context.Context) (interface{}, error) {
			return nil, m.OfferRepository().AddOffer(ctx, offer)
		},
	)
	require.ErrorIs(t, err, domain.ErrReadOnlyTx)

	_, err = m.OfferRepository().GetOffer(ctx, offer.ID)
	require.ErrorIs(t, err, domain.ErrOfferNotFound)
}

func creditFn(
	lamports uint64,
) func(*domain.SystemAccount) (*domain.SystemAccount, error) {
	return func(a *domain.SystemAccount) (*domain.SystemAccount, error) {
		if err := a.Credit(lamports); err != nil {
			return nil, err
		}
		return a, nil
	}
}
