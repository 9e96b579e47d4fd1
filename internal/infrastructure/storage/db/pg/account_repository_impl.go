package postgresdb

import (
	"context"
	"errors"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/jackc/pgx/v4"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/pg/sqlc/queries"
)

type accountRepositoryImpl struct {
	transactional
}

func (r *accountRepositoryImpl) AddMint(
	ctx context.Context, mint *domain.Mint,
) error {
	txBody := func(querierWithTx *queries.Queries) error {
		if err := querierWithTx.InsertMint(ctx, queries.InsertMintParams{
			Address:   mint.Address.String(),
			Authority: mint.Authority.String(),
			Decimals:  int16(mint.Decimals),
			Supply:    int64(mint.Supply),
		}); err != nil {
			if isPgError(err, uniqueViolation) {
				return domain.ErrMintAlreadyExists
			}
			return err
		}
		return nil
	}

	return r.execTx(ctx, false, txBody)
}

func (r *accountRepositoryImpl) GetMint(
	ctx context.Context, address solana.PublicKey,
) (*domain.Mint, error) {
	var mint *domain.Mint
	txBody := func(querierWithTx *queries.Queries) error {
		row, err := querierWithTx.GetMint(ctx, address.String())
		if err != nil {
			return mintNotFound(err)
		}
		mint, err = toMint(row)
		return err
	}

	if err := r.execTx(ctx, true, txBody); err != nil {
		return nil, err
	}
	return mint, nil
}

func (r *accountRepositoryImpl) GetAllMints(
	ctx context.Context,
) ([]domain.Mint, error) {
	var mints []domain.Mint
	txBody := func(querierWithTx *queries.Queries) error {
		rows, err := querierWithTx.ListMints(ctx)
		if err != nil {
			return err
		}
		mints = make([]domain.Mint, 0, len(rows))
		for _, row := range rows {
			mint, err := toMint(row)
			if err != nil {
				return err
			}
			mints = append(mints, *mint)
		}
		return nil
	}

	if err := r.execTx(ctx, true, txBody); err != nil {
		return nil, err
	}
	// collation of the db might differ from byte order.
	sort.SliceStable(mints, func(i, j int) bool {
		return mints[i].Address.String() < mints[j].Address.String()
	})
	return mints, nil
}

func (r *accountRepositoryImpl) UpdateMint(
	ctx context.Context, address solana.PublicKey,
	updateFn func(m *domain.Mint) (*domain.Mint, error),
) error {
	txBody := func(querierWithTx *queries.Queries) error {
		row, err := querierWithTx.GetMintForUpdate(ctx, address.String())
		if err != nil {
			return mintNotFound(err)
		}
		mint, err := toMint(row)
		if err != nil {
			return err
		}
		updated, err := updateFn(mint)
		if err != nil {
			return err
		}
		return querierWithTx.UpdateMint(ctx, queries.UpdateMintParams{
			Address:   address.String(),
			Authority: updated.Authority.String(),
			Decimals:  int16(updated.Decimals),
			Supply:    int64(updated.Supply),
		})
	}

	return r.execTx(ctx, false, txBody)
}

func (r *accountRepositoryImpl) GetSystemAccount(
	ctx context.Context, address solana.PublicKey,
) (*domain.SystemAccount, error) {
	account := &domain.SystemAccount{Address: address}
	txBody := func(querierWithTx *queries.Queries) error {
		row, err := querierWithTx.GetSystemAccount(ctx, address.String())
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		account.Lamports = uint64(row.Lamports)
		return nil
	}

	if err := r.execTx(ctx, true, txBody); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepositoryImpl) UpdateSystemAccount(
	ctx context.Context, address solana.PublicKey,
	updateFn func(a *domain.SystemAccount) (*domain.SystemAccount, error),
) error {
	txBody := func(querierWithTx *queries.Queries) error {
		account := &domain.SystemAccount{Address: address}
		row, err := querierWithTx.GetSystemAccountForUpdate(
			ctx, address.String(),
		)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if err == nil {
			account.Lamports = uint64(row.Lamports)
		}

		updated, err := updateFn(account)
		if err != nil {
			return err
		}
		return querierWithTx.UpsertSystemAccount(
			ctx, queries.UpsertSystemAccountParams{
				Address:  address.String(),
				Lamports: int64(updated.Lamports),
			},
		)
	}

	return r.execTx(ctx, false, txBody)
}

func (r *accountRepositoryImpl) AddTokenAccount(
	ctx context.Context, account *domain.TokenAccount,
) error {
	txBody := func(querierWithTx *queries.Queries) error {
		if err := querierWithTx.InsertTokenAccount(
			ctx, queries.InsertTokenAccountParams{
				Address: account.Address.String(),
				Mint:    account.Mint.String(),
				Owner:   account.Owner.String(),
				Amount:  int64(account.Amount),
				Reserve: int64(account.Reserve),
			},
		); err != nil {
			if isPgError(err, uniqueViolation) {
				return domain.ErrTokenAccountAlreadyExists
			}
			if isPgError(err, foreignKeyViolation) {
				return domain.ErrMintNotFound
			}
			return err
		}
		return nil
	}

	return r.execTx(ctx, false, txBody)
}

func (r *accountRepositoryImpl) GetTokenAccount(
	ctx context.Context, address solana.PublicKey,
) (*domain.TokenAccount, error) {
	var account *domain.TokenAccount
	txBody := func(querierWithTx *queries.Queries) error {
		row, err := querierWithTx.GetTokenAccount(ctx, address.String())
		if err != nil {
			return tokenAccountNotFound(err)
		}
		account, err = toTokenAccount(row)
		return err
	}

	if err := r.execTx(ctx, true, txBody); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepositoryImpl) GetTokenAccountsByOwner(
	ctx context.Context, owner solana.PublicKey,
) ([]domain.TokenAccount, error) {
	var accounts []domain.TokenAccount
	txBody := func(querierWithTx *queries.Queries) error {
		rows, err := querierWithTx.ListTokenAccountsByOwner(
			ctx, owner.String(),
		)
		if err != nil {
			return err
		}
		accounts = make([]domain.TokenAccount, 0, len(rows))
		for _, row := range rows {
			account, err := toTokenAccount(row)
			if err != nil {
				return err
			}
			accounts = append(accounts, *account)
		}
		return nil
	}

	if err := r.execTx(ctx, true, txBody); err != nil {
		return nil, err
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Address.String() < accounts[j].Address.String()
	})
	return accounts, nil
}

func (r *accountRepositoryImpl) UpdateTokenAccount(
	ctx context.Context, address solana.PublicKey,
	updateFn func(a *domain.TokenAccount) (*domain.TokenAccount, error),
) error {
	txBody := func(querierWithTx *queries.Queries) error {
		row, err := querierWithTx.GetTokenAccountForUpdate(
			ctx, address.String(),
		)
		if err != nil {
			return tokenAccountNotFound(err)
		}
		account, err := toTokenAccount(row)
		if err != nil {
			return err
		}
		updated, err := updateFn(account)
		if err != nil {
			return err
		}
		return querierWithTx.UpdateTokenAccount(
			ctx, queries.UpdateTokenAccountParams{
				Address: address.String(),
				Mint:    updated.Mint.String(),
				Owner:   updated.Owner.String(),
				Amount:  int64(updated.Amount),
				Reserve: int64(updated.Reserve),
			},
		)
	}

	return r.execTx(ctx, false, txBody)
}

func (r *accountRepositoryImpl) DeleteTokenAccount(
	ctx context.Context, address solana.PublicKey,
) error {
	txBody := func(querierWithTx *queries.Queries) error {
		count, err := querierWithTx.DeleteTokenAccount(ctx, address.String())
		if err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrTokenAccountNotFound
		}
		return nil
	}

	return r.execTx(ctx, false, txBody)
}

func mintNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrMintNotFound
	}
	return err
}

func tokenAccountNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrTokenAccountNotFound
	}
	return err
}
