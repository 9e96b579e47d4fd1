package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type accountRepositoryImpl struct {
	transactional
}

func newAccountRepositoryImpl(store *badgerhold.Store) *accountRepositoryImpl {
	return &accountRepositoryImpl{transactional{store}}
}

func (r *accountRepositoryImpl) AddMint(
	ctx context.Context, mint *domain.Mint,
) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		key := mint.Address.String()
		if err := r.store.TxInsert(txn, key, toMintDTO(*mint)); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return domain.ErrMintAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (r *accountRepositoryImpl) GetMint(
	ctx context.Context, address solana.PublicKey,
) (*domain.Mint, error) {
	var mint *domain.Mint
	err := r.view(ctx, func(txn *badger.Txn) (err error) {
		mint, err = r.getMint(txn, address)
		return
	})
	return mint, err
}

func (r *accountRepositoryImpl) GetAllMints(
	ctx context.Context,
) ([]domain.Mint, error) {
	var dtos []Mint
	if err := r.view(ctx, func(txn *badger.Txn) error {
		return r.store.TxFind(txn, &dtos, nil)
	}); err != nil {
		return nil, err
	}

	mints := make([]domain.Mint, 0, len(dtos))
	for _, dto := range dtos {
		mint, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		mints = append(mints, *mint)
	}
	sort.SliceStable(mints, func(i, j int) bool {
		return mints[i].Address.String() < mints[j].Address.String()
	})
	return mints, nil
}

func (r *accountRepositoryImpl) UpdateMint(
	ctx context.Context, address solana.PublicKey,
	updateFn func(m *domain.Mint) (*domain.Mint, error),
) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		mint, err := r.getMint(txn, address)
		if err != nil {
			return err
		}
		updated, err := updateFn(mint)
		if err != nil {
			return err
		}
		return r.store.TxUpdate(txn, address.String(), toMintDTO(*updated))
	})
}

func (r *accountRepositoryImpl) GetSystemAccount(
	ctx context.Context, address solana.PublicKey,
) (*domain.SystemAccount, error) {
	var account *domain.SystemAccount
	err := r.view(ctx, func(txn *badger.Txn) (err error) {
		account, err = r.getSystemAccount(txn, address)
		return
	})
	return account, err
}

func (r *accountRepositoryImpl) UpdateSystemAccount(
	ctx context.Context, address solana.PublicKey,
	updateFn func(a *domain.SystemAccount) (*domain.SystemAccount, error),
) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		account, err := r.getSystemAccount(txn, address)
		if err != nil {
			return err
		}
		updated, err := updateFn(account)
		if err != nil {
			return err
		}
		return r.store.TxUpsert(txn, address.String(), SystemAccount{
			Address:  address.String(),
			Lamports: updated.Lamports,
		})
	})
}

func (r *accountRepositoryImpl) AddTokenAccount(
	ctx context.Context, account *domain.TokenAccount,
) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		key := account.Address.String()
		if err := r.store.TxInsert(
			txn, key, toTokenAccountDTO(*account),
		); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return domain.ErrTokenAccountAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (r *accountRepositoryImpl) GetTokenAccount(
	ctx context.Context, address solana.PublicKey,
) (*domain.TokenAccount, error) {
	var account *domain.TokenAccount
	err := r.view(ctx, func(txn *badger.Txn) (err error) {
		account, err = r.getTokenAccount(txn, address)
		return
	})
	return account, err
}

func (r *accountRepositoryImpl) GetTokenAccountsByOwner(
	ctx context.Context, owner solana.PublicKey,
) ([]domain.TokenAccount, error) {
	var dtos []TokenAccount
	query := badgerhold.Where("Owner").Eq(owner.String()).Index("Owner")
	if err := r.view(ctx, func(txn *badger.Txn) error {
		return r.store.TxFind(txn, &dtos, query)
	}); err != nil {
		return nil, err
	}

	accounts := make([]domain.TokenAccount, 0, len(dtos))
	for _, dto := range dtos {
		account, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
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
	return r.update(ctx, func(txn *badger.Txn) error {
		account, err := r.getTokenAccount(txn, address)
		if err != nil {
			return err
		}
		updated, err := updateFn(account)
		if err != nil {
			return err
		}
		return r.store.TxUpdate(
			txn, address.String(), toTokenAccountDTO(*updated),
		)
	})
}

func (r *accountRepositoryImpl) DeleteTokenAccount(
	ctx context.Context, address solana.PublicKey,
) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		if err := r.store.TxDelete(
			txn, address.String(), TokenAccount{},
		); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return domain.ErrTokenAccountNotFound
			}
			return err
		}
		return nil
	})
}

func (r *accountRepositoryImpl) getMint(
	txn *badger.Txn, address solana.PublicKey,
) (*domain.Mint, error) {
	var dto Mint
	if err := r.store.TxGet(txn, address.String(), &dto); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrMintNotFound
		}
		return nil, err
	}
	return dto.toDomain()
}

func (r *accountRepositoryImpl) getSystemAccount(
	txn *badger.Txn, address solana.PublicKey,
) (*domain.SystemAccount, error) {
	var dto SystemAccount
	if err := r.store.TxGet(txn, address.String(), &dto); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return &domain.SystemAccount{Address: address}, nil
		}
		return nil, err
	}
	return &domain.SystemAccount{Address: address, Lamports: dto.Lamports}, nil
}

func (r *accountRepositoryImpl) getTokenAccount(
	txn *badger.Txn, address solana.PublicKey,
) (*domain.TokenAccount, error) {
	var dto TokenAccount
	if err := r.store.TxGet(txn, address.String(), &dto); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrTokenAccountNotFound
		}
		return nil, err
	}
	return dto.toDomain()
}
