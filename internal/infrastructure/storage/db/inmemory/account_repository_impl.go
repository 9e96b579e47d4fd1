package inmemory

import (
	"context"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type accountRepositoryImpl struct {
	transactional
}

func newAccountRepositoryImpl(store *store) *accountRepositoryImpl {
	return &accountRepositoryImpl{transactional{store}}
}

func (r *accountRepositoryImpl) AddMint(
	ctx context.Context, mint *domain.Mint,
) error {
	return r.store.update(ctx, func(st *state) error {
		if _, ok := st.mints[mint.Address]; ok {
			return domain.ErrMintAlreadyExists
		}
		st.mints[mint.Address] = *mint
		return nil
	})
}

func (r *accountRepositoryImpl) GetMint(
	ctx context.Context, address solana.PublicKey,
) (*domain.Mint, error) {
	var mint *domain.Mint
	err := r.store.view(ctx, func(st *state) error {
		m, ok := st.mints[address]
		if !ok {
			return domain.ErrMintNotFound
		}
		mint = &m
		return nil
	})
	return mint, err
}

func (r *accountRepositoryImpl) GetAllMints(
	ctx context.Context,
) ([]domain.Mint, error) {
	mints := make([]domain.Mint, 0)
	//nolint
	r.store.view(ctx, func(st *state) error {
		for _, m := range st.mints {
			mints = append(mints, m)
		}
		return nil
	})
	sort.SliceStable(mints, func(i, j int) bool {
		return mints[i].Address.String() < mints[j].Address.String()
	})
	return mints, nil
}

func (r *accountRepositoryImpl) UpdateMint(
	ctx context.Context, address solana.PublicKey,
	updateFn func(m *domain.Mint) (*domain.Mint, error),
) error {
	return r.store.update(ctx, func(st *state) error {
		m, ok := st.mints[address]
		if !ok {
			return domain.ErrMintNotFound
		}
		updated, err := updateFn(&m)
		if err != nil {
			return err
		}
		st.mints[address] = *updated
		return nil
	})
}

func (r *accountRepositoryImpl) GetSystemAccount(
	ctx context.Context, address solana.PublicKey,
) (*domain.SystemAccount, error) {
	account := &domain.SystemAccount{Address: address}
	//nolint
	r.store.view(ctx, func(st *state) error {
		if a, ok := st.systemAccounts[address]; ok {
			account = &a
		}
		return nil
	})
	return account, nil
}

func (r *accountRepositoryImpl) UpdateSystemAccount(
	ctx context.Context, address solana.PublicKey,
	updateFn func(a *domain.SystemAccount) (*domain.SystemAccount, error),
) error {
	return r.store.update(ctx, func(st *state) error {
		a, ok := st.systemAccounts[address]
		if !ok {
			a = domain.SystemAccount{Address: address}
		}
		updated, err := updateFn(&a)
		if err != nil {
			return err
		}
		st.systemAccounts[address] = *updated
		return nil
	})
}

func (r *accountRepositoryImpl) AddTokenAccount(
	ctx context.Context, account *domain.TokenAccount,
) error {
	return r.store.update(ctx, func(st *state) error {
		if _, ok := st.tokenAccounts[account.Address]; ok {
			return domain.ErrTokenAccountAlreadyExists
		}
		st.tokenAccounts[account.Address] = *account
		return nil
	})
}

func (r *accountRepositoryImpl) GetTokenAccount(
	ctx context.Context, address solana.PublicKey,
) (*domain.TokenAccount, error) {
	var account *domain.TokenAccount
	err := r.store.view(ctx, func(st *state) error {
		a, ok := st.tokenAccounts[address]
		if !ok {
			return domain.ErrTokenAccountNotFound
		}
		account = &a
		return nil
	})
	return account, err
}

func (r *accountRepositoryImpl) GetTokenAccountsByOwner(
	ctx context.Context, owner solana.PublicKey,
) ([]domain.TokenAccount, error) {
	accounts := make([]domain.TokenAccount, 0)
	//nolint
	r.store.view(ctx, func(st *state) error {
		for _, a := range st.tokenAccounts {
			if a.Owner.Equals(owner) {
				accounts = append(accounts, a)
			}
		}
		return nil
	})
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Address.String() < accounts[j].Address.String()
	})
	return accounts, nil
}

func (r *accountRepositoryImpl) UpdateTokenAccount(
	ctx context.Context, address solana.PublicKey,
	updateFn func(a *domain.TokenAccount) (*domain.TokenAccount, error),
) error {
	return r.store.update(ctx, func(st *state) error {
		a, ok := st.tokenAccounts[address]
		if !ok {
			return domain.ErrTokenAccountNotFound
		}
		updated, err := updateFn(&a)
		if err != nil {
			return err
		}
		st.tokenAccounts[address] = *updated
		return nil
	})
}

func (r *accountRepositoryImpl) DeleteTokenAccount(
	ctx context.Context, address solana.PublicKey,
) error {
	return r.store.update(ctx, func(st *state) error {
		if _, ok := st.tokenAccounts[address]; !ok {
			return domain.ErrTokenAccountNotFound
		}
		delete(st.tokenAccounts, address)
		return nil
	})
}
