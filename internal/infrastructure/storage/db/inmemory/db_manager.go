package inmemory

import (
	"context"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/internal/storageutil/uow"
)

type repoManager struct {
	offerRepository   *offerRepositoryImpl
	accountRepository *accountRepositoryImpl
}

// NewRepoManager returns a ports.RepoManager keeping all data in memory.
// Write transactions are serialized.
func NewRepoManager() ports.RepoManager {
	store := newStore()
	return &repoManager{
		offerRepository:   newOfferRepositoryImpl(store),
		accountRepository: newAccountRepositoryImpl(store),
	}
}

func (r *repoManager) OfferRepository() domain.OfferRepository {
	return r.offerRepository
}

func (r *repoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

func (r *repoManager) RunTransaction(
	ctx context.Context, readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	var result interface{}
	unit := uow.NewUnitOfWork(r.offerRepository, r.accountRepository)
	err := unit.Run(ctx, readOnly, func(ctx context.Context) (err error) {
		result, err = handler(ctx)
		return
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repoManager) Close() {}
