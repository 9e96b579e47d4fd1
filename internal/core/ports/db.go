package ports

import (
	"context"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// RepoManager interface defines the methods for offers and ledger accounts.
type RepoManager interface {
	OfferRepository() domain.OfferRepository
	AccountRepository() domain.AccountRepository

	// RunTransaction runs the handler in a single storage transaction shared
	// by all repositories. Every repository method called with the context
	// given to the handler joins such transaction. The transaction is
	// committed only if the handler returns no error and it is not read-only.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
