package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/internal/storageutil/uow"
	"github.com/timshannon/badgerhold/v4"
)

const escrowDir = "escrow"

type repoManager struct {
	store             *badgerhold.Store
	offerRepository   *offerRepositoryImpl
	accountRepository *accountRepositoryImpl
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger. An empty data dir
// makes the store in-memory.
func NewRepoManager(
	baseDbDir string, logger badger.Logger,
) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, escrowDir)
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening escrow db: %w", err)
	}

	return &repoManager{
		store:             store,
		offerRepository:   newOfferRepositoryImpl(store),
		accountRepository: newAccountRepositoryImpl(store),
	}, nil
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

func (r *repoManager) Close() {
	r.store.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

type tx struct {
	txn *badger.Txn
}

func (t *tx) Commit() error {
	return mapTxError(t.txn.Commit())
}

func (t *tx) Rollback() error {
	t.txn.Discard()
	return nil
}

func mapTxError(err error) error {
	switch {
	case errors.Is(err, badger.ErrConflict):
		return fmt.Errorf("%w: %w", domain.ErrConcurrentUpdate, err)
	case errors.Is(err, badger.ErrReadOnlyTxn):
		return fmt.Errorf("%w: %w", domain.ErrReadOnlyTx, err)
	}
	return err
}

// transactional is embedded by repositories so that they share the same
// badger transaction within a unit of work.
type transactional struct {
	store *badgerhold.Store
}

func (r transactional) Begin(
	_ context.Context, readOnly bool,
) (uow.Tx, error) {
	return &tx{r.store.Badger().NewTransaction(!readOnly)}, nil
}

func (r transactional) ContextKey() interface{} {
	return r.store
}

// view runs fn in the transaction of ctx, if any, or in a new read-only one.
func (r transactional) view(
	ctx context.Context, fn func(txn *badger.Txn) error,
) error {
	if t, ok := uow.TxFromContext(ctx, r.store); ok {
		return fn(t.(*tx).txn)
	}
	return r.store.Badger().View(fn)
}

// update runs fn in the transaction of ctx, if any, or in a new one.
func (r transactional) update(
	ctx context.Context, fn func(txn *badger.Txn) error,
) error {
	if t, ok := uow.TxFromContext(ctx, r.store); ok {
		return mapTxError(fn(t.(*tx).txn))
	}
	return mapTxError(r.store.Badger().Update(fn))
}
