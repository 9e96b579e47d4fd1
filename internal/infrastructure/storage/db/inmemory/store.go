package inmemory

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/storageutil/uow"
)

// state is the whole content of the in-memory storage. A committed state is
// never mutated: write transactions work on a clone that replaces it on
// commit.
type state struct {
	offers         map[uint64]domain.Offer
	retiredOffers  map[uint64]struct{}
	mints          map[solana.PublicKey]domain.Mint
	tokenAccounts  map[solana.PublicKey]domain.TokenAccount
	systemAccounts map[solana.PublicKey]domain.SystemAccount
}

func newState() *state {
	return &state{
		offers:         make(map[uint64]domain.Offer),
		retiredOffers:  make(map[uint64]struct{}),
		mints:          make(map[solana.PublicKey]domain.Mint),
		tokenAccounts:  make(map[solana.PublicKey]domain.TokenAccount),
		systemAccounts: make(map[solana.PublicKey]domain.SystemAccount),
	}
}

func (s *state) clone() *state {
	c := &state{
		offers:         make(map[uint64]domain.Offer, len(s.offers)),
		retiredOffers:  make(map[uint64]struct{}, len(s.retiredOffers)),
		mints:          make(map[solana.PublicKey]domain.Mint, len(s.mints)),
		tokenAccounts:  make(map[solana.PublicKey]domain.TokenAccount, len(s.tokenAccounts)),
		systemAccounts: make(map[solana.PublicKey]domain.SystemAccount, len(s.systemAccounts)),
	}
	for k, v := range s.offers {
		c.offers[k] = v
	}
	for k := range s.retiredOffers {
		c.retiredOffers[k] = struct{}{}
	}
	for k, v := range s.mints {
		c.mints[k] = v
	}
	for k, v := range s.tokenAccounts {
		c.tokenAccounts[k] = v
	}
	for k, v := range s.systemAccounts {
		c.systemAccounts[k] = v
	}
	return c
}

type store struct {
	// writers serializes write transactions.
	writers sync.Mutex

	lock  *sync.RWMutex
	state *state
}

func newStore() *store {
	return &store{
		lock:  &sync.RWMutex{},
		state: newState(),
	}
}

func (s *store) current() *state {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state
}

func (s *store) begin(readOnly bool) *tx {
	if readOnly {
		return &tx{store: s, state: s.current(), readOnly: true}
	}
	s.writers.Lock()
	return &tx{store: s, state: s.current().clone()}
}

// view runs fn against the state of the transaction in ctx, or against the
// latest committed one.
func (s *store) view(ctx context.Context, fn func(st *state) error) error {
	if t, ok := uow.TxFromContext(ctx, s); ok {
		return fn(t.(*tx).state)
	}
	return fn(s.current())
}

// update runs fn against the state of the transaction in ctx, or in a
// dedicated transaction otherwise.
func (s *store) update(ctx context.Context, fn func(st *state) error) error {
	if t, ok := uow.TxFromContext(ctx, s); ok {
		t := t.(*tx)
		if t.readOnly {
			return domain.ErrReadOnlyTx
		}
		return fn(t.state)
	}

	t := s.begin(false)
	if err := fn(t.state); err != nil {
		//nolint
		t.Rollback()
		return err
	}
	return t.Commit()
}

type tx struct {
	store    *store
	state    *state
	readOnly bool
	done     bool
}

func (t *tx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	if t.readOnly {
		return nil
	}

	t.store.lock.Lock()
	t.store.state = t.state
	t.store.lock.Unlock()
	t.store.writers.Unlock()
	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if !t.readOnly {
		t.store.writers.Unlock()
	}
	return nil
}

// transactional is embedded by repositories so that they share the same
// transaction within a unit of work.
type transactional struct {
	store *store
}

func (r transactional) Begin(_ context.Context, readOnly bool) (uow.Tx, error) {
	return r.store.begin(readOnly), nil
}

func (r transactional) ContextKey() interface{} {
	return r.store
}
