package uow

import (
	"context"
	"fmt"
)

// Transactional begins a transaction
type Transactional interface {
	Begin(ctx context.Context, readOnly bool) (Tx, error)
}

// Tx represents an all-or-nothing transaction, by committing or rolling back
// a set of read/write operations
type Tx interface {
	Commit() error
	Rollback() error
}

// ContextProvider returns a context key. Transactionals returning the same
// key share the same transaction within a UnitOfWork.
type ContextProvider interface {
	ContextKey() interface{}
}

type txKey struct {
	key interface{}
}

// TxFromContext returns the transaction opened by a running UnitOfWork for
// the given key, if any.
func TxFromContext(ctx context.Context, key interface{}) (Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txKey{key}).(Tx)
	return tx, ok
}

// KeyOf returns the key under which the transaction of the given
// Transactional is stored in the context.
func KeyOf(r Transactional) interface{} {
	if cp, ok := r.(ContextProvider); ok {
		return cp.ContextKey()
	}
	return r
}

// UnitOfWork allows to run multiple transactions as one
type UnitOfWork struct {
	repositories []Transactional
}

// NewUnitOfWork returns a new UnitOfWork with the given Transaction interfaces
func NewUnitOfWork(repositories ...Transactional) *UnitOfWork {
	return &UnitOfWork{repositories}
}

// Run executes the given function over the current UnitOfWork. The given
// function is likely making read/write operations to different repositories in
// a transactional way. Run makes sure that all the transactions within the
// given function are either all committed to the relative storage or rolled
// back if any error occur. Read-only units are always rolled back.
func (u *UnitOfWork) Run(
	ctx context.Context, readOnly bool, fn func(ctx context.Context) error,
) (err error) {
	txs := make([]Tx, 0, len(u.repositories))

	defer func() {
		if err == nil && !readOnly {
			return
		}
		for _, tx := range txs {
			if _err := tx.Rollback(); _err != nil && err == nil {
				err = _err
			}
		}
	}()

	defer func() {
		if err != nil || readOnly {
			return
		}
		for _, tx := range txs {
			if _err := tx.Commit(); _err != nil {
				// Commit of a shared storage tx fails as a whole, remaining
				// ones are rolled back by the deferred func above.
				err = _err
				return
			}
		}
	}()

	defer func() {
		// panicking returns an error that causes txs rollback
		if rec := recover(); rec != nil {
			err = fmt.Errorf("recovered: %v", rec)
		}
	}()

	seen := make(map[interface{}]struct{})
	for _, r := range u.repositories {
		key := KeyOf(r)
		// make sure that the same context providers share the same context
		if _, ok := seen[key]; ok {
			continue
		}
		// join the transaction of an outer unit of work, if any
		if _, ok := TxFromContext(ctx, key); ok {
			seen[key] = struct{}{}
			continue
		}

		tx, err := r.Begin(ctx, readOnly)
		if err != nil {
			return err
		}
		seen[key] = struct{}{}
		ctx = context.WithValue(ctx, txKey{key}, tx)
		txs = append(txs, tx)
	}

	return fn(ctx)
}
