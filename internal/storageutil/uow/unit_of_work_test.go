package uow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tx struct {
	value       string
	readOnly    bool
	committed   bool
	rolledBack  bool
	commitErr   error
	rollbackErr error
}

func (t *tx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *tx) Rollback() error {
	t.rolledBack = true
	return t.rollbackErr
}

type foo struct {
	tx       tx
	value    string
	beginErr error
	panic    interface{}
	err      error
	begun    int
}

func (f *foo) Begin(_ context.Context, readOnly bool) (Tx, error) {
	f.begun++
	f.tx.readOnly = readOnly
	return &f.tx, f.beginErr
}

func (f *foo) Foo(ctx context.Context) (string, error) {
	if f.panic != nil {
		panic(f.panic)
	}
	val := f.value
	if t, ok := TxFromContext(ctx, f); ok {
		val = t.(*tx).value
	}
	return val, f.err
}

type shared struct {
	foo
	key interface{}
}

func (s *shared) ContextKey() interface{} {
	return s.key
}

func TestUOWRun(t *testing.T) {
	tests := []struct {
		a             *foo
		b             *foo
		shouldError   bool
		expectedError error
		txaCommitted  bool
		txbCommitted  bool
		txaRolledBack bool
		txbRolledBack bool
		expectedValue string
	}{
		{
			a:             &foo{value: "a", tx: tx{value: "tx a"}},
			b:             &foo{value: "b", tx: tx{value: "tx b"}},
			shouldError:   false,
			txaCommitted:  true,
			txbCommitted:  true,
			expectedValue: "tx b",
		},
		{
			a:             &foo{value: "a", tx: tx{value: "tx a"}, beginErr: fmt.Errorf("begin err")},
			b:             &foo{value: "b", tx: tx{value: "tx b"}},
			shouldError:   true,
			expectedError: fmt.Errorf("begin err"),
			expectedValue: "",
		},
		{
			a:             &foo{value: "a", tx: tx{value: "tx a"}},
			b:             &foo{value: "b", tx: tx{value: "tx b"}, beginErr: fmt.Errorf("begin err")},
			shouldError:   true,
			expectedError: fmt.Errorf("begin err"),
			txaRolledBack: true,
			expectedValue: "",
		},
		{
			a:             &foo{value: "a", tx: tx{value: "tx a"}, err: fmt.Errorf("boom a")},
			b:             &foo{value: "b", tx: tx{value: "tx b"}},
			shouldError:   true,
			expectedError: fmt.Errorf("boom a"),
			txaRolledBack: true,
			txbRolledBack: true,
			expectedValue: "tx a",
		},
		{
			a:             &foo{value: "a", tx: tx{value: "tx a"}},
			b:             &foo{value: "b", tx: tx{value: "tx b"}, err: fmt.Errorf("boom b")},
			shouldError:   true,
			expectedError: fmt.Errorf("boom b"),
			txaRolledBack: true,
			txbRolledBack: true,
			expectedValue: "tx b",
		},
		{
			a:             &foo{value: "a", tx: tx{value: "tx a", commitErr: fmt.Errorf("a commit err")}},
			b:             &foo{value: "b", tx: tx{value: "tx b"}},
			shouldError:   true,
			expectedError: fmt.Errorf("a commit err"),
			txaCommitted:  true,
			txaRolledBack: true,
			txbRolledBack: true,
			expectedValue: "tx b",
		},
		{
			a:             &foo{value: "a", tx: tx{value: "tx a"}, err: fmt.Errorf("boom a")},
			b:             &foo{value: "b", tx: tx{value: "tx b", rollbackErr: fmt.Errorf("b rollback err")}},
			shouldError:   true,
			expectedError: fmt.Errorf("boom a"),
			txaRolledBack: true,
			txbRolledBack: true,
			expectedValue: "tx a",
		},
		{
			a:             &foo{value: "a", tx: tx{value: "tx a"}},
			b:             &foo{value: "b", tx: tx{value: "tx b"}, panic: "boom"},
			shouldError:   true,
			expectedError: fmt.Errorf("recovered: boom"),
			txaRolledBack: true,
			txbRolledBack: true,
			expectedValue: "tx a",
		},
	}

	for _, tt := range tests {
		result := ""

		unit := NewUnitOfWork(tt.a, tt.b)

		err := unit.Run(context.Background(), false, func(ctx context.Context) error {
			var err error
			result, err = tt.a.Foo(ctx)
			if err != nil {
				return err
			}
			result, err = tt.b.Foo(ctx)
			if err != nil {
				return err
			}
			return nil
		})
		if tt.shouldError {
			require.Error(t, err)
			assert.Equal(t, tt.expectedError.Error(), err.Error())
		} else {
			assert.NoError(t, err)
		}

		assert.Equal(t, tt.txaCommitted, tt.a.tx.committed)
		assert.Equal(t, tt.txbCommitted, tt.b.tx.committed)
		assert.Equal(t, tt.txaRolledBack, tt.a.tx.rolledBack)
		assert.Equal(t, tt.txbRolledBack, tt.b.tx.rolledBack)
		assert.Equal(t, tt.expectedValue, result)
	}
}

func TestUOWRunReadOnly(t *testing.T) {
	a := &foo{value: "a", tx: tx{value: "tx a"}}
	unit := NewUnitOfWork(a)

	err := unit.Run(context.Background(), true, func(ctx context.Context) error {
		val, err := a.Foo(ctx)
		require.Equal(t, "tx a", val)
		return err
	})
	require.NoError(t, err)
	require.True(t, a.tx.readOnly)
	require.False(t, a.tx.committed)
	require.True(t, a.tx.rolledBack)
}

func TestUOWRunSharedContext(t *testing.T) {
	key := struct{ name string }{"store"}
	a := &shared{foo: foo{value: "a", tx: tx{value: "tx a"}}, key: key}
	b := &shared{foo: foo{value: "b", tx: tx{value: "tx b"}}, key: key}
	unit := NewUnitOfWork(a, b)

	err := unit.Run(context.Background(), false, func(ctx context.Context) error {
		tx, ok := TxFromContext(ctx, key)
		require.True(t, ok)
		require.Equal(t, &a.tx, tx)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, a.begun)
	require.Zero(t, b.begun)
	require.True(t, a.tx.committed)
}

func TestUOWRunNested(t *testing.T) {
	a := &foo{value: "a", tx: tx{value: "tx a"}}
	outer := NewUnitOfWork(a)
	inner := NewUnitOfWork(a)

	err := outer.Run(context.Background(), false, func(ctx context.Context) error {
		return inner.Run(ctx, false, func(ctx context.Context) error {
			val, err := a.Foo(ctx)
			require.Equal(t, "tx a", val)
			return err
		})
	})
	require.NoError(t, err)
	require.Equal(t, 1, a.begun)
	require.True(t, a.tx.committed)
}
