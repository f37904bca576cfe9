package tr

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"transient", e.Wrap("op", e.ErrTransient), true},
		{"insufficient stock", e.ErrInsufficientStock, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestDirectUnit_Do(t *testing.T) {
	var calls int
	err := DirectUnit{}.Do(context.Background(), func(ctx context.Context) error {
		calls++
		_, ok := TxFromCtx(ctx)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	err = DirectUnit{}.Do(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

type fakeQuerier struct{ Querier }

func TestConn_FallsBackToPool(t *testing.T) {
	pool := &fakeQuerier{}
	assert.Same(t, pool, Conn(context.Background(), pool))
}

// fakeTx считает Commit и Rollback, остальные методы pgx.Tx не вызываются.
type fakeTx struct {
	pgx.Tx
	db *fakeDB
}

func (t *fakeTx) Commit(context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.commits++
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.rollbacks++
	return nil
}

type fakeDB struct {
	mu        sync.Mutex
	begins    int
	commits   int
	rollbacks int
}

func (db *fakeDB) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.begins++
	return &fakeTx{db: db}, nil
}

func (db *fakeDB) counts() (begins, commits, rollbacks int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.begins, db.commits, db.rollbacks
}

type retryCounter struct{ n int }

func (r *retryCounter) TxRetried() { r.n++ }

func fastRetry(maxRetries int) RetryCfg {
	return RetryCfg{MaxRetries: maxRetries, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestTxUnit_RetriesRetryableErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}},
		{"deadlock", &pgconn.PgError{Code: "40P01"}},
		{"transient", e.Wrap("status", e.ErrTransient)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{}
			observer := &retryCounter{}
			unit := NewTxUnit(db, fastRetry(3), observer)

			attempts := 0
			err := unit.Do(context.Background(), func(ctx context.Context) error {
				attempts++
				_, ok := TxFromCtx(ctx)
				require.True(t, ok)
				if attempts < 3 {
					return tt.err
				}
				return nil
			})
			require.NoError(t, err)

			begins, commits, rollbacks := db.counts()
			assert.Equal(t, 3, attempts)
			assert.Equal(t, 3, begins)
			assert.Equal(t, 1, commits)
			assert.Equal(t, 2, rollbacks)
			assert.Equal(t, 2, observer.n)
		})
	}
}

func TestTxUnit_ExhaustedRetriesAreTransient(t *testing.T) {
	db := &fakeDB{}
	observer := &retryCounter{}
	unit := NewTxUnit(db, fastRetry(2), observer)

	attempts := 0
	err := unit.Do(context.Background(), func(context.Context) error {
		attempts++
		return &pgconn.PgError{Code: "40001"}
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrTransient)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "40001", pgErr.Code)

	_, commits, rollbacks := db.counts()
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 0, commits)
	assert.Equal(t, 3, rollbacks)
	assert.Equal(t, 2, observer.n)
}

func TestTxUnit_NonRetryableErrorReturnedAsIs(t *testing.T) {
	db := &fakeDB{}
	unit := NewTxUnit(db, fastRetry(5), nil)

	boom := errors.New("boom")
	attempts := 0
	err := unit.Do(context.Background(), func(context.Context) error {
		attempts++
		return e.Wrap("create", fmt.Errorf("%w: %w", e.ErrInsufficientStock, boom))
	})
	require.ErrorIs(t, err, e.ErrInsufficientStock)
	assert.NotErrorIs(t, err, e.ErrTransient)

	_, commits, rollbacks := db.counts()
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 0, commits)
	assert.Equal(t, 1, rollbacks)
}

func TestTxUnit_ContextCancelStopsBackoff(t *testing.T) {
	db := &fakeDB{}
	unit := NewTxUnit(db, RetryCfg{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attempts := 0
	done := make(chan error, 1)
	go func() {
		done <- unit.Do(ctx, func(context.Context) error {
			attempts++
			cancel()
			return &pgconn.PgError{Code: "40001"}
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, e.ErrTransient)
	case <-time.After(5 * time.Second):
		t.Fatal("Do kept waiting after context cancellation")
	}
	assert.Equal(t, 1, attempts)
}

func TestTxUnit_NestedDoJoinsTransaction(t *testing.T) {
	db := &fakeDB{}
	unit := NewTxUnit(db, fastRetry(1), nil)

	err := unit.Do(context.Background(), func(outer context.Context) error {
		outerTx, _ := TxFromCtx(outer)
		return unit.Do(outer, func(inner context.Context) error {
			innerTx, ok := TxFromCtx(inner)
			require.True(t, ok)
			assert.Same(t, outerTx, innerTx)
			return nil
		})
	})
	require.NoError(t, err)

	begins, commits, _ := db.counts()
	assert.Equal(t, 1, begins)
	assert.Equal(t, 1, commits)
}
