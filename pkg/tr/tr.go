// Package tr: единица работы поверх транзакций PostgreSQL.
// Транзакция передаётся репозиториям через контекст.
package tr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/jitter"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

type ctxKey struct{}

// Querier: общее подмножество pgx.Tx и *pgxpool.Pool, которым пользуются репозитории.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(ctxKey{}).(pgx.Tx)
	return tx, ok
}

// Conn возвращает транзакцию из контекста, а вне единицы работы пул.
func Conn(ctx context.Context, db Querier) Querier {
	if tx, ok := TxFromCtx(ctx); ok {
		return tx
	}
	return db
}

// RetryObserver получает уведомление о каждом повторе транзакции.
type RetryObserver interface {
	TxRetried()
}

type RetryCfg struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// TxUnit выполняет fn в транзакции и повторяет её при конфликте сериализации или дедлоке.
type TxUnit struct {
	db       transaction.Transactional
	opts     pgx.TxOptions
	retry    RetryCfg
	backoff  jitter.Backoff
	observer RetryObserver
}

func NewTxUnit(db transaction.Transactional, retry RetryCfg, observer RetryObserver) *TxUnit {
	return &TxUnit{
		db:       db,
		opts:     pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
		retry:    retry,
		backoff:  jitter.NewBackoff(retry.BaseDelay, retry.MaxDelay),
		observer: observer,
	}
}

func (u *TxUnit) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	const op = "TxUnit.Do"

	// Вложенный вызов выполняется в уже открытой транзакции
	if _, ok := TxFromCtx(ctx); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = u.once(ctx, fn)
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return err
		}

		if attempt >= u.retry.MaxRetries {
			return fmt.Errorf("%s: %w: %w", op, e.ErrTransient, err)
		}

		if u.observer != nil {
			u.observer.TxRetried()
		}

		select {
		case <-ctx.Done():
			return e.Wrap(op, ctx.Err())
		case <-time.After(u.backoff.Delay(attempt)):
		}
	}
}

func (u *TxUnit) once(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	txCtx, tx, err := transaction.NewTransaction(ctx, u.opts, u.db)
	if err != nil {
		return err
	}
	// При ошибке происходит Rollback транзакции
	defer func() {
		if err != nil && tx.IsActive() {
			_ = tx.Rollback(ctx)
		}
	}()

	pgxTx, ok := tx.Transaction().(pgx.Tx)
	if !ok {
		return fmt.Errorf("unexpected transaction type %T", tx.Transaction())
	}
	txCtx = context.WithValue(txCtx, ctxKey{}, pgxTx)

	if err = fn(txCtx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DirectUnit выполняет fn без транзакции. Частичные изменения при ошибке не откатываются.
type DirectUnit struct{}

func (DirectUnit) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// IsRetryable сообщает, стоит ли повторить транзакцию целиком.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateDeadlockDetected
	}

	return errors.Is(err, e.ErrTransient)
}
