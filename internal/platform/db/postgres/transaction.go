package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type txKey struct{}

// Queryer は pgx.Tx および pgxpool.Pool に共通するクエリ実行インターフェースです。
type Queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Beginner はトランザクションを開始できる接続です。
type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TxManager はコンテキストにトランザクションを載せて fn を実行します。
// 既にトランザクション中であれば新たに開始せず、外側のものを使います。
type TxManager struct {
	db Beginner
}

// NewTxManager は TxManager を生成します。db が nil の場合はトランザクションを張らない nil を返します。
func NewTxManager(db Beginner) *TxManager {
	if db == nil {
		return nil
	}
	return &TxManager{db: db}
}

// WithinReadWrite は読み書きトランザクション内で fn を実行します。
func (m *TxManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return m.Within(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite}, fn)
}

// Within は opts のトランザクション内で fn を実行します。コミットに至らなければ (panic を含む) ロールバックします。
func (m *TxManager) Within(ctx context.Context, opts pgx.TxOptions, fn func(context.Context) error) (err error) {
	if fn == nil {
		return errors.New("postgres: transaction function is required")
	}
	if m == nil || InTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) && err != nil {
			err = errors.Join(err, fmt.Errorf("postgres: rollback: %w", rbErr))
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	committed = true
	return nil
}

// InTransaction はコンテキストがトランザクションを保持しているかを返します。
func InTransaction(ctx context.Context) bool {
	_, ok := txFromContext(ctx)
	return ok
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// QueryerFromContext はコンテキスト内のトランザクションを、無ければ fallback を返します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback
}
