package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ogurasousui/hrsync/internal/core/kv"
	pgdb "github.com/ogurasousui/hrsync/internal/platform/db/postgres"
)

// ErrLockOutsideTransaction はトランザクション外で Lock が呼ばれた場合に返されます。
var ErrLockOutsideTransaction = errors.New("postgres: advisory lock requires a transaction")

// KVStore は kv_entries テーブルを用いた kv.Store の実装です。
type KVStore struct {
	db pgdb.Queryer
}

var (
	_ kv.Store  = (*KVStore)(nil)
	_ kv.Locker = (*KVStore)(nil)
)

// NewKVStore は KVStore を生成します。
func NewKVStore(db pgdb.Queryer) *KVStore {
	return &KVStore{db: db}
}

// Get はキーに対応する値を返します。行が無い場合は ok=false です。
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := pgdb.QueryerFromContext(ctx, s.db).
		QueryRow(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).
		Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres: get %s: %w", key, err)
	}
	return value, true, nil
}

// Set は値を挿入し、既存の場合は上書きします。
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	_, err := pgdb.QueryerFromContext(ctx, s.db).Exec(ctx, `
        INSERT INTO kv_entries (key, value, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (key) DO UPDATE
           SET value = EXCLUDED.value,
               updated_at = EXCLUDED.updated_at
    `, key, value)
	if err != nil {
		return fmt.Errorf("postgres: set %s: %w", key, err)
	}
	return nil
}

// Lock はキー単位のアドバイザリロックを取得します。ロックはトランザクション終了時に解放されます。
func (s *KVStore) Lock(ctx context.Context, key string) error {
	if !pgdb.InTransaction(ctx) {
		return ErrLockOutsideTransaction
	}
	if _, err := pgdb.QueryerFromContext(ctx, s.db).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("postgres: lock %s: %w", key, err)
	}
	return nil
}
