package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/ogurasousui/hrsync/internal/core/employee"
	"github.com/ogurasousui/hrsync/internal/core/kv"
)

// キャッシュを保存するキーです。
const (
	// LocalEmployeesKey はクラウド確認前に追加した社員を保持します。
	LocalEmployeesKey = "local_employees"
	// MirrorEmployeesKey は最後に成功したクラウド読み取り結果の写しです。
	MirrorEmployeesKey = "cached_employees"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// LocalCache は社員の楽観的書き込みとオフライン時のフォールバックを担うキャッシュです。
// 書き込みは常にコレクション全体を書き直します。
type LocalCache struct {
	store  kv.Store
	tx     TransactionManager
	logger *log.Logger

	// read-modify-write を直列化します。
	mu sync.Mutex
}

// New は LocalCache を生成します。tx と logger は nil を許容します。
func New(store kv.Store, tx TransactionManager, logger *log.Logger) *LocalCache {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[cache] ", log.LstdFlags)
	}
	return &LocalCache{store: store, tx: tx, logger: logger}
}

// Employees はローカルに追加された社員を返します。値が無い、または解析できない場合は空です。
func (c *LocalCache) Employees(ctx context.Context) ([]employee.Employee, error) {
	return c.read(ctx, LocalEmployeesKey)
}

// PutEmployee は同じ ID のエントリを取り除いた上で末尾に追加します。
// State が未設定の場合は LocalOnly として保存します。
func (c *LocalCache) PutEmployee(ctx context.Context, e employee.Employee) error {
	if e.State == "" {
		e.State = employee.SyncStateLocalOnly
	}

	return c.update(ctx, LocalEmployeesKey, func(current []employee.Employee) ([]employee.Employee, bool) {
		next := make([]employee.Employee, 0, len(current)+1)
		for _, existing := range current {
			if existing.ID == e.ID {
				continue
			}
			next = append(next, existing)
		}
		return append(next, e), true
	})
}

// MarkConfirmed は ids に含まれる LocalOnly のエントリを CloudConfirmed に遷移させ、遷移した件数を返します。
func (c *LocalCache) MarkConfirmed(ctx context.Context, ids map[string]struct{}) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	transitioned := 0
	err := c.update(ctx, LocalEmployeesKey, func(current []employee.Employee) ([]employee.Employee, bool) {
		transitioned = 0
		for i := range current {
			if _, ok := ids[current[i].ID]; !ok {
				continue
			}
			if current[i].State == employee.SyncStateCloudConfirmed {
				continue
			}
			current[i].State = employee.SyncStateCloudConfirmed
			transitioned++
		}
		return current, transitioned > 0
	})
	if err != nil {
		return 0, err
	}
	return transitioned, nil
}

// Mirror は最後に保存したクラウド読み取り結果を返します。同期処理はこれを読みません。
func (c *LocalCache) Mirror(ctx context.Context) ([]employee.Employee, error) {
	return c.read(ctx, MirrorEmployeesKey)
}

// SaveMirror はクラウド読み取り結果で写しを置き換えます。
func (c *LocalCache) SaveMirror(ctx context.Context, employees []employee.Employee) error {
	return c.update(ctx, MirrorEmployeesKey, func([]employee.Employee) ([]employee.Employee, bool) {
		return employees, true
	})
}

func (c *LocalCache) read(ctx context.Context, key string) ([]employee.Employee, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cache: get %s: %w", key, err)
	}
	if !ok {
		return []employee.Employee{}, nil
	}
	return c.decode(key, raw), nil
}

func (c *LocalCache) update(ctx context.Context, key string, fn func([]employee.Employee) ([]employee.Employee, bool)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if locker, ok := c.store.(kv.Locker); ok {
			if err := locker.Lock(txCtx, key); err != nil {
				return fmt.Errorf("cache: lock %s: %w", key, err)
			}
		}

		current, err := c.read(txCtx, key)
		if err != nil {
			return err
		}

		next, changed := fn(current)
		if !changed {
			return nil
		}
		if next == nil {
			next = []employee.Employee{}
		}

		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("cache: encode %s: %w", key, err)
		}
		if err := c.store.Set(txCtx, key, string(encoded)); err != nil {
			return fmt.Errorf("cache: set %s: %w", key, err)
		}
		return nil
	})
}

func (c *LocalCache) decode(key, raw string) []employee.Employee {
	if raw == "" {
		return []employee.Employee{}
	}

	var employees []employee.Employee
	if err := json.Unmarshal([]byte(raw), &employees); err != nil {
		c.logger.Printf("discarding unparseable %s: %v", key, err)
		return []employee.Employee{}
	}
	if employees == nil {
		return []employee.Employee{}
	}

	// ブラウザ版のキャッシュには状態が含まれません。
	fallback := employee.SyncStateLocalOnly
	if key == MirrorEmployeesKey {
		fallback = employee.SyncStateCloudConfirmed
	}
	for i := range employees {
		if employees[i].State == "" {
			employees[i].State = fallback
		}
	}
	return employees
}
