package kv

import (
	"context"
	"sync"
)

// Store は文字列キーと文字列値を永続化するキーバリューストアの抽象です。
type Store interface {
	// Get はキーに対応する値を返します。キーが存在しない場合は ok=false です。
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set はキーの値を上書き保存します。
	Set(ctx context.Context, key, value string) error
}

// Locker はキー単位の排他ロックを提供するストアが実装します。
// ロックは呼び出し元のトランザクション終了まで保持されます。
type Locker interface {
	Lock(ctx context.Context, key string) error
}

// MemoryStore はプロセス内メモリに値を保持する Store 実装です。
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore は空の MemoryStore を生成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get は保持している値を返します。
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

// Set は値を保存します。
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
