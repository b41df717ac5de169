package hrsync

import (
	"context"
	"sync"

	"github.com/ogurasousui/hrsync/internal/core/attendance"
	"github.com/ogurasousui/hrsync/internal/core/employee"
)

// Syncer は SyncAll を提供するものです。
type Syncer interface {
	SyncAll(ctx context.Context) SyncResult
}

// Snapshot は最後の同期結果をメモリに保持します。
// 重なった Refresh は互いを待たず、後から完了した結果が残ります。
type Snapshot struct {
	syncer Syncer

	mu     sync.RWMutex
	result SyncResult
	synced bool
}

// NewSnapshot は Snapshot を生成します。
func NewSnapshot(syncer Syncer) *Snapshot {
	return &Snapshot{syncer: syncer}
}

// Refresh は全件同期を実行して保持している結果を置き換えます。
func (s *Snapshot) Refresh(ctx context.Context) SyncResult {
	result := s.syncer.SyncAll(ctx)

	s.mu.Lock()
	s.result = result
	s.synced = true
	s.mu.Unlock()

	return cloneResult(result)
}

// Current は保持している結果の複製を返します。一度も同期していない場合は ok=false です。
func (s *Snapshot) Current() (SyncResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneResult(s.result), s.synced
}

// CurrentOrRefresh は保持している結果を返し、未同期であれば同期します。
func (s *Snapshot) CurrentOrRefresh(ctx context.Context) SyncResult {
	if result, ok := s.Current(); ok {
		return result
	}
	return s.Refresh(ctx)
}

func cloneResult(r SyncResult) SyncResult {
	return SyncResult{
		Employees:  append([]employee.Employee{}, r.Employees...),
		Attendance: append([]attendance.Record{}, r.Attendance...),
		SyncedAt:   r.SyncedAt,
	}
}
