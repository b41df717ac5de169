package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/hrsync/internal/core/attendance"
	"github.com/ogurasousui/hrsync/internal/core/dashboard"
	"github.com/ogurasousui/hrsync/internal/core/employee"
	"github.com/ogurasousui/hrsync/internal/core/hrsync"
	"github.com/ogurasousui/hrsync/internal/core/settings"
)

const dateLayout = "2006-01-02"

// DataContext は最後の同期結果を保持するものです。
type DataContext interface {
	Refresh(ctx context.Context) hrsync.SyncResult
	CurrentOrRefresh(ctx context.Context) hrsync.SyncResult
}

// SettingsStore は接続パラメータの読み書きです。
type SettingsStore interface {
	Load(ctx context.Context) (settings.Configuration, error)
	Save(ctx context.Context, cfg settings.Configuration) error
}

// AppSettingsStore は一般設定の読み書きです。
type AppSettingsStore interface {
	Load(ctx context.Context) (settings.AppSettings, error)
	Save(ctx context.Context, in settings.AppSettings) (settings.AppSettings, error)
}

// HRSyncGrpcHandler は HRSyncService の gRPC ハンドラーです。
type HRSyncGrpcHandler struct {
	uc       hrsync.UseCase
	data     DataContext
	settings SettingsStore
	app      AppSettingsStore
	now      func() time.Time
}

var _ HRSyncServer = (*HRSyncGrpcHandler)(nil)

// NewHRSyncGrpcHandler は HRSyncGrpcHandler を生成します。
func NewHRSyncGrpcHandler(uc hrsync.UseCase, data DataContext, store SettingsStore, app AppSettingsStore) *HRSyncGrpcHandler {
	return &HRSyncGrpcHandler{uc: uc, data: data, settings: store, app: app, now: time.Now}
}

// SyncAll は全件同期を実行して結果を返します。
func (h *HRSyncGrpcHandler) SyncAll(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return h.respond(h.data.Refresh(ctx))
}

// AddEmployee は社員を追加し、同期結果を更新します。
func (h *HRSyncGrpcHandler) AddEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in employee.Employee
	if err := fromStruct(req, &in); err != nil {
		return nil, toStatusError(err)
	}

	result, err := h.uc.AddEmployee(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	h.data.Refresh(ctx)

	return h.respond(map[string]any{
		"employee": result.Employee,
		"write":    result.Outcome.Report(),
	})
}

// AddAttendance は勤怠記録を追加し、同期結果を更新します。
func (h *HRSyncGrpcHandler) AddAttendance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in attendance.Record
	if err := fromStruct(req, &in); err != nil {
		return nil, toStatusError(err)
	}

	result, err := h.uc.AddAttendance(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	h.data.Refresh(ctx)

	return h.respond(map[string]any{
		"record": result.Record,
		"write":  result.Outcome.Report(),
	})
}

// GetSettings は API キーを伏せた接続パラメータを返します。
func (h *HRSyncGrpcHandler) GetSettings(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	cfg, err := h.settings.Load(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return h.respond(cfg.View())
}

// SaveSettings は接続パラメータを上書きし、新しい設定で同期します。
func (h *HRSyncGrpcHandler) SaveSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in settings.Configuration
	if err := fromStruct(req, &in); err != nil {
		return nil, toStatusError(err)
	}

	if err := h.settings.Save(ctx, in); err != nil {
		return nil, toStatusError(err)
	}
	cfg, err := h.settings.Load(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	h.data.Refresh(ctx)

	return h.respond(cfg.View())
}

// GetAppSettings は一般設定を返します。
func (h *HRSyncGrpcHandler) GetAppSettings(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	app, err := h.app.Load(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return h.respond(app)
}

// SaveAppSettings は一般設定を上書きします。同期はやり直しません。
func (h *HRSyncGrpcHandler) SaveAppSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in settings.AppSettings
	if err := fromStruct(req, &in); err != nil {
		return nil, toStatusError(err)
	}

	saved, err := h.app.Save(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return h.respond(saved)
}

// GetSummary は date (YYYY-MM-DD、省略時は当日) の集計を返します。
func (h *HRSyncGrpcHandler) GetSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		Date string `json:"date"`
	}
	if err := fromStruct(req, &in); err != nil {
		return nil, toStatusError(err)
	}

	day := h.now()
	if raw := strings.TrimSpace(in.Date); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, toStatusError(fmt.Errorf("%w: date %q", ErrInvalidRequest, raw))
		}
		day = parsed
	}

	app, err := h.app.Load(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	snapshot := h.data.CurrentOrRefresh(ctx)
	return h.respond(dashboard.Summarize(snapshot.Employees, snapshot.Attendance, day, app))
}

func (h *HRSyncGrpcHandler) respond(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, toStatusError(err)
	}
	return out, nil
}
