package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

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

// HRSyncHTTPHandler はダッシュボード向けの JSON API です。
type HRSyncHTTPHandler struct {
	uc       hrsync.UseCase
	data     DataContext
	settings SettingsStore
	app      AppSettingsStore
	now      func() time.Time
}

// NewHRSyncHTTPHandler は HRSyncHTTPHandler を生成します。
func NewHRSyncHTTPHandler(uc hrsync.UseCase, data DataContext, store SettingsStore, app AppSettingsStore) *HRSyncHTTPHandler {
	return &HRSyncHTTPHandler{uc: uc, data: data, settings: store, app: app, now: time.Now}
}

// Health は疎通確認です。
func (h *HRSyncHTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Sync は全件同期を実行して結果を返します。
func (h *HRSyncHTTPHandler) Sync(c *gin.Context) {
	c.JSON(http.StatusOK, h.data.Refresh(c.Request.Context()))
}

// AddEmployee は社員を追加します。書き込み結果は write に含めます。
func (h *HRSyncHTTPHandler) AddEmployee(c *gin.Context) {
	var req employee.Employee
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	ctx := c.Request.Context()
	result, err := h.uc.AddEmployee(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.data.Refresh(ctx)

	c.JSON(http.StatusCreated, gin.H{
		"employee": result.Employee,
		"write":    result.Outcome.Report(),
	})
}

// AddAttendance は勤怠記録を追加します。
func (h *HRSyncHTTPHandler) AddAttendance(c *gin.Context) {
	var req attendance.Record
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	ctx := c.Request.Context()
	result, err := h.uc.AddAttendance(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.data.Refresh(ctx)

	c.JSON(http.StatusCreated, gin.H{
		"record": result.Record,
		"write":  result.Outcome.Report(),
	})
}

// GetSettings は API キーを伏せた接続パラメータを返します。
func (h *HRSyncHTTPHandler) GetSettings(c *gin.Context) {
	cfg, err := h.settings.Load(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg.View())
}

// SaveSettings は接続パラメータを上書きし、新しい設定で同期します。
func (h *HRSyncHTTPHandler) SaveSettings(c *gin.Context) {
	var req settings.Configuration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.settings.Save(ctx, req); err != nil {
		h.fail(c, err)
		return
	}
	cfg, err := h.settings.Load(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.data.Refresh(ctx)

	c.JSON(http.StatusOK, cfg.View())
}

// GetAppSettings は一般設定を返します。
func (h *HRSyncHTTPHandler) GetAppSettings(c *gin.Context) {
	app, err := h.app.Load(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// SaveAppSettings は一般設定を上書きします。
func (h *HRSyncHTTPHandler) SaveAppSettings(c *gin.Context) {
	var req settings.AppSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	saved, err := h.app.Save(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Summary は ?date=YYYY-MM-DD (省略時は当日) の集計を返します。
func (h *HRSyncHTTPHandler) Summary(c *gin.Context) {
	day := h.now()
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	ctx := c.Request.Context()
	app, err := h.app.Load(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	snapshot := h.data.CurrentOrRefresh(ctx)
	c.JSON(http.StatusOK, dashboard.Summarize(snapshot.Employees, snapshot.Attendance, day, app))
}

func (h *HRSyncHTTPHandler) fail(c *gin.Context, err error) {
	c.JSON(statusCode(err), gin.H{"error": err.Error()})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidSalary),
		errors.Is(err, employee.ErrInvalidJoinDate),
		errors.Is(err, attendance.ErrInvalidEmployeeID),
		errors.Is(err, attendance.ErrInvalidDate),
		errors.Is(err, attendance.ErrInvalidClockTime),
		errors.Is(err, attendance.ErrInvalidDelay),
		errors.Is(err, attendance.ErrInvalidStatus),
		errors.Is(err, settings.ErrInvalidCompanyName),
		errors.Is(err, settings.ErrInvalidCurrency),
		errors.Is(err, settings.ErrInvalidWorkingHours),
		errors.Is(err, settings.ErrInvalidAccountingPeriod):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
