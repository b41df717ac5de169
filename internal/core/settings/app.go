package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/hrsync/internal/core/kv"
)

// KeyAppSettings は一般設定を JSON で保存するキーです。
const KeyAppSettings = "app_settings"

const clockLayout = "15:04"

// AccountingPeriod は給与計算の締め単位です。
type AccountingPeriod string

const (
	PeriodWeeklySatThu AccountingPeriod = "WEEKLY_SAT_THU"
	PeriodWeeklyMonSat AccountingPeriod = "WEEKLY_MON_SAT"
	PeriodMonthly      AccountingPeriod = "MONTHLY"
)

// Valid は定義済みの締め単位かを返します。
func (p AccountingPeriod) Valid() bool {
	switch p {
	case PeriodWeeklySatThu, PeriodWeeklyMonSat, PeriodMonthly:
		return true
	default:
		return false
	}
}

// AppSettings は会社名や通貨などの一般設定です。
type AppSettings struct {
	CompanyName       string           `json:"companyName"`
	Currency          string           `json:"currency"`
	WorkingHoursStart string           `json:"workingHoursStart"`
	WorkingHoursEnd   string           `json:"workingHoursEnd"`
	AccountingPeriod  AccountingPeriod `json:"accountingPeriod"`
}

// DefaultAppSettings は未保存時に使う一般設定です。
func DefaultAppSettings() AppSettings {
	return AppSettings{
		CompanyName:       "شركة إيهاب المتميزة",
		Currency:          "EGP",
		WorkingHoursStart: "09:00",
		WorkingHoursEnd:   "17:00",
		AccountingPeriod:  PeriodMonthly,
	}
}

// NormalizeAppSettings は値を整えて検証します。通貨コードは大文字にそろえます。
func NormalizeAppSettings(in AppSettings) (AppSettings, error) {
	out := AppSettings{
		CompanyName:       strings.TrimSpace(in.CompanyName),
		Currency:          strings.ToUpper(strings.TrimSpace(in.Currency)),
		WorkingHoursStart: strings.TrimSpace(in.WorkingHoursStart),
		WorkingHoursEnd:   strings.TrimSpace(in.WorkingHoursEnd),
		AccountingPeriod:  AccountingPeriod(strings.ToUpper(strings.TrimSpace(string(in.AccountingPeriod)))),
	}

	if out.CompanyName == "" {
		return AppSettings{}, ErrInvalidCompanyName
	}
	if out.Currency == "" || strings.ContainsAny(out.Currency, " \t") {
		return AppSettings{}, ErrInvalidCurrency
	}

	start, err := time.Parse(clockLayout, out.WorkingHoursStart)
	if err != nil {
		return AppSettings{}, fmt.Errorf("start %q: %w", out.WorkingHoursStart, ErrInvalidWorkingHours)
	}
	end, err := time.Parse(clockLayout, out.WorkingHoursEnd)
	if err != nil {
		return AppSettings{}, fmt.Errorf("end %q: %w", out.WorkingHoursEnd, ErrInvalidWorkingHours)
	}
	if !start.Before(end) {
		return AppSettings{}, fmt.Errorf("%s-%s: %w", out.WorkingHoursStart, out.WorkingHoursEnd, ErrInvalidWorkingHours)
	}

	if !out.AccountingPeriod.Valid() {
		return AppSettings{}, ErrInvalidAccountingPeriod
	}

	return out, nil
}

// AppStore は AppSettings を 1 つの JSON 値として保存します。
type AppStore struct {
	kv kv.Store
}

// NewAppStore は AppStore を生成します。
func NewAppStore(store kv.Store) *AppStore {
	return &AppStore{kv: store}
}

// Load は保存済みの一般設定を返します。未保存、または解析できない場合は既定値で、
// 欠けている項目も既定値で補います。
func (s *AppStore) Load(ctx context.Context) (AppSettings, error) {
	raw, ok, err := s.kv.Get(ctx, KeyAppSettings)
	if err != nil {
		return AppSettings{}, fmt.Errorf("settings: load %s: %w", KeyAppSettings, err)
	}

	out := DefaultAppSettings()
	if !ok || raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return DefaultAppSettings(), nil
	}

	defaults := DefaultAppSettings()
	for _, f := range []struct {
		value    *string
		fallback string
	}{
		{&out.CompanyName, defaults.CompanyName},
		{&out.Currency, defaults.Currency},
		{&out.WorkingHoursStart, defaults.WorkingHoursStart},
		{&out.WorkingHoursEnd, defaults.WorkingHoursEnd},
	} {
		if *f.value == "" {
			*f.value = f.fallback
		}
	}
	if !out.AccountingPeriod.Valid() {
		out.AccountingPeriod = defaults.AccountingPeriod
	}
	return out, nil
}

// Save は検証済みの一般設定を上書き保存し、保存した値を返します。
func (s *AppStore) Save(ctx context.Context, in AppSettings) (AppSettings, error) {
	out, err := NormalizeAppSettings(in)
	if err != nil {
		return AppSettings{}, err
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return AppSettings{}, fmt.Errorf("settings: encode %s: %w", KeyAppSettings, err)
	}
	if err := s.kv.Set(ctx, KeyAppSettings, string(encoded)); err != nil {
		return AppSettings{}, fmt.Errorf("settings: save %s: %w", KeyAppSettings, err)
	}
	return out, nil
}
