package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/ogurasousui/hrsync/internal/core/kv"
)

func TestAppStore_LoadDefaults(t *testing.T) {
	t.Parallel()

	got, err := NewAppStore(kv.NewMemoryStore()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != DefaultAppSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestAppStore_SaveThenLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backing := kv.NewMemoryStore()
	store := NewAppStore(backing)

	saved, err := store.Save(ctx, AppSettings{
		CompanyName:       " Nile Trading ",
		Currency:          "usd",
		WorkingHoursStart: "08:30",
		WorkingHoursEnd:   "16:30",
		AccountingPeriod:  "weekly_sat_thu",
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.CompanyName != "Nile Trading" || saved.Currency != "USD" || saved.AccountingPeriod != PeriodWeeklySatThu {
		t.Fatalf("unexpected normalized settings: %+v", saved)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != saved {
		t.Fatalf("expected %+v, got %+v", saved, got)
	}

	if cfg, _ := NewStore(backing).Load(ctx); cfg != (Configuration{}) {
		t.Fatalf("app settings must not touch the connection parameters, got %+v", cfg)
	}
}

func TestAppStore_SaveRejectsInvalid(t *testing.T) {
	t.Parallel()

	valid := DefaultAppSettings()
	cases := map[string]struct {
		mutate func(*AppSettings)
		want   error
	}{
		"blank company":   {func(a *AppSettings) { a.CompanyName = " " }, ErrInvalidCompanyName},
		"blank currency":  {func(a *AppSettings) { a.Currency = "" }, ErrInvalidCurrency},
		"malformed start": {func(a *AppSettings) { a.WorkingHoursStart = "9am" }, ErrInvalidWorkingHours},
		"end before start": {func(a *AppSettings) {
			a.WorkingHoursStart, a.WorkingHoursEnd = "17:00", "09:00"
		}, ErrInvalidWorkingHours},
		"unknown period": {func(a *AppSettings) { a.AccountingPeriod = "YEARLY" }, ErrInvalidAccountingPeriod},
	}

	backing := kv.NewMemoryStore()
	store := NewAppStore(backing)
	for name, tc := range cases {
		in := valid
		tc.mutate(&in)
		if _, err := store.Save(context.Background(), in); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", name, tc.want, err)
		}
	}

	if _, ok, _ := backing.Get(context.Background(), KeyAppSettings); ok {
		t.Fatal("invalid settings must not be stored")
	}
}

func TestAppStore_LoadFillsMissingFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backing := kv.NewMemoryStore()
	if err := backing.Set(ctx, KeyAppSettings, `{"companyName":"Delta","accountingPeriod":"BIWEEKLY"}`); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := NewAppStore(backing).Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	defaults := DefaultAppSettings()
	if got.CompanyName != "Delta" || got.Currency != defaults.Currency || got.AccountingPeriod != PeriodMonthly {
		t.Fatalf("unexpected settings: %+v", got)
	}

	if err := backing.Set(ctx, KeyAppSettings, "{not json"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if got, _ := NewAppStore(backing).Load(ctx); got != defaults {
		t.Fatalf("expected defaults for unparseable value, got %+v", got)
	}
}

func TestAppStore_LoadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	if _, err := NewAppStore(failingStore{err: boom}).Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}
