package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/ogurasousui/hrsync/internal/core/kv"
)

// 接続パラメータを保存するキーです。ブラウザ版と同じ名前を使います。
const (
	KeySheetID  = "sheet_id"
	KeyAPIKey   = "sheets_api_key"
	KeyProxyURL = "proxy_url"
)

// Configuration はスプレッドシート連携の接続パラメータです。
type Configuration struct {
	SheetID  string `json:"sheetId"`
	APIKey   string `json:"apiKey"`
	ProxyURL string `json:"proxyUrl"`
}

// IsConfigured は SheetID が設定されているかを返します。
// API キーやプロキシ URL の有無は問いません。
func (c Configuration) IsConfigured() bool {
	return c.SheetID != ""
}

// Store は Configuration をキーバリューストアに保存します。
type Store struct {
	kv kv.Store
}

// NewStore は Store を生成します。
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Load は 3 つの値を個別に読み込みます。存在しない値は空文字列になります。
func (s *Store) Load(ctx context.Context) (Configuration, error) {
	var cfg Configuration
	fields := []struct {
		key  string
		dest *string
	}{
		{KeySheetID, &cfg.SheetID},
		{KeyAPIKey, &cfg.APIKey},
		{KeyProxyURL, &cfg.ProxyURL},
	}

	for _, f := range fields {
		value, ok, err := s.kv.Get(ctx, f.key)
		if err != nil {
			return Configuration{}, fmt.Errorf("settings: load %s: %w", f.key, err)
		}
		if ok {
			*f.dest = value
		}
	}

	return cfg, nil
}

// Save は 3 つの値をすべて上書き保存します。
func (s *Store) Save(ctx context.Context, cfg Configuration) error {
	values := []struct {
		key   string
		value string
	}{
		{KeySheetID, strings.TrimSpace(cfg.SheetID)},
		{KeyAPIKey, strings.TrimSpace(cfg.APIKey)},
		{KeyProxyURL, strings.TrimSpace(cfg.ProxyURL)},
	}

	for _, v := range values {
		if err := s.kv.Set(ctx, v.key, v.value); err != nil {
			return fmt.Errorf("settings: save %s: %w", v.key, err)
		}
	}

	return nil
}

// View は API キーを含まない Configuration の公開用表現です。
type View struct {
	SheetID    string `json:"sheetId"`
	ProxyURL   string `json:"proxyUrl"`
	HasAPIKey  bool   `json:"hasApiKey"`
	Configured bool   `json:"configured"`
}

// View は公開用の表現を返します。
func (c Configuration) View() View {
	return View{
		SheetID:    c.SheetID,
		ProxyURL:   c.ProxyURL,
		HasAPIKey:  c.APIKey != "",
		Configured: c.IsConfigured(),
	}
}
