package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ストレージの種類です。
const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

// DefaultSheetsEndpoint は Google Sheets API のベース URL です。
const DefaultSheetsEndpoint = "https://sheets.googleapis.com/"

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Proxy    ProxyConfig    `yaml:"proxy"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig は gRPC / HTTP サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	HTTPAddr   string `yaml:"http_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// StorageConfig は接続パラメータとローカルキャッシュの保存先です。
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// SheetsConfig はスプレッドシート読み取りエンドポイントの設定です。
type SheetsConfig struct {
	ReadEndpoint      string        `yaml:"read_endpoint"`
	RequestTimeout    time.Duration `yaml:"-"`
	RequestTimeoutRaw string        `yaml:"request_timeout"`
}

// ProxyConfig は書き込みプロキシ呼び出しの設定です。
type ProxyConfig struct {
	RequestTimeout    time.Duration `yaml:"-"`
	RequestTimeoutRaw string        `yaml:"request_timeout"`
}

// LogConfig はログ出力の設定です。File が空の場合は標準エラー出力のみです。
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = StorageBackendPostgres
	case StorageBackendPostgres, StorageBackendMemory:
	default:
		return fmt.Errorf("config: storage.backend %q is not supported", c.Storage.Backend)
	}

	if c.Storage.Backend == StorageBackendPostgres {
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	}

	if err := c.Sheets.validateAndNormalize(); err != nil {
		return err
	}

	timeout, err := parseDurationAllowEmpty(c.Proxy.RequestTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: proxy.request_timeout: %w", err)
	}
	c.Proxy.RequestTimeout = timeout

	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 100
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (s *SheetsConfig) validateAndNormalize() error {
	if s.ReadEndpoint == "" {
		s.ReadEndpoint = DefaultSheetsEndpoint
	}
	u, err := url.Parse(s.ReadEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: sheets.read_endpoint %q must be an absolute url", s.ReadEndpoint)
	}

	timeout, err := parseDurationAllowEmpty(s.RequestTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: sheets.request_timeout: %w", err)
	}
	s.RequestTimeout = timeout
	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}
