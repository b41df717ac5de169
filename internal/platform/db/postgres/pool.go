package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ogurasousui/hrsync/internal/platform/config"
)

// ApplicationName は pg_stat_activity に表示される接続名です。
const ApplicationName = "hrsync"

const pingTimeout = 5 * time.Second

// BuildPoolConfig は database 設定から pgxpool.Config を構築します。
// 0 の項目は pgxpool の既定値のままにします。
func BuildPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	applyLimits(poolCfg, cfg)
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName

	return poolCfg, nil
}

func applyLimits(p *pgxpool.Config, cfg config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		p.MaxConns = int32(cfg.MaxOpenConns)
	}
	// MinConns が MaxConns を超えると pgxpool.NewWithConfig が失敗します。
	p.MinConns = min(int32(max(cfg.MaxIdleConns, 0)), p.MaxConns)

	for _, d := range []struct {
		src time.Duration
		dst *time.Duration
	}{
		{cfg.ConnMaxLifetime, &p.MaxConnLifetime},
		{cfg.ConnMaxIdleTime, &p.MaxConnIdleTime},
	} {
		if d.src > 0 {
			*d.dst = d.src
		}
	}
}

// Open は kv_entries を保持するデータベースへのプールを開き、疎通を確認して返します。
func Open(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}

	return pool, nil
}
