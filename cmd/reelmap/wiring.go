package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"reelmap/internal/adapters/audit"
	"reelmap/internal/adapters/observability"
	"reelmap/internal/adapters/places"
	redisad "reelmap/internal/adapters/redis"
	"reelmap/internal/app"
	"reelmap/internal/domain"
	"reelmap/internal/shared"
	mysqlrepo "reelmap/internal/storage/mysql"
)

type deps struct {
	resolver *app.ResolutionService
	trace    *audit.FileTraceWriter
	publish  *app.PublishService // nil without MYSQL_DSN
	closers  []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// buildDeps wires the resolver and, when configured, the store. Only
// provider configuration is fatal; an unreachable store is logged and
// skipped so the local artifacts still get written.
func buildDeps(ctx context.Context, cfg shared.Config) (*deps, error) {
	bias, err := places.ParseCircle(cfg.LocationBias)
	if err != nil {
		return nil, err
	}
	client, err := places.New(places.Options{
		BaseURL:      cfg.PlacesBase,
		APIKey:       cfg.PlacesKey,
		RegionCode:   cfg.RegionCode,
		LocationBias: bias,
		Timeout:      cfg.RequestTimeout,
		RPS:          cfg.PlacesRPS,
		MaxAttempts:  cfg.MaxAttempts,
	})
	if err != nil {
		return nil, err
	}

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	d := &deps{trace: audit.NewFileTraceWriter(cfg.OutDir)}
	d.resolver = app.NewResolutionService(client, d.trace, cfg.Workers)

	if cfg.MySQLDSN == "" {
		return d, nil
	}
	db, err := openDB(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Warn().Err(err).Msg("store unavailable, results will not be published")
		return d, nil
	}
	d.closers = append(d.closers, func() { _ = db.Close() })

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, cache will not be evicted")
			_ = rc.Close()
		} else {
			cache = rc
			d.closers = append(d.closers, func() { _ = rc.Close() })
		}
	}
	d.publish = app.NewPublishService(mysqlrepo.New(db), cache)
	return d, nil
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}
