package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"jewelry-pricer/internal/adapters/shopify"
	"jewelry-pricer/internal/adapters/storage"
	"jewelry-pricer/internal/app/usecases"
	"jewelry-pricer/internal/config"
	infrahttp "jewelry-pricer/internal/infra/http"
	"jewelry-pricer/internal/infra/mysql"
	"jewelry-pricer/internal/logging"
	"jewelry-pricer/internal/metrics"
)

// app holds everything a command needs. rates is nil when MySQL is not configured.
type app struct {
	cfg      *config.Config
	zap      *zap.Logger
	logger   logging.LoggerService
	recorder *metrics.Recorder
	shopify  *shopify.Client
	rates    storage.RateStore
	db       *sql.DB
	applier  *usecases.PriceApplier
	sync     *usecases.PriceSync
}

func newApp(c *cli.Context) (*app, error) {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	zapLogger, err := logging.NewZap(c.String("log-level"))
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(zapLogger, cfg.TelegramBot)

	a := &app{
		cfg:      cfg,
		zap:      zapLogger,
		logger:   logger,
		recorder: metrics.New(),
	}

	if cfg.Mysql.Enabled() {
		db, err := mysql.New(c.Context, cfg.Mysql)
		if err != nil {
			_ = zapLogger.Sync()
			return nil, err
		}
		store := storage.NewMysqlRateStore(db)
		if err := store.Migrate(c.Context); err != nil {
			_ = db.Close()
			_ = zapLogger.Sync()
			return nil, err
		}
		a.db = db
		a.rates = store
	}

	a.shopify = shopify.NewClient(cfg.Shopify, infrahttp.NewClient(cfg.Shopify.Timeout), logger)
	a.applier = usecases.NewPriceApplier(a.shopify, logger, a.recorder, cfg.Pricing.Concurrency)
	a.sync = usecases.NewPriceSync(a.shopify, a.applier, a.rates, logger, a.recorder)
	return a, nil
}

// pushMetrics ships the run metrics when a Pushgateway is configured. Failures only warn.
func (a *app) pushMetrics(ctx context.Context) {
	if a.cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := a.recorder.Push(ctx, a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job); err != nil {
		a.zap.Warn("Failed to push metrics", zap.Error(err))
	}
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.zap.Sync()
}
