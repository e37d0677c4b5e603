package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"jewelry-pricer/internal/config"
)

// DSN builds the driver connection string for cfg.
func DSN(cfg config.MysqlConfig) (string, error) {
	if !cfg.Enabled() {
		return "", errors.New("mysql host, username and database are required")
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	driverCfg := mysql.NewConfig()
	driverCfg.User = cfg.Username
	driverCfg.Passwd = cfg.Password
	driverCfg.Net = "tcp"
	driverCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, port)
	driverCfg.DBName = cfg.Database
	driverCfg.ParseTime = true
	return driverCfg.FormatDSN(), nil
}

func New(ctx context.Context, cfg config.MysqlConfig) (*sql.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql connection error %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql: ping %w", err)
	}

	return db, nil
}
