// Package storage keeps operator rate settings between runs.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"jewelry-pricer/internal/domain/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS collection_pricing (
	collection_id  VARCHAR(255)   NOT NULL PRIMARY KEY,
	rate_per_unit  DECIMAL(18, 4) NOT NULL DEFAULT 0,
	markup_percent DECIMAL(9, 4)  NOT NULL DEFAULT 0,
	updated_at     TIMESTAMP      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

// RateStore is implemented by anything that can hand out per-collection pricing.
type RateStore interface {
	LoadPricingConfigs(ctx context.Context) (map[string]model.PricingConfig, error)
	SavePricingConfig(ctx context.Context, collectionID string, cfg model.PricingConfig) error
}

type MysqlRateStore struct {
	db *sql.DB
}

func NewMysqlRateStore(db *sql.DB) *MysqlRateStore {
	return &MysqlRateStore{db: db}
}

func (s *MysqlRateStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create collection_pricing: %w", err)
	}
	return nil
}

func (s *MysqlRateStore) LoadPricingConfigs(ctx context.Context) (map[string]model.PricingConfig, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT collection_id, rate_per_unit, markup_percent FROM collection_pricing`)
	if err != nil {
		return nil, fmt.Errorf("load pricing configs: %w", err)
	}
	defer rows.Close()

	configs := make(map[string]model.PricingConfig)
	for rows.Next() {
		var (
			collectionID string
			rate         decimal.Decimal
			markup       decimal.Decimal
		)
		if err := rows.Scan(&collectionID, &rate, &markup); err != nil {
			return nil, fmt.Errorf("scan pricing config: %w", err)
		}
		configs[collectionID] = model.PricingConfig{RatePerUnit: rate, MarkupPercent: markup}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load pricing configs: %w", err)
	}
	return configs, nil
}

func (s *MysqlRateStore) SavePricingConfig(ctx context.Context, collectionID string, cfg model.PricingConfig) error {
	collectionID = strings.TrimSpace(collectionID)
	if collectionID == "" {
		return fmt.Errorf("collection id is required")
	}
	if !cfg.Configured() {
		return fmt.Errorf("rate for %s must be positive", collectionID)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO collection_pricing (collection_id, rate_per_unit, markup_percent) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE rate_per_unit = VALUES(rate_per_unit), markup_percent = VALUES(markup_percent)`,
		collectionID, cfg.RatePerUnit.String(), cfg.MarkupPercent.String(),
	)
	if err != nil {
		return fmt.Errorf("save pricing config %s: %w", collectionID, err)
	}
	return nil
}
