package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIVersion  = "2025-01"
	defaultTimeout     = 30 * time.Second
	defaultRPS         = 2
	defaultConcurrency = 4
	defaultMetricsJob  = "jewelry_pricer"
	defaultHTTPAddr    = ":8080"
	defaultMysqlPort   = 3306
)

// LoadDotEnv reads .env style files into the process environment. Missing files are
// not an error; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Load reads the full configuration. Shopify credentials are required; every other
// section is optional and falls back to defaults.
func Load() (*Config, error) {
	shopDomain, err := requiredString("SHOPIFY_SHOP_DOMAIN")
	if err != nil {
		return nil, err
	}
	token, err := requiredString("SHOPIFY_ACCESS_TOKEN")
	if err != nil {
		return nil, err
	}
	timeout, err := durationWithDefault("SHOPIFY_TIMEOUT", defaultTimeout)
	if err != nil {
		return nil, err
	}
	rps, err := intWithDefault("SHOPIFY_RPS", defaultRPS)
	if err != nil {
		return nil, err
	}
	concurrency, err := intWithDefault("PRICING_CONCURRENCY", defaultConcurrency)
	if err != nil {
		return nil, err
	}
	mysqlPort, err := intWithDefault("MYSQL_PORT", defaultMysqlPort)
	if err != nil {
		return nil, err
	}
	shutdown, err := durationWithDefault("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	if concurrency < 1 {
		concurrency = 1
	}

	return &Config{
		Shopify: ShopifyConfig{
			ShopDomain:        shopDomain,
			APIVer:            stringWithDefault("SHOPIFY_API_VERSION", defaultAPIVersion),
			Token:             token,
			Timeout:           timeout,
			RequestsPerSecond: rps,
		},
		Mysql: MysqlConfig{
			Host:     stringWithDefault("MYSQL_HOST", ""),
			Port:     mysqlPort,
			Username: stringWithDefault("MYSQL_USER", ""),
			Password: stringWithDefault("MYSQL_PASSWORD", ""),
			Database: stringWithDefault("MYSQL_DATABASE", ""),
		},
		Pricing: PricingConfig{
			Concurrency: concurrency,
		},
		Metrics: MetricsConfig{
			PushgatewayURL: stringWithDefault("PUSHGATEWAY_URL", ""),
			Job:            stringWithDefault("METRICS_JOB", defaultMetricsJob),
		},
		HTTP: HTTPConfig{
			Addr:            stringWithDefault("HTTP_ADDR", defaultHTTPAddr),
			ShutdownTimeout: shutdown,
		},
		TelegramBot: TelegramBotConfig{
			ChatId: stringWithDefault("TELEGRAM_CHAT_ID", ""),
			Token:  stringWithDefault("TELEGRAM_TOKEN", ""),
		},
	}, nil
}
