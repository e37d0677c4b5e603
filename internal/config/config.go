package config

import "time"

type Config struct {
	Shopify     ShopifyConfig
	Mysql       MysqlConfig
	Pricing     PricingConfig
	Metrics     MetricsConfig
	HTTP        HTTPConfig
	TelegramBot TelegramBotConfig
}

type ShopifyConfig struct {
	ShopDomain        string
	APIVer            string
	Token             string
	Timeout           time.Duration
	RequestsPerSecond int
}

type MysqlConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

// Enabled reports whether enough settings exist to open the rate store.
func (c MysqlConfig) Enabled() bool {
	return c.Host != "" && c.Username != "" && c.Database != ""
}

type PricingConfig struct {
	Concurrency int
}

type MetricsConfig struct {
	PushgatewayURL string
	Job            string
}

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type TelegramBotConfig struct {
	ChatId string
	Token  string
}
