package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SHOPIFY_SHOP_DOMAIN", "demo.myshopify.com")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_test")
}

func clearOptional(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SHOPIFY_API_VERSION", "SHOPIFY_TIMEOUT", "SHOPIFY_RPS", "PRICING_CONCURRENCY",
		"MYSQL_HOST", "MYSQL_PORT", "MYSQL_USER", "MYSQL_PASSWORD", "MYSQL_DATABASE",
		"PUSHGATEWAY_URL", "METRICS_JOB", "HTTP_ADDR", "HTTP_SHUTDOWN_TIMEOUT",
		"TELEGRAM_CHAT_ID", "TELEGRAM_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearOptional(t)
	setRequired(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Shopify.APIVer != defaultAPIVersion {
		t.Fatalf("APIVer default = %q", c.Shopify.APIVer)
	}
	if c.Shopify.Timeout != 30*time.Second {
		t.Fatalf("Timeout default = %s", c.Shopify.Timeout)
	}
	if c.Shopify.RequestsPerSecond != 2 || c.Pricing.Concurrency != 4 {
		t.Fatalf("rate defaults = %d/%d", c.Shopify.RequestsPerSecond, c.Pricing.Concurrency)
	}
	if c.Mysql.Port != 3306 || c.Mysql.Enabled() {
		t.Fatalf("mysql defaults = %+v", c.Mysql)
	}
	if c.Metrics.Job != "jewelry_pricer" || c.HTTP.Addr != ":8080" {
		t.Fatalf("metrics/http defaults = %+v %+v", c.Metrics, c.HTTP)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearOptional(t)
	setRequired(t)
	t.Setenv("SHOPIFY_TIMEOUT", "5s")
	t.Setenv("SHOPIFY_RPS", "8")
	t.Setenv("PRICING_CONCURRENCY", "0")
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("MYSQL_USER", "pricer")
	t.Setenv("MYSQL_DATABASE", "jewelry")
	t.Setenv("MYSQL_PORT", "3307")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Shopify.Timeout != 5*time.Second || c.Shopify.RequestsPerSecond != 8 {
		t.Fatalf("shopify overrides = %+v", c.Shopify)
	}
	if c.Pricing.Concurrency != 1 {
		t.Fatalf("concurrency should clamp to 1, got %d", c.Pricing.Concurrency)
	}
	if !c.Mysql.Enabled() || c.Mysql.Port != 3307 {
		t.Fatalf("mysql overrides = %+v", c.Mysql)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	clearOptional(t)
	t.Setenv("SHOPIFY_SHOP_DOMAIN", "")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "x")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "SHOPIFY_SHOP_DOMAIN") {
		t.Fatalf("expected missing domain error, got %v", err)
	}
}

func TestLoadInvalidInt(t *testing.T) {
	clearOptional(t)
	setRequired(t)
	t.Setenv("SHOPIFY_RPS", "fast")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SHOPIFY_RPS") {
		t.Fatalf("expected invalid int error, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	if err := os.WriteFile(file, []byte("JEWELRY_PRICER_DOTENV_PROBE=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JEWELRY_PRICER_DOTENV_PROBE", "")
	os.Unsetenv("JEWELRY_PRICER_DOTENV_PROBE")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), file); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("JEWELRY_PRICER_DOTENV_PROBE"); got != "loaded" {
		t.Fatalf("probe = %q", got)
	}
}
