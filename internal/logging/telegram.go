package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jewelry-pricer/internal/config"
)

const telegramAPIBase = "https://api.telegram.org"

type telegramRequest struct {
	ChatId string `json:"chat_id"`
	Text   string `json:"text"`
}

const (
	iconInfo    = "ℹ️"
	iconError   = "❌"
	iconWarning = "⚠️"
	iconSuccess = "✅"
)

type TelegramLogger struct {
	creds      config.TelegramBotConfig
	apiBase    string
	httpClient *http.Client
}

// NewTelegramLogger returns nil when the bot credentials are incomplete.
func NewTelegramLogger(cfg config.TelegramBotConfig) *TelegramLogger {
	if cfg.ChatId == "" || cfg.Token == "" {
		return nil
	}
	return &TelegramLogger{
		creds:      cfg,
		apiBase:    telegramAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *TelegramLogger) Log(value string) {
	if c == nil {
		return
	}
	_ = c.sendRequest(formatMessage(iconInfo, "INFO", value))
}

func (c *TelegramLogger) LogError(value string, err error) {
	if c == nil {
		return
	}
	if err != nil {
		value = fmt.Sprintf("%s: %v", strings.TrimSpace(value), err)
	}
	_ = c.sendRequest(formatMessage(iconError, "ERROR", value))
}

func (c *TelegramLogger) LogWarning(value string) {
	if c == nil {
		return
	}
	_ = c.sendRequest(formatMessage(iconWarning, "WARNING", value))
}

func (c *TelegramLogger) LogSuccess(value string) {
	if c == nil {
		return
	}
	_ = c.sendRequest(formatMessage(iconSuccess, "SUCCESS", value))
}

func formatMessage(icon, level, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		v = "-"
	}
	return fmt.Sprintf("%s %s: %s", icon, level, v)
}

func (c *TelegramLogger) sendRequest(value string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(c.apiBase, "/"), c.creds.Token)

	reqBody := telegramRequest{
		ChatId: c.creds.ChatId,
		Text:   value,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Post(url, "application/json", bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram send failed: %s", resp.Status)
	}
	return nil
}
