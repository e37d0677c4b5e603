package logging

import (
	"jewelry-pricer/internal/config"

	"go.uber.org/zap"
)

type LoggerService interface {
	Log(value string)
	LogError(value string, err error)
	LogWarning(value string)
	LogSuccess(value string)
}

// NewLogger writes to the console and, when credentials exist, mirrors every message to
// Telegram.
func NewLogger(zapLogger *zap.Logger, cfg config.TelegramBotConfig) LoggerService {
	sinks := []LoggerService{NewConsoleLogger(zapLogger)}
	if telegram := NewTelegramLogger(cfg); telegram != nil {
		sinks = append(sinks, telegram)
	}
	return Multi(sinks...)
}

type multiLogger []LoggerService

// Multi fans each message out to every non-nil sink.
func Multi(sinks ...LoggerService) LoggerService {
	out := make(multiLogger, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			out = append(out, sink)
		}
	}
	return out
}

func (m multiLogger) Log(value string) {
	for _, sink := range m {
		sink.Log(value)
	}
}

func (m multiLogger) LogError(value string, err error) {
	for _, sink := range m {
		sink.LogError(value, err)
	}
}

func (m multiLogger) LogWarning(value string) {
	for _, sink := range m {
		sink.LogWarning(value)
	}
}

func (m multiLogger) LogSuccess(value string) {
	for _, sink := range m {
		sink.LogSuccess(value)
	}
}
