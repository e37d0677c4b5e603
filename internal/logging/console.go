package logging

import (
	"go.uber.org/zap"
)

type consoleLogger struct {
	log *zap.Logger
}

func NewConsoleLogger(log *zap.Logger) LoggerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &consoleLogger{log: log}
}

// NewZap builds the production JSON logger used by the binaries.
func NewZap(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}

func (c *consoleLogger) Log(value string) {
	c.log.Info(value)
}

func (c *consoleLogger) LogError(value string, err error) {
	if err == nil {
		c.log.Error(value)
		return
	}
	c.log.Error(value, zap.Error(err))
}

func (c *consoleLogger) LogWarning(value string) {
	c.log.Warn(value)
}

func (c *consoleLogger) LogSuccess(value string) {
	c.log.Info(value, zap.Bool("success", true))
}
