package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New 创建文本格式的 slog 日志并设置为默认 logger，level 为 debug 时输出调试日志
func New(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(l)
	return l
}

// CronLogger 让 robfig/cron 的内部日志走 slog
type CronLogger struct {
	L *slog.Logger
}

func (c CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.L.Debug("cron: "+msg, keysAndValues...)
}

func (c CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.L.Error("cron: "+msg, append([]interface{}{"err", err}, keysAndValues...)...)
}
