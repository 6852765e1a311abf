package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/editur/editur_server/config"
)

// New 根据配置创建 zerolog Logger，format 为 console 时输出可读格式
func New(cfg config.LogConfig) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop 测试中使用的空 Logger
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
