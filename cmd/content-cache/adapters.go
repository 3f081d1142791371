package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// redisLogger routes go-redis internal logs (pool and reconnect notices) through zap
type redisLogger struct {
	logger *zap.Logger
}

func newRedisLogger(logger *zap.Logger) *redisLogger {
	return &redisLogger{logger: logger.With(zap.String("component", "go-redis"))}
}

// Printf implements the go-redis internal logging interface
func (l *redisLogger) Printf(_ context.Context, format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}
