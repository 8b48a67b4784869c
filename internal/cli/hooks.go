package cli

import (
	"context"
	"time"
)

// logHooks reports pipeline, cache and API events at debug level through the
// logger attached to the triggering context.
type logHooks struct{}

func (logHooks) OnBuildStart(ctx context.Context, level string) {
	loggerFromContext(ctx).Debug("build started", "level", level)
}

func (logHooks) OnBuildComplete(ctx context.Context, level string, cached bool, d time.Duration, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("build failed", "level", level, "duration", d, "err", err)
		return
	}
	l.Debug("build finished", "level", level, "cached", cached, "duration", d)
}

func (logHooks) OnReconcile(ctx context.Context, levels int, d time.Duration, err error) {
	loggerFromContext(ctx).Debug("order reconciled", "levels", levels, "duration", d, "err", err)
}

func (logHooks) OnEmit(ctx context.Context, included, total int, err error) {
	loggerFromContext(ctx).Debug("aggregate emitted", "included", included, "total", total, "err", err)
}

func (logHooks) OnCacheHit(ctx context.Context, keyType string) {
	loggerFromContext(ctx).Debug("cache hit", "type", keyType)
}

func (logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	loggerFromContext(ctx).Debug("cache miss", "type", keyType)
}

func (logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	loggerFromContext(ctx).Debug("cache set", "type", keyType, "bytes", size)
}

func (logHooks) OnRequest(ctx context.Context, method, path string) {}

func (logHooks) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		loggerFromContext(ctx).Warn("request failed", "method", method, "path", path, "status", status, "duration", d)
	}
}
