package service

import (
	"context"

	"go.uber.org/zap"
)

// readThrough serves key from c, falling back to load on a miss and caching its result.
// Cache faults are logged and never fail the read. Load errors are returned as-is and
// nothing is cached. A non-empty index registers key in that index set.
func readThrough[T any](ctx context.Context, c Cache, logger *zap.Logger, index, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := c.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if index != "" {
		err = c.SetIndexed(ctx, index, key, value)
	} else {
		err = c.Set(ctx, key, value)
	}
	if err != nil {
		logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}
