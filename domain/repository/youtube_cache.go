package repository

import (
	"context"
	"time"
)

// IAnalysisCache caches read models (rankings, charts, trends) between analyses
type IAnalysisCache interface {
	// Get decodes the cached value into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Invalidate drops every cached read model
	Invalidate(ctx context.Context) error
}
