package cache

import (
	"context"
	"time"
)

// Cache là store key-value JSON dùng chung cho tag categories và operator
// settings. Redis trong production, MemoryCache khi Redis tắt hoặc trong test.
type Cache interface {
	// Get decode giá trị của key vào dest.
	// false, nil khi key không tồn tại hoặc đã hết hạn; dest giữ nguyên.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set encode value và ghi với ttl; ttl = 0 giữ vĩnh viễn (settings)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// Ping dùng cho health check và quyết định fallback lúc khởi động
	Ping(ctx context.Context) error
}
