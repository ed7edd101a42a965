package cache

import (
	"context"
	"time"
)

// Counter атомарные счётчики с TTL
type Counter interface {
	// Incr увеличивает счётчик на 1 и выставляет TTL при создании ключа
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Value текущее значение, 0 если ключа нет
	Value(ctx context.Context, key string) (int64, error)
}
