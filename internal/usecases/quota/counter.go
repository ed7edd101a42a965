package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/cache"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
	"github.com/google/uuid"
)

// counterTTL ключ дня живёт двое суток
const counterTTL = 48 * time.Hour

// CounterUsage дневные счётчики поверх cache.Counter (Redis или память).
// Реализует repository.IUsageRepo
type CounterUsage struct {
	counter cache.Counter
}

func NewCounterUsage(counter cache.Counter) repository.IUsageRepo {
	return &CounterUsage{counter: counter}
}

// UsageKey ключ вида usage:images:<user>:2025-01-31
func UsageKey(userID uuid.UUID, kind domain.QuotaKind, day time.Time) string {
	return fmt.Sprintf("usage:%s:%s:%s", kind, userID, day.UTC().Format("2006-01-02"))
}

func (u *CounterUsage) Get(ctx context.Context, userID uuid.UUID, kind domain.QuotaKind, day time.Time) (int64, error) {
	return u.counter.Value(ctx, UsageKey(userID, kind, day))
}

func (u *CounterUsage) Increment(ctx context.Context, userID uuid.UUID, kind domain.QuotaKind, day time.Time) (int64, error) {
	return u.counter.Incr(ctx, UsageKey(userID, kind, day), counterTTL)
}
