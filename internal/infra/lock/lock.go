package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
)

// Locker кратковременно удерживает слот на время проверки и вставки записи.
// Acquired = false означает, что слот прямо сейчас оформляет кто-то другой
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// SlotKey строит ключ удержания слота: один ключ на
// тенант + цель назначения + время начала
func SlotKey(tenantID int64, target domain.AssignmentTarget, startTime time.Time) string {
	return fmt.Sprintf("slot:%d:%s:%d", tenantID, target.String(), startTime.UTC().Unix())
}

// NoopLocker заглушка на случай отключенного Redis:
// всегда разрешает захват, гонки разрешает уровень БД
type NoopLocker struct{}

func NewNoopLocker() *NoopLocker {
	return &NoopLocker{}
}

func (n *NoopLocker) Acquire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

func (n *NoopLocker) Release(_ context.Context, _ string) error {
	return nil
}
