package contracts

import (
	"context"
	"time"
)

type RedisRepository interface {
	Delete(ctx context.Context, key string) error
	Set(ctx context.Context, key string, value interface{}, exp time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
	// SetIfNewerVersion stores value unless the stored JSON document carries a greater "version".
	SetIfNewerVersion(ctx context.Context, key string, value interface{}, version int64) (bool, error)
	// DeleteIfEqual atomically removes key while it still holds value. found is false when the
	// key is absent; deleted is false when it holds something else.
	DeleteIfEqual(ctx context.Context, key string, value interface{}) (found bool, deleted bool, err error)
	IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error)
	Publish(ctx context.Context, channel string, message string) error
	Subscribe(ctx context.Context, channel string) (messages <-chan string, close func() error)
}
