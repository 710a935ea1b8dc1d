package redis

import (
	"context"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

var setIfNewerVersionScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current then
	local ok, doc = pcall(cjson.decode, current)
	if ok and type(doc) == "table" and doc.version and tonumber(doc.version) > tonumber(ARGV[2]) then
		return 0
	end
end
redis.call("SET", KEYS[1], ARGV[1])
return 1
`)

var deleteIfEqualScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if not current then
	return 0
end
if current ~= ARGV[1] then
	return -1
end
redis.call("DEL", KEYS[1])
return 1
`)

type redisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) contracts.RedisRepository {
	return &redisRepository{client: client}
}

func (r *redisRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return exceptions.ErrRedisDelete(err)
	}
	return nil
}

func (r *redisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	err = r.client.Set(ctx, key, jsonValue, exp).Err()
	if err != nil {
		return exceptions.ErrRedisSet(err)
	}
	return nil
}

// Get returns an empty string without error when the key does not exist.
func (r *redisRepository) Get(ctx context.Context, key string) (string, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", exceptions.ErrRedisGet(err)
	}
	return data, nil
}

func (r *redisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return false, exceptions.ErrCannotMarshalJSON(err)
	}

	acquired, err := r.client.SetNX(ctx, key, jsonValue, exp).Result()
	if err != nil {
		return false, exceptions.ErrRedisSet(err)
	}
	return acquired, nil
}

func (r *redisRepository) SetIfNewerVersion(ctx context.Context, key string, value interface{}, version int64) (bool, error) {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return false, exceptions.ErrCannotMarshalJSON(err)
	}

	applied, err := setIfNewerVersionScript.Run(ctx, r.client, []string{key}, jsonValue, version).Int()
	if err != nil {
		return false, exceptions.ErrRedisSet(err)
	}
	return applied == 1, nil
}

func (r *redisRepository) DeleteIfEqual(ctx context.Context, key string, value interface{}) (bool, bool, error) {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return false, false, exceptions.ErrCannotMarshalJSON(err)
	}

	outcome, err := deleteIfEqualScript.Run(ctx, r.client, []string{key}, jsonValue).Int()
	if err != nil {
		return false, false, exceptions.ErrRedisDelete(err)
	}
	return outcome != 0, outcome == 1, nil
}

// IncrementWithTTL increments key and sets its expiry on the first increment.
func (r *redisRepository) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, exceptions.ErrRedisSet(err)
	}
	return int(incr.Val()), nil
}

func (r *redisRepository) Publish(ctx context.Context, channel string, message string) error {
	err := r.client.Publish(ctx, channel, message).Err()
	if err != nil {
		return exceptions.ErrRedisPublish(err, channel)
	}
	return nil
}

func (r *redisRepository) Subscribe(ctx context.Context, channel string) (<-chan string, func() error) {
	pubsub := r.client.Subscribe(ctx, channel)
	messages := make(chan string)

	go func() {
		defer close(messages)
		for msg := range pubsub.Channel() {
			select {
			case messages <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return messages, pubsub.Close
}
