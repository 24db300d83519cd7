package db

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func NewRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "error connecting to Redis")
	}

	log.WithField("addr", addr).Info("Successfully connected to Redis")
	return client, nil
}

// RedisSlots stores each slot as a plain string key. A zero TTL keeps keys forever.
type RedisSlots struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisSlots(client redis.Cmdable, prefix string, ttl time.Duration) *RedisSlots {
	return &RedisSlots{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisSlots) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read slot %s from Redis", key)
	}
	return value, nil
}

func (r *RedisSlots) Set(ctx context.Context, key string, value []byte) error {
	err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err()
	return errors.Wrapf(err, "failed to write slot %s to Redis", key)
}

func (r *RedisSlots) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, r.prefix+key).Err()
	return errors.Wrapf(err, "failed to delete slot %s from Redis", key)
}
