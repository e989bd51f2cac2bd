package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/gomodule/redigo/redis"
	log "github.com/sirupsen/logrus"
)

// ConnGetter is satisfied by *redis.Pool.
type ConnGetter interface {
	GetContext(ctx context.Context) (redis.Conn, error)
}

type RedisStore struct {
	pool ConnGetter
	key  string
}

func NewRedisStore(pool ConnGetter, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{pool: pool, key: key}
}

func NewRedisPool(address string) *redis.Pool {
	return &redis.Pool{
		MaxIdle: 2,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", address)
		},
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", address)
		},
	}
}

func (r *RedisStore) Load(ctx context.Context) (Settings, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	blob, err := redis.Bytes(conn.Do("GET", r.key))
	if errors.Is(err, redis.ErrNil) {
		log.Debugf("No settings under %q in redis, using defaults", r.key)
		return Defaults(), nil
	}
	if err != nil {
		log.Errorf("failed to read settings from redis: %v", err)
		return Settings{}, err
	}
	return decode(blob)
}

func (r *RedisStore) Save(ctx context.Context, s Settings) error {
	blob, err := encode(s)
	if err != nil {
		return err
	}

	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Do("SET", r.key, blob); err != nil {
		log.Errorf("failed to write settings to redis: %v", err)
		return err
	}
	return nil
}
