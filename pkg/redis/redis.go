package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix = "privscore:session:"
	advicePrefix  = "privscore:advice:"

	maxUpdateRetries = 5
)

var (
	// ErrNotFound is returned when a key does not exist or has expired
	ErrNotFound = errors.New("key not found")
	// ErrConflict is returned when an optimistic update keeps losing to concurrent writers
	ErrConflict = errors.New("concurrent update conflict")
)

// SessionKey is where an assessment session lives
func SessionKey(id string) string { return sessionPrefix + id }

// AdviceKey is where the latest advice result of a session lives
func AdviceKey(id string) string { return advicePrefix + id }

// RedisClient wraps the go-redis client with JSON helpers
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects and pings Redis
func NewRedisClient(ctx context.Context, addr, password string, db int) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	log.Println("✅ Connected to Redis")
	return &RedisClient{client: rdb}, nil
}

// GetJSON decodes the value at key into dest
func (r *RedisClient) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON stores v at key with a TTL
func (r *RedisClient) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// UpdateJSON reads the value at key into dest (a pointer), lets fn change it and writes it
// back atomically. The write is retried when another client modifies the key in between.
func (r *RedisClient) UpdateJSON(ctx context.Context, key string, ttl time.Duration, dest interface{}, fn func() error) error {
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return fmt.Errorf("get %s: %w", key, err)
		}
		// a retry must not see fields left over from the previous attempt
		v := reflect.ValueOf(dest).Elem()
		v.Set(reflect.Zero(v.Type()))
		if err := json.Unmarshal(data, dest); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}

		if err := fn(); err != nil {
			return err
		}

		out, err := json.Marshal(dest)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			log.Printf("🔁 Retrying update of %s after concurrent write", key)
			continue
		}
		return err
	}
	return fmt.Errorf("%w on %s", ErrConflict, key)
}

// SetJSONIf writes v at key only while cond accepts the value at guardKey, decoded into guard.
// guardKey is watched, so a concurrent change to it reruns cond against the new value.
func (r *RedisClient) SetJSONIf(ctx context.Context, guardKey string, guard interface{}, cond func() error,
	key string, v interface{}, ttl time.Duration) error {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, guardKey).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return fmt.Errorf("get %s: %w", guardKey, err)
		}
		g := reflect.ValueOf(guard).Elem()
		g.Set(reflect.Zero(g.Type()))
		if err := json.Unmarshal(data, guard); err != nil {
			return fmt.Errorf("decode %s: %w", guardKey, err)
		}

		if err := cond(); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, guardKey)
		if errors.Is(err, redis.TxFailedErr) {
			log.Printf("🔁 Retrying write of %s after %s changed", key, guardKey)
			continue
		}
		return err
	}
	return fmt.Errorf("%w on %s", ErrConflict, guardKey)
}

// Delete removes keys
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete %v: %w", keys, err)
	}
	return nil
}

// Close closes the connection pool
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// HealthCheck pings Redis
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if _, err := r.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}
