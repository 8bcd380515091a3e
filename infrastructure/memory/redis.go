package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vigil-agent/vigil/domain/memory"
)

// Redis is a memory manager backed by Redis. History lives in a list
// trimmed to the configured limit; long-term entries are plain keys
// under the namespace.
type Redis struct {
	client    *redis.Client
	namespace string
	limit     int
	now       func() time.Time
}

// RedisConfig configures the Redis memory manager.
type RedisConfig struct {
	// Addr is the Redis server address.
	Addr string
	// Password authenticates against the server, if set.
	Password string
	// DB selects the database index.
	DB int
	// Namespace prefixes every key. Defaults to "vigil".
	Namespace string
	// HistoryLimit bounds the conversation history. Defaults to 50.
	HistoryLimit int
	// DialTimeout bounds the initial connection check.
	DialTimeout time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.Namespace == "" {
		cfg.Namespace = "vigil"
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisFromClient(client, cfg.Namespace, cfg.HistoryLimit), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, namespace string, historyLimit int) *Redis {
	if namespace == "" {
		namespace = "vigil"
	}
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Redis{
		client:    client,
		namespace: namespace,
		limit:     historyLimit,
		now:       time.Now,
	}
}

func (m *Redis) historyKey() string { return m.namespace + ":history" }

func (m *Redis) kvKey(key string) string { return m.namespace + ":kv:" + key }

// Write stores a long-term entry.
func (m *Redis) Write(ctx context.Context, key, value string) error {
	if err := m.client.Set(ctx, m.kvKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Read retrieves a long-term entry.
func (m *Redis) Read(ctx context.Context, key string) (string, bool, error) {
	v, err := m.client.Get(ctx, m.kvKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}
	return v, true, nil
}

// Append adds a message to the history list and trims it to the limit.
func (m *Redis) Append(ctx context.Context, role, content string) error {
	payload, err := json.Marshal(memory.Message{
		Role:    role,
		Content: content,
		At:      m.now(),
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pipe := m.client.TxPipeline()
	pipe.LPush(ctx, m.historyKey(), payload)
	pipe.LTrim(ctx, m.historyKey(), 0, int64(m.limit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns up to limit of the newest history entries, oldest
// first.
func (m *Redis) Recent(ctx context.Context, limit int) ([]memory.Message, error) {
	if limit <= 0 || limit > m.limit {
		limit = m.limit
	}

	raw, err := m.client.LRange(ctx, m.historyKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	// The list is newest-first; reverse into chronological order.
	out := make([]memory.Message, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var msg memory.Message
		if err := json.Unmarshal([]byte(raw[i]), &msg); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}

// Snapshot returns the recent history plus the sorted long-term keys.
func (m *Redis) Snapshot(ctx context.Context) (memory.Snapshot, error) {
	recent, err := m.Recent(ctx, 0)
	if err != nil {
		return memory.Snapshot{}, err
	}

	prefix := m.kvKey("")
	var keys []string
	iter := m.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return memory.Snapshot{}, fmt.Errorf("scan keys: %w", err)
	}
	sort.Strings(keys)

	return memory.Snapshot{Recent: recent, LongTermKeys: keys}, nil
}

// Ping checks the Redis connection.
func (m *Redis) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (m *Redis) Close() error {
	return m.client.Close()
}

var _ memory.Manager = (*Redis)(nil)
