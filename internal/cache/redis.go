package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bookstore-next/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "bk"
	pingTimeout      = 3 * time.Second
)

// store 进程内共享的 Redis 连接，未启用时为 nil
type store struct {
	client *redis.Client
	prefix string
}

var active *store

// InitRedis 连接 Redis 并校验可用性，失败时缓存保持关闭
func InitRedis(cfg *config.RedisConfig) error {
	active = nil
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("ping redis: %w", err)
	}
	active = &store{client: client, prefix: KeyPrefix(cfg)}
	return nil
}

// KeyPrefix 返回配置的键前缀
func KeyPrefix(cfg *config.RedisConfig) string {
	if cfg == nil {
		return defaultKeyPrefix
	}
	if prefix := strings.TrimSpace(cfg.Prefix); prefix != "" {
		return prefix
	}
	return defaultKeyPrefix
}

func redisAddr(host string, port int) string {
	host = strings.TrimSpace(host)
	if host == "" {
		host = "127.0.0.1"
	}
	if port <= 0 {
		port = 6379
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	return active != nil && active.client != nil
}

// Client 获取 Redis 客户端，未启用返回 nil
func Client() *redis.Client {
	if !Enabled() {
		return nil
	}
	return active.client
}

// Close 关闭 Redis 连接
func Close() error {
	if !Enabled() {
		return nil
	}
	err := active.client.Close()
	active = nil
	return err
}

// GetJSON 读取 JSON 缓存，未命中返回 false
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	raw, err := active.client.Get(ctx, buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// 损坏的缓存直接丢弃
		_ = active.client.Del(ctx, buildKey(key)).Err()
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return active.client.Set(ctx, buildKey(key), payload, ttl).Err()
}

// Del 删除缓存
func Del(ctx context.Context, keys ...string) error {
	if !Enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, key := range keys {
		full = append(full, buildKey(key))
	}
	return active.client.Del(ctx, full...).Err()
}

func buildKey(key string) string {
	prefix := defaultKeyPrefix
	if active != nil {
		prefix = active.prefix
	}
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return prefix
	}
	return prefix + ":" + trimmed
}
