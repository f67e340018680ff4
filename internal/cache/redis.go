package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vip-affiliates/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "vipaff"

// store 全局缓存句柄；未启用时所有操作均为空操作
type store struct {
	mu     sync.RWMutex
	client *redis.Client
	prefix string
}

var global = &store{prefix: defaultKeyPrefix}

// InitRedis 按配置创建 Redis 客户端，未启用时保持空操作模式
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		global.swap(nil, defaultKeyPrefix)
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	global.swap(client, prefix)
	return nil
}

func (s *store) swap(client *redis.Client, prefix string) *redis.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.client
	s.client = client
	s.prefix = prefix
	return previous
}

func (s *store) get() (*redis.Client, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client, s.prefix
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	client, _ := global.get()
	return client != nil
}

// Client 返回底层客户端，未启用时为 nil（限流中间件据此放行）
func Client() *redis.Client {
	client, _ := global.get()
	return client
}

// GetJSON 读取并反序列化缓存，未命中返回 false
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	client, prefix := global.get()
	if client == nil {
		return false, nil
	}
	raw, err := client.Get(ctx, joinKey(prefix, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 序列化写入缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	client, prefix := global.get()
	if client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, joinKey(prefix, key), payload, ttl).Err()
}

// GetInt 读取整数值，未命中或未启用时返回 0
func GetInt(ctx context.Context, key string) (int64, error) {
	client, prefix := global.get()
	if client == nil {
		return 0, nil
	}
	value, err := client.Get(ctx, joinKey(prefix, key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return value, err
}

// Incr 自增并返回新值，未启用时返回 0
func Incr(ctx context.Context, key string) (int64, error) {
	client, prefix := global.get()
	if client == nil {
		return 0, nil
	}
	return client.Incr(ctx, joinKey(prefix, key)).Result()
}

// Del 一次删除多个键
func Del(ctx context.Context, keys ...string) error {
	client, prefix := global.get()
	if client == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, key := range keys {
		full = append(full, joinKey(prefix, key))
	}
	return client.Del(ctx, full...).Err()
}

// Ping 检查 Redis 连通性
func Ping(ctx context.Context) error {
	client, _ := global.get()
	if client == nil {
		return nil
	}
	return client.Ping(ctx).Err()
}

// Close 关闭客户端并回到空操作模式
func Close() error {
	previous := global.swap(nil, defaultKeyPrefix)
	if previous == nil {
		return nil
	}
	return previous.Close()
}

func joinKey(prefix, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return prefix
	}
	return prefix + ":" + key
}
