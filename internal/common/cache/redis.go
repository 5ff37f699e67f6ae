// Package cache 提供 Redis 缓存功能
//
// 所有操作在 Redis 未连接时安全降级：读操作返回 ErrCacheMiss，
// 写操作静默跳过。服务层无需区分“缓存不可用”和“缓存未命中”。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/VladDeliar/PoS/internal/common/config"
	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

// ErrCacheMiss 缓存未命中（含 Redis 不可用的情况）
var ErrCacheMiss = errors.New("cache: miss")

// Init 初始化 Redis 连接
func Init(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb = redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb = nil
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	return rdb, nil
}

// SetClient 注入 Redis 客户端（测试用，可传入 miniredis 客户端）
func SetClient(c *redis.Client) {
	rdb = c
}

// GetClient 获取 Redis 客户端
func GetClient() *redis.Client {
	return rdb
}

// Enabled 缓存是否可用
func Enabled() bool {
	return rdb != nil
}

// Close 关闭 Redis 连接
func Close() error {
	if rdb != nil {
		return rdb.Close()
	}
	return nil
}

// Set 设置缓存
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if rdb == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return rdb.Set(ctx, key, data, expiration).Err()
}

// Get 获取缓存
func Get(ctx context.Context, key string, dest interface{}) error {
	if rdb == nil {
		return ErrCacheMiss
	}
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// GetString 获取字符串缓存
func GetString(ctx context.Context, key string) (string, error) {
	if rdb == nil {
		return "", ErrCacheMiss
	}
	s, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return s, err
}

// SetString 设置字符串缓存
func SetString(ctx context.Context, key string, value string, expiration time.Duration) error {
	if rdb == nil {
		return nil
	}
	return rdb.Set(ctx, key, value, expiration).Err()
}

// Delete 删除缓存
func Delete(ctx context.Context, keys ...string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// Exists 检查键是否存在
func Exists(ctx context.Context, key string) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	n, err := rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Expire 设置过期时间
func Expire(ctx context.Context, key string, expiration time.Duration) error {
	if rdb == nil {
		return nil
	}
	return rdb.Expire(ctx, key, expiration).Err()
}

// TTL 获取剩余过期时间
func TTL(ctx context.Context, key string) (time.Duration, error) {
	if rdb == nil {
		return 0, ErrCacheMiss
	}
	return rdb.TTL(ctx, key).Result()
}

// Incr 自增
func Incr(ctx context.Context, key string) (int64, error) {
	if rdb == nil {
		return 0, ErrCacheMiss
	}
	return rdb.Incr(ctx, key).Result()
}

// SetNX 设置如果不存在（分布式锁基础）
func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	return rdb.SetNX(ctx, key, value, expiration).Result()
}

// Publish 发布事件到频道
func Publish(ctx context.Context, channel string, payload interface{}) error {
	if rdb == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return rdb.Publish(ctx, channel, data).Err()
}

// Subscribe 订阅频道
func Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	if rdb == nil {
		return nil
	}
	return rdb.Subscribe(ctx, channels...)
}

// 常用缓存键与频道
const (
	KeyDeliveryZones  = "pos:cache:delivery_zones"
	KeyDeliveryCenter = "pos:cache:delivery_center"
	KeyCategories     = "pos:cache:categories"
	KeyMenuItems      = "pos:cache:menu_items"
	KeyModifiers      = "pos:cache:modifiers"
	KeyProductTags    = "pos:cache:product_tags"
	KeyPrefixOrder    = "pos:cache:order:"
	KeyPrefixLock     = "pos:lock:"
	KeyPrefixOrderSeq = "pos:seq:order:"

	ChannelOrders = "pos:orders:new"
)

// 缓存有效期
const (
	TTLDeliveryZones = 1800 * time.Second
	TTLCategories    = 3600 * time.Second
	TTLMenuItems     = 900 * time.Second
	TTLModifiers     = 7200 * time.Second
	TTLProductTags   = 7200 * time.Second
)

// BuildKey 构建缓存键
func BuildKey(prefix string, parts ...string) string {
	key := prefix
	for _, part := range parts {
		key += part + ":"
	}
	return key[:len(key)-1]
}
