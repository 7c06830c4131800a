// Package cache provides the Redis-backed wallet balance cache. Balances
// are cached on read and invalidated after every mutation; Redis being
// down degrades to database reads, never to wrong balances.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	balanceKeyPrefix = "wallet:balance:"
	balanceTTL       = 5 * time.Minute
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

type BalanceCache struct {
	client *redis.Client
}

func NewBalanceCache(client *redis.Client) *BalanceCache {
	return &BalanceCache{client: client}
}

func balanceKey(userID uint) string {
	return balanceKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}

// GetBalance returns the cached balance. redis.Nil maps to a miss.
func (c *BalanceCache) GetBalance(ctx context.Context, userID uint) (int64, bool, error) {
	val, err := c.client.Get(ctx, balanceKey(userID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	balance, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cached balance: %w", err)
	}
	return balance, true, nil
}

func (c *BalanceCache) SetBalance(ctx context.Context, userID uint, balance int64) error {
	return c.client.Set(ctx, balanceKey(userID), strconv.FormatInt(balance, 10), balanceTTL).Err()
}

func (c *BalanceCache) InvalidateWallet(ctx context.Context, userID uint) error {
	return c.client.Del(ctx, balanceKey(userID)).Err()
}

func (c *BalanceCache) Close() error {
	return c.client.Close()
}
