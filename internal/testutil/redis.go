package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetTestRedisAddr returns the first reachable Redis address: REDIS_ADDR when
// set, then the usual compose/CI addresses, then the local test port.
func GetTestRedisAddr(t TestingTB) (string, bool) {
	t.Helper()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr, pingRedis(t, addr)
	}
	for _, candidate := range []string{"redis:6379", "localhost:6379", "localhost:56379"} {
		if pingRedis(t, candidate) {
			return candidate, true
		}
	}
	return "localhost:56379", false
}

func pingRedis(t TestingTB, addr string) bool {
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Logf("Redis not available at %s: %v", addr, err)
		return false
	}
	return true
}

// selectTestRedisDB picks TEST_REDIS_DB when set, otherwise reserves one of DBs
// 1..15 through a lock key in DB 0 so parallel packages do not flush each other.
func selectTestRedisDB(t TestingTB, addr string) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
		t.Logf("Invalid TEST_REDIS_DB=%q, falling back to auto-select", v)
	}

	meta := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
	defer meta.Close()

	for i := 1; i <= 15; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		lockKey := fmt.Sprintf("recipe-finder:testutil:db_lock:%d", i)
		lockVal := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
		ok, err := meta.SetNX(ctx, lockKey, lockVal, 30*time.Minute).Result()
		cancel()
		if err != nil || !ok {
			continue
		}

		registerCleanup(t, func() {
			c := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
			defer c.Close()
			cctx, ccancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer ccancel()
			if err := c.Del(cctx, lockKey).Err(); err != nil {
				t.Logf("warning: failed to release redis db lock %s: %v", lockKey, err)
			}
		})
		return i
	}

	t.Logf("Falling back to Redis DB=1 for tests at %s", addr)
	return 1
}

// SetupTestRedis returns a client on an emptied test DB.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr, ok := GetTestRedisAddr(t)
	if !ok {
		skipOrFail(t, requireRedis(), "Redis not available for testing at %s", addr)
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: selectTestRedisDB(t, addr)})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		skipOrFail(t, requireRedis(), "Redis not usable for testing at %s: %v", addr, err)
		return nil
	}
	return client
}
