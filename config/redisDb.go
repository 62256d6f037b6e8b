package config

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// OpenRedis builds the redis client and the distributed-lock client on top of
// it. Redis is optional: when REDIS_HOST is not set both return values are nil
// and every helper below degrades to a no-op.
func OpenRedis() (*redis.Client, *redislock.Client) {
	host := strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if host == "" {
		log.Printf("REDIS_HOST not set; response caching and sync locking are disabled")
		return nil, nil
	}
	port := strings.TrimSpace(os.Getenv("REDIS_PORT"))
	if port == "" {
		port = "6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("redis unreachable (%v); continuing without cache", err)
		return nil, nil
	}

	return rdb, redislock.New(rdb)
}

func GetRedisObject(rdb *redis.Client, key string, dest interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(context.Background(), key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func SetRedisObject(rdb *redis.Client, key string, obj interface{}, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	objInByte, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return rdb.Set(context.Background(), key, objInByte, exp).Err()
}

func RemoveRedisKey(rdb *redis.Client, key string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(context.Background(), key).Err()
}

func RemoveRedisKeysByPrefix(rdb *redis.Client, prefix string) error {
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	iter := rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
