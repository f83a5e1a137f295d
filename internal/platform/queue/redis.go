package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/config"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	fmt.Println("Successfully connected to Redis!")
}

// Enqueue pushes a job id onto the head of the named list; workers BRPOP
// from the tail.
func Enqueue(ctx context.Context, rdb *redis.Client, queueName, jobID string) error {
	if err := rdb.LPush(ctx, queueName, jobID).Err(); err != nil {
		return fmt.Errorf("enqueue job %s on %s: %w", jobID, queueName, err)
	}
	return nil
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		fmt.Println("Redis connection closed.")
	}
}
