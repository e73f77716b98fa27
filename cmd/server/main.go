package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"anoa.com/inventorybackend/internal/bootstrap"
	"anoa.com/inventorybackend/internal/config"
	"anoa.com/inventorybackend/internal/server"
	"anoa.com/inventorybackend/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient := newRedisClient(cfg.RedisURL)

	srv := server.NewServer(db, redisClient)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// newRedisClient returns nil when no Redis is configured or reachable.
// Redis only backs the otp resend limiter, so the app degrades instead
// of refusing to start.
func newRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, otp resend limiting disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL, otp resend limiting disabled: %v", err)
		return nil
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unreachable, otp resend limiting disabled: %v", err)
		return nil
	}

	return client
}
